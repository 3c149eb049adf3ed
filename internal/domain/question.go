package domain

import "time"

// Question is one clarifying question issued to the user. A question is never
// mutated or reused after it has been issued.
type Question struct {
	ID               string   `json:"id"`
	Module           Module   `json:"module"`
	Category         string   `json:"category,omitempty"`
	Question         string   `json:"question"`
	Options          []string `json:"options"`
	Examples         []string `json:"examples"`
	AdaptationReason string   `json:"adaptation_reason,omitempty"`
}

// FirstExample returns the first example answer, or "" when there is none.
func (q Question) FirstExample() string {
	if len(q.Examples) == 0 {
		return ""
	}
	return q.Examples[0]
}

// Turn pairs an issued question with the answer the user gave.
type Turn struct {
	Question   Question  `json:"question"`
	Response   string    `json:"response"`
	AnsweredAt time.Time `json:"answered_at"`
}
