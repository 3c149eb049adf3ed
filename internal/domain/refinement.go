package domain

import "time"

// Refinement is the archived outcome of one finished question session.
type Refinement struct {
	ID            string
	Theme         string
	FinalPrompt   string
	Source        PromptSource
	ActiveModules ActiveModules
	Transcript    []Turn
	CreatedAt     time.Time
}

// ShortID returns the first eight characters of the ID for display.
func (r *Refinement) ShortID() string {
	if len(r.ID) <= 8 {
		return r.ID
	}
	return r.ID[:8]
}
