// Package session tracks one question-and-answer interaction: which modules
// are active, how far each has progressed, and every recorded answer.
//
// A Session has a single owner and is not safe for concurrent use.
package session

import (
	"time"

	"github.com/alexanderramin/aiscribe/internal/domain"
)

// Progress counts answered questions against a module's question budget.
type Progress struct {
	Completed int `json:"completed"`
	Total     int `json:"total"`
}

// Remaining returns how many questions are still expected for the module.
func (p Progress) Remaining() int {
	if p.Completed >= p.Total {
		return 0
	}
	return p.Total - p.Completed
}

// State is the externally observable shape of a session.
type State struct {
	ActiveModules   domain.ActiveModules       `json:"active_modules"`
	Responses       map[string]string          `json:"responses"`
	Progress        map[domain.Module]Progress `json:"progress"`
	QuestionHistory []domain.Turn              `json:"question_history"`
}

// Session owns the mutable state of one interaction.
type Session struct {
	state State
	now   func() time.Time
}

// New returns an empty session.
func New() *Session {
	s := &Session{now: time.Now}
	s.Reset()
	return s
}

// Reset discards everything recorded so far.
func (s *Session) Reset() {
	s.state = State{
		ActiveModules:   domain.ActiveModules{},
		Responses:       map[string]string{},
		Progress:        map[domain.Module]Progress{},
		QuestionHistory: []domain.Turn{},
	}
}

// Initialize replaces the session state with one built from suggestions.
// Every active module gets a progress entry whose total is the number of
// standard questions for it; responses and history are cleared.
func (s *Session) Initialize(suggestions domain.ModuleSuggestions) {
	s.Reset()
	if suggestions.ActiveModules != nil {
		s.state.ActiveModules = suggestions.ActiveModules.Clone()
	}
	for m, status := range s.state.ActiveModules {
		if !status.Active {
			continue
		}
		s.state.Progress[m] = Progress{Total: len(suggestions.StandardQuestions[m])}
	}
}

// Record appends an answered question to the history. When the question's
// module is tracked its completed count goes up by one, never past total.
func (s *Session) Record(q domain.Question, answer string) domain.Turn {
	turn := domain.Turn{
		Question:   copyQuestion(q),
		Response:   answer,
		AnsweredAt: s.now(),
	}
	s.state.QuestionHistory = append(s.state.QuestionHistory, turn)
	s.state.Responses[q.ID] = answer

	if p, ok := s.state.Progress[q.Module]; ok {
		if p.Completed < p.Total {
			p.Completed++
		}
		s.state.Progress[q.Module] = p
	}
	return turn
}

// State returns a snapshot that later mutations of s do not affect.
func (s *Session) State() State {
	out := State{
		ActiveModules:   s.state.ActiveModules.Clone(),
		Responses:       make(map[string]string, len(s.state.Responses)),
		Progress:        make(map[domain.Module]Progress, len(s.state.Progress)),
		QuestionHistory: s.History(),
	}
	for k, v := range s.state.Responses {
		out.Responses[k] = v
	}
	for k, v := range s.state.Progress {
		out.Progress[k] = v
	}
	return out
}

// History returns the recorded turns, oldest first.
func (s *Session) History() []domain.Turn {
	out := make([]domain.Turn, len(s.state.QuestionHistory))
	for i, t := range s.state.QuestionHistory {
		t.Question = copyQuestion(t.Question)
		out[i] = t
	}
	return out
}

// ModuleProgress returns the progress of m and whether m is tracked.
func (s *Session) ModuleProgress(m domain.Module) (Progress, bool) {
	p, ok := s.state.Progress[m]
	return p, ok
}

// RemainingModules lists tracked modules that still expect questions, in
// canonical module order.
func (s *Session) RemainingModules() []domain.Module {
	var out []domain.Module
	for _, m := range domain.ElaborationModules {
		if p, ok := s.state.Progress[m]; ok && p.Remaining() > 0 {
			out = append(out, m)
		}
	}
	return out
}

// CompletedQuestions returns the number of recorded answers.
func (s *Session) CompletedQuestions() int {
	return len(s.state.QuestionHistory)
}

func copyQuestion(q domain.Question) domain.Question {
	q.Options = append([]string(nil), q.Options...)
	q.Examples = append([]string(nil), q.Examples...)
	return q
}
