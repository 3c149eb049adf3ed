package testutil

import (
	"fmt"
	"time"

	"github.com/alexanderramin/aiscribe/internal/domain"
	"github.com/google/uuid"
)

// Refinement options
type RefinementOption func(*domain.Refinement)

func WithCreatedAt(t time.Time) RefinementOption {
	return func(r *domain.Refinement) {
		r.CreatedAt = t
	}
}

func WithID(id string) RefinementOption {
	return func(r *domain.Refinement) {
		r.ID = id
	}
}

func WithSource(s domain.PromptSource) RefinementOption {
	return func(r *domain.Refinement) {
		r.Source = s
	}
}

func WithTurns(turns ...domain.Turn) RefinementOption {
	return func(r *domain.Refinement) {
		r.Transcript = turns
	}
}

// NewTestRefinement builds a finished refinement with one active module and
// a single answered character question.
func NewTestRefinement(theme string, opts ...RefinementOption) *domain.Refinement {
	now := time.Now().UTC().Truncate(time.Millisecond)
	r := &domain.Refinement{
		ID:          uuid.New().String(),
		Theme:       theme,
		FinalPrompt: theme + ", cinematic lighting",
		Source:      domain.SourceLLM,
		ActiveModules: domain.ActiveModules{
			domain.ModuleCharacter:  {Active: true},
			domain.ModuleSetting:    {Active: false},
			domain.ModuleAtmosphere: {Active: false},
			domain.ModuleAction:     {Active: false},
		},
		Transcript: []domain.Turn{NewTestTurn(domain.ModuleCharacter, 1, "a tall knight")},
		CreatedAt:  now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// NewTestTurn builds an answered question for module m.
func NewTestTurn(m domain.Module, n int, response string) domain.Turn {
	return domain.Turn{
		Question: domain.Question{
			ID:       fmt.Sprintf("q_%d", n),
			Module:   m,
			Category: "appearance",
			Question: fmt.Sprintf("Question %d about %s?", n, m),
			Options:  []string{"first", "second"},
			Examples: []string{"an example"},
		},
		Response:   response,
		AnsweredAt: time.Now().UTC().Truncate(time.Millisecond),
	}
}
