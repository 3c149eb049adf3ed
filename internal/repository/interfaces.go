package repository

import (
	"context"
	"time"

	"github.com/alexanderramin/aiscribe/internal/domain"
)

// RefinementSummary is the list view of an archived refinement.
type RefinementSummary struct {
	ID            string
	Theme         string
	FinalPrompt   string
	Source        domain.PromptSource
	QuestionCount int
	CreatedAt     time.Time
}

// ShortID returns the first eight characters of the ID.
func (s RefinementSummary) ShortID() string {
	if len(s.ID) <= 8 {
		return s.ID
	}
	return s.ID[:8]
}

type RefinementRepo interface {
	// Create inserts the refinement header and every transcript turn. Callers
	// run it inside a transaction so a partial archive is never visible.
	Create(ctx context.Context, r *domain.Refinement) error
	GetByID(ctx context.Context, id string) (*domain.Refinement, error)
	// GetByPrefix resolves a unique ID prefix.
	GetByPrefix(ctx context.Context, prefix string) (*domain.Refinement, error)
	// List returns the most recent refinements first. limit <= 0 means no limit.
	List(ctx context.Context, limit int) ([]RefinementSummary, error)
	Delete(ctx context.Context, id string) error
}
