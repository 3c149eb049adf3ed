package service

import (
	"context"

	"github.com/alexanderramin/aiscribe/internal/domain"
	"github.com/alexanderramin/aiscribe/internal/repository"
)

type RefinementService interface {
	// Preview analyzes prompt and suggests modules without starting a session.
	Preview(ctx context.Context, prompt string) (*Preview, error)
	// Start analyzes prompt, initializes a session and issues the first question.
	Start(ctx context.Context, prompt string) (*Refinement, error)
	// Answer records an answer to the current question and, unless the
	// question cap is reached, issues the next one. If ctx ends after the
	// answer was recorded, the error is returned with no open question and
	// the refinement can only be finished.
	Answer(ctx context.Context, r *Refinement, answer string) error
	// Finish synthesizes the final prompt. The result is computed once per
	// refinement; later calls return it unchanged.
	Finish(ctx context.Context, r *Refinement) (*domain.Refinement, error)
}

type HistoryService interface {
	List(ctx context.Context, limit int) ([]repository.RefinementSummary, error)
	// Get resolves a full ID or a unique ID prefix.
	Get(ctx context.Context, id string) (*domain.Refinement, error)
	Delete(ctx context.Context, id string) error
}
