package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/alexanderramin/aiscribe/internal/db"
	"github.com/alexanderramin/aiscribe/internal/domain"
	"github.com/alexanderramin/aiscribe/internal/repository"
)

type historyService struct {
	refinements repository.RefinementRepo
	uow         db.UnitOfWork
	observer    UseCaseObserver
}

func NewHistoryService(refinements repository.RefinementRepo, uow db.UnitOfWork, observers ...UseCaseObserver) HistoryService {
	return &historyService{
		refinements: refinements,
		uow:         uow,
		observer:    useCaseObserverOrNoop(observers),
	}
}

func (s *historyService) List(ctx context.Context, limit int) ([]repository.RefinementSummary, error) {
	return s.refinements.List(ctx, limit)
}

func (s *historyService) Get(ctx context.Context, id string) (*domain.Refinement, error) {
	id = strings.TrimSpace(id)
	ref, err := s.refinements.GetByID(ctx, id)
	if err == nil {
		return ref, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	return s.refinements.GetByPrefix(ctx, id)
}

func (s *historyService) Delete(ctx context.Context, id string) (err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"id": id}
	defer observe(ctx, s.observer, "history-delete", startedAt, fields, &err)

	id = strings.TrimSpace(id)
	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txRepo := repository.NewSQLiteRefinementRepo(tx)
		ref, err := txRepo.GetByID(ctx, id)
		if errors.Is(err, repository.ErrNotFound) {
			ref, err = txRepo.GetByPrefix(ctx, id)
		}
		if err != nil {
			return err
		}
		fields["id"] = ref.ID
		return txRepo.Delete(ctx, ref.ID)
	})
}
