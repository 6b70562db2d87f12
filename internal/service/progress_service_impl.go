package service

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/plantrack/internal/db"
	"github.com/alexanderramin/plantrack/internal/domain"
	"github.com/alexanderramin/plantrack/internal/repository"
)

type progressService struct {
	uow db.UnitOfWork
}

func NewProgressService(uow db.UnitOfWork) ProgressService {
	return &progressService{uow: uow}
}

func (s *progressService) Recompute(ctx context.Context, milestoneID string) (*ProgressResult, error) {
	var result *ProgressResult
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		var txErr error
		result, txErr = recomputeMilestoneProgress(ctx,
			repository.NewSQLiteMilestoneRepo(tx),
			repository.NewSQLiteInitiativeRepo(tx),
			milestoneID)
		return txErr
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// recomputeMilestoneProgress rederives a milestone's completion percentage and
// status from its current initiatives and persists both. Every initiative
// counts toward the total, CANCELLED ones included, so a milestone only
// reaches COMPLETED when all of its work is actually done. A CANCELLED
// milestone is frozen and returned as-is. Callers pass tx-scoped repositories
// so the recompute lands in the same transaction as the change that triggered
// it.
func recomputeMilestoneProgress(ctx context.Context, milestones repository.MilestoneRepo, initiatives repository.InitiativeRepo, milestoneID string) (*ProgressResult, error) {
	m, err := milestones.GetByID(ctx, milestoneID)
	if err != nil {
		return nil, fmt.Errorf("loading milestone: %w", err)
	}
	if m.Status.IsTerminal() {
		return &ProgressResult{
			MilestoneID:       m.ID,
			CompletionPercent: m.CompletionPercent,
			Status:            m.Status,
		}, nil
	}

	list, err := initiatives.ListByMilestone(ctx, milestoneID)
	if err != nil {
		return nil, fmt.Errorf("loading initiatives: %w", err)
	}

	var completed int
	for _, i := range list {
		if i.Status == domain.StatusCompleted {
			completed++
		}
	}

	percent := domain.CompletionPercent(completed, len(list))
	status := domain.DeriveMilestoneStatus(percent)
	if err := milestones.UpdateProgress(ctx, milestoneID, percent, status, time.Now().UTC()); err != nil {
		return nil, fmt.Errorf("persisting milestone progress: %w", err)
	}

	return &ProgressResult{
		MilestoneID:       milestoneID,
		CompletionPercent: percent,
		Status:            status,
	}, nil
}
