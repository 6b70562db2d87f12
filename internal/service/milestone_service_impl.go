package service

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/plantrack/internal/db"
	"github.com/alexanderramin/plantrack/internal/domain"
	"github.com/alexanderramin/plantrack/internal/repository"
	"github.com/google/uuid"
)

type milestoneService struct {
	milestones repository.MilestoneRepo
	uow        db.UnitOfWork
}

func NewMilestoneService(milestones repository.MilestoneRepo, uow db.UnitOfWork) MilestoneService {
	return &milestoneService{milestones: milestones, uow: uow}
}

func (s *milestoneService) Create(ctx context.Context, actor domain.Principal, m *domain.Milestone) error {
	if PolicyFor(actor.Role) != CapEditAllFields {
		return fmt.Errorf("creating milestone: %w", ErrForbidden)
	}
	if m.Title == "" {
		return fmt.Errorf("milestone title is required")
	}

	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	if m.Status == "" {
		m.Status = domain.StatusPlanned
	}
	now := time.Now().UTC()
	m.CreatedAt = now
	m.UpdatedAt = now

	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		plan, err := repository.NewSQLitePlanRepo(tx).GetByID(ctx, m.PlanID)
		if err != nil {
			return fmt.Errorf("loading parent plan: %w", err)
		}
		if plan.Status.IsTerminal() {
			return fmt.Errorf("plan %q is cancelled: %w", plan.Title, ErrInvalidTransition)
		}

		if err := repository.NewSQLiteMilestoneRepo(tx).Create(ctx, m); err != nil {
			return fmt.Errorf("creating milestone: %w", err)
		}
		entry := newAuditLogEntry(actor, domain.ActionCreate, domain.EntityMilestone, m.ID,
			fmt.Sprintf("Created milestone %q in plan %q", m.Title, plan.Title), nil, strPtr(m.Title))
		return repository.NewSQLiteAuditLogRepo(tx).Append(ctx, entry)
	})
}

func (s *milestoneService) GetByID(ctx context.Context, id string) (*domain.Milestone, error) {
	return s.milestones.GetByID(ctx, id)
}

func (s *milestoneService) ListByPlan(ctx context.Context, planID string) ([]*domain.Milestone, error) {
	return s.milestones.ListByPlan(ctx, planID)
}

func (s *milestoneService) Update(ctx context.Context, actor domain.Principal, m *domain.Milestone) error {
	if PolicyFor(actor.Role) != CapEditAllFields {
		return fmt.Errorf("updating milestone: %w", ErrForbidden)
	}
	if m.Title == "" {
		return fmt.Errorf("milestone title is required")
	}

	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txMilestones := repository.NewSQLiteMilestoneRepo(tx)
		current, err := txMilestones.GetByID(ctx, m.ID)
		if err != nil {
			return fmt.Errorf("loading milestone: %w", err)
		}
		if !current.Status.CanTransitionTo(m.Status) {
			return fmt.Errorf("milestone %q is %s: %w", current.Title, current.Status, ErrInvalidTransition)
		}

		m.PlanID = current.PlanID
		m.CreatedAt = current.CreatedAt
		m.UpdatedAt = time.Now().UTC()
		if err := txMilestones.Update(ctx, m); err != nil {
			return fmt.Errorf("updating milestone: %w", err)
		}

		action := domain.ActionUpdate
		var oldValue, newValue *string
		details := fmt.Sprintf("Updated milestone %q", m.Title)
		if current.Status != m.Status {
			action = domain.ActionUpdateStatus
			oldValue = statusPtr(current.Status)
			newValue = statusPtr(m.Status)
			details = fmt.Sprintf("Updated milestone %q status", m.Title)
		}
		entry := newAuditLogEntry(actor, action, domain.EntityMilestone, m.ID, details, oldValue, newValue)
		return repository.NewSQLiteAuditLogRepo(tx).Append(ctx, entry)
	})
}

// Delete removes the milestone bottom-up in one transaction: assignee links
// and initiatives first, then the milestone row itself.
func (s *milestoneService) Delete(ctx context.Context, actor domain.Principal, id string) error {
	if PolicyFor(actor.Role) != CapEditAllFields {
		return fmt.Errorf("deleting milestone: %w", ErrForbidden)
	}

	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txMilestones := repository.NewSQLiteMilestoneRepo(tx)
		txInitiatives := repository.NewSQLiteInitiativeRepo(tx)

		m, err := txMilestones.GetByID(ctx, id)
		if err != nil {
			return fmt.Errorf("loading milestone: %w", err)
		}
		initiatives, err := txInitiatives.ListByMilestone(ctx, id)
		if err != nil {
			return fmt.Errorf("loading initiatives: %w", err)
		}

		if err := txInitiatives.DeleteByMilestone(ctx, id); err != nil {
			return fmt.Errorf("deleting initiatives: %w", err)
		}
		if err := txMilestones.Delete(ctx, id); err != nil {
			return fmt.Errorf("deleting milestone: %w", err)
		}

		details := fmt.Sprintf("Deleted milestone %q with %d initiatives", m.Title, len(initiatives))
		entry := newAuditLogEntry(actor, domain.ActionDelete, domain.EntityMilestone, id,
			details, strPtr(m.Title), nil)
		return repository.NewSQLiteAuditLogRepo(tx).Append(ctx, entry)
	})
}
