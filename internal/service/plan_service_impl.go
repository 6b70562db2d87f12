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

type planService struct {
	plans    repository.PlanRepo
	uow      db.UnitOfWork
	notifier NotificationService
	observer UseCaseObserver
}

func NewPlanService(plans repository.PlanRepo, uow db.UnitOfWork, notifier NotificationService, observers ...UseCaseObserver) PlanService {
	return &planService{
		plans:    plans,
		uow:      uow,
		notifier: notifier,
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *planService) Create(ctx context.Context, actor domain.Principal, p *domain.Plan) error {
	if PolicyFor(actor.Role) != CapEditAllFields {
		return fmt.Errorf("creating plan: %w", ErrForbidden)
	}

	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	if p.Status == "" {
		p.Status = domain.StatusPlanned
	}
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now
	if err := p.Validate(); err != nil {
		return fmt.Errorf("validating plan: %w", err)
	}

	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		if err := repository.NewSQLitePlanRepo(tx).Create(ctx, p); err != nil {
			return fmt.Errorf("creating plan: %w", err)
		}
		entry := newAuditLogEntry(actor, domain.ActionCreate, domain.EntityPlan, p.ID,
			fmt.Sprintf("Created plan %q", p.Title), nil, strPtr(p.Title))
		return repository.NewSQLiteAuditLogRepo(tx).Append(ctx, entry)
	})
	if err != nil {
		return err
	}

	// Tell the owner, unless they created the plan themselves.
	if p.OwnerID != actor.UserID {
		entityType := domain.EntityPlan
		message := fmt.Sprintf("You are the owner of the new plan %q", p.Title)
		if _, err := s.notifier.Notify(ctx, p.OwnerID, domain.NotifyInfo, message, &entityType, &p.ID); err != nil {
			s.observer.ObserveUseCase(ctx, UseCaseEvent{
				Name:    "plan-owner-notify",
				Success: false,
				Err:     err,
				Fields:  map[string]any{"user_id": p.OwnerID, "plan_id": p.ID},
			})
		}
	}
	return nil
}

func (s *planService) GetByID(ctx context.Context, id string) (*domain.Plan, error) {
	return s.plans.GetByID(ctx, id)
}

func (s *planService) List(ctx context.Context) ([]*domain.Plan, error) {
	return s.plans.List(ctx)
}

func (s *planService) ListByOwner(ctx context.Context, ownerID string) ([]*domain.Plan, error) {
	return s.plans.ListByOwner(ctx, ownerID)
}

func (s *planService) Update(ctx context.Context, actor domain.Principal, p *domain.Plan) error {
	if PolicyFor(actor.Role) != CapEditAllFields {
		return fmt.Errorf("updating plan: %w", ErrForbidden)
	}
	if err := p.Validate(); err != nil {
		return fmt.Errorf("validating plan: %w", err)
	}

	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txPlans := repository.NewSQLitePlanRepo(tx)
		current, err := txPlans.GetByID(ctx, p.ID)
		if err != nil {
			return fmt.Errorf("loading plan: %w", err)
		}
		if !current.Status.CanTransitionTo(p.Status) {
			return fmt.Errorf("plan %q is %s: %w", current.Title, current.Status, ErrInvalidTransition)
		}

		p.CreatedAt = current.CreatedAt
		p.UpdatedAt = time.Now().UTC()
		if err := txPlans.Update(ctx, p); err != nil {
			return fmt.Errorf("updating plan: %w", err)
		}

		action := domain.ActionUpdate
		var oldValue, newValue *string
		details := fmt.Sprintf("Updated plan %q", p.Title)
		if current.Status != p.Status {
			action = domain.ActionUpdateStatus
			oldValue = statusPtr(current.Status)
			newValue = statusPtr(p.Status)
			details = fmt.Sprintf("Updated plan %q status", p.Title)
		}
		entry := newAuditLogEntry(actor, action, domain.EntityPlan, p.ID, details, oldValue, newValue)
		return repository.NewSQLiteAuditLogRepo(tx).Append(ctx, entry)
	})
}

// Delete removes a plan and its whole subtree bottom-up in one transaction:
// assignee links and initiatives first, then milestones, then the plan.
func (s *planService) Delete(ctx context.Context, actor domain.Principal, id string) error {
	if PolicyFor(actor.Role) != CapEditAllFields {
		return fmt.Errorf("deleting plan: %w", ErrForbidden)
	}

	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txPlans := repository.NewSQLitePlanRepo(tx)
		txMilestones := repository.NewSQLiteMilestoneRepo(tx)
		txInitiatives := repository.NewSQLiteInitiativeRepo(tx)
		txAudits := repository.NewSQLiteAuditLogRepo(tx)

		plan, err := txPlans.GetByID(ctx, id)
		if err != nil {
			return fmt.Errorf("loading plan: %w", err)
		}

		milestones, err := txMilestones.ListByPlan(ctx, id)
		if err != nil {
			return fmt.Errorf("loading milestones: %w", err)
		}
		var initiativeCount int
		for _, m := range milestones {
			initiatives, err := txInitiatives.ListByMilestone(ctx, m.ID)
			if err != nil {
				return fmt.Errorf("loading initiatives for milestone %q: %w", m.Title, err)
			}
			initiativeCount += len(initiatives)
			if err := txInitiatives.DeleteByMilestone(ctx, m.ID); err != nil {
				return fmt.Errorf("deleting initiatives for milestone %q: %w", m.Title, err)
			}
			if err := txMilestones.Delete(ctx, m.ID); err != nil {
				return fmt.Errorf("deleting milestone %q: %w", m.Title, err)
			}
		}
		if err := txPlans.Delete(ctx, id); err != nil {
			return fmt.Errorf("deleting plan: %w", err)
		}

		details := fmt.Sprintf("Deleted plan %q with %d milestones and %d initiatives",
			plan.Title, len(milestones), initiativeCount)
		entry := newAuditLogEntry(actor, domain.ActionDelete, domain.EntityPlan, id,
			details, strPtr(plan.Title), nil)
		return txAudits.Append(ctx, entry)
	})
}
