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

type initiativeService struct {
	initiatives repository.InitiativeRepo
	uow         db.UnitOfWork
	notifier    NotificationService
	observer    UseCaseObserver
}

func NewInitiativeService(initiatives repository.InitiativeRepo, uow db.UnitOfWork, notifier NotificationService, observers ...UseCaseObserver) InitiativeService {
	return &initiativeService{
		initiatives: initiatives,
		uow:         uow,
		notifier:    notifier,
		observer:    useCaseObserverOrNoop(observers),
	}
}

func (s *initiativeService) Create(ctx context.Context, actor domain.Principal, i *domain.Initiative) error {
	if PolicyFor(actor.Role) != CapEditAllFields {
		return fmt.Errorf("creating initiative: %w", ErrForbidden)
	}
	if i.Title == "" {
		return fmt.Errorf("initiative title is required")
	}
	if len(i.AssigneeIDs) == 0 {
		return fmt.Errorf("creating initiative: %w", ErrNoAssignees)
	}

	if i.ID == "" {
		i.ID = uuid.New().String()
	}
	if i.Status == "" {
		i.Status = domain.StatusPlanned
	}
	now := time.Now().UTC()
	i.CreatedAt = now
	i.UpdatedAt = now

	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		milestone, err := repository.NewSQLiteMilestoneRepo(tx).GetByID(ctx, i.MilestoneID)
		if err != nil {
			return fmt.Errorf("loading parent milestone: %w", err)
		}
		if milestone.Status.IsTerminal() {
			return fmt.Errorf("milestone %q is cancelled: %w", milestone.Title, ErrInvalidTransition)
		}
		if err := validateAssignees(ctx, repository.NewSQLiteUserRepo(tx), i.AssigneeIDs); err != nil {
			return err
		}

		txInitiatives := repository.NewSQLiteInitiativeRepo(tx)
		if err := txInitiatives.Create(ctx, i); err != nil {
			return fmt.Errorf("creating initiative: %w", err)
		}

		// A new initiative dilutes its milestone's progress.
		if _, err := recomputeMilestoneProgress(ctx,
			repository.NewSQLiteMilestoneRepo(tx), txInitiatives, i.MilestoneID); err != nil {
			return err
		}

		entry := newAuditLogEntry(actor, domain.ActionCreate, domain.EntityInitiative, i.ID,
			fmt.Sprintf("Created initiative %q in milestone %q", i.Title, milestone.Title), nil, strPtr(i.Title))
		return repository.NewSQLiteAuditLogRepo(tx).Append(ctx, entry)
	})
	if err != nil {
		return err
	}

	s.notifyAssignment(ctx, i, i.AssigneeIDs)
	return nil
}

func (s *initiativeService) GetByID(ctx context.Context, id string) (*domain.Initiative, error) {
	return s.initiatives.GetByID(ctx, id)
}

func (s *initiativeService) ListByMilestone(ctx context.Context, milestoneID string) ([]*domain.Initiative, error) {
	return s.initiatives.ListByMilestone(ctx, milestoneID)
}

func (s *initiativeService) ListByAssignee(ctx context.Context, userID string) ([]*domain.Initiative, error) {
	return s.initiatives.ListByAssignee(ctx, userID)
}

func (s *initiativeService) Update(ctx context.Context, actor domain.Principal, i *domain.Initiative) error {
	capability := PolicyFor(actor.Role)
	if capability == CapRead {
		return fmt.Errorf("updating initiative: %w", ErrForbidden)
	}
	if len(i.AssigneeIDs) == 0 {
		return fmt.Errorf("updating initiative: %w", ErrNoAssignees)
	}

	var newlyAssigned []string
	var ownerToNotify string
	var oldStatus domain.Status
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txInitiatives := repository.NewSQLiteInitiativeRepo(tx)
		current, err := txInitiatives.GetByID(ctx, i.ID)
		if err != nil {
			return fmt.Errorf("loading initiative: %w", err)
		}
		if !current.Status.CanTransitionTo(i.Status) {
			return fmt.Errorf("initiative %q is %s: %w", current.Title, current.Status, ErrInvalidTransition)
		}

		if capability == CapEditStatusOnly {
			if !current.HasAssignee(actor.UserID) {
				return fmt.Errorf("updating initiative %q: %w", current.Title, ErrForbidden)
			}
			if changesNonStatusFields(current, i) {
				return fmt.Errorf("only status may be changed: %w", ErrForbidden)
			}
		}

		newlyAssigned = diffAssignees(current.AssigneeIDs, i.AssigneeIDs)
		if len(newlyAssigned) > 0 || len(i.AssigneeIDs) != len(current.AssigneeIDs) {
			if err := validateAssignees(ctx, repository.NewSQLiteUserRepo(tx), i.AssigneeIDs); err != nil {
				return err
			}
			if err := txInitiatives.ReplaceAssignees(ctx, i.ID, i.AssigneeIDs); err != nil {
				return fmt.Errorf("replacing assignees: %w", err)
			}
		}

		i.MilestoneID = current.MilestoneID
		i.CreatedAt = current.CreatedAt
		i.UpdatedAt = time.Now().UTC()
		if err := txInitiatives.Update(ctx, i); err != nil {
			return fmt.Errorf("updating initiative: %w", err)
		}

		action := domain.ActionUpdate
		var oldValue, newValue *string
		details := fmt.Sprintf("Updated initiative %q", i.Title)
		if current.Status != i.Status {
			action = domain.ActionUpdateStatus
			oldValue = statusPtr(current.Status)
			newValue = statusPtr(i.Status)
			details = fmt.Sprintf("Updated initiative %q status", i.Title)

			// Status changes ripple into the parent milestone's progress.
			txMilestones := repository.NewSQLiteMilestoneRepo(tx)
			if _, err := recomputeMilestoneProgress(ctx, txMilestones, txInitiatives, current.MilestoneID); err != nil {
				return err
			}
			milestone, err := txMilestones.GetByID(ctx, current.MilestoneID)
			if err != nil {
				return fmt.Errorf("loading parent milestone: %w", err)
			}
			plan, err := repository.NewSQLitePlanRepo(tx).GetByID(ctx, milestone.PlanID)
			if err != nil {
				return fmt.Errorf("loading plan for milestone %q: %w", milestone.Title, err)
			}
			ownerToNotify = plan.OwnerID
			oldStatus = current.Status
		}
		entry := newAuditLogEntry(actor, action, domain.EntityInitiative, i.ID, details, oldValue, newValue)
		return repository.NewSQLiteAuditLogRepo(tx).Append(ctx, entry)
	})
	if err != nil {
		return err
	}

	s.notifyAssignment(ctx, i, newlyAssigned)

	// The plan owner hears about status movement they did not make themselves.
	if ownerToNotify != "" && ownerToNotify != actor.UserID {
		entityType := domain.EntityInitiative
		message := fmt.Sprintf("Initiative %q moved from %s to %s", i.Title, oldStatus, i.Status)
		if _, err := s.notifier.Notify(ctx, ownerToNotify, domain.NotifyStatusUpdate, message, &entityType, &i.ID); err != nil {
			s.observer.ObserveUseCase(ctx, UseCaseEvent{
				Name:    "status-notify",
				Success: false,
				Err:     err,
				Fields:  map[string]any{"user_id": ownerToNotify, "initiative_id": i.ID},
			})
		}
	}
	return nil
}

// notifyAssignment pushes an ASSIGNMENT notification to each listed user
// after the surrounding transaction has committed. Best effort only.
func (s *initiativeService) notifyAssignment(ctx context.Context, i *domain.Initiative, userIDs []string) {
	entityType := domain.EntityInitiative
	message := fmt.Sprintf("You were assigned to initiative %q", i.Title)
	for _, userID := range userIDs {
		if _, err := s.notifier.Notify(ctx, userID, domain.NotifyAssignment, message, &entityType, &i.ID); err != nil {
			s.observer.ObserveUseCase(ctx, UseCaseEvent{
				Name:    "assignment-notify",
				Success: false,
				Err:     err,
				Fields:  map[string]any{"user_id": userID, "initiative_id": i.ID},
			})
		}
	}
}

// validateAssignees rejects assignment sets referencing unknown or inactive
// users.
func validateAssignees(ctx context.Context, users repository.UserRepo, userIDs []string) error {
	for _, userID := range userIDs {
		u, err := users.GetByID(ctx, userID)
		if err != nil {
			return fmt.Errorf("loading assignee %s: %w", userID, err)
		}
		if u.Status != domain.UserActive {
			return fmt.Errorf("assignee %q: %w", u.Name, ErrInactiveAssignee)
		}
	}
	return nil
}

// diffAssignees returns the user IDs present in next but not in prev.
func diffAssignees(prev, next []string) []string {
	seen := make(map[string]bool, len(prev))
	for _, id := range prev {
		seen[id] = true
	}
	var added []string
	for _, id := range next {
		if !seen[id] {
			added = append(added, id)
		}
	}
	return added
}

func changesNonStatusFields(current, next *domain.Initiative) bool {
	if next.Title != current.Title || next.Description != current.Description {
		return true
	}
	if len(diffAssignees(current.AssigneeIDs, next.AssigneeIDs)) > 0 {
		return true
	}
	return len(next.AssigneeIDs) != len(current.AssigneeIDs)
}
