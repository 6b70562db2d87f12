package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/alexanderramin/plantrack/internal/db"
	"github.com/alexanderramin/plantrack/internal/domain"
	"github.com/alexanderramin/plantrack/internal/importer"
	"github.com/alexanderramin/plantrack/internal/repository"
)

type importService struct {
	uow      db.UnitOfWork
	notifier NotificationService
}

func NewImportService(uow db.UnitOfWork, notifier NotificationService) ImportService {
	return &importService{uow: uow, notifier: notifier}
}

func (s *importService) ImportPlan(ctx context.Context, actor domain.Principal, filePath string) (*ImportResult, error) {
	schema, err := importer.LoadImportSchema(filePath)
	if err != nil {
		return nil, fmt.Errorf("loading import file: %w", err)
	}
	return s.ImportPlanFromSchema(ctx, actor, schema)
}

func (s *importService) ImportPlanFromSchema(ctx context.Context, actor domain.Principal, schema *importer.ImportSchema) (*ImportResult, error) {
	if PolicyFor(actor.Role) != CapEditAllFields {
		return nil, fmt.Errorf("importing plan: %w", ErrForbidden)
	}
	if errs := importer.ValidateImportSchema(schema); len(errs) > 0 {
		return nil, formatValidationErrors(errs)
	}

	generated, err := importer.Convert(schema)
	if err != nil {
		return nil, fmt.Errorf("converting import schema: %w", err)
	}

	assigned := make(map[string]bool)
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txUsers := repository.NewSQLiteUserRepo(tx)
		txPlans := repository.NewSQLitePlanRepo(tx)
		txMilestones := repository.NewSQLiteMilestoneRepo(tx)
		txInitiatives := repository.NewSQLiteInitiativeRepo(tx)
		txAudits := repository.NewSQLiteAuditLogRepo(tx)

		owner, err := resolveUserRef(ctx, txUsers, generated.OwnerRef)
		if err != nil {
			return fmt.Errorf("resolving owner: %w", err)
		}
		generated.Plan.OwnerID = owner.ID

		if err := txPlans.Create(ctx, generated.Plan); err != nil {
			return fmt.Errorf("creating plan: %w", err)
		}
		for _, m := range generated.Milestones {
			if err := txMilestones.Create(ctx, m); err != nil {
				return fmt.Errorf("creating milestone %q: %w", m.Title, err)
			}
		}
		for _, i := range generated.Initiatives {
			for _, ref := range generated.AssigneeRefs[i.ID] {
				u, err := resolveUserRef(ctx, txUsers, ref)
				if err != nil {
					return fmt.Errorf("resolving assignee for %q: %w", i.Title, err)
				}
				if u.Status != domain.UserActive {
					return fmt.Errorf("assignee %q: %w", u.Name, ErrInactiveAssignee)
				}
				i.AssigneeIDs = append(i.AssigneeIDs, u.ID)
				assigned[u.ID] = true
			}
			if err := txInitiatives.Create(ctx, i); err != nil {
				return fmt.Errorf("creating initiative %q: %w", i.Title, err)
			}
		}

		details := fmt.Sprintf("Imported plan %q with %d milestones and %d initiatives",
			generated.Plan.Title, len(generated.Milestones), len(generated.Initiatives))
		entry := newAuditLogEntry(actor, domain.ActionCreate, domain.EntityPlan, generated.Plan.ID,
			details, nil, strPtr(generated.Plan.Title))
		return txAudits.Append(ctx, entry)
	})
	if err != nil {
		return nil, err
	}

	entityType := domain.EntityPlan
	message := fmt.Sprintf("You were assigned work in imported plan %q", generated.Plan.Title)
	for userID := range assigned {
		_, _ = s.notifier.Notify(ctx, userID, domain.NotifyAssignment, message, &entityType, &generated.Plan.ID)
	}

	return &ImportResult{
		Plan:            generated.Plan,
		MilestoneCount:  len(generated.Milestones),
		InitiativeCount: len(generated.Initiatives),
	}, nil
}

// resolveUserRef matches a raw import reference against user IDs first, then
// names (case-insensitive).
func resolveUserRef(ctx context.Context, users repository.UserRepo, ref string) (*domain.User, error) {
	if u, err := users.GetByID(ctx, ref); err == nil {
		return u, nil
	}
	all, err := users.List(ctx, false)
	if err != nil {
		return nil, err
	}
	for _, u := range all {
		if strings.EqualFold(u.Name, ref) {
			return u, nil
		}
	}
	return nil, fmt.Errorf("user %q: %w", ref, repository.ErrNotFound)
}

func formatValidationErrors(errs []error) error {
	msg := fmt.Sprintf("import validation failed (%d errors):", len(errs))
	for _, e := range errs {
		msg += "\n  - " + e.Error()
	}
	return fmt.Errorf("%s", msg)
}
