package service

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/plantrack/internal/db"
	"github.com/alexanderramin/plantrack/internal/domain"
	"github.com/alexanderramin/plantrack/internal/repository"
)

type cascadeService struct {
	plans       repository.PlanRepo
	milestones  repository.MilestoneRepo
	initiatives repository.InitiativeRepo
	uow         db.UnitOfWork
	notifier    NotificationService
	observer    UseCaseObserver
}

func NewCascadeService(
	plans repository.PlanRepo,
	milestones repository.MilestoneRepo,
	initiatives repository.InitiativeRepo,
	uow db.UnitOfWork,
	notifier NotificationService,
	observers ...UseCaseObserver,
) CascadeService {
	return &cascadeService{
		plans:       plans,
		milestones:  milestones,
		initiatives: initiatives,
		uow:         uow,
		notifier:    notifier,
		observer:    useCaseObserverOrNoop(observers),
	}
}

func (s *cascadeService) Preview(ctx context.Context, rootID string, kind RootKind) (*CascadePreview, error) {
	switch kind {
	case RootPlan:
		return s.previewPlan(ctx, rootID)
	case RootMilestone:
		return s.previewMilestone(ctx, rootID)
	default:
		return nil, fmt.Errorf("%w: unsupported root kind %q", ErrInvalidTransition, kind)
	}
}

func (s *cascadeService) previewPlan(ctx context.Context, planID string) (*CascadePreview, error) {
	plan, err := s.plans.GetByID(ctx, planID)
	if err != nil {
		return nil, fmt.Errorf("loading plan: %w", err)
	}

	preview := &CascadePreview{
		RootID:             plan.ID,
		RootTitle:          plan.Title,
		RootStatus:         plan.Status,
		IsAlreadyCancelled: plan.Status == domain.StatusCancelled,
	}
	if preview.IsAlreadyCancelled {
		return preview, nil
	}

	milestones, err := s.milestones.ListByPlan(ctx, planID)
	if err != nil {
		return nil, fmt.Errorf("loading milestones: %w", err)
	}
	for _, m := range milestones {
		if err := s.collectMilestone(ctx, m, preview); err != nil {
			return nil, err
		}
	}
	return preview, nil
}

func (s *cascadeService) previewMilestone(ctx context.Context, milestoneID string) (*CascadePreview, error) {
	m, err := s.milestones.GetByID(ctx, milestoneID)
	if err != nil {
		return nil, fmt.Errorf("loading milestone: %w", err)
	}

	preview := &CascadePreview{
		RootID:             m.ID,
		RootTitle:          m.Title,
		RootStatus:         m.Status,
		IsAlreadyCancelled: m.Status == domain.StatusCancelled,
	}
	if preview.IsAlreadyCancelled {
		return preview, nil
	}

	initiatives, err := s.initiatives.ListByMilestone(ctx, m.ID)
	if err != nil {
		return nil, fmt.Errorf("loading initiatives for milestone %q: %w", m.Title, err)
	}
	for _, i := range initiatives {
		if i.Status == domain.StatusCancelled {
			continue
		}
		preview.InitiativesCount++
		preview.InitiativeNames = append(preview.InitiativeNames, i.Title)
	}
	return preview, nil
}

// collectMilestone adds a milestone and its cancellable initiatives to the
// preview. Descendants already CANCELLED are invisible to the cascade.
func (s *cascadeService) collectMilestone(ctx context.Context, m *domain.Milestone, preview *CascadePreview) error {
	if m.Status == domain.StatusCancelled {
		return nil
	}
	preview.MilestonesCount++
	preview.MilestoneNames = append(preview.MilestoneNames, m.Title)

	initiatives, err := s.initiatives.ListByMilestone(ctx, m.ID)
	if err != nil {
		return fmt.Errorf("loading initiatives for milestone %q: %w", m.Title, err)
	}
	for _, i := range initiatives {
		if i.Status == domain.StatusCancelled {
			continue
		}
		preview.InitiativesCount++
		preview.InitiativeNames = append(preview.InitiativeNames, i.Title)
	}
	return nil
}

func (s *cascadeService) Cancel(ctx context.Context, actor domain.Principal, rootID string, kind RootKind) (summary *CascadeSummary, err error) {
	if PolicyFor(actor.Role) != CapEditAllFields {
		return nil, fmt.Errorf("cancelling %s: %w", kind, ErrForbidden)
	}

	startedAt := time.Now()
	defer func() {
		s.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:      "cascade-cancel",
			StartedAt: startedAt,
			Duration:  time.Since(startedAt),
			Success:   err == nil,
			Err:       err,
			Fields:    map[string]any{"root_id": rootID, "root_kind": string(kind)},
		})
	}()

	var targets map[string]bool
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		run := &cascadeRun{
			actor:       actor,
			now:         time.Now().UTC(),
			plans:       repository.NewSQLitePlanRepo(tx),
			milestones:  repository.NewSQLiteMilestoneRepo(tx),
			initiatives: repository.NewSQLiteInitiativeRepo(tx),
			audits:      repository.NewSQLiteAuditLogRepo(tx),
			targets:     make(map[string]bool),
		}

		var txErr error
		switch kind {
		case RootPlan:
			summary, txErr = run.cancelPlan(ctx, rootID)
		case RootMilestone:
			summary, txErr = run.cancelMilestone(ctx, rootID)
		default:
			txErr = fmt.Errorf("%w: unsupported root kind %q", ErrInvalidTransition, kind)
		}
		targets = run.targets
		return txErr
	})
	if err != nil {
		return nil, err
	}

	summary.UsersNotified = len(targets)
	s.fanOut(ctx, targets, kind, rootID, summary.RootTitle)
	return summary, nil
}

// fanOut pushes one notification per affected user after the transaction has
// committed. Delivery is best effort; failures are logged and never bubble up
// into the already-committed cancellation.
func (s *cascadeService) fanOut(ctx context.Context, targets map[string]bool, kind RootKind, rootID, rootTitle string) {
	entityType := domain.EntityPlan
	noun := "Plan"
	if kind == RootMilestone {
		entityType = domain.EntityMilestone
		noun = "Milestone"
	}
	message := fmt.Sprintf("%s %q and everything under it was cancelled", noun, rootTitle)

	for userID := range targets {
		if _, err := s.notifier.Notify(ctx, userID, domain.NotifyWarning, message, &entityType, &rootID); err != nil {
			s.observer.ObserveUseCase(ctx, UseCaseEvent{
				Name:    "cascade-notify",
				Success: false,
				Err:     err,
				Fields:  map[string]any{"user_id": userID, "root_id": rootID},
			})
		}
	}
}

// cascadeRun holds the tx-scoped state of one cancellation walk.
type cascadeRun struct {
	actor       domain.Principal
	now         time.Time
	plans       repository.PlanRepo
	milestones  repository.MilestoneRepo
	initiatives repository.InitiativeRepo
	audits      repository.AuditLogRepo
	targets     map[string]bool
}

func (r *cascadeRun) cancelPlan(ctx context.Context, planID string) (*CascadeSummary, error) {
	plan, err := r.plans.GetByID(ctx, planID)
	if err != nil {
		return nil, fmt.Errorf("loading plan: %w", err)
	}
	if plan.Status == domain.StatusCancelled {
		return nil, fmt.Errorf("plan %q: %w", plan.Title, ErrAlreadyCancelled)
	}

	summary := &CascadeSummary{RootID: plan.ID, RootTitle: plan.Title}

	milestones, err := r.milestones.ListByPlan(ctx, planID)
	if err != nil {
		return nil, fmt.Errorf("loading milestones: %w", err)
	}
	for _, m := range milestones {
		affectedMilestones, affectedInitiatives, err := r.cancelMilestoneSubtree(ctx, m)
		if err != nil {
			return nil, err
		}
		summary.MilestonesAffected += affectedMilestones
		summary.InitiativesAffected += affectedInitiatives
	}

	if err := r.plans.UpdateStatus(ctx, plan.ID, domain.StatusCancelled, r.now); err != nil {
		return nil, fmt.Errorf("cancelling plan: %w", err)
	}
	details := fmt.Sprintf("Cascade cancellation: %d milestones and %d initiatives cancelled",
		summary.MilestonesAffected, summary.InitiativesAffected)
	entry := newAuditLogEntry(r.actor, domain.ActionUpdateStatus, domain.EntityPlan, plan.ID,
		details, statusPtr(plan.Status), statusPtr(domain.StatusCancelled))
	if err := r.audits.Append(ctx, entry); err != nil {
		return nil, fmt.Errorf("recording plan audit entry: %w", err)
	}

	r.targets[plan.OwnerID] = true
	return summary, nil
}

func (r *cascadeRun) cancelMilestone(ctx context.Context, milestoneID string) (*CascadeSummary, error) {
	m, err := r.milestones.GetByID(ctx, milestoneID)
	if err != nil {
		return nil, fmt.Errorf("loading milestone: %w", err)
	}
	if m.Status == domain.StatusCancelled {
		return nil, fmt.Errorf("milestone %q: %w", m.Title, ErrAlreadyCancelled)
	}

	summary := &CascadeSummary{RootID: m.ID, RootTitle: m.Title}
	affectedInitiatives, err := r.cancelInitiatives(ctx, m)
	if err != nil {
		return nil, err
	}
	summary.InitiativesAffected = affectedInitiatives

	if err := r.milestones.UpdateStatus(ctx, m.ID, domain.StatusCancelled, r.now); err != nil {
		return nil, fmt.Errorf("cancelling milestone %q: %w", m.Title, err)
	}
	details := fmt.Sprintf("Cascade cancellation: %d initiatives cancelled", affectedInitiatives)
	entry := newAuditLogEntry(r.actor, domain.ActionUpdateStatus, domain.EntityMilestone, m.ID,
		details, statusPtr(m.Status), statusPtr(domain.StatusCancelled))
	if err := r.audits.Append(ctx, entry); err != nil {
		return nil, fmt.Errorf("recording milestone audit entry: %w", err)
	}
	return summary, nil
}

// cancelMilestoneSubtree cancels the milestone's initiatives, then the
// milestone itself, writing one audit entry per changed row. Rows already
// CANCELLED are skipped and not counted.
func (r *cascadeRun) cancelMilestoneSubtree(ctx context.Context, m *domain.Milestone) (milestonesAffected, initiativesAffected int, err error) {
	if m.Status == domain.StatusCancelled {
		return 0, 0, nil
	}

	initiativesAffected, err = r.cancelInitiatives(ctx, m)
	if err != nil {
		return 0, 0, err
	}

	if err := r.milestones.UpdateStatus(ctx, m.ID, domain.StatusCancelled, r.now); err != nil {
		return 0, 0, fmt.Errorf("cancelling milestone %q: %w", m.Title, err)
	}
	entry := newAuditLogEntry(r.actor, domain.ActionUpdateStatus, domain.EntityMilestone, m.ID,
		"Cancelled by cascade", statusPtr(m.Status), statusPtr(domain.StatusCancelled))
	if err := r.audits.Append(ctx, entry); err != nil {
		return 0, 0, fmt.Errorf("recording milestone audit entry: %w", err)
	}
	return 1, initiativesAffected, nil
}

// cancelInitiatives cancels every non-terminal initiative under the milestone
// and collects their assignees as notification targets.
func (r *cascadeRun) cancelInitiatives(ctx context.Context, m *domain.Milestone) (int, error) {
	initiatives, err := r.initiatives.ListByMilestone(ctx, m.ID)
	if err != nil {
		return 0, fmt.Errorf("loading initiatives for milestone %q: %w", m.Title, err)
	}

	affected := 0
	for _, i := range initiatives {
		if i.Status == domain.StatusCancelled {
			continue
		}
		if err := r.initiatives.UpdateStatus(ctx, i.ID, domain.StatusCancelled, r.now); err != nil {
			return 0, fmt.Errorf("cancelling initiative %q: %w", i.Title, err)
		}
		entry := newAuditLogEntry(r.actor, domain.ActionUpdateStatus, domain.EntityInitiative, i.ID,
			"Cancelled by cascade", statusPtr(i.Status), statusPtr(domain.StatusCancelled))
		if err := r.audits.Append(ctx, entry); err != nil {
			return 0, fmt.Errorf("recording initiative audit entry: %w", err)
		}
		affected++
		for _, userID := range i.AssigneeIDs {
			r.targets[userID] = true
		}
	}
	return affected, nil
}
