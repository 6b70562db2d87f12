package service

import (
	"context"

	"github.com/alexanderramin/plantrack/internal/domain"
	"github.com/alexanderramin/plantrack/internal/importer"
	"github.com/alexanderramin/plantrack/internal/repository"
)

type PlanService interface {
	Create(ctx context.Context, actor domain.Principal, p *domain.Plan) error
	GetByID(ctx context.Context, id string) (*domain.Plan, error)
	List(ctx context.Context) ([]*domain.Plan, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*domain.Plan, error)
	Update(ctx context.Context, actor domain.Principal, p *domain.Plan) error
	Delete(ctx context.Context, actor domain.Principal, id string) error
}

type MilestoneService interface {
	Create(ctx context.Context, actor domain.Principal, m *domain.Milestone) error
	GetByID(ctx context.Context, id string) (*domain.Milestone, error)
	ListByPlan(ctx context.Context, planID string) ([]*domain.Milestone, error)
	Update(ctx context.Context, actor domain.Principal, m *domain.Milestone) error
	// Delete removes the milestone and everything beneath it, bottom-up, in
	// one transaction: assignee links, then initiatives, then the milestone.
	Delete(ctx context.Context, actor domain.Principal, id string) error
}

type InitiativeService interface {
	Create(ctx context.Context, actor domain.Principal, i *domain.Initiative) error
	GetByID(ctx context.Context, id string) (*domain.Initiative, error)
	ListByMilestone(ctx context.Context, milestoneID string) ([]*domain.Initiative, error)
	ListByAssignee(ctx context.Context, userID string) ([]*domain.Initiative, error)
	Update(ctx context.Context, actor domain.Principal, i *domain.Initiative) error
}

// ProgressResult reports the recomputed derived state of a milestone.
type ProgressResult struct {
	MilestoneID       string
	CompletionPercent float64
	Status            domain.Status
}

type ProgressService interface {
	// Recompute rederives a milestone's completion percentage and status
	// from its current initiatives and persists the result. CANCELLED
	// milestones are left frozen.
	Recompute(ctx context.Context, milestoneID string) (*ProgressResult, error)
}

// RootKind selects what a cascade starts from.
type RootKind string

const (
	RootPlan      RootKind = "PLAN"
	RootMilestone RootKind = "MILESTONE"
)

// CascadePreview describes what a cascade cancellation would touch, without
// touching it.
type CascadePreview struct {
	RootID             string
	RootTitle          string
	RootStatus         domain.Status
	MilestonesCount    int
	InitiativesCount   int
	MilestoneNames     []string
	InitiativeNames    []string
	IsAlreadyCancelled bool
}

// CascadeSummary is the result of a committed cascade cancellation.
type CascadeSummary struct {
	RootID              string
	RootTitle           string
	MilestonesAffected  int
	InitiativesAffected int
	UsersNotified       int
}

type CascadeService interface {
	Preview(ctx context.Context, rootID string, kind RootKind) (*CascadePreview, error)
	// Cancel flips the whole subtree to CANCELLED in one transaction, one
	// audit entry per changed row, then best-effort notifies affected users.
	Cancel(ctx context.Context, actor domain.Principal, rootID string, kind RootKind) (*CascadeSummary, error)
}

// ImportResult summarizes a completed plan import.
type ImportResult struct {
	Plan            *domain.Plan
	MilestoneCount  int
	InitiativeCount int
}

type ImportService interface {
	// ImportPlan loads, validates and persists a whole plan hierarchy from a
	// JSON file in one transaction.
	ImportPlan(ctx context.Context, actor domain.Principal, filePath string) (*ImportResult, error)
	ImportPlanFromSchema(ctx context.Context, actor domain.Principal, schema *importer.ImportSchema) (*ImportResult, error)
}

type AuditService interface {
	Record(ctx context.Context, actor domain.Principal, action domain.AuditAction, entityType domain.EntityType, entityID, details string, oldValue, newValue *string) (string, error)
	Query(ctx context.Context, filter repository.AuditFilter) ([]*domain.AuditLogEntry, error)
}

type NotificationService interface {
	// Notify durably persists an UNREAD notification, then best-effort pushes
	// it to every live channel registered for the user. Push failures are
	// logged and never returned.
	Notify(ctx context.Context, userID, notifType, message string, entityType *domain.EntityType, entityID *string) (*domain.Notification, error)
	Subscribe(userID string) *Subscription
	ListByUser(ctx context.Context, userID string) ([]*domain.Notification, error)
	ListUnread(ctx context.Context, userID string) ([]*domain.Notification, error)
	UnreadCount(ctx context.Context, userID string) (int, error)
	MarkRead(ctx context.Context, notificationID string) error
	MarkAllRead(ctx context.Context, userID string) error
	// Drain closes every open subscription; called at shutdown.
	Drain()
}
