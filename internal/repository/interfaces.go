package repository

import (
	"context"
	"time"

	"github.com/alexanderramin/plantrack/internal/domain"
)

type UserRepo interface {
	Create(ctx context.Context, u *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	List(ctx context.Context, activeOnly bool) ([]*domain.User, error)
}

type PlanRepo interface {
	Create(ctx context.Context, p *domain.Plan) error
	GetByID(ctx context.Context, id string) (*domain.Plan, error)
	List(ctx context.Context) ([]*domain.Plan, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*domain.Plan, error)
	Update(ctx context.Context, p *domain.Plan) error
	UpdateStatus(ctx context.Context, id string, status domain.Status, updatedAt time.Time) error
	Delete(ctx context.Context, id string) error
}

type MilestoneRepo interface {
	Create(ctx context.Context, m *domain.Milestone) error
	GetByID(ctx context.Context, id string) (*domain.Milestone, error)
	ListByPlan(ctx context.Context, planID string) ([]*domain.Milestone, error)
	Update(ctx context.Context, m *domain.Milestone) error
	UpdateStatus(ctx context.Context, id string, status domain.Status, updatedAt time.Time) error
	UpdateProgress(ctx context.Context, id string, percent float64, status domain.Status, updatedAt time.Time) error
	Delete(ctx context.Context, id string) error
}

type InitiativeRepo interface {
	Create(ctx context.Context, i *domain.Initiative) error
	GetByID(ctx context.Context, id string) (*domain.Initiative, error)
	ListByMilestone(ctx context.Context, milestoneID string) ([]*domain.Initiative, error)
	ListByAssignee(ctx context.Context, userID string) ([]*domain.Initiative, error)
	Update(ctx context.Context, i *domain.Initiative) error
	UpdateStatus(ctx context.Context, id string, status domain.Status, updatedAt time.Time) error
	ReplaceAssignees(ctx context.Context, initiativeID string, userIDs []string) error
	Delete(ctx context.Context, id string) error
	DeleteByMilestone(ctx context.Context, milestoneID string) error
}

// AuditFilter narrows audit queries. Zero-value fields are ignored; a set
// From/Until pair bounds the timestamp range inclusively.
type AuditFilter struct {
	EntityType domain.EntityType
	EntityID   string
	Actor      string
	From       *time.Time
	Until      *time.Time
}

type AuditLogRepo interface {
	// Append inserts one immutable entry. There is deliberately no update or
	// delete operation on this repository.
	Append(ctx context.Context, e *domain.AuditLogEntry) error
	List(ctx context.Context, filter AuditFilter) ([]*domain.AuditLogEntry, error)
}

type NotificationRepo interface {
	Create(ctx context.Context, n *domain.Notification) error
	GetByID(ctx context.Context, id string) (*domain.Notification, error)
	ListByUser(ctx context.Context, userID string) ([]*domain.Notification, error)
	ListUnreadByUser(ctx context.Context, userID string) ([]*domain.Notification, error)
	CountUnread(ctx context.Context, userID string) (int, error)
	MarkRead(ctx context.Context, id string) error
	MarkAllRead(ctx context.Context, userID string) error
}
