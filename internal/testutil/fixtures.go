package testutil

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/alexanderramin/plantrack/internal/domain"
	"github.com/google/uuid"
)

var testEmailCounter atomic.Int64

// User options
type UserOption func(*domain.User)

func WithRole(r domain.Role) UserOption {
	return func(u *domain.User) {
		u.Role = r
	}
}

func WithUserStatus(s domain.UserStatus) UserOption {
	return func(u *domain.User) {
		u.Status = s
	}
}

func NewTestUser(name string, opts ...UserOption) *domain.User {
	u := &domain.User{
		ID:        uuid.New().String(),
		Name:      name,
		Email:     fmt.Sprintf("%s.%d@example.com", name, testEmailCounter.Add(1)),
		Role:      domain.RoleEmployee,
		Status:    domain.UserActive,
		CreatedAt: time.Now().UTC(),
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// Plan options
type PlanOption func(*domain.Plan)

func WithPriority(p domain.Priority) PlanOption {
	return func(pl *domain.Plan) {
		pl.Priority = p
	}
}

func WithPlanStatus(s domain.Status) PlanOption {
	return func(pl *domain.Plan) {
		pl.Status = s
	}
}

func WithEndDate(d time.Time) PlanOption {
	return func(pl *domain.Plan) {
		pl.EndDate = &d
	}
}

func NewTestPlan(ownerID, title string, opts ...PlanOption) *domain.Plan {
	now := time.Now().UTC()
	p := &domain.Plan{
		ID:        uuid.New().String(),
		Title:     title,
		Priority:  domain.PriorityMedium,
		Status:    domain.StatusPlanned,
		OwnerID:   ownerID,
		StartDate: now,
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Milestone options
type MilestoneOption func(*domain.Milestone)

func WithDueDate(d time.Time) MilestoneOption {
	return func(m *domain.Milestone) {
		m.DueDate = &d
	}
}

func WithMilestoneStatus(s domain.Status) MilestoneOption {
	return func(m *domain.Milestone) {
		m.Status = s
	}
}

func WithCompletionPercent(p float64) MilestoneOption {
	return func(m *domain.Milestone) {
		m.CompletionPercent = p
	}
}

func NewTestMilestone(planID, title string, opts ...MilestoneOption) *domain.Milestone {
	now := time.Now().UTC()
	m := &domain.Milestone{
		ID:        uuid.New().String(),
		PlanID:    planID,
		Title:     title,
		Status:    domain.StatusPlanned,
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Initiative options
type InitiativeOption func(*domain.Initiative)

func WithInitiativeStatus(s domain.Status) InitiativeOption {
	return func(i *domain.Initiative) {
		i.Status = s
	}
}

func WithAssignees(userIDs ...string) InitiativeOption {
	return func(i *domain.Initiative) {
		i.AssigneeIDs = userIDs
	}
}

func NewTestInitiative(milestoneID, title string, opts ...InitiativeOption) *domain.Initiative {
	now := time.Now().UTC()
	i := &domain.Initiative{
		ID:          uuid.New().String(),
		MilestoneID: milestoneID,
		Title:       title,
		Status:      domain.StatusPlanned,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Notification options
type NotificationOption func(*domain.Notification)

func WithNotificationStatus(s domain.NotificationStatus) NotificationOption {
	return func(n *domain.Notification) {
		n.Status = s
	}
}

func WithRelatedEntity(et domain.EntityType, id string) NotificationOption {
	return func(n *domain.Notification) {
		n.EntityType = &et
		n.EntityID = &id
	}
}

func NewTestNotification(userID, message string, opts ...NotificationOption) *domain.Notification {
	n := &domain.Notification{
		ID:        uuid.New().String(),
		UserID:    userID,
		Type:      domain.NotifyInfo,
		Message:   message,
		Status:    domain.NotificationUnread,
		CreatedAt: time.Now().UTC(),
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}
