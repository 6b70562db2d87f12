package service

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/plantrack/internal/domain"
	"github.com/alexanderramin/plantrack/internal/repository"
	"github.com/google/uuid"
)

type notificationService struct {
	notifications repository.NotificationRepo
	registry      *subscriberRegistry
	observer      UseCaseObserver
}

func NewNotificationService(notifications repository.NotificationRepo, observers ...UseCaseObserver) NotificationService {
	return &notificationService{
		notifications: notifications,
		registry:      newSubscriberRegistry(),
		observer:      useCaseObserverOrNoop(observers),
	}
}

func (s *notificationService) Notify(ctx context.Context, userID, notifType, message string, entityType *domain.EntityType, entityID *string) (*domain.Notification, error) {
	n := &domain.Notification{
		ID:         uuid.New().String(),
		UserID:     userID,
		Type:       notifType,
		Message:    message,
		EntityType: entityType,
		EntityID:   entityID,
		Status:     domain.NotificationUnread,
		CreatedAt:  time.Now().UTC(),
	}

	// Persist first. The live push is best effort; a user with no open
	// channel still finds the notification in their unread list.
	if err := s.notifications.Create(ctx, n); err != nil {
		return nil, fmt.Errorf("persisting notification: %w", err)
	}

	startedAt := time.Now()
	delivered := s.registry.publish(n)
	s.observer.ObserveUseCase(ctx, UseCaseEvent{
		Name:      "notification-push",
		StartedAt: startedAt,
		Duration:  time.Since(startedAt),
		Success:   true,
		Fields: map[string]any{
			"user_id":   userID,
			"type":      notifType,
			"delivered": delivered,
		},
	})
	return n, nil
}

func (s *notificationService) Subscribe(userID string) *Subscription {
	return s.registry.subscribe(userID)
}

func (s *notificationService) ListByUser(ctx context.Context, userID string) ([]*domain.Notification, error) {
	return s.notifications.ListByUser(ctx, userID)
}

func (s *notificationService) ListUnread(ctx context.Context, userID string) ([]*domain.Notification, error) {
	return s.notifications.ListUnreadByUser(ctx, userID)
}

func (s *notificationService) UnreadCount(ctx context.Context, userID string) (int, error) {
	return s.notifications.CountUnread(ctx, userID)
}

func (s *notificationService) MarkRead(ctx context.Context, notificationID string) error {
	return s.notifications.MarkRead(ctx, notificationID)
}

func (s *notificationService) MarkAllRead(ctx context.Context, userID string) error {
	return s.notifications.MarkAllRead(ctx, userID)
}

func (s *notificationService) Drain() {
	s.registry.drain()
}
