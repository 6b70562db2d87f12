package service

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/plantrack/internal/domain"
	"github.com/alexanderramin/plantrack/internal/repository"
	"github.com/google/uuid"
)

type auditService struct {
	audits repository.AuditLogRepo
}

func NewAuditService(audits repository.AuditLogRepo) AuditService {
	return &auditService{audits: audits}
}

func (s *auditService) Record(ctx context.Context, actor domain.Principal, action domain.AuditAction, entityType domain.EntityType, entityID, details string, oldValue, newValue *string) (string, error) {
	entry := newAuditLogEntry(actor, action, entityType, entityID, details, oldValue, newValue)
	if err := s.audits.Append(ctx, entry); err != nil {
		return "", fmt.Errorf("recording audit entry: %w", err)
	}
	return entry.ID, nil
}

func (s *auditService) Query(ctx context.Context, filter repository.AuditFilter) ([]*domain.AuditLogEntry, error) {
	return s.audits.List(ctx, filter)
}

// newAuditLogEntry builds a fully-populated entry. Services that write audit
// rows inside a transaction use this with a tx-scoped repository so the rows
// commit or roll back together with the change they describe.
func newAuditLogEntry(actor domain.Principal, action domain.AuditAction, entityType domain.EntityType, entityID, details string, oldValue, newValue *string) *domain.AuditLogEntry {
	return &domain.AuditLogEntry{
		ID:          uuid.New().String(),
		Action:      action,
		PerformedBy: actor.AuditName(),
		EntityType:  entityType,
		EntityID:    entityID,
		Details:     details,
		OldValue:    oldValue,
		NewValue:    newValue,
		Timestamp:   time.Now().UTC(),
	}
}

func strPtr(s string) *string {
	return &s
}

func statusPtr(s domain.Status) *string {
	v := string(s)
	return &v
}
