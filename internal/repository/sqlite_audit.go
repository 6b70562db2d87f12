package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/alexanderramin/plantrack/internal/db"
	"github.com/alexanderramin/plantrack/internal/domain"
)

// auditTimeLayout is a fixed-width RFC3339 variant. RFC3339Nano trims
// trailing fractional zeros, which breaks lexicographic ordering between
// whole-second and sub-second values in the same second.
const auditTimeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// SQLiteAuditLogRepo implements AuditLogRepo using a SQLite database. The
// repository is append-only: it exposes no update or delete statements, and
// the audit_log table is never touched by any other repository.
type SQLiteAuditLogRepo struct {
	db db.DBTX
}

// NewSQLiteAuditLogRepo creates a new SQLiteAuditLogRepo.
func NewSQLiteAuditLogRepo(conn db.DBTX) *SQLiteAuditLogRepo {
	return &SQLiteAuditLogRepo{db: conn}
}

func (r *SQLiteAuditLogRepo) Append(ctx context.Context, e *domain.AuditLogEntry) error {
	query := `INSERT INTO audit_log (id, action, performed_by, entity_type, entity_id, details, old_value, new_value, timestamp)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		e.ID,
		string(e.Action),
		e.PerformedBy,
		string(e.EntityType),
		e.EntityID,
		e.Details,
		nullableString(e.OldValue),
		nullableString(e.NewValue),
		e.Timestamp.Format(auditTimeLayout),
	)
	if err != nil {
		return fmt.Errorf("appending audit entry: %w", err)
	}
	return nil
}

func (r *SQLiteAuditLogRepo) List(ctx context.Context, filter AuditFilter) ([]*domain.AuditLogEntry, error) {
	query := `SELECT id, action, performed_by, entity_type, entity_id, details, old_value, new_value, timestamp
		FROM audit_log WHERE 1=1`
	var args []any

	if filter.EntityType != "" {
		query += ` AND entity_type = ?`
		args = append(args, string(filter.EntityType))
	}
	if filter.EntityID != "" {
		query += ` AND entity_id = ?`
		args = append(args, filter.EntityID)
	}
	if filter.Actor != "" {
		query += ` AND performed_by = ?`
		args = append(args, filter.Actor)
	}
	if filter.From != nil {
		query += ` AND timestamp >= ?`
		args = append(args, filter.From.Format(auditTimeLayout))
	}
	if filter.Until != nil {
		query += ` AND timestamp <= ?`
		args = append(args, filter.Until.Format(auditTimeLayout))
	}
	query += ` ORDER BY timestamp DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing audit entries: %w", err)
	}
	defer rows.Close()

	var entries []*domain.AuditLogEntry
	for rows.Next() {
		var e domain.AuditLogEntry
		var actionStr, entityTypeStr, timestampStr string
		var oldVal, newVal sql.NullString
		if err := rows.Scan(
			&e.ID, &actionStr, &e.PerformedBy, &entityTypeStr, &e.EntityID,
			&e.Details, &oldVal, &newVal, &timestampStr,
		); err != nil {
			return nil, fmt.Errorf("scanning audit entry: %w", err)
		}
		e.Action = domain.AuditAction(actionStr)
		e.EntityType = domain.EntityType(entityTypeStr)
		e.OldValue = parseNullableString(oldVal)
		e.NewValue = parseNullableString(newVal)
		e.Timestamp, err = time.Parse(time.RFC3339Nano, timestampStr)
		if err != nil {
			return nil, fmt.Errorf("parsing timestamp: %w", err)
		}
		entries = append(entries, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating audit entries: %w", err)
	}
	return entries, nil
}
