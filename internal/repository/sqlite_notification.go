package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/alexanderramin/plantrack/internal/db"
	"github.com/alexanderramin/plantrack/internal/domain"
)

// notificationColumns is the canonical SELECT column list for notifications.
const notificationColumns = `id, user_id, type, message, entity_type, entity_id, status, created_at`

// SQLiteNotificationRepo implements NotificationRepo using a SQLite database.
type SQLiteNotificationRepo struct {
	db db.DBTX
}

// NewSQLiteNotificationRepo creates a new SQLiteNotificationRepo.
func NewSQLiteNotificationRepo(conn db.DBTX) *SQLiteNotificationRepo {
	return &SQLiteNotificationRepo{db: conn}
}

func (r *SQLiteNotificationRepo) Create(ctx context.Context, n *domain.Notification) error {
	query := `INSERT INTO notifications (id, user_id, type, message, entity_type, entity_id, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	var entityType interface{}
	if n.EntityType != nil {
		entityType = string(*n.EntityType)
	}
	_, err := r.db.ExecContext(ctx, query,
		n.ID,
		n.UserID,
		n.Type,
		n.Message,
		entityType,
		nullableString(n.EntityID),
		string(n.Status),
		n.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("inserting notification: %w", err)
	}
	return nil
}

func (r *SQLiteNotificationRepo) GetByID(ctx context.Context, id string) (*domain.Notification, error) {
	query := `SELECT ` + notificationColumns + ` FROM notifications WHERE id = ?`
	row := r.db.QueryRowContext(ctx, query, id)

	n, err := scanNotification(row.Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("notification: %w", ErrNotFound)
		}
		return nil, err
	}
	return n, nil
}

func (r *SQLiteNotificationRepo) ListByUser(ctx context.Context, userID string) ([]*domain.Notification, error) {
	query := `SELECT ` + notificationColumns + ` FROM notifications WHERE user_id = ? ORDER BY created_at DESC`
	return r.queryNotifications(ctx, query, userID)
}

func (r *SQLiteNotificationRepo) ListUnreadByUser(ctx context.Context, userID string) ([]*domain.Notification, error) {
	query := `SELECT ` + notificationColumns + ` FROM notifications
		WHERE user_id = ? AND status = 'UNREAD' ORDER BY created_at DESC`
	return r.queryNotifications(ctx, query, userID)
}

func (r *SQLiteNotificationRepo) CountUnread(ctx context.Context, userID string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM notifications WHERE user_id = ? AND status = 'UNREAD'`, userID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting unread notifications: %w", err)
	}
	return count, nil
}

func (r *SQLiteNotificationRepo) MarkRead(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE notifications SET status = 'READ' WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("marking notification read: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("notification: %w", ErrNotFound)
	}
	return nil
}

func (r *SQLiteNotificationRepo) MarkAllRead(ctx context.Context, userID string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE notifications SET status = 'READ' WHERE user_id = ? AND status = 'UNREAD'`, userID)
	if err != nil {
		return fmt.Errorf("marking all notifications read: %w", err)
	}
	return nil
}

func (r *SQLiteNotificationRepo) queryNotifications(ctx context.Context, query string, args ...any) ([]*domain.Notification, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing notifications: %w", err)
	}
	defer rows.Close()

	var notifications []*domain.Notification
	for rows.Next() {
		n, err := scanNotification(rows.Scan)
		if err != nil {
			return nil, err
		}
		notifications = append(notifications, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating notifications: %w", err)
	}
	return notifications, nil
}

func scanNotification(scan func(dest ...any) error) (*domain.Notification, error) {
	var n domain.Notification
	var statusStr, createdAtStr string
	var entityTypeStr, entityIDStr sql.NullString

	err := scan(
		&n.ID, &n.UserID, &n.Type, &n.Message,
		&entityTypeStr, &entityIDStr, &statusStr, &createdAtStr,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("scanning notification: %w", err)
	}

	n.Status = domain.NotificationStatus(statusStr)
	if entityTypeStr.Valid {
		et := domain.EntityType(entityTypeStr.String)
		n.EntityType = &et
	}
	n.EntityID = parseNullableString(entityIDStr)

	var parseErr error
	n.CreatedAt, parseErr = time.Parse(time.RFC3339Nano, createdAtStr)
	if parseErr != nil {
		return nil, fmt.Errorf("parsing created_at: %w", parseErr)
	}
	return &n, nil
}
