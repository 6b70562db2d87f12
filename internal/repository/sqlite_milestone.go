package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/alexanderramin/plantrack/internal/db"
	"github.com/alexanderramin/plantrack/internal/domain"
)

// milestoneColumns is the canonical SELECT column list for milestones.
const milestoneColumns = `id, plan_id, title, due_date, completion_percent, status, created_at, updated_at`

// SQLiteMilestoneRepo implements MilestoneRepo using a SQLite database.
type SQLiteMilestoneRepo struct {
	db db.DBTX
}

// NewSQLiteMilestoneRepo creates a new SQLiteMilestoneRepo.
func NewSQLiteMilestoneRepo(conn db.DBTX) *SQLiteMilestoneRepo {
	return &SQLiteMilestoneRepo{db: conn}
}

func (r *SQLiteMilestoneRepo) Create(ctx context.Context, m *domain.Milestone) error {
	query := `INSERT INTO milestones (id, plan_id, title, due_date, completion_percent, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		m.ID,
		m.PlanID,
		m.Title,
		nullableTimeToString(m.DueDate, dateLayout),
		m.CompletionPercent,
		string(m.Status),
		m.CreatedAt.Format(time.RFC3339),
		m.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting milestone: %w", err)
	}
	return nil
}

func (r *SQLiteMilestoneRepo) GetByID(ctx context.Context, id string) (*domain.Milestone, error) {
	query := `SELECT ` + milestoneColumns + ` FROM milestones WHERE id = ?`
	row := r.db.QueryRowContext(ctx, query, id)

	m, err := scanMilestone(row.Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("milestone: %w", ErrNotFound)
		}
		return nil, err
	}
	return m, nil
}

func (r *SQLiteMilestoneRepo) ListByPlan(ctx context.Context, planID string) ([]*domain.Milestone, error) {
	query := `SELECT ` + milestoneColumns + ` FROM milestones WHERE plan_id = ? ORDER BY created_at`
	rows, err := r.db.QueryContext(ctx, query, planID)
	if err != nil {
		return nil, fmt.Errorf("listing milestones: %w", err)
	}
	defer rows.Close()

	var milestones []*domain.Milestone
	for rows.Next() {
		m, err := scanMilestone(rows.Scan)
		if err != nil {
			return nil, err
		}
		milestones = append(milestones, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating milestones: %w", err)
	}
	return milestones, nil
}

func (r *SQLiteMilestoneRepo) Update(ctx context.Context, m *domain.Milestone) error {
	query := `UPDATE milestones SET title = ?, due_date = ?, completion_percent = ?, status = ?, updated_at = ?
		WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query,
		m.Title,
		nullableTimeToString(m.DueDate, dateLayout),
		m.CompletionPercent,
		string(m.Status),
		m.UpdatedAt.Format(time.RFC3339),
		m.ID,
	)
	if err != nil {
		return fmt.Errorf("updating milestone: %w", err)
	}
	return nil
}

func (r *SQLiteMilestoneRepo) UpdateStatus(ctx context.Context, id string, status domain.Status, updatedAt time.Time) error {
	query := `UPDATE milestones SET status = ?, updated_at = ? WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query, string(status), updatedAt.Format(time.RFC3339), id)
	if err != nil {
		return fmt.Errorf("updating milestone status: %w", err)
	}
	return nil
}

func (r *SQLiteMilestoneRepo) UpdateProgress(ctx context.Context, id string, percent float64, status domain.Status, updatedAt time.Time) error {
	query := `UPDATE milestones SET completion_percent = ?, status = ?, updated_at = ? WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query, percent, string(status), updatedAt.Format(time.RFC3339), id)
	if err != nil {
		return fmt.Errorf("updating milestone progress: %w", err)
	}
	return nil
}

func (r *SQLiteMilestoneRepo) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM milestones WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("deleting milestone: %w", err)
	}
	return nil
}

func scanMilestone(scan func(dest ...any) error) (*domain.Milestone, error) {
	var m domain.Milestone
	var statusStr, createdAtStr, updatedAtStr string
	var dueDateStr sql.NullString

	err := scan(
		&m.ID, &m.PlanID, &m.Title, &dueDateStr, &m.CompletionPercent,
		&statusStr, &createdAtStr, &updatedAtStr,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("scanning milestone: %w", err)
	}

	m.Status = domain.Status(statusStr)

	var parseErr error
	m.CreatedAt, parseErr = time.Parse(time.RFC3339, createdAtStr)
	if parseErr != nil {
		return nil, fmt.Errorf("parsing created_at: %w", parseErr)
	}
	m.UpdatedAt, parseErr = time.Parse(time.RFC3339, updatedAtStr)
	if parseErr != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", parseErr)
	}
	m.DueDate = parseNullableTime(dueDateStr, dateLayout)

	return &m, nil
}
