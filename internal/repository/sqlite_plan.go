package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/alexanderramin/plantrack/internal/db"
	"github.com/alexanderramin/plantrack/internal/domain"
)

const dateLayout = "2006-01-02"

// planColumns is the canonical SELECT column list for plans.
const planColumns = `id, title, description, priority, status, owner_id,
		start_date, end_date, created_at, updated_at`

// SQLitePlanRepo implements PlanRepo using a SQLite database.
type SQLitePlanRepo struct {
	db db.DBTX
}

// NewSQLitePlanRepo creates a new SQLitePlanRepo.
func NewSQLitePlanRepo(conn db.DBTX) *SQLitePlanRepo {
	return &SQLitePlanRepo{db: conn}
}

func (r *SQLitePlanRepo) Create(ctx context.Context, p *domain.Plan) error {
	query := `INSERT INTO plans (id, title, description, priority, status, owner_id,
		start_date, end_date, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		p.ID,
		p.Title,
		p.Description,
		string(p.Priority),
		string(p.Status),
		p.OwnerID,
		p.StartDate.Format(dateLayout),
		nullableTimeToString(p.EndDate, dateLayout),
		p.CreatedAt.Format(time.RFC3339),
		p.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting plan: %w", err)
	}
	return nil
}

func (r *SQLitePlanRepo) GetByID(ctx context.Context, id string) (*domain.Plan, error) {
	query := `SELECT ` + planColumns + ` FROM plans WHERE id = ?`
	row := r.db.QueryRowContext(ctx, query, id)

	p, err := scanPlan(row.Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("plan: %w", ErrNotFound)
		}
		return nil, err
	}
	return p, nil
}

func (r *SQLitePlanRepo) List(ctx context.Context) ([]*domain.Plan, error) {
	query := `SELECT ` + planColumns + ` FROM plans ORDER BY created_at`
	return r.queryPlans(ctx, query)
}

func (r *SQLitePlanRepo) ListByOwner(ctx context.Context, ownerID string) ([]*domain.Plan, error) {
	query := `SELECT ` + planColumns + ` FROM plans WHERE owner_id = ? ORDER BY created_at`
	return r.queryPlans(ctx, query, ownerID)
}

func (r *SQLitePlanRepo) Update(ctx context.Context, p *domain.Plan) error {
	query := `UPDATE plans SET title = ?, description = ?, priority = ?, status = ?,
		start_date = ?, end_date = ?, updated_at = ? WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query,
		p.Title,
		p.Description,
		string(p.Priority),
		string(p.Status),
		p.StartDate.Format(dateLayout),
		nullableTimeToString(p.EndDate, dateLayout),
		p.UpdatedAt.Format(time.RFC3339),
		p.ID,
	)
	if err != nil {
		return fmt.Errorf("updating plan: %w", err)
	}
	return nil
}

func (r *SQLitePlanRepo) UpdateStatus(ctx context.Context, id string, status domain.Status, updatedAt time.Time) error {
	query := `UPDATE plans SET status = ?, updated_at = ? WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query, string(status), updatedAt.Format(time.RFC3339), id)
	if err != nil {
		return fmt.Errorf("updating plan status: %w", err)
	}
	return nil
}

func (r *SQLitePlanRepo) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM plans WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("deleting plan: %w", err)
	}
	return nil
}

func (r *SQLitePlanRepo) queryPlans(ctx context.Context, query string, args ...any) ([]*domain.Plan, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing plans: %w", err)
	}
	defer rows.Close()

	var plans []*domain.Plan
	for rows.Next() {
		p, err := scanPlan(rows.Scan)
		if err != nil {
			return nil, err
		}
		plans = append(plans, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating plans: %w", err)
	}
	return plans, nil
}

// scanPlan scans one plan row via the given Scan function, so a single
// implementation serves both *sql.Row and *sql.Rows.
func scanPlan(scan func(dest ...any) error) (*domain.Plan, error) {
	var p domain.Plan
	var priorityStr, statusStr, startDateStr, createdAtStr, updatedAtStr string
	var endDateStr sql.NullString

	err := scan(
		&p.ID, &p.Title, &p.Description, &priorityStr, &statusStr, &p.OwnerID,
		&startDateStr, &endDateStr, &createdAtStr, &updatedAtStr,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("scanning plan: %w", err)
	}

	p.Priority = domain.Priority(priorityStr)
	p.Status = domain.Status(statusStr)

	var parseErr error
	p.StartDate, parseErr = time.Parse(dateLayout, startDateStr)
	if parseErr != nil {
		return nil, fmt.Errorf("parsing start_date: %w", parseErr)
	}
	p.CreatedAt, parseErr = time.Parse(time.RFC3339, createdAtStr)
	if parseErr != nil {
		return nil, fmt.Errorf("parsing created_at: %w", parseErr)
	}
	p.UpdatedAt, parseErr = time.Parse(time.RFC3339, updatedAtStr)
	if parseErr != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", parseErr)
	}
	p.EndDate = parseNullableTime(endDateStr, dateLayout)

	return &p, nil
}
