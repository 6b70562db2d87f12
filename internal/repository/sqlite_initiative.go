package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/alexanderramin/plantrack/internal/db"
	"github.com/alexanderramin/plantrack/internal/domain"
)

// initiativeColumns is the canonical SELECT column list for initiatives.
const initiativeColumns = `id, milestone_id, title, description, status, created_at, updated_at`

// SQLiteInitiativeRepo implements InitiativeRepo using a SQLite database.
// Assignee links live in the initiative_assignees join table and are loaded
// with every read.
type SQLiteInitiativeRepo struct {
	db db.DBTX
}

// NewSQLiteInitiativeRepo creates a new SQLiteInitiativeRepo.
func NewSQLiteInitiativeRepo(conn db.DBTX) *SQLiteInitiativeRepo {
	return &SQLiteInitiativeRepo{db: conn}
}

func (r *SQLiteInitiativeRepo) Create(ctx context.Context, i *domain.Initiative) error {
	query := `INSERT INTO initiatives (id, milestone_id, title, description, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		i.ID,
		i.MilestoneID,
		i.Title,
		i.Description,
		string(i.Status),
		i.CreatedAt.Format(time.RFC3339),
		i.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting initiative: %w", err)
	}
	for _, userID := range i.AssigneeIDs {
		if err := r.addAssignee(ctx, i.ID, userID); err != nil {
			return err
		}
	}
	return nil
}

func (r *SQLiteInitiativeRepo) GetByID(ctx context.Context, id string) (*domain.Initiative, error) {
	query := `SELECT ` + initiativeColumns + ` FROM initiatives WHERE id = ?`
	row := r.db.QueryRowContext(ctx, query, id)

	i, err := scanInitiative(row.Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("initiative: %w", ErrNotFound)
		}
		return nil, err
	}
	if i.AssigneeIDs, err = r.loadAssignees(ctx, i.ID); err != nil {
		return nil, err
	}
	return i, nil
}

func (r *SQLiteInitiativeRepo) ListByMilestone(ctx context.Context, milestoneID string) ([]*domain.Initiative, error) {
	query := `SELECT ` + initiativeColumns + ` FROM initiatives WHERE milestone_id = ? ORDER BY created_at`
	return r.queryInitiatives(ctx, query, milestoneID)
}

func (r *SQLiteInitiativeRepo) ListByAssignee(ctx context.Context, userID string) ([]*domain.Initiative, error) {
	query := `SELECT i.id, i.milestone_id, i.title, i.description, i.status, i.created_at, i.updated_at
		FROM initiatives i
		JOIN initiative_assignees a ON a.initiative_id = i.id
		WHERE a.user_id = ? ORDER BY i.created_at`
	return r.queryInitiatives(ctx, query, userID)
}

func (r *SQLiteInitiativeRepo) Update(ctx context.Context, i *domain.Initiative) error {
	query := `UPDATE initiatives SET title = ?, description = ?, status = ?, updated_at = ? WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query,
		i.Title,
		i.Description,
		string(i.Status),
		i.UpdatedAt.Format(time.RFC3339),
		i.ID,
	)
	if err != nil {
		return fmt.Errorf("updating initiative: %w", err)
	}
	return nil
}

func (r *SQLiteInitiativeRepo) UpdateStatus(ctx context.Context, id string, status domain.Status, updatedAt time.Time) error {
	query := `UPDATE initiatives SET status = ?, updated_at = ? WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query, string(status), updatedAt.Format(time.RFC3339), id)
	if err != nil {
		return fmt.Errorf("updating initiative status: %w", err)
	}
	return nil
}

func (r *SQLiteInitiativeRepo) ReplaceAssignees(ctx context.Context, initiativeID string, userIDs []string) error {
	if _, err := r.db.ExecContext(ctx,
		`DELETE FROM initiative_assignees WHERE initiative_id = ?`, initiativeID); err != nil {
		return fmt.Errorf("clearing assignees: %w", err)
	}
	for _, userID := range userIDs {
		if err := r.addAssignee(ctx, initiativeID, userID); err != nil {
			return err
		}
	}
	return nil
}

func (r *SQLiteInitiativeRepo) Delete(ctx context.Context, id string) error {
	// Assignee links first, then the row; keeps the order explicit even
	// though the schema also cascades.
	if _, err := r.db.ExecContext(ctx,
		`DELETE FROM initiative_assignees WHERE initiative_id = ?`, id); err != nil {
		return fmt.Errorf("deleting initiative assignees: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, `DELETE FROM initiatives WHERE id = ?`, id); err != nil {
		return fmt.Errorf("deleting initiative: %w", err)
	}
	return nil
}

func (r *SQLiteInitiativeRepo) DeleteByMilestone(ctx context.Context, milestoneID string) error {
	if _, err := r.db.ExecContext(ctx,
		`DELETE FROM initiative_assignees WHERE initiative_id IN
			(SELECT id FROM initiatives WHERE milestone_id = ?)`, milestoneID); err != nil {
		return fmt.Errorf("deleting assignees for milestone: %w", err)
	}
	if _, err := r.db.ExecContext(ctx,
		`DELETE FROM initiatives WHERE milestone_id = ?`, milestoneID); err != nil {
		return fmt.Errorf("deleting initiatives for milestone: %w", err)
	}
	return nil
}

func (r *SQLiteInitiativeRepo) addAssignee(ctx context.Context, initiativeID, userID string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO initiative_assignees (initiative_id, user_id) VALUES (?, ?)`,
		initiativeID, userID)
	if err != nil {
		return fmt.Errorf("inserting assignee: %w", err)
	}
	return nil
}

func (r *SQLiteInitiativeRepo) loadAssignees(ctx context.Context, initiativeID string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT user_id FROM initiative_assignees WHERE initiative_id = ? ORDER BY user_id`, initiativeID)
	if err != nil {
		return nil, fmt.Errorf("listing assignees: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning assignee: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating assignees: %w", err)
	}
	return ids, nil
}

func (r *SQLiteInitiativeRepo) queryInitiatives(ctx context.Context, query string, args ...any) ([]*domain.Initiative, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing initiatives: %w", err)
	}
	defer rows.Close()

	var initiatives []*domain.Initiative
	for rows.Next() {
		i, err := scanInitiative(rows.Scan)
		if err != nil {
			return nil, err
		}
		initiatives = append(initiatives, i)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating initiatives: %w", err)
	}

	for _, i := range initiatives {
		if i.AssigneeIDs, err = r.loadAssignees(ctx, i.ID); err != nil {
			return nil, err
		}
	}
	return initiatives, nil
}

func scanInitiative(scan func(dest ...any) error) (*domain.Initiative, error) {
	var i domain.Initiative
	var statusStr, createdAtStr, updatedAtStr string

	err := scan(
		&i.ID, &i.MilestoneID, &i.Title, &i.Description,
		&statusStr, &createdAtStr, &updatedAtStr,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("scanning initiative: %w", err)
	}

	i.Status = domain.Status(statusStr)

	var parseErr error
	i.CreatedAt, parseErr = time.Parse(time.RFC3339, createdAtStr)
	if parseErr != nil {
		return nil, fmt.Errorf("parsing created_at: %w", parseErr)
	}
	i.UpdatedAt, parseErr = time.Parse(time.RFC3339, updatedAtStr)
	if parseErr != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", parseErr)
	}
	return &i, nil
}
