package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// Migrate runs all schema migrations. Statements are idempotent; ALTER TABLE
// duplicates are tolerated because the full list re-runs on every start.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id         TEXT PRIMARY KEY,
		name       TEXT NOT NULL,
		email      TEXT NOT NULL UNIQUE,
		role       TEXT NOT NULL DEFAULT 'EMPLOYEE'
		           CHECK(role IN ('ADMIN','MANAGER','EMPLOYEE')),
		status     TEXT NOT NULL DEFAULT 'ACTIVE'
		           CHECK(status IN ('ACTIVE','INACTIVE')),
		created_at TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS plans (
		id          TEXT PRIMARY KEY,
		title       TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		priority    TEXT NOT NULL DEFAULT 'MEDIUM'
		            CHECK(priority IN ('LOW','MEDIUM','HIGH')),
		status      TEXT NOT NULL DEFAULT 'PLANNED'
		            CHECK(status IN ('PLANNED','IN_PROGRESS','COMPLETED','CANCELLED')),
		owner_id    TEXT NOT NULL REFERENCES users(id),
		start_date  TEXT NOT NULL,
		end_date    TEXT,
		created_at  TEXT NOT NULL,
		updated_at  TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_plans_owner ON plans(owner_id)`,

	`CREATE TABLE IF NOT EXISTS milestones (
		id                 TEXT PRIMARY KEY,
		plan_id            TEXT NOT NULL REFERENCES plans(id) ON DELETE CASCADE,
		title              TEXT NOT NULL,
		due_date           TEXT,
		completion_percent REAL NOT NULL DEFAULT 0,
		status             TEXT NOT NULL DEFAULT 'PLANNED'
		                   CHECK(status IN ('PLANNED','IN_PROGRESS','COMPLETED','CANCELLED')),
		created_at         TEXT NOT NULL,
		updated_at         TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_milestones_plan ON milestones(plan_id)`,

	`CREATE TABLE IF NOT EXISTS initiatives (
		id           TEXT PRIMARY KEY,
		milestone_id TEXT NOT NULL REFERENCES milestones(id) ON DELETE CASCADE,
		title        TEXT NOT NULL,
		description  TEXT NOT NULL DEFAULT '',
		status       TEXT NOT NULL DEFAULT 'PLANNED'
		             CHECK(status IN ('PLANNED','IN_PROGRESS','COMPLETED','CANCELLED')),
		created_at   TEXT NOT NULL,
		updated_at   TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_initiatives_milestone ON initiatives(milestone_id)`,
	`CREATE INDEX IF NOT EXISTS idx_initiatives_status ON initiatives(status)`,

	`CREATE TABLE IF NOT EXISTS initiative_assignees (
		initiative_id TEXT NOT NULL REFERENCES initiatives(id) ON DELETE CASCADE,
		user_id       TEXT NOT NULL REFERENCES users(id),
		PRIMARY KEY (initiative_id, user_id)
	)`,

	`CREATE INDEX IF NOT EXISTS idx_assignees_user ON initiative_assignees(user_id)`,

	`CREATE TABLE IF NOT EXISTS audit_log (
		id           TEXT PRIMARY KEY,
		action       TEXT NOT NULL
		             CHECK(action IN ('CREATE','UPDATE','DELETE','UPDATE_STATUS')),
		performed_by TEXT NOT NULL,
		entity_type  TEXT NOT NULL,
		entity_id    TEXT NOT NULL,
		details      TEXT NOT NULL DEFAULT '',
		old_value    TEXT,
		new_value    TEXT,
		timestamp    TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_audit_entity ON audit_log(entity_type, entity_id)`,
	`CREATE INDEX IF NOT EXISTS idx_audit_actor ON audit_log(performed_by)`,
	`CREATE INDEX IF NOT EXISTS idx_audit_timestamp ON audit_log(timestamp)`,

	`CREATE TABLE IF NOT EXISTS notifications (
		id          TEXT PRIMARY KEY,
		user_id     TEXT NOT NULL,
		type        TEXT NOT NULL,
		message     TEXT NOT NULL,
		entity_type TEXT,
		entity_id   TEXT,
		status      TEXT NOT NULL DEFAULT 'UNREAD'
		            CHECK(status IN ('UNREAD','READ')),
		created_at  TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_notifications_user ON notifications(user_id)`,
	`CREATE INDEX IF NOT EXISTS idx_notifications_status ON notifications(user_id, status)`,
}
