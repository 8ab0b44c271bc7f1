package postgres

import (
	"context"
	"database/sql"
	"fmt"
)

// migrations holds the schema statements in apply order. Statements are
// idempotent so Apply can run at every startup.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id BIGSERIAL PRIMARY KEY,
		email TEXT NOT NULL UNIQUE,
		password TEXT NOT NULL,
		full_name TEXT NOT NULL,
		role TEXT NOT NULL DEFAULT 'user',
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS projects (
		id BIGSERIAL PRIMARY KEY,
		name TEXT NOT NULL,
		project_key TEXT NOT NULL,
		type TEXT NOT NULL DEFAULT '',
		lead BIGINT NOT NULL DEFAULT 0,
		project_url TEXT NOT NULL DEFAULT '',
		description TEXT NOT NULL DEFAULT '',
		project_logo TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS issues (
		id BIGSERIAL PRIMARY KEY,
		project BIGINT NOT NULL,
		issue_type TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL DEFAULT 'To Do',
		summary TEXT NOT NULL DEFAULT '',
		description TEXT NOT NULL DEFAULT '',
		priority TEXT NOT NULL DEFAULT 'Medium',
		team TEXT NOT NULL DEFAULT '',
		labels TEXT NOT NULL DEFAULT '',
		sprint TEXT NOT NULL DEFAULT '',
		linked_issue_type TEXT NOT NULL DEFAULT 'blocks',
		linked_issue BIGINT,
		assignee TEXT NOT NULL DEFAULT 'Automatic',
		attachment TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS teams (
		id BIGSERIAL PRIMARY KEY,
		team_name TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		project_id BIGINT NOT NULL,
		team_members JSONB NOT NULL DEFAULT '[]',
		created_by BIGINT NOT NULL,
		updated_by BIGINT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS chat_messages (
		id BIGSERIAL PRIMARY KEY,
		project_id BIGINT NOT NULL,
		sender_id BIGINT NOT NULL,
		message TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS reports (
		id BIGSERIAL PRIMARY KEY,
		user_id BIGINT NOT NULL,
		report_text TEXT NOT NULL,
		report_image TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_issues_project ON issues (project, created_at DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_issues_assignee ON issues (assignee, created_at DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_chat_messages_project ON chat_messages (project_id, created_at)`,
	`CREATE INDEX IF NOT EXISTS idx_reports_user ON reports (user_id, created_at DESC)`,
}

// Apply runs all schema migrations against the database.
func Apply(ctx context.Context, db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migration %d: %w", i+1, err)
		}
	}
	return nil
}
