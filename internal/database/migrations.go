package database

import (
	"context"
	"fmt"
)

var migrations = []string{
	`CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`,

	`CREATE TABLE IF NOT EXISTS teams (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		name VARCHAR(255) NOT NULL,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	)`,

	// Name is the effective unique key, compared case-insensitively. The
	// lower() index makes resolve-or-create an index lookup instead of a scan.
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_teams_name_lower ON teams (LOWER(name))`,

	`CREATE TABLE IF NOT EXISTS users (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		name VARCHAR(255) NOT NULL,
		team_id UUID NOT NULL REFERENCES teams(id),
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	)`,

	// User names are unique across the whole system, not per team.
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_users_name_lower ON users (LOWER(name))`,
	`CREATE INDEX IF NOT EXISTS idx_users_team_id ON users(team_id)`,

	`CREATE TABLE IF NOT EXISTS templates (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		name VARCHAR(255) NOT NULL,
		team_id UUID NOT NULL REFERENCES teams(id),
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	)`,

	`CREATE INDEX IF NOT EXISTS idx_templates_team_id ON templates(team_id)`,

	`CREATE TABLE IF NOT EXISTS tasks (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		template_id UUID NOT NULL REFERENCES templates(id),
		title VARCHAR(500) NOT NULL,
		position INTEGER NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_tasks_template_id ON tasks(template_id)`,

	// No ON DELETE CASCADE on template_id: template deletion must either be
	// blocked by existing runs or performed as an explicit ordered cascade.
	`CREATE TABLE IF NOT EXISTS runs (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		template_id UUID NOT NULL REFERENCES templates(id),
		team_id UUID NOT NULL REFERENCES teams(id),
		started_by UUID NOT NULL REFERENCES users(id),
		status VARCHAR(20) NOT NULL DEFAULT 'in_progress',
		started_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		finished_at TIMESTAMP WITH TIME ZONE
	)`,

	`CREATE INDEX IF NOT EXISTS idx_runs_template_id ON runs(template_id)`,
	`CREATE INDEX IF NOT EXISTS idx_runs_team_started ON runs(team_id, started_at DESC)`,

	// task_id is deliberately not a foreign key: items are snapshots and must
	// stay readable after their task is gone.
	`CREATE TABLE IF NOT EXISTS run_items (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		run_id UUID NOT NULL REFERENCES runs(id),
		task_id UUID NOT NULL,
		title VARCHAR(500) NOT NULL,
		position INTEGER NOT NULL,
		checked_by VARCHAR(255),
		checked_at TIMESTAMP WITH TIME ZONE,
		UNIQUE(run_id, task_id)
	)`,

	`CREATE INDEX IF NOT EXISTS idx_run_items_run_id ON run_items(run_id)`,
}

func (db *DB) Migrate(ctx context.Context) error {
	for i, migration := range migrations {
		if _, err := db.Pool.Exec(ctx, migration); err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}
	return nil
}
