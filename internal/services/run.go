package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/oyvindh/shiplist-api/internal/database"
	"github.com/oyvindh/shiplist-api/internal/models"
)

var (
	ErrRunNotFound     = errors.New("run not found")
	ErrRunItemNotFound = errors.New("run item not found")
	ErrActorNotInTeam  = errors.New("user not found in template's team")
)

// RunService owns the run lifecycle: a run snapshots its template's tasks at
// start, items are toggled with attribution, and the run's status is derived
// from item completion after every toggle.
type RunService struct {
	db *database.DB
}

func NewRunService(db *database.DB) *RunService {
	return &RunService{db: db}
}

// Start creates a run of the template plus one item per task, all in one
// transaction, so a run is never observable without its items. The actor must
// already exist in the template's team (matched case-insensitively); starting
// does not create users. A run of a template with no tasks is born done.
func (s *RunService) Start(ctx context.Context, templateID uuid.UUID, actorName string) (*models.Run, error) {
	actorName = strings.TrimSpace(actorName)
	if actorName == "" {
		return nil, ErrMissingName
	}

	tx, err := s.db.Pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var teamID uuid.UUID
	err = tx.QueryRow(ctx, `
		SELECT team_id FROM templates WHERE id = $1
	`, templateID).Scan(&teamID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTemplateNotFound
		}
		return nil, err
	}

	var actorID uuid.UUID
	err = tx.QueryRow(ctx, `
		SELECT id FROM users WHERE team_id = $1 AND LOWER(name) = LOWER($2)
	`, teamID, actorName).Scan(&actorID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrActorNotInTeam
		}
		return nil, err
	}

	rows, err := tx.Query(ctx, `
		SELECT id, title, position FROM tasks
		WHERE template_id = $1
		ORDER BY position
	`, templateID)
	if err != nil {
		return nil, err
	}

	type taskRow struct {
		id       uuid.UUID
		title    string
		position int
	}
	var tasks []taskRow
	for rows.Next() {
		var t taskRow
		if err := rows.Scan(&t.id, &t.title, &t.position); err != nil {
			rows.Close()
			return nil, err
		}
		tasks = append(tasks, t)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Zero-task templates produce runs that are complete by definition.
	status := models.RunStatusInProgress
	if len(tasks) == 0 {
		status = models.RunStatusDone
	}

	var runID uuid.UUID
	err = tx.QueryRow(ctx, `
		INSERT INTO runs (template_id, team_id, started_by, status)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`, templateID, teamID, actorID, status).Scan(&runID)
	if err != nil {
		return nil, fmt.Errorf("failed to create run: %w", err)
	}

	if len(tasks) == 0 {
		if _, err := tx.Exec(ctx, `
			UPDATE runs SET finished_at = started_at WHERE id = $1
		`, runID); err != nil {
			return nil, fmt.Errorf("failed to finish empty run: %w", err)
		}
	}

	for _, t := range tasks {
		if _, err := tx.Exec(ctx, `
			INSERT INTO run_items (run_id, task_id, title, position)
			VALUES ($1, $2, $3, $4)
		`, runID, t.id, t.title, t.position); err != nil {
			return nil, fmt.Errorf("failed to create run item: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return s.GetByID(ctx, runID)
}

func (s *RunService) GetByID(ctx context.Context, id uuid.UUID) (*models.Run, error) {
	var run models.Run
	err := s.db.Pool.QueryRow(ctx, `
		SELECT r.id, r.template_id, t.name, r.team_id, r.started_by, u.name,
		       r.status, r.started_at, r.finished_at
		FROM runs r
		JOIN templates t ON r.template_id = t.id
		JOIN users u ON r.started_by = u.id
		WHERE r.id = $1
	`, id).Scan(
		&run.ID, &run.TemplateID, &run.TemplateName, &run.TeamID,
		&run.StartedByID, &run.StartedBy, &run.Status, &run.StartedAt, &run.FinishedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrRunNotFound
		}
		return nil, err
	}

	items, err := s.itemsForRun(ctx, id)
	if err != nil {
		return nil, err
	}
	run.Items = items
	return &run, nil
}

// ListByTeam returns the team's runs, most recently started first, with their
// items. The handler clamps limit before calling.
func (s *RunService) ListByTeam(ctx context.Context, teamID uuid.UUID, limit int) ([]models.Run, error) {
	rows, err := s.db.Pool.Query(ctx, `
		SELECT r.id, r.template_id, t.name, r.team_id, r.started_by, u.name,
		       r.status, r.started_at, r.finished_at
		FROM runs r
		JOIN templates t ON r.template_id = t.id
		JOIN users u ON r.started_by = u.id
		WHERE r.team_id = $1
		ORDER BY r.started_at DESC
		LIMIT $2
	`, teamID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []models.Run
	for rows.Next() {
		var run models.Run
		if err := rows.Scan(
			&run.ID, &run.TemplateID, &run.TemplateName, &run.TeamID,
			&run.StartedByID, &run.StartedBy, &run.Status, &run.StartedAt, &run.FinishedAt,
		); err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range runs {
		items, err := s.itemsForRun(ctx, runs[i].ID)
		if err != nil {
			return nil, err
		}
		runs[i].Items = items
	}
	return runs, nil
}

// Toggle checks or unchecks the item identified by (runID, taskID), then
// recomputes the run's status inside the same transaction. The recompute goes
// both ways: checking the last open item completes the run, and unchecking an
// item on a done run (even one finished via Finish) reopens it, so status
// always reflects item completion after a toggle.
func (s *RunService) Toggle(ctx context.Context, runID, taskID uuid.UUID, checkedBy string, done bool) (*models.Run, error) {
	checkedBy = strings.TrimSpace(checkedBy)
	if checkedBy == "" {
		checkedBy = models.CheckedByUnknown
	}

	tx, err := s.db.Pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var tag pgconn.CommandTag
	if done {
		tag, err = tx.Exec(ctx, `
			UPDATE run_items SET checked_at = NOW(), checked_by = $1
			WHERE run_id = $2 AND task_id = $3
		`, checkedBy, runID, taskID)
	} else {
		tag, err = tx.Exec(ctx, `
			UPDATE run_items SET checked_at = NULL, checked_by = NULL
			WHERE run_id = $1 AND task_id = $2
		`, runID, taskID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update run item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, ErrRunItemNotFound
	}

	var total, checked int
	err = tx.QueryRow(ctx, `
		SELECT COUNT(*), COUNT(checked_at) FROM run_items WHERE run_id = $1
	`, runID).Scan(&total, &checked)
	if err != nil {
		return nil, err
	}

	if checked == total {
		_, err = tx.Exec(ctx, `
			UPDATE runs SET status = $1, finished_at = NOW() WHERE id = $2
		`, models.RunStatusDone, runID)
	} else {
		_, err = tx.Exec(ctx, `
			UPDATE runs SET status = $1, finished_at = NULL WHERE id = $2
		`, models.RunStatusInProgress, runID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update run status: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return s.GetByID(ctx, runID)
}

// Finish marks the run done regardless of item state. This is the explicit
// override next to the toggle-driven auto-completion; a later toggle will
// recompute status again.
func (s *RunService) Finish(ctx context.Context, runID uuid.UUID) (*models.Run, error) {
	tag, err := s.db.Pool.Exec(ctx, `
		UPDATE runs SET status = $1, finished_at = NOW() WHERE id = $2
	`, models.RunStatusDone, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to finish run: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, ErrRunNotFound
	}
	return s.GetByID(ctx, runID)
}

func (s *RunService) itemsForRun(ctx context.Context, runID uuid.UUID) ([]models.RunItem, error) {
	rows, err := s.db.Pool.Query(ctx, `
		SELECT id, run_id, task_id, title, position, checked_by, checked_at
		FROM run_items WHERE run_id = $1
		ORDER BY position
	`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []models.RunItem
	for rows.Next() {
		var item models.RunItem
		if err := rows.Scan(
			&item.ID, &item.RunID, &item.TaskID, &item.Title,
			&item.Position, &item.CheckedBy, &item.CheckedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}
