package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/oyvindh/shiplist-api/internal/database"
	"github.com/oyvindh/shiplist-api/internal/models"
)

var (
	ErrTemplateNotFound = errors.New("template not found")
	ErrTemplateHasRuns  = errors.New("template has runs and cannot be deleted without force")
)

// summaryWindow is how many recent runs per template the listing inspects to
// find the active and last-done run. Older history never affects the summary.
const summaryWindow = 5

type TemplateService struct {
	db *database.DB
}

func NewTemplateService(db *database.DB) *TemplateService {
	return &TemplateService{db: db}
}

// Create inserts the template and one task per title, positions following the
// input order, as a single transaction.
func (s *TemplateService) Create(ctx context.Context, name string, teamID uuid.UUID, taskTitles []string) (*models.Template, error) {
	tx, err := s.db.Pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var template models.Template
	err = tx.QueryRow(ctx, `
		INSERT INTO templates (name, team_id)
		VALUES ($1, $2)
		RETURNING id, name, team_id, created_at
	`, name, teamID).Scan(&template.ID, &template.Name, &template.TeamID, &template.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create template: %w", err)
	}

	for i, title := range taskTitles {
		var task models.Task
		err = tx.QueryRow(ctx, `
			INSERT INTO tasks (template_id, title, position)
			VALUES ($1, $2, $3)
			RETURNING id, template_id, title, position
		`, template.ID, title, i).Scan(&task.ID, &task.TemplateID, &task.Title, &task.Order)
		if err != nil {
			return nil, fmt.Errorf("failed to create task: %w", err)
		}
		template.Tasks = append(template.Tasks, task)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return &template, nil
}

func (s *TemplateService) GetByID(ctx context.Context, id uuid.UUID) (*models.Template, error) {
	var template models.Template
	err := s.db.Pool.QueryRow(ctx, `
		SELECT id, name, team_id, created_at FROM templates WHERE id = $1
	`, id).Scan(&template.ID, &template.Name, &template.TeamID, &template.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTemplateNotFound
		}
		return nil, err
	}

	tasks, err := s.tasksForTemplate(ctx, id)
	if err != nil {
		return nil, err
	}
	template.Tasks = tasks
	return &template, nil
}

// ListByTeam returns the team's templates with their tasks, each annotated
// with the latest in-progress run (with progress counts) and the latest
// completed run, both derived from the template's most recent runs.
func (s *TemplateService) ListByTeam(ctx context.Context, teamID uuid.UUID) ([]models.TemplateWithRuns, error) {
	rows, err := s.db.Pool.Query(ctx, `
		SELECT id, name, team_id, created_at
		FROM templates WHERE team_id = $1
		ORDER BY created_at DESC
	`, teamID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var templates []models.TemplateWithRuns
	for rows.Next() {
		var t models.TemplateWithRuns
		if err := rows.Scan(&t.ID, &t.Name, &t.TeamID, &t.CreatedAt); err != nil {
			return nil, err
		}
		templates = append(templates, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range templates {
		tasks, err := s.tasksForTemplate(ctx, templates[i].ID)
		if err != nil {
			return nil, err
		}
		templates[i].Tasks = tasks

		summary, err := s.runSummary(ctx, templates[i].ID)
		if err != nil {
			return nil, err
		}
		templates[i].RunSummary = summary
	}

	return templates, nil
}

// Delete removes a template. With runs present it fails unless force is set,
// in which case items, runs, tasks and the template go in one transaction, in
// that order.
func (s *TemplateService) Delete(ctx context.Context, id uuid.UUID, force bool) error {
	var exists bool
	err := s.db.Pool.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM templates WHERE id = $1)
	`, id).Scan(&exists)
	if err != nil {
		return err
	}
	if !exists {
		return ErrTemplateNotFound
	}

	var runCount int
	err = s.db.Pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM runs WHERE template_id = $1
	`, id).Scan(&runCount)
	if err != nil {
		return err
	}

	if runCount > 0 && !force {
		return ErrTemplateHasRuns
	}

	tx, err := s.db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if runCount > 0 {
		if _, err := tx.Exec(ctx, `
			DELETE FROM run_items WHERE run_id IN (SELECT id FROM runs WHERE template_id = $1)
		`, id); err != nil {
			return fmt.Errorf("failed to delete run items: %w", err)
		}
		if _, err := tx.Exec(ctx, `DELETE FROM runs WHERE template_id = $1`, id); err != nil {
			return fmt.Errorf("failed to delete runs: %w", err)
		}
	}

	if _, err := tx.Exec(ctx, `DELETE FROM tasks WHERE template_id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete tasks: %w", err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM templates WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete template: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (s *TemplateService) tasksForTemplate(ctx context.Context, templateID uuid.UUID) ([]models.Task, error) {
	rows, err := s.db.Pool.Query(ctx, `
		SELECT id, template_id, title, position
		FROM tasks WHERE template_id = $1
		ORDER BY position
	`, templateID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []models.Task
	for rows.Next() {
		var task models.Task
		if err := rows.Scan(&task.ID, &task.TemplateID, &task.Title, &task.Order); err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	return tasks, rows.Err()
}

func (s *TemplateService) runSummary(ctx context.Context, templateID uuid.UUID) (models.RunSummary, error) {
	var summary models.RunSummary

	rows, err := s.db.Pool.Query(ctx, `
		SELECT r.id, r.status, r.finished_at, u.name,
		       (SELECT COUNT(*) FROM run_items ri WHERE ri.run_id = r.id),
		       (SELECT COUNT(*) FROM run_items ri WHERE ri.run_id = r.id AND ri.checked_at IS NOT NULL)
		FROM runs r
		JOIN users u ON r.started_by = u.id
		WHERE r.template_id = $1
		ORDER BY r.started_at DESC
		LIMIT $2
	`, templateID, summaryWindow)
	if err != nil {
		return summary, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id         uuid.UUID
			status     string
			finishedAt *time.Time
			startedBy  string
			total      int
			done       int
		)
		if err := rows.Scan(&id, &status, &finishedAt, &startedBy, &total, &done); err != nil {
			return summary, err
		}

		if status == models.RunStatusDone {
			if summary.LastDone == nil {
				summary.LastDone = &models.LastDone{By: startedBy, At: finishedAt}
			}
		} else if summary.ActiveRun == nil {
			summary.ActiveRun = &models.ActiveRun{ID: id, Done: done, Total: total}
		}
	}
	return summary, rows.Err()
}
