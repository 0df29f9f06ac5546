package testutil

import (
	"context"
	"fmt"
	"testing"

	"github.com/oyvindh/shiplist-api/internal/database"
	"github.com/oyvindh/shiplist-api/internal/models"
)

// Fixtures provides factory methods for creating test data
type Fixtures struct {
	db      *database.DB
	counter int
}

// NewFixtures creates a new fixtures factory
func NewFixtures(db *database.DB) *Fixtures {
	return &Fixtures{db: db}
}

// CreateTeam creates a test team
func (f *Fixtures) CreateTeam(t *testing.T, opts ...TeamOption) *models.Team {
	t.Helper()
	f.counter++

	team := &models.Team{
		Name: fmt.Sprintf("Test Team %d", f.counter),
	}

	for _, opt := range opts {
		opt(team)
	}

	ctx := context.Background()
	err := f.db.Pool.QueryRow(ctx, `
		INSERT INTO teams (name)
		VALUES ($1)
		RETURNING id, name, created_at
	`, team.Name).Scan(&team.ID, &team.Name, &team.CreatedAt)
	if err != nil {
		t.Fatalf("failed to create team: %v", err)
	}

	return team
}

// TeamOption configures a test team
type TeamOption func(*models.Team)

// WithTeamName sets the team's name
func WithTeamName(name string) TeamOption {
	return func(tm *models.Team) {
		tm.Name = name
	}
}

// CreateUser creates a test user in the given team
func (f *Fixtures) CreateUser(t *testing.T, team *models.Team, opts ...UserOption) *models.User {
	t.Helper()
	f.counter++

	user := &models.User{
		Name:   fmt.Sprintf("Test User %d", f.counter),
		TeamID: team.ID,
	}

	for _, opt := range opts {
		opt(user)
	}

	ctx := context.Background()
	err := f.db.Pool.QueryRow(ctx, `
		INSERT INTO users (name, team_id)
		VALUES ($1, $2)
		RETURNING id, name, team_id, created_at, updated_at
	`, user.Name, user.TeamID).Scan(
		&user.ID, &user.Name, &user.TeamID, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	user.Team = team
	return user
}

// UserOption configures a test user
type UserOption func(*models.User)

// WithName sets the user's name
func WithName(name string) UserOption {
	return func(u *models.User) {
		u.Name = name
	}
}

// CreateTemplate creates a test template with the given task titles
func (f *Fixtures) CreateTemplate(t *testing.T, team *models.Team, taskTitles []string, opts ...TemplateOption) *models.Template {
	t.Helper()
	f.counter++

	template := &models.Template{
		Name:   fmt.Sprintf("Test Template %d", f.counter),
		TeamID: team.ID,
	}

	for _, opt := range opts {
		opt(template)
	}

	ctx := context.Background()
	err := f.db.Pool.QueryRow(ctx, `
		INSERT INTO templates (name, team_id)
		VALUES ($1, $2)
		RETURNING id, name, team_id, created_at
	`, template.Name, template.TeamID).Scan(
		&template.ID, &template.Name, &template.TeamID, &template.CreatedAt,
	)
	if err != nil {
		t.Fatalf("failed to create template: %v", err)
	}

	for i, title := range taskTitles {
		var task models.Task
		err := f.db.Pool.QueryRow(ctx, `
			INSERT INTO tasks (template_id, title, position)
			VALUES ($1, $2, $3)
			RETURNING id, template_id, title, position
		`, template.ID, title, i).Scan(&task.ID, &task.TemplateID, &task.Title, &task.Order)
		if err != nil {
			t.Fatalf("failed to create task: %v", err)
		}
		template.Tasks = append(template.Tasks, task)
	}

	return template
}

// TemplateOption configures a test template
type TemplateOption func(*models.Template)

// WithTemplateName sets the template's name
func WithTemplateName(name string) TemplateOption {
	return func(tpl *models.Template) {
		tpl.Name = name
	}
}
