package handlers

import (
	"context"

	"github.com/google/uuid"
	"github.com/oyvindh/shiplist-api/internal/models"
)

// IdentityServiceInterface defines the methods used by handlers from IdentityService
type IdentityServiceInterface interface {
	Lookup(ctx context.Context, name string) (*models.User, error)
	Register(ctx context.Context, name, teamLabel string) (*models.User, error)
	ResolveTeam(ctx context.Context, label string) (*models.Team, error)
}

// TemplateServiceInterface defines the methods used by handlers from TemplateService
type TemplateServiceInterface interface {
	Create(ctx context.Context, name string, teamID uuid.UUID, taskTitles []string) (*models.Template, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Template, error)
	ListByTeam(ctx context.Context, teamID uuid.UUID) ([]models.TemplateWithRuns, error)
	Delete(ctx context.Context, id uuid.UUID, force bool) error
}

// RunServiceInterface defines the methods used by handlers from RunService
type RunServiceInterface interface {
	Start(ctx context.Context, templateID uuid.UUID, actorName string) (*models.Run, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Run, error)
	ListByTeam(ctx context.Context, teamID uuid.UUID, limit int) ([]models.Run, error)
	Toggle(ctx context.Context, runID, taskID uuid.UUID, checkedBy string, done bool) (*models.Run, error)
	Finish(ctx context.Context, runID uuid.UUID) (*models.Run, error)
}
