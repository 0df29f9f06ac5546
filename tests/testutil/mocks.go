package testutil

import (
	"context"

	"github.com/google/uuid"
	"github.com/oyvindh/shiplist-api/internal/models"
	"github.com/stretchr/testify/mock"
)

// MockIdentityService mocks the IdentityService
type MockIdentityService struct {
	mock.Mock
}

func (m *MockIdentityService) Lookup(ctx context.Context, name string) (*models.User, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockIdentityService) Register(ctx context.Context, name, teamLabel string) (*models.User, error) {
	args := m.Called(ctx, name, teamLabel)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockIdentityService) ResolveOrCreateTeam(ctx context.Context, label string) (*models.Team, error) {
	args := m.Called(ctx, label)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Team), args.Error(1)
}

func (m *MockIdentityService) ResolveTeam(ctx context.Context, label string) (*models.Team, error) {
	args := m.Called(ctx, label)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Team), args.Error(1)
}

// MockTemplateService mocks the TemplateService
type MockTemplateService struct {
	mock.Mock
}

func (m *MockTemplateService) Create(ctx context.Context, name string, teamID uuid.UUID, taskTitles []string) (*models.Template, error) {
	args := m.Called(ctx, name, teamID, taskTitles)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Template), args.Error(1)
}

func (m *MockTemplateService) GetByID(ctx context.Context, id uuid.UUID) (*models.Template, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Template), args.Error(1)
}

func (m *MockTemplateService) ListByTeam(ctx context.Context, teamID uuid.UUID) ([]models.TemplateWithRuns, error) {
	args := m.Called(ctx, teamID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.TemplateWithRuns), args.Error(1)
}

func (m *MockTemplateService) Delete(ctx context.Context, id uuid.UUID, force bool) error {
	args := m.Called(ctx, id, force)
	return args.Error(0)
}

// MockRunService mocks the RunService
type MockRunService struct {
	mock.Mock
}

func (m *MockRunService) Start(ctx context.Context, templateID uuid.UUID, actorName string) (*models.Run, error) {
	args := m.Called(ctx, templateID, actorName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Run), args.Error(1)
}

func (m *MockRunService) GetByID(ctx context.Context, id uuid.UUID) (*models.Run, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Run), args.Error(1)
}

func (m *MockRunService) ListByTeam(ctx context.Context, teamID uuid.UUID, limit int) ([]models.Run, error) {
	args := m.Called(ctx, teamID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Run), args.Error(1)
}

func (m *MockRunService) Toggle(ctx context.Context, runID, taskID uuid.UUID, checkedBy string, done bool) (*models.Run, error) {
	args := m.Called(ctx, runID, taskID, checkedBy, done)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Run), args.Error(1)
}

func (m *MockRunService) Finish(ctx context.Context, runID uuid.UUID) (*models.Run, error) {
	args := m.Called(ctx, runID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Run), args.Error(1)
}
