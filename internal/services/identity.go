package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/oyvindh/shiplist-api/internal/database"
	"github.com/oyvindh/shiplist-api/internal/models"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrMissingName  = errors.New("name is required")
	ErrMissingTeam  = errors.New("team is required")
)

// IdentityService implements the name+team identity model: names match
// case-insensitively, teams and users are created on first reference, and
// re-registering with a different team re-parents the user.
type IdentityService struct {
	db *database.DB
}

func NewIdentityService(db *database.DB) *IdentityService {
	return &IdentityService{db: db}
}

// Lookup returns the user whose name matches case-insensitively, with their
// team attached. It never creates anything.
func (s *IdentityService) Lookup(ctx context.Context, name string) (*models.User, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrMissingName
	}

	var user models.User
	var team models.Team
	err := s.db.Pool.QueryRow(ctx, `
		SELECT u.id, u.name, u.team_id, u.created_at, u.updated_at,
		       t.id, t.name, t.created_at
		FROM users u
		JOIN teams t ON u.team_id = t.id
		WHERE LOWER(u.name) = LOWER($1)
	`, name).Scan(
		&user.ID, &user.Name, &user.TeamID, &user.CreatedAt, &user.UpdatedAt,
		&team.ID, &team.Name, &team.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	user.Team = &team
	return &user, nil
}

// Register finds or creates the team and user, both matched case-insensitively
// on the trimmed label. An existing user registering under a different team is
// moved to that team. The whole upsert is one transaction.
func (s *IdentityService) Register(ctx context.Context, name, teamLabel string) (*models.User, error) {
	name = strings.TrimSpace(name)
	teamLabel = strings.TrimSpace(teamLabel)
	if name == "" {
		return nil, ErrMissingName
	}
	if teamLabel == "" {
		return nil, ErrMissingTeam
	}

	tx, err := s.db.Pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var team models.Team
	err = tx.QueryRow(ctx, `
		SELECT id, name, created_at FROM teams WHERE LOWER(name) = LOWER($1)
	`, teamLabel).Scan(&team.ID, &team.Name, &team.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		err = tx.QueryRow(ctx, `
			INSERT INTO teams (name)
			VALUES ($1)
			RETURNING id, name, created_at
		`, teamLabel).Scan(&team.ID, &team.Name, &team.CreatedAt)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to resolve team: %w", err)
	}

	var user models.User
	err = tx.QueryRow(ctx, `
		SELECT id, name, team_id, created_at, updated_at
		FROM users WHERE LOWER(name) = LOWER($1)
	`, name).Scan(&user.ID, &user.Name, &user.TeamID, &user.CreatedAt, &user.UpdatedAt)

	switch {
	case errors.Is(err, pgx.ErrNoRows):
		err = tx.QueryRow(ctx, `
			INSERT INTO users (name, team_id)
			VALUES ($1, $2)
			RETURNING id, name, team_id, created_at, updated_at
		`, name, team.ID).Scan(&user.ID, &user.Name, &user.TeamID, &user.CreatedAt, &user.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to create user: %w", err)
		}
	case err != nil:
		return nil, fmt.Errorf("failed to look up user: %w", err)
	case user.TeamID != team.ID:
		err = tx.QueryRow(ctx, `
			UPDATE users SET team_id = $1, updated_at = NOW()
			WHERE id = $2
			RETURNING id, name, team_id, created_at, updated_at
		`, team.ID, user.ID).Scan(&user.ID, &user.Name, &user.TeamID, &user.CreatedAt, &user.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to move user to team: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	user.Team = &team
	return &user, nil
}

// ResolveOrCreateTeam returns the team whose name matches the trimmed label
// case-insensitively, creating it with the exact given label on a miss.
func (s *IdentityService) ResolveOrCreateTeam(ctx context.Context, label string) (*models.Team, error) {
	label = strings.TrimSpace(label)
	if label == "" {
		return nil, ErrMissingTeam
	}

	var team models.Team
	err := s.db.Pool.QueryRow(ctx, `
		SELECT id, name, created_at FROM teams WHERE LOWER(name) = LOWER($1)
	`, label).Scan(&team.ID, &team.Name, &team.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		err = s.db.Pool.QueryRow(ctx, `
			INSERT INTO teams (name)
			VALUES ($1)
			RETURNING id, name, created_at
		`, label).Scan(&team.ID, &team.Name, &team.CreatedAt)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to resolve team: %w", err)
	}
	return &team, nil
}

// ResolveTeam returns the team whose name matches case-insensitively, or nil
// without error when there is no such team.
func (s *IdentityService) ResolveTeam(ctx context.Context, label string) (*models.Team, error) {
	label = strings.TrimSpace(label)
	if label == "" {
		return nil, ErrMissingTeam
	}

	var team models.Team
	err := s.db.Pool.QueryRow(ctx, `
		SELECT id, name, created_at FROM teams WHERE LOWER(name) = LOWER($1)
	`, label).Scan(&team.ID, &team.Name, &team.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &team, nil
}
