package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/oyvindh/shiplist-api/internal/database"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupIdentityService(t *testing.T) (*IdentityService, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(func() { mock.Close() })

	db := &database.DB{Pool: mock}
	return NewIdentityService(db), mock
}

func TestIdentityService_Lookup(t *testing.T) {
	svc, mock := setupIdentityService(t)
	ctx := context.Background()
	userID := uuid.New()
	teamID := uuid.New()
	now := time.Now()

	rows := pgxmock.NewRows([]string{
		"id", "name", "team_id", "created_at", "updated_at",
		"id", "name", "created_at",
	}).AddRow(userID, "Alice", teamID, now, now, teamID, "Platform", now)

	mock.ExpectQuery(`SELECT .+ FROM users u`).
		WithArgs("ALICE").
		WillReturnRows(rows)

	user, err := svc.Lookup(ctx, "ALICE")

	require.NoError(t, err)
	assert.Equal(t, userID, user.ID)
	assert.Equal(t, "Alice", user.Name)
	require.NotNil(t, user.Team)
	assert.Equal(t, "Platform", user.Team.Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIdentityService_Lookup_NotFound(t *testing.T) {
	svc, mock := setupIdentityService(t)
	ctx := context.Background()

	mock.ExpectQuery(`SELECT .+ FROM users u`).
		WithArgs("Nobody").
		WillReturnError(pgx.ErrNoRows)

	_, err := svc.Lookup(ctx, "Nobody")

	assert.ErrorIs(t, err, ErrUserNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIdentityService_Lookup_BlankName(t *testing.T) {
	svc, _ := setupIdentityService(t)

	_, err := svc.Lookup(context.Background(), "   ")

	assert.ErrorIs(t, err, ErrMissingName)
}

func TestIdentityService_Register_CreatesTeamAndUser(t *testing.T) {
	svc, mock := setupIdentityService(t)
	ctx := context.Background()
	userID := uuid.New()
	teamID := uuid.New()
	now := time.Now()

	mock.ExpectBegin()

	mock.ExpectQuery(`SELECT id, name, created_at FROM teams WHERE LOWER\(name\)`).
		WithArgs("Platform").
		WillReturnError(pgx.ErrNoRows)

	mock.ExpectQuery(`INSERT INTO teams`).
		WithArgs("Platform").
		WillReturnRows(pgxmock.NewRows([]string{"id", "name", "created_at"}).
			AddRow(teamID, "Platform", now))

	mock.ExpectQuery(`SELECT id, name, team_id, created_at, updated_at\s+FROM users`).
		WithArgs("Bo").
		WillReturnError(pgx.ErrNoRows)

	mock.ExpectQuery(`INSERT INTO users`).
		WithArgs("Bo", teamID).
		WillReturnRows(pgxmock.NewRows([]string{"id", "name", "team_id", "created_at", "updated_at"}).
			AddRow(userID, "Bo", teamID, now, now))

	mock.ExpectCommit()

	user, err := svc.Register(ctx, " Bo ", " Platform ")

	require.NoError(t, err)
	assert.Equal(t, userID, user.ID)
	assert.Equal(t, "Bo", user.Name)
	assert.Equal(t, teamID, user.TeamID)
	require.NotNil(t, user.Team)
	assert.Equal(t, "Platform", user.Team.Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIdentityService_Register_ReparentsExistingUser(t *testing.T) {
	svc, mock := setupIdentityService(t)
	ctx := context.Background()
	userID := uuid.New()
	oldTeamID := uuid.New()
	newTeamID := uuid.New()
	now := time.Now()

	mock.ExpectBegin()

	mock.ExpectQuery(`SELECT id, name, created_at FROM teams WHERE LOWER\(name\)`).
		WithArgs("Infra").
		WillReturnRows(pgxmock.NewRows([]string{"id", "name", "created_at"}).
			AddRow(newTeamID, "Infra", now))

	mock.ExpectQuery(`SELECT id, name, team_id, created_at, updated_at\s+FROM users`).
		WithArgs("alice").
		WillReturnRows(pgxmock.NewRows([]string{"id", "name", "team_id", "created_at", "updated_at"}).
			AddRow(userID, "Alice", oldTeamID, now, now))

	mock.ExpectQuery(`UPDATE users SET team_id`).
		WithArgs(newTeamID, userID).
		WillReturnRows(pgxmock.NewRows([]string{"id", "name", "team_id", "created_at", "updated_at"}).
			AddRow(userID, "Alice", newTeamID, now, now))

	mock.ExpectCommit()

	user, err := svc.Register(ctx, "alice", "Infra")

	require.NoError(t, err)
	assert.Equal(t, newTeamID, user.TeamID)
	assert.Equal(t, "Alice", user.Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIdentityService_Register_SameTeamNoUpdate(t *testing.T) {
	svc, mock := setupIdentityService(t)
	ctx := context.Background()
	userID := uuid.New()
	teamID := uuid.New()
	now := time.Now()

	mock.ExpectBegin()

	mock.ExpectQuery(`SELECT id, name, created_at FROM teams WHERE LOWER\(name\)`).
		WithArgs("Platform").
		WillReturnRows(pgxmock.NewRows([]string{"id", "name", "created_at"}).
			AddRow(teamID, "Platform", now))

	mock.ExpectQuery(`SELECT id, name, team_id, created_at, updated_at\s+FROM users`).
		WithArgs("Alice").
		WillReturnRows(pgxmock.NewRows([]string{"id", "name", "team_id", "created_at", "updated_at"}).
			AddRow(userID, "Alice", teamID, now, now))

	mock.ExpectCommit()

	user, err := svc.Register(ctx, "Alice", "Platform")

	require.NoError(t, err)
	assert.Equal(t, userID, user.ID)
	assert.Equal(t, teamID, user.TeamID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIdentityService_Register_BlankInput(t *testing.T) {
	svc, _ := setupIdentityService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "", "Platform")
	assert.ErrorIs(t, err, ErrMissingName)

	_, err = svc.Register(ctx, "Alice", "  ")
	assert.ErrorIs(t, err, ErrMissingTeam)
}

func TestIdentityService_ResolveOrCreateTeam_CreatesOnMiss(t *testing.T) {
	svc, mock := setupIdentityService(t)
	ctx := context.Background()
	teamID := uuid.New()
	now := time.Now()

	mock.ExpectQuery(`SELECT id, name, created_at FROM teams WHERE LOWER\(name\)`).
		WithArgs("Platform").
		WillReturnError(pgx.ErrNoRows)

	mock.ExpectQuery(`INSERT INTO teams`).
		WithArgs("Platform").
		WillReturnRows(pgxmock.NewRows([]string{"id", "name", "created_at"}).
			AddRow(teamID, "Platform", now))

	team, err := svc.ResolveOrCreateTeam(ctx, "Platform")

	require.NoError(t, err)
	assert.Equal(t, teamID, team.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIdentityService_ResolveTeam_NilOnMiss(t *testing.T) {
	svc, mock := setupIdentityService(t)
	ctx := context.Background()

	mock.ExpectQuery(`SELECT id, name, created_at FROM teams WHERE LOWER\(name\)`).
		WithArgs("Ghosts").
		WillReturnError(pgx.ErrNoRows)

	team, err := svc.ResolveTeam(ctx, "Ghosts")

	require.NoError(t, err)
	assert.Nil(t, team)
	assert.NoError(t, mock.ExpectationsWereMet())
}
