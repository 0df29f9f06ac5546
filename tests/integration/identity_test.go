package integration

import (
	"context"
	"testing"

	"github.com/oyvindh/shiplist-api/internal/services"
	"github.com/oyvindh/shiplist-api/tests/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIdentityService_Integration_Register(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	tdb := setupTest(t)
	svc := services.NewIdentityService(tdb.DB)
	ctx := context.Background()

	user, err := svc.Register(ctx, "Alice", "Platform")

	require.NoError(t, err)
	assert.NotEmpty(t, user.ID)
	assert.Equal(t, "Alice", user.Name)
	require.NotNil(t, user.Team)
	assert.Equal(t, "Platform", user.Team.Name)
}

func TestIdentityService_Integration_RegisterIsIdempotent(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	tdb := setupTest(t)
	svc := services.NewIdentityService(tdb.DB)
	ctx := context.Background()

	first, err := svc.Register(ctx, "Alice", "Platform")
	require.NoError(t, err)

	// Same name with different casing resolves the same user and team
	second, err := svc.Register(ctx, "alice", "platform")
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, first.TeamID, second.TeamID)
}

func TestIdentityService_Integration_RegisterReparentsUser(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	tdb := setupTest(t)
	svc := services.NewIdentityService(tdb.DB)
	ctx := context.Background()

	user, err := svc.Register(ctx, "Alice", "Platform")
	require.NoError(t, err)

	moved, err := svc.Register(ctx, "Alice", "Payments")
	require.NoError(t, err)

	assert.Equal(t, user.ID, moved.ID)
	assert.NotEqual(t, user.TeamID, moved.TeamID)
	require.NotNil(t, moved.Team)
	assert.Equal(t, "Payments", moved.Team.Name)

	// Lookup reflects the new team
	found, err := svc.Lookup(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, moved.TeamID, found.TeamID)
}

func TestIdentityService_Integration_LookupNotFound(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	tdb := setupTest(t)
	svc := services.NewIdentityService(tdb.DB)
	ctx := context.Background()

	_, err := svc.Lookup(ctx, "Nobody")

	assert.ErrorIs(t, err, services.ErrUserNotFound)
}

func TestIdentityService_Integration_ResolveTeam(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	tdb := setupTest(t)
	fixtures := testutil.NewFixtures(tdb.DB)
	svc := services.NewIdentityService(tdb.DB)
	ctx := context.Background()

	created := fixtures.CreateTeam(t, testutil.WithTeamName("Platform"))

	team, err := svc.ResolveTeam(ctx, "PLATFORM")
	require.NoError(t, err)
	require.NotNil(t, team)
	assert.Equal(t, created.ID, team.ID)

	missing, err := svc.ResolveTeam(ctx, "Ghosts")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestIdentityService_Integration_ResolveOrCreateTeam(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	tdb := setupTest(t)
	svc := services.NewIdentityService(tdb.DB)
	ctx := context.Background()

	first, err := svc.ResolveOrCreateTeam(ctx, "Platform")
	require.NoError(t, err)
	assert.NotEmpty(t, first.ID)

	second, err := svc.ResolveOrCreateTeam(ctx, "platform")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
}
