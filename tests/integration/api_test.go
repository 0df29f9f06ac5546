package integration

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/m1z23r/drift/pkg/drift"
	driftmw "github.com/m1z23r/drift/pkg/middleware"
	"github.com/oyvindh/shiplist-api/internal/handlers"
	"github.com/oyvindh/shiplist-api/internal/services"
	"github.com/oyvindh/shiplist-api/pkg/dto"
	"github.com/oyvindh/shiplist-api/tests/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestApp wires real services against the test database behind the same
// routes the server registers.
func newTestApp(t *testing.T, tdb *testutil.TestDB) *testutil.HTTPTestClient {
	t.Helper()

	identityService := services.NewIdentityService(tdb.DB)
	templateService := services.NewTemplateService(tdb.DB)
	runService := services.NewRunService(tdb.DB)

	identityHandler := handlers.NewIdentityHandler(identityService)
	templateHandler := handlers.NewTemplateHandler(templateService, identityService)
	runHandler := handlers.NewRunHandler(runService, identityService, 40)

	app := drift.New()
	app.Use(driftmw.BodyParser())

	api := app.Group("/api/v1")
	api.Get("/me", identityHandler.Me)
	api.Post("/register", identityHandler.Register)
	api.Get("/templates", templateHandler.List)
	api.Post("/templates", templateHandler.Create)
	api.Delete("/templates/:templateId", templateHandler.Delete)
	api.Get("/runs", runHandler.List)
	api.Post("/runs", runHandler.Start)
	api.Get("/runs/:runId", runHandler.Get)
	api.Patch("/runs/:runId/items/:taskId", runHandler.ToggleItem)
	api.Post("/runs/:runId/finish", runHandler.Finish)

	return testutil.NewHTTPTestClient(t, app)
}

func TestAPI_Integration_ChecklistLifecycle(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	tdb := setupTest(t)
	client := newTestApp(t, tdb)

	// Bo joins the Platform team
	rec := client.POST("/api/v1/register", dto.RegisterRequest{Name: "Bo", TeamName: "Platform"}, nil)
	testutil.AssertStatus(t, rec, http.StatusCreated)

	var user dto.UserResponse
	testutil.ParseJSON(t, rec, &user)
	assert.Equal(t, "Bo", user.Name)
	assert.Equal(t, "Platform", user.Team.Name)

	rec = client.GET("/api/v1/me?name=bo", nil)
	testutil.AssertStatus(t, rec, http.StatusOK)

	// The team gets a release checklist
	rec = client.POST("/api/v1/templates", dto.CreateTemplateRequest{
		Name:     "Release",
		TeamName: "Platform",
		Tasks:    []string{"Build", "Deploy", "Smoke test"},
	}, nil)
	testutil.AssertStatus(t, rec, http.StatusCreated)

	var template dto.TemplateResponse
	testutil.ParseJSON(t, rec, &template)
	require.Len(t, template.Tasks, 3)

	// Bo starts a run and checks off the first two items
	rec = client.POST("/api/v1/runs", dto.StartRunRequest{TemplateID: template.ID, StartedBy: "Bo"}, nil)
	testutil.AssertStatus(t, rec, http.StatusCreated)

	var started map[string]dto.RunResponse
	testutil.ParseJSON(t, rec, &started)
	run := started["run"]
	require.Len(t, run.Items, 3)

	for _, item := range run.Items[:2] {
		rec = client.PATCH(
			fmt.Sprintf("/api/v1/runs/%s/items/%s", run.ID, item.TaskID),
			dto.ToggleItemRequest{Done: true, CheckedBy: "Bo"},
			nil,
		)
		testutil.AssertStatus(t, rec, http.StatusOK)
	}

	// The template listing reflects the run in flight
	rec = client.GET("/api/v1/templates?team=Platform", nil)
	testutil.AssertStatus(t, rec, http.StatusOK)

	var list dto.TemplateListResponse
	testutil.ParseJSON(t, rec, &list)
	require.Len(t, list.Templates, 1)
	require.NotNil(t, list.Templates[0].ActiveRun)
	assert.Equal(t, 2, list.Templates[0].ActiveRun.Done)
	assert.Equal(t, 3, list.Templates[0].ActiveRun.Total)
	assert.Nil(t, list.Templates[0].LastDone)

	// Checking the last item completes the run
	rec = client.PATCH(
		fmt.Sprintf("/api/v1/runs/%s/items/%s", run.ID, run.Items[2].TaskID),
		dto.ToggleItemRequest{Done: true, CheckedBy: "Bo"},
		nil,
	)
	testutil.AssertStatus(t, rec, http.StatusOK)

	var toggled map[string]dto.RunResponse
	testutil.ParseJSON(t, rec, &toggled)
	assert.Equal(t, "done", toggled["run"].Status)
	assert.NotNil(t, toggled["run"].FinishedAt)

	rec = client.GET("/api/v1/templates?team=Platform", nil)
	testutil.AssertStatus(t, rec, http.StatusOK)
	testutil.ParseJSON(t, rec, &list)
	assert.Nil(t, list.Templates[0].ActiveRun)
	require.NotNil(t, list.Templates[0].LastDone)
	assert.Equal(t, "Bo", list.Templates[0].LastDone.By)
}

func TestAPI_Integration_TemplateDeleteConflict(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	tdb := setupTest(t)
	client := newTestApp(t, tdb)

	rec := client.POST("/api/v1/register", dto.RegisterRequest{Name: "Bo", TeamName: "Platform"}, nil)
	testutil.AssertStatus(t, rec, http.StatusCreated)

	rec = client.POST("/api/v1/templates", dto.CreateTemplateRequest{
		Name:     "Release",
		TeamName: "Platform",
		Tasks:    []string{"Build"},
	}, nil)
	testutil.AssertStatus(t, rec, http.StatusCreated)

	var template dto.TemplateResponse
	testutil.ParseJSON(t, rec, &template)

	rec = client.POST("/api/v1/runs", dto.StartRunRequest{TemplateID: template.ID, StartedBy: "Bo"}, nil)
	testutil.AssertStatus(t, rec, http.StatusCreated)

	// Delete without force is refused while runs exist
	rec = client.DELETE("/api/v1/templates/"+template.ID.String(), nil)
	testutil.AssertStatus(t, rec, http.StatusConflict)

	rec = client.DELETE("/api/v1/templates/"+template.ID.String()+"?force=1", nil)
	testutil.AssertStatus(t, rec, http.StatusOK)

	rec = client.GET("/api/v1/templates?team=Platform", nil)
	testutil.AssertStatus(t, rec, http.StatusOK)

	var list dto.TemplateListResponse
	testutil.ParseJSON(t, rec, &list)
	assert.Empty(t, list.Templates)

	rec = client.GET("/api/v1/runs?team=Platform", nil)
	testutil.AssertStatus(t, rec, http.StatusOK)

	var runs dto.RunListResponse
	testutil.ParseJSON(t, rec, &runs)
	assert.Empty(t, runs.Runs)
}
