package handlers

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
	"github.com/oyvindh/shiplist-api/internal/models"
	"github.com/oyvindh/shiplist-api/internal/services"
	"github.com/oyvindh/shiplist-api/pkg/dto"
)

const maxRunListLimit = 200

type RunHandler struct {
	runService      RunServiceInterface
	identityService IdentityServiceInterface
	defaultLimit    int
}

func NewRunHandler(runService RunServiceInterface, identityService IdentityServiceInterface, defaultLimit int) *RunHandler {
	if defaultLimit < 1 || defaultLimit > maxRunListLimit {
		defaultLimit = 40
	}
	return &RunHandler{
		runService:      runService,
		identityService: identityService,
		defaultLimit:    defaultLimit,
	}
}

func (h *RunHandler) Start(c *drift.Context) {
	var req dto.StartRunRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	if req.TemplateID == uuid.Nil || strings.TrimSpace(req.StartedBy) == "" {
		c.BadRequest("template_id and started_by are required")
		return
	}

	run, err := h.runService.Start(context.Background(), req.TemplateID, req.StartedBy)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrTemplateNotFound):
			c.NotFound("template not found")
		case errors.Is(err, services.ErrActorNotInTeam):
			c.NotFound("user not found in template's team")
		case errors.Is(err, services.ErrMissingName):
			c.BadRequest(err.Error())
		default:
			c.InternalServerError("failed to start run")
		}
		return
	}

	_ = c.JSON(201, map[string]dto.RunResponse{"run": toRunResponse(run)})
}

func (h *RunHandler) Get(c *drift.Context) {
	runID, err := uuid.Parse(c.Param("runId"))
	if err != nil {
		c.BadRequest("invalid run id")
		return
	}

	run, err := h.runService.GetByID(context.Background(), runID)
	if err != nil {
		if errors.Is(err, services.ErrRunNotFound) {
			c.NotFound("run not found")
			return
		}
		c.InternalServerError("failed to get run")
		return
	}

	_ = c.JSON(200, map[string]dto.RunResponse{"run": toRunResponse(run)})
}

// List returns the team's runs, most recently started first. An unknown team
// yields an empty list.
func (h *RunHandler) List(c *drift.Context) {
	teamName := strings.TrimSpace(c.QueryParam("team"))
	if teamName == "" {
		c.BadRequest("team is required")
		return
	}

	limit := h.defaultLimit
	if limitStr := c.QueryParam("limit"); limitStr != "" {
		if parsed, err := strconv.Atoi(limitStr); err == nil {
			limit = clampLimit(parsed)
		}
	}

	ctx := context.Background()

	team, err := h.identityService.ResolveTeam(ctx, teamName)
	if err != nil {
		c.InternalServerError("failed to resolve team")
		return
	}
	if team == nil {
		_ = c.JSON(200, dto.RunListResponse{Runs: []dto.RunResponse{}})
		return
	}

	runs, err := h.runService.ListByTeam(ctx, team.ID, limit)
	if err != nil {
		c.InternalServerError("failed to list runs")
		return
	}

	out := make([]dto.RunResponse, len(runs))
	for i := range runs {
		out[i] = toRunResponse(&runs[i])
	}
	_ = c.JSON(200, dto.RunListResponse{Runs: out})
}

func (h *RunHandler) ToggleItem(c *drift.Context) {
	runID, err := uuid.Parse(c.Param("runId"))
	if err != nil {
		c.BadRequest("invalid run id")
		return
	}
	taskID, err := uuid.Parse(c.Param("taskId"))
	if err != nil {
		c.BadRequest("invalid task id")
		return
	}

	var req dto.ToggleItemRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	run, err := h.runService.Toggle(context.Background(), runID, taskID, req.CheckedBy, req.Done)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrRunItemNotFound):
			c.NotFound("run item not found")
		case errors.Is(err, services.ErrRunNotFound):
			c.NotFound("run not found")
		default:
			c.InternalServerError("failed to toggle item")
		}
		return
	}

	_ = c.JSON(200, map[string]dto.RunResponse{"run": toRunResponse(run)})
}

func (h *RunHandler) Finish(c *drift.Context) {
	runID, err := uuid.Parse(c.Param("runId"))
	if err != nil {
		c.BadRequest("invalid run id")
		return
	}

	run, err := h.runService.Finish(context.Background(), runID)
	if err != nil {
		if errors.Is(err, services.ErrRunNotFound) {
			c.NotFound("run not found")
			return
		}
		c.InternalServerError("failed to finish run")
		return
	}

	_ = c.JSON(200, map[string]dto.RunResponse{"run": toRunResponse(run)})
}

func clampLimit(limit int) int {
	if limit < 1 {
		return 1
	}
	if limit > maxRunListLimit {
		return maxRunListLimit
	}
	return limit
}

func toRunResponse(run *models.Run) dto.RunResponse {
	items := make([]dto.RunItemResponse, len(run.Items))
	for i, item := range run.Items {
		items[i] = dto.RunItemResponse{
			ID:        item.ID,
			TaskID:    item.TaskID,
			Title:     item.Title,
			CheckedBy: item.CheckedBy,
			CheckedAt: item.CheckedAt,
		}
	}
	return dto.RunResponse{
		ID:           run.ID,
		TemplateID:   run.TemplateID,
		TemplateName: run.TemplateName,
		StartedBy:    run.StartedBy,
		Status:       run.Status,
		StartedAt:    run.StartedAt,
		FinishedAt:   run.FinishedAt,
		Items:        items,
	}
}
