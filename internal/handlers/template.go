package handlers

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
	"github.com/oyvindh/shiplist-api/internal/models"
	"github.com/oyvindh/shiplist-api/internal/services"
	"github.com/oyvindh/shiplist-api/pkg/dto"
)

type TemplateHandler struct {
	templateService TemplateServiceInterface
	identityService IdentityServiceInterface
}

func NewTemplateHandler(templateService TemplateServiceInterface, identityService IdentityServiceInterface) *TemplateHandler {
	return &TemplateHandler{
		templateService: templateService,
		identityService: identityService,
	}
}

// List returns the team's templates with their active and last-done run
// summaries. An unknown team yields an empty list rather than an error.
func (h *TemplateHandler) List(c *drift.Context) {
	teamName := strings.TrimSpace(c.QueryParam("team"))
	if teamName == "" {
		c.BadRequest("team is required")
		return
	}

	ctx := context.Background()

	team, err := h.identityService.ResolveTeam(ctx, teamName)
	if err != nil {
		c.InternalServerError("failed to resolve team")
		return
	}
	if team == nil {
		_ = c.JSON(200, dto.TemplateListResponse{Team: teamName, Templates: []dto.TemplateListItem{}})
		return
	}

	templates, err := h.templateService.ListByTeam(ctx, team.ID)
	if err != nil {
		c.InternalServerError("failed to list templates")
		return
	}

	items := make([]dto.TemplateListItem, len(templates))
	for i, t := range templates {
		item := dto.TemplateListItem{
			ID:    t.ID,
			Name:  t.Name,
			Tasks: toTaskResponses(t.Tasks),
		}
		if t.ActiveRun != nil {
			item.ActiveRun = &dto.ActiveRunSummary{
				ID:    t.ActiveRun.ID,
				Done:  t.ActiveRun.Done,
				Total: t.ActiveRun.Total,
			}
		}
		if t.LastDone != nil {
			item.LastDone = &dto.LastDoneSummary{By: t.LastDone.By, At: t.LastDone.At}
		}
		items[i] = item
	}

	_ = c.JSON(200, dto.TemplateListResponse{Team: team.Name, Templates: items})
}

func (h *TemplateHandler) Create(c *drift.Context) {
	var req dto.CreateTemplateRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	name := strings.TrimSpace(req.Name)
	teamName := strings.TrimSpace(req.TeamName)
	if name == "" || teamName == "" {
		c.BadRequest("name and team_name are required")
		return
	}

	ctx := context.Background()

	team, err := h.identityService.ResolveTeam(ctx, teamName)
	if err != nil {
		c.InternalServerError("failed to resolve team")
		return
	}
	if team == nil {
		c.NotFound("team not found")
		return
	}

	titles := normalizeTaskTitles(req.Tasks, req.TasksText)

	template, err := h.templateService.Create(ctx, name, team.ID, titles)
	if err != nil {
		c.InternalServerError("failed to create template")
		return
	}

	_ = c.JSON(201, dto.TemplateResponse{
		ID:    template.ID,
		Name:  template.Name,
		Tasks: toTaskResponses(template.Tasks),
	})
}

// Delete removes a template. Without force it refuses with 409 when runs
// reference the template, prompting the caller to confirm the cascade.
func (h *TemplateHandler) Delete(c *drift.Context) {
	templateID, err := uuid.Parse(c.Param("templateId"))
	if err != nil {
		c.BadRequest("invalid template id")
		return
	}

	force := c.QueryParam("force") == "1" || c.QueryParam("force") == "true"

	err = h.templateService.Delete(context.Background(), templateID, force)
	if err != nil {
		if errors.Is(err, services.ErrTemplateNotFound) {
			c.NotFound("template not found")
			return
		}
		if errors.Is(err, services.ErrTemplateHasRuns) {
			_ = c.JSON(409, map[string]string{
				"error": "template has runs; retry with force=1 to delete them too",
			})
			return
		}
		c.InternalServerError("failed to delete template")
		return
	}

	_ = c.JSON(200, map[string]any{"ok": true, "cascaded": force})
}

func toTaskResponses(tasks []models.Task) []dto.TaskResponse {
	out := make([]dto.TaskResponse, len(tasks))
	for i, t := range tasks {
		out[i] = dto.TaskResponse{ID: t.ID, Title: t.Title, Order: t.Order}
	}
	return out
}

// normalizeTaskTitles prefers the explicit list and falls back to splitting
// tasks_text on newlines; blank entries are dropped either way.
func normalizeTaskTitles(tasks []string, tasksText string) []string {
	var raw []string
	if len(tasks) > 0 {
		raw = tasks
	} else {
		raw = strings.Split(strings.ReplaceAll(tasksText, "\r\n", "\n"), "\n")
	}

	titles := make([]string, 0, len(raw))
	for _, t := range raw {
		if t = strings.TrimSpace(t); t != "" {
			titles = append(titles, t)
		}
	}
	return titles
}
