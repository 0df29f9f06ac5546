package handlers

import (
	"context"
	"errors"
	"strings"

	"github.com/m1z23r/drift/pkg/drift"
	"github.com/oyvindh/shiplist-api/internal/services"
	"github.com/oyvindh/shiplist-api/pkg/dto"
)

type IdentityHandler struct {
	identityService IdentityServiceInterface
}

func NewIdentityHandler(identityService IdentityServiceInterface) *IdentityHandler {
	return &IdentityHandler{identityService: identityService}
}

// Me resolves a free-text name to its user and team. Read-only: an unknown
// name is a 404, never a create.
func (h *IdentityHandler) Me(c *drift.Context) {
	name := strings.TrimSpace(c.QueryParam("name"))
	if name == "" {
		c.BadRequest("name is required")
		return
	}

	user, err := h.identityService.Lookup(context.Background(), name)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			c.NotFound("user not found")
			return
		}
		c.InternalServerError("failed to look up user")
		return
	}

	_ = c.JSON(200, dto.UserResponse{
		ID:   user.ID,
		Name: user.Name,
		Team: dto.TeamResponse{ID: user.Team.ID, Name: user.Team.Name},
	})
}

func (h *IdentityHandler) Register(c *drift.Context) {
	var req dto.RegisterRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	user, err := h.identityService.Register(context.Background(), req.Name, req.TeamName)
	if err != nil {
		if errors.Is(err, services.ErrMissingName) || errors.Is(err, services.ErrMissingTeam) {
			c.BadRequest(err.Error())
			return
		}
		c.InternalServerError("failed to register user")
		return
	}

	_ = c.JSON(201, dto.UserResponse{
		ID:   user.ID,
		Name: user.Name,
		Team: dto.TeamResponse{ID: user.Team.ID, Name: user.Team.Name},
	})
}
