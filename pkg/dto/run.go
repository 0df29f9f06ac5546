package dto

import (
	"time"

	"github.com/google/uuid"
)

type StartRunRequest struct {
	TemplateID uuid.UUID `json:"template_id"`
	StartedBy  string    `json:"started_by"`
}

type ToggleItemRequest struct {
	Done      bool   `json:"done"`
	CheckedBy string `json:"checked_by,omitempty"`
}

type RunItemResponse struct {
	ID        uuid.UUID  `json:"id"`
	TaskID    uuid.UUID  `json:"task_id"`
	Title     string     `json:"title"`
	CheckedBy *string    `json:"checked_by,omitempty"`
	CheckedAt *time.Time `json:"checked_at,omitempty"`
}

type RunResponse struct {
	ID           uuid.UUID         `json:"id"`
	TemplateID   uuid.UUID         `json:"template_id"`
	TemplateName string            `json:"template_name"`
	StartedBy    string            `json:"started_by"`
	Status       string            `json:"status"`
	StartedAt    time.Time         `json:"started_at"`
	FinishedAt   *time.Time        `json:"finished_at,omitempty"`
	Items        []RunItemResponse `json:"items"`
}

type RunListResponse struct {
	Runs []RunResponse `json:"runs"`
}
