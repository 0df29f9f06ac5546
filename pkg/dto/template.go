package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateTemplateRequest struct {
	Name     string   `json:"name"`
	TeamName string   `json:"team_name"`
	Tasks    []string `json:"tasks,omitempty"`
	// TasksText is an alternative to Tasks: one title per line.
	TasksText string `json:"tasks_text,omitempty"`
}

type TaskResponse struct {
	ID    uuid.UUID `json:"id"`
	Title string    `json:"title"`
	Order int       `json:"order"`
}

type TemplateResponse struct {
	ID    uuid.UUID      `json:"id"`
	Name  string         `json:"name"`
	Tasks []TaskResponse `json:"tasks"`
}

type ActiveRunSummary struct {
	ID    uuid.UUID `json:"id"`
	Done  int       `json:"done"`
	Total int       `json:"total"`
}

type LastDoneSummary struct {
	By string     `json:"by"`
	At *time.Time `json:"at,omitempty"`
}

type TemplateListItem struct {
	ID        uuid.UUID         `json:"id"`
	Name      string            `json:"name"`
	Tasks     []TaskResponse    `json:"tasks"`
	ActiveRun *ActiveRunSummary `json:"active_run,omitempty"`
	LastDone  *LastDoneSummary  `json:"last_done,omitempty"`
}

type TemplateListResponse struct {
	Team      string             `json:"team"`
	Templates []TemplateListItem `json:"templates"`
}
