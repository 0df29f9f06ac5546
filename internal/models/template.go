package models

import (
	"time"

	"github.com/google/uuid"
)

type Template struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	TeamID    uuid.UUID `json:"team_id"`
	CreatedAt time.Time `json:"created_at"`
	Tasks     []Task    `json:"tasks,omitempty"`
}

// Task is one ordered step of a template. Tasks are immutable after creation;
// they are only ever created together with their template and deleted together
// with it.
type Task struct {
	ID         uuid.UUID `json:"id"`
	TemplateID uuid.UUID `json:"template_id"`
	Title      string    `json:"title"`
	Order      int       `json:"order"`
}

// RunSummary is the per-template annotation computed for template listings.
type RunSummary struct {
	ActiveRun *ActiveRun `json:"active_run,omitempty"`
	LastDone  *LastDone  `json:"last_done,omitempty"`
}

// ActiveRun summarizes the latest in-progress run of a template.
type ActiveRun struct {
	ID    uuid.UUID `json:"id"`
	Done  int       `json:"done"`
	Total int       `json:"total"`
}

// LastDone summarizes the latest completed run of a template.
type LastDone struct {
	By string     `json:"by"`
	At *time.Time `json:"at,omitempty"`
}

// TemplateWithRuns is a template plus its listing annotations.
type TemplateWithRuns struct {
	Template
	RunSummary
}
