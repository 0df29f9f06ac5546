package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	RunStatusInProgress = "in_progress"
	RunStatusDone       = "done"
)

// CheckedByUnknown is recorded when an item is checked without an actor name.
const CheckedByUnknown = "Unknown"

type Run struct {
	ID           uuid.UUID  `json:"id"`
	TemplateID   uuid.UUID  `json:"template_id"`
	TemplateName string     `json:"template_name"`
	TeamID       uuid.UUID  `json:"team_id"`
	StartedByID  uuid.UUID  `json:"started_by_id"`
	StartedBy    string     `json:"started_by"`
	Status       string     `json:"status"`
	StartedAt    time.Time  `json:"started_at"`
	FinishedAt   *time.Time `json:"finished_at,omitempty"`
	Items        []RunItem  `json:"items,omitempty"`
}

func (r *Run) IsDone() bool {
	return r.Status == RunStatusDone
}

// RunItem is a snapshot of a task taken when the run started. Title and
// position are copied, not referenced, so the run reads the same no matter
// what happens to the template's tasks afterwards.
type RunItem struct {
	ID        uuid.UUID  `json:"id"`
	RunID     uuid.UUID  `json:"run_id"`
	TaskID    uuid.UUID  `json:"task_id"`
	Title     string     `json:"title"`
	Position  int        `json:"position"`
	CheckedBy *string    `json:"checked_by,omitempty"`
	CheckedAt *time.Time `json:"checked_at,omitempty"`
}

func (i *RunItem) IsChecked() bool {
	return i.CheckedAt != nil
}
