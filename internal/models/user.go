package models

import (
	"time"

	"github.com/google/uuid"
)

// User is a lightweight identity: a free-text name tied to exactly one team.
// There is no password or token; whoever types the name is the user.
type User struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	TeamID    uuid.UUID `json:"team_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Team      *Team     `json:"team,omitempty"`
}
