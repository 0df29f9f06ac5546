package dto

import "github.com/google/uuid"

type RegisterRequest struct {
	Name     string `json:"name"`
	TeamName string `json:"team_name"`
}

type TeamResponse struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

type UserResponse struct {
	ID   uuid.UUID    `json:"id"`
	Name string       `json:"name"`
	Team TeamResponse `json:"team"`
}
