package fetchrecommendations

import (
	"govscheme-workers/internal/models"
	"govscheme-workers/internal/scheme"
)

type Input struct {
	SessionID string             `json:"sessionId"`
	Profile   models.UserProfile `json:"profile"`
}

type Output struct {
	SessionID    string          `json:"sessionId"`
	CurrentView  models.View     `json:"currentView"`
	TotalMatches int             `json:"totalMatches"`
	Counts       scheme.Counts   `json:"counts"`
	Schemes      []models.Scheme `json:"schemes"`
	Notice       *models.Notice  `json:"notice,omitempty"`
	Generation   uint64          `json:"generation"`
	Stale        bool            `json:"stale"`
}
