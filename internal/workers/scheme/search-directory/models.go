package searchdirectory

import "govscheme-workers/internal/models"

type Input struct {
	SessionID string `json:"sessionId"`
	Query     string `json:"query"`
}

type Output struct {
	SessionID   string          `json:"sessionId"`
	CurrentView models.View     `json:"currentView"`
	Query       string          `json:"query"`
	Results     []models.Scheme `json:"results"`
	ResultCount int             `json:"resultCount"`
	Notice      *models.Notice  `json:"notice,omitempty"`
	Suggestions []string        `json:"suggestions,omitempty"`
	Stale       bool            `json:"stale"`
}
