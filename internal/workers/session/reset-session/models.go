package resetsession

import "govscheme-workers/internal/models"

type Input struct {
	SessionID string `json:"sessionId"`
	// Forget drops the session entirely, chat and language included.
	Forget bool `json:"forget"`
}

type Output struct {
	SessionID   string      `json:"sessionId"`
	CurrentView models.View `json:"currentView"`
	Language    string      `json:"language"`
	Generation  uint64      `json:"generation"`
	Forgotten   bool        `json:"forgotten"`
}
