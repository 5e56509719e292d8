package sendchatmessage

import "govscheme-workers/internal/models"

type Input struct {
	SessionID string `json:"sessionId"`
	Message   string `json:"message"`
	// Clear empties the transcript instead of sending Message.
	Clear bool `json:"clear"`
}

type Output struct {
	SessionID   string            `json:"sessionId"`
	Reply       string            `json:"reply,omitempty"`
	Transcript  []models.ChatTurn `json:"transcript"`
	Suggestions []string          `json:"suggestions,omitempty"`
	Stale       bool              `json:"stale"`
}
