package navigateview

import "govscheme-workers/internal/models"

// Input switches view and/or language. Either may be omitted.
type Input struct {
	SessionID     string      `json:"sessionId"`
	View          models.View `json:"view,omitempty"`
	Language      string      `json:"language,omitempty"`
	ConsumeNotice bool        `json:"consumeNotice"`
}

type Output struct {
	SessionID   string         `json:"sessionId"`
	CurrentView models.View    `json:"currentView"`
	Language    string         `json:"language"`
	Generation  uint64         `json:"generation"`
	Notice      *models.Notice `json:"notice,omitempty"`
}
