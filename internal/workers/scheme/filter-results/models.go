package filterresults

import "govscheme-workers/internal/scheme"

type Input struct {
	SessionID string `json:"sessionId"`
	Filter    string `json:"filter"`
	Sort      string `json:"sort"`
}

type Output struct {
	SessionID string            `json:"sessionId"`
	Schemes   []scheme.Detail   `json:"schemes"`
	Counts    scheme.Counts     `json:"counts"`
	Filter    scheme.Filter     `json:"filter"`
	Sort      scheme.SortMode   `json:"sort"`
	Empty     scheme.EmptyState `json:"empty"`
	Suggested scheme.Filter     `json:"suggested,omitempty"`
}
