package explorecatalog

import "govscheme-workers/internal/reference"

type Input struct {
	Tab              reference.ExplorerTab `json:"tab"`
	Filter           string                `json:"filter"`
	ShowAll          bool                  `json:"showAll"`
	IncludeLanguages bool                  `json:"includeLanguages"`
}

type Output struct {
	Tab         reference.ExplorerTab `json:"tab"`
	Items       []string              `json:"items"`
	Matched     int                   `json:"matched"`
	Total       int                   `json:"total"`
	Truncated   bool                  `json:"truncated"`
	Empty       bool                  `json:"empty"`
	Suggestions []string              `json:"suggestions,omitempty"`
	Languages   []reference.Language  `json:"languages,omitempty"`
}
