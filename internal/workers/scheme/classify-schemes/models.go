package classifyschemes

import (
	"govscheme-workers/internal/models"
	"govscheme-workers/internal/scheme"
)

type Input struct {
	Schemes []models.Scheme `json:"schemes"`
}

type Output struct {
	Schemes      []models.Scheme `json:"schemes"`
	Details      []scheme.Detail `json:"details,omitempty"`
	Counts       scheme.Counts   `json:"counts"`
	KeywordTable string          `json:"keywordTable"`
}
