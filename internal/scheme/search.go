package scheme

import (
	"strings"

	"govscheme-workers/internal/models"
)

// SearchScore is assigned to every directory hit.
const SearchScore models.MatchScore = 100

// Search keeps directory entries whose name, scheme name, description or
// category contains query, ignoring case. Hits are classified and scored.
func Search(directory []models.Scheme, query string) []models.Scheme {
	needle := strings.ToLower(strings.TrimSpace(query))
	hits := make([]models.Scheme, 0)
	if needle == "" {
		return hits
	}
	for _, s := range directory {
		text := strings.ToLower(strings.Join([]string{s.Name, s.SchemeName, s.Description, s.Category}, "\n"))
		if !strings.Contains(text, needle) {
			continue
		}
		s.MatchScore = SearchScore
		s.Type = string(Classify(s))
		hits = append(hits, s)
	}
	return hits
}
