package scheme

import (
	"strings"
	"unicode"

	"govscheme-workers/internal/models"
)

const (
	defaultMinistry   = "Government of India"
	defaultHowToApply = "Visit official website"
	defaultDocument   = "Check official website"
)

// FormatCategory turns "social_welfare" into "Social Welfare". Every letter
// that starts a word is upper-cased, including after "-" or "/". An empty
// category reads as "General".
func FormatCategory(raw string) string {
	raw = strings.Join(strings.Fields(strings.ReplaceAll(raw, "_", " ")), " ")
	if raw == "" {
		return "General"
	}
	out := []rune(raw)
	boundary := true
	for i, r := range out {
		word := unicode.IsLetter(r) || unicode.IsDigit(r)
		if word && boundary {
			out[i] = unicode.ToUpper(r)
		}
		boundary = !word
	}
	return string(out)
}

type ScoreBand string

const (
	BandHigh   ScoreBand = "high"
	BandMedium ScoreBand = "medium"
	BandLow    ScoreBand = "low"
)

func BandFor(score models.MatchScore) ScoreBand {
	switch {
	case score >= 80:
		return BandHigh
	case score >= 60:
		return BandMedium
	}
	return BandLow
}

// Detail is a scheme prepared for the detail view.
type Detail struct {
	Key         string            `json:"key"`
	Name        string            `json:"name"`
	NameEn      string            `json:"nameEn,omitempty"`
	Description string            `json:"description,omitempty"`
	Category    string            `json:"category"`
	Kind        Kind              `json:"kind"`
	Ministry    string            `json:"ministry"`
	Score       models.MatchScore `json:"matchScore"`
	Band        ScoreBand         `json:"band"`
	Benefits    string            `json:"benefits,omitempty"`
	Documents   []string          `json:"documents"`
	HowToApply  string            `json:"howToApply"`
	ApplyLink   string            `json:"applyLink,omitempty"`
}

func DetailOf(s models.Scheme) Detail {
	d := Detail{
		Key:         s.Key(),
		Name:        s.DisplayName(),
		NameEn:      s.NameEn,
		Description: s.Description,
		Category:    FormatCategory(s.Category),
		Kind:        Classify(s),
		Ministry:    s.Ministry,
		Score:       s.MatchScore,
		Band:        BandFor(s.MatchScore),
		Benefits:    s.Benefits,
		Documents:   s.Documents,
		HowToApply:  s.HowToApply,
		ApplyLink:   s.ApplyLink,
	}
	if d.Ministry == "" {
		d.Ministry = defaultMinistry
	}
	if len(d.Documents) == 0 {
		d.Documents = []string{defaultDocument}
	}
	if d.HowToApply == "" {
		d.HowToApply = defaultHowToApply
	}
	return d
}
