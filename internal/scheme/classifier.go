// Package scheme classifies, filters and sorts welfare schemes returned by the
// recommendation backend. Everything here is pure and safe for concurrent use.
package scheme

import (
	"strings"

	"govscheme-workers/internal/models"
)

// Kind is the government level a scheme originates from.
type Kind string

const (
	KindCentral Kind = "central"
	KindState   Kind = "state"
)

func (k Kind) String() string { return string(k) }

// ParseKind accepts exactly "central" or "state". Any other preset type is
// ignored and the scheme is classified from its text.
func ParseKind(s string) (Kind, bool) {
	switch s {
	case string(KindCentral):
		return KindCentral, true
	case string(KindState):
		return KindState, true
	}
	return "", false
}

// Classifier tags schemes using a fixed set of keyword tables.
type Classifier struct {
	tables KeywordTables
}

func NewClassifier(tables KeywordTables) *Classifier {
	return &Classifier{tables: tables}
}

var defaultClassifier = NewClassifier(DefaultKeywords())

// Classify tags s with the default keyword tables.
func Classify(s models.Scheme) Kind {
	return defaultClassifier.Classify(s)
}

// ClassifyAll returns a copy of schemes with Type filled in.
func ClassifyAll(schemes []models.Scheme) []models.Scheme {
	return defaultClassifier.ClassifyAll(schemes)
}

func (c *Classifier) Version() string {
	return c.tables.Version
}

// Classify never fails. A preset type wins, then an explicit level, then the
// keyword scan. Ties and misses both resolve to central.
func (c *Classifier) Classify(s models.Scheme) Kind {
	if k, ok := ParseKind(s.Type); ok {
		return k
	}

	switch strings.ToLower(strings.TrimSpace(s.Level)) {
	case "central", "national":
		return KindCentral
	case "state":
		return KindState
	}

	haystack := strings.ToLower(strings.Join([]string{
		s.Name, s.SchemeName, s.Description, s.Ministry, s.Department, s.Level,
	}, " "))

	isState := containsAny(haystack, c.tables.State)
	isCentral := containsAny(haystack, c.tables.Central)

	if isState && !isCentral {
		return KindState
	}
	return KindCentral
}

func (c *Classifier) ClassifyAll(schemes []models.Scheme) []models.Scheme {
	out := make([]models.Scheme, len(schemes))
	for i, s := range schemes {
		s.Type = string(c.Classify(s))
		out[i] = s
	}
	return out
}

func containsAny(haystack string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(haystack, n) {
			return true
		}
	}
	return false
}
