// internal/models/scheme.go
package models

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Scheme is a government welfare scheme as returned by the recommendation
// backend or the schemes directory.
type Scheme struct {
	ID          SchemeID        `json:"id,omitempty"`
	Name        string          `json:"name,omitempty"`
	SchemeName  string          `json:"scheme_name,omitempty"`
	NameEn      string          `json:"name_en,omitempty"`
	Description string          `json:"description,omitempty"`
	Benefits    string          `json:"benefits,omitempty"`
	Category    string          `json:"category,omitempty"`
	Ministry    string          `json:"ministry,omitempty"`
	Department  string          `json:"department,omitempty"`
	Level       string          `json:"level,omitempty"`
	Type        string          `json:"type,omitempty"`
	MatchScore  MatchScore      `json:"match_score"`
	Documents   []string        `json:"documents,omitempty"`
	HowToApply  string          `json:"how_to_apply,omitempty"`
	ApplyLink   string          `json:"apply_link,omitempty"`
	Eligibility json.RawMessage `json:"eligibility,omitempty"`
}

// DisplayName prefers scheme_name, then name.
func (s Scheme) DisplayName() string {
	if s.SchemeName != "" {
		return s.SchemeName
	}
	return s.Name
}

// Key returns a stable identity for the scheme. The backend id is used when
// present, otherwise a hash of the descriptive fields.
func (s Scheme) Key() string {
	if s.ID != "" {
		return string(s.ID)
	}
	h := sha256.New()
	for _, part := range []string{s.SchemeName, s.Name, s.Description, s.Ministry, s.Department} {
		h.Write([]byte(part))
		h.Write([]byte{0})
	}
	return "h-" + hex.EncodeToString(h.Sum(nil))[:16]
}

// SchemeID accepts both string and numeric ids on the wire.
type SchemeID string

func (id *SchemeID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = SchemeID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("scheme id: %w", err)
	}
	*id = SchemeID(n.String())
	return nil
}

// MatchScore is an integer in [0,100]. Fractional values from the backend are
// rounded and out-of-range values clamped.
type MatchScore int

func (m *MatchScore) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*m = 0
		return nil
	}
	raw := string(data)
	if data[0] == '"' {
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
		raw = strings.TrimSpace(raw)
		if raw == "" {
			*m = 0
			return nil
		}
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) {
		return fmt.Errorf("match_score: invalid value %q", raw)
	}
	*m = ClampScore(f)
	return nil
}

// ClampScore rounds f and clamps it into [0,100].
func ClampScore(f float64) MatchScore {
	r := math.Round(f)
	switch {
	case r < 0:
		return 0
	case r > 100:
		return 100
	}
	return MatchScore(r)
}
