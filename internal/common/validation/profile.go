// Package validation checks citizen profiles against a JSON Schema before
// they are sent to the recommendation backend.
package validation

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"

	"govscheme-workers/internal/models"
	"govscheme-workers/internal/reference"
)

const (
	MinAge = 0
	MaxAge = 120
)

type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// Summary joins the errors as "field: message" pairs.
func (r *ValidationResult) Summary() string {
	parts := make([]string, len(r.Errors))
	for i, e := range r.Errors {
		parts[i] = e.Field + ": " + e.Message
	}
	return strings.Join(parts, "; ")
}

// Rules selects how strict profile validation is. The base rules need the
// fields the backend matches on; RequireIdentity adds the name and gender
// the multi-step form always collects.
type Rules struct {
	RequireIdentity bool
}

var (
	baseRequired     = []string{"age", "annual_income", "state", "category", "occupation"}
	identityRequired = []string{"name", "gender"}
)

var (
	schemaMu sync.Mutex
	compiled = map[Rules]*gojsonschema.Schema{}
)

// ProfileSchema returns the schema document used by ValidateProfileWith.
func ProfileSchema(rules Rules) map[string]interface{} {
	required := make([]interface{}, 0, len(baseRequired)+len(identityRequired))
	for _, f := range baseRequired {
		required = append(required, f)
	}
	if rules.RequireIdentity {
		for _, f := range identityRequired {
			required = append(required, f)
		}
	}
	return map[string]interface{}{
		"$schema":  "http://json-schema.org/draft-07/schema#",
		"type":     "object",
		"required": required,
		"properties": map[string]interface{}{
			"name":           map[string]interface{}{"type": "string", "minLength": 1, "maxLength": 200},
			"age":            map[string]interface{}{"type": "integer", "minimum": MinAge, "maximum": MaxAge},
			"gender":         enumOf(reference.Genders),
			"state":          enumOf(reference.StateNames()),
			"category":       enumOf(reference.SocialCategories),
			"annual_income":  map[string]interface{}{"type": "integer", "minimum": 0},
			"occupation":     enumOf(reference.Occupations),
			"education":      enumOf(reference.EducationLevels),
			"marital_status": enumOf(reference.MaritalStatuses),
			"is_bpl":         map[string]interface{}{"type": "boolean"},
			"is_farmer":      map[string]interface{}{"type": "boolean"},
			"is_student":     map[string]interface{}{"type": "boolean"},
			"disability":     map[string]interface{}{"type": "boolean"},
			"is_minority":    map[string]interface{}{"type": "boolean"},
		},
	}
}

func enumOf(values []string) map[string]interface{} {
	enum := make([]interface{}, len(values))
	for i, v := range values {
		enum[i] = v
	}
	return map[string]interface{}{"type": "string", "enum": enum}
}

func compiledProfileSchema(rules Rules) (*gojsonschema.Schema, error) {
	schemaMu.Lock()
	defer schemaMu.Unlock()
	if s, ok := compiled[rules]; ok {
		return s, nil
	}
	s, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(ProfileSchema(rules)))
	if err != nil {
		return nil, err
	}
	compiled[rules] = s
	return s, nil
}

// profileDocument is p as JSON with blank strings removed, so an unset
// optional field is absent rather than an invalid enum value.
func profileDocument(p *models.UserProfile) (map[string]interface{}, error) {
	raw, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	doc := map[string]interface{}{}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	for k, v := range doc {
		if str, ok := v.(string); ok && strings.TrimSpace(str) == "" {
			delete(doc, k)
		}
	}
	return doc, nil
}

// ValidateProfile checks p with the base rules.
func ValidateProfile(p *models.UserProfile) (*ValidationResult, error) {
	return ValidateProfileWith(p, Rules{})
}

// ValidateProfileWith reports every schema violation in p. The error return
// is reserved for schema or encoding failures, not invalid input.
func ValidateProfileWith(p *models.UserProfile, rules Rules) (*ValidationResult, error) {
	if p == nil {
		return &ValidationResult{
			Valid:  false,
			Errors: []ValidationError{{Field: "(root)", Message: "profile is required", Code: "REQUIRED_FIELD_MISSING"}},
		}, nil
	}

	schema, err := compiledProfileSchema(rules)
	if err != nil {
		return nil, fmt.Errorf("compile profile schema: %w", err)
	}
	doc, err := profileDocument(p)
	if err != nil {
		return nil, fmt.Errorf("encode profile: %w", err)
	}

	result, err := schema.Validate(gojsonschema.NewGoLoader(doc))
	if err != nil {
		return nil, fmt.Errorf("validation error: %w", err)
	}
	return toResult(result), nil
}

// Validate checks an arbitrary document against an ad-hoc schema map.
func Validate(schemaMap map[string]interface{}, document interface{}) (*ValidationResult, error) {
	if len(schemaMap) == 0 {
		return &ValidationResult{Valid: true}, nil
	}
	result, err := gojsonschema.Validate(gojsonschema.NewGoLoader(schemaMap), gojsonschema.NewGoLoader(document))
	if err != nil {
		return nil, fmt.Errorf("validation error: %w", err)
	}
	return toResult(result), nil
}

func toResult(result *gojsonschema.Result) *ValidationResult {
	out := &ValidationResult{Valid: result.Valid()}
	for _, desc := range result.Errors() {
		field := desc.Field()
		if p, ok := desc.Details()["property"].(string); ok && desc.Type() == "required" {
			field = p
		}
		out.Errors = append(out.Errors, ValidationError{
			Field:   field,
			Message: desc.Description(),
			Code:    codeFor(desc.Type()),
		})
	}
	sort.SliceStable(out.Errors, func(i, j int) bool {
		return out.Errors[i].Field < out.Errors[j].Field
	})
	return out
}

func codeFor(errType string) string {
	switch errType {
	case "required":
		return "REQUIRED_FIELD_MISSING"
	case "enum":
		return "INVALID_ENUM_VALUE"
	case "invalid_type":
		return "INVALID_TYPE"
	case "number_gte", "number_lte", "number_gt", "number_lt":
		return "OUT_OF_RANGE"
	case "string_gte", "string_lte":
		return "INVALID_LENGTH"
	}
	return strings.ToUpper(errType)
}
