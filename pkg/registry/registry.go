// pkg/registry/registry.go
package registry

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/xeipuuv/gojsonschema"
)

var ErrNotFound = errors.New("activity not found")

func LoadRegistry(path string) (*ActivityRegistry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var reg ActivityRegistry
	if err := json.Unmarshal(data, &reg); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return &reg, nil
}

// LoadOrCreate returns an empty registry when path does not exist yet.
func LoadOrCreate(path string) (*ActivityRegistry, error) {
	reg, err := LoadRegistry(path)
	if errors.Is(err, os.ErrNotExist) {
		return &ActivityRegistry{Version: "1.0.0", Activities: []Activity{}}, nil
	}
	return reg, err
}

func (r *ActivityRegistry) Save(path string) error {
	r.LastUpdated = time.Now().UTC().Format(time.RFC3339)
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal registry: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("failed to write registry file: %w", err)
	}
	return nil
}

func (r *ActivityRegistry) Find(id string) (*Activity, bool) {
	for i := range r.Activities {
		if r.Activities[i].ID == id {
			return &r.Activities[i], true
		}
	}
	return nil, false
}

func (r *ActivityRegistry) FindByTaskType(taskType string) (*Activity, bool) {
	for i := range r.Activities {
		if r.Activities[i].TaskType == taskType {
			return &r.Activities[i], true
		}
	}
	return nil, false
}

func (r *ActivityRegistry) Add(a Activity) error {
	if _, exists := r.Find(a.ID); exists {
		return fmt.Errorf("activity with ID %s already exists", a.ID)
	}
	r.Activities = append(r.Activities, a)
	return nil
}

// Update sets one scalar field of the activity with the given id.
func (r *ActivityRegistry) Update(id, field, value string) error {
	a, ok := r.Find(id)
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	switch field {
	case "status":
		if !knownStatuses[value] {
			return fmt.Errorf("unknown status: %s", value)
		}
		a.ImplementationStatus = value
	case "version":
		a.Version = value
	case "displayName":
		a.DisplayName = value
	case "description":
		a.Description = value
	case "category":
		a.Category = value
	case "taskType":
		a.TaskType = value
	case "timeout":
		if _, err := time.ParseDuration(value); err != nil {
			return fmt.Errorf("invalid timeout value: %w", err)
		}
		a.Timeout = value
	case "retries":
		retries, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid retries value: %w", err)
		}
		a.Retries = retries
	default:
		return fmt.Errorf("unknown field: %s", field)
	}
	return nil
}

// Validate checks required fields, uniqueness of ids and task types, and
// that every declared input/output schema is itself a loadable JSON Schema.
func (r *ActivityRegistry) Validate() error {
	if len(r.Activities) == 0 {
		return errors.New("registry contains no activities")
	}

	ids := make(map[string]bool)
	taskTypes := make(map[string]bool)
	var errs []error
	for _, a := range r.Activities {
		if a.ID == "" {
			errs = append(errs, errors.New("activity missing required field: ID"))
			continue
		}
		if ids[a.ID] {
			errs = append(errs, fmt.Errorf("duplicate activity ID: %s", a.ID))
		}
		ids[a.ID] = true

		if a.DisplayName == "" {
			errs = append(errs, fmt.Errorf("activity %s missing required field: DisplayName", a.ID))
		}
		if a.Category == "" {
			errs = append(errs, fmt.Errorf("activity %s missing required field: Category", a.ID))
		}
		if a.TaskType == "" {
			errs = append(errs, fmt.Errorf("activity %s missing required field: TaskType", a.ID))
		} else if taskTypes[a.TaskType] {
			errs = append(errs, fmt.Errorf("duplicate task type: %s", a.TaskType))
		}
		taskTypes[a.TaskType] = true

		if a.ImplementationStatus != "" && !knownStatuses[a.ImplementationStatus] {
			errs = append(errs, fmt.Errorf("activity %s has unknown status %q", a.ID, a.ImplementationStatus))
		}
		for name, schema := range map[string]map[string]interface{}{"input": a.InputSchema, "output": a.OutputSchema} {
			if len(schema) == 0 {
				continue
			}
			if _, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(schema)); err != nil {
				errs = append(errs, fmt.Errorf("activity %s has invalid %s schema: %w", a.ID, name, err))
			}
		}
	}
	return errors.Join(errs...)
}

// ValidateInput checks job variables against the activity's input schema.
func (a *Activity) ValidateInput(variables []byte) error {
	if len(a.InputSchema) == 0 {
		return nil
	}
	result, err := gojsonschema.Validate(
		gojsonschema.NewGoLoader(a.InputSchema),
		gojsonschema.NewBytesLoader(variables),
	)
	if err != nil {
		return fmt.Errorf("validate %s input: %w", a.ID, err)
	}
	if result.Valid() {
		return nil
	}
	errs := make([]error, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		errs = append(errs, errors.New(e.String()))
	}
	return errors.Join(errs...)
}
