// cmd/tools/worker-generator/main.go
package main

import (
	"bytes"
	"flag"
	"fmt"
	"go/format"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"text/template"
	"time"

	"govscheme-workers/pkg/registry"
)

// WorkerData holds data for templates
type WorkerData struct {
	Name         string
	PackageName  string
	TaskType     string
	Description  string
	Timeout      time.Duration
	InputFields  []Field
	OutputFields []Field
}

type Field struct {
	Name    string
	GoType  string
	JSONTag string
}

// schemaFields turns the properties of an object schema into struct fields,
// ordered by property name.
func schemaFields(schema map[string]interface{}) []Field {
	props, _ := schema["properties"].(map[string]interface{})
	names := make([]string, 0, len(props))
	for name := range props {
		names = append(names, name)
	}
	sort.Strings(names)

	fields := make([]Field, 0, len(names))
	for _, name := range names {
		details, _ := props[name].(map[string]interface{})
		fields = append(fields, Field{
			Name:    goName(name),
			GoType:  goTypeFromJSONType(details["type"]),
			JSONTag: fmt.Sprintf("`json:\"%s\"`", name),
		})
	}
	return fields
}

func goTypeFromJSONType(jsonType interface{}) string {
	switch jsonType {
	case "string":
		return "string"
	case "integer":
		return "int"
	case "number":
		return "float64"
	case "boolean":
		return "bool"
	case "object":
		return "map[string]interface{}"
	case "array":
		return "[]interface{}"
	}
	return "interface{}"
}

// goName upper-cases the first letter and a trailing "Id".
func goName(prop string) string {
	if prop == "" {
		return prop
	}
	name := strings.ToUpper(prop[:1]) + prop[1:]
	if strings.HasSuffix(name, "Id") {
		name = strings.TrimSuffix(name, "Id") + "ID"
	}
	return name
}

const configTemplate = `package {{ .PackageName }}

import (
	"time"

	"govscheme-workers/internal/common/config"
)

type Config struct {
	Timeout time.Duration
}

func LoadConfig(wcfg config.WorkerConfig) *Config {
	c := &Config{Timeout: {{ printf "%d" .Timeout.Milliseconds }} * time.Millisecond}
	if wcfg.Timeout > 0 {
		c.Timeout = config.GetDuration(wcfg.Timeout)
	}
	return c
}
`

const modelsTemplate = `package {{ .PackageName }}

type Input struct {
{{- range .InputFields }}
	{{ .Name }} {{ .GoType }} {{ .JSONTag }}
{{- end }}
}

type Output struct {
{{- range .OutputFields }}
	{{ .Name }} {{ .GoType }} {{ .JSONTag }}
{{- end }}
}
`

const handlerTemplate = `// Package {{ .PackageName }} implements the {{ .TaskType }} task: {{ .Description }}
package {{ .PackageName }}

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	apperrors "govscheme-workers/internal/common/errors"
	"govscheme-workers/internal/common/logger"
	"govscheme-workers/internal/common/metrics"
)

const TaskType = "{{ .TaskType }}"

type Handler struct {
	config *Config
	errors *apperrors.ErrorHandler
	logger logger.Logger
}

func NewHandler(config *Config, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config: config,
		errors: apperrors.NewErrorHandler(log),
		logger: log,
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	start := time.Now()
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		h.failJob(client, job, start, apperrors.NewInvalidInputError(fmt.Sprintf("parse input: %v", err)))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	output, err := h.Execute(ctx, &input)
	if err != nil {
		h.failJob(client, job, start, err)
		return
	}

	h.completeJob(client, job, output)
	metrics.ObserveJob(TaskType, start, "")
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	// TODO: implement {{ .TaskType }}
	return &Output{}, nil
}

func (h *Handler) completeJob(client worker.JobClient, job entities.Job, output *Output) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{"error": err})
		return
	}
	if _, err := cmd.Send(context.Background()); err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{"error": err})
	}
}

func (h *Handler) failJob(client worker.JobClient, job entities.Job, start time.Time, err error) {
	code := h.errors.HandleJobError(context.Background(), client, job, err)
	metrics.ObserveJob(TaskType, start, code)
}
`

const testTemplate = `package {{ .PackageName }}

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"govscheme-workers/internal/common/logger"
)

func TestHandler_Execute(t *testing.T) {
	h := NewHandler(&Config{}, logger.NewTestLogger(t))

	output, err := h.Execute(context.Background(), &Input{})
	require.NoError(t, err)
	require.NotNil(t, output)
}
`

var templates = []struct {
	file string
	body string
}{
	{"config.go", configTemplate},
	{"models.go", modelsTemplate},
	{"handler.go", handlerTemplate},
	{"handler_test.go", testTemplate},
}

func newWorkerData(a *registry.Activity) (WorkerData, error) {
	timeout := 10 * time.Second
	if a.Timeout != "" {
		d, err := time.ParseDuration(a.Timeout)
		if err != nil {
			return WorkerData{}, fmt.Errorf("activity %s: invalid timeout: %w", a.ID, err)
		}
		timeout = d
	}
	return WorkerData{
		Name:         a.DisplayName,
		PackageName:  strings.ReplaceAll(a.ID, "-", ""),
		TaskType:     a.TaskType,
		Description:  strings.TrimSuffix(a.Description, "."),
		Timeout:      timeout,
		InputFields:  schemaFields(a.InputSchema),
		OutputFields: schemaFields(a.OutputSchema),
	}, nil
}

// generate renders every template into dir, gofmt'd. Existing files are
// left alone unless force is set.
func generate(dir string, data WorkerData, force bool, out io.Writer) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating directory: %w", err)
	}

	for _, t := range templates {
		path := filepath.Join(dir, t.file)
		if _, err := os.Stat(path); err == nil && !force {
			fmt.Fprintf(out, "skip %s (exists)\n", path)
			continue
		}

		tmpl, err := template.New(t.file).Parse(t.body)
		if err != nil {
			return fmt.Errorf("parsing template %s: %w", t.file, err)
		}
		var buf bytes.Buffer
		if err := tmpl.Execute(&buf, data); err != nil {
			return fmt.Errorf("executing template %s: %w", t.file, err)
		}
		src, err := format.Source(buf.Bytes())
		if err != nil {
			return fmt.Errorf("formatting %s: %w", t.file, err)
		}
		if err := os.WriteFile(path, src, 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}
		fmt.Fprintf(out, "generated %s\n", path)
	}
	return nil
}

func main() {
	activity := flag.String("activity", "", "Activity ID from registry (e.g., explore-catalog)")
	outputDir := flag.String("output", "./internal/workers/", "Output directory for the generated worker")
	registryPath := flag.String("registry", "configs/activity-registry.json", "Path to the activity registry JSON file")
	force := flag.Bool("force", false, "Overwrite existing files")
	flag.Parse()

	if *activity == "" {
		fmt.Println("Usage: worker-generator --activity <id> [--output <dir>] [--registry <path>] [--force]")
		os.Exit(1)
	}

	reg, err := registry.LoadRegistry(*registryPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading registry from %s: %v\n", *registryPath, err)
		os.Exit(1)
	}
	a, ok := reg.Find(*activity)
	if !ok {
		fmt.Fprintf(os.Stderr, "Activity '%s' not found in registry %s\n", *activity, *registryPath)
		os.Exit(1)
	}

	data, err := newWorkerData(a)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	dir := filepath.Join(*outputDir, strings.ToLower(a.Category), a.ID)
	if err := generate(dir, data, *force, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	fmt.Printf("\nNext: implement Execute, then register %s in cmd/worker-manager/main.go and configs/config.yaml\n", data.TaskType)
}
