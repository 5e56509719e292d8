package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"govscheme-workers/pkg/registry"
)

func TestSchemaFields(t *testing.T) {
	schema := map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"sessionId": map[string]interface{}{"type": "string"},
			"showAll":   map[string]interface{}{"type": "boolean"},
			"matched":   map[string]interface{}{"type": "integer"},
			"items":     map[string]interface{}{"type": "array"},
			"anything":  map[string]interface{}{},
		},
	}

	fields := schemaFields(schema)
	require.Len(t, fields, 5)
	assert.Equal(t, []Field{
		{Name: "Anything", GoType: "interface{}", JSONTag: "`json:\"anything\"`"},
		{Name: "Items", GoType: "[]interface{}", JSONTag: "`json:\"items\"`"},
		{Name: "Matched", GoType: "int", JSONTag: "`json:\"matched\"`"},
		{Name: "SessionID", GoType: "string", JSONTag: "`json:\"sessionId\"`"},
		{Name: "ShowAll", GoType: "bool", JSONTag: "`json:\"showAll\"`"},
	}, fields)

	assert.Empty(t, schemaFields(nil))
}

func TestGenerate(t *testing.T) {
	reg, err := registry.LoadRegistry("../../../configs/activity-registry.json")
	require.NoError(t, err)
	a, ok := reg.Find("explore-catalog")
	require.True(t, ok)

	data, err := newWorkerData(a)
	require.NoError(t, err)
	assert.Equal(t, "explorecatalog", data.PackageName)
	assert.Equal(t, 5*time.Second, data.Timeout)

	dir := filepath.Join(t.TempDir(), "reference", "explore-catalog")
	var out bytes.Buffer
	require.NoError(t, generate(dir, data, false, &out))

	for _, name := range []string{"config.go", "models.go", "handler.go", "handler_test.go"} {
		assert.FileExists(t, filepath.Join(dir, name))
	}
	models, err := os.ReadFile(filepath.Join(dir, "models.go"))
	require.NoError(t, err)
	assert.Contains(t, string(models), "package explorecatalog")
	assert.Contains(t, string(models), "ShowAll")
	handler, err := os.ReadFile(filepath.Join(dir, "handler.go"))
	require.NoError(t, err)
	assert.Contains(t, string(handler), `const TaskType = "reference-explore"`)

	// a second run without force keeps edits
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.go"), []byte("package explorecatalog\n"), 0o644))
	out.Reset()
	require.NoError(t, generate(dir, data, false, &out))
	assert.Contains(t, out.String(), "skip")
	kept, err := os.ReadFile(filepath.Join(dir, "config.go"))
	require.NoError(t, err)
	assert.Equal(t, "package explorecatalog\n", string(kept))
}

func TestNewWorkerData_BadTimeout(t *testing.T) {
	_, err := newWorkerData(&registry.Activity{ID: "x", Timeout: "soon"})
	assert.Error(t, err)
}
