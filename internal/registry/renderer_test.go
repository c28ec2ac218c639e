package registry

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/openclaw/openclawctl/internal/config"
)

func registryOf(models map[string]config.ModelDefinition, defaultKey string) *config.Deploy {
	return &config.Deploy{Models: models, DefaultModelKey: defaultKey}
}

func TestDefaultResolutionPrefersFlaggedModel(t *testing.T) {
	doc := Render(registryOf(map[string]config.ModelDefinition{
		"a": {Type: config.BackendAnthropic, Model: "m-a"},
		"b": {Type: config.BackendOllama, Model: "m-b", Default: true},
		"c": {Type: config.BackendRemote, Model: "m-c"},
	}, ""))
	if doc.DefaultModel == nil || *doc.DefaultModel != "b" {
		t.Fatalf("expected default b, got %v", doc.DefaultModel)
	}
}

func TestDefaultResolutionExplicitKeyWins(t *testing.T) {
	doc := Render(registryOf(map[string]config.ModelDefinition{
		"a": {Type: config.BackendAnthropic, Model: "m-a"},
		"b": {Type: config.BackendOllama, Model: "m-b", Default: true},
	}, "a"))
	if doc.DefaultModel == nil || *doc.DefaultModel != "a" {
		t.Fatalf("explicit defaultModel must win over default flags, got %v", doc.DefaultModel)
	}
}

func TestDefaultResolutionTieBreaksLexicographically(t *testing.T) {
	doc := Render(registryOf(map[string]config.ModelDefinition{
		"zeta":  {Type: config.BackendOllama, Model: "z", Default: true},
		"alpha": {Type: config.BackendOllama, Model: "a", Default: true},
	}, ""))
	if doc.DefaultModel == nil || *doc.DefaultModel != "alpha" {
		t.Fatalf("expected alpha, got %v", doc.DefaultModel)
	}
}

func TestDefaultResolutionFallsBackToFirstKey(t *testing.T) {
	doc := Render(registryOf(map[string]config.ModelDefinition{
		"only": {Type: config.BackendROCm, Model: "m"},
	}, ""))
	if doc.DefaultModel == nil || *doc.DefaultModel != "only" {
		t.Fatalf("expected only, got %v", doc.DefaultModel)
	}
}

func TestDefaultResolutionEmptyRegistryIsNull(t *testing.T) {
	raw, err := json.Marshal(Render(registryOf(nil, "")))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(raw), `"defaultModel":null`) {
		t.Fatalf("empty registry must render defaultModel null, got %s", raw)
	}
}

func TestSparseSerializationOmitsAbsentFields(t *testing.T) {
	maxTokens := 4096
	doc := Render(registryOf(map[string]config.ModelDefinition{
		"full":   {Type: config.BackendAnthropic, Model: "m", MaxTokens: &maxTokens},
		"sparse": {Type: config.BackendRemote, Model: "m"},
	}, ""))

	raw, err := json.Marshal(doc)
	if err != nil {
		t.Fatal(err)
	}
	var decoded struct {
		Models map[string]map[string]any `json:"models"`
	}
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatal(err)
	}

	sparse := decoded.Models["sparse"]
	for _, field := range []string{"maxTokens", "temperature", "endpoint", "isDefault", "extraConfig"} {
		if _, present := sparse[field]; present {
			t.Fatalf("field %s must be omitted entirely, got %v", field, sparse[field])
		}
	}
	if got := decoded.Models["full"]["maxTokens"]; got != float64(4096) {
		t.Fatalf("expected maxTokens 4096, got %v", got)
	}
}

func TestWritePersistsDocument(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "models.json")

	deploy := registryOf(map[string]config.ModelDefinition{
		"sonnet": {Type: config.BackendAnthropic, Model: "claude-sonnet-4-5", Default: true},
	}, "")
	if err := Write(deploy, path); err != nil {
		t.Fatalf("write: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var doc Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		t.Fatalf("document is not valid JSON: %v", err)
	}
	if doc.DefaultModel == nil || *doc.DefaultModel != "sonnet" {
		t.Fatalf("unexpected default: %v", doc.DefaultModel)
	}
}
