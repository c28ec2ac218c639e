// Package registry renders the configured model definitions into the single
// JSON document the openclaw process reads at startup. The process does not
// watch the file; it must be restarted to pick up a re-render.
package registry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/openclaw/openclawctl/internal/config"
)

// Model is one entry of the rendered document. Optional fields are pointers
// with omitempty so that an absent value produces no key at all, never an
// explicit null.
type Model struct {
	Type        string            `json:"type"`
	ModelName   string            `json:"modelName"`
	Endpoint    string            `json:"endpoint,omitempty"`
	MaxTokens   *int              `json:"maxTokens,omitempty"`
	Temperature *float64          `json:"temperature,omitempty"`
	IsDefault   bool              `json:"isDefault,omitempty"`
	ExtraConfig map[string]string `json:"extraConfig,omitempty"`
}

// Document is the full rendered model configuration.
type Document struct {
	Models       map[string]Model `json:"models"`
	DefaultModel *string          `json:"defaultModel"`
}

// Render transforms the deployment document's model registry into the
// consumable Document. Pure transformation; validation already happened in
// config.
//
// The effective default is resolved in priority order:
//  1. the explicit defaultModel key, when set;
//  2. the lexicographically-first key among models marked default;
//  3. the lexicographically-first key, when the registry is non-empty;
//  4. null.
func Render(d *config.Deploy) Document {
	doc := Document{Models: make(map[string]Model, len(d.Models))}

	keys := d.SortedModelKeys()
	for _, key := range keys {
		m := d.Models[key]
		doc.Models[key] = Model{
			Type:        string(m.Type),
			ModelName:   m.Model,
			Endpoint:    m.Endpoint,
			MaxTokens:   m.MaxTokens,
			Temperature: m.Temperature,
			IsDefault:   m.Default,
			ExtraConfig: m.Extra,
		}
	}

	if d.DefaultModelKey != "" {
		key := d.DefaultModelKey
		doc.DefaultModel = &key
		return doc
	}
	for _, key := range keys {
		if d.Models[key].Default {
			k := key
			doc.DefaultModel = &k
			return doc
		}
	}
	if len(keys) > 0 {
		k := keys[0]
		doc.DefaultModel = &k
	}
	return doc
}

// Write renders the registry and persists the document to path, creating
// parent directories as needed.
func Write(d *config.Deploy, path string) error {
	doc := Render(d)
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode model document: %w", err)
	}
	data = append(data, '\n')

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create model document directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write model document: %w", err)
	}
	return nil
}
