package config

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// BackendType identifies which provider family a model definition targets.
type BackendType string

const (
	BackendAnthropic        BackendType = "anthropic"
	BackendOpenAICompatible BackendType = "openai-compatible"
	BackendOllama           BackendType = "ollama"
	BackendROCm             BackendType = "rocm"
	BackendRemote           BackendType = "remote"
)

func (b BackendType) valid() bool {
	switch b {
	case BackendAnthropic, BackendOpenAICompatible, BackendOllama, BackendROCm, BackendRemote:
		return true
	}
	return false
}

// BuildStrategy selects how the openclaw package is installed. Resolved once
// at configuration time; there is no runtime fallback between the two.
type BuildStrategy string

const (
	// BuildLocked installs from the pinned lockfile.
	BuildLocked BuildStrategy = "locked"
	// BuildLatest installs the newest published version.
	BuildLatest BuildStrategy = "latest"
)

// ModelDefinition describes one model backend the gateway may route to.
// Optional numeric fields are pointers: absent is distinct from zero and is
// preserved through rendering.
type ModelDefinition struct {
	Type        BackendType       `yaml:"type"`
	Model       string            `yaml:"model"`
	Endpoint    string            `yaml:"endpoint,omitempty"`
	MaxTokens   *int              `yaml:"maxTokens,omitempty"`
	Temperature *float64          `yaml:"temperature,omitempty"`
	Default     bool              `yaml:"default,omitempty"`
	Extra       map[string]string `yaml:"extra,omitempty"`
}

// GatewayConfig is the network binding of the wrapped openclaw process.
type GatewayConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// BackupPolicy governs remote archive retention.
type BackupPolicy struct {
	// Retention is the number of most-recent archives to keep remotely.
	// nil means unlimited; 0 means keep none beyond the one just uploaded.
	Retention *int `yaml:"retention"`
}

// JobSchedule is the declarative trigger contract for one scheduled job,
// consumed by the generated systemd timer: a calendar expression, a
// randomized startup delay, and whether missed runs are caught up at boot.
type JobSchedule struct {
	Calendar      string `yaml:"calendar"`
	JitterSeconds int    `yaml:"jitterSeconds"`
	Persistent    bool   `yaml:"persistent"`
}

// Schedules holds the independent cadences of the two unattended jobs.
type Schedules struct {
	HistoryCommit JobSchedule `yaml:"historyCommit"`
	Backup        JobSchedule `yaml:"backup"`
}

// SandboxPolicy is rendered into hardening directives on the openclaw
// service unit. It restricts the process, not the one-shot jobs.
type SandboxPolicy struct {
	ProtectSystem   string   `yaml:"protectSystem,omitempty"`
	PrivateTmp      bool     `yaml:"privateTmp"`
	NoNewPrivileges bool     `yaml:"noNewPrivileges"`
	ReadWritePaths  []string `yaml:"readWritePaths,omitempty"`
	AllowNetwork    bool     `yaml:"allowNetwork"`
}

// ResourceLimits is rendered into resource-control directives on the
// openclaw service unit.
type ResourceLimits struct {
	MemoryMax       string `yaml:"memoryMax,omitempty"`
	CPUQuotaPercent int    `yaml:"cpuQuotaPercent,omitempty"`
}

// Deploy is the parsed deployment document. It is constructed once at
// startup and passed by value to component constructors; nothing reads it
// ambiently after that.
type Deploy struct {
	Gateway         GatewayConfig              `yaml:"gateway"`
	Models          map[string]ModelDefinition `yaml:"models"`
	DefaultModelKey string                     `yaml:"defaultModel,omitempty"`
	Backup          BackupPolicy               `yaml:"backup"`
	Schedules       Schedules                  `yaml:"schedules"`
	Sandbox         SandboxPolicy              `yaml:"sandbox"`
	Resources       ResourceLimits             `yaml:"resources"`
	BuildStrategy   BuildStrategy              `yaml:"buildStrategy,omitempty"`
}

// LoadDeploy reads and validates the deployment document at path.
func LoadDeploy(path string) (*Deploy, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read deploy file: %w", err)
	}
	d := defaultDeploy()
	if err := yaml.Unmarshal(raw, d); err != nil {
		return nil, fmt.Errorf("parse deploy file %s: %w", path, err)
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return d, nil
}

func defaultDeploy() *Deploy {
	return &Deploy{
		Gateway: GatewayConfig{Host: "127.0.0.1", Port: 18789},
		Schedules: Schedules{
			HistoryCommit: JobSchedule{Calendar: "hourly", JitterSeconds: 300, Persistent: true},
			Backup:        JobSchedule{Calendar: "daily", JitterSeconds: 1800, Persistent: true},
		},
		Sandbox: SandboxPolicy{
			ProtectSystem:   "strict",
			PrivateTmp:      true,
			NoNewPrivileges: true,
			AllowNetwork:    true,
		},
		BuildStrategy: BuildLocked,
	}
}

// Validate rejects internally inconsistent documents. All failures here are
// configuration errors: fatal at startup, never retried.
func (d *Deploy) Validate() error {
	for _, key := range d.SortedModelKeys() {
		m := d.Models[key]
		if !m.Type.valid() {
			return fmt.Errorf("models.%s.type: unknown backend type %q", key, m.Type)
		}
		if m.Model == "" {
			return fmt.Errorf("models.%s.model: model name is required", key)
		}
		if m.MaxTokens != nil && *m.MaxTokens <= 0 {
			return fmt.Errorf("models.%s.maxTokens: must be > 0, got %d", key, *m.MaxTokens)
		}
	}
	if d.DefaultModelKey != "" {
		if _, ok := d.Models[d.DefaultModelKey]; !ok {
			return fmt.Errorf("defaultModel: %q does not match any configured model", d.DefaultModelKey)
		}
	}
	if d.Backup.Retention != nil && *d.Backup.Retention < 0 {
		return fmt.Errorf("backup.retention: must be >= 0, got %d", *d.Backup.Retention)
	}
	for name, s := range map[string]JobSchedule{
		"schedules.historyCommit": d.Schedules.HistoryCommit,
		"schedules.backup":        d.Schedules.Backup,
	} {
		if s.JitterSeconds < 0 {
			return fmt.Errorf("%s.jitterSeconds: must be >= 0, got %d", name, s.JitterSeconds)
		}
		if s.Calendar == "" {
			return fmt.Errorf("%s.calendar: calendar expression is required", name)
		}
	}
	switch d.BuildStrategy {
	case BuildLocked, BuildLatest:
	default:
		return fmt.Errorf("buildStrategy: unknown strategy %q (want locked or latest)", d.BuildStrategy)
	}
	return nil
}

// SortedModelKeys returns the registry keys in lexicographic order. This is
// the stable iteration order every consumer of the registry uses; map order
// is never relied on.
func (d *Deploy) SortedModelKeys() []string {
	keys := make([]string, 0, len(d.Models))
	for k := range d.Models {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
