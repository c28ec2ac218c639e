// Package systemdgen renders the deployment configuration into systemd unit
// definitions: the long-running openclaw service with its sandbox and
// resource policy, and one service/timer pair per scheduled job. systemd is
// the executor; nothing here runs jobs itself.
package systemdgen

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/coreos/go-systemd/v22/unit"

	"github.com/openclaw/openclawctl/internal/config"
)

// UnitFile is one rendered unit, ready to be written under the unit
// directory.
type UnitFile struct {
	Name    string
	Content string
}

// Units renders all unit files for the deployment.
func Units(cfg *config.Config, d *config.Deploy) ([]UnitFile, error) {
	service, err := serialize(appService(cfg, d))
	if err != nil {
		return nil, err
	}
	files := []UnitFile{{Name: "openclaw.service", Content: service}}

	jobs := []struct {
		name     string
		desc     string
		command  string
		schedule config.JobSchedule
	}{
		{"openclaw-history", "openclaw data directory history commit", "history commit", d.Schedules.HistoryCommit},
		{"openclaw-backup", "openclaw remote backup", "backup run", d.Schedules.Backup},
	}
	for _, job := range jobs {
		svc, err := serialize(oneshotService(job.desc, job.command))
		if err != nil {
			return nil, err
		}
		timer, err := serialize(jobTimer(job.desc, job.schedule))
		if err != nil {
			return nil, err
		}
		files = append(files,
			UnitFile{Name: job.name + ".service", Content: svc},
			UnitFile{Name: job.name + ".timer", Content: timer},
		)
	}
	return files, nil
}

// WriteUnits persists the rendered units under dir. The caller is expected
// to run `systemctl daemon-reload` afterwards.
func WriteUnits(dir string, files []UnitFile) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create unit directory: %w", err)
	}
	for _, f := range files {
		path := filepath.Join(dir, f.Name)
		if err := os.WriteFile(path, []byte(f.Content), 0o644); err != nil {
			return fmt.Errorf("write unit %s: %w", f.Name, err)
		}
	}
	return nil
}

func appService(cfg *config.Config, d *config.Deploy) []*unit.UnitOption {
	opts := []*unit.UnitOption{
		unit.NewUnitOption("Unit", "Description", "openclaw gateway"),
		unit.NewUnitOption("Unit", "After", "network-online.target"),
		unit.NewUnitOption("Unit", "Wants", "network-online.target"),

		unit.NewUnitOption("Service", "ExecStart", "/usr/bin/openclaw serve"),
		unit.NewUnitOption("Service", "WorkingDirectory", cfg.DataDir),
		unit.NewUnitOption("Service", "Restart", "always"),
		unit.NewUnitOption("Service", "RestartSec", "5"),
		unit.NewUnitOption("Service", "Environment", "OPENCLAW_MODEL_CONFIG="+cfg.ModelDocumentPath()),
		unit.NewUnitOption("Service", "Environment",
			fmt.Sprintf("OPENCLAW_GATEWAY_ADDR=%s:%d", d.Gateway.Host, d.Gateway.Port)),
		unit.NewUnitOption("Service", "Environment", "OPENCLAW_BUILD_STRATEGY="+string(d.BuildStrategy)),
	}
	opts = append(opts, sandboxOptions(cfg, d.Sandbox)...)
	opts = append(opts, resourceOptions(d.Resources)...)
	opts = append(opts, unit.NewUnitOption("Install", "WantedBy", "multi-user.target"))
	return opts
}

func sandboxOptions(cfg *config.Config, p config.SandboxPolicy) []*unit.UnitOption {
	var opts []*unit.UnitOption
	if p.ProtectSystem != "" {
		opts = append(opts, unit.NewUnitOption("Service", "ProtectSystem", p.ProtectSystem))
	}
	if p.PrivateTmp {
		opts = append(opts, unit.NewUnitOption("Service", "PrivateTmp", "true"))
	}
	if p.NoNewPrivileges {
		opts = append(opts, unit.NewUnitOption("Service", "NoNewPrivileges", "true"))
	}
	// The data directory must stay writable even under ProtectSystem=strict.
	paths := append([]string{cfg.DataDir}, p.ReadWritePaths...)
	for _, rw := range paths {
		opts = append(opts, unit.NewUnitOption("Service", "ReadWritePaths", rw))
	}
	if !p.AllowNetwork {
		opts = append(opts, unit.NewUnitOption("Service", "RestrictAddressFamilies", "AF_UNIX"))
	}
	return opts
}

func resourceOptions(r config.ResourceLimits) []*unit.UnitOption {
	var opts []*unit.UnitOption
	if r.MemoryMax != "" {
		opts = append(opts, unit.NewUnitOption("Service", "MemoryMax", r.MemoryMax))
	}
	if r.CPUQuotaPercent > 0 {
		opts = append(opts, unit.NewUnitOption("Service", "CPUQuota", strconv.Itoa(r.CPUQuotaPercent)+"%"))
	}
	return opts
}

func oneshotService(desc, command string) []*unit.UnitOption {
	return []*unit.UnitOption{
		unit.NewUnitOption("Unit", "Description", desc),
		unit.NewUnitOption("Service", "Type", "oneshot"),
		unit.NewUnitOption("Service", "ExecStart", "/usr/bin/openclawctl "+command),
	}
}

func jobTimer(desc string, s config.JobSchedule) []*unit.UnitOption {
	opts := []*unit.UnitOption{
		unit.NewUnitOption("Unit", "Description", desc+" timer"),
		unit.NewUnitOption("Timer", "OnCalendar", s.Calendar),
	}
	if s.JitterSeconds > 0 {
		opts = append(opts, unit.NewUnitOption("Timer", "RandomizedDelaySec", strconv.Itoa(s.JitterSeconds)))
	}
	if s.Persistent {
		opts = append(opts, unit.NewUnitOption("Timer", "Persistent", "true"))
	}
	opts = append(opts, unit.NewUnitOption("Install", "WantedBy", "timers.target"))
	return opts
}

func serialize(opts []*unit.UnitOption) (string, error) {
	data, err := io.ReadAll(unit.Serialize(opts))
	if err != nil {
		return "", fmt.Errorf("serialize unit: %w", err)
	}
	return string(data), nil
}
