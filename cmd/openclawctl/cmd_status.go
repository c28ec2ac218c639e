package main

import (
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/openclaw/openclawctl/internal/history"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show gateway health, disk usage and recent history",
	RunE:  runStatus,
}

var logsCmd = &cobra.Command{
	Use:   "logs",
	Short: "Show gateway logs",
	RunE:  runLogs,
}

func init() {
	logsCmd.Flags().BoolP("follow", "f", false, "Follow log output")
	logsCmd.Flags().IntP("tail", "n", 100, "Number of lines to show")
}

func runStatus(cmd *cobra.Command, args []string) error {
	cfg, log, err := loadCfg()
	if err != nil {
		return err
	}

	state, _ := execCommandOutput("systemctl", "is-active", "openclaw.service")
	if state == "" {
		state = "unknown"
	}
	fmt.Printf("openclaw.service: %s\n", state)

	if size, err := dirSize(cfg.DataDir); err == nil {
		fmt.Printf("data directory:   %s (%s)\n", cfg.DataDir, humanize.Bytes(uint64(size)))
	} else {
		fmt.Printf("data directory:   %s (size unavailable: %v)\n", cfg.DataDir, err)
	}

	tracker := history.New(cfg.DataDir, log)
	entries, err := tracker.Log(cmd.Context(), 5)
	if err != nil {
		fmt.Println("history:          not initialized")
	} else {
		fmt.Println("recent history:")
		for _, e := range entries {
			fmt.Printf("  %s\n", e)
		}
	}

	fmt.Println()
	fmt.Println("recent logs:")
	return execCommand("journalctl", "-u", "openclaw.service", "-n", "10", "--no-pager")
}

func runLogs(cmd *cobra.Command, args []string) error {
	follow, _ := cmd.Flags().GetBool("follow")
	tail, _ := cmd.Flags().GetInt("tail")

	jArgs := []string{"-u", "openclaw.service", "-n", fmt.Sprintf("%d", tail)}
	if follow {
		jArgs = append(jArgs, "-f")
	} else {
		jArgs = append(jArgs, "--no-pager")
	}
	return execCommand("journalctl", jArgs...)
}

func dirSize(root string) (int64, error) {
	var total int64
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.Type().IsRegular() {
			info, err := d.Info()
			if err != nil {
				return err
			}
			total += info.Size()
		}
		return nil
	})
	return total, err
}
