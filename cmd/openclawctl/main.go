package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/openclaw/openclawctl/internal/config"
	"github.com/openclaw/openclawctl/internal/logger"
)

var version = "1.0.0"

func main() {
	loadEnvFiles()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "openclawctl",
	Short: "openclawctl - deployment companion for the openclaw gateway",
	Long: `openclawctl renders the openclaw deployment configuration into the model
document and systemd units, and runs the unattended jobs: history commits of
the data directory and backups to a remote object store.

Examples:
  # Render the model document and unit files
  openclawctl render

  # Operations
  openclawctl status
  openclawctl logs --follow
  openclawctl backup run
  openclawctl restore                    # list available archives
  openclawctl restore openclaw-20260823-041500.tar.gz

  # History passthrough
  openclawctl history log --oneline -5`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(logsCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(backupCmd)
	rootCmd.AddCommand(restoreCmd)
}

// loadEnvFiles loads an optional .env; the environment always wins.
func loadEnvFiles() {
	_ = godotenv.Load()
}

// loadCfg builds the environment configuration and the root logger. Used by
// commands that do not need the deploy document (status, logs, history).
func loadCfg() (*config.Config, zerolog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, zerolog.Nop(), err
	}
	return cfg, logger.New(cfg), nil
}

// loadAll additionally parses and validates the deploy document.
func loadAll() (*config.Config, *config.Deploy, zerolog.Logger, error) {
	cfg, log, err := loadCfg()
	if err != nil {
		return nil, nil, log, err
	}
	deploy, err := config.LoadDeploy(cfg.DeployFile)
	if err != nil {
		return nil, nil, log, err
	}
	return cfg, deploy, log, nil
}
