package main

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/openclaw/openclawctl/internal/backup"
	"github.com/openclaw/openclawctl/internal/history"
	"github.com/openclaw/openclawctl/internal/storage"
)

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Backup operations",
}

var backupRunCmd = &cobra.Command{
	Use:   "run",
	Short: "Back up the data directory to the remote store",
	Long: `Commit the data directory, pack it into a compressed archive (volatile and
secret subtrees excluded), upload the archive, and prune remote archives
beyond the configured retention. This is what the openclaw-backup timer runs;
a failed run is retried at the next scheduled invocation, not in-process.`,
	RunE: runBackup,
}

var restoreCmd = &cobra.Command{
	Use:   "restore [archive]",
	Short: "Restore the data directory from a remote archive",
	Long: `With no argument, lists the available archives and changes nothing. With an
archive name, snapshots the current state into history, then extracts the
archive over the data directory. Restart openclaw.service afterwards.`,
	RunE: runRestore,
	Args: cobra.MaximumNArgs(1),
}

func init() {
	backupCmd.AddCommand(backupRunCmd)
}

// newEngine wires the backup engine from configuration. Store credentials
// are only required here, not for render/status/history.
func newEngine(cmd *cobra.Command) (*backup.Engine, zerolog.Logger, error) {
	cfg, deploy, log, err := loadAll()
	if err != nil {
		return nil, log, err
	}
	store, err := storage.NewS3Store(cmd.Context(), cfg, log)
	if err != nil {
		return nil, log, err
	}
	tracker := history.New(cfg.DataDir, log)
	engine := backup.New(cfg.DataDir, store, tracker, deploy.Backup.Retention, log)
	return engine, log, nil
}

func runBackup(cmd *cobra.Command, args []string) error {
	engine, _, err := newEngine(cmd)
	if err != nil {
		return err
	}
	_, err = engine.Run(cmd.Context())
	return err
}

func runRestore(cmd *cobra.Command, args []string) error {
	engine, _, err := newEngine(cmd)
	if err != nil {
		return err
	}

	if len(args) == 0 {
		names, err := engine.ListArchives(cmd.Context())
		if err != nil {
			return err
		}
		if len(names) == 0 {
			fmt.Println("no archives available")
			return nil
		}
		fmt.Println("available archives (oldest first):")
		for _, name := range names {
			fmt.Printf("  %s\n", name)
		}
		fmt.Println()
		fmt.Println("restore one with: openclawctl restore <name>")
		return nil
	}
	return engine.Restore(cmd.Context(), args[0])
}
