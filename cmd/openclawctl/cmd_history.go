package main

import (
	"github.com/spf13/cobra"

	"github.com/openclaw/openclawctl/internal/history"
)

var historyCmd = &cobra.Command{
	Use:   "history [git args...]",
	Short: "History operations on the data directory",
	Long: `Without arguments, prints recent history entries. With arguments, passes
them through to git against the data directory repository, e.g.:

  openclawctl history log --stat -3
  openclawctl history show HEAD~1:config.json`,
	RunE: runHistory,
	// Everything after "history" belongs to git.
	DisableFlagParsing: true,
}

var historyCommitCmd = &cobra.Command{
	Use:   "commit",
	Short: "Commit the data directory if it changed",
	Long: `Stage the data directory and record a snapshot commit when anything
changed since the last one. A clean tree is a normal no-op. This is what the
openclaw-history timer runs.`,
	RunE: runHistoryCommit,
}

func init() {
	historyCmd.AddCommand(historyCommitCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	// DisableFlagParsing hands us raw args; cobra still routes the commit
	// subcommand before we get here.
	if len(args) == 1 && (args[0] == "--help" || args[0] == "-h") {
		return cmd.Help()
	}

	cfg, log, err := loadCfg()
	if err != nil {
		return err
	}
	tracker := history.New(cfg.DataDir, log)
	if len(args) == 0 {
		args = []string{"log", "--oneline", "-10"}
	}
	return tracker.Raw(cmd.Context(), args...)
}

func runHistoryCommit(cmd *cobra.Command, args []string) error {
	cfg, log, err := loadCfg()
	if err != nil {
		return err
	}
	tracker := history.New(cfg.DataDir, log)
	hash, err := tracker.CommitIfChanged(cmd.Context())
	if err != nil {
		return err
	}
	if hash == "" {
		log.Info().Msg("no changes since last snapshot")
	}
	return nil
}
