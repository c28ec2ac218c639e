// Package backup snapshots the openclaw data directory into compressed
// archives on a remote object store, and restores from them. Every backup
// and restore point is also recorded in the local history, so either
// mechanism can recover state the other captured.
package backup

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog"

	"github.com/openclaw/openclawctl/internal/archive"
	"github.com/openclaw/openclawctl/internal/storage"
)

// Committer is the slice of the history tracker the engine needs: the
// best-effort snapshot before packaging or overwriting state.
type Committer interface {
	CommitIfChanged(ctx context.Context) (string, error)
}

// volatileExcludes are never archived: logs and caches churn constantly, and
// the secrets subtree must never leave the host in a backup.
var volatileExcludes = []string{"logs", "cache", "tmp", "secrets", "*.log", "*.tmp", "*.sock"}

// Engine runs backup and restore jobs against one data directory and one
// remote store. It holds no mutable state of its own; mutual exclusion
// between concurrent jobs is the scheduler's responsibility.
type Engine struct {
	DataDir string
	Store   storage.ObjectStore
	Tracker Committer
	// Retention is the number of most-recent archives to keep remotely.
	// nil means unlimited.
	Retention *int

	log zerolog.Logger
	now func() time.Time
}

// New assembles a backup engine.
func New(dataDir string, store storage.ObjectStore, tracker Committer, retention *int, log zerolog.Logger) *Engine {
	return &Engine{
		DataDir:   dataDir,
		Store:     store,
		Tracker:   tracker,
		Retention: retention,
		log:       log.With().Str("component", "backup").Logger(),
		now:       time.Now,
	}
}

// Run performs one backup: history commit, archive, upload, retention.
// Returns the remote key of the uploaded archive.
//
// The history commit is best-effort: a failure there is logged and the
// archive is still taken from whatever is on disk. An upload failure is
// fatal for the run and skips retention, so a failed backup never shrinks
// the retained set. The local temporary archive is removed in every case.
func (e *Engine) Run(ctx context.Context) (string, error) {
	if _, err := e.Tracker.CommitIfChanged(ctx); err != nil {
		e.log.Warn().Err(err).Msg("pre-backup history commit failed; archiving current disk state")
	}

	name := ArchiveName(e.now())
	tmpPath := filepath.Join(os.TempDir(), name)
	defer os.Remove(tmpPath)

	size, err := archive.Pack(e.DataDir, tmpPath, volatileExcludes)
	if err != nil {
		return "", fmt.Errorf("build archive: %w", err)
	}

	key := RemotePrefix + name
	f, err := os.Open(tmpPath)
	if err != nil {
		return "", fmt.Errorf("open archive for upload: %w", err)
	}
	uploadErr := e.Store.Upload(ctx, key, f)
	f.Close()
	if uploadErr != nil {
		return "", fmt.Errorf("upload archive: %w", uploadErr)
	}
	e.log.Info().Str("key", key).Str("size", humanize.Bytes(uint64(size))).Msg("uploaded backup archive")

	if e.Retention != nil {
		e.enforceRetention(ctx, *e.Retention)
	}
	return key, nil
}

// enforceRetention deletes the oldest archives beyond keep. Individual
// delete failures are logged and skipped; stale archives get another chance
// on the next run.
func (e *Engine) enforceRetention(ctx context.Context, keep int) {
	keys, err := e.Store.List(ctx, RemotePrefix)
	if err != nil {
		e.log.Warn().Err(err).Msg("list archives for retention failed; skipping cleanup")
		return
	}
	for _, key := range staleKeys(keys, keep) {
		if err := e.Store.Delete(ctx, key); err != nil {
			e.log.Warn().Err(err).Str("key", key).Msg("delete stale archive failed; skipping")
			continue
		}
		e.log.Info().Str("key", key).Msg("pruned stale archive")
	}
}
