package backup

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/openclaw/openclawctl/internal/archive"
)

// ListArchives returns the names of all remote archives, sorted oldest
// first. This backs the no-argument restore invocation, which mutates
// nothing.
func (e *Engine) ListArchives(ctx context.Context) ([]string, error) {
	keys, err := e.Store.List(ctx, RemotePrefix)
	if err != nil {
		return nil, fmt.Errorf("list archives: %w", err)
	}
	names := make([]string, 0, len(keys))
	for _, key := range keys {
		names = append(names, strings.TrimPrefix(key, RemotePrefix))
	}
	sort.Strings(names)
	return names, nil
}

// Restore downloads the named archive and extracts it over the data
// directory. A safety commit of the pre-restore state is attempted first so
// the overwritten tree stays recoverable; its failure is logged but never
// blocks a disaster recovery. The caller must restart the openclaw service
// afterwards; the engine does not own the process lifecycle.
func (e *Engine) Restore(ctx context.Context, name string) error {
	if name == "" {
		return fmt.Errorf("archive name is required; run restore with no argument to list archives")
	}
	key := RemotePrefix + strings.TrimPrefix(name, RemotePrefix)

	// Download before touching anything local, so a missing archive fails
	// with zero state change.
	body, err := e.Store.Download(ctx, key)
	if err != nil {
		return fmt.Errorf("fetch archive: %w", err)
	}
	defer body.Close()

	tmpPath := filepath.Join(os.TempDir(), "restore-"+filepath.Base(key))
	defer os.Remove(tmpPath)
	if err := writeAll(tmpPath, body); err != nil {
		return fmt.Errorf("stage archive locally: %w", err)
	}

	if _, err := e.Tracker.CommitIfChanged(ctx); err != nil {
		e.log.Warn().Err(err).Msg("pre-restore safety commit failed; restoring anyway")
	}

	if err := archive.Unpack(tmpPath, e.DataDir); err != nil {
		return fmt.Errorf("extract archive: %w", err)
	}

	e.log.Info().Str("key", key).Msg("restore complete; restart the openclaw service to pick up the restored state")
	return nil
}

func writeAll(path string, r io.Reader) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
