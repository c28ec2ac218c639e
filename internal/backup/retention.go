package backup

import (
	"fmt"
	"sort"
	"time"
)

// RemotePrefix is where archives live in the object namespace.
const RemotePrefix = "backups/"

const archiveTimeLayout = "20060102-150405"

// ArchiveName derives the archive file name for a backup taken at t. The
// timestamp is UTC, fixed-width and zero-padded, so names sort
// lexicographically in creation order, which retention depends on.
func ArchiveName(t time.Time) string {
	return fmt.Sprintf("openclaw-%s.tar.gz", t.UTC().Format(archiveTimeLayout))
}

// staleKeys returns the keys to prune so that only the keep most recent
// remain, oldest first. Order is the lexicographic order of the keys, which
// by the ArchiveName convention is creation order.
func staleKeys(keys []string, keep int) []string {
	if len(keys) <= keep {
		return nil
	}
	sorted := make([]string, len(keys))
	copy(sorted, keys)
	sort.Strings(sorted)
	return sorted[:len(sorted)-keep]
}
