// Package history keeps a linear, commit-based history of the openclaw data
// directory. It shells out to git; the repository is local only and is never
// pushed anywhere.
package history

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// ignoreList excludes volatile and sensitive subtrees from tracking. Secrets
// must never enter the history; logs and caches churn too fast to be worth
// recording.
const ignoreList = `logs/
cache/
tmp/
secrets/
*.log
*.tmp
*.sock
`

const bootstrapMessage = "openclaw history root"

// Tracker operates a git history rooted at Dir.
type Tracker struct {
	Dir string
	log zerolog.Logger
}

// New returns a Tracker for the given data directory.
func New(dir string, log zerolog.Logger) *Tracker {
	return &Tracker{
		Dir: dir,
		log: log.With().Str("component", "history").Logger(),
	}
}

// EnsureRepository initializes the history if the data directory is not yet
// a repository: git init, the fixed ignore list, and a bootstrap commit that
// is allowed to be empty so the history root always exists. Safe to call on
// every invocation.
func (t *Tracker) EnsureRepository(ctx context.Context) error {
	if err := os.MkdirAll(t.Dir, 0o755); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}
	if t.isRepository(ctx) {
		return nil
	}

	if _, err := t.git(ctx, "init"); err != nil {
		return fmt.Errorf("initialize history repository: %w", err)
	}
	if err := os.WriteFile(filepath.Join(t.Dir, ".gitignore"), []byte(ignoreList), 0o644); err != nil {
		return fmt.Errorf("write ignore list: %w", err)
	}
	if _, err := t.git(ctx, "add", "-A"); err != nil {
		return fmt.Errorf("stage bootstrap state: %w", err)
	}
	if _, err := t.git(ctx, "commit", "--allow-empty", "-m", bootstrapMessage); err != nil {
		return fmt.Errorf("create bootstrap commit: %w", err)
	}
	t.log.Info().Str("dir", t.Dir).Msg("initialized history repository")
	return nil
}

// CommitIfChanged stages everything and commits when the staged tree differs
// from the last commit. Returns the new commit hash, or "" when there was
// nothing to commit; a clean tree is a normal return, not an error.
func (t *Tracker) CommitIfChanged(ctx context.Context) (string, error) {
	if err := t.EnsureRepository(ctx); err != nil {
		return "", err
	}
	if _, err := t.git(ctx, "add", "-A"); err != nil {
		return "", fmt.Errorf("stage changes: %w", err)
	}

	// Exit status 0 means the staged tree matches HEAD.
	if _, err := t.git(ctx, "diff", "--cached", "--quiet"); err == nil {
		t.log.Debug().Msg("no changes to commit")
		return "", nil
	}

	stat, err := t.git(ctx, "diff", "--cached", "--shortstat")
	if err != nil {
		return "", fmt.Errorf("summarize staged changes: %w", err)
	}
	message := fmt.Sprintf("snapshot %s (%s)",
		time.Now().UTC().Format(time.RFC3339),
		strings.TrimSpace(stat))

	if _, err := t.git(ctx, "commit", "-m", message); err != nil {
		return "", fmt.Errorf("create snapshot commit: %w", err)
	}
	hash, err := t.git(ctx, "rev-parse", "HEAD")
	if err != nil {
		return "", fmt.Errorf("resolve new commit: %w", err)
	}
	hash = strings.TrimSpace(hash)
	t.log.Info().Str("commit", hash).Msg("recorded history snapshot")
	return hash, nil
}

// Log returns the most recent n history entries, one line each.
func (t *Tracker) Log(ctx context.Context, n int) ([]string, error) {
	out, err := t.git(ctx, "log", fmt.Sprintf("-%d", n), "--oneline")
	if err != nil {
		return nil, fmt.Errorf("read history log: %w", err)
	}
	var entries []string
	for _, line := range strings.Split(out, "\n") {
		if s := strings.TrimSpace(line); s != "" {
			entries = append(entries, s)
		}
	}
	return entries, nil
}

// Raw runs an arbitrary git operation against the history repository with
// output passed through. Backs the operator `history` command.
func (t *Tracker) Raw(ctx context.Context, args ...string) error {
	gitPath, err := exec.LookPath("git")
	if err != nil {
		return fmt.Errorf("git is not installed: %w", err)
	}
	cmd := exec.CommandContext(ctx, gitPath, args...)
	cmd.Dir = t.Dir
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.Stdin = os.Stdin
	return cmd.Run()
}

// isRepository checks for a repository rooted at Dir itself. Checking the
// .git entry directly avoids false positives when the data directory lives
// inside some outer working tree.
func (t *Tracker) isRepository(_ context.Context) bool {
	info, err := os.Stat(filepath.Join(t.Dir, ".git"))
	return err == nil && info.IsDir()
}

func (t *Tracker) git(ctx context.Context, args ...string) (string, error) {
	gitPath, err := exec.LookPath("git")
	if err != nil {
		return "", fmt.Errorf("git is not installed: %w", err)
	}
	// System hosts rarely carry a global git identity; pin one so commits
	// never fail on a fresh machine.
	full := append([]string{"-c", "user.name=openclaw", "-c", "user.email=openclaw@localhost"}, args...)
	cmd := exec.CommandContext(ctx, gitPath, full...)
	cmd.Dir = t.Dir

	var out, errBuf bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errBuf
	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(errBuf.String()); msg != "" {
			return "", fmt.Errorf("git %s: %w: %s", args[0], err, msg)
		}
		return "", fmt.Errorf("git %s: %w", args[0], err)
	}
	return out.String(), nil
}
