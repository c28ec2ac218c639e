package archive

import (
	"archive/tar"
	"compress/gzip"
	"os"
	"path/filepath"
	"testing"
)

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
}

func TestPackUnpackRoundTrip(t *testing.T) {
	src := t.TempDir()
	writeTree(t, src, map[string]string{
		"config.json":      `{"port":18789}`,
		"sessions/a.jsonl": "line1\nline2\n",
	})

	archivePath := filepath.Join(t.TempDir(), "out.tar.gz")
	size, err := Pack(src, archivePath, nil)
	if err != nil {
		t.Fatalf("pack: %v", err)
	}
	if size <= 0 {
		t.Fatalf("expected positive archive size, got %d", size)
	}

	dst := t.TempDir()
	if err := Unpack(archivePath, dst); err != nil {
		t.Fatalf("unpack: %v", err)
	}
	got, err := os.ReadFile(filepath.Join(dst, "sessions", "a.jsonl"))
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "line1\nline2\n" {
		t.Fatalf("content mismatch: %q", got)
	}
}

func TestPackHonorsExcludes(t *testing.T) {
	src := t.TempDir()
	writeTree(t, src, map[string]string{
		"keep.txt":           "keep",
		"secrets/api.key":    "sk-secret",
		"logs/app.log":       "noise",
		"cache/entry":        "noise",
		"session.tmp":        "noise",
		"nested/deep/ok.txt": "keep",
	})

	archivePath := filepath.Join(t.TempDir(), "out.tar.gz")
	if _, err := Pack(src, archivePath, []string{"logs", "cache", "secrets", "*.tmp"}); err != nil {
		t.Fatalf("pack: %v", err)
	}

	dst := t.TempDir()
	if err := Unpack(archivePath, dst); err != nil {
		t.Fatalf("unpack: %v", err)
	}

	for _, rel := range []string{"keep.txt", "nested/deep/ok.txt"} {
		if _, err := os.Stat(filepath.Join(dst, filepath.FromSlash(rel))); err != nil {
			t.Fatalf("expected %s in archive: %v", rel, err)
		}
	}
	for _, rel := range []string{"secrets/api.key", "logs/app.log", "cache/entry", "session.tmp"} {
		if _, err := os.Stat(filepath.Join(dst, filepath.FromSlash(rel))); !os.IsNotExist(err) {
			t.Fatalf("%s must not be archived", rel)
		}
	}
}

func TestUnpackOverwritesConflicts(t *testing.T) {
	src := t.TempDir()
	writeTree(t, src, map[string]string{"config.json": "new"})
	archivePath := filepath.Join(t.TempDir(), "out.tar.gz")
	if _, err := Pack(src, archivePath, nil); err != nil {
		t.Fatal(err)
	}

	dst := t.TempDir()
	writeTree(t, dst, map[string]string{"config.json": "old", "extra.txt": "kept"})
	if err := Unpack(archivePath, dst); err != nil {
		t.Fatal(err)
	}

	got, _ := os.ReadFile(filepath.Join(dst, "config.json"))
	if string(got) != "new" {
		t.Fatalf("expected overwrite, got %q", got)
	}
	// Files absent from the archive survive extraction.
	if _, err := os.Stat(filepath.Join(dst, "extra.txt")); err != nil {
		t.Fatalf("extra.txt should survive: %v", err)
	}
}

func TestUnpackReplacesReadOnlyFiles(t *testing.T) {
	src := t.TempDir()
	writeTree(t, src, map[string]string{"objects/2f/d7fa": "new-object"})
	if err := os.Chmod(filepath.Join(src, "objects", "2f", "d7fa"), 0o444); err != nil {
		t.Fatal(err)
	}
	archivePath := filepath.Join(t.TempDir(), "out.tar.gz")
	if _, err := Pack(src, archivePath, nil); err != nil {
		t.Fatal(err)
	}

	dst := t.TempDir()
	writeTree(t, dst, map[string]string{"objects/2f/d7fa": "old-object"})
	if err := os.Chmod(filepath.Join(dst, "objects", "2f", "d7fa"), 0o444); err != nil {
		t.Fatal(err)
	}

	if err := Unpack(archivePath, dst); err != nil {
		t.Fatalf("unpack over read-only file: %v", err)
	}
	got, err := os.ReadFile(filepath.Join(dst, "objects", "2f", "d7fa"))
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "new-object" {
		t.Fatalf("expected replacement, got %q", got)
	}
}

func TestUnpackRejectsTraversal(t *testing.T) {
	archivePath := filepath.Join(t.TempDir(), "evil.tar.gz")
	f, err := os.Create(archivePath)
	if err != nil {
		t.Fatal(err)
	}
	gz := gzip.NewWriter(f)
	tw := tar.NewWriter(gz)
	if err := tw.WriteHeader(&tar.Header{
		Name: "../escape.txt",
		Mode: 0o644,
		Size: 4,
	}); err != nil {
		t.Fatal(err)
	}
	if _, err := tw.Write([]byte("oops")); err != nil {
		t.Fatal(err)
	}
	if err := tw.Close(); err != nil {
		t.Fatal(err)
	}
	if err := gz.Close(); err != nil {
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}

	if err := Unpack(archivePath, t.TempDir()); err == nil {
		t.Fatal("expected traversal rejection")
	}
}
