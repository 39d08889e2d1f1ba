package testenv

import (
	"os"
	"path/filepath"
	"testing"
)

// TempDir creates a temporary directory.
// The temporary directory and contained files are automatically deleted during cleanup.
func TempDir(t testing.TB) (dir string) {
	dir, e := os.MkdirTemp("", "cmnprobe-test-*")
	if e != nil {
		panic(e)
	}
	t.Cleanup(func() { os.RemoveAll(dir) })
	return dir
}

// WriteFiles creates a directory tree under dir.
// Keys of files are slash-separated relative paths; values are file content.
func WriteFiles(t testing.TB, dir string, files map[string]string) {
	for rel, content := range files {
		filename := filepath.Join(dir, filepath.FromSlash(rel))
		if e := os.MkdirAll(filepath.Dir(filename), 0o755); e != nil {
			t.Fatal(e)
		}
		if e := os.WriteFile(filename, []byte(content), 0o644); e != nil {
			t.Fatal(e)
		}
	}
}
