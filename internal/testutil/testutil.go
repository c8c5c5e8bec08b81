// Package testutil provides common test helpers for the nix-shell-wrapper project.
package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// TempDir returns a temporary directory with every symlink in its path resolved,
// so it compares equal to canonicalised paths.
func TempDir(t *testing.T) string {
	t.Helper()

	dir, err := filepath.EvalSymlinks(t.TempDir())
	if err != nil {
		t.Fatalf("TempDir: %v", err)
	}
	return dir
}

// WriteFile writes content to dir/name, creating parent directories, and
// returns the full path.
func WriteFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		t.Fatalf("WriteFile: mkdir failed: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("WriteFile: write failed: %v", err)
	}
	return path
}

// TempConfigFile creates a temporary config.toml with the given content
// and returns its path. The file is automatically cleaned up.
func TempConfigFile(t *testing.T, content string) string {
	t.Helper()

	return WriteFile(t, t.TempDir(), "config.toml", content)
}

// TempFlake creates a directory holding a minimal flake.nix and returns its
// canonical path.
func TempFlake(t *testing.T, name string) string {
	t.Helper()

	dir := filepath.Join(TempDir(t), name)
	WriteFile(t, dir, "flake.nix", "{ outputs = _: { }; }\n")
	return dir
}
