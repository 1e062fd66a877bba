// Package testutil provides helpers for testing buildpull in isolation.
package testutil

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ZebulonRouseFrantzich/buildpull/internal/build"
	"github.com/ZebulonRouseFrantzich/buildpull/internal/config"
)

// TempPaths creates an isolated library and cache under a per-test temp
// directory. Tests never touch the user's real build library this way;
// cleanup is handled by t.TempDir.
func TempPaths(t *testing.T) config.Paths {
	t.Helper()

	tmp := t.TempDir()
	paths := config.Paths{
		Library: filepath.Join(tmp, "builds"),
		Cache:   filepath.Join(tmp, "cache"),
	}
	for _, dir := range []string{paths.Library, paths.Cache} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatalf("failed to create test directory %s: %v", dir, err)
		}
	}
	return paths
}

// BuildInfo assembles a build identity for tests. commitAt is parsed as
// RFC3339 and must be valid.
func BuildInfo(t *testing.T, ver string, branch, hash, commitAt string) build.Info {
	t.Helper()

	v, err := build.ParseVersion(ver)
	if err != nil {
		t.Fatalf("bad test version %q: %v", ver, err)
	}
	at, err := time.Parse(time.RFC3339, commitAt)
	if err != nil {
		t.Fatalf("bad test commit time %q: %v", commitAt, err)
	}
	return build.Info{Version: v, Branch: branch, Hash: hash, CommitAt: at}
}
