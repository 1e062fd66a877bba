package build

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestLocalBuildRoundTrip(t *testing.T) {
	dir := t.TempDir()
	lb := NewLocalBuild(dir, infoAt(t, "4.2.1", "main", "abc123", "2024-06-01T12:00:00Z"))
	lb.Favorite = true
	lb.CustomName = "my daily driver"
	lb.CustomEnv = map[string]string{"APP_DEBUG": "1"}

	if err := lb.Write(); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	got, err := ReadLocalBuild(dir)
	if err != nil {
		t.Fatalf("ReadLocalBuild() error = %v", err)
	}
	if diff := cmp.Diff(lb, got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestReadLocalBuildMissingRecord(t *testing.T) {
	_, err := ReadLocalBuild(t.TempDir())
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("expected fs.ErrNotExist for a folder without a record, got %v", err)
	}
}

func TestReadLocalBuildCorruptRecord(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, RecordFilename), []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := ReadLocalBuild(dir); err == nil {
		t.Error("expected an error for a corrupt record")
	}
}

func TestLocalBuildWriteLeavesNoTempFile(t *testing.T) {
	dir := t.TempDir()
	lb := NewLocalBuild(dir, infoAt(t, "4.2.1", "", "", "2024-06-01T12:00:00Z"))
	if err := lb.Write(); err != nil {
		t.Fatal(err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Name() != RecordFilename {
		t.Errorf("expected only %s in the folder, got %d entries", RecordFilename, len(entries))
	}
}
