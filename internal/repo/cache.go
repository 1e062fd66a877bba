package repo

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ZebulonRouseFrantzich/buildpull/internal/build"
	"github.com/ZebulonRouseFrantzich/buildpull/internal/cmderr"
	"github.com/ZebulonRouseFrantzich/buildpull/internal/config"
)

// stampFilename records the time of the last successful catalog refresh.
const stampFilename = "last-fetch"

// ReadSnapshot loads a repository's cached catalog snapshot. A missing
// snapshot is not an error: the repository simply has no known remote
// builds until the next fetch.
func ReadSnapshot(paths config.Paths, repoID string) ([]build.VariantSet, error) {
	path := paths.SnapshotPath(repoID)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, cmderr.Pathf("read", path, err)
	}
	var sets []build.VariantSet
	if err := json.Unmarshal(data, &sets); err != nil {
		return nil, fmt.Errorf("parse catalog snapshot %s: %w", path, err)
	}
	return sets, nil
}

// WriteSnapshot persists a repository catalog snapshot atomically.
func WriteSnapshot(paths config.Paths, repoID string, sets []build.VariantSet) error {
	if err := os.MkdirAll(paths.Cache, 0o755); err != nil {
		return cmderr.Pathf("create", paths.Cache, err)
	}
	data, err := json.MarshalIndent(sets, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal catalog snapshot: %w", err)
	}
	final := paths.SnapshotPath(repoID)
	tmp := final + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return cmderr.Pathf("write", tmp, err)
	}
	if err := os.Rename(tmp, final); err != nil {
		os.Remove(tmp)
		return cmderr.Pathf("rename", final, err)
	}
	return nil
}

// parseSnapshot validates raw index bytes fetched from a repository before
// they are cached. The index must be a JSON array of variant sets whose
// variants all carry a download URL.
func parseSnapshot(data []byte) ([]build.VariantSet, error) {
	var sets []build.VariantSet
	if err := json.Unmarshal(data, &sets); err != nil {
		return nil, fmt.Errorf("invalid catalog index: %w", err)
	}
	for _, s := range sets {
		for _, v := range s.Variants {
			if strings.TrimSpace(v.Remote.URL) == "" {
				return nil, fmt.Errorf("invalid catalog index: build %s has a variant without a download URL", s.Info)
			}
		}
	}
	return sets, nil
}

// lastFetch returns the recorded time of the previous successful refresh,
// or the zero time when none is recorded.
func lastFetch(paths config.Paths) time.Time {
	data, err := os.ReadFile(filepath.Join(paths.Cache, stampFilename))
	if err != nil {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, strings.TrimSpace(string(data)))
	if err != nil {
		return time.Time{}
	}
	return t
}

// recordFetch stamps now as the last successful refresh time.
func recordFetch(paths config.Paths, now time.Time) error {
	if err := os.MkdirAll(paths.Cache, 0o755); err != nil {
		return cmderr.Pathf("create", paths.Cache, err)
	}
	path := filepath.Join(paths.Cache, stampFilename)
	return cmderr.Pathf("write", path, os.WriteFile(path, []byte(now.Format(time.RFC3339)+"\n"), 0o644))
}
