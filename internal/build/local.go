package build

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/ZebulonRouseFrantzich/buildpull/internal/cmderr"
)

// RecordFilename is the metadata file that marks a folder as a recognized
// installed build. A folder without it is never treated as installed, which
// is why the record is written only after extraction has fully completed.
const RecordFilename = "buildpull.json"

// LocalBuild is the installed-build record persisted inside the install
// folder. Favorite and the custom overrides default to zero values at
// materialization time and are mutated later by the run/ls tooling.
type LocalBuild struct {
	Folder     string            `json:"-"`
	Info       Info              `json:"info"`
	Favorite   bool              `json:"is_favorited"`
	CustomName string            `json:"custom_name,omitempty"`
	CustomExe  string            `json:"custom_exe,omitempty"`
	CustomEnv  map[string]string `json:"custom_env,omitempty"`
}

// NewLocalBuild returns the default record for a freshly extracted build:
// unfavorited, no overrides.
func NewLocalBuild(folder string, info Info) *LocalBuild {
	return &LocalBuild{Folder: folder, Info: info}
}

// Write persists the record into the build folder. The write is atomic
// (temp file + rename) so a crash never leaves a truncated record behind.
func (lb *LocalBuild) Write() error {
	if lb.Folder == "" {
		return errors.New("local build has no folder")
	}
	data, err := json.MarshalIndent(lb, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal build record: %w", err)
	}
	final := filepath.Join(lb.Folder, RecordFilename)
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

// ReadLocalBuild loads the record from an install folder. fs.ErrNotExist is
// returned unwrapped when the folder holds no record, so callers can skip
// unrecognized directories.
func ReadLocalBuild(folder string) (*LocalBuild, error) {
	data, err := os.ReadFile(filepath.Join(folder, RecordFilename))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
		return nil, cmderr.Pathf("read", filepath.Join(folder, RecordFilename), err)
	}
	lb := &LocalBuild{}
	if err := json.Unmarshal(data, lb); err != nil {
		return nil, fmt.Errorf("parse build record in %s: %w", folder, err)
	}
	lb.Folder = folder
	return lb, nil
}
