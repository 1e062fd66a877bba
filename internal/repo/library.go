package repo

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/ZebulonRouseFrantzich/buildpull/internal/build"
	"github.com/ZebulonRouseFrantzich/buildpull/internal/cmderr"
	"github.com/ZebulonRouseFrantzich/buildpull/internal/config"
)

// State is the enumerated view of one repository: what is installed in the
// library and what the cached catalog still offers.
type State struct {
	Repo       Repo
	Registered bool // false for library directories no config entry claims
	Installed  []*build.LocalBuild
	// NotInstalled holds the cached remote variant sets whose identity has
	// no installed counterpart.
	NotInstalled []build.VariantSet
}

// ReadLibrary enumerates every configured repository plus any unregistered
// directories found in the library. Installed builds are discovered by
// their metadata record; directories without one are ignored.
func ReadLibrary(paths config.Paths, repos []Repo) ([]State, error) {
	states := make([]State, 0, len(repos))
	claimed := make(map[string]bool, len(repos))

	for _, r := range repos {
		claimed[r.ID] = true
		installed, err := readInstalled(paths.RepoDir(r.ID))
		if err != nil {
			return nil, err
		}
		remote, err := ReadSnapshot(paths, r.ID)
		if err != nil {
			return nil, err
		}
		states = append(states, State{
			Repo:         r,
			Registered:   true,
			Installed:    installed,
			NotInstalled: excludeInstalled(remote, installed),
		})
	}

	// Unregistered library directories still count for run/ls/rm: a build
	// installed under a since-removed repository remains usable.
	entries, err := os.ReadDir(paths.Library)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return states, nil
		}
		return nil, cmderr.Pathf("read", paths.Library, err)
	}
	for _, e := range entries {
		if !e.IsDir() || claimed[e.Name()] || e.Name() == filepath.Base(paths.TrashDir()) {
			continue
		}
		installed, err := readInstalled(filepath.Join(paths.Library, e.Name()))
		if err != nil {
			return nil, err
		}
		if len(installed) == 0 {
			continue
		}
		states = append(states, State{
			Repo:      Repo{ID: e.Name(), Nickname: e.Name()},
			Installed: installed,
		})
	}
	return states, nil
}

// readInstalled scans one repository directory for installed builds.
func readInstalled(dir string) ([]*build.LocalBuild, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, cmderr.Pathf("read", dir, err)
	}
	var out []*build.LocalBuild
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		lb, err := build.ReadLocalBuild(filepath.Join(dir, e.Name()))
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue // payload folder without a record: not an install
			}
			return nil, err
		}
		out = append(out, lb)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Info.Compare(out[j].Info) < 0 })
	return out, nil
}

func excludeInstalled(remote []build.VariantSet, installed []*build.LocalBuild) []build.VariantSet {
	if len(remote) == 0 {
		return nil
	}
	have := make(map[build.Key]bool, len(installed))
	for _, lb := range installed {
		have[lb.Info.Key()] = true
	}
	out := make([]build.VariantSet, 0, len(remote))
	for _, s := range remote {
		if !have[s.Info.Key()] {
			out = append(out, s)
		}
	}
	return out
}
