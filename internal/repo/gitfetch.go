package repo

import (
	"context"
	"errors"
	"os"
	"path/filepath"

	git "github.com/go-git/go-git/v5"

	"github.com/ZebulonRouseFrantzich/buildpull/internal/build"
	"github.com/ZebulonRouseFrantzich/buildpull/internal/cmderr"
)

// defaultIndexFile is the catalog file looked up inside a git-kind
// repository when the configuration names none.
const defaultIndexFile = "builds.json"

// fetchGit refreshes a git-kind repository: the catalog index lives as a
// JSON file inside a git repository that is cloned once into the cache and
// pulled on every refresh thereafter.
func (f *Fetcher) fetchGit(ctx context.Context, r Repo) ([]build.VariantSet, error) {
	dir := filepath.Join(f.Paths.Cache, "git", r.ID)

	gr, err := git.PlainOpen(dir)
	switch {
	case err == nil:
		wt, werr := gr.Worktree()
		if werr != nil {
			return nil, werr
		}
		perr := wt.PullContext(ctx, &git.PullOptions{RemoteName: "origin"})
		if perr != nil && !errors.Is(perr, git.NoErrAlreadyUpToDate) {
			if ctx.Err() != nil {
				return nil, cmderr.ErrCancelled
			}
			return nil, perr
		}
	case errors.Is(err, git.ErrRepositoryNotExists):
		if err := os.MkdirAll(filepath.Dir(dir), 0o755); err != nil {
			return nil, cmderr.Pathf("create", filepath.Dir(dir), err)
		}
		_, cerr := git.PlainCloneContext(ctx, dir, false, &git.CloneOptions{
			URL:   r.URL,
			Depth: 1,
		})
		if cerr != nil {
			if ctx.Err() != nil {
				return nil, cmderr.ErrCancelled
			}
			return nil, cerr
		}
	default:
		return nil, err
	}

	index := r.IndexFile
	if index == "" {
		index = defaultIndexFile
	}
	path := filepath.Join(dir, index)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, cmderr.Pathf("read", path, err)
	}
	return parseSnapshot(data)
}
