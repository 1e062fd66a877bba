package repo

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/ZebulonRouseFrantzich/buildpull/internal/build"
	"github.com/ZebulonRouseFrantzich/buildpull/internal/cmderr"
	"github.com/ZebulonRouseFrantzich/buildpull/internal/config"
)

// maxIndexBytes caps how much of a catalog index the fetcher will read.
// Real indexes are a few hundred KB; anything near this size is broken
// or hostile.
const maxIndexBytes = 64 << 20

// FetchOptions control a catalog refresh run.
type FetchOptions struct {
	// Parallel refreshes all repositories concurrently instead of in input
	// order with early abort.
	Parallel bool
	// IgnoreErrors keeps refreshing remaining repositories after a failure.
	// The first failure (in input order) is still reported at the end.
	IgnoreErrors bool
	// Force skips the minimum-interval guard.
	Force bool
}

// Fetcher refreshes repository catalog snapshots.
type Fetcher struct {
	Paths  config.Paths
	Limits config.Limits
	Client *http.Client
	Log    config.Logger

	// now is swapped in tests.
	now func() time.Time
}

// NewFetcher returns a Fetcher using the given HTTP client, or
// http.DefaultClient when nil.
func NewFetcher(paths config.Paths, limits config.Limits, client *http.Client, log config.Logger) *Fetcher {
	if client == nil {
		client = http.DefaultClient
	}
	if log == nil {
		log = config.NopLogger()
	}
	return &Fetcher{Paths: paths, Limits: limits, Client: client, Log: log, now: time.Now}
}

// Result reports the outcome of refreshing one repository. Skipped marks
// repositories never attempted because an earlier one failed in
// sequential mode.
type Result struct {
	Repo    Repo
	Builds  int
	Skipped bool
	Err     error
}

// FetchAll refreshes the catalog snapshot of every given repository.
// Results come back in input order regardless of mode. The returned error
// is the first per-repository failure in input order, or nil when all
// succeeded; with IgnoreErrors every repository is still attempted but the
// first failure is reported anyway.
func (f *Fetcher) FetchAll(ctx context.Context, repos []Repo, opts FetchOptions) ([]Result, error) {
	if !opts.Force {
		if err := f.checkInterval(); err != nil {
			return nil, err
		}
	}

	results := make([]Result, len(repos))
	for i, r := range repos {
		results[i].Repo = r
	}

	if opts.Parallel {
		var wg sync.WaitGroup
		for i := range repos {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				results[i].Builds, results[i].Err = f.fetchOne(ctx, repos[i])
			}(i)
		}
		wg.Wait()
	} else {
		for i := range repos {
			results[i].Builds, results[i].Err = f.fetchOne(ctx, repos[i])
			if results[i].Err != nil && !opts.IgnoreErrors {
				for j := i + 1; j < len(results); j++ {
					results[j].Skipped = true
				}
				break
			}
		}
	}

	var first error
	for i := range results {
		if results[i].Err != nil {
			first = fmt.Errorf("fetch %s: %w", results[i].Repo.ID, results[i].Err)
			break
		}
	}
	if first == nil || opts.IgnoreErrors {
		// A run that produced at least some fresh snapshots counts for the
		// rate guard; a wholly failed run does not.
		if anySucceeded(results) {
			if err := recordFetch(f.Paths, f.now()); err != nil {
				f.Log.Warn("could not record fetch time", "err", err)
			}
		}
	}
	return results, first
}

func (f *Fetcher) checkInterval() error {
	interval := time.Duration(f.Limits.FetchIntervalSeconds) * time.Second
	if interval <= 0 {
		return nil
	}
	last := lastFetch(f.Paths)
	if last.IsZero() {
		return nil
	}
	elapsed := f.now().Sub(last)
	if elapsed < interval {
		return &cmderr.FetchTooSoonError{RemainingSeconds: int64((interval - elapsed).Seconds()) + 1}
	}
	return nil
}

// fetchOne refreshes a single repository snapshot and returns how many
// builds the new snapshot carries.
func (f *Fetcher) fetchOne(ctx context.Context, r Repo) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, cmderr.ErrCancelled
	}
	f.Log.Debug("fetching catalog", "repo", r.ID, "kind", r.Kind)

	var (
		sets []build.VariantSet
		err  error
	)
	switch r.Kind {
	case config.RepoKindGit:
		sets, err = f.fetchGit(ctx, r)
	default:
		sets, err = f.fetchHTTPS(ctx, r)
	}
	if err != nil {
		return 0, err
	}
	if err := WriteSnapshot(f.Paths, r.ID, sets); err != nil {
		return 0, err
	}
	f.Log.Info("catalog refreshed", "repo", r.ID, "builds", len(sets))
	return len(sets), nil
}

func (f *Fetcher) fetchHTTPS(ctx context.Context, r Repo) ([]build.VariantSet, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.URL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := f.Client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, cmderr.ErrCancelled
		}
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, &cmderr.StatusError{Code: resp.StatusCode, Reason: resp.Status}
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxIndexBytes))
	if err != nil {
		if ctx.Err() != nil {
			return nil, cmderr.ErrCancelled
		}
		return nil, err
	}
	return parseSnapshot(data)
}

func anySucceeded(results []Result) bool {
	for i := range results {
		if results[i].Err == nil {
			return true
		}
	}
	return false
}
