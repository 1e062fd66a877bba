package resolve

import (
	"errors"
	"fmt"
	"sort"

	"github.com/ZebulonRouseFrantzich/buildpull/internal/build"
	"github.com/ZebulonRouseFrantzich/buildpull/internal/catalog"
	"github.com/ZebulonRouseFrantzich/buildpull/internal/cmderr"
	"github.com/ZebulonRouseFrantzich/buildpull/internal/platform"
	"github.com/ZebulonRouseFrantzich/buildpull/internal/search"
)

// Resolver narrows queries against a merged catalog, going through the
// Chooser whenever a query leaves more than one candidate standing.
type Resolver struct {
	Catalog *catalog.Catalog
	Chooser Chooser
	Target  platform.Target
	// AllPlatforms disables platform narrowing: every variant of an
	// entry is offered, not just the host-compatible ones.
	AllPlatforms bool
}

// ResolveAll resolves each query to one catalog entry, in query order.
// Validation runs over the whole batch first: if any query matches
// nothing the batch fails as one cmderr.NoMatchError, before any prompt
// is shown. Queries with a single match never prompt. Declining a menu
// drops that query only; the rest of the batch goes on.
func (r *Resolver) ResolveAll(queries []search.Query) ([]*catalog.Entry, error) {
	matcher := search.NewMatcher(r.candidates())

	matches := make([][]search.Candidate, len(queries))
	var empty []string
	for i, q := range queries {
		matches[i] = matcher.FindAll(q)
		if len(matches[i]) == 0 {
			empty = append(empty, q.String())
		}
	}
	if len(empty) > 0 {
		return nil, &cmderr.NoMatchError{Queries: empty}
	}

	entries := make([]*catalog.Entry, 0, len(queries))
	for i, cands := range matches {
		if len(cands) == 1 {
			entries = append(entries, r.Catalog.Lookup(cands[0].Info))
			continue
		}
		picked, err := r.chooseBuild(queries[i], cands)
		if errors.Is(err, ErrNoChoice) {
			continue
		}
		if err != nil {
			return nil, err
		}
		entries = append(entries, picked)
	}
	return entries, nil
}

// chooseBuild presents an ambiguous query's candidates, oldest first with
// the cursor on the newest.
func (r *Resolver) chooseBuild(q search.Query, cands []search.Candidate) (*catalog.Entry, error) {
	labels := make([]string, len(cands))
	width := 0
	for i, c := range cands {
		labels[i] = fmt.Sprintf("%s/%s", c.Repo, c.Info)
		if len(labels[i]) > width {
			width = len(labels[i])
		}
	}
	for i, c := range cands {
		labels[i] = fmt.Sprintf("%-*s  %s", width, labels[i], c.Info.CommitAt.Format("2006-01-02 15:04"))
	}

	idx, err := r.Chooser.Choose(fmt.Sprintf("multiple matches for %q", q), labels, len(labels)-1)
	if err != nil {
		return nil, err
	}
	return r.Catalog.Lookup(cands[idx].Info), nil
}

// ResolveVariant picks the artifact to download for one entry. Variants
// matching the running platform are offered first; if none match, all of
// them are. AllPlatforms skips the narrowing outright. A single survivor
// is taken without prompting.
func (r *Resolver) ResolveVariant(entry *catalog.Entry) (build.Variant, error) {
	variants := entry.Variants
	if !r.AllPlatforms {
		variants = catalog.FilterVariants(entry.Variants, r.Target)
	}
	if len(variants) == 0 {
		return build.Variant{}, fmt.Errorf("build %s has no downloadable variants", entry.Info)
	}
	if len(variants) == 1 {
		return variants[0], nil
	}

	sorted := make([]build.Variant, len(variants))
	copy(sorted, variants)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Label() < sorted[j].Label() })

	labels := make([]string, len(sorted))
	for i, v := range sorted {
		labels[i] = v.Label()
	}
	idx, err := r.Chooser.Choose(fmt.Sprintf("select a variant of %s", entry.Info), labels, 0)
	if err != nil {
		return build.Variant{}, err
	}
	return sorted[idx], nil
}

// candidates projects the catalog into matcher input, attributing each
// entry to its origin repository's nickname.
func (r *Resolver) candidates() []search.Candidate {
	entries := r.Catalog.Entries()
	out := make([]search.Candidate, 0, len(entries))
	for _, e := range entries {
		out = append(out, search.Candidate{Info: e.Info, Repo: e.Origin().Nickname})
	}
	return out
}
