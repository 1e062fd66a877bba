package search

import (
	"sort"

	"github.com/ZebulonRouseFrantzich/buildpull/internal/build"
)

// Candidate pairs a build identity with the nickname of the repository it
// was observed in.
type Candidate struct {
	Info build.Info
	Repo string
}

// Matcher narrows a fixed candidate set against queries. It holds no state
// beyond the candidates and is safe for repeated FindAll calls.
type Matcher struct {
	candidates []Candidate
}

// NewMatcher creates a matcher over the given candidates.
func NewMatcher(candidates []Candidate) *Matcher {
	return &Matcher{candidates: candidates}
}

// FindAll returns every candidate satisfying q, in canonical build order
// (commit time, then version). Placements are applied hierarchically:
// unordered axes first, then major, minor, patch, then the commit axis.
//
// When the patch placement is extremal ("^" or "-") every survivor shares
// the same maximal (or minimal) version triple; remaining ties are then
// collapsed by commit time in the same direction, so extremal queries such
// as "^.^.^" resolve to exactly one build without prompting.
func (m *Matcher) FindAll(q Query) []Candidate {
	out := make([]Candidate, 0, len(m.candidates))
	for _, c := range m.candidates {
		if q.Repository.Matches(c.Repo) && q.Branch.Matches(c.Info.Branch) && q.Hash.Matches(c.Info.Hash) {
			out = append(out, c)
		}
	}
	out = ordFilter(out, q.Major, func(c Candidate) int64 { return int64(c.Info.Version.Major) })
	out = ordFilter(out, q.Minor, func(c Candidate) int64 { return int64(c.Info.Version.Minor) })
	out = ordFilter(out, q.Patch, func(c Candidate) int64 { return int64(c.Info.Version.Patch) })
	out = ordFilter(out, q.CommitAt, commitKey)

	if q.CommitAt.Kind == OrdAny && len(out) > 1 {
		switch q.Patch.Kind {
		case OrdNewest:
			out = ordFilter(out, Ord{Kind: OrdNewest}, commitKey)
		case OrdOldest:
			out = ordFilter(out, Ord{Kind: OrdOldest}, commitKey)
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Info.Compare(out[j].Info) < 0 })
	return out
}

func commitKey(c Candidate) int64 { return c.Info.CommitAt.Unix() }

// ordFilter keeps the candidates satisfying the placement: all for Any,
// equal for Exact, and the extreme value holders for Newest/Oldest.
func ordFilter(cands []Candidate, o Ord, key func(Candidate) int64) []Candidate {
	if len(cands) == 0 || o.Kind == OrdAny {
		return cands
	}
	if o.Kind == OrdExact {
		kept := cands[:0]
		for _, c := range cands {
			if key(c) == int64(o.N) {
				kept = append(kept, c)
			}
		}
		return kept
	}
	extreme := key(cands[0])
	for _, c := range cands[1:] {
		k := key(c)
		if (o.Kind == OrdNewest && k > extreme) || (o.Kind == OrdOldest && k < extreme) {
			extreme = k
		}
	}
	kept := cands[:0]
	for _, c := range cands {
		if key(c) == extreme {
			kept = append(kept, c)
		}
	}
	return kept
}
