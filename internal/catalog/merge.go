// Package catalog merges per-repository build snapshots into one queryable
// catalog and narrows it to the running platform.
package catalog

import (
	"sort"

	"github.com/ZebulonRouseFrantzich/buildpull/internal/build"
	"github.com/ZebulonRouseFrantzich/buildpull/internal/repo"
)

// Entry is one build identity in the merged catalog. When several
// repositories publish the same identity their variant lists are
// concatenated and every contributor is remembered in insertion order.
type Entry struct {
	Info     build.Info
	Variants []build.Variant
	// Contributors lists every repository that published this identity, in
	// the order their snapshots were merged.
	Contributors []repo.Repo
}

// Origin returns the repository this entry is attributed to: the last
// contributor merged in. Earlier contributors stay visible in
// Contributors.
func (e *Entry) Origin() repo.Repo {
	return e.Contributors[len(e.Contributors)-1]
}

// Catalog is the merged view over every repository snapshot.
type Catalog struct {
	entries []*Entry
	byKey   map[build.Key]*Entry
}

// Merge folds per-repository snapshots into one catalog. Sources merge in
// the given order; identities shared between repositories get their
// variant lists concatenated in that order.
func Merge(sources []Source) *Catalog {
	c := &Catalog{byKey: make(map[build.Key]*Entry)}
	for _, src := range sources {
		for _, set := range src.Sets {
			key := set.Info.Key()
			e, ok := c.byKey[key]
			if !ok {
				e = &Entry{Info: set.Info}
				c.byKey[key] = e
				c.entries = append(c.entries, e)
			}
			e.Variants = append(e.Variants, set.Variants...)
			e.Contributors = append(e.Contributors, src.Repo)
		}
	}
	return c
}

// Source pairs a repository with its snapshot for merging.
type Source struct {
	Repo repo.Repo
	Sets []build.VariantSet
}

// Entries returns every entry sorted by identity: commit time first, then
// version, branch, hash.
func (c *Catalog) Entries() []*Entry {
	out := make([]*Entry, len(c.entries))
	copy(out, c.entries)
	sort.Slice(out, func(i, j int) bool { return out[i].Info.Compare(out[j].Info) < 0 })
	return out
}

// Lookup returns the entry for an exact identity, or nil.
func (c *Catalog) Lookup(info build.Info) *Entry {
	return c.byKey[info.Key()]
}

// Len reports how many distinct build identities the catalog holds.
func (c *Catalog) Len() int { return len(c.entries) }
