// Package repo handles the on-disk and remote sides of build repositories:
// catalog snapshot caching, library enumeration, and catalog refreshing
// over HTTPS or git.
package repo

import (
	"github.com/ZebulonRouseFrantzich/buildpull/internal/config"
)

// Repo is a remote build repository descriptor. Read-only, sourced from
// configuration.
type Repo struct {
	ID        string
	Nickname  string
	URL       string
	Kind      string
	IndexFile string
}

// FromConfig converts a validated config entry into a descriptor.
func FromConfig(rc config.RepoConfig) Repo {
	return Repo{
		ID:        rc.ID,
		Nickname:  rc.Nickname,
		URL:       rc.URL,
		Kind:      rc.Kind,
		IndexFile: rc.IndexFile,
	}
}

// FromConfigAll converts the whole repository list.
func FromConfigAll(rcs []config.RepoConfig) []Repo {
	out := make([]Repo, 0, len(rcs))
	for _, rc := range rcs {
		out = append(out, FromConfig(rc))
	}
	return out
}
