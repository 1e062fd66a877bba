// Package build defines the core value types of the acquisition pipeline:
// build identities, platform variants, and installed-build records.
package build

import (
	"fmt"
	"strings"
	"time"
)

// Info uniquely names one build across every configured repository: the
// version triple plus branch, build hash, and commit timestamp. It is an
// immutable value type; use Key for map keys and Compare for the canonical
// ordering.
type Info struct {
	Version  Version   `json:"version"`
	Branch   string    `json:"branch,omitempty"`
	Hash     string    `json:"build_hash,omitempty"`
	CommitAt time.Time `json:"commit_time"`
}

// Key is the comparable form of Info, suitable as a map key. time.Time is
// not reliable under ==, so the commit timestamp is flattened to Unix
// seconds UTC.
type Key struct {
	Major, Minor, Patch int
	Branch, Hash        string
	CommitUnix          int64
}

// Key returns the comparable identity of the build.
func (i Info) Key() Key {
	return Key{
		Major:      i.Version.Major,
		Minor:      i.Version.Minor,
		Patch:      i.Version.Patch,
		Branch:     i.Branch,
		Hash:       i.Hash,
		CommitUnix: i.CommitAt.Unix(),
	}
}

// Compare implements the canonical total ordering: commit timestamp first,
// then the version triple, with branch and hash as final tie-breakers so the
// ordering is total over distinct identities.
func (i Info) Compare(o Info) int {
	switch {
	case i.CommitAt.Before(o.CommitAt):
		return -1
	case i.CommitAt.After(o.CommitAt):
		return 1
	}
	if c := i.Version.Compare(o.Version); c != 0 {
		return c
	}
	if c := strings.Compare(i.Branch, o.Branch); c != 0 {
		return c
	}
	return strings.Compare(i.Hash, o.Hash)
}

// String renders the identity the way queries spell it, without the commit
// timestamp: "major.minor.patch[-branch][#hash]". This is the form used in
// disambiguation menu labels.
func (i Info) String() string {
	var b strings.Builder
	b.WriteString(i.Version.String())
	if i.Branch != "" {
		fmt.Fprintf(&b, "-%s", i.Branch)
	}
	if i.Hash != "" {
		fmt.Fprintf(&b, "#%s", i.Hash)
	}
	return b.String()
}
