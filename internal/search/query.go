// Package search implements the version query grammar and the matcher that
// narrows a set of build identities to the ones satisfying a query.
//
// Query syntax:
//
//	[repository/]<major>.<minor>.<patch>[-<branch>][(+|#)<build_hash>][@<commit_time>]
//
// Each of major/minor/patch accepts an integer or one of the placements
// "^" (newest), "*" (any), "-" (oldest). commit_time accepts only the
// placements and defaults to "*".
package search

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/ZebulonRouseFrantzich/buildpull/internal/cmderr"
)

// OrdKind classifies an ordered placement.
type OrdKind int

const (
	OrdAny OrdKind = iota
	OrdExact
	OrdNewest
	OrdOldest
)

// Ord is a placement on an ordered axis (version components, commit time).
type Ord struct {
	Kind OrdKind
	N    int // meaningful only when Kind == OrdExact
}

func (o Ord) String() string {
	switch o.Kind {
	case OrdExact:
		return strconv.Itoa(o.N)
	case OrdNewest:
		return "^"
	case OrdOldest:
		return "-"
	default:
		return "*"
	}
}

// Wild is a placement on an unordered axis (repository, branch, hash).
// The zero value matches anything.
type Wild struct {
	Exact string
}

// Any reports whether the placement matches every value.
func (w Wild) Any() bool { return w.Exact == "" || w.Exact == "*" }

// Matches reports whether s satisfies the placement.
func (w Wild) Matches(s string) bool { return w.Any() || w.Exact == s }

// Query is one parsed version search query.
type Query struct {
	Repository Wild
	Major      Ord
	Minor      Ord
	Patch      Ord
	Branch     Wild
	Hash       Wild
	CommitAt   Ord // only Any/Newest/Oldest
}

// String reproduces the canonical spelling of the query. The commit
// placement is omitted when it is the default "*".
func (q Query) String() string {
	var b strings.Builder
	if !q.Repository.Any() {
		fmt.Fprintf(&b, "%s/", q.Repository.Exact)
	}
	fmt.Fprintf(&b, "%s.%s.%s", q.Major, q.Minor, q.Patch)
	if !q.Branch.Any() {
		fmt.Fprintf(&b, "-%s", q.Branch.Exact)
	}
	if !q.Hash.Any() {
		fmt.Fprintf(&b, "#%s", q.Hash.Exact)
	}
	if q.CommitAt.Kind != OrdAny {
		fmt.Fprintf(&b, "@%s", q.CommitAt)
	}
	return b.String()
}

var queryRe = regexp.MustCompile(
	`^(?:([^/]+)/)?(\^|\*|-|\d+)\.(\^|\*|-|\d+)\.(\^|\*|-|\d+)(?:-([^@#+]+))?(?:[+#]([^@]+))?(?:@(\^|\*|-))?$`)

// Parse parses a query string. Failures produce a usage error naming the
// offending input.
func Parse(s string) (Query, error) {
	m := queryRe.FindStringSubmatch(s)
	if m == nil {
		return Query{}, &cmderr.QueryParseError{Input: s, Reason: "does not match the query grammar"}
	}
	q := Query{
		Repository: Wild{Exact: wildcardless(m[1])},
		Branch:     Wild{Exact: wildcardless(m[5])},
		Hash:       Wild{Exact: wildcardless(m[6])},
	}
	var err error
	if q.Major, err = parseOrd(m[2]); err != nil {
		return Query{}, &cmderr.QueryParseError{Input: s, Reason: err.Error()}
	}
	if q.Minor, err = parseOrd(m[3]); err != nil {
		return Query{}, &cmderr.QueryParseError{Input: s, Reason: err.Error()}
	}
	if q.Patch, err = parseOrd(m[4]); err != nil {
		return Query{}, &cmderr.QueryParseError{Input: s, Reason: err.Error()}
	}
	switch m[7] {
	case "", "*":
		q.CommitAt = Ord{Kind: OrdAny}
	case "^":
		q.CommitAt = Ord{Kind: OrdNewest}
	case "-":
		q.CommitAt = Ord{Kind: OrdOldest}
	}
	return q, nil
}

func wildcardless(s string) string {
	if s == "*" {
		return ""
	}
	return s
}

func parseOrd(tok string) (Ord, error) {
	switch tok {
	case "*":
		return Ord{Kind: OrdAny}, nil
	case "^":
		return Ord{Kind: OrdNewest}, nil
	case "-":
		return Ord{Kind: OrdOldest}, nil
	}
	n, err := strconv.Atoi(tok)
	if err != nil || n < 0 {
		return Ord{}, fmt.Errorf("bad version component %q", tok)
	}
	return Ord{Kind: OrdExact, N: n}, nil
}
