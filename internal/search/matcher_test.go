package search

import (
	"testing"
	"time"

	"github.com/ZebulonRouseFrantzich/buildpull/internal/build"
)

func candidate(t *testing.T, repo, ver, branch, hash, at string) Candidate {
	t.Helper()
	v, err := build.ParseVersion(ver)
	if err != nil {
		t.Fatal(err)
	}
	ts, err := time.Parse(time.RFC3339, at)
	if err != nil {
		t.Fatal(err)
	}
	return Candidate{
		Info: build.Info{Version: v, Branch: branch, Hash: hash, CommitAt: ts},
		Repo: repo,
	}
}

// testCandidates is a small catalog spanning two repositories, two
// branches, and several patch levels of 4.2 plus a 4.3 daily build.
func testCandidates(t *testing.T) []Candidate {
	t.Helper()
	return []Candidate{
		candidate(t, "stable", "4.2.0", "main", "aaa111", "2024-01-10T00:00:00Z"),
		candidate(t, "stable", "4.2.1", "main", "bbb222", "2024-02-10T00:00:00Z"),
		candidate(t, "stable", "4.2.2", "main", "ccc333", "2024-03-10T00:00:00Z"),
		candidate(t, "daily", "4.3.0", "main", "ddd444", "2024-03-15T00:00:00Z"),
		candidate(t, "daily", "4.3.0", "experimental", "eee555", "2024-03-20T00:00:00Z"),
		candidate(t, "daily", "4.3.0", "main", "fff666", "2024-03-25T00:00:00Z"),
	}
}

func mustParse(t *testing.T, s string) Query {
	t.Helper()
	q, err := Parse(s)
	if err != nil {
		t.Fatal(err)
	}
	return q
}

func hashes(cands []Candidate) []string {
	out := make([]string, len(cands))
	for i, c := range cands {
		out[i] = c.Info.Hash
	}
	return out
}

func TestFindAll(t *testing.T) {
	m := NewMatcher(testCandidates(t))

	tests := []struct {
		name  string
		query string
		want  []string // expected hashes in result order
	}{
		{
			name:  "any_patch_lists_all_of_42",
			query: "4.2.*",
			want:  []string{"aaa111", "bbb222", "ccc333"},
		},
		{
			name:  "newest_patch_is_single",
			query: "4.2.^",
			want:  []string{"ccc333"},
		},
		{
			name:  "oldest_patch_is_single",
			query: "4.2.-",
			want:  []string{"aaa111"},
		},
		{
			name:  "exact_triple",
			query: "4.2.1",
			want:  []string{"bbb222"},
		},
		{
			// Three 4.3.0 builds exist; the extremal query still collapses
			// to exactly one by taking the newest commit among them.
			name:  "all_newest_is_always_single",
			query: "^.^.^",
			want:  []string{"fff666"},
		},
		{
			name:  "all_oldest_is_always_single",
			query: "-.-.-",
			want:  []string{"aaa111"},
		},
		{
			name:  "branch_filter",
			query: "4.3.0-experimental",
			want:  []string{"eee555"},
		},
		{
			name:  "hash_filter",
			query: "*.*.*#ddd444",
			want:  []string{"ddd444"},
		},
		{
			name:  "repository_filter",
			query: "stable/^.^.^",
			want:  []string{"ccc333"},
		},
		{
			name:  "explicit_newest_commit",
			query: "4.3.0-main@^",
			want:  []string{"fff666"},
		},
		{
			name:  "explicit_oldest_commit",
			query: "4.3.0-main@-",
			want:  []string{"ddd444"},
		},
		{
			name:  "any_commit_keeps_all",
			query: "4.3.0-main",
			want:  []string{"ddd444", "fff666"},
		},
		{
			name:  "no_match",
			query: "9.9.9",
			want:  []string{},
		},
		{
			name:  "wrong_repository",
			query: "nightly/4.2.*",
			want:  []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := hashes(m.FindAll(mustParse(t, tt.query)))
			if len(got) != len(tt.want) {
				t.Fatalf("FindAll(%s) = %v, want %v", tt.query, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("FindAll(%s) = %v, want %v", tt.query, got, tt.want)
				}
			}
		})
	}
}

func TestFindAllResultsSortedByCommitTime(t *testing.T) {
	m := NewMatcher(testCandidates(t))
	got := m.FindAll(mustParse(t, "*.*.*"))
	for i := 1; i < len(got); i++ {
		if got[i-1].Info.Compare(got[i].Info) > 0 {
			t.Fatalf("results out of canonical order at %d: %v before %v",
				i, got[i-1].Info, got[i].Info)
		}
	}
}

// The extremal collapse must narrow ^.^.^ and -.-.- down to a single
// commit instant: exactly one result unless candidates share the extremal
// commit time itself.
func TestExtremalQueriesCollapse(t *testing.T) {
	sets := [][]Candidate{
		testCandidates(t),
		{candidate(t, "r", "1.0.0", "", "", "2024-01-01T00:00:00Z")},
		{
			// Same version triple, distinct commit times.
			candidate(t, "r", "1.0.0", "a", "h1", "2024-01-01T00:00:00Z"),
			candidate(t, "r", "1.0.0", "b", "h2", "2024-02-01T00:00:00Z"),
		},
	}

	for _, cands := range sets {
		m := NewMatcher(cands)
		for _, q := range []string{"^.^.^", "-.-.-"} {
			got := m.FindAll(mustParse(t, q))
			if len(got) != 1 {
				t.Errorf("FindAll(%s) over %d candidates returned %d results, want 1 (got %v)",
					q, len(cands), len(got), hashes(got))
			}
		}
	}
}

func TestExtremalQueryTiedCommitTimes(t *testing.T) {
	// Two builds at the exact same instant cannot be told apart by the
	// collapse; both survive and the caller prompts.
	m := NewMatcher([]Candidate{
		candidate(t, "r", "1.0.0", "a", "h1", "2024-01-01T00:00:00Z"),
		candidate(t, "r", "1.0.0", "b", "h2", "2024-01-01T00:00:00Z"),
	})
	got := m.FindAll(mustParse(t, "^.^.^"))
	if len(got) != 2 {
		t.Errorf("expected both tied candidates to survive, got %v", hashes(got))
	}
}
