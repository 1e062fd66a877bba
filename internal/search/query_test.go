package search

import (
	"errors"
	"testing"

	"github.com/ZebulonRouseFrantzich/buildpull/internal/cmderr"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Query
		wantErr bool
	}{
		{
			name:  "exact_triple",
			input: "4.2.1",
			want: Query{
				Major: Ord{Kind: OrdExact, N: 4},
				Minor: Ord{Kind: OrdExact, N: 2},
				Patch: Ord{Kind: OrdExact, N: 1},
			},
		},
		{
			name:  "all_newest",
			input: "^.^.^",
			want: Query{
				Major: Ord{Kind: OrdNewest},
				Minor: Ord{Kind: OrdNewest},
				Patch: Ord{Kind: OrdNewest},
			},
		},
		{
			name:  "any_patch",
			input: "4.2.*",
			want: Query{
				Major: Ord{Kind: OrdExact, N: 4},
				Minor: Ord{Kind: OrdExact, N: 2},
				Patch: Ord{Kind: OrdAny},
			},
		},
		{
			name:  "oldest_placement",
			input: "4.-.-",
			want: Query{
				Major: Ord{Kind: OrdExact, N: 4},
				Minor: Ord{Kind: OrdOldest},
				Patch: Ord{Kind: OrdOldest},
			},
		},
		{
			name:  "repository_prefix",
			input: "daily/4.2.^",
			want: Query{
				Repository: Wild{Exact: "daily"},
				Major:      Ord{Kind: OrdExact, N: 4},
				Minor:      Ord{Kind: OrdExact, N: 2},
				Patch:      Ord{Kind: OrdNewest},
			},
		},
		{
			name:  "branch_and_hash",
			input: "4.2.*-main#abc123",
			want: Query{
				Major:  Ord{Kind: OrdExact, N: 4},
				Minor:  Ord{Kind: OrdExact, N: 2},
				Patch:  Ord{Kind: OrdAny},
				Branch: Wild{Exact: "main"},
				Hash:   Wild{Exact: "abc123"},
			},
		},
		{
			name:  "hash_with_plus",
			input: "4.2.*+abc123",
			want: Query{
				Major: Ord{Kind: OrdExact, N: 4},
				Minor: Ord{Kind: OrdExact, N: 2},
				Patch: Ord{Kind: OrdAny},
				Hash:  Wild{Exact: "abc123"},
			},
		},
		{
			name:  "commit_placement",
			input: "4.2.*@^",
			want: Query{
				Major:    Ord{Kind: OrdExact, N: 4},
				Minor:    Ord{Kind: OrdExact, N: 2},
				Patch:    Ord{Kind: OrdAny},
				CommitAt: Ord{Kind: OrdNewest},
			},
		},
		{
			name:  "everything_at_once",
			input: "daily/^.*.2-main#abc@-",
			want: Query{
				Repository: Wild{Exact: "daily"},
				Major:      Ord{Kind: OrdNewest},
				Minor:      Ord{Kind: OrdAny},
				Patch:      Ord{Kind: OrdExact, N: 2},
				Branch:     Wild{Exact: "main"},
				Hash:       Wild{Exact: "abc"},
				CommitAt:   Ord{Kind: OrdOldest},
			},
		},
		{
			name:  "wildcard_branch_spelled_star",
			input: "4.2.1-*",
			want: Query{
				Major: Ord{Kind: OrdExact, N: 4},
				Minor: Ord{Kind: OrdExact, N: 2},
				Patch: Ord{Kind: OrdExact, N: 1},
			},
		},
		{name: "two_components", input: "4.2", wantErr: true},
		{name: "empty", input: "", wantErr: true},
		{name: "commit_exact_timestamp_rejected", input: "4.2.1@2024-01-01", wantErr: true},
		{name: "garbage", input: "not a query", wantErr: true},
		{name: "negative_number", input: "-1.2.3", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("Parse(%q) succeeded, want error", tt.input)
				}
				var parseErr *cmderr.QueryParseError
				if !errors.As(err, &parseErr) {
					t.Errorf("Parse(%q) error = %T, want *cmderr.QueryParseError", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse(%q) error = %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("Parse(%q)\n got %+v\nwant %+v", tt.input, got, tt.want)
			}
		})
	}
}

func TestQueryString(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"4.2.1", "4.2.1"},
		{"daily/^.^.^", "daily/^.^.^"},
		{"4.2.*-main#abc", "4.2.*-main#abc"},
		{"4.2.*+abc", "4.2.*#abc"}, // + normalizes to #
		{"4.2.1@*", "4.2.1"},       // default commit placement is omitted
		{"4.2.1@^", "4.2.1@^"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			q, err := Parse(tt.input)
			if err != nil {
				t.Fatal(err)
			}
			if got := q.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}
