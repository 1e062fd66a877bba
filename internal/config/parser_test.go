package config

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ZebulonRouseFrantzich/buildpull/internal/platform"
)

var testTarget = platform.Target{OS: "linux", Arch: "amd64", ArchRaw: "x86_64"}

func parseString(t *testing.T, luaCode string) (*Config, error) {
	t.Helper()
	p := NewParser(platform.Static(testTarget))
	return p.ParseString(context.Background(), luaCode)
}

func TestParseStringFull(t *testing.T) {
	cfg, err := parseString(t, `
		buildpull = {
			paths = {
				library = "/tmp/bp/builds",
				cache = "/tmp/bp/cache",
			},
			limits = {
				max_parallel_pulls = 4,
				fetch_interval_seconds = 600,
			},
			app = {
				executable = "studio",
			},
			repos = {
				{ id = "stable", url = "https://builds.example.com/stable.json" },
				{
					id = "daily",
					nickname = "nightlies",
					url = "https://git.example.com/catalog.git",
					kind = "git",
					index_file = "daily.json",
				},
			},
		}
	`)
	if err != nil {
		t.Fatalf("ParseString() error = %v", err)
	}

	if cfg.Paths.Library != "/tmp/bp/builds" {
		t.Errorf("Library = %q", cfg.Paths.Library)
	}
	if cfg.Limits.MaxParallelPulls != 4 {
		t.Errorf("MaxParallelPulls = %d", cfg.Limits.MaxParallelPulls)
	}
	if cfg.Limits.FetchIntervalSeconds != 600 {
		t.Errorf("FetchIntervalSeconds = %d", cfg.Limits.FetchIntervalSeconds)
	}
	if cfg.App.Executable != "studio" {
		t.Errorf("Executable = %q", cfg.App.Executable)
	}
	if len(cfg.Repos) != 2 {
		t.Fatalf("len(Repos) = %d, want 2", len(cfg.Repos))
	}

	// Normalization: nickname defaults to id, kind defaults to https.
	if cfg.Repos[0].Nickname != "stable" {
		t.Errorf("Repos[0].Nickname = %q, want id fallback", cfg.Repos[0].Nickname)
	}
	if cfg.Repos[0].Kind != RepoKindHTTPS {
		t.Errorf("Repos[0].Kind = %q, want %q", cfg.Repos[0].Kind, RepoKindHTTPS)
	}
	if cfg.Repos[1].Nickname != "nightlies" || cfg.Repos[1].Kind != RepoKindGit {
		t.Errorf("Repos[1] = %+v", cfg.Repos[1])
	}
}

func TestParseStringPlatformConditional(t *testing.T) {
	cfg, err := parseString(t, `
		local url = "https://example.com/other.json"
		if platform.is_linux and platform.arch == "amd64" then
			url = "https://example.com/linux.json"
		end
		buildpull = {
			repos = { { id = "main", url = url } },
		}
	`)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Repos[0].URL != "https://example.com/linux.json" {
		t.Errorf("platform conditional not applied, URL = %q", cfg.Repos[0].URL)
	}
}

func TestParseStringErrors(t *testing.T) {
	tests := []struct {
		name    string
		luaCode string
		detail  string
	}{
		{
			name:    "syntax_error",
			luaCode: `buildpull = {`,
			detail:  "Lua syntax error",
		},
		{
			name:    "missing_table",
			luaCode: `x = 1`,
			detail:  "buildpull",
		},
		{
			name:    "duplicate_repo_id",
			luaCode: `buildpull = { repos = {
				{ id = "a", url = "https://example.com/a" },
				{ id = "a", url = "https://example.com/b" },
			} }`,
			detail: "a",
		},
		{
			name:    "repo_without_url",
			luaCode: `buildpull = { repos = { { id = "a" } } }`,
			detail:  "url",
		},
		{
			name:    "unknown_kind",
			luaCode: `buildpull = { repos = { { id = "a", url = "https://x.test/a", kind = "ftp" } } }`,
			detail:  "kind",
		},
		{
			name:    "repo_id_with_separator",
			luaCode: `buildpull = { repos = { { id = "a/b", url = "https://x.test/a" } } }`,
			detail:  "id",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseString(t, tt.luaCode)
			if err == nil {
				t.Fatal("expected an error")
			}
			if !strings.Contains(err.Error(), tt.detail) {
				t.Errorf("error %q does not mention %q", err, tt.detail)
			}
		})
	}
}

func TestParseStringSandbox(t *testing.T) {
	// Configs must not be able to reach the OS or filesystem.
	for _, luaCode := range []string{
		`buildpull = { app = { executable = os.getenv("HOME") } }`,
		`local f = io.open("/etc/passwd") buildpull = {}`,
		`require("socket") buildpull = {}`,
		`dofile("/tmp/x.lua") buildpull = {}`,
	} {
		if _, err := parseString(t, luaCode); err == nil {
			t.Errorf("expected sandbox to reject %q", luaCode)
		}
	}
}

func TestParseFileMissingGivesDefaults(t *testing.T) {
	p := NewParser(platform.Static(testTarget))
	cfg, err := p.ParseFile(context.Background(), filepath.Join(t.TempDir(), "nope.lua"))
	if err != nil {
		t.Fatalf("ParseFile() error = %v", err)
	}
	def := Default()
	if cfg.App.Executable != def.App.Executable {
		t.Errorf("expected defaults for a missing file")
	}
	if cfg.Paths.Library == "" || cfg.Paths.Cache == "" {
		t.Error("default paths should be populated")
	}
}

func TestParseFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.lua")
	content := `buildpull = { repos = { { id = "main", url = "https://example.com/idx.json" } } }`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	p := NewParser(platform.Static(testTarget))
	cfg, err := p.ParseFile(context.Background(), path)
	if err != nil {
		t.Fatal(err)
	}
	if len(cfg.Repos) != 1 || cfg.Repos[0].ID != "main" {
		t.Errorf("Repos = %+v", cfg.Repos)
	}
}
