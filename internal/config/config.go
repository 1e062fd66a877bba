// Package config provides Lua configuration parsing and validation for
// buildpull.
//
// The config file is a sandboxed Lua script declaring a global `buildpull`
// table: repository descriptors, library/cache paths, and concurrency
// limits. A read-only platform table is injected before the script runs so
// configs can vary per host. Dangerous Lua facilities (os, io, require) are
// stripped from the VM; configs stay declarative.
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// RepoKind selects the transport used to refresh a repository's catalog.
const (
	RepoKindHTTPS = "https" // JSON index fetched over HTTP(S)
	RepoKindGit   = "git"   // JSON index kept in a git repository
)

// RepoConfig describes one remote build repository. Read-only once loaded.
type RepoConfig struct {
	ID       string `json:"id"`
	Nickname string `json:"nickname"`
	URL      string `json:"url"`
	Kind     string `json:"kind"`
	// IndexFile is the path of the catalog index inside a git-kind
	// repository. Ignored for https repositories.
	IndexFile string `json:"index_file,omitempty"`
}

// Paths holds the on-disk layout: the library of installed builds and the
// per-repository catalog snapshot cache.
type Paths struct {
	Library string `json:"library"`
	Cache   string `json:"cache"`
}

// RepoDir returns the install directory of one repository.
func (p Paths) RepoDir(repoID string) string {
	return filepath.Join(p.Library, repoID)
}

// SnapshotPath returns the cached catalog snapshot path of one repository.
func (p Paths) SnapshotPath(repoID string) string {
	return filepath.Join(p.Cache, repoID+".json")
}

// TrashDir returns the recoverable trash location used when deleting
// archives and builds.
func (p Paths) TrashDir() string {
	return filepath.Join(p.Library, ".trash")
}

// Limits holds tunables for the concurrent acquisition phase.
type Limits struct {
	// MaxParallelPulls bounds the number of concurrent artifact pipelines.
	// 0 means unbounded.
	MaxParallelPulls int `json:"max_parallel_pulls"`
	// FetchIntervalSeconds is the minimum delay between catalog refreshes.
	FetchIntervalSeconds int `json:"fetch_interval_seconds"`
}

// App describes the managed application for the run command.
type App struct {
	// Executable is the binary name looked up inside an installed build
	// folder when no per-build override exists.
	Executable string `json:"executable"`
}

// Config is the complete buildpull configuration.
type Config struct {
	Paths  Paths        `json:"paths"`
	Repos  []RepoConfig `json:"repos"`
	Limits Limits       `json:"limits"`
	App    App          `json:"app"`
}

// DefaultFetchInterval is applied when the config does not set one.
const DefaultFetchInterval = 300

// Default returns the built-in configuration: empty repo list, library and
// cache under ~/.buildpull.
func Default() *Config {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	base := filepath.Join(home, ".buildpull")
	return &Config{
		Paths: Paths{
			Library: filepath.Join(base, "builds"),
			Cache:   filepath.Join(base, "cache"),
		},
		Limits: Limits{FetchIntervalSeconds: DefaultFetchInterval},
		App:    App{Executable: "app"},
	}
}

// ValidationError reports a config field that failed validation.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("config: %s: %s", e.Field, e.Message)
}

// Validate checks structural invariants: paths set, repository ids unique
// and well-formed, URLs parseable, kinds known.
func (c *Config) Validate() error {
	if c.Paths.Library == "" {
		return &ValidationError{Field: "paths.library", Message: "must not be empty"}
	}
	if c.Paths.Cache == "" {
		return &ValidationError{Field: "paths.cache", Message: "must not be empty"}
	}
	seen := make(map[string]bool, len(c.Repos))
	for i, r := range c.Repos {
		field := fmt.Sprintf("repos[%d]", i)
		if r.ID == "" {
			return &ValidationError{Field: field + ".id", Message: "must not be empty"}
		}
		if strings.ContainsAny(r.ID, `/\`) {
			return &ValidationError{Field: field + ".id", Message: "must not contain path separators"}
		}
		if seen[r.ID] {
			return &ValidationError{Field: field + ".id", Message: fmt.Sprintf("duplicate repository id %q", r.ID)}
		}
		seen[r.ID] = true
		if r.URL == "" {
			return &ValidationError{Field: field + ".url", Message: "must not be empty"}
		}
		if _, err := url.Parse(r.URL); err != nil {
			return &ValidationError{Field: field + ".url", Message: err.Error()}
		}
		switch r.Kind {
		case RepoKindHTTPS, RepoKindGit:
		default:
			return &ValidationError{Field: field + ".kind", Message: fmt.Sprintf("unknown repository kind %q", r.Kind)}
		}
	}
	return nil
}

// normalize fills optional fields from their defaults: nicknames from ids,
// kind from https, numeric limits from the built-ins, and expands "~" in
// paths.
func (c *Config) normalize() {
	def := Default()
	if c.Paths.Library == "" {
		c.Paths.Library = def.Paths.Library
	}
	if c.Paths.Cache == "" {
		c.Paths.Cache = def.Paths.Cache
	}
	c.Paths.Library = expandHome(c.Paths.Library)
	c.Paths.Cache = expandHome(c.Paths.Cache)
	if c.Limits.FetchIntervalSeconds <= 0 {
		c.Limits.FetchIntervalSeconds = DefaultFetchInterval
	}
	if c.Limits.MaxParallelPulls < 0 {
		c.Limits.MaxParallelPulls = 0
	}
	if c.App.Executable == "" {
		c.App.Executable = def.App.Executable
	}
	for i := range c.Repos {
		if c.Repos[i].Nickname == "" {
			c.Repos[i].Nickname = c.Repos[i].ID
		}
		if c.Repos[i].Kind == "" {
			c.Repos[i].Kind = RepoKindHTTPS
		}
	}
}

// expandHome expands a leading "~" to the user home directory.
func expandHome(p string) string {
	if p == "~" || strings.HasPrefix(p, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return p
		}
		return filepath.Join(home, strings.TrimPrefix(p[1:], "/"))
	}
	return p
}

// DefaultPath returns the config file location: $BUILDPULL_CONFIG wins,
// otherwise ~/.buildpull/config.lua.
func DefaultPath() string {
	if env := os.Getenv("BUILDPULL_CONFIG"); env != "" {
		return env
	}
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".buildpull", "config.lua")
}
