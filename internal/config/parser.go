package config

import (
	"context"
	"fmt"
	"os"

	"github.com/ZebulonRouseFrantzich/buildpull/internal/platform"
	lua "github.com/yuin/gopher-lua"
)

// Parser parses Lua configs with platform information injected.
type Parser struct {
	detector platform.Detector
}

// NewParser creates a config parser. The detector may be nil, in which case
// no platform table is injected (used by a few tests).
func NewParser(detector platform.Detector) *Parser {
	return &Parser{detector: detector}
}

// ParseError represents a config parsing error with a friendly message.
type ParseError struct {
	Message string // user-friendly message
	Detail  string // technical detail (raw Lua error)
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: %s", e.Message, e.Detail)
}

// ParseFile loads, parses, normalizes and validates a config file. A
// missing file yields the built-in defaults rather than an error, so a
// fresh install works without any setup.
func (p *Parser) ParseFile(ctx context.Context, path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg, err := p.ParseString(ctx, string(data))
	if err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// ParseString parses a Lua config from a string.
func (p *Parser) ParseString(ctx context.Context, luaCode string) (*Config, error) {
	L := newSandboxedVM()
	defer L.Close()

	if p.detector != nil {
		target, err := p.detector.Detect(ctx)
		if err != nil {
			return nil, fmt.Errorf("platform detection failed: %w", err)
		}
		injectPlatformTable(L, target)
	}

	if err := L.DoString(luaCode); err != nil {
		return nil, &ParseError{Message: "Lua syntax error", Detail: err.Error()}
	}

	cfg, err := extractConfig(L)
	if err != nil {
		return nil, err
	}
	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// injectPlatformTable exposes the host target to configs as a global
// `platform` table, so repository lists can vary per OS/architecture.
func injectPlatformTable(L *lua.LState, t *platform.Target) {
	tbl := L.NewTable()
	L.SetField(tbl, "os", lua.LString(t.OS))
	L.SetField(tbl, "arch", lua.LString(t.Arch))
	L.SetField(tbl, "arch_raw", lua.LString(t.ArchRaw))
	L.SetField(tbl, "is_linux", lua.LBool(t.OS == "linux"))
	L.SetField(tbl, "is_macos", lua.LBool(t.OS == "darwin"))
	L.SetField(tbl, "is_windows", lua.LBool(t.OS == "windows"))
	L.SetGlobal("platform", tbl)
}

// extractConfig pulls the global `buildpull` table out of the Lua state.
func extractConfig(L *lua.LState) (*Config, error) {
	root := L.GetGlobal("buildpull")
	if root.Type() != lua.LTTable {
		return nil, &ParseError{
			Message: "missing or invalid 'buildpull' table",
			Detail:  fmt.Sprintf("expected table, got %s", root.Type()),
		}
	}
	cfg := &Config{}
	table := root.(*lua.LTable)

	if v := table.RawGetString("paths"); v.Type() == lua.LTTable {
		pt := v.(*lua.LTable)
		cfg.Paths.Library = luaString(pt.RawGetString("library"))
		cfg.Paths.Cache = luaString(pt.RawGetString("cache"))
	}

	if v := table.RawGetString("limits"); v.Type() == lua.LTTable {
		lt := v.(*lua.LTable)
		cfg.Limits.MaxParallelPulls = luaInt(lt.RawGetString("max_parallel_pulls"))
		cfg.Limits.FetchIntervalSeconds = luaInt(lt.RawGetString("fetch_interval_seconds"))
	}

	if v := table.RawGetString("app"); v.Type() == lua.LTTable {
		at := v.(*lua.LTable)
		cfg.App.Executable = luaString(at.RawGetString("executable"))
	}

	if v := table.RawGetString("repos"); v != lua.LNil {
		rt, ok := v.(*lua.LTable)
		if !ok {
			return nil, &ParseError{
				Message: "invalid 'repos' field",
				Detail:  fmt.Sprintf("expected array of tables, got %s", v.Type()),
			}
		}
		var parseErr error
		rt.ForEach(func(_, entry lua.LValue) {
			if parseErr != nil {
				return
			}
			et, ok := entry.(*lua.LTable)
			if !ok {
				parseErr = &ParseError{
					Message: "invalid repository entry",
					Detail:  fmt.Sprintf("expected table, got %s", entry.Type()),
				}
				return
			}
			cfg.Repos = append(cfg.Repos, RepoConfig{
				ID:        luaString(et.RawGetString("id")),
				Nickname:  luaString(et.RawGetString("nickname")),
				URL:       luaString(et.RawGetString("url")),
				Kind:      luaString(et.RawGetString("kind")),
				IndexFile: luaString(et.RawGetString("index_file")),
			})
		})
		if parseErr != nil {
			return nil, parseErr
		}
	}

	return cfg, nil
}

func luaString(v lua.LValue) string {
	if s, ok := v.(lua.LString); ok {
		return string(s)
	}
	return ""
}

func luaInt(v lua.LValue) int {
	if n, ok := v.(lua.LNumber); ok {
		return int(n)
	}
	return 0
}
