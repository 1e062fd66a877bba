// Package cmderr defines the error taxonomy shared by all buildpull commands
// and the mapping from error categories to process exit codes.
//
// Categories:
//   - usage errors (bad queries, missing input): exit 2, reported before any
//     network I/O happens
//   - runtime errors (transport, format): exit 1
//   - filesystem errors: exit 1, always carry the offending path
//   - cancellation: exit 130 (128+SIGINT), a distinct outcome rather than a
//     failure
package cmderr

import (
	"errors"
	"fmt"
	"strings"
)

// Exit codes follow the original CLI conventions.
const (
	ExitOK        = 0
	ExitRuntime   = 1
	ExitUsage     = 2
	ExitCancelled = 130
)

// ErrCancelled marks an operation aborted by the operator. It is not an
// error in the failure sense: progress reporting stops and the cleanup
// prompter takes over instead of an error message.
var ErrCancelled = errors.New("cancelled")

// ErrMissingQuery is returned when a command requires at least one query and
// none was given.
var ErrMissingQuery = errors.New("no query has been given but one is required")

// ErrNotEnoughInput is returned when a command received insufficient
// arguments to proceed.
var ErrNotEnoughInput = errors.New("not enough command input, see --help for details")

// QueryParseError reports a query string that failed the version query
// grammar. The offending input is always named.
type QueryParseError struct {
	Input  string
	Reason string
}

func (e *QueryParseError) Error() string {
	return fmt.Sprintf("could not parse query %q: %s\n\tquery syntax: [repository/]<major>.<minor>.<patch>[-<branch>][(+|#)<build_hash>][@<commit_time>]", e.Input, e.Reason)
}

// NoMatchError reports queries that matched nothing in the catalog. A batch
// fails as a whole, listing every empty query, before any download starts.
type NoMatchError struct {
	Queries []string
}

func (e *NoMatchError) Error() string {
	return fmt.Sprintf("no matches for the queries: %s", strings.Join(e.Queries, ", "))
}

// StatusError reports a non-success HTTP status from a remote repository.
type StatusError struct {
	Code   int
	Reason string
}

func (e *StatusError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("request returned code %d", e.Code)
	}
	return fmt.Sprintf("request returned code %d: %s", e.Code, e.Reason)
}

// UnsupportedFormatError reports an archive whose extension is not in the
// supported format set. Fatal to that artifact only.
type UnsupportedFormatError struct {
	Ext string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported file format: %q", e.Ext)
}

// PathError attaches the offending filesystem path and the operation that
// failed on it.
type PathError struct {
	Op   string // "create", "write", "rename", "read", "delete"
	Path string
	Err  error
}

func (e *PathError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *PathError) Unwrap() error { return e.Err }

// Pathf wraps err with the operation and path it failed on. Returns nil if
// err is nil.
func Pathf(op, path string, err error) error {
	if err == nil {
		return nil
	}
	return &PathError{Op: op, Path: path, Err: err}
}

// FetchTooSoonError reports a catalog refresh attempted before the minimum
// fetch interval has elapsed.
type FetchTooSoonError struct {
	RemainingSeconds int64
}

func (e *FetchTooSoonError) Error() string {
	return fmt.Sprintf("insufficient time has passed since the last fetch; wait %ds or pass --force", e.RemainingSeconds)
}

// ExitCode maps an error to the process exit code. A nil error maps to 0.
// Cancellation always wins over other categorizations.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	if errors.Is(err, ErrCancelled) {
		return ExitCancelled
	}
	var (
		parseErr *QueryParseError
		matchErr *NoMatchError
		soonErr  *FetchTooSoonError
	)
	switch {
	case errors.As(err, &parseErr),
		errors.As(err, &matchErr),
		errors.As(err, &soonErr),
		errors.Is(err, ErrMissingQuery),
		errors.Is(err, ErrNotEnoughInput):
		return ExitUsage
	}
	return ExitRuntime
}
