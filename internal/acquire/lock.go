package acquire

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ZebulonRouseFrantzich/buildpull/internal/config"
)

// staleLockThreshold is the age past which a leftover lock from a crashed
// process is reclaimed.
const staleLockThreshold = 30 * time.Minute

const lockFilename = ".buildpull.lock"

// ErrLibraryLocked is returned when another process is mutating the
// library.
var ErrLibraryLocked = errors.New("the build library is locked: another buildpull operation may be in progress")

// LibraryLock is an exclusive lock over the library, taken for the
// duration of any operation that installs or removes builds.
type LibraryLock struct {
	path string
}

// LockLibrary acquires the library lock. A lock older than the stale
// threshold is assumed abandoned and reclaimed once.
func LockLibrary(paths config.Paths) (*LibraryLock, error) {
	if err := os.MkdirAll(paths.Library, 0o755); err != nil {
		return nil, fmt.Errorf("create library directory: %w", err)
	}
	path := filepath.Join(paths.Library, lockFilename)

	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o600)
	if err != nil {
		if !os.IsExist(err) {
			return nil, fmt.Errorf("create lock file: %w", err)
		}
		if !lockIsStale(path) {
			return nil, ErrLibraryLocked
		}
		os.Remove(path)
		f, err = os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o600)
		if err != nil {
			return nil, ErrLibraryLocked
		}
	}

	fmt.Fprintf(f, "pid=%d\nsince=%s\n", os.Getpid(), time.Now().UTC().Format(time.RFC3339))
	if err := f.Close(); err != nil {
		os.Remove(path)
		return nil, fmt.Errorf("write lock file: %w", err)
	}
	return &LibraryLock{path: path}, nil
}

// Release removes the lock file. Safe to call more than once.
func (l *LibraryLock) Release() {
	if l.path != "" {
		os.Remove(l.path)
		l.path = ""
	}
}

func lockIsStale(path string) bool {
	data, err := os.ReadFile(path)
	if err != nil {
		return false
	}
	for _, line := range strings.Split(string(data), "\n") {
		if v, ok := strings.CutPrefix(line, "since="); ok {
			since, err := time.Parse(time.RFC3339, strings.TrimSpace(v))
			if err != nil {
				return true // unreadable metadata, treat as abandoned
			}
			return time.Since(since) > staleLockThreshold
		}
	}
	return true
}
