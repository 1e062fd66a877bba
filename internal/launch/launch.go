// Package launch starts an installed build's executable and propagates
// its exit status.
package launch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"

	"github.com/ZebulonRouseFrantzich/buildpull/internal/build"
	"github.com/ZebulonRouseFrantzich/buildpull/internal/config"
)

// Options carry the launch parameters beyond the build itself.
type Options struct {
	App  config.App
	Args []string // passed through to the executable
	Env  []string // base environment, usually os.Environ()

	Stdin  *os.File
	Stdout *os.File
	Stderr *os.File
}

// Launch runs the build's executable and returns its exit code. The
// executable is the build's recorded override when set, otherwise the
// configured application name resolved inside the install folder. The
// build's recorded environment overrides are applied on top of the base
// environment.
func Launch(ctx context.Context, lb *build.LocalBuild, opts Options) (int, error) {
	exe, err := findExecutable(lb, opts.App)
	if err != nil {
		return 0, err
	}

	cmd := exec.CommandContext(ctx, exe, opts.Args...)
	cmd.Dir = lb.Folder
	cmd.Env = append(append([]string{}, opts.Env...), envOverrides(lb)...)
	cmd.Stdin = opts.Stdin
	cmd.Stdout = opts.Stdout
	cmd.Stderr = opts.Stderr

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return exitErr.ExitCode(), nil
		}
		return 0, fmt.Errorf("launch %s: %w", exe, err)
	}
	return 0, nil
}

// findExecutable locates the binary inside the install folder. A recorded
// custom executable is taken verbatim when absolute, or resolved against
// the folder when relative.
func findExecutable(lb *build.LocalBuild, app config.App) (string, error) {
	if lb.CustomExe != "" {
		exe := lb.CustomExe
		if !filepath.IsAbs(exe) {
			exe = filepath.Join(lb.Folder, exe)
		}
		if _, err := os.Stat(exe); err != nil {
			return "", fmt.Errorf("custom executable %s: %w", exe, err)
		}
		return exe, nil
	}

	name := app.Executable
	if runtime.GOOS == "windows" {
		name += ".exe"
	}
	candidates := []string{
		filepath.Join(lb.Folder, name),
	}
	if runtime.GOOS == "darwin" {
		candidates = append(candidates,
			filepath.Join(lb.Folder, app.Executable+".app", "Contents", "MacOS", app.Executable))
	}
	for _, c := range candidates {
		if st, err := os.Stat(c); err == nil && !st.IsDir() {
			return c, nil
		}
	}
	return "", fmt.Errorf("no %s executable found in %s", app.Executable, lb.Folder)
}

func envOverrides(lb *build.LocalBuild) []string {
	out := make([]string, 0, len(lb.CustomEnv))
	for k, v := range lb.CustomEnv {
		out = append(out, k+"="+v)
	}
	return out
}
