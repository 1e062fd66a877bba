package launch

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/ZebulonRouseFrantzich/buildpull/internal/build"
	"github.com/ZebulonRouseFrantzich/buildpull/internal/config"
	"github.com/ZebulonRouseFrantzich/buildpull/internal/testutil"
)

func writeScript(t *testing.T, path, body string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0o755); err != nil {
		t.Fatal(err)
	}
}

func testBuild(t *testing.T) *build.LocalBuild {
	t.Helper()
	return build.NewLocalBuild(t.TempDir(), testutil.BuildInfo(t, "4.2.1", "main", "abc", "2024-06-01T00:00:00Z"))
}

func TestLaunch(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell script executables")
	}

	lb := testBuild(t)
	writeScript(t, filepath.Join(lb.Folder, "studio"), "exit 0")

	code, err := Launch(context.Background(), lb, Options{
		App: config.App{Executable: "studio"},
		Env: os.Environ(),
	})
	if err != nil {
		t.Fatalf("Launch() error = %v", err)
	}
	if code != 0 {
		t.Errorf("exit code = %d", code)
	}
}

func TestLaunchPropagatesExitCode(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell script executables")
	}

	lb := testBuild(t)
	writeScript(t, filepath.Join(lb.Folder, "studio"), "exit 42")

	code, err := Launch(context.Background(), lb, Options{
		App: config.App{Executable: "studio"},
		Env: os.Environ(),
	})
	if err != nil {
		t.Fatalf("Launch() error = %v", err)
	}
	if code != 42 {
		t.Errorf("exit code = %d, want 42", code)
	}
}

func TestLaunchCustomExecutable(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell script executables")
	}

	lb := testBuild(t)
	lb.CustomExe = "tools/custom.sh"
	writeScript(t, filepath.Join(lb.Folder, "tools", "custom.sh"), "exit 7")

	code, err := Launch(context.Background(), lb, Options{
		App: config.App{Executable: "studio"},
		Env: os.Environ(),
	})
	if err != nil {
		t.Fatal(err)
	}
	if code != 7 {
		t.Errorf("exit code = %d, want 7", code)
	}
}

func TestLaunchCustomEnv(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell script executables")
	}

	lb := testBuild(t)
	lb.CustomEnv = map[string]string{"APP_FLAG": "on"}
	// Exit 0 only when the override is visible.
	writeScript(t, filepath.Join(lb.Folder, "studio"), `[ "$APP_FLAG" = "on" ] || exit 9`)

	code, err := Launch(context.Background(), lb, Options{
		App: config.App{Executable: "studio"},
		Env: os.Environ(),
	})
	if err != nil {
		t.Fatal(err)
	}
	if code != 0 {
		t.Errorf("exit code = %d, custom env not applied", code)
	}
}

func TestLaunchMissingExecutable(t *testing.T) {
	lb := testBuild(t)
	if _, err := Launch(context.Background(), lb, Options{App: config.App{Executable: "studio"}}); err == nil {
		t.Error("expected an error when no executable exists")
	}
}
