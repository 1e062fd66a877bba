package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"

	"github.com/ZebulonRouseFrantzich/buildpull/internal/build"
	"github.com/ZebulonRouseFrantzich/buildpull/internal/cmderr"
	"github.com/ZebulonRouseFrantzich/buildpull/internal/launch"
	"github.com/ZebulonRouseFrantzich/buildpull/internal/repo"
	"github.com/ZebulonRouseFrantzich/buildpull/internal/search"
	"github.com/ZebulonRouseFrantzich/buildpull/internal/term"
)

// runRun handles the `buildpull run` subcommand. It returns the launched
// build's exit code directly: the process exits with whatever the
// application exited with.
func runRun(ctx context.Context, args []string) int {
	code, err := doRun(ctx, args)
	if err != nil {
		if errors.Is(err, cmderr.ErrCancelled) {
			fmt.Fprintln(os.Stderr, "cancelled")
		} else {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		return cmderr.ExitCode(err)
	}
	return code
}

func doRun(ctx context.Context, args []string) (int, error) {
	showHelp := false
	verbose := false
	strict := false
	var rest []string
	var rawQuery string

	for i := 0; i < len(args); i++ {
		switch {
		case args[i] == "--help" || args[i] == "-h":
			showHelp = true
		case args[i] == "--verbose" || args[i] == "-v":
			verbose = true
		case args[i] == "--strict":
			strict = true
		case args[i] == "--":
			rest = args[i+1:]
			i = len(args)
		case rawQuery == "":
			rawQuery = args[i]
		default:
			rest = append(rest, args[i])
		}
	}

	if showHelp {
		printRunHelp()
		return 0, nil
	}
	if rawQuery == "" {
		return 0, cmderr.ErrMissingQuery
	}
	q, err := search.Parse(rawQuery)
	if err != nil {
		// Not a query. If it names a file on disk, treat it as a project
		// file: sniff a version from its header and hand the path to the
		// launched application.
		if _, statErr := os.Stat(rawQuery); statErr != nil {
			return 0, err
		}
		q = queryForFile(rawQuery)
		rest = append([]string{rawQuery}, rest...)
	}

	a, err := loadApp(ctx, verbose)
	if err != nil {
		return 0, err
	}
	states, err := repo.ReadLibrary(a.cfg.Paths, a.repos)
	if err != nil {
		return 0, err
	}
	installed := installedIndex(states)
	matches := search.NewMatcher(installed.cands).FindAll(q)
	if len(matches) == 0 {
		return 0, &cmderr.NoMatchError{Queries: []string{q.String()}}
	}

	var lb *build.LocalBuild
	if len(matches) == 1 {
		lb = installed.lookup(matches[0])
	} else {
		if strict {
			return 0, fmt.Errorf("query %q matches %d installed builds; refine it or drop --strict", q, len(matches))
		}
		labels := make([]string, len(matches))
		for i, m := range matches {
			labels[i] = fmt.Sprintf("%s/%s", m.Repo, m.Info)
		}
		chooser := term.NewChooser(os.Stdin, os.Stderr)
		idx, err := chooser.Choose(fmt.Sprintf("multiple matches for %q", q), labels, len(labels)-1)
		if err != nil {
			return 0, err
		}
		lb = installed.lookup(matches[idx])
	}

	return launch.Launch(ctx, lb, launch.Options{
		App:    a.cfg.App,
		Args:   rest,
		Env:    os.Environ(),
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	})
}

var headerVersion = regexp.MustCompile(`(\d+)\.(\d+)`)

// queryForFile derives a version query from a project file's header.
// Files record the major.minor of the build that wrote them; the patch
// is left open. An unreadable or versionless header matches anything.
func queryForFile(path string) search.Query {
	anything, _ := search.Parse("*.*.*")
	f, err := os.Open(path)
	if err != nil {
		return anything
	}
	defer f.Close()
	header := make([]byte, 128)
	n, _ := io.ReadFull(f, header)
	m := headerVersion.FindSubmatch(header[:n])
	if m == nil {
		return anything
	}
	q, err := search.Parse(fmt.Sprintf("%s.%s.*", m[1], m[2]))
	if err != nil {
		return anything
	}
	return q
}

func printRunHelp() {
	fmt.Println("Usage: buildpull run [options] <query|file> [-- <args>...]")
	fmt.Println()
	fmt.Println("Launch an installed build matching the query. A project file may be")
	fmt.Println("given instead; its header picks the build and the file is passed")
	fmt.Println("along. Arguments after -- go to the application; its exit code")
	fmt.Println("becomes ours.")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  --strict           Fail on ambiguous queries instead of prompting")
	fmt.Println("  --verbose, -v      Verbose logging")
	fmt.Println("  --help, -h         Show this help message")
}
