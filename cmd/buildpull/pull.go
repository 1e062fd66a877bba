package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/ZebulonRouseFrantzich/buildpull/internal/acquire"
	"github.com/ZebulonRouseFrantzich/buildpull/internal/catalog"
	"github.com/ZebulonRouseFrantzich/buildpull/internal/cmderr"
	"github.com/ZebulonRouseFrantzich/buildpull/internal/repo"
	"github.com/ZebulonRouseFrantzich/buildpull/internal/resolve"
	"github.com/ZebulonRouseFrantzich/buildpull/internal/search"
	"github.com/ZebulonRouseFrantzich/buildpull/internal/term"
)

// runPull handles the `buildpull pull` subcommand.
func runPull(ctx context.Context, args []string) error {
	showHelp := false
	verbose := false
	allPlatforms := false
	var queryFile string
	var rawQueries []string

	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--help", "-h":
			showHelp = true
		case "--verbose", "-v":
			verbose = true
		case "--all-platforms":
			allPlatforms = true
		case "--file", "-f":
			if i+1 >= len(args) {
				return cmderr.ErrNotEnoughInput
			}
			i++
			queryFile = args[i]
		default:
			rawQueries = append(rawQueries, args[i])
		}
	}

	if showHelp {
		printPullHelp()
		return nil
	}

	if queryFile != "" {
		fromFile, err := readQueryFile(queryFile)
		if err != nil {
			return err
		}
		rawQueries = append(rawQueries, fromFile...)
	}
	if len(rawQueries) == 0 {
		return cmderr.ErrMissingQuery
	}

	// Queries are validated as a batch before anything else happens.
	queries := make([]search.Query, len(rawQueries))
	for i, raw := range rawQueries {
		q, err := search.Parse(raw)
		if err != nil {
			return err
		}
		queries[i] = q
	}

	a, err := loadApp(ctx, verbose)
	if err != nil {
		return err
	}

	lock, err := acquire.LockLibrary(a.cfg.Paths)
	if err != nil {
		return err
	}
	defer lock.Release()

	states, err := repo.ReadLibrary(a.cfg.Paths, a.repos)
	if err != nil {
		return err
	}
	var sources []catalog.Source
	for _, s := range states {
		if !s.Registered {
			continue
		}
		// Builds already installed are not offered again.
		sources = append(sources, catalog.Source{Repo: s.Repo, Sets: s.NotInstalled})
	}
	merged := catalog.Merge(sources)

	resolver := &resolve.Resolver{
		Catalog:      merged,
		Chooser:      term.NewChooser(os.Stdin, os.Stderr),
		Target:       a.target,
		AllPlatforms: allPlatforms,
	}

	// The whole interactive phase runs before any download starts.
	// Declined menus drop their query; the rest of the batch proceeds.
	entries, err := resolver.ResolveAll(queries)
	if err != nil {
		return err
	}
	targets := make([]acquire.Target, 0, len(entries))
	for _, e := range entries {
		variant, err := resolver.ResolveVariant(e)
		if errors.Is(err, resolve.ErrNoChoice) {
			continue
		}
		if err != nil {
			return err
		}
		targets = append(targets, acquire.Plan(a.cfg.Paths, e.Origin(), e.Info, variant))
	}

	pipeline := acquire.NewPipeline(a.cfg.Paths, a.cfg.Limits, nil, term.NewReporter(os.Stderr), a.log)
	outcomes := pipeline.PullAll(ctx, targets)

	if err := acquire.CleanupCancelled(a.cfg.Paths, resolver.Chooser, outcomes); err != nil {
		a.log.Warn("cleanup failed", "err", err)
	}

	installed, first := pullResult(outcomes)
	if installed > 0 {
		fmt.Printf("installed %d build(s)\n", installed)
	}
	return first
}

// pullResult aggregates pipeline outcomes into the installed count and
// the error to exit with. Cancellation dominates: if any target was
// interrupted the command exits as interrupted, regardless of what other
// targets did. Otherwise the first failure in target order wins.
func pullResult(outcomes []acquire.Outcome) (int, error) {
	installed := 0
	cancelled := false
	var first error
	for _, o := range outcomes {
		switch {
		case o.Err == nil:
			installed++
		case errors.Is(o.Err, cmderr.ErrCancelled):
			cancelled = true
		default:
			if first == nil {
				first = fmt.Errorf("pull %s: %w", o.Target.Name(), o.Err)
			}
		}
	}
	if cancelled {
		return installed, cmderr.ErrCancelled
	}
	return installed, first
}

// readQueryFile reads one query per line; blank lines and lines starting
// with # are skipped.
func readQueryFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, cmderr.Pathf("read", path, err)
	}
	defer f.Close()

	var out []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		out = append(out, line)
	}
	if err := sc.Err(); err != nil {
		return nil, cmderr.Pathf("read", path, err)
	}
	return out, nil
}

func printPullHelp() {
	fmt.Println("Usage: buildpull pull [options] <query>...")
	fmt.Println()
	fmt.Println("Download and install every build matching the queries.")
	fmt.Println("All prompts happen up front; downloads then run concurrently.")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  --file, -f <path>  Read additional queries from a file, one per line")
	fmt.Println("  --all-platforms    Offer every variant, not just host-compatible ones")
	fmt.Println("  --verbose, -v      Verbose logging")
	fmt.Println("  --help, -h         Show this help message")
}
