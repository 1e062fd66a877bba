package main

import (
	"context"
	"fmt"

	"github.com/ZebulonRouseFrantzich/buildpull/internal/repo"
)

// runFetch handles the `buildpull fetch` subcommand.
func runFetch(ctx context.Context, args []string) error {
	showHelp := false
	verbose := false
	opts := repo.FetchOptions{}

	for _, arg := range args {
		switch arg {
		case "--help", "-h":
			showHelp = true
		case "--verbose", "-v":
			verbose = true
		case "--parallel", "-p":
			opts.Parallel = true
		case "--ignore-errors":
			opts.IgnoreErrors = true
		case "--force":
			opts.Force = true
		default:
			return fmt.Errorf("unknown flag: %s", arg)
		}
	}

	if showHelp {
		printFetchHelp()
		return nil
	}

	a, err := loadApp(ctx, verbose)
	if err != nil {
		return err
	}
	if len(a.repos) == 0 {
		fmt.Println("no repositories configured")
		return nil
	}

	fetcher := repo.NewFetcher(a.cfg.Paths, a.cfg.Limits, nil, a.log)
	results, err := fetcher.FetchAll(ctx, a.repos, opts)
	for _, r := range results {
		switch {
		case r.Err != nil:
			fmt.Printf("  %-20s failed: %v\n", r.Repo.ID, r.Err)
		case r.Skipped:
			fmt.Printf("  %-20s skipped\n", r.Repo.ID)
		default:
			fmt.Printf("  %-20s %d builds\n", r.Repo.ID, r.Builds)
		}
	}
	return err
}

func printFetchHelp() {
	fmt.Println("Usage: buildpull fetch [options]")
	fmt.Println()
	fmt.Println("Refresh the cached build catalog of every configured repository.")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  --parallel, -p     Refresh all repositories concurrently")
	fmt.Println("  --ignore-errors    Keep refreshing after a repository fails")
	fmt.Println("  --force            Skip the minimum fetch interval check")
	fmt.Println("  --verbose, -v      Verbose logging")
	fmt.Println("  --help, -h         Show this help message")
}
