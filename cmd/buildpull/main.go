package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ZebulonRouseFrantzich/buildpull/internal/cmderr"
)

// Version will be set at build time via -ldflags
var Version = "v0.0.1-alpha"

func main() {
	os.Exit(run())
}

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if len(os.Args) < 2 {
		printHelp()
		return cmderr.ExitUsage
	}

	var err error
	switch os.Args[1] {
	case "--version":
		fmt.Printf("buildpull %s\n", Version)
		return cmderr.ExitOK
	case "--help", "-h", "help":
		printHelp()
		return cmderr.ExitOK
	case "pull":
		err = runPull(ctx, os.Args[2:])
	case "fetch":
		err = runFetch(ctx, os.Args[2:])
	case "ls":
		err = runLs(os.Args[2:])
	case "rm":
		err = runRm(os.Args[2:])
	case "run":
		return runRun(ctx, os.Args[2:])
	default:
		fmt.Fprintf(os.Stderr, "Error: unknown command: %s\n", os.Args[1])
		printHelp()
		return cmderr.ExitUsage
	}

	if err != nil {
		if errors.Is(err, cmderr.ErrCancelled) {
			fmt.Fprintln(os.Stderr, "cancelled")
		} else {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
	}
	return cmderr.ExitCode(err)
}

func printHelp() {
	fmt.Println("buildpull - acquire and manage application builds from remote repositories")
	fmt.Println()
	fmt.Println("Usage: buildpull <command> [options]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  pull <query>...    Download and install builds matching the queries")
	fmt.Println("  fetch              Refresh the cached build catalogs")
	fmt.Println("  ls                 List installed and available builds")
	fmt.Println("  rm [query]...      Remove installed builds")
	fmt.Println("  run <query>        Launch an installed build")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  --version          Show version")
	fmt.Println("  --help, -h         Show this help message")
	fmt.Println()
	fmt.Println("Query syntax: [repository/]<major>.<minor>.<patch>[-branch][#hash][@commit]")
	fmt.Println("  Each version part is a number or a placement: ^ (newest), * (any), - (oldest)")
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  buildpull pull 4.2.^                # newest 4.2 patch")
	fmt.Println("  buildpull pull daily/^.^.^          # newest build in the daily repository")
	fmt.Println("  buildpull run 4.2.*                 # launch an installed 4.2 build")
}
