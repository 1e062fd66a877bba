package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/ZebulonRouseFrantzich/buildpull/internal/build"
	"github.com/ZebulonRouseFrantzich/buildpull/internal/platform"
	"github.com/ZebulonRouseFrantzich/buildpull/internal/repo"
)

// hostCompatible keeps the sets that have at least one variant the host
// could actually run.
func hostCompatible(sets []build.VariantSet, target platform.Target) []build.VariantSet {
	var out []build.VariantSet
	for _, set := range sets {
		for _, v := range set.Variants {
			if target.Matches(v.OS, v.Arch) {
				out = append(out, set)
				break
			}
		}
	}
	return out
}

// runLs handles the `buildpull ls` subcommand.
func runLs(args []string) error {
	showHelp := false
	verbose := false
	asJSON := false
	installedOnly := false
	showVariants := false
	allBuilds := false

	for _, arg := range args {
		switch arg {
		case "--help", "-h":
			showHelp = true
		case "--verbose", "-v":
			verbose = true
		case "--json":
			asJSON = true
		case "--installed-only", "-i":
			installedOnly = true
		case "--variants":
			showVariants = true
		case "--all-builds":
			allBuilds = true
		default:
			return fmt.Errorf("unknown flag: %s", arg)
		}
	}

	if showHelp {
		printLsHelp()
		return nil
	}

	a, err := loadApp(context.Background(), verbose)
	if err != nil {
		return err
	}
	states, err := repo.ReadLibrary(a.cfg.Paths, a.repos)
	if err != nil {
		return err
	}
	if !allBuilds {
		for i := range states {
			states[i].NotInstalled = hostCompatible(states[i].NotInstalled, a.target)
		}
	}

	if asJSON {
		return lsJSON(states, installedOnly)
	}

	for _, s := range states {
		label := s.Repo.Nickname
		if !s.Registered {
			label += " (unregistered)"
		}
		fmt.Printf("%s:\n", label)
		for _, lb := range s.Installed {
			name := lb.Info.String()
			if lb.CustomName != "" {
				name = fmt.Sprintf("%s (%s)", lb.CustomName, name)
			}
			star := " "
			if lb.Favorite {
				star = "*"
			}
			fmt.Printf("  %s %-30s installed  %s\n", star, name, lb.Info.CommitAt.Format("2006-01-02"))
		}
		if !installedOnly {
			for _, set := range s.NotInstalled {
				fmt.Printf("    %-30s available  %s\n", set.Info, set.Info.CommitAt.Format("2006-01-02"))
				if showVariants {
					for _, v := range set.Variants {
						fmt.Printf("      - %s\n", v.Label())
					}
				}
			}
		}
	}
	return nil
}

func lsJSON(states []repo.State, installedOnly bool) error {
	type entry struct {
		Repo       string `json:"repo"`
		Build      string `json:"build"`
		Installed  bool   `json:"installed"`
		Folder     string `json:"folder,omitempty"`
		CustomName string `json:"custom_name,omitempty"`
		Favorite   bool   `json:"favorite,omitempty"`
	}
	var out []entry
	for _, s := range states {
		for _, lb := range s.Installed {
			out = append(out, entry{
				Repo:       s.Repo.ID,
				Build:      lb.Info.String(),
				Installed:  true,
				Folder:     lb.Folder,
				CustomName: lb.CustomName,
				Favorite:   lb.Favorite,
			})
		}
		if installedOnly {
			continue
		}
		for _, set := range s.NotInstalled {
			out = append(out, entry{Repo: s.Repo.ID, Build: set.Info.String()})
		}
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func printLsHelp() {
	fmt.Println("Usage: buildpull ls [options]")
	fmt.Println()
	fmt.Println("List installed builds and, from the cached catalogs, available ones.")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  --installed-only, -i  Only list installed builds")
	fmt.Println("  --variants            Show downloadable variants of available builds")
	fmt.Println("  --all-builds          Include builds with no host-compatible variant")
	fmt.Println("  --json                Machine-readable output")
	fmt.Println("  --verbose, -v         Verbose logging")
	fmt.Println("  --help, -h            Show this help message")
}
