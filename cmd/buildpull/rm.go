package main

import (
	"context"
	"fmt"
	"os"

	"github.com/ZebulonRouseFrantzich/buildpull/internal/acquire"
	"github.com/ZebulonRouseFrantzich/buildpull/internal/build"
	"github.com/ZebulonRouseFrantzich/buildpull/internal/cmderr"
	"github.com/ZebulonRouseFrantzich/buildpull/internal/repo"
	"github.com/ZebulonRouseFrantzich/buildpull/internal/search"
	"github.com/ZebulonRouseFrantzich/buildpull/internal/term"
)

// runRm handles the `buildpull rm` subcommand.
func runRm(args []string) error {
	showHelp := false
	verbose := false
	noTrash := false
	yes := false
	var rawQueries []string

	for _, arg := range args {
		switch arg {
		case "--help", "-h":
			showHelp = true
		case "--verbose", "-v":
			verbose = true
		case "--no-trash":
			noTrash = true
		case "--yes", "-y":
			yes = true
		default:
			rawQueries = append(rawQueries, arg)
		}
	}

	if showHelp {
		printRmHelp()
		return nil
	}

	a, err := loadApp(context.Background(), verbose)
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
	installed := installedIndex(states)
	if len(installed.cands) == 0 {
		fmt.Println("no builds installed")
		return nil
	}

	chooser := term.NewChooser(os.Stdin, os.Stderr)

	var victims []*build.LocalBuild
	if len(rawQueries) == 0 {
		// Nothing given: offer everything installed as a multi-select.
		labels := make([]string, len(installed.cands))
		for i, c := range installed.cands {
			labels[i] = fmt.Sprintf("%s/%s", c.Repo, c.Info)
		}
		picked, err := chooser.MultiChoose("select builds to remove", labels)
		if err != nil {
			return err
		}
		for _, idx := range picked {
			victims = append(victims, installed.at(idx))
		}
	} else {
		matcher := search.NewMatcher(installed.cands)
		var empty []string
		seen := make(map[string]bool)
		for _, raw := range rawQueries {
			q, err := search.Parse(raw)
			if err != nil {
				return err
			}
			matches := matcher.FindAll(q)
			if len(matches) == 0 {
				empty = append(empty, q.String())
				continue
			}
			for _, m := range matches {
				lb := installed.lookup(m)
				if !seen[lb.Folder] {
					seen[lb.Folder] = true
					victims = append(victims, lb)
				}
			}
		}
		if len(empty) > 0 {
			return &cmderr.NoMatchError{Queries: empty}
		}
	}

	if len(victims) == 0 {
		fmt.Println("nothing selected")
		return nil
	}

	if !yes {
		for _, lb := range victims {
			fmt.Fprintf(os.Stderr, "  %s\n", lb.Folder)
		}
		ok, err := chooser.Confirm(fmt.Sprintf("remove %d build(s)?", len(victims)), false)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
	}

	for _, lb := range victims {
		if err := acquire.Remove(a.cfg.Paths, lb.Folder, noTrash); err != nil {
			return err
		}
		fmt.Printf("removed %s\n", lb.Info)
	}
	return nil
}

// installedSet indexes installed builds for query matching. Candidates and
// records stay aligned by position; lookup resolves a matched candidate
// back to its record by repository nickname and identity.
type installedSet struct {
	cands  []search.Candidate
	builds []*build.LocalBuild
}

func installedIndex(states []repo.State) *installedSet {
	s := &installedSet{}
	for _, st := range states {
		for _, lb := range st.Installed {
			s.cands = append(s.cands, search.Candidate{Info: lb.Info, Repo: st.Repo.Nickname})
			s.builds = append(s.builds, lb)
		}
	}
	return s
}

func (s *installedSet) at(i int) *build.LocalBuild { return s.builds[i] }

func (s *installedSet) lookup(c search.Candidate) *build.LocalBuild {
	for i := range s.cands {
		if s.cands[i].Repo == c.Repo && s.cands[i].Info.Key() == c.Info.Key() {
			return s.builds[i]
		}
	}
	return nil
}

func printRmHelp() {
	fmt.Println("Usage: buildpull rm [options] [query]...")
	fmt.Println()
	fmt.Println("Remove installed builds. Without queries an interactive")
	fmt.Println("multi-select over everything installed is shown.")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  --no-trash         Delete immediately instead of moving to trash")
	fmt.Println("  --yes, -y          Skip the confirmation prompt")
	fmt.Println("  --verbose, -v      Verbose logging")
	fmt.Println("  --help, -h         Show this help message")
}
