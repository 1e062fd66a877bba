package acquire

import (
	"errors"
	"fmt"
	"os"

	"github.com/ZebulonRouseFrantzich/buildpull/internal/cmderr"
	"github.com/ZebulonRouseFrantzich/buildpull/internal/config"
	"github.com/ZebulonRouseFrantzich/buildpull/internal/resolve"
)

// CleanupCancelled offers to delete the leftovers of cancelled targets.
// Each surviving path gets its own prompt: the downloaded archive
// (partial or completed) and the extraction destination are independent
// decisions, and nothing is asked about a path that does not exist.
// Failed (non-cancelled) targets keep their state untouched so a later
// attempt can resume from the completed archive. Declining, the default,
// keeps that path.
func CleanupCancelled(paths config.Paths, chooser resolve.Chooser, outcomes []Outcome) error {
	for _, o := range outcomes {
		if !errors.Is(o.Err, cmderr.ErrCancelled) {
			continue
		}
		leftovers := []struct {
			what, path string
		}{
			{"partial download", o.Target.TempPath},
			{"downloaded archive", o.Target.FinalPath},
			{"extracted data", o.Target.DestDir},
		}
		for _, l := range leftovers {
			if _, err := os.Stat(l.path); err != nil {
				continue
			}
			yes, err := chooser.Confirm(fmt.Sprintf("delete %s %s?", l.what, l.path), false)
			if err != nil || !yes {
				continue
			}
			if err := Remove(paths, l.path, true); err != nil {
				return err
			}
		}
	}
	return nil
}
