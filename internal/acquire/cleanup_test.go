package acquire

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/ZebulonRouseFrantzich/buildpull/internal/cmderr"
	"github.com/ZebulonRouseFrantzich/buildpull/internal/testutil"
)

// stubChooser answers Confirm calls from a fixed script, falling back to
// the default once the script runs out.
type stubChooser struct {
	answers []bool
	prompts []string
}

func (s *stubChooser) Choose(string, []string, int) (int, error)   { return 0, nil }
func (s *stubChooser) MultiChoose(string, []string) ([]int, error) { return nil, nil }
func (s *stubChooser) Confirm(prompt string, def bool) (bool, error) {
	s.prompts = append(s.prompts, prompt)
	if len(s.answers) == 0 {
		return def, nil
	}
	a := s.answers[0]
	s.answers = s.answers[1:]
	return a, nil
}

func leftover(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("partial"), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestCleanupCancelled(t *testing.T) {
	paths := testutil.TempPaths(t)

	cancelled := Outcome{
		Target: Target{
			TempPath:  filepath.Join(paths.Cache, "downloads", "a.part"),
			FinalPath: filepath.Join(paths.Cache, "downloads", "a.zip"),
			DestDir:   filepath.Join(paths.Library, "stable", "a"),
		},
		Err: cmderr.ErrCancelled,
	}
	failed := Outcome{
		Target: Target{TempPath: filepath.Join(paths.Cache, "downloads", "b.part")},
		Err:    errors.New("boom"),
	}
	leftover(t, cancelled.Target.TempPath)
	leftover(t, filepath.Join(cancelled.Target.DestDir, "half"))
	leftover(t, failed.Target.TempPath)

	ch := &stubChooser{answers: []bool{true, true}}
	if err := CleanupCancelled(paths, ch, []Outcome{cancelled, failed}); err != nil {
		t.Fatalf("CleanupCancelled() error = %v", err)
	}

	// One prompt per surviving path of the cancelled target: the partial
	// archive and the destination. The final archive never existed, so it
	// is never asked about, and the failed target is left alone entirely.
	if len(ch.prompts) != 2 {
		t.Fatalf("prompts = %v, want one per surviving path", ch.prompts)
	}
	if _, err := os.Stat(cancelled.Target.TempPath); !errors.Is(err, os.ErrNotExist) {
		t.Error("cancelled target's partial archive should be deleted")
	}
	if _, err := os.Stat(cancelled.Target.DestDir); !errors.Is(err, os.ErrNotExist) {
		t.Error("cancelled target's partial extraction should be deleted")
	}
	// The failed (non-cancelled) target keeps its state for a later resume.
	if _, err := os.Stat(failed.Target.TempPath); err != nil {
		t.Error("failed target's state must stay untouched")
	}
}

func TestCleanupCancelledIndependentAnswers(t *testing.T) {
	paths := testutil.TempPaths(t)

	cancelled := Outcome{
		Target: Target{
			TempPath: filepath.Join(paths.Cache, "downloads", "a.part"),
			DestDir:  filepath.Join(paths.Library, "stable", "a"),
		},
		Err: cmderr.ErrCancelled,
	}
	leftover(t, cancelled.Target.TempPath)
	leftover(t, filepath.Join(cancelled.Target.DestDir, "half"))

	// Delete the download, keep the extraction.
	ch := &stubChooser{answers: []bool{true, false}}
	if err := CleanupCancelled(paths, ch, []Outcome{cancelled}); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(cancelled.Target.TempPath); !errors.Is(err, os.ErrNotExist) {
		t.Error("accepted path should be deleted")
	}
	if _, err := os.Stat(cancelled.Target.DestDir); err != nil {
		t.Error("declined path must stay")
	}
}

func TestCleanupCancelledDeclined(t *testing.T) {
	paths := testutil.TempPaths(t)
	cancelled := Outcome{
		Target: Target{TempPath: filepath.Join(paths.Cache, "downloads", "a.part")},
		Err:    cmderr.ErrCancelled,
	}
	leftover(t, cancelled.Target.TempPath)

	ch := &stubChooser{answers: []bool{false}}
	if err := CleanupCancelled(paths, ch, []Outcome{cancelled}); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(cancelled.Target.TempPath); err != nil {
		t.Error("declining the prompt must keep the partial data")
	}
}

func TestCleanupCancelledNothingLeft(t *testing.T) {
	paths := testutil.TempPaths(t)
	cancelled := Outcome{
		Target: Target{
			TempPath: filepath.Join(paths.Cache, "downloads", "a.part"),
			DestDir:  filepath.Join(paths.Library, "stable", "a"),
		},
		Err: cmderr.ErrCancelled,
	}

	ch := &stubChooser{}
	if err := CleanupCancelled(paths, ch, []Outcome{cancelled}); err != nil {
		t.Fatal(err)
	}
	if len(ch.prompts) != 0 {
		t.Errorf("prompts = %v, want none when nothing survives on disk", ch.prompts)
	}
}
