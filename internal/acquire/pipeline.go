package acquire

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/ZebulonRouseFrantzich/buildpull/internal/build"
	"github.com/ZebulonRouseFrantzich/buildpull/internal/cmderr"
	"github.com/ZebulonRouseFrantzich/buildpull/internal/config"
	"github.com/ZebulonRouseFrantzich/buildpull/internal/extract"
	"github.com/ZebulonRouseFrantzich/buildpull/internal/repo"
)

// Target is one planned acquisition: where the archive comes from, where
// it lands, and where the unpacked build ends up.
type Target struct {
	Info    build.Info
	Repo    repo.Repo
	Variant build.Variant

	TempPath  string // partial archive while downloading
	FinalPath string // completed archive, kept until extraction succeeds
	DestDir   string // unpacked build directory in the library
}

// Name labels the target in progress output.
func (t Target) Name() string {
	return fmt.Sprintf("%s/%s", t.Repo.Nickname, t.Info)
}

// Plan lays out the paths for acquiring one variant. Archives download
// into the cache; archives whose URL yields no usable filename get a
// generated one carrying the variant's declared extension.
func Plan(paths config.Paths, r repo.Repo, info build.Info, v build.Variant) Target {
	filename := v.Remote.Filename()
	if filename == "" {
		ext := strings.TrimPrefix(v.Remote.FileExtension, ".")
		if ext == "" {
			ext = "tar.xz"
		}
		filename = uuid.NewString() + "." + ext
	}
	dirname := archiveStem(filename)
	return Target{
		Info:      info,
		Repo:      r,
		Variant:   v,
		TempPath:  filepath.Join(paths.Cache, "downloads", filename+".part"),
		FinalPath: filepath.Join(paths.Cache, "downloads", filename),
		DestDir:   filepath.Join(paths.RepoDir(r.ID), dirname),
	}
}

// archiveStem strips the archive extension off a filename to name the
// unpacked directory after it.
func archiveStem(filename string) string {
	lower := strings.ToLower(filename)
	for _, suffix := range []string{".tar.xz", ".tar.gz", ".xz", ".zip", ".dmg"} {
		if strings.HasSuffix(lower, suffix) {
			return filename[:len(filename)-len(suffix)]
		}
	}
	return filename
}

// Outcome reports how one target fared. A cancelled target carries
// cmderr.ErrCancelled; other failures carry their own error. Failures
// never abort sibling targets.
type Outcome struct {
	Target Target
	Err    error
}

// Pipeline acquires planned targets.
type Pipeline struct {
	Paths    config.Paths
	Limits   config.Limits
	Client   *http.Client
	Reporter Reporter
	Log      config.Logger
}

// NewPipeline wires a pipeline with defaults for any nil collaborator.
func NewPipeline(paths config.Paths, limits config.Limits, client *http.Client, rep Reporter, log config.Logger) *Pipeline {
	if client == nil {
		client = http.DefaultClient
	}
	if rep == nil {
		rep = NopReporter()
	}
	if log == nil {
		log = config.NopLogger()
	}
	return &Pipeline{Paths: paths, Limits: limits, Client: client, Reporter: rep, Log: log}
}

// PullAll acquires every target, fanning out up to the configured pull
// limit (0 means unbounded). Outcomes come back in target order.
func (p *Pipeline) PullAll(ctx context.Context, targets []Target) []Outcome {
	outcomes := make([]Outcome, len(targets))
	for i := range targets {
		outcomes[i].Target = targets[i]
	}

	var sem chan struct{}
	if n := p.Limits.MaxParallelPulls; n > 0 {
		sem = make(chan struct{}, n)
	}
	var wg sync.WaitGroup
	for i := range targets {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if sem != nil {
				sem <- struct{}{}
				defer func() { <-sem }()
			}
			outcomes[i].Err = p.pullOne(ctx, targets[i])
			p.Reporter.Done(targets[i].Name(), outcomes[i].Err)
		}(i)
	}
	wg.Wait()
	return outcomes
}

// pullOne runs one target through download, extraction, and
// materialization. The archive is kept until the build record is written,
// then trashed.
func (p *Pipeline) pullOne(ctx context.Context, t Target) error {
	name := t.Name()

	p.Reporter.Phase(name, "downloading")
	dl := NewDownload(t.Variant.Remote.URL, t.TempPath, t.FinalPath, p.Client)
	if err := dl.Run(ctx, func(done, total int64) { p.Reporter.Progress(name, done, total) }); err != nil {
		return err
	}

	p.Reporter.Phase(name, "extracting")
	if err := os.MkdirAll(t.DestDir, 0o755); err != nil {
		return cmderr.Pathf("create", t.DestDir, err)
	}
	if err := extract.Extract(ctx, t.FinalPath, t.DestDir, func(done, total int64) {
		p.Reporter.Progress(name, done, total)
	}); err != nil {
		return err
	}

	lb := build.NewLocalBuild(t.DestDir, t.Info)
	if err := lb.Write(); err != nil {
		return err
	}

	if err := Remove(p.Paths, t.FinalPath, false); err != nil {
		// The build is installed; a lingering archive is worth a warning,
		// not a failed pull.
		p.Log.Warn("could not remove archive", "path", t.FinalPath, "err", err)
	}
	p.Log.Info("build installed", "build", name, "dir", t.DestDir)
	return nil
}
