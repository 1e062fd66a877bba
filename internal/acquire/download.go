// Package acquire drives the build acquisition pipeline: downloading
// artifacts, unpacking them into the library, recording build metadata,
// and cleaning up after cancellation.
package acquire

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/ZebulonRouseFrantzich/buildpull/internal/cmderr"
)

// State is the phase a download is in. Transitions only move forward:
// Ready -> Downloading -> Finished, or any state -> Errored.
type State int

const (
	StateReady State = iota
	StateDownloading
	StateFinished
	StateErrored
)

func (s State) String() string {
	switch s {
	case StateReady:
		return "ready"
	case StateDownloading:
		return "downloading"
	case StateFinished:
		return "finished"
	case StateErrored:
		return "errored"
	default:
		return "unknown"
	}
}

// downloadChunkSize is how much body is copied between cancellation
// checks.
const downloadChunkSize = 256 << 10

// Download fetches one artifact to a temporary path and renames it into
// place once complete. A Download is single-use.
type Download struct {
	URL       string
	TempPath  string
	FinalPath string
	Client    *http.Client

	state State
	read  int64
	total int64
}

// NewDownload prepares a download in the Ready state.
func NewDownload(url, tempPath, finalPath string, client *http.Client) *Download {
	if client == nil {
		client = http.DefaultClient
	}
	return &Download{URL: url, TempPath: tempPath, FinalPath: finalPath, Client: client, state: StateReady}
}

// State reports the current phase.
func (d *Download) State() State { return d.state }

// Run drives the download to completion. If the final path already exists
// the download finishes immediately without issuing a request. On
// cancellation the partial temporary file is left in place for the
// cleanup prompt; on other errors it is left too, since a later attempt
// overwrites it.
func (d *Download) Run(ctx context.Context, progress func(done, total int64)) error {
	if progress == nil {
		progress = func(int64, int64) {}
	}
	if d.state != StateReady {
		return errors.New("download already ran")
	}
	if _, err := os.Stat(d.FinalPath); err == nil {
		d.state = StateFinished
		return nil
	}

	d.state = StateDownloading
	if err := d.stream(ctx, progress); err != nil {
		d.state = StateErrored
		return err
	}
	if err := os.Rename(d.TempPath, d.FinalPath); err != nil {
		d.state = StateErrored
		return cmderr.Pathf("rename", d.FinalPath, err)
	}
	d.state = StateFinished
	return nil
}

func (d *Download) stream(ctx context.Context, progress func(done, total int64)) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, d.URL, nil)
	if err != nil {
		return err
	}
	resp, err := d.Client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return cmderr.ErrCancelled
		}
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &cmderr.StatusError{Code: resp.StatusCode, Reason: resp.Status}
	}
	d.total = resp.ContentLength
	if d.total < 0 {
		d.total = 0
	}

	if err := os.MkdirAll(filepath.Dir(d.TempPath), 0o755); err != nil {
		return cmderr.Pathf("create", filepath.Dir(d.TempPath), err)
	}
	out, err := os.Create(d.TempPath)
	if err != nil {
		return cmderr.Pathf("create", d.TempPath, err)
	}

	buf := make([]byte, downloadChunkSize)
	for {
		n, rerr := io.ReadFull(resp.Body, buf)
		if n > 0 {
			if _, werr := out.Write(buf[:n]); werr != nil {
				out.Close()
				return cmderr.Pathf("write", d.TempPath, werr)
			}
			d.read += int64(n)
			progress(d.read, d.total)
		}
		// Cancellation is observed between chunks so the bytes already
		// received always land in the temporary file.
		if err := ctx.Err(); err != nil {
			out.Close()
			return cmderr.ErrCancelled
		}
		if errors.Is(rerr, io.EOF) || errors.Is(rerr, io.ErrUnexpectedEOF) {
			return cmderr.Pathf("write", d.TempPath, out.Close())
		}
		if rerr != nil {
			out.Close()
			if ctx.Err() != nil {
				return cmderr.ErrCancelled
			}
			return rerr
		}
	}
}
