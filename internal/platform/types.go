// Package platform detects the host platform and matches it against the
// platform descriptors carried by remote build variants.
//
// Repositories publish variants under a variety of OS/architecture spellings
// ("macos" vs "darwin", "x86_64" vs "amd64"); this package normalizes both
// sides before comparing. Detection failure for the host architecture is
// fatal to the whole command, because no variant can ever be selected for an
// unknown target.
package platform

import "context"

// Target is the platform a variant must be compatible with: the running
// host's OS and architecture, normalized to Go spellings.
type Target struct {
	OS      string // "linux", "darwin", "windows"
	Arch    string // "amd64", "arm64"
	ArchRaw string // kernel spelling, e.g. "x86_64", "aarch64"
}

// Matches reports whether a variant's platform descriptor is compatible
// with the target. Both sides are normalized first.
func (t Target) Matches(os, arch string) bool {
	return NormalizeOS(os) == t.OS && NormalizeArch(arch) == t.Arch
}

// Detector is the interface for host platform detection. Tests inject a
// fixed-value implementation.
type Detector interface {
	Detect(ctx context.Context) (*Target, error)
}

// Static returns a Detector that always reports the given target.
func Static(t Target) Detector { return staticDetector{t} }

type staticDetector struct{ t Target }

func (d staticDetector) Detect(context.Context) (*Target, error) {
	t := d.t
	return &t, nil
}
