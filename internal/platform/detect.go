package platform

import (
	"context"
	"fmt"
	"runtime"

	"github.com/shirou/gopsutil/v4/host"
)

// RealDetector implements Detector using actual host inspection.
type RealDetector struct{}

// NewDetector creates a detector for the running host.
func NewDetector() Detector {
	return &RealDetector{}
}

// Detect resolves the host target from runtime.GOOS and runtime.GOARCH,
// with the raw kernel architecture filled in via gopsutil where available.
//
// An architecture outside the supported set is a hard failure: the variant
// selector would never find a compatible artifact, so the whole command
// aborts rather than silently matching nothing.
func (d *RealDetector) Detect(ctx context.Context) (*Target, error) {
	arch := NormalizeArch(runtime.GOARCH)
	switch arch {
	case "amd64", "arm64":
	default:
		return nil, fmt.Errorf("unsupported host architecture %q", runtime.GOARCH)
	}

	t := &Target{
		OS:      runtime.GOOS,
		Arch:    arch,
		ArchRaw: runtime.GOARCH,
	}

	// Best-effort kernel arch; failure here is not fatal, GOARCH already
	// identifies the target.
	if raw, err := host.KernelArch(); err == nil && raw != "" {
		t.ArchRaw = raw
	} else if ctx.Err() != nil {
		return nil, fmt.Errorf("platform detection cancelled: %w", ctx.Err())
	}

	return t, nil
}
