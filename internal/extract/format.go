// Package extract unpacks downloaded build archives into the library,
// stripping the archive's single top-level directory so the payload lands
// directly in the destination.
package extract

import (
	"context"
	"strings"

	"github.com/ZebulonRouseFrantzich/buildpull/internal/cmderr"
)

// Format is one of the archive formats extraction supports. The set is
// closed: anything else fails before any filesystem write.
type Format int

const (
	FormatUnsupported Format = iota
	FormatTarXz
	FormatXz
	FormatZip
	FormatDmg
)

func (f Format) String() string {
	switch f {
	case FormatTarXz:
		return "tar.xz"
	case FormatXz:
		return "xz"
	case FormatZip:
		return "zip"
	case FormatDmg:
		return "dmg"
	default:
		return "unsupported"
	}
}

// DetectFormat classifies an archive by its filename. Unknown extensions
// yield FormatUnsupported rather than an error so callers can decide how
// to report it.
func DetectFormat(filename string) Format {
	lower := strings.ToLower(filename)
	switch {
	case strings.HasSuffix(lower, ".tar.xz"):
		return FormatTarXz
	case strings.HasSuffix(lower, ".xz"):
		return FormatXz
	case strings.HasSuffix(lower, ".zip"):
		return FormatZip
	case strings.HasSuffix(lower, ".dmg"):
		return FormatDmg
	default:
		return FormatUnsupported
	}
}

// Progress is called as extraction advances. total may be 0 when the
// decompressed size is unknown up front.
type Progress func(done, total int64)

// Extract unpacks the archive at src into destDir, dispatching on the
// detected format. dmg archives are recognized but not unpacked on any
// platform; they fail the same way unknown formats do.
func Extract(ctx context.Context, src, destDir string, progress Progress) error {
	if progress == nil {
		progress = func(int64, int64) {}
	}
	switch DetectFormat(src) {
	case FormatTarXz, FormatXz:
		return extractTarXz(ctx, src, destDir, progress)
	case FormatZip:
		return extractZip(ctx, src, destDir, progress)
	default:
		return &cmderr.UnsupportedFormatError{Ext: ext(src)}
	}
}

func ext(filename string) string {
	lower := strings.ToLower(filename)
	if i := strings.LastIndexByte(lower, '.'); i >= 0 {
		return lower[i:]
	}
	return ""
}
