package extract

import (
	"archive/tar"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ulikunitz/xz"

	"github.com/ZebulonRouseFrantzich/buildpull/internal/cmderr"
)

// extractTarXz streams a tar.xz archive into destDir. The decompressed
// size is unknown up front, so progress reports a zero total and a running
// count of bytes written.
func extractTarXz(ctx context.Context, src, destDir string, progress Progress) error {
	f, err := os.Open(src)
	if err != nil {
		return cmderr.Pathf("read", src, err)
	}
	defer f.Close()

	xr, err := xz.NewReader(f)
	if err != nil {
		return fmt.Errorf("open xz stream %s: %w", src, err)
	}
	tr := tar.NewReader(xr)

	var written int64
	for {
		if err := ctx.Err(); err != nil {
			return cmderr.ErrCancelled
		}
		hdr, err := tr.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("read tar stream %s: %w", src, err)
		}
		rel, ok := stripRoot(hdr.Name)
		if !ok {
			continue
		}
		target := filepath.Join(destDir, rel)

		switch hdr.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, hdr.FileInfo().Mode().Perm()); err != nil {
				return cmderr.Pathf("create", target, err)
			}
		case tar.TypeSymlink:
			if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
				return cmderr.Pathf("create", filepath.Dir(target), err)
			}
			os.Remove(target)
			if err := os.Symlink(hdr.Linkname, target); err != nil {
				return cmderr.Pathf("create", target, err)
			}
		case tar.TypeReg:
			n, err := writeFile(target, tr, hdr.FileInfo().Mode().Perm())
			if err != nil {
				return err
			}
			written += n
			progress(written, 0)
		}
	}
}

// stripRoot drops the archive's single top-level directory from a member
// path. The root entry itself, and any path escaping the destination,
// reports ok=false.
func stripRoot(name string) (string, bool) {
	clean := filepath.Clean(filepath.FromSlash(name))
	if clean == "." || filepath.IsAbs(clean) || clean == ".." ||
		len(clean) >= 3 && clean[:3] == ".."+string(filepath.Separator) {
		return "", false
	}
	i := strings.IndexByte(clean, filepath.Separator)
	if i < 0 {
		return "", false // top-level entry, nothing beneath the root
	}
	return clean[i+1:], true
}

func writeFile(target string, r io.Reader, perm os.FileMode) (int64, error) {
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return 0, cmderr.Pathf("create", filepath.Dir(target), err)
	}
	out, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, perm)
	if err != nil {
		return 0, cmderr.Pathf("create", target, err)
	}
	n, err := io.Copy(out, r)
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return n, cmderr.Pathf("write", target, err)
	}
	return n, nil
}
