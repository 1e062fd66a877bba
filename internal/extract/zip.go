package extract

import (
	"archive/zip"
	"context"
	"os"
	"path/filepath"

	"github.com/ZebulonRouseFrantzich/buildpull/internal/cmderr"
)

// extractZip unpacks a zip archive into destDir. The central directory
// gives the decompressed size up front; when every size field is zero the
// archive's file size stands in so progress still has a denominator.
func extractZip(ctx context.Context, src, destDir string, progress Progress) error {
	zr, err := zip.OpenReader(src)
	if err != nil {
		return cmderr.Pathf("read", src, err)
	}
	defer zr.Close()

	var total int64
	for _, f := range zr.File {
		total += int64(f.UncompressedSize64)
	}
	if total == 0 {
		if st, err := os.Stat(src); err == nil {
			total = st.Size()
		}
	}

	var written int64
	for _, f := range zr.File {
		if err := ctx.Err(); err != nil {
			return cmderr.ErrCancelled
		}
		rel, ok := stripRoot(f.Name)
		if !ok {
			continue
		}
		target := filepath.Join(destDir, rel)

		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(target, f.Mode().Perm()); err != nil {
				return cmderr.Pathf("create", target, err)
			}
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return cmderr.Pathf("read", src, err)
		}
		n, err := writeFile(target, rc, f.Mode().Perm())
		rc.Close()
		if err != nil {
			return err
		}
		written += n
		progress(written, total)
	}
	return nil
}
