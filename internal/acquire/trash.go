package acquire

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ZebulonRouseFrantzich/buildpull/internal/cmderr"
	"github.com/ZebulonRouseFrantzich/buildpull/internal/config"
)

// Remove moves path into the library trash directory. When the move is
// impossible, typically because path sits on a different filesystem, the
// path is deleted outright instead. noTrash skips the trash attempt.
func Remove(paths config.Paths, path string, noTrash bool) error {
	if noTrash {
		return deleteOutright(path)
	}
	trash := paths.TrashDir()
	if err := os.MkdirAll(trash, 0o755); err != nil {
		return deleteOutright(path)
	}
	dest := filepath.Join(trash, fmt.Sprintf("%s.%d", filepath.Base(path), time.Now().UnixNano()))
	if err := os.Rename(path, dest); err != nil {
		return deleteOutright(path)
	}
	return nil
}

func deleteOutright(path string) error {
	return cmderr.Pathf("delete", path, os.RemoveAll(path))
}
