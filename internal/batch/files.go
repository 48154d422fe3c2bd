package batch

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/ironsheep/comic-ocr/internal/logging"
)

// imageExtensions are matched against the lower-cased file extension.
var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
}

// IsImagePath reports whether path has a supported image extension.
func IsImagePath(path string) bool {
	return imageExtensions[strings.ToLower(filepath.Ext(path))]
}

// OutputPath returns path with its extension replaced by ".txt".
func OutputPath(path string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + ".txt"
}

// walkImages calls visit for every regular image file under dir. Without
// recursive only the top-level entries of dir are considered. Unreadable
// subdirectories are logged and skipped; an unreadable dir is an error.
func walkImages(ctx context.Context, dir string, recursive bool, log *logging.Logger, visit func(path string) error) error {
	if !recursive {
		entries, err := os.ReadDir(dir)
		if err != nil {
			return err
		}
		for _, entry := range entries {
			if err := ctx.Err(); err != nil {
				return err
			}
			if !entry.Type().IsRegular() || !IsImagePath(entry.Name()) {
				continue
			}
			if err := visit(filepath.Join(dir, entry.Name())); err != nil {
				return err
			}
		}
		return nil
	}

	return filepath.WalkDir(dir, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			if path == dir {
				return err
			}
			log.Warn("Failed to read directory entry", "path", path, "error", err)
			if entry != nil && entry.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if !entry.Type().IsRegular() || !IsImagePath(path) {
			return nil
		}
		return visit(path)
	})
}

// writeFileAtomic replaces path with data by writing a temporary file in the
// same directory and renaming it into place.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return err
	}
	if err := os.Chmod(tmpPath, 0644); err != nil {
		os.Remove(tmpPath)
		return err
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return err
	}
	return nil
}
