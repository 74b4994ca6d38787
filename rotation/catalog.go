package rotation

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// ImagePath is a cleaned, absolute path to a candidate wallpaper.
type ImagePath = string

var DefaultExtensions = []string{".jpg", ".jpeg", ".png", ".bmp"}

func extensionSet(extensions []string) map[string]bool {
	if len(extensions) == 0 {
		extensions = DefaultExtensions
	}

	set := make(map[string]bool, len(extensions))
	for _, e := range extensions {
		e = strings.ToLower(strings.TrimSpace(e))
		if e == "" {
			continue
		}
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		set[e] = true
	}
	return set
}

// Scan recursively collects every regular file under root whose extension
// matches one of extensions, ignoring case. The catalog is in traversal order.
func Scan(root string, extensions []string) ([]ImagePath, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("%w [%s]: %s", ErrScanFailure, root, err)
	}

	fi, err := os.Stat(absRoot)
	if err != nil {
		return nil, fmt.Errorf("%w [%s]: %w", ErrScanFailure, absRoot, err)
	}
	if !fi.IsDir() {
		return nil, fmt.Errorf(
			"%w [%s]: not a directory", ErrScanFailure, absRoot)
	}

	// WalkDir doesn't descend into a symlinked root. Walk the target, paths
	// are still reported under root.
	walkRoot, err := filepath.EvalSymlinks(absRoot)
	if err != nil {
		return nil, fmt.Errorf("%w [%s]: %w", ErrScanFailure, absRoot, err)
	}

	exts := extensionSet(extensions)
	catalog := []ImagePath{}

	err = filepath.WalkDir(walkRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		if walkRoot != absRoot {
			rel, err := filepath.Rel(walkRoot, path)
			if err != nil {
				return err
			}
			path = filepath.Join(absRoot, rel)
		}

		if !exts[strings.ToLower(filepath.Ext(path))] {
			return nil
		}

		if d.Type()&fs.ModeSymlink != 0 {
			target, err := os.Stat(path)
			if err != nil || !target.Mode().IsRegular() {
				// Dangling or pointing at something that isn't a file
				return nil
			}
		} else if !d.Type().IsRegular() {
			return nil
		}

		catalog = append(catalog, filepath.Clean(path))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w [%s]: %w", ErrScanFailure, absRoot, err)
	}

	if len(catalog) == 0 {
		return nil, fmt.Errorf("%w [%s]", ErrEmptyCatalog, absRoot)
	}

	return catalog, nil
}
