package imagedir

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pouchpalace/backend/internal/domain"
)

// Directory is a flat directory of product images
type Directory struct {
	root            string
	excludePrefixes []string
}

// NewDirectory creates an image store over root. Files whose name starts
// with one of excludePrefixes (case-insensitive) are not product images and
// are never listed.
func NewDirectory(root string, excludePrefixes []string) *Directory {
	prefixes := make([]string, 0, len(excludePrefixes))
	for _, p := range excludePrefixes {
		if p = strings.ToLower(strings.TrimSpace(p)); p != "" {
			prefixes = append(prefixes, p)
		}
	}
	return &Directory{
		root:            root,
		excludePrefixes: prefixes,
	}
}

// Root returns the directory path
func (d *Directory) Root() string {
	return d.root
}

// ListImages returns the product image filenames in root, sorted
// lexicographically. Subdirectories are not descended into.
func (d *Directory) ListImages(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(d.root)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrImageDirUnavailable, err)
	}

	files := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !domain.IsImageFile(name) || d.Excluded(name) {
			continue
		}
		files = append(files, name)
	}
	sort.Strings(files)
	return files, nil
}

// RenameImage renames from to to inside root. It refuses to overwrite an
// existing file.
func (d *Directory) RenameImage(ctx context.Context, from, to string) error {
	if !isBareName(from) || !isBareName(to) {
		return fmt.Errorf("%w: rename %q -> %q must use bare filenames", domain.ErrInvalidRequest, from, to)
	}

	src := filepath.Join(d.root, from)
	dst := filepath.Join(d.root, to)

	if _, err := os.Lstat(dst); err == nil {
		return fmt.Errorf("%w: %s", domain.ErrRenameTargetExists, to)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to stat %s: %w", to, err)
	}

	if err := os.Rename(src, dst); err != nil {
		return fmt.Errorf("failed to rename %s: %w", from, err)
	}
	return nil
}

// Excluded reports whether name starts with one of the exclude prefixes
func (d *Directory) Excluded(name string) bool {
	lower := strings.ToLower(name)
	for _, prefix := range d.excludePrefixes {
		if strings.HasPrefix(lower, prefix) {
			return true
		}
	}
	return false
}

func isBareName(name string) bool {
	return name != "" && name != "." && name != ".." && !strings.ContainsAny(name, `/\`)
}
