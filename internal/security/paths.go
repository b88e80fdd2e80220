// Package security guards the filesystem paths the CLI writes to.
package security

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrOutsideAllowedDirs is returned when an output path resolves outside
// every allowed root.
var ErrOutsideAllowedDirs = errors.New("security: path outside allowed directories")

// canonical returns the absolute, symlink-resolved form of path. When path
// does not exist yet, the nearest existing ancestor is resolved and the
// missing tail is re-attached, so a symlinked parent cannot smuggle the
// result elsewhere.
func canonical(path string) (string, error) {
	abs, err := filepath.Abs(filepath.Clean(path))
	if err != nil {
		return "", fmt.Errorf("resolve %q: %w", path, err)
	}
	existing, tail := abs, ""
	for {
		if resolved, err := filepath.EvalSymlinks(existing); err == nil {
			return filepath.Join(resolved, tail), nil
		}
		parent := filepath.Dir(existing)
		if parent == existing {
			return abs, nil
		}
		tail = filepath.Join(filepath.Base(existing), tail)
		existing = parent
	}
}

// WithinDir reports an error unless path resolves inside root.
func WithinDir(path, root string) error {
	p, err := canonical(path)
	if err != nil {
		return err
	}
	r, err := canonical(root)
	if err != nil {
		return err
	}
	rel, err := filepath.Rel(r, p)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) || filepath.IsAbs(rel) {
		return fmt.Errorf("%w: %s escapes %s", ErrOutsideAllowedDirs, path, root)
	}
	return nil
}

// WithinAny accepts path when it lies inside at least one of roots.
func WithinAny(path string, roots []string) error {
	if len(roots) == 0 {
		return fmt.Errorf("%w: no roots given", ErrOutsideAllowedDirs)
	}
	for _, root := range roots {
		if WithinDir(path, root) == nil {
			return nil
		}
	}
	return fmt.Errorf("%w: %s not under %v", ErrOutsideAllowedDirs, path, roots)
}

// ValidateOutputPath restricts CSV and database output to the working
// directory or the system temp directory.
func ValidateOutputPath(path string) error {
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("get working directory: %w", err)
	}
	return WithinAny(path, []string{cwd, os.TempDir()})
}
