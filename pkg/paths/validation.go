package paths

import (
	"path/filepath"
	"strings"

	"github.com/arthur-debert/scaffup/pkg/errors"
)

// ValidatePath rejects empty paths, paths with null bytes and paths whose
// length exceeds common filesystem limits.
func ValidatePath(path string) error {
	if path == "" {
		return errors.New(errors.ErrInvalidInput, "path cannot be empty")
	}

	if strings.Contains(path, "\x00") {
		return errors.New(errors.ErrInvalidInput, "path contains null bytes")
	}

	if len(path) > 4096 {
		return errors.New(errors.ErrInvalidInput, "path exceeds maximum length")
	}

	return nil
}

// EnsureLocalPath checks that path, taken relative to root when it is not
// absolute, stays inside root. It returns the cleaned root-relative path.
//
// A path outside root fails with ErrPathViolation so callers can tell it
// apart from ordinary I/O failures.
func EnsureLocalPath(root, path string) (string, error) {
	if err := ValidatePath(path); err != nil {
		return "", err
	}

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrFileRead, "cannot resolve repository root %s", root)
	}

	target := path
	if !filepath.IsAbs(target) {
		target = filepath.Join(absRoot, target)
	}
	target = filepath.Clean(target)

	rel, err := filepath.Rel(absRoot, target)
	if err != nil || !isLocal(rel) {
		return "", errors.Newf(errors.ErrPathViolation,
			"path %q is outside the repository %s", path, absRoot).
			WithDetail("path", path).
			WithDetail("root", absRoot)
	}

	return filepath.ToSlash(rel), nil
}

// ContainsPath checks if child is contained within parent.
func ContainsPath(parent, child string) bool {
	_, err := EnsureLocalPath(parent, child)
	return err == nil
}

func isLocal(rel string) bool {
	if rel == ".." || filepath.IsAbs(rel) {
		return false
	}
	return !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// ResolveArg turns a command-line path into one Rel accepts. A relative
// path is taken from cwd when cwd lies inside root, and from root
// otherwise.
func ResolveArg(root, cwd, path string) string {
	if path == "" || filepath.IsAbs(path) || cwd == "" || !ContainsPath(root, cwd) {
		return path
	}
	return filepath.Join(cwd, path)
}
