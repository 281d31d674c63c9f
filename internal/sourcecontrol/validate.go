package sourcecontrol

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// validateConfigPath resolves relPath against the repository root and
// rejects anything that traverses upward, resolves through a symlinked
// directory, or is not a regular file. The file itself may be absent;
// validation only inspects what exists.
func validateConfigPath(rootPath, relPath string) (string, error) {
	if relPath == "" || !filepath.IsLocal(relPath) {
		return "", NewInvalidPathError(fmt.Sprintf("path %q escapes the repository", relPath), nil)
	}
	// IsLocal cleans before judging, so a path like "configs/../x" passes
	// it while still escaping the configured base directory. Reject any
	// parent segment outright.
	for _, segment := range strings.Split(filepath.ToSlash(relPath), "/") {
		if segment == ".." {
			return "", NewInvalidPathError(fmt.Sprintf("path %q traverses outside its base directory", relPath), nil)
		}
	}
	absPath := filepath.Join(rootPath, filepath.FromSlash(relPath))

	// The containing directory must resolve to a location inside the
	// repository. A directory entry replaced by a symlink would otherwise
	// redirect reads and writes outside the clone.
	dir := filepath.Dir(absPath)
	resolvedDir, err := filepath.EvalSymlinks(dir)
	if err != nil && !os.IsNotExist(err) {
		return "", NewInvalidPathError(fmt.Sprintf("failed to resolve directory of %q", relPath), err)
	}
	if err == nil {
		resolvedRoot, rootErr := filepath.EvalSymlinks(rootPath)
		if rootErr != nil {
			return "", NewInvalidPathError(fmt.Sprintf("failed to resolve repository root for %q", relPath), rootErr)
		}
		if resolvedDir != resolvedRoot && !strings.HasPrefix(resolvedDir, resolvedRoot+string(os.PathSeparator)) {
			return "", NewInvalidPathError(fmt.Sprintf("path %q resolves outside the repository", relPath), nil)
		}
	}

	info, err := os.Lstat(absPath)
	if err != nil {
		if os.IsNotExist(err) {
			return absPath, nil
		}
		return "", NewInvalidPathError(fmt.Sprintf("failed to inspect path %q", relPath), err)
	}
	if info.Mode()&os.ModeSymlink != 0 {
		return "", NewInvalidPathError(fmt.Sprintf("path %q is a symbolic link", relPath), nil)
	}
	if info.IsDir() {
		return "", NewInvalidPathError(fmt.Sprintf("path %q is a directory", relPath), nil)
	}
	if !info.Mode().IsRegular() {
		return "", NewInvalidPathError(fmt.Sprintf("path %q is not a regular file", relPath), nil)
	}
	return absPath, nil
}
