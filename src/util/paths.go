package util

import (
	"path"
	"path/filepath"
	"strings"
)

// projectMarkers are path-segment suffixes that mark the project container;
// everything after the marker segment is project-relative.
var projectMarkers = []string{".xcworkspace", ".xcodeproj"}

// sourceDirs are conventional top-level source folder names; the relative
// path starts at the matching segment itself.
var sourceDirs = map[string]bool{
	"Sources":  true,
	"Source":   true,
	"src":      true,
	"App":      true,
	"Modules":  true,
	"Packages": true,
}

// RelativizePath converts an absolute path to a project-relative one.
// Absolute paths vary by machine and user; output must never leak local
// filesystem structure. Priority: explicit root, project-container marker,
// conventional source directory, basename. Already-relative paths are
// returned unchanged, which makes the function idempotent.
func RelativizePath(absPath, sourceRoot string) string {
	if absPath == "" {
		return absPath
	}

	normalized := strings.ReplaceAll(absPath, "\\", "/")
	if !strings.HasPrefix(normalized, "/") {
		return normalized
	}

	if sourceRoot != "" {
		if rel, err := filepath.Rel(sourceRoot, absPath); err == nil && rel != "." && !strings.HasPrefix(rel, "..") {
			return filepath.ToSlash(rel)
		}
	}

	parts := strings.Split(normalized, "/")
	for i, part := range parts {
		for _, marker := range projectMarkers {
			if strings.HasSuffix(part, marker) {
				return strings.Join(parts[i+1:], "/")
			}
		}
		if sourceDirs[part] {
			return strings.Join(parts[i:], "/")
		}
	}

	return path.Base(normalized)
}
