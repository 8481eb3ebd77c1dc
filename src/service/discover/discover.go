// Package discover lists workspace schemes and targets from the build
// toolchain's JSON listing.
package discover

import (
	"encoding/json"
	"fmt"
	"path"
	"path/filepath"

	"xcdistill/src/model"
)

// DetectContainer finds a workspace or project container in dir when none
// was given explicitly. Workspaces win over bare projects.
func DetectContainer(dir string) (string, error) {
	for _, pattern := range []string{"*.xcworkspace", "*.xcodeproj"} {
		matches, err := filepath.Glob(filepath.Join(dir, pattern))
		if err == nil && len(matches) > 0 {
			return matches[0], nil
		}
	}
	return "", fmt.Errorf("no .xcworkspace or .xcodeproj found in %s; use --workspace", dir)
}

// listing mirrors the toolchain's -list -json output. Workspace documents
// nest under "workspace", bare projects under "project".
type listing struct {
	Workspace *containerInfo `json:"workspace"`
	Project   *containerInfo `json:"project"`
}

type containerInfo struct {
	Name    string   `json:"name"`
	Schemes []string `json:"schemes"`
	Targets []string `json:"targets"`
}

// ParseListing converts the raw JSON listing into a Workspace. The
// container path provides the display name; the listing's own name field
// is unreliable for workspaces opened by path.
func ParseListing(raw, containerPath string) (model.Workspace, error) {
	var l listing
	if err := json.Unmarshal([]byte(raw), &l); err != nil {
		return model.Workspace{}, fmt.Errorf("parsing workspace listing: %w", err)
	}

	info := l.Workspace
	if info == nil {
		info = l.Project
	}
	if info == nil {
		return model.Workspace{}, fmt.Errorf("workspace listing has neither workspace nor project section")
	}

	return model.Workspace{
		Name:    path.Base(containerPath),
		Schemes: info.Schemes,
		Targets: info.Targets,
	}, nil
}
