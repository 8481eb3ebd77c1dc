package controller

import (
	"context"

	"xcdistill/src/config"
	"xcdistill/src/service/discover"
	"xcdistill/src/service/report"
	"xcdistill/src/service/toolchain"
	"xcdistill/src/util"
)

// DiscoverController lists workspace schemes and targets
type DiscoverController struct {
	cfg    *config.Config
	runner *toolchain.Runner
}

// NewDiscoverController creates a discover controller
func NewDiscoverController(cfg *config.Config) *DiscoverController {
	return &DiscoverController{
		cfg:    cfg,
		runner: toolchain.NewRunner(cfg.Toolchain),
	}
}

// Discover lists the container's schemes and targets. An empty container
// path auto-detects one in the current directory.
func (c *DiscoverController) Discover(ctx context.Context, container string, jsonOut bool) (string, error) {
	if container == "" {
		detected, err := discover.DetectContainer(".")
		if err != nil {
			return "", err
		}
		container = detected
	}

	raw, err := c.runner.ListWorkspace(ctx, container)
	if err != nil {
		return "", err
	}

	ws, err := discover.ParseListing(raw, container)
	if err != nil {
		return "", err
	}
	util.Info("Discovered %d schemes, %d targets in %s", len(ws.Schemes), len(ws.Targets), ws.Name)

	generator := report.NewGenerator(c.cfg.Report)
	if jsonOut {
		return generator.WorkspaceJSON(ws)
	}
	return generator.WorkspaceMarkdown(ws), nil
}
