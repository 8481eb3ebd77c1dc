package controller

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"xcdistill/src/config"
	"xcdistill/src/service/report"
	"xcdistill/src/service/testresult"
	"xcdistill/src/service/toolchain"
	"xcdistill/src/util"
)

// TestController extracts failures from a test-result bundle
type TestController struct {
	cfg    *config.Config
	runner *toolchain.Runner
}

// NewTestController creates a test controller
func NewTestController(cfg *config.Config) *TestController {
	return &TestController{
		cfg:    cfg,
		runner: toolchain.NewRunner(cfg.Toolchain),
	}
}

// Distill exports the result bundle, walks it for failures, and renders
// the report. bundlePath must exist before the toolchain is invoked.
func (c *TestController) Distill(ctx context.Context, bundlePath string, opts RenderOptions) (string, error) {
	if _, err := os.Stat(bundlePath); err != nil {
		return "", fmt.Errorf("result bundle not found: %s", bundlePath)
	}

	raw, err := c.runner.ExportResults(ctx, bundlePath)
	if err != nil {
		return "", err
	}

	return c.DistillExported(raw, opts)
}

// DistillExported walks an already-exported JSON document. Split out so
// pre-exported documents can be distilled without the toolchain.
func (c *TestController) DistillExported(raw string, opts RenderOptions) (string, error) {
	var doc any
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return "", fmt.Errorf("parsing test-result export: %w", err)
	}

	walker := testresult.NewWalker(sourceRoot(c.cfg, opts), c.cfg.Report.MessageLimit)
	failures := walker.Walk(doc)
	util.Info("Test distillation: %d failures", len(failures))

	generator := report.NewGenerator(reportConfig(c.cfg, opts))
	if opts.JSON {
		return generator.TestJSON(failures, opts.Attempt)
	}
	return generator.TestMarkdown(failures, opts.Attempt), nil
}
