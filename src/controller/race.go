package controller

import (
	"context"
	"fmt"
	"os"

	"xcdistill/src/config"
	"xcdistill/src/service/report"
	"xcdistill/src/service/toolchain"
	"xcdistill/src/service/tsan"
	"xcdistill/src/util"
)

// RaceController runs or parses a thread-sanitizer session and renders the
// grouped report.
type RaceController struct {
	cfg    *config.Config
	runner *toolchain.Runner
}

// NewRaceController creates a race controller
func NewRaceController(cfg *config.Config) *RaceController {
	return &RaceController{
		cfg:    cfg,
		runner: toolchain.NewRunner(cfg.Toolchain),
	}
}

// DistillLog parses an existing sanitizer log file
func (c *RaceController) DistillLog(logPath string, opts RenderOptions) (string, error) {
	data, err := os.ReadFile(logPath)
	if err != nil {
		return "", fmt.Errorf("reading sanitizer log: %w", err)
	}
	return c.distill(string(data), opts)
}

// Run executes the sanitizer for the given scope and distills its output
func (c *RaceController) Run(ctx context.Context, scope toolchain.SanitizerScope, opts RenderOptions) (string, error) {
	if scope.TestClass != "" && scope.Target == "" {
		return "", fmt.Errorf("--test-class requires --target")
	}

	raw, err := c.runner.RunThreadSanitizer(ctx, scope)
	if err != nil {
		return "", err
	}
	return c.distill(raw, opts)
}

func (c *RaceController) distill(raw string, opts RenderOptions) (string, error) {
	parser := tsan.NewParser(sourceRoot(c.cfg, opts))
	issues := parser.Parse(raw)
	analysis := tsan.Analyze(issues)
	util.Info("Race distillation: %d issues, %d unique patterns", len(issues), len(analysis.Groups))

	generator := report.NewGenerator(reportConfig(c.cfg, opts))
	if opts.JSON {
		return generator.RaceJSON(analysis, opts.Attempt)
	}
	return generator.RaceMarkdown(analysis, opts.Attempt), nil
}
