package controller

import (
	"xcdistill/src/config"
	"xcdistill/src/model"
	"xcdistill/src/service/lint"
	"xcdistill/src/service/report"
	"xcdistill/src/util"
)

// LintController scans a unified diff for unsafe concurrency idioms
type LintController struct {
	cfg *config.Config
}

// NewLintController creates a lint controller
func NewLintController(cfg *config.Config) *LintController {
	return &LintController{cfg: cfg}
}

// Scan lints the diff and renders the report. A *model.PolicyError is
// returned alongside the rendered report when the result must fail the
// invocation; it is not an analysis error and the report is still valid.
func (c *LintController) Scan(diff string, opts RenderOptions) (string, *model.PolicyError, error) {
	linter := lint.NewLinter(c.cfg.Lint)
	result := linter.Scan(diff)
	util.Info("Lint: %d errors, %d warnings, %d files touched",
		result.ErrorCount(), result.WarningCount(), result.FilesTouched)

	generator := report.NewGenerator(reportConfig(c.cfg, opts))

	var rendered string
	var err error
	if opts.JSON {
		rendered, err = generator.LintJSON(result, opts.Attempt)
	} else {
		rendered = generator.LintMarkdown(result, opts.Attempt)
	}
	if err != nil {
		return "", nil, err
	}

	if result.Failed() {
		return rendered, &model.PolicyError{
			Errors:      result.ErrorCount(),
			BlastRadius: result.BlastRadius != "",
		}, nil
	}
	return rendered, nil, nil
}
