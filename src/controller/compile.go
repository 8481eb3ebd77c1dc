// Package controller wires configuration, toolchain input, parsing
// services, and report rendering into one pipeline per subcommand.
package controller

import (
	"xcdistill/src/config"
	"xcdistill/src/service/compile"
	"xcdistill/src/service/report"
	"xcdistill/src/util"
)

// RenderOptions are the per-invocation knobs shared by all pipelines
type RenderOptions struct {
	JSON       bool
	Attempt    int
	MaxIssues  int    // 0 keeps the configured cap
	SourceRoot string // "" keeps the configured root
	Scheme     string // report header label only
}

// CompileController distills raw compiler output
type CompileController struct {
	cfg *config.Config
}

// NewCompileController creates a compile controller
func NewCompileController(cfg *config.Config) *CompileController {
	return &CompileController{cfg: cfg}
}

// Distill parses the raw build log and renders the distilled report
func (c *CompileController) Distill(raw string, opts RenderOptions) (string, error) {
	extractor := compile.NewExtractor(sourceRoot(c.cfg, opts))
	diagnostics := extractor.Extract(raw)
	util.Info("Compile distillation: %d diagnostics after dedup", len(diagnostics))

	generator := report.NewGenerator(reportConfig(c.cfg, opts))
	if opts.JSON {
		return generator.CompileJSON(diagnostics, opts.Attempt)
	}
	return generator.CompileMarkdown(diagnostics, opts.Scheme, opts.Attempt), nil
}

// sourceRoot resolves the effective project root for path relativization
func sourceRoot(cfg *config.Config, opts RenderOptions) string {
	if opts.SourceRoot != "" {
		return opts.SourceRoot
	}
	return cfg.Paths.SourceRoot
}

// reportConfig applies per-invocation cap overrides to a copy of the
// configured report settings.
func reportConfig(cfg *config.Config, opts RenderOptions) config.ReportConfig {
	rcfg := cfg.Report
	if opts.MaxIssues > 0 {
		rcfg.MaxIssues = opts.MaxIssues
		rcfg.GroupLimit = opts.MaxIssues
	}
	return rcfg
}
