package config

import "time"

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Agent: AgentConfig{
			Name:        "xcdistill",
			Version:     "1.0.0",
			Description: "Build-output distillation pipeline",
		},
		Toolchain: ToolchainConfig{
			Device:         "generic",
			ListTimeout:    30 * time.Second,
			ExportTimeout:  60 * time.Second,
			ScopedTimeout:  3 * time.Minute,
			ModuleTimeout:  10 * time.Minute,
			FullRunTimeout: 30 * time.Minute,
		},
		Report: ReportConfig{
			MaxIssues:      20,
			GroupLimit:     10,
			WarningLimit:   5,
			MessageLimit:   200,
			TopOffenders:   5,
			BreakerAttempt: 3,
		},
		Lint: LintConfig{
			MaxFiles: 15,
			JustificationKeywords: []string{
				"justification", "safe because", "invariant", "synchronized by",
			},
		},
		Paths: PathsConfig{},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}
