package config

import "time"

// Config is the root configuration structure
type Config struct {
	Agent     AgentConfig     `yaml:"agent"`
	Toolchain ToolchainConfig `yaml:"toolchain"`
	Report    ReportConfig    `yaml:"report"`
	Lint      LintConfig      `yaml:"lint"`
	Paths     PathsConfig     `yaml:"paths"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// AgentConfig contains tool metadata
type AgentConfig struct {
	Name        string `yaml:"name"`
	Version     string `yaml:"version"`
	Description string `yaml:"description"`
}

// ToolchainConfig contains build-toolchain invocation settings.
// Timeouts are per call site; a timed-out call is terminal for the
// invocation, never retried.
type ToolchainConfig struct {
	Workspace      string        `yaml:"workspace"`
	Device         string        `yaml:"device"`
	ListTimeout    time.Duration `yaml:"list_timeout"`
	ExportTimeout  time.Duration `yaml:"export_timeout"`
	ScopedTimeout  time.Duration `yaml:"scoped_timeout"`  // single test class
	ModuleTimeout  time.Duration `yaml:"module_timeout"`  // whole test target
	FullRunTimeout time.Duration `yaml:"full_run_timeout"` // entire scheme
}

// ReportConfig contains rendering caps and truncation limits
type ReportConfig struct {
	MaxIssues      int `yaml:"max_issues"`       // combined cap for error/failure lists
	GroupLimit     int `yaml:"group_limit"`      // ranked race groups shown
	WarningLimit   int `yaml:"warning_limit"`    // compiler warnings shown verbatim
	MessageLimit   int `yaml:"message_limit"`    // test failure message truncation
	TopOffenders   int `yaml:"top_offenders"`    // noisiest files/functions listed
	BreakerAttempt int `yaml:"breaker_attempt"`  // attempt count that trips the breaker
}

// LintConfig contains diff-linter settings
type LintConfig struct {
	MaxFiles              int      `yaml:"max_files"` // blast-radius cap on touched files
	JustificationKeywords []string `yaml:"justification_keywords"`
	ExtraPatterns         []string `yaml:"extra_patterns"` // project-specific forbidden substrings
}

// PathsConfig contains path-relativization settings
type PathsConfig struct {
	SourceRoot string `yaml:"source_root"`
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // console, json
	File   string `yaml:"file"`
}
