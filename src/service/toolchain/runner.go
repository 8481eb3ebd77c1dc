// Package toolchain invokes the build toolchain as synchronous external
// processes. Every call site has its own fixed timeout and no retries: a
// timed-out or failed call is terminal for the invocation, and a timeout
// yields no partial output.
package toolchain

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"time"

	"xcdistill/src/config"
	"xcdistill/src/util"
)

// ErrorKind classifies toolchain failures so the operator knows whether to
// fix the environment or the input.
type ErrorKind string

const (
	KindMissingTool ErrorKind = "missing_tool"
	KindTimeout     ErrorKind = "timeout"
	KindFailed      ErrorKind = "failed"
)

// ToolError is a failure of an external toolchain invocation
type ToolError struct {
	Tool    string
	Kind    ErrorKind
	Timeout time.Duration
	Stderr  string
}

func (e *ToolError) Error() string {
	switch e.Kind {
	case KindMissingTool:
		return fmt.Sprintf("%s not found; ensure the command line tools are installed", e.Tool)
	case KindTimeout:
		return fmt.Sprintf("%s timed out after %v", e.Tool, e.Timeout)
	default:
		if e.Stderr != "" {
			return fmt.Sprintf("%s failed: %s", e.Tool, e.Stderr)
		}
		return fmt.Sprintf("%s failed", e.Tool)
	}
}

// Runner invokes toolchain commands with per-call timeouts
type Runner struct {
	cfg config.ToolchainConfig
}

// NewRunner creates a toolchain runner
func NewRunner(cfg config.ToolchainConfig) *Runner {
	return &Runner{cfg: cfg}
}

// ListWorkspace runs `xcodebuild -list -json` against a workspace or
// project container and returns the raw JSON listing.
func (r *Runner) ListWorkspace(ctx context.Context, container string) (string, error) {
	out, err := r.run(ctx, r.cfg.ListTimeout, false,
		"xcodebuild", "-list", "-workspace", container, "-json")
	if err == nil {
		return out, nil
	}

	var toolErr *ToolError
	if errors.As(err, &toolErr) && toolErr.Kind == KindFailed {
		// Containers without a workspace document list as projects
		return r.run(ctx, r.cfg.ListTimeout, false,
			"xcodebuild", "-list", "-project", container, "-json")
	}
	return "", err
}

// ExportResults runs `xcrun xcresulttool` to export a result bundle as JSON
func (r *Runner) ExportResults(ctx context.Context, bundlePath string) (string, error) {
	return r.run(ctx, r.cfg.ExportTimeout, false,
		"xcrun", "xcresulttool", "get", "--format", "json", "--path", bundlePath)
}

// SanitizerScope selects how much of the scheme a sanitizer run covers.
// Narrower scopes get shorter timeouts.
type SanitizerScope struct {
	Scheme    string
	Target    string // test target; empty means full scheme
	TestClass string // single test class; requires Target
	TestPlan  string
}

// Timeout returns the tiered timeout for the scope
func (s SanitizerScope) Timeout(cfg config.ToolchainConfig) time.Duration {
	switch {
	case s.TestClass != "":
		return cfg.ScopedTimeout
	case s.Target != "":
		return cfg.ModuleTimeout
	default:
		return cfg.FullRunTimeout
	}
}

// RunThreadSanitizer runs the scheme's tests with the thread sanitizer
// enabled and returns the combined output. A non-zero exit is expected
// when races are found, so only missing-tool and timeout are errors.
func (r *Runner) RunThreadSanitizer(ctx context.Context, scope SanitizerScope) (string, error) {
	destination := "generic/platform=iOS Simulator"
	if r.cfg.Device != "" && r.cfg.Device != "generic" {
		destination = "platform=iOS Simulator,name=" + r.cfg.Device
	}

	args := []string{
		"test",
		"-workspace", r.cfg.Workspace,
		"-scheme", scope.Scheme,
		"-destination", destination,
		"-enableThreadSanitizer", "YES",
		"-quiet",
	}
	if scope.TestPlan != "" {
		args = append(args, "-testPlan", scope.TestPlan)
	}
	if scope.TestClass != "" && scope.Target != "" {
		args = append(args, "-only-testing", scope.Target+"/"+scope.TestClass)
	} else if scope.Target != "" {
		args = append(args, "-only-testing", scope.Target)
	}

	timeout := scope.Timeout(r.cfg)
	util.Info("Running thread sanitizer (scope: %s, timeout: %v)", scope.describe(), timeout)

	return r.run(ctx, timeout, true, "xcodebuild", args...)
}

func (s SanitizerScope) describe() string {
	switch {
	case s.TestClass != "":
		return "test class " + s.TestClass
	case s.Target != "":
		return "test target " + s.Target
	default:
		return "full scheme"
	}
}

// run executes one command under a timeout. When tolerateExit is set, a
// non-zero exit still returns the combined output; sanitizer runs exit
// non-zero whenever they find issues.
func (r *Runner) run(ctx context.Context, timeout time.Duration, tolerateExit bool, name string, args ...string) (string, error) {
	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	util.Debug("Running %s %v", name, args)

	cmd := exec.CommandContext(callCtx, name, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()

	if callCtx.Err() == context.DeadlineExceeded {
		return "", &ToolError{Tool: name, Kind: KindTimeout, Timeout: timeout}
	}

	if err != nil {
		var execErr *exec.Error
		if errors.As(err, &execErr) && errors.Is(execErr.Err, exec.ErrNotFound) {
			return "", &ToolError{Tool: name, Kind: KindMissingTool}
		}
		if !tolerateExit {
			return "", &ToolError{Tool: name, Kind: KindFailed, Stderr: truncateStderr(stderr.String())}
		}
	}

	return stdout.String() + stderr.String(), nil
}

func truncateStderr(s string) string {
	const max = 300
	if len(s) <= max {
		return s
	}
	return s[:max]
}
