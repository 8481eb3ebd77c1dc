// Package report renders every pipeline's result as either a dense
// Markdown summary or a machine-readable JSON payload. All caps,
// truncation notes, and the circuit breaker live here so the four parsers
// stay pure.
package report

import (
	"encoding/json"
	"fmt"
	"path"
	"sort"
	"strings"

	"xcdistill/src/config"
	"xcdistill/src/model"
	"xcdistill/src/service/compile"
	"xcdistill/src/service/tsan"
	"xcdistill/src/util"
)

// Generator renders analysis results under the configured caps
type Generator struct {
	cfg config.ReportConfig
}

// NewGenerator creates a report generator
func NewGenerator(cfg config.ReportConfig) *Generator {
	if cfg.MaxIssues <= 0 {
		cfg.MaxIssues = 20
	}
	if cfg.GroupLimit <= 0 {
		cfg.GroupLimit = 10
	}
	if cfg.WarningLimit <= 0 {
		cfg.WarningLimit = 5
	}
	if cfg.TopOffenders <= 0 {
		cfg.TopOffenders = 5
	}
	if cfg.BreakerAttempt <= 0 {
		cfg.BreakerAttempt = DefaultBreakerAttempt
	}
	return &Generator{cfg: cfg}
}

// remainingNote renders the "(N more ...)" truncation marker
func remainingNote(remaining int, what string) string {
	return fmt.Sprintf("_(%d more %s not shown)_\n", remaining, what)
}

// ---------------------------------------------------------------------------
// Compiler diagnostics
// ---------------------------------------------------------------------------

// CompileMarkdown renders distilled compiler diagnostics
func (g *Generator) CompileMarkdown(diagnostics []model.Diagnostic, scheme string, attempt int) string {
	errors, warnings, _ := compile.SplitBySeverity(diagnostics)

	var sb strings.Builder
	schemeLabel := ""
	if scheme != "" {
		schemeLabel = fmt.Sprintf(" (scheme: %s)", scheme)
	}
	sb.WriteString(fmt.Sprintf("## Build Result: %d errors, %d warnings%s\n\n", len(errors), len(warnings), schemeLabel))

	if len(errors) == 0 && len(warnings) == 0 {
		sb.WriteString("**Clean build** — no errors or warnings.\n")
		return sb.String()
	}

	if len(errors) > 0 {
		sb.WriteString("### Errors by File\n\n")
		g.writeErrorGroups(&sb, errors)
	}

	if len(warnings) > 0 {
		shown := len(warnings)
		if shown > g.cfg.WarningLimit {
			shown = g.cfg.WarningLimit
		}
		sb.WriteString(fmt.Sprintf("### Top %d Warnings\n\n", shown))
		for _, d := range warnings[:shown] {
			sb.WriteString(fmt.Sprintf("- `%s:%d` — %s\n", d.FilePath, d.Line, d.Message))
		}
		if len(warnings) > shown {
			sb.WriteString(remainingNote(len(warnings)-shown, "warnings"))
		}
		sb.WriteString("\n")
	}

	sb.WriteString(Breaker(attempt, g.cfg.BreakerAttempt))
	return sb.String()
}

// writeErrorGroups renders errors grouped by file, noisiest file first,
// capped at MaxIssues across all groups combined.
func (g *Generator) writeErrorGroups(sb *strings.Builder, errors []model.Diagnostic) {
	byFile := make(map[string][]model.Diagnostic)
	var order []string
	for _, d := range errors {
		if _, ok := byFile[d.FilePath]; !ok {
			order = append(order, d.FilePath)
		}
		byFile[d.FilePath] = append(byFile[d.FilePath], d)
	}

	// Descending group size; first-seen order breaks ties
	sort.SliceStable(order, func(i, j int) bool {
		return len(byFile[order[i]]) > len(byFile[order[j]])
	})

	shown := 0
	for _, file := range order {
		if shown >= g.cfg.MaxIssues {
			break
		}
		diags := byFile[file]
		sb.WriteString(fmt.Sprintf("#### %s (%d errors)\n", path.Base(file), len(diags)))

		sort.SliceStable(diags, func(i, j int) bool { return diags[i].Line < diags[j].Line })
		for _, d := range diags {
			sb.WriteString(fmt.Sprintf("- **L%d**: `%s`\n", d.Line, d.Message))
			shown++
			if shown >= g.cfg.MaxIssues {
				break
			}
		}
		sb.WriteString("\n")
	}

	if shown < len(errors) {
		sb.WriteString(remainingNote(len(errors)-shown, "errors"))
		sb.WriteString("\n")
	}
}

// CompileJSON renders the machine-readable build payload
func (g *Generator) CompileJSON(diagnostics []model.Diagnostic, attempt int) (string, error) {
	errors, warnings, _ := compile.SplitBySeverity(diagnostics)
	payload := model.CompilePayload{
		Errors:         len(errors),
		Warnings:       len(warnings),
		Attempt:        attempt,
		CircuitBreaker: Tripped(attempt, g.cfg.BreakerAttempt),
		Diagnostics:    diagnostics,
	}
	return marshal(payload)
}

// ---------------------------------------------------------------------------
// Test failures
// ---------------------------------------------------------------------------

// TestMarkdown renders extracted test failures grouped by class
func (g *Generator) TestMarkdown(failures []model.TestFailure, attempt int) string {
	var sb strings.Builder

	if len(failures) == 0 {
		sb.WriteString("## Test Result: All tests passed\n")
		return sb.String()
	}

	sb.WriteString(fmt.Sprintf("## Test Result: %d failures\n\n", len(failures)))

	byClass := make(map[string][]model.TestFailure)
	var order []string
	for _, f := range failures {
		class := f.TestClass
		if class == "" {
			class = "(unknown)"
		}
		if _, ok := byClass[class]; !ok {
			order = append(order, class)
		}
		byClass[class] = append(byClass[class], f)
	}

	sort.SliceStable(order, func(i, j int) bool {
		return len(byClass[order[i]]) > len(byClass[order[j]])
	})

	shown := 0
	for _, class := range order {
		if shown >= g.cfg.MaxIssues {
			break
		}
		classFailures := byClass[class]
		sb.WriteString(fmt.Sprintf("### %s (%d failures)\n\n", class, len(classFailures)))

		for _, f := range classFailures {
			duration := ""
			if f.Duration > 0 {
				duration = fmt.Sprintf(" (%.1fs)", f.Duration)
			}
			location := ""
			if f.FilePath != "" {
				location = fmt.Sprintf(" — `%s:%d`", f.FilePath, f.Line)
			}
			sb.WriteString(fmt.Sprintf("- **%s**%s%s\n", f.TestMethod, duration, location))
			if f.Message != "" {
				msg := strings.TrimSpace(strings.ReplaceAll(f.Message, "\n", " "))
				sb.WriteString(fmt.Sprintf("  > %s\n", msg))
			}
			shown++
			if shown >= g.cfg.MaxIssues {
				break
			}
		}
		sb.WriteString("\n")
	}

	if shown < len(failures) {
		sb.WriteString(remainingNote(len(failures)-shown, "failures"))
		sb.WriteString("\n")
	}

	sb.WriteString(Breaker(attempt, g.cfg.BreakerAttempt))
	return sb.String()
}

// TestJSON renders the machine-readable test payload
func (g *Generator) TestJSON(failures []model.TestFailure, attempt int) (string, error) {
	if failures == nil {
		failures = []model.TestFailure{}
	}
	payload := model.TestPayload{
		TotalFailures:  len(failures),
		Attempt:        attempt,
		CircuitBreaker: Tripped(attempt, g.cfg.BreakerAttempt),
		Failures:       failures,
	}
	return marshal(payload)
}

// ---------------------------------------------------------------------------
// Race reports
// ---------------------------------------------------------------------------

// RaceMarkdown renders the three race-report views: overall summary,
// ranked unique issue groups, and per-file actionable fixes.
func (g *Generator) RaceMarkdown(analysis *model.RaceAnalysis, attempt int) string {
	var sb strings.Builder

	if len(analysis.Issues) == 0 {
		sb.WriteString("## Thread Sanitizer: No issues detected\n")
		return sb.String()
	}

	sb.WriteString(fmt.Sprintf("## Thread Sanitizer: %d issues (%d unique patterns)\n\n",
		len(analysis.Issues), len(analysis.Groups)))

	// Summary view
	sb.WriteString("### Issue Types\n\n")
	for _, kind := range tsan.TopCounts(analysis.KindCounts, len(analysis.KindCounts)) {
		sb.WriteString(fmt.Sprintf("- %s: %d\n", kind.Name, kind.Count))
	}

	sb.WriteString(fmt.Sprintf("\n### Top %d Files\n\n", g.cfg.TopOffenders))
	for _, file := range tsan.TopCounts(analysis.FileCounts, g.cfg.TopOffenders) {
		sb.WriteString(fmt.Sprintf("- %s: %d issues\n", path.Base(file.Name), file.Count))
	}

	sb.WriteString(fmt.Sprintf("\n### Top %d Functions\n\n", g.cfg.TopOffenders))
	for _, fn := range tsan.TopCounts(analysis.FunctionCounts, g.cfg.TopOffenders) {
		sb.WriteString(fmt.Sprintf("- %s(): %d issues\n", fn.Name, fn.Count))
	}

	// Ranked unique groups
	limit := g.cfg.GroupLimit
	if limit > len(analysis.Groups) {
		limit = len(analysis.Groups)
	}
	sb.WriteString(fmt.Sprintf("\n### Unique Issues (top %d)\n", limit))
	for idx, group := range analysis.Groups[:limit] {
		rep := group.Representative()
		sb.WriteString(fmt.Sprintf("\n%d. %s\n", idx+1, rep.ShortDescription()))
		sb.WriteString(fmt.Sprintf("   Occurrences: %d\n", len(group.Issues)))
		sb.WriteString(fmt.Sprintf("   Thread: T%s\n", rep.ThreadID))
		frames := applicationFrames(rep.StackTrace)
		if len(frames) > 3 {
			frames = frames[:3]
		}
		if len(frames) > 0 {
			sb.WriteString("   Stack:\n")
			for _, frame := range frames {
				sb.WriteString(fmt.Sprintf("     - %s\n", frame))
			}
		}
	}
	if len(analysis.Groups) > limit {
		sb.WriteString("\n")
		sb.WriteString(remainingNote(len(analysis.Groups)-limit, "unique issues"))
	}

	// Actionable fixes
	sb.WriteString("\n### Actionable Fixes\n")
	g.writeRaceFixes(&sb, analysis)

	sb.WriteString(Breaker(attempt, g.cfg.BreakerAttempt))
	return sb.String()
}

// applicationFrames drops system and runtime frames from a stack.
// Grouping still sees the full trace; only the condensed view prunes.
func applicationFrames(frames []string) []string {
	var kept []string
	for _, frame := range frames {
		if !util.IsSystemFrame(frame) {
			kept = append(kept, frame)
		}
	}
	return kept
}

func (g *Generator) writeRaceFixes(sb *strings.Builder, analysis *model.RaceAnalysis) {
	byFile := tsan.FileIssues(analysis.Issues)

	for _, file := range tsan.TopCounts(analysis.FileCounts, g.cfg.TopOffenders) {
		issues := byFile[file.Name]
		sb.WriteString(fmt.Sprintf("\n**%s** (%d issues)\n", path.Base(file.Name), len(issues)))

		lines := tsan.DistinctLines(issues)
		if len(lines) > 10 {
			lines = lines[:10]
		}
		if len(lines) > 0 {
			sb.WriteString(fmt.Sprintf("- Lines: %s\n", strings.Join(lines, ", ")))
		}
		for _, hint := range tsan.FixHints(issues) {
			sb.WriteString(fmt.Sprintf("- %s\n", hint))
		}
	}
}

// RaceJSON renders the machine-readable race payload
func (g *Generator) RaceJSON(analysis *model.RaceAnalysis, attempt int) (string, error) {
	issues := analysis.Issues
	if issues == nil {
		issues = []model.RaceIssue{}
	}
	payload := model.RacePayload{
		TotalIssues:    len(analysis.Issues),
		UniquePatterns: len(analysis.Groups),
		Attempt:        attempt,
		CircuitBreaker: Tripped(attempt, g.cfg.BreakerAttempt),
		Issues:         issues,
	}
	return marshal(payload)
}

// ---------------------------------------------------------------------------
// Lint results
// ---------------------------------------------------------------------------

// LintMarkdown renders lint violations grouped by file
func (g *Generator) LintMarkdown(result model.LintResult, attempt int) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("## Concurrency Lint: %d errors, %d warnings (%d files touched)\n\n",
		result.ErrorCount(), result.WarningCount(), result.FilesTouched))

	if len(result.Violations) == 0 && result.BlastRadius == "" {
		sb.WriteString("**No violations** — added lines are clean.\n")
		return sb.String()
	}

	byFile := make(map[string][]model.LintViolation)
	var order []string
	for _, v := range result.Violations {
		if _, ok := byFile[v.FilePath]; !ok {
			order = append(order, v.FilePath)
		}
		byFile[v.FilePath] = append(byFile[v.FilePath], v)
	}

	for _, file := range order {
		sb.WriteString(fmt.Sprintf("### %s\n\n", file))
		for _, v := range byFile[file] {
			sb.WriteString(fmt.Sprintf("- **L%d** [%s/%s]: %s\n", v.Line, v.Severity, v.Rule, v.Message))
			sb.WriteString(fmt.Sprintf("  `%s`\n", v.Source))
		}
		sb.WriteString("\n")
	}

	if result.BlastRadius != "" {
		sb.WriteString(fmt.Sprintf("### Blast Radius\n\n%s\n\n", result.BlastRadius))
	}

	sb.WriteString(Breaker(attempt, g.cfg.BreakerAttempt))
	return sb.String()
}

// LintJSON renders the machine-readable lint payload
func (g *Generator) LintJSON(result model.LintResult, attempt int) (string, error) {
	violations := result.Violations
	if violations == nil {
		violations = []model.LintViolation{}
	}
	payload := model.LintPayload{
		Errors:         result.ErrorCount(),
		Warnings:       result.WarningCount(),
		FilesTouched:   result.FilesTouched,
		BlastRadius:    result.BlastRadius,
		Attempt:        attempt,
		CircuitBreaker: Tripped(attempt, g.cfg.BreakerAttempt),
		Violations:     violations,
	}
	return marshal(payload)
}

// ---------------------------------------------------------------------------
// Workspace discovery
// ---------------------------------------------------------------------------

// WorkspaceMarkdown renders the discovered schemes and targets
func (g *Generator) WorkspaceMarkdown(ws model.Workspace) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("## Workspace: %s\n\n", ws.Name))

	sb.WriteString("| Scheme | Type |\n")
	sb.WriteString("|--------|------|\n")
	schemes := append([]string(nil), ws.Schemes...)
	sort.Strings(schemes)
	for _, scheme := range schemes {
		sb.WriteString(fmt.Sprintf("| %s | %s |\n", scheme, classifyScheme(scheme)))
	}

	if len(ws.Targets) > 0 {
		var testTargets, appTargets []string
		for _, t := range ws.Targets {
			if strings.Contains(strings.ToLower(t), "test") {
				testTargets = append(testTargets, t)
			} else {
				appTargets = append(appTargets, t)
			}
		}

		sb.WriteString(fmt.Sprintf("\n### Targets (%d)\n\n", len(ws.Targets)))
		writeTargetList(&sb, "Source targets", appTargets)
		writeTargetList(&sb, "Test targets", testTargets)
	}

	sb.WriteString(fmt.Sprintf("\n> **%d schemes, %d targets** in `%s`\n", len(ws.Schemes), len(ws.Targets), ws.Name))
	return sb.String()
}

func writeTargetList(sb *strings.Builder, label string, targets []string) {
	if len(targets) == 0 {
		return
	}
	sort.Strings(targets)
	shown := targets
	if len(shown) > 15 {
		shown = shown[:15]
	}
	sb.WriteString(fmt.Sprintf("**%s:** %s\n", label, strings.Join(shown, ", ")))
	if len(targets) > len(shown) {
		sb.WriteString(remainingNote(len(targets)-len(shown), "targets"))
	}
}

func classifyScheme(scheme string) string {
	lower := strings.ToLower(scheme)
	switch {
	case strings.Contains(lower, "ui") && strings.Contains(lower, "test"):
		return "ui-test"
	case strings.Contains(lower, "test"):
		return "test"
	default:
		return "app"
	}
}

// WorkspaceJSON renders the machine-readable workspace listing
func (g *Generator) WorkspaceJSON(ws model.Workspace) (string, error) {
	return marshal(ws)
}

func marshal(payload any) (string, error) {
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling payload: %w", err)
	}
	return string(data), nil
}
