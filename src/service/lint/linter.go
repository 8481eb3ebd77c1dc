// Package lint scans unified-diff text for unsafe concurrency idioms in
// added lines. Classification is line-oriented pattern matching over the
// diff itself, so it stays cheap enough to run on every incremental change
// and independent of any compiler internals.
package lint

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"xcdistill/src/config"
	"xcdistill/src/model"
	"xcdistill/src/util"
)

var (
	fileHeaderRe = regexp.MustCompile(`^\+\+\+ b/(.+)$`)
	hunkHeaderRe = regexp.MustCompile(`^@@ -\d+(?:,\d+)? \+(\d+)(?:,\d+)? @@`)
)

// Linter scans diffs against the rule tables
type Linter struct {
	cfg config.LintConfig
}

// NewLinter creates a linter from config
func NewLinter(cfg config.LintConfig) *Linter {
	if cfg.MaxFiles <= 0 {
		cfg.MaxFiles = 15
	}
	if len(cfg.JustificationKeywords) == 0 {
		cfg.JustificationKeywords = []string{"justification", "safe because", "invariant", "synchronized by"}
	}
	return &Linter{cfg: cfg}
}

// Scan evaluates every added, non-comment line of a unified diff against
// the forbidden, conditional, and warning rule tables, and checks the
// change's blast radius (distinct files touched).
func (l *Linter) Scan(diff string) model.LintResult {
	var result model.LintResult

	currentFile := ""
	lineNum := 0
	prevLine := "" // previous emitted diff line, tracked across hunks
	touched := make(map[string]bool)

	for _, raw := range strings.Split(diff, "\n") {
		switch {
		case strings.HasPrefix(raw, "+++ "):
			if m := fileHeaderRe.FindStringSubmatch(raw); m != nil {
				currentFile = m[1]
				touched[currentFile] = true
			}

		case strings.HasPrefix(raw, "@@"):
			if m := hunkHeaderRe.FindStringSubmatch(raw); m != nil {
				start, _ := strconv.Atoi(m[1])
				// The first non-removed line of the hunk is the start line
				lineNum = start - 1
			}

		case strings.HasPrefix(raw, "-"):
			// Removed lines do not advance the post-change counter

		case strings.HasPrefix(raw, `\`):
			// "\ No newline at end of file" markers are not content lines

		case strings.HasPrefix(raw, "+"):
			lineNum++
			added := strings.TrimPrefix(raw, "+")
			l.checkLine(currentFile, lineNum, added, prevLine, &result)

		default:
			// Context line
			lineNum++
		}

		prevLine = raw
	}

	result.FilesTouched = len(touched)
	if result.FilesTouched > l.cfg.MaxFiles {
		result.BlastRadius = fmt.Sprintf(
			"Change touches %d files (max %d). Split it, or narrow the scope so the concurrency impact stays reviewable.",
			result.FilesTouched, l.cfg.MaxFiles)
	}

	util.Debug("Lint scan: %d files touched, %d violations", result.FilesTouched, len(result.Violations))
	return result
}

func (l *Linter) checkLine(file string, line int, content, prevLine string, result *model.LintResult) {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" || isComment(trimmed) {
		return
	}

	for _, rule := range forbiddenRules {
		if strings.Contains(content, rule.Pattern) {
			result.Violations = append(result.Violations, model.LintViolation{
				FilePath: file,
				Line:     line,
				Rule:     rule.Name,
				Severity: model.SeverityError,
				Message:  rule.Message,
				Source:   trimmed,
			})
		}
	}

	// Project-specific patterns from config are treated as forbidden
	for _, pattern := range l.cfg.ExtraPatterns {
		if strings.Contains(content, pattern) {
			result.Violations = append(result.Violations, model.LintViolation{
				FilePath: file,
				Line:     line,
				Rule:     "custom-pattern",
				Severity: model.SeverityError,
				Message:  fmt.Sprintf("Forbidden pattern %q (configured in lint.extra_patterns)", pattern),
				Source:   trimmed,
			})
		}
	}

	for _, rule := range conditionalRules {
		if strings.Contains(content, rule.Pattern) && !l.isJustified(prevLine) {
			result.Violations = append(result.Violations, model.LintViolation{
				FilePath: file,
				Line:     line,
				Rule:     rule.Name,
				Severity: model.SeverityError,
				Message:  rule.Message + " (no justification comment found on the preceding line)",
				Source:   trimmed,
			})
		}
	}

	for _, rule := range warningRules {
		if strings.Contains(content, rule.Pattern) {
			result.Violations = append(result.Violations, model.LintViolation{
				FilePath: file,
				Line:     line,
				Rule:     rule.Name,
				Severity: model.SeverityWarning,
				Message:  rule.Message,
				Source:   trimmed,
			})
		}
	}
}

// isJustified reports whether the previous emitted diff line is a comment
// carrying one of the justification keywords.
func (l *Linter) isJustified(prevLine string) bool {
	content := strings.TrimSpace(strings.TrimLeft(prevLine, "+- "))
	if !isComment(content) {
		return false
	}
	lower := strings.ToLower(content)
	for _, keyword := range l.cfg.JustificationKeywords {
		if strings.Contains(lower, keyword) {
			return true
		}
	}
	return false
}

// isComment reports whether a trimmed source line opens a comment.
// Comments cannot introduce runtime violations.
func isComment(trimmed string) bool {
	return strings.HasPrefix(trimmed, "//") || strings.HasPrefix(trimmed, "/*") || strings.HasPrefix(trimmed, "*")
}
