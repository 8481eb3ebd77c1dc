// Package compile distills raw compiler output into structured,
// deduplicated diagnostics. The input is the full build log; anything not
// matching the one-diagnostic-per-line shape is build-system noise and
// skipped.
package compile

import (
	"regexp"
	"strconv"
	"strings"

	"xcdistill/src/model"
	"xcdistill/src/util"
)

// diagnosticRe matches one compiler diagnostic:
//
//	/path/to/File.swift:42:5: error: some message
var diagnosticRe = regexp.MustCompile(`^(.+?):(\d+):(\d+):\s+(error|warning|note):\s+(.+)$`)

// Extractor parses compiler output into diagnostics
type Extractor struct {
	sourceRoot string
}

// NewExtractor creates an extractor. sourceRoot may be empty; paths then
// relativize by heuristic.
func NewExtractor(sourceRoot string) *Extractor {
	return &Extractor{sourceRoot: sourceRoot}
}

// Extract parses raw multi-line compiler output into an ordered, deduplicated
// list of diagnostics. Duplicates share (file, line, message); the first
// occurrence wins and encounter order is preserved.
func (e *Extractor) Extract(raw string) []model.Diagnostic {
	var diagnostics []model.Diagnostic
	seen := make(map[string]bool)

	for _, line := range strings.Split(raw, "\n") {
		m := diagnosticRe.FindStringSubmatch(strings.TrimSpace(line))
		if m == nil {
			continue
		}

		lineNum, _ := strconv.Atoi(m[2])
		col, _ := strconv.Atoi(m[3])

		d := model.Diagnostic{
			FilePath: util.RelativizePath(m[1], e.sourceRoot),
			Line:     lineNum,
			Column:   col,
			Severity: model.Severity(m[4]),
			Message:  strings.TrimSpace(m[5]),
		}

		key := d.DedupKey()
		if seen[key] {
			continue
		}
		seen[key] = true

		diagnostics = append(diagnostics, d)
	}

	util.Debug("Extracted %d unique diagnostics from compiler output", len(diagnostics))
	return diagnostics
}

// SplitBySeverity partitions diagnostics into errors, warnings, and notes,
// preserving order within each class.
func SplitBySeverity(diagnostics []model.Diagnostic) (errors, warnings, notes []model.Diagnostic) {
	for _, d := range diagnostics {
		switch d.Severity {
		case model.SeverityError:
			errors = append(errors, d)
		case model.SeverityWarning:
			warnings = append(warnings, d)
		default:
			notes = append(notes, d)
		}
	}
	return errors, warnings, notes
}
