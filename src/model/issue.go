package model

import (
	"strconv"
	"strings"
)

// Severity represents the severity of a diagnostic or lint violation
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityNote    Severity = "note"
)

// Diagnostic represents a single compiler error, warning, or note
type Diagnostic struct {
	FilePath string   `json:"file"`
	Line     int      `json:"line"`
	Column   int      `json:"column"`
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
}

// DedupKey returns the identity used to drop duplicate diagnostics.
// Column is deliberately excluded: the same error is often reported at
// slightly different columns across incremental builds.
func (d Diagnostic) DedupKey() string {
	return d.FilePath + ":" + strconv.Itoa(d.Line) + ":" + d.Message
}

// TestFailure represents a single failing test case extracted from a
// structured test-result bundle. Multiple failures for the same method
// within one run are all retained.
type TestFailure struct {
	TestClass  string  `json:"class"`
	TestMethod string  `json:"method"`
	Message    string  `json:"message"`
	FilePath   string  `json:"file"`
	Line       int     `json:"line"`
	Duration   float64 `json:"duration,omitempty"`
}

// RaceIssue represents one thread-safety-analyzer report of a concurrent
// access hazard.
type RaceIssue struct {
	Kind       string   `json:"type"`     // e.g. "data race", "lock-order-inversion"
	Location   string   `json:"location"` // file:line of the first frame
	Function   string   `json:"function"`
	ThreadID   string   `json:"thread"`
	StackTrace []string `json:"-"` // "function (file:line)", call order
}

// Signature derives the grouping key for equivalent issues: kind, primary
// function, and the first three stack frames. Frames past the third differ
// too often (inlining, dispatch thunks) to help identity.
func (r RaceIssue) Signature() string {
	frames := strings.Join(firstN(r.StackTrace, 3), "->")
	return r.Kind + ":" + r.Function + ":" + frames
}

// ShortDescription is the one-line summary used for group representatives
func (r RaceIssue) ShortDescription() string {
	return strings.ToUpper(r.Kind) + " in " + r.Function + " at " + r.Location
}

// RaceGroup is a set of issues sharing one signature. The representative is
// the first-parsed member.
type RaceGroup struct {
	Signature string
	Issues    []RaceIssue
}

// Representative returns the first-parsed member of the group
func (g RaceGroup) Representative() RaceIssue {
	return g.Issues[0]
}

// RaceAnalysis is the grouped and tallied view of a parsed race report
type RaceAnalysis struct {
	Issues         []RaceIssue
	Groups         []RaceGroup    // ranked by descending member count, parse order tie-break
	KindCounts     map[string]int // per issue kind
	FileCounts     map[string]int // per primary-location file
	FunctionCounts map[string]int // per primary function
}

// LintViolation represents one matched concurrency pattern in a diff
type LintViolation struct {
	FilePath string   `json:"file"`
	Line     int      `json:"line"` // post-change line number, approximate
	Rule     string   `json:"rule"`
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
	Source   string   `json:"source"` // the offending added line, trimmed
}

// LintResult is the outcome of scanning one unified diff
type LintResult struct {
	Violations   []LintViolation
	BlastRadius  string // non-empty when the change touches too many files
	FilesTouched int
}

// ErrorCount returns the number of error-severity violations
func (r LintResult) ErrorCount() int {
	n := 0
	for _, v := range r.Violations {
		if v.Severity == SeverityError {
			n++
		}
	}
	return n
}

// WarningCount returns the number of warning-severity violations
func (r LintResult) WarningCount() int {
	return len(r.Violations) - r.ErrorCount()
}

// Failed reports whether the lint outcome should fail the invocation
func (r LintResult) Failed() bool {
	return r.ErrorCount() > 0 || r.BlastRadius != ""
}

// Workspace describes the schemes and targets discovered in a workspace
type Workspace struct {
	Name    string   `json:"workspace"`
	Schemes []string `json:"schemes"`
	Targets []string `json:"targets"`
}

func firstN(s []string, n int) []string {
	if len(s) < n {
		return s
	}
	return s[:n]
}
