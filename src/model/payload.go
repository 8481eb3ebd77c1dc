package model

// Machine-readable payloads. Field names are a stable contract with
// automated consumers; the circuit breaker only ever flips the boolean,
// never the structure.

// CompilePayload is the JSON form of a distilled build result
type CompilePayload struct {
	Errors         int          `json:"errors"`
	Warnings       int          `json:"warnings"`
	Attempt        int          `json:"attempt"`
	CircuitBreaker bool         `json:"circuit_breaker"`
	Diagnostics    []Diagnostic `json:"diagnostics"`
}

// TestPayload is the JSON form of extracted test failures
type TestPayload struct {
	TotalFailures  int           `json:"total_failures"`
	Attempt        int           `json:"attempt"`
	CircuitBreaker bool          `json:"circuit_breaker"`
	Failures       []TestFailure `json:"failures"`
}

// RacePayload is the JSON form of a grouped race report
type RacePayload struct {
	TotalIssues    int         `json:"total_issues"`
	UniquePatterns int         `json:"unique_patterns"`
	Attempt        int         `json:"attempt"`
	CircuitBreaker bool        `json:"circuit_breaker"`
	Issues         []RaceIssue `json:"issues"`
}

// LintPayload is the JSON form of a diff lint result
type LintPayload struct {
	Errors         int             `json:"errors"`
	Warnings       int             `json:"warnings"`
	FilesTouched   int             `json:"files_touched"`
	BlastRadius    string          `json:"blast_radius,omitempty"`
	Attempt        int             `json:"attempt"`
	CircuitBreaker bool            `json:"circuit_breaker"`
	Violations     []LintViolation `json:"violations"`
}

// PolicyError signals that an analysis succeeded but its result must fail
// the invocation (lint errors, blast radius). It is distinct from input or
// tooling errors: the report has already been printed when it is returned.
type PolicyError struct {
	Errors      int
	BlastRadius bool
}

func (e *PolicyError) Error() string {
	switch {
	case e.Errors > 0 && e.BlastRadius:
		return "lint failed: forbidden patterns found and change exceeds blast radius"
	case e.BlastRadius:
		return "lint failed: change exceeds blast radius"
	default:
		return "lint failed: forbidden patterns found"
	}
}
