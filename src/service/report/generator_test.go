package report

import (
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"xcdistill/src/config"
	"xcdistill/src/model"
)

func newTestGenerator() *Generator {
	return NewGenerator(config.ReportConfig{})
}

func diag(file string, line int, severity model.Severity, message string) model.Diagnostic {
	return model.Diagnostic{FilePath: file, Line: line, Severity: severity, Message: message}
}

func TestCompileMarkdownCleanBuild(t *testing.T) {
	out := newTestGenerator().CompileMarkdown(nil, "MyApp", 1)
	assert.Contains(t, out, "0 errors, 0 warnings")
	assert.Contains(t, out, "scheme: MyApp")
	assert.Contains(t, out, "Clean build")
	assert.NotContains(t, out, "CIRCUIT BREAKER")
}

func TestCompileMarkdownGroupsByFile(t *testing.T) {
	diagnostics := []model.Diagnostic{
		diag("Sources/A.swift", 30, model.SeverityError, "first in A"),
		diag("Sources/B.swift", 5, model.SeverityError, "only in B"),
		diag("Sources/A.swift", 10, model.SeverityError, "second in A"),
		diag("Sources/A.swift", 99, model.SeverityWarning, "unused variable"),
	}

	out := newTestGenerator().CompileMarkdown(diagnostics, "", 1)

	// Noisiest file leads, and its errors are line-sorted
	aIdx := strings.Index(out, "A.swift (2 errors)")
	bIdx := strings.Index(out, "B.swift (1 errors)")
	require.GreaterOrEqual(t, aIdx, 0)
	require.GreaterOrEqual(t, bIdx, 0)
	assert.Less(t, aIdx, bIdx)
	assert.Less(t, strings.Index(out, "second in A"), strings.Index(out, "first in A"))

	assert.Contains(t, out, "Top 1 Warnings")
	assert.Contains(t, out, "unused variable")
}

func TestCompileMarkdownCapsIssues(t *testing.T) {
	var diagnostics []model.Diagnostic
	for i := 1; i <= 30; i++ {
		diagnostics = append(diagnostics,
			diag("Sources/Big.swift", i, model.SeverityError, fmt.Sprintf("error %d", i)))
	}

	out := newTestGenerator().CompileMarkdown(diagnostics, "", 1)
	assert.Contains(t, out, "error 20")
	assert.NotContains(t, out, "error 21")
	assert.Contains(t, out, "_(10 more errors not shown)_")
}

func TestCompileMarkdownBreaker(t *testing.T) {
	diagnostics := []model.Diagnostic{diag("A.swift", 1, model.SeverityError, "boom")}

	assert.NotContains(t, newTestGenerator().CompileMarkdown(diagnostics, "", 2), "CIRCUIT BREAKER")
	assert.Contains(t, newTestGenerator().CompileMarkdown(diagnostics, "", 3), "CIRCUIT BREAKER")
}

func TestCompileJSON(t *testing.T) {
	diagnostics := []model.Diagnostic{
		diag("Sources/A.swift", 1, model.SeverityError, "boom"),
		diag("Sources/A.swift", 2, model.SeverityWarning, "meh"),
	}

	out, err := newTestGenerator().CompileJSON(diagnostics, 3)
	require.NoError(t, err)

	var payload map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &payload))
	assert.Equal(t, float64(1), payload["errors"])
	assert.Equal(t, float64(1), payload["warnings"])
	assert.Equal(t, float64(3), payload["attempt"])
	assert.Equal(t, true, payload["circuit_breaker"])
	assert.Len(t, payload["diagnostics"], 2)
}

func TestTestMarkdownAllPassed(t *testing.T) {
	out := newTestGenerator().TestMarkdown(nil, 1)
	assert.Contains(t, out, "All tests passed")
	assert.NotContains(t, out, "CIRCUIT BREAKER")
}

func TestTestMarkdownGroupsByClass(t *testing.T) {
	failures := []model.TestFailure{
		{TestClass: "AuthTests", TestMethod: "testA()", Message: "line one\nline two",
			FilePath: "Sources/AuthTests.swift", Line: 41, Duration: 1.5},
		{TestMethod: "testOrphan()"},
		{TestClass: "AuthTests", TestMethod: "testB()"},
	}

	out := newTestGenerator().TestMarkdown(failures, 1)
	assert.Contains(t, out, "3 failures")
	assert.Contains(t, out, "AuthTests (2 failures)")
	assert.Contains(t, out, "(unknown) (1 failures)")
	assert.Contains(t, out, "(1.5s)")
	assert.Contains(t, out, "`Sources/AuthTests.swift:41`")
	// Multi-line messages collapse to one quoted line
	assert.Contains(t, out, "> line one line two")
}

func TestTestJSONEmptyFailuresIsArray(t *testing.T) {
	out, err := newTestGenerator().TestJSON(nil, 0)
	require.NoError(t, err)
	assert.Contains(t, out, `"failures": []`)
	assert.Contains(t, out, `"total_failures": 0`)
}

func TestRaceMarkdownNoIssues(t *testing.T) {
	out := newTestGenerator().RaceMarkdown(&model.RaceAnalysis{}, 1)
	assert.Contains(t, out, "No issues detected")
}

func TestRaceMarkdownViews(t *testing.T) {
	issueA := model.RaceIssue{
		Kind: "data race", Function: "Cache.store", Location: "Sources/Cache.swift:88",
		ThreadID: "7",
		StackTrace: []string{
			"Cache.store (Sources/Cache.swift:88)",
			"Session.refresh (Sources/Session.swift:31)",
			"Cache.lookup (Sources/Cache.swift:95)",
			"deep frame (Sources/Deep.swift:1)",
		},
	}
	issueB := issueA
	issueB.Location = "Sources/Cache.swift:91"
	issueC := model.RaceIssue{Kind: "thread leak", Function: "Worker.spawn", Location: "Sources/Worker.swift:12"}

	analysis := &model.RaceAnalysis{
		Issues: []model.RaceIssue{issueA, issueB, issueC},
		Groups: []model.RaceGroup{
			{Signature: issueA.Signature(), Issues: []model.RaceIssue{issueA, issueB}},
			{Signature: issueC.Signature(), Issues: []model.RaceIssue{issueC}},
		},
		KindCounts:     map[string]int{"data race": 2, "thread leak": 1},
		FileCounts:     map[string]int{"Sources/Cache.swift": 2, "Sources/Worker.swift": 1},
		FunctionCounts: map[string]int{"Cache.store": 2, "Worker.spawn": 1},
	}

	out := newTestGenerator().RaceMarkdown(analysis, 1)

	assert.Contains(t, out, "3 issues (2 unique patterns)")
	assert.Contains(t, out, "- data race: 2")
	assert.Contains(t, out, "- Cache.swift: 2 issues")
	assert.Contains(t, out, "- Cache.store(): 2 issues")

	assert.Contains(t, out, "1. DATA RACE in Cache.store at Sources/Cache.swift:88")
	assert.Contains(t, out, "Occurrences: 2")
	assert.Contains(t, out, "Thread: T7")
	// Only the first three frames of the representative are shown
	assert.Contains(t, out, "Cache.lookup (Sources/Cache.swift:95)")
	assert.NotContains(t, out, "deep frame")

	assert.Contains(t, out, "Actionable Fixes")
	assert.Contains(t, out, "Lines: 88, 91")
	assert.Contains(t, out, "Wrap shared mutable state in an actor")
}

func TestRaceMarkdownPrunesSystemFrames(t *testing.T) {
	issue := model.RaceIssue{
		Kind: "data race", Function: "Cache.store", Location: "Sources/Cache.swift:88",
		ThreadID: "7",
		StackTrace: []string{
			"_dispatch_call_block_and_release (libdispatch.dylib:100)",
			"_pthread_wqthread (libsystem_pthread.dylib:200)",
			"Cache.store (Sources/Cache.swift:88)",
			"Session.refresh (Sources/Session.swift:31)",
		},
	}
	analysis := &model.RaceAnalysis{
		Issues:         []model.RaceIssue{issue},
		Groups:         []model.RaceGroup{{Signature: issue.Signature(), Issues: []model.RaceIssue{issue}}},
		KindCounts:     map[string]int{"data race": 1},
		FileCounts:     map[string]int{"Sources/Cache.swift": 1},
		FunctionCounts: map[string]int{"Cache.store": 1},
	}

	out := newTestGenerator().RaceMarkdown(analysis, 1)
	assert.NotContains(t, out, "_dispatch_call_block_and_release")
	assert.NotContains(t, out, "libsystem_pthread")
	assert.Contains(t, out, "Cache.store (Sources/Cache.swift:88)")
	assert.Contains(t, out, "Session.refresh (Sources/Session.swift:31)")
}

func TestRaceMarkdownAllFramesSystemOmitsStack(t *testing.T) {
	issue := model.RaceIssue{
		Kind: "data race", Function: "thunk", Location: "libdispatch.dylib:100",
		StackTrace: []string{"_dispatch_call_block_and_release (libdispatch.dylib:100)"},
	}
	analysis := &model.RaceAnalysis{
		Issues:         []model.RaceIssue{issue},
		Groups:         []model.RaceGroup{{Signature: issue.Signature(), Issues: []model.RaceIssue{issue}}},
		KindCounts:     map[string]int{"data race": 1},
		FileCounts:     map[string]int{"libdispatch.dylib": 1},
		FunctionCounts: map[string]int{"thunk": 1},
	}

	out := newTestGenerator().RaceMarkdown(analysis, 1)
	assert.NotContains(t, out, "Stack:")
}

func TestRaceMarkdownGroupLimit(t *testing.T) {
	analysis := &model.RaceAnalysis{
		KindCounts:     map[string]int{"data race": 12},
		FileCounts:     map[string]int{},
		FunctionCounts: map[string]int{},
	}
	for i := 0; i < 12; i++ {
		issue := model.RaceIssue{Kind: "data race", Function: fmt.Sprintf("fn%02d", i),
			Location: fmt.Sprintf("Sources/F%02d.swift:%d", i, i+1)}
		analysis.Issues = append(analysis.Issues, issue)
		analysis.Groups = append(analysis.Groups, model.RaceGroup{
			Signature: issue.Signature(), Issues: []model.RaceIssue{issue},
		})
	}

	out := newTestGenerator().RaceMarkdown(analysis, 1)
	assert.Contains(t, out, "Unique Issues (top 10)")
	assert.Contains(t, out, "_(2 more unique issues not shown)_")
}

func TestRaceJSON(t *testing.T) {
	analysis := &model.RaceAnalysis{
		Issues: []model.RaceIssue{{Kind: "data race", Function: "f", Location: "a.swift:1", ThreadID: "2"}},
		Groups: []model.RaceGroup{{Signature: "s", Issues: []model.RaceIssue{{Kind: "data race"}}}},
	}

	out, err := newTestGenerator().RaceJSON(analysis, 0)
	require.NoError(t, err)

	var payload map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &payload))
	assert.Equal(t, float64(1), payload["total_issues"])
	assert.Equal(t, float64(1), payload["unique_patterns"])
	assert.Equal(t, false, payload["circuit_breaker"])
}

func TestLintMarkdown(t *testing.T) {
	result := model.LintResult{
		Violations: []model.LintViolation{
			{FilePath: "Sources/A.swift", Line: 11, Rule: "unchecked-sendable",
				Severity: model.SeverityError, Message: "Remove it", Source: "class Box: @unchecked Sendable {"},
			{FilePath: "Sources/A.swift", Line: 20, Rule: "nslock",
				Severity: model.SeverityWarning, Message: "Prefer an actor", Source: "let lock = NSLock()"},
		},
		FilesTouched: 1,
	}

	out := newTestGenerator().LintMarkdown(result, 1)
	assert.Contains(t, out, "1 errors, 1 warnings (1 files touched)")
	assert.Contains(t, out, "### Sources/A.swift")
	assert.Contains(t, out, "[error/unchecked-sendable]")
	assert.Contains(t, out, "[warning/nslock]")
}

func TestLintMarkdownClean(t *testing.T) {
	out := newTestGenerator().LintMarkdown(model.LintResult{FilesTouched: 2}, 1)
	assert.Contains(t, out, "No violations")
}

func TestLintMarkdownBlastRadiusOnly(t *testing.T) {
	result := model.LintResult{FilesTouched: 16, BlastRadius: "Change touches 16 files (max 15)."}
	out := newTestGenerator().LintMarkdown(result, 1)
	assert.Contains(t, out, "### Blast Radius")
	assert.NotContains(t, out, "No violations")
}

func TestLintJSON(t *testing.T) {
	result := model.LintResult{FilesTouched: 3}
	out, err := newTestGenerator().LintJSON(result, 4)
	require.NoError(t, err)

	var payload map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &payload))
	assert.Equal(t, float64(3), payload["files_touched"])
	assert.Equal(t, true, payload["circuit_breaker"])
	assert.Equal(t, []any{}, payload["violations"])
	_, hasBlast := payload["blast_radius"]
	assert.False(t, hasBlast)
}

func TestWorkspaceMarkdown(t *testing.T) {
	ws := model.Workspace{
		Name:    "MyApp",
		Schemes: []string{"MyApp", "MyAppUITests", "MyAppTests"},
		Targets: []string{"MyApp", "MyAppTests", "Networking"},
	}

	out := newTestGenerator().WorkspaceMarkdown(ws)
	assert.Contains(t, out, "## Workspace: MyApp")
	assert.Contains(t, out, "| MyApp | app |")
	assert.Contains(t, out, "| MyAppTests | test |")
	assert.Contains(t, out, "| MyAppUITests | ui-test |")
	assert.Contains(t, out, "**Source targets:** MyApp, Networking")
	assert.Contains(t, out, "**Test targets:** MyAppTests")
	assert.Contains(t, out, "**3 schemes, 3 targets**")
}
