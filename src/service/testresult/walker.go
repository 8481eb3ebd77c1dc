// Package testresult walks the structured JSON export of a test-result
// bundle and pulls out failing test cases. The schema is externally
// controlled and may omit fields: an absent field yields a zero value,
// never an aborted walk.
package testresult

import (
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"xcdistill/src/model"
	"xcdistill/src/util"
)

var lineNumberRe = regexp.MustCompile(`StartingLineNumber=(\d+)`)

// Walker extracts test failures from a result document
type Walker struct {
	sourceRoot   string
	messageLimit int
}

// NewWalker creates a walker. messageLimit caps failure messages; values
// below 1 fall back to 200.
func NewWalker(sourceRoot string, messageLimit int) *Walker {
	if messageLimit < 1 {
		messageLimit = 200
	}
	return &Walker{sourceRoot: sourceRoot, messageLimit: messageLimit}
}

// Walk recursively discovers every finished test-case node in the document
// and returns one TestFailure per node whose status is "Failure". Traversal
// order is not significant; callers group and sort the result.
func (w *Walker) Walk(doc any) []model.TestFailure {
	var failures []model.TestFailure
	w.walk(doc, &failures)
	util.Debug("Test-result walk found %d failures", len(failures))
	return failures
}

func (w *Walker) walk(node any, failures *[]model.TestFailure) {
	switch n := node.(type) {
	case map[string]any:
		w.visitNode(n, failures)
		for _, value := range n {
			w.walk(value, failures)
		}
	case []any:
		for _, item := range n {
			w.walk(item, failures)
		}
	}
}

func (w *Walker) visitNode(node map[string]any, failures *[]model.TestFailure) {
	nodeType := nestedString(node, "_type", "_name")
	if nodeType != "ActionTestMetadata" && nodeType != "ActionTestSummary" {
		return
	}
	if nestedString(node, "testStatus", "_value") != "Failure" {
		return
	}

	name := nestedString(node, "name", "_value")
	identifier := nestedString(node, "identifier", "_value")

	// Identifiers look like "SuiteName/testMethod()"; the part after the
	// last separator is the method.
	testClass := ""
	testMethod := name
	if idx := strings.LastIndex(identifier, "/"); idx >= 0 {
		testClass = identifier[:idx]
		testMethod = identifier[idx+1:]
	} else if identifier != "" {
		testMethod = identifier
	}

	message, filePath, line := w.firstFailureSummary(node)

	failure := model.TestFailure{
		TestClass:  testClass,
		TestMethod: testMethod,
		Message:    truncate(message, w.messageLimit),
		FilePath:   filePath,
		Line:       line,
		Duration:   nestedFloat(node, "duration", "_value"),
	}
	*failures = append(*failures, failure)
}

// firstFailureSummary extracts the message and source location from the
// first entry of the node's failureSummaries, if any.
func (w *Walker) firstFailureSummary(node map[string]any) (message, filePath string, line int) {
	summaries := nestedValues(node, "failureSummaries")
	if len(summaries) == 0 {
		return "", "", 0
	}
	first, ok := summaries[0].(map[string]any)
	if !ok {
		return "", "", 0
	}

	message = nestedString(first, "message", "_value")

	loc, _ := first["documentLocationInCreatingWorkspace"].(map[string]any)
	url := nestedString(loc, "url", "_value")
	if url == "" {
		return message, "", 0
	}

	// URLs look like file:///path/to/File.swift#StartingLineNumber=41&...
	rawPath := url
	fragment := ""
	if idx := strings.Index(url, "#"); idx >= 0 {
		rawPath = url[:idx]
		fragment = url[idx+1:]
	}
	filePath = util.RelativizePath(strings.TrimPrefix(rawPath, "file://"), w.sourceRoot)

	if m := lineNumberRe.FindStringSubmatch(fragment); m != nil {
		line, _ = strconv.Atoi(m[1])
	}

	return message, filePath, line
}

// nestedString reads node[key][subkey] as a string, tolerating any missing
// or mistyped level.
func nestedString(node map[string]any, key, subkey string) string {
	inner, ok := node[key].(map[string]any)
	if !ok {
		return ""
	}
	s, _ := inner[subkey].(string)
	return s
}

// nestedFloat reads node[key][subkey] as a float64. The export sometimes
// carries numbers as strings; both are accepted.
func nestedFloat(node map[string]any, key, subkey string) float64 {
	inner, ok := node[key].(map[string]any)
	if !ok {
		return 0
	}
	switch v := inner[subkey].(type) {
	case float64:
		return v
	case string:
		f, _ := strconv.ParseFloat(v, 64)
		return f
	}
	return 0
}

// nestedValues reads node[key]["_values"] as a list
func nestedValues(node map[string]any, key string) []any {
	inner, ok := node[key].(map[string]any)
	if !ok {
		return nil
	}
	values, _ := inner["_values"].([]any)
	return values
}

// truncate caps s at limit bytes without splitting a multibyte character
func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	for limit > 0 && !utf8.RuneStart(s[limit]) {
		limit--
	}
	return s[:limit]
}
