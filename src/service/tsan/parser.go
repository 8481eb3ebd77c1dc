// Package tsan parses raw thread-safety-analyzer output into structured
// race issues and groups them by signature for ranked reporting.
package tsan

import (
	"regexp"
	"strings"

	"xcdistill/src/model"
	"xcdistill/src/util"
)

var (
	// issueStartRe matches "WARNING: ThreadSanitizer: data race (pid=...)"
	issueStartRe = regexp.MustCompile(`WARNING: ThreadSanitizer: (.*?) \(`)
	// frameRe matches "  #3 MyClass.doWork() /path/File.swift:42"
	frameRe = regexp.MustCompile(`^\s*#\d+\s+(.+?)\s+(.+?):(\d+)`)
	// threadRe matches "Thread T7 (tid=...)"
	threadRe = regexp.MustCompile(`Thread T(\d+)`)
)

// Parser is a two-state line machine over analyzer output: scanning for an
// issue-start marker, then collecting thread id and stack frames until the
// next marker or end of input. Lines matching nothing are ignored, so a
// truncated or garbled report degrades to fewer frames instead of failing.
type Parser struct {
	sourceRoot string
}

// NewParser creates a parser. sourceRoot may be empty.
func NewParser(sourceRoot string) *Parser {
	return &Parser{sourceRoot: sourceRoot}
}

// Parse converts raw analyzer output into structured issues, in report order.
func (p *Parser) Parse(raw string) []model.RaceIssue {
	var issues []model.RaceIssue
	var current *model.RaceIssue

	for _, line := range strings.Split(raw, "\n") {
		if m := issueStartRe.FindStringSubmatch(line); m != nil {
			if current != nil {
				issues = append(issues, *current)
			}
			current = &model.RaceIssue{Kind: m[1]}
			continue
		}

		if current == nil {
			continue
		}

		// First thread marker wins; later frame dumps reference the other
		// side of the race.
		if m := threadRe.FindStringSubmatch(line); m != nil && current.ThreadID == "" {
			current.ThreadID = m[1]
		}

		if m := frameRe.FindStringSubmatch(line); m != nil {
			function := strings.TrimSpace(m[1])
			location := util.RelativizePath(m[2], p.sourceRoot) + ":" + m[3]

			if current.Location == "" {
				current.Location = location
				current.Function = function
			}
			current.StackTrace = append(current.StackTrace, function+" ("+location+")")
		}
	}

	if current != nil {
		issues = append(issues, *current)
	}

	util.Debug("Parsed %d race issues from analyzer output", len(issues))
	return issues
}
