package tsan

import (
	"sort"
	"strings"

	"xcdistill/src/model"
	"xcdistill/src/util"
)

// Analyze groups parsed issues by signature and tallies occurrences per
// file and per function. Groups are ranked by descending member count;
// ties keep parse order, so repeated runs over identical input produce
// identical reports.
func Analyze(issues []model.RaceIssue) *model.RaceAnalysis {
	analysis := &model.RaceAnalysis{
		Issues:         issues,
		KindCounts:     make(map[string]int),
		FileCounts:     make(map[string]int),
		FunctionCounts: make(map[string]int),
	}

	groupIndex := make(map[string]int)
	for _, issue := range issues {
		sig := issue.Signature()
		if idx, ok := groupIndex[sig]; ok {
			analysis.Groups[idx].Issues = append(analysis.Groups[idx].Issues, issue)
		} else {
			groupIndex[sig] = len(analysis.Groups)
			analysis.Groups = append(analysis.Groups, model.RaceGroup{
				Signature: sig,
				Issues:    []model.RaceIssue{issue},
			})
		}

		analysis.KindCounts[issue.Kind]++
		analysis.FileCounts[locationFile(issue.Location)]++
		analysis.FunctionCounts[issue.Function]++
	}

	// Stable rank: count descending, first-seen order breaks ties
	sort.SliceStable(analysis.Groups, func(i, j int) bool {
		return len(analysis.Groups[i].Issues) > len(analysis.Groups[j].Issues)
	})

	util.Debug("Race analysis: %d issues, %d unique patterns", len(issues), len(analysis.Groups))
	return analysis
}

// locationFile strips the line number from a "file:line" location.
// Anything without a line number maps to "unknown".
func locationFile(location string) string {
	if idx := strings.LastIndex(location, ":"); idx >= 0 {
		return location[:idx]
	}
	return "unknown"
}

// Counted is a name with an occurrence count, used for top-N rankings
type Counted struct {
	Name  string
	Count int
}

// TopCounts returns at most n entries from a tally, ordered by descending
// count with name order breaking ties (determinism over map iteration).
func TopCounts(tally map[string]int, n int) []Counted {
	counted := make([]Counted, 0, len(tally))
	for name, count := range tally {
		counted = append(counted, Counted{Name: name, Count: count})
	}
	sort.Slice(counted, func(i, j int) bool {
		if counted[i].Count != counted[j].Count {
			return counted[i].Count > counted[j].Count
		}
		return counted[i].Name < counted[j].Name
	})
	if len(counted) > n {
		counted = counted[:n]
	}
	return counted
}

// FileIssues groups issues by their primary-location file, for the
// actionable-fix view.
func FileIssues(issues []model.RaceIssue) map[string][]model.RaceIssue {
	byFile := make(map[string][]model.RaceIssue)
	for _, issue := range issues {
		byFile[locationFile(issue.Location)] = append(byFile[locationFile(issue.Location)], issue)
	}
	return byFile
}

// DistinctLines returns the distinct line numbers of the issues' primary
// locations, sorted numerically.
func DistinctLines(issues []model.RaceIssue) []string {
	seen := make(map[string]bool)
	var lines []string
	for _, issue := range issues {
		if idx := strings.LastIndex(issue.Location, ":"); idx >= 0 {
			line := issue.Location[idx+1:]
			if !seen[line] {
				seen[line] = true
				lines = append(lines, line)
			}
		}
	}
	sort.Slice(lines, func(i, j int) bool {
		return len(lines[i]) < len(lines[j]) || (len(lines[i]) == len(lines[j]) && lines[i] < lines[j])
	})
	return lines
}

// FixHints returns one canned remediation hint per issue kind present.
// The table is data: a new analyzer kind means one more entry.
var fixHintTable = []struct {
	kind  string
	hints []string
}{
	{"data race", []string{
		"Wrap shared mutable state in an actor",
		"Mark UI-bound properties @MainActor",
	}},
	{"lock-order-inversion", []string{
		"Avoid nested locks; funnel access through a single actor",
	}},
	{"thread leak", []string{
		"Join or cancel spawned threads before teardown",
	}},
}

// FixHints collects the hints for every kind present among the issues,
// in table order.
func FixHints(issues []model.RaceIssue) []string {
	present := make(map[string]bool)
	for _, issue := range issues {
		present[issue.Kind] = true
	}

	var hints []string
	for _, entry := range fixHintTable {
		if present[entry.kind] {
			hints = append(hints, entry.hints...)
		}
	}
	return hints
}
