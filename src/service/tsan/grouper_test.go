package tsan

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"xcdistill/src/model"
)

func raceIssue(kind, function, location string, frames ...string) model.RaceIssue {
	return model.RaceIssue{
		Kind:       kind,
		Function:   function,
		Location:   location,
		StackTrace: frames,
	}
}

func TestAnalyzeGroupsBySignature(t *testing.T) {
	same1 := raceIssue("data race", "Cache.store", "Sources/Cache.swift:88", "f1", "f2", "f3", "f4")
	same2 := raceIssue("data race", "Cache.store", "Sources/Cache.swift:91", "f1", "f2", "f3", "different-tail")
	other := raceIssue("thread leak", "Worker.spawn", "Sources/Worker.swift:12", "g1")

	analysis := Analyze([]model.RaceIssue{other, same1, same2})
	require.Len(t, analysis.Groups, 2)

	// Larger group ranks first regardless of parse order
	assert.Len(t, analysis.Groups[0].Issues, 2)
	assert.Equal(t, same1.Signature(), analysis.Groups[0].Signature)
	assert.Len(t, analysis.Groups[1].Issues, 1)

	assert.Equal(t, 2, analysis.KindCounts["data race"])
	assert.Equal(t, 1, analysis.KindCounts["thread leak"])
	assert.Equal(t, 2, analysis.FileCounts["Sources/Cache.swift"])
	assert.Equal(t, 2, analysis.FunctionCounts["Cache.store"])
}

func TestAnalyzeLocationWithoutLineIsUnknown(t *testing.T) {
	issues := []model.RaceIssue{
		raceIssue("data race", "f", ""),
		raceIssue("data race", "g", "mystery-frame"),
	}

	analysis := Analyze(issues)
	assert.Equal(t, 2, analysis.FileCounts["unknown"])
}

func TestAnalyzeTiesKeepParseOrder(t *testing.T) {
	a := raceIssue("data race", "A.run", "Sources/A.swift:1")
	b := raceIssue("data race", "B.run", "Sources/B.swift:2")

	analysis := Analyze([]model.RaceIssue{a, b})
	require.Len(t, analysis.Groups, 2)
	assert.Equal(t, "A.run", analysis.Groups[0].Issues[0].Function)
	assert.Equal(t, "B.run", analysis.Groups[1].Issues[0].Function)
}

func TestSignatureUsesFirstThreeFrames(t *testing.T) {
	a := raceIssue("data race", "Cache.store", "Sources/Cache.swift:88", "f1", "f2", "f3", "tail-a")
	b := raceIssue("data race", "Cache.store", "Sources/Cache.swift:91", "f1", "f2", "f3", "tail-b")
	c := raceIssue("data race", "Cache.store", "Sources/Cache.swift:88", "f1", "f2", "other")

	assert.Equal(t, a.Signature(), b.Signature())
	assert.NotEqual(t, a.Signature(), c.Signature())
}

func TestTopCounts(t *testing.T) {
	tally := map[string]int{"c.swift": 1, "a.swift": 3, "b.swift": 3, "d.swift": 2}

	top := TopCounts(tally, 3)
	require.Len(t, top, 3)
	// Equal counts order by name for deterministic output
	assert.Equal(t, Counted{Name: "a.swift", Count: 3}, top[0])
	assert.Equal(t, Counted{Name: "b.swift", Count: 3}, top[1])
	assert.Equal(t, Counted{Name: "d.swift", Count: 2}, top[2])
}

func TestDistinctLines(t *testing.T) {
	issues := []model.RaceIssue{
		raceIssue("data race", "f", "Sources/A.swift:102"),
		raceIssue("data race", "f", "Sources/A.swift:9"),
		raceIssue("data race", "f", "Sources/A.swift:102"),
		raceIssue("data race", "f", "Sources/A.swift:43"),
	}
	assert.Equal(t, []string{"9", "43", "102"}, DistinctLines(issues))
}

func TestFixHints(t *testing.T) {
	issues := []model.RaceIssue{
		raceIssue("thread leak", "f", "a:1"),
		raceIssue("data race", "g", "b:2"),
	}

	hints := FixHints(issues)
	// Data-race hints come first; table order, not issue order
	require.Len(t, hints, 3)
	assert.Contains(t, hints[0], "actor")
	assert.Contains(t, hints[2], "threads")

	assert.Empty(t, FixHints(nil))
}
