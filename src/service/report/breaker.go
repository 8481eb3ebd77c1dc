package report

import "fmt"

// DefaultBreakerAttempt is the remediation attempt count at which
// automated retries must stop, absent a configured override.
const DefaultBreakerAttempt = 3

// Tripped reports whether the attempt counter has crossed the threshold
func Tripped(attempt, threshold int) bool {
	return attempt >= threshold
}

// Breaker returns the escalation block appended to Markdown output once
// the attempt counter reaches the threshold, or "" below it. The five
// steps are fixed text: automated consumers key off the circuit_breaker
// boolean in the JSON payload instead.
func Breaker(attempt, threshold int) string {
	if !Tripped(attempt, threshold) {
		return ""
	}
	return fmt.Sprintf(`
## CIRCUIT BREAKER — Attempt %d (max %d)

**You have exceeded the maximum remediation attempts for this change.**

### Required Actions:
1. Revert your changes (git stash or git checkout -- <files>)
2. Open a **Draft PR** with the partially-fixed code
3. Tag the PR with `+"`#requires-human-architect`"+`
4. Include this distilled report in the PR description
5. **STOP** — do not attempt further automated fixes
`, attempt, threshold)
}
