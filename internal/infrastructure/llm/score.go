package llm

import (
	"regexp"
	"strconv"
	"strings"
)

// scoreMatcher is one strategy in the ordered extraction chain. New
// response formats are supported by appending a matcher, not by touching
// control flow.
type scoreMatcher struct {
	name string
	expr *regexp.Regexp
}

// scoreMatchers is ordered by priority; the first match wins. Models format
// scores in wildly different ways, so the chain degrades from the explicit
// "N/10" form down to any bare digit.
var scoreMatchers = []scoreMatcher{
	{name: "fraction", expr: regexp.MustCompile(`\b(\d+)\s*/\s*10\b`)},
	{name: "labeled", expr: regexp.MustCompile(`(?i)\b(?:relevance|score|rating)\s*(?:is|:)\s*(\d+)\b`)},
	{name: "keyword", expr: regexp.MustCompile(`(?is)\b(?:score|rating|relevance)\b.*?\b(10|[0-9])\b`)},
	{name: "bare", expr: regexp.MustCompile(`\b(10|[0-9])\b`)},
}

var explanationExpr = regexp.MustCompile(`(?is)\b(?:explanation|because|as)\b[:.]?\s*(.+)`)

// extractScore runs the matcher chain over the model output. The returned
// score is always clamped to [0,10]. ok=false means no pattern matched at
// all, which signals extraction failure rather than true irrelevance.
func extractScore(text string) (score int, matched string, ok bool) {
	for _, matcher := range scoreMatchers {
		groups := matcher.expr.FindStringSubmatch(text)
		if groups == nil {
			continue
		}
		value, err := strconv.Atoi(groups[1])
		if err != nil {
			continue
		}
		return clampScore(value), matcher.name, true
	}
	return 0, "", false
}

// extractExplanation pulls the rationale following an explanation marker;
// best effort, empty when absent.
func extractExplanation(text string) string {
	groups := explanationExpr.FindStringSubmatch(text)
	if groups == nil {
		return ""
	}
	return strings.TrimSpace(groups[1])
}

func clampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 10 {
		return 10
	}
	return score
}
