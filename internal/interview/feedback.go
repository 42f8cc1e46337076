package interview

import (
	"regexp"
	"strconv"
	"strings"
)

// DefaultScore is shown when the feedback text carries no score
const DefaultScore = 5

var scorePattern = regexp.MustCompile(`(?i)score.*?(\d+)`)

// ParseScore finds the first integer after the word "score" in free-text
// feedback. Display only: the value is never stored or trusted.
func ParseScore(feedback string) int {
	m := scorePattern.FindStringSubmatch(feedback)
	if m == nil {
		return DefaultScore
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return DefaultScore
	}
	return n
}

// IsPassed reports a pass verdict in free-text feedback. Display only.
func IsPassed(feedback string) bool {
	lower := strings.ToLower(feedback)
	return strings.Contains(lower, "pass") && !strings.Contains(lower, "fail")
}
