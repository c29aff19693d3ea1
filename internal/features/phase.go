package features

import (
	"regexp"
	"strconv"
	"strings"
)

var phasePattern = regexp.MustCompile(`fase\s*(\d+)`)

// ExtractPhase maps a grade-phase label to its number: anything mentioning
// "alfa" is phase 0, otherwise the integer following "fase". Labels that
// match neither rule, and missing input, yield missing.
func ExtractPhase(v Value) Value {
	if v.IsMissing() {
		return Missing()
	}
	label := strings.ToLower(v.String())
	if strings.Contains(label, "alfa") {
		return Number(0)
	}
	m := phasePattern.FindStringSubmatch(label)
	if m == nil {
		return Missing()
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return Missing()
	}
	return Number(float64(n))
}
