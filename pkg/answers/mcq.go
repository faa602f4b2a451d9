package answers

import (
	"math"
	"regexp"
	"strings"
)

var letterLine = regexp.MustCompile(`(?i)^\(?([A-D])\)?$`)

// positionalMCQ detects a sheet that is a column of option letters. The
// letters are returned in order when at least max(minLines, ratio x the
// non-blank line count) lines hold nothing but one letter.
func positionalMCQ(lines []string, ratio float64, minLines int) ([]string, bool) {
	filled := nonBlank(lines)
	var letters []string
	for _, l := range filled {
		if m := letterLine.FindStringSubmatch(l); m != nil {
			letters = append(letters, strings.ToUpper(m[1]))
		}
	}
	need := math.Max(float64(minLines), ratio*float64(len(filled)))
	if len(letters) == 0 || float64(len(letters)) < need {
		return nil, false
	}
	return letters, true
}
