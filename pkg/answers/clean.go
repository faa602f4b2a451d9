package answers

import (
	"regexp"
	"strings"
)

var (
	answerPrefix = regexp.MustCompile(`(?i)^(?:answer|ans|sol(?:ution)?)\s*[:\-]\s*`)
	blankRun     = regexp.MustCompile(`\n{3,}`)
)

// digitOption maps a bare numeric MCQ answer onto its letter.
var digitOption = map[string]string{"1": "A", "2": "B", "3": "C", "4": "D"}

func clean(s string) string {
	s = strings.TrimSpace(s)
	s = answerPrefix.ReplaceAllString(s, "")
	if letter, ok := digitOption[strings.TrimSpace(s)]; ok {
		return letter
	}
	s = blankRun.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}
