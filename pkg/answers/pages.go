package answers

import (
	"fmt"
	"regexp"
	"strings"
)

var pageSeparator = regexp.MustCompile(`^-{3}\s*Page\s+\d+\s*-{3}$`)

// CombinePages joins the OCR text of each page of a submission, marking
// where every page starts. Parse removes the markers again.
func CombinePages(pages []string) string {
	parts := make([]string, 0, len(pages))
	for i, p := range pages {
		parts = append(parts, fmt.Sprintf("\n--- Page %d ---\n%s", i+1, p))
	}
	return strings.Join(parts, "\n")
}

func stripPageSeparators(lines []string) []string {
	out := make([]string, 0, len(lines))
	for _, l := range lines {
		if !pageSeparator.MatchString(l) {
			out = append(out, l)
		}
	}
	return out
}
