package paper

import (
	"fmt"
	"strings"

	"github.com/k12grader/parser/pkg/models"
)

// RenderFlat writes questions as "<n>. <text> (<m> marks)" lines, one per
// question, with options inline. Parsing the output again in flat mode gives
// the same question count and marks.
func RenderFlat(questions []models.Question) string {
	var b strings.Builder
	for _, q := range questions {
		fmt.Fprintf(&b, "%d. %s", q.Number, strings.Join(strings.Fields(flatBody(q)), " "))
		for _, letter := range optionLetters(q.Options) {
			fmt.Fprintf(&b, " (%s) %s", letter, strings.Join(strings.Fields(q.Options[letter]), " "))
		}
		unit := "marks"
		if q.Marks == 1 {
			unit = "mark"
		}
		fmt.Fprintf(&b, " (%d %s)\n", q.Marks, unit)
	}
	return b.String()
}

func flatBody(q models.Question) string {
	if !q.HasInternalChoice {
		return q.Text
	}
	return strings.Join(q.Alternatives(), " OR ")
}
