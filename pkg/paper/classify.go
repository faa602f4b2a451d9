package paper

import (
	"regexp"

	"github.com/k12grader/parser/pkg/models"
)

var (
	assertionLabel = regexp.MustCompile(`(?i)\bassertion\b`)
	// "Assertion (A):" / "Assertion:" together with "Reason (R):" / "Reason:"
	assertionPart = regexp.MustCompile(`(?i)\bassertion\s*(?:\(\s*a\s*\)|:)`)
	reasonPart    = regexp.MustCompile(`(?i)\breason\s*(?:\(\s*r\s*\)|:)`)
)

// classifyQuestion picks the type of the index-th question (1-based) of the
// section governed by rule. rule is nil in flat mode and before the first
// header; the type then follows marks alone.
func classifyQuestion(rule *models.SectionRule, index int, text string, marks, options int) models.QuestionType {
	if rule == nil {
		return models.TypeForMarks(marks)
	}
	if rule.Mixed() {
		if index <= rule.LeadingMultipleChoice {
			return models.TypeMultipleChoice
		}
		return models.TypeAssertionReason
	}

	switch {
	case isAssertionReason(text), rule.DefaultType == models.TypeAssertionReason:
		return models.TypeAssertionReason
	case options >= 2:
		return models.TypeMultipleChoice
	}
	if rule.DefaultType.Valid() {
		return rule.DefaultType
	}
	return models.TypeForMarks(marks)
}

// unlabelledAssertion reports an item in the assertion-reason tail of a
// mixed section whose body never says "Assertion".
func unlabelledAssertion(rule *models.SectionRule, index int, text string) bool {
	return rule != nil && rule.Mixed() && index > rule.LeadingMultipleChoice &&
		!assertionLabel.MatchString(text)
}

func isAssertionReason(text string) bool {
	return assertionPart.MatchString(text) && reasonPart.MatchString(text)
}
