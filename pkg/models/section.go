package models

// RuleSource records where a SectionRule's numbers came from.
type RuleSource string

const (
	RuleInline    RuleSource = "inline"    // "N x M = Total" on or near the header
	RuleBlueprint RuleSource = "blueprint" // static per-letter default
	RuleFallback  RuleSource = "fallback"  // letter unknown to the blueprint
)

// SectionRule describes how questions inside one labelled section are read.
// A rule is resolved once per header and never modified afterwards.
type SectionRule struct {
	Tag                   string       `json:"tag"`
	ExpectedQuestions     int          `json:"expectedQuestions"` // 0 means unknown
	MarksPerQuestion      int          `json:"marksPerQuestion"`
	DefaultType           QuestionType `json:"defaultType"`
	InternalChoice        bool         `json:"internalChoice"`
	LeadingMultipleChoice int          `json:"leadingMultipleChoice,omitempty"`
	Source                RuleSource   `json:"source"`
}

// Mixed reports whether the section starts with plain MCQs and continues
// with assertion-reason items.
func (r SectionRule) Mixed() bool {
	return r.LeadingMultipleChoice > 0 &&
		(r.ExpectedQuestions == 0 || r.LeadingMultipleChoice < r.ExpectedQuestions)
}
