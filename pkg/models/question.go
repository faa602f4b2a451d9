package models

import (
	"strings"

	"github.com/google/uuid"
)

// QuestionType classifies how a question is answered and graded.
type QuestionType string

const (
	TypeMultipleChoice  QuestionType = "mcq"
	TypeAssertionReason QuestionType = "assertion_reason"
	TypeShortAnswer     QuestionType = "short"
	TypeCaseStudy       QuestionType = "case_study"
	TypeLongAnswer      QuestionType = "long"
)

// Valid reports whether t is one of the known question types.
func (t QuestionType) Valid() bool {
	switch t {
	case TypeMultipleChoice, TypeAssertionReason, TypeShortAnswer, TypeCaseStudy, TypeLongAnswer:
		return true
	}
	return false
}

// HasOptions reports whether questions of this type carry lettered options.
func (t QuestionType) HasOptions() bool {
	return t == TypeMultipleChoice || t == TypeAssertionReason
}

// TypeForMarks infers a question type from its marks alone.
func TypeForMarks(marks int) QuestionType {
	switch {
	case marks == 1:
		return TypeMultipleChoice
	case marks == 4:
		return TypeCaseStudy
	case marks >= 5:
		return TypeLongAnswer
	default:
		return TypeShortAnswer
	}
}

// OrSeparator joins the two alternatives of an internal-choice question.
const OrSeparator = "\nOR\n"

// Question represents a single exam question
type Question struct {
	Number            int               `json:"number"`                  // Sequential output number (1, 2, 3, ...)
	Text              string            `json:"text"`                    // Body; alternatives joined by OrSeparator
	Marks             int               `json:"marks"`                   // Marks awarded for the question
	Type              QuestionType      `json:"type"`                    // mcq, assertion_reason, short, case_study, long
	Section           string            `json:"section,omitempty"`       // Section tag (e.g., "A")
	HasInternalChoice bool              `json:"hasInternalChoice"`       // Two OR-alternatives in Text
	Options           map[string]string `json:"options,omitempty"`       // Letter -> option text
	CorrectOption     string            `json:"correctOption,omitempty"` // Letter flagged as correct in the source
	HasDiagram        bool              `json:"hasDiagram,omitempty"`    // Set from diagram side-channel only
}

// Alternatives splits an internal-choice question into its two bodies.
func (q Question) Alternatives() []string {
	if !q.HasInternalChoice {
		return []string{q.Text}
	}
	first, second, ok := strings.Cut(q.Text, OrSeparator)
	if !ok {
		return []string{q.Text}
	}
	return []string{first, second}
}

// QuestionPaper represents the entire collection of questions parsed from one paper
type QuestionPaper struct {
	ID           uuid.UUID     `json:"id"`           // Identifier assigned when the paper was parsed
	Title        string        `json:"title"`        // Title of the exam, if recognised
	TotalCount   int           `json:"totalCount"`   // Total number of questions
	TotalMarks   int           `json:"totalMarks"`   // Sum of per-question marks
	Questions    []Question    `json:"questions"`    // List of all questions
	Sections     []SectionRule `json:"sections"`     // Rules in effect, in header order
	LastModified string        `json:"lastModified"` // When this was generated
}

// QuestionNumbers returns the output numbers in document order.
func (p *QuestionPaper) QuestionNumbers() []int {
	if p == nil {
		return nil
	}
	out := make([]int, 0, len(p.Questions))
	for _, q := range p.Questions {
		out = append(out, q.Number)
	}
	return out
}
