// Package sections resolves the rules (question count, marks, type,
// internal choice) that govern each labelled section of a question paper.
//
// Rules come from an inline "N x M = Total" annotation when the paper has
// one, otherwise from a Blueprint: static per-letter defaults that describe
// one exam pattern. Blueprints are plain data and can be loaded from JSON.
package sections

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/k12grader/parser/pkg/models"
)

// Default is the blueprint entry for one section letter.
type Default struct {
	Questions      int                 `json:"questions"` // 0 means unknown
	Marks          int                 `json:"marks"`
	Type           models.QuestionType `json:"type"`
	InternalChoice bool                `json:"internal_choice"`
	LeadingMCQ     int                 `json:"leading_mcq,omitempty"` // mixed MCQ / assertion-reason split
}

// Blueprint is the static configuration for a family of papers.
type Blueprint struct {
	Name     string             `json:"name,omitempty"`
	Sections map[string]Default `json:"sections"`
	Fallback Default            `json:"fallback"`
}

// DefaultBlueprint mirrors the standard five-section board paper:
// 1, 2, 3, 4 and 5 marks for sections A to E.
func DefaultBlueprint() Blueprint {
	return Blueprint{
		Name: "board-5-section",
		Sections: map[string]Default{
			"A": {Questions: 20, Marks: 1, Type: models.TypeMultipleChoice, LeadingMCQ: 18},
			"B": {Questions: 5, Marks: 2, Type: models.TypeShortAnswer, InternalChoice: true},
			"C": {Questions: 6, Marks: 3, Type: models.TypeShortAnswer, InternalChoice: true},
			"D": {Questions: 3, Marks: 4, Type: models.TypeCaseStudy},
			"E": {Questions: 4, Marks: 5, Type: models.TypeLongAnswer, InternalChoice: true},
		},
		Fallback: Default{Marks: 2, Type: models.TypeShortAnswer, InternalChoice: true},
	}
}

// LoadBlueprint reads and validates a JSON blueprint file.
func LoadBlueprint(path string) (Blueprint, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Blueprint{}, fmt.Errorf("read blueprint: %w", err)
	}
	var bp Blueprint
	if err := json.Unmarshal(b, &bp); err != nil {
		return Blueprint{}, invalidf("%s: %v", path, err)
	}
	if err := bp.Validate(); err != nil {
		return Blueprint{}, err
	}
	return bp, nil
}

// Validate checks every entry, reporting the first problem in letter order.
func (bp Blueprint) Validate() error {
	if len(bp.Sections) == 0 {
		return invalidf("no sections")
	}
	letters := make([]string, 0, len(bp.Sections))
	for k := range bp.Sections {
		letters = append(letters, k)
	}
	sort.Strings(letters)
	for _, k := range letters {
		key := strings.TrimSpace(k)
		if len(key) != 1 || !isLetter(key[0]) {
			return invalidf("section key %q is not a single letter", k)
		}
		if err := validateDefault(bp.Sections[k]); err != nil {
			return invalidf("section %s: %v", strings.ToUpper(key), err)
		}
	}
	if err := validateDefault(bp.Fallback); err != nil {
		return invalidf("fallback: %v", err)
	}
	return nil
}

func validateDefault(d Default) error {
	switch {
	case d.Marks <= 0:
		return fmt.Errorf("marks must be > 0, got %d", d.Marks)
	case !d.Type.Valid():
		return fmt.Errorf("unknown type %q", d.Type)
	case d.Questions < 0:
		return fmt.Errorf("questions must be >= 0, got %d", d.Questions)
	case d.LeadingMCQ < 0:
		return fmt.Errorf("leading_mcq must be >= 0, got %d", d.LeadingMCQ)
	case d.LeadingMCQ > 0 && d.Type != models.TypeMultipleChoice:
		return fmt.Errorf("leading_mcq needs type %q", models.TypeMultipleChoice)
	case d.Questions > 0 && d.LeadingMCQ > d.Questions:
		return fmt.Errorf("leading_mcq %d exceeds questions %d", d.LeadingMCQ, d.Questions)
	}
	return nil
}

func isLetter(c byte) bool {
	return (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z')
}
