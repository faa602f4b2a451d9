package sections

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"

	"github.com/k12grader/parser/pkg/models"
)

// AnnotationLookahead is how many lines after a header may carry its
// "N x M = Total" annotation.
const AnnotationLookahead = 2

// Table resolves section rules against one blueprint. It is read-only after
// construction and safe for concurrent use.
type Table struct {
	sections    map[string]Default
	fallback    Default
	name        string
	fingerprint string
}

// NewTable validates bp and builds a table from a private copy of it.
func NewTable(bp Blueprint) (*Table, error) {
	if err := bp.Validate(); err != nil {
		return nil, err
	}
	t := &Table{
		sections: make(map[string]Default, len(bp.Sections)),
		fallback: bp.Fallback,
		name:     bp.Name,
	}
	for k, d := range bp.Sections {
		t.sections[strings.ToUpper(strings.TrimSpace(k))] = d
	}

	// Map keys marshal sorted, so equal contents hash equally.
	b, err := json.Marshal(Blueprint{Sections: t.sections, Fallback: t.fallback})
	if err != nil {
		return nil, err
	}
	sum := sha256.Sum256(b)
	t.fingerprint = hex.EncodeToString(sum[:])
	return t, nil
}

// MustDefaultTable returns a table over DefaultBlueprint.
func MustDefaultTable() *Table {
	t, err := NewTable(DefaultBlueprint())
	if err != nil {
		panic(err)
	}
	return t
}

// Name returns the blueprint name.
func (t *Table) Name() string { return t.name }

// Fingerprint identifies the table by its resolved contents. Tables built
// from equal blueprints share a fingerprint whatever their names.
func (t *Table) Fingerprint() string { return t.fingerprint }

// Lookup returns the blueprint entry for letter.
func (t *Table) Lookup(letter string) (Default, bool) {
	d, ok := t.sections[strings.ToUpper(letter)]
	return d, ok
}

// Resolve builds the rule for a section header. ann may be nil.
//
// The inline annotation wins for count and marks. Type, internal choice and
// the leading MCQ split come from the blueprint entry when its marks agree,
// otherwise they are inferred from marks.
func (t *Table) Resolve(letter string, ann *Annotation) models.SectionRule {
	letter = strings.ToUpper(letter)
	d, known := t.sections[letter]

	if ann != nil {
		rule := models.SectionRule{
			Tag:               letter,
			ExpectedQuestions: ann.Count,
			MarksPerQuestion:  ann.Marks,
			Source:            models.RuleInline,
		}
		if known && d.Marks == ann.Marks {
			rule.DefaultType = d.Type
			rule.InternalChoice = d.InternalChoice
			rule.LeadingMultipleChoice = min(d.LeadingMCQ, ann.Count)
			return rule
		}
		rule.DefaultType = models.TypeForMarks(ann.Marks)
		rule.InternalChoice = t.fallback.InternalChoice && !rule.DefaultType.HasOptions()
		return rule
	}

	if known {
		return models.SectionRule{
			Tag:                   letter,
			ExpectedQuestions:     d.Questions,
			MarksPerQuestion:      d.Marks,
			DefaultType:           d.Type,
			InternalChoice:        d.InternalChoice,
			LeadingMultipleChoice: d.LeadingMCQ,
			Source:                models.RuleBlueprint,
		}
	}
	return models.SectionRule{
		Tag:                   letter,
		ExpectedQuestions:     t.fallback.Questions,
		MarksPerQuestion:      t.fallback.Marks,
		DefaultType:           t.fallback.Type,
		InternalChoice:        t.fallback.InternalChoice,
		LeadingMultipleChoice: t.fallback.LeadingMCQ,
		Source:                models.RuleFallback,
	}
}
