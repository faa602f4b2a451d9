package paper

import "github.com/k12grader/parser/pkg/models"

// Status tells the caller whether a parse produced usable structure.
type Status string

const (
	StatusParsed      Status = "parsed"
	StatusEmpty       Status = "empty"       // blank input
	StatusUnparseable Status = "unparseable" // text present, no question recognised
)

// Mode records which reading strategy produced the questions.
type Mode string

const (
	ModeSectioned Mode = "sectioned" // at least one SECTION header
	ModeFlat      Mode = "flat"      // "<n>. <text> (<m> marks)" lines only
)

// AmbiguityKind names a parse decision that needs a human look.
type AmbiguityKind string

const (
	AmbiguityOrNumberMismatch AmbiguityKind = "or-number-mismatch"
	AmbiguityOrOrphanedText   AmbiguityKind = "or-orphaned-text"
	AmbiguitySectionOverflow  AmbiguityKind = "section-overflow"
	AmbiguityAnnotationTotal  AmbiguityKind = "annotation-total-mismatch"
	AmbiguityAssertionLabel   AmbiguityKind = "assertion-label-missing"
)

// Ambiguity is a non-fatal note attached to a parse result.
type Ambiguity struct {
	Kind     AmbiguityKind `json:"kind"`
	Line     int           `json:"line"`               // 1-based source line
	Question int           `json:"question,omitempty"` // output number, when one is involved
	Detail   string        `json:"detail"`
}

// Result is the outcome of parsing one question paper.
type Result struct {
	Status      Status               `json:"status"`
	Mode        Mode                 `json:"mode,omitempty"`
	Questions   []models.Question    `json:"questions"`
	Sections    []models.SectionRule `json:"sections,omitempty"`
	Ambiguities []Ambiguity          `json:"ambiguities,omitempty"`
	Preamble    string               `json:"preamble,omitempty"`
}

// Err maps the status onto the shared sentinel errors. A parsed result
// returns nil; the caller decides whether the others are fatal.
func (r Result) Err() error {
	switch r.Status {
	case StatusEmpty:
		return models.ErrEmptyInput
	case StatusUnparseable:
		return models.ErrNoStructure
	}
	return nil
}

// TotalMarks sums the marks of every question.
func (r Result) TotalMarks() int {
	total := 0
	for _, q := range r.Questions {
		total += q.Marks
	}
	return total
}

// Clone returns a deep copy, so cached results can be handed out safely.
func (r Result) Clone() Result {
	out := r
	out.Questions = make([]models.Question, len(r.Questions))
	for i, q := range r.Questions {
		if q.Options != nil {
			opts := make(map[string]string, len(q.Options))
			for k, v := range q.Options {
				opts[k] = v
			}
			q.Options = opts
		}
		out.Questions[i] = q
	}
	out.Sections = append([]models.SectionRule(nil), r.Sections...)
	out.Ambiguities = append([]Ambiguity(nil), r.Ambiguities...)
	return out
}
