package models

// Provenance records how an answer got its question number.
type Provenance string

const (
	ProvenanceDirect     Provenance = "direct"
	ProvenanceReconciled Provenance = "reconciled"
)

// ParsedAnswer is one student answer attributed to a question number.
type ParsedAnswer struct {
	QuestionNumber int        `json:"questionNumber"`
	SourceNumber   int        `json:"sourceNumber"` // number as written on the sheet
	Text           string     `json:"text"`
	Provenance     Provenance `json:"provenance"`
}
