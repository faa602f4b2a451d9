package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTypeForMarks(t *testing.T) {
	for marks, want := range map[int]QuestionType{
		0: TypeShortAnswer,
		1: TypeMultipleChoice,
		2: TypeShortAnswer,
		3: TypeShortAnswer,
		4: TypeCaseStudy,
		5: TypeLongAnswer,
		8: TypeLongAnswer,
	} {
		assert.Equal(t, want, TypeForMarks(marks), "marks=%d", marks)
	}
}

func TestQuestionTypeHelpers(t *testing.T) {
	assert.True(t, TypeAssertionReason.Valid())
	assert.False(t, QuestionType("essay").Valid())
	assert.True(t, TypeMultipleChoice.HasOptions())
	assert.True(t, TypeAssertionReason.HasOptions())
	assert.False(t, TypeCaseStudy.HasOptions())
}

func TestAlternatives(t *testing.T) {
	q := Question{Text: "Define work." + OrSeparator + "Define power.", HasInternalChoice: true}
	assert.Equal(t, []string{"Define work.", "Define power."}, q.Alternatives())

	q.HasInternalChoice = false
	assert.Equal(t, []string{q.Text}, q.Alternatives())
}

func TestQuestionNumbers(t *testing.T) {
	var nilPaper *QuestionPaper
	assert.Nil(t, nilPaper.QuestionNumbers())

	p := &QuestionPaper{Questions: []Question{{Number: 1}, {Number: 2}}}
	assert.Equal(t, []int{1, 2}, p.QuestionNumbers())
}

func TestMergeDiagrams(t *testing.T) {
	idx := MergeDiagrams(
		DiagramIndex{1: {{Type: "circle", Page: 1}}},
		nil,
		DiagramIndex{1: {{Type: "arrow", Page: 2}}, 4: {{Type: "line", Page: 2}}},
	)

	assert.Equal(t, []Shape{{Type: "circle", Page: 1}, {Type: "arrow", Page: 2}}, idx.For(1))
	assert.Len(t, idx.For(4), 1)
	assert.Nil(t, idx.For(2))

	var empty DiagramIndex
	assert.Nil(t, empty.For(1))
}
