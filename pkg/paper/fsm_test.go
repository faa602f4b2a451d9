package paper

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/k12grader/parser/pkg/models"
	"github.com/k12grader/parser/pkg/sections"
)

func header(no int, letter string) line {
	return line{no: no, kind: lineHeader, rule: sections.MustDefaultTable().Resolve(letter, nil)}
}

func question(no, number int, body string) line {
	return line{no: no, kind: lineQuestion, number: number, body: body, stem: body}
}

func textLine(no int, s string) line {
	return line{no: no, kind: lineText, raw: s, body: s}
}

func orLine(no int) line {
	return line{no: no, kind: lineOr, raw: "OR"}
}

func TestTransition_HeaderFromIdle(t *testing.T) {
	acc := newAccumulator(false, Options{})

	st := transition(StateIdle, acc, header(1, "B"))

	assert.Equal(t, StateInSection, st)
	require.NotNil(t, acc.rule)
	assert.Equal(t, "B", acc.rule.Tag)
	assert.Len(t, acc.sections, 1)
}

func TestTransition_TextBeforeQuestionIsPreamble(t *testing.T) {
	acc := newAccumulator(false, Options{})

	st := transition(StateIdle, acc, textLine(1, "General Instructions"))
	st = transition(st, acc, header(2, "A"))
	st = transition(st, acc, textLine(3, "All questions are compulsory."))

	assert.Equal(t, StateInSection, st)
	assert.Equal(t, []string{"General Instructions", "All questions are compulsory."}, acc.preamble)
	assert.Nil(t, acc.current)
}

func TestTransition_QuestionStartOpensDraft(t *testing.T) {
	acc := newAccumulator(false, Options{})
	st := transition(StateIdle, acc, header(1, "C"))

	st = transition(st, acc, question(2, 23, "Define current."))
	assert.Equal(t, StateAccumulating, st)
	require.NotNil(t, acc.current)
	assert.Equal(t, 23, acc.current.number)

	st = transition(st, acc, textLine(3, "Give its unit."))
	assert.Equal(t, StateAccumulating, st)
	assert.Equal(t, "Define current. Give its unit.", acc.current.text(false))
	assert.Empty(t, acc.questions)
}

func TestTransition_OrInChoiceSectionAwaitsAlternative(t *testing.T) {
	acc := newAccumulator(false, Options{})
	st := transition(StateIdle, acc, header(1, "B"))
	st = transition(st, acc, question(2, 21, "Define work."))

	st = transition(st, acc, orLine(3))
	assert.Equal(t, StateAwaitingOr, st)
	assert.Empty(t, acc.questions, "OR must not advance the counter")

	st = transition(st, acc, question(4, 21, "Define power."))
	assert.Equal(t, StateAccumulating, st)
	assert.True(t, acc.current.merged)

	acc.close(st, 5)
	require.Len(t, acc.questions, 1)
	q := acc.questions[0]
	assert.Equal(t, 1, q.Number)
	assert.True(t, q.HasInternalChoice)
	assert.Equal(t, "Define work.\nOR\nDefine power.", q.Text)
	assert.Empty(t, acc.ambiguities)
}

func TestTransition_OrOutsideChoiceSectionIsText(t *testing.T) {
	acc := newAccumulator(false, Options{})
	st := transition(StateIdle, acc, header(1, "D"))
	st = transition(st, acc, question(2, 31, "Read the passage."))

	st = transition(st, acc, orLine(3))
	assert.Equal(t, StateAccumulating, st)
	assert.Equal(t, "Read the passage. OR", acc.current.text(false))
}

func TestTransition_SecondOrOnMergedQuestionIsText(t *testing.T) {
	acc := newAccumulator(false, Options{})
	st := transition(StateIdle, acc, header(1, "E"))
	st = transition(st, acc, question(2, 34, "One."))
	st = transition(st, acc, orLine(3))
	st = transition(st, acc, question(4, 34, "Two."))

	st = transition(st, acc, orLine(5))
	assert.Equal(t, StateAccumulating, st)
}

func TestTransition_OrNumberMismatch(t *testing.T) {
	acc := newAccumulator(false, Options{})
	st := transition(StateIdle, acc, header(1, "E"))
	st = transition(st, acc, question(2, 34, "Explain photosynthesis."))
	st = transition(st, acc, orLine(3))

	st = transition(st, acc, question(4, 36, "Explain respiration."))
	assert.Equal(t, StateAccumulating, st)
	require.Len(t, acc.questions, 1)
	assert.False(t, acc.questions[0].HasInternalChoice)
	assert.Equal(t, "Explain photosynthesis.", acc.questions[0].Text)

	require.Len(t, acc.ambiguities, 1)
	amb := acc.ambiguities[0]
	assert.Equal(t, AmbiguityOrNumberMismatch, amb.Kind)
	assert.Equal(t, 3, amb.Line)
	assert.Equal(t, 1, amb.Question)
}

func TestTransition_OrphanedTextAfterOr(t *testing.T) {
	acc := newAccumulator(false, Options{})
	st := transition(StateIdle, acc, header(1, "E"))
	st = transition(st, acc, question(2, 34, "Explain photosynthesis."))
	st = transition(st, acc, orLine(3))

	st = transition(st, acc, textLine(4, "Describe the light reaction."))
	assert.Equal(t, StateAwaitingOr, st)
	assert.Equal(t, []string{"Describe the light reaction."}, acc.orphan)

	st = transition(st, acc, question(5, 35, "Explain respiration."))
	require.Len(t, acc.questions, 1)
	assert.Equal(t, "Explain photosynthesis. Describe the light reaction.", acc.questions[0].Text)
	assert.False(t, acc.questions[0].HasInternalChoice)
	require.Len(t, acc.ambiguities, 1)
	assert.Equal(t, AmbiguityOrOrphanedText, acc.ambiguities[0].Kind)
	assert.Nil(t, acc.orphan)
	assert.Equal(t, StateAccumulating, st)
}

func TestTransition_HeaderWhileAwaitingOr(t *testing.T) {
	acc := newAccumulator(false, Options{})
	st := transition(StateIdle, acc, header(1, "C"))
	st = transition(st, acc, question(2, 28, "Define lens power."))
	st = transition(st, acc, orLine(3))

	st = transition(st, acc, header(4, "D"))
	assert.Equal(t, StateInSection, st)
	require.Len(t, acc.questions, 1)
	assert.Equal(t, "C", acc.questions[0].Section)
	require.Len(t, acc.ambiguities, 1)
	assert.Equal(t, AmbiguityOrNumberMismatch, acc.ambiguities[0].Kind)
	assert.Equal(t, "D", acc.rule.Tag)
	assert.Zero(t, acc.inSection)
}

func TestTransition_MarkLineFlagsNextOption(t *testing.T) {
	acc := newAccumulator(false, Options{})
	st := transition(StateIdle, acc, header(1, "A"))
	st = transition(st, acc, question(2, 1, "Unit of force?"))

	for i, s := range []string{"(A) Joule", "X", "(B) Newton", "(C) Watt"} {
		var ln line
		classify(&ln, s)
		ln.no, ln.raw = 3+i, s
		st = transition(st, acc, ln)
	}
	acc.close(st, 7)

	require.Len(t, acc.questions, 1)
	q := acc.questions[0]
	assert.Equal(t, models.TypeMultipleChoice, q.Type)
	assert.Equal(t, "B", q.CorrectOption)
	assert.Equal(t, map[string]string{"A": "Joule", "B": "Newton", "C": "Watt"}, q.Options)
	assert.Equal(t, "Unit of force?", q.Text)
}

func TestTransition_OptionContinuationLine(t *testing.T) {
	acc := newAccumulator(false, Options{})
	st := transition(StateIdle, acc, header(1, "A"))
	st = transition(st, acc, question(2, 1, "Which is true?"))

	for i, s := range []string{"(A) Light travels", "in straight lines", "(B) Sound is light"} {
		var ln line
		classify(&ln, s)
		ln.no, ln.raw = 3+i, s
		st = transition(st, acc, ln)
	}
	acc.close(st, 6)

	require.Len(t, acc.questions, 1)
	assert.Equal(t, "Light travels in straight lines", acc.questions[0].Options["A"])
	assert.Equal(t, "Which is true?", acc.questions[0].Text)
}

func TestTransition_SectionOverflowStillEmits(t *testing.T) {
	acc := newAccumulator(false, Options{})
	rule := models.SectionRule{Tag: "D", ExpectedQuestions: 1, MarksPerQuestion: 4, DefaultType: models.TypeCaseStudy}
	st := transition(StateIdle, acc, line{no: 1, kind: lineHeader, rule: rule})
	st = transition(st, acc, question(2, 31, "First case."))
	st = transition(st, acc, question(3, 32, "Second case."))
	acc.close(st, 4)

	require.Len(t, acc.questions, 2)
	require.Len(t, acc.ambiguities, 1)
	assert.Equal(t, AmbiguitySectionOverflow, acc.ambiguities[0].Kind)
	assert.Equal(t, 2, acc.ambiguities[0].Question)
}
