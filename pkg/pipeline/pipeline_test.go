package pipeline

import (
	"bytes"
	"fmt"
	"log"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/k12grader/parser/pkg/answers"
	"github.com/k12grader/parser/pkg/models"
	"github.com/k12grader/parser/pkg/paper"
	"github.com/k12grader/parser/pkg/sections"
)

const unitTest = `Physics Unit Test
1. Define force. (2 marks)
2. State Ohm's law. (2 marks)
3. Explain the process of photosynthesis in plants. (3 marks)
4. What is inertia? (2 marks)
5. Describe the structure of the human heart. (5 marks)
`

var sheetPages = []string{
	"1. Force is a push or pull.\n2. V = IR",
	"4. Inertia resists change.\n7. The heart has four chambers.",
}

func newPipeline(t *testing.T, opts Options) *Pipeline {
	t.Helper()
	p, err := New(opts)
	require.NoError(t, err)
	return p
}

func TestParsePaper(t *testing.T) {
	p := newPipeline(t, Options{})
	s := p.NewSession()

	qp, res := p.ParsePaper(s, unitTest)
	require.NoError(t, res.Err())
	require.NotNil(t, qp)
	assert.Equal(t, "Physics Unit Test", qp.Title)
	assert.Equal(t, 5, qp.TotalCount)
	assert.Equal(t, 14, qp.TotalMarks)
	assert.Equal(t, []int{1, 2, 3, 4, 5}, qp.QuestionNumbers())
	assert.NotEmpty(t, qp.LastModified)
	assert.NotEqual(t, uuid.Nil, qp.ID)
}

func TestParsePaper_CachesByContent(t *testing.T) {
	p := newPipeline(t, Options{CacheSize: 4})

	first, _ := p.ParsePaper(p.NewSession(), unitTest)
	first.Questions[0].Text = "mutated"

	second, _ := p.ParsePaper(p.NewSession(), unitTest)
	assert.Equal(t, 1, p.CacheLen())
	assert.Equal(t, "Define force.", second.Questions[0].Text)
	assert.NotEqual(t, first.ID, second.ID)

	p.ParsePaper(p.NewSession(), unitTest+"6. Define mass. (1 mark)\n")
	assert.Equal(t, 2, p.CacheLen())
}

func TestParsePaper_CacheKeyFollowsTableContents(t *testing.T) {
	p := newPipeline(t, Options{})
	text := "SECTION B\nQ21. Define work."

	_, res := p.ParsePaper(p.NewSession(), text)
	require.Len(t, res.Questions, 1)
	assert.Equal(t, 2, res.Questions[0].Marks)

	bp := sections.DefaultBlueprint()
	bp.Sections["B"] = sections.Default{Questions: 5, Marks: 3, Type: models.TypeShortAnswer}
	tbl, err := sections.NewTable(bp)
	require.NoError(t, err)
	require.Equal(t, sections.MustDefaultTable().Name(), tbl.Name())

	s := p.NewSession()
	s.Table = tbl
	_, res = p.ParsePaper(s, text)
	require.Len(t, res.Questions, 1)
	assert.Equal(t, 3, res.Questions[0].Marks)
	assert.Equal(t, 2, p.CacheLen())
}

func TestParsePaper_PaperAndResultDoNotShareQuestions(t *testing.T) {
	p := newPipeline(t, Options{})
	qp, res := p.ParsePaper(p.NewSession(), unitTest)
	require.NotNil(t, qp)

	n := AttachDiagrams(qp.Questions, models.DiagramIndex{1: {{Type: "arrow"}}})
	assert.Equal(t, 1, n)
	assert.True(t, qp.Questions[0].HasDiagram)
	assert.False(t, res.Questions[0].HasDiagram)
}

func TestParsePaper_EmptyAndUnparseable(t *testing.T) {
	p := newPipeline(t, Options{})

	qp, res := p.ParsePaper(p.NewSession(), "  ")
	assert.Nil(t, qp)
	assert.ErrorIs(t, res.Err(), models.ErrEmptyInput)

	qp, res = p.ParsePaper(p.NewSession(), "rough work only")
	assert.Nil(t, qp)
	assert.Equal(t, paper.StatusUnparseable, res.Status)
	assert.ErrorIs(t, res.Err(), models.ErrNoStructure)
}

func TestProcessSubmission(t *testing.T) {
	p := newPipeline(t, Options{})
	s := p.NewSession()
	qp, _ := p.ParsePaper(s, unitTest)
	require.NotNil(t, qp)

	diagrams := models.DiagramIndex{
		5:  {{Type: "circle", Confidence: 0.9, Page: 2}},
		42: {{Type: "arrow"}},
	}
	got, err := p.ProcessSubmission(s, qp, sheetPages, diagrams)
	require.NoError(t, err)

	assert.Equal(t, s.ID, got.SessionID)
	assert.Equal(t, qp.ID, got.PaperID)
	assert.Equal(t, answers.ModeMarkers, got.SheetMode)
	require.Len(t, got.Answers, 4)
	assert.Equal(t, "The heart has four chambers.", got.Answers[5].Text)
	assert.Equal(t, models.ProvenanceReconciled, got.Answers[5].Provenance)
	assert.Equal(t, []int{3}, got.Unanswered)
	assert.Zero(t, got.Unattributable)
	assert.Equal(t, models.DiagramIndex{5: diagrams[5]}, got.Diagrams)
}

func TestProcessSubmission_EmptySheet(t *testing.T) {
	p := newPipeline(t, Options{})
	s := p.NewSession()
	qp, _ := p.ParsePaper(s, unitTest)

	got, err := p.ProcessSubmission(s, qp, []string{"", "  "}, nil)
	require.NoError(t, err)
	assert.Equal(t, answers.ModeEmpty, got.SheetMode)
	assert.Empty(t, got.Answers)
	assert.Equal(t, []int{1, 2, 3, 4, 5}, got.Unanswered)
	assert.Nil(t, got.Diagrams)
}

func TestProcessSubmission_NoPaper(t *testing.T) {
	p := newPipeline(t, Options{})

	_, err := p.ProcessSubmission(p.NewSession(), nil, sheetPages, nil)
	assert.ErrorIs(t, err, ErrNoPaper)

	_, err = p.ProcessSubmission(p.NewSession(), &models.QuestionPaper{}, sheetPages, nil)
	assert.ErrorIs(t, err, ErrNoPaper)
}

func TestSessionLoggerNamesSession(t *testing.T) {
	var buf bytes.Buffer
	p := newPipeline(t, Options{Logger: log.New(&buf, "parser: ", 0)})
	s := p.NewSession()

	p.ParsePaper(s, unitTest)
	p.ParsePaper(s, unitTest)

	out := buf.String()
	assert.Contains(t, out, "parser: ["+s.ID.String()[:8]+"] ")
	assert.Contains(t, out, "paper cache hit")
}

func TestPipeline_ConcurrentSubmissions(t *testing.T) {
	p := newPipeline(t, Options{})
	results := make([]SubmissionResult, 32)

	var g errgroup.Group
	for i := range results {
		g.Go(func() error {
			s := p.NewSession()
			qp, res := p.ParsePaper(s, unitTest)
			if err := res.Err(); err != nil {
				return err
			}
			got, err := p.ProcessSubmission(s, qp, sheetPages, nil)
			if err != nil {
				return fmt.Errorf("submission %d: %w", i, err)
			}
			results[i] = got
			return nil
		})
	}
	require.NoError(t, g.Wait())

	assert.Equal(t, 1, p.CacheLen())
	for _, r := range results {
		assert.Equal(t, []int{3}, r.Unanswered)
		assert.Len(t, r.Answers, 4)
	}
}

func TestAttachDiagrams(t *testing.T) {
	qs := []models.Question{{Number: 1}, {Number: 2}, {Number: 3}}
	idx := models.MergeDiagrams(
		models.DiagramIndex{2: {{Type: "triangle", Page: 1}}},
		models.DiagramIndex{2: {{Type: "line", Page: 2}}, 9: {{Type: "circle"}}},
	)

	n := AttachDiagrams(qs, idx)

	assert.Equal(t, 1, n)
	assert.False(t, qs[0].HasDiagram)
	assert.True(t, qs[1].HasDiagram)
	assert.Len(t, idx.For(2), 2)
	assert.Zero(t, AttachDiagrams(qs, nil))
}
