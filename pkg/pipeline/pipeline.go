// Package pipeline wires the paper parser, the answer parser and the
// reconciler into the two operations a grading service needs: parse a
// question paper once, then process any number of submissions against it.
package pipeline

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2"

	"github.com/k12grader/parser/pkg/answers"
	"github.com/k12grader/parser/pkg/models"
	"github.com/k12grader/parser/pkg/paper"
	"github.com/k12grader/parser/pkg/reconcile"
	"github.com/k12grader/parser/pkg/sections"
)

// DefaultCacheSize is the number of parsed papers kept in memory.
const DefaultCacheSize = 128

// ErrNoPaper is returned when a submission is processed without questions.
var ErrNoPaper = errors.New("no questions to reconcile against")

// Options configures a Pipeline. Logger fields inside Paper and Answers are
// ignored; each session supplies its own.
type Options struct {
	Table     *sections.Table // nil selects the default blueprint
	CacheSize int
	Paper     paper.Options
	Answers   answers.Options
	Logger    *log.Logger
}

// Pipeline is safe for concurrent use. Parsed papers are cached by content,
// so a paper shared by many submissions is parsed once.
type Pipeline struct {
	table   *sections.Table
	cache   *lru.Cache[string, paper.Result]
	paper   paper.Options
	answers answers.Options
	logger  *log.Logger
}

// New builds a pipeline.
func New(opts Options) (*Pipeline, error) {
	if opts.Table == nil {
		opts.Table = sections.MustDefaultTable()
	}
	if opts.CacheSize <= 0 {
		opts.CacheSize = DefaultCacheSize
	}
	cache, err := lru.New[string, paper.Result](opts.CacheSize)
	if err != nil {
		return nil, fmt.Errorf("paper cache: %w", err)
	}
	return &Pipeline{
		table:   opts.Table,
		cache:   cache,
		paper:   opts.Paper,
		answers: opts.Answers,
		logger:  opts.Logger,
	}, nil
}

// NewSession starts an invocation with a fresh ID.
func (p *Pipeline) NewSession() *Session {
	id := uuid.New()
	return &Session{
		ID:      id,
		Started: time.Now(),
		Table:   p.table,
		Logger:  sessionLogger(p.logger, id),
	}
}

// ParsePaper parses question paper text. The returned paper is nil unless
// the result status is paper.StatusParsed; Result.Err says why. The paper
// and the result do not share questions.
func (p *Pipeline) ParsePaper(s *Session, text string) (*models.QuestionPaper, paper.Result) {
	key := cacheKey(s.Table, text)
	res, ok := p.cache.Get(key)
	if ok {
		s.logf("paper cache hit %s", key[:12])
	} else {
		opts := p.paper
		opts.Logger = s.Logger
		res = paper.NewParser(s.Table, opts).Parse(text)
		p.cache.Add(key, res)
	}

	res = res.Clone()
	if res.Status != paper.StatusParsed {
		return nil, res
	}
	return newQuestionPaper(res.Clone()), res
}

// CacheLen reports how many parsed papers are cached.
func (p *Pipeline) CacheLen() int {
	return p.cache.Len()
}

// SubmissionResult is the final mapping for one submission.
type SubmissionResult struct {
	SessionID      uuid.UUID                   `json:"sessionId"`
	PaperID        uuid.UUID                   `json:"paperId"`
	SheetMode      answers.Mode                `json:"sheetMode"`
	Answers        map[int]models.ParsedAnswer `json:"answers"`
	Unattributable int                         `json:"unattributable"`
	Unanswered     []int                       `json:"unanswered"`
	Assignments    []reconcile.Assignment      `json:"assignments,omitempty"`
	Diagrams       models.DiagramIndex         `json:"diagrams,omitempty"`
}

// ProcessSubmission parses the OCR text of every page of one answer sheet
// and maps it onto qp's questions. diagrams may be nil. An empty sheet is
// not an error: every question is reported unanswered.
func (p *Pipeline) ProcessSubmission(s *Session, qp *models.QuestionPaper, pages []string, diagrams models.DiagramIndex) (SubmissionResult, error) {
	if qp == nil || len(qp.Questions) == 0 {
		return SubmissionResult{}, ErrNoPaper
	}

	opts := p.answers
	opts.Logger = s.Logger
	sheet := answers.NewParser(opts).Parse(answers.CombinePages(pages))
	rec := reconcile.New(s.Logger).Reconcile(sheet.Answers, qp.Questions)

	out := SubmissionResult{
		SessionID:      s.ID,
		PaperID:        qp.ID,
		SheetMode:      sheet.Mode,
		Answers:        rec.Answers,
		Unattributable: rec.Unattributable,
		Unanswered:     rec.Unanswered(qp.Questions),
		Assignments:    rec.Assignments,
		Diagrams:       diagramsFor(qp.Questions, diagrams),
	}
	if out.Unanswered == nil {
		out.Unanswered = []int{}
	}
	s.logf("submission: %d/%d answered, %d unattributable, %d reconciled (%s)",
		len(out.Answers), len(qp.Questions), out.Unattributable, len(out.Assignments), s.Elapsed().Round(time.Microsecond))
	return out, nil
}

func newQuestionPaper(res paper.Result) *models.QuestionPaper {
	title, _, _ := strings.Cut(res.Preamble, "\n")
	return &models.QuestionPaper{
		ID:           uuid.New(),
		Title:        strings.TrimSpace(title),
		TotalCount:   len(res.Questions),
		TotalMarks:   res.TotalMarks(),
		Questions:    res.Questions,
		Sections:     res.Sections,
		LastModified: time.Now().Format(time.RFC3339),
	}
}

func cacheKey(t *sections.Table, text string) string {
	h := sha256.New()
	h.Write([]byte(t.Fingerprint()))
	h.Write([]byte{0})
	h.Write([]byte(text))
	return hex.EncodeToString(h.Sum(nil))
}
