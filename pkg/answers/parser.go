// Package answers reads the recognised text of a student's answer sheet into
// a draft mapping from question number to answer text.
//
// Sheets that are only a column of option letters are assigned positionally.
// Everything else is split on question markers ("3.", "Q3)", "Ans 3.") after
// multi-column OCR output has been broken back into lines. Numbers that look
// like a list inside an answer are kept with that answer.
package answers

import (
	"log"
	"sort"

	"github.com/k12grader/parser/pkg/models"
	"github.com/k12grader/parser/pkg/textnorm"
)

const (
	DefaultMCQLineRatio = 0.7
	DefaultMCQMinLines  = 3
)

// Mode records which strategy produced a Sheet.
type Mode string

const (
	ModeEmpty      Mode = "empty"
	ModePositional Mode = "positional-mcq"
	ModeMarkers    Mode = "markers"
	ModeWholeText  Mode = "whole-text" // no marker found, everything is answer 1
)

// Sheet is the draft result for one submission.
type Sheet struct {
	Mode    Mode                  `json:"mode"`
	Answers []models.ParsedAnswer `json:"answers"` // encounter order, numbers unique
}

// Map returns the answers keyed by question number.
func (s Sheet) Map() map[int]string {
	out := make(map[int]string, len(s.Answers))
	for _, a := range s.Answers {
		out[a.QuestionNumber] = a.Text
	}
	return out
}

// Numbers returns the answered question numbers in ascending order.
func (s Sheet) Numbers() []int {
	out := make([]int, 0, len(s.Answers))
	for _, a := range s.Answers {
		out = append(out, a.QuestionNumber)
	}
	sort.Ints(out)
	return out
}

// Err reports ErrEmptyInput for an empty sheet. A sheet without markers is
// not an error: its text is kept as answer 1.
func (s Sheet) Err() error {
	if s.Mode == ModeEmpty {
		return models.ErrEmptyInput
	}
	return nil
}

// Options tunes a Parser. Zero fields take the defaults.
type Options struct {
	MCQLineRatio float64
	MCQMinLines  int
	Logger       *log.Logger
}

// Parser parses answer sheets. It is stateless between calls.
type Parser struct {
	opts Options
}

func NewParser(opts Options) *Parser {
	if opts.MCQLineRatio <= 0 || opts.MCQLineRatio > 1 {
		opts.MCQLineRatio = DefaultMCQLineRatio
	}
	if opts.MCQMinLines <= 0 {
		opts.MCQMinLines = DefaultMCQMinLines
	}
	return &Parser{opts: opts}
}

// Parse reads the combined text of every page of one submission.
func (p *Parser) Parse(text string) Sheet {
	if textnorm.IsBlank(text) {
		p.logf("answers: empty input")
		return Sheet{Mode: ModeEmpty, Answers: []models.ParsedAnswer{}}
	}
	lines := stripPageSeparators(textnorm.Lines(text))
	if len(nonBlank(lines)) == 0 {
		p.logf("answers: only page separators")
		return Sheet{Mode: ModeEmpty, Answers: []models.ParsedAnswer{}}
	}

	if letters, ok := positionalMCQ(lines, p.opts.MCQLineRatio, p.opts.MCQMinLines); ok {
		p.logf("answers: pure MCQ sheet, %d answers", len(letters))
		sheet := Sheet{Mode: ModePositional, Answers: make([]models.ParsedAnswer, 0, len(letters))}
		for i, l := range letters {
			sheet.Answers = append(sheet.Answers, direct(i+1, l))
		}
		return sheet
	}

	segs, preamble := split(insertBreaks(lines))
	if len(segs) == 0 {
		p.logf("answers: no markers found, keeping full text as answer 1")
		return Sheet{Mode: ModeWholeText, Answers: []models.ParsedAnswer{direct(1, clean(joinLines(lines)))}}
	}

	sheet := Sheet{Mode: ModeMarkers, Answers: make([]models.ParsedAnswer, 0, len(segs))}
	for i, s := range segs {
		body := s.lines
		if i == 0 && len(preamble) > 0 {
			body = append(append([]string(nil), preamble...), body...)
		}
		sheet.Answers = append(sheet.Answers, direct(s.number, clean(joinLines(body))))
	}
	p.logf("answers: %d answers %v", len(sheet.Answers), sheet.Numbers())
	return sheet
}

func direct(n int, text string) models.ParsedAnswer {
	return models.ParsedAnswer{
		QuestionNumber: n,
		SourceNumber:   n,
		Text:           text,
		Provenance:     models.ProvenanceDirect,
	}
}

func (p *Parser) logf(format string, args ...any) {
	if p.opts.Logger != nil {
		p.opts.Logger.Printf(format, args...)
	}
}
