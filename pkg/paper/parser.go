// Package paper turns the recognised text of a question paper into an
// ordered list of questions.
//
// Parsing is a single forward scan: every line is classified first, then
// fed through an explicit state machine (see transition). Section headers
// install a models.SectionRule, question starts open a draft, and a lone OR
// line inside an internal-choice section waits for the second alternative.
// Papers without any section header are read in flat mode, where marks are
// taken from each question line.
package paper

import (
	"log"
	"strings"

	"github.com/k12grader/parser/pkg/models"
	"github.com/k12grader/parser/pkg/sections"
	"github.com/k12grader/parser/pkg/textnorm"
)

// DefaultFlatMarks is used for a flat-mode question that states no marks.
const DefaultFlatMarks = 5

// Options tunes a Parser. The zero value is usable.
type Options struct {
	FlatDefaultMarks int         // marks for flat questions without an annotation, DefaultFlatMarks if 0
	RawMath          bool        // keep x^2 as written instead of x^{2}
	Logger           *log.Logger // nil disables logging
}

// Parser parses question papers against one section rule table. A Parser
// holds no per-parse state and may be shared between goroutines.
type Parser struct {
	table *sections.Table
	opts  Options
}

// NewParser creates a parser. A nil table selects the default blueprint.
func NewParser(table *sections.Table, opts Options) *Parser {
	if table == nil {
		table = sections.MustDefaultTable()
	}
	if opts.FlatDefaultMarks <= 0 {
		opts.FlatDefaultMarks = DefaultFlatMarks
	}
	return &Parser{table: table, opts: opts}
}

// Parse reads one paper. It never fails: blank input yields StatusEmpty and
// text without any recognisable question yields StatusUnparseable.
func (p *Parser) Parse(text string) Result {
	if textnorm.IsBlank(text) {
		p.logf("paper: empty input")
		return Result{Status: StatusEmpty, Questions: []models.Question{}}
	}

	lines := lex(textnorm.Lines(text), p.table)
	flat := true
	for _, ln := range lines {
		if ln.kind == lineHeader {
			flat = false
			break
		}
	}

	acc := newAccumulator(flat, p.opts)
	st := StateIdle
	for _, ln := range lines {
		st = transition(st, acc, ln)
	}
	acc.close(st, len(lines)+1)

	res := Result{
		Status:      StatusParsed,
		Mode:        ModeSectioned,
		Questions:   acc.questions,
		Sections:    acc.sections,
		Ambiguities: acc.ambiguities,
		Preamble:    strings.Join(acc.preamble, "\n"),
	}
	if flat {
		res.Mode = ModeFlat
	}
	if len(res.Questions) == 0 {
		res.Status = StatusUnparseable
		res.Questions = []models.Question{}
		p.logf("paper: no questions recognised in %d lines", len(lines))
		return res
	}

	p.logf("paper: %d questions, %d marks, %d sections, %d ambiguities (%s)",
		len(res.Questions), res.TotalMarks(), len(res.Sections), len(res.Ambiguities), res.Mode)
	for _, a := range res.Ambiguities {
		p.logf("paper: line %d: %s: %s", a.Line, a.Kind, a.Detail)
	}
	return res
}

func (p *Parser) logf(format string, args ...any) {
	if p.opts.Logger != nil {
		p.opts.Logger.Printf(format, args...)
	}
}
