package paper

import (
	"fmt"
	"sort"
	"strings"

	"github.com/k12grader/parser/pkg/models"
	"github.com/k12grader/parser/pkg/textnorm"
)

// State is a scanner state of the paper parser.
type State string

const (
	StateIdle         State = "idle"
	StateInSection    State = "in-section"
	StateAccumulating State = "accumulating-question"
	StateAwaitingOr   State = "awaiting-or-alternative"
)

// draft is a question still being read.
type draft struct {
	line   int // source line of the question start
	number int // number as printed, only used for OR continuity
	marks  int // explicit marks, 0 if none seen yet

	// Per alternative: every body line, and the body without option lines.
	all  [][]string
	stem [][]string

	options    map[string]string
	correct    string
	lastOption string
	markNext   bool
	merged     bool
}

func newDraft(ln line, inline bool) *draft {
	d := &draft{
		line:    ln.no,
		number:  ln.number,
		marks:   ln.marks,
		all:     [][]string{nil},
		stem:    [][]string{nil},
		options: make(map[string]string),
	}
	d.start(ln, inline)
	return d
}

// start records the body of a question-start line. inline says whether its
// inline option run is taken as options.
func (d *draft) start(ln line, inline bool) {
	if !inline || !ln.inline {
		d.appendBody(ln.body, ln.body)
		return
	}
	d.appendBody(ln.body, ln.stem)
	d.addOptions("", "", ln.options)
}

func (d *draft) appendBody(all, stem string) {
	i := len(d.all) - 1
	if all != "" {
		d.all[i] = append(d.all[i], all)
	}
	if stem != "" {
		d.stem[i] = append(d.stem[i], stem)
	}
}

// addText appends an unclassified line, continuing the last option if one
// is open. A marks annotation is taken when none was seen on the start line.
func (d *draft) addText(s string) {
	if d.marks == 0 {
		if rest, m := stripMarks(s); m > 0 {
			d.marks = m
			s = rest
		}
	}
	if s == "" {
		return
	}
	if d.lastOption != "" {
		d.options[d.lastOption] = strings.TrimSpace(d.options[d.lastOption] + " " + s)
		d.appendBody(s, "")
		return
	}
	d.appendBody(s, s)
}

func (d *draft) addOptions(prefix, raw string, opts []option) {
	if prefix != "" {
		d.appendBody("", prefix)
	}
	d.appendBody(raw, "")
	for _, o := range opts {
		d.options[o.letter] = o.text
		if (o.correct || d.markNext) && d.correct == "" {
			d.correct = o.letter
		}
		d.markNext = false
		d.lastOption = o.letter
	}
}

// alternative opens the second body of an internal-choice question.
func (d *draft) alternative(ln line, inline bool, orphan []string) {
	d.all = append(d.all, append([]string(nil), orphan...))
	d.stem = append(d.stem, append([]string(nil), orphan...))
	d.lastOption = ""
	if d.marks == 0 {
		d.marks = ln.marks
	}
	d.start(ln, inline)
	d.merged = true
}

// absorb keeps orphaned lines in the current alternative's body.
func (d *draft) absorb(lines []string) {
	for _, s := range lines {
		d.appendBody(s, s)
	}
}

// text joins the body; stemOnly leaves out the option lines.
func (d *draft) text(stemOnly bool) string {
	src := d.all
	if stemOnly {
		src = d.stem
	}
	parts := make([]string, 0, len(src))
	for _, lines := range src {
		parts = append(parts, strings.Join(lines, " "))
	}
	return strings.Join(parts, models.OrSeparator)
}

// accumulator is the state threaded through transition. Nothing in it is
// shared between parses.
type accumulator struct {
	rule      *models.SectionRule
	flat      bool
	inSection int

	current *draft
	orLine  int
	orphan  []string

	questions   []models.Question
	sections    []models.SectionRule
	ambiguities []Ambiguity
	preamble    []string

	flatDefaultMarks int
	rawMath          bool
}

func newAccumulator(flat bool, opts Options) *accumulator {
	return &accumulator{
		flat:             flat,
		flatDefaultMarks: opts.FlatDefaultMarks,
		rawMath:          opts.RawMath,
	}
}

// transition consumes one line and returns the next state.
func transition(st State, acc *accumulator, ln line) State {
	switch ln.kind {
	case lineBlank, lineAnnotation:
		return st

	case lineHeader:
		acc.close(st, ln.no)
		acc.openSection(ln)
		return StateInSection

	case lineQuestion:
		if st == StateAwaitingOr {
			if ln.number == acc.current.number {
				acc.current.alternative(ln, acc.acceptOptions(ln), acc.orphan)
				acc.orphan = nil
				return StateAccumulating
			}
			acc.abandonOr(ln.no, ln.number)
		}
		acc.flush()
		acc.current = newDraft(ln, acc.acceptOptions(ln))
		return StateAccumulating

	case lineOr:
		if st == StateAccumulating && acc.choiceAllowed() && !acc.current.merged {
			acc.orLine = ln.no
			return StateAwaitingOr
		}
		return acc.text(st, ln.raw)

	case lineMark:
		if st == StateAccumulating {
			acc.current.markNext = true
			return st
		}
		return acc.text(st, ln.raw)

	case lineOption:
		if st != StateAccumulating || !acc.acceptOptions(ln) {
			return acc.text(st, ln.raw)
		}
		acc.current.addOptions(ln.prefix, ln.raw, ln.options)
		return st
	}
	return acc.text(st, ln.raw)
}

// text routes a line that starts nothing: into the open question, the OR
// orphan buffer, or the preamble.
func (acc *accumulator) text(st State, s string) State {
	switch st {
	case StateAccumulating:
		acc.current.addText(s)
	case StateAwaitingOr:
		acc.orphan = append(acc.orphan, s)
	default:
		acc.preamble = append(acc.preamble, s)
	}
	return st
}

func (acc *accumulator) choiceAllowed() bool {
	return acc.flat || (acc.rule != nil && acc.rule.InternalChoice)
}

// acceptOptions decides whether an option line is a real option. Outside
// option-bearing sections lower-case sub-parts like "(a)" stay body text.
func (acc *accumulator) acceptOptions(ln line) bool {
	if acc.flat || acc.rule == nil || acc.rule.DefaultType.HasOptions() || acc.rule.Mixed() {
		return true
	}
	return allUpper(ln.options) || (ln.inline && len(ln.options) == 4)
}

func (acc *accumulator) openSection(ln line) {
	rule := ln.rule
	acc.rule = &rule
	acc.inSection = 0
	acc.sections = append(acc.sections, rule)
	if ln.totalMismatch {
		acc.ambiguities = append(acc.ambiguities, Ambiguity{
			Kind:   AmbiguityAnnotationTotal,
			Line:   ln.no,
			Detail: fmt.Sprintf("section %s annotation total does not equal count x marks", rule.Tag),
		})
	}
}

// close finishes whatever is open before a header or the end of input.
func (acc *accumulator) close(st State, at int) {
	if st == StateAwaitingOr {
		acc.abandonOr(at, 0)
	}
	acc.flush()
}

// abandonOr finalises the first alternative on its own. next is the source
// number that broke continuity, 0 for a header or end of input.
func (acc *accumulator) abandonOr(at, next int) {
	d := acc.current
	amb := Ambiguity{
		Kind:     AmbiguityOrNumberMismatch,
		Line:     acc.orLine,
		Question: len(acc.questions) + 1,
	}
	switch {
	case len(acc.orphan) > 0:
		amb.Kind = AmbiguityOrOrphanedText
		amb.Detail = fmt.Sprintf("%d unnumbered line(s) after OR kept in question %d", len(acc.orphan), amb.Question)
	case next > 0:
		amb.Detail = fmt.Sprintf("OR after source number %d followed by %d on line %d", d.number, next, at)
	default:
		amb.Detail = fmt.Sprintf("OR after source number %d has no second alternative", d.number)
	}
	d.absorb(acc.orphan)
	acc.orphan = nil
	acc.ambiguities = append(acc.ambiguities, amb)
}

// flush emits the open question, if any.
func (acc *accumulator) flush() {
	d := acc.current
	if d == nil {
		return
	}
	acc.current = nil
	acc.inSection++

	q := models.Question{
		Number:            len(acc.questions) + 1,
		Marks:             acc.marksFor(d),
		HasInternalChoice: d.merged,
	}
	if acc.rule != nil {
		q.Section = acc.rule.Tag
	}

	full := d.text(false)
	// Option text never holds an internal choice: "AND OR NOT" is one option.
	if !d.merged && acc.flat && len(d.all) == 1 && len(d.options) == 0 {
		if first, second, ok := splitInlineOr(full); ok {
			d.all = [][]string{{first}, {second}}
			d.stem = d.all
			q.HasInternalChoice = true
			full = d.text(false)
		}
	}

	q.Type = classifyQuestion(acc.rule, acc.inSection, full, q.Marks, len(d.options))
	if q.Type.HasOptions() && len(d.options) > 0 {
		q.Text = d.text(true)
		q.Options = d.options
		q.CorrectOption = d.correct
	} else {
		q.Text = full
	}
	if !acc.rawMath {
		q.Text = textnorm.BraceScripts(q.Text)
	}
	acc.questions = append(acc.questions, q)

	if unlabelledAssertion(acc.rule, acc.inSection, full) {
		acc.ambiguities = append(acc.ambiguities, Ambiguity{
			Kind:     AmbiguityAssertionLabel,
			Line:     d.line,
			Question: q.Number,
			Detail:   fmt.Sprintf("section %s item %d read as assertion-reason without an Assertion label", acc.rule.Tag, acc.inSection),
		})
	}
	if acc.rule != nil && acc.rule.ExpectedQuestions > 0 && acc.inSection > acc.rule.ExpectedQuestions {
		acc.ambiguities = append(acc.ambiguities, Ambiguity{
			Kind:     AmbiguitySectionOverflow,
			Line:     d.line,
			Question: q.Number,
			Detail: fmt.Sprintf("section %s expects %d questions, found %d",
				acc.rule.Tag, acc.rule.ExpectedQuestions, acc.inSection),
		})
	}
}

func (acc *accumulator) marksFor(d *draft) int {
	switch {
	case d.marks > 0:
		return d.marks
	case acc.rule != nil && acc.rule.MarksPerQuestion > 0:
		return acc.rule.MarksPerQuestion
	case acc.flatDefaultMarks > 0:
		return acc.flatDefaultMarks
	}
	return DefaultFlatMarks
}

// splitInlineOr splits a flat body on a single standalone upper-case OR.
func splitInlineOr(s string) (string, string, bool) {
	if strings.Count(s, " OR ") != 1 {
		return "", "", false
	}
	first, second, _ := strings.Cut(s, " OR ")
	first, second = strings.TrimSpace(first), strings.TrimSpace(second)
	if first == "" || second == "" {
		return "", "", false
	}
	return first, second, true
}

// optionLetters returns the option keys in letter order.
func optionLetters(opts map[string]string) []string {
	keys := make([]string, 0, len(opts))
	for k := range opts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
