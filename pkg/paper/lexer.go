package paper

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/k12grader/parser/pkg/models"
	"github.com/k12grader/parser/pkg/sections"
)

type lineKind int

const (
	lineBlank lineKind = iota
	lineHeader
	lineAnnotation
	lineQuestion
	lineOr
	lineOption
	lineMark // lone correctness glyph, marks the next option
	lineText
)

func (k lineKind) String() string {
	switch k {
	case lineBlank:
		return "blank"
	case lineHeader:
		return "header"
	case lineAnnotation:
		return "annotation"
	case lineQuestion:
		return "question"
	case lineOr:
		return "or"
	case lineOption:
		return "option"
	case lineMark:
		return "mark"
	default:
		return "text"
	}
}

// line is one classified source line.
type line struct {
	no   int // 1-based
	kind lineKind
	raw  string

	// header
	rule          models.SectionRule
	totalMismatch bool

	// question start
	number int
	body   string // full body, marks annotation removed
	stem   string // body before any inline option run
	marks  int    // explicit per-question marks, 0 if none

	// options, on option lines and on question starts with an inline run
	prefix  string
	options []option
	inline  bool
}

var (
	// Q1. text | Q.1 text | Question 3: text | 1. text | 1) text | "1." alone
	questionPattern = regexp.MustCompile(`(?i)^(?:q(?:ues(?:tion)?)?\s*[.\-:]?\s*(\d{1,2})\s*[.):\-]?|(\d{1,2})\s*[.)])(?:\s+(.*))?$`)
	orPattern       = regexp.MustCompile(`(?i)^[\s\-–—(\[]*or[\s\-–—)\]]*$`)
	// (3 marks) | [2 Marks] | [3] at the end | - 5 marks
	marksPattern = regexp.MustCompile(`(?i)\s*(?:[\[(]\s*(\d{1,2})\s*marks?\s*[\])]|\[\s*(\d{1,2})\s*\]\s*$|[-–]\s*(\d{1,2})\s*marks?\b)`)
)

// lex classifies every line. Header rules are resolved here, including the
// annotation lookahead, so the state machine only sees finished lines.
func lex(raw []string, table *sections.Table) []line {
	out := make([]line, len(raw))
	consumed := make(map[int]bool)

	for i, s := range raw {
		ln := line{no: i + 1, raw: s}
		switch {
		case s == "":
			ln.kind = lineBlank
		case consumed[i]:
			ln.kind = lineAnnotation
		default:
			if h, ok := sections.MatchHeader(s); ok {
				ln.kind = lineHeader
				ann, found := sections.ParseAnnotation(h.Rest)
				if !found {
					ann, found = lookaheadAnnotation(raw, i, consumed)
				}
				if found {
					ln.rule = table.Resolve(h.Letter, &ann)
					ln.totalMismatch = !ann.Consistent()
				} else {
					ln.rule = table.Resolve(h.Letter, nil)
				}
			} else {
				classify(&ln, s)
			}
		}
		out[i] = ln
	}
	return out
}

func lookaheadAnnotation(raw []string, at int, consumed map[int]bool) (sections.Annotation, bool) {
	seen := 0
	for j := at + 1; j < len(raw) && seen < sections.AnnotationLookahead; j++ {
		s := raw[j]
		if s == "" {
			continue
		}
		seen++
		if _, ok := sections.MatchHeader(s); ok {
			break
		}
		if questionPattern.MatchString(s) {
			break
		}
		if ann, ok := sections.ParseAnnotation(s); ok {
			consumed[j] = true
			return ann, true
		}
	}
	return sections.Annotation{}, false
}

func classify(ln *line, s string) {
	if orPattern.MatchString(s) {
		ln.kind = lineOr
		return
	}
	if m := questionPattern.FindStringSubmatch(s); m != nil {
		num := m[1]
		if num == "" {
			num = m[2]
		}
		ln.kind = lineQuestion
		ln.number, _ = strconv.Atoi(num)
		ln.body, ln.marks = stripMarks(strings.TrimSpace(m[3]))
		ln.stem = ln.body
		if prefix, opts, inline := parseOptionLine(ln.body); inline {
			ln.stem, ln.options, ln.inline = prefix, opts, true
		}
		return
	}
	if markOnlyPattern.MatchString(s) {
		ln.kind = lineMark
		return
	}
	if prefix, opts, inline := parseOptionLine(s); len(opts) > 0 {
		ln.kind = lineOption
		ln.prefix, ln.options, ln.inline = prefix, opts, inline
		return
	}
	ln.kind = lineText
	ln.body = s
}

// stripMarks removes the last explicit marks annotation from text.
func stripMarks(text string) (string, int) {
	locs := marksPattern.FindAllStringSubmatchIndex(text, -1)
	if len(locs) == 0 {
		return text, 0
	}
	loc := locs[len(locs)-1]
	marks := 0
	for g := 1; g <= 3; g++ {
		if loc[2*g] >= 0 {
			marks, _ = strconv.Atoi(text[loc[2*g]:loc[2*g+1]])
			break
		}
	}
	if marks <= 0 {
		return text, 0
	}
	rest := strings.TrimSpace(text[:loc[0]] + " " + strings.TrimSpace(text[loc[1]:]))
	return strings.TrimSpace(rest), marks
}
