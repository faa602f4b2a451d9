package answers

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	// a marker anywhere in a line: "3. ", "3) ", "Q3. ", "Ans 3) "
	inlineMarker = regexp.MustCompile(`(?i)(?:(?:q(?:ues(?:tion)?)?|ans(?:wer)?|sol(?:ution)?)[.\-]?\s*)?\d{1,2}[.)](?:\s|$)`)
	// a marker at the start of a line, after insertBreaks
	lineMarker     = regexp.MustCompile(`(?i)^((?:q(?:ues(?:tion)?)?|ans(?:wer)?|sol(?:ution)?)?[.\-\s]*\(?)(\d{1,2})[.)](?:\s+|$)(.*)$`)
	explicitPrefix = regexp.MustCompile(`(?i)q|ans|sol`)
)

// bulletDrop is how far below the active question a bare number must fall
// to be read as a list item instead of a new answer.
const bulletDrop = 3

// insertBreaks undoes multi-column OCR: every marker standing after
// whitespace starts a new line. A marker glued to "(" or a word character,
// as in "(1)" or "x2.", stays where it is.
func insertBreaks(lines []string) []string {
	out := make([]string, 0, len(lines))
	for _, l := range lines {
		out = append(out, breakLine(l)...)
	}
	return out
}

func breakLine(l string) []string {
	var parts []string
	last := 0
	for pos := 0; pos < len(l); {
		loc := inlineMarker.FindStringIndex(l[pos:])
		if loc == nil {
			break
		}
		start, end := pos+loc[0], pos+loc[1]
		if start == 0 {
			pos = end
			continue
		}
		if r, _ := utf8.DecodeLastRuneInString(l[:start]); unicode.IsSpace(r) {
			parts = append(parts, strings.TrimRightFunc(l[last:start], unicode.IsSpace))
			last, pos = start, end
			continue
		}
		_, size := utf8.DecodeRuneInString(l[start:])
		pos = start + size
	}
	return append(parts, l[last:])
}

type segment struct {
	number int
	lines  []string
}

// split groups lines under their markers. Lines before the first marker are
// returned as preamble. A bare number already used, or one that drops more
// than bulletDrop below the active question, is a list item of the active
// answer. A repeated explicit marker continues the earlier answer.
func split(lines []string) ([]*segment, []string) {
	var (
		segs     []*segment
		preamble []string
		cur      *segment
		byNumber = make(map[int]*segment)
	)
	for _, l := range lines {
		m := lineMarker.FindStringSubmatch(l)
		if m == nil {
			if cur == nil {
				preamble = append(preamble, l)
			} else {
				cur.lines = append(cur.lines, l)
			}
			continue
		}

		num, _ := strconv.Atoi(m[2])
		if cur != nil && !explicitPrefix.MatchString(m[1]) {
			_, seen := byNumber[num]
			if seen || (num < cur.number && cur.number-num > bulletDrop) {
				cur.lines = append(cur.lines, l)
				continue
			}
		}

		if s, ok := byNumber[num]; ok {
			cur = s
		} else {
			cur = &segment{number: num}
			byNumber[num] = cur
			segs = append(segs, cur)
		}
		cur.lines = append(cur.lines, m[3])
	}
	return segs, preamble
}

func joinLines(lines []string) string {
	return strings.Join(lines, "\n")
}

func nonBlank(lines []string) []string {
	out := make([]string, 0, len(lines))
	for _, l := range lines {
		if l != "" {
			out = append(out, l)
		}
	}
	return out
}
