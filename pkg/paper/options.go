package paper

import (
	"regexp"
	"strings"
)

// option is one lettered choice read from the paper.
type option struct {
	letter  string // upper case
	text    string
	correct bool
	upper   bool // written upper case in the source
}

var (
	// (A) text, [A] text, X (A) text, ✓(A) text
	parenOptionPattern = regexp.MustCompile(`^(?:([xX*✓✔☑✅])\s*)?[(\[]([A-Da-d])[)\]]\s*(.*)$`)
	// A) text, A. text, X a) text
	bareOptionPattern = regexp.MustCompile(`^(?:([xX*✓✔☑✅])\s+)?([A-Da-d])[.)]\s+(.*)$`)
	// one marker of an inline run: "(A)" or "A)" after start or whitespace,
	// optionally preceded by a correctness glyph
	inlineMarkerPattern = regexp.MustCompile(`(?:^|\s)([*✓✔☑✅]?)\s*\(?([A-Da-d])\)`)
	markOnlyPattern     = regexp.MustCompile(`^[xX*✓✔☑✅]$`)
)

var checkGlyphs = strings.NewReplacer("✓", "", "✔", "", "☑", "", "✅", "")

// parseOptionLine reads a line holding either one option or an inline run
// "(A) .. (B) .. (C) .. (D) ..". prefix is any text before the first marker.
func parseOptionLine(s string) (prefix string, opts []option, inline bool) {
	if prefix, opts, ok := parseInlineRun(s); ok {
		return prefix, opts, true
	}
	if m := parenOptionPattern.FindStringSubmatch(s); m != nil {
		return "", []option{newOption(m[2], m[3], m[1] != "")}, false
	}
	if m := bareOptionPattern.FindStringSubmatch(s); m != nil {
		return "", []option{newOption(m[2], m[3], m[1] != "")}, false
	}
	return "", nil, false
}

// parseInlineRun finds at least two markers lettered A, B, ... in order.
// The prefix keeps everything before the run.
func parseInlineRun(s string) (string, []option, bool) {
	locs := inlineMarkerPattern.FindAllStringSubmatchIndex(s, -1)
	if len(locs) < 2 {
		return "", nil, false
	}
	var run [][]int
scan:
	for _, loc := range locs {
		letter := strings.ToUpper(s[loc[4]:loc[5]])
		switch {
		case letter[0] == byte('A'+len(run)):
			run = append(run, loc)
		case letter == "A" && len(run) < 2:
			// "Assertion (A): ... (A) both true (B) ..." restarts the run
			run = [][]int{loc}
		default:
			break scan
		}
	}
	if len(run) < 2 {
		return "", nil, false
	}

	opts := make([]option, 0, len(run))
	for i, loc := range run {
		end := len(s)
		if i+1 < len(run) {
			end = run[i+1][0]
		}
		marked := loc[3] > loc[2]
		opts = append(opts, newOption(s[loc[4]:loc[5]], s[loc[1]:end], marked))
	}
	return strings.TrimSpace(s[:run[0][0]]), opts, true
}

func newOption(letter, text string, marked bool) option {
	text, correct := stripCorrectMarker(text)
	return option{
		letter:  strings.ToUpper(letter),
		text:    text,
		correct: marked || correct,
		upper:   letter == strings.ToUpper(letter),
	}
}

// stripCorrectMarker removes an answer-key glyph from option text. A check
// glyph counts anywhere; an asterisk only at either end, since "2*3" is math.
func stripCorrectMarker(text string) (string, bool) {
	text = strings.TrimSpace(text)
	cleaned := checkGlyphs.Replace(text)
	correct := cleaned != text
	if strings.HasPrefix(cleaned, "*") || strings.HasSuffix(cleaned, "*") {
		correct = true
		cleaned = strings.Trim(cleaned, "*")
	}
	return strings.TrimSpace(cleaned), correct
}

func allUpper(opts []option) bool {
	for _, o := range opts {
		if !o.upper {
			return false
		}
	}
	return true
}
