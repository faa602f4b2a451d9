// Package textnorm cleans raw OCR text before structural parsing.
//
// Rules:
//   - Unicode is composed (NFC) and full-width forms are narrowed, so
//     "Ｑ１２．" reads as "Q12.".
//   - Zero-width characters and soft hyphens are dropped.
//   - Line breaks are kept; CR/CRLF become LF, tabs and NBSP become spaces,
//     runs of spaces collapse and lines are right-trimmed.
package textnorm

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"
)

var (
	spaceRun    = regexp.MustCompile(` {2,}`)
	superscript = regexp.MustCompile(`(\w)\^([0-9A-Za-z]+)`)
	subscript   = regexp.MustCompile(`([A-Za-z])_([0-9]+)`)
)

var invisible = strings.NewReplacer(
	"\u200b", "",
	"\u200c", "",
	"\u200d", "",
	"\u2060", "",
	"\ufeff", "",
	"\u00ad", "",
)

var spacing = strings.NewReplacer(
	"\r\n", "\n",
	"\r", "\n",
	"\t", " ",
	"\u00a0", " ",
	"\u2007", " ",
	"\u202f", " ",
	"\f", "\n",
	"\v", "\n",
)

// Normalize returns text with stable line structure and cleaned characters.
func Normalize(text string) string {
	if text == "" {
		return ""
	}
	text = norm.NFC.String(text)
	text = width.Narrow.String(text)
	text = invisible.Replace(text)
	text = spacing.Replace(text)

	lines := strings.Split(text, "\n")
	for i, l := range lines {
		l = spaceRun.ReplaceAllString(l, " ")
		lines[i] = strings.TrimRight(l, " ")
	}
	return strings.Join(lines, "\n")
}

// Lines normalizes text and returns its lines with surrounding space removed.
// Blank lines are kept as "" so callers can report stable line numbers.
func Lines(text string) []string {
	lines := strings.Split(Normalize(text), "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSpace(l)
	}
	return lines
}

// IsBlank reports whether text holds nothing but whitespace.
func IsBlank(text string) bool {
	return strings.TrimSpace(invisible.Replace(text)) == ""
}

// BraceScripts rewrites bare powers and numeric subscripts into braced form:
// x^2 -> x^{2}, H_2O -> H_{2}O. Already braced text is left unchanged.
func BraceScripts(text string) string {
	text = superscript.ReplaceAllString(text, "${1}^{${2}}")
	return subscript.ReplaceAllString(text, "${1}_{${2}}")
}
