package sections

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	headerPattern     = regexp.MustCompile(`(?i)^[^a-z0-9]*section[\s\-–—:.(\[]+([a-z])\b[\s)\]\-–—:.]*(.*)$`)
	annotationPattern = regexp.MustCompile(`(?i)(\d{1,3})\s*[x×*]\s*(\d{1,3})\s*=\s*(\d{1,4})(?:\s*marks?)?`)
)

// Header is a recognised "SECTION <letter>" line.
type Header struct {
	Letter string // upper case
	Rest   string // text after the letter, may hold an annotation
}

// MatchHeader recognises section headers in any bracket, dash or case
// variant: "SECTION A", "Section - B", "[SECTION (C)]", "— section-d —".
func MatchHeader(line string) (Header, bool) {
	m := headerPattern.FindStringSubmatch(strings.TrimSpace(line))
	if m == nil {
		return Header{}, false
	}
	return Header{Letter: strings.ToUpper(m[1]), Rest: strings.TrimSpace(m[2])}, true
}

// Annotation is an inline "N x M = Total" marks breakdown.
type Annotation struct {
	Count int
	Marks int
	Total int
}

// Consistent reports whether Count x Marks equals Total.
func (a Annotation) Consistent() bool {
	return a.Count*a.Marks == a.Total
}

// ParseAnnotation finds the first "N x M = Total" breakdown in s.
func ParseAnnotation(s string) (Annotation, bool) {
	m := annotationPattern.FindStringSubmatch(s)
	if m == nil {
		return Annotation{}, false
	}
	count, _ := strconv.Atoi(m[1])
	marks, _ := strconv.Atoi(m[2])
	total, _ := strconv.Atoi(m[3])
	if count <= 0 || marks <= 0 {
		return Annotation{}, false
	}
	return Annotation{Count: count, Marks: marks, Total: total}, true
}
