package models

// Shape is a diagram element reported by the shape detection collaborator.
type Shape struct {
	Type       string  `json:"type"`
	Confidence float64 `json:"confidence,omitempty"`
	Page       int     `json:"page,omitempty"`
}

// DiagramIndex maps an output question number to the shapes found near it.
type DiagramIndex map[int][]Shape

// For returns the shapes recorded for question n.
func (d DiagramIndex) For(n int) []Shape {
	if d == nil {
		return nil
	}
	return d[n]
}

// MergeDiagrams combines per-page indexes into one, keeping page order.
func MergeDiagrams(pages ...DiagramIndex) DiagramIndex {
	out := make(DiagramIndex)
	for _, p := range pages {
		for n, shapes := range p {
			out[n] = append(out[n], shapes...)
		}
	}
	return out
}
