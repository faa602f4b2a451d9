package pipeline

import "github.com/k12grader/parser/pkg/models"

// AttachDiagrams sets HasDiagram on every question with at least one shape
// in idx and returns how many were flagged. Shapes never change parsing.
func AttachDiagrams(questions []models.Question, idx models.DiagramIndex) int {
	n := 0
	for i := range questions {
		if len(idx.For(questions[i].Number)) > 0 {
			questions[i].HasDiagram = true
			n++
		}
	}
	return n
}

// diagramsFor keeps the shapes of questions that exist on the paper.
func diagramsFor(questions []models.Question, idx models.DiagramIndex) models.DiagramIndex {
	if len(idx) == 0 {
		return nil
	}
	out := make(models.DiagramIndex)
	for _, q := range questions {
		if shapes := idx.For(q.Number); len(shapes) > 0 {
			out[q.Number] = shapes
		}
	}
	return out
}
