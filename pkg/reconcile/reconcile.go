// Package reconcile repairs a draft answer mapping against the question
// numbers a paper actually has.
//
// Answers whose number exists on the paper are kept. The rest are matched to
// the questions nobody answered by word overlap, greedily and in sheet
// order. Greedy matching is explainable and good enough here; a weighted
// bipartite matching over the same scores would be the stricter option.
package reconcile

import (
	"log"

	"github.com/k12grader/parser/pkg/models"
	"github.com/k12grader/parser/pkg/textnorm"
)

// Assignment records one reconciled answer.
type Assignment struct {
	From    int `json:"from"`    // number written on the sheet
	To      int `json:"to"`      // question it was given to
	Overlap int `json:"overlap"` // shared words, -1 for a direct single pair
}

// Result is the repaired mapping.
type Result struct {
	Answers        map[int]models.ParsedAnswer `json:"answers"`
	Unattributable int                         `json:"unattributable"`
	Discarded      []models.ParsedAnswer       `json:"discarded,omitempty"`
	Assignments    []Assignment                `json:"assignments,omitempty"`
}

// Texts returns the final answer text per question number.
func (r Result) Texts() map[int]string {
	out := make(map[int]string, len(r.Answers))
	for n, a := range r.Answers {
		out[n] = a.Text
	}
	return out
}

// Unanswered lists the question numbers, in paper order, that have no answer.
func (r Result) Unanswered(questions []models.Question) []int {
	var out []int
	for _, q := range questions {
		if _, ok := r.Answers[q.Number]; !ok {
			out = append(out, q.Number)
		}
	}
	return out
}

// Reconciler matches draft answers to questions.
type Reconciler struct {
	logger *log.Logger
}

// New returns a Reconciler. logger may be nil.
func New(logger *log.Logger) *Reconciler {
	return &Reconciler{logger: logger}
}

// Reconcile returns the final mapping for draft, which must be in sheet
// order. questions must be in paper order; ties go to the earlier question.
func (r *Reconciler) Reconcile(draft []models.ParsedAnswer, questions []models.Question) Result {
	res := Result{Answers: make(map[int]models.ParsedAnswer, len(draft))}

	known := make(map[int]bool, len(questions))
	for _, q := range questions {
		known[q.Number] = true
	}

	var unmapped []models.ParsedAnswer
	for _, a := range draft {
		if known[a.QuestionNumber] {
			a.Provenance = models.ProvenanceDirect
			res.Answers[a.QuestionNumber] = a
			continue
		}
		unmapped = append(unmapped, a)
	}

	var pool []models.Question
	for _, q := range questions {
		if _, ok := res.Answers[q.Number]; !ok {
			pool = append(pool, q)
		}
	}

	if len(unmapped) == 1 && len(pool) == 1 {
		res.assign(unmapped[0], pool[0].Number, -1)
		r.logf("reconcile: paired lone answer %d with question %d", unmapped[0].SourceNumber, pool[0].Number)
		return res
	}

	poolWords := make([]textnorm.WordSet, len(pool))
	for i, q := range pool {
		poolWords[i] = textnorm.NewWordSet(q.Text)
	}

	for i, a := range unmapped {
		if len(pool) == 0 {
			res.Discarded = append(res.Discarded, unmapped[i:]...)
			res.Unattributable = len(res.Discarded)
			break
		}
		words := textnorm.NewWordSet(a.Text)
		best, score := -1, -1
		for j := range pool {
			if s := words.Overlap(poolWords[j]); s > score {
				best, score = j, s
			}
		}
		res.assign(a, pool[best].Number, score)
		r.logf("reconcile: answer %d -> question %d (overlap %d)", a.SourceNumber, pool[best].Number, score)
		pool = append(pool[:best], pool[best+1:]...)
		poolWords = append(poolWords[:best], poolWords[best+1:]...)
	}

	if res.Unattributable > 0 {
		r.logf("reconcile: %d answer(s) could not be attributed", res.Unattributable)
	}
	return res
}

func (res *Result) assign(a models.ParsedAnswer, to, overlap int) {
	res.Assignments = append(res.Assignments, Assignment{From: a.QuestionNumber, To: to, Overlap: overlap})
	a.QuestionNumber = to
	a.Provenance = models.ProvenanceReconciled
	res.Answers[to] = a
}

func (r *Reconciler) logf(format string, args ...any) {
	if r.logger != nil {
		r.logger.Printf(format, args...)
	}
}
