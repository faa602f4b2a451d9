package textnorm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWords_FoldsCaseAndSplitsOnPunctuation(t *testing.T) {
	got := Words("Newton's 2nd LAW: F=ma, état_final!")
	assert.Equal(t, []string{"newton", "s", "2nd", "law", "f", "ma", "état_final"}, got)
}

func TestWords_Empty(t *testing.T) {
	assert.Empty(t, Words(""))
	assert.Empty(t, Words(" -- ,, "))
}

func TestWordSet_Overlap(t *testing.T) {
	a := NewWordSet("Photosynthesis uses light energy")
	b := NewWordSet("light ENERGY is converted during photosynthesis")
	assert.Equal(t, 3, a.Overlap(b))
	assert.Equal(t, 3, b.Overlap(a))
	assert.Equal(t, 0, a.Overlap(NewWordSet("")))
}
