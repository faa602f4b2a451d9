package textnorm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize_FullWidthAndInvisible(t *testing.T) {
	got := Normalize("Ｑ１２．\u200bWhat is  force?\r\nnext\tline  ")
	assert.Equal(t, "Q12.What is force?\nnext line", got)
}

func TestNormalize_KeepsBlankLines(t *testing.T) {
	got := Normalize("a\r\n\r\nb")
	assert.Equal(t, "a\n\nb", got)
}

func TestLines_TrimsEachLine(t *testing.T) {
	lines := Lines("  SECTION A  \n\n   1. First\n")
	require.Len(t, lines, 4)
	assert.Equal(t, []string{"SECTION A", "", "1. First", ""}, lines)
}

func TestIsBlank(t *testing.T) {
	assert.True(t, IsBlank(""))
	assert.True(t, IsBlank(" \n\t \u200b"))
	assert.False(t, IsBlank(" x "))
}

func TestBraceScripts(t *testing.T) {
	cases := map[string]string{
		"x^2 + y^n":       "x^{2} + y^{n}",
		"H_2O and CO_2":   "H_{2}O and CO_{2}",
		"x^{2} stays":     "x^{2} stays",
		"net_force holds": "net_force holds",
	}
	for in, want := range cases {
		assert.Equal(t, want, BraceScripts(in), in)
		assert.Equal(t, want, BraceScripts(BraceScripts(in)), "idempotent: %s", in)
	}
}
