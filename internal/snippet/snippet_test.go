package snippet

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtract_ShortTextNoTruncation(t *testing.T) {
	s, line := Extract("I like coffee a lot", "coffee", DefaultWidth)

	require.NotNil(t, line)
	assert.Equal(t, 1, *line)
	assert.Equal(t, "I like coffee a lot", s)
}

func TestExtract_LineNumberCountsNewlinesBeforeMatch(t *testing.T) {
	text := "# Title\n\nfirst\nsecond\nCoffee here\n"

	_, line := Extract(text, "coffee", DefaultWidth)

	require.NotNil(t, line)
	assert.Equal(t, strings.Count(text[:strings.Index(text, "Coffee")], "\n")+1, *line)
	assert.Equal(t, 5, *line)
}

func TestExtract_CaseInsensitive(t *testing.T) {
	s, line := Extract("Morning COFFEE ritual", "coffee", DefaultWidth)

	require.NotNil(t, line)
	assert.Contains(t, strings.ToLower(s), "coffee")
}

func TestExtract_WindowIsClippedWithEllipses(t *testing.T) {
	text := strings.Repeat("a", 200) + "needle" + strings.Repeat("b", 200)

	s, line := Extract(text, "needle", 10)

	require.NotNil(t, line)
	assert.Equal(t, "..."+strings.Repeat("a", 10)+"needle"+strings.Repeat("b", 10)+"...", s)
}

func TestExtract_OnlyLeadingEllipsisAtEnd(t *testing.T) {
	text := strings.Repeat("x", 50) + " tail"

	s, _ := Extract(text, "tail", 5)

	assert.True(t, strings.HasPrefix(s, "..."))
	assert.False(t, strings.HasSuffix(s, "..."))
}

func TestExtract_NewlinesCollapsedAndTrimmed(t *testing.T) {
	s, _ := Extract("\nalpha\nbeta\ngamma\n", "beta", DefaultWidth)

	assert.NotContains(t, s, "\n")
	assert.Equal(t, "alpha beta gamma", s)
}

func TestExtract_NoMatchFallsBackToPreview(t *testing.T) {
	text := "line one\n" + strings.Repeat("z", 300)

	s, line := Extract(text, "missing", DefaultWidth)

	assert.Nil(t, line)
	assert.True(t, strings.HasSuffix(s, "..."))
	assert.NotContains(t, s, "\n")
	assert.Equal(t, 150+len("..."), len([]rune(s)))
}

func TestExtract_RuneOffsets(t *testing.T) {
	text := "café crème brûlée"

	s, line := Extract(text, "CRÈME", 2)

	require.NotNil(t, line)
	assert.Equal(t, "...é crème b...", s)
}

func TestExtract_Deterministic(t *testing.T) {
	text := "one two three\nfour five six"

	a, la := Extract(text, "five", 3)
	b, lb := Extract(text, "five", 3)

	assert.Equal(t, a, b)
	assert.Equal(t, *la, *lb)
}

func TestContains(t *testing.T) {
	assert.True(t, Contains("Team Standup Notes", "standup"))
	assert.True(t, Contains("anything", ""))
	assert.False(t, Contains("Team Standup Notes", "retro"))
}
