package ai

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitTranscript(t *testing.T) {
	paragraph := strings.Repeat("Alice talks about the roadmap. ", 10)
	long := strings.Join([]string{paragraph, paragraph, paragraph, paragraph}, "\n\n")

	tests := []struct {
		name      string
		text      string
		threshold int
		wantCount int
	}{
		{name: "empty text", text: "", threshold: 100, wantCount: 1},
		{name: "under threshold", text: "short text", threshold: 100, wantCount: 1},
		{name: "exactly at threshold", text: strings.Repeat("a", 100), threshold: 100, wantCount: 1},
		{name: "non-positive threshold", text: long, threshold: 0, wantCount: 1},
		{name: "paragraphs", text: long, threshold: len(paragraph) + 2, wantCount: 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chunks := Chunks(tt.text, tt.threshold)

			assert.Len(t, chunks, tt.wantCount)
			assert.Equal(t, tt.text, strings.Join(chunks, ""))
		})
	}
}

func TestSplitTranscript_Lossless(t *testing.T) {
	text := "Intro line one.\nIntro line two!\n\n" +
		"Bob: We should migrate the database. Carol: Agreed? Maybe later.\n" +
		"Dave: Next week then.\n\n\n" +
		"Trailing paragraph with no break at all and more words to make it long"

	for _, threshold := range []int{5, 16, 30, 64, 128, len(text) - 1} {
		chunks := Chunks(text, threshold)
		require.NotEmpty(t, chunks)
		assert.Equal(t, text, strings.Join(chunks, ""), "threshold %d", threshold)
	}
}

func TestSplitTranscript_ParagraphBreakStaysWithLine(t *testing.T) {
	text := "First short one.\nSecond short.\nThird short here.\n\nNext para."

	chunks := Chunks(text, 20)

	assert.Equal(t, []string{
		"First short one.\n",
		"Second short.\n",
		"Third short here.\n\n",
		"Next para.",
	}, chunks)
	for _, c := range chunks {
		assert.False(t, strings.HasPrefix(c, "\n"), "chunk %q starts inside a break", c)
	}
}

func TestSplitTranscript_RespectsThreshold(t *testing.T) {
	text := strings.Repeat("One sentence here. ", 50) + "\n" + strings.Repeat("Another line. ", 30)
	threshold := 120

	for _, c := range Chunks(text, threshold) {
		assert.LessOrEqual(t, len(c), threshold)
	}
}

func TestSplitTranscript_OversizedUnitKeptWhole(t *testing.T) {
	word := strings.Repeat("x", 300)
	text := "short.\n\n" + word + "\n\nend."

	chunks := Chunks(text, 50)

	assert.Equal(t, text, strings.Join(chunks, ""))
	found := false
	for _, c := range chunks {
		if strings.Contains(c, word) {
			found = true
			assert.Greater(t, len(c), 50)
		}
	}
	assert.True(t, found, "oversized unit must not be cut")
}

func TestSplitTranscript_SentenceBoundaries(t *testing.T) {
	text := "First sentence is here. Second one follows! Is this the third? Yes it is."

	chunks := Chunks(text, 30)

	require.Greater(t, len(chunks), 1)
	assert.Equal(t, text, strings.Join(chunks, ""))
	for _, c := range chunks[:len(chunks)-1] {
		trimmed := strings.TrimRight(c, " ")
		last := trimmed[len(trimmed)-1]
		assert.Contains(t, ".!?", string(last), "chunk %q should end on a sentence", c)
	}
}

func TestSplitTranscript_StopsEarly(t *testing.T) {
	text := strings.Repeat("Line of text.\n", 100)

	var seen int
	for range SplitTranscript(text, 30) {
		seen++
		if seen == 2 {
			break
		}
	}

	assert.Equal(t, 2, seen)
}
