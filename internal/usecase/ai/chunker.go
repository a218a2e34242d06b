package ai

import (
	"iter"
	"slices"
	"strings"
)

// DefaultChunkThreshold is the chunk size in bytes used when none is configured
const DefaultChunkThreshold = 12000

// SplitTranscript lazily yields chunks of text no larger than threshold bytes.
//
// Chunks concatenate back to text exactly. Boundaries fall on paragraph breaks,
// then line breaks, then sentence ends. A single unit longer than threshold
// (for example one sentence with no break) is yielded whole. Text at or under
// the threshold is yielded as one chunk.
func SplitTranscript(text string, threshold int) iter.Seq[string] {
	return func(yield func(string) bool) {
		if threshold <= 0 || len(text) <= threshold {
			yield(text)
			return
		}

		var buf strings.Builder
		for _, unit := range splitUnits(text, threshold) {
			if buf.Len() > 0 && buf.Len()+len(unit) > threshold {
				if !yield(buf.String()) {
					return
				}
				buf.Reset()
			}
			buf.WriteString(unit)
		}
		if buf.Len() > 0 {
			yield(buf.String())
		}
	}
}

// Chunks collects SplitTranscript into a slice
func Chunks(text string, threshold int) []string {
	return slices.Collect(SplitTranscript(text, threshold))
}

// splitUnits partitions text into the coarsest units that fit under threshold
func splitUnits(text string, threshold int) []string {
	var units []string
	for _, para := range splitAfter(text, "\n\n") {
		if len(para) <= threshold {
			units = append(units, para)
			continue
		}
		for _, line := range linesOf(para) {
			if len(line) <= threshold {
				units = append(units, line)
				continue
			}
			units = append(units, splitSentences(line)...)
		}
	}
	return units
}

// linesOf splits a paragraph after each line break. The blank line closing the
// paragraph stays with its last line so no chunk starts inside a "\n\n".
func linesOf(para string) []string {
	lines := splitAfter(para, "\n")
	if n := len(lines); n > 1 && lines[n-1] == "\n" {
		lines[n-2] += "\n"
		lines = lines[:n-1]
	}
	return lines
}

// splitAfter splits text after each sep, keeping sep on the preceding piece
func splitAfter(text, sep string) []string {
	var parts []string
	for text != "" {
		i := strings.Index(text, sep)
		if i < 0 {
			parts = append(parts, text)
			break
		}
		end := i + len(sep)
		parts = append(parts, text[:end])
		text = text[end:]
	}
	return parts
}

// splitSentences cuts after '.', '!' or '?' followed by whitespace. The
// whitespace stays with the sentence it follows.
func splitSentences(text string) []string {
	var parts []string
	start := 0
	for i := 0; i < len(text); i++ {
		c := text[i]
		if c != '.' && c != '!' && c != '?' {
			continue
		}
		j := i + 1
		for j < len(text) && isSpace(text[j]) {
			j++
		}
		if j == i+1 || j >= len(text) {
			continue
		}
		parts = append(parts, text[start:j])
		start = j
		i = j - 1
	}
	if start < len(text) {
		parts = append(parts, text[start:])
	}
	return parts
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}
