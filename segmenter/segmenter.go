// Package segmenter splits a script into clip-sized text segments.
package segmenter

import (
	"strings"

	"clipforge/types"
)

// WordsPerSecond is the assumed spoken narration pace used to size
// segments against a target clip duration.
const WordsPerSecond = 2.5

// Split breaks a script into ordered segments whose word counts fit a
// clip of targetClipSeconds. Paragraphs are split on blank lines and
// never merged across the break; within a paragraph, whole sentences
// accumulate until the word bound would be exceeded. A lone sentence
// longer than the bound is emitted as its own oversized segment rather
// than dropped or truncated. An empty script yields an empty list.
func Split(script string, targetClipSeconds float64) []types.Segment {
	maxWords := int(targetClipSeconds * WordsPerSecond)
	if maxWords < 1 {
		maxWords = 1
	}

	var segments []types.Segment
	for _, para := range paragraphs(script) {
		var current []string
		currentWords := 0
		flush := func() {
			if len(current) == 0 {
				return
			}
			text := strings.Join(current, " ")
			segments = append(segments, types.Segment{
				Index:          len(segments),
				Text:           text,
				EstimatedWords: currentWords,
			})
			current = nil
			currentWords = 0
		}

		for _, sentence := range sentences(para) {
			words := len(strings.Fields(sentence))
			if currentWords > 0 && currentWords+words > maxWords {
				flush()
			}
			current = append(current, sentence)
			currentWords += words
		}
		flush()
	}
	return segments
}

// paragraphs splits on blank lines, skipping empty blocks
func paragraphs(script string) []string {
	var out []string
	var current []string
	flush := func() {
		if len(current) == 0 {
			return
		}
		out = append(out, strings.Join(current, " "))
		current = nil
	}
	for _, line := range strings.Split(script, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			flush()
			continue
		}
		current = append(current, line)
	}
	flush()
	return out
}

// sentences splits a paragraph on terminal punctuation, keeping the
// punctuation attached to its sentence
func sentences(para string) []string {
	var out []string
	runes := []rune(para)
	start := 0
	i := 0
	for i < len(runes) {
		if isTerminal(runes[i]) {
			// absorb the whole punctuation run ("...", "?!")
			for i+1 < len(runes) && isTerminal(runes[i+1]) {
				i++
			}
			s := strings.TrimSpace(string(runes[start : i+1]))
			if s != "" {
				out = append(out, s)
			}
			start = i + 1
		}
		i++
	}
	if tail := strings.TrimSpace(string(runes[start:])); tail != "" {
		out = append(out, tail)
	}
	return out
}

func isTerminal(r rune) bool {
	return r == '.' || r == '!' || r == '?'
}
