// Package chunker splits raw document text into bounded-size chunks.
// Chunk boundaries must be deterministic: vector IDs and retrieval
// granularity depend on them.
package chunker

import (
	"regexp"
	"strings"
)

// DefaultMaxChunkSize is the soft chunk-size target in bytes.
const DefaultMaxChunkSize = 500

var paragraphBreak = regexp.MustCompile(`\n{2,}`)

// Split divides text into ordered, non-empty chunks of roughly
// maxChunkSize bytes. Paragraphs (blank-line separated) are greedily
// accumulated; if that yields nothing, the text is re-split at sentence
// boundaries. A single paragraph or sentence longer than maxChunkSize is
// emitted whole: the limit is a soft target, never a mid-token cut.
func Split(text string, maxChunkSize int) []string {
	if maxChunkSize <= 0 {
		maxChunkSize = DefaultMaxChunkSize
	}

	clean := strings.TrimSpace(strings.ReplaceAll(text, "\r\n", "\n"))
	if clean == "" {
		return nil
	}

	chunks := accumulate(paragraphs(clean), maxChunkSize, "\n\n")

	// Sentence-level fallback keeps pathological inputs (paragraph pass
	// produced nothing) retrievable at a finer granularity.
	if len(chunks) == 0 {
		chunks = accumulate(sentences(clean), maxChunkSize, " ")
	}

	return chunks
}

// accumulate greedily packs parts into chunks: a part that would push a
// non-empty running chunk past maxChunkSize closes it and starts the next.
// The length test ignores the separator, matching the reference behavior.
func accumulate(parts []string, maxChunkSize int, sep string) []string {
	var chunks []string
	var current string

	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		if len(current)+len(part) > maxChunkSize && current != "" {
			chunks = append(chunks, current)
			current = part
			continue
		}

		if current == "" {
			current = part
		} else {
			current += sep + part
		}
	}

	if current != "" {
		chunks = append(chunks, current)
	}

	return chunks
}

func paragraphs(text string) []string {
	return paragraphBreak.Split(text, -1)
}

// sentences splits after '.', '!' or '?' followed by whitespace,
// consuming the whitespace run as the separator.
func sentences(text string) []string {
	var out []string
	start := 0

	for i := 0; i < len(text); i++ {
		c := text[i]
		if c != '.' && c != '!' && c != '?' {
			continue
		}
		if i+1 >= len(text) || !isSpace(text[i+1]) {
			continue
		}
		out = append(out, text[start:i+1])
		j := i + 1
		for j < len(text) && isSpace(text[j]) {
			j++
		}
		start = j
		i = j - 1
	}

	if start < len(text) {
		out = append(out, text[start:])
	}

	return out
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}
