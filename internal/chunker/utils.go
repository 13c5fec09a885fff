package chunker

import (
	"crypto/sha256"
	"fmt"
	"strings"
)

// CreateChunk builds a chunk with an ID derived from its text, source and position.
func CreateChunk(index int, text, source, section string, metadata map[string]string) Chunk {
	hash := sha256.Sum256([]byte(fmt.Sprintf("%s\x00%s\x00%d", source, text, index)))

	return Chunk{
		ID:       fmt.Sprintf("%x", hash[:8]),
		Index:    index,
		Text:     text,
		Source:   source,
		Section:  section,
		Metadata: metadata,
	}
}

// SplitWords splits text on any run of whitespace.
func SplitWords(text string) []string {
	return strings.Fields(text)
}

// Contribution returns the words chunk i adds beyond the overlap carried from
// chunk i-1. Joining the contributions of all chunks yields the source words.
func Contribution(chunks []Chunk, i, overlap int) []string {
	words := SplitWords(chunks[i].Text)
	if i == 0 || overlap == 0 {
		return words
	}
	if overlap > len(words) {
		return nil
	}
	return words[overlap:]
}
