package chunker

import (
	"log"
	"strconv"
	"strings"
)

// Words splits text into windows of size words where each window after the
// first starts with the last overlap words of its predecessor. The final
// window may be shorter than size. A trailing buffer holding only carried
// overlap words is not emitted, so no chunk is a pure repeat of its neighbour.
func Words(text string, size, overlap int) ([]Chunk, error) {
	return windows(SplitWords(text), size, overlap, 0, "", "")
}

func windows(words []string, size, overlap, first int, source, section string) ([]Chunk, error) {
	if err := validate(size, overlap); err != nil {
		return nil, err
	}

	var chunks []Chunk
	buf := make([]string, 0, size)
	fresh := 0 // words in buf that no earlier chunk contains

	emit := func() {
		idx := first + len(chunks)
		chunks = append(chunks, CreateChunk(idx, strings.Join(buf, " "), source, section, map[string]string{
			"words": strconv.Itoa(len(buf)),
		}))
	}

	for _, w := range words {
		buf = append(buf, w)
		fresh++
		if len(buf) >= size {
			emit()
			tail := buf[len(buf)-overlap:]
			buf = append(make([]string, 0, size), tail...)
			fresh = 0
		}
	}

	if fresh > 0 {
		emit()
	}

	return chunks, nil
}

// WordChunker is the default chunker: fixed-size overlapping word windows.
type WordChunker struct {
	config Config
}

// NewWordChunker returns a chunker that cuts text into overlapping word windows.
func NewWordChunker(config Config) *WordChunker {
	return &WordChunker{config: config}
}

func (w *WordChunker) Name() string {
	return "words"
}

func (w *WordChunker) Chunk(content, source string) ([]Chunk, error) {
	chunks, err := windows(SplitWords(content), w.config.Size, w.config.Overlap, 0, source, "")
	if err != nil {
		return nil, err
	}
	log.Printf("✅ [%s] Created %d chunks (size=%d, overlap=%d)", w.Name(), len(chunks), w.config.Size, w.config.Overlap)
	return chunks, nil
}
