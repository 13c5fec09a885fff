package chunker

import (
	"errors"
	"fmt"
)

// ErrInvalidParameter is returned when chunk size and overlap cannot produce
// a terminating split (size <= 0, overlap < 0 or overlap >= size).
var ErrInvalidParameter = errors.New("invalid chunking parameter")

// Chunk is an immutable window of document words used as the unit of retrieval.
type Chunk struct {
	ID       string            `json:"id"`
	Index    int               `json:"index"`
	Text     string            `json:"text"`
	Source   string            `json:"source,omitempty"`
	Section  string            `json:"section,omitempty"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// Chunker splits extracted document text into ordered chunks.
type Chunker interface {
	Chunk(content, source string) ([]Chunk, error)

	// Name is used in log lines only.
	Name() string
}

// Config holds the word window parameters shared by all chunkers.
type Config struct {
	Size    int // words per chunk
	Overlap int // words carried from the previous chunk
}

// Validate reports ErrInvalidParameter unless 0 <= Overlap < Size.
func (c Config) Validate() error {
	return validate(c.Size, c.Overlap)
}

func validate(size, overlap int) error {
	switch {
	case size <= 0:
		return fmt.Errorf("%w: chunk size %d must be positive", ErrInvalidParameter, size)
	case overlap < 0:
		return fmt.Errorf("%w: overlap %d must not be negative", ErrInvalidParameter, overlap)
	case overlap >= size:
		return fmt.Errorf("%w: overlap %d must be smaller than chunk size %d", ErrInvalidParameter, overlap, size)
	}
	return nil
}
