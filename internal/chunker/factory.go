package chunker

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Factory creates a chunker for a document based on the configured method or file type.
type Factory struct {
	config Config
}

// NewFactory returns a factory whose chunkers all share config.
func NewFactory(config Config) *Factory {
	return &Factory{config: config}
}

// GetChunker honours an explicit method first and falls back to the file extension.
func (f *Factory) GetChunker(source, method string) (Chunker, error) {
	if err := f.config.Validate(); err != nil {
		return nil, err
	}

	switch strings.ToLower(method) {
	case "markdown", "md":
		return NewMarkdownChunker(f.config), nil
	case "words", "text", "txt":
		return NewWordChunker(f.config), nil
	case "", "auto":
	default:
		return nil, fmt.Errorf("%w: unknown chunking method %q", ErrInvalidParameter, method)
	}

	switch strings.ToLower(filepath.Ext(source)) {
	case ".md", ".markdown":
		return NewMarkdownChunker(f.config), nil
	default:
		return NewWordChunker(f.config), nil
	}
}
