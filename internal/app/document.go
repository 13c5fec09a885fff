package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"chatdoc/internal/extract"
	"chatdoc/internal/index"
	"chatdoc/internal/session"
)

// Ingest turns raw document bytes into a searchable index and makes it the
// session's current document. The session is untouched when any step fails.
func (a *App) Ingest(ctx context.Context, sess *session.Session, name string, data []byte) (doc *session.DocumentState, err error) {
	start := time.Now()
	defer func() {
		ingestDuration.Observe(time.Since(start).Seconds())
		ingestsTotal.WithLabelValues(Kind(err)).Inc()
	}()

	log.Printf("📄 File loaded: %s, %d bytes", name, len(data))

	text, err := a.extractor.Extract(name, data)
	if err != nil {
		if !errors.Is(err, extract.ErrExtraction) {
			err = fmt.Errorf("%w: %w", extract.ErrExtraction, err)
		}
		return nil, err
	}
	if !hasWords(text) {
		return nil, ErrEmptyDocument
	}

	chunkr, err := a.chunkers.GetChunker(name, a.cfg.ChunkMethod)
	if err != nil {
		return nil, err
	}
	// the section chunker needs the headings the extractor strips
	input := text
	if chunkr.Name() == "markdown" && isMarkdown(name) {
		input = string(data)
	}
	chunks, err := chunkr.Chunk(input, filepath.Base(name))
	if err != nil {
		return nil, err
	}
	if len(chunks) == 0 {
		return nil, ErrEmptyDocument
	}
	log.Printf("📦 Split into %d chunks with %s chunker", len(chunks), chunkr.Name())

	idx, err := index.Build(ctx, chunks, a.embedder)
	if err != nil {
		if errors.Is(err, index.ErrDimensionMismatch) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", ErrEmbedding, err)
	}

	doc = &session.DocumentState{
		Name:       filepath.Base(name),
		Chunks:     chunks,
		Index:      idx,
		IngestedAt: time.Now(),
	}
	sess.SetDocument(doc)
	documentChunks.Observe(float64(len(chunks)))
	return doc, nil
}

// hasWords reports whether s holds at least one letter or digit.
func hasWords(s string) bool {
	return strings.IndexFunc(s, func(r rune) bool {
		return unicode.IsLetter(r) || unicode.IsDigit(r)
	}) >= 0
}

func isMarkdown(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".md", ".markdown":
		return true
	}
	return false
}
