package app

import (
	"errors"

	"chatdoc/internal/chunker"
	"chatdoc/internal/extract"
	"chatdoc/internal/quiz"
	"chatdoc/internal/session"
)

var (
	// ErrEmptyDocument means extraction succeeded but produced no letters or digits.
	ErrEmptyDocument = errors.New("document contains no text")
	// ErrNoDocumentLoaded means a question arrived before any successful ingest.
	ErrNoDocumentLoaded = errors.New("no document loaded")
	// ErrSynthesis wraps failures and empty replies of the answer model.
	ErrSynthesis = errors.New("answer synthesis failed")
	// ErrEmbedding wraps failures of the embedding model.
	ErrEmbedding = errors.New("embedding failed")
	// ErrInvalidQuestion is returned for questions without letters or digits.
	ErrInvalidQuestion = errors.New("question is empty")
)

// Kind returns a stable tag for err, used in API responses and metrics.
func Kind(err error) string {
	var parseErr *quiz.ParseError
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, extract.ErrExtraction):
		return "extraction"
	case errors.Is(err, ErrEmptyDocument):
		return "empty_document"
	case errors.Is(err, chunker.ErrInvalidParameter):
		return "invalid_parameter"
	case errors.Is(err, ErrNoDocumentLoaded):
		return "no_document_loaded"
	case errors.Is(err, ErrSynthesis):
		return "synthesis"
	case errors.Is(err, ErrEmbedding):
		return "embedding"
	case errors.Is(err, ErrInvalidQuestion):
		return "invalid_question"
	case errors.Is(err, quiz.ErrInvalidRequest):
		return "invalid_request"
	case errors.Is(err, session.ErrNotFound):
		return "session_not_found"
	case errors.As(err, &parseErr):
		return "parse"
	default:
		return "internal"
	}
}
