package app

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"chatdoc/internal/retriever"
	"chatdoc/internal/session"
	"chatdoc/internal/synth"
)

// Answer is a synthesized reply plus the chunks it was grounded on, nearest first.
type Answer struct {
	Text    string
	Sources []retriever.Result
}

// Answer retrieves the configured number of chunks for question and
// synthesizes a reply from them.
func (a *App) Answer(ctx context.Context, sess *session.Session, question string) (*Answer, error) {
	return a.AnswerTopK(ctx, sess, question, a.cfg.TopK)
}

// AnswerTopK is Answer with an explicit retrieval depth. topK <= 0 falls
// back to the configured default.
func (a *App) AnswerTopK(ctx context.Context, sess *session.Session, question string, topK int) (ans *Answer, err error) {
	start := time.Now()
	defer func() {
		answerDuration.Observe(time.Since(start).Seconds())
		answersTotal.WithLabelValues(Kind(err)).Inc()
	}()

	question = strings.TrimSpace(question)
	if !hasWords(question) {
		return nil, ErrInvalidQuestion
	}
	doc := sess.Document()
	if doc == nil {
		return nil, ErrNoDocumentLoaded
	}
	if topK <= 0 {
		topK = a.cfg.TopK
	}

	results, err := a.retriever.Retrieve(ctx, question, doc.Index, topK)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEmbedding, err)
	}
	log.Printf("🔍 Found %d relevant chunks", len(results))

	prompt := synth.BuildPrompt(question, retriever.Texts(results), a.cfg.MaxPromptChars)

	gctx := ctx
	if a.cfg.RequestTimeout > 0 {
		var cancel context.CancelFunc
		gctx, cancel = context.WithTimeout(ctx, a.cfg.RequestTimeout)
		defer cancel()
	}
	text, err := a.generator.Generate(gctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSynthesis, err)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("%w: %w", ErrSynthesis, synth.ErrEmptyResponse)
	}

	return &Answer{Text: text, Sources: results}, nil
}
