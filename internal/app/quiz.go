package app

import (
	"context"
	"errors"
	"fmt"
	"log"

	"chatdoc/internal/quiz"
)

// Quiz generates multiple-choice questions on a topic. Model failures are
// reported as ErrSynthesis; unreadable replies as *quiz.ParseError.
func (a *App) Quiz(ctx context.Context, req quiz.Request) (questions []quiz.Question, err error) {
	defer func() { quizzesTotal.WithLabelValues(Kind(err)).Inc() }()

	if a.cfg.RequestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.cfg.RequestTimeout)
		defer cancel()
	}

	questions, err = quiz.Generate(ctx, a.generator, req)
	if err != nil {
		var perr *quiz.ParseError
		if errors.As(err, &perr) || errors.Is(err, quiz.ErrInvalidRequest) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", ErrSynthesis, err)
	}
	log.Printf("📝 Generated %d quiz questions about %s", len(questions), req.Topic)
	return questions, nil
}
