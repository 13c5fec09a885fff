// Package quiz generates multiple-choice questions with a chat model and
// parses its plain-text reply into structured questions.
package quiz

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"chatdoc/internal/synth"
)

const (
	DefaultCount      = 5
	MaxCount          = 20
	DefaultDifficulty = "medium"
)

var ErrInvalidRequest = errors.New("invalid quiz request")

type Request struct {
	Topic      string `json:"topic"`
	Difficulty string `json:"difficulty"`
	Count      int    `json:"count"`
}

// Question is one multiple-choice item. Answer is the letter a-d of the
// correct option.
type Question struct {
	Question    string    `json:"question"`
	Options     [4]string `json:"options"`
	Answer      string    `json:"answer"`
	Explanation string    `json:"explanation,omitempty"`
}

// Correct returns the text of the correct option.
func (q Question) Correct() string {
	if len(q.Answer) != 1 || q.Answer[0] < 'a' || q.Answer[0] > 'd' {
		return ""
	}
	return q.Options[q.Answer[0]-'a']
}

func (r Request) normalize() (Request, error) {
	r.Topic = strings.TrimSpace(r.Topic)
	if r.Topic == "" {
		return r, fmt.Errorf("%w: topic is empty", ErrInvalidRequest)
	}
	r.Difficulty = strings.TrimSpace(r.Difficulty)
	if r.Difficulty == "" {
		r.Difficulty = DefaultDifficulty
	}
	if r.Count == 0 {
		r.Count = DefaultCount
	}
	if r.Count < 0 || r.Count > MaxCount {
		return r, fmt.Errorf("%w: count must be between 1 and %d, got %d", ErrInvalidRequest, MaxCount, r.Count)
	}
	return r, nil
}

// Prompt renders the instruction sent to the model for req.
func Prompt(req Request) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Create %d multiple-choice questions about %s at %s level.\n\n", req.Count, req.Topic, req.Difficulty)
	b.WriteString("Use exactly this format for each question:\n\n")
	b.WriteString("Q: Write the question here\n")
	b.WriteString("(a) First option\n")
	b.WriteString("(b) Second option\n")
	b.WriteString("(c) Third option\n")
	b.WriteString("(d) Fourth option\n")
	b.WriteString("Answer: Write only the letter (a/b/c/d)\n")
	b.WriteString("Explanation: Write a brief explanation\n\n")
	b.WriteString("Make sure:\n")
	b.WriteString("1. Each question follows this exact format\n")
	b.WriteString("2. Options are labeled with (a), (b), (c), (d)\n")
	b.WriteString("3. Answer is just the letter a, b, c, or d\n")
	b.WriteString("4. Include a brief explanation\n")
	b.WriteString("5. Separate each question with a blank line\n")
	return b.String()
}

// Generate asks gen for a quiz and parses the reply. Generator errors are
// returned wrapped; malformed replies yield a *ParseError.
func Generate(ctx context.Context, gen synth.Generator, req Request) ([]Question, error) {
	req, err := req.normalize()
	if err != nil {
		return nil, err
	}

	text, err := gen.Generate(ctx, Prompt(req))
	if err != nil {
		return nil, fmt.Errorf("generate quiz: %w", err)
	}

	questions, err := Parse(text)
	if err != nil {
		return nil, err
	}
	if len(questions) > req.Count {
		questions = questions[:req.Count]
	}
	return questions, nil
}
