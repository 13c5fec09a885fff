package quiz

import (
	"context"
	"errors"
	"strings"
	"testing"
)

const strictReply = `Q: What is the capital of France?
(a) Berlin
(b) Paris
(c) Rome
(d) Madrid
Answer: b
Explanation: Paris has been the capital since 987.

Q: Which planet is largest?
(a) Jupiter
(b) Mars
(c) Venus
(d) Earth
Answer: a
Explanation: Jupiter is the largest planet in the solar system.
`

type stubGenerator struct {
	reply  string
	err    error
	prompt string
}

func (s *stubGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	s.prompt = prompt
	return s.reply, s.err
}

func TestParseStrict(t *testing.T) {
	qs, err := Parse(strictReply)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(qs) != 2 {
		t.Fatalf("expected 2 questions, got %d", len(qs))
	}
	if qs[0].Question != "What is the capital of France?" {
		t.Errorf("question = %q", qs[0].Question)
	}
	if qs[0].Options != [4]string{"Berlin", "Paris", "Rome", "Madrid"} {
		t.Errorf("options = %v", qs[0].Options)
	}
	if qs[0].Answer != "b" || qs[0].Correct() != "Paris" {
		t.Errorf("answer = %q (%q)", qs[0].Answer, qs[0].Correct())
	}
	if qs[1].Explanation != "Jupiter is the largest planet in the solar system." {
		t.Errorf("explanation = %q", qs[1].Explanation)
	}
}

func TestParseExplanationOptional(t *testing.T) {
	text := "Q: One?\n(a) 1\n(b) 2\n(c) 3\n(d) 4\nAnswer: C\nQ: Two?\n(a) 1\n(b) 2\n(c) 3\n(d) 4\nAnswer: d\n"
	qs, err := Parse(text)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(qs) != 2 || qs[0].Answer != "c" || qs[0].Explanation != "" {
		t.Fatalf("unexpected result: %+v", qs)
	}
}

func TestParseRepairsCommonDrift(t *testing.T) {
	text := `Sure! Here are your questions:

**Question 1:** What is the capital of France?
A) Berlin
B) Paris
C) Rome
D) Madrid
**Correct answer: (B)** Paris
Explanation: Paris is the capital.
It has been for centuries.

2. Which planet is largest?
(A) Jupiter
(B) Mars
(C) Venus
(D) Earth
Answer: a
`
	qs, err := Parse(text)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(qs) != 2 {
		t.Fatalf("expected 2 questions, got %d", len(qs))
	}
	if qs[0].Question != "What is the capital of France?" {
		t.Errorf("question = %q", qs[0].Question)
	}
	if qs[0].Answer != "b" || qs[0].Options[1] != "Paris" {
		t.Errorf("first question = %+v", qs[0])
	}
	if qs[0].Explanation != "Paris is the capital. It has been for centuries." {
		t.Errorf("explanation = %q", qs[0].Explanation)
	}
	if qs[1].Question != "Which planet is largest?" || qs[1].Answer != "a" {
		t.Errorf("second question = %+v", qs[1])
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		text string
		line int
	}{
		{name: "empty", text: "", line: 0},
		{name: "prose only", text: "I cannot help with that.", line: 0},
		{name: "three options", text: "Q: x?\n(a) 1\n(b) 2\n(c) 3\nAnswer: a\n", line: 5},
		{name: "bad answer", text: "Q: x?\n(a) 1\n(b) 2\n(c) 3\n(d) 4\nAnswer: e\n", line: 6},
		{name: "missing answer", text: "Q: x?\n(a) 1\n(b) 2\n(c) 3\n(d) 4\n", line: 6},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			qs, err := Parse(tt.text)
			if qs != nil {
				t.Fatalf("expected no questions, got %v", qs)
			}
			var perr *ParseError
			if !errors.As(err, &perr) {
				t.Fatalf("expected *ParseError, got %v", err)
			}
			if perr.Line != tt.line {
				t.Errorf("line = %d, want %d (%v)", perr.Line, tt.line, perr)
			}
		})
	}
}

func TestParseNoPartialResults(t *testing.T) {
	text := strictReply + "\nQ: Broken?\n(a) 1\n(b) 2\nAnswer: b\n"
	qs, err := Parse(text)
	if err == nil || qs != nil {
		t.Fatalf("expected failure without questions, got %v, %v", qs, err)
	}
}

func TestGenerate(t *testing.T) {
	gen := &stubGenerator{reply: strictReply}
	qs, err := Generate(context.Background(), gen, Request{Topic: "geography", Difficulty: "easy", Count: 1})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(qs) != 1 {
		t.Fatalf("expected reply trimmed to 1 question, got %d", len(qs))
	}
	if !strings.Contains(gen.prompt, "Create 1 multiple-choice questions about geography at easy level.") {
		t.Errorf("unexpected prompt:\n%s", gen.prompt)
	}
	if !strings.Contains(gen.prompt, "Answer: Write only the letter (a/b/c/d)") {
		t.Errorf("prompt misses answer format:\n%s", gen.prompt)
	}
}

func TestGenerateDefaults(t *testing.T) {
	gen := &stubGenerator{reply: strictReply}
	if _, err := Generate(context.Background(), gen, Request{Topic: "space"}); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if !strings.Contains(gen.prompt, "Create 5 multiple-choice questions about space at medium level.") {
		t.Errorf("unexpected prompt:\n%s", gen.prompt)
	}
}

func TestGenerateInvalidRequest(t *testing.T) {
	for _, req := range []Request{{Topic: " "}, {Topic: "x", Count: -1}, {Topic: "x", Count: MaxCount + 1}} {
		if _, err := Generate(context.Background(), &stubGenerator{}, req); !errors.Is(err, ErrInvalidRequest) {
			t.Errorf("%+v: expected ErrInvalidRequest, got %v", req, err)
		}
	}
}

func TestGenerateModelError(t *testing.T) {
	boom := errors.New("boom")
	_, err := Generate(context.Background(), &stubGenerator{err: boom}, Request{Topic: "x"})
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped model error, got %v", err)
	}
}
