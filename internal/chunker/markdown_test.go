package chunker

import (
	"errors"
	"strings"
	"testing"
)

func TestMarkdownChunkerSplitsBySection(t *testing.T) {
	content := `# Intro
first section words here

# Setup
install the thing then configure it

# Usage
run it
`
	chunks, err := NewMarkdownChunker(Config{Size: 50, Overlap: 5}).Chunk(content, "guide.md")
	if err != nil {
		t.Fatalf("Chunk: %v", err)
	}
	if len(chunks) != 3 {
		t.Fatalf("expected 3 chunks, got %d: %q", len(chunks), texts(chunks))
	}

	sections := []string{"Intro", "Setup", "Usage"}
	for i, c := range chunks {
		if c.Section != sections[i] {
			t.Errorf("chunk %d: expected section %q, got %q", i, sections[i], c.Section)
		}
		if c.Index != i {
			t.Errorf("chunk %d: expected index %d, got %d", i, i, c.Index)
		}
		if !strings.HasPrefix(c.Text, sections[i]) {
			t.Errorf("chunk %d should start with its heading, got %q", i, c.Text)
		}
	}
	if !strings.Contains(chunks[1].Text, "install the thing") {
		t.Errorf("missing section body: %q", chunks[1].Text)
	}
}

func TestMarkdownChunkerWindowsLargeSections(t *testing.T) {
	content := "# Only\n" + numbered(20) + "\n"
	chunks, err := NewMarkdownChunker(Config{Size: 8, Overlap: 2}).Chunk(content, "big.md")
	if err != nil {
		t.Fatalf("Chunk: %v", err)
	}
	if len(chunks) < 3 {
		t.Fatalf("expected the section to be windowed, got %q", texts(chunks))
	}
	for i := 1; i < len(chunks); i++ {
		prev := SplitWords(chunks[i-1].Text)
		cur := SplitWords(chunks[i].Text)
		if strings.Join(prev[len(prev)-2:], " ") != strings.Join(cur[:2], " ") {
			t.Fatalf("overlap broken between %d and %d", i-1, i)
		}
	}
}

func TestMarkdownChunkerNoHeadings(t *testing.T) {
	chunks, err := NewMarkdownChunker(Config{Size: 10, Overlap: 0}).Chunk("Just plain text with no headings.", "plain.md")
	if err != nil {
		t.Fatalf("Chunk: %v", err)
	}
	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
	if chunks[0].Section != "" {
		t.Errorf("expected empty section, got %q", chunks[0].Section)
	}
}

func TestFactory(t *testing.T) {
	f := NewFactory(Config{Size: 10, Overlap: 2})

	cases := []struct {
		source, method, want string
	}{
		{"a.pdf", "", "words"},
		{"a.md", "", "markdown"},
		{"a.md", "words", "words"},
		{"a.txt", "markdown", "markdown"},
		{"a.txt", "auto", "words"},
	}
	for _, tc := range cases {
		c, err := f.GetChunker(tc.source, tc.method)
		if err != nil {
			t.Fatalf("GetChunker(%q, %q): %v", tc.source, tc.method, err)
		}
		if c.Name() != tc.want {
			t.Errorf("GetChunker(%q, %q) = %s, want %s", tc.source, tc.method, c.Name(), tc.want)
		}
	}

	if _, err := f.GetChunker("a.txt", "sentences"); !errors.Is(err, ErrInvalidParameter) {
		t.Errorf("expected ErrInvalidParameter for unknown method, got %v", err)
	}
	if _, err := NewFactory(Config{Size: 2, Overlap: 2}).GetChunker("a.txt", ""); !errors.Is(err, ErrInvalidParameter) {
		t.Errorf("expected ErrInvalidParameter for overlap >= size, got %v", err)
	}
}
