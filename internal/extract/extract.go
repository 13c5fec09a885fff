// Package extract pulls plain text out of uploaded documents.
package extract

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// ErrExtraction is returned when a file is unreadable or corrupt.
var ErrExtraction = errors.New("text extraction failed")

// Extractor turns raw file bytes into document text.
type Extractor interface {
	Extract(name string, data []byte) (string, error)
}

// Router dispatches on the file extension.
type Router struct{}

// New returns the extension-dispatching extractor.
func New() *Router {
	return &Router{}
}

// Supported reports whether name has an extension the router knows how to read.
func Supported(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".pdf", ".md", ".markdown", ".txt", ".text", "":
		return true
	}
	return false
}

// Extract returns "" with no error for empty input; deciding whether an empty
// document is acceptable belongs to the caller.
func (r *Router) Extract(name string, data []byte) (string, error) {
	if len(data) == 0 {
		return "", nil
	}

	switch strings.ToLower(filepath.Ext(name)) {
	case ".pdf":
		return PDF(data)
	case ".md", ".markdown":
		return Markdown(data)
	default:
		return Plain(data)
	}
}

// PDF concatenates the text of every page.
func PDF(data []byte) (out string, err error) {
	// the pdf reader panics on some malformed xref tables
	defer func() {
		if r := recover(); r != nil {
			out, err = "", fmt.Errorf("%w: corrupt pdf: %v", ErrExtraction, r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("%w: open pdf: %v", ErrExtraction, err)
	}

	plain, err := reader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("%w: read pdf text: %v", ErrExtraction, err)
	}

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, plain); err != nil {
		return "", fmt.Errorf("%w: read pdf text: %v", ErrExtraction, err)
	}
	return buf.String(), nil
}

// Markdown strips markup and returns the visible text.
func Markdown(data []byte) (string, error) {
	if !utf8.Valid(data) {
		return "", fmt.Errorf("%w: markdown is not valid UTF-8", ErrExtraction)
	}

	doc := goldmark.New().Parser().Parse(text.NewReader(data))

	var buf strings.Builder
	err := ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			if n.Type() == ast.TypeBlock {
				buf.WriteString("\n")
			}
			return ast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *ast.Text:
			buf.Write(node.Segment.Value(data))
			if node.SoftLineBreak() || node.HardLineBreak() {
				buf.WriteString("\n")
			}
		case *ast.String:
			buf.Write(node.Value)
		case *ast.CodeBlock, *ast.FencedCodeBlock:
			lines := n.Lines()
			for i := 0; i < lines.Len(); i++ {
				seg := lines.At(i)
				buf.Write(seg.Value(data))
			}
		}
		return ast.WalkContinue, nil
	})
	if err != nil {
		return "", fmt.Errorf("%w: walk markdown: %v", ErrExtraction, err)
	}
	return buf.String(), nil
}

// Plain accepts any valid UTF-8 text.
func Plain(data []byte) (string, error) {
	if !utf8.Valid(data) {
		return "", fmt.Errorf("%w: file is not valid UTF-8 text", ErrExtraction)
	}
	return string(data), nil
}
