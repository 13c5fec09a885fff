package chunker

import (
	"log"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// MarkdownChunker splits a markdown document into heading sections and then
// cuts every section into word windows, so no chunk straddles two sections.
// Chunk indexes run continuously across sections.
type MarkdownChunker struct {
	config Config
}

// NewMarkdownChunker returns a chunker that windows each heading section separately.
func NewMarkdownChunker(config Config) *MarkdownChunker {
	return &MarkdownChunker{config: config}
}

func (m *MarkdownChunker) Name() string {
	return "markdown"
}

// DocumentStructure counts headings per level.
type DocumentStructure struct {
	HeadingCounts   map[int]int
	TotalParagraphs int
}

type section struct {
	title string
	body  strings.Builder
}

func (m *MarkdownChunker) Chunk(content, source string) ([]Chunk, error) {
	if err := m.config.Validate(); err != nil {
		return nil, err
	}

	src := []byte(content)
	doc := goldmark.New().Parser().Parse(text.NewReader(src))

	structure := analyzeStructure(doc)
	level := selectLevel(structure)
	log.Printf("📊 [%s] Document structure: headings=%v, paragraphs=%d, split level=%d",
		m.Name(), structure.HeadingCounts, structure.TotalParagraphs, level)

	var chunks []Chunk
	for _, s := range splitSections(doc, src, level) {
		part, err := windows(SplitWords(s.body.String()), m.config.Size, m.config.Overlap, len(chunks), source, s.title)
		if err != nil {
			return nil, err
		}
		chunks = append(chunks, part...)
	}

	log.Printf("✅ [%s] Created %d chunks", m.Name(), len(chunks))
	return chunks, nil
}

func analyzeStructure(doc ast.Node) DocumentStructure {
	structure := DocumentStructure{HeadingCounts: make(map[int]int)}

	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *ast.Heading:
			structure.HeadingCounts[node.Level]++
		case *ast.Paragraph:
			structure.TotalParagraphs++
		}
		return ast.WalkContinue, nil
	})

	return structure
}

// selectLevel picks the shallowest heading level with enough headings to be a
// useful split point. Zero means the document is kept as a single section.
func selectLevel(structure DocumentStructure) int {
	if structure.HeadingCounts[1] >= 2 {
		return 1
	}
	for level := 2; level <= 4; level++ {
		minHeadings := 3
		switch level {
		case 3:
			minHeadings = 5
		case 4:
			minHeadings = 10
		}
		if structure.HeadingCounts[level] >= minHeadings {
			return level
		}
	}
	return 0
}

func splitSections(doc ast.Node, src []byte, level int) []*section {
	current := &section{}
	sections := []*section{current}

	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			if n.Kind() == ast.KindParagraph || n.Kind() == ast.KindHeading {
				current.body.WriteString("\n")
			}
			return ast.WalkContinue, nil
		}

		switch node := n.(type) {
		case *ast.Heading:
			if level > 0 && node.Level <= level {
				current = &section{title: extractText(node, src)}
				sections = append(sections, current)
			}
		case *ast.Text:
			current.body.Write(node.Segment.Value(src))
			if node.SoftLineBreak() || node.HardLineBreak() {
				current.body.WriteString("\n")
			}
		case *ast.String:
			current.body.Write(node.Value)
		case *ast.CodeBlock, *ast.FencedCodeBlock:
			lines := n.Lines()
			for i := 0; i < lines.Len(); i++ {
				seg := lines.At(i)
				current.body.Write(seg.Value(src))
			}
		}
		return ast.WalkContinue, nil
	})

	return sections
}

// extractText returns the inline text of a heading.
func extractText(node ast.Node, source []byte) string {
	var buf strings.Builder
	for child := node.FirstChild(); child != nil; child = child.NextSibling() {
		if textNode, ok := child.(*ast.Text); ok {
			buf.Write(textNode.Segment.Value(source))
		}
	}
	return buf.String()
}
