package app

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"chatdoc/internal/extract"
	"chatdoc/internal/session"
)

// Run reads lines from in until EOF or ctx is done. A line naming an
// existing file ingests that file into sess; any other line is answered
// against the current document. Answers are written to out.
func (a *App) Run(ctx context.Context, sess *session.Session, in io.Reader, out io.Writer) error {
	log.Println("Application started")
	log.Println("Enter a file path to load a document, or a question. Ctrl+C to exit.")

	scanner := bufio.NewScanner(in)

	const maxLineSize = 1024 * 1024
	buf := make([]byte, 64*1024)
	scanner.Buffer(buf, maxLineSize)

	for {
		select {
		case <-ctx.Done():
			log.Println("Shutting down application")
			return nil
		default:
			if !scanner.Scan() {
				if err := scanner.Err(); err != nil {
					return fmt.Errorf("input error: %w", err)
				}
				log.Println("input closed")
				return nil
			}

			line := strings.TrimSpace(scanner.Text())
			if line == "" {
				continue
			}
			a.handleLine(ctx, sess, line, out)
		}
	}
}

func (a *App) handleLine(ctx context.Context, sess *session.Session, line string, out io.Writer) {
	if info, err := os.Stat(line); err == nil && !info.IsDir() {
		if err := a.IngestFile(ctx, sess, line); err != nil {
			log.Printf("❌ Processing failed: %v", err)
		}
		return
	}

	ans, err := a.Answer(ctx, sess, line)
	if err != nil {
		log.Printf("❌ %s: %v", Kind(err), err)
		return
	}
	for i, r := range ans.Sources {
		log.Printf("   %d. chunk %d of %s (distance: %.4f)", i+1, r.Chunk.Index, r.Chunk.Source, r.Distance)
	}
	log.Printf("🤖 Answer ready")
	fmt.Fprintln(out, ans.Text)
}

// IngestFile reads path from disk and ingests it into sess.
func (a *App) IngestFile(ctx context.Context, sess *session.Session, path string) error {
	if !extract.Supported(path) {
		log.Printf("⚠️  %s has no known extension, reading as plain text", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}
	doc, err := a.Ingest(ctx, sess, path, data)
	if err != nil {
		return err
	}
	log.Printf("✅ %s ready: %d chunks", doc.Name, len(doc.Chunks))
	return nil
}
