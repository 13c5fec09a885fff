// Package retriever fetches the chunks of an index closest to a question.
package retriever

import (
	"context"
	"fmt"

	"chatdoc/internal/chunker"
	"chatdoc/internal/embedding"
	"chatdoc/internal/index"
)

// Result is a retrieved chunk and its squared L2 distance to the query.
type Result struct {
	Chunk    chunker.Chunk `json:"chunk"`
	Distance float32       `json:"distance"`
}

// Retriever embeds questions and looks them up in a document index.
type Retriever struct {
	embedder embedding.Embedder
}

// New returns a Retriever that embeds queries with embedder.
func New(embedder embedding.Embedder) *Retriever {
	return &Retriever{embedder: embedder}
}

// Retrieve returns up to topK chunks nearest first. A nil or empty index
// yields an empty result without embedding the query.
func (r *Retriever) Retrieve(ctx context.Context, query string, idx *index.Index, topK int) ([]Result, error) {
	if idx.Len() == 0 || topK <= 0 {
		return []Result{}, nil
	}

	q, err := r.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	hits, err := idx.Search(q, topK)
	if err != nil {
		return nil, fmt.Errorf("search index: %w", err)
	}

	results := make([]Result, len(hits))
	for i, h := range hits {
		results[i] = Result{Chunk: idx.Chunk(h.Position), Distance: h.Distance}
	}
	return results, nil
}

// Texts returns the chunk texts of results in rank order.
func Texts(results []Result) []string {
	out := make([]string, len(results))
	for i, r := range results {
		out[i] = r.Chunk.Text
	}
	return out
}
