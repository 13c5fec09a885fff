// Package index holds the in-memory nearest-neighbour index over chunk
// embeddings for one document.
package index

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"sort"

	"chatdoc/internal/chunker"
	"chatdoc/internal/embedding"
)

// ErrDimensionMismatch is returned when a vector does not match the index dimension.
var ErrDimensionMismatch = errors.New("embedding dimension mismatch")

// Hit is one search result: the position of a chunk and its squared L2
// distance to the query.
type Hit struct {
	Position int
	Distance float32
}

// Index owns the ordered (chunk, embedding) pairs of one document; position i
// of the chunk list corresponds to position i of the vectors. It is built once
// and never modified afterwards.
type Index struct {
	chunks    []chunker.Chunk
	vectors   [][]float32
	dimension int
}

// Build embeds every chunk in order. An empty chunk list yields an empty,
// searchable index.
func Build(ctx context.Context, chunks []chunker.Chunk, embedder embedding.Embedder) (*Index, error) {
	vectors := make([][]float32, len(chunks))
	for i, ch := range chunks {
		v, err := embedder.Embed(ctx, ch.Text)
		if err != nil {
			return nil, fmt.Errorf("embed chunk %d: %w", i, err)
		}
		vectors[i] = v
	}
	return FromVectors(chunks, vectors)
}

// FromVectors assembles an index from precomputed embeddings, for example a
// restored session snapshot. Inputs are copied.
func FromVectors(chunks []chunker.Chunk, vectors [][]float32) (*Index, error) {
	if len(chunks) != len(vectors) {
		return nil, fmt.Errorf("chunks and vectors length mismatch: %d != %d", len(chunks), len(vectors))
	}

	idx := &Index{
		chunks:  cloneChunks(chunks),
		vectors: make([][]float32, len(vectors)),
	}
	for i, v := range vectors {
		if len(v) == 0 {
			return nil, fmt.Errorf("%w: empty embedding for chunk %d", ErrDimensionMismatch, i)
		}
		if i == 0 {
			idx.dimension = len(v)
		} else if len(v) != idx.dimension {
			return nil, fmt.Errorf("%w: chunk %d has %d dimensions, expected %d", ErrDimensionMismatch, i, len(v), idx.dimension)
		}
		idx.vectors[i] = append([]float32(nil), v...)
	}
	return idx, nil
}

// Len returns the number of indexed chunks.
func (x *Index) Len() int {
	if x == nil {
		return 0
	}
	return len(x.chunks)
}

// Dimension is zero for an empty index.
func (x *Index) Dimension() int {
	if x == nil {
		return 0
	}
	return x.dimension
}

// Chunk returns a copy of the chunk at position i.
func (x *Index) Chunk(i int) chunker.Chunk {
	c := x.chunks[i]
	c.Metadata = maps.Clone(c.Metadata)
	return c
}

// Chunks returns a copy of the indexed chunks in order.
func (x *Index) Chunks() []chunker.Chunk {
	if x == nil {
		return nil
	}
	return cloneChunks(x.chunks)
}

func cloneChunks(chunks []chunker.Chunk) []chunker.Chunk {
	out := make([]chunker.Chunk, len(chunks))
	for i, c := range chunks {
		c.Metadata = maps.Clone(c.Metadata)
		out[i] = c
	}
	return out
}

// Vectors returns a deep copy of the embeddings in chunk order.
func (x *Index) Vectors() [][]float32 {
	if x == nil {
		return nil
	}
	out := make([][]float32, len(x.vectors))
	for i, v := range x.vectors {
		out[i] = append([]float32(nil), v...)
	}
	return out
}

// Search returns up to topK chunk positions ordered by ascending squared L2
// distance to query. Equal distances are ordered by lower position first.
// Searching an empty index returns no hits; topK beyond the index size
// returns every chunk.
func (x *Index) Search(query []float32, topK int) ([]Hit, error) {
	if x.Len() == 0 || topK <= 0 {
		return []Hit{}, nil
	}
	if len(query) != x.dimension {
		return nil, fmt.Errorf("%w: query has %d dimensions, index has %d", ErrDimensionMismatch, len(query), x.dimension)
	}

	hits := make([]Hit, len(x.vectors))
	for i, v := range x.vectors {
		hits[i] = Hit{Position: i, Distance: SquaredL2(query, v)}
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Distance < hits[j].Distance
	})

	if topK < len(hits) {
		hits = hits[:topK]
	}
	return hits, nil
}

// SquaredL2 is the squared Euclidean distance between equal-length vectors.
func SquaredL2(a, b []float32) float32 {
	var sum float32
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}
