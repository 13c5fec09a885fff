// Package embedding maps text to fixed-length vectors.
package embedding

import (
	"context"
	"errors"
	"fmt"

	"github.com/philippgille/chromem-go"
)

// Embedder is deterministic for a fixed model version and returns vectors of
// a model-defined constant dimension.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Func adapts a chromem embedding function.
type Func chromem.EmbeddingFunc

func (f Func) Embed(ctx context.Context, text string) ([]float32, error) {
	if text == "" {
		return nil, errors.New("cannot embed empty text")
	}
	v, err := f(ctx, text)
	if err != nil {
		return nil, err
	}
	if len(v) == 0 {
		return nil, errors.New("no embedding returned")
	}
	return v, nil
}

// NewOllama embeds through a local Ollama server. baseURL is the server root,
// for example http://localhost:11434.
func NewOllama(model, baseURL string) Func {
	return Func(chromem.NewEmbeddingFuncOllama(model, baseURL+"/api"))
}

// NewOpenAICompat embeds through any OpenAI-compatible /embeddings endpoint.
func NewOpenAICompat(baseURL, apiKey, model string) Func {
	return Func(chromem.NewEmbeddingFuncOpenAICompat(baseURL, apiKey, model, nil))
}

// New builds the embedder selected by provider.
func New(provider string, opts Options) (Embedder, error) {
	switch provider {
	case "hash", "":
		return NewHash(opts.HashDim), nil
	case "ollama":
		return NewOllama(opts.OllamaModel, opts.OllamaURL), nil
	case "openai":
		if opts.OpenAIKey == "" {
			return nil, errors.New("OPENAI_API_KEY is required for the openai embedder")
		}
		return NewOpenAI(opts.OpenAIKey, opts.OpenAIBaseURL, opts.OpenAIModel), nil
	case "openai-compat":
		return NewOpenAICompat(opts.OpenAIBaseURL, opts.OpenAIKey, opts.OpenAIModel), nil
	default:
		return nil, fmt.Errorf("unknown embed provider %q", provider)
	}
}

// Options carries provider settings for New.
type Options struct {
	HashDim       int
	OllamaURL     string
	OllamaModel   string
	OpenAIKey     string
	OpenAIBaseURL string
	OpenAIModel   string
}
