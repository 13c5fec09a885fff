// Package app runs the document question-answering pipeline: ingest a
// document into a session, then answer questions against it.
package app

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"chatdoc/internal/chunker"
	"chatdoc/internal/config"
	"chatdoc/internal/embedding"
	"chatdoc/internal/extract"
	"chatdoc/internal/retriever"
	"chatdoc/internal/synth"
)

// Deps are the external collaborators of the pipeline. Extractor defaults
// to extract.New() when nil; Embedder and Generator are required.
type Deps struct {
	Extractor extract.Extractor
	Embedder  embedding.Embedder
	Generator synth.Generator
	// HTTPClient is used for the Ollama preflight. Defaults to a client with
	// a short timeout.
	HTTPClient *http.Client
}

// App is the pipeline controller. It holds no document state of its own;
// every call works on the session passed in.
type App struct {
	cfg       *config.Config
	extractor extract.Extractor
	chunkers  *chunker.Factory
	embedder  embedding.Embedder
	retriever *retriever.Retriever
	generator synth.Generator
	http      *http.Client
}

// New wires the pipeline from cfg and deps.
func New(cfg *config.Config, deps Deps) (*App, error) {
	if cfg == nil {
		return nil, errors.New("app: nil config")
	}
	if deps.Embedder == nil {
		return nil, errors.New("app: embedder is required")
	}
	if deps.Generator == nil {
		return nil, errors.New("app: generator is required")
	}
	if err := cfg.Chunking().Validate(); err != nil {
		return nil, err
	}

	app := &App{
		cfg:       cfg,
		extractor: deps.Extractor,
		chunkers:  chunker.NewFactory(cfg.Chunking()),
		embedder:  deps.Embedder,
		retriever: retriever.New(deps.Embedder),
		generator: deps.Generator,
		http:      deps.HTTPClient,
	}
	if app.extractor == nil {
		app.extractor = extract.New()
	}
	if app.http == nil {
		app.http = &http.Client{Timeout: 10 * time.Second}
	}
	return app, nil
}

// Init checks that external services the configuration depends on are up.
func (a *App) Init(ctx context.Context) error {
	if a.cfg.EmbedProvider != "ollama" {
		return nil
	}
	if err := a.ensureOllama(ctx); err != nil {
		return fmt.Errorf("ollama check failed: %w", err)
	}
	return nil
}

func (a *App) ensureOllama(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.cfg.OllamaURL+"/api/tags", nil)
	if err != nil {
		return err
	}
	resp, err := a.http.Do(req)
	if err != nil {
		return fmt.Errorf("ollama is not reachable at %s: %w", a.cfg.OllamaURL, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("ollama at %s answered %d", a.cfg.OllamaURL, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if bytes.Contains(body, []byte(a.cfg.OllamaEmbedModel)) {
		log.Printf("Model %s is available", a.cfg.OllamaEmbedModel)
	} else {
		log.Printf("⚠️  Model %s not listed, run: ollama pull %s", a.cfg.OllamaEmbedModel, a.cfg.OllamaEmbedModel)
	}
	return nil
}
