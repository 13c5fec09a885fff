package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"chatdoc/internal/app"
	"chatdoc/internal/config"
	"chatdoc/internal/embedding"
	"chatdoc/internal/session"
	"chatdoc/internal/synth"
)

func buildApp(ctx context.Context, cfg *config.Config) (*app.App, error) {
	emb, err := embedding.New(cfg.EmbedProvider, embedding.Options{
		HashDim:       cfg.HashEmbedDim,
		OllamaURL:     cfg.OllamaURL,
		OllamaModel:   cfg.OllamaEmbedModel,
		OpenAIKey:     cfg.OpenAIKey,
		OpenAIBaseURL: cfg.OpenAIBaseURL,
		OpenAIModel:   cfg.OpenAIEmbedModel,
	})
	if err != nil {
		return nil, err
	}
	if cfg.OpenAIKey == "" {
		log.Printf("⚠️  OPENAI_API_KEY is empty, answers will fail unless %s accepts anonymous requests", cfg.OpenAIBaseURL)
	}
	gen := synth.NewOpenAI(synth.Options{
		APIKey:      cfg.OpenAIKey,
		BaseURL:     cfg.OpenAIBaseURL,
		Model:       cfg.LLMModel,
		MaxTokens:   cfg.MaxTokens,
		Temperature: cfg.Temperature,
	})

	a, err := app.New(cfg, app.Deps{
		Embedder:  embedding.WithRetry(emb, cfg.MaxRetries, cfg.RetryBaseDelay),
		Generator: synth.WithRetry(gen, cfg.MaxRetries, cfg.RetryBaseDelay),
	})
	if err != nil {
		return nil, err
	}
	if err := a.Init(ctx); err != nil {
		return nil, err
	}
	log.Printf("Embedder: %s, model: %s", cfg.EmbedProvider, cfg.LLMModel)
	return a, nil
}

// buildStore returns the configured session store and a cleanup func.
func buildStore(ctx context.Context, cfg *config.Config) (session.Store, func(), error) {
	switch cfg.SessionStore {
	case "redis":
		client, err := session.Conn(ctx, cfg.RedisURL)
		if err != nil {
			return nil, nil, err
		}
		log.Printf("Sessions stored in redis, ttl %s", cfg.SessionTTL)
		return session.NewRedisStore(client, cfg.SessionTTL), func() { _ = client.Close() }, nil
	case "memory":
		store := session.NewMemoryStore(cfg.SessionTTL)
		go sweep(ctx, store, cfg.SessionTTL)
		return store, func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unknown session store %q", cfg.SessionStore)
	}
}

func sweep(ctx context.Context, store *session.MemoryStore, ttl time.Duration) {
	interval := ttl / 4
	if interval < time.Minute {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := store.Sweep(); n > 0 {
				log.Printf("🧹 Expired %d sessions, %d active", n, store.Len())
			}
		}
	}
}
