package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"chatdoc/internal/chunker"
	"chatdoc/internal/index"
)

const sessionKeyPrefix = "chatdoc:session:"

// RedisStore persists sessions, including the chunk embeddings of the loaded
// document, so they survive restarts and can be shared by several servers.
// Expiry is delegated to the key TTL, refreshed on every Get and Save.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore keeps sessions in client with key expiry ttl.
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

// Conn opens a client from a redis:// URL and checks it with PING.
func Conn(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)

	pong, err := client.Ping(ctx).Result()
	if err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	if pong != "PONG" {
		_ = client.Close()
		return nil, fmt.Errorf("expected PONG, got %s", pong)
	}
	return client, nil
}

type snapshot struct {
	ID        string       `json:"id"`
	CreatedAt time.Time    `json:"created_at"`
	LastSeen  time.Time    `json:"last_seen"`
	Doc       *docSnapshot `json:"doc,omitempty"`
}

type docSnapshot struct {
	Name       string          `json:"name"`
	IngestedAt time.Time       `json:"ingested_at"`
	Chunks     []chunker.Chunk `json:"chunks"`
	Vectors    [][]float32     `json:"vectors"`
}

func key(id string) string {
	return sessionKeyPrefix + id
}

func (r *RedisStore) Create(ctx context.Context) (*Session, error) {
	sess := newSession(uuid.NewString(), time.Now())
	data, err := json.Marshal(toSnapshot(sess))
	if err != nil {
		return nil, err
	}

	ok, err := r.client.SetNX(ctx, key(sess.ID), data, r.ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("create session: id %s already taken", sess.ID)
	}
	return sess, nil
}

func (r *RedisStore) Get(ctx context.Context, id string) (*Session, error) {
	val, err := r.client.Get(ctx, key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}

	var snap snapshot
	if err := json.Unmarshal(val, &snap); err != nil {
		return nil, fmt.Errorf("decode session %s: %w", id, err)
	}
	sess, err := fromSnapshot(snap)
	if err != nil {
		return nil, fmt.Errorf("restore session %s: %w", id, err)
	}

	sess.touch(time.Now())
	if r.ttl > 0 {
		if err := r.client.Expire(ctx, key(id), r.ttl).Err(); err != nil {
			return nil, fmt.Errorf("refresh session ttl: %w", err)
		}
	}
	return sess, nil
}

func (r *RedisStore) Save(ctx context.Context, s *Session) error {
	s.touch(time.Now())
	data, err := json.Marshal(toSnapshot(s))
	if err != nil {
		return err
	}
	// XX: never resurrect a session deleted while it was in use
	ok, err := r.client.SetXX(ctx, key(s.ID), data, r.ttl).Result()
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	if !ok {
		return ErrNotFound
	}
	return nil
}

func (r *RedisStore) Delete(ctx context.Context, id string) error {
	n, err := r.client.Del(ctx, key(id)).Result()
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func toSnapshot(s *Session) snapshot {
	snap := snapshot{ID: s.ID, CreatedAt: s.CreatedAt, LastSeen: s.LastSeen()}
	if doc := s.Document(); doc != nil {
		snap.Doc = &docSnapshot{
			Name:       doc.Name,
			IngestedAt: doc.IngestedAt,
			Chunks:     doc.Index.Chunks(),
			Vectors:    doc.Index.Vectors(),
		}
	}
	return snap
}

func fromSnapshot(snap snapshot) (*Session, error) {
	sess := newSession(snap.ID, snap.CreatedAt)
	sess.lastSeen = snap.LastSeen
	if snap.Doc == nil {
		return sess, nil
	}

	idx, err := index.FromVectors(snap.Doc.Chunks, snap.Doc.Vectors)
	if err != nil {
		return nil, err
	}
	sess.doc = &DocumentState{
		Name:       snap.Doc.Name,
		Chunks:     idx.Chunks(),
		Index:      idx,
		IngestedAt: snap.Doc.IngestedAt,
	}
	return sess, nil
}
