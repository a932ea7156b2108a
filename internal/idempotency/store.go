package idempotency

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

var (
	ErrNotFound     = errors.New("idempotency key not found")
	ErrHashMismatch = errors.New("idempotency key body mismatch")
	ErrInProgress   = errors.New("idempotency key in progress")
)

const redisKeyPrefix = "admin-idempotency"

type Record struct {
	Key         string
	RequestHash string
	Status      int
	Body        []byte
	ContentType string
	ServedBy    string
}

type cacheEnvelope struct {
	Key         string `json:"key"`
	Hash        string `json:"hash"`
	Method      string `json:"method,omitempty"`
	Path        string `json:"path,omitempty"`
	InProgress  bool   `json:"in_progress"`
	Status      int    `json:"status"`
	Body        []byte `json:"body"`
	ContentType string `json:"content_type"`
}

// backend persists envelopes. setNX reports false when the key exists.
type backend interface {
	name() string
	get(ctx context.Context, key string) (cacheEnvelope, bool, error)
	setNX(ctx context.Context, key string, env cacheEnvelope, ttl time.Duration) (bool, error)
	set(ctx context.Context, key string, env cacheEnvelope, ttl time.Duration) error
	del(ctx context.Context, key string) error
}

// Store tracks Idempotency-Key reservations and the responses they produced.
// It uses redis when a client is given and process memory otherwise.
type Store struct {
	backend backend
	ttl     time.Duration
	poll    time.Duration
}

func NewStore(client redis.Cmdable, ttl time.Duration) *Store {
	var b backend = newMemoryBackend(time.Now)
	if client != nil {
		b = &redisBackend{client: client}
	}
	return &Store{backend: b, ttl: ttl, poll: 50 * time.Millisecond}
}

// NewMemoryStore returns a store that never talks to redis.
func NewMemoryStore(ttl time.Duration) *Store {
	return NewStore(nil, ttl)
}

// Backend names the storage in use.
func (s *Store) Backend() string {
	return s.backend.name()
}

func (s *Store) Lookup(ctx context.Context, key, requestHash string) (*Record, error) {
	env, ok, err := s.backend.get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("lookup idempotency key: %w", err)
	}
	if !ok {
		return nil, ErrNotFound
	}
	if env.Hash != requestHash {
		return nil, ErrHashMismatch
	}
	if env.InProgress {
		return nil, ErrInProgress
	}
	return s.record(env), nil
}

// Reserve claims key for a new request. It returns false when another
// request already holds or completed the key.
func (s *Store) Reserve(ctx context.Context, key, requestHash, method, path string) (bool, error) {
	ok, err := s.backend.setNX(ctx, key, cacheEnvelope{
		Key:        key,
		Hash:       requestHash,
		Method:     method,
		Path:       path,
		InProgress: true,
	}, s.ttl)
	if err != nil {
		return false, fmt.Errorf("reserve idempotency key: %w", err)
	}
	return ok, nil
}

func (s *Store) Finalize(ctx context.Context, key, requestHash string, status int, body []byte, contentType string) (*Record, error) {
	env, ok, err := s.backend.get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("finalize idempotency key: %w", err)
	}
	if !ok {
		return nil, ErrNotFound
	}
	if env.Hash != requestHash {
		return nil, ErrHashMismatch
	}
	env.InProgress = false
	env.Status = status
	env.Body = body
	env.ContentType = contentType
	if err := s.backend.set(ctx, key, env, s.ttl); err != nil {
		return nil, fmt.Errorf("finalize idempotency key: %w", err)
	}
	return s.record(env), nil
}

// Release drops an in-progress reservation so the key can be retried.
func (s *Store) Release(ctx context.Context, key, requestHash string) error {
	env, ok, err := s.backend.get(ctx, key)
	if err != nil {
		return fmt.Errorf("release idempotency key: %w", err)
	}
	if !ok || env.Hash != requestHash || !env.InProgress {
		return nil
	}
	if err := s.backend.del(ctx, key); err != nil {
		return fmt.Errorf("release idempotency key: %w", err)
	}
	return nil
}

func (s *Store) WaitForCompletion(ctx context.Context, key, requestHash string) (*Record, error) {
	ticker := time.NewTicker(s.poll)
	defer ticker.Stop()
	for {
		rec, err := s.Lookup(ctx, key, requestHash)
		if err == nil {
			return rec, nil
		}
		if errors.Is(err, ErrInProgress) {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-ticker.C:
				continue
			}
		}
		return nil, err
	}
}

func (s *Store) record(env cacheEnvelope) *Record {
	return &Record{
		Key:         env.Key,
		RequestHash: env.Hash,
		Status:      env.Status,
		Body:        env.Body,
		ContentType: env.ContentType,
		ServedBy:    s.backend.name(),
	}
}

type redisBackend struct {
	client redis.Cmdable
}

func (b *redisBackend) name() string { return "redis" }

func (b *redisBackend) get(ctx context.Context, key string) (cacheEnvelope, bool, error) {
	var env cacheEnvelope
	val, err := b.client.Get(ctx, redisKey(key)).Result()
	if err == redis.Nil {
		return env, false, nil
	}
	if err != nil {
		return env, false, err
	}
	if err := json.Unmarshal([]byte(val), &env); err != nil {
		zap.L().Warn("discarding unreadable idempotency record", zap.String("key", key), zap.Error(err))
		return env, false, nil
	}
	return env, true, nil
}

func (b *redisBackend) setNX(ctx context.Context, key string, env cacheEnvelope, ttl time.Duration) (bool, error) {
	payload, err := json.Marshal(env)
	if err != nil {
		return false, err
	}
	return b.client.SetNX(ctx, redisKey(key), payload, ttl).Result()
}

func (b *redisBackend) set(ctx context.Context, key string, env cacheEnvelope, ttl time.Duration) error {
	payload, err := json.Marshal(env)
	if err != nil {
		return err
	}
	return b.client.Set(ctx, redisKey(key), payload, ttl).Err()
}

func (b *redisBackend) del(ctx context.Context, key string) error {
	return b.client.Del(ctx, redisKey(key)).Err()
}

func redisKey(key string) string {
	return fmt.Sprintf("%s:%s", redisKeyPrefix, key)
}

type memoryEntry struct {
	env       cacheEnvelope
	expiresAt time.Time
}

type memoryBackend struct {
	mu      sync.Mutex
	now     func() time.Time
	entries map[string]memoryEntry
}

func newMemoryBackend(now func() time.Time) *memoryBackend {
	return &memoryBackend{now: now, entries: make(map[string]memoryEntry)}
}

func (b *memoryBackend) name() string { return "memory" }

func (b *memoryBackend) get(ctx context.Context, key string) (cacheEnvelope, bool, error) {
	if err := ctx.Err(); err != nil {
		return cacheEnvelope{}, false, err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	e, ok := b.live(key)
	return e.env, ok, nil
}

func (b *memoryBackend) setNX(ctx context.Context, key string, env cacheEnvelope, ttl time.Duration) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.live(key); ok {
		return false, nil
	}
	b.entries[key] = memoryEntry{env: env, expiresAt: b.expiry(ttl)}
	return true, nil
}

func (b *memoryBackend) set(ctx context.Context, key string, env cacheEnvelope, ttl time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.entries[key] = memoryEntry{env: env, expiresAt: b.expiry(ttl)}
	return nil
}

func (b *memoryBackend) del(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.entries, key)
	return nil
}

// live returns the entry for key, evicting it when expired. Caller holds mu.
func (b *memoryBackend) live(key string) (memoryEntry, bool) {
	e, ok := b.entries[key]
	if !ok {
		return e, false
	}
	if !e.expiresAt.IsZero() && !b.now().Before(e.expiresAt) {
		delete(b.entries, key)
		return memoryEntry{}, false
	}
	return e, true
}

func (b *memoryBackend) expiry(ttl time.Duration) time.Time {
	if ttl <= 0 {
		return time.Time{}
	}
	return b.now().Add(ttl)
}
