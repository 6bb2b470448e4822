package storage

import (
	"context"
	"sync"
	"time"

	"github.com/studiokit/portal/pkg/util"
)

// BlobStore holds attachment payloads behind an opaque key. Put must honor
// context cancellation: an abandoned upload stores nothing.
type BlobStore interface {
	Put(ctx context.Context, key, contentType string, data []byte) (url string, err error)
	Get(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
}

// memoryBlobStore keeps payloads in memory. Latency and failure injection
// stand in for a real object store in development and tests.
type memoryBlobStore struct {
	mu      sync.RWMutex
	blobs   map[string][]byte
	latency time.Duration
	failPut func(key string) error
}

// Option configures the in-memory store.
type Option func(*memoryBlobStore)

// WithLatency adds a simulated network delay to every Put.
func WithLatency(d time.Duration) Option {
	return func(s *memoryBlobStore) { s.latency = d }
}

// WithPutFailure injects an error on Put for matching keys.
func WithPutFailure(fn func(key string) error) Option {
	return func(s *memoryBlobStore) { s.failPut = fn }
}

// NewMemoryBlobStore builds the in-memory store.
func NewMemoryBlobStore(opts ...Option) BlobStore {
	store := &memoryBlobStore{blobs: make(map[string][]byte)}
	for _, opt := range opts {
		opt(store)
	}
	return store
}

func (s *memoryBlobStore) Put(ctx context.Context, key, contentType string, data []byte) (string, error) {
	if s.latency > 0 {
		timer := time.NewTimer(s.latency)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-timer.C:
		}
	} else if err := ctx.Err(); err != nil {
		return "", err
	}
	if s.failPut != nil {
		if err := s.failPut(key); err != nil {
			return "", util.NewTransientFailure(err)
		}
	}

	s.mu.Lock()
	s.blobs[key] = append([]byte(nil), data...)
	s.mu.Unlock()
	return "blob://" + key, nil
}

func (s *memoryBlobStore) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.blobs[key]
	if !ok {
		return nil, util.NewNotFound("attachment blob", map[string]any{"key": key})
	}
	return append([]byte(nil), data...), nil
}

func (s *memoryBlobStore) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.blobs, key)
	return nil
}
