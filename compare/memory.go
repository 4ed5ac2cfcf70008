package compare

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"
	"time"
)

// ArtifactMeta captures stored artifact metadata.
type ArtifactMeta struct {
	ContentType string
	Size        int64
	Filename    string
	CreatedAt   time.Time
}

// ArtifactRef references a stored artifact.
type ArtifactRef struct {
	Key  string
	Meta ArtifactMeta
}

// ArtifactStore stores export artifacts. Comparisons persist at most one
// artifact; stores are free to evict on the next Put.
type ArtifactStore interface {
	Put(ctx context.Context, key string, r io.Reader, meta ArtifactMeta) (ArtifactRef, error)
	Open(ctx context.Context, key string) (io.ReadCloser, ArtifactMeta, error)
	Delete(ctx context.Context, key string) error
}

// MemoryStore stores artifacts in memory (test/dev only).
type MemoryStore struct {
	mu      sync.RWMutex
	objects map[string]memoryObject
}

type memoryObject struct {
	data []byte
	meta ArtifactMeta
}

// NewMemoryStore creates an in-memory artifact store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{objects: make(map[string]memoryObject)}
}

// Put stores an artifact.
func (s *MemoryStore) Put(ctx context.Context, key string, r io.Reader, meta ArtifactMeta) (ArtifactRef, error) {
	_ = ctx
	if key == "" {
		return ArtifactRef{}, NewError(KindValidation, "artifact key is required", nil)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return ArtifactRef{}, err
	}
	meta.Size = int64(len(data))
	if meta.CreatedAt.IsZero() {
		meta.CreatedAt = time.Now()
	}

	s.mu.Lock()
	s.objects[key] = memoryObject{data: data, meta: meta}
	s.mu.Unlock()

	return ArtifactRef{Key: key, Meta: meta}, nil
}

// Open reads an artifact.
func (s *MemoryStore) Open(ctx context.Context, key string) (io.ReadCloser, ArtifactMeta, error) {
	_ = ctx
	s.mu.RLock()
	obj, ok := s.objects[key]
	s.mu.RUnlock()
	if !ok {
		return nil, ArtifactMeta{}, NewError(KindNotFound, fmt.Sprintf("artifact %q not found", key), nil)
	}
	return io.NopCloser(bytes.NewReader(obj.data)), obj.meta, nil
}

// Delete removes an artifact.
func (s *MemoryStore) Delete(ctx context.Context, key string) error {
	_ = ctx
	s.mu.Lock()
	delete(s.objects, key)
	s.mu.Unlock()
	return nil
}
