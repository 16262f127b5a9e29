package progress

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"
)

type memoryRepo struct {
	mu   sync.RWMutex
	data map[uuid.UUID]map[string][]byte
}

// NewMemoryRepo is a process-local store; progress is lost on restart.
func NewMemoryRepo() KVRepo {
	return &memoryRepo{data: make(map[uuid.UUID]map[string][]byte)}
}

func (r *memoryRepo) Get(_ context.Context, learnerID uuid.UUID, key string) ([]byte, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.data[learnerID][key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), v...), true, nil
}

func (r *memoryRepo) Put(ctx context.Context, learnerID uuid.UUID, key string, value []byte) error {
	return r.PutMany(ctx, learnerID, map[string][]byte{key: value})
}

func (r *memoryRepo) PutMany(_ context.Context, learnerID uuid.UUID, entries map[string][]byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.data[learnerID]
	if !ok {
		m = make(map[string][]byte)
		r.data[learnerID] = m
	}
	for k, v := range entries {
		m[k] = append([]byte(nil), v...)
	}
	return nil
}

func (r *memoryRepo) List(_ context.Context, learnerID uuid.UUID, prefix string) (map[string][]byte, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string][]byte)
	for k, v := range r.data[learnerID] {
		if strings.HasPrefix(k, prefix) {
			out[k] = append([]byte(nil), v...)
		}
	}
	return out, nil
}

func (r *memoryRepo) Close() error { return nil }
