package progress

import (
	"context"

	"github.com/google/uuid"
)

// KVRepo stores progress records as opaque JSON values under string keys, scoped to a
// learner. Writes are last-writer-wins per key.
type KVRepo interface {
	Get(ctx context.Context, learnerID uuid.UUID, key string) ([]byte, bool, error)
	Put(ctx context.Context, learnerID uuid.UUID, key string, value []byte) error
	// PutMany writes all entries atomically where the backend allows it.
	PutMany(ctx context.Context, learnerID uuid.UUID, entries map[string][]byte) error
	// List returns every entry whose key starts with prefix.
	List(ctx context.Context, learnerID uuid.UUID, prefix string) (map[string][]byte, error)
	Close() error
}
