package visitstore

import (
	"context"
	"sync"
)

// Substrate is a durable key/value slot holding the serialised snapshot.
// Load returns nil, nil when the key has never been written.
// database.RedisClient and database.PostgresClient implement it.
type Substrate interface {
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, value []byte) error
}

// MemorySubstrate keeps snapshots in process memory.
type MemorySubstrate struct {
	mu     sync.Mutex
	values map[string][]byte
}

func NewMemorySubstrate() *MemorySubstrate {
	return &MemorySubstrate{values: make(map[string][]byte)}
}

func (m *MemorySubstrate) Load(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.values[key]
	if !ok {
		return nil, nil
	}
	return append([]byte(nil), v...), nil
}

func (m *MemorySubstrate) Save(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = append([]byte(nil), value...)
	return nil
}
