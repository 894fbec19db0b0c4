package storage

import (
	"context"
	"sync"
)

// MemoryBackend - документ в памяти, используется в тестах
type MemoryBackend struct {
	mu     sync.RWMutex
	data   []byte
	exists bool
	writes int
}

func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{}
}

// NewMemoryBackendWith создает бэкенд с уже записанным документом
func NewMemoryBackendWith(data []byte) *MemoryBackend {
	b := &MemoryBackend{}
	b.data = append([]byte(nil), data...)
	b.exists = true
	return b
}

func (b *MemoryBackend) Read(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.exists {
		return nil, ErrNotExist
	}
	return append([]byte(nil), b.data...), nil
}

func (b *MemoryBackend) Write(ctx context.Context, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.data = append([]byte(nil), data...)
	b.exists = true
	b.writes++
	return nil
}

// Writes - сколько раз документ перезаписывался
func (b *MemoryBackend) Writes() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.writes
}
