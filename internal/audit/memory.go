package audit

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/sundayezeilo/brandcatalog/internal/errx"
	"github.com/sundayezeilo/brandcatalog/internal/idgen"
)

// DefaultMemoryCapacity bounds the in-memory history.
const DefaultMemoryCapacity = 1000

// Memory is a bounded in-process history. The oldest entries are dropped
// once capacity is reached.
type Memory struct {
	mu       sync.RWMutex
	entries  []Entry
	capacity int
	ids      idgen.Generator
	now      func() time.Time
}

func NewMemory(capacity int) *Memory {
	if capacity <= 0 {
		capacity = DefaultMemoryCapacity
	}
	return &Memory{
		capacity: capacity,
		ids:      idgen.NewV7(),
		now:      time.Now,
	}
}

func (m *Memory) Record(_ context.Context, e Entry) (Entry, error) {
	const op = "audit.Memory.Record"

	if e.ID == uuid.Nil {
		id, err := m.ids.Generate()
		if err != nil {
			return Entry{}, errx.E(op, errx.Internal, err)
		}
		e.ID = id
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = m.now().UTC()
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.entries) == m.capacity {
		copy(m.entries, m.entries[1:])
		m.entries = m.entries[:len(m.entries)-1]
	}
	m.entries = append(m.entries, e)
	return e, nil
}

func (m *Memory) List(_ context.Context, limit int) ([]Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if limit <= 0 || limit > len(m.entries) {
		limit = len(m.entries)
	}

	out := make([]Entry, 0, limit)
	for i := len(m.entries) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, m.entries[i])
	}
	return out, nil
}

func (m *Memory) Close() error { return nil }
