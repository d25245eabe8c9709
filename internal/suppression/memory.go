package suppression

import (
	"sync"
	"time"
)

// Record is one stored flag.
type Record struct {
	Value   string
	Expires time.Time
}

// MemoryStore keeps records in process. Now is swappable so tests can
// move time forward.
type MemoryStore struct {
	Now func() time.Time

	mu   sync.RWMutex
	recs map[string]Record
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{Now: time.Now, recs: map[string]Record{}}
}

func (m *MemoryStore) Get(name string) (string, bool) {
	r, ok := m.Record(name)
	if !ok {
		return "", false
	}
	return r.Value, true
}

func (m *MemoryStore) Set(name, value string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.recs[name] = Record{Value: value, Expires: m.Now().Add(ttl)}
	return nil
}

// Record returns the live record for name, with its expiry.
func (m *MemoryStore) Record(name string) (Record, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.recs[name]
	if !ok || !m.Now().Before(r.Expires) {
		return Record{}, false
	}
	return r, true
}

// Len reports how many live records are held.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	n := 0
	now := m.Now()
	for _, r := range m.recs {
		if now.Before(r.Expires) {
			n++
		}
	}
	return n
}
