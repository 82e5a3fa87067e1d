package service

import (
	"context"
	"sync"
	"time"

	"hansard/internal/services/cache/domain"
)

// Memory is an in-process domain.KV used by pipeline tests and local runs
// without a database. The clock is a seam so expiry is testable
type Memory struct {
	mu   sync.Mutex
	rows map[string]memRow
	Now  func() time.Time
}

type memRow struct {
	payload []byte
	expires time.Time
}

// NewMemory constructs an empty in-process KV
func NewMemory() *Memory {
	return &Memory{rows: map[string]memRow{}, Now: time.Now}
}

var _ domain.KV = (*Memory)(nil)

// Get implements domain.KV
func (m *Memory) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	row, ok := m.rows[key]
	if !ok || !m.Now().Before(row.expires) {
		return nil, false, nil
	}
	return row.payload, true, nil
}

// Put implements domain.KV
func (m *Memory) Put(_ context.Context, key string, payload []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows[key] = memRow{payload: payload, expires: m.Now().Add(ttl)}
	return nil
}

// Purge implements domain.KV
func (m *Memory) Purge(_ context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for k, row := range m.rows {
		if !m.Now().Before(row.expires) {
			delete(m.rows, k)
			n++
		}
	}
	return n, nil
}
