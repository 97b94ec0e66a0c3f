// Package cache memoizes computed reports for the portal engine.
package cache

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/okian/portal/internal/domain/types"
)

const defaultMaxSize = 256

// node is one entry in the recency list.
type node struct {
	key        string
	report     types.Report
	prev, next *node
}

func (n *node) reset() {
	n.key = ""
	n.report = types.Report{}
	n.prev = nil
	n.next = nil
}

// Memory is an in-process LRU of reports.
// For bounded mode (maxSize > 0) the least recently used entry is evicted.
// For unbounded mode (maxSize <= 0) entries are only dropped by Purge.
// Reports are cloned on the way in and out so callers never share memory
// with the cache.
type Memory struct {
	mu       sync.Mutex
	entries  map[string]*node
	head     *node // most recently used
	tail     *node // least recently used
	maxSize  int
	size     atomic.Int64
	nodePool sync.Pool
}

// NewMemory creates an in-memory cache.
func NewMemory(opts ...MemoryOption) *Memory {
	m := &Memory{
		maxSize: defaultMaxSize,
		entries: make(map[string]*node),
		nodePool: sync.Pool{
			New: func() any { return &node{} },
		},
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Get returns a copy of the report stored under key.
func (m *Memory) Get(_ context.Context, key string) (types.Report, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	n, ok := m.entries[key]
	if !ok {
		return types.Report{}, false
	}
	m.moveToFront(n)
	return n.report.Clone(), true
}

// Set stores a copy of r under key, evicting the oldest entry when full.
func (m *Memory) Set(_ context.Context, key string, r types.Report) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if n, ok := m.entries[key]; ok {
		n.report = r.Clone()
		m.moveToFront(n)
		return
	}

	if m.maxSize > 0 && len(m.entries) >= m.maxSize {
		m.evictOldest()
	}

	n := m.nodePool.Get().(*node)
	n.key = key
	n.report = r.Clone()
	m.pushFront(n)
	m.entries[key] = n
	m.size.Add(1)
}

// Purge drops every entry.
func (m *Memory) Purge() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for n := m.head; n != nil; {
		next := n.next
		n.reset()
		m.nodePool.Put(n)
		n = next
	}
	m.entries = make(map[string]*node)
	m.head, m.tail = nil, nil
	m.size.Store(0)
}

// Size returns the number of cached reports.
func (m *Memory) Size() int64 {
	return m.size.Load()
}

// Must be called with m.mu held.
func (m *Memory) pushFront(n *node) {
	n.prev = nil
	n.next = m.head
	if m.head != nil {
		m.head.prev = n
	}
	m.head = n
	if m.tail == nil {
		m.tail = n
	}
}

// Must be called with m.mu held.
func (m *Memory) unlink(n *node) {
	if n.prev != nil {
		n.prev.next = n.next
	} else {
		m.head = n.next
	}
	if n.next != nil {
		n.next.prev = n.prev
	} else {
		m.tail = n.prev
	}
	n.prev, n.next = nil, nil
}

// Must be called with m.mu held.
func (m *Memory) moveToFront(n *node) {
	if m.head == n {
		return
	}
	m.unlink(n)
	m.pushFront(n)
}

// Must be called with m.mu held.
func (m *Memory) evictOldest() {
	n := m.tail
	if n == nil {
		return
	}
	m.unlink(n)
	delete(m.entries, n.key)
	n.reset()
	m.nodePool.Put(n)
	m.size.Add(-1)
}
