// Package repository holds the panel's collections. Every repository is an
// ordered upsert store keyed by the entity's identity field; the device and
// account repositories additionally mirror their contents to a JSON file.
package repository

import (
	"strconv"

	"smarthome-panel/internal/models"
)

// Repository is the contract shared by every collection
type Repository[K comparable, T any] interface {
	GetByID(id K) (T, bool)
	Save(item T)
	Create(item T)
	GetAll() []T
}

// Memory is an in-memory ordered collection with upsert semantics.
// Save on an existing key drops the old record and appends the new one.
// Not safe for concurrent use; callers run on the UI goroutine.
type Memory[K comparable, T any] struct {
	key   func(T) K
	items []T
	index map[K]int
}

// NewMemory creates an empty collection keyed by key
func NewMemory[K comparable, T any](key func(T) K) *Memory[K, T] {
	return &Memory[K, T]{
		key:   key,
		index: make(map[K]int),
	}
}

// GetByID returns the record stored under id
func (m *Memory[K, T]) GetByID(id K) (T, bool) {
	if i, ok := m.index[id]; ok {
		return m.items[i], true
	}
	var zero T
	return zero, false
}

// Save inserts item or replaces the record sharing its key
func (m *Memory[K, T]) Save(item T) {
	k := m.key(item)
	if _, ok := m.index[k]; ok {
		m.remove(k)
	}
	m.index[k] = len(m.items)
	m.items = append(m.items, item)
}

// Create is an alias for Save
func (m *Memory[K, T]) Create(item T) {
	m.Save(item)
}

// Delete removes the record stored under id
func (m *Memory[K, T]) Delete(id K) bool {
	if _, ok := m.index[id]; !ok {
		return false
	}
	m.remove(id)
	return true
}

// GetAll returns a copy of the records in insertion order
func (m *Memory[K, T]) GetAll() []T {
	out := make([]T, len(m.items))
	copy(out, m.items)
	return out
}

// Len returns the number of records
func (m *Memory[K, T]) Len() int {
	return len(m.items)
}

// Replace swaps the whole collection, keeping the last record per key
func (m *Memory[K, T]) Replace(items []T) {
	m.items = nil
	m.index = make(map[K]int, len(items))
	for _, item := range items {
		m.Save(item)
	}
}

func (m *Memory[K, T]) remove(k K) {
	i := m.index[k]
	m.items = append(m.items[:i], m.items[i+1:]...)
	delete(m.index, k)
	for j := i; j < len(m.items); j++ {
		m.index[m.key(m.items[j])] = j
	}
}

// Transient repositories used by the request/analysis pipeline.

func NewSoundRepository() *Memory[int, models.Sound] {
	return NewMemory(func(s models.Sound) int { return s.ID })
}

func NewSensorDataRepository() *Memory[string, models.SensorData] {
	return NewMemory(func(s models.SensorData) string { return s.ID })
}

func NewRequestRepository() *Memory[string, models.Request] {
	return NewMemory(func(r models.Request) string { return r.ID })
}

func NewAnalysisRepository() *Memory[string, models.Analysis] {
	return NewMemory(func(a models.Analysis) string { return a.ID })
}

func NewDecisionRepository() *Memory[string, models.Decision] {
	return NewMemory(func(d models.Decision) string { return d.ID })
}

func NewResponseRepository() *Memory[string, models.Response] {
	return NewMemory(func(r models.Response) string { return r.ID })
}

// SoundKey parses the textual form of a sound id
func SoundKey(id string) (int, bool) {
	n, err := strconv.Atoi(id)
	if err != nil {
		return 0, false
	}
	return n, true
}
