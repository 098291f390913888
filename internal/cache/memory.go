package cache

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"ytbuzz/internal/models"
)

const (
	DefaultMemorySize = 200
	DefaultMemoryTTL  = time.Hour
)

// Memory is the bounded, TTL-evicting in-process tier. It is lost on
// restart; the durable tier covers that. Safe for concurrent use.
type Memory struct {
	lru *expirable.LRU[string, *models.SearchResult]
}

func NewMemory(size int, ttl time.Duration) *Memory {
	if size <= 0 {
		size = DefaultMemorySize
	}
	if ttl <= 0 {
		ttl = DefaultMemoryTTL
	}

	return &Memory{
		lru: expirable.NewLRU[string, *models.SearchResult](size, nil, ttl),
	}
}

func (m *Memory) Get(key string) (*models.SearchResult, bool) {
	return m.lru.Get(key)
}

func (m *Memory) Set(key string, result *models.SearchResult) {
	m.lru.Add(key, result)
}

// Len reports the number of live entries, for diagnostics.
func (m *Memory) Len() int {
	return m.lru.Len()
}
