// Package keypool manages the pool of upstream API credentials used for
// quota failover.
package keypool

import (
	"sync"

	"ytbuzz/internal/models"
)

type Logger interface {
	Errorf(format string, args ...any)
	Warnf(format string, args ...any)
	Infof(format string, args ...any)
}

// Pool is an ordered credential list with a cursor and a set of exhausted
// indices. Exhaustion is process-lifetime: quota windows reset upstream,
// recovery is a restart.
type Pool struct {
	mu        sync.Mutex
	keys      []string
	current   int
	exhausted map[int]struct{}
	logger    Logger
}

func New(keys []string, logger Logger) *Pool {
	if len(keys) == 0 {
		logger.Errorf("keypool: no API keys configured")
	} else {
		logger.Infof("keypool: initialized with %d API key(s)", len(keys))
	}

	return &Pool{
		keys:      keys,
		exhausted: make(map[int]struct{}),
		logger:    logger,
	}
}

// Current returns the active credential. An empty pool is a fatal
// configuration error for the caller.
func (p *Pool) Current() (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if len(p.keys) == 0 {
		return "", models.ErrNoAPIKeys
	}
	return p.keys[p.current], nil
}

// Rotate marks the active credential exhausted and advances to the next
// usable one. It returns false, leaving the cursor in place, when every
// credential is exhausted.
func (p *Pool) Rotate() bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if len(p.keys) == 0 {
		return false
	}

	p.exhausted[p.current] = struct{}{}
	previous := p.current

	for i := 0; i < len(p.keys); i++ {
		next := (p.current + i + 1) % len(p.keys)
		if _, used := p.exhausted[next]; !used {
			p.current = next
			p.logger.Warnf("keypool: rotated to API key %d/%d (key %d exhausted)",
				next+1, len(p.keys), previous+1)
			return true
		}
	}

	p.logger.Errorf("keypool: all %d API keys exhausted", len(p.keys))
	return false
}

// Size returns the number of credentials in the pool, exhausted or not.
func (p *Pool) Size() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.keys)
}
