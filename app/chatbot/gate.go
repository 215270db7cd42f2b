package chatbot

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// gate serializes the turns of one session and rate limits them.
type gate struct {
	mu       sync.Mutex
	limiter  *rate.Limiter
	lastUsed time.Time
}

type gates struct {
	mu    sync.Mutex
	byKey map[string]*gate
	limit rate.Limit
	burst int
}

func newGates(perSecond float64, burst int) *gates {
	limit := rate.Inf
	if perSecond > 0 {
		limit = rate.Limit(perSecond)
	}
	return &gates{byKey: make(map[string]*gate), limit: limit, burst: max(burst, 1)}
}

// acquire returns the locked gate of key, or false when the key exceeded
// its rate. The caller must unlock the gate.
func (g *gates) acquire(key string) (*gate, bool) {
	g.mu.Lock()
	gt, ok := g.byKey[key]
	if !ok {
		gt = &gate{limiter: rate.NewLimiter(g.limit, g.burst)}
		g.byKey[key] = gt
	}
	gt.lastUsed = time.Now()
	g.mu.Unlock()

	if !gt.limiter.Allow() {
		return nil, false
	}
	gt.mu.Lock()
	return gt, true
}

func (g *gates) forget(key string) {
	g.mu.Lock()
	delete(g.byKey, key)
	g.mu.Unlock()
}

// sweep drops gates unused for idle that hold no turn.
func (g *gates) sweep(idle time.Duration) int {
	g.mu.Lock()
	defer g.mu.Unlock()

	cutoff := time.Now().Add(-idle)
	n := 0
	for key, gt := range g.byKey {
		if gt.lastUsed.After(cutoff) || !gt.mu.TryLock() {
			continue
		}
		delete(g.byKey, key)
		gt.mu.Unlock()
		n++
	}
	return n
}

func (g *gates) len() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.byKey)
}
