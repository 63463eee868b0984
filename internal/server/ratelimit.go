package server

import (
	"sync"
	"time"
)

// RateLimiter enforces a per-client requests-per-second limit using token
// buckets keyed by client identifier.
type RateLimiter struct {
	mu      sync.Mutex
	rps     float64
	burst   float64
	clients map[string]*bucket
}

type bucket struct {
	tokens float64
	last   time.Time
}

// maxTrackedClients bounds the client map; when exceeded, idle buckets are
// pruned before new ones are added.
const maxTrackedClients = 10000

// NewRateLimiter creates a limiter allowing rps requests per second per
// client, with a burst of the same size.
func NewRateLimiter(rps int) *RateLimiter {
	return &RateLimiter{
		rps:     float64(rps),
		burst:   float64(rps),
		clients: make(map[string]*bucket),
	}
}

// Allow reports whether a request from the given client may proceed now.
func (rl *RateLimiter) Allow(clientID string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	b, ok := rl.clients[clientID]
	if !ok {
		if len(rl.clients) >= maxTrackedClients {
			rl.prune(now)
		}
		b = &bucket{tokens: rl.burst, last: now}
		rl.clients[clientID] = b
	}

	b.tokens += now.Sub(b.last).Seconds() * rl.rps
	if b.tokens > rl.burst {
		b.tokens = rl.burst
	}
	b.last = now

	if b.tokens < 1 {
		return false
	}
	b.tokens--
	return true
}

// prune drops buckets that have been idle long enough to be full again.
// Caller holds the lock.
func (rl *RateLimiter) prune(now time.Time) {
	idle := time.Duration(float64(time.Second) * rl.burst / rl.rps)
	for id, b := range rl.clients {
		if now.Sub(b.last) > idle {
			delete(rl.clients, id)
		}
	}
}
