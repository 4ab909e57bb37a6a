package server

import (
	"sync"
	"time"
)

const rateWindow = time.Minute

// RateLimiter limits requests per client over a sliding one minute window
type RateLimiter struct {
	mu       sync.Mutex
	clients  map[string][]time.Time
	limit    int
	now      func() time.Time
	stop     chan struct{}
	stopOnce sync.Once
}

// NewRateLimiter creates a limiter allowing limit requests per minute per
// client. It starts a goroutine that prunes idle clients until Stop.
func NewRateLimiter(limit int) *RateLimiter {
	rl := &RateLimiter{
		clients: make(map[string][]time.Time),
		limit:   limit,
		now:     time.Now,
		stop:    make(chan struct{}),
	}
	go rl.pruneLoop(5 * time.Minute)
	return rl
}

// Allow records a request from client and reports whether it is within the
// limit. Rejected requests are not recorded.
func (rl *RateLimiter) Allow(client string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	recent := rl.recent(client, now)
	if len(recent) >= rl.limit {
		rl.clients[client] = recent
		return false
	}
	rl.clients[client] = append(recent, now)
	return true
}

// RetryAfter returns the whole seconds until client may send again
func (rl *RateLimiter) RetryAfter(client string) int {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	recent := rl.recent(client, rl.now())
	if len(recent) < rl.limit || len(recent) == 0 {
		return 0
	}

	wait := rateWindow - rl.now().Sub(recent[0])
	return int((wait + time.Second - 1) / time.Second)
}

// recent returns the client's requests inside the window. Callers hold mu.
func (rl *RateLimiter) recent(client string, now time.Time) []time.Time {
	times := rl.clients[client]
	i := 0
	for i < len(times) && now.Sub(times[i]) >= rateWindow {
		i++
	}
	return times[i:]
}

func (rl *RateLimiter) pruneLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.prune()
		case <-rl.stop:
			return
		}
	}
}

func (rl *RateLimiter) prune() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	for client := range rl.clients {
		if recent := rl.recent(client, now); len(recent) == 0 {
			delete(rl.clients, client)
		} else {
			rl.clients[client] = recent
		}
	}
}

// Stop stops the prune goroutine. It is safe to call more than once.
func (rl *RateLimiter) Stop() {
	rl.stopOnce.Do(func() { close(rl.stop) })
}
