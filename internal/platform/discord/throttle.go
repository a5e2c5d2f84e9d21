package discord

import (
	"sync"

	"golang.org/x/time/rate"
)

// maxTrackedUsers bounds the limiter map; idle limiters are dropped past it.
const maxTrackedUsers = 10000

// throttle limits how often a single user can invoke commands.
// A nil throttle allows everything.
type throttle struct {
	mu    sync.Mutex
	limit rate.Limit
	burst int
	users map[string]*rate.Limiter
}

func newThrottle(perSecond float64, burst int) *throttle {
	if perSecond <= 0 {
		return nil
	}
	if burst <= 0 {
		burst = 1
	}
	return &throttle{
		limit: rate.Limit(perSecond),
		burst: burst,
		users: make(map[string]*rate.Limiter),
	}
}

// Allow reports whether user may invoke a command now.
func (t *throttle) Allow(user string) bool {
	if t == nil || user == "" {
		return true
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	limiter, ok := t.users[user]
	if !ok {
		if len(t.users) >= maxTrackedUsers {
			t.prune()
		}
		limiter = rate.NewLimiter(t.limit, t.burst)
		t.users[user] = limiter
	}
	return limiter.Allow()
}

// prune drops limiters that have refilled completely.
func (t *throttle) prune() {
	for user, limiter := range t.users {
		if limiter.Tokens() >= float64(t.burst) {
			delete(t.users, user)
		}
	}
}
