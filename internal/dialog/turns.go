package dialog

import (
	"context"
	"sync"
	"time"
)

// turnRegistry serializes turns per user. Each user owns a token channel
// acting as a mutex with timeout, plus the cancel handle of any search
// round currently in flight so a newer message can abort it.
type turnRegistry struct {
	mu    sync.Mutex
	users map[string]*userTurns
}

type userTurns struct {
	token  chan struct{}
	cancel context.CancelFunc // in-flight round, nil when idle
}

func newTurnRegistry() *turnRegistry {
	return &turnRegistry{users: make(map[string]*userTurns)}
}

func (r *turnRegistry) forUser(userID string) *userTurns {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[userID]
	if !ok {
		u = &userTurns{token: make(chan struct{}, 1)}
		u.token <- struct{}{}
		r.users[userID] = u
	}
	return u
}

// acquire takes the user's turn token, first cancelling any in-flight
// search round so the newer message wins. Returns false when the token
// could not be obtained within the timeout.
func (r *turnRegistry) acquire(ctx context.Context, userID string, timeout time.Duration) bool {
	u := r.forUser(userID)

	r.mu.Lock()
	if u.cancel != nil {
		u.cancel()
		u.cancel = nil
	}
	r.mu.Unlock()

	select {
	case <-u.token:
		return true
	case <-time.After(timeout):
		return false
	case <-ctx.Done():
		return false
	}
}

func (r *turnRegistry) release(userID string) {
	u := r.forUser(userID)
	select {
	case u.token <- struct{}{}:
	default:
	}
}

// beginRound registers a cancellable context for a search round. The
// returned context dies when a newer message for the same user arrives.
func (r *turnRegistry) beginRound(ctx context.Context, userID string) (context.Context, context.CancelFunc) {
	roundCtx, cancel := context.WithCancel(ctx)
	u := r.forUser(userID)
	r.mu.Lock()
	u.cancel = cancel
	r.mu.Unlock()
	return roundCtx, cancel
}

func (r *turnRegistry) endRound(userID string) {
	u := r.forUser(userID)
	r.mu.Lock()
	u.cancel = nil
	r.mu.Unlock()
}
