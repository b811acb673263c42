package audio

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"
)

var ErrResourceUnavailable = errors.New("audio resource unavailable")

// StartFunc opens the device session for a Handle.
type StartFunc func(ctx context.Context) (Session, error)

// Handle is one scoped acquisition of the audio resource.
type Handle struct {
	id      string
	mode    Mode
	owner   Owner
	session Session
	guard   *Guard

	once       sync.Once
	releaseErr error
}

func (h *Handle) ID() string { return h.id }

func (h *Handle) Mode() Mode { return h.mode }

// Stats counts acquisitions and releases over the guard's lifetime.
type Stats struct {
	Acquired int
	Released int
	Held     bool
	HeldMode Mode
}

// Guard serialises access to the single device audio session. Only one
// Handle exists at a time; acquiring while another owner holds it preempts
// that owner first.
type Guard struct {
	mu       sync.Mutex
	current  *Handle
	acquired int
	released int
}

func NewGuard() *Guard {
	return &Guard{}
}

// Acquire obtains the resource for owner and opens a session with start.
// Callers must pair every successful Acquire with Release on all exit paths.
// Callers must not hold locks that Owner.Preempt needs.
func (g *Guard) Acquire(ctx context.Context, mode Mode, owner Owner, start StartFunc) (*Handle, error) {
	g.mu.Lock()
	for g.current != nil {
		held := g.current
		g.mu.Unlock()

		slog.Info("audio resource busy; preempting holder", "held_mode", held.mode, "requested_mode", mode, "handle_id", held.id)
		if held.owner != nil && held.owner != owner {
			held.owner.Preempt(ctx)
		}
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrResourceUnavailable, err)
		}

		g.mu.Lock()
		if g.current == held {
			slog.Warn("holder did not release audio resource; forcing release", "handle_id", held.id, "mode", held.mode)
			g.mu.Unlock()
			_ = g.Release(held)
			g.mu.Lock()
		}
	}
	defer g.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrResourceUnavailable, err)
	}
	// start runs under g.mu so a second Acquire cannot open a session while
	// this one is still coming up. The wait is bounded by the device startup
	// grace. Release of an older handle only takes g.mu after its session has
	// stopped, and no holder exists here, so nothing waits on this caller.
	session, err := start(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrResourceUnavailable, err)
	}
	if session == nil {
		return nil, fmt.Errorf("%w: device returned no session", ErrResourceUnavailable)
	}

	h := &Handle{
		id:      uuid.NewString(),
		mode:    mode,
		owner:   owner,
		session: session,
		guard:   g,
	}
	g.current = h
	g.acquired++
	slog.Debug("audio resource acquired", "handle_id", h.id, "mode", mode)
	return h, nil
}

// Release stops the handle's session and frees the resource. Releasing a
// handle more than once is a no-op; the first call's stop error is returned
// only to that first caller.
func (g *Guard) Release(h *Handle) error {
	if h == nil {
		return nil
	}
	first := false
	h.once.Do(func() {
		first = true
		h.releaseErr = h.session.Stop()

		g.mu.Lock()
		if g.current == h {
			g.current = nil
		}
		g.released++
		g.mu.Unlock()

		if h.releaseErr != nil {
			slog.Warn("audio session stopped with error", "handle_id", h.id, "mode", h.mode, "error", h.releaseErr)
			return
		}
		slog.Debug("audio resource released", "handle_id", h.id, "mode", h.mode)
	})
	if !first {
		return nil
	}
	return h.releaseErr
}

func (g *Guard) Stats() Stats {
	g.mu.Lock()
	defer g.mu.Unlock()
	s := Stats{Acquired: g.acquired, Released: g.released}
	if g.current != nil {
		s.Held = true
		s.HeldMode = g.current.mode
	}
	return s
}
