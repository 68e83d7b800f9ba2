package session

import (
	"fmt"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/sofar/internal/models"
	"github.com/desertthunder/sofar/internal/shared"
)

// State is the Session Gate state.
type State int

const (
	StateUnknown State = iota
	StateUnauthenticated
	StateAuthenticated
)

func (s State) String() string {
	switch s {
	case StateUnknown:
		return "unknown"
	case StateUnauthenticated:
		return "unauthenticated"
	case StateAuthenticated:
		return "authenticated"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Gate decides whether protected content may be shown, based on the [Store].
type Gate struct {
	mu      sync.RWMutex
	store   *Store
	logger  *log.Logger
	state   State
	session models.Session
	subs    []chan State
}

// NewGate creates a [Gate] in [StateUnknown].
func NewGate(store *Store, logger *log.Logger) *Gate {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Gate{store: store, logger: logger}
}

// State returns the current state.
func (g *Gate) State() State {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.state
}

// Session returns the session that authenticated the gate, if any.
func (g *Gate) Session() (models.Session, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.session, g.state == StateAuthenticated
}

// Evaluate checks the store. An invalid store is cleared and the gate becomes unauthenticated.
func (g *Gate) Evaluate() (models.Session, State) {
	sess, ok := g.store.Valid()
	if !ok {
		if err := g.store.Clear(); err != nil {
			g.logger.Warn("failed to clear invalid session", "error", err)
		}
		g.transition(StateUnauthenticated, models.Session{})
		return models.Session{}, StateUnauthenticated
	}

	g.transition(StateAuthenticated, sess)
	return sess, StateAuthenticated
}

// Revoke clears the store and moves the gate to [StateUnauthenticated] from any state.
func (g *Gate) Revoke(reason error) {
	g.logger.Info("revoking session", "reason", reason)
	if err := g.store.Clear(); err != nil {
		g.logger.Warn("failed to clear revoked session", "error", err)
	}
	g.transition(StateUnauthenticated, models.Session{})
}

// Guard re-evaluates the gate and runs fn only while authenticated.
func (g *Gate) Guard(fn func(models.Session) error) error {
	sess, state := g.Evaluate()
	if state != StateAuthenticated {
		return shared.ErrSessionInvalid
	}
	return fn(sess)
}

// Subscribe returns a channel that receives each state change.
//
// Slow subscribers miss intermediate states rather than blocking the gate.
func (g *Gate) Subscribe() <-chan State {
	ch := make(chan State, 4)
	g.mu.Lock()
	g.subs = append(g.subs, ch)
	g.mu.Unlock()
	return ch
}

// Unsubscribe stops delivery to a channel returned by [Gate.Subscribe].
func (g *Gate) Unsubscribe(ch <-chan State) {
	g.mu.Lock()
	defer g.mu.Unlock()
	for i, sub := range g.subs {
		if sub == ch {
			g.subs = append(g.subs[:i:i], g.subs[i+1:]...)
			return
		}
	}
}

func (g *Gate) transition(to State, sess models.Session) {
	g.mu.Lock()
	from := g.state
	g.state = to
	g.session = sess
	subs := g.subs
	g.mu.Unlock()

	if from == to {
		return
	}

	g.logger.Debug("session gate transition", "from", from, "to", to)
	for _, ch := range subs {
		select {
		case ch <- to:
		default:
		}
	}
}
