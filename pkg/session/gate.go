// Package session holds the signed-in identity as seen by the board and
// the confirmation gate that privileged actions pass through.
//
// The gate compares operator input against a locally configured shared
// code. It is a low-assurance guard against accidental taps on a shared
// screen, not an authorization check.
package session

import (
	"errors"
	"log/slog"
	"sync"

	"gitlab.com/tinyland/lab/parkicle/pkg/auth"
)

var (
	// ErrCodeMismatch is returned by Confirm when the code is wrong. The
	// pending confirmation stays open.
	ErrCodeMismatch = errors.New("incorrect confirmation code")

	// ErrNoPending is returned by Confirm when nothing awaits confirmation.
	ErrNoPending = errors.New("no action awaiting confirmation")
)

type pending struct {
	label  string
	action func()
}

// Gate tracks the session and guards privileged actions. Its methods are
// called from the UI loop; the session callback may arrive from any
// goroutine, so session fields are guarded.
type Gate struct {
	verifier Verifier
	logger   *slog.Logger

	mu          sync.Mutex
	known       bool
	principal   *auth.Principal
	unsubscribe func()

	pending *pending
}

// NewGate returns a gate that checks codes with verifier.
func NewGate(verifier Verifier, logger *slog.Logger) *Gate {
	if logger == nil {
		logger = slog.Default()
	}
	return &Gate{verifier: verifier, logger: logger}
}

// Attach subscribes to provider's session stream. onChange, if non-nil,
// is called after the gate has recorded each new value. Any previous
// subscription is released first.
func (g *Gate) Attach(provider auth.Provider, onChange func(*auth.Principal)) {
	g.Close()
	unsub := provider.Subscribe(func(p *auth.Principal) {
		g.Observe(p)
		if onChange != nil {
			onChange(p)
		}
	})
	g.mu.Lock()
	g.unsubscribe = unsub
	g.mu.Unlock()
}

// Observe records a session value. Attach calls it; the UI also calls it
// when a session change message is delivered.
func (g *Gate) Observe(p *auth.Principal) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.known = true
	g.principal = p
}

// Close releases the session subscription. Safe to call repeatedly.
func (g *Gate) Close() {
	g.mu.Lock()
	unsub := g.unsubscribe
	g.unsubscribe = nil
	g.mu.Unlock()
	if unsub != nil {
		unsub()
	}
}

// Known reports whether the first session value has arrived.
func (g *Gate) Known() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.known
}

// Principal returns the signed-in principal, or nil.
func (g *Gate) Principal() *auth.Principal {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.principal
}

// SignedIn reports whether a principal is present.
func (g *Gate) SignedIn() bool {
	return g.Principal() != nil
}

// RequestPrivileged records action as awaiting confirmation, replacing
// any earlier request. The action is not run.
func (g *Gate) RequestPrivileged(label string, action func()) {
	g.pending = &pending{label: label, action: action}
	g.logger.Info("privileged action requested", "action", label)
}

// Pending returns the label of the action awaiting confirmation.
func (g *Gate) Pending() (string, bool) {
	if g.pending == nil {
		return "", false
	}
	return g.pending.label, true
}

// Confirm runs the pending action if input matches the configured code.
// The action runs at most once per request.
func (g *Gate) Confirm(input string) error {
	p := g.pending
	if p == nil {
		return ErrNoPending
	}
	if g.verifier == nil || !g.verifier.Verify(input) {
		g.logger.Warn("confirmation code mismatch", "action", p.label)
		return ErrCodeMismatch
	}

	g.pending = nil
	g.logger.Info("privileged action confirmed", "action", p.label)
	if p.action != nil {
		p.action()
	}
	return nil
}

// Cancel discards the pending action without running it.
func (g *Gate) Cancel() {
	if g.pending == nil {
		return
	}
	g.logger.Info("privileged action cancelled", "action", g.pending.label)
	g.pending = nil
}
