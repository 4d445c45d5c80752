package app

import (
	"context"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"gitlab.com/tinyland/lab/parkicle/pkg/auth"
	"gitlab.com/tinyland/lab/parkicle/pkg/board"
	"gitlab.com/tinyland/lab/parkicle/pkg/prefs"
	"gitlab.com/tinyland/lab/parkicle/pkg/session"
	"gitlab.com/tinyland/lab/parkicle/pkg/store"
)

// RefreshTickCmd returns a Cmd that sends a RefreshTickEvent for timer
// generation gen after d.
func RefreshTickCmd(d time.Duration, gen uint64) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return RefreshTickEvent{Gen: gen, Time: t}
	})
}

// FetchCmd returns a Cmd that reads req.Area from f and delivers a
// StationsFetchedEvent. The identity token is re-verified first, so an
// expired or revoked session fails the fetch instead of reading with
// stale credentials. A timeout of 0 means no deadline.
func FetchCmd(ctx context.Context, p auth.Provider, f store.Fetcher, req board.Request, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}

		ev := StationsFetchedEvent{Request: req}
		if p != nil {
			if _, err := p.IDToken(ctx, true); err != nil {
				ev.Err = err
				ev.Timestamp = time.Now()
				return ev
			}
		}
		ev.Stations, ev.Err = f.FetchCollection(ctx, req.Area)
		ev.Timestamp = time.Now()
		return ev
	}
}

// SignInCmd returns a Cmd that signs in through p.
func SignInCmd(ctx context.Context, p auth.Provider) tea.Cmd {
	return func() tea.Msg {
		principal, err := p.SignIn(ctx)
		return SignInResultEvent{Principal: principal, Err: err}
	}
}

// SignOutCmd returns a Cmd that signs out through p.
func SignOutCmd(ctx context.Context, p auth.Provider) tea.Cmd {
	return func() tea.Msg {
		return SignOutResultEvent{Err: p.SignOut(ctx)}
	}
}

// SaveAreaCmd returns a Cmd that remembers area under key for ttlDays.
// An empty area clears the remembered value. It produces a message only
// on failure.
func SaveAreaCmd(s prefs.Store, key, area string, ttlDays int) tea.Cmd {
	return func() tea.Msg {
		if err := s.Set(key, area, ttlDays); err != nil {
			return AreaSavedEvent{Area: area, Err: err}
		}
		return nil
	}
}

// BridgeSession attaches gate to p and forwards every session value to
// send, normally tea.Program.Send. Send blocks until the program is
// running, so call this from its own goroutine. The returned func
// releases the subscription.
func BridgeSession(gate *session.Gate, p auth.Provider, send func(tea.Msg)) func() {
	gate.Attach(p, func(principal *auth.Principal) {
		send(SessionChangedEvent{Principal: principal})
	})
	return gate.Close
}

// InitialArea picks the area to open at startup: flagArea, then the
// configured area (config file or environment), then the value remembered
// under key. A remembered "" reads as absent, which leaves the area unset.
func InitialArea(flagArea, configured string, s prefs.Store, key string) string {
	if a := strings.TrimSpace(flagArea); a != "" {
		return a
	}
	if a := strings.TrimSpace(configured); a != "" {
		return a
	}
	if s == nil || key == "" {
		return ""
	}
	if a, ok := s.Get(key); ok {
		return strings.TrimSpace(a)
	}
	return ""
}
