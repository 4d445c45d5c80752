package session

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"gitlab.com/tinyland/lab/parkicle/pkg/auth"
)

func newTestGate() *Gate {
	return NewGate(PlainCode("1234"), slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// fakeProvider publishes whatever the test tells it to.
type fakeProvider struct {
	stream auth.Stream
}

func (f *fakeProvider) SignIn(context.Context) (*auth.Principal, error) { return nil, nil }
func (f *fakeProvider) SignOut(context.Context) error                   { return nil }
func (f *fakeProvider) IDToken(context.Context, bool) (string, error)   { return "", nil }
func (f *fakeProvider) Subscribe(fn func(*auth.Principal)) func()       { return f.stream.Subscribe(fn) }

func TestConfirmWrongCodeKeepsPending(t *testing.T) {
	g := newTestGate()
	calls := 0
	g.RequestPrivileged("x", func() { calls++ })

	if err := g.Confirm("wrong"); !errors.Is(err, ErrCodeMismatch) {
		t.Fatalf("expected ErrCodeMismatch, got %v", err)
	}
	if calls != 0 {
		t.Errorf("action must not run on mismatch, ran %d times", calls)
	}
	if label, ok := g.Pending(); !ok || label != "x" {
		t.Errorf("expected prompt to stay open for 'x', got %q, %v", label, ok)
	}
}

func TestConfirmRightCodeRunsOnce(t *testing.T) {
	g := newTestGate()
	calls := 0
	g.RequestPrivileged("x", func() { calls++ })

	_ = g.Confirm("wrong")
	if err := g.Confirm("1234"); err != nil {
		t.Fatalf("Confirm: %v", err)
	}
	if calls != 1 {
		t.Errorf("expected action to run once, ran %d times", calls)
	}
	if _, ok := g.Pending(); ok {
		t.Error("expected prompt closed after confirmation")
	}

	if err := g.Confirm("1234"); !errors.Is(err, ErrNoPending) {
		t.Errorf("expected ErrNoPending on second confirm, got %v", err)
	}
	if calls != 1 {
		t.Errorf("action must not run again, ran %d times", calls)
	}
}

func TestCancelDiscardsAction(t *testing.T) {
	g := newTestGate()
	calls := 0
	g.RequestPrivileged("sign out", func() { calls++ })
	g.Cancel()

	if _, ok := g.Pending(); ok {
		t.Error("expected no pending action after cancel")
	}
	if err := g.Confirm("1234"); !errors.Is(err, ErrNoPending) {
		t.Errorf("expected ErrNoPending, got %v", err)
	}
	if calls != 0 {
		t.Errorf("cancelled action ran %d times", calls)
	}
}

func TestNewRequestReplacesPending(t *testing.T) {
	g := newTestGate()
	first, second := 0, 0
	g.RequestPrivileged("first", func() { first++ })
	g.RequestPrivileged("second", func() { second++ })

	if err := g.Confirm("1234"); err != nil {
		t.Fatal(err)
	}
	if first != 0 || second != 1 {
		t.Errorf("expected only the latest request to run, got first=%d second=%d", first, second)
	}
}

func TestNilVerifierRejectsEverything(t *testing.T) {
	g := NewGate(nil, nil)
	g.RequestPrivileged("x", func() { t.Error("action must not run") })
	if err := g.Confirm(""); !errors.Is(err, ErrCodeMismatch) {
		t.Errorf("expected ErrCodeMismatch, got %v", err)
	}
}

func TestHashedCode(t *testing.T) {
	hash, err := HashCode("9876")
	if err != nil {
		t.Fatal(err)
	}
	v := HashedCode(hash)
	if !v.Verify("9876") {
		t.Error("expected hashed code to accept the right input")
	}
	if v.Verify("1234") {
		t.Error("expected hashed code to reject the wrong input")
	}
	if HashedCode("").Verify("") {
		t.Error("empty hash must reject")
	}
}

func TestPlainCodeEmptyRejects(t *testing.T) {
	if PlainCode("").Verify("") {
		t.Error("an unset code must not accept empty input")
	}
}

func TestAttachTracksSession(t *testing.T) {
	prov := &fakeProvider{}
	g := newTestGate()

	var seen []*auth.Principal
	g.Attach(prov, func(p *auth.Principal) { seen = append(seen, p) })

	if g.Known() {
		t.Error("expected unknown session before first value")
	}

	p := &auth.Principal{Subject: "u", Email: "u@example.com"}
	prov.stream.Publish(p)
	if !g.Known() || !g.SignedIn() || g.Principal() != p {
		t.Errorf("expected signed in as %+v", p)
	}

	prov.stream.Publish(nil)
	if g.SignedIn() {
		t.Error("expected signed out")
	}
	if len(seen) != 2 {
		t.Errorf("expected 2 change callbacks, got %d", len(seen))
	}

	g.Close()
	g.Close()
	if prov.stream.Subscribers() != 0 {
		t.Errorf("expected subscription released, %d left", prov.stream.Subscribers())
	}
}

func TestAttachReleasesPreviousSubscription(t *testing.T) {
	prov := &fakeProvider{}
	g := newTestGate()
	g.Attach(prov, nil)
	g.Attach(prov, nil)
	if n := prov.stream.Subscribers(); n != 1 {
		t.Errorf("expected exactly one live subscription, got %d", n)
	}
	g.Close()
}
