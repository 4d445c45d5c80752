package auth

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"
)

const testSecret = "test-secret"

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func mustIssue(t *testing.T, email string) string {
	t.Helper()
	tok, err := NewIssuer(testSecret, "parkicle", time.Hour).Issue(email, "")
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	return tok
}

func newTestProvider(src TokenSource) *TokenProvider {
	return NewTokenProvider(TokenProviderConfig{
		Source: src,
		Secret: testSecret,
		Issuer: "parkicle",
		Logger: testLogger(),
	})
}

func TestStreamReplaysCurrentValueOnSubscribe(t *testing.T) {
	var s Stream
	p := &Principal{Subject: "u1", Email: "a@example.com"}
	s.Publish(p)

	var got *Principal
	calls := 0
	unsub := s.Subscribe(func(v *Principal) {
		got = v
		calls++
	})
	defer unsub()

	if calls != 1 {
		t.Fatalf("expected synchronous replay, got %d calls", calls)
	}
	if got != p {
		t.Errorf("expected replayed principal, got %+v", got)
	}
}

func TestStreamNoReplayBeforeFirstValue(t *testing.T) {
	var s Stream
	calls := 0
	s.Subscribe(func(*Principal) { calls++ })
	if calls != 0 {
		t.Errorf("expected no replay before any value is known, got %d", calls)
	}
	if _, known := s.Current(); known {
		t.Error("expected Current to report unknown")
	}
}

func TestStreamFiresOncePerTransition(t *testing.T) {
	var s Stream
	var seen []*Principal
	s.Subscribe(func(p *Principal) { seen = append(seen, p) })

	a := &Principal{Subject: "u1", Email: "a@example.com"}
	s.Publish(nil)
	s.Publish(nil)
	s.Publish(a)
	s.Publish(&Principal{Subject: "u1", Email: "a@example.com"})
	s.Publish(nil)

	if len(seen) != 3 {
		t.Fatalf("expected 3 notifications (out, in, out), got %d", len(seen))
	}
	if seen[0] != nil || seen[1] != a || seen[2] != nil {
		t.Errorf("unexpected notification sequence %v", seen)
	}
}

func TestStreamUnsubscribeIsIdempotent(t *testing.T) {
	var s Stream
	calls := 0
	unsub := s.Subscribe(func(*Principal) { calls++ })
	unsub()
	unsub()

	s.Publish(&Principal{Subject: "x"})
	if calls != 0 {
		t.Errorf("expected no calls after unsubscribe, got %d", calls)
	}
	if s.Subscribers() != 0 {
		t.Errorf("expected 0 subscribers, got %d", s.Subscribers())
	}
}

func TestTokenProviderSignIn(t *testing.T) {
	p := newTestProvider(StaticToken(mustIssue(t, "ops@example.com")))

	var last *Principal
	p.Subscribe(func(v *Principal) { last = v })

	principal, err := p.SignIn(context.Background())
	if err != nil {
		t.Fatalf("SignIn: %v", err)
	}
	if principal.Email != "ops@example.com" {
		t.Errorf("expected email ops@example.com, got %q", principal.Email)
	}
	if !principal.HasToken() {
		t.Error("expected principal to carry a token")
	}
	if last == nil || last.Email != "ops@example.com" {
		t.Errorf("expected subscribers to see the principal, got %+v", last)
	}
}

func TestTokenProviderSignInWrongSecret(t *testing.T) {
	tok, err := NewIssuer("other-secret", "parkicle", time.Hour).Issue("a@example.com", "")
	if err != nil {
		t.Fatal(err)
	}
	p := newTestProvider(StaticToken(tok))

	_, err = p.SignIn(context.Background())
	var authErr *AuthError
	if !errors.As(err, &authErr) {
		t.Fatalf("expected *AuthError, got %v", err)
	}
	if authErr.Op != "sign in" {
		t.Errorf("expected op 'sign in', got %q", authErr.Op)
	}
}

func TestTokenProviderRejectsExpiredToken(t *testing.T) {
	tok := mustIssue(t, "a@example.com")
	p := NewTokenProvider(TokenProviderConfig{
		Source: StaticToken(tok),
		Secret: testSecret,
		Logger: testLogger(),
		Now:    func() time.Time { return time.Now().Add(2 * time.Hour) },
	})

	if _, err := p.SignIn(context.Background()); err == nil {
		t.Error("expected expired token to be rejected")
	}
}

func TestTokenProviderRejectsWrongIssuer(t *testing.T) {
	tok, err := NewIssuer(testSecret, "someone-else", time.Hour).Issue("a@example.com", "")
	if err != nil {
		t.Fatal(err)
	}
	p := newTestProvider(StaticToken(tok))
	if _, err := p.SignIn(context.Background()); err == nil {
		t.Error("expected issuer mismatch to be rejected")
	}
}

func TestRestoreWithoutTokenPublishesSignedOut(t *testing.T) {
	p := newTestProvider(FileTokenSource(filepath.Join(t.TempDir(), "missing")))

	calls := 0
	var last *Principal
	p.Subscribe(func(v *Principal) {
		calls++
		last = v
	})
	p.Restore(context.Background())

	if calls != 1 || last != nil {
		t.Errorf("expected one signed-out notification, got calls=%d last=%+v", calls, last)
	}
}

func TestRestoreFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token")
	if err := os.WriteFile(path, []byte(mustIssue(t, "a@example.com")+"\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	p := newTestProvider(FileTokenSource(path))
	p.Restore(context.Background())

	cur, known := p.stream.Current()
	if !known || cur == nil {
		t.Fatal("expected a restored principal")
	}
	if cur.Email != "a@example.com" {
		t.Errorf("expected a@example.com, got %q", cur.Email)
	}
}

func TestIDTokenRequiresSession(t *testing.T) {
	p := newTestProvider(StaticToken(mustIssue(t, "a@example.com")))
	if _, err := p.IDToken(context.Background(), false); !errors.Is(err, ErrSignedOut) {
		t.Errorf("expected ErrSignedOut, got %v", err)
	}
}

func TestIDTokenRequiresToken(t *testing.T) {
	p := newTestProvider(StaticToken(mustIssue(t, "a@example.com")))
	p.stream.Publish(&Principal{Subject: "a@example.com", Email: "a@example.com"})

	_, err := p.IDToken(context.Background(), false)
	if !errors.Is(err, ErrNoToken) {
		t.Errorf("expected ErrNoToken for a principal without a token, got %v", err)
	}
	var ae *AuthError
	if !errors.As(err, &ae) {
		t.Errorf("expected *AuthError, got %T", err)
	}
}

func TestIDTokenForceRefreshRereadsSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token")
	first := mustIssue(t, "a@example.com")
	if err := os.WriteFile(path, []byte(first), 0o600); err != nil {
		t.Fatal(err)
	}
	p := newTestProvider(FileTokenSource(path))
	if _, err := p.SignIn(context.Background()); err != nil {
		t.Fatal(err)
	}

	if err := os.Remove(path); err != nil {
		t.Fatal(err)
	}
	if tok, err := p.IDToken(context.Background(), false); err != nil || tok != first {
		t.Errorf("expected cached token without refresh, got %q, %v", tok, err)
	}
	if _, err := p.IDToken(context.Background(), true); !errors.Is(err, ErrNoToken) {
		t.Errorf("expected forced refresh to fail with ErrNoToken, got %v", err)
	}
}

func TestSignOutPublishesNil(t *testing.T) {
	p := newTestProvider(StaticToken(mustIssue(t, "a@example.com")))
	if _, err := p.SignIn(context.Background()); err != nil {
		t.Fatal(err)
	}
	var last = &Principal{}
	p.Subscribe(func(v *Principal) { last = v })
	if err := p.SignOut(context.Background()); err != nil {
		t.Fatal(err)
	}
	if last != nil {
		t.Errorf("expected nil principal after sign out, got %+v", last)
	}
}

func TestIssuerRequiresEmail(t *testing.T) {
	if _, err := NewIssuer(testSecret, "", 0).Issue("  ", ""); !errors.Is(err, ErrMissingEmail) {
		t.Errorf("expected ErrMissingEmail, got %v", err)
	}
}

func TestSame(t *testing.T) {
	a := &Principal{Subject: "1", Email: "a"}
	if !Same(nil, nil) {
		t.Error("two signed-out values should be the same")
	}
	if Same(a, nil) || Same(nil, a) {
		t.Error("signed in and signed out should differ")
	}
	if !Same(a, &Principal{Subject: "1", Email: "a", token: "other"}) {
		t.Error("same identity with a new token should be the same")
	}
}
