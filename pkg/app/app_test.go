package app

import (
	"context"
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"gitlab.com/tinyland/lab/parkicle/pkg/auth"
	"gitlab.com/tinyland/lab/parkicle/pkg/board"
	"gitlab.com/tinyland/lab/parkicle/pkg/session"
	"gitlab.com/tinyland/lab/parkicle/pkg/station"
	"gitlab.com/tinyland/lab/parkicle/pkg/store"
)

// fakeProvider is a Provider driven by an auth.Stream.
type fakeProvider struct {
	stream     auth.Stream
	tokenErr   error
	tokenCalls int
	forced     bool
}

func (f *fakeProvider) SignIn(context.Context) (*auth.Principal, error) {
	p := &auth.Principal{Subject: "u1", Email: "ops@example.com"}
	f.stream.Publish(p)
	return p, nil
}

func (f *fakeProvider) SignOut(context.Context) error {
	f.stream.Publish(nil)
	return nil
}

func (f *fakeProvider) IDToken(_ context.Context, force bool) (string, error) {
	f.tokenCalls++
	f.forced = force
	return "token", f.tokenErr
}

func (f *fakeProvider) Subscribe(fn func(*auth.Principal)) func() {
	return f.stream.Subscribe(fn)
}

type fakePrefs struct {
	err    error
	values map[string]string
}

func (f *fakePrefs) Get(name string) (string, bool) {
	v, ok := f.values[name]
	return v, ok && v != ""
}

func (f *fakePrefs) Set(name, value string, _ int) error {
	if f.err != nil {
		return f.err
	}
	if f.values == nil {
		f.values = map[string]string{}
	}
	f.values[name] = value
	return nil
}

func TestFetchCmdRefreshesTokenThenReads(t *testing.T) {
	p := &fakeProvider{}
	f := store.NewMockFetcher(store.WithStations(station.Station{ID: "CS-01"}))
	req := board.Request{Area: "B2", Seq: 7}

	msg := FetchCmd(context.Background(), p, f, req, time.Second)()
	ev, ok := msg.(StationsFetchedEvent)
	if !ok {
		t.Fatalf("expected StationsFetchedEvent, got %T", msg)
	}
	if ev.Request != req {
		t.Errorf("expected request %+v echoed, got %+v", req, ev.Request)
	}
	if ev.Err != nil || len(ev.Stations) != 1 {
		t.Errorf("unexpected result %v, %v", ev.Stations, ev.Err)
	}
	if p.tokenCalls != 1 || !p.forced {
		t.Errorf("expected one forced token refresh, got %d (forced=%v)", p.tokenCalls, p.forced)
	}
	if f.LastArea() != "B2" {
		t.Errorf("expected read of B2, got %q", f.LastArea())
	}
	if ev.Timestamp.IsZero() {
		t.Error("expected timestamp set")
	}
}

func TestFetchCmdTokenFailureSkipsRead(t *testing.T) {
	p := &fakeProvider{tokenErr: &auth.AuthError{Op: "refresh token", Err: auth.ErrNoToken}}
	f := store.NewMockFetcher()

	ev := FetchCmd(context.Background(), p, f, board.Request{Area: "B2", Seq: 1}, 0)().(StationsFetchedEvent)
	if !errors.Is(ev.Err, auth.ErrNoToken) {
		t.Errorf("expected token error, got %v", ev.Err)
	}
	if f.CallCount() != 0 {
		t.Errorf("expected no store read, got %d", f.CallCount())
	}
}

func TestFetchCmdAppliesTimeout(t *testing.T) {
	f := store.NewMockFetcher(store.WithFetchFunc(func(ctx context.Context, _ string) ([]station.Station, error) {
		if _, ok := ctx.Deadline(); !ok {
			return nil, errors.New("no deadline")
		}
		return nil, nil
	}))
	ev := FetchCmd(context.Background(), nil, f, board.Request{Area: "B2"}, time.Minute)().(StationsFetchedEvent)
	if ev.Err != nil {
		t.Errorf("expected deadline on context, got %v", ev.Err)
	}
}

func TestSignInAndOutCmds(t *testing.T) {
	p := &fakeProvider{}

	in := SignInCmd(context.Background(), p)().(SignInResultEvent)
	if in.Err != nil || in.Principal == nil || in.Principal.Email != "ops@example.com" {
		t.Errorf("unexpected sign-in result %+v", in)
	}

	out := SignOutCmd(context.Background(), p)().(SignOutResultEvent)
	if out.Err != nil {
		t.Errorf("unexpected sign-out error %v", out.Err)
	}
	if cur, _ := p.stream.Current(); cur != nil {
		t.Error("expected signed out after SignOutCmd")
	}
}

func TestSaveAreaCmd(t *testing.T) {
	s := &fakePrefs{}
	if msg := SaveAreaCmd(s, "areaCode", "B2", 30)(); msg != nil {
		t.Errorf("expected no message on success, got %v", msg)
	}
	if v, _ := s.Get("areaCode"); v != "B2" {
		t.Errorf("expected B2 stored, got %q", v)
	}

	s.err = errors.New("disk full")
	msg := SaveAreaCmd(s, "areaCode", "C1", 30)()
	ev, ok := msg.(AreaSavedEvent)
	if !ok || ev.Err == nil || ev.Area != "C1" {
		t.Errorf("expected failure event for C1, got %#v", msg)
	}
}

func TestBridgeSessionForwardsTransitions(t *testing.T) {
	p := &fakeProvider{}
	p.stream.Publish(nil)

	gate := session.NewGate(session.PlainCode("1234"), nil)
	var got []tea.Msg
	release := BridgeSession(gate, p, func(m tea.Msg) { got = append(got, m) })

	if len(got) != 1 {
		t.Fatalf("expected replay of the current value, got %d messages", len(got))
	}
	if !gate.Known() || gate.SignedIn() {
		t.Error("expected gate to know the signed-out state")
	}

	p.SignIn(context.Background())
	if len(got) != 2 {
		t.Fatalf("expected a message for sign-in, got %d", len(got))
	}
	if ev := got[1].(SessionChangedEvent); ev.Principal == nil {
		t.Error("expected signed-in principal")
	}

	release()
	p.SignOut(context.Background())
	if len(got) != 2 {
		t.Errorf("expected no messages after release, got %d", len(got))
	}
}

func TestRefreshTickCmdNotNil(t *testing.T) {
	// tea.Tick sleeps, so only the command's presence is checked.
	if RefreshTickCmd(time.Second, 3) == nil {
		t.Fatal("expected a tick command")
	}
}

func TestInitialAreaPrefersFlagThenConfigThenStored(t *testing.T) {
	stored := &fakePrefs{values: map[string]string{"areaCode": "B2"}}

	if got := InitialArea("", "", stored, "areaCode"); got != "B2" {
		t.Errorf("expected remembered area B2, got %q", got)
	}
	if got := InitialArea("", " C1 ", stored, "areaCode"); got != "C1" {
		t.Errorf("expected configured area C1, got %q", got)
	}
	if got := InitialArea("D4", "C1", stored, "areaCode"); got != "D4" {
		t.Errorf("expected flag area D4, got %q", got)
	}
}

func TestInitialAreaClearedValueReadsAbsent(t *testing.T) {
	stored := &fakePrefs{values: map[string]string{"areaCode": ""}}
	if got := InitialArea("", "", stored, "areaCode"); got != "" {
		t.Errorf("expected no area for a cleared value, got %q", got)
	}
	if got := InitialArea("", "", nil, "areaCode"); got != "" {
		t.Errorf("expected no area without a store, got %q", got)
	}
}

func TestInitialAreaRoundTrip(t *testing.T) {
	s := &fakePrefs{}
	if msg := SaveAreaCmd(s, "areaCode", "B2", 30)(); msg != nil {
		t.Fatalf("unexpected save failure %v", msg)
	}
	if got := InitialArea("", "", s, "areaCode"); got != "B2" {
		t.Errorf("expected saved area restored on the next start, got %q", got)
	}
}
