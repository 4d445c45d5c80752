// Package app defines the messages that carry work results back into the
// Bubbletea update loop and the commands that produce them. Blocking calls
// (store reads, identity-provider calls) only ever run inside these
// commands.
package app

import (
	"time"

	"gitlab.com/tinyland/lab/parkicle/pkg/auth"
	"gitlab.com/tinyland/lab/parkicle/pkg/board"
	"gitlab.com/tinyland/lab/parkicle/pkg/station"
)

// StationsFetchedEvent carries the result of one store read. Request
// identifies which fetch it answers so stale results can be dropped.
type StationsFetchedEvent struct {
	Request   board.Request
	Stations  []station.Station
	Err       error
	Timestamp time.Time
}

// RefreshTickEvent is sent by the auto-refresh timer. Gen is the timer
// generation it was armed with.
type RefreshTickEvent struct {
	Gen  uint64
	Time time.Time
}

// SessionChangedEvent is delivered for every session transition from the
// identity provider. A nil Principal means signed out.
type SessionChangedEvent struct {
	Principal *auth.Principal
}

// SignInResultEvent reports the outcome of an interactive sign-in.
type SignInResultEvent struct {
	Principal *auth.Principal
	Err       error
}

// SignOutResultEvent reports the outcome of a sign-out.
type SignOutResultEvent struct {
	Err error
}

// AreaSavedEvent reports a failed attempt to remember the area. It is only
// sent on error.
type AreaSavedEvent struct {
	Area string
	Err  error
}
