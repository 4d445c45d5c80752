// Package board holds the station list for the active area: status
// counts, Summary/Detail navigation, the refresh protocol and the periodic
// refresh schedule. A Board is owned by a single goroutine (the Bubbletea
// update loop); it performs no I/O except in Refresh.
package board

import (
	"log/slog"
	"strings"
	"time"

	"gitlab.com/tinyland/lab/parkicle/pkg/station"
)

// DefaultRefreshInterval is the auto-refresh period.
const DefaultRefreshInterval = 60 * time.Second

// Options configures a Board. Zero values select the defaults.
type Options struct {
	PlaceholderCount int
	RefreshInterval  time.Duration

	// AutoRefresh is the initial state of the auto-refresh flag. Nil
	// means enabled.
	AutoRefresh *bool

	Now    func() time.Time
	Logger *slog.Logger
}

// NoticeKind classifies the banner shown above the board.
type NoticeKind int

const (
	NoticeNone NoticeKind = iota
	NoticeDenied
	NoticeError
)

// Notice is a user-facing message about the last fetch.
type Notice struct {
	Kind    NoticeKind
	Message string
}

// Board is the station list for one area.
type Board struct {
	placeholders int
	interval     time.Duration
	now          func() time.Time
	logger       *slog.Logger

	area        string
	stations    []station.Station
	page        int
	visited     int
	notice      Notice
	loading     bool
	lastUpdated time.Time
	autoRefresh bool

	// seq is the token handed to the latest request; applied is the
	// newest token whose result has been accepted.
	seq     uint64
	applied uint64

	schedule Schedule
}

// New returns an empty board with no area.
func New(opts Options) *Board {
	if opts.PlaceholderCount <= 0 {
		opts.PlaceholderCount = station.DefaultPlaceholderCount
	}
	if opts.RefreshInterval <= 0 {
		opts.RefreshInterval = DefaultRefreshInterval
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	auto := true
	if opts.AutoRefresh != nil {
		auto = *opts.AutoRefresh
	}
	return &Board{
		placeholders: opts.PlaceholderCount,
		interval:     opts.RefreshInterval,
		now:          opts.Now,
		logger:       opts.Logger,
		page:         SummaryPage,
		visited:      SummaryPage,
		autoRefresh:  auto,
	}
}

// SetArea makes area the active area. The station list is discarded,
// navigation returns to Summary and any in-flight fetch for the previous
// area is invalidated. Setting the current area again is a no-op and
// reports false.
func (b *Board) SetArea(area string) bool {
	area = strings.TrimSpace(area)
	if area == b.area {
		return false
	}
	b.logger.Info("area changed", "from", b.area, "to", area)
	b.area = area
	b.stations = nil
	b.page = SummaryPage
	b.visited = SummaryPage
	b.notice = Notice{}
	b.loading = false
	b.lastUpdated = time.Time{}
	// Invalidate whatever is in flight.
	b.seq++
	b.applied = b.seq
	return true
}

// ClearArea removes the active area.
func (b *Board) ClearArea() bool {
	return b.SetArea("")
}

// Area returns the active area, or "" when none is set.
func (b *Board) Area() string { return b.area }

// Stations returns the current list. Callers must not modify it.
func (b *Board) Stations() []station.Station { return b.stations }

// Counts summarizes the current list by status.
func (b *Board) Counts() station.Counts { return station.Summarize(b.stations) }

// Notice returns the banner for the last fetch.
func (b *Board) Notice() Notice { return b.notice }

// Loading reports whether a fetch is in flight.
func (b *Board) Loading() bool { return b.loading }

// LastUpdated is the time of the last successful fetch, zero if none.
func (b *Board) LastUpdated() time.Time { return b.lastUpdated }

// AutoRefresh reports whether periodic refresh is enabled.
func (b *Board) AutoRefresh() bool { return b.autoRefresh }

// ToggleAutoRefresh flips the auto-refresh flag and returns the new value.
// Callers re-arm the schedule afterwards.
func (b *Board) ToggleAutoRefresh() bool {
	b.autoRefresh = !b.autoRefresh
	b.logger.Info("auto refresh toggled", "enabled", b.autoRefresh)
	return b.autoRefresh
}

// Interval is the auto-refresh period.
func (b *Board) Interval() time.Duration { return b.interval }
