package board

import (
	"context"
	"errors"
	"fmt"

	"gitlab.com/tinyland/lab/parkicle/pkg/station"
	"gitlab.com/tinyland/lab/parkicle/pkg/store"
)

// Request identifies one fetch. Results are matched back to the board by
// Seq so that a slow completion cannot overwrite a newer one.
type Request struct {
	Area string
	Seq  uint64
}

// BeginRefresh starts a fetch for the active area. It does nothing and
// returns false when no area is set or the session is signed out.
func (b *Board) BeginRefresh(signedIn bool) (Request, bool) {
	if b.area == "" || !signedIn {
		return Request{}, false
	}
	b.seq++
	b.loading = true
	b.logger.Debug("fetch started", "area", b.area, "seq", b.seq)
	return Request{Area: b.area, Seq: b.seq}, true
}

// ApplyResult applies a completed fetch. It returns false if the result
// was dropped because a newer request has already been applied or the
// area has changed since the request was made.
func (b *Board) ApplyResult(req Request, records []station.Station, err error) bool {
	if req.Area != b.area || req.Seq <= b.applied {
		b.logger.Debug("stale fetch dropped", "area", req.Area, "seq", req.Seq, "current", b.area)
		return false
	}
	b.applied = req.Seq
	if req.Seq == b.seq {
		b.loading = false
	}

	switch {
	case err != nil:
		b.stations = station.Placeholders(b.placeholders)
		b.notice = failureNotice(req.Area, err)
		b.logger.Warn("fetch failed, showing placeholder board",
			"area", req.Area, "denied", b.notice.Kind == NoticeDenied, "error", err)
	case len(records) == 0:
		b.stations = station.Placeholders(b.placeholders)
		b.notice = Notice{}
		b.lastUpdated = b.now()
		b.logger.Info("area is empty, showing placeholder board", "area", req.Area)
	default:
		list := make([]station.Station, len(records))
		copy(list, records)
		station.Sort(list)
		b.stations = list
		b.notice = Notice{}
		b.lastUpdated = b.now()
		b.logger.Info("fetch complete", "area", req.Area, "stations", len(list))
	}

	b.clampPage()
	return true
}

// Refresh runs a full fetch synchronously. It reports whether a fetch was
// attempted.
func (b *Board) Refresh(ctx context.Context, f store.Fetcher, signedIn bool) bool {
	req, ok := b.BeginRefresh(signedIn)
	if !ok {
		return false
	}
	records, err := f.FetchCollection(ctx, req.Area)
	b.ApplyResult(req, records, err)
	return true
}

func failureNotice(area string, err error) Notice {
	cause := err
	var fe *store.FetchError
	if errors.As(err, &fe) {
		cause = fe.Err
	}
	if store.IsPermissionDenied(err) {
		return Notice{
			Kind:    NoticeDenied,
			Message: fmt.Sprintf("No permission to read area %q (%v). Showing the default board.", area, cause),
		}
	}
	return Notice{
		Kind:    NoticeError,
		Message: fmt.Sprintf("Failed to load area %q: %v. Showing the default board.", area, cause),
	}
}
