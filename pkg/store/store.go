// Package store reads station documents for an area from a backing
// document store. Every backend maps its own "access denied" failures to
// ErrPermissionDenied so the board can tell them apart from other errors.
package store

import (
	"context"
	"errors"
	"fmt"
	"io"

	"gitlab.com/tinyland/lab/parkicle/pkg/station"
)

// ErrPermissionDenied marks a fetch refused by the backend's access rules.
var ErrPermissionDenied = errors.New("permission denied")

// Fetcher returns every station document stored under an area key.
type Fetcher interface {
	FetchCollection(ctx context.Context, area string) ([]station.Station, error)
}

// Writer stores or replaces one station document.
type Writer interface {
	PutStation(ctx context.Context, area string, s station.Station) error
}

// Backend is a complete store implementation.
type Backend interface {
	Fetcher
	Writer
	io.Closer
	Name() string
}

// FetchError is returned by backends when reading an area fails.
type FetchError struct {
	Area string
	Err  error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch area %q: %v", e.Area, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// IsPermissionDenied reports whether err is an access refusal.
func IsPermissionDenied(err error) bool {
	return errors.Is(err, ErrPermissionDenied)
}

// denied wraps a driver error so it matches ErrPermissionDenied while
// keeping the driver's message.
func denied(area string, err error) error {
	return &FetchError{Area: area, Err: fmt.Errorf("%w: %w", ErrPermissionDenied, err)}
}

func failed(area string, err error) error {
	return &FetchError{Area: area, Err: err}
}
