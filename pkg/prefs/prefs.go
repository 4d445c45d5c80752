// Package prefs persists small named user preferences, such as the last
// selected area, with a per-entry lifetime in days.
package prefs

import "time"

// Day is the unit of entry lifetimes.
const Day = 24 * time.Hour

// Store reads and writes named string values.
//
// An entry whose lifetime has passed, or whose stored value is empty,
// reads as absent. A ttlDays of 0 or less stores the value without expiry.
type Store interface {
	Get(name string) (string, bool)
	Set(name, value string, ttlDays int) error
}

func ttl(days int) time.Duration {
	if days <= 0 {
		return 0
	}
	return time.Duration(days) * Day
}
