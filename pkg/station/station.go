// Package station defines the charging-station record shown on the board
// and the rules that turn a record into a display status.
package station

import (
	"fmt"
	"sort"
)

// DefaultPlaceholderCount is the number of empty stations shown when an
// area has no data or cannot be read.
const DefaultPlaceholderCount = 8

// maskVisible is how many trailing plate characters stay visible.
const maskVisible = 4

// Status is the derived display state of a station.
type Status string

const (
	StatusAvailable Status = "available"
	StatusCharging  Status = "charging"
	StatusIllegal   Status = "illegal"
)

// Label returns a short human-readable label for the status.
func (s Status) Label() string {
	switch s {
	case StatusCharging:
		return "Charging"
	case StatusIllegal:
		return "Illegal parking"
	default:
		return "Available"
	}
}

// Station is one parking/charging slot within an area. CarNum is empty when
// the slot is unoccupied; ChargingTime is in minutes and 0 means idle.
type Station struct {
	ID           string `json:"id" yaml:"id"`
	CarNum       string `json:"carNum,omitempty" yaml:"carNum,omitempty"`
	ChargingTime int    `json:"chargingTime" yaml:"chargingTime"`
	IsIllegal    bool   `json:"isIllegal" yaml:"isIllegal"`
}

// Occupied reports whether a vehicle plate is recorded for the slot.
func (s Station) Occupied() bool {
	return s.CarNum != ""
}

// DeriveStatus maps a station to its display status. Illegal parking wins
// over charging, which wins over available.
func DeriveStatus(s Station) Status {
	if s.IsIllegal {
		return StatusIllegal
	}
	if s.CarNum != "" && s.ChargingTime > 0 {
		return StatusCharging
	}
	return StatusAvailable
}

// Placeholders returns n empty stations with ids CS-01, CS-02, ...
func Placeholders(n int) []Station {
	if n <= 0 {
		return nil
	}
	out := make([]Station, n)
	for i := range out {
		out[i] = Station{ID: fmt.Sprintf("CS-%02d", i+1)}
	}
	return out
}

// MaskCarNum hides all but the last four characters of a plate.
func MaskCarNum(plate string) string {
	r := []rune(plate)
	if len(r) <= maskVisible {
		return plate
	}
	return string(r[len(r)-maskVisible:])
}

// Sort orders stations by ID in place.
func Sort(stations []Station) {
	sort.SliceStable(stations, func(i, j int) bool {
		return stations[i].ID < stations[j].ID
	})
}

// Counts is a per-status tally of a station list.
type Counts struct {
	Available int
	Charging  int
	Illegal   int
}

// Total returns the number of stations counted.
func (c Counts) Total() int {
	return c.Available + c.Charging + c.Illegal
}

// Summarize tallies stations by derived status.
func Summarize(stations []Station) Counts {
	var c Counts
	for _, s := range stations {
		switch DeriveStatus(s) {
		case StatusIllegal:
			c.Illegal++
		case StatusCharging:
			c.Charging++
		default:
			c.Available++
		}
	}
	return c
}
