package store

import (
	"context"
	"fmt"
	"io"
	"sort"

	"gopkg.in/yaml.v3"

	"gitlab.com/tinyland/lab/parkicle/pkg/station"
)

// Seed is a set of station documents keyed by area, loaded from YAML:
//
//	areas:
//	  B2:
//	    - id: CS-01
//	      carNum: "12GA3456"
//	      chargingTime: 35
//	    - id: CS-02
//	      isIllegal: true
type Seed struct {
	Areas map[string][]station.Station `yaml:"areas"`
}

// LoadSeed decodes and validates a seed document.
func LoadSeed(r io.Reader) (*Seed, error) {
	var s Seed
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("seed: decode yaml: %w", err)
	}
	for area, stations := range s.Areas {
		if area == "" {
			return nil, fmt.Errorf("seed: empty area key")
		}
		seen := make(map[string]bool, len(stations))
		for i, st := range stations {
			if st.ID == "" {
				return nil, fmt.Errorf("seed: area %q entry %d has no id", area, i)
			}
			if seen[st.ID] {
				return nil, fmt.Errorf("seed: area %q has duplicate id %q", area, st.ID)
			}
			if st.ChargingTime < 0 {
				return nil, fmt.Errorf("seed: %s/%s has negative chargingTime", area, st.ID)
			}
			seen[st.ID] = true
		}
	}
	return &s, nil
}

// AreaNames returns the seeded areas in sorted order.
func (s *Seed) AreaNames() []string {
	names := make([]string, 0, len(s.Areas))
	for name := range s.Areas {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Apply writes every seeded document to w and returns how many were written.
func (s *Seed) Apply(ctx context.Context, w Writer) (int, error) {
	n := 0
	for _, area := range s.AreaNames() {
		for _, st := range s.Areas[area] {
			if err := w.PutStation(ctx, area, st); err != nil {
				return n, err
			}
			n++
		}
	}
	return n, nil
}
