package station

import "testing"

func TestDeriveStatusPrecedence(t *testing.T) {
	tests := []struct {
		name string
		s    Station
		want Status
	}{
		{"illegal overrides charging", Station{IsIllegal: true, CarNum: "X", ChargingTime: 5}, StatusIllegal},
		{"illegal without car", Station{IsIllegal: true}, StatusIllegal},
		{"charging", Station{CarNum: "X", ChargingTime: 5}, StatusCharging},
		{"empty slot", Station{}, StatusAvailable},
		{"parked but not charging", Station{CarNum: "12GA3456"}, StatusAvailable},
		{"charging time without car", Station{ChargingTime: 30}, StatusAvailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DeriveStatus(tt.s); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestPlaceholders(t *testing.T) {
	ps := Placeholders(DefaultPlaceholderCount)
	if len(ps) != 8 {
		t.Fatalf("expected 8 placeholders, got %d", len(ps))
	}
	if ps[0].ID != "CS-01" || ps[7].ID != "CS-08" {
		t.Errorf("expected CS-01..CS-08, got %s..%s", ps[0].ID, ps[7].ID)
	}
	for _, p := range ps {
		if DeriveStatus(p) != StatusAvailable {
			t.Errorf("placeholder %s should be available", p.ID)
		}
		if p.CarNum != "" || p.ChargingTime != 0 || p.IsIllegal {
			t.Errorf("placeholder %s should be empty, got %+v", p.ID, p)
		}
	}
}

func TestPlaceholdersZero(t *testing.T) {
	if ps := Placeholders(0); ps != nil {
		t.Errorf("expected nil for zero placeholders, got %v", ps)
	}
}

func TestMaskCarNum(t *testing.T) {
	cases := map[string]string{
		"":          "",
		"123":       "123",
		"1234":      "1234",
		"12GA3456":  "3456",
		"서울12가3456": "3456",
	}
	for in, want := range cases {
		if got := MaskCarNum(in); got != want {
			t.Errorf("MaskCarNum(%q): expected %q, got %q", in, want, got)
		}
	}
}

func TestSortByID(t *testing.T) {
	ss := []Station{{ID: "CS-03"}, {ID: "CS-01"}, {ID: "CS-02"}}
	Sort(ss)
	for i, want := range []string{"CS-01", "CS-02", "CS-03"} {
		if ss[i].ID != want {
			t.Errorf("position %d: expected %s, got %s", i, want, ss[i].ID)
		}
	}
}

func TestSummarize(t *testing.T) {
	c := Summarize([]Station{
		{ID: "a"},
		{ID: "b", CarNum: "X", ChargingTime: 10},
		{ID: "c", IsIllegal: true},
		{ID: "d", CarNum: "Y"},
	})
	if c.Available != 2 || c.Charging != 1 || c.Illegal != 1 {
		t.Errorf("unexpected counts %+v", c)
	}
	if c.Total() != 4 {
		t.Errorf("expected total 4, got %d", c.Total())
	}
}

func TestStatusLabel(t *testing.T) {
	if StatusIllegal.Label() != "Illegal parking" {
		t.Errorf("unexpected label %q", StatusIllegal.Label())
	}
	if Status("bogus").Label() != "Available" {
		t.Errorf("unknown status should label as Available")
	}
}
