package theme

import (
	"bytes"
	"fmt"
	"os"
	"regexp"

	"github.com/BurntSushi/toml"
)

// thTOMLTheme is the TOML-serializable representation of a Theme.
type thTOMLTheme struct {
	Name    string        `toml:"name"`
	Base    thTOMLBase    `toml:"base"`
	Frame   thTOMLFrame   `toml:"frame"`
	Station thTOMLStation `toml:"station"`
	Banner  thTOMLBanner  `toml:"banner"`
	Help    thTOMLHelp    `toml:"help"`
}

type thTOMLBase struct {
	Foreground string `toml:"foreground"`
	Dim        string `toml:"dim"`
	Accent     string `toml:"accent"`
}

type thTOMLFrame struct {
	Border      string `toml:"border"`
	BorderFocus string `toml:"border_focus"`
	Title       string `toml:"title"`
}

type thTOMLStation struct {
	Available string `toml:"available"`
	Charging  string `toml:"charging"`
	Illegal   string `toml:"illegal"`
}

type thTOMLBanner struct {
	Warning string `toml:"warning"`
	Error   string `toml:"error"`
}

type thTOMLHelp struct {
	Key  string `toml:"key"`
	Desc string `toml:"desc"`
}

var thHexColorRegex = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// LoadFromTOML parses a TOML theme definition from raw bytes.
func LoadFromTOML(data []byte) (Theme, error) {
	var tt thTOMLTheme
	if err := toml.Unmarshal(data, &tt); err != nil {
		return Theme{}, fmt.Errorf("theme: parse TOML: %w", err)
	}

	t := Theme{
		Name:       tt.Name,
		Foreground: tt.Base.Foreground,
		Dim:        tt.Base.Dim,
		Accent:     tt.Base.Accent,

		Border:      tt.Frame.Border,
		BorderFocus: tt.Frame.BorderFocus,
		Title:       tt.Frame.Title,

		Available: tt.Station.Available,
		Charging:  tt.Station.Charging,
		Illegal:   tt.Station.Illegal,

		Warning: tt.Banner.Warning,
		Error:   tt.Banner.Error,

		HelpKey:  tt.Help.Key,
		HelpDesc: tt.Help.Desc,
	}

	if err := thValidateTheme(t); err != nil {
		return Theme{}, err
	}
	return t, nil
}

// LoadFile reads a theme file and registers it, so it can be selected by
// name afterwards.
func LoadFile(path string) (Theme, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Theme{}, fmt.Errorf("theme: read %s: %w", path, err)
	}
	t, err := LoadFromTOML(data)
	if err != nil {
		return Theme{}, err
	}
	Register(t)
	return t, nil
}

// SaveToTOML serializes a theme to TOML bytes.
func SaveToTOML(t Theme) ([]byte, error) {
	tt := thTOMLTheme{
		Name: t.Name,
		Base: thTOMLBase{
			Foreground: t.Foreground,
			Dim:        t.Dim,
			Accent:     t.Accent,
		},
		Frame: thTOMLFrame{
			Border:      t.Border,
			BorderFocus: t.BorderFocus,
			Title:       t.Title,
		},
		Station: thTOMLStation{
			Available: t.Available,
			Charging:  t.Charging,
			Illegal:   t.Illegal,
		},
		Banner: thTOMLBanner{
			Warning: t.Warning,
			Error:   t.Error,
		},
		Help: thTOMLHelp{
			Key:  t.HelpKey,
			Desc: t.HelpDesc,
		},
	}

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(tt); err != nil {
		return nil, fmt.Errorf("theme: encode TOML: %w", err)
	}
	return buf.Bytes(), nil
}

// thValidateTheme checks that a name is set and every color is "#RRGGBB".
func thValidateTheme(t Theme) error {
	if t.Name == "" {
		return fmt.Errorf("theme: missing required field %q", "name")
	}

	colors := []struct{ field, value string }{
		{"base.foreground", t.Foreground},
		{"base.dim", t.Dim},
		{"base.accent", t.Accent},
		{"frame.border", t.Border},
		{"frame.border_focus", t.BorderFocus},
		{"frame.title", t.Title},
		{"station.available", t.Available},
		{"station.charging", t.Charging},
		{"station.illegal", t.Illegal},
		{"banner.warning", t.Warning},
		{"banner.error", t.Error},
		{"help.key", t.HelpKey},
		{"help.desc", t.HelpDesc},
	}
	for _, c := range colors {
		if c.value == "" {
			return fmt.Errorf("theme: missing required field %q", c.field)
		}
		if !thHexColorRegex.MatchString(c.value) {
			return fmt.Errorf("theme: invalid hex color %q for field %q (expected #RRGGBB)", c.value, c.field)
		}
	}
	return nil
}
