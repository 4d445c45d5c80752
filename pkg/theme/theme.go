// Package theme holds the named color palettes used to draw the station
// board.
package theme

import (
	"sort"
	"strings"
	"sync"
)

// Theme defines the complete color palette for the board. Every color is
// a "#RRGGBB" hex string.
type Theme struct {
	Name string

	// Base colors
	Foreground string
	Dim        string
	Accent     string

	// Frame colors
	Border      string
	BorderFocus string // selected station cell
	Title       string

	// Station status colors
	Available string
	Charging  string
	Illegal   string

	// Banner colors
	Warning string // permission-denied notice
	Error   string // other fetch failures, wrong code

	HelpKey  string
	HelpDesc string
}

var (
	mu       sync.RWMutex
	registry = map[string]Theme{}
)

func init() {
	thRegisterBuiltins()
}

// Get returns a named theme, falling back to the default if not found.
func Get(name string) Theme {
	t, _ := Lookup(name)
	return t
}

// Lookup returns a named theme and whether it exists. When it does not,
// the default theme is returned.
func Lookup(name string) (Theme, bool) {
	mu.RLock()
	defer mu.RUnlock()
	if t, ok := registry[strings.ToLower(name)]; ok {
		return t, true
	}
	return registry["default"], false
}

// Names returns all available theme names sorted alphabetically.
func Names() []string {
	mu.RLock()
	defer mu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Register adds a theme to the registry under its lowercase name,
// replacing any theme of the same name.
func Register(t Theme) {
	mu.Lock()
	defer mu.Unlock()
	registry[strings.ToLower(t.Name)] = t
}
