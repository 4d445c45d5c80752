package tui

import (
	"fmt"
	"strings"
	"time"

	"gitlab.com/tinyland/lab/parkicle/pkg/board"
	"gitlab.com/tinyland/lab/parkicle/pkg/components"
	"gitlab.com/tinyland/lab/parkicle/pkg/station"
)

type field struct {
	label string
	value string
}

// cellLines is the text of one Summary cell.
func cellLines(s station.Station) []string {
	st := station.DeriveStatus(s)
	vehicle := "Empty"
	if s.Occupied() {
		vehicle = "Car " + station.MaskCarNum(s.CarNum)
	}
	lines := []string{s.ID, st.Label(), vehicle}
	if st == station.StatusCharging {
		lines = append(lines, fmt.Sprintf("%d min", s.ChargingTime))
	}
	return lines
}

// detailFields are the rows of the Detail page.
func detailFields(area string, s station.Station) []field {
	vehicle := "None"
	if s.Occupied() {
		vehicle = station.MaskCarNum(s.CarNum)
	}
	charging := "Not charging"
	if s.ChargingTime > 0 {
		charging = fmt.Sprintf("%d min", s.ChargingTime)
	}
	illegal := "No"
	if s.IsIllegal {
		illegal = "Yes"
	}
	return []field{
		{"Station", s.ID},
		{"Status", station.DeriveStatus(s).Label()},
		{"Vehicle", vehicle},
		{"Charging time", charging},
		{"Illegal", illegal},
		{"Location", "Area " + area},
	}
}

// statusLine describes freshness and the auto-refresh state.
func statusLine(b *board.Board) string {
	updated := "Not updated yet"
	if t := b.LastUpdated(); !t.IsZero() {
		updated = "Updated " + t.Format(time.TimeOnly)
	}
	auto := "auto refresh off"
	if b.AutoRefresh() {
		auto = fmt.Sprintf("auto refresh every %s", b.Interval())
	}
	return updated + " • " + auto
}

// RenderPlain renders the board as uncolored text for non-interactive
// output.
func RenderPlain(b *board.Board, width int) string {
	if width <= 0 {
		width = defaultWidth
	}

	var sb strings.Builder
	title := "Parkicle"
	if b.Area() != "" {
		title += " area " + b.Area()
	}
	sb.WriteString(components.Spread(title, statusLine(b), width))
	sb.WriteString("\n")
	sb.WriteString(components.Rule(width))
	sb.WriteString("\n")

	if n := b.Notice(); n.Kind != board.NoticeNone {
		for _, line := range components.Wrap(n.Message, width) {
			sb.WriteString(line)
			sb.WriteString("\n")
		}
		sb.WriteString("\n")
	}

	c := b.Counts()
	counts := fmt.Sprintf("%d stations: %d available, %d charging, %d illegal",
		c.Total(), c.Available, c.Charging, c.Illegal)
	sb.WriteString(strings.TrimRight(components.PadCenter(counts, width), " "))
	sb.WriteString("\n\n")

	idW := len("Station")
	for _, s := range b.Stations() {
		idW = max(idW, components.VisibleLen(s.ID))
	}
	const statusW, vehicleW = 16, 10
	sb.WriteString(components.PadRight("Station", idW+2))
	sb.WriteString(components.PadRight("Status", statusW))
	sb.WriteString(components.PadRight("Vehicle", vehicleW))
	sb.WriteString("Charging\n")
	for _, s := range b.Stations() {
		f := detailFields(b.Area(), s)
		line := components.PadRight(s.ID, idW+2) +
			components.PadRight(f[1].value, statusW) +
			components.PadRight(f[2].value, vehicleW) +
			f[3].value
		sb.WriteString(components.Truncate(line, width, "…"))
		sb.WriteString("\n")
	}
	return sb.String()
}
