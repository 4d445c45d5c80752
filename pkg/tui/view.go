package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"gitlab.com/tinyland/lab/parkicle/pkg/board"
	"gitlab.com/tinyland/lab/parkicle/pkg/components"
	"gitlab.com/tinyland/lab/parkicle/pkg/station"
)

const (
	defaultWidth = 80
	cellWidth    = 22

	zoneLogin   = "login"
	zoneConfirm = "confirm"
	zoneCancel  = "cancel"
	zoneBack    = "back"
	zonePrev    = "prev"
	zoneNext    = "next"
	zoneMenu    = "menu-%d"
	zoneStation = "station-%d"
)

// menuActions is the order items appear in the action menu.
var menuActions = []action{actionToggleAutoRefresh, actionRefresh, actionChangeArea, actionSignOut}

// View implements tea.Model.
func (m Model) View() string {
	width := m.width
	if width <= 0 {
		width = defaultWidth
	}

	var body string
	switch m.screen() {
	case screenChecking:
		body = m.styles.Dim.Render("Checking session…")
	case screenLogin:
		body = m.viewLogin()
	case screenArea:
		body = m.viewArea()
	default:
		body = m.viewBoard(width)
	}

	if label, ok := m.gate.Pending(); ok {
		body = lipgloss.JoinVertical(lipgloss.Left, body, "", m.viewConfirm(label))
	}
	if m.statusMsg != "" {
		body = lipgloss.JoinVertical(lipgloss.Left, body, m.styles.Warning.Render(m.statusMsg))
	}

	return m.zones.Scan(body)
}

func (m Model) viewLogin() string {
	var b strings.Builder
	b.WriteString(m.styles.Title.Render("Parkicle"))
	b.WriteString("\n\n")
	b.WriteString(m.styles.Text.Render("Sign in to view charging stations."))
	b.WriteString("\n\n")
	label := "[ Sign in ]"
	if m.signingIn {
		label = "Signing in…"
	}
	b.WriteString(m.zones.Mark(zoneLogin, m.styles.Accent.Render(label)))
	if m.loginErr != "" {
		b.WriteString("\n\n")
		b.WriteString(m.styles.Error.Render(m.loginErr))
	}
	b.WriteString("\n\n")
	b.WriteString(m.styles.Dim.Render("enter sign in • q quit"))
	return b.String()
}

func (m Model) viewArea() string {
	var b strings.Builder
	b.WriteString(m.header())
	b.WriteString("\n\n")
	b.WriteString(m.styles.Text.Render("Enter the area to monitor."))
	b.WriteString("\n\n")
	b.WriteString(m.areaInput.View())
	b.WriteString("\n\n")
	hint := "enter confirm"
	if stored, ok := m.storedArea(); ok {
		hint += fmt.Sprintf(" • ctrl+u use %q", stored)
	}
	b.WriteString(m.styles.Dim.Render(hint))
	return b.String()
}

func (m Model) header() string {
	left := m.styles.Title.Render("Parkicle")
	if area := m.board.Area(); area != "" {
		left += m.styles.Dim.Render("  area ") + m.styles.Accent.Render(area)
	}
	right := ""
	if m.principal != nil {
		right = m.styles.Dim.Render(m.principal.Email)
	}
	width := m.width
	if width <= 0 {
		width = defaultWidth
	}
	return components.Spread(left, right, width)
}

func (m Model) viewBoard(width int) string {
	sections := []string{m.header()}

	if m.board.Loading() {
		sections = append(sections, m.styles.Dim.Render("Loading…"))
	}
	if n := m.board.Notice(); n.Kind != board.NoticeNone {
		style := m.styles.Error
		if n.Kind == board.NoticeDenied {
			style = m.styles.Warning
		}
		sections = append(sections, style.Render(strings.Join(components.Wrap(n.Message, width), "\n")))
	}
	sections = append(sections, m.styles.Dim.Render(statusLine(m.board)))

	if m.board.InDetail() {
		sections = append(sections, "", m.viewDetail())
	} else {
		sections = append(sections, m.legend(), "", m.viewGrid(width))
	}

	if m.showMenu {
		sections = append(sections, "", m.viewMenu())
	}
	if m.showHelp {
		sections = append(sections, "", m.help.FullHelpView(m.keys.FullHelp()))
	} else {
		sections = append(sections, "", m.help.ShortHelpView(m.keys.ShortHelp()))
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) legend() string {
	c := m.board.Counts()
	parts := []string{
		m.styles.Status(station.StatusAvailable).Render(fmt.Sprintf("● %d available", c.Available)),
		m.styles.Status(station.StatusCharging).Render(fmt.Sprintf("● %d charging", c.Charging)),
		m.styles.Status(station.StatusIllegal).Render(fmt.Sprintf("● %d illegal", c.Illegal)),
	}
	return strings.Join(parts, "   ")
}

func (m Model) viewGrid(width int) string {
	stations := m.board.Stations()
	cols := max(1, width/(cellWidth+2))

	var rows []string
	for start := 0; start < len(stations); start += cols {
		end := min(start+cols, len(stations))
		cells := make([]string, 0, end-start)
		for i := start; i < end; i++ {
			cell := m.viewCell(stations[i], i == m.board.LastVisited())
			cells = append(cells, m.zones.Mark(fmt.Sprintf(zoneStation, i), cell))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

// viewCell renders one grid cell. The last station opened in Detail keeps
// the focus border.
func (m Model) viewCell(s station.Station, selected bool) string {
	st := station.DeriveStatus(s)
	lines := make([]string, 0, 4)
	for i, line := range cellLines(s) {
		line = components.Truncate(line, cellWidth-2, "…")
		switch i {
		case 0:
			line = m.styles.Text.Bold(true).Render(line)
		case 1:
			line = m.styles.Status(st).Render(line)
		default:
			line = m.styles.Dim.Render(line)
		}
		lines = append(lines, line)
	}
	style := m.styles.Cell
	if selected {
		style = m.styles.CellSelected
	}
	return style.Width(cellWidth).Render(strings.Join(lines, "\n"))
}

func (m Model) viewDetail() string {
	s, ok := m.board.Current()
	if !ok {
		return ""
	}
	st := station.DeriveStatus(s)

	var b strings.Builder
	for _, f := range detailFields(m.board.Area(), s) {
		value := m.styles.Text.Render(f.value)
		if f.label == "Status" {
			value = m.styles.Status(st).Render(f.value)
		}
		fmt.Fprintf(&b, "%s %s\n", m.styles.Dim.Render(components.PadRight(f.label+":", 15)), value)
	}

	page := m.board.Page()
	nav := m.zones.Mark(zonePrev, m.styles.Accent.Render("← prev")) + "   " +
		m.zones.Mark(zoneBack, m.styles.Accent.Render("summary")) + "   "
	if page < len(m.board.Stations())-1 {
		nav += m.zones.Mark(zoneNext, m.styles.Accent.Render("next →"))
	} else {
		nav += m.styles.Dim.Render("next →")
	}
	b.WriteString("\n")
	b.WriteString(m.styles.Dim.Render(fmt.Sprintf("%d of %d  ", page+1, len(m.board.Stations()))))
	b.WriteString(nav)

	return m.styles.Panel.Render(b.String())
}

func (m Model) viewMenu() string {
	lines := []string{m.styles.Title.Render("Actions")}
	keys := []string{"a", "r", "c", "o"}
	for i, act := range menuActions {
		item := m.styles.HelpKey.Render(keys[i]) + " " + m.styles.Text.Render(m.label(act))
		lines = append(lines, m.zones.Mark(fmt.Sprintf(zoneMenu, i), item))
	}
	lines = append(lines, m.styles.Dim.Render("esc close"))
	return m.styles.Panel.Render(strings.Join(lines, "\n"))
}

func (m Model) viewConfirm(label string) string {
	lines := []string{
		m.styles.Title.Render(label),
		m.styles.Text.Render("Enter the admin code to continue."),
		"",
		m.codeInput.View(),
	}
	if m.codeNotice != "" {
		lines = append(lines, m.styles.Error.Render(m.codeNotice))
	}
	lines = append(lines, "",
		m.zones.Mark(zoneConfirm, m.styles.Accent.Render("[ Confirm ]"))+"  "+
			m.zones.Mark(zoneCancel, m.styles.Dim.Render("[ Cancel ]")))
	return m.styles.Panel.Render(strings.Join(lines, "\n"))
}

// clickTargets lists the zone ids that are live on the current screen.
func (m Model) clickTargets() []string {
	if m.pending() {
		return []string{zoneConfirm, zoneCancel}
	}
	switch m.screen() {
	case screenLogin:
		return []string{zoneLogin}
	case screenBoard:
	default:
		return nil
	}

	var ids []string
	if m.showMenu {
		for i := range menuActions {
			ids = append(ids, fmt.Sprintf(zoneMenu, i))
		}
	}
	if m.board.InDetail() {
		return append(ids, zonePrev, zoneBack, zoneNext)
	}
	for i := range m.board.Stations() {
		ids = append(ids, fmt.Sprintf(zoneStation, i))
	}
	return ids
}

// click handles a press on zone id.
func (m Model) click(id string) (tea.Model, tea.Cmd) {
	switch id {
	case zoneLogin:
		return m.signIn()
	case zoneConfirm:
		return m.confirm()
	case zoneCancel:
		m.gate.Cancel()
		m.closePrompt()
		return m, nil
	case zoneBack:
		m.board.HandleKey(board.KeyEnter)
		return m, nil
	case zonePrev:
		m.board.HandleKey(board.KeyLeft)
		return m, nil
	case zoneNext:
		m.board.HandleKey(board.KeyRight)
		return m, nil
	}

	var i int
	if _, err := fmt.Sscanf(id, zoneStation, &i); err == nil {
		m.board.Select(i)
		return m, nil
	}
	if _, err := fmt.Sscanf(id, zoneMenu, &i); err == nil && i >= 0 && i < len(menuActions) {
		m.request(menuActions[i])
		return m, nil
	}
	return m, nil
}
