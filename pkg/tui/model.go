// Package tui is the interactive station board: sign-in, area entry, the
// Summary grid and Detail pages, the menu of privileged actions and the
// confirmation prompt that guards them.
package tui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	zone "github.com/lrstanley/bubblezone"

	"gitlab.com/tinyland/lab/parkicle/pkg/app"
	"gitlab.com/tinyland/lab/parkicle/pkg/auth"
	"gitlab.com/tinyland/lab/parkicle/pkg/board"
	"gitlab.com/tinyland/lab/parkicle/pkg/prefs"
	"gitlab.com/tinyland/lab/parkicle/pkg/session"
	"gitlab.com/tinyland/lab/parkicle/pkg/store"
	"gitlab.com/tinyland/lab/parkicle/pkg/theme"
)

// Deps are the collaborators a Model drives.
type Deps struct {
	Context  context.Context
	Board    *board.Board
	Gate     *session.Gate
	Provider auth.Provider
	Fetcher  store.Fetcher

	// Prefs remembers the area between runs. Nil disables it.
	Prefs       prefs.Store
	AreaKey     string
	AreaTTLDays int

	FetchTimeout time.Duration
	Theme        theme.Theme
	Logger       *slog.Logger
}

type screen int

const (
	screenChecking screen = iota
	screenLogin
	screenArea
	screenBoard
)

// action is a privileged operation run after a confirmed code.
type action int

const (
	actionToggleAutoRefresh action = iota
	actionRefresh
	actionChangeArea
	actionSignOut
)

// confirmed collects actions released by the gate. The gate runs the
// pending action synchronously inside Confirm; the model then applies what
// was queued on the update loop.
type confirmed struct {
	queue []action
}

// Model is the root Bubbletea model.
type Model struct {
	ctx      context.Context
	board    *board.Board
	gate     *session.Gate
	provider auth.Provider
	fetcher  store.Fetcher
	prefs    prefs.Store
	areaKey  string
	areaTTL  int
	timeout  time.Duration
	logger   *slog.Logger

	styles theme.Styles
	keys   KeyMap
	help   help.Model
	zones  *zone.Manager

	areaInput textinput.Model
	codeInput textinput.Model

	// principal is the session the model last acted on.
	principal *auth.Principal

	width, height int
	showMenu      bool
	showHelp      bool
	signingIn     bool
	loginErr      string
	codeNotice    string
	statusMsg     string

	released *confirmed
}

// New creates the model. The gate may already know the session, in which
// case Init starts the first fetch.
func New(d Deps) Model {
	if d.Context == nil {
		d.Context = context.Background()
	}
	if d.Logger == nil {
		d.Logger = slog.Default()
	}
	if d.Theme.Name == "" {
		d.Theme = theme.Get("default")
	}

	styles := theme.NewStyles(d.Theme)

	area := textinput.New()
	area.Placeholder = "e.g. B2"
	area.Prompt = "Area code: "
	area.CharLimit = 64
	area.Width = 24
	area.PromptStyle = styles.Accent
	area.Focus()

	code := textinput.New()
	code.Placeholder = "code"
	code.Prompt = "Code: "
	code.CharLimit = 32
	code.Width = 12
	code.EchoMode = textinput.EchoPassword
	code.EchoCharacter = '•'
	code.PromptStyle = styles.Accent

	h := help.New()
	h.Styles.ShortKey = styles.HelpKey
	h.Styles.ShortDesc = styles.HelpDesc
	h.Styles.FullKey = styles.HelpKey
	h.Styles.FullDesc = styles.HelpDesc

	return Model{
		ctx:       d.Context,
		board:     d.Board,
		gate:      d.Gate,
		provider:  d.Provider,
		fetcher:   d.Fetcher,
		prefs:     d.Prefs,
		areaKey:   d.AreaKey,
		areaTTL:   d.AreaTTLDays,
		timeout:   d.FetchTimeout,
		logger:    d.Logger,
		styles:    styles,
		keys:      DefaultKeyMap,
		help:      h,
		zones:     zone.New(),
		areaInput: area,
		codeInput: code,
		principal: d.Gate.Principal(),
		released:  &confirmed{},
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.fetch(), m.rearm())
}

// Board returns the station board.
func (m Model) Board() *board.Board { return m.board }

// MenuOpen reports whether the action menu is shown.
func (m Model) MenuOpen() bool { return m.showMenu }

// HelpOpen reports whether the full help is shown.
func (m Model) HelpOpen() bool { return m.showHelp }

// CodeNotice is the message shown in the confirmation prompt.
func (m Model) CodeNotice() string { return m.codeNotice }

// LoginError is the last sign-in failure.
func (m Model) LoginError() string { return m.loginErr }

func (m Model) screen() screen {
	switch {
	case !m.gate.Known():
		return screenChecking
	case m.principal == nil:
		return screenLogin
	case m.board.Area() == "":
		return screenArea
	default:
		return screenBoard
	}
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
			return m, nil
		}
		for _, id := range m.clickTargets() {
			if z := m.zones.Get(id); z != nil && z.InBounds(msg) {
				return m.click(id)
			}
		}
		return m, nil

	case app.SessionChangedEvent:
		return m.observeSession(msg.Principal)

	case app.SignInResultEvent:
		m.signingIn = false
		if msg.Err != nil {
			m.loginErr = "Sign-in failed: " + msg.Err.Error()
			m.logger.Warn("sign in failed", "error", msg.Err)
			return m, nil
		}
		m.loginErr = ""
		return m.observeSession(msg.Principal)

	case app.SignOutResultEvent:
		if msg.Err != nil {
			m.statusMsg = "Sign-out failed: " + msg.Err.Error()
			return m, nil
		}
		return m.observeSession(nil)

	case app.StationsFetchedEvent:
		m.board.ApplyResult(msg.Request, msg.Stations, msg.Err)
		return m, nil

	case app.RefreshTickEvent:
		if !m.board.Fire(msg.Gen) {
			// Tick from a torn-down timer; let it die.
			return m, nil
		}
		m.logger.Debug("auto refresh", "area", m.board.Area())
		return m, tea.Batch(m.fetch(), app.RefreshTickCmd(m.board.Interval(), msg.Gen))

	case app.AreaSavedEvent:
		m.statusMsg = fmt.Sprintf("Could not remember area %q: %v", msg.Area, msg.Err)
		m.logger.Warn("remember area failed", "area", msg.Area, "error", msg.Err)
		return m, nil
	}

	// Cursor blink and other component messages.
	var cmd tea.Cmd
	switch {
	case m.pending():
		m.codeInput, cmd = m.codeInput.Update(msg)
	case m.screen() == screenArea:
		m.areaInput, cmd = m.areaInput.Update(msg)
	}
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.ForceQuit) {
		return m, tea.Quit
	}
	if m.pending() {
		return m.handleConfirmKey(msg)
	}

	switch m.screen() {
	case screenChecking:
		if key.Matches(msg, m.keys.Quit) {
			return m, tea.Quit
		}
	case screenLogin:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Submit):
			return m.signIn()
		}
	case screenArea:
		return m.handleAreaKey(msg)
	case screenBoard:
		return m.handleBoardKey(msg)
	}
	return m, nil
}

func (m Model) handleAreaKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Submit):
		area := strings.TrimSpace(m.areaInput.Value())
		if area == "" {
			return m, nil
		}
		cmd := m.setArea(area)
		return m, cmd
	case key.Matches(msg, m.keys.UseStored):
		if stored, ok := m.storedArea(); ok {
			cmd := m.setArea(stored)
			return m, cmd
		}
		return m, nil
	}
	var cmd tea.Cmd
	m.areaInput, cmd = m.areaInput.Update(msg)
	return m, cmd
}

func (m Model) handleBoardKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		// Any key closes the help; q still quits.
		m.showHelp = false
		if key.Matches(msg, m.keys.Quit) {
			return m, tea.Quit
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		m.showMenu = false
	case key.Matches(msg, m.keys.Menu):
		m.showMenu = !m.showMenu
	case m.showMenu && key.Matches(msg, m.keys.Cancel):
		m.showMenu = false
	case key.Matches(msg, m.keys.AutoRefresh):
		m.request(actionToggleAutoRefresh)
	case key.Matches(msg, m.keys.Refresh):
		m.request(actionRefresh)
	case key.Matches(msg, m.keys.ChangeArea):
		m.request(actionChangeArea)
	case key.Matches(msg, m.keys.SignOut):
		m.request(actionSignOut)
	case key.Matches(msg, m.keys.Summary):
		m.board.HandleKey(board.KeyEnter)
	case key.Matches(msg, m.keys.Next):
		m.board.HandleKey(board.KeyRight)
	case key.Matches(msg, m.keys.Prev):
		m.board.HandleKey(board.KeyLeft)
	}
	if m.pending() {
		return m, textinput.Blink
	}
	return m, nil
}

func (m Model) handleConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.gate.Cancel()
		m.closePrompt()
		return m, nil
	case key.Matches(msg, m.keys.Submit):
		return m.confirm()
	}
	var cmd tea.Cmd
	m.codeInput, cmd = m.codeInput.Update(msg)
	return m, cmd
}

func (m Model) confirm() (tea.Model, tea.Cmd) {
	err := m.gate.Confirm(m.codeInput.Value())
	switch {
	case errors.Is(err, session.ErrCodeMismatch):
		m.codeInput.Reset()
		m.codeNotice = "Incorrect code."
		return m, nil
	case err != nil:
		m.closePrompt()
		return m, nil
	}
	m.closePrompt()
	cmd := m.applyReleased()
	return m, cmd
}

func (m *Model) closePrompt() {
	m.codeInput.Reset()
	m.codeInput.Blur()
	m.codeNotice = ""
}

func (m Model) pending() bool {
	_, ok := m.gate.Pending()
	return ok
}

// request asks the gate to hold act until the code is confirmed.
func (m *Model) request(act action) {
	m.showMenu = false
	m.codeNotice = ""
	m.codeInput.Reset()
	m.codeInput.Focus()

	released := m.released
	m.gate.RequestPrivileged(m.label(act), func() {
		released.queue = append(released.queue, act)
	})
}

func (m Model) label(act action) string {
	switch act {
	case actionToggleAutoRefresh:
		if m.board.AutoRefresh() {
			return "Turn auto refresh off"
		}
		return "Turn auto refresh on"
	case actionRefresh:
		return "Refresh now"
	case actionChangeArea:
		return "Change area"
	case actionSignOut:
		return "Sign out"
	}
	return "Unknown action"
}

// applyReleased runs the actions the gate released.
func (m *Model) applyReleased() tea.Cmd {
	queue := m.released.queue
	m.released.queue = nil

	var cmds []tea.Cmd
	for _, act := range queue {
		switch act {
		case actionToggleAutoRefresh:
			m.board.ToggleAutoRefresh()
			cmds = append(cmds, m.rearm())
		case actionRefresh:
			cmds = append(cmds, m.fetch())
		case actionChangeArea:
			m.board.ClearArea()
			m.areaInput.Reset()
			m.areaInput.Focus()
			cmds = append(cmds, m.rearm(), m.saveArea(""), textinput.Blink)
		case actionSignOut:
			if m.provider != nil {
				cmds = append(cmds, app.SignOutCmd(m.ctx, m.provider))
			}
		}
	}
	return tea.Batch(cmds...)
}

func (m Model) signIn() (tea.Model, tea.Cmd) {
	if m.signingIn || m.provider == nil {
		return m, nil
	}
	m.signingIn = true
	m.loginErr = ""
	return m, app.SignInCmd(m.ctx, m.provider)
}

// observeSession applies a session value. Repeats of the current identity
// are ignored.
func (m Model) observeSession(p *auth.Principal) (tea.Model, tea.Cmd) {
	m.gate.Observe(p)
	m.signingIn = false
	if auth.Same(m.principal, p) {
		m.principal = p
		return m, nil
	}
	m.principal = p

	if p == nil {
		m.showMenu = false
		m.showHelp = false
		if m.pending() {
			m.gate.Cancel()
			m.closePrompt()
		}
		return m, m.rearm()
	}
	return m, tea.Batch(m.fetch(), m.rearm())
}

// setArea selects area, remembers it and starts loading it.
func (m *Model) setArea(area string) tea.Cmd {
	if !m.board.SetArea(area) {
		return nil
	}
	m.areaInput.Reset()
	return tea.Batch(m.saveArea(area), m.fetch(), m.rearm())
}

func (m Model) saveArea(area string) tea.Cmd {
	if m.prefs == nil || m.areaKey == "" {
		return nil
	}
	return app.SaveAreaCmd(m.prefs, m.areaKey, area, m.areaTTL)
}

func (m Model) storedArea() (string, bool) {
	if m.prefs == nil || m.areaKey == "" {
		return "", false
	}
	v, ok := m.prefs.Get(m.areaKey)
	v = strings.TrimSpace(v)
	return v, ok && v != ""
}

// fetch starts a store read when the board allows one.
func (m Model) fetch() tea.Cmd {
	req, ok := m.board.BeginRefresh(m.principal != nil)
	if !ok || m.fetcher == nil {
		return nil
	}
	return app.FetchCmd(m.ctx, m.provider, m.fetcher, req, m.timeout)
}

// rearm tears down the refresh timer and starts a new one if the board
// allows it.
func (m Model) rearm() tea.Cmd {
	gen, armed := m.board.Rearm(m.principal != nil)
	if !armed {
		return nil
	}
	return app.RefreshTickCmd(m.board.Interval(), gen)
}
