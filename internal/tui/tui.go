// Package tui is the terminal front end for local games.
package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/lox/holdem-rooms/internal/game"
	"github.com/lox/holdem-rooms/internal/local"
)

const (
	paneLog = iota
	paneInput
)

const sidebarWidth = 28

// Model represents the Bubble Tea model for a local game
type Model struct {
	logger *log.Logger
	bridge *Bridge

	// UI components
	logViewport viewport.Model
	actionInput textinput.Model

	// State
	gameLog     []string
	table       game.TableView
	names       map[string]string
	turn        *turnMsg
	waiting     bool
	finished    bool
	quitting    bool
	focusedPane int

	// Dimensions
	width       int
	height      int
	initialized bool
}

// NewModel creates a model that answers prompts arriving through bridge.
func NewModel(logger *log.Logger, bridge *Bridge) *Model {
	// Sized properly when the first WindowSizeMsg arrives
	vp := viewport.New(10, 5)
	vp.SetContent("")

	ti := textinput.New()
	ti.Placeholder = "Waiting for the first hand"
	ti.Focus()
	ti.CharLimit = 100
	ti.Width = 100
	ti.PromptStyle = lipgloss.NewStyle().Foreground(focusColor).Bold(true)
	ti.TextStyle = lipgloss.NewStyle().Foreground(colorText)
	ti.Prompt = "> "

	return &Model{
		logger:      logger.WithPrefix("tui"),
		bridge:      bridge,
		logViewport: vp,
		actionInput: ti,
		names:       make(map[string]string),
		focusedPane: paneInput,
	}
}

// Init initializes the TUI model
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages in the TUI
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.logger.Debug("Updating dimensions", "width", m.width, "height", m.height)

	case eventMsg:
		m.applyEvent(msg.event)

	case turnMsg:
		m.turn = &msg
		m.table = msg.view
		m.rememberNames(msg.view)
		who := m.name(msg.playerID)
		p, _ := msg.view.Player(msg.playerID)
		m.AddLogEntry(actionsStyle.Render(fmt.Sprintf("%s to act, $%d to call", who, msg.view.ToCall(p))))

	case noticeMsg:
		if msg.err {
			m.AddLogEntry(errorStyle.Render(msg.text))
		} else {
			m.AddLogEntry(mutedStyle.Render(msg.text))
		}

	case handOverMsg:
		m.turn = nil
		m.waiting = true

	case finishedMsg:
		m.turn = nil
		m.waiting = false
		m.finished = true
		switch {
		case msg.err == nil, errors.Is(msg.err, local.ErrQuit):
			m.AddLogEntry(handInfoStyle.Render("Game over"))
		default:
			m.AddLogEntry(errorStyle.Render("Game stopped: " + msg.err.Error()))
		}
		m.logStandings()

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, m.quit()
		case "tab":
			if m.focusedPane == paneLog {
				m.focusedPane = paneInput
				m.actionInput.Focus()
			} else {
				m.focusedPane = paneLog
				m.actionInput.Blur()
			}
		case "enter":
			if m.finished {
				return m, m.quit()
			}
			if m.focusedPane == paneInput {
				m.submit(strings.TrimSpace(m.actionInput.Value()))
				m.actionInput.SetValue("")
			}
		case "up", "k":
			if m.focusedPane == paneLog {
				m.logViewport.ScrollUp(1)
			}
		case "down", "j":
			if m.focusedPane == paneLog {
				m.logViewport.ScrollDown(1)
			}
		case "pgup", "b":
			if m.focusedPane == paneLog {
				m.logViewport.HalfPageUp()
			}
		case "pgdown", "f":
			if m.focusedPane == paneLog {
				m.logViewport.HalfPageDown()
			}
		case "home", "g":
			if m.focusedPane == paneLog {
				m.logViewport.GotoTop()
			}
		case "end", "G":
			if m.focusedPane == paneLog {
				m.logViewport.GotoBottom()
			}
		}
	}

	var cmd tea.Cmd
	if m.focusedPane == paneInput {
		m.actionInput, cmd = m.actionInput.Update(msg)
		cmds = append(cmds, cmd)
	}
	m.logViewport, cmd = m.logViewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

func (m *Model) quit() tea.Cmd {
	m.quitting = true
	m.bridge.Quit()
	return tea.Sequence(tea.ClearScreen, tea.Quit)
}

// submit hands a typed line to the session when it is waiting for one.
func (m *Model) submit(line string) {
	if m.turn == nil && !m.waiting {
		return
	}
	if !m.bridge.submit(line) {
		m.logger.Warn("Dropped input, session is busy", "line", line)
		return
	}
	m.turn = nil
	m.waiting = false
}

func (m *Model) applyEvent(event game.GameEvent) {
	switch e := event.(type) {
	case game.HandStartedEvent:
		m.table = e.Table
	case game.PlayerActedEvent:
		m.table = e.Table
	case game.PhaseChangedEvent:
		m.table = e.Table
	case game.HandEndedEvent:
		m.table = e.Table
	}
	m.rememberNames(m.table)

	for _, line := range describeEvent(event, m.name) {
		m.AddLogEntry(line)
	}
}

func (m *Model) rememberNames(v game.TableView) {
	for _, p := range v.Players {
		m.names[p.ID] = p.Name
	}
}

func (m *Model) name(id string) string {
	if n, ok := m.names[id]; ok {
		return n
	}
	return id
}

func (m *Model) logStandings() {
	for _, p := range m.table.Players {
		m.AddLogEntry(fmt.Sprintf("  %s: $%d", p.Name, p.Chips))
	}
	m.AddLogEntry(mutedStyle.Render("Press Enter to exit"))
}

// AddLogEntry adds an entry to the game log and scrolls to it
func (m *Model) AddLogEntry(entry string) {
	m.gameLog = append(m.gameLog, entry)
	m.logViewport.SetContent(strings.Join(m.gameLog, "\n"))

	if m.logViewport.Height > 0 && m.logViewport.Width > 0 {
		m.logViewport.GotoBottom()
	}
}

// View renders the TUI
func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	actionContent := m.renderActionPane()
	actionHeight := lipgloss.Height(actionContent)
	actionPane := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(focusColor).
		Width(max(m.width-2, 1)).
		Render(actionContent)

	paneHeight := max(m.height-actionHeight-4, 1)

	sidebarPane := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(borderColor).
		Width(sidebarWidth).
		Height(paneHeight).
		Render(m.renderSidebarPane())

	logWidth := max(m.width-sidebarWidth-4, 1)
	m.logViewport.Width = logWidth
	m.logViewport.Height = paneHeight
	m.logViewport.SetContent(strings.Join(m.gameLog, "\n"))
	if !m.initialized && logWidth > 1 && paneHeight > 1 {
		m.logViewport.GotoBottom()
		m.initialized = true
	}

	logBorder := borderColor
	if m.focusedPane == paneLog {
		logBorder = focusColor
	}
	logPane := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(logBorder).
		Width(logWidth).
		Height(paneHeight).
		Render(m.logViewport.View())

	topRow := lipgloss.JoinHorizontal(lipgloss.Top, logPane, sidebarPane)
	return lipgloss.JoinVertical(lipgloss.Top, topRow, actionPane)
}

// renderSidebarPane shows the pot, the board and every seat
func (m *Model) renderSidebarPane() string {
	var content strings.Builder

	content.WriteString(warningStyle.Render(fmt.Sprintf("Pot: $%d", m.table.Pot)))
	if m.table.CurrentBet > 0 {
		content.WriteString(" | ")
		content.WriteString(warningStyle.Render(fmt.Sprintf("Bet: $%d", m.table.CurrentBet)))
	}
	content.WriteString("\n")
	if m.table.HandNumber > 0 {
		content.WriteString(mutedStyle.Render(fmt.Sprintf("Hand #%d, %s", m.table.HandNumber, m.table.Phase)))
		content.WriteString("\n")
	}
	if len(m.table.CommunityCards) > 0 {
		content.WriteString(formatCards(m.table.CommunityCards))
		content.WriteString("\n")
	}
	content.WriteString("\n")

	if len(m.table.Players) == 0 {
		return content.String()
	}
	content.WriteString(mutedStyle.Render("Players at table:"))
	content.WriteString("\n")
	for _, p := range m.table.Players {
		line := fmt.Sprintf("%s: $%d", p.Name, p.Chips)
		if p.Seat == m.table.Button && m.table.HandNumber > 0 {
			line += " (D)"
		}
		switch {
		case p.Folded:
			line = foldedSeatStyle.Render(line)
		case p.AllIn:
			line += " all-in"
		case p.SittingOut:
			line += " out"
		}
		if m.table.Phase.Betting() && p.Seat == m.table.CurrentSeat {
			line = currentSeatStyle.Render("> " + line)
		} else {
			line = "  " + line
		}
		content.WriteString(line)
		content.WriteString("\n")
	}
	return content.String()
}

// renderActionPane renders the action input pane
func (m *Model) renderActionPane() string {
	var content strings.Builder

	help := "Tab to scroll log • Ctrl+C to quit"
	switch {
	case m.finished:
		content.WriteString(handInfoStyle.Render("Game over"))
		m.actionInput.Placeholder = "Press Enter to exit"
	case m.turn != nil:
		p, _ := m.turn.view.Player(m.turn.playerID)
		content.WriteString(handInfoStyle.Render(fmt.Sprintf("%s  Hand: %s  Pot: $%d", p.Name, formatCards(p.HoleCards), m.turn.view.Pot)))
		content.WriteString("\n")
		content.WriteString(m.renderAvailableActions(p))
		m.actionInput.Placeholder = "Enter your action (call, raise 10, raise to 40, fold, check, allin)"
		help = "Tab to scroll log • Enter to submit • Ctrl+C to quit"
	case m.waiting:
		content.WriteString(handInfoStyle.Render("Hand complete"))
		m.actionInput.Placeholder = "Enter to continue, 'quit' to exit"
	default:
		content.WriteString(handInfoStyle.Render("Waiting..."))
		m.actionInput.Placeholder = "Waiting for other players"
	}
	content.WriteString("\n")
	content.WriteString(m.actionInput.View())
	content.WriteString("\n")

	if m.focusedPane == paneLog {
		help = "Log focused: ↑↓ scroll, PgUp/PgDn half page, Home/End, Tab to input"
	}
	content.WriteString(mutedStyle.Render(help))
	return content.String()
}

// renderAvailableActions renders the actions the table will accept
func (m *Model) renderAvailableActions(p game.PlayerView) string {
	actions := make([]string, 0, len(m.turn.valid))
	for _, kind := range m.turn.valid {
		switch kind {
		case game.KindFold:
			actions = append(actions, errorStyle.Render("[fold]"))
		case game.KindCheck:
			actions = append(actions, successStyle.Render("[check]"))
		case game.KindCall:
			actions = append(actions, successStyle.Render(fmt.Sprintf("[call $%d]", min(m.turn.view.ToCall(p), p.Chips))))
		case game.KindRaise:
			actions = append(actions, warningStyle.Render("[raise N]"))
		case game.KindAllIn:
			actions = append(actions, warningStyle.Render(fmt.Sprintf("[allin $%d]", p.Chips)))
		}
	}
	if len(actions) == 0 {
		actions = append(actions, errorStyle.Render("[no actions available]"))
	}
	return actionsStyle.Render("Actions: " + strings.Join(actions, " "))
}
