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

	"github.com/lox/headsup/internal/game"
	"github.com/lox/headsup/internal/statistics"
)

// Engine is the part of game.Engine the interface drives.
type Engine interface {
	StartHand() error
	SubmitAction(action game.Action, amount int) error
	Snapshot() game.Snapshot
}

// EventMsg delivers a game event to the model.
type EventMsg struct {
	Event game.GameEvent
}

// actionResultMsg reports the outcome of a call into the engine.
type actionResultMsg struct {
	err error
}

// Subscriber forwards game events into p. The engine publishes while
// holding its lock, so Update must never call back into the engine
// synchronously; it works from the snapshots carried by events.
func Subscriber(p *tea.Program) game.EventSubscriber {
	return game.FuncSubscriber(func(ev game.GameEvent) {
		p.Send(EventMsg{Event: ev})
	})
}

// Option configures a Model.
type Option func(*Model)

// WithDebug shows the AI's equity and reasoning.
func WithDebug(debug bool) Option {
	return func(m *Model) { m.debug = debug }
}

// WithLogger sets the logger.
func WithLogger(logger *log.Logger) Option {
	return func(m *Model) { m.logger = logger.WithPrefix("tui") }
}

// WithAutoDeal deals the first hand as soon as the program starts.
func WithAutoDeal(auto bool) Option {
	return func(m *Model) { m.autoDeal = auto }
}

// Model is the bubbletea model for the table.
type Model struct {
	engine Engine
	logger *log.Logger

	snap  game.Snapshot
	lines []string

	// Human's chips at the start of the current hand, blinds included.
	handStart int
	session   statistics.Statistics

	input    textinput.Model
	log      viewport.Model
	status   string
	statusOK bool

	width, height int
	ready         bool
	debug         bool
	autoDeal      bool
	busy          bool
	quitting      bool
}

// New creates a model for engine. The engine's events must be routed to
// the running program with Subscriber.
func New(engine Engine, opts ...Option) *Model {
	ti := textinput.New()
	ti.Placeholder = "check, call, raise 60, fold, help"
	ti.Prompt = "> "
	ti.CharLimit = 32
	ti.Focus()

	m := &Model{
		engine:   engine,
		logger:   log.Default().WithPrefix("tui"),
		snap:     engine.Snapshot(),
		input:    ti,
		autoDeal: true,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.addLine(InfoStyle.Render("Heads-up No-Limit Hold'em. Type 'help' for commands."))
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	if m.autoDeal {
		return tea.Batch(textinput.Blink, m.startHand())
	}
	return textinput.Blink
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.resize()

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.quitting = true
			return m, tea.Quit
		case tea.KeyEnter:
			cmd := m.submit(m.input.Value())
			m.input.Reset()
			if cmd != nil {
				cmds = append(cmds, cmd)
			}
			if m.quitting {
				return m, tea.Quit
			}
		case tea.KeyPgUp, tea.KeyPgDown, tea.KeyCtrlU, tea.KeyCtrlD:
			var cmd tea.Cmd
			m.log, cmd = m.log.Update(msg)
			return m, cmd
		}

	case EventMsg:
		m.applyEvent(msg.Event)

	case actionResultMsg:
		m.busy = false
		if msg.err != nil {
			m.setStatus(msg.err.Error(), false)
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

func (m *Model) submit(input string) tea.Cmd {
	cmd, err := ParseCommand(input, m.snap)
	if err != nil {
		m.setStatus(err.Error(), false)
		return nil
	}
	m.setStatus("", true)

	switch cmd.Kind {
	case CommandQuit:
		m.quitting = true
		return nil
	case CommandHelp:
		for _, line := range strings.Split(helpText, "\n") {
			m.addLine(InfoStyle.Render(line))
		}
		return nil
	case CommandNewHand:
		return m.startHand()
	}

	if m.busy {
		m.setStatus(ErrWaiting.Error(), false)
		return nil
	}
	m.busy = true
	engine := m.engine
	m.logger.Debug("Submitting action", "action", cmd.Action, "amount", cmd.Amount)
	return func() tea.Msg {
		return actionResultMsg{err: engine.SubmitAction(cmd.Action, cmd.Amount)}
	}
}

func (m *Model) startHand() tea.Cmd {
	engine := m.engine
	return func() tea.Msg {
		err := engine.StartHand()
		if errors.Is(err, game.ErrHandInProgress) {
			err = nil
		}
		return actionResultMsg{err: err}
	}
}

func (m *Model) applyEvent(ev game.GameEvent) {
	m.snap = ev.State()
	for _, line := range strings.Split(FormatEvent(ev), "\n") {
		m.addLine(line)
	}

	switch e := ev.(type) {
	case game.HandStartEvent:
		p := e.Snapshot.Players[game.Human]
		m.handStart = p.Stack + p.Bet
	case game.PlayerActionEvent:
		if e.Seat == game.AI && m.debug && e.Rationale != "" {
			m.addLine(InfoStyle.Render("  AI: " + e.Rationale))
		}
	case game.HandEndEvent:
		m.session.Add(statistics.FromSnapshot(e.Snapshot, game.Human, m.handStart))
		m.addLine(InfoStyle.Render("Press enter to deal the next hand."))
	}
}

func (m *Model) addLine(line string) {
	m.lines = append(m.lines, line)
	if m.ready {
		m.log.SetContent(strings.Join(m.lines, "\n"))
		m.log.GotoBottom()
	}
}

func (m *Model) setStatus(s string, ok bool) {
	m.status, m.statusOK = s, ok
}

const tableWidth = 40

func (m *Model) resize() {
	logWidth := max(20, m.width-tableWidth-4)
	logHeight := max(5, m.height-6)
	if !m.ready {
		m.log = viewport.New(logWidth, logHeight)
		m.ready = true
	} else {
		m.log.Width, m.log.Height = logWidth, logHeight
	}
	m.input.Width = max(10, m.width-4)
	m.log.SetContent(strings.Join(m.lines, "\n"))
	m.log.GotoBottom()
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return "Loading..."
	}

	header := HeaderStyle.Render(fmt.Sprintf("Heads-up Hold'em  Hand #%d", m.snap.HandNumber))
	table := paneStyle.Width(tableWidth).Height(m.log.Height).Render(m.renderTable())
	logPane := paneStyle.BorderForeground(focusedBorder).Render(m.log.View())
	body := lipgloss.JoinHorizontal(lipgloss.Top, table, logPane)

	status := ""
	if m.status != "" {
		if m.statusOK {
			status = SuccessStyle.Render(m.status)
		} else {
			status = ErrorStyle.Render(m.status)
		}
	}
	return lipgloss.JoinVertical(lipgloss.Left, header, body, m.input.View(), status)
}

func (m *Model) renderTable() string {
	s := m.snap
	var b strings.Builder

	if s.HandNumber == 0 {
		b.WriteString(InfoStyle.Render("No hand dealt yet."))
		return b.String()
	}

	fmt.Fprintf(&b, "%s  %s\n\n",
		HandInfoStyle.Render(strings.ToUpper(s.Street.String())),
		HandInfoStyle.Render("Pot "+Chips(s.Pot)))

	b.WriteString(m.renderSeat(game.AI))
	b.WriteString("\n\nBoard " + FormatCards(s.Board) + "\n\n")
	b.WriteString(m.renderSeat(game.Human))
	b.WriteString("\n\n")

	switch {
	case s.HumanToAct():
		b.WriteString(ActionsStyle.Render("Your move: "+formatActions(s.ValidActions)) + "\n")
		if s.MaxRaiseTarget > 0 {
			b.WriteString(InfoStyle.Render(fmt.Sprintf("raise to %s..%s", Chips(s.MinRaiseTarget), Chips(s.MaxRaiseTarget))) + "\n")
		}
	case s.InProgress:
		b.WriteString(WarningStyle.Render("AI is thinking...") + "\n")
	case s.Result != nil:
		b.WriteString(SuccessStyle.Render(s.Result.Summary) + "\n")
	}

	if m.session.Hands > 0 {
		fmt.Fprintf(&b, "\n%s\n", InfoStyle.Render(fmt.Sprintf("Session: %d hands, %+.1f bb (%.0f bb/100)",
			m.session.Hands, m.session.SumBB, m.session.BBPer100())))
	}

	if m.debug && s.AIRationale != "" {
		fmt.Fprintf(&b, "\n%s\n", InfoStyle.Render(fmt.Sprintf("AI equity %.1f%%: %s", s.AIEquity*100, s.AIRationale)))
	}
	return b.String()
}

func (m *Model) renderSeat(seat game.Seat) string {
	p := m.snap.Player(seat)
	name := "You"
	if seat == game.AI {
		name = "AI"
	}
	if m.snap.Button == seat {
		name += " (D)"
	}

	cards := hiddenCards()
	if len(p.Hole) > 0 {
		cards = FormatCards(p.Hole)
	}

	line := fmt.Sprintf("%-8s %s  stack %s", name, cards, Chips(p.Stack))
	if p.Bet > 0 {
		line += "  bet " + Chips(p.Bet)
	}
	if p.AllIn {
		line += " " + WarningStyle.Render("ALL-IN")
	}
	return line
}
