// Package dashboard is the interactive terminal front end. It renders the
// roster, the conversation and the portfolio, and forwards user input to the
// conversation client. It never writes to the roster.
package dashboard

import (
	"context"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/alfredjeanlab/swarmdash/internal/chat"
	"github.com/alfredjeanlab/swarmdash/internal/model"
	"github.com/alfredjeanlab/swarmdash/internal/portfolio"
	"github.com/alfredjeanlab/swarmdash/internal/roster"
)

type tab int

const (
	tabChat tab = iota
	tabPortfolio
)

const sidebarWidth = 34

// rosterMsg carries a roster copy pushed by the synchronizer.
type rosterMsg []model.AgentRecord

// chatChangedMsg signals that the conversation client appended a turn or
// changed state.
type chatChangedMsg struct{}

// portfolioMsg carries a freshly loaded portfolio view.
type portfolioMsg portfolio.View

// Conversation is the part of chat.Client the dashboard drives.
type Conversation interface {
	SetInput(text string)
	SubmitInput(ctx context.Context) bool
	Turns() []model.Turn
	State() chat.State
}

// Roster is the read side of roster.Synchronizer.
type Roster interface {
	Agents() []model.AgentRecord
}

type Model struct {
	ctx       context.Context
	chat      Conversation
	roster    Roster
	portfolio portfolio.Fetcher
	userID    string

	agents    []model.AgentRecord
	turns     []model.Turn
	awaiting  bool
	showAlloc bool
	view      *portfolio.View
	active    tab

	input    textinput.Model
	viewport viewport.Model
	spinner  spinner.Model
	md       *markdown

	width, height int
	ready         bool
}

func newModel(ctx context.Context, conv Conversation, r Roster, pf portfolio.Fetcher, userID string) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Ask your agent swarm..."
	ti.CharLimit = 2048
	ti.Focus()

	sp := spinner.New(
		spinner.WithSpinner(spinner.Dot),
		spinner.WithStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("69"))),
	)

	m := Model{
		ctx:       ctx,
		chat:      conv,
		roster:    r,
		portfolio: pf,
		userID:    userID,
		input:     ti,
		viewport:  viewport.New(80, 20),
		spinner:   sp,
		md:        newMarkdown(80),
		width:     120,
		height:    32,
	}
	m.agents = r.Agents()
	m.syncTurns()
	return m
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.loadPortfolio())
}

func (m Model) loadPortfolio() tea.Cmd {
	if m.portfolio == nil {
		return nil
	}
	ctx, f, userID := m.ctx, m.portfolio, m.userID
	return func() tea.Msg {
		return portfolioMsg(portfolio.Load(ctx, f, userID))
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.ready = true
		m.layout()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case rosterMsg:
		m.agents = []model.AgentRecord(msg)
		return m, nil

	case chatChangedMsg:
		wasAwaiting := m.awaiting
		m.syncTurns()
		if m.awaiting && !wasAwaiting {
			return m, m.spinner.Tick
		}
		return m, nil

	case portfolioMsg:
		v := portfolio.View(msg)
		m.view = &v
		return m, nil

	case spinner.TickMsg:
		// The typing indicator only animates while a turn is in flight.
		if !m.awaiting {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "esc":
		return m, tea.Quit
	case "tab":
		if m.active == tabChat {
			m.active = tabPortfolio
		} else {
			m.active = tabChat
		}
		return m, nil
	case "f1", "f2", "f3":
		actions := chat.QuickActions()
		idx := int(msg.String()[1] - '1')
		if idx < len(actions) {
			m.input.SetValue(actions[idx].Text)
			m.input.CursorEnd()
		}
		return m, nil
	case "ctrl+r":
		return m, m.loadPortfolio()
	case "enter":
		if m.active != tabChat {
			return m, nil
		}
		m.chat.SetInput(m.input.Value())
		if m.chat.SubmitInput(m.ctx) {
			m.input.Reset()
		}
		m.syncTurns()
		if m.awaiting {
			return m, m.spinner.Tick
		}
		return m, nil
	}

	if m.active != tabChat {
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// syncTurns pulls the conversation state and scrolls to the newest turn when
// the history grew.
func (m *Model) syncTurns() {
	turns := m.chat.Turns()
	grew := len(turns) > len(m.turns)
	m.turns = turns
	m.awaiting = m.chat.State() == chat.AwaitingResponse
	for _, t := range turns {
		if t.Sender == model.SenderAgent && chat.MentionsInvestment(t.Text) {
			m.showAlloc = true
			break
		}
	}
	m.viewport.SetContent(m.renderTurns())
	if grew {
		m.viewport.GotoBottom()
	}
}

func (m *Model) layout() {
	mainWidth := m.width - sidebarWidth - 4
	if mainWidth < 20 {
		mainWidth = 20
	}
	m.input.Width = mainWidth - 4
	m.viewport.Width = mainWidth
	// header, tabs, typing line, hints, input and borders
	h := m.height - 9
	if h < 3 {
		h = 3
	}
	m.viewport.Height = h
	m.md = newMarkdown(mainWidth - 2)
	m.viewport.SetContent(m.renderTurns())
}

var _ Roster = (*roster.Synchronizer)(nil)
var _ Conversation = (*chat.Client)(nil)
