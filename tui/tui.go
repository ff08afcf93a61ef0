// ABOUTME: Terminal User Interface using bubbletea framework
// ABOUTME: Full-screen follow-up queue for leads and contacts with quick actions
package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/harperreed/prospect/leads"
	"github.com/harperreed/prospect/models"
	"github.com/harperreed/prospect/service"
)

// Tab selects which follow-up queue is shown.
type Tab int

const (
	TabLeads Tab = iota
	TabContacts
)

// loadedMsg carries a fresh snapshot of both queues.
type loadedMsg struct {
	leads    []models.FollowupRecord
	contacts []models.FollowupRecord
	streak   int
	err      error
}

// actionMsg reports the outcome of a log or convert action.
type actionMsg struct {
	message string
	err     error
}

// Model is the main bubbletea model
type Model struct {
	svc *service.Service
	ctx context.Context
	tab Tab

	leads    []models.FollowupRecord
	contacts []models.FollowupRecord
	streak   int
	loaded   bool

	cursor int
	status string
	err    error

	width  int
	height int
}

// NewModel creates a new TUI model
func NewModel(ctx context.Context, svc *service.Service) Model {
	return Model{
		svc:    svc,
		ctx:    ctx,
		tab:    TabLeads,
		width:  80,
		height: 24,
	}
}

// Run starts the full-screen program and blocks until the user quits.
func Run(ctx context.Context, svc *service.Service) error {
	p := tea.NewProgram(NewModel(ctx, svc), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}

func (m Model) Init() tea.Cmd {
	return m.refresh()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case loadedMsg:
		m.loaded = true
		m.err = msg.err
		if msg.err == nil {
			m.leads = msg.leads
			m.contacts = msg.contacts
			m.streak = msg.streak
		}
		m.clampCursor()
		return m, nil
	case actionMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("Error: %v", msg.err)
			return m, nil
		}
		m.status = msg.message
		return m, m.refresh()
	}
	return m, nil
}

func (m Model) View() string {
	return m.renderFollowupView()
}

func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "tab":
		if m.tab == TabLeads {
			m.tab = TabContacts
		} else {
			m.tab = TabLeads
		}
		m.cursor = 0
		m.status = ""
		return m, nil
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil
	case "down", "j":
		if m.cursor < len(m.rows())-1 {
			m.cursor++
		}
		return m, nil
	case "r":
		m.status = "Refreshing..."
		return m, m.refresh()
	case "l":
		if id, ok := m.selectedLead(); ok {
			return m, m.logAttempt(id)
		}
		m.status = "Select a lead to log an attempt"
		return m, nil
	case "c":
		if id, ok := m.selectedLead(); ok {
			return m, m.convert(id)
		}
		m.status = "Select a lead to convert"
		return m, nil
	}
	return m, nil
}

func (m Model) rows() []models.FollowupRecord {
	if m.tab == TabContacts {
		return m.contacts
	}
	return m.leads
}

// selectedLead returns the highlighted record's id when the leads tab is active.
func (m Model) selectedLead() (int64, bool) {
	rows := m.rows()
	if m.tab != TabLeads || m.cursor < 0 || m.cursor >= len(rows) {
		return 0, false
	}
	return rows[m.cursor].ID, true
}

func (m *Model) clampCursor() {
	if n := len(m.rows()); m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m Model) refresh() tea.Cmd {
	svc, ctx := m.svc, m.ctx
	return func() tea.Msg {
		due, err := svc.GetDueLeadFollowups(ctx)
		if err != nil {
			return loadedMsg{err: err}
		}
		contacts, err := svc.GetDueContactFollowups(ctx)
		if err != nil {
			return loadedMsg{err: err}
		}
		snap, err := svc.GetAnalytics(ctx, "")
		if err != nil {
			return loadedMsg{err: err}
		}
		return loadedMsg{leads: due.Followups, contacts: contacts, streak: snap.ActivityStreak}
	}
}

func (m Model) logAttempt(id int64) tea.Cmd {
	svc, ctx := m.svc, m.ctx
	return func() tea.Msg {
		res, err := svc.LogLeadContactAttempt(ctx, id, leads.AttemptInput{})
		if err != nil {
			return actionMsg{err: err}
		}
		return actionMsg{message: fmt.Sprintf("%s for lead %d", res.Message, id)}
	}
}

func (m Model) convert(id int64) tea.Cmd {
	svc, ctx := m.svc, m.ctx
	return func() tea.Msg {
		res, err := svc.ConvertLead(ctx, id)
		if err != nil {
			return actionMsg{err: err}
		}
		return actionMsg{message: fmt.Sprintf("%s (ID: %d)", res.Message, res.LeadID)}
	}
}

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("170"))

	streakStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214"))

	tabActiveStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("170")).
			Background(lipgloss.Color("235")).
			Padding(0, 2)

	tabInactiveStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("240")).
				Padding(0, 2)

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			MarginTop(1)
)
