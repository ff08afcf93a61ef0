// ABOUTME: TUI view for follow-up tracking
// ABOUTME: Renders the header, tabs and the due-record table
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
	"github.com/harperreed/prospect/viz"
)

func (m Model) renderFollowupView() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render("PROSPECT"))
	s.WriteString("  ")
	s.WriteString(streakStyle.Render(fmt.Sprintf("🔥 %d day streak", m.streak)))
	s.WriteString("\n\n")

	s.WriteString(m.renderTabs())
	s.WriteString("\n\n")

	switch {
	case m.err != nil:
		s.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
	case !m.loaded:
		s.WriteString("Loading...")
	case len(m.rows()) == 0:
		s.WriteString("Nothing due. Nice work.")
	default:
		s.WriteString(m.renderFollowupsTable())
	}
	s.WriteString("\n")

	if m.status != "" {
		s.WriteString("\n")
		if strings.HasPrefix(m.status, "Error") {
			s.WriteString(errorStyle.Render(m.status))
		} else {
			s.WriteString(statusStyle.Render(m.status))
		}
		s.WriteString("\n")
	}

	s.WriteString(helpStyle.Render(m.help()))
	return s.String()
}

func (m Model) renderTabs() string {
	tabs := []struct {
		tab   Tab
		label string
		n     int
	}{
		{TabLeads, "Leads", len(m.leads)},
		{TabContacts, "Contacts", len(m.contacts)},
	}

	var rendered []string
	for _, t := range tabs {
		label := fmt.Sprintf("%s (%d)", t.label, t.n)
		if t.tab == m.tab {
			rendered = append(rendered, tabActiveStyle.Render(label))
		} else {
			rendered = append(rendered, tabInactiveStyle.Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}

func (m Model) renderFollowupsTable() string {
	columns := []table.Column{
		{Title: "", Width: 3},
		{Title: "ID", Width: 6},
		{Title: "Name", Width: 25},
		{Title: "Company", Width: 20},
		{Title: "Last", Width: 12},
		{Title: "Overdue", Width: 8},
	}

	var rows []table.Row
	for _, r := range m.rows() {
		last := "never"
		if r.LastContactedDate != nil {
			last = r.LastContactedDate.String()
		}
		rows = append(rows, table.Row{
			viz.Indicator(r),
			fmt.Sprintf("%d", r.ID),
			r.Name,
			r.Company,
			last,
			fmt.Sprintf("%d", r.DaysOverdue),
		})
	}

	height := m.height - 10
	if height < 3 {
		height = 3
	}
	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(height),
	)
	if m.cursor < len(rows) {
		t.SetCursor(m.cursor)
	}
	return t.View()
}

func (m Model) help() string {
	if m.tab == TabLeads {
		return "tab: contacts • ↑/↓: move • l: log attempt • c: convert • r: refresh • q: quit"
	}
	return "tab: leads • ↑/↓: move • r: refresh • q: quit"
}
