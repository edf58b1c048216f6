package dashui

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/basedash/internal/formfill"
)

func (m *Model) renderHeader() string {
	tabs := padLines(renderTabs(m.tabs, m.activeTab), m.width)
	return tabs + "\n" + padLines(m.renderSummary(), m.width)
}

func (m *Model) renderSummary() string {
	var parts []string
	if m.state == nil {
		parts = append(parts, "No file loaded")
	} else {
		parts = append(parts,
			"File: "+filepath.Base(m.state.Source),
			fmt.Sprintf("Rows: %d", m.state.Canonical.Len()),
			"Status: "+m.state.StatusFilter.String(),
		)
		if m.state.HasBases() {
			parts = append(parts, fmt.Sprintf("Bases: %d/%d", len(m.state.SelectedBases), m.state.Mapping.Len()))
		}
	}
	summary := headerStyle.Render(truncateLine(strings.Join(parts, "  "), m.width))
	if !m.opts.Gate.Enabled() {
		summary += "  " + warningStyle.Render("No password configured")
	}
	return summary
}

func (m *Model) renderHelp() string {
	help := "Nav: left/right  Status: s  Open: o  Quit: q"
	switch m.activeTab {
	case tabData:
		help = "Nav: left/right  Scroll: up/down  Search: /  Clear: esc  Status: s  Open: o  Quit: q"
	case tabSearch, tabCombine:
		help = "Nav: left/right  Scroll: up/down/pgup/pgdn  Edit: / or enter  Open: o  Quit: q"
	case tabBases:
		help = "Nav: left/right  Move: up/down  Toggle: space  All: *  Apply: a  Reset: r  Quit: q"
	case tabCard:
		help = "Nav: left/right  Select: up/down  Fill form: enter  Search: /  Clear: esc  Status: s  Quit: q"
	}
	if m.mode != modeNone {
		help = "tab/shift+tab: next field  enter: apply  esc: cancel"
	}
	return headerStyle.Render(truncateLine(help, m.width))
}

func (m *Model) renderFooter() string {
	switch {
	case m.errMsg != "":
		return m.renderHelp() + "\n" + errorStyle.Render(truncateLine(m.errMsg, m.width))
	case m.notice != "":
		return m.renderHelp() + "\n" + noticeStyle.Render(truncateLine(m.notice, m.width))
	}
	return m.renderHelp()
}

func (m *Model) renderInputs() string {
	lines := make([]string, 0, len(m.inputs)+1)
	for _, input := range m.inputs {
		lines = append(lines, input.View())
	}
	return strings.Join(append(lines, ""), "\n")
}

func (m *Model) renderBody(height int) string {
	if m.state == nil {
		msg := fmt.Sprintf("Load a file to get started. Press o to choose a file from %s.", m.opts.Loader.DataDir)
		return fitLines(msg, m.width, height)
	}
	var top string
	if m.inputHeight() > 0 {
		top = m.renderInputs()
	}
	var body string
	switch m.activeTab {
	case tabData:
		shown := m.dataView.Len()
		text := caption(shown, m.state.Canonical.Len(), min(shown, m.opts.PageSize))
		if m.dataSearch != "" {
			text += fmt.Sprintf("  search: %q", m.dataSearch)
		}
		body = headerStyle.Render(text) + "\n" + tableMutedStyle.Render(m.dataTable.View())
	case tabBases:
		body = m.renderBases(height)
	case tabCard:
		body = m.renderCard()
	default:
		body = m.viewports[m.activeTab].View()
	}
	return fitLines(top+body, m.width, height)
}

func (m *Model) renderBases(height int) string {
	if !m.state.HasBases() {
		return "Base column not found in the data. Please ensure your file has a 'Base' column."
	}
	list := renderBaseList(m.state, m.baseChecked, m.baseCursor, height)
	display := m.checkedBases()
	groups := renderBaseStats(m.state.Groups(display))
	if m.width < 100 {
		return list + "\n\n" + groups
	}
	left := lipgloss.NewStyle().Width(max(30, m.width/3)).Render(list)
	return lipgloss.JoinHorizontal(lipgloss.Top, left, groups)
}

func (m *Model) renderCard() string {
	if formfill.CardColumn(m.state.Canonical) == "" {
		return warningStyle.Render("Could not find a 'Number' or 'Card Number' column in the data.")
	}
	if m.cardView.Len() == 0 {
		return "No rows match the current filters."
	}
	fields, err := formfill.Resolve(m.cardView, m.cardTable.Cursor(), m.opts.HolderName)
	title := fmt.Sprintf("Select a row (%d available)", m.cardView.Len())
	if m.cardSearch != "" {
		title += fmt.Sprintf("  search: %q", m.cardSearch)
	}
	lines := []string{
		headerStyle.Render(title),
		tableMutedStyle.Render(m.cardTable.View()),
		"",
		renderFields(fields, err),
	}
	if m.filling {
		lines = append(lines, noticeStyle.Render("Filling form..."))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderGate() string {
	body := []string{
		cardValueStyle.Render("Dashboard Login"),
		"",
		m.password.View(),
		"",
		headerStyle.Render("Enter to unlock / Esc to quit"),
	}
	if m.gateErr != "" {
		body = append(body, errorStyle.Render(m.gateErr))
	}
	box := modalStyle.Width(modalWidth(m.width)).Render(strings.Join(body, "\n"))
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}

func (m *Model) renderPicker() string {
	body := []string{cardValueStyle.Render("Load from Data Folder"), headerStyle.Render(m.opts.Loader.DataDir), ""}
	start, end := window(len(m.files), m.fileCursor, max(1, m.height-12))
	for i := start; i < end; i++ {
		name := truncateLine(m.files[i], modalInnerWidth(m.width)-2)
		if i == m.fileCursor {
			body = append(body, cardValueStyle.Render("> "+name))
		} else {
			body = append(body, "  "+name)
		}
	}
	body = append(body, "", headerStyle.Render("Enter to load / Esc to cancel"))
	if m.errMsg != "" {
		body = append(body, errorStyle.Render(m.errMsg))
	}
	box := modalStyle.Width(modalWidth(m.width)).Render(strings.Join(body, "\n"))
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}
