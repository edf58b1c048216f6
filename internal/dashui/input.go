package dashui

import (
	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/verte-zerg/basedash/internal/session"
)

func newInput(prompt string) textinput.Model {
	input := textinput.New()
	input.Prompt = prompt
	input.CharLimit = 0
	input.Cursor.SetMode(cursor.CursorBlink)
	return input
}

// startInput opens the input form belonging to the active tab.
func (m *Model) startInput() (tea.Model, tea.Cmd) {
	switch m.activeTab {
	case tabData:
		m.mode = modeDataSearch
		m.inputs = []textinput.Model{newInput("Search by any field: ")}
		m.inputs[0].SetValue(m.dataSearch)
	case tabSearch:
		m.mode = modeSearch
		m.inputs = []textinput.Model{newInput("Search term: ")}
		m.inputs[0].Placeholder = "partial matches"
		m.inputs[0].SetValue(m.search.term(0))
	case tabCombine:
		m.mode = modeCombine
		m.inputs = []textinput.Model{newInput("First base name: "), newInput("Second base name: ")}
		m.inputs[0].Placeholder = "e.g. MYWE"
		m.inputs[1].Placeholder = "e.g. FISH"
		m.inputs[0].SetValue(m.combine.term(0))
		m.inputs[1].SetValue(m.combine.term(1))
	case tabCard:
		m.mode = modeCardSearch
		m.inputs = []textinput.Model{newInput("Search rows: ")}
		m.inputs[0].SetValue(m.cardSearch)
	default:
		return m, nil
	}
	m.refresh()
	return m, m.setInputIndex(0)
}

func (m *Model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.closeInput()
		return m, nil
	case tea.KeyEnter:
		m.applyInput()
		m.closeInput()
		return m, nil
	case tea.KeyTab:
		return m, m.setInputIndex(m.inputIndex + 1)
	case tea.KeyShiftTab:
		return m, m.setInputIndex(m.inputIndex - 1)
	}
	var cmd tea.Cmd
	m.inputs[m.inputIndex], cmd = m.inputs[m.inputIndex].Update(msg)
	return m, cmd
}

func (m *Model) closeInput() {
	m.mode = modeNone
	m.inputs = nil
	m.inputIndex = 0
	m.refresh()
}

func (m *Model) setInputIndex(idx int) tea.Cmd {
	count := len(m.inputs)
	if count == 0 {
		return nil
	}
	if idx < 0 {
		idx = count - 1
	}
	if idx >= count {
		idx = 0
	}
	m.inputIndex = idx
	var cmd tea.Cmd
	for i := range m.inputs {
		if i == m.inputIndex {
			cmd = m.inputs[i].Focus()
		} else {
			m.inputs[i].Blur()
		}
	}
	return cmd
}

func (m *Model) applyInput() {
	switch m.mode {
	case modeDataSearch:
		m.dataSearch = m.inputs[0].Value()
	case modeCardSearch:
		m.cardSearch = m.inputs[0].Value()
	case modeSearch:
		term := m.inputs[0].Value()
		res, err := m.state.Search(term)
		m.search = newPageResult([]string{term}, res, err)
		m.log.Info("search", zap.String("term", term), zap.Int("rows", res.Rows.Len()), zap.Error(err))
	case modeCombine:
		first, second := m.inputs[0].Value(), m.inputs[1].Value()
		res, err := m.state.Combine(first, second)
		m.combine = newPageResult([]string{first, second}, res, err)
		m.log.Info("combine",
			zap.String("first", first),
			zap.String("second", second),
			zap.Int("rows", res.Rows.Len()),
			zap.Error(err),
		)
	}
}

func newPageResult(terms []string, res session.Result, err error) pageResult {
	if err != nil {
		return pageResult{terms: terms, err: err}
	}
	return pageResult{terms: terms, result: &res}
}
