// Package dashui provides the Bubble Tea dashboard.
package dashui

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/verte-zerg/basedash/internal/auth"
	"github.com/verte-zerg/basedash/internal/formfill"
	"github.com/verte-zerg/basedash/internal/loader"
	"github.com/verte-zerg/basedash/internal/model"
	"github.com/verte-zerg/basedash/internal/session"
)

const (
	tabData = iota
	tabAnalytics
	tabSearch
	tabCombine
	tabBases
	tabCard
)

const defaultPageSize = 100

type inputMode int

const (
	modeNone inputMode = iota
	modeGate
	modePicker
	modeDataSearch
	modeSearch
	modeCombine
	modeCardSearch
)

// Options configures a dashboard.
type Options struct {
	Loader     *loader.Loader
	File       string
	Sheets     []string
	Gate       *auth.Gate
	Filler     formfill.FormFiller
	HolderName string
	PageSize   int
	Log        *zap.Logger
}

type fillDoneMsg struct {
	row int
	err error
}

// pageResult is the outcome of a search or combine form. terms holds one
// value per form field.
type pageResult struct {
	terms  []string
	result *session.Result
	err    error
}

func (p pageResult) term(i int) string {
	if i < len(p.terms) {
		return p.terms[i]
	}
	return ""
}

// Model implements the Bubble Tea dashboard.
type Model struct {
	opts  Options
	log   *zap.Logger
	state *session.State

	tabs      []string
	activeTab int
	viewports []viewport.Model
	dataTable table.Model
	cardTable table.Model
	dataView  *model.Dataset
	cardView  *model.Dataset

	width  int
	height int

	mode       inputMode
	inputs     []textinput.Model
	inputIndex int
	password   textinput.Model
	gateErr    string

	dataSearch string
	cardSearch string
	search     pageResult
	combine    pageResult

	baseCursor  int
	baseChecked map[string]bool

	files      []string
	fileCursor int

	filling bool
	notice  string
	errMsg  string
}

// NewModel constructs a dashboard. With a password configured it starts locked.
func NewModel(opts Options) *Model {
	if opts.Log == nil {
		opts.Log = zap.NewNop()
	}
	if opts.PageSize <= 0 {
		opts.PageSize = defaultPageSize
	}
	if opts.HolderName == "" {
		opts.HolderName = formfill.DefaultHolderName
	}
	if opts.Loader == nil {
		opts.Loader = loader.New("", opts.Log)
	}
	m := &Model{
		opts: opts,
		log:  opts.Log,
		tabs: []string{"Data View", "Analytics", "Search", "Combine", "Bases", "Test Card"},
	}
	m.viewports = make([]viewport.Model, len(m.tabs))
	for i := range m.viewports {
		m.viewports[i] = viewport.New(0, 0)
	}
	m.password = newInput("Password: ")
	m.password.EchoMode = textinput.EchoPassword
	m.password.EchoCharacter = '•'

	if opts.Gate.Enabled() {
		m.mode = modeGate
		m.password.Focus()
		return m
	}
	m.unlocked()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.refresh()
		return m, nil
	case fillDoneMsg:
		m.filling = false
		if msg.err != nil {
			m.log.Warn("form fill failed", zap.Int("row", msg.row), zap.Error(msg.err))
			m.setError(fmt.Sprintf("Form fill failed: %v", msg.err))
			return m, nil
		}
		m.log.Info("form filled", zap.Int("row", msg.row))
		m.setNotice(fmt.Sprintf("Row %d filled. Review and submit the form in the browser.", msg.row+1))
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		switch m.mode {
		case modeGate:
			return m.updateGate(msg)
		case modePicker:
			return m.updatePicker(msg)
		case modeDataSearch, modeSearch, modeCombine, modeCardSearch:
			return m.updateInput(msg)
		}
		return m.updateKeys(msg)
	}
	return m, nil
}

func (m *Model) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	switch key {
	case "q":
		return m, tea.Quit
	case "left", "h":
		m.moveTab(-1)
		return m, tea.ClearScreen
	case "right", "l":
		m.moveTab(1)
		return m, tea.ClearScreen
	case "1", "2", "3", "4", "5", "6":
		m.activeTab = int(key[0] - '1')
		m.focusTables()
		return m, tea.ClearScreen
	case "o":
		m.openPicker()
		return m, nil
	}
	if m.state == nil {
		return m, nil
	}
	switch key {
	case "s":
		m.state.SetStatusFilter(m.state.StatusFilter.Next())
		m.log.Debug("status filter changed", zap.Stringer("filter", m.state.StatusFilter))
		m.refresh()
		return m, nil
	case "/":
		return m.startInput()
	}

	switch m.activeTab {
	case tabData:
		if msg.Type == tea.KeyEsc && m.dataSearch != "" {
			m.dataSearch = ""
			m.refresh()
			return m, nil
		}
		var cmd tea.Cmd
		m.dataTable, cmd = m.dataTable.Update(msg)
		return m, cmd
	case tabBases:
		m.updateBases(key)
		return m, nil
	case tabCard:
		switch {
		case msg.Type == tea.KeyEnter:
			return m.startFill()
		case msg.Type == tea.KeyEsc && m.cardSearch != "":
			m.cardSearch = ""
			m.refresh()
			return m, nil
		}
		var cmd tea.Cmd
		m.cardTable, cmd = m.cardTable.Update(msg)
		return m, cmd
	case tabSearch, tabCombine:
		if msg.Type == tea.KeyEnter {
			return m.startInput()
		}
	}
	vp := m.viewports[m.activeTab]
	var cmd tea.Cmd
	vp, cmd = vp.Update(msg)
	m.viewports[m.activeTab] = vp
	return m, cmd
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	switch m.mode {
	case modeGate:
		return fitLines(m.renderGate(), m.width, m.height)
	case modePicker:
		return fitLines(m.renderPicker(), m.width, m.height)
	}
	headerHeight, bodyHeight, footerHeight := m.layoutHeights()
	header := fitLines(m.renderHeader(), m.width, headerHeight)
	body := fitLines(m.renderBody(bodyHeight), m.width, bodyHeight)
	footer := fitLines(m.renderFooter(), m.width, footerHeight)
	return strings.Join([]string{header, body, footer}, "\n")
}

func (m *Model) layoutHeights() (headerHeight, bodyHeight, footerHeight int) {
	tabsHeight := lipgloss.Height(activeNavStyle.Render("X"))
	if tabsHeight < 1 {
		tabsHeight = 1
	}
	headerHeight = tabsHeight + 1
	footerHeight = 1
	if m.errMsg != "" || m.notice != "" {
		footerHeight++
	}
	bodyHeight = m.height - headerHeight - footerHeight
	if bodyHeight < 1 {
		bodyHeight = 1
	}
	return headerHeight, bodyHeight, footerHeight
}

// inputHeight is the number of body lines taken by the active input form.
func (m *Model) inputHeight() int {
	switch m.mode {
	case modeDataSearch, modeSearch, modeCombine, modeCardSearch:
		return len(m.inputs) + 1
	}
	return 0
}

func (m *Model) unlocked() {
	if m.opts.File != "" {
		m.load(m.opts.File, m.opts.Sheets)
		return
	}
	m.openPicker()
}

// load replaces the session with a freshly loaded file.
func (m *Model) load(path string, sheets []string) {
	ds, err := m.opts.Loader.Load(path, sheets)
	if err != nil {
		m.setError(fmt.Sprintf("Error loading file: %v", err))
		return
	}
	m.state = session.Load(ds, path)
	m.baseChecked = make(map[string]bool, m.state.Mapping.Len())
	for _, name := range m.state.Mapping.Names() {
		m.baseChecked[name] = true
	}
	m.baseCursor = 0
	m.dataSearch = ""
	m.search = pageResult{}
	m.combine = pageResult{}
	m.setNotice(fmt.Sprintf("Loaded %s (%d rows)", filepath.Base(path), ds.Len()))
	m.refresh()
}

func (m *Model) openPicker() {
	files, err := m.opts.Loader.Files()
	if err != nil {
		m.setError(err.Error())
		return
	}
	if len(files) == 0 {
		m.setError(fmt.Sprintf("No .csv or .xlsx files in %s", m.opts.Loader.DataDir))
		return
	}
	m.files = files
	m.fileCursor = clamp(m.fileCursor, 0, len(files)-1)
	m.mode = modePicker
}

func (m *Model) updatePicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "esc":
		m.mode = modeNone
	case "up", "k":
		m.fileCursor = clamp(m.fileCursor-1, 0, len(m.files)-1)
	case "down", "j":
		m.fileCursor = clamp(m.fileCursor+1, 0, len(m.files)-1)
	case "enter":
		m.mode = modeNone
		m.load(filepath.Join(m.opts.Loader.DataDir, m.files[m.fileCursor]), nil)
	}
	return m, nil
}

func (m *Model) updateGate(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		return m, tea.Quit
	case tea.KeyEnter:
		if err := m.opts.Gate.Check(m.password.Value()); err != nil {
			m.log.Warn("dashboard unlock failed")
			m.gateErr = "Incorrect password"
			m.password.SetValue("")
			return m, nil
		}
		m.log.Info("dashboard unlocked", zap.String("source", string(m.opts.Gate.Source())))
		m.gateErr = ""
		m.password.SetValue("")
		m.password.Blur()
		m.mode = modeNone
		m.unlocked()
		m.refresh()
		return m, nil
	}
	var cmd tea.Cmd
	m.password, cmd = m.password.Update(msg)
	return m, cmd
}

func (m *Model) updateBases(key string) {
	names := m.state.Mapping.Names()
	if len(names) == 0 {
		return
	}
	switch key {
	case "up", "k":
		m.baseCursor = clamp(m.baseCursor-1, 0, len(names)-1)
	case "down", "j":
		m.baseCursor = clamp(m.baseCursor+1, 0, len(names)-1)
	case " ", "space":
		name := names[m.baseCursor]
		m.baseChecked[name] = !m.baseChecked[name]
	case "*":
		all := len(m.checkedBases()) != len(names)
		for _, name := range names {
			m.baseChecked[name] = all
		}
	case "a":
		selected := m.checkedBases()
		if err := m.state.ApplyBaseFilter(selected); err != nil {
			m.setError(err.Error())
			return
		}
		m.log.Info("base filter applied", zap.Strings("bases", selected), zap.Int("rows", m.state.Working.Len()))
		m.setNotice(fmt.Sprintf("Filter applied: %d base(s), %d rows", len(selected), m.state.Working.Len()))
	case "r":
		m.state.ResetBaseFilter()
		for _, name := range names {
			m.baseChecked[name] = true
		}
		m.log.Info("base filter reset")
		m.setNotice("Filter reset")
	default:
		return
	}
	m.refresh()
}

func (m *Model) checkedBases() []string {
	var out []string
	for _, name := range m.state.Mapping.Names() {
		if m.baseChecked[name] {
			out = append(out, name)
		}
	}
	return out
}

func (m *Model) startFill() (tea.Model, tea.Cmd) {
	if m.filling {
		return m, nil
	}
	if m.opts.Filler == nil {
		m.setError("Form filling is not configured. Set fill.url in the config file.")
		return m, nil
	}
	row := m.cardTable.Cursor()
	fields, err := formfill.Resolve(m.cardView, row, m.opts.HolderName)
	if err != nil {
		m.setError(err.Error())
		return m, nil
	}
	m.filling = true
	m.setNotice("Opening browser and filling form...")
	filler := m.opts.Filler
	return m, func() tea.Msg {
		return fillDoneMsg{row: row, err: filler.Fill(context.Background(), fields)}
	}
}

func (m *Model) moveTab(delta int) {
	count := len(m.tabs)
	if count == 0 {
		return
	}
	next := m.activeTab + delta
	if next < 0 {
		next = count - 1
	}
	if next >= count {
		next = 0
	}
	m.activeTab = next
	m.focusTables()
}

func (m *Model) focusTables() {
	if m.activeTab == tabData {
		m.dataTable.Focus()
	} else {
		m.dataTable.Blur()
	}
	if m.activeTab == tabCard {
		m.cardTable.Focus()
	} else {
		m.cardTable.Blur()
	}
}

func (m *Model) setNotice(s string) {
	m.notice = s
	m.errMsg = ""
}

func (m *Model) setError(s string) {
	m.errMsg = s
	m.notice = ""
}

// refresh rebuilds every derived view from the session state.
func (m *Model) refresh() {
	width := m.width
	if width <= 0 {
		width = 80
	}
	for i := range m.inputs {
		promptWidth := lipgloss.Width(m.inputs[i].Prompt)
		m.inputs[i].Width = max(10, width-promptWidth-2)
	}
	m.password.Width = max(10, modalInnerWidth(width)-lipgloss.Width(m.password.Prompt))
	if m.state == nil {
		return
	}
	_, bodyHeight, _ := m.layoutHeights()
	tableHeight := max(1, bodyHeight-1-m.inputHeight())

	m.dataView = m.state.View(m.dataSearch)
	cursor := m.dataTable.Cursor()
	m.dataTable = datasetTable(m.dataView, m.opts.PageSize, width, tableHeight)
	m.dataTable.SetCursor(clamp(cursor, 0, max(0, min(m.dataView.Len(), m.opts.PageSize)-1)))

	m.cardView = m.state.View(m.cardSearch)
	cardCursor := m.cardTable.Cursor()
	m.cardTable = datasetTable(m.cardView, m.opts.PageSize, width, max(1, bodyHeight-8))
	m.cardTable.SetCursor(clamp(cardCursor, 0, max(0, min(m.cardView.Len(), m.opts.PageSize)-1)))
	m.focusTables()

	vpHeight := max(1, bodyHeight-m.inputHeight())
	for i := range m.viewports {
		m.viewports[i].Width = width
		m.viewports[i].Height = vpHeight
	}
	m.viewports[tabAnalytics].SetContent(renderAnalytics(m.state.Overall(), width))
	m.viewports[tabSearch].SetContent(renderResult("Search Terms", fmt.Sprintf("No results found for '%s'", m.search.term(0)), m.search.result, m.search.err, m.opts.PageSize, width))
	m.viewports[tabCombine].SetContent(renderResult("Combine Base Names", "No records found for these base names", m.combine.result, m.combine.err, m.opts.PageSize, width))
}
