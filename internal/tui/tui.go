// Package tui is the interactive terminal browser: search over messages
// with a live conversation preview, and a per-user dashboard view.
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Zuo-Peng/whatsapp-chat-analyzer/internal/analysis"
	"github.com/Zuo-Peng/whatsapp-chat-analyzer/internal/index"
	"github.com/Zuo-Peng/whatsapp-chat-analyzer/internal/parse"
	"github.com/Zuo-Peng/whatsapp-chat-analyzer/internal/search"
)

const debounceDelay = 200 * time.Millisecond

type tuiMode int

const (
	modeSearch tuiMode = iota
	modeList
	modeBrowse
)

// Session is one loaded export.
type Session struct {
	Chat    string
	DB      *index.DB
	Result  *parse.Result
	Analyze analysis.Options // user and chat are filled in per dashboard
}

type itemsMsg struct {
	query string
	items []item
	err   error
}

type debounceTickMsg struct {
	query string
}

type model struct {
	session     *Session
	searchOpts  search.Options
	mode        tuiMode
	fromBrowse  bool // list mode entered from a user in browse mode
	query       string
	items       []item
	users       []item
	cursor      int
	listOffset  int
	filterInput textinput.Model
	preview     viewport.Model
	previewKey  string // avoids duplicate renders
	dashboards  map[string]string
	width       int
	height      int
	ready       bool
	quitting    bool
	selected    *item
	notice      string // last copy result, shown in the status bar
}

type copiedMsg struct {
	line string
	err  error
}

func newInput(placeholder, value string) textinput.Model {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Focus()
	ti.SetValue(value)
	ti.Prompt = "> "
	ti.PromptStyle = styleInputPrompt
	ti.TextStyle = styleInput
	ti.CharLimit = 256
	return ti
}

func newModel(s *Session, mode tuiMode, query string, opts search.Options) model {
	placeholder := "Search messages..."
	switch mode {
	case modeList:
		placeholder = "Filter messages..."
	case modeBrowse:
		placeholder = "Filter users..."
	}
	m := model{
		session:     s,
		searchOpts:  opts,
		mode:        mode,
		query:       query,
		filterInput: newInput(placeholder, query),
		preview:     viewport.New(0, 0),
		dashboards:  make(map[string]string),
	}
	if mode == modeBrowse {
		m.users = userItems(s.Result.Records)
	}
	return m
}

// Run starts the TUI on a search and blocks until it exits. A selected
// message is copied to the clipboard.
func Run(s *Session, query string, opts search.Options) error {
	return run(s, newModel(s, modeSearch, query, opts))
}

// RunList starts the TUI listing messages newest first.
func RunList(s *Session, opts search.Options) error {
	return run(s, newModel(s, modeList, "", opts))
}

// RunBrowse starts the TUI on the user list with a dashboard preview.
// Enter drills into the messages of a user.
func RunBrowse(s *Session) error {
	return run(s, newModel(s, modeBrowse, "", search.Options{}))
}

func run(s *Session, m model) error {
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	finalModel, err := p.Run()
	if err != nil {
		return fmt.Errorf("tui: %w", err)
	}
	if fm := finalModel.(model); fm.selected != nil {
		return copyMessage(s.DB, fm.selected.id)
	}
	return nil
}

// copyMessage puts the message in export syntax on the clipboard, or
// prints it when no clipboard is available.
func copyMessage(db *index.DB, id int) error {
	line, err := messageLine(db, id)
	if err != nil {
		return err
	}
	if err := clipboard.WriteAll(line); err != nil {
		fmt.Println(line)
		return nil
	}
	fmt.Printf("Copied to clipboard: %s\n", line)
	return nil
}

func messageLine(db *index.DB, id int) (string, error) {
	msg, err := db.GetMessage(id)
	if err != nil {
		return "", fmt.Errorf("get message: %w", err)
	}
	if msg == nil {
		return "", fmt.Errorf("message not found: %d", id)
	}
	return FormatMessage(msg), nil
}

// copyCmd copies a message without leaving the TUI.
func copyCmd(db *index.DB, id int) tea.Cmd {
	return func() tea.Msg {
		line, err := messageLine(db, id)
		if err == nil {
			err = clipboard.WriteAll(line)
		}
		return copiedMsg{line: line, err: err}
	}
}

// FormatMessage writes a stored message back in export syntax.
func FormatMessage(m *index.MessageRow) string {
	ts, err := time.Parse(index.TimeLayout, m.Ts)
	stamp := m.Ts
	if err == nil {
		stamp = ts.Format("1/2/06, 15:04")
	}
	if m.Sender == parse.Notification {
		return fmt.Sprintf("%s - %s", stamp, m.Text)
	}
	return fmt.Sprintf("%s - %s: %s", stamp, m.Sender, m.Text)
}

func (m model) Init() tea.Cmd {
	cmds := []tea.Cmd{textinput.Blink}
	switch {
	case m.mode == modeBrowse:
		cmds = append(cmds, m.doFilterUsers(""))
	case m.mode == modeList:
		cmds = append(cmds, m.doListAll(""))
	case m.query != "":
		cmds = append(cmds, m.doSearch(m.query))
	}
	return tea.Batch(cmds...)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.preview = viewport.New(m.previewWidth(), m.panelHeight())
		// dashboards are laid out for the old width
		m.dashboards = make(map[string]string)
		m.previewKey = ""
		cmds = append(cmds, m.loadCurrentPreview())
		return m, tea.Batch(cmds...)

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Back):
			if m.fromBrowse {
				return m.backToBrowse()
			}
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, keys.Select):
			if m.cursor >= len(m.items) {
				return m, nil
			}
			it := m.items[m.cursor]
			if m.mode == modeBrowse {
				return m.drillInto(it.user)
			}
			m.selected = &it
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, keys.Up):
			if m.cursor > 0 {
				m.cursor--
				m.adjustListScroll(m.panelHeight())
				cmds = append(cmds, m.loadCurrentPreview())
			}
			return m, tea.Batch(cmds...)

		case key.Matches(msg, keys.Down):
			if m.cursor < len(m.items)-1 {
				m.cursor++
				m.adjustListScroll(m.panelHeight())
				cmds = append(cmds, m.loadCurrentPreview())
			}
			return m, tea.Batch(cmds...)

		case key.Matches(msg, keys.First, keys.Last):
			if len(m.items) == 0 {
				return m, nil
			}
			m.cursor = 0
			if key.Matches(msg, keys.Last) {
				m.cursor = len(m.items) - 1
			}
			m.adjustListScroll(m.panelHeight())
			return m, m.loadCurrentPreview()

		case key.Matches(msg, keys.Copy):
			if m.mode == modeBrowse || m.cursor >= len(m.items) {
				return m, nil
			}
			return m, copyCmd(m.session.DB, m.items[m.cursor].id)

		case key.Matches(msg, keys.ScrollUp):
			m.preview.LineUp(m.panelHeight() / 2)
			return m, nil

		case key.Matches(msg, keys.ScrollDown):
			m.preview.LineDown(m.panelHeight() / 2)
			return m, nil

		case key.Matches(msg, keys.PageUp):
			m.preview.LineUp(m.panelHeight())
			return m, nil

		case key.Matches(msg, keys.PageDown):
			m.preview.LineDown(m.panelHeight())
			return m, nil
		}

		var tiCmd tea.Cmd
		m.filterInput, tiCmd = m.filterInput.Update(msg)
		cmds = append(cmds, tiCmd)

		if q := m.filterInput.Value(); q != m.query {
			m.query = q
			cmds = append(cmds, scheduleDebounced(q))
		}
		return m, tea.Batch(cmds...)

	case tea.MouseMsg:
		if !m.ready || len(m.items) == 0 {
			return m, nil
		}

		region, itemIdx := m.hitTest(msg.X, msg.Y)

		switch {
		case region == regionList && msg.Button == tea.MouseButtonWheelUp:
			if m.listOffset > 0 {
				m.listOffset--
			}
			return m, nil

		case region == regionList && msg.Button == tea.MouseButtonWheelDown:
			maxOffset := max(len(m.items)-m.panelHeight()/linesPerItem, 0)
			if m.listOffset < maxOffset {
				m.listOffset++
			}
			return m, nil

		case region == regionList && msg.Button == tea.MouseButtonLeft && msg.Action == tea.MouseActionPress:
			if itemIdx >= 0 && itemIdx < len(m.items) && m.cursor != itemIdx {
				m.cursor = itemIdx
				m.adjustListScroll(m.panelHeight())
				cmds = append(cmds, m.loadCurrentPreview())
			}
			return m, tea.Batch(cmds...)

		case region == regionPreview && (msg.Button == tea.MouseButtonWheelUp || msg.Button == tea.MouseButtonWheelDown):
			var vpCmd tea.Cmd
			m.preview, vpCmd = m.preview.Update(msg)
			if vpCmd != nil {
				cmds = append(cmds, vpCmd)
			}
			return m, tea.Batch(cmds...)
		}
		return m, nil

	case debounceTickMsg:
		// only fire if the query has not changed since scheduling
		if msg.query == m.query {
			cmds = append(cmds, m.refresh(msg.query))
		}
		return m, tea.Batch(cmds...)

	case itemsMsg:
		if msg.query != m.query {
			return m, nil
		}
		m.cursor = 0
		m.listOffset = 0
		m.previewKey = ""
		if msg.err != nil {
			m.items = nil
			m.preview.SetContent("Error: " + msg.err.Error())
			return m, nil
		}
		m.items = msg.items
		if len(m.items) == 0 {
			m.preview.SetContent("")
			return m, nil
		}
		return m, m.loadCurrentPreview()

	case copiedMsg:
		if msg.err != nil {
			m.notice = "copy failed: " + msg.err.Error()
		} else {
			m.notice = "copied"
		}
		return m, nil

	case previewRenderedMsg:
		if msg.key == m.previewKey {
			return m, nil
		}
		if m.cursor < len(m.items) && m.items[m.cursor].previewKey() != msg.key {
			return m, nil // stale
		}
		if msg.err != nil {
			m.preview.SetContent("Preview error: " + msg.err.Error())
		} else {
			m.preview.SetContent(msg.content)
			if msg.hitLine > 0 {
				m.preview.SetYOffset(msg.hitLine)
			} else {
				m.preview.GotoTop()
			}
			if strings.HasPrefix(msg.key, "user:") {
				m.dashboards[msg.key] = msg.content
			}
		}
		m.previewKey = msg.key
		return m, nil
	}

	return m, tea.Batch(cmds...)
}

// drillInto lists the messages of user, Overall meaning everyone.
func (m model) drillInto(user string) (tea.Model, tea.Cmd) {
	m.mode = modeList
	m.fromBrowse = true
	m.searchOpts.Sender = ""
	if user != analysis.Overall {
		m.searchOpts.Sender = user
	}
	m.query = ""
	m.filterInput = newInput("Filter "+user+"...", "")
	m.items = nil
	m.cursor, m.listOffset = 0, 0
	m.previewKey = ""
	return m, m.doListAll("")
}

func (m model) backToBrowse() (tea.Model, tea.Cmd) {
	m.mode = modeBrowse
	m.fromBrowse = false
	m.searchOpts.Sender = ""
	m.query = ""
	m.filterInput = newInput("Filter users...", "")
	m.items = nil
	m.cursor, m.listOffset = 0, 0
	m.previewKey = ""
	return m, m.doFilterUsers("")
}

func (m model) View() string {
	if m.quitting || !m.ready {
		return ""
	}

	listW := m.listWidth()
	previewW := m.previewWidth()
	panelH := m.panelHeight()

	listPanel := styleListPanel.
		Width(listW).
		Height(panelH).
		Render(m.renderList(listW, panelH))

	m.preview.Width = previewW
	m.preview.Height = panelH
	previewPanel := stylePreviewPanel.
		Width(previewW).
		Height(panelH).
		Render(m.preview.View())

	panels := lipgloss.JoinHorizontal(lipgloss.Top, listPanel, previewPanel)
	return lipgloss.JoinVertical(lipgloss.Left, m.filterInput.View(), panels, m.statusBar())
}

func (m model) listWidth() int {
	if m.width <= 0 {
		return 40
	}
	return max(m.width*40/100-4, 20)
}

func (m model) previewWidth() int {
	if m.width <= 0 {
		return 60
	}
	return max(m.width*60/100-4, 20)
}

func (m model) panelHeight() int {
	if m.height <= 0 {
		return 20
	}
	// input row, status bar and two borders per panel
	return max(m.height-6, 5)
}

type mouseRegion int

const (
	regionNone mouseRegion = iota
	regionList
	regionPreview
)

// hitTest maps terminal coordinates to a panel region and list item index.
func (m model) hitTest(x, y int) (mouseRegion, int) {
	contentYStart := 2 // input row + top border
	contentYEnd := contentYStart + m.panelHeight() - 1
	if y < contentYStart || y > contentYEnd {
		return regionNone, -1
	}
	relY := y - contentYStart

	lw := m.listWidth()
	if x >= 1 && x <= lw {
		return regionList, m.listOffset + relY/linesPerItem
	}
	if x > lw+2 {
		return regionPreview, -1
	}
	return regionNone, -1
}

func (m model) statusBar() string {
	bar := fmt.Sprintf("%s: %d | %s", m.session.Chat, len(m.items), helpLine(helpFor(m.mode, m.fromBrowse)))
	if m.notice != "" {
		bar += " " + styleNotice.Render(m.notice)
	}
	return styleStatusBar.Render(bar)
}

func (m model) refresh(query string) tea.Cmd {
	switch m.mode {
	case modeBrowse:
		return m.doFilterUsers(query)
	case modeList:
		return m.doListAll(query)
	default:
		return m.doSearch(query)
	}
}

func (m model) doSearch(query string) tea.Cmd {
	db := m.session.DB
	opts := m.searchOpts
	opts.Query = query
	return func() tea.Msg {
		results, err := search.Search(db, opts)
		return itemsMsg{query: query, items: toItems(results), err: err}
	}
}

func (m model) doListAll(filter string) tea.Cmd {
	db := m.session.DB
	opts := m.searchOpts
	opts.Query = filter
	return func() tea.Msg {
		results, err := search.ListAll(db, opts)
		return itemsMsg{query: filter, items: toItems(results), err: err}
	}
}

func (m model) doFilterUsers(filter string) tea.Cmd {
	users := m.users
	return func() tea.Msg {
		return itemsMsg{query: filter, items: filterItems(users, filter)}
	}
}

func toItems(results []search.Result) []item {
	items := make([]item, len(results))
	for i, r := range results {
		items[i] = resultItem(r)
	}
	return items
}

func scheduleDebounced(query string) tea.Cmd {
	return tea.Tick(debounceDelay, func(time.Time) tea.Msg {
		return debounceTickMsg{query: query}
	})
}

func (m model) loadCurrentPreview() tea.Cmd {
	if m.cursor >= len(m.items) {
		return nil
	}
	it := m.items[m.cursor]
	k := it.previewKey()
	if k == m.previewKey {
		return nil
	}
	if content, ok := m.dashboards[k]; ok {
		return func() tea.Msg {
			return previewRenderedMsg{key: k, content: content, hitLine: -1}
		}
	}
	return loadPreviewCmd(m.session, it, m.query, m.previewWidth())
}
