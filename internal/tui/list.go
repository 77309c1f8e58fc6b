package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/Zuo-Peng/whatsapp-chat-analyzer/internal/analysis"
	"github.com/Zuo-Peng/whatsapp-chat-analyzer/internal/parse"
	"github.com/Zuo-Peng/whatsapp-chat-analyzer/internal/search"
)

// linesPerItem is the number of terminal lines each list entry occupies.
const linesPerItem = 2

// item is one list entry: a message hit or, in browse mode, a user.
type item struct {
	id       int    // message id, -1 for users
	user     string // sender, or the user a dashboard is for
	title    string
	subtitle string
}

func (it item) previewKey() string {
	if it.id >= 0 {
		return fmt.Sprintf("msg:%d", it.id)
	}
	return "user:" + it.user
}

func resultItem(r search.Result) item {
	// "2023-01-02 10:00:00" -> "01-02 10:00"
	ts := r.Ts
	if len(ts) >= 16 {
		ts = ts[5:16]
	}
	sender := styleSender.Render(r.Sender)
	if r.Sender == parse.Notification {
		sender = styleNotification.Render("notice")
	}
	return item{
		id:       r.ID,
		user:     r.Sender,
		title:    fmt.Sprintf("%s %s", ts, sender),
		subtitle: r.Snippet,
	}
}

func userItems(records []parse.Record) []item {
	users := analysis.Users(records)
	items := make([]item, 0, len(users))
	for _, u := range users {
		st := analysis.FetchStats(u, records)
		items = append(items, item{
			id:       -1,
			user:     u,
			title:    styleUser.Render(u),
			subtitle: fmt.Sprintf("%d messages, %d words, %d media", st.Messages, st.Words, st.Media),
		})
	}
	return items
}

// filterItems keeps the users whose name contains q, ignoring case.
// The Overall row stays pinned whatever q is.
func filterItems(items []item, q string) []item {
	if q == "" {
		return items
	}
	q = strings.ToLower(q)
	var out []item
	for _, it := range items {
		if it.user == analysis.Overall || strings.Contains(strings.ToLower(it.user), q) {
			out = append(out, it)
		}
	}
	return out
}

// renderList renders the left panel with scrolling.
func (m model) renderList(width, height int) string {
	if len(m.items) == 0 {
		return styleSubtitle.
			Width(width).
			Height(height).
			Align(lipgloss.Center, lipgloss.Center).
			Render("No results")
	}

	var lines []string
	for i, it := range m.items {
		if i < m.listOffset {
			continue
		}
		if len(lines)+linesPerItem > height {
			break
		}
		lines = append(lines, formatItem(it, width, i == m.cursor)...)
	}

	for len(lines) < height {
		lines = append(lines, strings.Repeat(" ", width))
	}
	return strings.Join(lines, "\n")
}

// formatItem formats an entry as two lines:
//
//	line 1: [>] title
//	line 2:    subtitle (dimmed)
func formatItem(it item, width int, selected bool) []string {
	line1 := it.title
	if selected {
		line1 = styleCursor.Render("> ") + line1
	} else {
		line1 = "  " + line1
	}

	sub := strings.NewReplacer("\n", " ", "\t", " ", ">>>", "", "<<<", "").Replace(it.subtitle)
	subMax := max(width-4, 0)
	if runewidth.StringWidth(sub) > subMax {
		sub = runewidth.Truncate(sub, subMax, "")
	}
	line2 := "    " + styleSubtitle.Render(sub)

	return []string{line1, line2}
}

// adjustListScroll keeps the cursor visible within the list viewport.
func (m *model) adjustListScroll(listHeight int) {
	visibleItems := max(listHeight/linesPerItem, 1)
	if m.cursor < m.listOffset {
		m.listOffset = m.cursor
	}
	if m.cursor >= m.listOffset+visibleItems {
		m.listOffset = m.cursor - visibleItems + 1
	}
}
