package render

import (
	"fmt"
	"strings"

	"github.com/Zuo-Peng/whatsapp-chat-analyzer/internal/index"
	"github.com/Zuo-Peng/whatsapp-chat-analyzer/internal/parse"
)

type Options struct {
	Chat    string // shown in the header
	HitID   int    // message to center on, -1 for none
	Context int    // messages before/after the hit, negative for all
	Width   int    // wrap width, 0 = no wrap
	Query   string // terms to highlight
}

// RenderConversation renders the messages around opts.HitID. It returns
// the text and the 0-based line of the hit header, -1 without a hit.
func RenderConversation(db *index.DB, opts Options) (string, int, error) {
	if opts.Context == 0 {
		opts.Context = 10
	}
	if opts.Context < 0 {
		opts.Context = 1 << 30
	}

	rows, hitIdx, startPos, total, err := db.GetMessagesWindow(opts.HitID, opts.Context)
	if err != nil {
		return "", -1, fmt.Errorf("get messages: %w", err)
	}
	if total == 0 {
		return "(empty chat)", -1, nil
	}

	w := &lineWriter{width: opts.Width}
	hitLine := -1
	w.line(fmt.Sprintf("%s--- %s (%d messages) ---%s", colorDim, opts.Chat, total, colorReset))
	if startPos > 0 {
		w.line(fmt.Sprintf("%s... (%d messages before) ...%s", colorDim, startPos, colorReset))
	}

	for i, m := range rows {
		if i == hitIdx {
			hitLine = w.lines
			w.line(fmt.Sprintf("%s>> %s  %s  #%d <<%s", colorHit, m.Sender, m.Ts, m.ID, colorReset))
		} else if m.Sender == parse.Notification {
			w.line(fmt.Sprintf("%s%s  %s%s", colorDim, m.Ts, m.Text, colorReset))
			continue
		} else {
			w.line(fmt.Sprintf("%s%s%s  %s%s%s", senderColor(m.Sender), m.Sender, colorReset, colorDim, m.Ts, colorReset))
		}

		text := m.Text
		switch {
		case m.IsMedia:
			text = colorItalic + colorDim + "[media] " + text + colorReset
		case m.IsDeleted:
			text = colorItalic + colorDim + text + colorReset
		default:
			text = highlightKeywords(text, opts.Query)
		}
		for _, tl := range strings.Split(indentLines(text, "  "), "\n") {
			w.line(tl)
		}
	}

	if after := total - startPos - len(rows); after > 0 {
		w.line(fmt.Sprintf("%s... (%d messages after) ...%s", colorDim, after, colorReset))
	}
	return w.String(), hitLine, nil
}
