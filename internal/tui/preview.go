package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Zuo-Peng/whatsapp-chat-analyzer/internal/analysis"
	"github.com/Zuo-Peng/whatsapp-chat-analyzer/internal/render"
)

// previewRenderedMsg is sent when an async preview render completes.
type previewRenderedMsg struct {
	key     string
	content string
	hitLine int
	err     error
}

// loadPreviewCmd renders the conversation around a message, or the
// dashboard of a user in browse mode.
func loadPreviewCmd(s *Session, it item, query string, width int) tea.Cmd {
	key := it.previewKey()
	if it.id < 0 {
		user := it.user
		return func() tea.Msg {
			opts := s.Analyze
			opts.Chat = s.Chat
			opts.User = user
			rep := analysis.Analyze(s.Result, opts)
			return previewRenderedMsg{key: key, content: render.RenderStats(rep, width), hitLine: -1}
		}
	}
	id := it.id
	return func() tea.Msg {
		content, hitLine, err := render.RenderConversation(s.DB, render.Options{
			Chat:    s.Chat,
			HitID:   id,
			Context: -1,
			Width:   width,
			Query:   query,
		})
		return previewRenderedMsg{key: key, content: content, hitLine: hitLine, err: err}
	}
}
