package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
)

type keyMap struct {
	Up, Down         key.Binding
	First, Last      key.Binding
	ScrollUp         key.Binding
	ScrollDown       key.Binding
	PageUp, PageDown key.Binding
	Select           key.Binding
	Copy             key.Binding
	Back             key.Binding
}

func binding(keys []string, help, desc string) key.Binding {
	return key.NewBinding(key.WithKeys(keys...), key.WithHelp(help, desc))
}

var keys = keyMap{
	Up:         binding([]string{"up", "ctrl+k"}, "up", "prev"),
	Down:       binding([]string{"down", "ctrl+j"}, "dn", "next"),
	First:      binding([]string{"home"}, "home", "first"),
	Last:       binding([]string{"end"}, "end", "last"),
	ScrollUp:   binding([]string{"ctrl+u"}, "C-u", "scroll up"),
	ScrollDown: binding([]string{"ctrl+d"}, "C-d", "scroll down"),
	PageUp:     binding([]string{"pgup"}, "pgup", "page up"),
	PageDown:   binding([]string{"pgdown"}, "pgdn", "page down"),
	Select:     binding([]string{"enter"}, "enter", "copy and quit"),
	Copy:       binding([]string{"ctrl+y"}, "C-y", "copy"),
	Back:       binding([]string{"esc", "ctrl+c"}, "esc", "quit"),
}

// helpFor lists the bindings shown in the status bar for a mode.
func helpFor(mode tuiMode, fromBrowse bool) []key.Binding {
	switch mode {
	case modeBrowse:
		sel := keys.Select
		sel.SetHelp("enter", "messages")
		return []key.Binding{keys.Up, keys.Down, keys.ScrollDown, sel, keys.Back}
	default:
		back := keys.Back
		if fromBrowse {
			back.SetHelp("esc", "users")
		}
		return []key.Binding{keys.Up, keys.Down, keys.ScrollDown, keys.Copy, keys.Select, back}
	}
}

func helpLine(bindings []key.Binding) string {
	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}
	return strings.Join(parts, " | ")
}
