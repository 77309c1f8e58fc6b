package main

import (
	"github.com/spf13/cobra"

	"github.com/Zuo-Peng/whatsapp-chat-analyzer/internal/tui"
)

func browseCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "browse <export>",
		Short: "Browse users and their dashboards interactively",
		Long: `Opens a TUI listing every sender with Overall first. The right panel shows
the dashboard of the selected user; Enter lists that user's messages and
Esc goes back. Type to filter users by name.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := a.load(args[0])
			if err != nil {
				return err
			}
			db, err := l.openIndex()
			if err != nil {
				return err
			}
			defer db.Close()

			s, err := a.tuiSession(l, db)
			if err != nil {
				return err
			}
			return tui.RunBrowse(s)
		},
	}
}
