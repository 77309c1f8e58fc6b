package main

import (
	"github.com/spf13/cobra"

	"github.com/Zuo-Peng/whatsapp-chat-analyzer/internal/open"
)

func openCmd(a *app) *cobra.Command {
	var id int

	cmd := &cobra.Command{
		Use:   "open <export>",
		Short: "Open the export in $EDITOR at a message",
		Args:  cobra.ExactArgs(1),
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

			return open.Message(l.src, db, id)
		},
	}

	cmd.Flags().IntVar(&id, "at", -1, "Message id to jump to")
	return cmd
}
