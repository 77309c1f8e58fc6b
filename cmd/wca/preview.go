package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Zuo-Peng/whatsapp-chat-analyzer/internal/render"
)

func previewCmd(a *app) *cobra.Command {
	var opts render.Options

	cmd := &cobra.Command{
		Use:   "preview <export>",
		Short: "Show the conversation around a message",
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

			opts.Chat = l.src.Name
			out, _, err := render.RenderConversation(db, opts)
			if err != nil {
				return err
			}
			fmt.Print(out)
			return nil
		},
	}

	cmd.Flags().IntVar(&opts.HitID, "at", -1, "Message id to center on")
	cmd.Flags().IntVar(&opts.Context, "context", 10, "Messages before/after the message to show")
	cmd.Flags().IntVar(&opts.Width, "width", 0, "Wrap width (0 = no wrap)")
	cmd.Flags().StringVar(&opts.Query, "query", "", "Terms to highlight")
	return cmd
}
