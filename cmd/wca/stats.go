package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/Zuo-Peng/whatsapp-chat-analyzer/internal/render"
)

func statsCmd(a *app) *cobra.Command {
	var user string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "stats <export>",
		Short: "Print the statistics dashboard of a chat or one user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := a.load(args[0])
			if err != nil {
				return err
			}
			rep, err := a.analyze(l, user)
			if err != nil {
				return err
			}
			if asJSON {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(rep)
			}

			width := 80
			if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
				width = w
			}
			fmt.Print(render.RenderStats(rep, width))
			return nil
		},
	}

	cmd.Flags().StringVar(&user, "user", "", "Sender to analyze (default Overall)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the report as JSON")
	return cmd
}
