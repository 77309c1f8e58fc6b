package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/Zuo-Peng/whatsapp-chat-analyzer/internal/search"
	"github.com/Zuo-Peng/whatsapp-chat-analyzer/internal/tui"
)

const (
	sColorReset   = "\033[0m"
	sColorBoldRed = "\033[1;31m"
	sColorGreen   = "\033[1;32m"
	sColorDim     = "\033[2m"
)

func colorizeSnippet(snippet string) string {
	snippet = strings.ReplaceAll(snippet, ">>>", sColorBoldRed)
	return strings.ReplaceAll(snippet, "<<<", sColorReset)
}

func searchCmd(a *app) *cobra.Command {
	var opts search.Options

	cmd := &cobra.Command{
		Use:   "search <export> [query]",
		Short: "Full-text search over the messages of an export",
		Long: `Search messages with FTS5. Without a query, lists messages newest first.
When stdout is a terminal an interactive browser opens; otherwise the output
is TSV for fzf:
  id, timestamp, sender, snippet

Example:
  wca search chat.txt pizza | fzf --ansi --delimiter='\t' --with-nth=2.. \
    --preview 'wca preview chat.txt --at {1} --context 5 --query {q}' \
    --bind 'enter:execute(wca open chat.txt --at {1})'`,
		Args: cobra.RangeArgs(1, 2),
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

			query := ""
			if len(args) == 2 {
				query = args[1]
			}

			// interactive when stdout is a terminal, TSV for pipes
			if term.IsTerminal(int(os.Stdout.Fd())) {
				s, err := a.tuiSession(l, db)
				if err != nil {
					return err
				}
				if query == "" {
					return tui.RunList(s, opts)
				}
				return tui.Run(s, query, opts)
			}

			opts.Query = query
			var results []search.Result
			if query == "" {
				results, err = search.ListAll(db, opts)
			} else {
				results, err = search.Search(db, opts)
			}
			if err != nil {
				return err
			}
			if len(results) == 0 {
				fmt.Fprintln(os.Stderr, "No results found.")
				return nil
			}

			clean := strings.NewReplacer("\t", " ", "\n", " ")
			for _, r := range results {
				// the id stays plain for fzf {1}
				fmt.Printf("%d\t%s%s%s\t%s%s%s\t%s\n",
					r.ID,
					sColorDim, r.Ts, sColorReset,
					sColorGreen, clean.Replace(r.Sender), sColorReset,
					colorizeSnippet(clean.Replace(r.Snippet)),
				)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.Sender, "sender", "", "Only messages from this sender")
	cmd.Flags().StringVar(&opts.Since, "since", "", "Only messages on or after this date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&opts.Until, "until", "", "Only messages on or before this date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&opts.Limit, "limit", 100, "Max results")
	return cmd
}
