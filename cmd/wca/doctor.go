package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Zuo-Peng/whatsapp-chat-analyzer/internal/analysis"
	"github.com/Zuo-Peng/whatsapp-chat-analyzer/internal/config"
	"github.com/Zuo-Peng/whatsapp-chat-analyzer/internal/scan"
)

func doctorCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor <export>",
		Short: "Self-check: config, export resolution, parse and FTS5 diagnostics",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println("=== Config ===")
			if a.configPath != "" {
				checkFile("File", a.configPath)
			} else if p, err := config.Path(); err == nil {
				checkFile("File", p)
			}
			fmt.Printf("  date_order=%s strict=%v top_n=%d media_placeholder=%q\n",
				a.cfg.DateOrder, a.cfg.Strict, a.cfg.TopN, a.cfg.MediaPlaceholder)
			if a.cfg.StopwordsFile != "" {
				checkFile("Stopwords", a.cfg.StopwordsFile)
			}

			fmt.Println("\n=== Export ===")
			if info, err := os.Stat(args[0]); err == nil && info.IsDir() {
				files, err := scan.ScanDir(args[0])
				if err != nil {
					fmt.Printf("  scan error: %v\n", err)
				}
				for _, f := range files {
					fmt.Printf("  candidate: %s (%s, %d bytes)\n", f.Path, f.Kind, f.Size)
				}
			}
			l, err := a.load(args[0])
			if err != nil {
				fmt.Printf("  Status: FAILED (%v)\n", err)
				return nil
			}
			fmt.Printf("  Chat: %s\n  Path: %s\n  Size: %d bytes\n", l.src.Name, l.src.Path, len(l.src.Data))

			fmt.Println("\n=== Parse ===")
			st := l.result.Stats
			fmt.Printf("  Date order:    %s\n", st.DateOrder)
			fmt.Printf("  Lines:         %d\n", st.Lines)
			fmt.Printf("  Records:       %d\n", st.Records)
			fmt.Printf("  Notifications: %d\n", st.Notifications)
			fmt.Printf("  Media:         %d\n", st.Media)
			fmt.Printf("  Deleted:       %d\n", st.Deleted)
			fmt.Printf("  Continuations: %d\n", st.Continuations)
			fmt.Printf("  Dropped:       %d\n", st.Dropped)
			fmt.Printf("  Out of order:  %d\n", st.OutOfOrder)
			fmt.Printf("  Users:         %d\n", len(analysis.Users(l.result.Records))-1)

			fmt.Println("\n=== FTS5 ===")
			db, err := l.openIndex()
			if err != nil {
				fmt.Printf("  FTS5 error: %v\n", err)
				return nil
			}
			defer db.Close()

			n, err := db.MessageCount()
			if err != nil {
				return fmt.Errorf("count messages: %w", err)
			}
			fts, err := db.IndexedCount()
			if err != nil {
				fmt.Printf("  FTS5 error: %v\n", err)
				return nil
			}
			fmt.Printf("  FTS5 entries: %d\n", fts)
			if fts == n {
				fmt.Println("  Status: OK (synced)")
			} else {
				fmt.Printf("  Status: MISMATCH (messages=%d, fts=%d)\n", n, fts)
			}
			return nil
		},
	}
}

func checkFile(name, path string) {
	if info, err := os.Stat(path); err != nil {
		fmt.Printf("  %s: %s (NOT FOUND)\n", name, path)
	} else if info.IsDir() {
		fmt.Printf("  %s: %s (IS A DIRECTORY)\n", name, path)
	} else {
		fmt.Printf("  %s: %s (OK)\n", name, path)
	}
}
