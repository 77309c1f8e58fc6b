package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Zuo-Peng/whatsapp-chat-analyzer/internal/report"
)

func reportCmd(a *app) *cobra.Command {
	var user, format, output string

	cmd := &cobra.Command{
		Use:   "report <export>",
		Short: "Write a PDF or ZIP report bundle",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != "pdf" && format != "zip" {
				return fmt.Errorf("unknown format %q (want pdf or zip)", format)
			}
			l, err := a.load(args[0])
			if err != nil {
				return err
			}
			rep, err := a.analyze(l, user)
			if err != nil {
				return err
			}
			bundle, err := report.Build(rep)
			if err != nil {
				return err
			}

			if output == "" {
				output = strings.ReplaceAll(l.src.Name, "/", "_") + "-report." + format
			}
			f, err := os.Create(output)
			if err != nil {
				return err
			}
			if format == "zip" {
				err = report.WriteZIP(f, bundle)
			} else {
				err = report.WritePDF(f, bundle)
			}
			if cerr := f.Close(); err == nil {
				err = cerr
			}
			if err != nil {
				os.Remove(output)
				return fmt.Errorf("write %s: %w", output, err)
			}

			a.log.Info("report written", "path", output, "id", bundle.ID, "figures", len(bundle.Figures))
			fmt.Fprintf(os.Stderr, "Wrote %s\n", output)
			return nil
		},
	}

	cmd.Flags().StringVar(&user, "user", "", "Sender to analyze (default Overall)")
	cmd.Flags().StringVar(&format, "format", "pdf", "Bundle format: pdf or zip")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default <chat>-report.<format>)")
	return cmd
}
