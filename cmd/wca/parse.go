package main

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Zuo-Peng/whatsapp-chat-analyzer/internal/index"
	"github.com/Zuo-Peng/whatsapp-chat-analyzer/internal/parse"
)

var recordHeader = []string{"id", "line", "timestamp", "sender", "text", "media", "deleted", "urls"}

func recordRow(r parse.Record) []string {
	return []string{
		strconv.Itoa(r.ID),
		strconv.Itoa(r.LineNumber),
		r.Timestamp.Format(index.TimeLayout),
		r.Sender,
		r.Text,
		strconv.FormatBool(r.IsMedia),
		strconv.FormatBool(r.IsDeleted),
		strings.Join(r.URLs, " "),
	}
}

func parseCmd(a *app) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "parse <export>",
		Short: "Parse an export and print its messages",
		Long: `Parse a chat export (.txt, .zip or a directory holding one) and print
one message per line. TSV escapes tabs and newlines in the text; csv and
json keep them.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := a.load(args[0])
			if err != nil {
				return err
			}
			return writeRecords(os.Stdout, l.result.Records, format)
		},
	}

	cmd.Flags().StringVar(&format, "format", "tsv", "Output format: tsv, csv or json")
	return cmd
}

func writeRecords(w io.Writer, records []parse.Record, format string) error {
	switch format {
	case "tsv":
		esc := strings.NewReplacer("\t", `\t`, "\n", `\n`)
		fmt.Fprintln(w, strings.Join(recordHeader, "\t"))
		for _, r := range records {
			row := recordRow(r)
			for i := range row {
				row[i] = esc.Replace(row[i])
			}
			fmt.Fprintln(w, strings.Join(row, "\t"))
		}
		return nil
	case "csv":
		cw := csv.NewWriter(w)
		if err := cw.Write(recordHeader); err != nil {
			return err
		}
		for _, r := range records {
			if err := cw.Write(recordRow(r)); err != nil {
				return err
			}
		}
		cw.Flush()
		return cw.Error()
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(records)
	default:
		return fmt.Errorf("unknown format %q (want tsv, csv or json)", format)
	}
}
