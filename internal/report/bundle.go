// Package report assembles the figures and tables of an analysis into
// downloadable PDF and ZIP bundles.
package report

import (
	"fmt"
	"strconv"

	"github.com/google/uuid"

	"github.com/Zuo-Peng/whatsapp-chat-analyzer/internal/analysis"
	"github.com/Zuo-Peng/whatsapp-chat-analyzer/internal/chart"
)

const Title = "WhatsApp Chat Analysis Report"

type Table struct {
	Name   string // file stem, "emoji_analysis"
	Title  string
	Header []string
	Rows   [][]string
}

type Bundle struct {
	ID      uuid.UUID
	Report  *analysis.Report
	Figures []chart.Figure
	Tables  []Table
}

// Build renders the figures of rep and lays out its tables.
func Build(rep *analysis.Report) (*Bundle, error) {
	figs, err := chart.Figures(rep)
	if err != nil {
		return nil, fmt.Errorf("build figures: %w", err)
	}
	b := &Bundle{
		ID:      uuid.New(),
		Report:  rep,
		Figures: figs,
	}

	emoji := Table{Name: "emoji_analysis", Title: "Emoji Analysis", Header: []string{"Emoji", "Count"}}
	for _, e := range rep.Emojis {
		emoji.Rows = append(emoji.Rows, []string{e.Emoji, strconv.Itoa(e.Count)})
	}
	b.Tables = append(b.Tables, emoji)

	if rep.IsOverall() {
		users := Table{Name: "busy_users", Title: "Most Busy Users", Header: []string{"Name", "Messages", "Percent"}}
		for _, u := range rep.UserShares {
			users.Rows = append(users.Rows, []string{u.Name, strconv.Itoa(u.Count), strconv.FormatFloat(u.Percent, 'f', 2, 64)})
		}
		b.Tables = append(b.Tables, users)
	}

	words := Table{Name: "common_words", Title: "Most Common Words", Header: []string{"Word", "Count"}}
	for _, w := range rep.Words {
		words.Rows = append(words.Rows, []string{w.Word, strconv.Itoa(w.Count)})
	}
	b.Tables = append(b.Tables, words)
	return b, nil
}

// HeatmapTable lays out the weekday by period counts, one row per day.
func HeatmapTable(h *analysis.Heatmap) Table {
	t := Table{Name: "activity_heatmap", Title: "Weekly Activity Map"}
	t.Header = append([]string{"Day"}, h.Periods...)
	for i, day := range h.Days {
		row := make([]string, 0, len(h.Periods)+1)
		row = append(row, day)
		for _, v := range h.Cells[i] {
			row = append(row, strconv.Itoa(v))
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}
