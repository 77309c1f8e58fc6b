package render

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/Zuo-Peng/whatsapp-chat-analyzer/internal/analysis"
)

// heatShades are 256-color backgrounds from cold to hot.
var heatShades = []int{236, 52, 88, 124, 160, 196, 202, 208, 214, 220}

// RenderStats renders a report as a terminal dashboard. Width bounds the
// bar charts; 0 means 80 columns.
func RenderStats(rep *analysis.Report, width int) string {
	if width <= 0 {
		width = 80
	}
	w := &lineWriter{}

	w.line(fmt.Sprintf("%sWhatsApp Chat Analysis%s  %s%s / %s%s", colorBold, colorReset, colorDim, rep.Chat, rep.User, colorReset))
	w.line("")

	section(w, "Top Statistics")
	s := rep.Stats
	w.line(fmt.Sprintf("  messages %s%d%s   words %s%d%s   media %s%d%s   links %s%d%s   deleted %s%d%s",
		colorBold, s.Messages, colorReset, colorBold, s.Words, colorReset,
		colorBold, s.Media, colorReset, colorBold, s.Links, colorReset,
		colorBold, s.Deleted, colorReset))
	if rep.Language.Name != "" {
		w.line(fmt.Sprintf("  language %s (%.2f)", rep.Language.Name, rep.Language.Confidence))
	}
	if p := rep.Parse; p.Dropped > 0 || p.OutOfOrder > 0 {
		w.line(fmt.Sprintf("  %sdropped %d fragments, %d records out of order%s", colorDim, p.Dropped, p.OutOfOrder, colorReset))
	}

	monthly := make([]analysis.NamedCount, len(rep.Monthly))
	for i, m := range rep.Monthly {
		monthly[i] = analysis.NamedCount{Name: m.Label, Count: m.Count}
	}
	barSection(w, "Monthly Timeline", monthly, width)
	barSection(w, "Most Busy Day", rep.BusyDays, width)
	barSection(w, "Most Busy Month", rep.BusyMonths, width)

	if rep.Heatmap != nil {
		section(w, "Weekly Activity Map")
		heatmap(w, rep.Heatmap)
	}

	if rep.IsOverall() {
		section(w, "Most Busy Users")
		rows := make([][]string, 0, len(rep.UserShares))
		for _, u := range rep.UserShares {
			rows = append(rows, []string{u.Name, fmt.Sprint(u.Count), fmt.Sprintf("%.2f", u.Percent)})
		}
		table(w, []string{"Name", "Messages", "Percent"}, rows)

		if st := rep.Sentiment; st != nil {
			barSection(w, "Most Positive Users", st.Positive, width)
			barSection(w, "Most Neutral Users", st.Neutral, width)
			barSection(w, "Most Negative Users", st.Negative, width)
		}
	}

	section(w, "Emoji Analysis")
	rows := make([][]string, 0, len(rep.Emojis))
	for _, e := range rep.Emojis {
		rows = append(rows, []string{e.Emoji, fmt.Sprint(e.Count)})
	}
	table(w, []string{"Emoji", "Count"}, rows)

	words := make([]analysis.NamedCount, len(rep.Words))
	for i, wc := range rep.Words {
		words[i] = analysis.NamedCount{Name: wc.Word, Count: wc.Count}
	}
	barSection(w, "Most Common Words", words, width)
	return w.String()
}

func section(w *lineWriter, title string) {
	w.line("")
	w.line(colorBold + title + colorReset)
}

// barSection draws one horizontal bar per item, scaled to the largest.
func barSection(w *lineWriter, title string, items []analysis.NamedCount, width int) {
	section(w, title)
	if len(items) == 0 {
		w.line(colorDim + "  (no data)" + colorReset)
		return
	}
	labelW, top := 0, 0
	for _, it := range items {
		labelW = max(labelW, runewidth.StringWidth(it.Name))
		top = max(top, it.Count)
	}
	labelW = min(labelW, 24)
	barW := max(width-labelW-12, 10)
	for _, it := range items {
		n := 0
		if top > 0 {
			n = it.Count * barW / top
		}
		label := runewidth.FillRight(runewidth.Truncate(it.Name, labelW, "…"), labelW)
		w.line(fmt.Sprintf("  %s %s%s%s %d", label, colorGreen, strings.Repeat("█", n), colorReset, it.Count))
	}
}

func heatmap(w *lineWriter, h *analysis.Heatmap) {
	top := h.Max()
	var hdr strings.Builder
	hdr.WriteString("            ")
	for hour := range h.Periods {
		if hour%3 == 0 {
			hdr.WriteString(fmt.Sprintf("%-6s", fmt.Sprintf("%02d", hour)))
		}
	}
	w.line(colorDim + hdr.String() + colorReset)

	for i, day := range h.Days {
		var row strings.Builder
		row.WriteString("  " + runewidth.FillRight(day, 10))
		for _, v := range h.Cells[i] {
			shade := 0
			if top > 0 && v > 0 {
				shade = 1 + v*(len(heatShades)-2)/top
			}
			row.WriteString(fmt.Sprintf("\033[48;5;%dm  %s", heatShades[shade], colorReset))
		}
		w.line(row.String())
	}
	w.line(fmt.Sprintf("%s  max %d messages per hour slot%s", colorDim, top, colorReset))
}

func table(w *lineWriter, header []string, rows [][]string) {
	if len(rows) == 0 {
		w.line(colorDim + "  (no data)" + colorReset)
		return
	}
	widths := make([]int, len(header))
	for i, h := range header {
		widths[i] = runewidth.StringWidth(h)
	}
	for _, r := range rows {
		for i, c := range r {
			widths[i] = max(widths[i], runewidth.StringWidth(c))
		}
	}
	format := func(cells []string) string {
		parts := make([]string, len(cells))
		for i, c := range cells {
			parts[i] = runewidth.FillRight(c, widths[i])
		}
		return "  " + strings.Join(parts, "  ")
	}
	w.line(colorBold + format(header) + colorReset)
	for _, r := range rows {
		w.line(format(r))
	}
}
