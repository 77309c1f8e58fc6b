package report

import (
	"bytes"
	"fmt"
	"io"

	"github.com/go-pdf/fpdf"

	"github.com/Zuo-Peng/whatsapp-chat-analyzer/internal/analysis"
	"github.com/Zuo-Peng/whatsapp-chat-analyzer/internal/chart"
)

const (
	font       = "Helvetica"
	lineHeight = 8.0
)

// WritePDF writes the bundle as an A4 document: top statistics, every
// figure under its heading, the activity heatmap and the tables.
func WritePDF(w io.Writer, b *Bundle) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(Title, true)
	pdf.SetAutoPageBreak(true, 15)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pageW, _ := pdf.GetPageSize()
	left, _, right, _ := pdf.GetMargins()
	bodyW := pageW - left - right

	pdf.AddPage()
	pdf.SetFont(font, "B", 16)
	pdf.CellFormat(bodyW, 12, Title, "", 1, "C", false, 0, "")

	rep := b.Report
	pdf.SetFont(font, "", 11)
	pdf.CellFormat(bodyW, lineHeight, tr(fmt.Sprintf("Chat: %s    User: %s", rep.Chat, rep.User)), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	writeStats(pdf, bodyW, rep)

	for _, fig := range b.Figures {
		heading(pdf, bodyW, fig.Title)
		opts := fpdf.ImageOptions{ImageType: "PNG"}
		info := pdf.RegisterImageOptionsReader(fig.Name, opts, bytes.NewReader(fig.PNG))
		w := bodyW
		// square figures such as the word cloud would fill the page
		if info != nil && info.Height() >= info.Width() {
			w = bodyW * 0.6
		}
		pdf.ImageOptions(fig.Name, left+(bodyW-w)/2, pdf.GetY(), w, 0, true, opts, 0, "")
		pdf.Ln(4)
		// the heatmap follows the busy month chart
		if fig.Name == "busy_month" {
			writeHeatmap(pdf, tr, rep.Heatmap)
		}
	}

	for _, t := range b.Tables {
		writeTable(pdf, tr, bodyW, t)
	}

	if pdf.Err() {
		return fmt.Errorf("build pdf: %w", pdf.Error())
	}
	return pdf.Output(w)
}

func heading(pdf *fpdf.Fpdf, w float64, title string) {
	pdf.SetFont(font, "B", 13)
	pdf.CellFormat(w, 10, title, "", 1, "L", false, 0, "")
	pdf.SetFont(font, "", 10)
}

func writeStats(pdf *fpdf.Fpdf, w float64, rep *analysis.Report) {
	heading(pdf, w, "Top Statistics")
	cells := []struct {
		label string
		value int
	}{
		{"Total Messages", rep.Stats.Messages},
		{"Total Words", rep.Stats.Words},
		{"Media Shared", rep.Stats.Media},
		{"Links Shared", rep.Stats.Links},
		{"Deleted", rep.Stats.Deleted},
	}
	cellW := w / float64(len(cells))
	pdf.SetFillColor(220, 248, 198)
	pdf.SetFont(font, "B", 9)
	for _, c := range cells {
		pdf.CellFormat(cellW, lineHeight, c.label, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)
	pdf.SetFont(font, "", 12)
	for _, c := range cells {
		pdf.CellFormat(cellW, lineHeight, fmt.Sprint(c.value), "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)
	if lang := rep.Language; lang.Name != "" {
		pdf.SetFont(font, "", 10)
		pdf.CellFormat(w, lineHeight, fmt.Sprintf("Language: %s (confidence %.2f)", lang.Name, lang.Confidence), "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)
}

// writeHeatmap draws the weekday by period counts as a table shaded from
// white to dark red by value.
func writeHeatmap(pdf *fpdf.Fpdf, tr func(string) string, h *analysis.Heatmap) {
	if h == nil {
		return
	}
	const labelW, cellW, cellH = 20.0, 7.0, 6.0
	top := h.Max()

	heading(pdf, labelW+cellW*float64(len(h.Periods)), "Weekly Activity Map")
	pdf.SetFont(font, "", 5)
	pdf.SetFillColor(200, 200, 200)
	pdf.CellFormat(labelW, cellH, "", "1", 0, "C", true, 0, "")
	for _, p := range h.Periods {
		pdf.CellFormat(cellW, cellH, p, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	for i, day := range h.Days {
		pdf.SetFont(font, "B", 7)
		pdf.SetFillColor(200, 200, 200)
		pdf.SetTextColor(0, 0, 0)
		pdf.CellFormat(labelW, cellH, tr(day), "1", 0, "L", true, 0, "")
		pdf.SetFont(font, "", 6)
		for _, v := range h.Cells[i] {
			r, g, bl := shade(v, top)
			pdf.SetFillColor(r, g, bl)
			if g < 128 {
				pdf.SetTextColor(255, 255, 255)
			} else {
				pdf.SetTextColor(0, 0, 0)
			}
			pdf.CellFormat(cellW, cellH, fmt.Sprint(v), "1", 0, "C", true, 0, "")
		}
		pdf.Ln(-1)
	}
	pdf.SetTextColor(0, 0, 0)
	pdf.Ln(4)
}

// shade maps v in [0, top] onto white..(128, 0, 0).
func shade(v, top int) (int, int, int) {
	if top == 0 {
		return 255, 255, 255
	}
	f := float64(v) / float64(top)
	return 255 - int(127*f), 255 - int(255*f), 255 - int(255*f)
}

func writeTable(pdf *fpdf.Fpdf, tr func(string) string, w float64, t Table) {
	heading(pdf, w, t.Title)
	if len(t.Rows) == 0 {
		pdf.CellFormat(w, lineHeight, "No data", "", 1, "L", false, 0, "")
		pdf.Ln(4)
		return
	}
	colW := w / float64(len(t.Header))
	pdf.SetFillColor(200, 200, 200)
	pdf.SetFont(font, "B", 10)
	for _, h := range t.Header {
		pdf.CellFormat(colW, lineHeight, tr(h), "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)
	pdf.SetFont(font, "", 10)
	for _, row := range t.Rows {
		for i, cell := range row {
			if t.Name == "emoji_analysis" && i == 0 {
				// the core fonts have no emoji glyphs
				cell = chart.CodePoints(cell)
			}
			pdf.CellFormat(colW, lineHeight, tr(cell), "1", 0, "C", false, 0, "")
		}
		pdf.Ln(-1)
	}
	pdf.Ln(4)
}
