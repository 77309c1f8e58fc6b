// Package chart renders report figures as PNG images.
package chart

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/Zuo-Peng/whatsapp-chat-analyzer/internal/analysis"
)

// ErrNoData is returned for a series too small to plot.
var ErrNoData = errors.New("chart: not enough data")

const (
	width  = 1024
	height = 512
)

var (
	green     = drawing.ColorFromHex("25D366")
	teal      = drawing.ColorFromHex("128C7E")
	orange    = drawing.ColorFromHex("FFA500")
	grey      = drawing.ColorFromHex("808080")
	red       = drawing.ColorFromHex("D62728")
	steelBlue = drawing.ColorFromHex("1F77B4")
)

// Figure is one rendered chart.
type Figure struct {
	Name  string // file stem, "monthly_timeline"
	Title string
	PNG   []byte
}

// MonthlyTimeline plots messages per month as a line.
func MonthlyTimeline(points []analysis.MonthPoint) ([]byte, error) {
	if len(points) < 2 {
		return nil, ErrNoData
	}
	xs := make([]float64, len(points))
	ys := make([]float64, len(points))
	ticks := make([]gochart.Tick, len(points))
	for i, p := range points {
		xs[i] = float64(i)
		ys[i] = float64(p.Count)
		ticks[i] = gochart.Tick{Value: float64(i), Label: p.Label}
	}
	rng := countRange(ys)
	if rng == nil {
		return nil, ErrNoData
	}
	graph := gochart.Chart{
		Width:  width,
		Height: height,
		Background: gochart.Style{
			Padding: gochart.Box{Top: 20, Left: 20, Right: 20, Bottom: 20},
		},
		XAxis: gochart.XAxis{
			Ticks: ticks,
			Style: gochart.Style{TextRotationDegrees: 90},
		},
		YAxis: gochart.YAxis{Range: rng},
		Series: []gochart.Series{
			gochart.ContinuousSeries{
				Name:    "messages",
				Style:   gochart.Style{StrokeColor: green, StrokeWidth: 2},
				XValues: xs,
				YValues: ys,
			},
		},
	}
	return render(graph.Render)
}

// DailyTimeline plots messages per calendar date as a line.
func DailyTimeline(points []analysis.DayPoint) ([]byte, error) {
	if len(points) < 2 {
		return nil, ErrNoData
	}
	xs := make([]time.Time, len(points))
	ys := make([]float64, len(points))
	for i, p := range points {
		xs[i] = p.Date
		ys[i] = float64(p.Count)
	}
	rng := countRange(ys)
	if rng == nil {
		return nil, ErrNoData
	}
	graph := gochart.Chart{
		Width:  width,
		Height: height,
		Background: gochart.Style{
			Padding: gochart.Box{Top: 20, Left: 20, Right: 20, Bottom: 20},
		},
		XAxis: gochart.XAxis{
			ValueFormatter: gochart.TimeValueFormatterWithFormat("2006-01-02"),
			Style:          gochart.Style{TextRotationDegrees: 90},
		},
		YAxis: gochart.YAxis{Range: rng},
		Series: []gochart.Series{
			gochart.TimeSeries{
				Name:    "messages",
				Style:   gochart.Style{StrokeColor: teal, StrokeWidth: 2},
				XValues: xs,
				YValues: ys,
			},
		},
	}
	return render(graph.Render)
}

// Bars plots named counts as a bar chart in the given order.
func Bars(title string, items []analysis.NamedCount, color drawing.Color) ([]byte, error) {
	values := make([]gochart.Value, 0, len(items))
	for _, it := range items {
		values = append(values, gochart.Value{Label: it.Name, Value: float64(it.Count)})
	}
	return bars(title, values, color)
}

// CommonWords plots the word counts as bars.
func CommonWords(words []analysis.WordCount) ([]byte, error) {
	values := make([]gochart.Value, 0, len(words))
	for _, w := range words {
		values = append(values, gochart.Value{Label: w.Word, Value: float64(w.Count)})
	}
	return bars("Most Common Words", values, steelBlue)
}

// EmojiPie plots the share of the five most used emoji. Labels carry the
// code points since the chart font has no emoji glyphs.
func EmojiPie(emojis []analysis.EmojiCount) ([]byte, error) {
	if len(emojis) > 5 {
		emojis = emojis[:5]
	}
	total := 0
	for _, e := range emojis {
		total += e.Count
	}
	if total == 0 {
		return nil, ErrNoData
	}
	values := make([]gochart.Value, 0, len(emojis))
	for _, e := range emojis {
		values = append(values, gochart.Value{
			Label: fmt.Sprintf("%s %.2f%%", CodePoints(e.Emoji), float64(e.Count)*100/float64(total)),
			Value: float64(e.Count),
		})
	}
	pie := gochart.PieChart{
		Title:  "Top 5 Emojis",
		Width:  height,
		Height: height,
		Values: values,
	}
	return render(pie.Render)
}

// CodePoints spells an emoji cluster as "U+1F44D U+1F3FD".
func CodePoints(s string) string {
	parts := make([]string, 0, 2)
	for _, r := range s {
		parts = append(parts, fmt.Sprintf("%U", r))
	}
	return strings.Join(parts, " ")
}

func bars(title string, values []gochart.Value, color drawing.Color) ([]byte, error) {
	ys := make([]float64, len(values))
	for i := range values {
		values[i].Style = gochart.Style{FillColor: color, StrokeColor: color}
		ys[i] = values[i].Value
	}
	rng := countRange(ys)
	if rng == nil {
		return nil, ErrNoData
	}
	barWidth := 40
	if len(values) > 12 {
		barWidth = 20
	}
	graph := gochart.BarChart{
		Title:  title,
		Width:  width,
		Height: height,
		Background: gochart.Style{
			Padding: gochart.Box{Top: 40, Bottom: 20},
		},
		BarWidth: barWidth,
		XAxis:    gochart.Style{TextRotationDegrees: 90},
		YAxis:    gochart.YAxis{Range: rng},
		Bars:     values,
	}
	return render(graph.Render)
}

// countRange spans 0 to a little above the largest count; nil when there
// is nothing above zero.
func countRange(ys []float64) *gochart.ContinuousRange {
	top := 0.0
	for _, y := range ys {
		if y > top {
			top = y
		}
	}
	if top == 0 {
		return nil
	}
	return &gochart.ContinuousRange{Min: 0, Max: top * 1.1}
}

func render(fn func(gochart.RendererProvider, io.Writer) error) ([]byte, error) {
	var buf bytes.Buffer
	if err := fn(gochart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("render chart: %w", err)
	}
	return buf.Bytes(), nil
}
