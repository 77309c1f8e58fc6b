package analysis

import (
	"sort"
	"time"

	"github.com/Zuo-Peng/whatsapp-chat-analyzer/internal/parse"
)

type MonthPoint struct {
	Year  int    `json:"year"`
	Month int    `json:"month"`
	Label string `json:"label"` // "January-2023"
	Count int    `json:"count"`
}

type DayPoint struct {
	Date  time.Time `json:"date"`
	Count int       `json:"count"`
}

type NamedCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// Weekdays lists day names Monday first, the row order of the heatmap.
var Weekdays = []string{
	"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday",
}

var monthNames = func() []string {
	names := make([]string, 12)
	for m := time.January; m <= time.December; m++ {
		names[m-1] = m.String()
	}
	return names
}()

// MonthlyTimeline counts messages per calendar month in chronological order.
func MonthlyTimeline(user string, records []parse.Record) []MonthPoint {
	idx := make(map[int]int)
	var out []MonthPoint
	for _, r := range Select(user, records) {
		key := r.Year*100 + r.Month
		i, ok := idx[key]
		if !ok {
			i = len(out)
			idx[key] = i
			out = append(out, MonthPoint{
				Year:  r.Year,
				Month: r.Month,
				Label: r.MonthName + "-" + itoa(r.Year),
			})
		}
		out[i].Count++
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Year != out[j].Year {
			return out[i].Year < out[j].Year
		}
		return out[i].Month < out[j].Month
	})
	return out
}

// DailyTimeline counts messages per calendar date present in the export.
func DailyTimeline(user string, records []parse.Record) []DayPoint {
	idx := make(map[time.Time]int)
	var out []DayPoint
	for _, r := range Select(user, records) {
		d := r.OnlyDate()
		i, ok := idx[d]
		if !ok {
			i = len(out)
			idx[d] = i
			out = append(out, DayPoint{Date: d})
		}
		out[i].Count++
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}

// WeekActivity counts messages per weekday, busiest first.
func WeekActivity(user string, records []parse.Record) []NamedCount {
	return countBy(Select(user, records), Weekdays, func(r parse.Record) string { return r.DayName })
}

// MonthActivity counts messages per month name, busiest first.
func MonthActivity(user string, records []parse.Record) []NamedCount {
	return countBy(Select(user, records), monthNames, func(r parse.Record) string { return r.MonthName })
}

// countBy counts keys present in records, sorted by count desc and then by
// their position in order.
func countBy(records []parse.Record, order []string, key func(parse.Record) string) []NamedCount {
	counts := make(map[string]int)
	for _, r := range records {
		counts[key(r)]++
	}
	out := make([]NamedCount, 0, len(counts))
	for _, name := range order {
		if n := counts[name]; n > 0 {
			out = append(out, NamedCount{Name: name, Count: n})
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	return out
}

// Heatmap holds message counts per weekday (rows, Monday first) and hour
// period (columns, "00-01" to "23-00").
type Heatmap struct {
	Days    []string   `json:"days"`
	Periods []string   `json:"periods"`
	Cells   [7][24]int `json:"cells"`
}

// Max returns the largest cell value.
func (h *Heatmap) Max() int {
	m := 0
	for _, row := range h.Cells {
		for _, v := range row {
			if v > m {
				m = v
			}
		}
	}
	return m
}

func ActivityHeatmap(user string, records []parse.Record) *Heatmap {
	h := &Heatmap{Days: Weekdays, Periods: make([]string, 24)}
	for hour := range h.Periods {
		h.Periods[hour] = parse.PeriodLabel(hour)
	}
	for _, r := range Select(user, records) {
		// time.Weekday counts from Sunday
		row := (int(r.Timestamp.Weekday()) + 6) % 7
		h.Cells[row][r.Hour]++
	}
	return h
}
