package parse

import (
	"fmt"
	"time"
)

// Notification is the sender recorded for system events such as joins,
// subject changes and encryption notices.
const Notification = "group_notification"

// DefaultMediaPlaceholder is what Android exports write instead of an
// attachment when media is excluded.
const DefaultMediaPlaceholder = "<Media omitted>"

var deletedMarkers = []string{
	"This message was deleted",
	"You deleted this message",
}

type Record struct {
	ID         int       `json:"id"`        // 0-based position in the export
	LineNumber int       `json:"line"`      // 1-based line of the header in the export
	Timestamp  time.Time `json:"timestamp"` // wall clock time as written in the export
	Sender     string    `json:"sender"`    // display name or Notification
	Text       string    `json:"text"`
	IsMedia    bool      `json:"is_media"`
	IsDeleted  bool      `json:"is_deleted"`
	URLs       []string  `json:"urls,omitempty"`

	Year      int    `json:"year"`
	Month     int    `json:"month"`
	MonthName string `json:"month_name"`
	Day       int    `json:"day"`
	DayName   string `json:"day_name"`
	Hour      int    `json:"hour"`
	Minute    int    `json:"minute"`
	Period    string `json:"period"` // hour bucket, "10-11", "23-00"
}

// IsNotification reports whether the record is a system event.
func (r Record) IsNotification() bool {
	return r.Sender == Notification
}

// OnlyDate returns the calendar date of the message at midnight.
func (r Record) OnlyDate() time.Time {
	return time.Date(r.Year, time.Month(r.Month), r.Day, 0, 0, 0, 0, r.Timestamp.Location())
}

// PeriodLabel returns the hour bucket label used by activity heatmaps.
func PeriodLabel(hour int) string {
	return fmt.Sprintf("%02d-%02d", hour, (hour+1)%24)
}

func (r *Record) derive() {
	ts := r.Timestamp
	r.Year = ts.Year()
	r.Month = int(ts.Month())
	r.MonthName = ts.Month().String()
	r.Day = ts.Day()
	r.DayName = ts.Weekday().String()
	r.Hour = ts.Hour()
	r.Minute = ts.Minute()
	r.Period = PeriodLabel(r.Hour)
}

type Stats struct {
	Lines         int       `json:"lines"`
	Records       int       `json:"records"`
	Notifications int       `json:"notifications"`
	Media         int       `json:"media"`
	Deleted       int       `json:"deleted"`
	Continuations int       `json:"continuations"` // lines appended to a preceding message
	Dropped       int       `json:"dropped"`       // fragments that could not be attributed or dated
	OutOfOrder    int       `json:"out_of_order"`  // records older than the record before them
	DateOrder     DateOrder `json:"date_order"`
}

func (s Stats) String() string {
	return fmt.Sprintf("lines=%d records=%d notifications=%d media=%d deleted=%d continuations=%d dropped=%d out_of_order=%d order=%s",
		s.Lines, s.Records, s.Notifications, s.Media, s.Deleted, s.Continuations, s.Dropped, s.OutOfOrder, s.DateOrder)
}

type Result struct {
	Records []Record
	Stats   Stats
}

// Senders returns the distinct senders in order of first appearance,
// notifications excluded.
func (r *Result) Senders() []string {
	seen := make(map[string]bool)
	var out []string
	for _, rec := range r.Records {
		if rec.IsNotification() || seen[rec.Sender] {
			continue
		}
		seen[rec.Sender] = true
		out = append(out, rec.Sender)
	}
	return out
}
