package parse

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

type DateOrder string

const (
	OrderAuto DateOrder = "auto"
	OrderMDY  DateOrder = "mdy"
	OrderDMY  DateOrder = "dmy"
)

// ParseDateOrder maps a config or flag value to a DateOrder.
func ParseDateOrder(s string) (DateOrder, error) {
	switch DateOrder(strings.ToLower(strings.TrimSpace(s))) {
	case "", OrderAuto:
		return OrderAuto, nil
	case OrderMDY:
		return OrderMDY, nil
	case OrderDMY:
		return OrderDMY, nil
	}
	return "", fmt.Errorf("unknown date order %q (want auto, mdy or dmy)", s)
}

// stampPattern captures the date and time fields shared by both header
// forms. Groups: 1-3 date fields, 4 hour, 5 minute, 6 seconds, 7 am/pm.
const stampPattern = `(\d{1,2})/(\d{1,2})/(\d{2}|\d{4}), (\d{1,2}):(\d{2})(?::(\d{2}))?(?:[ \x{202F}\x{00A0}]?([AaPp]\.?[Mm]\.?))?`

// headerRe matches the Android "date, time - " prefix.
var headerRe = regexp.MustCompile(`^` + stampPattern + ` - `)

// bracketRe matches the iOS "[date, time] " prefix, which may carry a
// leading left-to-right mark.
var bracketRe = regexp.MustCompile(`^\x{200E}?\[` + stampPattern + `\] `)

// stamp holds the raw numeric fields of a header before the date order
// is known.
type stamp struct {
	a, b, year     int
	hour, min, sec int
	meridiem       string
}

// matchHeader splits a line into its timestamp fields and the remainder
// after the header.
func matchHeader(line string) (stamp, string, bool) {
	m := headerRe.FindStringSubmatchIndex(line)
	if m == nil {
		m = bracketRe.FindStringSubmatchIndex(line)
	}
	if m == nil {
		return stamp{}, "", false
	}
	group := func(i int) string {
		if m[2*i] < 0 {
			return ""
		}
		return line[m[2*i]:m[2*i+1]]
	}
	num := func(i int) int {
		n, _ := strconv.Atoi(group(i))
		return n
	}
	st := stamp{
		a:        num(1),
		b:        num(2),
		year:     num(3),
		hour:     num(4),
		min:      num(5),
		sec:      num(6),
		meridiem: strings.ToLower(strings.ReplaceAll(group(7), ".", "")),
	}
	if len(group(3)) == 2 {
		st.year += 2000
	}
	return st, line[m[1]:], true
}

// resolve converts the raw fields into a time under the given order.
func (s stamp) resolve(order DateOrder, loc *time.Location) (time.Time, error) {
	month, day := s.a, s.b
	if order == OrderDMY {
		month, day = s.b, s.a
	}
	if month < 1 || month > 12 {
		return time.Time{}, fmt.Errorf("month %d out of range", month)
	}
	if day < 1 || day > daysIn(time.Month(month), s.year) {
		return time.Time{}, fmt.Errorf("day %d out of range for %s %d", day, time.Month(month), s.year)
	}

	hour := s.hour
	switch s.meridiem {
	case "am", "pm":
		if hour < 1 || hour > 12 {
			return time.Time{}, fmt.Errorf("hour %d out of range for 12-hour clock", hour)
		}
		if hour == 12 {
			hour = 0
		}
		if s.meridiem == "pm" {
			hour += 12
		}
	default:
		if hour > 23 {
			return time.Time{}, fmt.Errorf("hour %d out of range", hour)
		}
	}
	if s.min > 59 || s.sec > 59 {
		return time.Time{}, fmt.Errorf("time %02d:%02d:%02d out of range", s.hour, s.min, s.sec)
	}
	return time.Date(s.year, time.Month(month), day, hour, s.min, s.sec, 0, loc), nil
}

func daysIn(m time.Month, year int) int {
	return time.Date(year, m+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// detectOrder picks the field order from the headers seen. A first field
// above 12 can only be a day. Ambiguous exports fall back to month first.
func detectOrder(stamps []stamp) DateOrder {
	for _, s := range stamps {
		if s.a > 12 {
			return OrderDMY
		}
	}
	return OrderMDY
}
