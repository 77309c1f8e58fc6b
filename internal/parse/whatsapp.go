package parse

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"mvdan.cc/xurls/v2"
)

const maxLineSize = 10 * 1024 * 1024 // 10MB

// ErrMalformed is returned in strict mode for text that cannot be
// attributed to a dated message.
var ErrMalformed = errors.New("malformed export")

var urlRe = xurls.Relaxed()

type Options struct {
	DateOrder        DateOrder
	MediaPlaceholder string
	// Strict turns dropped fragments into ErrMalformed.
	Strict   bool
	Location *time.Location
}

// entry is a message as collected from the raw lines, before the
// timestamp is resolved.
type entry struct {
	line   int
	stamp  stamp
	sender string
	lines  []string
}

func ParseString(data string, opts Options) (*Result, error) {
	return Parse(strings.NewReader(data), opts)
}

// Parse reads one exported chat and returns its messages in export order.
// A line starting with the timestamp prefix opens a new message; any other
// line continues the message before it.
func Parse(r io.Reader, opts Options) (*Result, error) {
	if opts.MediaPlaceholder == "" {
		opts.MediaPlaceholder = DefaultMediaPlaceholder
	}
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.DateOrder == "" {
		opts.DateOrder = OrderAuto
	}

	result := &Result{}
	var entries []entry

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimRight(scanner.Text(), "\r")
		if lineNum == 1 {
			line = strings.TrimPrefix(line, "\ufeff")
		}

		st, rest, ok := matchHeader(line)
		if !ok {
			if len(entries) == 0 {
				if strings.TrimSpace(line) == "" {
					continue
				}
				if opts.Strict {
					return nil, fmt.Errorf("%w: line %d: text before first message", ErrMalformed, lineNum)
				}
				result.Stats.Dropped++
				continue
			}
			last := &entries[len(entries)-1]
			last.lines = append(last.lines, line)
			result.Stats.Continuations++
			continue
		}

		e := entry{line: lineNum, stamp: st}
		if sender, text, found := strings.Cut(rest, ": "); found && sender != "" {
			e.sender = sender
			e.lines = []string{text}
		} else {
			e.sender = Notification
			e.lines = []string{rest}
		}
		entries = append(entries, e)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read export: %w", err)
	}
	result.Stats.Lines = lineNum

	order := opts.DateOrder
	if order == OrderAuto {
		stamps := make([]stamp, len(entries))
		for i, e := range entries {
			stamps[i] = e.stamp
		}
		order = detectOrder(stamps)
	}
	result.Stats.DateOrder = order

	var prev time.Time
	for _, e := range entries {
		ts, err := e.stamp.resolve(order, opts.Location)
		if err != nil {
			if opts.Strict {
				return nil, fmt.Errorf("%w: line %d: %v", ErrMalformed, e.line, err)
			}
			result.Stats.Dropped++
			continue
		}

		rec := Record{
			ID:         len(result.Records),
			LineNumber: e.line,
			Timestamp:  ts,
			Sender:     e.sender,
			Text:       strings.Join(e.lines, "\n"),
		}
		rec.derive()
		classify(&rec, opts.MediaPlaceholder)

		if !prev.IsZero() && ts.Before(prev) {
			result.Stats.OutOfOrder++
		}
		prev = ts

		switch {
		case rec.IsNotification():
			result.Stats.Notifications++
		case rec.IsMedia:
			result.Stats.Media++
		case rec.IsDeleted:
			result.Stats.Deleted++
		}
		result.Records = append(result.Records, rec)
	}
	result.Stats.Records = len(result.Records)

	return result, nil
}

// classify fills the media, deleted and URL fields from the text.
func classify(rec *Record, placeholder string) {
	if rec.IsNotification() {
		return
	}
	body := strings.Trim(rec.Text, " \u200e\u200f")
	if body == placeholder {
		rec.IsMedia = true
		return
	}
	for _, m := range deletedMarkers {
		if body == m {
			rec.IsDeleted = true
			return
		}
	}
	rec.URLs = urlRe.FindAllString(rec.Text, -1)
}
