package render

import (
	"hash/fnv"
	"strings"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"
)

const (
	colorReset   = "\033[0m"
	colorBold    = "\033[1m"
	colorDim     = "\033[2m"
	colorItalic  = "\033[3m"
	colorHit     = "\033[43m"   // yellow background
	colorBoldRed = "\033[1;31m" // keyword highlights
	colorGreen   = "\033[32m"
)

// senderColors are bold foregrounds handed out to senders by name hash.
var senderColors = []string{
	"\033[1;34m", "\033[1;32m", "\033[1;35m", "\033[1;36m", "\033[1;33m", "\033[1;91m", "\033[1;94m",
}

func senderColor(name string) string {
	h := fnv.New32a()
	h.Write([]byte(name))
	return senderColors[h.Sum32()%uint32(len(senderColors))]
}

// queryOperators are search operators that are not highlighted.
var queryOperators = map[string]bool{"AND": true, "OR": true, "NOT": true}

// highlightKeywords wraps case-insensitive matches of the query terms in
// bold red. Prefix terms ("piz*") match their stem.
func highlightKeywords(text, query string) string {
	// byte offsets only carry over when lower-casing keeps the length
	if len(strings.ToLower(text)) != len(text) {
		return text
	}
	for _, term := range strings.Fields(query) {
		if queryOperators[term] {
			continue
		}
		term = strings.Trim(term, `"*`)
		if term == "" || len(strings.ToLower(term)) != len(term) {
			continue
		}
		lower := strings.ToLower(term)
		for i := 0; i < len(text); {
			idx := strings.Index(strings.ToLower(text[i:]), lower)
			if idx < 0 {
				break
			}
			pos := i + idx
			end := pos + len(term)
			replacement := colorBoldRed + text[pos:end] + colorReset
			text = text[:pos] + replacement + text[end:]
			i = pos + len(replacement)
		}
	}
	return text
}

func indentLines(text, prefix string) string {
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = prefix + l
	}
	return strings.Join(lines, "\n")
}

// wrapLine breaks line into pieces of at most maxWidth visible columns,
// skipping ANSI escape sequences when measuring.
func wrapLine(line string, maxWidth int) []string {
	if maxWidth <= 0 {
		return []string{line}
	}

	var result []string
	var cur strings.Builder
	visW := 0

	for i := 0; i < len(line); {
		if i+1 < len(line) && line[i] == '\033' && line[i+1] == '[' {
			j := i + 2
			for j < len(line) && line[j] != 'm' {
				j++
			}
			if j < len(line) {
				j++
			}
			cur.WriteString(line[i:j])
			i = j
			continue
		}

		r, size := utf8.DecodeRuneInString(line[i:])
		rw := runewidth.RuneWidth(r)
		if visW+rw > maxWidth {
			result = append(result, cur.String())
			cur.Reset()
			visW = 0
		}
		cur.WriteRune(r)
		visW += rw
		i += size
	}

	if cur.Len() > 0 {
		result = append(result, cur.String())
	}
	if len(result) == 0 {
		return []string{""}
	}
	return result
}

// lineWriter counts the lines it writes, wrapping at width.
type lineWriter struct {
	b     strings.Builder
	width int
	lines int
}

func (w *lineWriter) line(s string) {
	for _, wl := range wrapLine(s, w.width) {
		w.b.WriteString(wl)
		w.b.WriteByte('\n')
		w.lines++
	}
}

func (w *lineWriter) String() string {
	return w.b.String()
}
