package search

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/Zuo-Peng/whatsapp-chat-analyzer/internal/index"
	"github.com/Zuo-Peng/whatsapp-chat-analyzer/internal/parse"
)

type Result struct {
	ID         int     `db:"id"`
	LineNumber int     `db:"line_number"`
	Ts         string  `db:"ts"`
	Sender     string  `db:"sender"`
	Snippet    string  `db:"snip"`
	Rank       float64 `db:"rank"`
}

type Options struct {
	Query  string
	Sender string // "" = everyone except notifications
	Since  string // "" = no filter, e.g. "2024-01-01"
	Until  string // inclusive date, "2024-12-31"
	Limit  int
}

// containsCJK returns true if the string contains any CJK Unified Ideograph.
func containsCJK(s string) bool {
	for _, r := range s {
		if unicode.Is(unicode.Han, r) {
			return true
		}
	}
	return false
}

// makeSnippet extracts a snippet around the first occurrence of query in text.
func makeSnippet(text, query string, contextChars int) string {
	lower := strings.ToLower(text)
	qLower := strings.ToLower(query)
	idx := strings.Index(lower, qLower)
	if query == "" || idx < 0 || len(lower) != len(text) {
		// no match, return head
		if len([]rune(text)) > contextChars*2 {
			return string([]rune(text)[:contextChars*2]) + "..."
		}
		return text
	}
	runes := []rune(text)
	qRunes := []rune(query)
	// find rune position of idx
	runePos := len([]rune(text[:idx]))
	start := runePos - contextChars
	if start < 0 {
		start = 0
	}
	end := runePos + len(qRunes) + contextChars
	if end > len(runes) {
		end = len(runes)
	}
	prefix := ""
	suffix := ""
	if start > 0 {
		prefix = "..."
	}
	if end < len(runes) {
		suffix = "..."
	}
	// wrap the matched part with markers
	snippet := string(runes[start:runePos]) +
		">>>" + string(runes[runePos:runePos+len(qRunes)]) + "<<<" +
		string(runes[runePos+len(qRunes):end])
	return prefix + snippet + suffix
}

// ftsOperators pass through to FTS5 unquoted.
var ftsOperators = map[string]bool{"AND": true, "OR": true, "NOT": true}

// ftsQuery quotes each term so punctuation typed by the user ("tonight?")
// is not read as FTS5 syntax. A trailing * keeps prefix matching.
func ftsQuery(q string) string {
	terms := strings.Fields(q)
	for i, t := range terms {
		if ftsOperators[t] {
			continue
		}
		prefix := strings.HasSuffix(t, "*") && len(t) > 1
		t = strings.TrimSuffix(t, "*")
		t = `"` + strings.ReplaceAll(t, `"`, `""`) + `"`
		if prefix {
			t += "*"
		}
		terms[i] = t
	}
	return strings.Join(terms, " ")
}

func Search(db *index.DB, opts Options) ([]Result, error) {
	if opts.Limit <= 0 {
		opts.Limit = 100
	}
	if strings.TrimSpace(opts.Query) == "" {
		return nil, nil
	}
	if containsCJK(opts.Query) {
		return searchLike(db, opts)
	}
	return searchFTS(db, opts)
}

// filters returns the sender and date conditions shared by every query.
func filters(opts Options) ([]string, []interface{}) {
	var conditions []string
	var args []interface{}

	if opts.Sender != "" {
		conditions = append(conditions, "m.sender = ?")
		args = append(args, opts.Sender)
	} else {
		conditions = append(conditions, "m.sender != ?")
		args = append(args, parse.Notification)
	}

	if opts.Since != "" {
		conditions = append(conditions, "m.ts >= ?")
		args = append(args, opts.Since)
	}

	if opts.Until != "" {
		conditions = append(conditions, "substr(m.ts, 1, 10) <= ?")
		args = append(args, opts.Until)
	}
	return conditions, args
}

func searchFTS(db *index.DB, opts Options) ([]Result, error) {
	conditions := []string{"messages_fts MATCH ?"}
	args := []interface{}{ftsQuery(opts.Query)}

	fc, fa := filters(opts)
	conditions = append(conditions, fc...)
	args = append(args, fa...)

	where := strings.Join(conditions, " AND ")

	query := fmt.Sprintf(`
		SELECT
			m.id,
			m.line_number,
			m.ts,
			m.sender,
			snippet(messages_fts, 0, '>>>', '<<<', '...', 20) AS snip,
			bm25(messages_fts, 1.0) AS rank
		FROM messages_fts
		JOIN messages m ON messages_fts.rowid = m.id
		WHERE %s
		ORDER BY rank, m.id
		LIMIT ?
	`, where)
	args = append(args, opts.Limit)

	var results []Result
	if err := db.Raw().Select(&results, query, args...); err != nil {
		return nil, fmt.Errorf("search query: %w", err)
	}
	return results, nil
}

func searchLike(db *index.DB, opts Options) ([]Result, error) {
	conditions := []string{"m.text LIKE ?"}
	args := []interface{}{"%" + opts.Query + "%"}

	fc, fa := filters(opts)
	conditions = append(conditions, fc...)
	args = append(args, fa...)

	where := strings.Join(conditions, " AND ")

	query := fmt.Sprintf(`
		SELECT m.id, m.line_number, m.ts, m.sender, m.text
		FROM messages m
		WHERE %s
		ORDER BY m.ts DESC, m.id DESC
		LIMIT ?
	`, where)
	args = append(args, opts.Limit)

	rows, err := db.Raw().Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("search query: %w", err)
	}
	defer rows.Close()

	var results []Result
	for rows.Next() {
		var r Result
		var fullText string
		if err := rows.Scan(&r.ID, &r.LineNumber, &r.Ts, &r.Sender, &fullText); err != nil {
			return nil, err
		}
		r.Snippet = makeSnippet(fullText, opts.Query, 30)
		results = append(results, r)
	}
	return results, rows.Err()
}

// ListAll returns messages newest first. A non-empty Query keeps only
// messages containing it.
func ListAll(db *index.DB, opts Options) ([]Result, error) {
	if opts.Limit <= 0 {
		opts.Limit = 500
	}

	conditions, args := filters(opts)
	if opts.Query != "" {
		conditions = append(conditions, "m.text LIKE ?")
		args = append(args, "%"+opts.Query+"%")
	}

	query := fmt.Sprintf(`
		SELECT m.id, m.line_number, m.ts, m.sender, m.text
		FROM messages m
		WHERE %s
		ORDER BY m.ts DESC, m.id DESC
		LIMIT ?
	`, strings.Join(conditions, " AND "))
	args = append(args, opts.Limit)

	rows, err := db.Raw().Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list query: %w", err)
	}
	defer rows.Close()

	var results []Result
	for rows.Next() {
		var r Result
		var fullText string
		if err := rows.Scan(&r.ID, &r.LineNumber, &r.Ts, &r.Sender, &fullText); err != nil {
			return nil, err
		}
		r.Snippet = makeSnippet(fullText, opts.Query, 40)
		results = append(results, r)
	}
	return results, rows.Err()
}
