// Package analysis computes the per-user aggregates shown in dashboards and
// reports. Every function takes the selected user and the records
// explicitly; Overall selects everyone.
package analysis

import (
	"sort"
	"strings"

	"github.com/Zuo-Peng/whatsapp-chat-analyzer/internal/parse"
)

// Overall selects every sender, notifications included where a count
// covers the whole export.
const Overall = "Overall"

// Users returns the sorted distinct senders with Overall first.
func Users(records []parse.Record) []string {
	seen := make(map[string]bool)
	var users []string
	for _, r := range records {
		if r.IsNotification() || seen[r.Sender] {
			continue
		}
		seen[r.Sender] = true
		users = append(users, r.Sender)
	}
	sort.Strings(users)
	return append([]string{Overall}, users...)
}

// Select returns the records of user, or all records for Overall.
func Select(user string, records []parse.Record) []parse.Record {
	if user == "" || user == Overall {
		return records
	}
	var out []parse.Record
	for _, r := range records {
		if r.Sender == user {
			out = append(out, r)
		}
	}
	return out
}

type Stats struct {
	Messages int `json:"messages"`
	Words    int `json:"words"`
	Media    int `json:"media"`
	Links    int `json:"links"`
	Deleted  int `json:"deleted"`
}

// FetchStats counts messages, whitespace separated words, media
// placeholders, links and deleted messages.
func FetchStats(user string, records []parse.Record) Stats {
	var s Stats
	for _, r := range Select(user, records) {
		s.Messages++
		s.Words += len(strings.Fields(r.Text))
		s.Links += len(r.URLs)
		if r.IsMedia {
			s.Media++
		}
		if r.IsDeleted {
			s.Deleted++
		}
	}
	return s
}
