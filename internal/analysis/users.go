package analysis

import (
	"math"
	"sort"
	"strconv"

	"github.com/Zuo-Peng/whatsapp-chat-analyzer/internal/parse"
	"github.com/Zuo-Peng/whatsapp-chat-analyzer/internal/sentiment"
)

type UserShare struct {
	Name    string  `json:"name"`
	Count   int     `json:"count"`
	Percent float64 `json:"percent"`
}

// BusyUsers returns the n busiest senders and the share of every sender,
// both ordered by count desc then name. Records from the
// group_notification pseudo-sender are left out of both the counts and
// the percentage base.
func BusyUsers(records []parse.Record, n int) (top []NamedCount, shares []UserShare) {
	counts := make(map[string]int)
	total := 0
	for _, r := range records {
		if r.IsNotification() {
			continue
		}
		counts[r.Sender]++
		total++
	}
	ranked := rank(counts)
	for _, nc := range ranked {
		shares = append(shares, UserShare{
			Name:    nc.Name,
			Count:   nc.Count,
			Percent: math.Round(float64(nc.Count)/float64(total)*10000) / 100,
		})
	}
	return head(ranked, n), shares
}

// SentimentUsers holds, per label, the senders with the most messages of
// that label.
type SentimentUsers struct {
	Positive []NamedCount `json:"positive"`
	Neutral  []NamedCount `json:"neutral"`
	Negative []NamedCount `json:"negative"`
}

// SentimentByUser classifies every user message and returns the top n
// senders per label. Records from the group_notification pseudo-sender
// are never scored, so it cannot appear under any label.
func SentimentByUser(records []parse.Record, sc sentiment.Scorer, n int) SentimentUsers {
	byLabel := map[sentiment.Label]map[string]int{
		sentiment.Positive: {},
		sentiment.Neutral:  {},
		sentiment.Negative: {},
	}
	for _, r := range records {
		if r.IsNotification() {
			continue
		}
		label := sentiment.Classify(sc.PolarityScores(r.Text))
		byLabel[label][r.Sender]++
	}
	return SentimentUsers{
		Positive: head(rank(byLabel[sentiment.Positive]), n),
		Neutral:  head(rank(byLabel[sentiment.Neutral]), n),
		Negative: head(rank(byLabel[sentiment.Negative]), n),
	}
}

// rank orders counts by value desc then key asc.
func rank(counts map[string]int) []NamedCount {
	out := make([]NamedCount, 0, len(counts))
	for k, v := range counts {
		out = append(out, NamedCount{Name: k, Count: v})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Name < out[j].Name
	})
	return out
}

func head[T any](s []T, n int) []T {
	if n > 0 && len(s) > n {
		return s[:n]
	}
	return s
}

func itoa(n int) string {
	return strconv.Itoa(n)
}
