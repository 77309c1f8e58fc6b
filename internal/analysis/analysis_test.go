package analysis

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Zuo-Peng/whatsapp-chat-analyzer/internal/parse"
	"github.com/Zuo-Peng/whatsapp-chat-analyzer/internal/sentiment"
)

// 2/6/23 is a Monday, 1/2/23 a Monday too.
const sampleChat = `1/2/23, 10:00 - Alice: Hello there, pizza tonight?
1/2/23, 10:01 - Bob: PIZZA yes! 😂😂
1/2/23, 10:02 - Carol joined using this group's invite link
1/2/23, 23:30 - Alice: <Media omitted>
1/3/23, 09:15 - Bob: check https://example.com and www.golang.org
1/3/23, 09:16 - Alice: This message was deleted
2/6/23, 18:00 - Bob: I hate rainy days
2/6/23, 18:05 - Alice: love, great ❤️ 👍🏽
2/6/23, 18:06 - Carol: pizza pizza`

func sample(t *testing.T) []parse.Record {
	t.Helper()
	res, err := parse.ParseString(sampleChat, parse.Options{DateOrder: parse.OrderMDY})
	require.NoError(t, err)
	require.Len(t, res.Records, 9)
	return res.Records
}

func TestUsers(t *testing.T) {
	assert.Equal(t, []string{Overall, "Alice", "Bob", "Carol"}, Users(sample(t)))
	assert.Equal(t, []string{Overall}, Users(nil))
}

func TestFetchStats(t *testing.T) {
	recs := sample(t)

	all := FetchStats(Overall, recs)
	assert.Equal(t, 9, all.Messages)
	assert.Equal(t, 1, all.Media)
	assert.Equal(t, 2, all.Links)
	assert.Equal(t, 1, all.Deleted)
	assert.Equal(t, 34, all.Words)

	bob := FetchStats("Bob", recs)
	assert.Equal(t, Stats{Messages: 3, Words: 11, Links: 2}, bob)

	assert.Equal(t, Stats{}, FetchStats("Nobody", recs))
	assert.Equal(t, Stats{}, FetchStats(Overall, nil))
}

func TestMonthlyTimeline(t *testing.T) {
	got := MonthlyTimeline(Overall, sample(t))
	require.Len(t, got, 2)
	assert.Equal(t, MonthPoint{Year: 2023, Month: 1, Label: "January-2023", Count: 6}, got[0])
	assert.Equal(t, MonthPoint{Year: 2023, Month: 2, Label: "February-2023", Count: 3}, got[1])
}

func TestDailyTimeline(t *testing.T) {
	got := DailyTimeline("Alice", sample(t))
	require.Len(t, got, 3)
	assert.Equal(t, "2023-01-02", got[0].Date.Format("2006-01-02"))
	assert.Equal(t, 2, got[0].Count)
	assert.Equal(t, 1, got[1].Count)
	assert.True(t, got[1].Date.Before(got[2].Date))
}

func TestWeekAndMonthActivity(t *testing.T) {
	recs := sample(t)

	days := WeekActivity(Overall, recs)
	require.Len(t, days, 2)
	assert.Equal(t, NamedCount{Name: "Monday", Count: 7}, days[0])
	assert.Equal(t, NamedCount{Name: "Tuesday", Count: 2}, days[1])

	months := MonthActivity(Overall, recs)
	assert.Equal(t, []NamedCount{{"January", 6}, {"February", 3}}, months)

	assert.Empty(t, WeekActivity(Overall, nil))
}

func TestActivityHeatmap(t *testing.T) {
	h := ActivityHeatmap(Overall, sample(t))
	assert.Len(t, h.Days, 7)
	assert.Equal(t, "Monday", h.Days[0])
	require.Len(t, h.Periods, 24)
	assert.Equal(t, "00-01", h.Periods[0])
	assert.Equal(t, "23-00", h.Periods[23])

	assert.Equal(t, 3, h.Cells[0][10])
	assert.Equal(t, 1, h.Cells[0][23])
	assert.Equal(t, 2, h.Cells[1][9])
	assert.Equal(t, 3, h.Cells[0][18])
	assert.Equal(t, 3, h.Max())
}

func TestBusyUsers(t *testing.T) {
	top, shares := BusyUsers(sample(t), 2)
	assert.Equal(t, []NamedCount{{"Alice", 4}, {"Bob", 3}}, top)
	require.Len(t, shares, 3)
	assert.Equal(t, UserShare{Name: "Alice", Count: 4, Percent: 50}, shares[0])
	assert.Equal(t, UserShare{Name: "Bob", Count: 3, Percent: 37.5}, shares[1])
	assert.Equal(t, UserShare{Name: "Carol", Count: 1, Percent: 12.5}, shares[2])
	for _, sh := range shares {
		assert.NotEqual(t, parse.Notification, sh.Name)
	}

	top, shares = BusyUsers(nil, 5)
	assert.Empty(t, top)
	assert.Empty(t, shares)
}

func TestCommonWords(t *testing.T) {
	recs := sample(t)
	words := CommonWords(Overall, recs, DefaultStopwords(), 3)
	require.NotEmpty(t, words)
	assert.Equal(t, WordCount{Word: "pizza", Count: 4}, words[0])

	for _, w := range CommonWords(Overall, recs, DefaultStopwords(), 0) {
		assert.NotEqual(t, "the", w.Word)
		assert.NotContains(t, w.Word, "omitted")
		assert.NotContains(t, w.Word, "joined")
	}
}

func TestLoadStopwords(t *testing.T) {
	sw, err := LoadStopwords("")
	require.NoError(t, err)
	assert.True(t, sw["the"])
	assert.True(t, sw["hai"])

	path := filepath.Join(t.TempDir(), "stop.txt")
	require.NoError(t, os.WriteFile(path, []byte("# mine\nPizza\n"), 0o644))
	sw, err = LoadStopwords(path)
	require.NoError(t, err)
	assert.True(t, sw["pizza"])
	assert.False(t, sw["# mine"])

	words := CommonWords(Overall, sample(t), sw, 0)
	for _, w := range words {
		assert.NotEqual(t, "pizza", w.Word)
	}

	_, err = LoadStopwords(filepath.Join(t.TempDir(), "missing.txt"))
	assert.Error(t, err)
}

func TestEmojis(t *testing.T) {
	got := Emojis(Overall, sample(t))
	require.Len(t, got, 3)
	assert.Equal(t, EmojiCount{Emoji: "😂", Count: 2}, got[0])

	var clusters []string
	for _, e := range got {
		clusters = append(clusters, e.Emoji)
	}
	assert.Contains(t, clusters, "👍🏽")
	assert.Contains(t, clusters, "❤️")

	assert.Empty(t, Emojis("Carol", sample(t)))
}

func TestEmojis_Presentation(t *testing.T) {
	recs := []parse.Record{
		{Sender: "A", Text: "go 1️⃣ ‼️ ⏩ ©️ ↔️ ▶️ 🇮🇳 👩🏽‍💻"},
		{Sender: "A", Text: "done ✓ ★ © 2023 :) <3"},
	}
	got := Emojis(Overall, recs)

	var clusters []string
	for _, e := range got {
		clusters = append(clusters, e.Emoji)
	}
	for _, want := range []string{"1️⃣", "‼️", "⏩", "©️", "↔️", "▶️", "🇮🇳", "👩🏽‍💻"} {
		assert.Contains(t, clusters, want)
	}
	assert.Len(t, clusters, 8)
}

func TestIsEmoji(t *testing.T) {
	for _, s := range []string{"😂", "❤️", "👍🏽", "🙏", "™️", "✔️"} {
		assert.True(t, isEmoji(s), s)
	}
	for _, s := range []string{"✓", "★", "©", "a", "1", "#", ""} {
		assert.False(t, isEmoji(s), s)
	}
}

func TestDetectLanguage(t *testing.T) {
	recs := []parse.Record{
		{Sender: "A", Text: "The weather is lovely today and we are going to the beach together."},
		{Sender: "A", Text: "Remember to bring the sandwiches and something cold to drink for everyone."},
	}
	lang := DetectLanguage(Overall, recs)
	assert.Equal(t, "English", lang.Name)
	assert.Greater(t, lang.Confidence, 0.0)

	assert.Equal(t, Language{}, DetectLanguage(Overall, nil))
}

func TestSentimentByUser(t *testing.T) {
	got := SentimentByUser(sample(t), sentiment.New(), 10)

	names := func(ncs []NamedCount) []string {
		var out []string
		for _, nc := range ncs {
			out = append(out, nc.Name)
		}
		return out
	}
	assert.Contains(t, names(got.Negative), "Bob")
	assert.Contains(t, names(got.Positive), "Alice")
	for _, list := range [][]NamedCount{got.Positive, got.Neutral, got.Negative} {
		assert.NotContains(t, names(list), parse.Notification)
	}

	total := 0
	for _, list := range [][]NamedCount{got.Positive, got.Neutral, got.Negative} {
		for _, nc := range list {
			total += nc.Count
		}
	}
	assert.Equal(t, 8, total, "every user message gets exactly one label")
}

func TestAnalyze(t *testing.T) {
	res, err := parse.ParseString(sampleChat, parse.Options{})
	require.NoError(t, err)
	fixed := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	rep := Analyze(res, Options{Chat: "friends", Now: func() time.Time { return fixed }})
	assert.True(t, rep.IsOverall())
	assert.Equal(t, "friends", rep.Chat)
	assert.Equal(t, fixed, rep.GeneratedAt)
	assert.Equal(t, 9, rep.Stats.Messages)
	assert.NotEmpty(t, rep.BusyUsers)
	require.NotNil(t, rep.Sentiment)
	require.NotEmpty(t, rep.Cloud)
	assert.Equal(t, WordCount{Word: "pizza", Count: 4}, rep.Cloud[0])
	assert.GreaterOrEqual(t, len(rep.Cloud), len(rep.Words))

	rep = Analyze(res, Options{User: "Bob"})
	assert.False(t, rep.IsOverall())
	assert.Equal(t, 3, rep.Stats.Messages)
	assert.Nil(t, rep.BusyUsers)
	assert.Nil(t, rep.Sentiment)
	assert.True(t, strings.HasPrefix(rep.Monthly[0].Label, "January"))
}
