package analysis

import (
	"time"

	"github.com/Zuo-Peng/whatsapp-chat-analyzer/internal/parse"
	"github.com/Zuo-Peng/whatsapp-chat-analyzer/internal/sentiment"
)

// Report is every aggregate of one selected user, ready for rendering.
type Report struct {
	Chat        string          `json:"chat"`
	User        string          `json:"user"`
	GeneratedAt time.Time       `json:"generated_at"`
	Parse       parse.Stats     `json:"parse"`
	Stats       Stats           `json:"stats"`
	Monthly     []MonthPoint    `json:"monthly_timeline"`
	Daily       []DayPoint      `json:"daily_timeline"`
	BusyDays    []NamedCount    `json:"busy_days"`
	BusyMonths  []NamedCount    `json:"busy_months"`
	Heatmap     *Heatmap        `json:"heatmap"`
	BusyUsers   []NamedCount    `json:"busy_users,omitempty"`
	UserShares  []UserShare     `json:"user_shares,omitempty"`
	Sentiment   *SentimentUsers `json:"sentiment,omitempty"`
	Words       []WordCount     `json:"common_words"`
	Cloud       []WordCount     `json:"wordcloud"`
	Emojis      []EmojiCount    `json:"emojis"`
	Language    Language        `json:"language"`
}

// IsOverall reports whether the report covers the whole group. Busy users
// and sentiment rankings only exist then.
func (r *Report) IsOverall() bool {
	return r.User == "" || r.User == Overall
}

// cloudWords caps the words kept for the word cloud.
const cloudWords = 150

type Options struct {
	Chat      string
	User      string
	TopN      int
	Stopwords Stopwords
	Scorer    sentiment.Scorer
	Now       func() time.Time
}

// Analyze builds the report of opts.User over res.
func Analyze(res *parse.Result, opts Options) *Report {
	if opts.User == "" {
		opts.User = Overall
	}
	if opts.TopN <= 0 {
		opts.TopN = 10
	}
	if opts.Stopwords == nil {
		opts.Stopwords = DefaultStopwords()
	}
	if opts.Scorer == nil {
		opts.Scorer = sentiment.New()
	}
	now := time.Now
	if opts.Now != nil {
		now = opts.Now
	}

	recs := res.Records
	r := &Report{
		Chat:        opts.Chat,
		User:        opts.User,
		GeneratedAt: now(),
		Parse:       res.Stats,
		Stats:       FetchStats(opts.User, recs),
		Monthly:     MonthlyTimeline(opts.User, recs),
		Daily:       DailyTimeline(opts.User, recs),
		BusyDays:    WeekActivity(opts.User, recs),
		BusyMonths:  MonthActivity(opts.User, recs),
		Heatmap:     ActivityHeatmap(opts.User, recs),
		Words:       CommonWords(opts.User, recs, opts.Stopwords, opts.TopN*2),
		Cloud:       CommonWords(opts.User, recs, opts.Stopwords, cloudWords),
		Emojis:      Emojis(opts.User, recs),
		Language:    DetectLanguage(opts.User, recs),
	}
	if r.IsOverall() {
		r.BusyUsers, r.UserShares = BusyUsers(recs, opts.TopN)
		s := SentimentByUser(recs, opts.Scorer, opts.TopN)
		r.Sentiment = &s
	}
	return r
}
