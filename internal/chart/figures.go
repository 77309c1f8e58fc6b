package chart

import (
	"errors"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/Zuo-Peng/whatsapp-chat-analyzer/internal/analysis"
)

type figureSpec struct {
	name, title string
	draw        func() ([]byte, error)
}

// Figures renders every chart of rep in report order. Charts without
// enough data are left out.
func Figures(rep *analysis.Report) ([]Figure, error) {
	specs := figureSpecs(rep)

	pngs := make([][]byte, len(specs))
	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, sp := range specs {
		i, sp := i, sp
		g.Go(func() error {
			png, err := sp.draw()
			if errors.Is(err, ErrNoData) {
				return nil
			}
			if err != nil {
				return fmt.Errorf("%s: %w", sp.name, err)
			}
			pngs[i] = png
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var figs []Figure
	for i, sp := range specs {
		if pngs[i] == nil {
			continue
		}
		figs = append(figs, Figure{Name: sp.name, Title: sp.title, PNG: pngs[i]})
	}
	return figs, nil
}

func figureSpecs(rep *analysis.Report) []figureSpec {
	specs := []figureSpec{
		{"monthly_timeline", "Monthly Timeline", func() ([]byte, error) { return MonthlyTimeline(rep.Monthly) }},
		{"daily_timeline", "Daily Timeline", func() ([]byte, error) { return DailyTimeline(rep.Daily) }},
		{"busy_day", "Most Busy Day", func() ([]byte, error) { return Bars("Most Busy Day", rep.BusyDays, steelBlue) }},
		{"busy_month", "Most Busy Month", func() ([]byte, error) { return Bars("Most Busy Month", rep.BusyMonths, orange) }},
	}
	if rep.IsOverall() {
		specs = append(specs, figureSpec{"busy_users", "Most Busy Users", func() ([]byte, error) {
			return Bars("Most Busy Users", rep.BusyUsers, red)
		}})
		if s := rep.Sentiment; s != nil {
			specs = append(specs,
				figureSpec{"positive_users", "Most Positive Users", func() ([]byte, error) {
					return Bars("Most Positive Users", s.Positive, green)
				}},
				figureSpec{"neutral_users", "Most Neutral Users", func() ([]byte, error) {
					return Bars("Most Neutral Users", s.Neutral, grey)
				}},
				figureSpec{"negative_users", "Most Negative Users", func() ([]byte, error) {
					return Bars("Most Negative Users", s.Negative, red)
				}},
			)
		}
	}
	return append(specs,
		figureSpec{"emoji_pie", "Emoji Pie Chart", func() ([]byte, error) { return EmojiPie(rep.Emojis) }},
		figureSpec{"wordcloud", "Wordcloud", func() ([]byte, error) { return WordCloud(rep.Cloud) }},
		figureSpec{"common_words", "Most Common Words", func() ([]byte, error) { return CommonWords(rep.Words) }},
	)
}
