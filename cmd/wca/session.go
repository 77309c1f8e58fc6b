package main

import (
	"fmt"

	"github.com/Zuo-Peng/whatsapp-chat-analyzer/internal/analysis"
	"github.com/Zuo-Peng/whatsapp-chat-analyzer/internal/index"
	"github.com/Zuo-Peng/whatsapp-chat-analyzer/internal/parse"
	"github.com/Zuo-Peng/whatsapp-chat-analyzer/internal/scan"
	"github.com/Zuo-Peng/whatsapp-chat-analyzer/internal/sentiment"
	"github.com/Zuo-Peng/whatsapp-chat-analyzer/internal/tui"
)

// loaded is one parsed export.
type loaded struct {
	src    *scan.Source
	result *parse.Result
}

func (a *app) load(path string) (*loaded, error) {
	src, err := scan.Open(path)
	if err != nil {
		return nil, err
	}
	res, err := parse.Parse(src.Reader(), a.cfg.ParseOptions())
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", src.Path, err)
	}
	a.log.Debug("export parsed", "chat", src.Name, "path", src.Path, "stats", res.Stats.String())
	if res.Stats.Dropped > 0 {
		a.log.Warn("dropped unparseable fragments", "chat", src.Name, "dropped", res.Stats.Dropped)
	}
	return &loaded{src: src, result: res}, nil
}

// openIndex loads the records into a fresh in-memory store.
func (l *loaded) openIndex() (*index.DB, error) {
	db, err := index.OpenLoaded(l.result.Records)
	if err != nil {
		return nil, fmt.Errorf("index %s: %w", l.src.Name, err)
	}
	return db, nil
}

func (a *app) analysisOptions(l *loaded, user string) (analysis.Options, error) {
	stop, err := analysis.LoadStopwords(a.cfg.StopwordsFile)
	if err != nil {
		return analysis.Options{}, err
	}
	return analysis.Options{
		Chat:      l.src.Name,
		User:      user,
		TopN:      a.cfg.TopN,
		Stopwords: stop,
		Scorer:    sentiment.New(),
	}, nil
}

// analyze builds the report for user, checking the user exists.
func (a *app) analyze(l *loaded, user string) (*analysis.Report, error) {
	if user == "" {
		user = analysis.Overall
	}
	known := false
	for _, u := range analysis.Users(l.result.Records) {
		if u == user {
			known = true
			break
		}
	}
	if !known {
		return nil, fmt.Errorf("no messages from %q in %s", user, l.src.Name)
	}
	opts, err := a.analysisOptions(l, user)
	if err != nil {
		return nil, err
	}
	return analysis.Analyze(l.result, opts), nil
}

func (a *app) tuiSession(l *loaded, db *index.DB) (*tui.Session, error) {
	opts, err := a.analysisOptions(l, "")
	if err != nil {
		return nil, err
	}
	return &tui.Session{Chat: l.src.Name, DB: db, Result: l.result, Analyze: opts}, nil
}
