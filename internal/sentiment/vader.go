// Package sentiment scores chat messages with VADER (Hutto & Gilbert, 2014)
// over its full valence and emoji lexicons.
package sentiment

import (
	"math"

	"github.com/jonreiter/govader"
)

type Scores struct {
	Neg      float64 `json:"neg"`
	Neu      float64 `json:"neu"`
	Pos      float64 `json:"pos"`
	Compound float64 `json:"compound"`
}

// Scorer produces polarity scores for a piece of text.
type Scorer interface {
	PolarityScores(text string) Scores
}

// Analyzer is safe for concurrent use; scoring only reads the lexicons.
type Analyzer struct {
	sia *govader.SentimentIntensityAnalyzer
}

func New() *Analyzer {
	return &Analyzer{sia: govader.NewSentimentIntensityAnalyzer()}
}

// Len is the number of lexicon entries.
func (a *Analyzer) Len() int {
	return len(a.sia.Lexicon)
}

// PolarityScores returns the share of positive, negative and neutral
// weight in text and a compound score normalised to [-1, 1], rounded to
// 3 and 4 places like the reference implementation.
func (a *Analyzer) PolarityScores(text string) Scores {
	s := a.sia.PolarityScores(text)
	return Scores{
		Neg:      round(s.Negative, 3),
		Neu:      round(s.Neutral, 3),
		Pos:      round(s.Positive, 3),
		Compound: round(s.Compound, 4),
	}
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
