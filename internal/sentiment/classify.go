package sentiment

// Label is the sentiment class of a message or a user.
type Label int

const (
	Negative Label = -1
	Neutral  Label = 0
	Positive Label = 1
)

func (l Label) String() string {
	switch l {
	case Positive:
		return "positive"
	case Negative:
		return "negative"
	default:
		return "neutral"
	}
}

func (l Label) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// Classify picks the dominant share. Ties go to positive, then negative,
// so text with no scored words at all classifies positive.
func Classify(s Scores) Label {
	switch {
	case s.Pos >= s.Neg && s.Pos >= s.Neu:
		return Positive
	case s.Neg >= s.Pos && s.Neg >= s.Neu:
		return Negative
	default:
		return Neutral
	}
}

// Totals sums the positive, negative and neutral shares over texts.
func Totals(sc Scorer, texts []string) Scores {
	var t Scores
	for _, text := range texts {
		s := sc.PolarityScores(text)
		t.Pos += s.Pos
		t.Neg += s.Neg
		t.Neu += s.Neu
		t.Compound += s.Compound
	}
	return t
}
