package analysis

import (
	"bufio"
	_ "embed"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"unicode"

	"github.com/kyokomi/emoji/v2"
	"github.com/rivo/uniseg"
	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"

	"github.com/Zuo-Peng/whatsapp-chat-analyzer/internal/parse"
)

//go:embed stopwords.txt
var defaultStopwords string

// Stopwords is a set of folded words left out of word counts.
type Stopwords map[string]bool

// DefaultStopwords returns the built-in English and Hinglish list.
func DefaultStopwords() Stopwords {
	sw := make(Stopwords)
	sw.read(strings.NewReader(defaultStopwords))
	return sw
}

// LoadStopwords adds the whitespace separated words of path to the
// built-in list. An empty path returns the built-in list.
func LoadStopwords(path string) (Stopwords, error) {
	sw := DefaultStopwords()
	if path == "" {
		return sw, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open stopwords: %w", err)
	}
	defer f.Close()
	if err := sw.read(f); err != nil {
		return nil, fmt.Errorf("read stopwords %s: %w", path, err)
	}
	return sw, nil
}

func (sw Stopwords) read(r io.Reader) error {
	fold := cases.Fold()
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(strings.TrimSpace(line), "#") {
			continue
		}
		for _, w := range strings.Fields(line) {
			sw[norm.NFC.String(fold.String(w))] = true
		}
	}
	return scanner.Err()
}

type WordCount struct {
	Word  string `json:"word"`
	Count int    `json:"count"`
}

// CommonWords returns the n most used words of user. Words are case folded
// and stripped of surrounding punctuation. Notifications, media
// placeholders and deleted messages are skipped.
func CommonWords(user string, records []parse.Record, stop Stopwords, n int) []WordCount {
	fold := cases.Fold()
	counts := make(map[string]int)
	for _, r := range Select(user, records) {
		if r.IsNotification() || r.IsMedia || r.IsDeleted {
			continue
		}
		for _, f := range strings.Fields(r.Text) {
			w := strings.TrimFunc(f, func(c rune) bool {
				return unicode.IsPunct(c) || unicode.IsSymbol(c)
			})
			if !hasLetterOrDigit(w) {
				continue
			}
			w = norm.NFC.String(fold.String(w))
			if stop[w] {
				continue
			}
			counts[w]++
		}
	}
	return toWordCounts(counts, n)
}

type EmojiCount struct {
	Emoji string `json:"emoji"`
	Count int    `json:"count"`
}

// Emojis counts emoji grapheme clusters in the messages of user, so a
// skin tone or ZWJ sequence counts as one emoji.
func Emojis(user string, records []parse.Record) []EmojiCount {
	counts := make(map[string]int)
	for _, r := range Select(user, records) {
		if r.IsNotification() {
			continue
		}
		gr := uniseg.NewGraphemes(r.Text)
		for gr.Next() {
			if isEmoji(gr.Str()) {
				counts[gr.Str()]++
			}
		}
	}
	out := make([]EmojiCount, 0, len(counts))
	for _, wc := range toWordCounts(counts, 0) {
		out = append(out, EmojiCount{Emoji: wc.Word, Count: wc.Count})
	}
	return out
}

func toWordCounts(counts map[string]int, n int) []WordCount {
	out := make([]WordCount, 0, len(counts))
	for w, c := range counts {
		out = append(out, WordCount{Word: w, Count: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Word < out[j].Word
	})
	return head(out, n)
}

func hasLetterOrDigit(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return true
		}
	}
	return false
}

const zeroWidthJoiner = "\u200d"

// isEmoji reports whether a grapheme cluster is an emoji. A cluster missing
// from the table is retried without skin tone modifiers, then by its first
// ZWJ component. Text-presentation symbols such as a bare © do not count.
func isEmoji(cluster string) bool {
	table := emoji.RevCodeMap()
	if _, ok := table[cluster]; ok {
		return true
	}
	base := stripSkinTones(cluster)
	if _, ok := table[base]; ok && base != "" {
		return true
	}
	if first, _, ok := strings.Cut(base, zeroWidthJoiner); ok && first != "" {
		_, ok := table[first]
		return ok
	}
	return false
}

func stripSkinTones(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= 0x1F3FB && r <= 0x1F3FF {
			return -1
		}
		return r
	}, s)
}
