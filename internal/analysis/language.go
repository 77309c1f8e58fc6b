package analysis

import (
	"strings"

	"github.com/abadojack/whatlanggo"

	"github.com/Zuo-Peng/whatsapp-chat-analyzer/internal/parse"
)

// maxLanguageSample bounds the text handed to the detector.
const maxLanguageSample = 64 << 10

type Language struct {
	Name       string  `json:"name"`
	Confidence float64 `json:"confidence"`
}

// DetectLanguage guesses the dominant language of user's messages. It
// returns an empty Name when there is no text to look at.
func DetectLanguage(user string, records []parse.Record) Language {
	var sb strings.Builder
	for _, r := range Select(user, records) {
		if r.IsNotification() || r.IsMedia || r.IsDeleted {
			continue
		}
		text := r.Text
		for _, u := range r.URLs {
			text = strings.ReplaceAll(text, u, " ")
		}
		sb.WriteString(text)
		sb.WriteByte('\n')
		if sb.Len() >= maxLanguageSample {
			break
		}
	}
	if strings.TrimSpace(sb.String()) == "" {
		return Language{}
	}
	info := whatlanggo.Detect(sb.String())
	return Language{
		Name:       info.Lang.String(),
		Confidence: info.Confidence,
	}
}
