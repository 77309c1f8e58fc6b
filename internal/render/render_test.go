package render

import (
	"strings"
	"testing"

	"github.com/mattn/go-runewidth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Zuo-Peng/whatsapp-chat-analyzer/internal/analysis"
	"github.com/Zuo-Peng/whatsapp-chat-analyzer/internal/index"
	"github.com/Zuo-Peng/whatsapp-chat-analyzer/internal/parse"
)

const chat = `1/2/23, 10:00 - Alice: Hello there
1/2/23, 10:01 - Bob: pizza tonight?
1/2/23, 10:02 - Carol joined using this group's invite link
1/2/23, 10:03 - Alice: <Media omitted>
1/2/23, 10:04 - Bob: PIZZA yes
with extra toppings
1/2/23, 10:05 - Alice: This message was deleted`

func parsed(t *testing.T) *parse.Result {
	t.Helper()
	res, err := parse.ParseString(chat, parse.Options{})
	require.NoError(t, err)
	return res
}

func stripANSI(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == '\033' {
			for i < len(s) && s[i] != 'm' {
				i++
			}
			continue
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

func TestHighlightKeywords(t *testing.T) {
	got := highlightKeywords("Pizza and pizza", "pizza")
	assert.Equal(t, colorBoldRed+"Pizza"+colorReset+" and "+colorBoldRed+"pizza"+colorReset, got)

	assert.Equal(t, "a AND b", highlightKeywords("a AND b", "AND"))
	assert.Equal(t, colorBoldRed+"piz"+colorReset+"za", highlightKeywords("pizza", "piz*"))
	assert.Equal(t, "nothing", highlightKeywords("nothing", ""))
}

func TestWrapLine(t *testing.T) {
	assert.Equal(t, []string{"abcd", "ef"}, wrapLine("abcdef", 4))
	assert.Equal(t, []string{"abc"}, wrapLine("abc", 0))
	assert.Equal(t, []string{""}, wrapLine("", 5))

	// escapes take no columns
	got := wrapLine(colorBold+"abcdef"+colorReset, 3)
	require.Len(t, got, 2)
	assert.Equal(t, "abc", stripANSI(got[0]))

	// wide runes are two columns each
	for _, l := range wrapLine("日本語テキスト", 4) {
		assert.LessOrEqual(t, runewidth.StringWidth(l), 4)
	}
}

func TestRenderConversation(t *testing.T) {
	db, err := index.OpenLoaded(parsed(t).Records)
	require.NoError(t, err)
	defer db.Close()

	out, hitLine, err := RenderConversation(db, Options{Chat: "friends", HitID: 4, Context: 1, Query: "pizza"})
	require.NoError(t, err)

	lines := strings.Split(out, "\n")
	require.GreaterOrEqual(t, hitLine, 0)
	assert.Contains(t, lines[hitLine], ">> Bob")
	assert.Contains(t, out, colorBoldRed+"PIZZA"+colorReset)

	plain := stripANSI(out)
	assert.Contains(t, plain, "--- friends (6 messages) ---")
	assert.Contains(t, plain, "... (3 messages before) ...")
	assert.Contains(t, plain, "[media] <Media omitted>")
	assert.Contains(t, plain, "  with extra toppings")
	assert.NotContains(t, plain, "Hello there")
}

func TestRenderConversation_All(t *testing.T) {
	db, err := index.OpenLoaded(parsed(t).Records)
	require.NoError(t, err)
	defer db.Close()

	out, hitLine, err := RenderConversation(db, Options{HitID: -1, Context: -1})
	require.NoError(t, err)
	assert.Equal(t, -1, hitLine)
	plain := stripANSI(out)
	assert.Contains(t, plain, "Hello there")
	assert.Contains(t, plain, "Carol joined")
	assert.NotContains(t, plain, "messages after")
}

func TestRenderConversation_Empty(t *testing.T) {
	db, err := index.OpenLoaded(nil)
	require.NoError(t, err)
	defer db.Close()

	out, hitLine, err := RenderConversation(db, Options{HitID: 0})
	require.NoError(t, err)
	assert.Equal(t, "(empty chat)", out)
	assert.Equal(t, -1, hitLine)
}

func TestRenderStats(t *testing.T) {
	rep := analysis.Analyze(parsed(t), analysis.Options{Chat: "friends"})
	plain := stripANSI(RenderStats(rep, 60))

	for _, want := range []string{
		"Top Statistics",
		"messages 6",
		"Monthly Timeline",
		"January-2023",
		"Weekly Activity Map",
		"Most Busy Users",
		"Alice",
		"Most Common Words",
		"pizza",
	} {
		assert.Contains(t, plain, want)
	}

	rep = analysis.Analyze(parsed(t), analysis.Options{User: "Bob"})
	plain = stripANSI(RenderStats(rep, 0))
	assert.NotContains(t, plain, "Most Busy Users")
	assert.Contains(t, plain, "(no data)")
}
