package report

import (
	"archive/zip"
	"bytes"
	"encoding/csv"
	"encoding/json"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Zuo-Peng/whatsapp-chat-analyzer/internal/analysis"
	"github.com/Zuo-Peng/whatsapp-chat-analyzer/internal/parse"
)

const chat = `1/2/23, 10:00 - Alice: pizza tonight? 😂
1/2/23, 10:01 - Bob: I love pizza 😂
1/2/23, 10:02 - Carol joined using this group's invite link
1/9/23, 11:00 - Alice: terrible weather
2/6/23, 18:00 - Bob: great news 🎉 https://example.com`

func buildBundle(t *testing.T, user string) *Bundle {
	t.Helper()
	res, err := parse.ParseString(chat, parse.Options{})
	require.NoError(t, err)
	b, err := Build(analysis.Analyze(res, analysis.Options{Chat: "friends", User: user}))
	require.NoError(t, err)
	return b
}

func tableNames(b *Bundle) []string {
	var names []string
	for _, t := range b.Tables {
		names = append(names, t.Name)
	}
	return names
}

func TestBuild(t *testing.T) {
	b := buildBundle(t, "")
	assert.NotEqual(t, [16]byte{}, [16]byte(b.ID))
	assert.NotEmpty(t, b.Figures)
	assert.Equal(t, []string{"emoji_analysis", "busy_users", "common_words"}, tableNames(b))

	emoji := b.Tables[0]
	require.NotEmpty(t, emoji.Rows)
	assert.Equal(t, []string{"😂", "2"}, emoji.Rows[0])

	users := b.Tables[1]
	assert.Equal(t, []string{"Alice", "2", "50.00"}, users.Rows[0])

	b = buildBundle(t, "Bob")
	assert.Equal(t, []string{"emoji_analysis", "common_words"}, tableNames(b))
}

func TestHeatmapTable(t *testing.T) {
	h := &analysis.Heatmap{Days: analysis.Weekdays, Periods: []string{}}
	for i := 0; i < 24; i++ {
		h.Periods = append(h.Periods, parse.PeriodLabel(i))
	}
	h.Cells[0][10] = 3

	tbl := HeatmapTable(h)
	assert.Len(t, tbl.Header, 25)
	assert.Equal(t, "Day", tbl.Header[0])
	require.Len(t, tbl.Rows, 7)
	assert.Equal(t, "Monday", tbl.Rows[0][0])
	assert.Equal(t, "3", tbl.Rows[0][11])
}

func TestWritePDF(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WritePDF(&buf, buildBundle(t, "")))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
	assert.Greater(t, buf.Len(), 1000)
}

func TestWritePDF_EmptyChat(t *testing.T) {
	res, err := parse.ParseString("", parse.Options{})
	require.NoError(t, err)
	b, err := Build(analysis.Analyze(res, analysis.Options{}))
	require.NoError(t, err)
	assert.Empty(t, b.Figures)

	var buf bytes.Buffer
	require.NoError(t, WritePDF(&buf, b))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
}

func TestWriteZIP(t *testing.T) {
	b := buildBundle(t, "")
	var buf bytes.Buffer
	require.NoError(t, WriteZIP(&buf, b))

	zr, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err)

	files := make(map[string]*zip.File)
	for _, f := range zr.File {
		files[f.Name] = f
	}
	for _, name := range []string{
		"manifest.json",
		"charts/monthly_timeline.png",
		"charts/wordcloud.png",
		"tables/emoji_analysis.csv",
		"tables/busy_users.csv",
		"tables/common_words.csv",
		"tables/activity_heatmap.csv",
	} {
		assert.Contains(t, files, name)
	}

	var m Manifest
	require.NoError(t, json.Unmarshal(readZipFile(t, files["manifest.json"]), &m))
	assert.Equal(t, b.ID.String(), m.ID)
	assert.Equal(t, "friends", m.Chat)
	assert.Equal(t, analysis.Overall, m.User)
	assert.Len(t, m.Files, len(zr.File)-1)

	rows, err := csv.NewReader(bytes.NewReader(readZipFile(t, files["tables/busy_users.csv"]))).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, []string{"Name", "Messages", "Percent"}, rows[0])
	assert.Len(t, rows, 3)
}

func readZipFile(t *testing.T, f *zip.File) []byte {
	t.Helper()
	rc, err := f.Open()
	require.NoError(t, err)
	defer rc.Close()
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	return data
}
