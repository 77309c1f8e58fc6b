package parse

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_UserMessage(t *testing.T) {
	res, err := ParseString("1/2/23, 10:00 - Alice: Hello there\n", Options{})
	require.NoError(t, err)
	require.Len(t, res.Records, 1)

	rec := res.Records[0]
	assert.Equal(t, "Alice", rec.Sender)
	assert.Equal(t, "Hello there", rec.Text)
	assert.Equal(t, time.Date(2023, 1, 2, 10, 0, 0, 0, time.UTC), rec.Timestamp)
	assert.Equal(t, 2023, rec.Year)
	assert.Equal(t, 1, rec.Month)
	assert.Equal(t, "January", rec.MonthName)
	assert.Equal(t, 2, rec.Day)
	assert.Equal(t, "Monday", rec.DayName)
	assert.Equal(t, 10, rec.Hour)
	assert.Equal(t, 0, rec.Minute)
	assert.Equal(t, "10-11", rec.Period)
	assert.Equal(t, 1, rec.LineNumber)
	assert.False(t, rec.IsMedia)
}

func TestParse_Notification(t *testing.T) {
	res, err := ParseString("1/2/23, 10:05 - Bob joined using this group's invite link\n", Options{})
	require.NoError(t, err)
	require.Len(t, res.Records, 1)

	rec := res.Records[0]
	assert.Equal(t, Notification, rec.Sender)
	assert.True(t, rec.IsNotification())
	assert.Equal(t, "Bob joined using this group's invite link", rec.Text)
	assert.Equal(t, 1, res.Stats.Notifications)
}

func TestParse_MultiLineMessage(t *testing.T) {
	input := strings.Join([]string{
		"1/2/23, 10:00 - Alice: first line",
		"second line",
		"",
		"fourth line",
		"1/2/23, 10:01 - Bob: reply",
	}, "\n")

	res, err := ParseString(input, Options{})
	require.NoError(t, err)
	require.Len(t, res.Records, 2)

	assert.Equal(t, "first line\nsecond line\n\nfourth line", res.Records[0].Text)
	assert.Equal(t, "reply", res.Records[1].Text)
	assert.Equal(t, 5, res.Records[1].LineNumber)
	assert.Equal(t, 3, res.Stats.Continuations)
}

func TestParse_MediaCountedAndFlagged(t *testing.T) {
	input := strings.Join([]string{
		"1/2/23, 10:00 - Alice: <Media omitted>",
		"1/2/23, 10:01 - Bob: nice photo",
		"1/2/23, 10:02 - Bob: This message was deleted",
	}, "\n")

	res, err := ParseString(input, Options{})
	require.NoError(t, err)
	require.Len(t, res.Records, 3)

	assert.True(t, res.Records[0].IsMedia)
	assert.False(t, res.Records[1].IsMedia)
	assert.True(t, res.Records[2].IsDeleted)
	assert.Equal(t, 1, res.Stats.Media)
	assert.Equal(t, 1, res.Stats.Deleted)
}

func TestParse_CustomMediaPlaceholder(t *testing.T) {
	res, err := ParseString("1/2/23, 10:00 - Alice: <Medien ausgeschlossen>", Options{
		MediaPlaceholder: "<Medien ausgeschlossen>",
	})
	require.NoError(t, err)
	require.Len(t, res.Records, 1)
	assert.True(t, res.Records[0].IsMedia)
}

func TestParse_URLs(t *testing.T) {
	res, err := ParseString("1/2/23, 10:00 - Alice: see https://example.com/a and www.golang.org ok", Options{})
	require.NoError(t, err)
	require.Len(t, res.Records, 1)
	assert.Equal(t, []string{"https://example.com/a", "www.golang.org"}, res.Records[0].URLs)
}

func TestParse_DateOrder(t *testing.T) {
	tests := []struct {
		name  string
		input string
		order DateOrder
		want  time.Time
		got   DateOrder
	}{
		{
			name:  "auto ambiguous falls back to month first",
			input: "1/2/23, 10:00 - Alice: hi",
			order: OrderAuto,
			want:  time.Date(2023, 1, 2, 10, 0, 0, 0, time.UTC),
			got:   OrderMDY,
		},
		{
			name:  "auto detects day first",
			input: "1/2/23, 10:00 - Alice: hi\n25/2/23, 10:00 - Alice: later",
			order: OrderAuto,
			want:  time.Date(2023, 2, 1, 10, 0, 0, 0, time.UTC),
			got:   OrderDMY,
		},
		{
			name:  "explicit day first",
			input: "1/2/2023, 10:00 - Alice: hi",
			order: OrderDMY,
			want:  time.Date(2023, 2, 1, 10, 0, 0, 0, time.UTC),
			got:   OrderDMY,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := ParseString(tt.input, Options{DateOrder: tt.order})
			require.NoError(t, err)
			require.NotEmpty(t, res.Records)
			assert.Equal(t, tt.want, res.Records[0].Timestamp)
			assert.Equal(t, tt.got, res.Stats.DateOrder)
		})
	}
}

func TestParse_TwelveHourClock(t *testing.T) {
	input := strings.Join([]string{
		"1/2/23, 12:15 am - Alice: midnight",
		"1/2/23, 9:30 AM - Bob: morning",
		"1/2/23, 12:00 pm - Alice: noon",
		"1/2/23, 11:59 PM - Bob: late",
	}, "\n")

	res, err := ParseString(input, Options{})
	require.NoError(t, err)
	require.Len(t, res.Records, 4)

	hours := []int{0, 9, 12, 23}
	for i, h := range hours {
		assert.Equal(t, h, res.Records[i].Hour, "record %d", i)
	}
	assert.Equal(t, "23-00", res.Records[3].Period)
	assert.Equal(t, "late", res.Records[3].Text)
}

func TestParse_Seconds(t *testing.T) {
	res, err := ParseString("1/2/23, 10:00:42 - Alice: hi", Options{})
	require.NoError(t, err)
	require.Len(t, res.Records, 1)
	assert.Equal(t, 42, res.Records[0].Timestamp.Second())
}

func TestParse_BracketedHeader(t *testing.T) {
	input := "[1/2/23, 10:00:00] Alice: Hi\n" +
		"second line\n" +
		"\u200e[1/2/23, 10:01:05 PM] Bob: yo\n" +
		"[1/2/23, 10:02:00] Carol joined using this group's invite link\n"
	res, err := ParseString(input, Options{})
	require.NoError(t, err)
	require.Len(t, res.Records, 3)

	assert.Equal(t, "Alice", res.Records[0].Sender)
	assert.Equal(t, "Hi\nsecond line", res.Records[0].Text)
	assert.Equal(t, time.Date(2023, 1, 2, 10, 0, 0, 0, time.UTC), res.Records[0].Timestamp)

	assert.Equal(t, "Bob", res.Records[1].Sender)
	assert.Equal(t, "yo", res.Records[1].Text)
	assert.Equal(t, time.Date(2023, 1, 2, 22, 1, 5, 0, time.UTC), res.Records[1].Timestamp)

	assert.True(t, res.Records[2].IsNotification())
	assert.Equal(t, 0, res.Stats.Dropped)
	assert.Equal(t, 1, res.Stats.Continuations)
}

func TestParse_CRLFAndBOM(t *testing.T) {
	input := "\ufeff1/2/23, 10:00 - Alice: hi\r\nthere\r\n1/2/23, 10:01 - Bob: yo\r\n"
	res, err := ParseString(input, Options{})
	require.NoError(t, err)
	require.Len(t, res.Records, 2)
	assert.Equal(t, "hi\nthere", res.Records[0].Text)
	assert.Equal(t, "yo", res.Records[1].Text)
}

func TestParse_DropsLeadingFragment(t *testing.T) {
	input := "garbage before anything\n1/2/23, 10:00 - Alice: hi"
	res, err := ParseString(input, Options{})
	require.NoError(t, err)
	require.Len(t, res.Records, 1)
	assert.Equal(t, 1, res.Stats.Dropped)
}

func TestParse_DropsInvalidTimestamp(t *testing.T) {
	input := strings.Join([]string{
		"1/2/23, 10:00 - Alice: hi",
		"1/2/23, 25:00 - Bob: impossible hour",
		"continuation of the bad one",
		"1/2/23, 10:02 - Alice: bye",
	}, "\n")

	res, err := ParseString(input, Options{DateOrder: OrderMDY})
	require.NoError(t, err)
	require.Len(t, res.Records, 2)
	assert.Equal(t, "hi", res.Records[0].Text)
	assert.Equal(t, "bye", res.Records[1].Text)
	assert.Equal(t, 1, res.Records[1].ID)
	assert.Equal(t, 1, res.Stats.Dropped)
}

func TestParse_StrictMode(t *testing.T) {
	_, err := ParseString("1/2/23, 25:00 - Bob: impossible", Options{Strict: true})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMalformed))
	assert.Contains(t, err.Error(), "line 1")

	_, err = ParseString("preamble\n1/2/23, 10:00 - Bob: ok", Options{Strict: true})
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestParse_EmptyInput(t *testing.T) {
	res, err := ParseString("", Options{})
	require.NoError(t, err)
	assert.Empty(t, res.Records)
	assert.Equal(t, 0, res.Stats.Records)
}

func TestParse_OutOfOrderKeptInExportOrder(t *testing.T) {
	input := strings.Join([]string{
		"1/2/23, 10:00 - Alice: first",
		"1/2/23, 09:00 - Bob: clock skew",
		"1/2/23, 11:00 - Alice: third",
	}, "\n")

	res, err := ParseString(input, Options{})
	require.NoError(t, err)
	require.Len(t, res.Records, 3)
	assert.Equal(t, "clock skew", res.Records[1].Text)
	assert.Equal(t, 1, res.Stats.OutOfOrder)
}

func TestParse_CountMatchesHeaders(t *testing.T) {
	input := strings.Join([]string{
		"12/31/22, 23:58 - Messages and calls are end-to-end encrypted.",
		"12/31/22, 23:59 - Alice: almost",
		"1/1/23, 00:00 - Bob: happy new year",
		"line two",
		"1/1/23, 00:01 - Carol: <Media omitted>",
		"1/1/23, 00:02 - Dave left",
	}, "\n")

	res, err := ParseString(input, Options{})
	require.NoError(t, err)
	assert.Len(t, res.Records, 5)
	assert.Equal(t, 6, res.Stats.Lines)

	for i := 1; i < len(res.Records); i++ {
		assert.False(t, res.Records[i].Timestamp.Before(res.Records[i-1].Timestamp))
		assert.Equal(t, i, res.Records[i].ID)
	}
	assert.Equal(t, []string{"Alice", "Bob", "Carol"}, res.Senders())
}

func TestParse_SenderWithColonInText(t *testing.T) {
	res, err := ParseString("1/2/23, 10:00 - Alice: note: buy milk", Options{})
	require.NoError(t, err)
	require.Len(t, res.Records, 1)
	assert.Equal(t, "Alice", res.Records[0].Sender)
	assert.Equal(t, "note: buy milk", res.Records[0].Text)
}

func TestParseDateOrder(t *testing.T) {
	o, err := ParseDateOrder("DMY")
	require.NoError(t, err)
	assert.Equal(t, OrderDMY, o)

	o, err = ParseDateOrder("")
	require.NoError(t, err)
	assert.Equal(t, OrderAuto, o)

	_, err = ParseDateOrder("ymd")
	assert.Error(t, err)
}
