package feed

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestParseKeepsValidRowsAndSkipsMalformed(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	text := "img1.jpg,2025-01-01T10:00:00Z,12\n" +
		"img2.jpg,bad-ts,notanumber\n" +
		"img3.jpg,2025-01-01T10:05:00Z,15\n"

	records := Parse(text, now)

	require.Len(t, records, 2)
	require.Equal(t, 12, records[0].Count)
	require.Equal(t, "img1.jpg", records[0].ImageRef)
	require.Equal(t, time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC), records[0].Timestamp)
	require.Equal(t, 15, records[1].Count)
}

func TestParseBadTimestampFallsBackToNow(t *testing.T) {
	now := time.Date(2025, 3, 10, 9, 30, 0, 0, time.UTC)

	records := Parse("cam.jpg,not-a-time,7", now)

	require.Len(t, records, 1)
	require.Equal(t, 7, records[0].Count)
	require.Equal(t, now, records[0].Timestamp)
}

func TestParseTimestampLayouts(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	want := time.Date(2024, 12, 31, 23, 59, 58, 0, time.UTC)

	for _, field := range []string{
		"2024-12-31T23:59:58Z",
		"2024-12-31T23:59:58",
		"2024-12-31 23:59:58",
		"20241231235958",
	} {
		records := Parse("x.jpg,"+field+",1", now)
		require.Len(t, records, 1, "layout %q", field)
		require.Equal(t, want, records[0].Timestamp, "layout %q", field)
	}
}

func TestParseRejectsBadCounts(t *testing.T) {
	now := time.Now()

	for _, doc := range []string{
		"a.jpg,2025-01-01T10:00:00Z,-3",
		"a.jpg,2025-01-01T10:00:00Z,NaN",
		"a.jpg,2025-01-01T10:00:00Z,+Inf",
		"a.jpg,2025-01-01T10:00:00Z",
		"a.jpg",
		"",
	} {
		require.Empty(t, Parse(doc, now), "doc %q", doc)
	}
}

func TestParseFractionalCountTruncates(t *testing.T) {
	records := Parse("a.jpg,2025-01-01T10:00:00Z,12.9", time.Now())
	require.Len(t, records, 1)
	require.Equal(t, 12, records[0].Count)
}

func TestParseHandlesBlankLinesAndCRLF(t *testing.T) {
	text := "\r\n  \r\na.jpg,2025-01-01T10:00:00Z,3\r\n\r\nb.jpg,2025-01-01T10:01:00Z,4\r\n"
	records := Parse(text, time.Now())
	require.Len(t, records, 2)
	require.Equal(t, 3, records[0].Count)
	require.Equal(t, 4, records[1].Count)
}
