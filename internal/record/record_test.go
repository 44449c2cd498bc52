package record

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleArchive = `CLEANED TWEETS - DUPLICATES REMOVED
Total tweets: 2
================================================================================

TWEET 1
Date: 2024-01-31T10:46:43Z
REPLY TO: @alice
CONTENT:
first line of the post
second line of the post

URLS:
- https://example.com/a

================================================================================

TWEET 2
Date: 2024-02-01
REPLY TO:
CONTENT:
another post entirely

================================================================================
`

func TestReadArchive(t *testing.T) {
	recs, err := ReadAll(strings.NewReader(sampleArchive), FormatArchive)
	require.NoError(t, err)
	require.Len(t, recs, 2)

	assert.Equal(t, "first line of the post second line of the post", recs[0].Text)
	assert.Equal(t, "@alice", recs[0].ReplyTo)
	assert.Equal(t, []string{"https://example.com/a"}, recs[0].URLs)
	assert.Equal(t, time.Date(2024, 1, 31, 10, 46, 43, 0, time.UTC), recs[0].When.UTC())

	assert.Equal(t, "another post entirely", recs[1].Text)
	assert.Empty(t, recs[1].ReplyTo)
	assert.Equal(t, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), recs[1].When)
}

func TestReadLines(t *testing.T) {
	recs, err := ReadAll(strings.NewReader("one\ntwo\n\nthree\n"), FormatLines)
	require.NoError(t, err)
	require.Len(t, recs, 4)
	assert.Equal(t, "one", recs[0].Text)
	assert.Equal(t, "", recs[2].Text)
	assert.Equal(t, "three", recs[3].Text)
}

func TestWriteArchiveRoundTrip(t *testing.T) {
	in := Record{
		Text:    "measured twice, cut once",
		When:    time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC),
		ReplyTo: "@carpenter",
		URLs:    []string{"https://example.com/saw"},
	}
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatArchive, 1, in))

	recs, err := ReadAll(&buf, FormatArchive)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, in.Text, recs[0].Text)
	assert.Equal(t, in.ReplyTo, recs[0].ReplyTo)
	assert.Equal(t, in.URLs, recs[0].URLs)
	assert.True(t, in.When.Equal(recs[0].When))
}

func TestParseWhen(t *testing.T) {
	cases := map[string]time.Time{
		"2024-01-31T10:46:43.000Z": time.Date(2024, 1, 31, 10, 46, 43, 0, time.UTC),
		"2024-01-31T10:46:43Z":     time.Date(2024, 1, 31, 10, 46, 43, 0, time.UTC),
		"2024-01-31":               time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC),
		"not a date":               {},
		"":                         {},
	}
	for in, want := range cases {
		got := ParseWhen(in)
		assert.True(t, want.Equal(got), "ParseWhen(%q) = %v, want %v", in, got, want)
	}
}

func TestFormatValid(t *testing.T) {
	assert.True(t, FormatLines.Valid())
	assert.True(t, FormatArchive.Valid())
	assert.False(t, Format("csv").Valid())
}
