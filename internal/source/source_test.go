package source

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ken00H/feedsift/internal/config"
	"github.com/ken00H/feedsift/internal/log"
	"github.com/ken00H/feedsift/internal/record"
)

func TestMain(m *testing.M) {
	if err := log.InitWithConfig("error", "console"); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

func collect(t *testing.T, r *Reader) []record.Record {
	t.Helper()
	var out []record.Record
	for {
		select {
		case rec, ok := <-r.Records():
			if !ok {
				return out
			}
			out = append(out, rec)
		case <-time.After(5 * time.Second):
			t.Fatal("timed out waiting for records")
		}
	}
}

func TestReadLinesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "feed.txt")
	require.NoError(t, os.WriteFile(path, []byte("one\r\ntwo\nlast without newline"), 0o644))

	r := NewReader(config.InputCfg{Path: path, Format: "lines"})
	ctx := context.Background()
	require.NoError(t, r.Start(ctx))

	recs := collect(t, r)
	require.Len(t, recs, 3)
	assert.Equal(t, "one", recs[0].Text)
	assert.Equal(t, "two", recs[1].Text)
	assert.Equal(t, "last without newline", recs[2].Text)
}

func TestReadArchiveFile(t *testing.T) {
	body := "TWEET 1\nDate: 2024-01-31\nREPLY TO: @a\nCONTENT:\nhello there\n\n" +
		"================================================================================\n"
	path := filepath.Join(t.TempDir(), "feed.txt")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	r := NewReader(config.InputCfg{Path: path, Format: "archive"})
	ctx := context.Background()
	require.NoError(t, r.Start(ctx))

	recs := collect(t, r)
	require.Len(t, recs, 1)
	assert.Equal(t, "hello there", recs[0].Text)
	assert.Equal(t, "@a", recs[0].ReplyTo)
}

func TestFollowPicksUpAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "feed.txt")
	require.NoError(t, os.WriteFile(path, []byte("first\n"), 0o644))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	r := NewReader(config.InputCfg{Path: path, Format: "lines", Follow: true})
	require.NoError(t, r.Start(ctx))

	rec := <-r.Records()
	assert.Equal(t, "first", rec.Text)

	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
	require.NoError(t, err)
	_, err = f.WriteString("second\n")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	select {
	case rec = <-r.Records():
		assert.Equal(t, "second", rec.Text)
	case <-time.After(5 * time.Second):
		t.Fatal("follow mode never saw the appended line")
	}

	cancel()
}

func TestMissingFile(t *testing.T) {
	r := NewReader(config.InputCfg{Path: filepath.Join(t.TempDir(), "nope.txt"), Format: "lines"})
	assert.Error(t, r.Start(context.Background()))
}
