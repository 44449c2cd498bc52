// Package record defines the unit of text flowing through the pipeline and
// the two on-disk layouts it travels in: plain lines and the block-oriented
// archive format produced by the scraper.
package record

import "time"

// Record is one scraped item. The filter only looks at Text; the remaining
// fields ride along for the archive format and batch cleaning.
type Record struct {
	Text    string
	When    time.Time
	ReplyTo string
	URLs    []string
}

// Format names an on-disk record layout.
type Format string

const (
	FormatLines   Format = "lines"
	FormatArchive Format = "archive"
)

// Valid reports whether f is a known format.
func (f Format) Valid() bool {
	return f == FormatLines || f == FormatArchive
}

// ParseWhen accepts the timestamp layouts found in archive files: RFC3339
// (with or without sub-seconds) and bare dates. Anything else yields the
// zero time, which batch cleaning treats as "date unknown".
func ParseWhen(s string) time.Time {
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02 15:04", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
