package record

import (
	"fmt"
	"io"
	"strings"
	"time"
)

var rule = strings.Repeat("=", 80)

// Write emits one record in the given format. Archive entries carry a
// 1-based sequence number matching their position in the output file.
func Write(w io.Writer, format Format, seq int, rec Record) error {
	if format == FormatArchive {
		return writeArchive(w, seq, rec)
	}
	_, err := fmt.Fprintln(w, rec.Text)
	return err
}

func writeArchive(w io.Writer, seq int, rec Record) error {
	var b strings.Builder
	fmt.Fprintf(&b, "TWEET %d\n", seq)
	when := rec.When
	if when.IsZero() {
		when = time.Now().UTC()
	}
	fmt.Fprintf(&b, "Date: %s\n", when.Format(time.RFC3339))
	fmt.Fprintf(&b, "REPLY TO: %s\n", rec.ReplyTo)
	fmt.Fprintf(&b, "CONTENT:\n%s\n", rec.Text)
	if len(rec.URLs) > 0 {
		b.WriteString("\nURLS:\n")
		for _, u := range rec.URLs {
			fmt.Fprintf(&b, "- %s\n", u)
		}
	}
	fmt.Fprintf(&b, "\n%s\n\n", rule)
	_, err := io.WriteString(w, b.String())
	return err
}
