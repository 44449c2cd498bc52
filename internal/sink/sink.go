// Package sink appends accepted records to the output file.
package sink

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ken00H/feedsift/internal/record"
)

// Sink is an append-only record writer. Records are written in acceptance
// order and flushed individually; the stream is low-volume.
type Sink struct {
	f      *os.File
	format record.Format
	seq    int
	stdout bool
}

// Open prepares the output file (or stdout for path "-"). Existing entries
// are counted so archive sequence numbers continue where the file left off.
func Open(path string, format record.Format) (*Sink, error) {
	if !format.Valid() {
		return nil, fmt.Errorf("unknown sink format %q", format)
	}
	if path == "-" {
		return &Sink{f: os.Stdout, format: format, stdout: true}, nil
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	seq := 0
	if existing, err := readExisting(path, format); err == nil {
		seq = len(existing)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, err
	}
	return &Sink{f: f, format: format, seq: seq}, nil
}

// Append writes one accepted record.
func (s *Sink) Append(rec record.Record) error {
	s.seq++
	return record.Write(s.f, s.format, s.seq, rec)
}

// Count reports how many records the sink holds, including pre-existing ones.
func (s *Sink) Count() int { return s.seq }

// Close closes the underlying file. Stdout is left open.
func (s *Sink) Close() error {
	if s.stdout {
		return nil
	}
	return s.f.Close()
}

// ResumeTexts returns the text of every record already present in the output
// file, oldest first, so a restarted run can re-seed its filter. A missing
// file is not an error: there is simply nothing to resume.
func ResumeTexts(path string, format record.Format) ([]string, error) {
	recs, err := readExisting(path, format)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	texts := make([]string, len(recs))
	for i, r := range recs {
		texts[i] = r.Text
	}
	return texts, nil
}

func readExisting(path string, format record.Format) ([]record.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return record.ReadAll(f, format)
}
