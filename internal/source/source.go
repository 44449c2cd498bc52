// Package source produces records from a file or stdin on a channel.
package source

import (
	"bufio"
	"context"
	"io"
	"os"
	"strings"
	"time"

	"github.com/ken00H/feedsift/internal/config"
	"github.com/ken00H/feedsift/internal/log"
	"github.com/ken00H/feedsift/internal/record"
)

const pollInterval = 200 * time.Millisecond

// Reader emits one Record per input item until EOF (or forever in follow
// mode). The output channel is closed when the input is exhausted or the
// context is cancelled.
type Reader struct {
	cfg config.InputCfg
	out chan record.Record
}

// NewReader constructs a Reader.
func NewReader(cfg config.InputCfg) *Reader {
	return &Reader{cfg: cfg, out: make(chan record.Record, 1024)}
}

// Records returns the consumer channel.
func (r *Reader) Records() <-chan record.Record { return r.out }

// Start begins reading in a background goroutine.
func (r *Reader) Start(ctx context.Context) error {
	if r.cfg.Format == string(record.FormatArchive) {
		return r.startArchive(ctx)
	}
	return r.startLines(ctx)
}

// startArchive loads the whole file up front; archive files are finite
// batch artifacts, not live streams.
func (r *Reader) startArchive(ctx context.Context) error {
	f, err := r.open()
	if err != nil {
		return err
	}
	recs, err := record.ReadAll(f, record.FormatArchive)
	f.Close()
	if err != nil {
		return err
	}
	go func() {
		defer close(r.out)
		for _, rec := range recs {
			select {
			case r.out <- rec:
			case <-ctx.Done():
				return
			}
		}
	}()
	return nil
}

func (r *Reader) startLines(ctx context.Context) error {
	f, err := r.open()
	if err != nil {
		return err
	}
	br := bufio.NewReaderSize(f, 64*1024)
	go func() {
		defer f.Close()
		defer close(r.out)
		var partial strings.Builder
		for {
			select {
			case <-ctx.Done():
				return
			default:
			}
			chunk, err := br.ReadString('\n')
			if chunk != "" {
				partial.WriteString(chunk)
			}
			if err == nil {
				line := strings.TrimRight(partial.String(), "\r\n")
				partial.Reset()
				select {
				case r.out <- record.Record{Text: line}:
				case <-ctx.Done():
					return
				}
				continue
			}
			if err != io.EOF {
				log.L.Warnw("source read", "err", err)
				return
			}
			if !r.cfg.Follow {
				if partial.Len() > 0 {
					r.out <- record.Record{Text: strings.TrimRight(partial.String(), "\r\n")}
				}
				return
			}
			// EOF in follow mode: wait for more data, like tail -f.
			time.Sleep(pollInterval)
		}
	}()
	return nil
}

func (r *Reader) open() (*os.File, error) {
	if r.cfg.Path == "-" {
		return os.Stdin, nil
	}
	return os.Open(r.cfg.Path)
}
