// Package filter decides, record by record, whether incoming text has been
// seen before. It supports an exact normalization-key policy and an optional
// near-duplicate policy with a similarity threshold.
package filter

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/bits-and-blooms/bloom/v3"
)

// Decision is the outcome of evaluating one record.
type Decision int

const (
	Accepted Decision = iota
	Duplicate
)

func (d Decision) String() string {
	if d == Duplicate {
		return "duplicate"
	}
	return "accepted"
}

// Policy labels, reported by Filter.Policy.
const (
	PolicyExact   = "exact"
	PolicyNearDup = "near-duplicate"
)

// ErrInvalidOptions is wrapped by all construction failures.
var ErrInvalidOptions = errors.New("invalid filter options")

// bloom sizing for the exact-mode prefilter.
const (
	bloomEstimate = 100_000
	bloomFPRate   = 0.001
)

// Options configures normalization and the duplicate policy.
//
// SimilarityThreshold zero selects exact-key matching; a value in (0,1]
// selects near-duplicate matching against previously accepted records.
// WindowSize bounds how many recent accepts a near-duplicate check compares
// against (zero means all of them) and is only valid in near-duplicate mode.
type Options struct {
	CaseSensitive  bool
	TrimWhitespace bool
	StripURLs      bool
	StripMentions  bool
	FoldArabic     bool

	SimilarityThreshold float64
	WindowSize          int
}

// DefaultOptions match the historical scraper behavior: case-insensitive,
// whitespace-collapsed exact matching.
func DefaultOptions() Options {
	return Options{TrimWhitespace: true}
}

// Filter is the deduplication filter. It is single-owner: callers embedding
// it in a concurrent pipeline must serialize Evaluate themselves.
type Filter struct {
	opts Options

	// exact mode
	keys map[string]struct{}
	pre  *bloom.BloomFilter

	// near-duplicate mode: normalized text of accepted records, oldest first,
	// capped at WindowSize when set.
	window []string
	count  int
}

// New validates opts and returns an empty filter. Invalid options fail here,
// never at Evaluate time.
func New(opts Options) (*Filter, error) {
	if opts.SimilarityThreshold < 0 || opts.SimilarityThreshold > 1 {
		return nil, fmt.Errorf("%w: similarity_threshold %v outside [0,1]", ErrInvalidOptions, opts.SimilarityThreshold)
	}
	if opts.WindowSize < 0 {
		return nil, fmt.Errorf("%w: window_size %d must be positive", ErrInvalidOptions, opts.WindowSize)
	}
	if opts.WindowSize > 0 && opts.SimilarityThreshold == 0 {
		return nil, fmt.Errorf("%w: window_size requires similarity_threshold", ErrInvalidOptions)
	}
	f := &Filter{opts: opts}
	if opts.SimilarityThreshold == 0 {
		f.keys = make(map[string]struct{})
		f.pre = bloom.NewWithEstimates(bloomEstimate, bloomFPRate)
	}
	return f, nil
}

// Policy reports which duplicate policy is active.
func (f *Filter) Policy() string {
	if f.opts.SimilarityThreshold > 0 {
		return PolicyNearDup
	}
	return PolicyExact
}

// Key returns the normalization key for record under the active options.
// Records with equal keys are duplicates under the exact policy.
func (f *Filter) Key(record string) string {
	sum := sha256.Sum256([]byte(f.opts.Normalize(record)))
	return hex.EncodeToString(sum[:])
}

// Evaluate decides whether record duplicates a previously accepted one and,
// if not, remembers it. Exactly one of Accepted or Duplicate is returned;
// there is no error path.
func (f *Filter) Evaluate(record string) Decision {
	if f.opts.SimilarityThreshold > 0 {
		return f.evaluateNear(record)
	}
	key := f.Key(record)
	if f.pre.TestString(key) {
		if _, ok := f.keys[key]; ok {
			return Duplicate
		}
	}
	f.keys[key] = struct{}{}
	f.pre.AddString(key)
	f.count++
	return Accepted
}

func (f *Filter) evaluateNear(record string) Decision {
	norm := f.opts.Normalize(record)
	for _, prev := range f.window {
		if Similarity(norm, prev) >= f.opts.SimilarityThreshold {
			return Duplicate
		}
	}
	f.window = append(f.window, norm)
	if n := f.opts.WindowSize; n > 0 && len(f.window) > n {
		f.window = f.window[len(f.window)-n:]
	}
	f.count++
	return Accepted
}

// Seed marks records as already seen without emitting decisions. Used to
// resume from a previous run's output.
func (f *Filter) Seed(records ...string) {
	for _, r := range records {
		_ = f.Evaluate(r)
	}
}

// Len reports how many records have been accepted (or seeded) so far.
func (f *Filter) Len() int { return f.count }
