// Package batch finds duplicate groups in an already-collected archive,
// pairing records that are close in time and similar in content.
package batch

import (
	"fmt"
	"time"

	"github.com/ken00H/feedsift/internal/filter"
	"github.com/ken00H/feedsift/internal/record"
)

// Detector groups near-duplicate records. Unlike the streaming filter it
// sees the whole input at once, so it can keep the earliest member of each
// group rather than the first one encountered.
type Detector struct {
	threshold  float64
	dateWindow time.Duration
	norm       filter.Options
}

// New validates the thresholds up front. window zero disables the date check.
func New(threshold float64, window time.Duration, norm filter.Options) (*Detector, error) {
	if threshold <= 0 || threshold > 1 {
		return nil, fmt.Errorf("%w: batch threshold %v outside (0,1]", filter.ErrInvalidOptions, threshold)
	}
	if window < 0 {
		return nil, fmt.Errorf("%w: date window %v must not be negative", filter.ErrInvalidOptions, window)
	}
	return &Detector{threshold: threshold, dateWindow: window, norm: norm}, nil
}

// FindGroups returns index groups of mutually-duplicate records. Grouping is
// greedy: each record joins at most one group, anchored at its first match.
func (d *Detector) FindGroups(recs []record.Record) [][]int {
	norms := make([]string, len(recs))
	for i, r := range recs {
		norms[i] = d.norm.Normalize(r.Text)
	}

	var groups [][]int
	taken := make([]bool, len(recs))
	for i := range recs {
		if taken[i] {
			continue
		}
		group := []int{i}
		for j := i + 1; j < len(recs); j++ {
			if taken[j] {
				continue
			}
			if !d.datesClose(recs[i].When, recs[j].When) {
				continue
			}
			if filter.Similarity(norms[i], norms[j]) >= d.threshold {
				group = append(group, j)
				taken[j] = true
			}
		}
		if len(group) > 1 {
			taken[i] = true
			groups = append(groups, group)
		}
	}
	return groups
}

// Clean removes duplicates, keeping the earliest-dated member of each group,
// and returns the surviving records in input order plus the groups found.
func (d *Detector) Clean(recs []record.Record) ([]record.Record, [][]record.Record) {
	groups := d.FindGroups(recs)

	drop := make(map[int]bool)
	groupRecs := make([][]record.Record, len(groups))
	for gi, group := range groups {
		earliest := group[0]
		for _, idx := range group {
			if recs[idx].When.Before(recs[earliest].When) {
				earliest = idx
			}
		}
		members := make([]record.Record, 0, len(group))
		for _, idx := range group {
			members = append(members, recs[idx])
			if idx != earliest {
				drop[idx] = true
			}
		}
		groupRecs[gi] = members
	}

	cleaned := make([]record.Record, 0, len(recs)-len(drop))
	for i, r := range recs {
		if !drop[i] {
			cleaned = append(cleaned, r)
		}
	}
	return cleaned, groupRecs
}

func (d *Detector) datesClose(a, b time.Time) bool {
	if d.dateWindow == 0 {
		return true
	}
	diff := a.Sub(b)
	if diff < 0 {
		diff = -diff
	}
	return diff <= d.dateWindow
}
