package batch

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ken00H/feedsift/internal/filter"
	"github.com/ken00H/feedsift/internal/record"
)

func at(day, hour int) time.Time {
	return time.Date(2024, 1, day, hour, 0, 0, 0, time.UTC)
}

func newDetector(t *testing.T, threshold float64, window time.Duration) *Detector {
	t.Helper()
	d, err := New(threshold, window, filter.DefaultOptions())
	require.NoError(t, err)
	return d
}

func TestFindGroupsWithinDateWindow(t *testing.T) {
	d := newDetector(t, 0.85, 24*time.Hour)
	recs := []record.Record{
		{Text: "power outage reported in the harbor district", When: at(1, 10)},
		{Text: "power outage reported in the harbor district!", When: at(1, 15)},
		{Text: "city council approves the new bicycle lanes", When: at(1, 12)},
	}
	groups := d.FindGroups(recs)
	require.Len(t, groups, 1)
	assert.Equal(t, []int{0, 1}, groups[0])
}

func TestFindGroupsOutsideDateWindow(t *testing.T) {
	d := newDetector(t, 0.85, 24*time.Hour)
	recs := []record.Record{
		{Text: "power outage reported in the harbor district", When: at(1, 10)},
		{Text: "power outage reported in the harbor district", When: at(5, 10)},
	}
	assert.Empty(t, d.FindGroups(recs))
}

func TestZeroWindowIgnoresDates(t *testing.T) {
	d := newDetector(t, 0.85, 0)
	recs := []record.Record{
		{Text: "power outage reported in the harbor district", When: at(1, 10)},
		{Text: "power outage reported in the harbor district", When: at(5, 10)},
	}
	assert.Len(t, d.FindGroups(recs), 1)
}

func TestCleanKeepsEarliest(t *testing.T) {
	d := newDetector(t, 0.85, 24*time.Hour)
	recs := []record.Record{
		{Text: "unrelated opening remark about ferries", When: at(1, 8)},
		{Text: "power outage reported in the harbor district", When: at(1, 15)},
		{Text: "power outage reported in the harbor district!", When: at(1, 10)},
	}
	cleaned, groups := d.Clean(recs)
	require.Len(t, groups, 1)
	require.Len(t, cleaned, 2)
	assert.Equal(t, "unrelated opening remark about ferries", cleaned[0].Text)
	// the later copy is dropped even though it appeared first in the group scan
	assert.Equal(t, at(1, 10), cleaned[1].When)
}

func TestCleanNoDuplicates(t *testing.T) {
	d := newDetector(t, 0.85, 24*time.Hour)
	recs := []record.Record{
		{Text: "first distinct item", When: at(1, 8)},
		{Text: "second thing entirely, no overlap", When: at(1, 9)},
	}
	cleaned, groups := d.Clean(recs)
	assert.Empty(t, groups)
	assert.Equal(t, recs, cleaned)
}

func TestBuildReport(t *testing.T) {
	d := newDetector(t, 0.85, 24*time.Hour)
	recs := []record.Record{
		{Text: "power outage reported in the harbor district", When: at(1, 10)},
		{Text: "power outage reported in the harbor district!", When: at(1, 15)},
		{Text: "city council approves the new bicycle lanes", When: at(1, 12)},
	}
	cleaned, groups := d.Clean(recs)
	rep := BuildReport(len(recs), cleaned, groups)

	assert.Equal(t, 3, rep.OriginalCount)
	assert.Equal(t, 2, rep.CleanedCount)
	assert.Equal(t, 1, rep.RemovedCount)
	assert.Equal(t, 1, rep.DuplicateGroups)
	require.Len(t, rep.Details, 1)
	assert.Equal(t, 2, rep.Details[0].Count)
	assert.Len(t, rep.Details[0].RemovedDates, 1)
}

func TestDetectorValidation(t *testing.T) {
	_, err := New(0, time.Hour, filter.DefaultOptions())
	assert.ErrorIs(t, err, filter.ErrInvalidOptions)
	_, err = New(1.2, time.Hour, filter.DefaultOptions())
	assert.ErrorIs(t, err, filter.ErrInvalidOptions)
	_, err = New(0.9, -time.Hour, filter.DefaultOptions())
	assert.ErrorIs(t, err, filter.ErrInvalidOptions)
}
