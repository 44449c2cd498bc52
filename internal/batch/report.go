package batch

import (
	"encoding/json"
	"os"
	"time"

	"github.com/ken00H/feedsift/internal/record"
)

// Report summarizes one cleaning pass.
type Report struct {
	OriginalCount   int           `json:"original_count"`
	CleanedCount    int           `json:"cleaned_count"`
	RemovedCount    int           `json:"removed_count"`
	DuplicateGroups int           `json:"duplicate_groups"`
	Details         []GroupDetail `json:"duplicate_details"`
}

// GroupDetail describes one duplicate group.
type GroupDetail struct {
	GroupID      int      `json:"group_id"`
	Count        int      `json:"duplicate_count"`
	KeptSample   string   `json:"kept_sample"`
	RemovedDates []string `json:"removed_dates,omitempty"`
}

const sampleLen = 50

// BuildReport assembles the report from a Clean result.
func BuildReport(originalCount int, cleaned []record.Record, groups [][]record.Record) Report {
	rep := Report{
		OriginalCount:   originalCount,
		CleanedCount:    len(cleaned),
		RemovedCount:    originalCount - len(cleaned),
		DuplicateGroups: len(groups),
	}
	for i, g := range groups {
		detail := GroupDetail{
			GroupID:    i + 1,
			Count:      len(g),
			KeptSample: sample(g[0].Text),
		}
		for _, r := range g[1:] {
			detail.RemovedDates = append(detail.RemovedDates, r.When.UTC().Format(time.RFC3339))
		}
		rep.Details = append(rep.Details, detail)
	}
	return rep
}

// WriteFile saves the report as indented JSON.
func (r Report) WriteFile(path string) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}

func sample(s string) string {
	runes := []rune(s)
	if len(runes) <= sampleLen {
		return s
	}
	return string(runes[:sampleLen]) + "..."
}
