package patch

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSummarize(t *testing.T) {
	exact := HunkReport{Applied: true, ExactMatch: true, Ratio: 1.0}
	fuzzy := HunkReport{Applied: true, Ratio: 0.8}
	already := HunkReport{AlreadyApplied: true, ExactMatch: true, Ratio: 1.0}
	rejected := HunkReport{Ratio: 0.3, Notes: "no suitable anchor"}

	testCases := []struct {
		name   string
		report FileReport
		want   Summary
	}{
		{
			name:   "exact applied is clean",
			report: FileReport{Applied: true, HunkReports: []HunkReport{exact}},
			want:   Summary{Clean: 1},
		},
		{
			name:   "mixed exact and fuzzy is clean",
			report: FileReport{Applied: true, HunkReports: []HunkReport{fuzzy, exact}},
			want:   Summary{Clean: 1},
		},
		{
			name:   "fuzzy only",
			report: FileReport{Applied: true, HunkReports: []HunkReport{fuzzy}},
			want:   Summary{Fuzzy: 1},
		},
		{
			name:   "all hunks already applied",
			report: FileReport{HunkReports: []HunkReport{already, already}},
			want:   Summary{Noop: 1},
		},
		{
			name:   "nothing anchored",
			report: FileReport{HunkReports: []HunkReport{rejected}},
			want:   Summary{Rejected: 1},
		},
		{
			name:   "already plus rejected is rejected",
			report: FileReport{HunkReports: []HunkReport{already, rejected}},
			want:   Summary{Rejected: 1},
		},
		{
			name:   "full-body write that changed the file",
			report: FileReport{Applied: true, ChangedLines: 3},
			want:   Summary{Clean: 1},
		},
		{
			name:   "full-body write with identical content",
			report: FileReport{},
			want:   Summary{Noop: 1},
		},
		{
			name:   "read failure",
			report: FileReport{Notes: "read error: boom"},
			want:   Summary{Rejected: 1},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Summarize([]FileReport{tc.report}))
		})
	}
}

func TestSummarizeBatch(t *testing.T) {
	reports := []FileReport{
		{Applied: true, HunkReports: []HunkReport{{Applied: true, ExactMatch: true}}},
		{Applied: true, HunkReports: []HunkReport{{Applied: true, Ratio: 0.7}}},
		{HunkReports: []HunkReport{{AlreadyApplied: true, ExactMatch: true}}},
		{HunkReports: []HunkReport{{Notes: "no suitable anchor"}}},
	}
	assert.Equal(t, Summary{Clean: 1, Fuzzy: 1, Noop: 1, Rejected: 1}, Summarize(reports))
	assert.Equal(t, Summary{}, Summarize(nil))
}
