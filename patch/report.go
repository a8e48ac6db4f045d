package patch

// HunkReport is the outcome of one hunk.
type HunkReport struct {
	Index          int     `json:"index"`
	Applied        bool    `json:"applied"`
	AlreadyApplied bool    `json:"alreadyApplied"`
	ExactMatch     bool    `json:"exactMatch"`
	Ratio          float64 `json:"ratio"`
	Notes          string  `json:"notes,omitempty"`
}

// FileReport is the outcome of one file. Applied is true iff the file's
// content differs from its original after processing; in dry-run mode it
// reflects what a real run would have changed.
type FileReport struct {
	Path         string       `json:"path"`
	Applied      bool         `json:"applied"`
	ChangedLines int          `json:"changedLines"`
	HunkReports  []HunkReport `json:"hunkReports,omitempty"`
	Notes        string       `json:"notes,omitempty"`
	Preview      string       `json:"preview,omitempty"`
}

// Summary buckets a batch of file reports. A file whose hunks are all
// already applied lands in Noop rather than Rejected: "the patch had no
// effect because it is already done" is not a failure to find an anchor.
type Summary struct {
	Clean    int `json:"clean"`
	Fuzzy    int `json:"fuzzy"`
	Rejected int `json:"rejected"`
	Noop     int `json:"noop"`
}

// Summarize aggregates per-file outcomes: Clean counts files with at least
// one exactly applied hunk, Fuzzy files where hunks applied but none
// exactly, Rejected files where nothing applied and not everything was
// already present.
func Summarize(reports []FileReport) Summary {
	var s Summary
	for _, r := range reports {
		switch {
		case hasExactApplied(r):
			s.Clean++
		case hasApplied(r):
			s.Fuzzy++
		case allAlreadyApplied(r):
			s.Noop++
		default:
			s.Rejected++
		}
	}
	return s
}

func hasExactApplied(r FileReport) bool {
	if len(r.HunkReports) == 0 {
		// full-body writes carry no hunk reports; a write that changed
		// the file is an exact application
		return r.Applied
	}
	for _, h := range r.HunkReports {
		if h.Applied && h.ExactMatch {
			return true
		}
	}
	return false
}

func hasApplied(r FileReport) bool {
	for _, h := range r.HunkReports {
		if h.Applied {
			return true
		}
	}
	return false
}

func allAlreadyApplied(r FileReport) bool {
	if len(r.HunkReports) == 0 {
		// an empty patch is a no-op unless it failed outright
		return r.Notes == ""
	}
	for _, h := range r.HunkReports {
		if !h.AlreadyApplied {
			return false
		}
	}
	return true
}
