package domain

import "time"

// RunSummaryMeta contains metadata about a run
type RunSummaryMeta struct {
	RunID           string  `json:"run_id"`
	Phrase          string  `json:"phrase"`
	TotalTargets    int     `json:"total_targets"`
	Passed          int     `json:"passed"`
	Failed          int     `json:"failed"`
	OverallPercent  float64 `json:"overall_percent"`
	ReportErrors    int     `json:"report_errors"`
	Duration        string  `json:"duration"`
	DurationSeconds float64 `json:"duration_seconds"`
	Timestamp       string  `json:"timestamp"`
}

// TargetSummary is the persisted form of a TargetResult
type TargetSummary struct {
	Name        string           `json:"name"`
	Passed      int              `json:"passed"`
	Failed      int              `json:"failed"`
	Percent     float64          `json:"percent"`
	ReportError string           `json:"report_error,omitempty"`
	Warnings    []string         `json:"warnings,omitempty"`
	Cases       []TestCaseResult `json:"cases"`
}

// FailedTest is a failed test case in the persisted summary
type FailedTest struct {
	Target string `json:"target"`
	Group  string `json:"group"`
	Name   string `json:"name"`
	Result string `json:"result"`
	Report string `json:"report,omitempty"` // Rendered report the failure was read from

	// Resolved is toggled from the failures viewer
	Resolved bool `json:"resolved,omitempty"`
}

// RunSummary is the complete persisted structure of a run
type RunSummary struct {
	Meta    RunSummaryMeta  `json:"meta"`
	Targets []TargetSummary `json:"targets"`
	Details []FailedTest    `json:"details"`
}

// Summarize converts a run into its persisted form.
// reportPath maps a target name to its rendered report file and may be nil.
func Summarize(run *RunResult, reportPath func(target string) string) RunSummary {
	passed, failed := run.Totals()
	duration := run.Duration()
	out := RunSummary{
		Meta: RunSummaryMeta{
			RunID:           run.ID,
			Phrase:          run.Phrase,
			TotalTargets:    len(run.Targets),
			Passed:          passed,
			Failed:          failed,
			OverallPercent:  run.OverallPercent(),
			ReportErrors:    len(run.ParseFailures()),
			Duration:        duration.String(),
			DurationSeconds: duration.Seconds(),
			Timestamp:       run.Finished.Format(time.RFC3339),
		},
		Targets: make([]TargetSummary, 0, len(run.Targets)),
		Details: []FailedTest{},
	}

	for _, t := range run.Targets {
		ts := TargetSummary{
			Name:     t.Target,
			Passed:   t.Passed(),
			Failed:   t.Failed(),
			Percent:  t.Percent(),
			Warnings: t.Warnings,
			Cases:    t.AllCases(),
		}
		if ts.Cases == nil {
			ts.Cases = []TestCaseResult{}
		}
		if t.Err != nil {
			ts.ReportError = t.Err.Error()
		}
		out.Targets = append(out.Targets, ts)

		for _, tc := range ts.Cases {
			if tc.Status() != StatusFailed {
				continue
			}
			ft := FailedTest{Target: t.Target, Group: tc.Group, Name: tc.Name, Result: tc.DisplayResult()}
			if reportPath != nil {
				ft.Report = reportPath(t.Target)
			}
			out.Details = append(out.Details, ft)
		}
	}
	return out
}
