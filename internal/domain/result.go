package domain

import (
	"math"
	"time"
)

// Status is the normalized outcome of a single test
type Status string

const (
	StatusPassed  Status = "Passed"
	StatusFailed  Status = "Failed"
	StatusSkipped Status = "Skipped"
)

// TestCaseResult is one test's outcome as read from a rendered report
type TestCaseResult struct {
	Group  string `json:"group"`  // Test case class the test belongs to
	Name   string `json:"name"`   // Human readable test name
	Result string `json:"result"` // Status text exactly as the report shows it
}

// Status maps the verbatim result text onto Passed, Failed or Skipped.
// Error counts as Failed, XPassed as Passed; anything else the report
// does not count towards passed or failed is treated as Skipped.
func (t TestCaseResult) Status() Status {
	switch t.Result {
	case "Passed", "XPassed":
		return StatusPassed
	case "Failed", "Error":
		return StatusFailed
	default:
		return StatusSkipped
	}
}

// DisplayResult is the result text used in rendered output: Error is shown as Failed
func (t TestCaseResult) DisplayResult() string {
	if t.Result == "Error" {
		return string(StatusFailed)
	}
	return t.Result
}

// Skipped reports whether the row is left out of detail output
func (t TestCaseResult) Skipped() bool {
	return t.Result == string(StatusSkipped)
}

// TargetResult aggregates the outcome of one target.
// The passed/failed counters come from the report's summary badges and are
// never recomputed from the detail rows.
type TargetResult struct {
	Target string

	// Err is set when the target's report could not be parsed
	Err error

	// Warnings collects inconsistencies between summary counts and detail rows
	Warnings []string

	passed int
	failed int
	groups []string
	cases  map[string][]TestCaseResult

	total   *int
	percent *float64
}

// NewTargetResult creates a result with the given summary counts
func NewTargetResult(target string, passed, failed int) *TargetResult {
	return &TargetResult{
		Target: target,
		passed: passed,
		failed: failed,
		cases:  make(map[string][]TestCaseResult),
	}
}

// NewFailedTargetResult records a target whose report could not be used
func NewFailedTargetResult(target string, err error) *TargetResult {
	r := NewTargetResult(target, 0, 0)
	r.Err = err
	return r
}

// Passed returns the passed count from the summary badge
func (r *TargetResult) Passed() int { return r.passed }

// Failed returns the failed plus error count from the summary badges
func (r *TargetResult) Failed() int { return r.failed }

// ParseFailed reports whether the target's report was unusable
func (r *TargetResult) ParseFailed() bool { return r.Err != nil }

// TotalTestsExecuted is passed + failed
func (r *TargetResult) TotalTestsExecuted() int {
	if r.total == nil {
		total := r.passed + r.failed
		r.total = &total
	}
	return *r.total
}

// Percent is the pass ratio rounded to one decimal, or 0 when nothing ran
func (r *TargetResult) Percent() float64 {
	if r.percent == nil {
		var p float64
		if total := r.TotalTestsExecuted(); total > 0 {
			p = RoundTo(float64(r.passed)/float64(total)*100, 1)
		}
		r.percent = &p
	}
	return *r.percent
}

// AddTestCaseResult appends a test to its group, keeping first-seen group order
func (r *TargetResult) AddTestCaseResult(tc TestCaseResult) {
	if _, ok := r.cases[tc.Group]; !ok {
		r.groups = append(r.groups, tc.Group)
	}
	r.cases[tc.Group] = append(r.cases[tc.Group], tc)
}

// Groups returns test case group names in insertion order
func (r *TargetResult) Groups() []string {
	return r.groups
}

// Cases returns the tests recorded for a group in insertion order
func (r *TargetResult) Cases(group string) []TestCaseResult {
	return r.cases[group]
}

// AllCases returns every recorded test, grouped and ordered
func (r *TargetResult) AllCases() []TestCaseResult {
	var all []TestCaseResult
	for _, g := range r.groups {
		all = append(all, r.cases[g]...)
	}
	return all
}

// DetailCounts recounts passed and failed from the detail rows
func (r *TargetResult) DetailCounts() (passed, failed int) {
	for _, tc := range r.AllCases() {
		switch tc.Status() {
		case StatusPassed:
			passed++
		case StatusFailed:
			failed++
		}
	}
	return passed, failed
}

// RunResult is every target result of one run in execution order
type RunResult struct {
	ID       string
	Phrase   string
	Started  time.Time
	Finished time.Time
	Targets  []*TargetResult
}

// Append adds a target result; results are never modified once appended
func (r *RunResult) Append(t *TargetResult) {
	r.Targets = append(r.Targets, t)
}

// Totals sums passed and failed across all targets
func (r *RunResult) Totals() (passed, failed int) {
	for _, t := range r.Targets {
		passed += t.Passed()
		failed += t.Failed()
	}
	return passed, failed
}

// OverallPercent is the pass ratio across all targets rounded to two decimals
func (r *RunResult) OverallPercent() float64 {
	passed, failed := r.Totals()
	if passed+failed == 0 {
		return 0
	}
	return RoundTo(float64(passed)/float64(passed+failed)*100, 2)
}

// ParseFailures returns the targets whose reports could not be parsed
func (r *RunResult) ParseFailures() []*TargetResult {
	var failed []*TargetResult
	for _, t := range r.Targets {
		if t.ParseFailed() {
			failed = append(failed, t)
		}
	}
	return failed
}

// Duration is the wall time of the run
func (r *RunResult) Duration() time.Duration {
	if r.Finished.IsZero() {
		return 0
	}
	return r.Finished.Sub(r.Started)
}

// RoundTo rounds half away from zero to the given number of decimals
func RoundTo(v float64, decimals int) float64 {
	pow := math.Pow(10, float64(decimals))
	return math.Round(v*pow) / pow
}
