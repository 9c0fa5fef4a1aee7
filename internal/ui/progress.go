package ui

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"
)

// ProgressBar shows how many targets of a run have finished
type ProgressBar struct {
	bar     *progressbar.ProgressBar
	current string
	passed  int
	failed  int
}

// NewProgressBar creates a progress bar over count targets on stderr
func NewProgressBar(count int) *ProgressBar {
	return newProgressBar(count, os.Stderr)
}

func newProgressBar(count int, w io.Writer) *ProgressBar {
	p := &ProgressBar{}
	p.bar = progressbar.NewOptions(count,
		progressbar.OptionSetDescription(p.describe()),
		progressbar.OptionSetWidth(50),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        color.CyanString("█"),
			SaucerHead:    color.CyanString("█"),
			SaucerPadding: "░",
			BarStart:      "│",
			BarEnd:        "│",
		}),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWriter(w),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprint(w, "\n")
		}),
		progressbar.OptionSetRenderBlankState(true),
	)
	return p
}

func (p *ProgressBar) describe() string {
	label := "Running targets: "
	if p.current != "" {
		label = fmt.Sprintf("Running %s: ", p.current)
	}
	return color.CyanString(label) +
		color.GreenString("[passed: %d", p.passed) +
		" | " +
		color.RedString("failed: %d]", p.failed)
}

// Start shows the target that is about to run
func (p *ProgressBar) Start(target string) {
	p.current = target
	p.bar.Describe(p.describe())
}

// Update moves the bar to completed targets and shows the running test totals
func (p *ProgressBar) Update(completed, passed, failed int) {
	p.passed, p.failed = passed, failed
	p.bar.Describe(p.describe())
	_ = p.bar.Set(completed)
}

// Finish completes the progress bar
func (p *ProgressBar) Finish() {
	p.current = ""
	p.bar.Describe(p.describe())
	_ = p.bar.Finish()
}
