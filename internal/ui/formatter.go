package ui

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"sdtr/internal/discovery"
	"sdtr/internal/domain"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// Formatter formats and displays output
type Formatter struct {
	out    io.Writer
	parser *discovery.Parser
}

// NewFormatter creates a new Formatter writing to out
func NewFormatter(out io.Writer, parser *discovery.Parser) *Formatter {
	return &Formatter{
		out:    out,
		parser: parser,
	}
}

// PrintRunSummary prints the per-target table of a run followed by the failed tests.
// workbook is the written workbook path; it is skipped when empty.
func (f *Formatter) PrintRunSummary(summary *domain.RunSummary, workbook string) {
	meta := summary.Meta

	t := table.NewWriter()
	t.SetOutputMirror(f.out)
	t.SetTitle(fmt.Sprintf("Test Results: %s (%s)", meta.Phrase, formatDuration(meta.DurationSeconds)))
	t.AppendHeader(table.Row{"Target", "Passed", "Failed", "Pass Ratio", "Note"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Name: "Passed", Align: text.AlignRight},
		{Name: "Failed", Align: text.AlignRight},
		{Name: "Pass Ratio", Align: text.AlignRight},
		{Name: "Note", WidthMax: 60, WidthMaxEnforcer: text.WrapSoft},
	})

	for _, target := range summary.Targets {
		t.AppendRow(table.Row{
			target.Name,
			target.Passed,
			target.Failed,
			formatPercent(target.Percent),
			targetNote(target),
		})
	}
	t.AppendFooter(table.Row{"TOTAL", meta.Passed, meta.Failed, formatPercent(meta.OverallPercent), ""})

	if meta.Failed == 0 && meta.ReportErrors == 0 {
		t.SetStyle(table.StyleColoredBlackOnGreenWhite)
	} else {
		t.SetStyle(table.StyleColoredBlackOnRedWhite)
	}
	t.Render()

	fmt.Fprintln(f.out)
	if finished, err := time.Parse(time.RFC3339, meta.Timestamp); err == nil {
		fmt.Fprintf(f.out, "Finished: %s (%s)\n", meta.Timestamp, humanize.Time(finished))
	}
	if workbook != "" {
		if info, err := os.Stat(workbook); err == nil {
			fmt.Fprintf(f.out, "Workbook: %s (%s)\n", workbook, humanize.Bytes(uint64(info.Size())))
		}
	}
	fmt.Fprintln(f.out)

	switch {
	case meta.Failed == 0 && meta.ReportErrors == 0:
		fmt.Fprintln(f.out, color.GreenString("✓ All tests passed!"))
	case meta.Failed > 0:
		fmt.Fprintln(f.out, color.RedString("✗ %d test(s) failed across %d target(s)", meta.Failed, failedTargets(summary)))
	}
	if meta.ReportErrors > 0 {
		fmt.Fprintln(f.out, color.YellowString("! %d target report(s) could not be read", meta.ReportErrors))
	}
	if len(summary.Details) > 0 {
		fmt.Fprintln(f.out)
		f.printFailedTestsTree(summary.Details)
	}
}

func targetNote(target domain.TargetSummary) string {
	if target.ReportError != "" {
		return target.ReportError
	}
	if n := len(target.Warnings); n > 0 {
		return fmt.Sprintf("%d warning(s)", n)
	}
	return ""
}

func failedTargets(summary *domain.RunSummary) int {
	var n int
	for _, target := range summary.Targets {
		if target.Failed > 0 {
			n++
		}
	}
	return n
}

func formatDuration(seconds float64) string {
	return fmt.Sprintf("%.1fs", seconds)
}

func formatPercent(p float64) string {
	return fmt.Sprintf("%.2f%%", p)
}

// TreeNode is a target or group in the failed tests tree
type TreeNode struct {
	Name     string
	Children []*TreeNode
	Tests    []string
}

func (n *TreeNode) child(name string) *TreeNode {
	for _, c := range n.Children {
		if c.Name == name {
			return c
		}
	}
	c := &TreeNode{Name: name}
	n.Children = append(n.Children, c)
	return c
}

// buildFailureTree groups failures by target and test case group, keeping first-seen order
func buildFailureTree(failures []domain.FailedTest) *TreeNode {
	root := &TreeNode{}
	for _, failure := range failures {
		group := root.child(failure.Target).child(failure.Group)
		group.Tests = append(group.Tests, failure.Name)
	}
	return root
}

// printFailedTestsTree prints target → group → test for every failure
func (f *Formatter) printFailedTestsTree(failures []domain.FailedTest) {
	root := buildFailureTree(failures)
	for _, target := range root.Children {
		fmt.Fprintln(f.out, color.CyanString(target.Name))
		for i, group := range target.Children {
			lastGroup := i == len(target.Children)-1
			fmt.Fprintln(f.out, branch("", lastGroup)+color.YellowString(group.Name))

			prefix := "│   "
			if lastGroup {
				prefix = "    "
			}
			for j, test := range group.Tests {
				fmt.Fprintln(f.out, branch(prefix, j == len(group.Tests)-1)+color.RedString(test))
			}
		}
	}
}

func branch(prefix string, last bool) string {
	if last {
		return prefix + "└── "
	}
	return prefix + "├── "
}

// PrintTargetList prints targets, optionally with the test cases found in each.
// failed is optional; targets in it are marked with [F] from the last run.
func (f *Formatter) PrintTargetList(targets []domain.Target, showTestCases bool, failed map[string]struct{}) {
	if showTestCases {
		fmt.Fprintln(f.out, color.GreenString("Found %d target(s) with test cases:\n", len(targets)))
	} else {
		fmt.Fprintln(f.out, color.GreenString("Found %d target(s):\n", len(targets)))
	}

	for i, target := range targets {
		isLast := i == len(targets)-1

		failMarker := ""
		if _, ok := failed[target.Name]; ok {
			failMarker = " " + color.RedString("[F]")
		}
		fmt.Fprintln(f.out, branch("", isLast)+color.CyanString(target.Name)+failMarker)

		if !showTestCases {
			continue
		}

		prefix := "│   "
		if isLast {
			prefix = "    "
		}
		testCases, err := f.parser.FindTestCases(target.Path)
		if err != nil {
			fmt.Fprintln(f.out, branch(prefix, true)+color.RedString("error reading %s: %v", filepath.Base(target.Path), err))
			continue
		}
		if len(testCases) == 0 {
			fmt.Fprintln(f.out, branch(prefix, true)+color.RedString("(no test cases found)"))
			continue
		}
		for j, testCase := range testCases {
			fmt.Fprintln(f.out, branch(prefix, j == len(testCases)-1)+color.YellowString(testCase))
		}
	}
}

// CountTestCases returns the total number of test cases across the given targets.
func (f *Formatter) CountTestCases(targets []domain.Target) (int, error) {
	var total int
	for _, target := range targets {
		cases, err := f.parser.FindTestCases(target.Path)
		if err != nil {
			return 0, err
		}
		total += len(cases)
	}
	return total, nil
}
