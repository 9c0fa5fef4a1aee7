package ui

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"

	"sdtr/internal/domain"
	"sdtr/internal/execution"
	"sdtr/internal/parser"
	"sdtr/internal/storage"

	"github.com/fatih/color"
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

// FailuresViewer displays failed tests in an interactive TUI
type FailuresViewer struct {
	storage storage.Storage
	logger  *slog.Logger
}

// NewFailuresViewer creates a new FailuresViewer; resolved flags are saved through st
func NewFailuresViewer(st storage.Storage, logger *slog.Logger) *FailuresViewer {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &FailuresViewer{
		storage: st,
		logger:  logger,
	}
}

// View displays failed tests in an interactive TUI
func (fv *FailuresViewer) View(summary *domain.RunSummary) error {
	if len(summary.Details) == 0 {
		color.Green("✓ No test failures found!")
		return nil
	}
	details := summary.Details

	app := tview.NewApplication()

	list := tview.NewList().
		ShowSecondaryText(false).
		SetHighlightFullLine(true)
	for i := range details {
		list.AddItem(listItemText(details[i], i), "", 0, nil)
	}
	list.SetMainTextColor(tview.Styles.PrimaryTextColor).
		SetSelectedTextColor(tcell.ColorWhite).
		SetSelectedBackgroundColor(tcell.ColorDarkCyan).
		SetSecondaryTextColor(tview.Styles.SecondaryTextColor)

	statsView := tview.NewTextView().
		SetDynamicColors(true).
		SetWrap(false).
		SetWordWrap(false)

	detailsView := tview.NewTextView().
		SetDynamicColors(true).
		SetWrap(true).
		SetWordWrap(true)

	detailsContainer := tview.NewFlex().
		SetDirection(tview.FlexColumn).
		AddItem(detailsView, 0, 1, false).
		AddItem(tview.NewBox(), 2, 0, false)

	rightSide := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(statsView, 3, 0, false).
		AddItem(detailsContainer, 0, 1, false)

	// list on the left (1/3), details on the right (2/3)
	flex := tview.NewFlex().
		SetDirection(tview.FlexColumn).
		AddItem(list, 0, 1, true).
		AddItem(rightSide, 0, 2, false)

	headerView := tview.NewTextView().
		SetTextAlign(tview.AlignCenter).
		SetDynamicColors(true)

	updateHeader := func() {
		headerView.SetText(headerText(details))
	}
	updateHeader()

	// JUnit lookups are cached per failure
	messages := make(map[int]string)
	updateDetails := func() {
		index := list.GetCurrentItem()
		if index < 0 || index >= len(details) {
			return
		}
		failure := details[index]
		msg, ok := messages[index]
		if !ok {
			msg = fv.failureMessage(failure)
			messages[index] = msg
		}
		statsView.SetText(formatFailureStats(failure, index+1))
		detailsView.SetText(formatFailureDetails(failure, msg))
		detailsView.ScrollToBeginning()
	}

	list.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyEnter, tcell.KeyRight:
			app.SetFocus(detailsView)
			return nil
		case tcell.KeyCtrlC:
			app.Stop()
			return nil
		case tcell.KeyRune:
			if event.Rune() == 'r' || event.Rune() == 'R' {
				index := list.GetCurrentItem()
				if index >= 0 && index < len(details) {
					details[index].Resolved = !details[index].Resolved
					list.SetItemText(index, listItemText(details[index], index), "")
					updateHeader()
					updateDetails()
					if err := fv.storage.SaveSummary(summary); err != nil {
						fv.logger.Error("failed to save resolved status", "error", err)
					}
				}
				return nil
			}
		}
		return event
	})

	detailsView.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyLeft, tcell.KeyEsc:
			app.SetFocus(list)
			return nil
		case tcell.KeyCtrlC:
			app.Stop()
			return nil
		}
		return event
	})

	list.SetChangedFunc(func(int, string, string, rune) {
		updateDetails()
	})
	updateDetails()

	mainLayout := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(headerView, 1, 0, false).
		AddItem(tview.NewBox(), 1, 0, false).
		AddItem(flex, 0, 1, true)

	if err := app.SetRoot(mainLayout, true).SetFocus(list).Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

// failureMessage reads the failure text from the JUnit report written next to the HTML report
func (fv *FailuresViewer) failureMessage(failure domain.FailedTest) string {
	if failure.Report == "" {
		return ""
	}
	xmlPath, _ := execution.ReportPaths(filepath.Dir(failure.Report), failure.Target)
	msg, err := parser.FailureMessage(xmlPath, failure.Group, failure.Name)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			fv.logger.Warn("failed to read junit report", "path", xmlPath, "error", err)
		}
		return ""
	}
	return msg
}

func unresolvedCount(details []domain.FailedTest) int {
	var n int
	for _, d := range details {
		if !d.Resolved {
			n++
		}
	}
	return n
}

func headerText(details []domain.FailedTest) string {
	return fmt.Sprintf(" Test Failures (%d total, %d unresolved) | Use ↑↓ to navigate, [yellow]R[white] to mark resolved, → to view details, ← to go back, Ctrl+C to exit ",
		len(details), unresolvedCount(details))
}

func listItemText(failure domain.FailedTest, index int) string {
	if failure.Resolved {
		return fmt.Sprintf("[gray]✓ [yellow]%d.[gray] %s[white]", index+1, failure.Name)
	}
	return fmt.Sprintf("[yellow]%d.[white] %s", index+1, failure.Name)
}

// formatFailureStats formats the stats header for a failed test
func formatFailureStats(failure domain.FailedTest, number int) string {
	name := failure.Name
	if name == "" {
		name = fmt.Sprintf("Test %d", number)
	}
	return fmt.Sprintf("[cyan]target:[white] [yellow]%s[white] > [yellow]%s[white] > [yellow]%s[white]\n",
		failure.Target, failure.Group, name)
}

// formatFailureDetails formats a failed test using tview color tags
func formatFailureDetails(failure domain.FailedTest, message string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "[red]✗ Test: %s[white]\n\n", failure.Name)
	fmt.Fprintf(&b, "[cyan]Group:[white]  %s\n", failure.Group)
	fmt.Fprintf(&b, "[cyan]Result:[white] %s\n", failure.Result)
	if failure.Report != "" {
		fmt.Fprintf(&b, "[cyan]Report:[white] %s\n", failure.Report)
	}
	if failure.Resolved {
		b.WriteString("[green]Marked as resolved[white]\n")
	}
	b.WriteString("\n")

	if message != "" {
		fmt.Fprintf(&b, "[yellow]Message:[white]\n%s\n", tview.Escape(message))
	}
	return b.String()
}
