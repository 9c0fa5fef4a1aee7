package report

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"sdtr/internal/domain"

	"github.com/xuri/excelize/v2"
)

const (
	OverviewSheet = "Overview"

	// excelize creates every workbook with this sheet
	defaultSheet = "Sheet1"

	maxSheetName = 31
	titleWidth   = 100
	detailsRow   = 10
)

// WorkbookPath returns the workbook location for a phrase
func WorkbookPath(outputDir, phrase string) string {
	return filepath.Join(outputDir, fmt.Sprintf("table-test-results-%s.xlsx", phrase))
}

// WorkbookWriter renders a run into a single xlsx workbook: an overview sheet plus one sheet per target
type WorkbookWriter struct {
	outputDir string
	logger    *slog.Logger
}

// NewWorkbookWriter creates a writer saving into outputDir
func NewWorkbookWriter(outputDir string, logger *slog.Logger) *WorkbookWriter {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &WorkbookWriter{outputDir: outputDir, logger: logger}
}

// Write renders the workbook for run and saves it once
func (w *WorkbookWriter) Write(_ context.Context, run *domain.RunResult) error {
	path := WorkbookPath(w.outputDir, run.Phrase)
	if err := os.MkdirAll(w.outputDir, 0755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	f, err := Render(run)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook %s: %w", path, err)
	}
	w.logger.Info("workbook written", "path", path, "targets", len(run.Targets))
	return nil
}

type styles struct {
	title int
	bold  int
}

func newStyles(f *excelize.File) (styles, error) {
	var s styles
	var err error
	s.title, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 16},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return s, fmt.Errorf("create title style: %w", err)
	}
	s.bold, err = f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return s, fmt.Errorf("create bold style: %w", err)
	}
	return s, nil
}

// sheet wraps cell writes for one worksheet and keeps the first error
type sheet struct {
	f      *excelize.File
	name   string
	styles styles
	err    error
}

func (s *sheet) set(col, row int, value any) {
	if s.err != nil {
		return
	}
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		s.err = err
		return
	}
	s.err = s.f.SetCellValue(s.name, cell, value)
}

func (s *sheet) bold(col, row int, value any) {
	s.set(col, row, value)
	if s.err != nil {
		return
	}
	cell, _ := excelize.CoordinatesToCellName(col, row)
	s.err = s.f.SetCellStyle(s.name, cell, cell, s.styles.bold)
}

func (s *sheet) title(text string) {
	if s.err != nil {
		return
	}
	if s.err = s.f.SetColWidth(s.name, "A", "A", titleWidth); s.err != nil {
		return
	}
	if s.err = s.f.MergeCell(s.name, "A1", "B1"); s.err != nil {
		return
	}
	if s.err = s.f.SetCellValue(s.name, "A1", text); s.err != nil {
		return
	}
	s.err = s.f.SetCellStyle(s.name, "A1", "B1", s.styles.title)
}

// Render builds the workbook in memory. The caller owns the returned file.
func Render(run *domain.RunResult) (*excelize.File, error) {
	f := excelize.NewFile()
	st, err := newStyles(f)
	if err != nil {
		f.Close()
		return nil, err
	}
	if err := f.SetSheetName(defaultSheet, OverviewSheet); err != nil {
		f.Close()
		return nil, fmt.Errorf("create overview sheet: %w", err)
	}

	overview := &sheet{f: f, name: OverviewSheet, styles: st}
	overview.title(OverviewSheet)
	for col, header := range []string{"Name", "Succeeded", "Failed", "Success ratio"} {
		overview.bold(col+1, 2, header)
	}

	names := newSheetNames(OverviewSheet)
	row := 3
	hasNotes := false
	for _, target := range run.Targets {
		if err := writeTargetSheet(f, st, names.next(target.Target), target); err != nil {
			f.Close()
			return nil, err
		}

		overview.set(1, row, target.Target)
		overview.set(2, row, target.Passed())
		overview.set(3, row, target.Failed())
		if target.TotalTestsExecuted() > 0 {
			overview.set(4, row, target.Percent())
		}
		if target.Err != nil {
			hasNotes = true
			overview.set(5, row, "report error: "+target.Err.Error())
		}
		row++
	}
	if hasNotes {
		overview.bold(5, 2, "Note")
	}

	passed, failed := run.Totals()
	row++ // blank separator row
	overview.bold(1, row, "Overall")
	overview.bold(2, row, passed)
	overview.bold(3, row, failed)
	overview.bold(4, row, run.OverallPercent())

	if overview.err != nil {
		f.Close()
		return nil, fmt.Errorf("write overview sheet: %w", overview.err)
	}
	return f, nil
}

func writeTargetSheet(f *excelize.File, st styles, name string, target *domain.TargetResult) error {
	if _, err := f.NewSheet(name); err != nil {
		return fmt.Errorf("create sheet for %s: %w", target.Target, err)
	}

	s := &sheet{f: f, name: name, styles: st}
	s.title(target.Target)
	s.bold(1, 3, "Summary")
	s.set(1, 4, "Total Test Executed:")
	s.bold(2, 4, target.TotalTestsExecuted())
	s.set(1, 5, "Total Passes:")
	s.bold(2, 5, target.Passed())
	s.set(1, 6, "Total Failures:")
	s.bold(2, 6, target.Failed())
	s.set(1, 7, "Pass Ratio:")
	s.bold(2, 7, target.Percent())

	if target.Err != nil {
		s.bold(1, 9, "Report error:")
		s.set(2, 9, target.Err.Error())
	} else {
		s.bold(1, 9, "Test Result Details")
		row := detailsRow
		for _, group := range target.Groups() {
			s.bold(1, row, group)
			row++
			for _, tc := range target.Cases(group) {
				if tc.Skipped() {
					continue
				}
				s.set(1, row, tc.Name)
				s.set(2, row, tc.DisplayResult())
				row++
			}
		}
	}

	if s.err != nil {
		return fmt.Errorf("write sheet for %s: %w", target.Target, s.err)
	}
	return nil
}

// sheetNames hands out worksheet names that Excel accepts and that are unique within the workbook
type sheetNames struct {
	used map[string]bool
}

func newSheetNames(reserved ...string) *sheetNames {
	n := &sheetNames{used: make(map[string]bool)}
	for _, r := range reserved {
		n.used[strings.ToLower(r)] = true
	}
	return n
}

func (n *sheetNames) next(target string) string {
	base := SanitizeSheetName(target)
	name := base
	for i := 2; n.used[strings.ToLower(name)]; i++ {
		suffix := fmt.Sprintf("~%d", i)
		name = truncate(base, maxSheetName-len(suffix)) + suffix
	}
	n.used[strings.ToLower(name)] = true
	return name
}

// SanitizeSheetName replaces characters Excel forbids in sheet names and limits the length to 31
func SanitizeSheetName(name string) string {
	name = strings.Map(func(r rune) rune {
		switch r {
		case ':', '\\', '/', '?', '*', '[', ']':
			return '_'
		}
		return r
	}, name)
	name = strings.Trim(name, "'")
	if name == "" {
		name = "target"
	}
	return truncate(name, maxSheetName)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
