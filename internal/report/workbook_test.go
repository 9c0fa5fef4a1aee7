package report

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"sdtr/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func sampleRun() *domain.RunResult {
	login := domain.NewTargetResult("login", 4, 1)
	login.AddTestCaseResult(domain.TestCaseResult{Group: "TestLogin", Name: "standard user", Result: "Passed"})
	login.AddTestCaseResult(domain.TestCaseResult{Group: "TestLogin", Name: "locked out user", Result: "Error"})
	login.AddTestCaseResult(domain.TestCaseResult{Group: "TestLogout", Name: "logout", Result: "Skipped"})
	login.AddTestCaseResult(domain.TestCaseResult{Group: "TestLogout", Name: "session cleared", Result: "Passed"})

	cart := domain.NewTargetResult("cart", 5, 3)

	empty := domain.NewTargetResult("inventory", 0, 0)

	run := &domain.RunResult{ID: "run-1", Phrase: "smoke"}
	run.Append(login)
	run.Append(cart)
	run.Append(empty)
	return run
}

func cellValue(t *testing.T, f *excelize.File, sheet, cell string) string {
	t.Helper()
	v, err := f.GetCellValue(sheet, cell)
	require.NoError(t, err)
	return v
}

func isBold(t *testing.T, f *excelize.File, sheet, cell string) bool {
	t.Helper()
	id, err := f.GetCellStyle(sheet, cell)
	require.NoError(t, err)
	style, err := f.GetStyle(id)
	require.NoError(t, err)
	return style.Font != nil && style.Font.Bold
}

func TestWorkbookWriter_Write(t *testing.T) {
	out := filepath.Join(t.TempDir(), "output")
	require.NoError(t, NewWorkbookWriter(out, nil).Write(context.Background(), sampleRun()))

	path := filepath.Join(out, "table-test-results-smoke.xlsx")
	require.FileExists(t, path)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Overview", "login", "cart", "inventory"}, f.GetSheetList())
}

func TestRender_Overview(t *testing.T) {
	f, err := Render(sampleRun())
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, "Overview", cellValue(t, f, OverviewSheet, "A1"))
	merged, err := f.GetMergeCells(OverviewSheet)
	require.NoError(t, err)
	require.Len(t, merged, 1)
	assert.Equal(t, "A1", merged[0].GetStartAxis())
	assert.Equal(t, "B1", merged[0].GetEndAxis())

	width, err := f.GetColWidth(OverviewSheet, "A")
	require.NoError(t, err)
	assert.Equal(t, float64(titleWidth), width)

	titleStyle, err := f.GetCellStyle(OverviewSheet, "A1")
	require.NoError(t, err)
	style, err := f.GetStyle(titleStyle)
	require.NoError(t, err)
	assert.True(t, style.Font.Bold)
	assert.Equal(t, float64(16), style.Font.Size)
	assert.Equal(t, "center", style.Alignment.Horizontal)

	for cell, header := range map[string]string{"A2": "Name", "B2": "Succeeded", "C2": "Failed", "D2": "Success ratio"} {
		assert.Equal(t, header, cellValue(t, f, OverviewSheet, cell))
		assert.True(t, isBold(t, f, OverviewSheet, cell), cell)
	}

	rows := [][]string{
		{"login", "4", "1", "80"},
		{"cart", "5", "3", "62.5"},
		{"inventory", "0", "0", ""},
	}
	for i, want := range rows {
		row := i + 3
		for col, v := range want {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			assert.Equal(t, v, cellValue(t, f, OverviewSheet, cell), cell)
		}
	}

	assert.Equal(t, "", cellValue(t, f, OverviewSheet, "A6"), "blank row before the overall line")
	assert.Equal(t, "Overall", cellValue(t, f, OverviewSheet, "A7"))
	assert.Equal(t, "9", cellValue(t, f, OverviewSheet, "B7"))
	assert.Equal(t, "4", cellValue(t, f, OverviewSheet, "C7"))
	assert.Equal(t, "69.23", cellValue(t, f, OverviewSheet, "D7"))
	for _, cell := range []string{"A7", "B7", "C7", "D7"} {
		assert.True(t, isBold(t, f, OverviewSheet, cell), cell)
	}
	assert.Equal(t, "", cellValue(t, f, OverviewSheet, "E2"), "no note column without report errors")
}

func TestRender_TargetSheet(t *testing.T) {
	f, err := Render(sampleRun())
	require.NoError(t, err)
	defer f.Close()

	want := map[string]string{
		"A1":  "login",
		"A3":  "Summary",
		"A4":  "Total Test Executed:",
		"B4":  "5",
		"A5":  "Total Passes:",
		"B5":  "4",
		"A6":  "Total Failures:",
		"B6":  "1",
		"A7":  "Pass Ratio:",
		"B7":  "80",
		"A9":  "Test Result Details",
		"A10": "TestLogin",
		"A11": "standard user",
		"B11": "Passed",
		"A12": "locked out user",
		"B12": "Failed",
		"A13": "TestLogout",
		"A14": "session cleared",
		"B14": "Passed",
		"A15": "",
	}
	for cell, v := range want {
		assert.Equal(t, v, cellValue(t, f, "login", cell), cell)
	}
	for _, cell := range []string{"A3", "B4", "B5", "B6", "B7", "A9", "A10", "A13"} {
		assert.True(t, isBold(t, f, "login", cell), cell)
	}
	assert.False(t, isBold(t, f, "login", "A11"))

	assert.Equal(t, "0", cellValue(t, f, "inventory", "B4"))
	assert.Equal(t, "0", cellValue(t, f, "inventory", "B7"))
	assert.Equal(t, "", cellValue(t, f, "inventory", "A10"))
}

func TestRender_ReportError(t *testing.T) {
	run := &domain.RunResult{Phrase: "all"}
	run.Append(domain.NewTargetResult("login", 2, 0))
	parseErr := &domain.ReportParseError{Target: "checkout", Path: "/out/checkout-report.html", Reason: "passed count", Err: errors.New("missing span.passed badge")}
	run.Append(domain.NewFailedTargetResult("checkout", parseErr))

	f, err := Render(run)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, "Note", cellValue(t, f, OverviewSheet, "E2"))
	assert.Equal(t, "", cellValue(t, f, OverviewSheet, "E3"))
	assert.Contains(t, cellValue(t, f, OverviewSheet, "E4"), "report error: ")
	assert.Contains(t, cellValue(t, f, OverviewSheet, "E4"), "missing span.passed badge")
	assert.Equal(t, "", cellValue(t, f, OverviewSheet, "D4"))

	assert.Equal(t, "Report error:", cellValue(t, f, "checkout", "A9"))
	assert.Contains(t, cellValue(t, f, "checkout", "B9"), "passed count")
	assert.Equal(t, "100", cellValue(t, f, OverviewSheet, "D6"))
}

func TestRender_EmptyRun(t *testing.T) {
	f, err := Render(&domain.RunResult{Phrase: "all"})
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Overview"}, f.GetSheetList())
	assert.Equal(t, "Overall", cellValue(t, f, OverviewSheet, "A4"))
	assert.Equal(t, "0", cellValue(t, f, OverviewSheet, "D4"))
}

func TestSanitizeSheetName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "login", want: "login"},
		{in: "checkout/guest", want: "checkout_guest"},
		{in: "a[1]:b?*", want: "a_1__b__"},
		{in: "a_very_long_target_name_exceeding_limit", want: "a_very_long_target_name_exceedi"},
		{in: "''", want: "target"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, SanitizeSheetName(tt.in), tt.in)
	}
}

func TestSheetNames_Unique(t *testing.T) {
	names := newSheetNames(OverviewSheet)
	assert.Equal(t, "overview~2", names.next("overview"))
	assert.Equal(t, "cart_x", names.next("cart/x"))
	assert.Equal(t, "cart_x~2", names.next("cart:x"))
}
