package ui

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"sdtr/internal/discovery"
	"sdtr/internal/domain"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	color.NoColor = true
	text.DisableColors()
	os.Exit(m.Run())
}

func sampleSummary() *domain.RunSummary {
	return &domain.RunSummary{
		Meta: domain.RunSummaryMeta{
			RunID:           "run-1",
			Phrase:          "nightly",
			TotalTargets:    3,
			Passed:          5,
			Failed:          2,
			OverallPercent:  71.43,
			ReportErrors:    1,
			DurationSeconds: 95,
			Timestamp:       "2024-03-12T10:01:35Z",
		},
		Targets: []domain.TargetSummary{
			{Name: "login", Passed: 4, Failed: 0, Percent: 100},
			{Name: "cart", Passed: 1, Failed: 2, Percent: 33.3, Warnings: []string{"count mismatch"}},
			{Name: "checkout", ReportError: "checkout: read report: file does not exist"},
		},
		Details: []domain.FailedTest{
			{Target: "cart", Group: "TestCart", Name: "remove item", Result: "Failed"},
			{Target: "cart", Group: "TestBadge", Name: "badge count", Result: "Failed"},
		},
	}
}

func TestFormatter_PrintRunSummary(t *testing.T) {
	var buf bytes.Buffer
	workbook := filepath.Join(t.TempDir(), "table-test-results-nightly.xlsx")
	require.NoError(t, os.WriteFile(workbook, make([]byte, 2048), 0644))

	NewFormatter(&buf, discovery.NewParser()).PrintRunSummary(sampleSummary(), workbook)
	out := buf.String()

	assert.Contains(t, out, "Test Results: nightly (95.0s)")
	assert.Contains(t, out, "login")
	assert.Contains(t, out, "33.30%")
	assert.Contains(t, out, "71.43%")
	assert.Contains(t, out, "1 warning(s)")
	assert.Contains(t, out, "read report")
	assert.Contains(t, out, "Finished: 2024-03-12T10:01:35Z")
	assert.Contains(t, out, "(2.0 kB)")
	assert.Contains(t, out, "2 test(s) failed across 1 target(s)")
	assert.Contains(t, out, "1 target report(s) could not be read")
	assert.Contains(t, out, "├── TestCart")
	assert.Contains(t, out, "└── TestBadge")
	assert.Contains(t, out, "    └── badge count")
}

func TestFormatter_PrintRunSummary_AllPassed(t *testing.T) {
	var buf bytes.Buffer
	summary := &domain.RunSummary{
		Meta:    domain.RunSummaryMeta{Phrase: "all", TotalTargets: 1, Passed: 3, OverallPercent: 100},
		Targets: []domain.TargetSummary{{Name: "login", Passed: 3, Percent: 100}},
	}
	NewFormatter(&buf, discovery.NewParser()).PrintRunSummary(summary, "")

	assert.Contains(t, buf.String(), "All tests passed!")
	assert.NotContains(t, buf.String(), "Workbook:")
}

func TestBuildFailureTree(t *testing.T) {
	root := buildFailureTree([]domain.FailedTest{
		{Target: "cart", Group: "TestCart", Name: "remove item"},
		{Target: "login", Group: "TestLogin", Name: "locked out"},
		{Target: "cart", Group: "TestCart", Name: "empty cart"},
	})

	require.Len(t, root.Children, 2)
	assert.Equal(t, "cart", root.Children[0].Name)
	require.Len(t, root.Children[0].Children, 1)
	assert.Equal(t, []string{"remove item", "empty cart"}, root.Children[0].Children[0].Tests)
}

func TestFormatter_PrintTargetList(t *testing.T) {
	root := t.TempDir()
	login := filepath.Join(root, "login")
	cart := filepath.Join(root, "cart")
	require.NoError(t, os.MkdirAll(login, 0755))
	require.NoError(t, os.MkdirAll(cart, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(login, "test_login.py"), []byte("class TestLogin:\n    def test_valid_user(self):\n        pass\n"), 0644))

	targets := []domain.Target{{Name: "login", Path: login}, {Name: "cart", Path: cart}}
	formatter := NewFormatter(nil, discovery.NewParser())

	t.Run("names only", func(t *testing.T) {
		var buf bytes.Buffer
		formatter.out = &buf
		formatter.PrintTargetList(targets, false, map[string]struct{}{"cart": {}})

		lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
		assert.Contains(t, lines[0], "Found 2 target(s)")
		assert.Equal(t, "├── login", lines[len(lines)-2])
		assert.Equal(t, "└── cart [F]", lines[len(lines)-1])
	})

	t.Run("with test cases", func(t *testing.T) {
		var buf bytes.Buffer
		formatter.out = &buf
		formatter.PrintTargetList(targets, true, nil)

		out := buf.String()
		assert.Contains(t, out, "│   └── TestLogin::test_valid_user")
		assert.Contains(t, out, "    └── (no test cases found)")
	})

	total, err := formatter.CountTestCases(targets)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
}
