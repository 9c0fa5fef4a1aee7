package parser

import (
	"os"
	"path/filepath"
	"testing"

	"sdtr/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadJUnit(t *testing.T) {
	suites, err := ReadJUnit(filepath.Join("testdata", "checkout-report.xml"))
	require.NoError(t, err)

	totals := Totals(suites)
	assert.Equal(t, JUnitTotals{Tests: 6, Passed: 3, Failed: 2, Skipped: 1, Suites: 1, Cases: 6}, totals)
}

func TestReadJUnit_BareTestsuite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "login-report.xml")
	xml := `<testsuite name="pytest" errors="0" failures="1" skipped="0" tests="3" time="1.0">
  <testcase classname="TestLogin" name="test_a"/>
  <testcase classname="TestLogin" name="test_b"/>
  <testcase classname="TestLogin" name="test_c"><failure message="boom"/></testcase>
</testsuite>`
	require.NoError(t, os.WriteFile(path, []byte(xml), 0644))

	suites, err := ReadJUnit(path)
	require.NoError(t, err)
	totals := Totals(suites)
	assert.Equal(t, 2, totals.Passed)
	assert.Equal(t, 1, totals.Failed)
}

func TestCrossCheck(t *testing.T) {
	xmlPath := filepath.Join("testdata", "checkout-report.xml")

	t.Run("agreeing counts", func(t *testing.T) {
		msg, err := CrossCheck(domain.NewTargetResult("checkout", 3, 2), xmlPath)
		require.NoError(t, err)
		assert.Empty(t, msg)
	})

	t.Run("disagreeing counts", func(t *testing.T) {
		msg, err := CrossCheck(domain.NewTargetResult("checkout", 5, 0), xmlPath)
		require.NoError(t, err)
		assert.Contains(t, msg, "junit report shows 3 passed / 2 failed")
	})

	t.Run("missing xml", func(t *testing.T) {
		msg, err := CrossCheck(domain.NewTargetResult("checkout", 1, 0), filepath.Join(t.TempDir(), "none.xml"))
		require.NoError(t, err)
		assert.Empty(t, msg)
	})

	t.Run("garbage xml", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.xml")
		require.NoError(t, os.WriteFile(path, []byte("not xml"), 0644))
		_, err := CrossCheck(domain.NewTargetResult("checkout", 1, 0), path)
		assert.Error(t, err)
	})
}

func TestFailureMessage(t *testing.T) {
	xmlPath := filepath.Join("testdata", "checkout-report.xml")

	msg, err := FailureMessage(xmlPath, "TestCheckoutInformation", "missing postal code")
	require.NoError(t, err)
	assert.Equal(t, "AssertionError: error banner not shown\n\nAssertionError", msg)

	msg, err = FailureMessage(xmlPath, "TestCheckoutOverview", "item total")
	require.NoError(t, err)
	assert.Contains(t, msg, `failed on setup with "TimeoutException"`)

	msg, err = FailureMessage(xmlPath, "TestCheckoutComplete", "back home")
	require.NoError(t, err)
	assert.Empty(t, msg)

	_, err = FailureMessage(filepath.Join(t.TempDir(), "missing.xml"), "TestCart", "add")
	assert.Error(t, err)
}
