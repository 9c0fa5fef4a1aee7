package parser

import (
	"encoding/xml"
	"fmt"
	"os"
	"strings"

	"sdtr/internal/domain"

	"github.com/jstemmer/go-junit-report/v2/junit"
)

// JUnitTotals are the outcome counts of a JUnit XML report
type JUnitTotals struct {
	Tests   int
	Passed  int
	Failed  int // failures + errors
	Skipped int
	Suites  int
	Cases   int // <testcase> elements
}

// ReadJUnit parses a JUnit XML file. Both a <testsuites> root and a bare <testsuite> root are accepted.
func ReadJUnit(path string) (*junit.Testsuites, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file %s: %w", path, err)
	}
	defer file.Close()

	var suites junit.Testsuites
	if err := xml.NewDecoder(file).Decode(&suites); err != nil {
		if _, seekErr := file.Seek(0, 0); seekErr != nil {
			return nil, fmt.Errorf("failed to seek file %s: %w", path, seekErr)
		}
		var suite junit.Testsuite
		if err := xml.NewDecoder(file).Decode(&suite); err != nil {
			return nil, fmt.Errorf("failed to parse JUnit XML %s: %w", path, err)
		}
		suites.Suites = []junit.Testsuite{suite}
	}
	return &suites, nil
}

// Totals sums the suite attributes of a JUnit report
func Totals(suites *junit.Testsuites) JUnitTotals {
	var t JUnitTotals
	for _, s := range suites.Suites {
		t.Suites++
		t.Tests += s.Tests
		t.Failed += s.Failures + s.Errors
		t.Skipped += s.Skipped
		t.Cases += len(s.Testcases)
	}
	t.Passed = t.Tests - t.Failed - t.Skipped
	if t.Passed < 0 {
		t.Passed = 0
	}
	return t
}

// CrossCheck compares a parsed target result against the JUnit XML written by the same process.
// A missing XML file is not an inconsistency; the returned string is empty when the counts agree.
func CrossCheck(result *domain.TargetResult, xmlPath string) (string, error) {
	if _, err := os.Stat(xmlPath); os.IsNotExist(err) {
		return "", nil
	}
	suites, err := ReadJUnit(xmlPath)
	if err != nil {
		return "", err
	}
	totals := Totals(suites)
	if totals.Passed == result.Passed() && totals.Failed == result.Failed() {
		return "", nil
	}
	return fmt.Sprintf("junit report shows %d passed / %d failed, html summary shows %d passed / %d failed",
		totals.Passed, totals.Failed, result.Passed(), result.Failed()), nil
}

// FailureMessage returns the failure or error text JUnit recorded for a test, located by its
// group (the last segment of the testcase classname) and display name.
// An empty string means the test has no recorded failure.
func FailureMessage(xmlPath, group, name string) (string, error) {
	suites, err := ReadJUnit(xmlPath)
	if err != nil {
		return "", err
	}
	for _, s := range suites.Suites {
		for _, tc := range s.Testcases {
			classname := tc.Classname
			if i := strings.LastIndex(classname, "."); i >= 0 {
				classname = classname[i+1:]
			}
			if classname != group || DisplayName(tc.Name) != name {
				continue
			}
			result := tc.Failure
			if result == nil {
				result = tc.Error
			}
			if result == nil {
				return "", nil
			}
			return strings.TrimSpace(strings.Join([]string{result.Message, strings.TrimSpace(result.Data)}, "\n\n")), nil
		}
	}
	return "", nil
}
