package discovery

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

var (
	classPattern = regexp.MustCompile(`^class\s+(\w+)\s*[(:]`)
	testPattern  = regexp.MustCompile(`^(\s*)(?:async\s+)?def\s+(test\w*)\s*\(`)
)

// Parser lists the test cases of a target
type Parser struct{}

// NewParser creates a new Parser
func NewParser() *Parser {
	return &Parser{}
}

// IsTestFile reports whether a file name follows the test module naming convention
func IsTestFile(name string) bool {
	if filepath.Ext(name) != ".py" {
		return false
	}
	base := strings.TrimSuffix(name, ".py")
	return strings.HasPrefix(base, "test_") || strings.HasSuffix(base, "_test")
}

// FindTestCases walks a target directory and returns "Class::test_fn" identifiers
// (or just "test_fn" for module level tests), sorted and without duplicates.
func (p *Parser) FindTestCases(dir string) ([]string, error) {
	testCasesMap := make(map[string]bool)

	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != dir && (strings.HasPrefix(d.Name(), ReservedPrefix) || strings.HasPrefix(d.Name(), ".")) {
				return filepath.SkipDir
			}
			return nil
		}
		if !IsTestFile(d.Name()) {
			return nil
		}
		cases, err := p.FindInFile(path)
		if err != nil {
			return err
		}
		for _, c := range cases {
			testCasesMap[c] = true
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("error scanning target %s: %w", dir, err)
	}

	testCases := make([]string, 0, len(testCasesMap))
	for testCase := range testCasesMap {
		testCases = append(testCases, testCase)
	}
	sort.Strings(testCases)
	return testCases, nil
}

// FindInFile extracts test functions from one test module
func (p *Parser) FindInFile(filePath string) ([]string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("error reading file %s: %w", filePath, err)
	}
	defer file.Close()

	var (
		cases        []string
		currentClass string
	)
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := scanner.Text()

		if m := classPattern.FindStringSubmatch(line); m != nil {
			currentClass = m[1]
			continue
		}

		m := testPattern.FindStringSubmatch(line)
		if m == nil {
			// any other top-level statement ends the class body
			if line != "" && !strings.HasPrefix(line, " ") && !strings.HasPrefix(line, "\t") &&
				!strings.HasPrefix(line, "#") && !strings.HasPrefix(line, "@") {
				currentClass = ""
			}
			continue
		}

		indent, name := m[1], m[2]
		if indent == "" {
			currentClass = ""
			cases = append(cases, name)
		} else if currentClass != "" {
			cases = append(cases, currentClass+"::"+name)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading file %s: %w", filePath, err)
	}
	return cases, nil
}
