package parser

import (
	"path"
	"strings"
)

const testPrefix = "test_"

// DisplayName converts a test function name into its human readable form:
// "test_login_with_locked_user" becomes "login with locked user".
func DisplayName(testName string) string {
	if i := strings.Index(testName, testPrefix); i >= 0 {
		testName = testName[i+len(testPrefix):]
	}
	return strings.ReplaceAll(testName, "_", " ")
}

// SplitNodeID splits a report row identifier "file::Class::test_fn" into its group
// and test function. Module level tests ("file::test_fn") are grouped under the file stem.
func SplitNodeID(id string) (group, test string, ok bool) {
	parts := strings.Split(strings.TrimSpace(id), "::")
	switch {
	case len(parts) >= 3:
		return parts[1], parts[len(parts)-1], true
	case len(parts) == 2:
		file := path.Base(strings.ReplaceAll(parts[0], "\\", "/"))
		return strings.TrimSuffix(file, path.Ext(file)), parts[1], true
	default:
		return "", "", false
	}
}
