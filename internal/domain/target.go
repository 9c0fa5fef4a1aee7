package domain

// Target is one independently runnable test suite: a named directory of test cases
type Target struct {
	Name string // Directory name, unique within a run
	Path string // Full path to the target directory
}

// TargetNames returns the names of the given targets in order
func TargetNames(targets []Target) []string {
	names := make([]string, 0, len(targets))
	for _, t := range targets {
		names = append(names, t.Name)
	}
	return names
}
