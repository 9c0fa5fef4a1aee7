package discovery

import (
	"path/filepath"
	"strings"

	"sdtr/internal/domain"
)

// Filter filters targets by name pattern
type Filter struct{}

// NewFilter creates a new Filter
func NewFilter() *Filter {
	return &Filter{}
}

// FilterByName keeps the targets whose name matches pattern.
// Supports patterns like "check*" or "*inventory*"; a pattern without wildcards matches as a substring.
func (f *Filter) FilterByName(targets []domain.Target, pattern string) []domain.Target {
	if pattern == "" {
		return targets
	}

	var filtered []domain.Target
	for _, target := range targets {
		if matchName(target.Name, pattern) {
			filtered = append(filtered, target)
		}
	}
	return filtered
}

func matchName(name, pattern string) bool {
	if matched, err := filepath.Match(pattern, name); err == nil && matched {
		return true
	}

	if !strings.ContainsAny(pattern, "*?") {
		return strings.Contains(name, pattern)
	}

	// filepath.Match is anchored; fall back to matching every literal part in order
	if !strings.Contains(pattern, "*") {
		return false
	}
	rest := name
	hasPart := false
	for _, part := range strings.Split(pattern, "*") {
		if part == "" {
			continue
		}
		hasPart = true
		i := strings.Index(rest, part)
		if i < 0 {
			return false
		}
		rest = rest[i+len(part):]
	}
	return hasPart
}
