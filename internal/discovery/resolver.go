package discovery

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"sdtr/internal/domain"
)

// ReservedPrefix marks internal modules in the targets directory (e.g. __pycache__)
const ReservedPrefix = "__"

// Resolver determines the targets of a run from the targets directory
type Resolver struct {
	root string
}

// NewResolver creates a Resolver over the directory holding one subdirectory per target
func NewResolver(root string) *Resolver {
	return &Resolver{root: filepath.Clean(root)}
}

// Root returns the targets directory
func (r *Resolver) Root() string {
	return r.root
}

func (r *Resolver) checkRoot() error {
	info, err := os.Stat(r.root)
	if err != nil {
		return fmt.Errorf("targets path does not exist: %s", r.root)
	}
	if !info.IsDir() {
		return fmt.Errorf("targets path is not a directory: %s", r.root)
	}
	return nil
}

// Resolve validates explicitly requested targets and returns them in the given order.
// The first name without a directory directly under the root fails the whole resolution
// with a TargetNotFoundError. Repeated names are kept once, at their first position.
func (r *Resolver) Resolve(names []string) ([]domain.Target, error) {
	if err := r.checkRoot(); err != nil {
		return nil, err
	}

	targets := make([]domain.Target, 0, len(names))
	seen := make(map[string]struct{}, len(names))
	for _, name := range names {
		path := filepath.Join(r.root, name)
		if !isTargetName(name) {
			return nil, &domain.TargetNotFoundError{Name: name, Path: path}
		}
		info, err := os.Stat(path)
		if err != nil || !info.IsDir() {
			return nil, &domain.TargetNotFoundError{Name: name, Path: path}
		}
		// a target runs once per run; later repeats would overwrite its reports
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		targets = append(targets, domain.Target{Name: name, Path: path})
	}
	return targets, nil
}

// Discover lists every target directory under the root, skipping reserved and hidden directories.
// Targets come back in directory enumeration order; callers should not rely on it.
func (r *Resolver) Discover() ([]domain.Target, error) {
	if err := r.checkRoot(); err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(r.root)
	if err != nil {
		return nil, fmt.Errorf("read targets path %s: %w", r.root, err)
	}

	var targets []domain.Target
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasPrefix(name, ReservedPrefix) || strings.HasPrefix(name, ".") {
			continue
		}
		targets = append(targets, domain.Target{Name: name, Path: filepath.Join(r.root, name)})
	}
	return targets, nil
}

// isTargetName reports whether name can only denote a direct child of the root
func isTargetName(name string) bool {
	if name == "" || name == "." || name == ".." {
		return false
	}
	return filepath.Base(name) == name && !strings.ContainsAny(name, `/\`)
}
