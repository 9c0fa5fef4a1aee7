package config

import (
	"fmt"
	"os"

	"sdtr/internal/domain"

	"gopkg.in/yaml.v3"
)

// Host is one application instance the suites can run against
type Host struct {
	URL      string `yaml:"url"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// SuiteFile is the config file shared by the suites and the runner
type SuiteFile struct {
	Hosts []Host `yaml:"hosts"`

	// Targets that always run one worker per test class
	LoadScopeTargets []string `yaml:"load_scope_targets"`
}

// LoadSuiteFile reads and parses the config file at path.
// A missing file is reported with an error wrapping fs.ErrNotExist.
func LoadSuiteFile(path string) (*SuiteFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	var suite SuiteFile
	if err := yaml.Unmarshal(data, &suite); err != nil {
		return nil, fmt.Errorf("parse config file %s: %w", path, err)
	}
	return &suite, nil
}

// Host returns the host entry at index
func (s *SuiteFile) Host(index int) (Host, error) {
	if index < 0 || index >= len(s.Hosts) {
		return Host{}, &domain.ConfigError{
			Field:  "host-index",
			Reason: fmt.Sprintf("host index %d not present in config file (%d hosts configured)", index, len(s.Hosts)),
		}
	}
	return s.Hosts[index], nil
}
