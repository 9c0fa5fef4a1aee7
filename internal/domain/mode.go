package domain

import (
	"fmt"
	"strings"
)

// Browser is a browser the suites can drive
type Browser string

const (
	BrowserChrome  Browser = "chrome"
	BrowserFirefox Browser = "firefox"
)

// ParseBrowser validates a browser name
func ParseBrowser(name string) (Browser, error) {
	switch b := Browser(strings.ToLower(strings.TrimSpace(name))); b {
	case BrowserChrome, BrowserFirefox:
		return b, nil
	default:
		return "", &ConfigError{Field: "browser", Reason: fmt.Sprintf("unsupported browser %q (expected chrome or firefox)", name)}
	}
}

// ExecutionMode selects how the external test process reaches the application under test.
// It is either LocalMode or PipelineMode.
type ExecutionMode interface {
	modeName() string
}

// LocalMode runs against a host entry of the suites' config file
type LocalMode struct {
	HostIndex int
}

// PipelineMode runs against an explicitly supplied host with credentials
type PipelineMode struct {
	URL      string
	Username string
	Password string
}

func (LocalMode) modeName() string    { return "local" }
func (PipelineMode) modeName() string { return "pipeline" }

// ModeName returns "local" or "pipeline"
func ModeName(m ExecutionMode) string {
	if m == nil {
		return ""
	}
	return m.modeName()
}

// ExecutionConfig holds the parameters shared read-only by every target execution of a run
type ExecutionConfig struct {
	Browser  Browser
	Headless bool
	Workers  int
	Grid     string
	Mode     ExecutionMode

	// Targets whose tests run one worker per test class
	LoadScope map[string]struct{}
}

// InLoadScope reports whether target is in the load-scope set
func (c ExecutionConfig) InLoadScope(target string) bool {
	_, ok := c.LoadScope[target]
	return ok
}

// Validate checks the invariants the runner depends on
func (c ExecutionConfig) Validate() error {
	if _, err := ParseBrowser(string(c.Browser)); err != nil {
		return err
	}
	if c.Workers < 1 {
		return &ConfigError{Field: "num-procs", Reason: fmt.Sprintf("worker count must be at least 1, got %d", c.Workers)}
	}
	switch m := c.Mode.(type) {
	case LocalMode:
		if m.HostIndex < 0 {
			return &ConfigError{Field: "host-index", Reason: "host index cannot be negative"}
		}
	case PipelineMode:
		if m.URL == "" || m.Username == "" || m.Password == "" {
			return &ConfigError{Field: "mode", Reason: "pipeline mode requires url, username and password"}
		}
	default:
		return &ConfigError{Field: "mode", Reason: "execution mode is not set"}
	}
	return nil
}
