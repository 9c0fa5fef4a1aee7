package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"sdtr/internal/domain"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	// Project settings
	ResultsPath   string
	TestsDir      string
	ScreenshotDir string
	ConfigFile    string

	// Output settings
	OutputDir string

	// Execution settings
	Workers     int
	HostIndex   int
	Grid        string
	Pushgateway string

	// Command flags
	Flags Flags
}

// Flags holds command-line flags
type Flags struct {
	ResultsPath string
	Targets     []string
	RunAll      bool
	Filter      string
	LoadScope   bool
	Browser     string
	Workers     int
	Headless    bool
	HostIndex   int
	Grid        string
	Mode        string
	URL         string
	Username    string
	Password    string
	Phrase      string
	FailFast    bool
	Pytest      string
	History     bool
	Pushgateway string
	Verbose     bool
	TestCases   bool
}

// New creates a new Config with defaults
func New() *Config {
	return &Config{
		ResultsPath:   DefaultResultsPath,
		TestsDir:      DefaultTestsDir,
		ScreenshotDir: DefaultScreenshotDir,
		OutputDir:     DefaultOutputDir,
		Workers:       DefaultWorkers,
		HostIndex:     DefaultHostIndex,
		Flags: Flags{
			Workers:  DefaultWorkers,
			Browser:  DefaultBrowser,
			Headless: true,
			Phrase:   DefaultPhrase,
			Pytest:   DefaultPytest,
			Mode:     DefaultMode,
		},
	}
}

// Load creates a config and applies flags
func Load(flags Flags) *Config {
	cfg := New()
	cfg.Apply(flags)
	return cfg
}

// Apply copies flags into the config, overriding defaults with the values that were given
func (c *Config) Apply(flags Flags) {
	c.Flags = flags
	if flags.ResultsPath != "" {
		c.ResultsPath = flags.ResultsPath
	}
	// zero means unset here; an explicit 0 from the command line is settled in ApplyEnvironment
	if flags.Workers != 0 {
		c.Workers = flags.Workers
	}
	if flags.HostIndex != 0 {
		c.HostIndex = flags.HostIndex
	}
	if flags.Grid != "" {
		c.Grid = flags.Grid
	}
	if flags.Pushgateway != "" {
		c.Pushgateway = flags.Pushgateway
	}
}

// ApplyEnvironment loads the results path's .env file and fills settings from the
// environment for every flag that was not given explicitly. changed reports whether
// a flag was set on the command line; explicit values are kept as given, even when
// invalid, so ExecutionConfig can reject them.
func (c *Config) ApplyEnvironment(changed func(flag string) bool) error {
	if changed("num-procs") {
		c.Workers = c.Flags.Workers
	}
	if changed("host-index") {
		c.HostIndex = c.Flags.HostIndex
	}

	envPath := filepath.Join(c.ResultsPath, ".env")
	if err := godotenv.Load(envPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load %s: %w", envPath, err)
	}

	if !changed("num-procs") {
		if v, ok, err := envInt(EnvNumProcs); err != nil {
			return err
		} else if ok {
			c.Workers = v
		}
	}
	if !changed("host-index") {
		if v, ok, err := envInt(EnvHostIndex); err != nil {
			return err
		} else if ok {
			c.HostIndex = v
		}
	}
	if !changed("grid") {
		if v := os.Getenv(EnvGrid); v != "" {
			c.Grid = v
		}
	}
	if !changed("pushgateway") {
		if v := os.Getenv(EnvPushgateway); v != "" {
			c.Pushgateway = v
		}
	}
	if v := os.Getenv(EnvConfigPath); v != "" {
		c.ConfigFile = v
	}
	return nil
}

func envInt(name string) (int, bool, error) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return 0, false, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false, &domain.ConfigError{Field: name, Reason: fmt.Sprintf("%q is not a number", raw)}
	}
	return v, true, nil
}

// GetTargetsPath returns the directory holding one subdirectory per target
func (c *Config) GetTargetsPath() string {
	return filepath.Join(c.ResultsPath, c.TestsDir)
}

// GetOutputPath returns the absolute output directory so reports and the workbook
// land in the same place regardless of cwd.
func (c *Config) GetOutputPath() string {
	p := filepath.Join(c.ResultsPath, c.OutputDir)
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return p
}

// GetScreenshotPath returns the directory for failure screenshots
func (c *Config) GetScreenshotPath() string {
	return filepath.Join(c.ResultsPath, c.ScreenshotDir)
}

// GetConfigFilePath returns the hosts config file path
func (c *Config) GetConfigFilePath() string {
	if c.ConfigFile != "" {
		return c.ConfigFile
	}
	return filepath.Join(c.ResultsPath, DefaultConfigFile)
}

// Phrase returns the workbook file name phrase
func (c *Config) Phrase() string {
	if c.Flags.Phrase == "" {
		return DefaultPhrase
	}
	return c.Flags.Phrase
}

// ExecutionMode builds the explicitly selected execution mode
func (c *Config) ExecutionMode() (domain.ExecutionMode, error) {
	hasCredentials := c.Flags.URL != "" || c.Flags.Username != "" || c.Flags.Password != ""

	switch strings.ToLower(c.Flags.Mode) {
	case "", "local":
		if hasCredentials {
			return nil, &domain.ConfigError{Field: "mode", Reason: "--url, --username and --password are only used with --mode pipeline"}
		}
		return domain.LocalMode{HostIndex: c.HostIndex}, nil
	case "pipeline":
		m := domain.PipelineMode{URL: c.Flags.URL, Username: c.Flags.Username, Password: c.Flags.Password}
		if m.URL == "" || m.Username == "" || m.Password == "" {
			return nil, &domain.ConfigError{Field: "mode", Reason: "pipeline mode requires --url, --username and --password"}
		}
		return m, nil
	default:
		return nil, &domain.ConfigError{Field: "mode", Reason: fmt.Sprintf("unknown mode %q (expected local or pipeline)", c.Flags.Mode)}
	}
}

// ExecutionConfig assembles the run's execution parameters. suite may be nil when
// the suites have no config file; explicit targets join the load-scope set when
// --load-scope is given.
func (c *Config) ExecutionConfig(suite *SuiteFile) (domain.ExecutionConfig, error) {
	browser, err := domain.ParseBrowser(c.Flags.Browser)
	if err != nil {
		return domain.ExecutionConfig{}, err
	}
	mode, err := c.ExecutionMode()
	if err != nil {
		return domain.ExecutionConfig{}, err
	}

	loadScope := make(map[string]struct{})
	if suite != nil {
		for _, t := range suite.LoadScopeTargets {
			loadScope[t] = struct{}{}
		}
	}
	if c.Flags.LoadScope {
		for _, t := range c.Flags.Targets {
			loadScope[t] = struct{}{}
		}
	}

	if local, ok := mode.(domain.LocalMode); ok && suite != nil {
		if _, err := suite.Host(local.HostIndex); err != nil {
			return domain.ExecutionConfig{}, err
		}
	}

	exec := domain.ExecutionConfig{
		Browser:   browser,
		Headless:  c.Flags.Headless,
		Workers:   c.Workers,
		Grid:      c.Grid,
		Mode:      mode,
		LoadScope: loadScope,
	}
	return exec, exec.Validate()
}
