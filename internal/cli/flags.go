package cli

import "sdtr/internal/config"

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

// ToConfigFlags converts CLI flags to config flags
func (f *Flags) ToConfigFlags() config.Flags {
	return config.Flags{
		ResultsPath: f.ResultsPath,
		Targets:     f.Targets,
		RunAll:      f.RunAll,
		Filter:      f.Filter,
		LoadScope:   f.LoadScope,
		Browser:     f.Browser,
		Workers:     f.Workers,
		Headless:    f.Headless,
		HostIndex:   f.HostIndex,
		Grid:        f.Grid,
		Mode:        f.Mode,
		URL:         f.URL,
		Username:    f.Username,
		Password:    f.Password,
		Phrase:      f.Phrase,
		FailFast:    f.FailFast,
		Pytest:      f.Pytest,
		History:     f.History,
		Pushgateway: f.Pushgateway,
		Verbose:     f.Verbose,
		TestCases:   f.TestCases,
	}
}
