package config

const (
	// DefaultResultsPath is the default base directory of the test-results project
	DefaultResultsPath = "."
	// DefaultTestsDir is the directory under the results path holding one directory per target
	DefaultTestsDir = "tests"
	// DefaultOutputDir is the directory under the results path receiving reports and the workbook
	DefaultOutputDir = "output"
	// DefaultScreenshotDir is the directory under the results path receiving failure screenshots
	DefaultScreenshotDir = "screenshots"
	// DefaultConfigFile is the hosts config file name under the results path
	DefaultConfigFile = "config.yml"
	// DefaultWorkers is the default number of test processes per target
	DefaultWorkers = 5
	// DefaultHostIndex is the default host entry of the config file
	DefaultHostIndex = 0
	// DefaultBrowser is the default browser
	DefaultBrowser = "chrome"
	// DefaultPhrase is the default workbook file name phrase
	DefaultPhrase = "all"
	// DefaultPytest is the default test execution program
	DefaultPytest = "pytest"
	// DefaultMode is the default execution mode
	DefaultMode = "local"
)

// Environment variables read when the matching flag is not set
const (
	EnvNumProcs    = "NUM_PROCS"
	EnvHostIndex   = "HOST_INDEX"
	EnvConfigPath  = "CONFIG_PATH"
	EnvGrid        = "SDTR_GRID"
	EnvPushgateway = "SDTR_PUSHGATEWAY"
)
