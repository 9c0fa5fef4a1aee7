package commands

import (
	"os"

	"sdtr/internal/cli"
	"sdtr/internal/config"
	"sdtr/internal/discovery"
	"sdtr/internal/ui"

	"github.com/spf13/cobra"
)

// Commands holds all CLI commands
type Commands struct {
	Run      *RunCommand
	List     *ListCommand
	Failures *FailuresCommand
	DBInit   *DBInitCommand
}

// NewCommands creates all commands with dependencies
func NewCommands(cfg *config.Config) *Commands {
	filter := discovery.NewFilter()
	testCaseParser := discovery.NewParser()
	formatter := ui.NewFormatter(os.Stdout, testCaseParser)
	picker := ui.NewPicker()

	return &Commands{
		Run:      NewRunCommand(cfg, filter, picker, formatter),
		List:     NewListCommand(cfg, filter, formatter),
		Failures: NewFailuresCommand(cfg),
		DBInit:   NewDBInitCommand(cfg),
	}
}

// Register registers all commands with cobra
func (c *Commands) Register(rootCmd *cobra.Command, flags *cli.Flags, cfg *config.Config) {
	// Update config with flags after parsing; positional arguments are extra targets
	applyFlags := func(cmd *cobra.Command, args []string) error {
		flags.Targets = append(flags.Targets, args...)
		cfg.Apply(flags.ToConfigFlags())
		return cfg.ApplyEnvironment(cmd.Flags().Changed)
	}

	rootCmd.PersistentFlags().StringVar(&flags.ResultsPath, "test-results-path", config.DefaultResultsPath, "Base directory of the test-results project")
	rootCmd.PersistentFlags().BoolVarP(&flags.Verbose, "verbose", "v", false, "Show debug logs and test process output")

	// Run command
	runCmd := &cobra.Command{
		Use:     "run [target...]",
		Short:   "Run browser test targets and build the results workbook",
		Long:    "Run each selected target with pytest, one after another, read its HTML report and write the cross-target results workbook",
		RunE:    c.Run.Execute,
		PreRunE: applyFlags,
	}
	runCmd.Flags().StringArrayVarP(&flags.Targets, "target", "t", nil, "Target to run (repeatable)")
	runCmd.Flags().BoolVar(&flags.RunAll, "run-all", false, "Run every target under the tests directory")
	runCmd.Flags().StringVarP(&flags.Filter, "filter", "f", "", "With --run-all, only run targets matching the pattern (supports wildcards, e.g. 'check*')")
	runCmd.Flags().BoolVar(&flags.LoadScope, "load-scope", false, "Distribute the given targets per test class")
	runCmd.Flags().StringVar(&flags.Browser, "browser", config.DefaultBrowser, "Browser to run the tests in (chrome or firefox)")
	runCmd.Flags().IntVarP(&flags.Workers, "num-procs", "p", config.DefaultWorkers, "Number of test processes per target")
	runCmd.Flags().BoolVar(&flags.Headless, "headless", true, "Run the browser headless")
	runCmd.Flags().IntVar(&flags.HostIndex, "host-index", config.DefaultHostIndex, "Host entry of config.yml to run against")
	runCmd.Flags().StringVar(&flags.Grid, "grid", "", "Remote browser grid URL")
	runCmd.Flags().StringVar(&flags.Mode, "mode", config.DefaultMode, "Execution mode (local or pipeline)")
	runCmd.Flags().StringVar(&flags.URL, "url", "", "Application URL (pipeline mode)")
	runCmd.Flags().StringVar(&flags.Username, "username", "", "Application username (pipeline mode)")
	runCmd.Flags().StringVar(&flags.Password, "password", "", "Application password (pipeline mode)")
	runCmd.Flags().StringVar(&flags.Phrase, "phrase", config.DefaultPhrase, "Phrase in the workbook and summary file names")
	runCmd.Flags().BoolVar(&flags.FailFast, "fail-fast", false, "Stop after the first target whose report cannot be read")
	runCmd.Flags().StringVar(&flags.Pytest, "pytest", config.DefaultPytest, "Test program to execute")
	runCmd.Flags().BoolVar(&flags.History, "history", false, "Store the run in the MySQL history database")
	runCmd.Flags().StringVar(&flags.Pushgateway, "pushgateway", "", "Prometheus Pushgateway URL for run metrics")
	rootCmd.AddCommand(runCmd)

	// List command
	listCmd := &cobra.Command{
		Use:     "list",
		Short:   "List discovered targets",
		Long:    "Scan the tests directory and list all targets without running them",
		RunE:    c.List.Execute,
		PreRunE: applyFlags,
	}
	listCmd.Flags().StringVarP(&flags.Filter, "filter", "f", "", "Filter targets by name pattern (supports wildcards, e.g. 'check*')")
	listCmd.Flags().BoolVarP(&flags.TestCases, "test-cases", "c", false, "List the test cases of every target")
	listCmd.Flags().StringVar(&flags.Phrase, "phrase", config.DefaultPhrase, "Phrase of the run whose failures are marked")
	rootCmd.AddCommand(listCmd)

	// Failures command
	failuresCmd := &cobra.Command{
		Use:     "failures",
		Short:   "View test failures interactively",
		Long:    "Display the failed tests of the last run in an interactive viewer",
		RunE:    c.Failures.Execute,
		PreRunE: applyFlags,
	}
	failuresCmd.Flags().StringVar(&flags.Phrase, "phrase", config.DefaultPhrase, "Phrase of the run to view")
	rootCmd.AddCommand(failuresCmd)

	// DB init command
	dbInitCmd := &cobra.Command{
		Use:     "db-init",
		Short:   "Create the run history database",
		Long:    "Create the MySQL database and table used by run --history",
		RunE:    c.DBInit.Execute,
		PreRunE: applyFlags,
	}
	rootCmd.AddCommand(dbInitCmd)
}
