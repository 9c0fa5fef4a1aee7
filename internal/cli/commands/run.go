package commands

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"

	"sdtr/internal/config"
	"sdtr/internal/discovery"
	"sdtr/internal/domain"
	"sdtr/internal/execution"
	"sdtr/internal/logging"
	"sdtr/internal/metrics"
	"sdtr/internal/parser"
	"sdtr/internal/report"
	"sdtr/internal/storage"
	"sdtr/internal/ui"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

// TargetPicker asks for the single target to run when none were given
type TargetPicker interface {
	Pick(targets []domain.Target) (domain.Target, error)
}

// RunCommand handles the run command
type RunCommand struct {
	config    *config.Config
	filter    *discovery.Filter
	picker    TargetPicker
	formatter *ui.Formatter

	console     io.Writer
	newExecutor func(logger *slog.Logger) execution.Executor
	newRunID    func() string
}

// NewRunCommand creates a new RunCommand
func NewRunCommand(
	cfg *config.Config,
	filter *discovery.Filter,
	picker TargetPicker,
	formatter *ui.Formatter,
) *RunCommand {
	rc := &RunCommand{
		config:    cfg,
		filter:    filter,
		picker:    picker,
		formatter: formatter,
		console:   os.Stderr,
		newRunID:  uuid.NewString,
	}
	rc.newExecutor = rc.pytestRunner
	return rc
}

func (rc *RunCommand) pytestRunner(logger *slog.Logger) execution.Executor {
	runner := execution.NewRunner(rc.config.Flags.Pytest, rc.config.ResultsPath, logger)
	if rc.config.Flags.Verbose {
		runner.SetConsole(rc.console)
	}
	return runner
}

// Execute runs the command
func (rc *RunCommand) Execute(cmd *cobra.Command, args []string) error {
	cfg := rc.config

	suite, err := rc.loadSuiteFile()
	if err != nil {
		return err
	}
	execCfg, err := cfg.ExecutionConfig(suite)
	if err != nil {
		return err
	}

	targets, err := rc.selectTargets()
	if err != nil {
		return err
	}
	if len(targets) == 0 {
		color.Yellow("No targets to run")
		return nil
	}

	runID := rc.newRunID()
	outputDir := cfg.GetOutputPath()
	// process output and the bar would fight over the terminal
	showProgress := !cfg.Flags.Verbose
	logger, closeLog, err := logging.NewRunLogger(outputDir, runID, rc.console, logging.ConsoleLevel(cfg.Flags.Verbose, showProgress))
	if err != nil {
		return err
	}
	defer closeLog()

	logger.Info("starting run",
		"targets", domain.TargetNames(targets),
		"mode", domain.ModeName(execCfg.Mode),
		"browser", execCfg.Browser,
		"workers", execCfg.Workers,
	)

	orchestrator := execution.NewOrchestrator(execCfg, outputDir, rc.newExecutor(logger), parser.NewHTMLReportParser(logger), logger)
	orchestrator.SetFailFast(cfg.Flags.FailFast)

	jsonStorage := storage.NewJSONStorage(outputDir, cfg.Phrase())
	orchestrator.AddWriter(
		report.NewWorkbookWriter(outputDir, logger),
		jsonStorage,
		metrics.NewRecorder(outputDir, cfg.Pushgateway, logger),
	)
	if cfg.Flags.History {
		orchestrator.AddWriter(storage.NewHistoryStore(storage.DBSettingsFromEnv(), logger))
	}

	if showProgress {
		orchestrator.SetProgress(ui.NewProgressBar(len(targets)))
	}

	run, runErr := orchestrator.Run(cmd.Context(), runID, cfg.Phrase(), targets)
	if run == nil || run.Finished.IsZero() {
		return runErr
	}

	summary, err := jsonStorage.Load()
	if err != nil {
		fallback := domain.Summarize(run, nil)
		summary = &fallback
	}
	rc.formatter.PrintRunSummary(summary, report.WorkbookPath(outputDir, cfg.Phrase()))

	if runErr != nil {
		return fmt.Errorf("run finished with errors: %w", runErr)
	}
	return nil
}

// loadSuiteFile reads config.yml; a missing file is only a warning
func (rc *RunCommand) loadSuiteFile() (*config.SuiteFile, error) {
	path := rc.config.GetConfigFilePath()
	suite, err := config.LoadSuiteFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		color.Yellow("Config file %s not found, host checks are skipped", path)
		return nil, nil
	}
	return suite, err
}

// selectTargets resolves explicit targets, discovers all with --run-all or asks for one
func (rc *RunCommand) selectTargets() ([]domain.Target, error) {
	flags := rc.config.Flags
	resolver := discovery.NewResolver(rc.config.GetTargetsPath())

	if len(flags.Targets) > 0 {
		return resolver.Resolve(flags.Targets)
	}

	targets, err := resolver.Discover()
	if err != nil {
		return nil, err
	}
	if flags.RunAll {
		return rc.filter.FilterByName(targets, flags.Filter), nil
	}
	if len(targets) == 0 {
		return nil, nil
	}

	target, err := rc.picker.Pick(targets)
	if err != nil {
		return nil, err
	}
	return []domain.Target{target}, nil
}
