package execution

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"sdtr/internal/domain"
	"sdtr/internal/parser"

	"github.com/gofrs/flock"
)

// LockFileName guards an output directory against concurrent runs
const LockFileName = ".sdtr.lock"

// ResultWriter consumes the finished run, e.g. the workbook or the JSON summary
type ResultWriter interface {
	Write(ctx context.Context, run *domain.RunResult) error
}

// ProgressReporter receives per-target progress
type ProgressReporter interface {
	Start(target string)
	Update(completed, passed, failed int)
	Finish()
}

// Orchestrator runs targets one after another and hands the collected results to the writers
type Orchestrator struct {
	cfg       domain.ExecutionConfig
	outputDir string
	executor  Executor
	parser    parser.Parser
	writers   []ResultWriter
	progress  ProgressReporter
	logger    *slog.Logger
	failFast  bool
	now       func() time.Time
}

// NewOrchestrator creates a new Orchestrator
func NewOrchestrator(cfg domain.ExecutionConfig, outputDir string, executor Executor, reportParser parser.Parser, logger *slog.Logger) *Orchestrator {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Orchestrator{
		cfg:       cfg,
		outputDir: outputDir,
		executor:  executor,
		parser:    reportParser,
		logger:    logger,
		now:       time.Now,
	}
}

// SetProgress sets the progress reporter
func (o *Orchestrator) SetProgress(progress ProgressReporter) {
	o.progress = progress
}

// SetFailFast stops the run after the first target whose report cannot be parsed
func (o *Orchestrator) SetFailFast(failFast bool) {
	o.failFast = failFast
}

// AddWriter appends result writers; they run in the order added
func (o *Orchestrator) AddWriter(writers ...ResultWriter) {
	o.writers = append(o.writers, writers...)
}

// Run executes every target sequentially, parses each report and passes the run to all writers.
// Report parse failures do not stop the run (unless fail-fast is set); they are recorded on the
// target result and returned joined together with writer errors once everything is written.
func (o *Orchestrator) Run(ctx context.Context, runID, phrase string, targets []domain.Target) (*domain.RunResult, error) {
	if err := os.MkdirAll(o.outputDir, 0755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	fileLock := flock.New(filepath.Join(o.outputDir, LockFileName))
	locked, err := fileLock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire output lock: %w", err)
	}
	if !locked {
		return nil, fmt.Errorf("output directory %s is in use by another run", o.outputDir)
	}
	defer func() { _ = fileLock.Unlock() }()

	run := &domain.RunResult{ID: runID, Phrase: phrase, Started: o.now()}
	logger := o.logger.With("phrase", phrase)

	var parseErrs []error
	for _, target := range targets {
		result, err := o.runTarget(ctx, logger, target)
		if err != nil {
			if o.progress != nil {
				o.progress.Finish()
			}
			return run, err
		}
		run.Append(result)

		if o.progress != nil {
			passed, failed := run.Totals()
			o.progress.Update(len(run.Targets), passed, failed)
		}

		if result.Err != nil {
			parseErrs = append(parseErrs, result.Err)
			if o.failFast {
				logger.Warn("stopping after report failure", "target", target.Name, "skipped", len(targets)-len(run.Targets))
				break
			}
		}
	}
	run.Finished = o.now()
	if o.progress != nil {
		o.progress.Finish()
	}

	var writeErrs []error
	for _, w := range o.writers {
		if err := w.Write(ctx, run); err != nil {
			logger.Error("writing results failed", "error", err)
			writeErrs = append(writeErrs, err)
		}
	}

	return run, errors.Join(append(parseErrs, writeErrs...)...)
}

// runTarget executes and parses a single target. The returned error aborts the run
// and is only set when the context was cancelled.
func (o *Orchestrator) runTarget(ctx context.Context, logger *slog.Logger, target domain.Target) (*domain.TargetResult, error) {
	logger = logger.With("target", target.Name)
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("run interrupted before %s: %w", target.Name, err)
	}
	if o.progress != nil {
		o.progress.Start(target.Name)
	}

	inv := BuildInvocation(o.cfg, target, o.outputDir)
	for _, stale := range []string{inv.XMLReport, inv.HTMLReport} {
		if err := os.Remove(stale); err != nil && !errors.Is(err, os.ErrNotExist) {
			logger.Warn("could not remove stale report", "path", stale, "error", err)
		}
	}

	if err := o.executor.Execute(ctx, inv); err != nil {
		if ctx.Err() != nil {
			return nil, err
		}
		logger.Warn("test process failed", "error", err)
	}

	result, err := o.parser.Parse(target.Name, inv.HTMLReport)
	if err != nil {
		logger.Error("report could not be parsed", "report", inv.HTMLReport, "error", err)
		return domain.NewFailedTargetResult(target.Name, err), nil
	}

	if msg, err := parser.CrossCheck(result, inv.XMLReport); err != nil {
		logger.Debug("junit report unreadable", "report", inv.XMLReport, "error", err)
	} else if msg != "" {
		result.Warnings = append(result.Warnings, msg)
		logger.Warn("report counts disagree", "detail", msg)
	}

	logger.Info("target finished", "passed", result.Passed(), "failed", result.Failed(), "percent", result.Percent())
	return result, nil
}
