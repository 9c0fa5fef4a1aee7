package execution

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"time"
)

var _ Executor = (*Runner)(nil)

// Runner executes the external test program for a single target
type Runner struct {
	program string
	dir     string
	console io.Writer // process output mirror, nil to keep it in the log file only
	logger  *slog.Logger

	commandContext func(ctx context.Context, name string, args ...string) *exec.Cmd
}

// NewRunner creates a Runner that starts program in dir
func NewRunner(program, dir string, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Runner{
		program:        program,
		dir:            dir,
		logger:         logger,
		commandContext: exec.CommandContext,
	}
}

// SetConsole mirrors process output to w in addition to the target's log file
func (r *Runner) SetConsole(w io.Writer) {
	r.console = w
}

// Execute runs the program for inv and waits for it to exit.
// Only failures to start the process or to create its log file are returned.
func (r *Runner) Execute(ctx context.Context, inv Invocation) error {
	logFile, err := os.Create(inv.LogFile)
	if err != nil {
		return fmt.Errorf("create process log: %w", err)
	}
	defer logFile.Close()

	var out io.Writer = logFile
	if r.console != nil {
		out = io.MultiWriter(logFile, r.console)
	}

	cmd := r.commandContext(ctx, r.program, inv.Args...)
	cmd.Dir = r.dir
	cmd.Env = os.Environ()
	cmd.Stdout = out
	cmd.Stderr = out

	logger := r.logger.With("target", inv.Target.Name)
	logger.Debug("starting test process", "program", r.program, "args", strings.Join(inv.MaskedArgs(), " "), "log", inv.LogFile)
	fmt.Fprintf(logFile, "$ %s %s\n\n", r.program, strings.Join(inv.MaskedArgs(), " "))

	start := time.Now()
	err = cmd.Run()
	elapsed := time.Since(start)

	var exitErr *exec.ExitError
	switch {
	case err == nil:
		logger.Info("test process finished", "duration", elapsed)
		return nil
	case ctx.Err() != nil:
		return fmt.Errorf("test process for %s interrupted: %w", inv.Target.Name, ctx.Err())
	case errors.As(err, &exitErr):
		logger.Warn("test process exited with nonzero status", "exit_code", exitErr.ExitCode(), "duration", elapsed)
		return nil
	default:
		return fmt.Errorf("start %s for %s: %w", r.program, inv.Target.Name, err)
	}
}
