package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"sdtr/internal/cli"
	"sdtr/internal/cli/commands"
	"sdtr/internal/config"

	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	rootCmd := &cobra.Command{
		Use:           "sdtr",
		Short:         "Browser end-to-end test orchestrator",
		Long:          `Runs the pytest browser suites of a test-results project target by target, reads each generated HTML report and collects the results into one workbook with per-target pass ratios.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Create initial config with defaults
	cfg := config.New()

	// Populated by command flags
	var flags cli.Flags

	cmds := commands.NewCommands(cfg)
	cmds.Register(rootCmd, &flags, cfg)

	// Interrupts cancel the running target; no workbook is written for an aborted run
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
