package commands

import (
	"os"

	"sdtr/internal/config"
	"sdtr/internal/logging"
	"sdtr/internal/storage"
	"sdtr/internal/ui"

	"github.com/spf13/cobra"
)

// FailuresCommand handles the failures command
type FailuresCommand struct {
	config *config.Config
}

// NewFailuresCommand creates a new FailuresCommand
func NewFailuresCommand(cfg *config.Config) *FailuresCommand {
	return &FailuresCommand{
		config: cfg,
	}
}

// Execute runs the command
func (fc *FailuresCommand) Execute(cmd *cobra.Command, args []string) error {
	st := storage.NewJSONStorage(fc.config.GetOutputPath(), fc.config.Phrase())
	summary, err := st.Load()
	if err != nil {
		return err
	}

	logger := logging.NewConsoleLogger(os.Stderr, fc.config.Flags.Verbose)
	return ui.NewFailuresViewer(st, logger).View(summary)
}
