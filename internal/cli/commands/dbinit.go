package commands

import (
	"os"

	"sdtr/internal/config"
	"sdtr/internal/logging"
	"sdtr/internal/storage"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// DBInitCommand handles the db-init command
type DBInitCommand struct {
	config *config.Config
}

// NewDBInitCommand creates a new DBInitCommand
func NewDBInitCommand(cfg *config.Config) *DBInitCommand {
	return &DBInitCommand{
		config: cfg,
	}
}

// Execute runs the command
func (dc *DBInitCommand) Execute(cmd *cobra.Command, args []string) error {
	settings := storage.DBSettingsFromEnv()
	logger := logging.NewConsoleLogger(os.Stderr, dc.config.Flags.Verbose)

	created, err := storage.NewHistoryStore(settings, logger).Init(cmd.Context())
	if err != nil {
		return err
	}
	if created {
		color.Green("✓ Database %s created", settings.Database)
	} else {
		color.Cyan("Database %s already exists, table checked", settings.Database)
	}
	return nil
}
