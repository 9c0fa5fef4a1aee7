package commands

import (
	"sdtr/internal/config"
	"sdtr/internal/discovery"
	"sdtr/internal/storage"
	"sdtr/internal/ui"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// ListCommand handles the list command
type ListCommand struct {
	config    *config.Config
	filter    *discovery.Filter
	formatter *ui.Formatter
}

// NewListCommand creates a new ListCommand
func NewListCommand(
	cfg *config.Config,
	filter *discovery.Filter,
	formatter *ui.Formatter,
) *ListCommand {
	return &ListCommand{
		config:    cfg,
		filter:    filter,
		formatter: formatter,
	}
}

// Execute runs the command
func (lc *ListCommand) Execute(cmd *cobra.Command, args []string) error {
	targets, err := discovery.NewResolver(lc.config.GetTargetsPath()).Discover()
	if err != nil {
		return err
	}

	targets = lc.filter.FilterByName(targets, lc.config.Flags.Filter)

	if len(targets) == 0 {
		color.Yellow("No targets found")
		return nil
	}

	lc.formatter.PrintTargetList(targets, lc.config.Flags.TestCases, lc.lastFailedTargets())
	return nil
}

// lastFailedTargets returns the targets with failures in the last saved run, if any
func (lc *ListCommand) lastFailedTargets() map[string]struct{} {
	summary, err := storage.NewJSONStorage(lc.config.GetOutputPath(), lc.config.Phrase()).Load()
	if err != nil {
		return nil
	}
	failed := make(map[string]struct{})
	for _, target := range summary.Targets {
		if target.Failed > 0 || target.ReportError != "" {
			failed[target.Name] = struct{}{}
		}
	}
	return failed
}
