package storage

import (
	"context"
	"fmt"
	"path/filepath"

	"sdtr/internal/domain"
	"sdtr/internal/execution"
)

// Storage persists and loads run summaries (e.g. for the failures viewer).
type Storage interface {
	Save(run *domain.RunResult) error
	SaveSummary(summary *domain.RunSummary) error
	Load() (*domain.RunSummary, error)
}

var (
	_ Storage                = (*JSONStorage)(nil)
	_ execution.ResultWriter = (*JSONStorage)(nil)
	_ execution.ResultWriter = (*HistoryStore)(nil)
)

// JSONStorage stores the run summary in a JSON file under the output directory.
type JSONStorage struct {
	outputDir string
	phrase    string
}

// NewJSONStorage returns a Storage for the summary of the runs written with phrase.
func NewJSONStorage(outputDir, phrase string) *JSONStorage {
	return &JSONStorage{outputDir: outputDir, phrase: phrase}
}

// SummaryPath returns the JSON summary location for a phrase
func SummaryPath(outputDir, phrase string) string {
	return filepath.Join(outputDir, fmt.Sprintf("test-results-%s.json", phrase))
}

// Path returns the file this storage reads and writes
func (s *JSONStorage) Path() string {
	return SummaryPath(s.outputDir, s.phrase)
}

// Write saves the run as a result writer of the orchestrator
func (s *JSONStorage) Write(_ context.Context, run *domain.RunResult) error {
	return s.Save(run)
}

func (s *JSONStorage) reportPath(target string) string {
	_, html := execution.ReportPaths(s.outputDir, target)
	return html
}
