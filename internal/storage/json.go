package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"sdtr/internal/domain"
)

// Save writes the run summary and its failed tests to the JSON output file.
func (s *JSONStorage) Save(run *domain.RunResult) error {
	output := domain.Summarize(run, s.reportPath)
	return s.SaveSummary(&output)
}

// SaveSummary overwrites the JSON output file with an already built summary,
// e.g. after failures were marked resolved.
func (s *JSONStorage) SaveSummary(output *domain.RunSummary) error {
	data, err := json.MarshalIndent(output, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal results: %w", err)
	}

	path := s.Path()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write results: %w", err)
	}
	return nil
}

// Load reads the last run summary from the JSON output file.
func (s *JSONStorage) Load() (*domain.RunSummary, error) {
	data, err := os.ReadFile(s.Path())
	if err != nil {
		return nil, fmt.Errorf("read results file: %w", err)
	}
	var output domain.RunSummary
	if err := json.Unmarshal(data, &output); err != nil {
		return nil, fmt.Errorf("parse results: %w", err)
	}
	return &output, nil
}
