package triage

import (
	"encoding/json"
	"fmt"
	"os"
)

// Counters aggregates the outcomes of one sweep run. All values are
// non-negative and only ever increase within a run.
type Counters struct {
	Processed int `json:"processed"`
	Commented int `json:"commented"`
	Closed    int `json:"closed"`
	Locked    int `json:"locked"`
	Skipped   int `json:"skipped"`
}

// WriteSummary writes the run counters as pretty-printed JSON. It is
// called exactly once, after the sweep loop completes cleanly; a fatal
// abort never writes a summary.
func WriteSummary(filename string, counters *Counters) error {
	data, err := json.MarshalIndent(counters, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal summary: %w", err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(filename, data, 0600); err != nil {
		return fmt.Errorf("failed to write summary file: %w", err)
	}

	return nil
}

// RemoveSummary deletes a summary left over from a previous run, so a
// fatal early exit cannot leave stale results behind. A missing file is
// not an error.
func RemoveSummary(filename string) error {
	if err := os.Remove(filename); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove stale summary file: %w", err)
	}
	return nil
}
