package stats

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"genopt/internal/model"
	"genopt/internal/space"
)

const trialIndexFile = "trial_index.json"

type TrialConfig struct {
	TrialID      string       `json:"trial_id"`
	Profile      string       `json:"profile,omitempty"`
	Kind         string       `json:"mutation_kind"`
	Probability  float64      `json:"probability"`
	SearchSpace  space.Space  `json:"search_space"`
	MaxAttempts  int          `json:"max_attempts"`
	Baseline     model.Genome `json:"baseline"`
	Trials       int          `json:"trials"`
	Seed         int64        `json:"seed"`
	CreatedAtUTC string       `json:"created_at_utc"`
}

type TrialArtifacts struct {
	Config TrialConfig
	Report TrialReport
}

type TrialIndexEntry struct {
	TrialID      string  `json:"trial_id"`
	Profile      string  `json:"profile,omitempty"`
	Kind         string  `json:"mutation_kind"`
	Probability  float64 `json:"probability"`
	Trials       int     `json:"trials"`
	FireRate     float64 `json:"fire_rate"`
	Failed       int     `json:"failed"`
	CreatedAtUTC string  `json:"created_at_utc"`
}

// IndexEntry condenses the artifacts into their trial index row.
func (a TrialArtifacts) IndexEntry() TrialIndexEntry {
	return TrialIndexEntry{
		TrialID:      a.Config.TrialID,
		Profile:      a.Config.Profile,
		Kind:         a.Report.Kind,
		Probability:  a.Report.Probability,
		Trials:       a.Report.Trials,
		FireRate:     a.Report.FireRate,
		Failed:       a.Report.Failed,
		CreatedAtUTC: a.Config.CreatedAtUTC,
	}
}

func WriteTrialArtifacts(baseDir string, artifacts TrialArtifacts) (string, error) {
	if artifacts.Config.TrialID == "" {
		return "", fmt.Errorf("trial id is required")
	}

	trialDir := filepath.Join(baseDir, artifacts.Config.TrialID)
	if err := os.MkdirAll(trialDir, 0o755); err != nil {
		return "", err
	}
	if err := writeJSON(filepath.Join(trialDir, "config.json"), artifacts.Config); err != nil {
		return "", err
	}
	if err := writeJSON(filepath.Join(trialDir, "report.json"), artifacts.Report); err != nil {
		return "", err
	}
	return trialDir, nil
}

func ReadTrialReport(baseDir, trialID string) (TrialReport, bool, error) {
	var report TrialReport
	ok, err := readJSON(filepath.Join(baseDir, trialID, "report.json"), &report)
	return report, ok, err
}

func ReadTrialConfig(baseDir, trialID string) (TrialConfig, bool, error) {
	var cfg TrialConfig
	ok, err := readJSON(filepath.Join(baseDir, trialID, "config.json"), &cfg)
	return cfg, ok, err
}

// AppendTrialIndex adds or replaces the entry for entry.TrialID. The file
// keeps append order; only ListTrialIndex sorts.
func AppendTrialIndex(baseDir string, entry TrialIndexEntry) error {
	if entry.TrialID == "" {
		return fmt.Errorf("trial id is required")
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return err
	}

	var index []TrialIndexEntry
	if _, err := readJSON(filepath.Join(baseDir, trialIndexFile), &index); err != nil {
		return err
	}
	for i := range index {
		if index[i].TrialID == entry.TrialID {
			index[i] = entry
			return writeJSON(filepath.Join(baseDir, trialIndexFile), index)
		}
	}
	index = append(index, entry)
	return writeJSON(filepath.Join(baseDir, trialIndexFile), index)
}

// ListTrialIndex returns entries newest first.
func ListTrialIndex(baseDir string) ([]TrialIndexEntry, error) {
	var entries []TrialIndexEntry
	ok, err := readJSON(filepath.Join(baseDir, trialIndexFile), &entries)
	if err != nil {
		return nil, err
	}
	if !ok {
		return []TrialIndexEntry{}, nil
	}

	type indexedEntry struct {
		entry TrialIndexEntry
		idx   int
	}
	indexed := make([]indexedEntry, len(entries))
	for i := range entries {
		indexed[i] = indexedEntry{entry: entries[i], idx: i}
	}
	sort.Slice(indexed, func(i, j int) bool {
		if indexed[i].entry.CreatedAtUTC == indexed[j].entry.CreatedAtUTC {
			// Later appends win ties.
			return indexed[i].idx > indexed[j].idx
		}
		return indexed[i].entry.CreatedAtUTC > indexed[j].entry.CreatedAtUTC
	})

	sorted := make([]TrialIndexEntry, 0, len(indexed))
	for _, item := range indexed {
		sorted = append(sorted, item.entry)
	}
	return sorted, nil
}

func readJSON(path string, out any) (bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	if err := json.Unmarshal(data, out); err != nil {
		return false, err
	}
	return true, nil
}

func writeJSON(path string, value any) error {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return os.WriteFile(path, data, 0o644)
}
