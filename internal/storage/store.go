// Package storage persists simulation runs as JSON metadata plus CSV
// state history under a base directory, one subdirectory per run.
package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/google/uuid"

	"physlab/internal/recorder"
	"physlab/internal/stats"
)

// Store reads and writes runs under a base directory.
type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0o755)
}

// RunMetadata describes one saved run.
type RunMetadata struct {
	ID        string       `json:"id"`
	Model     string       `json:"model"`
	Timestamp time.Time    `json:"timestamp"`
	Dt        float64      `json:"dt"`
	Duration  float64      `json:"duration"`
	Solver    string       `json:"solver"`
	Samples   int          `json:"samples"`
	Totals    stats.Totals `json:"totals"`
	Energy    struct {
		Initial float64 `json:"initial"`
		Final   float64 `json:"final"`
		Drift   float64 `json:"drift"`
	} `json:"energy"`
	VarNames []string `json:"var_names"`
}

// Save writes the run's metadata and the recorder's retained window, and
// returns the run ID.
func (s *Store) Save(meta RunMetadata, rec *recorder.Recorder) (string, error) {
	runID := fmt.Sprintf("%s-%s", meta.Model, uuid.NewString()[:8])
	runDir := filepath.Join(s.baseDir, runID)
	if err := os.MkdirAll(runDir, 0o755); err != nil {
		return "", err
	}

	meta.ID = runID
	meta.Timestamp = time.Now()
	meta.Samples = rec.Size()

	metaFile, err := os.Create(filepath.Join(runDir, "metadata.json"))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()
	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, "states.csv"))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()
	return runID, rec.WriteCSV(csvFile)
}

// List returns metadata for every run in the base directory. A missing
// directory reads as no runs; unreadable entries are skipped.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		data, err := os.ReadFile(filepath.Join(s.baseDir, entry.Name(), "metadata.json"))
		if err != nil {
			continue
		}
		var meta RunMetadata
		if err := json.Unmarshal(data, &meta); err != nil {
			continue
		}
		runs = append(runs, meta)
	}
	return runs, nil
}

// Load reads one run's metadata.
func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		return nil, err
	}
	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// LoadStates reads one run's state history: the header names, the sample
// times, and one row of values per sample.
func (s *Store) LoadStates(runID string) (names []string, times []float64, states [][]float64, err error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, "states.csv"))
	if err != nil {
		return nil, nil, nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, nil, nil, err
	}
	if len(records) < 1 {
		return nil, nil, nil, nil
	}

	names = records[0][1:]
	times = make([]float64, 0, len(records)-1)
	states = make([][]float64, 0, len(records)-1)
	for _, record := range records[1:] {
		if len(record) < 2 {
			continue
		}
		t, err := strconv.ParseFloat(record[0], 64)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("storage: bad time %q in run %s: %w", record[0], runID, err)
		}
		row := make([]float64, len(record)-1)
		for i, field := range record[1:] {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, nil, nil, fmt.Errorf("storage: bad value %q in run %s: %w", field, runID, err)
			}
			row[i] = v
		}
		times = append(times, t)
		states = append(states, row)
	}
	return names, times, states, nil
}
