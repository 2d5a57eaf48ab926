package storage

import (
	"encoding/json"
	"io"
)

// ExportData is the JSON export shape for one run.
type ExportData struct {
	Metadata RunMetadata `json:"metadata"`
	Names    []string    `json:"names"`
	Times    []float64   `json:"times"`
	States   [][]float64 `json:"states"`
}

// ExportJSON writes a run's metadata and full state history as indented
// JSON.
func (s *Store) ExportJSON(w io.Writer, runID string) error {
	meta, err := s.Load(runID)
	if err != nil {
		return err
	}
	names, times, states, err := s.LoadStates(runID)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(ExportData{
		Metadata: *meta,
		Names:    names,
		Times:    times,
		States:   states,
	})
}
