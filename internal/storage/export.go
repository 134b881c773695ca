package storage

import (
	"encoding/json"
	"io"
	"os"

	"github.com/san-kum/molsim/internal/props"
)

type ExportData struct {
	Run       RunMetadata     `json:"run"`
	Summaries []props.Summary `json:"summaries"`
}

// ExportJSON writes a stored run, metadata and summaries, as one JSON
// document.
func (s *Store) ExportJSON(w io.Writer, runID string) error {
	meta, err := s.Load(runID)
	if err != nil {
		return err
	}
	summaries, err := s.LoadSummaries(runID)
	if err != nil {
		return err
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(ExportData{Run: *meta, Summaries: summaries})
}

func (s *Store) ExportJSONFile(path, runID string) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return s.ExportJSON(file, runID)
}
