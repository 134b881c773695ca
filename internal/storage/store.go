package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/san-kum/molsim/internal/props"
)

const (
	metadataFile = "metadata.json"
	propsFile    = "props.csv"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID         string             `json:"id"`
	Preset     string             `json:"preset,omitempty"`
	Timestamp  time.Time          `json:"timestamp"`
	Seed       int64              `json:"seed"`
	Dim        int                `json:"dim"`
	NMol       int                `json:"n_mol"`
	Dt         float64            `json:"dt"`
	Steps      int                `json:"steps"`
	StartTime  float64            `json:"start_time"`
	EndTime    float64            `json:"end_time"`
	Potential  string             `json:"potential"`
	Props      string             `json:"props"`
	Checkpoint string             `json:"checkpoint,omitempty"`
	Final      map[string]float64 `json:"final,omitempty"`
}

// Recorder collects summaries in memory until the run is saved.
type Recorder struct {
	summaries []props.Summary
}

func (r *Recorder) Record(s props.Summary) error {
	s.VSum = append([]float64(nil), s.VSum...)
	r.summaries = append(r.summaries, s)
	return nil
}

func (r *Recorder) Summaries() []props.Summary { return r.summaries }

// Save writes a run directory holding metadata.json and props.csv. An empty
// meta.ID is replaced by a fresh UUID.
func (s *Store) Save(meta RunMetadata, summaries []props.Summary) (string, error) {
	if meta.ID == "" {
		meta.ID = uuid.NewString()
	}
	if meta.Timestamp.IsZero() {
		meta.Timestamp = time.Now()
	}
	if meta.Final == nil && len(summaries) > 0 {
		last := summaries[len(summaries)-1]
		meta.Final = map[string]float64{
			"kin_energy": last.KinEnergy,
			"tot_energy": last.TotEnergy,
			"pressure":   last.Pressure,
		}
	}

	runDir := filepath.Join(s.baseDir, meta.ID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	metaFile, err := os.Create(filepath.Join(runDir, metadataFile))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	if err := writeSummaries(filepath.Join(runDir, propsFile), meta.Dim, summaries); err != nil {
		return "", err
	}
	return meta.ID, nil
}

func writeSummaries(path string, dim int, summaries []props.Summary) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)

	header := []string{"step", "time"}
	for i := 0; i < dim; i++ {
		header = append(header, fmt.Sprintf("v_sum_%d", i))
	}
	header = append(header,
		"kin_energy", "kin_energy_std",
		"tot_energy", "tot_energy_std",
		"pressure", "pressure_std")
	if err := w.Write(header); err != nil {
		return err
	}

	for _, sm := range summaries {
		row := []string{strconv.Itoa(sm.Step), formatFloat(sm.Time)}
		for i := 0; i < dim; i++ {
			v := 0.0
			if i < len(sm.VSum) {
				v = sm.VSum[i]
			}
			row = append(row, formatFloat(v))
		}
		row = append(row,
			formatFloat(sm.KinEnergy), formatFloat(sm.KinEnergyStd),
			formatFloat(sm.TotEnergy), formatFloat(sm.TotEnergyStd),
			formatFloat(sm.Pressure), formatFloat(sm.PressureStd))
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// List returns all readable runs, oldest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool {
		return runs[i].Timestamp.Before(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

func (s *Store) LoadSummaries(runID string) ([]props.Summary, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, propsFile))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return []props.Summary{}, nil
	}

	header := records[0]
	col := make(map[string]int, len(header))
	dim := 0
	for i, name := range header {
		col[name] = i
		if strings.HasPrefix(name, "v_sum_") {
			dim++
		}
	}

	summaries := make([]props.Summary, 0, len(records)-1)
	for _, record := range records[1:] {
		var (
			sm  props.Summary
			err error
		)
		get := func(name string) float64 {
			if err != nil {
				return 0
			}
			var v float64
			v, err = strconv.ParseFloat(record[col[name]], 64)
			return v
		}

		sm.Step, err = strconv.Atoi(record[col["step"]])
		sm.Time = get("time")
		sm.VSum = make([]float64, dim)
		for i := range sm.VSum {
			sm.VSum[i] = get(fmt.Sprintf("v_sum_%d", i))
		}
		sm.KinEnergy = get("kin_energy")
		sm.KinEnergyStd = get("kin_energy_std")
		sm.TotEnergy = get("tot_energy")
		sm.TotEnergyStd = get("tot_energy_std")
		sm.Pressure = get("pressure")
		sm.PressureStd = get("pressure_std")
		if err != nil {
			return nil, fmt.Errorf("run %s: %w", runID, err)
		}
		summaries = append(summaries, sm)
	}
	return summaries, nil
}
