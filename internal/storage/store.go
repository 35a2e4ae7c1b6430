// Package storage persists model runs as a directory per run:
// metadata.json plus a points.csv with the numeric series, so sweeps
// and curves can be listed and re-plotted later.
package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/san-kum/snowball/internal/sweep"
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
	ID              string    `json:"id"`
	Kind            string    `json:"kind"` // "sweep" or "curve"
	Timestamp       time.Time `json:"timestamp"`
	SolarMultiplier float64   `json:"solar_multiplier,omitempty"`
	MaxIterations   int       `json:"max_iterations,omitempty"`
	Tolerance       float64   `json:"tolerance,omitempty"`
	Policy          string    `json:"policy,omitempty"`
	Critical        float64   `json:"critical_multiplier,omitempty"`
}

// SaveSweep writes sweep points under a fresh run id. Missing points
// are stored with an empty temperature cell.
func (s *Store) SaveSweep(meta RunMetadata, points []sweep.Point) (string, error) {
	runID := fmt.Sprintf("sweep_%d", time.Now().Unix())
	meta.ID = runID
	meta.Kind = "sweep"
	meta.Timestamp = time.Now()

	runDir, err := s.makeRunDir(runID, meta)
	if err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, "points.csv"))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	defer w.Flush()

	header := []string{"solar_multiplier", "temperature", "branch", "warm_converged", "cold_converged"}
	if err := w.Write(header); err != nil {
		return "", err
	}

	for _, pt := range points {
		temp := ""
		if pt.Valid {
			temp = strconv.FormatFloat(pt.Temperature, 'f', 6, 64)
		}
		row := []string{
			strconv.FormatFloat(pt.Multiplier, 'f', 6, 64),
			temp,
			pt.Branch,
			strconv.FormatBool(pt.Warm.Converged),
			strconv.FormatBool(pt.Cold.Converged),
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}

	return runID, nil
}

// SaveCurve writes a sampled balance curve under a fresh run id.
func (s *Store) SaveCurve(meta RunMetadata, temps, balances []float64) (string, error) {
	runID := fmt.Sprintf("curve_%d", time.Now().Unix())
	meta.ID = runID
	meta.Kind = "curve"
	meta.Timestamp = time.Now()

	runDir, err := s.makeRunDir(runID, meta)
	if err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, "points.csv"))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	defer w.Flush()

	if err := w.Write([]string{"temperature", "balance"}); err != nil {
		return "", err
	}
	for i := range temps {
		row := []string{
			strconv.FormatFloat(temps[i], 'f', 6, 64),
			strconv.FormatFloat(balances[i], 'f', 6, 64),
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}

	return runID, nil
}

func (s *Store) makeRunDir(runID string, meta RunMetadata) (string, error) {
	runDir := filepath.Join(s.baseDir, runID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

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
	return runDir, nil
}

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

	return runs, nil
}

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

// LoadPoints returns the stored numeric columns. A blank cell parses
// as NaN so missing sweep points keep their slot in the series.
func (s *Store) LoadPoints(runID string) (header []string, cols [][]float64, err error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, "points.csv"))
	if err != nil {
		return nil, nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, nil, err
	}
	if len(records) < 1 {
		return nil, nil, fmt.Errorf("run %s has no point data", runID)
	}

	header = records[0]
	cols = make([][]float64, len(header))

	for _, record := range records[1:] {
		for j := range header {
			val := math.NaN()
			if j < len(record) && record[j] != "" {
				if parsed, perr := strconv.ParseFloat(record[j], 64); perr == nil {
					val = parsed
				}
			}
			cols[j] = append(cols[j], val)
		}
	}

	return header, cols, nil
}
