// Package trace persists finished runs to disk: one directory per run
// holding the configuration, a summary, and the per-tick telemetry rows.
package trace

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gocarina/gocsv"

	"github.com/halcyonlab/starling/internal/telemetry"
)

// ErrNotFound is returned by Load and LoadRows for an unknown run id.
var ErrNotFound = errors.New("trace: run not found")

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

// Meta describes one persisted run.
type Meta struct {
	ID        string            `json:"id"`
	Timestamp time.Time         `json:"timestamp"`
	Seed      uint32            `json:"seed"`
	Rate      int               `json:"rate"`
	Ticks     int               `json:"ticks"`
	Config    map[string]any    `json:"config"`
	Summary   telemetry.Summary `json:"summary"`
}

// Save writes one run directory and returns its id. The configuration
// map is the record export; rows are the collector's per-tick output.
func (s *Store) Save(cfg map[string]any, seed uint32, rate int, rows []telemetry.Row, summary telemetry.Summary) (string, error) {
	now := time.Now()
	runID := fmt.Sprintf("run_%d", now.UnixNano())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := Meta{
		ID:        runID,
		Timestamp: now,
		Seed:      seed,
		Rate:      rate,
		Ticks:     len(rows),
		Config:    cfg,
		Summary:   summary,
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

	if len(rows) == 0 {
		return runID, nil
	}

	csvFile, err := os.Create(filepath.Join(runDir, "ticks.csv"))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	if err := gocsv.Marshal(rows, csvFile); err != nil {
		return "", err
	}

	return runID, nil
}

// List returns the metadata of every readable run, skipping entries that
// are not run directories or whose metadata is damaged.
func (s *Store) List() ([]Meta, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []Meta{}, nil
		}
		return nil, err
	}

	runs := make([]Meta, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		data, err := os.ReadFile(filepath.Join(s.baseDir, entry.Name(), "metadata.json"))
		if err != nil {
			continue
		}

		var meta Meta
		if err := json.Unmarshal(data, &meta); err != nil {
			continue
		}

		runs = append(runs, meta)
	}

	return runs, nil
}

func (s *Store) Load(runID string) (*Meta, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, runID)
		}
		return nil, err
	}

	var meta Meta
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

// LoadRows reads a run's per-tick telemetry back.
func (s *Store) LoadRows(runID string) ([]telemetry.Row, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, "ticks.csv"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, runID)
		}
		return nil, err
	}
	defer file.Close()

	var rows []telemetry.Row
	if err := gocsv.UnmarshalFile(file, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}
