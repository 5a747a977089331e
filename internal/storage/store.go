package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/san-kum/gravbox/internal/geom"
)

const (
	metadataFile = "metadata.json"
	statesFile   = "states.csv"
)

var ErrNotFound = errors.New("run not found")

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
	ID               string             `json:"id"`
	Scene            string             `json:"scene"`
	Timestamp        time.Time          `json:"timestamp"`
	Duration         float64            `json:"duration"`
	Timestep         float64            `json:"timestep"`
	UpdatesPerSecond float64            `json:"updates_per_second"`
	Integrator       string             `json:"integrator"`
	G                float64            `json:"g"`
	Steps            uint64             `json:"steps"`
	Bodies           []BodyInfo         `json:"bodies"`
	Metrics          map[string]float64 `json:"metrics"`
}

// Save writes a recording under a fresh run ID and returns the ID. ID,
// Timestamp and Bodies in meta are filled in.
func (s *Store) Save(meta RunMetadata, rec *Recording) (string, error) {
	meta.ID = uuid.NewString()
	meta.Timestamp = time.Now()
	meta.Bodies = rec.Bodies

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

	csvFile, err := os.Create(filepath.Join(runDir, statesFile))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	if err := WriteCSV(csvFile, rec); err != nil {
		return "", err
	}
	return meta.ID, nil
}

// List returns every readable run, newest first.
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
		return runs[i].Timestamp.After(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	if err := uuid.Validate(runID); err != nil {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, runID)
	}
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, runID)
		}
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// LoadRecording reads a run's samples back together with its body list.
func (s *Store) LoadRecording(runID string) (*RunMetadata, *Recording, error) {
	meta, err := s.Load(runID)
	if err != nil {
		return nil, nil, err
	}
	file, err := os.Open(filepath.Join(s.baseDir, runID, statesFile))
	if err != nil {
		return nil, nil, err
	}
	defer file.Close()

	rec, err := ReadCSV(file)
	if err != nil {
		return nil, nil, fmt.Errorf("run %s: %w", runID, err)
	}
	rec.Bodies = meta.Bodies
	return meta, rec, nil
}

const fixedCols = 5

// WriteCSV writes one row per sample: time, kinetic, potential, px, py,
// then x and y for every body.
func WriteCSV(out io.Writer, rec *Recording) error {
	w := csv.NewWriter(out)

	header := []string{"time", "kinetic", "potential", "px", "py"}
	for i := range rec.Bodies {
		header = append(header, fmt.Sprintf("b%d_x", i), fmt.Sprintf("b%d_y", i))
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for _, s := range rec.Samples {
		row := []string{
			formatFloat(s.Time),
			formatFloat(s.Kinetic),
			formatFloat(s.Potential),
			formatFloat(s.Momentum.X),
			formatFloat(s.Momentum.Y),
		}
		for _, p := range s.Positions {
			row = append(row, formatFloat(p.X), formatFloat(p.Y))
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func ReadCSV(in io.Reader) (*Recording, error) {
	r := csv.NewReader(in)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	rec := &Recording{}
	if len(records) < 2 {
		return rec, nil
	}

	for i, record := range records[1:] {
		if len(record) < fixedCols || (len(record)-fixedCols)%2 != 0 {
			return nil, fmt.Errorf("row %d: malformed record with %d fields", i+1, len(record))
		}
		vals := make([]float64, len(record))
		for j, field := range record {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("row %d col %d: %w", i+1, j, err)
			}
			vals[j] = v
		}
		s := Sample{
			Time:      vals[0],
			Kinetic:   vals[1],
			Potential: vals[2],
			Momentum:  geom.Vec2{X: vals[3], Y: vals[4]},
		}
		for j := fixedCols; j < len(vals); j += 2 {
			s.Positions = append(s.Positions, geom.Vec2{X: vals[j], Y: vals[j+1]})
		}
		rec.Samples = append(rec.Samples, s)
	}
	return rec, nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
