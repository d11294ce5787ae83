package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/san-kum/astrodyn/internal/dynamo"
)

const (
	metadataFile = "metadata.json"
	statesFile   = "states.csv"
)

var ErrRunNotFound = errors.New("run not found")

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
	Model      string             `json:"model"`
	Preset     string             `json:"preset,omitempty"`
	Timestamp  time.Time          `json:"timestamp"`
	Seed       int64              `json:"seed"`
	Dt         float64            `json:"dt"`
	Duration   float64            `json:"duration"`
	Adaptive   bool               `json:"adaptive"`
	Integrator string             `json:"integrator"`
	Controller string             `json:"controller"`
	EpochJD    float64            `json:"epoch_jd"`
	Slots      []string           `json:"slots"`
	ControlDim int                `json:"control_dim"`
	Steps      int                `json:"steps"`
	Metrics    map[string]float64 `json:"metrics"`
	Errors     []string           `json:"errors,omitempty"`
}

// Save writes the run under a fresh ID and returns it. The caller fills the
// scenario fields of meta; ID, timestamp and the result summary are set here.
// Slots names the state columns; when empty they are named x0, x1, ...
func (s *Store) Save(meta RunMetadata, result *dynamo.Result) (string, error) {
	meta.ID = uuid.New().String()
	meta.Timestamp = time.Now().UTC()
	meta.Steps = result.StepsTaken
	meta.Metrics = result.Metrics
	for _, err := range result.Errors {
		meta.Errors = append(meta.Errors, err.Error())
	}
	if len(result.States) > 0 && len(meta.Slots) != len(result.States[0]) {
		meta.Slots = make([]string, len(result.States[0]))
		for i := range meta.Slots {
			meta.Slots[i] = fmt.Sprintf("x%d", i)
		}
	}
	if len(result.Controls) > 0 {
		meta.ControlDim = len(result.Controls[0])
	}

	runDir := filepath.Join(s.baseDir, meta.ID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	if err := writeMetadata(filepath.Join(runDir, metadataFile), &meta); err != nil {
		return "", fmt.Errorf("write metadata: %w", err)
	}
	if err := writeStates(filepath.Join(runDir, statesFile), &meta, result); err != nil {
		return "", fmt.Errorf("write states: %w", err)
	}
	return meta.ID, nil
}

func writeMetadata(path string, meta *RunMetadata) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

func writeStates(path string, meta *RunMetadata, result *dynamo.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)

	header := append([]string{"time"}, meta.Slots...)
	for i := 0; i < meta.ControlDim; i++ {
		header = append(header, fmt.Sprintf("u%d", i))
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for i := range result.States {
		row := make([]string, 0, len(header))
		row = append(row, formatFloat(result.Times[i]))
		for _, val := range result.States[i] {
			row = append(row, formatFloat(val))
		}
		// No control is applied after the final state.
		for j := 0; j < meta.ControlDim; j++ {
			if i < len(result.Controls) {
				row = append(row, formatFloat(result.Controls[i][j]))
			} else {
				row = append(row, "0")
			}
		}
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

// List returns all readable runs, newest first.
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
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}
	return &meta, nil
}

// LoadStates returns the state columns and sample times of a run.
func (s *Store) LoadStates(runID string) ([][]float64, []float64, error) {
	result, _, err := s.LoadResult(runID)
	if err != nil {
		return nil, nil, err
	}
	states := make([][]float64, len(result.States))
	for i, x := range result.States {
		states[i] = x
	}
	return states, result.Times, nil
}

// LoadResult rebuilds the trajectory of a run. Metrics come from the
// metadata; StepsTaken and EnergyDrift are not restored.
func (s *Store) LoadResult(runID string) (*dynamo.Result, *RunMetadata, error) {
	meta, err := s.Load(runID)
	if err != nil {
		return nil, nil, err
	}

	file, err := os.Open(filepath.Join(s.baseDir, runID, statesFile))
	if err != nil {
		return nil, nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	records, err := r.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("run %s: %w", runID, err)
	}

	result := &dynamo.Result{Metrics: meta.Metrics}
	if len(records) < 2 {
		return result, meta, nil
	}

	n := len(meta.Slots)
	want := 1 + n + meta.ControlDim
	rows := records[1:]
	for i, record := range rows {
		if len(record) != want {
			return nil, nil, fmt.Errorf("run %s: row %d has %d fields, want %d", runID, i+1, len(record), want)
		}
		vals := make([]float64, len(record))
		for j, field := range record {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, nil, fmt.Errorf("run %s: row %d: %w", runID, i+1, err)
			}
			vals[j] = v
		}

		result.Times = append(result.Times, vals[0])
		result.States = append(result.States, dynamo.State(vals[1:1+n]))
		if i < len(rows)-1 && meta.ControlDim > 0 {
			result.Controls = append(result.Controls, dynamo.Control(vals[1+n:]))
		}
	}
	return result, meta, nil
}
