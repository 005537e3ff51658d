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

	"github.com/san-kum/gravsim/internal/metrics"
	"github.com/san-kum/gravsim/internal/sim"
)

var ErrRunNotFound = errors.New("storage: run not found")

const (
	metadataFile = "metadata.json"
	historyFile  = "energy.csv"
)

var now = time.Now

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

// RunParams are the inputs of a run that the result itself does not carry.
type RunParams struct {
	Seed      int64
	Dt        float64
	LenTime   float64
	Epsilon   float64
	BodyNames []string
}

type RunMetadata struct {
	ID            string           `json:"id"`
	Generator     string           `json:"generator"`
	Timestamp     time.Time        `json:"timestamp"`
	Seed          int64            `json:"seed"`
	Dt            float64          `json:"dt"`
	LenTime       float64          `json:"len_time"`
	Epsilon       float64          `json:"epsilon"`
	Particles     int              `json:"particles"`
	Steps         int              `json:"steps"`
	StepsTaken    int              `json:"steps_taken"`
	Backend       string           `json:"backend"`
	Elapsed       time.Duration    `json:"elapsed_ns"`
	InitialEnergy Float            `json:"initial_energy"`
	FinalEnergy   Float            `json:"final_energy"`
	DriftPercent  Float            `json:"drift_percent"`
	Metrics       map[string]Float `json:"metrics"`
	BodyNames     []string         `json:"body_names,omitempty"`
	Initial       Ledger           `json:"initial"`
	Final         Ledger           `json:"final"`
}

// Save writes metadata.json and energy.csv under a new run directory and
// returns the run ID. If either write fails the directory is removed.
func (s *Store) Save(params RunParams, result *sim.Result, history []metrics.Sample) (id string, err error) {
	ts := now()
	runID := fmt.Sprintf("%s_%d", result.Generator, ts.UnixNano())
	if result.Generator == "" {
		runID = fmt.Sprintf("run_%d", ts.UnixNano())
	}
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}
	defer func() {
		if err != nil {
			os.RemoveAll(runDir)
		}
	}()

	meta := RunMetadata{
		ID:            runID,
		Generator:     result.Generator,
		Timestamp:     ts,
		Seed:          params.Seed,
		Dt:            params.Dt,
		LenTime:       params.LenTime,
		Epsilon:       params.Epsilon,
		Particles:     result.Particles,
		Steps:         result.Steps,
		StepsTaken:    result.StepsTaken,
		Backend:       result.Backend,
		Elapsed:       result.Elapsed,
		InitialEnergy: Float(result.Initial.Sum),
		FinalEnergy:   Float(result.Final.Sum),
		DriftPercent:  Float(result.DriftPercent),
		Metrics:       floatMap(result.Metrics),
		BodyNames:     params.BodyNames,
		Initial:       ledgerOf(result.Initial),
		Final:         ledgerOf(result.Final),
	}

	if err = writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", err
	}
	if err = writeHistory(filepath.Join(runDir, historyFile), history); err != nil {
		return "", err
	}

	return runID, nil
}

// List returns the metadata of every stored run, oldest first. Directories
// without readable metadata are skipped.
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

	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
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
		return nil, fmt.Errorf("decode %s metadata: %w", runID, err)
	}

	return &meta, nil
}

// LoadHistory reads the sampled energy series of a run. Malformed rows are
// skipped.
func (s *Store) LoadHistory(runID string) ([]metrics.Sample, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, historyFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	if len(records) < 2 {
		return []metrics.Sample{}, nil
	}

	samples := make([]metrics.Sample, 0, len(records)-1)
	for _, record := range records[1:] {
		if len(record) != 5 {
			continue
		}
		step, err := strconv.Atoi(record[0])
		if err != nil {
			continue
		}
		vals := make([]float64, 4)
		ok := true
		for j := range vals {
			if vals[j], err = strconv.ParseFloat(record[j+1], 64); err != nil {
				ok = false
				break
			}
		}
		if !ok {
			continue
		}
		samples = append(samples, metrics.Sample{
			Step: step, Time: vals[0], Kinetic: vals[1], Potential: vals[2], Total: vals[3],
		})
	}

	return samples, nil
}

type ExportData struct {
	Run     RunMetadata `json:"run"`
	History []Sample    `json:"history"`
}

// ExportJSON writes a run's metadata and energy history to w as one JSON
// document.
func (s *Store) ExportJSON(runID string, w io.Writer) error {
	meta, err := s.Load(runID)
	if err != nil {
		return err
	}
	history, err := s.LoadHistory(runID)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(ExportData{Run: *meta, History: samplesOf(history)})
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func writeHistory(path string, history []metrics.Sample) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := writeSamples(f, history); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func writeSamples(out io.Writer, history []metrics.Sample) error {
	w := csv.NewWriter(out)
	if err := w.Write([]string{"step", "time", "kinetic", "potential", "total"}); err != nil {
		return err
	}
	for _, smp := range history {
		row := []string{
			strconv.Itoa(smp.Step),
			strconv.FormatFloat(smp.Time, 'g', -1, 64),
			strconv.FormatFloat(smp.Kinetic, 'g', -1, 64),
			strconv.FormatFloat(smp.Potential, 'g', -1, 64),
			strconv.FormatFloat(smp.Total, 'g', -1, 64),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
