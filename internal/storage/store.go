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

	"github.com/san-kum/gravsnap/internal/dynamo"
	"github.com/san-kum/gravsnap/internal/metrics"
)

const (
	// TimestampLayout names generated run directories.
	TimestampLayout = "2006-01-02_15:04:05"
	metadataFile    = "run.json"
	metricsFile     = "metrics.csv"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) BaseDir() string { return s.baseDir }

// CheckDir fails unless dir exists and is a directory.
func CheckDir(dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("%w: save directory %q does not exist", dynamo.ErrOutputDir, dir)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %q is not a directory", dynamo.ErrOutputDir, dir)
	}
	return nil
}

// RunDir returns the directory frames are written to. With timestamp set a
// child directory named after now is created.
func (s *Store) RunDir(timestamp bool, now time.Time) (string, error) {
	if !timestamp {
		return s.baseDir, nil
	}
	dir := filepath.Join(s.baseDir, now.Format(TimestampLayout))
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	return dir, nil
}

type RunMetadata struct {
	ID         string             `json:"id"`
	Dir        string             `json:"dir"`
	Timestamp  time.Time          `json:"timestamp"`
	Width      int                `json:"width"`
	Height     int                `json:"height"`
	Layout     string             `json:"layout"`
	Masses     [][2]float32       `json:"masses"`
	Policy     string             `json:"policy"`
	ForceLaw   string             `json:"force_law"`
	ColorMode  string             `json:"color_mode"`
	Dt         float64            `json:"dt"`
	Gravity    float64            `json:"gravity"`
	Softening  float64            `json:"softening"`
	Iterations int                `json:"iterations"`
	Step       int                `json:"step"`
	Frames     int                `json:"frames"`
	Rendered   int                `json:"rendered"`
	TotalSteps int                `json:"total_steps"`
	Elapsed    string             `json:"elapsed"`
	Seed       int64              `json:"seed"`
	Metrics    map[string]float64 `json:"metrics"`
}

// Save writes run.json and, when rows are present, metrics.csv into dir.
func (s *Store) Save(dir string, meta RunMetadata, names []string, rows []metrics.Row) error {
	if meta.ID == "" {
		meta.ID = filepath.Base(dir)
	}
	meta.Dir = dir

	metaFile, err := os.Create(filepath.Join(dir, metadataFile))
	if err != nil {
		return err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return err
	}

	if len(rows) == 0 {
		return nil
	}
	return writeMetrics(filepath.Join(dir, metricsFile), names, rows)
}

func writeMetrics(path string, names []string, rows []metrics.Row) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	header := append([]string{"frame", "steps"}, names...)
	if err := w.Write(header); err != nil {
		return err
	}
	for _, row := range rows {
		rec := []string{strconv.Itoa(row.Index), strconv.Itoa(row.Steps)}
		for _, v := range row.Values {
			rec = append(rec, strconv.FormatFloat(v, 'f', 6, 64))
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// Load reads run.json from a run directory, relative to the base dir
// unless absolute.
func (s *Store) Load(dir string) (*RunMetadata, error) {
	return loadMetadata(s.resolve(dir))
}

func (s *Store) resolve(dir string) string {
	if filepath.IsAbs(dir) {
		return dir
	}
	return filepath.Join(s.baseDir, dir)
}

func loadMetadata(dir string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(dir, metadataFile))
	if err != nil {
		return nil, err
	}
	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// LoadMetrics reads metrics.csv back into column names and rows.
func (s *Store) LoadMetrics(dir string) ([]string, []metrics.Row, error) {
	f, err := os.Open(filepath.Join(s.resolve(dir), metricsFile))
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, nil, err
	}
	if len(records) == 0 || len(records[0]) < 2 {
		return nil, nil, errors.New("metrics file has no header")
	}

	names := records[0][2:]
	rows := make([]metrics.Row, 0, len(records)-1)
	for _, rec := range records[1:] {
		idx, err := strconv.Atoi(rec[0])
		if err != nil {
			return nil, nil, err
		}
		steps, err := strconv.Atoi(rec[1])
		if err != nil {
			return nil, nil, err
		}
		row := metrics.Row{Index: idx, Steps: steps, Values: make([]float64, 0, len(names))}
		for _, field := range rec[2:] {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, nil, err
			}
			row.Values = append(row.Values, v)
		}
		rows = append(rows, row)
	}
	return names, rows, nil
}

// List returns the metadata of every run found directly in the base dir or
// one level below it, newest first.
func (s *Store) List() ([]RunMetadata, error) {
	var runs []RunMetadata
	if meta, err := loadMetadata(s.baseDir); err == nil {
		runs = append(runs, *meta)
	}

	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return nil, err
	}
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		meta, err := loadMetadata(filepath.Join(s.baseDir, e.Name()))
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
