package metrics

import (
	"sync"

	"github.com/san-kum/gravsnap/internal/dynamo"
)

// Row holds every metric value for one frame.
type Row struct {
	Index  int
	Steps  int
	Values []float64
}

// Recorder observes frames from a sequencer and keeps one Row per frame.
type Recorder struct {
	metrics []Metric
	mu      sync.Mutex
	rows    []Row
	limit   int
}

// NewRecorder records ms. limit > 0 keeps only the most recent rows, for
// unbounded runs.
func NewRecorder(limit int, ms ...Metric) *Recorder {
	if len(ms) == 0 {
		ms = Defaults()
	}
	return &Recorder{metrics: ms, limit: limit}
}

func (r *Recorder) Names() []string {
	names := make([]string, len(r.metrics))
	for i, m := range r.metrics {
		names[i] = m.Name()
	}
	return names
}

func (r *Recorder) OnFrame(index, steps int, frame *dynamo.Frame) {
	row := Row{Index: index, Steps: steps, Values: make([]float64, len(r.metrics))}
	for i, m := range r.metrics {
		m.Observe(frame)
		row.Values[i] = m.Value()
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows = append(r.rows, row)
	if r.limit > 0 && len(r.rows) > r.limit {
		r.rows = r.rows[len(r.rows)-r.limit:]
	}
}

func (r *Recorder) Rows() []Row {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Row, len(r.rows))
	copy(out, r.rows)
	return out
}

// Series returns the recorded values of the named metric in frame order.
func (r *Recorder) Series(name string) []float64 {
	col := -1
	for i, m := range r.metrics {
		if m.Name() == name {
			col = i
		}
	}
	if col < 0 {
		return nil
	}
	rows := r.Rows()
	out := make([]float64, len(rows))
	for i, row := range rows {
		out[i] = row.Values[col]
	}
	return out
}

// Last returns the latest value per metric name.
func (r *Recorder) Last() map[string]float64 {
	out := make(map[string]float64, len(r.metrics))
	rows := r.Rows()
	if len(rows) == 0 {
		return out
	}
	last := rows[len(rows)-1]
	for i, m := range r.metrics {
		out[m.Name()] = last.Values[i]
	}
	return out
}

func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows = r.rows[:0]
	for _, m := range r.metrics {
		m.Reset()
	}
}
