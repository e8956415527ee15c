package metrics

import "github.com/san-kum/gravsnap/internal/dynamo"

// Metric summarises the most recently observed frame.
type Metric interface {
	Name() string
	Observe(frame *dynamo.Frame)
	Value() float64
	Reset()
}

// Defaults returns the metrics recorded for every run.
func Defaults() []Metric {
	return []Metric{
		NewBasinShare(0),
		NewBasinShare(1),
		NewBasinShare(2),
		NewChurn(),
		NewContrast(),
	}
}
