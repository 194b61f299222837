// Package telemetry flattens engine frames into per-tick rows for CSV
// export and run summaries.
package telemetry

import (
	"io"
	"math"

	"github.com/gocarina/gocsv"
	"gonum.org/v1/gonum/stat"

	"github.com/halcyonlab/starling/internal/engine"
)

// Row is one tick's measurements, flattened for CSV.
type Row struct {
	Tick   uint64 `csv:"tick"`
	Agents int    `csv:"agents"`
	Cells  int    `csv:"cells"`

	Targets   int     `csv:"targets"`
	Magnitude float64 `csv:"magnitude"`
	Peak      float64 `csv:"peak"`
}

// Summary aggregates a whole run.
type Summary struct {
	Ticks         int     `json:"ticks"`
	MeanCells     float64 `json:"mean_cells"`
	MeanTargets   float64 `json:"mean_targets"`
	MeanMagnitude float64 `json:"mean_magnitude"`
	StdMagnitude  float64 `json:"std_magnitude"`
	PeakOffset    float64 `json:"peak_offset"`
}

// Collector accumulates one Row per engine frame. It implements
// [engine.Observer].
type Collector struct {
	rows []Row
}

func NewCollector() *Collector { return &Collector{} }

func (c *Collector) OnFrame(fr engine.Frame) {
	row := Row{
		Tick:    fr.Tick,
		Agents:  len(fr.Agents),
		Cells:   len(fr.Cells),
		Targets: len(fr.Bus),
	}
	for _, v := range fr.Bus {
		m := math.Abs(v)
		row.Magnitude += m
		if m > row.Peak {
			row.Peak = m
		}
	}
	c.rows = append(c.rows, row)
}

// Rows returns a copy of every collected row, oldest first.
func (c *Collector) Rows() []Row {
	out := make([]Row, len(c.rows))
	copy(out, c.rows)
	return out
}

// Recent returns a copy of the last n rows, fewer if fewer exist.
func (c *Collector) Recent(n int) []Row {
	if n <= 0 || len(c.rows) == 0 {
		return nil
	}
	if n > len(c.rows) {
		n = len(c.rows)
	}
	out := make([]Row, n)
	copy(out, c.rows[len(c.rows)-n:])
	return out
}

func (c *Collector) Len() int { return len(c.rows) }

func (c *Collector) Reset() { c.rows = nil }

// WriteCSV marshals every row, header included.
func (c *Collector) WriteCSV(w io.Writer) error {
	return gocsv.Marshal(c.rows, w)
}

// Summary computes run statistics over the collected rows.
func (c *Collector) Summary() Summary {
	s := Summary{Ticks: len(c.rows)}
	if len(c.rows) == 0 {
		return s
	}
	cells := make([]float64, len(c.rows))
	targets := make([]float64, len(c.rows))
	mags := make([]float64, len(c.rows))
	for i, r := range c.rows {
		cells[i] = float64(r.Cells)
		targets[i] = float64(r.Targets)
		mags[i] = r.Magnitude
		if r.Peak > s.PeakOffset {
			s.PeakOffset = r.Peak
		}
	}
	s.MeanCells = stat.Mean(cells, nil)
	s.MeanTargets = stat.Mean(targets, nil)
	s.MeanMagnitude = stat.Mean(mags, nil)
	if len(mags) > 1 {
		s.StdMagnitude = stat.StdDev(mags, nil)
	}
	return s
}
