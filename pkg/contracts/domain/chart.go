// Package domain contains the data transfer contracts shared between the
// analysis service, the HTTP API and downstream renderers.
package domain

import (
	"time"
)

// Chart is the chart-ready handoff for one analyzed fillup log. The renderer
// consumes it verbatim: x-axis positions, per-point date labels and every
// plotted line, index-aligned with each other.
type Chart struct {
	Title      string        `json:"title"`
	Document   string        `json:"document"`
	Section    string        `json:"section"`
	XOdometer  []float64     `json:"x_odometer"`
	DateLabels []string      `json:"date_labels"`
	Raw        ChartSeries   `json:"raw"`
	Smoothed   []ChartSeries `json:"smoothed"`
	BuiltAt    time.Time     `json:"built_at"`
}

// ChartSeries is a single plotted line. Smoothed lines carry the window size
// and method they were produced with; the raw consumption line carries
// neither.
type ChartSeries struct {
	Label     string    `json:"label"`
	Window    int       `json:"window,omitempty"`
	Method    string    `json:"method,omitempty"`
	Weighting string    `json:"weighting,omitempty"`
	Values    []float64 `json:"values"`
}

// PointCount returns the number of x-axis positions in the chart.
func (c Chart) PointCount() int {
	return len(c.XOdometer)
}
