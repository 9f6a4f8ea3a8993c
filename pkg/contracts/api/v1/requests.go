// Package api contains API contract definitions for the FuelPulse analysis
// service. Version v1 represents the current stable API version.
package api

// Common request parameters

// DocumentRequest selects the document to analyze. An empty document falls
// back to the newest analyzable file in the data directory; an empty format
// is detected from the source name.
type DocumentRequest struct {
	Document string `json:"document,omitempty" query:"document"`
	Format   string `json:"format,omitempty" query:"format" validate:"omitempty,oneof=csv workbook sheets"`
	Section  string `json:"section,omitempty" query:"section"`
}

// Analysis API Requests

// AnalyzeRequest represents a full analysis run: every window/method
// combination yields one smoothed series in the result.
type AnalyzeRequest struct {
	DocumentRequest
	Windows   []int    `json:"windows,omitempty" validate:"omitempty,min=1,dive,min=1,max=365"`
	Methods   []string `json:"methods,omitempty" validate:"omitempty,min=1,dive,method"`
	Weighting string   `json:"weighting,omitempty" validate:"omitempty,weighting"`
}

// SeriesRequest represents a single smoothed-series request.
type SeriesRequest struct {
	DocumentRequest
	Window    int    `json:"window,omitempty" query:"window" validate:"omitempty,min=1,max=365"`
	Method    string `json:"method,omitempty" query:"method" validate:"omitempty,method"`
	Weighting string `json:"weighting,omitempty" query:"weighting" validate:"omitempty,weighting"`
}

// ChartRequest represents a chart payload request; the response carries one
// line per window/method combination plus the raw consumption line.
type ChartRequest struct {
	DocumentRequest
	Windows   []int    `json:"windows,omitempty" query:"windows" validate:"omitempty,min=1,dive,min=1,max=365"`
	Methods   []string `json:"methods,omitempty" query:"methods" validate:"omitempty,min=1,dive,method"`
	Weighting string   `json:"weighting,omitempty" query:"weighting" validate:"omitempty,weighting"`
}
