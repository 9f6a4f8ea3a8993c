package fillup

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
)

// dateLayouts are the calendar formats accepted for the date column, tried in
// order.
var dateLayouts = []string{
	"2006-01-02",
	"02.01.2006",
	"01/02/2006",
	"2006/01/02",
}

// extraFuelPattern matches an optional signed decimal number at the start of
// the note text, followed by whitespace: "4.8 liters extra" carries 4.8,
// "see notes" carries nothing.
var extraFuelPattern = regexp.MustCompile(`^\s*([+-]?\d+(?:[.,]\d+)?)\s+`)

// Optional is an explicit optional numeric value. The zero value is missing;
// missing is a first-class state distinct from zero and never a NaN sentinel
// inside the domain model.
type Optional struct {
	Value float64
	Valid bool
}

// Some returns a present Optional.
func Some(v float64) Optional {
	return Optional{Value: v, Valid: true}
}

// Float materializes the optional as a float64 using NaN for missing. Only
// the smoothing kernel boundary should rely on the NaN form; everything else
// checks Valid.
func (o Optional) Float() float64 {
	if !o.Valid {
		return math.NaN()
	}
	return o.Value
}

// MarshalJSON renders the value, or null when missing.
func (o Optional) MarshalJSON() ([]byte, error) {
	if !o.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(o.Value)
}

// UnmarshalJSON accepts a number or null.
func (o *Optional) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*o = Optional{}
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*o = Some(v)
	return nil
}

// Observation is one validated fillup in the time series.
type Observation struct {
	Date        time.Time `json:"date"`
	Odometer    float64   `json:"odometer"`
	Consumption float64   `json:"consumption"`
	Extra       Optional  `json:"extra"`
	Line        int       `json:"-"`
}

// Series is an observation sequence sorted ascending by date. Once built it
// is read-only; the smoothing engine indexes it by position.
type Series struct {
	Observations []Observation `json:"observations"`
}

// Len returns the number of observations.
func (s *Series) Len() int {
	return len(s.Observations)
}

// Dates returns the date column.
func (s *Series) Dates() []time.Time {
	out := make([]time.Time, len(s.Observations))
	for i, o := range s.Observations {
		out[i] = o.Date
	}
	return out
}

// Odometers returns the odometer column. Sorting is by date, so the readings
// are not guaranteed monotonic.
func (s *Series) Odometers() []float64 {
	out := make([]float64, len(s.Observations))
	for i, o := range s.Observations {
		out[i] = o.Odometer
	}
	return out
}

// Consumptions returns the consumption column.
func (s *Series) Consumptions() []float64 {
	out := make([]float64, len(s.Observations))
	for i, o := range s.Observations {
		out[i] = o.Consumption
	}
	return out
}

// Extras returns the extra-fuel column.
func (s *Series) Extras() []Optional {
	out := make([]Optional, len(s.Observations))
	for i, o := range s.Observations {
		out[i] = o.Extra
	}
	return out
}

// BuildSeries converts filtered records into a date-sorted observation
// series. An unparsable date, odometer or consumption value aborts the whole
// build with an InvalidObservationError; the sort is stable, so records
// sharing a date keep their input order. Zero surviving observations yield
// ErrEmptySeries.
func BuildSeries(records []Record) (*Series, error) {
	observations := make([]Observation, 0, len(records))
	for _, rec := range records {
		obs, err := buildObservation(rec)
		if err != nil {
			return nil, err
		}
		observations = append(observations, obs)
	}
	if len(observations) == 0 {
		return nil, ErrEmptySeries
	}

	sort.SliceStable(observations, func(i, j int) bool {
		return observations[i].Date.Before(observations[j].Date)
	})

	return &Series{Observations: observations}, nil
}

func buildObservation(rec Record) (Observation, error) {
	date, err := ParseDate(rec.Date)
	if err != nil {
		return Observation{}, &InvalidObservationError{Line: rec.Line, Field: "date", Value: rec.Date, Err: err}
	}

	odometer, err := ParseDecimal(rec.Odometer)
	if err != nil {
		return Observation{}, &InvalidObservationError{Line: rec.Line, Field: "odometer", Value: rec.Odometer, Err: err}
	}
	if odometer < 0 {
		return Observation{}, &InvalidObservationError{
			Line: rec.Line, Field: "odometer", Value: rec.Odometer,
			Err: errors.New("odometer reading must not be negative"),
		}
	}

	consumption, err := ParseDecimal(rec.Consumption)
	if err != nil {
		return Observation{}, &InvalidObservationError{Line: rec.Line, Field: "consumption", Value: rec.Consumption, Err: err}
	}

	return Observation{
		Date:        date,
		Odometer:    odometer,
		Consumption: consumption,
		Extra:       ExtraFuel(rec.Note),
		Line:        rec.Line,
	}, nil
}

// ExtraFuel extracts the extra-fuel amount from the leading number of a note.
// Notes without a leading number yield a missing Optional, never zero.
func ExtraFuel(note string) Optional {
	m := extraFuelPattern.FindStringSubmatch(note)
	if m == nil {
		return Optional{}
	}
	v, err := strconv.ParseFloat(strings.Replace(m[1], ",", ".", 1), 64)
	if err != nil {
		return Optional{}
	}
	return Some(v)
}

// ParseDate parses the date column against the supported layouts.
func ParseDate(value string) (time.Time, error) {
	v := strings.TrimSpace(value)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unsupported date format %q", value)
}

// ParseDecimal parses a decimal number accepting either dot or comma as the
// decimal separator and tolerating thousands separators: "1234.5", "5,6" and
// "1,234.5" all parse. When both separators appear, the one further right is
// the decimal point. Non-finite values are rejected; observations carry real
// measurements only.
func ParseDecimal(value string) (float64, error) {
	v := strings.TrimSpace(value)
	if v == "" {
		return 0, errors.New("empty value")
	}

	lastDot := strings.LastIndexByte(v, '.')
	lastComma := strings.LastIndexByte(v, ',')
	switch {
	case lastDot >= 0 && lastComma >= 0:
		if lastComma > lastDot {
			v = strings.ReplaceAll(v, ".", "")
			v = strings.Replace(v, ",", ".", 1)
		} else {
			v = strings.ReplaceAll(v, ",", "")
		}
	case lastComma >= 0:
		if strings.Count(v, ",") == 1 {
			v = strings.Replace(v, ",", ".", 1)
		} else {
			v = strings.ReplaceAll(v, ",", "")
		}
	}

	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("non-finite value %q", value)
	}
	return f, nil
}
