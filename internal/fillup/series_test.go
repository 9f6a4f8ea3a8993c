package fillup

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(value string) time.Time {
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		panic(err)
	}
	return t
}

func TestBuildSeries(t *testing.T) {
	records := []Record{
		{Date: "2024-01-19", Odometer: "1800", Consumption: "6.1", Full: "1", Note: "4.8 liters extra", Line: 4},
		{Date: "2024-01-05", Odometer: "1200", Consumption: "5.6", Full: "1", Note: "see notes", Line: 3},
	}

	series, err := BuildSeries(records)
	require.NoError(t, err)
	require.Equal(t, 2, series.Len())

	first := series.Observations[0]
	assert.Equal(t, date("2024-01-05"), first.Date)
	assert.Equal(t, 1200.0, first.Odometer)
	assert.Equal(t, 5.6, first.Consumption)
	assert.False(t, first.Extra.Valid, "note without leading number carries no extra fuel")
	assert.Equal(t, 3, first.Line)

	second := series.Observations[1]
	assert.Equal(t, date("2024-01-19"), second.Date)
	require.True(t, second.Extra.Valid)
	assert.Equal(t, 4.8, second.Extra.Value)
}

func TestBuildSeries_StableSortOnEqualDates(t *testing.T) {
	records := []Record{
		{Date: "2024-01-05", Odometer: "1250", Consumption: "5.8", Full: "1", Line: 4},
		{Date: "2024-01-05", Odometer: "1200", Consumption: "5.6", Full: "1", Line: 3},
		{Date: "2024-01-01", Odometer: "1000", Consumption: "5.1", Full: "1", Line: 2},
	}

	series, err := BuildSeries(records)
	require.NoError(t, err)
	require.Equal(t, 3, series.Len())

	assert.Equal(t, 2, series.Observations[0].Line)
	assert.Equal(t, 4, series.Observations[1].Line, "equal dates keep input order")
	assert.Equal(t, 3, series.Observations[2].Line)
}

func TestBuildSeries_InvalidField(t *testing.T) {
	tests := []struct {
		name      string
		record    Record
		wantField string
	}{
		{
			name:      "unparsable date",
			record:    Record{Date: "soon", Odometer: "1200", Consumption: "5.6", Line: 7},
			wantField: "date",
		},
		{
			name:      "unparsable odometer",
			record:    Record{Date: "2024-01-05", Odometer: "12oo", Consumption: "5.6", Line: 7},
			wantField: "odometer",
		},
		{
			name:      "negative odometer",
			record:    Record{Date: "2024-01-05", Odometer: "-5", Consumption: "5.6", Line: 7},
			wantField: "odometer",
		},
		{
			name:      "unparsable consumption",
			record:    Record{Date: "2024-01-05", Odometer: "1200", Consumption: "n/a", Line: 7},
			wantField: "consumption",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := BuildSeries([]Record{tt.record})
			require.Error(t, err)

			var invalid *InvalidObservationError
			require.ErrorAs(t, err, &invalid, "required-field failures abort the build")
			assert.Equal(t, tt.wantField, invalid.Field)
			assert.Equal(t, 7, invalid.Line)
		})
	}
}

func TestBuildSeries_Empty(t *testing.T) {
	_, err := BuildSeries(nil)
	require.ErrorIs(t, err, ErrEmptySeries)
}

func TestBuildSeries_DecimalVariants(t *testing.T) {
	records := []Record{
		{Date: "05.01.2024", Odometer: "1.200,5", Consumption: "5,6", Full: "1", Line: 3},
	}

	series, err := BuildSeries(records)
	require.NoError(t, err)
	assert.Equal(t, 1200.5, series.Observations[0].Odometer)
	assert.Equal(t, 5.6, series.Observations[0].Consumption)
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  time.Time
		ok    bool
	}{
		{name: "iso", value: "2024-01-05", want: date("2024-01-05"), ok: true},
		{name: "dotted european", value: "05.01.2024", want: date("2024-01-05"), ok: true},
		{name: "slash us", value: "01/05/2024", want: date("2024-01-05"), ok: true},
		{name: "slash iso", value: "2024/01/05", want: date("2024-01-05"), ok: true},
		{name: "padded", value: " 2024-01-05 ", want: date("2024-01-05"), ok: true},
		{name: "garbage", value: "soon", ok: false},
		{name: "empty", value: "", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDate(tt.value)
			if !tt.ok {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseDecimal(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  float64
		ok    bool
	}{
		{name: "plain", value: "1234.5", want: 1234.5, ok: true},
		{name: "decimal comma", value: "5,6", want: 5.6, ok: true},
		{name: "thousands dot decimal comma", value: "1.234,5", want: 1234.5, ok: true},
		{name: "thousands comma decimal dot", value: "1,234.5", want: 1234.5, ok: true},
		{name: "grouping only", value: "1,234,567", want: 1234567, ok: true},
		{name: "integer", value: "1200", want: 1200, ok: true},
		{name: "negative", value: "-3.5", want: -3.5, ok: true},
		{name: "padded", value: " 5.6 ", want: 5.6, ok: true},
		{name: "empty", value: "", ok: false},
		{name: "garbage", value: "12oo", ok: false},
		{name: "nan rejected", value: "NaN", ok: false},
		{name: "inf rejected", value: "+Inf", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDecimal(tt.value)
			if !tt.ok {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtraFuel(t *testing.T) {
	tests := []struct {
		name string
		note string
		want Optional
	}{
		{name: "leading number", note: "4.8 liters extra", want: Some(4.8)},
		{name: "leading integer", note: "5 liters", want: Some(5)},
		{name: "signed", note: "+2.5 l reserve canister", want: Some(2.5)},
		{name: "negative", note: "-1.2 l correction", want: Some(-1.2)},
		{name: "decimal comma", note: "4,8 Liter", want: Some(4.8)},
		{name: "leading whitespace", note: "  3.1 l", want: Some(3.1)},
		{name: "no number", note: "see notes", want: Optional{}},
		{name: "number not leading", note: "about 4.8 liters", want: Optional{}},
		{name: "number without trailing space", note: "4.8", want: Optional{}},
		{name: "empty note", note: "", want: Optional{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtraFuel(tt.note))
		})
	}
}

func TestOptional_Float(t *testing.T) {
	assert.Equal(t, 4.8, Some(4.8).Float())
	assert.True(t, math.IsNaN(Optional{}.Float()), "missing materializes as NaN only here")
}

func TestOptional_JSON(t *testing.T) {
	data, err := json.Marshal(struct {
		Present Optional `json:"present"`
		Missing Optional `json:"missing"`
	}{Present: Some(4.8), Missing: Optional{}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"present":4.8,"missing":null}`, string(data))

	var decoded struct {
		Present Optional `json:"present"`
		Missing Optional `json:"missing"`
	}
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, Some(4.8), decoded.Present)
	assert.False(t, decoded.Missing.Valid)
}

func TestSeries_Columns(t *testing.T) {
	series := &Series{Observations: []Observation{
		{Date: date("2024-01-05"), Odometer: 1200, Consumption: 5.6, Extra: Some(4.8)},
		{Date: date("2024-01-19"), Odometer: 1800, Consumption: 6.1},
	}}

	assert.Equal(t, []time.Time{date("2024-01-05"), date("2024-01-19")}, series.Dates())
	assert.Equal(t, []float64{1200, 1800}, series.Odometers())
	assert.Equal(t, []float64{5.6, 6.1}, series.Consumptions())
	assert.Equal(t, []Optional{Some(4.8), {}}, series.Extras())
}
