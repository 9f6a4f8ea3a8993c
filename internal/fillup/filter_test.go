package fillup

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsFull(t *testing.T) {
	tests := []struct {
		name   string
		record Record
		want   bool
	}{
		{name: "numeric flag", record: Record{Full: "1", Consumption: "5.6"}, want: true},
		{name: "true flag", record: Record{Full: "true", Consumption: "5.6"}, want: true},
		{name: "yes flag", record: Record{Full: "yes", Consumption: "5.6"}, want: true},
		{name: "short yes flag", record: Record{Full: "y", Consumption: "5.6"}, want: true},
		{name: "checkmark flag", record: Record{Full: "x", Consumption: "5.6"}, want: true},
		{name: "mixed case", record: Record{Full: "TRUE", Consumption: "5.6"}, want: true},
		{name: "padded flag", record: Record{Full: " 1 ", Consumption: "5.6"}, want: true},
		{name: "falsy zero", record: Record{Full: "0", Consumption: "5.6"}, want: false},
		{name: "falsy no", record: Record{Full: "no", Consumption: "5.6"}, want: false},
		{name: "empty flag", record: Record{Full: "", Consumption: "5.6"}, want: false},
		{name: "missing consumption", record: Record{Full: "1", Consumption: ""}, want: false},
		{name: "whitespace consumption", record: Record{Full: "1", Consumption: "  "}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsFull(tt.record))
		})
	}
}

func TestFilterFull(t *testing.T) {
	records := []Record{
		{Date: "2024-01-01", Odometer: "1000", Consumption: "", Full: "1", Line: 2},
		{Date: "2024-01-05", Odometer: "1200", Consumption: "5.6", Full: "1", Line: 3},
		{Date: "2024-01-12", Odometer: "1500", Consumption: "5.9", Full: "0", Line: 4},
		{Date: "2024-01-19", Odometer: "1800", Consumption: "6.1", Full: "yes", Line: 5},
	}

	kept := FilterFull(records)

	require.Len(t, kept, 2)
	assert.Equal(t, 3, kept[0].Line, "first record has no computable consumption")
	assert.Equal(t, 5, kept[1].Line, "partial fillup is excluded even with valid fields")
	assert.Len(t, records, 4, "input must not be mutated")
}

func TestFilterFull_Idempotent(t *testing.T) {
	records := []Record{
		{Consumption: "5.6", Full: "1"},
		{Consumption: "", Full: "1"},
		{Consumption: "5.9", Full: "no"},
	}

	once := FilterFull(records)
	twice := FilterFull(once)

	assert.Equal(t, once, twice)
}

func TestFilterFull_Empty(t *testing.T) {
	assert.Empty(t, FilterFull(nil))
	assert.Empty(t, FilterFull([]Record{}))
}
