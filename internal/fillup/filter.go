package fillup

import "strings"

// truthyFlags are the accepted spellings of a set full-fillup flag,
// case-insensitive after trimming.
var truthyFlags = map[string]bool{
	"1":    true,
	"true": true,
	"yes":  true,
	"y":    true,
	"x":    true,
}

// IsFull reports whether the record is a full fillup carrying a consumption
// value.
func IsFull(r Record) bool {
	return truthyFlags[strings.ToLower(strings.TrimSpace(r.Full))] &&
		strings.TrimSpace(r.Consumption) != ""
}

// FilterFull keeps the records that represent complete observations: the full
// flag must be truthy and the consumption field non-empty. Partial fillups are
// dropped because their fuel is folded into the next full entry, and the first
// chronological record never has a computable consumption. The input slice is
// not mutated; filtering an already-filtered slice returns the same records.
func FilterFull(records []Record) []Record {
	kept := make([]Record, 0, len(records))
	for _, r := range records {
		if IsFull(r) {
			kept = append(kept, r)
		}
	}
	return kept
}
