// Package fillup implements the FuelPulse extraction pipeline: it pulls the
// fillup log table out of a multi-section document, validates and orders it
// into a date-sorted observation series, and summarizes it.
//
// # Pipeline
//
// A fillup export is a single text document holding several tables, each
// introduced by a marker line of the form "## <Name>". The pipeline runs the
// stages in order:
//
//  1. FindSection locates the log section's line range (locator).
//  2. ParseRecords binds the section's CSV rows to the Record schema,
//     skipping and reporting malformed rows (parser).
//  3. FilterFull keeps full fillups with a computable consumption (filter).
//  4. BuildSeries validates dates and numbers, extracts the optional
//     extra-fuel amount from the note text, and sorts by date (builder).
//  5. ComputeInsights summarizes the resulting series.
//
// The smoothed trend lines over a Series are computed by the smoothing
// package, which consumes the derived columns by position.
//
// # Usage Example
//
//	doc, err := fillup.ReadDocument("fillups.csv", file)
//	if err != nil {
//	    return err
//	}
//	sec, err := fillup.FindSection(doc, "Log")
//	if err != nil {
//	    return err
//	}
//	records, skipped, err := fillup.ParseRecords(doc, sec, fillup.DefaultColumns())
//	if err != nil {
//	    return err
//	}
//	series, err := fillup.BuildSeries(fillup.FilterFull(records))
//	if err != nil {
//	    return err
//	}
//
// # Error Handling
//
// Failures are split by repairability. A missing section (ErrSectionNotFound),
// an empty result (ErrEmptySeries) and a corrupt required field
// (InvalidObservationError) are fatal and abort the extraction; a single
// unparsable row (MalformedRecordError) is skipped and reported so the rest of
// the log still loads. All of them are plain inspectable error values; policy
// (exit codes, HTTP status) belongs to the caller.
//
// # Data Requirements
//
// The log section's header must name the date, odometer, consumption and
// full-flag columns; a note column is optional. Dates parse against a fixed
// set of layouts, numbers accept dot or comma decimal separators, and the
// extra-fuel amount is read from a leading number in the note ("4.8 liters
// extra"). Missing extra fuel is represented by Optional, a first-class
// missing state, never zero or NaN.
package fillup
