// Package dataprocessing loads fillup documents from their supported sources
// and hands them to the fillup package as plain line-oriented documents.
// It consolidates CSV files, Excel workbooks, and Google Sheets ranges behind
// a single loader so the rest of the pipeline never cares where a document
// came from.
//
// # Architecture
//
// The package is organized into three main components:
//
// 1. Loader: detects the source format and dispatches to the right reader
// 2. Workbook: converts xlsx sheets into CSV-shaped document lines
// 3. Sheets: fetches a spreadsheet range through the Google Sheets API
//
// # Usage
//
// Basic loading example:
//
//	loader := dataprocessing.NewLoader(logger, nil)
//	doc, err := loader.Load(ctx, "data/fillups.csv", dataprocessing.FormatCSV)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Workbook ingestion:
//
//	doc, err := dataprocessing.ReadWorkbook("data/fillups.xlsx", "")
//
// Google Sheets ingestion:
//
//	client, err := dataprocessing.NewSheetsClient(ctx, cfg.Sheets, cfg.GetCredentialsFile())
//	doc, err := client.Fetch(ctx, cfg.Sheets.SpreadsheetID)
//
// # Data Flow
//
// The typical data flow through this package:
//
//	CSV / xlsx / Sheets → Loader → fillup.Document → section extraction → series
//
// Workbook and Sheets rows are re-serialized as CSV lines so that section
// markers and table rows behave exactly as they do in a plain CSV document.
//
// # Error Handling
//
// Loaders return AppError values typed by concern: parsing failures for
// malformed sources, network failures for Sheets fetches, storage failures
// for unreadable files.
package dataprocessing
