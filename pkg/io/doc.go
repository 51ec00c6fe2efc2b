// Package io reads and writes process documents: the tabular rows a diagram
// is built from, plus an optional layout configuration.
//
// # JSON Format
//
// A JSON document has a required "rows" array and optional "config" and
// "limits" objects:
//
//	{
//	  "rows": [
//	    {"Object Type": "Activity", "Activity ID": "A1", "Position X": 0, "Position Y": 0},
//	    {"Object Type": "Activity", "Activity ID": "A2", "Position X": 200, "Position Y": 0},
//	    {"Object Type": "Transition", "Initial Activity ID": "A1", "Terminal Activity ID": "A2"}
//	  ],
//	  "config": {"mode": "schematic", "transpose": true},
//	  "limits": {"row_limit": 1000}
//	}
//
// Row keys are the column names listed in [process.Columns]. Values may be
// strings, numbers, booleans or null; they are normalized to strings before
// the rows are parsed. Documents are validated against an embedded JSON
// Schema before decoding, so shape errors are reported with the offending
// location.
//
// # CSV Format
//
// A CSV document starts with a header row naming the columns. Unknown
// columns are kept on the row but ignored by the parser. CSV documents carry
// no configuration.
//
// # Import
//
// Use [Import] to read a file by path (the extension picks the format), or
// [ReadJSON] and [ReadCSV] to read from any io.Reader:
//
//	doc, err := io.Import("process.json")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	panels, err := doc.Panels()
//
// # Export
//
// [WriteJSON] and [WriteCSV] write a document back out. Rows round-trip
// through either format; configuration round-trips through JSON only.
package io
