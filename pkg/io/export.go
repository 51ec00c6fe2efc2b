package io

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/matzehuels/procflow/pkg/process"
)

// WriteJSON encodes a document as indented JSON and writes it to w.
// The output can be re-imported with [ReadJSON].
func WriteJSON(doc *Document, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// WriteCSV writes the document rows as CSV with a header of every known
// column. Configuration and unknown columns are not written.
func WriteCSV(doc *Document, w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(process.Columns); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	rec := make([]string, len(process.Columns))
	for _, r := range doc.Rows {
		for i, c := range process.Columns {
			rec[i] = r[c]
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// Export writes a document to path, as CSV when the path ends in .csv and
// as JSON otherwise.
func Export(doc *Document, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	if strings.EqualFold(filepath.Ext(path), ".csv") {
		return WriteCSV(doc, f)
	}
	return WriteJSON(doc, f)
}
