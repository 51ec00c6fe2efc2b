package io

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/matzehuels/procflow/pkg/errors"
	"github.com/matzehuels/procflow/pkg/layout"
	"github.com/matzehuels/procflow/pkg/process"
)

// Document is a decoded process document.
type Document struct {
	Rows   []process.Row  `json:"rows"`
	Config layout.Config  `json:"config"`
	Limits process.Limits `json:"limits"`
}

// Panels splits the document rows into trellis panels using its limits.
func (d *Document) Panels() ([]process.Panel, error) {
	return process.Split(d.Rows, d.Limits)
}

type rawDocument struct {
	Rows   []map[string]any `json:"rows"`
	Config layout.Config    `json:"config"`
	Limits process.Limits   `json:"limits"`
}

// ReadJSON decodes a JSON process document from r.
//
// The input is validated against the document schema first. Validation
// failures are reported with ErrCodeInvalidFormat and name the offending
// location in the document.
//
// ReadJSON does not close r.
func ReadJSON(r io.Reader) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}

	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode document")
	}
	schema, err := documentSchema()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "compile document schema")
	}
	if err := schema.Validate(inst); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "invalid document")
	}

	var raw rawDocument
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode document")
	}

	doc := &Document{
		Rows:   make([]process.Row, len(raw.Rows)),
		Config: raw.Config,
		Limits: raw.Limits,
	}
	for i, m := range raw.Rows {
		row := make(process.Row, len(m))
		for k, v := range m {
			row[k] = cell(v)
		}
		doc.Rows[i] = row
	}
	return doc, nil
}

// cell normalizes a JSON row value to its string form.
func cell(v any) string {
	switch v := v.(type) {
	case nil:
		return ""
	case string:
		return v
	case json.Number:
		return v.String()
	case bool:
		return strconv.FormatBool(v)
	default:
		return fmt.Sprint(v)
	}
}

// ReadCSV decodes a CSV process document from r. The first record is the
// header. Records shorter than the header leave the missing columns empty.
//
// ReadCSV does not close r.
func ReadCSV(r io.Reader) (*Document, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "empty CSV document")
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "read CSV header")
	}
	for i := range header {
		header[i] = strings.TrimSpace(strings.TrimPrefix(header[i], "\ufeff"))
	}

	doc := &Document{}
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "read CSV row %d", len(doc.Rows)+1)
		}
		row := make(process.Row, len(header))
		for i, col := range header {
			if i < len(rec) {
				row[col] = rec[i]
			}
		}
		doc.Rows = append(doc.Rows, row)
	}
	return doc, nil
}

// Import reads the document at path. Files ending in .csv are read as CSV;
// everything else as JSON.
func Import(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	if strings.EqualFold(filepath.Ext(path), ".csv") {
		return ReadCSV(f)
	}
	return ReadJSON(f)
}
