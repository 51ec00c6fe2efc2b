package process

import (
	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/matzehuels/procflow/pkg/errors"
)

// Ingestion limits.
const (
	DefaultRowLimit        = 1000
	DefaultMaxTrellisCount = 10
)

// Limits bounds the size of an ingested document.
type Limits struct {
	RowLimit        int `json:"row_limit,omitempty" toml:"row_limit"`
	MaxTrellisCount int `json:"max_trellis_count,omitempty" toml:"max_trellis_count"`
}

// WithDefaults fills zero fields with the default limits.
func (l Limits) WithDefaults() Limits {
	if l.RowLimit <= 0 {
		l.RowLimit = DefaultRowLimit
	}
	if l.MaxTrellisCount <= 0 {
		l.MaxTrellisCount = DefaultMaxTrellisCount
	}
	return l
}

// Panel is one trellis panel: the model built from the rows sharing a
// "Trellis By" value.
type Panel struct {
	Key     string
	Model   *Model
	Skipped int
}

// Split groups rows by their "Trellis By" value, in order of first
// appearance, and builds one model per group. Rows without the column share
// the panel with key "".
func Split(rows []Row, limits Limits) ([]Panel, error) {
	limits = limits.WithDefaults()
	if len(rows) > limits.RowLimit {
		return nil, errors.New(errors.ErrCodeInvalidInput,
			"too many rows (rowCount: %d, limit: %d)", len(rows), limits.RowLimit)
	}

	panels := orderedmap.New[string, *Panel]()
	for _, r := range rows {
		key := r.get(ColTrellisBy)
		p, ok := panels.Get(key)
		if !ok {
			p = &Panel{Key: key, Model: NewModel()}
			panels.Set(key, p)
		}
		added, err := p.Model.AddRow(r)
		if err != nil {
			return nil, err
		}
		if !added {
			p.Skipped++
		}
	}

	if panels.Len() > limits.MaxTrellisCount {
		return nil, errors.New(errors.ErrCodeInvalidInput,
			"too many trellis panels (trellisCount: %d, limit: %d)", panels.Len(), limits.MaxTrellisCount)
	}

	out := make([]Panel, 0, panels.Len())
	for pair := panels.Oldest(); pair != nil; pair = pair.Next() {
		out = append(out, *pair.Value)
	}
	return out, nil
}
