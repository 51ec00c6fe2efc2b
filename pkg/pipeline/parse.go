package pipeline

import (
	"context"

	pio "github.com/matzehuels/procflow/pkg/io"
	"github.com/matzehuels/procflow/pkg/process"
)

// Parse loads the input document. A preloaded Document takes precedence
// over Input. Non-zero limit options override the document's limits.
func Parse(ctx context.Context, opts Options) (*pio.Document, error) {
	doc := opts.Document
	if doc == nil {
		var err error
		if doc, err = pio.Import(opts.Input); err != nil {
			return nil, err
		}
	}
	if opts.RowLimit > 0 {
		doc.Limits.RowLimit = opts.RowLimit
	}
	if opts.MaxTrellisCount > 0 {
		doc.Limits.MaxTrellisCount = opts.MaxTrellisCount
	}
	return doc, nil
}

// Split builds one model per trellis panel of doc.
func Split(doc *pio.Document) ([]process.Panel, error) {
	return doc.Panels()
}
