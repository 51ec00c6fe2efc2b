package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	pio "github.com/matzehuels/procflow/pkg/io"
	"github.com/matzehuels/procflow/pkg/pipeline"
)

// parseOpts holds the command-line flags for the parse command.
type parseOpts struct {
	output          string // normalized document path; .csv writes CSV, anything else JSON
	rowLimit        int    // maximum rows per document
	maxTrellisCount int    // maximum trellis panels per document
}

// parseCommand creates the parse command, which validates a document and
// reports its trellis panels. With -o it also writes the document back out,
// which converts between CSV and JSON.
func (c *CLI) parseCommand() *cobra.Command {
	var opts parseOpts

	cmd := &cobra.Command{
		Use:   "parse [document]",
		Short: "Validate a process document and list its panels",
		Long: `Validate a process document and list its panels.

The document may be JSON (validated against the document schema) or CSV
(first record is the header). Rows are grouped into trellis panels by their
"Trellis By" column; each panel becomes one diagram.

Use -o to write the normalized document, e.g. to convert CSV to JSON.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runParse(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "write the normalized document (.json or .csv)")
	cmd.Flags().IntVar(&opts.rowLimit, "row-limit", 0, "maximum number of rows (default 1000)")
	cmd.Flags().IntVar(&opts.maxTrellisCount, "max-trellis", 0, "maximum number of trellis panels (default 10)")

	return cmd
}

func (c *CLI) runParse(ctx context.Context, input string, opts parseOpts) error {
	runner, err := c.newRunner(ctx, true)
	if err != nil {
		return err
	}
	defer runner.Close()

	doc, panels, err := runner.Parse(ctx, pipeline.Options{
		Input:           input,
		RowLimit:        opts.rowLimit,
		MaxTrellisCount: opts.maxTrellisCount,
		Logger:          c.Logger,
	})
	if err != nil {
		return fmt.Errorf("parse %s: %w", input, err)
	}

	printSuccess("Parsed %d rows", len(doc.Rows))
	for _, p := range panels {
		m := p.Model
		line := fmt.Sprintf("%d activities, %d tasks, %d transitions",
			len(m.Activities()), len(m.Tasks()), len(m.Transitions()))
		if p.Skipped > 0 {
			line += fmt.Sprintf(", %d rows skipped", p.Skipped)
		}
		printKeyValue(panelLabel(p.Key), line)
	}

	if opts.output == "" {
		return nil
	}
	if err := pio.Export(doc, opts.output); err != nil {
		return fmt.Errorf("write %s: %w", opts.output, err)
	}
	printFile(opts.output)
	return nil
}

// panelLabel names a trellis panel for display.
func panelLabel(key string) string {
	if key == "" {
		return "(default)"
	}
	return key
}
