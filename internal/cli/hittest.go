package cli

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/spf13/cobra"

	"github.com/matzehuels/procflow/pkg/errors"
	"github.com/matzehuels/procflow/pkg/geometry"
	"github.com/matzehuels/procflow/pkg/layout"
	"github.com/matzehuels/procflow/pkg/layout/route"
	"github.com/matzehuels/procflow/pkg/process"
)

// hitRecord is one hit-test result with the fields a --where filter sees.
type hitRecord struct {
	ID       string        `json:"id"`
	Kind     string        `json:"kind"`
	Strategy string        `json:"strategy,omitempty"`
	Box      geometry.Rect `json:"box"`
}

func (h hitRecord) env() map[string]any {
	return map[string]any{
		"id":       h.ID,
		"kind":     h.Kind,
		"strategy": h.Strategy,
		"x":        h.Box.X,
		"y":        h.Box.Y,
		"width":    h.Box.Width,
		"height":   h.Box.Height,
	}
}

// hittestCommand creates the hittest command.
func (c *CLI) hittestCommand() *cobra.Command {
	var (
		rectStr string
		where   string
		asJSON  bool
	)

	cmd := &cobra.Command{
		Use:   "hittest [layout.json]",
		Short: "List diagram elements inside a selection rectangle",
		Long: `List diagram elements inside a selection rectangle.

Nodes are listed before edges, each in diagram order. Edges that could not be
routed are never hit.

--where filters hits with an expression over kind, id, strategy, x, y, width
and height, for example:

  procflow hittest diagram.layout.json --rect 0,0,400,300 --where 'kind == "transition" && strategy == "S"'`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sel, err := parseRect(rectStr)
			if err != nil {
				return err
			}
			filter, err := compileFilter(where)
			if err != nil {
				return err
			}
			d, err := layout.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("load layout %s: %w", args[0], err)
			}

			hits, err := selectHits(d, sel, filter)
			if err != nil {
				return err
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(hits)
			}
			if len(hits) == 0 {
				printInfo("No elements in selection")
				return nil
			}
			for _, h := range hits {
				detail := h.Kind
				if h.Strategy != "" {
					detail += " " + renderStrategy(route.Strategy(h.Strategy))
				}
				printKeyValue(h.ID, detail)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&rectStr, "rect", "", "selection rectangle as x,y,width,height")
	cmd.Flags().StringVar(&where, "where", "", "filter expression over kind, id, strategy, x, y, width, height")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print hits as JSON")
	_ = cmd.MarkFlagRequired("rect")

	return cmd
}

// parseRect parses "x,y,width,height".
func parseRect(s string) (geometry.Rect, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return geometry.Rect{}, errors.New(errors.ErrCodeInvalidInput, "rect must be x,y,width,height: %q", s)
	}
	var v [4]float64
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return geometry.Rect{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "rect component %q", p)
		}
		v[i] = f
	}
	if v[2] < 0 || v[3] < 0 {
		return geometry.Rect{}, errors.New(errors.ErrCodeInvalidInput, "rect size must not be negative: %q", s)
	}
	return geometry.Rect{X: v[0], Y: v[1], Width: v[2], Height: v[3]}, nil
}

// compileFilter compiles a --where expression. An empty expression yields
// a nil program, which keeps every hit.
func compileFilter(where string) (*vm.Program, error) {
	if strings.TrimSpace(where) == "" {
		return nil, nil
	}
	prg, err := expr.Compile(where, expr.Env(hitRecord{}.env()), expr.AsBool())
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "compile --where %q", where)
	}
	return prg, nil
}

// selectHits runs the hit test and applies filter.
func selectHits(d *layout.Diagram, sel geometry.Rect, filter *vm.Program) ([]hitRecord, error) {
	hits := []hitRecord{}
	for _, h := range d.HitTest(sel) {
		rec := hitRecord{ID: h.ID, Kind: string(h.Kind)}
		if h.Kind == process.KindTransition {
			if e, ok := d.Edge(h.ID); ok {
				rec.Strategy = string(e.Strategy)
				rec.Box = e.Box
			}
		} else if n, ok := d.Node(h.Kind, h.ID); ok {
			rec.Box = n.Box
		}

		if filter != nil {
			out, err := expr.Run(filter, rec.env())
			if err != nil {
				return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "evaluate --where for %s", h.ID)
			}
			if keep, _ := out.(bool); !keep {
				continue
			}
		}
		hits = append(hits, rec)
	}
	return hits, nil
}
