package pipeline

import (
	"context"

	"github.com/matzehuels/procflow/pkg/errors"
	"github.com/matzehuels/procflow/pkg/layout"
	"github.com/matzehuels/procflow/pkg/render"
)

// Render generates output artifacts for d in the requested formats.
// SVG is drawn once and shared by the formats converted from it.
func Render(ctx context.Context, d *layout.Diagram, formats []string) (map[string][]byte, error) {
	artifacts := make(map[string][]byte, len(formats))

	var svg []byte
	svgOnce := func() []byte {
		if svg == nil {
			svg = render.RenderSVG(d)
		}
		return svg
	}

	for _, format := range formats {
		var data []byte
		var err error

		switch format {
		case FormatSVG:
			data = svgOnce()
		case FormatDOT:
			data = []byte(render.ToDOT(d))
		case FormatGraphviz:
			data, err = render.RenderDOT(ctx, render.ToDOT(d))
		case FormatPNG:
			data, err = render.ToPNG(ctx, svgOnce(), DefaultPNGScale)
		case FormatPDF:
			data, err = render.ToPDF(ctx, svgOnce())
		case FormatJSON:
			data, err = layout.Marshal(d)
		default:
			return nil, errors.New(errors.ErrCodeUnsupported, "unsupported format: %s", format)
		}

		if err != nil {
			if errors.GetCode(err) != "" {
				return nil, err
			}
			return nil, errors.Wrap(errors.ErrCodeRenderFailed, err, "render %s", format)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}
