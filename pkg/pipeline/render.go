package pipeline

import (
	"context"
	"time"

	apperrors "github.com/phindler/fpdviz/pkg/errors"
	"github.com/phindler/fpdviz/pkg/export"
	"github.com/phindler/fpdviz/pkg/layout"
	"github.com/phindler/fpdviz/pkg/model"
	"github.com/phindler/fpdviz/pkg/observability"
	"github.com/phindler/fpdviz/pkg/render"
)

// renderFormats produces every requested format. The SVG is built at most
// once and shared by the PDF and PNG conversions.
func renderFormats(ctx context.Context, m *model.Model, diagram *layout.Diagram, opts Options) (map[string][]byte, error) {
	artifacts := make(map[string][]byte, len(opts.Formats))

	var svg []byte
	buildSVG := func() []byte {
		if svg == nil {
			var svgOpts []render.SVGOption
			if m.Title != "" {
				svgOpts = append(svgOpts, render.WithTitle(m.Title))
			}
			svg = render.SVG(diagram, svgOpts...)
		}
		return svg
	}

	for _, format := range opts.Formats {
		start := time.Now()
		observability.Pipeline().OnRenderStart(ctx, format)

		var data []byte
		var err error
		switch format {
		case FormatFPB:
			data = []byte(export.Text(m))
		case FormatXML:
			data, err = export.XML(m)
		case FormatSVG:
			data = buildSVG()
		case FormatPDF:
			data, err = render.ToPDF(buildSVG())
		case FormatPNG:
			data, err = render.ToPNG(buildSVG(), opts.Scale)
		case FormatDOT:
			data = []byte(render.ToDOT(m, render.DOTOptions{Detailed: opts.Detailed}))
		default:
			err = apperrors.New(apperrors.ErrCodeInvalidFormat, "unsupported format: %q", format)
		}

		observability.Pipeline().OnRenderComplete(ctx, format, len(data), time.Since(start), err)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.ErrCodeRender, err, "render %s", format)
		}
		artifacts[format] = data
	}

	return artifacts, nil
}
