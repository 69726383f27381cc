package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/phindler/fpdviz/pkg/pipeline"
)

// renderCommand creates the render command for generating visual artifacts.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		formatsStr string
		output     string
		noCache    bool
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Render an FPB document to SVG, PDF, PNG, XML, or DOT",
		Long: `Render an FPB document to one or more output formats.

The render command runs the full pipeline: parse, layout, render. Output
file names are derived from the input file (process.fpb becomes
process.svg) unless --output is given. With multiple formats, one file is
written per format.

PDF and PNG output require rsvg-convert (librsvg) on the PATH.

Results are cached locally for faster subsequent runs.

Examples:
  fpdviz render process.fpb
  fpdviz render process.fpb -f svg,pdf,xml
  fpdviz render process.fpb -f png --scale 3 -o out/diagram.png`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Formats = parseFormats(formatsStr)
			return c.runRender(cmd.Context(), args[0], opts, output, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), pdf, png, xml, fpb, dot (comma-separated)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "bypass cache")
	cmd.Flags().BoolVar(&opts.Strict, "strict", false, "fail when the document has errors")
	cmd.Flags().BoolVar(&opts.Detailed, "detailed", false, "include element ids in DOT labels")
	cmd.Flags().Float64Var(&opts.Scale, "scale", 0, "PNG scale factor (default 2)")

	cmd.Flags().Float64Var(&opts.Padding, "padding", 0, "outer padding in pixels (default 40)")
	cmd.Flags().Float64Var(&opts.HGap, "hgap", 0, "horizontal gap between elements (default 40)")
	cmd.Flags().Float64Var(&opts.VGap, "vgap", 0, "vertical gap between layers (default 80)")
	cmd.Flags().Float64Var(&opts.BoundaryPadding, "boundary-padding", 0, "padding inside system boundaries (default 50)")
	cmd.Flags().Float64Var(&opts.ResourceOffsetX, "resource-offset", 0, "horizontal offset for technical resources (default 40)")

	return cmd
}

func (c *CLI) runRender(ctx context.Context, input string, opts pipeline.Options, output string, noCache bool) error {
	source, err := readSource(input)
	if err != nil {
		return err
	}
	opts.Source = source
	opts.Logger = c.Logger

	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	spinner := newSpinnerWithContext(ctx, "Rendering...")
	spinner.Start()

	result, err := runner.Execute(ctx, opts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return err
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	for _, docErr := range result.Model.Errors {
		printWarning("%s", docErr)
	}

	base := basePath(output, input)
	for _, format := range opts.Formats {
		path := base + "." + format
		if err := os.WriteFile(path, result.Artifacts[format], 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
	}

	printSuccess("Render complete")
	for _, format := range opts.Formats {
		printFile(base + "." + format)
	}
	printStats(result.Stats.ElementCount,
		len(result.Model.Flows)+len(result.Model.Usages),
		result.CacheInfo.RenderHit)

	return nil
}
