package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	modelio "github.com/phindler/fpdviz/pkg/io"
	"github.com/phindler/fpdviz/pkg/pipeline"
)

// layoutCommand creates the layout command for computing diagram geometry.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output  string
		noCache bool
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "layout [file]",
		Short: "Compute the diagram layout for an FPB document",
		Long: `Compute the diagram layout for an FPB document.

The layout command parses the document and computes element positions,
system boundaries, and connection routes. The output is a diagram JSON
document with absolute coordinates, suitable for custom renderers or for
inspecting the layout the render command would draw.

Results are cached locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runLayout(cmd.Context(), args[0], opts, output, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.layout.json)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "bypass cache")

	cmd.Flags().Float64Var(&opts.Padding, "padding", 0, "outer padding in pixels (default 40)")
	cmd.Flags().Float64Var(&opts.HGap, "hgap", 0, "horizontal gap between elements (default 40)")
	cmd.Flags().Float64Var(&opts.VGap, "vgap", 0, "vertical gap between layers (default 80)")
	cmd.Flags().Float64Var(&opts.BoundaryPadding, "boundary-padding", 0, "padding inside system boundaries (default 50)")
	cmd.Flags().Float64Var(&opts.ResourceOffsetX, "resource-offset", 0, "horizontal offset for technical resources (default 40)")

	return cmd
}

func (c *CLI) runLayout(ctx context.Context, input string, opts pipeline.Options, output string, noCache bool) error {
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

	m, err := runner.Parse(ctx, opts)
	if err != nil {
		return err
	}

	spinner := newSpinnerWithContext(ctx, "Computing layout...")
	spinner.Start()

	diagram, cacheHit, err := runner.ComputeLayoutWithCacheInfo(ctx, m, opts)
	if err != nil {
		spinner.StopWithError("Layout failed")
		return fmt.Errorf("compute layout: %w", err)
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	outputPath := output
	if outputPath == "" {
		outputPath = basePath("", input) + ".layout.json"
	}

	out, err := openOutput(outputPath)
	if err != nil {
		return err
	}
	defer out.Close()

	if err := modelio.WriteDiagram(diagram, out); err != nil {
		return err
	}

	printSuccess("Layout complete")
	printFile(outputPath)
	printStats(len(diagram.Elements), len(diagram.Connections), cacheHit)
	printNewline()
	printNextStep("Render", "fpdviz render "+input)

	return nil
}
