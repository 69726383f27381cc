package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	apperrors "github.com/phindler/fpdviz/pkg/errors"
	modelio "github.com/phindler/fpdviz/pkg/io"
	"github.com/phindler/fpdviz/pkg/pipeline"
)

// parseCommand creates the parse command for turning FPB text into a model.
func (c *CLI) parseCommand() *cobra.Command {
	var (
		output  string
		noCache bool
		refresh bool
		strict  bool
	)

	cmd := &cobra.Command{
		Use:   "parse [file]",
		Short: "Parse an FPB document into a process model",
		Long: `Parse an FPB document into a process model.

Reads FPB text from a file (or stdin when the argument is "-") and writes
the parsed model as JSON. Validation problems such as unknown references or
duplicate identifiers do not abort parsing; they are collected in the
model's errors list and reported as warnings.

Results are cached locally for faster subsequent runs.

Examples:
  fpdviz parse process.fpb
  fpdviz parse process.fpb -o model.json
  cat process.fpb | fpdviz parse -`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runParse(cmd.Context(), args[0], output, noCache, refresh, strict)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (stdout if empty)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "bypass cache")
	cmd.Flags().BoolVar(&strict, "strict", false, "fail when the document has errors")

	return cmd
}

func (c *CLI) runParse(ctx context.Context, input, output string, noCache, refresh, strict bool) error {
	source, err := readSource(input)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	prog := newProgress(c.Logger)
	m, cacheHit, err := runner.ParseWithCacheInfo(ctx, pipeline.Options{
		Source:  source,
		Refresh: refresh,
		Logger:  c.Logger,
	})
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Parsed %d elements with %d connections",
		m.ElementCount(), len(m.Flows)+len(m.Usages)))

	for _, docErr := range m.Errors {
		printWarning("%s", docErr)
	}
	if strict && len(m.Errors) > 0 {
		return apperrors.New(apperrors.ErrCodeParse, "document has %d errors", len(m.Errors))
	}

	out, err := openOutput(output)
	if err != nil {
		return err
	}
	defer out.Close()

	if err := modelio.WriteModel(m, out); err != nil {
		return err
	}

	if output != "" {
		printSuccess("Parse complete")
		printFile(output)
		printStats(m.ElementCount(), len(m.Flows)+len(m.Usages), cacheHit)
		printNewline()
		printNextStep("Render", "fpdviz render "+input)
	}
	return nil
}
