package cli

import (
	"embed"
	"fmt"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/phindler/fpdviz/pkg/fpb"
)

//go:embed examples/*.fpb
var exampleFS embed.FS

// examplesCommand creates the examples command for browsing bundled
// documents. Without arguments it opens an interactive picker; with a name
// it prints that document.
func (c *CLI) examplesCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "examples [name]",
		Short: "Browse bundled example documents",
		Long: `Browse the FPB example documents bundled with fpdviz.

Without arguments an interactive picker opens; the selected document is
printed to stdout (or written with --output) so it can be piped straight
into parse or render:

  fpdviz examples machining | fpdviz render -f svg -o shaft.svg -

With a name argument the named example is printed directly.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				return c.printExample(args[0], output)
			}
			return c.pickExample(output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (stdout if empty)")

	return cmd
}

// loadExamples reads and parses every bundled document, sorted by name.
func loadExamples() ([]docEntry, error) {
	entries, err := exampleFS.ReadDir("examples")
	if err != nil {
		return nil, fmt.Errorf("read examples: %w", err)
	}

	docs := make([]docEntry, 0, len(entries))
	for _, entry := range entries {
		data, err := exampleFS.ReadFile("examples/" + entry.Name())
		if err != nil {
			return nil, fmt.Errorf("read example %s: %w", entry.Name(), err)
		}
		source := string(data)
		m := fpb.Parse(source)
		docs = append(docs, docEntry{
			Name:     strings.TrimSuffix(entry.Name(), ".fpb"),
			Title:    m.Title,
			Elements: m.ElementCount(),
			Source:   source,
		})
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].Name < docs[j].Name })
	return docs, nil
}

func (c *CLI) printExample(name, output string) error {
	docs, err := loadExamples()
	if err != nil {
		return err
	}
	for _, doc := range docs {
		if doc.Name == name {
			return writeExample(doc, output)
		}
	}

	names := make([]string, len(docs))
	for i, doc := range docs {
		names[i] = doc.Name
	}
	return fmt.Errorf("unknown example: %s (available: %s)", name, strings.Join(names, ", "))
}

func (c *CLI) pickExample(output string) error {
	docs, err := loadExamples()
	if err != nil {
		return err
	}

	program := tea.NewProgram(NewDocListModel(docs))
	final, err := program.Run()
	if err != nil {
		return fmt.Errorf("run picker: %w", err)
	}

	model, ok := final.(DocListModel)
	if !ok || model.Selected == nil {
		return nil // picker dismissed
	}
	return writeExample(*model.Selected, output)
}

func writeExample(doc docEntry, output string) error {
	out, err := openOutput(output)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := fmt.Fprint(out, doc.Source); err != nil {
		return fmt.Errorf("write example: %w", err)
	}
	if output != "" {
		printSuccess("Wrote %s", doc.Name)
		printFile(output)
	}
	return nil
}
