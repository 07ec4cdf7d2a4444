package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/synkit/syndef/internal/astdef"
	"github.com/synkit/syndef/internal/extract"
)

// ExtractCommand holds the flags of the extract command.
type ExtractCommand struct {
	output     string
	configPath string
	summary    bool
	quiet      bool
}

func extractCmd() *cobra.Command {
	ec := &ExtractCommand{}

	cmd := &cobra.Command{
		Use:   "extract [crate-dir]",
		Short: "Crawl a crate and write its node schema",
		Long: `Crawl a Rust syntax-tree crate's module graph, recognize its node
declarations, and write the assembled schema as JSON.

Examples:
  syndef extract ../syn -o syn.json
  syndef extract --summary ../syn`,
		Args: cobra.MaximumNArgs(1),
		RunE: ec.run,
	}

	cmd.Flags().StringVarP(&ec.output, "output", "o", "", "Output file path (default: stdout)")
	cmd.Flags().StringVar(&ec.configPath, "config", "", "Path to a crate layout config file")
	cmd.Flags().BoolVar(&ec.summary, "summary", false, "Print a per-node summary table to stderr")
	cmd.Flags().BoolVarP(&ec.quiet, "quiet", "q", false, "Suppress progress output")

	return cmd
}

func (ec *ExtractCommand) run(cmd *cobra.Command, args []string) error {
	crateDir := "."
	if len(args) > 0 {
		crateDir = args[0]
	}

	progressWriter := cmd.ErrOrStderr()

	cfg, err := extract.LoadConfig(ec.configPath)
	if err != nil {
		return err
	}

	ec.progressf(progressWriter, "extracting schema crate=%s", crateDir)

	schema, err := extract.Extract(crateDir, cfg)
	if err != nil {
		return err
	}

	ec.progressf(progressWriter, "extracted nodes=%d tokens=%d version=%s",
		len(schema.Nodes), len(schema.Tokens), schema.Version)

	if ec.summary {
		printSummary(progressWriter, schema)
	}

	return ec.write(cmd.OutOrStdout(), schema)
}

func (ec *ExtractCommand) write(stdout io.Writer, schema *astdef.Schema) error {
	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode schema: %w", err)
	}

	// Self-check the artifact before it leaves the tool.
	if err := astdef.ValidateJSON(data); err != nil {
		return err
	}

	data = append(data, '\n')

	if ec.output == "" {
		_, err = stdout.Write(data)

		return err
	}

	const outputPerm = 0o644

	err = os.WriteFile(ec.output, data, outputPerm)
	if err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	return nil
}

func (ec *ExtractCommand) progressf(writer io.Writer, format string, args ...any) {
	if ec.quiet {
		return
	}

	_, _ = fmt.Fprintf(writer, "progress: "+format+"\n", args...)
}

func printSummary(writer io.Writer, schema *astdef.Schema) {
	tbl := table.NewWriter()
	tbl.SetOutputMirror(writer)
	tbl.SetStyle(table.StyleLight)
	tbl.AppendHeader(table.Row{"ident", "shape", "members", "features", "exhaustive"})

	for _, node := range schema.Nodes {
		tbl.AppendRow(table.Row{
			node.Ident,
			nodeShape(node),
			nodeMembers(node),
			featureLabel(node.Features),
			node.Exhaustive,
		})
	}

	tbl.Render()
}

func nodeShape(node astdef.Node) string {
	switch {
	case node.Data.Private:
		return "private"
	case node.Data.Variants != nil:
		return "enum"
	default:
		return "struct"
	}
}

func nodeMembers(node astdef.Node) int {
	if node.Data.Variants != nil {
		return len(node.Data.Variants)
	}

	return len(node.Data.Fields)
}

func featureLabel(features astdef.Features) string {
	if len(features.Any) == 0 {
		return "-"
	}

	label := features.Any[0]
	for _, name := range features.Any[1:] {
		label += "|" + name
	}

	return label
}
