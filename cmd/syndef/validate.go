package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/xeipuuv/gojsonschema"

	"github.com/synkit/syndef/internal/astdef/spec"
)

// Exit codes of the validate command: a clean "document is invalid"
// verdict exits 1, operational failures exit 2.
const (
	exitCodeInvalidDocument   = 1
	exitCodeValidationFailure = 2
)

func validateCmd() *cobra.Command {
	var schemaPath string

	var colorize, nocolor bool

	cmd := &cobra.Command{
		Use:   "validate <file.json|->",
		Short: "Validate a schema JSON file against the canonical schema",
		Long: `Validate an extracted schema JSON file against the canonical JSON Schema.

Examples:
  syndef validate syn.json
  syndef validate - < syn.json
  syndef validate --schema custom-schema.json syn.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			code := runValidate(args[0], schemaPath, colorize, nocolor, cmd.OutOrStdout(), cmd.ErrOrStderr())
			if code != 0 {
				os.Exit(code)
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&schemaPath, "schema", "", "Path to a JSON Schema file (default: embedded)")
	cmd.Flags().BoolVar(&colorize, "color", false, "Force colored output")
	cmd.Flags().BoolVar(&nocolor, "no-color", false, "Disable colored output")

	return cmd
}

// runValidate performs the validation and returns the process exit
// code; the command wrapper is the only place that exits.
func runValidate(inputPath, schemaPath string, colorize, nocolor bool, stdout, stderr io.Writer) int {
	// Color setup.
	if nocolor {
		color.NoColor = true //nolint:reassign // intentional override of library global
	} else if colorize {
		color.NoColor = false //nolint:reassign // intentional override of library global
	}

	inputReader, inputLabel, cleanup, err := openInput(inputPath)
	if err != nil {
		fmt.Fprintf(stderr, "Failed to open input: %v\n", err)

		return exitCodeValidationFailure
	}
	defer cleanup()

	var inputData any

	dec := json.NewDecoder(inputReader)
	dec.UseNumber()

	if decodeErr := dec.Decode(&inputData); decodeErr != nil {
		fmt.Fprintf(stderr, "Invalid JSON in %s: %v\n", inputLabel, decodeErr)

		return exitCodeValidationFailure
	}

	schemaLoader, err := loadSchema(schemaPath)
	if err != nil {
		fmt.Fprintf(stderr, "Failed to load schema: %v\n", err)

		return exitCodeValidationFailure
	}

	inputLoader := gojsonschema.NewGoLoader(inputData)

	result, err := gojsonschema.Validate(schemaLoader, inputLoader)
	if err != nil {
		fmt.Fprintf(stderr, "Schema validation error: %v\n", err)

		return exitCodeValidationFailure
	}

	if result.Valid() {
		color.New(color.FgGreen).Fprintf(stdout, "Schema document is valid (%s)\n", inputLabel)

		return 0
	}

	color.New(color.FgRed).Fprintf(stdout, "Schema validation failed (%s)\n", inputLabel)
	fmt.Fprintf(stdout, "\nErrors:\n")

	for _, verr := range result.Errors() {
		color.New(color.FgRed).Fprintf(stdout, "  - %s: %s\n", verr.Field(), verr.Description())
	}

	return exitCodeInvalidDocument
}

//nolint:nonamedreturns // named returns needed for gocritic unnamedResult
func openInput(inputPath string) (inputReader io.Reader, inputLabel string, cleanup func(), err error) {
	if inputPath == "-" {
		return os.Stdin, "stdin", func() {}, nil
	}

	inputFile, err := os.Open(inputPath)
	if err != nil {
		return nil, "", nil, err
	}

	return inputFile, inputPath, func() { _ = inputFile.Close() }, nil
}

func loadSchema(schemaPath string) (gojsonschema.JSONLoader, error) {
	if schemaPath == "" {
		schemaBytes, err := spec.SchemaFS.ReadFile("syndef-schema.json")
		if err != nil {
			return nil, fmt.Errorf("read embedded schema: %w", err)
		}

		return gojsonschema.NewBytesLoader(schemaBytes), nil
	}

	schemaBytes, err := os.ReadFile(schemaPath)
	if err != nil {
		return nil, err
	}

	return gojsonschema.NewBytesLoader(schemaBytes), nil
}
