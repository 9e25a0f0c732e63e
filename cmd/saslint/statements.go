package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"saslint/internal/config"
	"saslint/internal/diagfmt"
	"saslint/internal/driver"
	"saslint/internal/lexer"
	"saslint/internal/macro"
	"saslint/internal/source"
)

var statementsCmd = &cobra.Command{
	Use:   "statements [flags] <file.sas>",
	Short: "Print the statement stream of a SAS file",
	Long: `Print the cleaned statements the scanner produces for a file, with their
positions, the %macro definitions found and the scanner state at end of file.`,
	Args: cobra.ExactArgs(1),
	RunE: runStatements,
}

func init() {
	statementsCmd.Flags().String("format", "pretty", "output format (pretty|json)")
	statementsCmd.Flags().Bool("keep-strings", false, "keep string literal contents in statement text")
	statementsCmd.Flags().Int("width", 0, "truncate statement text to this display width (0=unlimited)")
	statementsCmd.Flags().Bool("fullpath", false, "emit absolute file paths in output")
}

func runStatements(cmd *cobra.Command, args []string) error {
	filePath := args[0]

	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	keepStrings, err := cmd.Flags().GetBool("keep-strings")
	if err != nil {
		return fmt.Errorf("failed to get keep-strings flag: %w", err)
	}
	width, err := cmd.Flags().GetInt("width")
	if err != nil {
		return fmt.Errorf("failed to get width flag: %w", err)
	}
	fullPath, err := cmd.Flags().GetBool("fullpath")
	if err != nil {
		return fmt.Errorf("failed to get fullpath flag: %w", err)
	}
	colored, err := useColor(cmd, os.Stdout)
	if err != nil {
		return err
	}

	pathMode := diagfmt.PathModeAuto
	if fullPath {
		pathMode = diagfmt.PathModeAbsolute
	}

	fs, id, scan, analysis, err := scanForDump(cmd, filePath, keepStrings)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	switch format {
	case "pretty":
		diagfmt.Statements(out, fs, id, scan, analysis, diagfmt.StatementsOpts{
			Color:    colored,
			PathMode: pathMode,
			Width:    width,
		})
		return nil
	case "json":
		return diagfmt.StatementsJSON(out, fs, id, scan, analysis, diagfmt.StatementsOpts{PathMode: pathMode})
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// scanForDump runs the lint pass to get statements and macro definitions.
// With keepStrings the file is only scanned: string contents may hide
// %macro keywords, so no macro analysis is attempted.
func scanForDump(cmd *cobra.Command, path string, keepStrings bool) (*source.FileSet, source.FileID, lexer.Result, *macro.Analysis, error) {
	if keepStrings {
		fs := source.NewFileSet()
		id, err := fs.Load(path)
		if err != nil {
			return nil, 0, lexer.Result{}, nil, fmt.Errorf("failed to load file: %w", err)
		}
		return fs, id, lexer.CollectResult(fs.Get(id), lexer.Options{KeepStrings: true}), nil, nil
	}

	cfg, _, err := config.Discover(path)
	if err != nil {
		return nil, 0, lexer.Result{}, nil, err
	}
	fs, res := driver.LintFile(cmd.Context(), path, driver.Options{
		Config:         cfg,
		MaxDiagnostics: 1,
		KeepStatements: true,
	})
	if res.Bag.HasErrors() && res.Analysis == nil {
		// Файл не прочитан: ошибка загрузки лежит в Bag
		items := res.Bag.Items()
		return nil, 0, lexer.Result{}, nil, errors.New(items[0].Message)
	}
	return fs, res.FileID, res.Scan, res.Analysis, nil
}
