package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"saslint/internal/diag"
	"saslint/internal/diagfmt"
	"saslint/internal/driver"
	"saslint/internal/trace"
	"saslint/internal/version"
)

var lintCmd = &cobra.Command{
	Use:   "lint [flags] <file.sas|directory>",
	Short: "Lint a SAS file or every .sas file in a directory",
	Long: `Lint runs the enabled line, path and file rules over a SAS source file or over
all *.sas files below a directory that are not excluded by ignoreList or .gitignore.
The command exits with status 1 when any error remains.`,
	Args: cobra.ExactArgs(1),
	RunE: runLint,
}

func init() {
	lintCmd.Flags().String("format", "pretty", "output format (pretty|short|json|sarif)")
	lintCmd.Flags().String("config", "", "configuration file (default: nearest .saslint.toml)")
	lintCmd.Flags().Int("jobs", 0, "max parallel workers for directory processing (0=auto)")
	lintCmd.Flags().Bool("no-warnings", false, "ignore warnings in diagnostics")
	lintCmd.Flags().Bool("warnings-as-errors", false, "treat warnings as errors")
	lintCmd.Flags().Bool("with-notes", false, "include diagnostic notes in output")
	lintCmd.Flags().Bool("suggest", false, "include fix suggestions in output")
	lintCmd.Flags().Bool("preview", false, "preview fix edits in output")
	lintCmd.Flags().Bool("fullpath", false, "emit absolute file paths in output")
	lintCmd.Flags().Bool("disk-cache", false, "reuse diagnostics of unchanged files across runs")
	lintCmd.Flags().String("ui", "auto", "progress view (auto|on|off)")
}

// lintFlags are the parsed flags of the lint command.
type lintFlags struct {
	format           string
	maxDiagnostics   int
	jobs             int
	showTimings      bool
	quiet            bool
	noWarnings       bool
	warningsAsErrors bool
	withNotes        bool
	suggest          bool
	preview          bool
	fullPath         bool
	diskCache        bool
	ui               uiMode
}

func readLintFlags(cmd *cobra.Command) (lintFlags, error) {
	var (
		fl  lintFlags
		err error
	)
	if fl.format, err = cmd.Flags().GetString("format"); err != nil {
		return fl, fmt.Errorf("failed to get format flag: %w", err)
	}
	switch fl.format {
	case "pretty", "short", "json", "sarif":
	default:
		return fl, fmt.Errorf("unknown format: %s", fl.format)
	}
	if fl.maxDiagnostics, err = cmd.Root().PersistentFlags().GetInt("max-diagnostics"); err != nil {
		return fl, fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	if fl.showTimings, err = cmd.Root().PersistentFlags().GetBool("timings"); err != nil {
		return fl, fmt.Errorf("failed to get timings flag: %w", err)
	}
	if fl.quiet, err = cmd.Root().PersistentFlags().GetBool("quiet"); err != nil {
		return fl, fmt.Errorf("failed to get quiet flag: %w", err)
	}
	if fl.jobs, err = cmd.Flags().GetInt("jobs"); err != nil {
		return fl, fmt.Errorf("failed to get jobs flag: %w", err)
	}
	if fl.noWarnings, err = cmd.Flags().GetBool("no-warnings"); err != nil {
		return fl, fmt.Errorf("failed to get no-warnings flag: %w", err)
	}
	if fl.warningsAsErrors, err = cmd.Flags().GetBool("warnings-as-errors"); err != nil {
		return fl, fmt.Errorf("failed to get warnings-as-errors flag: %w", err)
	}
	if fl.noWarnings && fl.warningsAsErrors {
		return fl, fmt.Errorf("no-warnings and warnings-as-errors flags cannot be used together")
	}
	if fl.withNotes, err = cmd.Flags().GetBool("with-notes"); err != nil {
		return fl, fmt.Errorf("failed to get with-notes flag: %w", err)
	}
	if fl.suggest, err = cmd.Flags().GetBool("suggest"); err != nil {
		return fl, fmt.Errorf("failed to get suggest flag: %w", err)
	}
	if fl.preview, err = cmd.Flags().GetBool("preview"); err != nil {
		return fl, fmt.Errorf("failed to get preview flag: %w", err)
	}
	if fl.fullPath, err = cmd.Flags().GetBool("fullpath"); err != nil {
		return fl, fmt.Errorf("failed to get fullpath flag: %w", err)
	}
	if fl.diskCache, err = cmd.Flags().GetBool("disk-cache"); err != nil {
		return fl, fmt.Errorf("failed to get disk-cache flag: %w", err)
	}
	uiValue, err := cmd.Flags().GetString("ui")
	if err != nil {
		return fl, fmt.Errorf("failed to get ui flag: %w", err)
	}
	if fl.ui, err = readUIMode(uiValue); err != nil {
		return fl, err
	}
	// Машиночитаемые форматы выводятся без прогресса
	if fl.format != "pretty" && fl.ui == uiModeAuto {
		fl.ui = uiModeOff
	}
	return fl, nil
}

// runLint executes the "lint" command: it loads the configuration governing
// the target, lints the file or directory, prints the report in the chosen
// format and fails silently with status 1 when errors remain.
func runLint(cmd *cobra.Command, args []string) error {
	target := args[0]

	fl, err := readLintFlags(cmd)
	if err != nil {
		return err
	}
	colored, err := useColor(cmd, os.Stdout)
	if err != nil {
		return err
	}

	// Ошибка конфигурации фатальна до сканирования файлов
	cfg, _, err := loadConfig(cmd, target)
	if err != nil {
		return err
	}

	opts := driver.Options{
		Config:         cfg,
		MaxDiagnostics: fl.maxDiagnostics,
		Jobs:           fl.jobs,
		EnableTimings:  fl.showTimings && fl.format == "json",
	}
	if fl.diskCache {
		cache, cacheErr := driver.OpenDiskCache("saslint")
		if cacheErr != nil {
			return fmt.Errorf("failed to open disk cache: %w", cacheErr)
		}
		opts.Cache = cache
	}

	cleanup, err := setupProfiling(cmd)
	if err != nil {
		return err
	}
	ctx, span := trace.Start(cmd.Context(), trace.ScopeDriver, "saslint lint")
	res, err := lintTarget(ctx, target, opts, fl.ui)
	cleanup()
	if err != nil {
		span.End(err.Error())
		return fmt.Errorf("lint failed: %w", err)
	}
	span.WithExtra("files", strconv.Itoa(len(res.Files)))
	defer span.End("")

	bag := res.Bag()
	if fl.noWarnings {
		dropWarnings(bag)
	}
	if err := writeReport(cmd, bag, res, fl, colored); err != nil {
		return err
	}

	if fl.showTimings {
		if err := printStageTimings(cmd.ErrOrStderr(), res.Timings(), len(res.Files)); err != nil {
			return err
		}
	}
	if fl.format == "pretty" && !fl.quiet {
		printSummary(cmd, bag, len(res.Files))
	}

	if bag.HasErrors() || (fl.warningsAsErrors && bag.HasWarnings()) {
		return silentExit(cmd)
	}
	return nil
}

func writeReport(cmd *cobra.Command, bag *diag.Bag, res *driver.DirResult, fl lintFlags, colored bool) error {
	out := cmd.OutOrStdout()
	pathMode := diagfmt.PathModeAuto
	if fl.fullPath {
		pathMode = diagfmt.PathModeAbsolute
	}
	showFixes := fl.suggest || fl.preview

	switch fl.format {
	case "pretty":
		diagfmt.Pretty(out, bag, res.FileSet, diagfmt.PrettyOpts{
			Color:       colored,
			Context:     1,
			PathMode:    pathMode,
			ShowNotes:   fl.withNotes,
			ShowFixes:   showFixes,
			ShowPreview: fl.preview,
		})
	case "short":
		output := diag.FormatShortDiagnostics(bag.Items(), res.FileSet, fl.withNotes, pathMode.String())
		if output != "" {
			fmt.Fprintln(out, output)
		}
	case "json":
		err := diagfmt.JSON(out, bag, res.FileSet, diagfmt.JSONOpts{
			IncludePositions: true,
			PathMode:         pathMode,
			IncludeNotes:     fl.withNotes,
			IncludeFixes:     showFixes,
			IncludePreviews:  fl.preview,
		})
		if err != nil {
			return fmt.Errorf("failed to format diagnostics: %w", err)
		}
	case "sarif":
		err := diagfmt.Sarif(out, bag, res.FileSet, diagfmt.SarifRunMeta{
			ToolName:    "saslint",
			ToolVersion: version.Version,
			Rules:       sarifRules(),
			PathMode:    pathMode,
		})
		if err != nil {
			return fmt.Errorf("failed to format diagnostics: %w", err)
		}
	}
	return nil
}

// printSummary writes "N problem(s) (E errors, W warnings) in F file(s)" to stderr.
func printSummary(cmd *cobra.Command, bag *diag.Bag, files int) {
	errs := bag.Count(diag.SevError)
	warns := bag.Count(diag.SevWarning)
	fmt.Fprintf(cmd.ErrOrStderr(), "%d problem(s) (%d errors, %d warnings) in %d file(s)\n",
		errs+warns, errs, warns, files)
}
