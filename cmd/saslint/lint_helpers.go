package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"saslint/internal/config"
	"saslint/internal/diag"
	"saslint/internal/diagfmt"
	"saslint/internal/driver"
	"saslint/internal/rules"
)

// loadConfig reads --config when given, otherwise discovers .saslint.toml
// by walking up from target.
func loadConfig(cmd *cobra.Command, target string) (*config.Config, string, error) {
	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, "", fmt.Errorf("failed to get config flag: %w", err)
	}
	if configPath != "" {
		cfg, err := config.Load(configPath)
		if err != nil {
			return nil, configPath, err
		}
		return cfg, configPath, nil
	}
	return config.Discover(target)
}

// lintTarget lists the files of target and lints them, with the progress
// view when the ui mode asks for it.
func lintTarget(ctx context.Context, target string, opts driver.Options, ui uiMode) (*driver.DirResult, error) {
	files, err := driver.ListFiles(ctx, target, opts.Config.IgnoreList)
	if err != nil {
		return nil, fmt.Errorf("failed to list files: %w", err)
	}
	baseDir := target
	if len(files) == 1 && files[0] == target {
		baseDir = ""
	}
	if shouldUseTUI(ui, len(files)) {
		return runLintWithUI(ctx, "saslint "+target, baseDir, files, opts)
	}
	return driver.LintFiles(ctx, baseDir, files, opts)
}

// sarifRules describes every known rule for the SARIF tool section.
func sarifRules() []diagfmt.SarifRule {
	all := rules.All()
	out := make([]diagfmt.SarifRule, 0, len(all))
	for _, r := range all {
		out = append(out, diagfmt.SarifRule{ID: r.Name(), Description: r.Description()})
	}
	return out
}

// dropWarnings removes warnings from bag.
func dropWarnings(bag *diag.Bag) {
	bag.Filter(func(d diag.Diagnostic) bool { return d.Severity != diag.SevWarning })
}

var errSilentExit = errors.New("lint problems found")

// silentExit makes cobra exit with status 1 without printing anything:
// the diagnostics are the output.
func silentExit(cmd *cobra.Command) error {
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true
	return errSilentExit
}
