package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"saslint/internal/config"
	"saslint/internal/rules"
)

var rulesCmd = &cobra.Command{
	Use:   "rules [flags] [dir]",
	Short: "List the lint rules and whether they are active",
	Long: `List every rule with its shape, its default state, its state under the
configuration governing [dir] (or --config) and the severity it reports with.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRules,
}

func init() {
	rulesCmd.Flags().String("config", "", "configuration file (default: nearest .saslint.toml)")
	rulesCmd.Flags().String("format", "pretty", "output format (pretty|json)")
}

type ruleRow struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Default     bool   `json:"default"`
	Active      bool   `json:"active"`
	Severity    string `json:"severity"`
	Description string `json:"description"`
}

func runRules(cmd *cobra.Command, args []string) error {
	dir := "."
	if len(args) == 1 {
		dir = args[0]
	}
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	cfg, path, err := loadConfig(cmd, dir)
	if err != nil {
		return err
	}
	rows := collectRuleRows(cfg)

	out := cmd.OutOrStdout()
	switch format {
	case "pretty":
		colored, err := useColor(cmd, os.Stdout)
		if err != nil {
			return err
		}
		quiet, err := cmd.Root().PersistentFlags().GetBool("quiet")
		if err != nil {
			return fmt.Errorf("failed to get quiet flag: %w", err)
		}
		if !quiet {
			if path == "" {
				fmt.Fprintln(out, "configuration: defaults")
			} else {
				fmt.Fprintf(out, "configuration: %s\n", path)
			}
		}
		renderRuleRows(out, rows, colored)
		return nil
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(rows)
	default:
		return fmt.Errorf("unsupported format %q (must be pretty or json)", format)
	}
}

func collectRuleRows(cfg *config.Config) []ruleRow {
	active := cfg.EnabledRules()
	defaults := make(map[string]bool, len(config.Switches))
	for _, sw := range config.Switches {
		defaults[sw.Name] = sw.DefaultEnabled
	}
	all := rules.All()
	rows := make([]ruleRow, 0, len(all))
	for _, r := range all {
		rows = append(rows, ruleRow{
			Name:        r.Name(),
			Type:        r.Type().String(),
			Default:     defaults[r.Name()],
			Active:      active[r.Name()],
			Severity:    cfg.SeverityFor(r.Name(), r.DefaultSeverity()).String(),
			Description: r.Description(),
		})
	}
	return rows
}

func renderRuleRows(out io.Writer, rows []ruleRow, colored bool) {
	on := color.New(color.FgGreen)
	off := color.New(color.Faint)
	if colored {
		on.EnableColor()
		off.EnableColor()
	} else {
		on.DisableColor()
		off.DisableColor()
	}
	for _, row := range rows {
		state := on.Sprint(fmt.Sprintf("%-3s", "on"))
		if !row.Active {
			state = off.Sprint(fmt.Sprintf("%-3s", "off"))
		}
		def := "off"
		if row.Default {
			def = "on"
		}
		fmt.Fprintf(out, "%s %-24s %-5s %-8s default=%-3s %s\n",
			state, row.Name, row.Type, row.Severity, def, row.Description)
	}
}
