package commands

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/teranos/cuebit/am"
	"github.com/teranos/cuebit/display"
	"github.com/teranos/cuebit/errors"
	"github.com/teranos/cuebit/sym"
)

func newAmCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "am",
		Short: sym.AM + " Show cuebit configuration",
		Long: sym.AM + ` am — Show cuebit configuration ("I am")

Configuration sources (in order of precedence):
1. Command line flags
2. Environment variables (CUEBIT_* prefix)
3. Project config (./am.toml, searched up the directory tree)
4. User config (~/.cuebit/am.toml)
5. System config (/etc/cuebit/config.toml)
6. Default values

Examples:
  cuebit am show                  # Show current configuration
  cuebit am show --format json    # Show configuration in JSON format
  cuebit am get database.path     # Get a single value
  cuebit am where                 # Show where each setting came from`,
	}

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		Args:  cobra.NoArgs,
		RunE:  runAmShow,
	}
	showCmd.Flags().String("format", "toml", "Output format: toml, json, yaml")

	cmd.AddCommand(
		showCmd,
		&cobra.Command{
			Use:   "get <key>",
			Short: "Get a configuration value using dot notation (e.g. database.path)",
			Args:  cobra.ExactArgs(1),
			RunE:  runAmGet,
		},
		&cobra.Command{
			Use:   "validate",
			Short: "Validate current configuration",
			Args:  cobra.NoArgs,
			RunE:  runAmValidate,
		},
		&cobra.Command{
			Use:   "where",
			Short: "Show which source supplied each setting",
			Args:  cobra.NoArgs,
			RunE:  runAmWhere,
		},
	)
	return cmd
}

func runAmShow(cmd *cobra.Command, args []string) error {
	cfg, err := am.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	format, _ := cmd.Flags().GetString("format")
	if display.ShouldOutputJSON(cmd) {
		format = "json"
	}

	w := cmd.OutOrStdout()
	switch format {
	case "json":
		return display.OutputJSON(w, cfg)
	case "yaml":
		data, err := yaml.Marshal(cfg)
		if err != nil {
			return errors.Wrap(err, "failed to marshal config to YAML")
		}
		fmt.Fprintf(w, "# cuebit configuration\n%s", data)
	case "toml":
		data, err := am.Render(cfg)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "# cuebit configuration\n%s", data)
	default:
		return errors.NewValidationError("unsupported format: %s (supported: toml, json, yaml)", format)
	}
	return nil
}

func runAmGet(cmd *cobra.Command, args []string) error {
	v := am.GetViper()
	if !v.IsSet(args[0]) {
		return errors.NewNotFoundError("configuration key %q not found", args[0])
	}
	fmt.Fprintln(cmd.OutOrStdout(), v.Get(args[0]))
	return nil
}

func runAmValidate(cmd *cobra.Command, args []string) error {
	cfg, err := am.Load()
	if err != nil {
		return errors.WrapValidation(err, "configuration validation failed")
	}
	if err := cfg.Validate(); err != nil {
		return errors.WrapValidation(err, "configuration validation failed")
	}
	display.Success(cmd.OutOrStdout(), "Configuration is valid")
	return nil
}

func runAmWhere(cmd *cobra.Command, args []string) error {
	intro := am.GetConfigIntrospection()
	if display.ShouldOutputJSON(cmd) {
		return display.OutputJSON(cmd.OutOrStdout(), intro)
	}

	w := cmd.OutOrStdout()
	fmt.Fprintln(w, "Configuration cascade (later overrides earlier):")
	fmt.Fprintln(w, "  1. [DEFAULT]  Built-in defaults")
	fmt.Fprintln(w, "  2. [SYSTEM]   /etc/cuebit/config.toml")
	fmt.Fprintln(w, "  3. [USER]     ~/.cuebit/am.toml")
	fmt.Fprintln(w, "  4. [PROJECT]  ./am.toml (searches up directories)")
	fmt.Fprintf(w, "  5. [ENV]      %s_* environment variables\n\n", am.EnvPrefix)

	rows := [][]string{{"KEY", "VALUE", "SOURCE", "FROM"}}
	for _, s := range intro.Settings {
		rows = append(rows, []string{s.Key, fmt.Sprint(s.Value), string(s.Source), s.SourcePath})
	}
	if err := display.RenderTable(w, rows); err != nil {
		return err
	}

	counts := intro.CountBySource()
	sources := make([]string, 0, len(counts))
	for source := range counts {
		sources = append(sources, string(source))
	}
	sort.Strings(sources)
	for _, source := range sources {
		fmt.Fprintf(w, "%s: %d\n", source, counts[am.ConfigSource(source)])
	}
	return nil
}
