// Package commands implements the cuebit command line.
package commands

import (
	"fmt"
	"sort"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/teranos/cuebit/am"
	"github.com/teranos/cuebit/logger"
	"github.com/teranos/cuebit/sym"
)

// NewRootCmd builds the cuebit command tree.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "cuebit",
		Short: "cuebit - versioned prompt registry",
		Long: `cuebit - A registry of versioned prompt templates.

Every edit creates a new version in a (project, task) lineage. Aliases point
at a single live version, and deleted versions can be restored.

Available commands:
  prompt   - Register, version, alias, search and render prompts
  projects - List projects and their prompts
  export   - Write the registry as JSON or YAML
  import   - Load an export
  stats    - Show registry statistics
  am       - Show configuration ("I am")
  db       - Database maintenance

Examples:
  cuebit prompt register --project support --task reply --template "Reply to {ticket}"
  cuebit prompt update <id> --template "Reply politely to {ticket}"
  cuebit prompt alias <id> reply-prod
  cuebit prompt render reply-prod --var ticket="Refund please"
  cuebit export --format yaml -o prompts.yaml` + glyphLegend(),
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: setup,
	}

	rootCmd.PersistentFlags().Bool("json", false, "Output results as JSON")
	rootCmd.PersistentFlags().CountP("verbose", "v", "Increase log verbosity (-v info, -vv debug)")
	rootCmd.PersistentFlags().String("db", "", "Database path (overrides database.path)")

	rootCmd.AddCommand(
		newPromptCmd(),
		newProjectsCmd(),
		newExportCmd(),
		newImportCmd(),
		newStatsCmd(),
		newAmCmd(),
		newDbCmd(),
		newVersionCmd(),
	)
	return rootCmd
}

// setup loads .env, configuration and the global logger before any command runs.
func setup(cmd *cobra.Command, args []string) error {
	// A missing .env is normal
	_ = godotenv.Load()

	cfg, err := am.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	verbosity, _ := cmd.Flags().GetCount("verbose")
	if verbosity > 0 {
		err = logger.Initialize(cfg.Log.JSON, verbosity)
	} else {
		verbosity = logger.LevelToVerbosity(cfg.Log.Level)
		err = logger.InitializeFromLevel(cfg.Log.JSON, cfg.Log.Level)
	}
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	logger.Logger.Debugw("Configuration loaded",
		logger.FieldSymbol, commandSymbol(cmd),
		"command", cmd.CommandPath(),
		"config", cfg.String(),
		"verbosity", logger.LevelName(verbosity),
	)
	return nil
}

// commandSymbol returns the glyph of the nearest glyph-bearing command in
// cmd's path (prompt search is ⊨, prompt get is ▤), or sym.AM.
func commandSymbol(cmd *cobra.Command) string {
	for c := cmd; c != nil && c.HasParent(); c = c.Parent() {
		if glyph, ok := sym.CommandToSymbol[c.Name()]; ok {
			return glyph
		}
	}
	return sym.AM
}

func glyphLegend() string {
	commands := make([]string, 0, len(sym.CommandDescriptions))
	for name := range sym.CommandDescriptions {
		commands = append(commands, name)
	}
	sort.Strings(commands)

	var b strings.Builder
	b.WriteString("\n\nGlyphs:\n")
	for _, name := range commands {
		fmt.Fprintf(&b, "  %s %-7s %s\n", sym.CommandToSymbol[name], name, sym.CommandDescriptions[name])
	}
	return strings.TrimRight(b.String(), "\n")
}
