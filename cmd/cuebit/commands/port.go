package commands

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/teranos/cuebit/am"
	"github.com/teranos/cuebit/cue/portable"
	"github.com/teranos/cuebit/display"
	"github.com/teranos/cuebit/errors"
	"github.com/teranos/cuebit/logger"
	"github.com/teranos/cuebit/sym"
)

func newExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: sym.Port + " Write prompts and their examples as JSON or YAML",
		Long: sym.Port + ` export — Write prompts and their examples as JSON or YAML

Deleted prompts are included so an import restores the full history.
The format defaults to the -o extension, then registry.default_export_format.

Examples:
  cuebit export > prompts.json
  cuebit export --project content -o content.yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			output, _ := cmd.Flags().GetString("output")

			s, err := openSession(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			format, err := portFormat(cmd, s.cfg, output)
			if err != nil {
				return err
			}

			data, err := s.reg.Export(commandContext(cmd, ""), projectFlag(cmd), format)
			if err != nil {
				return err
			}

			if output == "" || output == "-" {
				_, err := cmd.OutOrStdout().Write(data)
				return err
			}
			if err := os.WriteFile(output, data, am.DefaultFilePermissions); err != nil {
				return errors.Wrapf(err, "failed to write %s", output)
			}
			logger.Logger.Infow("Export written", logger.FieldSymbol, sym.Port, logger.FieldPath, output, logger.FieldFormat, format)
			display.Success(cmd.ErrOrStderr(), "Exported to %s", output)
			return nil
		},
	}
	cmd.Flags().String("project", "", "Only export this project (empty string for unassigned)")
	cmd.Flags().String("format", "", "json or yaml")
	cmd.Flags().StringP("output", "o", "", "Write to a file instead of stdout")
	return cmd
}

func newImportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: sym.Port + " Load prompts from an export",
		Long: sym.Port + ` import — Load prompts from an export ("-" reads stdin)

The whole payload is validated first and imported in one transaction. Existing
prompt ids are replaced unless --skip-existing is given.

Examples:
  cuebit import prompts.json
  cuebit import --skip-existing --format yaml - < prompts.yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			skipExisting, _ := cmd.Flags().GetBool("skip-existing")

			data, err := readInput(cmd, args[0])
			if err != nil {
				return err
			}

			s, err := openSession(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			path := args[0]
			if path == "-" {
				path = ""
			}
			format, err := portFormat(cmd, s.cfg, path)
			if err != nil {
				return err
			}

			result, err := s.reg.Import(commandContext(cmd, ""), data, format, skipExisting)
			if err != nil {
				return err
			}
			if display.ShouldOutputJSON(cmd) {
				return display.OutputJSON(cmd.OutOrStdout(), result)
			}
			display.Success(cmd.OutOrStdout(), "Imported %d of %d prompts (%d skipped)",
				result.Imported, result.Total, result.Skipped)
			return nil
		},
	}
	cmd.Flags().String("format", "", "json or yaml (default from the file extension)")
	cmd.Flags().Bool("skip-existing", false, "Keep prompts whose id already exists")
	return cmd
}

// portFormat picks --format, then the file extension, then the configured default.
func portFormat(cmd *cobra.Command, cfg *am.Config, path string) (portable.Format, error) {
	if format, _ := cmd.Flags().GetString("format"); format != "" {
		return portable.ParseFormat(format)
	}
	if path != "" && path != "-" {
		return portable.FormatFromPath(path), nil
	}
	return portable.ParseFormat(cfg.GetExportFormat())
}
