package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/teranos/cuebit/am"
	"github.com/teranos/cuebit/db"
	"github.com/teranos/cuebit/display"
	"github.com/teranos/cuebit/errors"
	"github.com/teranos/cuebit/sym"
)

func newDbCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "db",
		Short: sym.DB + " Manage the cuebit database",
		Long: sym.DB + ` db — Manage the cuebit database

Every command migrates the database on open; migrate does only that and
reports the schema versions applied.

Examples:
  cuebit db migrate
  cuebit db migrate --db /tmp/prompts.db`,
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "migrate",
		Short: "Create or upgrade the database schema",
		Args:  cobra.NoArgs,
		RunE:  runDbMigrate,
	})
	return cmd
}

func runDbMigrate(cmd *cobra.Command, args []string) error {
	cfg, err := am.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	conn, err := openDatabase(cmd, cfg)
	if err != nil {
		return err
	}
	defer conn.Close()

	versions, err := db.MigrationVersions()
	if err != nil {
		return errors.Wrap(err, "failed to list migrations")
	}

	path := databasePath(cmd, cfg)
	if display.ShouldOutputJSON(cmd) {
		return display.OutputJSON(cmd.OutOrStdout(), map[string]interface{}{
			"path":       path,
			"migrations": versions,
		})
	}

	w := cmd.OutOrStdout()
	display.Success(w, "Database %s is up to date", path)
	for _, v := range versions {
		fmt.Fprintf(w, "  %s\n", v)
	}
	return nil
}
