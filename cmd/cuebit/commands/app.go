package commands

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/teranos/cuebit/am"
	"github.com/teranos/cuebit/cue"
	"github.com/teranos/cuebit/cue/storage"
	"github.com/teranos/cuebit/cue/types"
	"github.com/teranos/cuebit/db"
	"github.com/teranos/cuebit/errors"
	"github.com/teranos/cuebit/internal/util"
	"github.com/teranos/cuebit/logger"
)

// session is what a command needs to talk to the registry.
type session struct {
	cfg  *am.Config
	conn *sql.DB
	reg  *cue.Registry
}

func (s *session) Close() {
	if s.conn != nil {
		s.conn.Close()
	}
}

// databasePath returns the --db flag, or the configured path.
func databasePath(cmd *cobra.Command, cfg *am.Config) string {
	if path, _ := cmd.Flags().GetString("db"); path != "" {
		return path
	}
	return cfg.GetDatabasePath()
}

// openDatabase opens and migrates the database selected by --db or the config.
func openDatabase(cmd *cobra.Command, cfg *am.Config) (*sql.DB, error) {
	path := databasePath(cmd, cfg)
	conn, err := db.OpenWithMigrationsOptions(path, db.Options{
		BusyTimeoutMS: cfg.Database.BusyTimeoutMS,
		MaxOpenConns:  cfg.Database.MaxOpenConns,
	}, logger.Logger)
	if err != nil {
		return nil, errors.WrapStoref(err, "failed to open database at %s", path)
	}
	return conn, nil
}

// openSession loads configuration and opens the registry. Callers must Close it.
func openSession(cmd *cobra.Command) (*session, error) {
	cfg, err := am.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	conn, err := openDatabase(cmd, cfg)
	if err != nil {
		return nil, err
	}

	store := storage.New(conn, logger.Logger.Named("storage"))
	reg := cue.New(store, logger.Logger.Named("registry"),
		cue.WithMaxPageSize(cfg.GetMaxPageSize()),
		cue.WithDefaultActor(cfg.Registry.DefaultActor),
	)
	return &session{cfg: cfg, conn: conn, reg: reg}, nil
}

// commandContext tags the command's context with a request id and the acting
// user for logs.
func commandContext(cmd *cobra.Command, actor string) context.Context {
	ctx := logger.WithComponent(cmd.Context(), "cli")
	ctx = logger.WithRequestID(ctx, uuid.NewString())
	if actor != "" {
		ctx = logger.WithActor(ctx, actor)
	}
	return ctx
}

// readTemplate returns --template, or the contents of --file ("-" reads stdin).
func readTemplate(cmd *cobra.Command) (string, error) {
	text, _ := cmd.Flags().GetString("template")
	path, _ := cmd.Flags().GetString("file")
	switch {
	case text != "" && path != "":
		return "", errors.NewValidationError("use either --template or --file, not both")
	case path != "":
		data, err := readInput(cmd, path)
		if err != nil {
			return "", err
		}
		return string(data), nil
	}
	return text, nil
}

func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read %s", path)
	}
	return data, nil
}

// parseMeta merges --meta-json with --meta key=value pairs, the pairs winning.
// It returns nil when neither flag was given.
func parseMeta(cmd *cobra.Command) (types.Meta, error) {
	raw, _ := cmd.Flags().GetString("meta-json")
	pairs, _ := cmd.Flags().GetStringToString("meta")
	if raw == "" && len(pairs) == 0 {
		return nil, nil
	}

	meta := types.Meta{}
	if raw != "" {
		if err := yaml.Unmarshal([]byte(raw), &meta); err != nil {
			return nil, errors.WrapValidation(err, "--meta-json must be a JSON object")
		}
	}
	for k, v := range pairs {
		meta[k] = v
	}
	return meta, nil
}

// readExamples decodes --examples, a JSON or YAML list of {input, output, description}.
func readExamples(cmd *cobra.Command) ([]types.ExampleInput, error) {
	path, _ := cmd.Flags().GetString("examples")
	if path == "" {
		return nil, nil
	}
	data, err := readInput(cmd, path)
	if err != nil {
		return nil, err
	}
	var examples []types.ExampleInput
	if err := yaml.Unmarshal(data, &examples); err != nil {
		return nil, errors.WrapValidation(err, "examples must be a list of {input, output, description}")
	}
	return examples, nil
}

// projectFlag returns a pointer to --project when it was given.
func projectFlag(cmd *cobra.Command) *string {
	if !cmd.Flags().Changed("project") {
		return nil
	}
	project, _ := cmd.Flags().GetString("project")
	return util.Ptr(project)
}

func splitTags(values []string) []string {
	var tags []string
	for _, v := range values {
		for _, tag := range strings.Split(v, ",") {
			if tag = strings.TrimSpace(tag); tag != "" {
				tags = append(tags, tag)
			}
		}
	}
	return tags
}
