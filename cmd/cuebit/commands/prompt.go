package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/teranos/cuebit/cue/diff"
	"github.com/teranos/cuebit/cue/types"
	"github.com/teranos/cuebit/display"
	"github.com/teranos/cuebit/errors"
	"github.com/teranos/cuebit/sym"
)

func newPromptCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prompt",
		Short: sym.Prompt + " Manage versioned prompts",
		Long: sym.Prompt + ` prompt — Versioned templates grouped by project and task

Templates use {name} placeholders. Registering into an existing (project, task)
adds the next version; updating derives a new version from an existing one.

Examples:
  cuebit prompt register --task summarize --template "Summarize {text}" --tag prod
  cuebit prompt history --project content --task summarize
  cuebit prompt compare <from-id> <to-id>
  cuebit prompt list --tag prod --page 2`,
	}

	cmd.AddCommand(
		newRegisterCmd(),
		newUpdateCmd(),
		newGetCmd(),
		newAliasCmd(),
		newResolveCmd(),
		newHistoryCmd(),
		newLineageCmd(),
		newRollbackCmd(),
		newCompareCmd(),
		newRenderCmd(),
		newValidateCmd(),
		newListCmd(),
		newSearchCmd(),
		newTagCmd(),
		newDeleteCmd(),
		newRestoreCmd(),
		newPurgeCmd(),
		newExamplesCmd(),
		newAddExampleCmd(),
	)
	return cmd
}

func addTemplateFlags(cmd *cobra.Command) {
	cmd.Flags().String("template", "", "Template text")
	cmd.Flags().StringP("file", "f", "", "Read the template from a file (- for stdin)")
	cmd.Flags().StringSlice("tag", nil, "Tag (repeatable, comma separated)")
	cmd.Flags().String("meta-json", "", "Meta as a JSON object")
	cmd.Flags().StringToString("meta", nil, "Meta entry key=value (repeatable)")
	cmd.Flags().String("examples", "", "JSON or YAML file of examples to attach")
	cmd.Flags().String("actor", "", "Who made the change (default registry.default_actor)")
}

func newRegisterCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Register a prompt as a new version of its (project, task)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			in := types.RegisterInput{}
			in.Project, _ = cmd.Flags().GetString("project")
			in.Task, _ = cmd.Flags().GetString("task")
			in.UpdatedBy, _ = cmd.Flags().GetString("actor")
			tags, _ := cmd.Flags().GetStringSlice("tag")
			in.Tags = splitTags(tags)

			var err error
			if in.Template, err = readTemplate(cmd); err != nil {
				return err
			}
			if in.Meta, err = parseMeta(cmd); err != nil {
				return err
			}
			if in.Examples, err = readExamples(cmd); err != nil {
				return err
			}

			s, err := openSession(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			p, err := s.reg.Register(commandContext(cmd, in.UpdatedBy), in)
			if err != nil {
				return err
			}
			return printPrompt(cmd, p, fmt.Sprintf("Registered %s/%s v%d", p.ProjectLabel(), p.Task, p.Version))
		},
	}
	cmd.Flags().String("project", "", "Project (empty for unassigned)")
	cmd.Flags().String("task", "", "Task name")
	addTemplateFlags(cmd)
	_ = cmd.MarkFlagRequired("task")
	return cmd
}

func newUpdateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update <prompt-id>",
		Short: "Create the next version from an existing prompt",
		Long: `Create the next version of a prompt's lineage from an existing version.

Tags and meta carry over unless given; --clear-tags drops them.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in := types.UpdateInput{}
			in.UpdatedBy, _ = cmd.Flags().GetString("actor")
			if cmd.Flags().Changed("tag") {
				tags, _ := cmd.Flags().GetStringSlice("tag")
				in.Tags = splitTags(tags)
				if in.Tags == nil {
					in.Tags = []string{}
				}
			}
			if clearTags, _ := cmd.Flags().GetBool("clear-tags"); clearTags {
				in.Tags = []string{}
			}

			var err error
			if in.Template, err = readTemplate(cmd); err != nil {
				return err
			}
			if in.Meta, err = parseMeta(cmd); err != nil {
				return err
			}
			if in.Examples, err = readExamples(cmd); err != nil {
				return err
			}

			s, err := openSession(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			p, err := s.reg.Update(commandContext(cmd, in.UpdatedBy), args[0], in)
			if err != nil {
				return err
			}
			return printPrompt(cmd, p, fmt.Sprintf("Created %s/%s v%d", p.ProjectLabel(), p.Task, p.Version))
		},
	}
	addTemplateFlags(cmd)
	cmd.Flags().Bool("clear-tags", false, "Drop the source's tags")
	return cmd
}

func newGetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get <prompt-id>",
		Short: "Show a prompt",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			includeDeleted, _ := cmd.Flags().GetBool("include-deleted")

			s, err := openSession(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			p, err := s.reg.Get(commandContext(cmd, ""), args[0], includeDeleted)
			if err != nil {
				return err
			}
			return printPrompt(cmd, p, "")
		},
	}
	cmd.Flags().Bool("include-deleted", false, "Show the prompt even if deleted")
	return cmd
}

func newAliasCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "alias <prompt-id> <alias>",
		Short: sym.Alias + " Point an alias at a prompt",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			overwrite, _ := cmd.Flags().GetBool("overwrite")

			s, err := openSession(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			p, err := s.reg.SetAlias(commandContext(cmd, ""), args[0], args[1], overwrite)
			if err != nil {
				return err
			}
			return printPrompt(cmd, p, fmt.Sprintf("Alias %q now points at %s", p.Alias, p.PromptID))
		},
	}
	cmd.Flags().Bool("overwrite", false, "Take the alias from its current holder")
	return cmd
}

func newResolveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "resolve <alias>",
		Short: sym.Alias + " Show the prompt an alias points at",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			p, err := s.reg.ResolveAlias(commandContext(cmd, ""), args[0])
			if err != nil {
				return err
			}
			return printPrompt(cmd, p, "")
		},
	}
}

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: sym.Lineage + " List every version of a (project, task)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			project, _ := cmd.Flags().GetString("project")
			task, _ := cmd.Flags().GetString("task")
			includeDeleted, _ := cmd.Flags().GetBool("include-deleted")

			s, err := openSession(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			history, err := s.reg.History(commandContext(cmd, ""), project, task, includeDeleted)
			if err != nil {
				return err
			}
			if display.ShouldOutputJSON(cmd) {
				return display.OutputJSON(cmd.OutOrStdout(), history)
			}
			return display.RenderTable(cmd.OutOrStdout(), display.HistoryRows(history))
		},
	}
	cmd.Flags().String("project", "", "Project (empty for unassigned)")
	cmd.Flags().String("task", "", "Task name")
	cmd.Flags().Bool("include-deleted", false, "Include deleted versions")
	_ = cmd.MarkFlagRequired("task")
	return cmd
}

func newLineageCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lineage <prompt-id>",
		Short: sym.Lineage + " Show the versions a prompt descends from and those derived from it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			includeDeleted, _ := cmd.Flags().GetBool("include-deleted")

			s, err := openSession(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			lineage, err := s.reg.Lineage(commandContext(cmd, ""), args[0], includeDeleted)
			if err != nil {
				return err
			}
			if display.ShouldOutputJSON(cmd) {
				return display.OutputJSON(cmd.OutOrStdout(), lineage)
			}

			w := cmd.OutOrStdout()
			fmt.Fprintln(w, "Ancestors:")
			if err := display.RenderTable(w, display.PromptRows(lineage.Ancestors)); err != nil {
				return err
			}
			fmt.Fprintln(w, "Current:")
			if err := display.RenderTable(w, display.PromptRows([]types.Prompt{lineage.Current})); err != nil {
				return err
			}
			fmt.Fprintln(w, "Descendants:")
			return display.RenderTable(w, display.PromptRows(lineage.Descendants))
		},
	}
	cmd.Flags().Bool("include-deleted", false, "Include deleted versions")
	return cmd
}

func newRollbackCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rollback <prompt-id>",
		Short: sym.Version + " Make an earlier version the head of its lineage again",
		Long: `Create a new head version copying the given version's template, meta and tags.
History is extended, never rewritten.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			actor, _ := cmd.Flags().GetString("actor")

			s, err := openSession(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			p, err := s.reg.Rollback(commandContext(cmd, actor), args[0], actor)
			if err != nil {
				return err
			}
			return printPrompt(cmd, p, fmt.Sprintf("Rolled back to %s as v%d", args[0], p.Version))
		},
	}
	cmd.Flags().String("actor", "", "Who made the change (default registry.default_actor)")
	return cmd
}

func newCompareCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare <from-id> <to-id>",
		Short: "Show template, meta and tag differences between two versions",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			unified, _ := cmd.Flags().GetBool("unified")

			s, err := openSession(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			ctx := commandContext(cmd, "")
			c, err := s.reg.Compare(ctx, args[0], args[1])
			if err != nil {
				return err
			}
			if display.ShouldOutputJSON(cmd) {
				return display.OutputJSON(cmd.OutOrStdout(), c)
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "v%d %s -> v%d %s\n\n", c.From.Version, c.From.PromptID, c.To.Version, c.To.PromptID)
			if unified {
				from, err := s.reg.Get(ctx, args[0], true)
				if err != nil {
					return err
				}
				to, err := s.reg.Get(ctx, args[1], true)
				if err != nil {
					return err
				}
				text, err := diff.Unified(from.Template, to.Template, "v"+fmt.Sprint(from.Version), "v"+fmt.Sprint(to.Version))
				if err != nil {
					return err
				}
				fmt.Fprint(w, text)
			} else {
				for _, line := range c.TemplateDiff {
					fmt.Fprintln(w, line)
				}
			}

			fmt.Fprintln(w)
			for k, v := range c.MetaChanges.Added {
				fmt.Fprintf(w, "meta + %s: %v\n", k, v)
			}
			for k, v := range c.MetaChanges.Removed {
				fmt.Fprintf(w, "meta - %s: %v\n", k, v)
			}
			for k, v := range c.MetaChanges.Changed {
				fmt.Fprintf(w, "meta ~ %s: %v -> %v\n", k, v.From, v.To)
			}
			if len(c.TagsChanges.Added) > 0 {
				fmt.Fprintf(w, "tags + %s\n", strings.Join(c.TagsChanges.Added, ", "))
			}
			if len(c.TagsChanges.Removed) > 0 {
				fmt.Fprintf(w, "tags - %s\n", strings.Join(c.TagsChanges.Removed, ", "))
			}
			if c.Identical() {
				fmt.Fprintln(w, "versions are identical")
			}
			return nil
		},
	}
	cmd.Flags().Bool("unified", false, "Show the template diff in unified format")
	return cmd
}

func newRenderCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "render <prompt-id|alias>",
		Short: "Fill a prompt's placeholders",
		Long: `Substitute --var values into a prompt's template. The argument is a prompt id,
or an alias when no prompt has that id. Placeholders without a value are left as written.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			vars, _ := cmd.Flags().GetStringToString("var")

			s, err := openSession(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			ctx := commandContext(cmd, "")
			promptID := args[0]
			if _, err := s.reg.Get(ctx, promptID, false); errors.IsNotFoundError(err) {
				if p, aliasErr := s.reg.ResolveAlias(ctx, promptID); aliasErr == nil {
					promptID = p.PromptID
				}
			}

			out, err := s.reg.Render(ctx, promptID, vars)
			if err != nil {
				return err
			}
			if display.ShouldOutputJSON(cmd) {
				return display.OutputJSON(cmd.OutOrStdout(), map[string]string{"prompt_id": promptID, "rendered": out})
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}
	cmd.Flags().StringToString("var", nil, "Variable name=value (repeatable)")
	return cmd
}

func newValidateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate [prompt-id]",
		Short: "Check a template's braces and list its variables",
		Long: `Validate --template, --file, or the template of a stored prompt.
Exits with status 2 when the braces are unbalanced.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readTemplate(cmd)
			if err != nil {
				return err
			}
			if len(args) == 0 && !cmd.Flags().Changed("template") && !cmd.Flags().Changed("file") {
				return errors.NewValidationError("give a prompt id, --template or --file")
			}

			s, err := openSession(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			if len(args) == 1 {
				p, err := s.reg.Get(commandContext(cmd, ""), args[0], true)
				if err != nil {
					return err
				}
				text = p.Template
			}

			v := s.reg.Validate(text)
			if display.ShouldOutputJSON(cmd) {
				if err := display.OutputJSON(cmd.OutOrStdout(), v); err != nil {
					return err
				}
			} else {
				w := cmd.OutOrStdout()
				display.Field(w, "valid", v.IsValid)
				display.Field(w, "variables", strings.Join(v.Variables, ", "))
				for _, warning := range v.Warnings {
					display.Warning(w, "%s", warning)
				}
			}
			if !v.IsValid {
				return errors.NewValidationError("template has unbalanced braces")
			}
			return nil
		},
	}
	cmd.Flags().String("template", "", "Template text")
	cmd.Flags().StringP("file", "f", "", "Read the template from a file (- for stdin)")
	return cmd
}

// printPrompt writes p as JSON, or as a detail view preceded by a status line.
func printPrompt(cmd *cobra.Command, p *types.Prompt, status string) error {
	if display.ShouldOutputJSON(cmd) {
		return display.OutputJSON(cmd.OutOrStdout(), p)
	}

	w := cmd.OutOrStdout()
	if status != "" {
		display.Success(w, "%s", status)
	}
	display.Field(w, "id", p.PromptID)
	display.Field(w, "project", p.ProjectLabel())
	display.Field(w, "task", p.Task)
	display.Field(w, "version", p.Version)
	if p.ParentID != "" {
		display.Field(w, "parent", p.ParentID)
	}
	if p.Alias != "" {
		display.Field(w, "alias", p.Alias)
	}
	if len(p.Tags) > 0 {
		display.Field(w, "tags", strings.Join(p.Tags, ", "))
	}
	if len(p.Meta) > 0 {
		meta, err := display.MarshalJSON(p.Meta)
		if err != nil {
			return err
		}
		display.Field(w, "meta", string(meta))
	}
	display.Field(w, "updated by", p.UpdatedBy)
	display.Field(w, "created", p.CreatedAt.Format(display.TimeLayout))
	if p.Deleted {
		display.Field(w, "deleted", fmt.Sprintf("%s by %s", display.FormatTime(p.DeletedAt), p.DeletedBy))
	}
	fmt.Fprintf(w, "\n%s\n", p.Template)
	return nil
}
