package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/teranos/cuebit/cue/types"
	"github.com/teranos/cuebit/display"
	"github.com/teranos/cuebit/errors"
	"github.com/teranos/cuebit/sym"
)

func addQueryFlags(cmd *cobra.Command) {
	cmd.Flags().String("project", "", "Only prompts of this project (empty string for unassigned)")
	cmd.Flags().StringSlice("tag", nil, "Require tag (repeatable, comma separated)")
	cmd.Flags().Bool("include-deleted", false, "Include deleted prompts")
	cmd.Flags().Int("page", 1, "Page number, starting at 1")
	cmd.Flags().Int("page-size", 0, "Prompts per page (default registry.default_page_size)")
}

// queryFromFlags builds a Query from the list and search flags.
func queryFromFlags(cmd *cobra.Command, s *session, text string) types.Query {
	tags, _ := cmd.Flags().GetStringSlice("tag")
	includeDeleted, _ := cmd.Flags().GetBool("include-deleted")
	page, _ := cmd.Flags().GetInt("page")
	pageSize, _ := cmd.Flags().GetInt("page-size")
	if !cmd.Flags().Changed("page-size") {
		pageSize = s.cfg.GetDefaultPageSize()
	}
	return types.Query{
		Text:           text,
		Project:        projectFlag(cmd),
		Tags:           types.NewTags(splitTags(tags)...),
		IncludeDeleted: includeDeleted,
		Page:           page,
		PageSize:       pageSize,
	}
}

func printPage(cmd *cobra.Command, page *types.Page) error {
	if display.ShouldOutputJSON(cmd) {
		return display.OutputJSON(cmd.OutOrStdout(), page)
	}
	w := cmd.OutOrStdout()
	if err := display.RenderTable(w, display.PromptRows(page.Items)); err != nil {
		return err
	}
	fmt.Fprintf(w, "page %d of %d (%d prompts)\n", page.Page, page.TotalPages(), page.Total)
	return nil
}

func newListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List prompts, newest last",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			page, err := s.reg.List(commandContext(cmd, ""), queryFromFlags(cmd, s, ""))
			if err != nil {
				return err
			}
			return printPage(cmd, page)
		},
	}
	addQueryFlags(cmd)
	return cmd
}

func newSearchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search <text>",
		Short: sym.Search + " Find prompts whose task, template or meta contains text",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			page, err := s.reg.Search(commandContext(cmd, ""), queryFromFlags(cmd, s, args[0]))
			if err != nil {
				return err
			}
			return printPage(cmd, page)
		},
	}
	addQueryFlags(cmd)
	return cmd
}

func newTagCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tag <prompt-id>...",
		Short: "Add, remove or set tags on several prompts at once",
		Long: `Apply one tag operation to every given prompt in a single transaction.

  --op add     union the tags with each prompt's tags (default)
  --op remove  drop the tags
  --op set     replace each prompt's tags`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			op, _ := cmd.Flags().GetString("op")
			tags, _ := cmd.Flags().GetStringSlice("tag")

			s, err := openSession(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			n, err := s.reg.BulkTag(commandContext(cmd, ""), args, splitTags(tags), types.BulkTagOp(op))
			if err != nil {
				return err
			}
			if display.ShouldOutputJSON(cmd) {
				return display.OutputJSON(cmd.OutOrStdout(), map[string]int{"updated": n})
			}
			display.Success(cmd.OutOrStdout(), "Updated tags on %d prompts", n)
			return nil
		},
	}
	cmd.Flags().String("op", string(types.BulkTagAdd), "Operation: add, remove or set")
	cmd.Flags().StringSlice("tag", nil, "Tag (repeatable, comma separated)")
	return cmd
}

// scopeArgs checks that exactly one of a prompt id or --project was given.
func scopeArgs(cmd *cobra.Command, args []string) error {
	hasProject := cmd.Flags().Changed("project")
	switch {
	case len(args) > 1:
		return errors.NewValidationError("expected at most one prompt id")
	case len(args) == 1 && hasProject:
		return errors.NewValidationError("give a prompt id or --project, not both")
	case len(args) == 0 && !hasProject:
		return errors.NewValidationError("give a prompt id or --project")
	case len(args) == 1 && cmd.Flags().Changed("task"):
		return errors.NewValidationError("--task needs --project")
	}
	return nil
}

func printCount(cmd *cobra.Command, key string, n int, format string, args ...interface{}) error {
	if display.ShouldOutputJSON(cmd) {
		return display.OutputJSON(cmd.OutOrStdout(), map[string]int{key: n})
	}
	display.Success(cmd.OutOrStdout(), format, args...)
	return nil
}

func printNothing(cmd *cobra.Command, key string, format string, args ...interface{}) error {
	if display.ShouldOutputJSON(cmd) {
		return display.OutputJSON(cmd.OutOrStdout(), map[string]int{key: 0})
	}
	display.Warning(cmd.OutOrStdout(), format, args...)
	return nil
}

func newDeleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete [prompt-id]",
		Short: sym.Delete + " Soft delete a prompt, or every prompt of a project or task",
		Long: `Mark prompts deleted. Deleted prompts keep their history and can be restored,
but their aliases are released.

Examples:
  cuebit prompt delete <id>
  cuebit prompt delete --project content --task summarize`,
		Args: scopeArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			actor, _ := cmd.Flags().GetString("actor")

			s, err := openSession(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			ctx := commandContext(cmd, actor)
			if len(args) == 1 {
				deleted, err := s.reg.SoftDelete(ctx, args[0], actor)
				if err != nil {
					return err
				}
				if !deleted {
					return printNothing(cmd, "deleted", "%s is missing or already deleted", args[0])
				}
				return printCount(cmd, "deleted", 1, "Deleted %s", args[0])
			}

			project, _ := cmd.Flags().GetString("project")
			var n int
			if cmd.Flags().Changed("task") {
				task, _ := cmd.Flags().GetString("task")
				n, err = s.reg.SoftDeleteByProjectTask(ctx, project, task, actor)
			} else {
				n, err = s.reg.SoftDeleteByProject(ctx, project, actor)
			}
			if err != nil {
				return err
			}
			return printCount(cmd, "deleted", n, "Deleted %d prompts in %s", n, types.ProjectLabel(project))
		},
	}
	cmd.Flags().String("project", "", "Delete every prompt of this project")
	cmd.Flags().String("task", "", "With --project, only this task")
	cmd.Flags().String("actor", "", "Who made the change (default registry.default_actor)")
	return cmd
}

func newRestoreCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "restore <prompt-id>",
		Short: "Restore a soft-deleted prompt",
		Long: `Clear a prompt's deleted flag. Its old alias comes back only if no other
live prompt has taken it since.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			restored, err := s.reg.Restore(commandContext(cmd, ""), args[0])
			if err != nil {
				return err
			}
			if !restored {
				return printNothing(cmd, "restored", "%s is missing or not deleted", args[0])
			}
			return printCount(cmd, "restored", 1, "Restored %s", args[0])
		},
	}
}

func newPurgeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "purge [prompt-id]",
		Short: sym.Delete + " Permanently remove prompts and their examples",
		Long: `Hard delete one prompt, or with --project (and --task) every version in scope.
Scoped purges need --yes.`,
		Args: scopeArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			ctx := commandContext(cmd, "")
			if len(args) == 1 {
				removed, err := s.reg.HardDelete(ctx, args[0])
				if err != nil {
					return err
				}
				if !removed {
					return errors.NewNotFoundError("prompt %s not found", args[0])
				}
				return printCount(cmd, "purged", 1, "Purged %s", args[0])
			}

			if yes, _ := cmd.Flags().GetBool("yes"); !yes {
				return errors.WithHint(
					errors.NewValidationError("refusing to purge a whole scope"),
					"rerun with --yes to confirm",
				)
			}
			project, _ := cmd.Flags().GetString("project")
			var n int
			if cmd.Flags().Changed("task") {
				task, _ := cmd.Flags().GetString("task")
				n, err = s.reg.HardDeleteByProjectTask(ctx, project, task)
			} else {
				n, err = s.reg.HardDeleteByProject(ctx, project)
			}
			if err != nil {
				return err
			}
			return printCount(cmd, "purged", n, "Purged %d prompts in %s", n, types.ProjectLabel(project))
		},
	}
	cmd.Flags().String("project", "", "Purge every prompt of this project")
	cmd.Flags().String("task", "", "With --project, only this task")
	cmd.Flags().Bool("yes", false, "Confirm a scoped purge")
	return cmd
}

func newExamplesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "examples <prompt-id>",
		Short: "List a prompt's examples",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			examples, err := s.reg.Examples(commandContext(cmd, ""), args[0])
			if err != nil {
				return err
			}
			if display.ShouldOutputJSON(cmd) {
				return display.OutputJSON(cmd.OutOrStdout(), examples)
			}
			return display.RenderTable(cmd.OutOrStdout(), display.ExampleRows(examples))
		},
	}
}

func newAddExampleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add-example <prompt-id>",
		Short: "Attach an input/output example to a prompt",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in := types.ExampleInput{}
			in.Input, _ = cmd.Flags().GetString("input")
			in.Output, _ = cmd.Flags().GetString("output")
			in.Description, _ = cmd.Flags().GetString("description")

			s, err := openSession(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			ex, err := s.reg.AddExample(commandContext(cmd, ""), args[0], in)
			if err != nil {
				return err
			}
			if display.ShouldOutputJSON(cmd) {
				return display.OutputJSON(cmd.OutOrStdout(), ex)
			}
			display.Success(cmd.OutOrStdout(), "Added example %s to %s", ex.ID, args[0])
			return nil
		},
	}
	cmd.Flags().String("input", "", "Example input")
	cmd.Flags().String("output", "", "Expected output")
	cmd.Flags().String("description", "", "What the example shows")
	return cmd
}
