package commands

import (
	"github.com/spf13/cobra"

	"github.com/teranos/cuebit/display"
)

func newProjectsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "projects [project]",
		Short: "List projects, or the prompts of one project",
		Long: `Without an argument, list every project ("Unassigned" for prompts
without one). With a project name, list its prompts.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			includeDeleted, _ := cmd.Flags().GetBool("include-deleted")

			s, err := openSession(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			ctx := commandContext(cmd, "")
			if len(args) == 0 {
				projects, err := s.reg.ListProjects(ctx)
				if err != nil {
					return err
				}
				if display.ShouldOutputJSON(cmd) {
					return display.OutputJSON(cmd.OutOrStdout(), projects)
				}
				rows := [][]string{{"PROJECT"}}
				for _, p := range projects {
					rows = append(rows, []string{p})
				}
				return display.RenderTable(cmd.OutOrStdout(), rows)
			}

			prompts, err := s.reg.ListByProject(ctx, args[0], includeDeleted)
			if err != nil {
				return err
			}
			if display.ShouldOutputJSON(cmd) {
				return display.OutputJSON(cmd.OutOrStdout(), prompts)
			}
			return display.RenderTable(cmd.OutOrStdout(), display.PromptRows(prompts))
		},
	}
	cmd.Flags().Bool("include-deleted", false, "Include deleted prompts")
	return cmd
}
