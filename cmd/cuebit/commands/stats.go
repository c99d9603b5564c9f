package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/teranos/cuebit/display"
	"github.com/teranos/cuebit/sym"
)

func newStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: sym.DB + " Show registry statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			stats, err := s.reg.Stats(commandContext(cmd, ""))
			if err != nil {
				return err
			}
			if display.ShouldOutputJSON(cmd) {
				return display.OutputJSON(cmd.OutOrStdout(), stats)
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "%s Registry Statistics\n\n", sym.DB)
			display.Field(w, "prompts", stats.TotalPrompts)
			display.Field(w, "active", stats.ActivePrompts)
			display.Field(w, "deleted", stats.DeletedPrompts)
			display.Field(w, "projects", stats.TotalProjects)
			display.Field(w, "aliased", stats.PromptsWithAliases)
			display.Field(w, "examples", stats.TotalExamples)
			display.Field(w, "tags", stats.TotalTags)
			fmt.Fprintln(w)
			return display.RenderTable(w, display.TagRows(stats.TagCounts))
		},
	}
}
