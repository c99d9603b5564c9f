package display

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/pterm/pterm"

	"github.com/teranos/cuebit/cue/types"
)

// TimeLayout is how timestamps appear in tables.
const TimeLayout = "2006-01-02 15:04:05"

// maxTemplateWidth truncates templates shown in list tables.
const maxTemplateWidth = 48

// PromptHeader is the header row of PromptRows.
var PromptHeader = []string{"ID", "PROJECT", "TASK", "V", "ALIAS", "TAGS", "TEMPLATE", "CREATED"}

// PromptRows renders prompts as table rows, header first. Deleted prompts are
// marked in the version column.
func PromptRows(prompts []types.Prompt) [][]string {
	rows := [][]string{PromptHeader}
	for _, p := range prompts {
		version := strconv.Itoa(p.Version)
		if p.Deleted {
			version += " (deleted)"
		}
		rows = append(rows, []string{
			p.PromptID,
			p.ProjectLabel(),
			p.Task,
			version,
			p.Alias,
			strings.Join(p.Tags, ","),
			Truncate(OneLine(p.Template), maxTemplateWidth),
			p.CreatedAt.Format(TimeLayout),
		})
	}
	return rows
}

// HistoryRows renders a lineage history, header first.
func HistoryRows(entries []types.HistoryEntry) [][]string {
	rows := [][]string{{"V", "ID", "PARENT", "ALIAS", "UPDATED BY", "CREATED"}}
	for _, e := range entries {
		parent := "-"
		if e.Parent != nil {
			parent = fmt.Sprintf("v%d %s", e.Parent.Version, e.Parent.PromptID)
		}
		version := strconv.Itoa(e.Prompt.Version)
		if e.Prompt.Deleted {
			version += " (deleted)"
		}
		rows = append(rows, []string{
			version,
			e.Prompt.PromptID,
			parent,
			e.Prompt.Alias,
			e.Prompt.UpdatedBy,
			e.Prompt.CreatedAt.Format(TimeLayout),
		})
	}
	return rows
}

// ExampleRows renders examples, header first.
func ExampleRows(examples []types.Example) [][]string {
	rows := [][]string{{"ID", "INPUT", "OUTPUT", "DESCRIPTION", "CREATED"}}
	for _, ex := range examples {
		rows = append(rows, []string{
			ex.ID,
			Truncate(OneLine(ex.Input), 32),
			Truncate(OneLine(ex.Output), 32),
			ex.Description,
			ex.CreatedAt.Format(TimeLayout),
		})
	}
	return rows
}

// TagRows renders tag counts, header first.
func TagRows(counts []types.TagCount) [][]string {
	rows := [][]string{{"TAG", "PROMPTS"}}
	for _, tc := range counts {
		rows = append(rows, []string{tc.Tag, strconv.Itoa(tc.Count)})
	}
	return rows
}

// RenderTable writes rows, the first of which is the header, as a table.
func RenderTable(w io.Writer, rows [][]string) error {
	if len(rows) <= 1 {
		_, err := fmt.Fprintln(w, pterm.Gray("(none)"))
		return err
	}
	out, err := pterm.DefaultTable.WithHasHeader().WithData(rows).Srender()
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, out)
	return err
}

// Success writes a success status line.
func Success(w io.Writer, format string, args ...interface{}) {
	fmt.Fprint(w, pterm.Success.Sprintfln(format, args...))
}

// Warning writes a warning status line.
func Warning(w io.Writer, format string, args ...interface{}) {
	fmt.Fprint(w, pterm.Warning.Sprintfln(format, args...))
}

// Field writes one aligned "label: value" line of a detail view.
func Field(w io.Writer, label string, value interface{}) {
	fmt.Fprintf(w, "%-12s %v\n", pterm.LightCyan(label+":"), value)
}

// FormatTime formats t for detail views, or "-" for nil.
func FormatTime(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Format(TimeLayout)
}

// OneLine collapses whitespace runs, newlines included, into single spaces.
func OneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Truncate shortens s to at most width runes, marking the cut with "…".
func Truncate(s string, width int) string {
	r := []rune(s)
	if width <= 0 || len(r) <= width {
		return s
	}
	if width == 1 {
		return "…"
	}
	return string(r[:width-1]) + "…"
}
