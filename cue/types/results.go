package types

// HistoryEntry is one version in a lineage's history with its parent, if any.
type HistoryEntry struct {
	Prompt Prompt         `json:"prompt" yaml:"prompt"`
	Parent *PromptSummary `json:"parent" yaml:"parent"`
}

// Lineage is a prompt with its ancestors and descendants, each ordered oldest first.
type Lineage struct {
	Current     Prompt   `json:"current" yaml:"current"`
	Ancestors   []Prompt `json:"ancestors" yaml:"ancestors"`
	Descendants []Prompt `json:"descendants" yaml:"descendants"`
}

// Comparison is the difference between two prompt versions.
type Comparison struct {
	From         PromptSummary `json:"from" yaml:"from"`
	To           PromptSummary `json:"to" yaml:"to"`
	TemplateDiff []string      `json:"template_diff" yaml:"template_diff"`
	MetaChanges  MetaChanges   `json:"meta_changes" yaml:"meta_changes"`
	TagsChanges  TagChanges    `json:"tags_changes" yaml:"tags_changes"`
}

// Identical reports whether the two versions have the same template, meta and tags.
func (c *Comparison) Identical() bool {
	for _, line := range c.TemplateDiff {
		if len(line) >= 2 && line[:2] != "  " {
			return false
		}
	}
	return len(c.MetaChanges.Added) == 0 &&
		len(c.MetaChanges.Removed) == 0 &&
		len(c.MetaChanges.Changed) == 0 &&
		len(c.TagsChanges.Added) == 0 &&
		len(c.TagsChanges.Removed) == 0
}

// MetaChanges lists meta keys added, removed or changed between two versions.
type MetaChanges struct {
	Added   map[string]interface{} `json:"added" yaml:"added"`
	Removed map[string]interface{} `json:"removed" yaml:"removed"`
	Changed map[string]ValueChange `json:"changed" yaml:"changed"`
}

// ValueChange is one meta value before and after.
type ValueChange struct {
	From interface{} `json:"from" yaml:"from"`
	To   interface{} `json:"to" yaml:"to"`
}

// TagChanges lists tags gained and lost between two versions.
type TagChanges struct {
	Added   Tags `json:"added" yaml:"added"`
	Removed Tags `json:"removed" yaml:"removed"`
}

// Validation is the structural check of a template.
type Validation struct {
	IsValid   bool     `json:"is_valid" yaml:"is_valid"`
	Variables []string `json:"variables" yaml:"variables"`
	Warnings  []string `json:"warnings" yaml:"warnings"`
}

// ImportResult counts what an import did with each record.
type ImportResult struct {
	Total    int `json:"total" yaml:"total"`
	Imported int `json:"imported" yaml:"imported"`
	Skipped  int `json:"skipped" yaml:"skipped"`
}

// TagCount is how many active prompts carry a tag.
type TagCount struct {
	Tag   string `json:"tag" yaml:"tag"`
	Count int    `json:"count" yaml:"count"`
}

// Stats summarizes the registry contents.
type Stats struct {
	TotalPrompts       int        `json:"total_prompts" yaml:"total_prompts"`
	ActivePrompts      int        `json:"active_prompts" yaml:"active_prompts"`
	DeletedPrompts     int        `json:"deleted_prompts" yaml:"deleted_prompts"`
	TotalProjects      int        `json:"total_projects" yaml:"total_projects"`
	PromptsWithAliases int        `json:"prompts_with_aliases" yaml:"prompts_with_aliases"`
	TotalExamples      int        `json:"total_examples" yaml:"total_examples"`
	TotalTags          int        `json:"total_tags" yaml:"total_tags"`
	TagCounts          []TagCount `json:"tag_counts" yaml:"tag_counts"`
}
