// Package types defines the records and results exchanged with the prompt registry.
package types

import (
	"time"
)

// UnassignedProject is how a prompt with no project is reported.
const UnassignedProject = "Unassigned"

// Prompt is one immutable version of a template within a (project, task) lineage.
// Only Alias, Tags, Meta and the Deleted* fields change after creation.
type Prompt struct {
	PromptID  string     `json:"prompt_id" yaml:"prompt_id"`
	Project   string     `json:"project" yaml:"project"` // "" when unassigned
	Task      string     `json:"task" yaml:"task"`
	Template  string     `json:"template" yaml:"template"`
	Version   int        `json:"version" yaml:"version"`
	ParentID  string     `json:"parent_id" yaml:"parent_id"` // "" for version 1
	Alias     string     `json:"alias" yaml:"alias"`         // "" when unaliased
	Tags      Tags       `json:"tags" yaml:"tags"`
	Meta      Meta       `json:"meta" yaml:"meta"`
	UpdatedBy string     `json:"updated_by" yaml:"updated_by"`
	CreatedAt time.Time  `json:"created_at" yaml:"created_at"`
	UpdatedAt time.Time  `json:"updated_at" yaml:"updated_at"`
	Deleted   bool       `json:"deleted" yaml:"deleted"`
	DeletedAt *time.Time `json:"deleted_at" yaml:"deleted_at"`
	DeletedBy string     `json:"deleted_by" yaml:"deleted_by"`

	// Examples is only populated by export and consumed by import.
	Examples []Example `json:"examples,omitempty" yaml:"examples,omitempty"`
}

// ProjectLabel returns the project name, or UnassignedProject when empty.
func (p *Prompt) ProjectLabel() string {
	return ProjectLabel(p.Project)
}

// IsRoot reports whether p starts its lineage.
func (p *Prompt) IsRoot() bool {
	return p.ParentID == ""
}

// Summary returns the short form used for parent references.
func (p *Prompt) Summary() PromptSummary {
	return PromptSummary{
		PromptID:  p.PromptID,
		Version:   p.Version,
		Alias:     p.Alias,
		CreatedAt: p.CreatedAt,
	}
}

// ProjectLabel maps the stored empty project to UnassignedProject.
func ProjectLabel(project string) string {
	if project == "" {
		return UnassignedProject
	}
	return project
}

// PromptSummary identifies a prompt version without its content.
type PromptSummary struct {
	PromptID  string    `json:"prompt_id" yaml:"prompt_id"`
	Version   int       `json:"version" yaml:"version"`
	Alias     string    `json:"alias,omitempty" yaml:"alias,omitempty"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
}

// Example is an input/output pair owned by a single prompt.
type Example struct {
	ID          string    `json:"id" yaml:"id"`
	PromptID    string    `json:"-" yaml:"-"`
	Input       string    `json:"input" yaml:"input"`
	Output      string    `json:"output" yaml:"output"`
	Description string    `json:"description" yaml:"description"`
	CreatedAt   time.Time `json:"created_at" yaml:"created_at"`
}

// ExampleInput is a new example supplied with register, update or add-example.
type ExampleInput struct {
	Input       string `json:"input" yaml:"input"`
	Output      string `json:"output" yaml:"output"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// RegisterInput describes the first version of a prompt, or the next version of
// an existing (project, task) lineage.
type RegisterInput struct {
	Project   string
	Task      string
	Template  string
	Meta      Meta
	Tags      []string
	UpdatedBy string
	Examples  []ExampleInput
}

// UpdateInput describes a new version derived from an existing prompt.
// A nil Meta or Tags keeps the source's value; a non-nil empty one clears it.
type UpdateInput struct {
	Template  string
	Meta      Meta
	Tags      []string
	UpdatedBy string
	Examples  []ExampleInput
}
