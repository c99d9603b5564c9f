package cue

import (
	"context"

	"github.com/teranos/cuebit/cue/types"
)

// Store is the durable record store behind a Registry. Each Read or Write call
// is one transaction: it commits when fn returns nil and rolls back otherwise.
// Writes are serialized against each other.
type Store interface {
	Read(ctx context.Context, fn func(Tx) error) error
	Write(ctx context.Context, fn func(Tx) error) error
}

// Tx is the set of record operations available inside a transaction.
// Lookups of a single row return a not-found error when it is absent.
type Tx interface {
	// GetPrompt returns the prompt with promptID, deleted or not.
	GetPrompt(promptID string) (*types.Prompt, error)
	// PromptByAlias returns the active prompt holding alias.
	PromptByAlias(alias string) (*types.Prompt, error)
	// PromptByVersion returns the prompt at version in a lineage, deleted or not.
	PromptByVersion(project, task string, version int) (*types.Prompt, error)
	// MaxVersion returns the highest version in a lineage, counting deleted rows,
	// or 0 when the lineage is empty.
	MaxVersion(project, task string) (int, error)
	InsertPrompt(p *types.Prompt) error
	// SavePromptState writes the mutable fields of p: alias, tags, meta,
	// updated_at and the deleted markers.
	SavePromptState(p *types.Prompt) error
	// DetachParent clears the parent of promptID.
	DetachParent(promptID string) error
	// DeletePrompt removes a prompt and its examples, reporting whether it existed.
	DeletePrompt(promptID string) (bool, error)
	// DeletePrompts removes every prompt in scope with its examples.
	DeletePrompts(scope types.Scope) (int, error)

	// FindPrompts returns one page of the prompts matching q, in creation order.
	// A non-positive q.PageSize returns every match.
	FindPrompts(q types.Query) ([]types.Prompt, error)
	// CountPrompts returns how many prompts match q, ignoring pagination.
	CountPrompts(q types.Query) (int, error)
	// ScopePrompts returns the prompts in scope ordered by project, task and version.
	ScopePrompts(scope types.Scope, includeDeleted bool) ([]types.Prompt, error)
	// LineagePrompts returns every version of a lineage, deleted or not, by version.
	LineagePrompts(project, task string) ([]types.Prompt, error)

	InsertExample(e *types.Example) error
	Examples(promptID string) ([]types.Example, error)
	// ExamplesFor returns the examples of each prompt keyed by prompt id.
	ExamplesFor(promptIDs []string) (map[string][]types.Example, error)

	// Projects returns the distinct stored project values, "" included.
	Projects() ([]string, error)
	// TagCounts returns tag frequencies over active prompts, most used first.
	TagCounts() ([]types.TagCount, error)
	// Stats returns the row counts; tag figures are left to the caller.
	Stats() (types.Stats, error)
}
