package types

// Query selects prompts for list and search.
type Query struct {
	// Text matches task, template or encoded meta, case-insensitively.
	Text string
	// Project scopes the query when non-nil. Point it at "" for unassigned prompts.
	Project *string
	// Tags must all be present on a matching prompt.
	Tags           Tags
	IncludeDeleted bool
	Page           int // 1-indexed
	PageSize       int
}

// Offset returns the number of rows skipped before the page starts.
func (q Query) Offset() int {
	if q.Page <= 1 {
		return 0
	}
	return (q.Page - 1) * q.PageSize
}

// Page is one slice of a query result.
type Page struct {
	Items    []Prompt `json:"items" yaml:"items"`
	Total    int      `json:"total" yaml:"total"`
	Page     int      `json:"page" yaml:"page"`
	PageSize int      `json:"page_size" yaml:"page_size"`
}

// TotalPages returns how many pages the full result spans.
func (p Page) TotalPages() int {
	if p.PageSize <= 0 || p.Total == 0 {
		return 0
	}
	return (p.Total + p.PageSize - 1) / p.PageSize
}

// Scope selects the rows of project-wide operations: export, listing by
// project and bulk deletion.
type Scope struct {
	// Project limits the scope when non-nil. Point it at "" for unassigned prompts.
	Project *string
	// Task narrows the scope to one lineage when non-nil.
	Task *string
}

// BulkTagOp is how BulkTag combines the given tags with a prompt's current set.
type BulkTagOp string

const (
	BulkTagAdd    BulkTagOp = "add"
	BulkTagRemove BulkTagOp = "remove"
	BulkTagSet    BulkTagOp = "set"
)

// Valid reports whether op is one of the known operations.
func (op BulkTagOp) Valid() bool {
	switch op {
	case BulkTagAdd, BulkTagRemove, BulkTagSet:
		return true
	}
	return false
}

// Apply returns the tag set that results from applying op with tags to current.
func (op BulkTagOp) Apply(current, tags Tags) Tags {
	switch op {
	case BulkTagAdd:
		return current.Union(tags)
	case BulkTagRemove:
		return current.Without(tags)
	case BulkTagSet:
		return NewTags(tags...)
	}
	return current
}
