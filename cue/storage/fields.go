package storage

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/teranos/cuebit/cue/types"
	"github.com/teranos/cuebit/db"
	"github.com/teranos/cuebit/errors"
)

// promptColumns is the column list every prompt SELECT uses, in scanPrompt order.
const promptColumns = `prompt_id, project, task, template, version, parent_id, alias, tags, meta,
	updated_by, created_at, updated_at, deleted, deleted_at, deleted_by`

// PromptFields holds the JSON-encoded prompt fields for database operations
type PromptFields struct {
	TagsJSON string
	MetaJSON string
}

// MarshalPromptFields encodes tags as a sorted JSON array and meta as a JSON object.
func MarshalPromptFields(p *types.Prompt) (*PromptFields, error) {
	tags := p.Tags
	if tags == nil {
		tags = types.Tags{}
	}
	tagsJSON, err := json.Marshal([]string(tags))
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal tags")
	}

	// Meta is searched as text, so keep <, > and & readable
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	meta := map[string]interface{}(p.Meta)
	if meta == nil {
		meta = map[string]interface{}{}
	}
	if err := enc.Encode(meta); err != nil {
		return nil, errors.WrapValidation(err, "meta is not representable as JSON")
	}

	return &PromptFields{
		TagsJSON: string(tagsJSON),
		MetaJSON: string(bytes.TrimSpace(buf.Bytes())),
	}, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanPrompt(row rowScanner) (*types.Prompt, error) {
	var (
		p         types.Prompt
		parentID  sql.NullString
		alias     sql.NullString
		tagsJSON  string
		metaJSON  string
		updatedBy sql.NullString
		deletedAt sql.NullTime
		deletedBy sql.NullString
	)
	err := row.Scan(
		&p.PromptID, &p.Project, &p.Task, &p.Template, &p.Version, &parentID, &alias,
		&tagsJSON, &metaJSON, &updatedBy, &p.CreatedAt, &p.UpdatedAt,
		&p.Deleted, &deletedAt, &deletedBy,
	)
	if err != nil {
		return nil, err
	}

	p.ParentID = parentID.String
	p.Alias = alias.String
	p.UpdatedBy = updatedBy.String
	p.DeletedBy = deletedBy.String
	if deletedAt.Valid {
		t := deletedAt.Time
		p.DeletedAt = &t
	}

	var tags []string
	if err := json.Unmarshal([]byte(tagsJSON), &tags); err != nil {
		return nil, errors.Wrapf(err, "failed to parse tags of prompt %s", p.PromptID)
	}
	p.Tags = types.NewTags(tags...)

	if err := json.Unmarshal([]byte(metaJSON), &p.Meta); err != nil {
		return nil, errors.Wrapf(err, "failed to parse meta of prompt %s", p.PromptID)
	}
	if p.Meta == nil {
		p.Meta = types.Meta{}
	}

	return &p, nil
}

func scanPrompts(rows *sql.Rows) ([]types.Prompt, error) {
	defer rows.Close()

	var prompts []types.Prompt
	for rows.Next() {
		p, err := scanPrompt(rows)
		if err != nil {
			return nil, errors.Wrap(err, "failed to scan prompt row")
		}
		prompts = append(prompts, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return prompts, nil
}

func scanExamples(rows *sql.Rows) ([]types.Example, error) {
	defer rows.Close()

	var examples []types.Example
	for rows.Next() {
		var (
			ex          types.Example
			description sql.NullString
		)
		if err := rows.Scan(&ex.ID, &ex.PromptID, &ex.Input, &ex.Output, &description, &ex.CreatedAt); err != nil {
			return nil, errors.Wrap(err, "failed to scan example row")
		}
		ex.Description = description.String
		examples = append(examples, ex)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return examples, nil
}

// nullString stores "" as NULL so partial indexes and IS NULL checks see an absent value.
func nullString(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

func nullTime(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return t.UTC()
}

// storeErr classifies a driver failure: unique constraint violations become
// conflicts, anything without a registry kind becomes a store error.
func storeErr(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	if db.IsUniqueViolation(err) {
		return errors.Wrapf(errors.Mark(err, errors.ErrConflict), format, args...)
	}
	return errors.WrapStoref(err, format, args...)
}
