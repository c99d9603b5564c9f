package storage

import (
	"context"
	"database/sql"
	"strings"

	"github.com/teranos/cuebit/cue"
	"github.com/teranos/cuebit/cue/types"
	"github.com/teranos/cuebit/errors"
)

const (
	insertPromptQuery = `
		INSERT INTO prompts (
			prompt_id, project, task, template, version, parent_id, alias, tags, meta,
			updated_by, created_at, updated_at, deleted, deleted_at, deleted_by
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	savePromptStateQuery = `
		UPDATE prompts
		SET alias = ?, tags = ?, meta = ?, updated_at = ?,
			deleted = ?, deleted_at = ?, deleted_by = ?
		WHERE prompt_id = ?`

	detachParentQuery = `UPDATE prompts SET parent_id = NULL WHERE prompt_id = ?`

	selectPromptByIDQuery = `SELECT ` + promptColumns + ` FROM prompts WHERE prompt_id = ?`

	selectPromptByAliasQuery = `SELECT ` + promptColumns + ` FROM prompts WHERE alias = ? AND deleted = 0`

	selectPromptByVersionQuery = `SELECT ` + promptColumns + `
		FROM prompts WHERE project = ? AND task = ? AND version = ?`

	selectMaxVersionQuery = `SELECT COALESCE(MAX(version), 0) FROM prompts WHERE project = ? AND task = ?`

	selectLineageQuery = `SELECT ` + promptColumns + `
		FROM prompts WHERE project = ? AND task = ? ORDER BY version`

	deletePromptQuery = `DELETE FROM prompts WHERE prompt_id = ?`

	selectProjectsQuery = `SELECT DISTINCT project FROM prompts ORDER BY project`

	// Text filter: a case-insensitive substring of task, template or encoded meta
	textFilterClause = `(instr(lower(task), lower(?)) > 0
		OR instr(lower(template), lower(?)) > 0
		OR instr(lower(meta), lower(?)) > 0)`

	tagFilterClause = `EXISTS (SELECT 1 FROM json_each(prompts.tags) WHERE json_each.value = ?)`
)

// sqlTx implements cue.Tx over one database transaction.
type sqlTx struct {
	ctx context.Context
	tx  *sql.Tx
}

var _ cue.Tx = (*sqlTx)(nil)

func (t *sqlTx) queryPrompt(query, what string, args ...interface{}) (*types.Prompt, error) {
	p, err := scanPrompt(t.tx.QueryRowContext(t.ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError("%s not found", what)
	}
	if err != nil {
		return nil, storeErr(err, "failed to load %s", what)
	}
	return p, nil
}

func (t *sqlTx) queryPrompts(what, query string, args ...interface{}) ([]types.Prompt, error) {
	rows, err := t.tx.QueryContext(t.ctx, query, args...)
	if err != nil {
		return nil, storeErr(err, "failed to query %s", what)
	}
	prompts, err := scanPrompts(rows)
	if err != nil {
		return nil, storeErr(err, "failed to read %s", what)
	}
	return prompts, nil
}

// GetPrompt returns the prompt with promptID, deleted or not.
func (t *sqlTx) GetPrompt(promptID string) (*types.Prompt, error) {
	return t.queryPrompt(selectPromptByIDQuery, "prompt "+promptID, promptID)
}

// PromptByAlias returns the active prompt holding alias.
func (t *sqlTx) PromptByAlias(alias string) (*types.Prompt, error) {
	return t.queryPrompt(selectPromptByAliasQuery, "alias "+alias, alias)
}

// PromptByVersion returns one version of a lineage.
func (t *sqlTx) PromptByVersion(project, task string, version int) (*types.Prompt, error) {
	p, err := scanPrompt(t.tx.QueryRowContext(t.ctx, selectPromptByVersionQuery, project, task, version))
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError("version %d of %s/%s not found", version, types.ProjectLabel(project), task)
	}
	if err != nil {
		return nil, storeErr(err, "failed to load version %d of %s/%s", version, project, task)
	}
	return p, nil
}

func (t *sqlTx) MaxVersion(project, task string) (int, error) {
	var version int
	if err := t.tx.QueryRowContext(t.ctx, selectMaxVersionQuery, project, task).Scan(&version); err != nil {
		return 0, storeErr(err, "failed to read max version of %s/%s", project, task)
	}
	return version, nil
}

// InsertPrompt stores a new prompt row.
func (t *sqlTx) InsertPrompt(p *types.Prompt) error {
	fields, err := MarshalPromptFields(p)
	if err != nil {
		return err
	}

	_, err = t.tx.ExecContext(t.ctx, insertPromptQuery,
		p.PromptID,
		p.Project,
		p.Task,
		p.Template,
		p.Version,
		nullString(p.ParentID),
		nullString(p.Alias),
		fields.TagsJSON,
		fields.MetaJSON,
		nullString(p.UpdatedBy),
		p.CreatedAt.UTC(),
		p.UpdatedAt.UTC(),
		p.Deleted,
		nullTime(p.DeletedAt),
		nullString(p.DeletedBy),
	)
	if err != nil {
		return storeErr(err, "failed to insert prompt %s", p.PromptID)
	}
	return nil
}

// SavePromptState writes the in-place mutable fields of p.
func (t *sqlTx) SavePromptState(p *types.Prompt) error {
	fields, err := MarshalPromptFields(p)
	if err != nil {
		return err
	}

	result, err := t.tx.ExecContext(t.ctx, savePromptStateQuery,
		nullString(p.Alias),
		fields.TagsJSON,
		fields.MetaJSON,
		p.UpdatedAt.UTC(),
		p.Deleted,
		nullTime(p.DeletedAt),
		nullString(p.DeletedBy),
		p.PromptID,
	)
	if err != nil {
		return storeErr(err, "failed to save prompt %s", p.PromptID)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return storeErr(err, "failed to check saved rows")
	}
	if n == 0 {
		return errors.NewNotFoundError("prompt %s not found", p.PromptID)
	}
	return nil
}

// DeletePrompt removes one prompt; its examples go with it through the foreign key.
func (t *sqlTx) DeletePrompt(promptID string) (bool, error) {
	result, err := t.tx.ExecContext(t.ctx, deletePromptQuery, promptID)
	if err != nil {
		return false, storeErr(err, "failed to delete prompt %s", promptID)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, storeErr(err, "failed to check deleted rows")
	}
	return n > 0, nil
}

func (t *sqlTx) DetachParent(promptID string) error {
	result, err := t.tx.ExecContext(t.ctx, detachParentQuery, promptID)
	if err != nil {
		return storeErr(err, "failed to detach parent of %s", promptID)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return storeErr(err, "failed to check detached rows")
	}
	if n == 0 {
		return errors.NewNotFoundError("prompt %s not found", promptID)
	}
	return nil
}

// DeletePrompts removes every prompt in scope. An empty scope is refused.
func (t *sqlTx) DeletePrompts(scope types.Scope) (int, error) {
	if scope.Project == nil && scope.Task == nil {
		return 0, errors.AssertionFailedf("refusing to delete prompts without a scope")
	}
	where, args := scopeFilter(scope, true)
	result, err := t.tx.ExecContext(t.ctx, "DELETE FROM prompts"+where, args...)
	if err != nil {
		return 0, storeErr(err, "failed to delete prompts of %s", scopeLabel(scope))
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, storeErr(err, "failed to check deleted rows")
	}
	return int(n), nil
}

// FindPrompts returns one page of matches in creation order.
func (t *sqlTx) FindPrompts(q types.Query) ([]types.Prompt, error) {
	where, args := queryFilter(q)
	query := "SELECT " + promptColumns + " FROM prompts" + where + " ORDER BY id"
	if q.PageSize > 0 {
		query += " LIMIT ? OFFSET ?"
		args = append(args, q.PageSize, q.Offset())
	}
	return t.queryPrompts("prompts", query, args...)
}

func (t *sqlTx) CountPrompts(q types.Query) (int, error) {
	where, args := queryFilter(q)
	var total int
	if err := t.tx.QueryRowContext(t.ctx, "SELECT COUNT(*) FROM prompts"+where, args...).Scan(&total); err != nil {
		return 0, storeErr(err, "failed to count prompts")
	}
	return total, nil
}

func (t *sqlTx) ScopePrompts(scope types.Scope, includeDeleted bool) ([]types.Prompt, error) {
	where, args := scopeFilter(scope, includeDeleted)
	query := "SELECT " + promptColumns + " FROM prompts" + where + " ORDER BY project, task, version"
	return t.queryPrompts("prompts of "+scopeLabel(scope), query, args...)
}

func scopeLabel(scope types.Scope) string {
	label := "all projects"
	if scope.Project != nil {
		label = types.ProjectLabel(*scope.Project)
	}
	if scope.Task != nil {
		label += "/" + *scope.Task
	}
	return label
}

func (t *sqlTx) LineagePrompts(project, task string) ([]types.Prompt, error) {
	return t.queryPrompts("lineage "+types.ProjectLabel(project)+"/"+task, selectLineageQuery, project, task)
}

// Projects returns the distinct stored project values.
func (t *sqlTx) Projects() ([]string, error) {
	rows, err := t.tx.QueryContext(t.ctx, selectProjectsQuery)
	if err != nil {
		return nil, storeErr(err, "failed to query projects")
	}
	defer rows.Close()

	var projects []string
	for rows.Next() {
		var project string
		if err := rows.Scan(&project); err != nil {
			return nil, storeErr(err, "failed to scan project")
		}
		projects = append(projects, project)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr(err, "failed to read projects")
	}
	return projects, nil
}

func queryFilter(q types.Query) (string, []interface{}) {
	var (
		clauses []string
		args    []interface{}
	)
	if !q.IncludeDeleted {
		clauses = append(clauses, "deleted = 0")
	}
	if q.Project != nil {
		clauses = append(clauses, "project = ?")
		args = append(args, *q.Project)
	}
	if q.Text != "" {
		clauses = append(clauses, textFilterClause)
		args = append(args, q.Text, q.Text, q.Text)
	}
	for _, tag := range q.Tags {
		clauses = append(clauses, tagFilterClause)
		args = append(args, tag)
	}
	return where(clauses), args
}

func scopeFilter(scope types.Scope, includeDeleted bool) (string, []interface{}) {
	var (
		clauses []string
		args    []interface{}
	)
	if scope.Project != nil {
		clauses = append(clauses, "project = ?")
		args = append(args, *scope.Project)
	}
	if scope.Task != nil {
		clauses = append(clauses, "task = ?")
		args = append(args, *scope.Task)
	}
	if !includeDeleted {
		clauses = append(clauses, "deleted = 0")
	}
	return where(clauses), args
}

func where(clauses []string) string {
	if len(clauses) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(clauses, " AND ")
}
