package cue

import (
	"context"
	"sort"
	"strings"

	"github.com/teranos/cuebit/cue/types"
	"github.com/teranos/cuebit/errors"
)

func (r *Registry) checkPage(q types.Query) error {
	if q.Page <= 0 {
		return errors.WithHint(
			errors.NewValidationError("page must be >= 1, got %d", q.Page),
			"pages are numbered from 1",
		)
	}
	if q.PageSize <= 0 || q.PageSize > r.maxPageSize {
		return errors.WithHintf(
			errors.NewValidationError("page size must be between 1 and %d, got %d", r.maxPageSize, q.PageSize),
			"request at most %d prompts per page", r.maxPageSize,
		)
	}
	return nil
}

// List returns one page of prompts matching q in creation order, and the
// number of matches across all pages. Text matches task, template or meta
// case-insensitively; every tag in q.Tags must be present.
func (r *Registry) List(ctx context.Context, q types.Query) (*types.Page, error) {
	if err := r.checkPage(q); err != nil {
		return nil, err
	}
	q.Text = strings.TrimSpace(q.Text)
	q.Tags = types.NewTags(q.Tags...)
	if q.Project != nil {
		project := normalizeProject(*q.Project)
		q.Project = &project
	}

	page := &types.Page{Page: q.Page, PageSize: q.PageSize}
	err := r.store.Read(ctx, func(tx Tx) error {
		var err error
		if page.Total, err = tx.CountPrompts(q); err != nil {
			return err
		}
		page.Items, err = tx.FindPrompts(q)
		return err
	})
	if err != nil {
		return nil, errors.Wrap(err, "list prompts")
	}
	if page.Items == nil {
		page.Items = []types.Prompt{}
	}
	return page, nil
}

// Search is List over active prompts only.
func (r *Registry) Search(ctx context.Context, q types.Query) (*types.Page, error) {
	q.IncludeDeleted = false
	return r.List(ctx, q)
}

// ListProjects returns the distinct project names, sorted, with prompts that
// have no project reported as types.UnassignedProject.
func (r *Registry) ListProjects(ctx context.Context) ([]string, error) {
	var raw []string
	err := r.store.Read(ctx, func(tx Tx) error {
		var err error
		raw, err = tx.Projects()
		return err
	})
	if err != nil {
		return nil, errors.Wrap(err, "list projects")
	}

	seen := make(map[string]bool, len(raw))
	projects := make([]string, 0, len(raw))
	for _, p := range raw {
		label := types.ProjectLabel(p)
		if !seen[label] {
			seen[label] = true
			projects = append(projects, label)
		}
	}
	sort.Strings(projects)
	return projects, nil
}

// ListByProject returns every version in project ordered by task then version.
func (r *Registry) ListByProject(ctx context.Context, project string, includeDeleted bool) ([]types.Prompt, error) {
	project = normalizeProject(project)

	var prompts []types.Prompt
	err := r.store.Read(ctx, func(tx Tx) error {
		var err error
		prompts, err = tx.ScopePrompts(types.Scope{Project: &project}, includeDeleted)
		return err
	})
	if err != nil {
		return nil, errors.Wrapf(err, "list project %s", types.ProjectLabel(project))
	}
	if prompts == nil {
		prompts = []types.Prompt{}
	}
	return prompts, nil
}
