package cue

import (
	"context"

	"github.com/teranos/cuebit/cue/types"
	"github.com/teranos/cuebit/errors"
	"github.com/teranos/cuebit/logger"
)

// History returns every version of a (project, task) lineage by ascending
// version, each with a summary of the version it was derived from.
func (r *Registry) History(ctx context.Context, project, task string, includeDeleted bool) ([]types.HistoryEntry, error) {
	project = normalizeProject(project)

	var rows []types.Prompt
	err := r.store.Read(ctx, func(tx Tx) error {
		var err error
		rows, err = tx.LineagePrompts(project, task)
		return err
	})
	if err != nil {
		return nil, err
	}

	byID := indexByID(rows)
	history := make([]types.HistoryEntry, 0, len(rows))
	for _, p := range rows {
		if p.Deleted && !includeDeleted {
			continue
		}
		entry := types.HistoryEntry{Prompt: p}
		if parent, ok := byID[p.ParentID]; ok {
			summary := parent.Summary()
			entry.Parent = &summary
		}
		history = append(history, entry)
	}
	return history, nil
}

// Lineage returns promptID with the versions it descends from and the versions
// derived from it, each ordered oldest first. Traversal follows parent links
// through deleted versions; includeDeleted only controls what is returned.
func (r *Registry) Lineage(ctx context.Context, promptID string, includeDeleted bool) (*types.Lineage, error) {
	var (
		current *types.Prompt
		rows    []types.Prompt
	)
	err := r.store.Read(ctx, func(tx Tx) error {
		var err error
		if current, err = getVisible(tx, promptID, includeDeleted); err != nil {
			return err
		}
		rows, err = tx.LineagePrompts(current.Project, current.Task)
		return err
	})
	if err != nil {
		return nil, err
	}

	byID := indexByID(rows)
	visible := func(p types.Prompt) bool { return includeDeleted || !p.Deleted }

	lineage := &types.Lineage{
		Current:     *current,
		Ancestors:   []types.Prompt{},
		Descendants: []types.Prompt{},
	}

	chain := ancestors(byID, current.PromptID)
	for i := len(chain) - 1; i >= 0; i-- {
		if visible(chain[i]) {
			lineage.Ancestors = append(lineage.Ancestors, chain[i])
		}
	}

	for _, p := range rows {
		if p.PromptID == current.PromptID || !visible(p) {
			continue
		}
		for _, a := range ancestors(byID, p.PromptID) {
			if a.PromptID == current.PromptID {
				lineage.Descendants = append(lineage.Descendants, p)
				break
			}
		}
	}
	return lineage, nil
}

// ancestors follows parent links from promptID, nearest first. The walk stops
// at a root, at a parent that no longer exists, or at a repeated id.
func ancestors(byID map[string]types.Prompt, promptID string) []types.Prompt {
	var chain []types.Prompt
	seen := map[string]bool{promptID: true}
	p, ok := byID[promptID]
	for ok && p.ParentID != "" && !seen[p.ParentID] {
		seen[p.ParentID] = true
		if p, ok = byID[p.ParentID]; ok {
			chain = append(chain, p)
		}
	}
	return chain
}

func indexByID(rows []types.Prompt) map[string]types.Prompt {
	byID := make(map[string]types.Prompt, len(rows))
	for _, p := range rows {
		byID[p.PromptID] = p
	}
	return byID
}

// Rollback creates a new head version of promptID's lineage whose template,
// meta and tags copy promptID. The new version's parent is promptID itself, so
// history is extended rather than rewound.
func (r *Registry) Rollback(ctx context.Context, promptID, updatedBy string) (*types.Prompt, error) {
	var p *types.Prompt
	err := r.store.Write(ctx, func(tx Tx) error {
		target, err := tx.GetPrompt(promptID)
		if err != nil {
			return err
		}
		p = &types.Prompt{
			Project:   target.Project,
			Task:      target.Task,
			Template:  target.Template,
			ParentID:  target.PromptID,
			Tags:      target.Tags,
			Meta:      target.Meta.Clone(),
			UpdatedBy: r.actor(updatedBy),
		}
		return r.appendVersion(tx, p, nil)
	})
	if err != nil {
		return nil, errors.Wrapf(err, "rollback to prompt %s", promptID)
	}

	r.opLogger(ctx, "rollback").Debugw("Rolled back prompt",
		logger.FieldPromptID, p.PromptID,
		logger.FieldParentID, p.ParentID,
		logger.FieldVersion, p.Version,
	)
	return p, nil
}
