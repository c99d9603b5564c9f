package cue

import (
	"context"
	"strings"

	"github.com/teranos/cuebit/cue/types"
	"github.com/teranos/cuebit/errors"
	"github.com/teranos/cuebit/logger"
)

// BulkTag applies op with tags to each prompt in ids and returns how many
// prompts it touched. Ids that do not exist are skipped and not counted.
func (r *Registry) BulkTag(ctx context.Context, ids []string, tags []string, op types.BulkTagOp) (int, error) {
	if !op.Valid() {
		return 0, errors.WithHint(
			errors.NewValidationError("unknown tag operation %q", op),
			"use add, remove or set",
		)
	}
	given := types.NewTags(tags...)

	var modified int
	err := r.store.Write(ctx, func(tx Tx) error {
		modified = 0
		seen := make(map[string]bool, len(ids))
		for _, id := range ids {
			if seen[id] {
				continue
			}
			seen[id] = true

			p, err := tx.GetPrompt(id)
			if errors.IsNotFoundError(err) {
				continue
			}
			if err != nil {
				return err
			}

			p.Tags = op.Apply(p.Tags, given)
			p.UpdatedAt = r.timestamp()
			if err := tx.SavePromptState(p); err != nil {
				return err
			}
			modified++
		}
		return nil
	})
	if err != nil {
		return 0, errors.Wrapf(err, "bulk %s tags", op)
	}

	r.opLogger(ctx, "bulk_tag").Debugw("Tags updated",
		logger.FieldTags, given,
		"tag_op", op,
		logger.FieldCount, modified,
		logger.FieldTotalCount, len(ids),
	)
	return modified, nil
}

// SoftDelete hides a prompt from default views. It reports false when the
// prompt does not exist or is already deleted.
func (r *Registry) SoftDelete(ctx context.Context, promptID, deletedBy string) (bool, error) {
	var marked bool
	err := r.store.Write(ctx, func(tx Tx) error {
		marked = false
		p, err := tx.GetPrompt(promptID)
		if errors.IsNotFoundError(err) {
			return nil
		}
		if err != nil {
			return err
		}
		if p.Deleted {
			return nil
		}
		marked = true
		return tx.SavePromptState(r.markDeleted(p, deletedBy))
	})
	if err != nil {
		return false, errors.Wrapf(err, "soft delete prompt %s", promptID)
	}
	if marked {
		r.opLogger(ctx, "soft_delete").Debugw("Prompt soft-deleted", logger.FieldPromptID, promptID)
	}
	return marked, nil
}

func (r *Registry) markDeleted(p *types.Prompt, deletedBy string) *types.Prompt {
	now := r.timestamp()
	p.Deleted = true
	p.DeletedAt = &now
	p.DeletedBy = r.actor(deletedBy)
	p.UpdatedAt = now
	return p
}

// Restore clears the soft-delete marker. It reports false when the prompt does
// not exist or is not deleted. If another active prompt took the restored
// prompt's alias in the meantime, the restored prompt comes back without it.
func (r *Registry) Restore(ctx context.Context, promptID string) (bool, error) {
	var (
		restored     bool
		droppedAlias string
	)
	err := r.store.Write(ctx, func(tx Tx) error {
		restored, droppedAlias = false, ""
		p, err := tx.GetPrompt(promptID)
		if errors.IsNotFoundError(err) {
			return nil
		}
		if err != nil {
			return err
		}
		if !p.Deleted {
			return nil
		}

		if p.Alias != "" {
			holder, err := tx.PromptByAlias(p.Alias)
			switch {
			case errors.IsNotFoundError(err):
			case err != nil:
				return err
			case holder.PromptID != p.PromptID:
				droppedAlias = p.Alias
				p.Alias = ""
			}
		}

		p.Deleted = false
		p.DeletedAt = nil
		p.DeletedBy = ""
		p.UpdatedAt = r.timestamp()
		restored = true
		return tx.SavePromptState(p)
	})
	if err != nil {
		return false, errors.Wrapf(err, "restore prompt %s", promptID)
	}

	log := r.opLogger(ctx, "restore")
	if droppedAlias != "" {
		log.Warnw("Restored prompt lost its alias to another prompt",
			logger.FieldPromptID, promptID,
			logger.FieldAlias, droppedAlias,
		)
	}
	if restored {
		log.Debugw("Prompt restored", logger.FieldPromptID, promptID)
	}
	return restored, nil
}

// HardDelete permanently removes a prompt and its examples.
func (r *Registry) HardDelete(ctx context.Context, promptID string) (bool, error) {
	var removed bool
	err := r.store.Write(ctx, func(tx Tx) error {
		var err error
		removed, err = tx.DeletePrompt(promptID)
		return err
	})
	if err != nil {
		return false, errors.Wrapf(err, "delete prompt %s", promptID)
	}
	if removed {
		r.opLogger(ctx, "hard_delete").Debugw("Prompt deleted", logger.FieldPromptID, promptID)
	}
	return removed, nil
}

// HardDeleteByProject permanently removes every prompt in project.
func (r *Registry) HardDeleteByProject(ctx context.Context, project string) (int, error) {
	project = normalizeProject(project)
	return r.hardDeleteScope(ctx, types.Scope{Project: &project})
}

// HardDeleteByProjectTask permanently removes every version of one lineage.
func (r *Registry) HardDeleteByProjectTask(ctx context.Context, project, task string) (int, error) {
	project = normalizeProject(project)
	task = strings.TrimSpace(task)
	if task == "" {
		return 0, errors.NewValidationError("task is required")
	}
	return r.hardDeleteScope(ctx, types.Scope{Project: &project, Task: &task})
}

func (r *Registry) hardDeleteScope(ctx context.Context, scope types.Scope) (int, error) {
	var count int
	err := r.store.Write(ctx, func(tx Tx) error {
		var err error
		count, err = tx.DeletePrompts(scope)
		return err
	})
	if err != nil {
		return 0, errors.Wrapf(err, "delete prompts in %s", describeScope(scope))
	}
	r.opLogger(ctx, "hard_delete_scope").Debugw("Prompts deleted",
		"scope", describeScope(scope),
		logger.FieldCount, count,
	)
	return count, nil
}

// SoftDeleteByProject marks every active prompt in project deleted and returns
// how many it marked.
func (r *Registry) SoftDeleteByProject(ctx context.Context, project, deletedBy string) (int, error) {
	project = normalizeProject(project)
	return r.softDeleteScope(ctx, types.Scope{Project: &project}, deletedBy)
}

// SoftDeleteByProjectTask marks every active version of one lineage deleted.
func (r *Registry) SoftDeleteByProjectTask(ctx context.Context, project, task, deletedBy string) (int, error) {
	project = normalizeProject(project)
	task = strings.TrimSpace(task)
	if task == "" {
		return 0, errors.NewValidationError("task is required")
	}
	return r.softDeleteScope(ctx, types.Scope{Project: &project, Task: &task}, deletedBy)
}

func (r *Registry) softDeleteScope(ctx context.Context, scope types.Scope, deletedBy string) (int, error) {
	var count int
	err := r.store.Write(ctx, func(tx Tx) error {
		prompts, err := tx.ScopePrompts(scope, false)
		if err != nil {
			return err
		}
		for i := range prompts {
			if err := tx.SavePromptState(r.markDeleted(&prompts[i], deletedBy)); err != nil {
				return err
			}
		}
		count = len(prompts)
		return nil
	})
	if err != nil {
		return 0, errors.Wrapf(err, "soft delete prompts in %s", describeScope(scope))
	}
	r.opLogger(ctx, "soft_delete_scope").Debugw("Prompts soft-deleted",
		"scope", describeScope(scope),
		logger.FieldCount, count,
	)
	return count, nil
}

func describeScope(scope types.Scope) string {
	project := "*"
	if scope.Project != nil {
		project = types.ProjectLabel(*scope.Project)
	}
	if scope.Task != nil {
		return project + "/" + *scope.Task
	}
	return project
}
