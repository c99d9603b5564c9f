package cue

import (
	"context"

	"go.uber.org/zap"

	"github.com/teranos/cuebit/cue/portable"
	"github.com/teranos/cuebit/cue/types"
	"github.com/teranos/cuebit/errors"
	"github.com/teranos/cuebit/logger"
	"github.com/teranos/cuebit/sym"
)

// Export serializes every prompt, deleted ones included, with its examples.
// A nil project exports the whole registry.
func (r *Registry) Export(ctx context.Context, project *string, format portable.Format) ([]byte, error) {
	scope := types.Scope{}
	if project != nil {
		p := normalizeProject(*project)
		scope.Project = &p
	}

	var prompts []types.Prompt
	err := r.store.Read(ctx, func(tx Tx) error {
		var err error
		if prompts, err = tx.ScopePrompts(scope, true); err != nil {
			return err
		}
		ids := make([]string, len(prompts))
		for i, p := range prompts {
			ids[i] = p.PromptID
		}
		examples, err := tx.ExamplesFor(ids)
		if err != nil {
			return err
		}
		for i := range prompts {
			prompts[i].Examples = examples[prompts[i].PromptID]
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "export prompts")
	}

	data, err := portable.Encode(prompts, format)
	if err != nil {
		return nil, err
	}

	r.opLogger(ctx, "export").Debugw("Exported prompts",
		logger.FieldSymbol, sym.Port,
		logger.FieldFormat, format,
		logger.FieldCount, len(prompts),
		logger.FieldSize, len(data),
	)
	return data, nil
}

// Import loads an export payload in one transaction. With skipExisting, a
// record whose prompt_id is already stored is skipped; without it the stored
// prompt and its examples are replaced. A record that would take a version
// another prompt already holds in its lineage is always skipped, and a record
// whose alias is held by another active prompt is imported without the alias.
// Once every record is in, a parent_id that names no stored prompt of the
// record's own lineage is dropped.
func (r *Registry) Import(ctx context.Context, data []byte, format portable.Format, skipExisting bool) (*types.ImportResult, error) {
	records, err := portable.Decode(data, format)
	if err != nil {
		return nil, err
	}

	log := r.opLogger(ctx, "import")
	result := &types.ImportResult{Total: len(records)}
	err = r.store.Write(ctx, func(tx Tx) error {
		result.Imported, result.Skipped = 0, 0
		var inserted []*types.Prompt
		for i := range records {
			imported, err := r.importRecord(tx, log, &records[i], skipExisting)
			if err != nil {
				return errors.Wrapf(err, "record %d (%s)", i+1, records[i].PromptID)
			}
			if imported {
				result.Imported++
				inserted = append(inserted, &records[i])
			} else {
				result.Skipped++
			}
		}
		return detachStrayParents(tx, log, inserted)
	})
	if err != nil {
		return nil, errors.Wrap(err, "import prompts")
	}

	log.Debugw("Imported prompts",
		logger.FieldSymbol, sym.Port,
		logger.FieldFormat, format,
		logger.FieldTotalCount, result.Total,
		logger.FieldCount, result.Imported,
		"skipped", result.Skipped,
	)
	return result, nil
}

func (r *Registry) importRecord(tx Tx, log *zap.SugaredLogger, rec *types.Prompt, skipExisting bool) (bool, error) {
	rec.Project = normalizeProject(rec.Project)

	_, err := tx.GetPrompt(rec.PromptID)
	exists := err == nil
	if err != nil && !errors.IsNotFoundError(err) {
		return false, err
	}
	if exists && skipExisting {
		return false, nil
	}

	holder, err := tx.PromptByVersion(rec.Project, rec.Task, rec.Version)
	switch {
	case errors.IsNotFoundError(err):
	case err != nil:
		return false, err
	case holder.PromptID != rec.PromptID:
		log.Warnw("Skipping imported prompt whose version is taken",
			logger.FieldPromptID, rec.PromptID,
			logger.FieldProject, rec.ProjectLabel(),
			logger.FieldTask, rec.Task,
			logger.FieldVersion, rec.Version,
			"held_by", holder.PromptID,
		)
		return false, nil
	}

	if exists {
		if _, err := tx.DeletePrompt(rec.PromptID); err != nil {
			return false, err
		}
	}

	if rec.Alias != "" && !rec.Deleted {
		aliasHolder, err := tx.PromptByAlias(rec.Alias)
		switch {
		case errors.IsNotFoundError(err):
		case err != nil:
			return false, err
		default:
			log.Warnw("Imported prompt's alias is held by another prompt; dropping it",
				logger.FieldPromptID, rec.PromptID,
				logger.FieldAlias, rec.Alias,
				"held_by", aliasHolder.PromptID,
			)
			rec.Alias = ""
		}
	}

	now := r.timestamp()
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = now
	}
	if rec.UpdatedAt.IsZero() {
		rec.UpdatedAt = rec.CreatedAt
	}
	if rec.Deleted && rec.DeletedAt == nil {
		rec.DeletedAt = &rec.UpdatedAt
	}
	rec.Tags = types.NewTags(rec.Tags...)

	if err := tx.InsertPrompt(rec); err != nil {
		return false, err
	}

	for i := range rec.Examples {
		ex := &rec.Examples[i]
		ex.PromptID = rec.PromptID
		if ex.ID == "" {
			ex.ID = r.newID()
		}
		if ex.CreatedAt.IsZero() {
			ex.CreatedAt = rec.CreatedAt
		}
		err := tx.InsertExample(ex)
		if errors.IsConflictError(err) {
			// Example ids are global across prompts
			ex.ID = r.newID()
			err = tx.InsertExample(ex)
		}
		if err != nil {
			return false, err
		}
	}
	return true, nil
}

// detachStrayParents clears the parent of every imported prompt whose parent
// is missing or belongs to another (project, task).
func detachStrayParents(tx Tx, log *zap.SugaredLogger, imported []*types.Prompt) error {
	for _, rec := range imported {
		if rec.ParentID == "" {
			continue
		}
		parent, err := tx.GetPrompt(rec.ParentID)
		switch {
		case errors.IsNotFoundError(err):
		case err != nil:
			return err
		case parent.PromptID != rec.PromptID && parent.Project == rec.Project && parent.Task == rec.Task:
			continue
		}

		log.Warnw("Imported prompt's parent is outside its lineage; dropping it",
			logger.FieldPromptID, rec.PromptID,
			logger.FieldParentID, rec.ParentID,
			logger.FieldProject, rec.ProjectLabel(),
			logger.FieldTask, rec.Task,
		)
		if err := tx.DetachParent(rec.PromptID); err != nil {
			return err
		}
		rec.ParentID = ""
	}
	return nil
}
