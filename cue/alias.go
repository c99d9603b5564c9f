package cue

import (
	"context"
	"strings"

	"github.com/teranos/cuebit/cue/types"
	"github.com/teranos/cuebit/errors"
	"github.com/teranos/cuebit/logger"
)

// SetAlias points alias at promptID. When another active prompt holds alias it
// loses it in the same transaction, unless overwrite is false, in which case
// SetAlias fails with a conflict. A prompt holds at most one alias, so any
// previous alias of promptID is replaced. Deleted prompts cannot take an alias.
func (r *Registry) SetAlias(ctx context.Context, promptID, alias string, overwrite bool) (*types.Prompt, error) {
	alias = strings.TrimSpace(alias)
	if alias == "" {
		return nil, errors.NewValidationError("alias is required")
	}

	var (
		p        *types.Prompt
		previous string
	)
	err := r.store.Write(ctx, func(tx Tx) error {
		previous = ""
		var err error
		p, err = getVisible(tx, promptID, false)
		if err != nil {
			return err
		}

		holder, err := tx.PromptByAlias(alias)
		switch {
		case errors.IsNotFoundError(err):
		case err != nil:
			return err
		case holder.PromptID != p.PromptID:
			if !overwrite {
				return errors.WithHint(
					errors.NewConflictError("alias %q is held by prompt %s", alias, holder.PromptID),
					"pass overwrite to move it",
				)
			}
			previous = holder.PromptID
			holder.Alias = ""
			holder.UpdatedAt = r.timestamp()
			if err := tx.SavePromptState(holder); err != nil {
				return err
			}
		}

		p.Alias = alias
		p.UpdatedAt = r.timestamp()
		return tx.SavePromptState(p)
	})
	if err != nil {
		return nil, errors.Wrapf(err, "set alias %q", alias)
	}

	log := r.opLogger(ctx, "set_alias")
	log.Debugw("Alias assigned",
		logger.FieldAlias, alias,
		logger.FieldPromptID, p.PromptID,
	)
	if previous != "" {
		log.Infow("Alias moved from previous holder",
			logger.FieldAlias, alias,
			"previous_prompt_id", previous,
		)
	}
	return p, nil
}

// ResolveAlias returns the active prompt holding alias.
func (r *Registry) ResolveAlias(ctx context.Context, alias string) (*types.Prompt, error) {
	alias = strings.TrimSpace(alias)
	if alias == "" {
		return nil, errors.NewValidationError("alias is required")
	}

	var p *types.Prompt
	err := r.store.Read(ctx, func(tx Tx) error {
		var err error
		p, err = tx.PromptByAlias(alias)
		return err
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}
