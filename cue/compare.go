package cue

import (
	"context"

	"github.com/teranos/cuebit/cue/diff"
	"github.com/teranos/cuebit/cue/template"
	"github.com/teranos/cuebit/cue/types"
	"github.com/teranos/cuebit/logger"
)

// Compare returns the template, meta and tag differences from one prompt
// version to another. Deleted versions can be compared.
func (r *Registry) Compare(ctx context.Context, fromID, toID string) (*types.Comparison, error) {
	var from, to *types.Prompt
	err := r.store.Read(ctx, func(tx Tx) error {
		var err error
		if from, err = tx.GetPrompt(fromID); err != nil {
			return err
		}
		to, err = tx.GetPrompt(toID)
		return err
	})
	if err != nil {
		return nil, err
	}

	c := diff.Compare(from, to)
	return &c, nil
}

// Validate checks a template's braces and lists its variables.
func (r *Registry) Validate(text string) types.Validation {
	return template.Validate(text)
}

// Render substitutes vars into an active prompt's template. Placeholders with
// no value are left as written.
func (r *Registry) Render(ctx context.Context, promptID string, vars map[string]string) (string, error) {
	p, err := r.Get(ctx, promptID, false)
	if err != nil {
		return "", err
	}

	rendered, missing := template.Render(p.Template, vars)
	if len(missing) > 0 {
		r.opLogger(ctx, "render").Debugw("Rendered with unresolved variables",
			logger.FieldPromptID, promptID,
			"missing", missing,
		)
	}
	return rendered, nil
}
