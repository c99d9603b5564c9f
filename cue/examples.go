package cue

import (
	"context"

	"github.com/teranos/cuebit/cue/types"
	"github.com/teranos/cuebit/errors"
	"github.com/teranos/cuebit/logger"
)

// AddExample attaches an input/output example to a prompt.
func (r *Registry) AddExample(ctx context.Context, promptID string, in types.ExampleInput) (*types.Example, error) {
	var ex types.Example
	err := r.store.Write(ctx, func(tx Tx) error {
		if _, err := tx.GetPrompt(promptID); err != nil {
			return err
		}
		exs, err := r.newExamples(promptID, r.timestamp(), []types.ExampleInput{in})
		if err != nil {
			return err
		}
		ex = exs[0]
		return tx.InsertExample(&ex)
	})
	if err != nil {
		return nil, errors.Wrapf(err, "add example to prompt %s", promptID)
	}

	r.opLogger(ctx, "add_example").Debugw("Example added",
		logger.FieldPromptID, promptID,
		"example_id", ex.ID,
	)
	return &ex, nil
}

// Examples returns a prompt's examples in the order they were added.
func (r *Registry) Examples(ctx context.Context, promptID string) ([]types.Example, error) {
	var examples []types.Example
	err := r.store.Read(ctx, func(tx Tx) error {
		if _, err := tx.GetPrompt(promptID); err != nil {
			return err
		}
		var err error
		examples, err = tx.Examples(promptID)
		return err
	})
	if err != nil {
		return nil, err
	}
	if examples == nil {
		examples = []types.Example{}
	}
	return examples, nil
}
