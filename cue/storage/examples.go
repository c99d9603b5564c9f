package storage

import (
	"strings"

	"github.com/teranos/cuebit/cue/types"
)

const (
	insertExampleQuery = `
		INSERT INTO examples (id, prompt_id, input, output, description, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`

	selectExamplesQuery = `
		SELECT id, prompt_id, input, output, description, created_at
		FROM examples WHERE prompt_id = ? ORDER BY created_at, rowid`

	selectExamplesForQuery = `
		SELECT id, prompt_id, input, output, description, created_at
		FROM examples WHERE prompt_id IN (%s) ORDER BY created_at, rowid`
)

// examplesBatchSize bounds the number of bound parameters per IN query.
const examplesBatchSize = 500

// InsertExample stores a new example. A reused id is a conflict.
func (t *sqlTx) InsertExample(e *types.Example) error {
	_, err := t.tx.ExecContext(t.ctx, insertExampleQuery,
		e.ID,
		e.PromptID,
		e.Input,
		e.Output,
		nullString(e.Description),
		e.CreatedAt.UTC(),
	)
	if err != nil {
		return storeErr(err, "failed to insert example %s", e.ID)
	}
	return nil
}

// Examples returns the examples of one prompt, oldest first.
func (t *sqlTx) Examples(promptID string) ([]types.Example, error) {
	rows, err := t.tx.QueryContext(t.ctx, selectExamplesQuery, promptID)
	if err != nil {
		return nil, storeErr(err, "failed to query examples of %s", promptID)
	}
	examples, err := scanExamples(rows)
	if err != nil {
		return nil, storeErr(err, "failed to read examples of %s", promptID)
	}
	return examples, nil
}

func (t *sqlTx) ExamplesFor(promptIDs []string) (map[string][]types.Example, error) {
	byPrompt := make(map[string][]types.Example, len(promptIDs))
	for start := 0; start < len(promptIDs); start += examplesBatchSize {
		end := start + examplesBatchSize
		if end > len(promptIDs) {
			end = len(promptIDs)
		}
		batch := promptIDs[start:end]

		args := make([]interface{}, len(batch))
		for i, id := range batch {
			args[i] = id
		}
		placeholders := strings.TrimSuffix(strings.Repeat("?,", len(batch)), ",")
		query := strings.Replace(selectExamplesForQuery, "%s", placeholders, 1)

		rows, err := t.tx.QueryContext(t.ctx, query, args...)
		if err != nil {
			return nil, storeErr(err, "failed to query examples")
		}
		examples, err := scanExamples(rows)
		if err != nil {
			return nil, storeErr(err, "failed to read examples")
		}
		for _, ex := range examples {
			byPrompt[ex.PromptID] = append(byPrompt[ex.PromptID], ex)
		}
	}
	return byPrompt, nil
}
