package storage

import (
	"github.com/teranos/cuebit/cue/types"
)

const (
	selectTagCountsQuery = `
		SELECT json_each.value, COUNT(*)
		FROM prompts, json_each(prompts.tags)
		WHERE prompts.deleted = 0
		GROUP BY json_each.value
		ORDER BY COUNT(*) DESC, json_each.value ASC`

	selectPromptStatsQuery = `
		SELECT
			COUNT(*),
			COALESCE(SUM(CASE WHEN deleted = 0 THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN deleted != 0 THEN 1 ELSE 0 END), 0),
			COUNT(DISTINCT project),
			COALESCE(SUM(CASE WHEN alias IS NOT NULL AND deleted = 0 THEN 1 ELSE 0 END), 0)
		FROM prompts`

	selectExampleCountQuery = `SELECT COUNT(*) FROM examples`
)

// TagCounts returns tag frequencies over active prompts, most used first.
func (t *sqlTx) TagCounts() ([]types.TagCount, error) {
	rows, err := t.tx.QueryContext(t.ctx, selectTagCountsQuery)
	if err != nil {
		return nil, storeErr(err, "failed to query tag counts")
	}
	defer rows.Close()

	var counts []types.TagCount
	for rows.Next() {
		var tc types.TagCount
		if err := rows.Scan(&tc.Tag, &tc.Count); err != nil {
			return nil, storeErr(err, "failed to scan tag count")
		}
		counts = append(counts, tc)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr(err, "failed to read tag counts")
	}
	return counts, nil
}

func (t *sqlTx) Stats() (types.Stats, error) {
	var s types.Stats
	err := t.tx.QueryRowContext(t.ctx, selectPromptStatsQuery).Scan(
		&s.TotalPrompts,
		&s.ActivePrompts,
		&s.DeletedPrompts,
		&s.TotalProjects,
		&s.PromptsWithAliases,
	)
	if err != nil {
		return types.Stats{}, storeErr(err, "failed to read prompt stats")
	}
	if err := t.tx.QueryRowContext(t.ctx, selectExampleCountQuery).Scan(&s.TotalExamples); err != nil {
		return types.Stats{}, storeErr(err, "failed to count examples")
	}
	return s, nil
}
