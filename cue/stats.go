package cue

import (
	"context"

	"github.com/teranos/cuebit/cue/types"
	"github.com/teranos/cuebit/errors"
)

// Stats summarizes the registry: prompt counts by state, projects, aliases,
// examples and tag usage over active prompts.
func (r *Registry) Stats(ctx context.Context) (*types.Stats, error) {
	var stats types.Stats
	err := r.store.Read(ctx, func(tx Tx) error {
		var err error
		if stats, err = tx.Stats(); err != nil {
			return err
		}
		stats.TagCounts, err = tx.TagCounts()
		return err
	})
	if err != nil {
		return nil, errors.Wrap(err, "compute stats")
	}
	if stats.TagCounts == nil {
		stats.TagCounts = []types.TagCount{}
	}
	stats.TotalTags = len(stats.TagCounts)
	return &stats, nil
}

// TagStats returns how many active prompts carry each tag, most used first,
// ties broken by tag name.
func (r *Registry) TagStats(ctx context.Context) ([]types.TagCount, error) {
	var counts []types.TagCount
	err := r.store.Read(ctx, func(tx Tx) error {
		var err error
		counts, err = tx.TagCounts()
		return err
	})
	if err != nil {
		return nil, errors.Wrap(err, "tag stats")
	}
	if counts == nil {
		counts = []types.TagCount{}
	}
	return counts, nil
}
