package cue_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/cuebit/cue"
	"github.com/teranos/cuebit/cue/types"
	"github.com/teranos/cuebit/errors"
)

func listAll(t *testing.T, reg *cue.Registry, includeDeleted bool) []string {
	t.Helper()
	page, err := reg.List(context.Background(), types.Query{Page: 1, PageSize: 100, IncludeDeleted: includeDeleted})
	require.NoError(t, err)
	return ids(page.Items)
}

func TestSoftDeleteRoundTrip(t *testing.T) {
	reg := newRegistry(t)
	ctx := context.Background()

	p := register(t, reg, "content", "summarize", "A {x}")
	other := register(t, reg, "content", "translate", "B {x}")

	marked, err := reg.SoftDelete(ctx, p.PromptID, "bob")
	require.NoError(t, err)
	assert.True(t, marked)

	again, err := reg.SoftDelete(ctx, p.PromptID, "bob")
	require.NoError(t, err)
	assert.False(t, again, "already deleted")

	assert.Equal(t, []string{other.PromptID}, listAll(t, reg, false))
	assert.Equal(t, []string{p.PromptID, other.PromptID}, listAll(t, reg, true))

	restored, err := reg.Restore(ctx, p.PromptID)
	require.NoError(t, err)
	assert.True(t, restored)
	assert.Equal(t, []string{p.PromptID, other.PromptID}, listAll(t, reg, false))

	got, err := reg.Get(ctx, p.PromptID, false)
	require.NoError(t, err)
	assert.False(t, got.Deleted)
	assert.Nil(t, got.DeletedAt)
	assert.Empty(t, got.DeletedBy)

	restored, err = reg.Restore(ctx, p.PromptID)
	require.NoError(t, err)
	assert.False(t, restored, "not deleted")
}

func TestSoftDeleteAndRestoreMissing(t *testing.T) {
	reg := newRegistry(t)
	ctx := context.Background()

	marked, err := reg.SoftDelete(ctx, "missing", "")
	require.NoError(t, err)
	assert.False(t, marked)

	restored, err := reg.Restore(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, restored)
}

func TestRestoreDropsAliasTakenMeanwhile(t *testing.T) {
	reg := newRegistry(t)
	ctx := context.Background()

	a := register(t, reg, "content", "summarize", "A {x}")
	b := register(t, reg, "content", "translate", "B {x}")

	_, err := reg.SetAlias(ctx, a.PromptID, "x", false)
	require.NoError(t, err)
	_, err = reg.SoftDelete(ctx, a.PromptID, "")
	require.NoError(t, err)
	_, err = reg.SetAlias(ctx, b.PromptID, "x", false)
	require.NoError(t, err)

	restored, err := reg.Restore(ctx, a.PromptID)
	require.NoError(t, err)
	assert.True(t, restored)

	got, err := reg.Get(ctx, a.PromptID, false)
	require.NoError(t, err)
	assert.Empty(t, got.Alias)

	resolved, err := reg.ResolveAlias(ctx, "x")
	require.NoError(t, err)
	assert.Equal(t, b.PromptID, resolved.PromptID)
}

func TestRestoreKeepsFreeAlias(t *testing.T) {
	reg := newRegistry(t)
	ctx := context.Background()

	a := register(t, reg, "content", "summarize", "A {x}")
	_, err := reg.SetAlias(ctx, a.PromptID, "x", false)
	require.NoError(t, err)
	_, err = reg.SoftDelete(ctx, a.PromptID, "")
	require.NoError(t, err)
	_, err = reg.Restore(ctx, a.PromptID)
	require.NoError(t, err)

	resolved, err := reg.ResolveAlias(ctx, "x")
	require.NoError(t, err)
	assert.Equal(t, a.PromptID, resolved.PromptID)
}

func TestBulkTag(t *testing.T) {
	reg := newRegistry(t)
	ctx := context.Background()

	a := register(t, reg, "content", "summarize", "A {x}", "prod")
	b := register(t, reg, "content", "translate", "B {x}", "beta", "prod")

	tests := []struct {
		name  string
		op    types.BulkTagOp
		tags  []string
		wantA types.Tags
		wantB types.Tags
	}{
		{"add", types.BulkTagAdd, []string{"reviewed"}, types.Tags{"prod", "reviewed"}, types.Tags{"beta", "prod", "reviewed"}},
		{"remove", types.BulkTagRemove, []string{"prod"}, types.Tags{"reviewed"}, types.Tags{"beta", "reviewed"}},
		{"set", types.BulkTagSet, []string{"final"}, types.Tags{"final"}, types.Tags{"final"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, err := reg.BulkTag(ctx, []string{a.PromptID, "missing", b.PromptID, a.PromptID}, tt.tags, tt.op)
			require.NoError(t, err)
			assert.Equal(t, 2, n)

			gotA, err := reg.Get(ctx, a.PromptID, false)
			require.NoError(t, err)
			assert.Equal(t, tt.wantA, gotA.Tags)

			gotB, err := reg.Get(ctx, b.PromptID, false)
			require.NoError(t, err)
			assert.Equal(t, tt.wantB, gotB.Tags)
		})
	}

	_, err := reg.BulkTag(ctx, []string{a.PromptID}, []string{"x"}, types.BulkTagOp("merge"))
	assert.True(t, errors.IsValidationError(err))
}

func TestHardDelete(t *testing.T) {
	reg := newRegistry(t)
	ctx := context.Background()

	p := register(t, reg, "content", "summarize", "A {x}")
	_, err := reg.AddExample(ctx, p.PromptID, types.ExampleInput{Input: "i", Output: "o"})
	require.NoError(t, err)

	removed, err := reg.HardDelete(ctx, p.PromptID)
	require.NoError(t, err)
	assert.True(t, removed)

	_, err = reg.Get(ctx, p.PromptID, true)
	assert.True(t, errors.IsNotFoundError(err))

	removed, err = reg.HardDelete(ctx, p.PromptID)
	require.NoError(t, err)
	assert.False(t, removed)

	stats, err := reg.Stats(ctx)
	require.NoError(t, err)
	assert.Zero(t, stats.TotalExamples)
}

func TestDeleteByProjectScopes(t *testing.T) {
	reg := newRegistry(t)
	ctx := context.Background()

	a1 := register(t, reg, "content", "summarize", "A {x}")
	update(t, reg, a1.PromptID, "A2 {x}")
	register(t, reg, "content", "translate", "B {x}")
	c := register(t, reg, "", "classify", "C {x}")
	d := register(t, reg, "other", "summarize", "D {x}")

	n, err := reg.SoftDeleteByProjectTask(ctx, "content", "summarize", "ops")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = reg.SoftDeleteByProject(ctx, "content", "ops")
	require.NoError(t, err)
	assert.Equal(t, 1, n, "only rows still active are counted")
	assert.Equal(t, []string{c.PromptID, d.PromptID}, listAll(t, reg, false))

	n, err = reg.HardDeleteByProjectTask(ctx, "content", "summarize")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = reg.HardDeleteByProject(ctx, types.UnassignedProject)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	n, err = reg.HardDeleteByProject(ctx, "content")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, []string{d.PromptID}, listAll(t, reg, true))

	_, err = reg.HardDeleteByProjectTask(ctx, "content", " ")
	assert.True(t, errors.IsValidationError(err))
	_, err = reg.SoftDeleteByProjectTask(ctx, "content", "", "")
	assert.True(t, errors.IsValidationError(err))
}

func TestWritesCountOnlyTheCommittedAttempt(t *testing.T) {
	reg := newReplayRegistry(t)
	ctx := context.Background()

	a := register(t, reg, "content", "summarize", "A {x}")
	b := register(t, reg, "content", "translate", "B {x}")
	c := register(t, reg, "content", "classify", "C {x}")

	n, err := reg.BulkTag(ctx, []string{a.PromptID, b.PromptID}, []string{"prod"}, types.BulkTagAdd)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	_, err = reg.SetAlias(ctx, a.PromptID, "live", false)
	require.NoError(t, err)
	moved, err := reg.SetAlias(ctx, b.PromptID, "live", true)
	require.NoError(t, err)
	assert.Equal(t, "live", moved.Alias)

	marked, err := reg.SoftDelete(ctx, c.PromptID, "bob")
	require.NoError(t, err)
	assert.True(t, marked)

	restored, err := reg.Restore(ctx, c.PromptID)
	require.NoError(t, err)
	assert.True(t, restored)

	deleted, err := reg.SoftDeleteByProject(ctx, "content", "bob")
	require.NoError(t, err)
	assert.Equal(t, 3, deleted)
}
