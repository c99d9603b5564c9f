package cue_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/cuebit/cue/types"
	"github.com/teranos/cuebit/errors"
)

func TestRollbackExtendsHistory(t *testing.T) {
	reg := newRegistry(t)
	ctx := context.Background()

	v1, err := reg.Register(ctx, types.RegisterInput{
		Project:  "content",
		Task:     "summarize",
		Template: "Summarize {text}",
		Tags:     []string{"prod"},
		Meta:     types.Meta{"model": "small"},
	})
	require.NoError(t, err)
	v2, err := reg.Update(ctx, v1.PromptID, types.UpdateInput{
		Template: "Condense {text}",
		Tags:     []string{"beta"},
		Meta:     types.Meta{"model": "large"},
	})
	require.NoError(t, err)

	v3, err := reg.Rollback(ctx, v1.PromptID, "carol")
	require.NoError(t, err)
	assert.Equal(t, 3, v3.Version)
	assert.Equal(t, v1.Template, v3.Template)
	assert.Equal(t, v1.PromptID, v3.ParentID)
	assert.Equal(t, v1.Tags, v3.Tags)
	assert.Equal(t, v1.Meta, v3.Meta)
	assert.Equal(t, "carol", v3.UpdatedBy)

	history, err := reg.History(ctx, "content", "summarize", false)
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.Equal(t, []string{v1.PromptID, v2.PromptID, v3.PromptID},
		[]string{history[0].Prompt.PromptID, history[1].Prompt.PromptID, history[2].Prompt.PromptID})
	assert.Nil(t, history[0].Parent)
	require.NotNil(t, history[1].Parent)
	assert.Equal(t, v1.PromptID, history[1].Parent.PromptID)
	require.NotNil(t, history[2].Parent)
	assert.Equal(t, 1, history[2].Parent.Version)
}

func TestRollbackMissing(t *testing.T) {
	reg := newRegistry(t)

	_, err := reg.Rollback(context.Background(), "missing", "")
	assert.True(t, errors.IsNotFoundError(err))
}

func TestHistoryFiltersDeleted(t *testing.T) {
	reg := newRegistry(t)
	ctx := context.Background()

	v1 := register(t, reg, "", "classify", "one {x}")
	v2 := update(t, reg, v1.PromptID, "two {x}")
	_, err := reg.SoftDelete(ctx, v2.PromptID, "")
	require.NoError(t, err)

	active, err := reg.History(ctx, types.UnassignedProject, "classify", false)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, v1.PromptID, active[0].Prompt.PromptID)

	all, err := reg.History(ctx, "", "classify", true)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	none, err := reg.History(ctx, "content", "unknown", true)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestLineageAncestorsAndDescendants(t *testing.T) {
	reg := newRegistry(t)
	ctx := context.Background()

	v1 := register(t, reg, "content", "summarize", "one {x}")
	v2 := update(t, reg, v1.PromptID, "two {x}")
	v3 := update(t, reg, v2.PromptID, "three {x}")

	lineage, err := reg.Lineage(ctx, v2.PromptID, false)
	require.NoError(t, err)
	assert.Equal(t, v2.PromptID, lineage.Current.PromptID)
	assert.Equal(t, []string{v1.PromptID}, ids(lineage.Ancestors))
	assert.Equal(t, []string{v3.PromptID}, ids(lineage.Descendants))

	root, err := reg.Lineage(ctx, v1.PromptID, false)
	require.NoError(t, err)
	assert.Empty(t, root.Ancestors)
	assert.Equal(t, []string{v2.PromptID, v3.PromptID}, ids(root.Descendants))
}

func TestLineageBranches(t *testing.T) {
	reg := newRegistry(t)
	ctx := context.Background()

	v1 := register(t, reg, "content", "summarize", "one {x}")
	v2 := update(t, reg, v1.PromptID, "two {x}")
	v3 := update(t, reg, v1.PromptID, "branch {x}")
	sibling := register(t, reg, "content", "summarize", "unrelated root {x}")

	lineage, err := reg.Lineage(ctx, v2.PromptID, false)
	require.NoError(t, err)
	assert.Equal(t, []string{v1.PromptID}, ids(lineage.Ancestors))
	assert.Empty(t, lineage.Descendants)

	root, err := reg.Lineage(ctx, v1.PromptID, false)
	require.NoError(t, err)
	assert.Equal(t, []string{v2.PromptID, v3.PromptID}, ids(root.Descendants))
	assert.NotContains(t, ids(root.Descendants), sibling.PromptID)
}

func TestLineageThroughDeletedVersions(t *testing.T) {
	reg := newRegistry(t)
	ctx := context.Background()

	v1 := register(t, reg, "content", "summarize", "one {x}")
	v2 := update(t, reg, v1.PromptID, "two {x}")
	v3 := update(t, reg, v2.PromptID, "three {x}")
	_, err := reg.SoftDelete(ctx, v2.PromptID, "")
	require.NoError(t, err)

	lineage, err := reg.Lineage(ctx, v3.PromptID, false)
	require.NoError(t, err)
	assert.Equal(t, []string{v1.PromptID}, ids(lineage.Ancestors))

	withDeleted, err := reg.Lineage(ctx, v3.PromptID, true)
	require.NoError(t, err)
	assert.Equal(t, []string{v1.PromptID, v2.PromptID}, ids(withDeleted.Ancestors))

	_, err = reg.Lineage(ctx, v2.PromptID, false)
	assert.True(t, errors.IsNotFoundError(err))

	fromV1, err := reg.Lineage(ctx, v1.PromptID, false)
	require.NoError(t, err)
	assert.Equal(t, []string{v3.PromptID}, ids(fromV1.Descendants))
}
