package cue_test

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/cuebit/cue/types"
	"github.com/teranos/cuebit/errors"
)

func TestCompareVersions(t *testing.T) {
	reg := newRegistry(t)
	ctx := context.Background()

	v1, err := reg.Register(ctx, types.RegisterInput{
		Project:  "content",
		Task:     "summarize",
		Template: "You are helpful.\nSummarize {text}",
		Tags:     []string{"prod", "old"},
		Meta:     types.Meta{"model": "small", "owner": "docs"},
	})
	require.NoError(t, err)
	v2, err := reg.Update(ctx, v1.PromptID, types.UpdateInput{
		Template: "You are helpful.\nCondense {text}",
		Tags:     []string{"prod", "new"},
		Meta:     types.Meta{"model": "large", "team": "ml"},
	})
	require.NoError(t, err)
	_, err = reg.SoftDelete(ctx, v1.PromptID, "")
	require.NoError(t, err)

	c, err := reg.Compare(ctx, v1.PromptID, v2.PromptID)
	require.NoError(t, err)

	want := []string{"  You are helpful.", "- Summarize {text}", "+ Condense {text}"}
	if diff := cmp.Diff(want, c.TemplateDiff); diff != "" {
		t.Errorf("template diff mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, map[string]interface{}{"team": "ml"}, c.MetaChanges.Added)
	assert.Equal(t, map[string]interface{}{"owner": "docs"}, c.MetaChanges.Removed)
	assert.Equal(t, types.ValueChange{From: "small", To: "large"}, c.MetaChanges.Changed["model"])
	assert.Equal(t, types.Tags{"new"}, c.TagsChanges.Added)
	assert.Equal(t, types.Tags{"old"}, c.TagsChanges.Removed)
	assert.Equal(t, 1, c.From.Version)
	assert.Equal(t, 2, c.To.Version)
	assert.False(t, c.Identical())

	same, err := reg.Compare(ctx, v2.PromptID, v2.PromptID)
	require.NoError(t, err)
	assert.True(t, same.Identical())

	_, err = reg.Compare(ctx, v1.PromptID, "missing")
	assert.True(t, errors.IsNotFoundError(err))
}

func TestRender(t *testing.T) {
	reg := newRegistry(t)
	ctx := context.Background()

	p := register(t, reg, "", "echo", "Echo: {input}")

	out, err := reg.Render(ctx, p.PromptID, map[string]string{"input": "hello"})
	require.NoError(t, err)
	assert.Equal(t, "Echo: hello", out)

	for i := 0; i < 2; i++ {
		out, err = reg.Render(ctx, p.PromptID, nil)
		require.NoError(t, err)
		assert.Equal(t, "Echo: {input}", out, "missing variables pass through literally")
	}

	_, err = reg.SoftDelete(ctx, p.PromptID, "")
	require.NoError(t, err)
	_, err = reg.Render(ctx, p.PromptID, map[string]string{"input": "hello"})
	assert.True(t, errors.IsNotFoundError(err))
}

func TestValidate(t *testing.T) {
	reg := newRegistry(t)

	v := reg.Validate("{a} and {b")
	assert.False(t, v.IsValid)
	assert.Equal(t, []string{"a"}, v.Variables)
	require.NotEmpty(t, v.Warnings)
	assert.Contains(t, v.Warnings[0], "unclosed '{'")

	ok := reg.Validate("{a} and {b}")
	assert.True(t, ok.IsValid)
	assert.Equal(t, []string{"a", "b"}, ok.Variables)
}

func TestExamples(t *testing.T) {
	reg := newRegistry(t)
	ctx := context.Background()

	p := register(t, reg, "content", "summarize", "Summarize {text}")

	first, err := reg.AddExample(ctx, p.PromptID, types.ExampleInput{Input: "a", Output: "b", Description: "first"})
	require.NoError(t, err)
	assert.NotEmpty(t, first.ID)
	_, err = reg.AddExample(ctx, p.PromptID, types.ExampleInput{Input: "c", Output: "d"})
	require.NoError(t, err)

	examples, err := reg.Examples(ctx, p.PromptID)
	require.NoError(t, err)
	require.Len(t, examples, 2)
	assert.Equal(t, first.ID, examples[0].ID)
	assert.Equal(t, "first", examples[0].Description)
	assert.Equal(t, "c", examples[1].Input)

	_, err = reg.AddExample(ctx, "missing", types.ExampleInput{Input: "a", Output: "b"})
	assert.True(t, errors.IsNotFoundError(err))
	_, err = reg.AddExample(ctx, p.PromptID, types.ExampleInput{Input: "a"})
	assert.True(t, errors.IsValidationError(err))
	_, err = reg.Examples(ctx, "missing")
	assert.True(t, errors.IsNotFoundError(err))
}

func TestStats(t *testing.T) {
	reg := newRegistry(t)
	ctx := context.Background()

	empty, err := reg.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, types.Stats{TagCounts: []types.TagCount{}}, *empty)

	a := register(t, reg, "content", "summarize", "A {x}", "prod", "beta")
	register(t, reg, "content", "translate", "B {x}", "beta")
	c := register(t, reg, "", "classify", "C {x}", "legacy")
	_, err = reg.SetAlias(ctx, a.PromptID, "sum", false)
	require.NoError(t, err)
	_, err = reg.AddExample(ctx, a.PromptID, types.ExampleInput{Input: "i", Output: "o"})
	require.NoError(t, err)
	_, err = reg.SoftDelete(ctx, c.PromptID, "")
	require.NoError(t, err)

	stats, err := reg.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.TotalPrompts)
	assert.Equal(t, 2, stats.ActivePrompts)
	assert.Equal(t, 1, stats.DeletedPrompts)
	assert.Equal(t, 2, stats.TotalProjects)
	assert.Equal(t, 1, stats.PromptsWithAliases)
	assert.Equal(t, 1, stats.TotalExamples)
	assert.Equal(t, 2, stats.TotalTags)
	assert.Equal(t, []types.TagCount{{Tag: "beta", Count: 2}, {Tag: "prod", Count: 1}}, stats.TagCounts)

	tags, err := reg.TagStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, stats.TagCounts, tags)
}
