package diff

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/cuebit/cue/types"
)

func TestLines(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want []string
	}{
		{
			name: "identical",
			a:    "one\ntwo",
			b:    "one\ntwo",
			want: []string{"  one", "  two"},
		},
		{
			name: "replaced line",
			a:    "Summarize: {text}\nBe brief.",
			b:    "Summarize: {text}\nBe thorough.",
			want: []string{"  Summarize: {text}", "- Be brief.", "+ Be thorough."},
		},
		{
			name: "insert and delete",
			a:    "a\nb\nc",
			b:    "a\nc\nd",
			want: []string{"  a", "- b", "  c", "+ d"},
		},
		{
			name: "from empty",
			a:    "",
			b:    "new",
			want: []string{"+ new"},
		},
		{
			name: "trailing newline ignored",
			a:    "x\n",
			b:    "x",
			want: []string{"  x"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, Lines(tt.a, tt.b)); diff != "" {
				t.Errorf("Lines() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestMeta(t *testing.T) {
	a := types.Meta{"model": "gpt-4", "temperature": 0.2, "owner": "ops"}
	b := types.Meta{"model": "gpt-4o", "temperature": 0.2, "max_tokens": float64(500)}

	want := types.MetaChanges{
		Added:   map[string]interface{}{"max_tokens": float64(500)},
		Removed: map[string]interface{}{"owner": "ops"},
		Changed: map[string]types.ValueChange{"model": {From: "gpt-4", To: "gpt-4o"}},
	}
	if diff := cmp.Diff(want, Meta(a, b)); diff != "" {
		t.Errorf("Meta() mismatch (-want +got):\n%s", diff)
	}

	empty := Meta(nil, nil)
	assert.Empty(t, empty.Added)
	assert.Empty(t, empty.Removed)
	assert.Empty(t, empty.Changed)
}

func TestTags(t *testing.T) {
	changes := Tags(types.NewTags("prod", "chat"), types.NewTags("chat", "beta"))
	assert.Equal(t, types.Tags{"beta"}, changes.Added)
	assert.Equal(t, types.Tags{"prod"}, changes.Removed)
}

func TestCompare(t *testing.T) {
	from := &types.Prompt{PromptID: "p1", Version: 1, Template: "Hi {name}", Tags: types.NewTags("a")}
	to := &types.Prompt{PromptID: "p2", Version: 2, Template: "Hello {name}", Tags: types.NewTags("a"), Meta: types.Meta{"k": "v"}}

	c := Compare(from, to)
	assert.Equal(t, "p1", c.From.PromptID)
	assert.Equal(t, 2, c.To.Version)
	assert.Equal(t, []string{"- Hi {name}", "+ Hello {name}"}, c.TemplateDiff)
	assert.Equal(t, map[string]interface{}{"k": "v"}, c.MetaChanges.Added)
	assert.False(t, c.Identical())

	same := Compare(from, from)
	assert.True(t, same.Identical())
}

func TestUnified(t *testing.T) {
	out, err := Unified("a\nb\n", "a\nc\n", "v1", "v2")
	require.NoError(t, err)
	assert.Contains(t, out, "--- v1")
	assert.Contains(t, out, "+++ v2")
	assert.Contains(t, out, "-b")
	assert.Contains(t, out, "+c")
}
