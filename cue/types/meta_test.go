package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetaClone(t *testing.T) {
	original := Meta{
		"model":  "gpt",
		"params": map[string]interface{}{"temperature": 0.2},
		"stops":  []interface{}{"\n"},
	}

	clone := original.Clone()
	clone["model"] = "other"
	clone["params"].(map[string]interface{})["temperature"] = 0.9
	clone["stops"].([]interface{})[0] = "END"

	assert.Equal(t, "gpt", original["model"])
	assert.Equal(t, 0.2, original["params"].(map[string]interface{})["temperature"])
	assert.Equal(t, "\n", original["stops"].([]interface{})[0])

	assert.Nil(t, Meta(nil).Clone())
}

func TestMetaJSON(t *testing.T) {
	data, err := json.Marshal(Meta(nil))
	require.NoError(t, err)
	assert.JSONEq(t, `{}`, string(data))

	data, err = json.Marshal(Meta{"k": 1})
	require.NoError(t, err)
	assert.JSONEq(t, `{"k":1}`, string(data))
}

func TestQueryAndPage(t *testing.T) {
	assert.Equal(t, 0, Query{Page: 1, PageSize: 10}.Offset())
	assert.Equal(t, 20, Query{Page: 3, PageSize: 10}.Offset())

	assert.Equal(t, 3, Page{Total: 25, PageSize: 10}.TotalPages())
	assert.Equal(t, 0, Page{Total: 0, PageSize: 10}.TotalPages())
}

func TestPromptHelpers(t *testing.T) {
	p := Prompt{PromptID: "p1", Version: 1}
	assert.True(t, p.IsRoot())
	assert.Equal(t, UnassignedProject, p.ProjectLabel())

	p.Project = "chat"
	p.ParentID = "p0"
	assert.False(t, p.IsRoot())
	assert.Equal(t, "chat", p.ProjectLabel())
	assert.Equal(t, "p1", p.Summary().PromptID)
}

func TestComparisonIdentical(t *testing.T) {
	c := Comparison{TemplateDiff: []string{"  same"}}
	assert.True(t, c.Identical())

	c.TemplateDiff = append(c.TemplateDiff, "+ added")
	assert.False(t, c.Identical())

	c = Comparison{TagsChanges: TagChanges{Added: Tags{"x"}}}
	assert.False(t, c.Identical())
}
