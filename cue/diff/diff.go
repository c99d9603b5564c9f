// Package diff compares two prompt versions.
package diff

import (
	"reflect"
	"strings"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/teranos/cuebit/cue/types"
)

// Line markers, two characters wide.
const (
	MarkUnchanged = "  "
	MarkRemoved   = "- "
	MarkAdded     = "+ "
)

// Compare returns the template, meta and tag differences from one version to another.
func Compare(from, to *types.Prompt) types.Comparison {
	return types.Comparison{
		From:         from.Summary(),
		To:           to.Summary(),
		TemplateDiff: Lines(from.Template, to.Template),
		MetaChanges:  Meta(from.Meta, to.Meta),
		TagsChanges:  Tags(from.Tags, to.Tags),
	}
}

// Lines returns a line-level diff of a and b. Every line of both inputs appears
// once, prefixed with MarkUnchanged, MarkRemoved or MarkAdded. Within a replaced
// block the removed lines come first.
func Lines(a, b string) []string {
	aLines := splitLines(a)
	bLines := splitLines(b)

	matcher := difflib.NewMatcher(aLines, bLines)
	out := make([]string, 0, len(aLines)+len(bLines))
	for _, op := range matcher.GetOpCodes() {
		switch op.Tag {
		case 'e':
			out = appendMarked(out, MarkUnchanged, aLines[op.I1:op.I2])
		case 'd':
			out = appendMarked(out, MarkRemoved, aLines[op.I1:op.I2])
		case 'i':
			out = appendMarked(out, MarkAdded, bLines[op.J1:op.J2])
		case 'r':
			out = appendMarked(out, MarkRemoved, aLines[op.I1:op.I2])
			out = appendMarked(out, MarkAdded, bLines[op.J1:op.J2])
		}
	}
	return out
}

// Unified returns a unified diff of a and b, labelled with the given names.
func Unified(a, b, fromName, toName string) (string, error) {
	return difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(a),
		B:        difflib.SplitLines(b),
		FromFile: fromName,
		ToFile:   toName,
		Context:  3,
	})
}

func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(strings.TrimSuffix(s, "\n"), "\n")
}

func appendMarked(out []string, mark string, lines []string) []string {
	for _, line := range lines {
		out = append(out, mark+line)
	}
	return out
}

// Meta returns the keys added, removed and changed from a to b.
func Meta(a, b types.Meta) types.MetaChanges {
	changes := types.MetaChanges{
		Added:   map[string]interface{}{},
		Removed: map[string]interface{}{},
		Changed: map[string]types.ValueChange{},
	}
	for k, av := range a {
		bv, ok := b[k]
		switch {
		case !ok:
			changes.Removed[k] = av
		case !reflect.DeepEqual(av, bv):
			changes.Changed[k] = types.ValueChange{From: av, To: bv}
		}
	}
	for k, bv := range b {
		if _, ok := a[k]; !ok {
			changes.Added[k] = bv
		}
	}
	return changes
}

// Tags returns the tags gained and lost from a to b.
func Tags(a, b types.Tags) types.TagChanges {
	return types.TagChanges{
		Added:   b.Without(a),
		Removed: a.Without(b),
	}
}
