package types

import (
	"encoding/json"
	"slices"
	"sort"
	"strings"
)

// Tags is a normalized tag set: trimmed, non-empty, unique and sorted.
// Build one with NewTags; the zero value is the empty set.
type Tags []string

// NewTags normalizes raw into a Tags set.
func NewTags(raw ...string) Tags {
	if len(raw) == 0 {
		return Tags{}
	}
	seen := make(map[string]struct{}, len(raw))
	out := make(Tags, 0, len(raw))
	for _, t := range raw {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// Contains reports whether tag is in the set.
func (t Tags) Contains(tag string) bool {
	_, found := slices.BinarySearch(t, tag)
	return found
}

// ContainsAll reports whether every tag in other is in the set.
func (t Tags) ContainsAll(other Tags) bool {
	for _, tag := range other {
		if !t.Contains(tag) {
			return false
		}
	}
	return true
}

// Union returns the tags in either set.
func (t Tags) Union(other Tags) Tags {
	merged := make([]string, 0, len(t)+len(other))
	merged = append(merged, t...)
	merged = append(merged, other...)
	return NewTags(merged...)
}

// Without returns the tags in t that are not in other.
func (t Tags) Without(other Tags) Tags {
	out := make(Tags, 0, len(t))
	for _, tag := range t {
		if !other.Contains(tag) {
			out = append(out, tag)
		}
	}
	return out
}

// Equal reports whether both sets hold the same tags.
func (t Tags) Equal(other Tags) bool {
	return slices.Equal(t, other)
}

// MarshalJSON encodes the empty set as [] rather than null.
func (t Tags) MarshalJSON() ([]byte, error) {
	if t == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]string(t))
}

// UnmarshalJSON decodes an array and normalizes it.
func (t *Tags) UnmarshalJSON(data []byte) error {
	var raw []string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*t = NewTags(raw...)
	return nil
}

// UnmarshalYAML decodes a sequence and normalizes it.
func (t *Tags) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var raw []string
	if err := unmarshal(&raw); err != nil {
		return err
	}
	*t = NewTags(raw...)
	return nil
}
