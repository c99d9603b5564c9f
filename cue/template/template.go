// Package template validates and renders prompt templates.
// A placeholder is a name in single braces: {name}. Names start with a letter
// or underscore and continue with letters, digits or underscores.
package template

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/teranos/cuebit/cue/types"
)

var placeholderPattern = regexp.MustCompile(`\{([a-zA-Z_][a-zA-Z0-9_]*)\}`)

// Warning texts
const (
	WarnNoVariables = "no variables found in template"
)

// ExtractVariables returns the distinct placeholder names in first-seen order.
// For example, "{b} {a} {b}" returns ["b", "a"].
func ExtractVariables(text string) []string {
	vars := []string{}
	seen := make(map[string]bool)
	for _, match := range placeholderPattern.FindAllStringSubmatch(text, -1) {
		name := match[1]
		if !seen[name] {
			seen[name] = true
			vars = append(vars, name)
		}
	}
	return vars
}

// Validate checks text for structurally unbalanced braces and reports its variables.
// Only unbalanced braces make a template invalid; everything else is a warning.
func Validate(text string) types.Validation {
	result := types.Validation{
		IsValid:   true,
		Variables: ExtractVariables(text),
		Warnings:  []string{},
	}

	// Braces nest; only innermost pairs are read as placeholders.
	type brace struct {
		pos    int
		nested bool
	}
	var open []brace
	for i, r := range text {
		switch r {
		case '{':
			if len(open) > 0 {
				open[len(open)-1].nested = true
			}
			open = append(open, brace{pos: i})
		case '}':
			if len(open) == 0 {
				result.IsValid = false
				result.Warnings = append(result.Warnings, fmt.Sprintf("unmatched '}' at position %d", i))
				continue
			}
			b := open[len(open)-1]
			open = open[:len(open)-1]
			if b.nested {
				continue
			}
			if name := text[b.pos+1 : i]; !placeholderPattern.MatchString("{" + name + "}") {
				if strings.TrimSpace(name) == "" {
					result.Warnings = append(result.Warnings, fmt.Sprintf("empty placeholder at position %d", b.pos))
				} else {
					result.Warnings = append(result.Warnings, fmt.Sprintf("invalid placeholder name %q at position %d", name, b.pos))
				}
			}
		}
	}
	for _, b := range open {
		result.IsValid = false
		result.Warnings = append(result.Warnings, fmt.Sprintf("unclosed '{' at position %d", b.pos))
	}

	if len(result.Variables) == 0 {
		result.Warnings = append(result.Warnings, WarnNoVariables)
	}

	counts := make(map[string]int)
	for _, match := range placeholderPattern.FindAllStringSubmatch(text, -1) {
		counts[match[1]]++
	}
	for _, name := range result.Variables {
		if counts[name] > 1 {
			result.Warnings = append(result.Warnings, fmt.Sprintf("variable %q appears %d times", name, counts[name]))
		}
	}

	return result
}

// Render substitutes every placeholder with its value from vars.
// Placeholders without a value are left as written and returned in missing,
// distinct and in first-seen order.
func Render(text string, vars map[string]string) (rendered string, missing []string) {
	seen := make(map[string]bool)
	rendered = placeholderPattern.ReplaceAllStringFunc(text, func(placeholder string) string {
		name := placeholder[1 : len(placeholder)-1]
		if value, ok := vars[name]; ok {
			return value
		}
		if !seen[name] {
			seen[name] = true
			missing = append(missing, name)
		}
		return placeholder
	})
	return rendered, missing
}
