package sym

import (
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var allGlyphs = map[string]string{
	"AM":      AM,
	"Prompt":  Prompt,
	"Version": Version,
	"Alias":   Alias,
	"Lineage": Lineage,
	"Search":  Search,
	"Delete":  Delete,
	"Port":    Port,
	"DB":      DB,
}

func TestGlyphs(t *testing.T) {
	seen := make(map[string]string, len(allGlyphs))
	for name, glyph := range allGlyphs {
		assert.Equal(t, 1, utf8.RuneCountInString(glyph), "%s glyph %q", name, glyph)
		if prev, dup := seen[glyph]; dup {
			t.Errorf("%s and %s share glyph %q", prev, name, glyph)
		}
		seen[glyph] = name
	}
}

func TestCommandMapsRoundTrip(t *testing.T) {
	require.Len(t, SymbolToCommand, len(CommandToSymbol))

	for command, glyph := range CommandToSymbol {
		t.Run(command, func(t *testing.T) {
			assert.Equal(t, command, SymbolToCommand[glyph])
			assert.NotEmpty(t, CommandDescriptions[command])
		})
	}
}

func TestCommandDescriptionsHaveNoStrays(t *testing.T) {
	for command := range CommandDescriptions {
		_, ok := CommandToSymbol[command]
		assert.True(t, ok, "description for %q has no glyph", command)
	}
}

func TestTopLevelCommands(t *testing.T) {
	tests := map[string]string{
		"am":     AM,
		"prompt": Prompt,
		"search": Search,
		"delete": Delete,
		"export": Port,
		"db":     DB,
	}
	assert.Equal(t, tests, CommandToSymbol)
}
