// Package sym defines canonical glyphs for cuebit operations and system markers.
// These glyphs are stable across CLI output and structured logs.
package sym

// Registry operation glyphs.
const (
	AM      = "≡" // am: configuration and system settings
	Prompt  = "▤" // prompt records and templates
	Version = "⋯" // version chain: register, update, rollback
	Alias   = "⌬" // alias assignment and resolution
	Lineage = "⟶" // ancestry and history
	Search  = "⊨" // search and listing
	Delete  = "⊘" // soft and hard deletion
	Port    = "⨳" // import and export
)

// System infrastructure symbols.
const (
	DB = "⊔" // database/storage layer
)

// SymbolToCommand maps glyph strings to their CLI command equivalents.
var SymbolToCommand = map[string]string{
	AM:     "am",
	Prompt: "prompt",
	Search: "search",
	Delete: "delete",
	Port:   "export",
	DB:     "db",
}

// CommandToSymbol maps CLI commands to their canonical glyph strings.
var CommandToSymbol = map[string]string{
	"am":     AM,
	"prompt": Prompt,
	"search": Search,
	"delete": Delete,
	"export": Port,
	"db":     DB,
}

// CommandDescriptions provides human-readable explanations for help output.
var CommandDescriptions = map[string]string{
	"am":     "Configuration — System settings and state",
	"prompt": "Prompts — Versioned templates grouped by project and task",
	"search": "Discovery — Text search across task, template and meta",
	"delete": "Removal — Soft delete by id, project or task",
	"export": "Portability — Move the full record set in and out",
	"db":     "Database — Storage maintenance",
}
