// Package language maps fence info-strings to comment style families.
//
// The table is many-to-one and total: every tag resolves to exactly one
// Family, with unknown tags resolving to None.
package language

import (
	"fmt"
	"sort"
	"strings"
)

// Family is the category of comment syntax a language uses.
type Family int

const (
	// None means the language has no known comment syntax.
	None Family = iota
	// BraceStyle is // line and /* */ block comments.
	BraceStyle
	// HashStyle is # line comments.
	HashStyle
	// DashStyle is -- line comments.
	DashStyle
	// HTMLStyle is <!-- --> block comments.
	HTMLStyle
	// BatchStyle is REM line comments.
	BatchStyle
)

func (f Family) String() string {
	switch f {
	case BraceStyle:
		return "brace"
	case HashStyle:
		return "hash"
	case DashStyle:
		return "dash"
	case HTMLStyle:
		return "html"
	case BatchStyle:
		return "batch"
	default:
		return "none"
	}
}

// ParseFamily converts a family name ("brace", "hash", ...) to a Family.
func ParseFamily(name string) (Family, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "brace":
		return BraceStyle, nil
	case "hash":
		return HashStyle, nil
	case "dash":
		return DashStyle, nil
	case "html":
		return HTMLStyle, nil
	case "batch":
		return BatchStyle, nil
	case "none":
		return None, nil
	default:
		return None, fmt.Errorf("unknown comment family %q (must be brace, hash, dash, html, batch, or none)", name)
	}
}

// Mode selects line or block commenting.
type Mode int

const (
	// Line puts a marker at the start of every line.
	Line Mode = iota
	// Block wraps the whole selection in one marker pair.
	Block
)

func (m Mode) String() string {
	if m == Block {
		return "block"
	}
	return "line"
}

// Templater is the pseudo-tag used for templating blocks.
const Templater = "templater"

// Empty is the tag an untagged fence normalizes to.
const Empty = "empty"

// Binding is what a single tag resolves to.
type Binding struct {
	Family Family
	// Only restricts the language to a single mode when set.
	Only *Mode
	// Coerce makes a request for the other mode use Only instead of being refused.
	Coerce bool
}

func only(m Mode) *Mode { return &m }

// defaultBindings is the built-in tag table.
var defaultBindings = map[string]Binding{
	// C-like languages
	"c": {Family: BraceStyle}, "cpp": {Family: BraceStyle}, "c++": {Family: BraceStyle},
	"clike": {Family: BraceStyle}, "cs": {Family: BraceStyle}, "go": {Family: BraceStyle},
	"java": {Family: BraceStyle}, "js": {Family: BraceStyle}, "javascript": {Family: BraceStyle},
	"ts": {Family: BraceStyle}, "typescript": {Family: BraceStyle}, "tsx": {Family: BraceStyle},
	"jsx": {Family: BraceStyle}, "less": {Family: BraceStyle}, "scss": {Family: BraceStyle},
	"jsonc": {Family: BraceStyle}, "dataviewjs": {Family: BraceStyle}, Empty: {Family: BraceStyle},

	// Hash comments
	"python": {Family: HashStyle}, "py": {Family: HashStyle}, "ruby": {Family: HashStyle},
	"rb": {Family: HashStyle}, "bash": {Family: HashStyle}, "powershell": {Family: HashStyle},
	"ps1": {Family: HashStyle}, "zsh": {Family: HashStyle}, "shell": {Family: HashStyle},
	"sh": {Family: HashStyle}, "applescript": {Family: HashStyle}, "yaml": {Family: HashStyle},
	"yml": {Family: HashStyle},

	"lua": {Family: DashStyle}, "sql": {Family: DashStyle},

	"html": {Family: HTMLStyle}, "xml": {Family: HTMLStyle}, "markdown": {Family: HTMLStyle},
	"md": {Family: HTMLStyle},

	"css": {Family: BraceStyle, Only: only(Block)},

	"bat": {Family: BatchStyle}, "batch": {Family: BatchStyle}, "cmd": {Family: BatchStyle},

	// Templating snippets only have a single-line comment convention.
	Templater: {Family: BraceStyle, Only: only(Line), Coerce: true},
}

// Table is a language tag lookup. The zero value is not usable; use NewTable.
type Table struct {
	bindings map[string]Binding
}

// NewTable returns the built-in table with overrides applied on top.
// Overrides replace the family of a tag and clear any mode restriction.
func NewTable(overrides map[string]Family) *Table {
	bindings := make(map[string]Binding, len(defaultBindings)+len(overrides))
	for tag, b := range defaultBindings {
		bindings[tag] = b
	}
	for tag, f := range overrides {
		bindings[strings.ToLower(tag)] = Binding{Family: f}
	}
	return &Table{bindings: bindings}
}

var defaultTable = NewTable(nil)

// Default returns the built-in table.
func Default() *Table { return defaultTable }

// Of returns the family for tag using the built-in table.
func Of(tag string) Family { return defaultTable.Of(tag) }

// Of returns the family for tag. Lookup is case-insensitive; unmapped tags yield None.
func (t *Table) Of(tag string) Family {
	return t.Binding(tag).Family
}

// Binding returns the full binding for tag.
func (t *Table) Binding(tag string) Binding {
	b, ok := t.bindings[strings.ToLower(strings.TrimSpace(tag))]
	if !ok {
		return Binding{Family: None}
	}
	return b
}

// Resolve returns the family and the effective mode for commenting tag in
// the requested mode. It returns None when the language has no syntax in
// that mode.
func (t *Table) Resolve(tag string, mode Mode) (Family, Mode) {
	b := t.Binding(tag)
	if b.Family == None || b.Only == nil || *b.Only == mode {
		return b.Family, mode
	}
	if b.Coerce {
		return b.Family, *b.Only
	}
	return None, mode
}

// Entry is a single row of the table, used for listing.
type Entry struct {
	Tag     string
	Binding Binding
}

// Entries returns the table sorted by family then tag.
func (t *Table) Entries() []Entry {
	entries := make([]Entry, 0, len(t.bindings))
	for tag, b := range t.bindings {
		entries = append(entries, Entry{Tag: tag, Binding: b})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Binding.Family != entries[j].Binding.Family {
			return entries[i].Binding.Family < entries[j].Binding.Family
		}
		return entries[i].Tag < entries[j].Tag
	})
	return entries
}
