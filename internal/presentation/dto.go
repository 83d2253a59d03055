// Package presentation shapes command results for machine-readable output.
package presentation

import (
	"github.com/zjrosen/advcomment/internal/language"
	"github.com/zjrosen/advcomment/internal/pattern"
)

// LanguageDTO represents one fence tag binding with the pattern each
// comment mode uses. An empty pattern means the mode is unsupported.
type LanguageDTO struct {
	Tag    string `json:"tag"`
	Family string `json:"family"`
	Line   string `json:"line,omitempty"`
	Block  string `json:"block,omitempty"`
}

// FromTable converts every entry of table, keeping its order.
func FromTable(table *language.Table, catalog *pattern.Catalog) []LanguageDTO {
	entries := table.Entries()
	dtos := make([]LanguageDTO, len(entries))
	for i, e := range entries {
		dtos[i] = LanguageDTO{
			Tag:    e.Tag,
			Family: e.Binding.Family.String(),
			Line:   patternName(table, catalog, e.Tag, language.Line),
			Block:  patternName(table, catalog, e.Tag, language.Block),
		}
	}
	return dtos
}

func patternName(table *language.Table, catalog *pattern.Catalog, tag string, mode language.Mode) string {
	family, effective := table.Resolve(tag, mode)
	if family == language.None {
		return ""
	}
	p, ok := catalog.For(family, effective)
	if !ok {
		return ""
	}
	return p.Name()
}
