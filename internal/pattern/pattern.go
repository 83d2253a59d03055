// Package pattern holds the comment pattern catalog: for each style family
// and comment mode, a detector/stripper and a formatter.
//
// Patterns are immutable after construction and safe to share. Matching is
// done with regexp2, whose matchers carry no scan position between calls.
package pattern

import (
	"strings"

	"github.com/dlclark/regexp2"

	"github.com/zjrosen/advcomment/internal/language"
)

// Kind distinguishes per-line patterns from whole-selection patterns.
type Kind int

const (
	// LineKind applies markers to each non-blank physical line.
	LineKind Kind = iota
	// BlockKind wraps the selection as one unit.
	BlockKind
)

// Pattern recognizes, strips and applies one comment syntax.
type Pattern struct {
	name  string
	kind  Kind
	open  string
	close string

	detect *regexp2.Regexp
	code   *regexp2.Regexp // line patterns only: a non-blank line
}

// nonBlankLine captures indentation and content of a non-blank line.
const nonBlankLine = `^([ \t]*)(\S.*)$`

// NewLine builds a line-comment pattern for marker. When foldCase is set the
// marker is recognized case-insensitively and must be followed by a space
// or the end of the line (so "REM" does not match "REMOVE").
func NewLine(name, marker string, foldCase bool) *Pattern {
	opts := regexp2.RegexOptions(regexp2.Multiline)
	expr := `^([ \t]*)` + regexp2.Escape(marker)
	if foldCase {
		opts |= regexp2.IgnoreCase
		expr += `(?=[ \t]|$)`
	}
	expr += ` ?(.*)$`

	return &Pattern{
		name:   name,
		kind:   LineKind,
		open:   marker,
		detect: regexp2.MustCompile(expr, opts),
		code:   regexp2.MustCompile(nonBlankLine, regexp2.Multiline),
	}
}

// NewBlock builds a block-comment pattern for the open/close marker pair.
// At most one space next to each marker is consumed when stripping.
func NewBlock(name, open, close string) *Pattern {
	expr := `^(\s*)` + regexp2.Escape(open) + ` ?(.*?) ?` + regexp2.Escape(close) + `(\s*)$`
	return &Pattern{
		name:   name,
		kind:   BlockKind,
		open:   open,
		close:  close,
		detect: regexp2.MustCompile(expr, regexp2.Singleline),
	}
}

// Name identifies the pattern in logs, e.g. "brace/line".
func (p *Pattern) Name() string { return p.name }

// Kind reports whether the pattern is per-line or whole-selection.
func (p *Pattern) Kind() Kind { return p.kind }

// Markers returns the open and close markers. Close is empty for line patterns.
func (p *Pattern) Markers() (open, close string) { return p.open, p.close }

// Detect reports whether text is already commented. For line patterns this
// is true when any line carries the marker.
func (p *Pattern) Detect(text string) bool {
	ok, err := p.detect.MatchString(text)
	return err == nil && ok
}

// Strip removes the markers, restoring each line's indentation exactly as
// captured. Text that is not commented is returned unchanged.
func (p *Pattern) Strip(text string) string {
	out, err := p.detect.ReplaceFunc(text, func(m regexp2.Match) string {
		if p.kind == LineKind {
			return group(&m, 1) + group(&m, 2)
		}
		return group(&m, 1) + group(&m, 2) + group(&m, 3)
	}, -1, -1)
	if err != nil {
		return text
	}
	return out
}

// Format wraps text in the pattern's markers. Blank lines are left alone by
// line patterns; block patterns keep surrounding whitespace outside the
// markers. Whitespace-only text is returned unchanged.
func (p *Pattern) Format(text string) string {
	if strings.TrimSpace(text) == "" {
		return text
	}
	if p.kind == BlockKind {
		core := strings.TrimSpace(text)
		start := strings.Index(text, core)
		return text[:start] + p.open + " " + core + " " + p.close + text[start+len(core):]
	}

	out, err := p.code.ReplaceFunc(text, func(m regexp2.Match) string {
		return group(&m, 1) + p.open + " " + group(&m, 2)
	}, -1, -1)
	if err != nil {
		return text
	}
	return out
}

// Toggle strips the markers when text is already commented and applies them
// otherwise. The boolean reports whether markers were added.
func (p *Pattern) Toggle(text string) (string, bool) {
	if p.Detect(text) {
		return p.Strip(text), false
	}
	return p.Format(text), true
}

func group(m *regexp2.Match, n int) string {
	g := m.GroupByNumber(n)
	if g == nil {
		return ""
	}
	return g.String()
}

type key struct {
	family language.Family
	mode   language.Mode
}

// Catalog maps (family, mode) pairs to patterns.
type Catalog struct {
	patterns map[key]*Pattern
	fallback *Pattern
}

// NewCatalog returns the canonical marker table.
func NewCatalog() *Catalog {
	return &Catalog{
		patterns: map[key]*Pattern{
			{language.BraceStyle, language.Line}:  NewLine("brace/line", "//", false),
			{language.BraceStyle, language.Block}: NewBlock("brace/block", "/*", "*/"),
			{language.HashStyle, language.Line}:   NewLine("hash/line", "#", false),
			{language.DashStyle, language.Line}:   NewLine("dash/line", "--", false),
			{language.HTMLStyle, language.Block}:  NewBlock("html/block", "<!--", "-->"),
			{language.BatchStyle, language.Line}:  NewLine("batch/line", "REM", true),
		},
		fallback: NewBlock("markup/block", "%%", "%%"),
	}
}

var defaultCatalog = NewCatalog()

// For looks up a pattern in the default catalog.
func For(family language.Family, mode language.Mode) (*Pattern, bool) {
	return defaultCatalog.For(family, mode)
}

// Fallback returns the default catalog's no-fence pattern.
func Fallback() *Pattern { return defaultCatalog.Fallback() }

// For returns the pattern for family and mode. The boolean is false when the
// combination has no comment syntax; callers must then leave text unmodified.
func (c *Catalog) For(family language.Family, mode language.Mode) (*Pattern, bool) {
	p, ok := c.patterns[key{family, mode}]
	return p, ok
}

// Fallback returns the markup pattern used outside any recognized block.
// It is always available.
func (c *Catalog) Fallback() *Pattern { return c.fallback }
