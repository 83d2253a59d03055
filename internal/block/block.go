// Package block finds fenced code blocks and templating blocks in a
// document and reports which one, if any, encloses a span.
//
// Fences are found with a line-anchored regular expression rather than a
// Markdown tokenizer. Nested or irregular fences may be matched
// incorrectly; the first enclosing match wins.
package block

import (
	"strings"

	"github.com/dlclark/regexp2"

	"github.com/zjrosen/advcomment/internal/language"
	"github.com/zjrosen/advcomment/internal/log"
)

// Span is a half-open [Start, End) range of rune offsets into a document.
type Span struct {
	Start int
	End   int
}

// Len returns the number of runes covered by the span.
func (s Span) Len() int { return s.End - s.Start }

// Empty reports whether the span covers nothing.
func (s Span) Empty() bool { return s.End <= s.Start }

// Contains reports whether s fully encloses other.
func (s Span) Contains(other Span) bool {
	return s.Start <= other.Start && s.End >= other.End
}

// Kind is the category of an enclosing block.
type Kind int

const (
	// NoBlock means the span is not inside any recognized block.
	NoBlock Kind = iota
	// Templating means the span is inside a <%* ... %> block.
	Templating
	// CodeFence means the span is inside a fenced code block.
	CodeFence
)

// Context is the result of detection.
type Context struct {
	Kind Kind
	// Tag is the lowercased fence language; "empty" for untagged fences,
	// "templater" for templating blocks.
	Tag string
}

// None is the zero Context.
var None = Context{}

func (c Context) String() string {
	switch c.Kind {
	case Templating:
		return "templating"
	case CodeFence:
		return "fence:" + c.Tag
	default:
		return "none"
	}
}

var (
	// fenceRe matches an opener of 3+ backticks or tildes with an optional
	// tag, the body, and a closer repeating the opener's delimiter exactly.
	// Lines may end in \n or \r\n; a closer's \r is left outside the match.
	fenceRe = regexp2.MustCompile("^(`{3,}|~{3,})([a-z0-9+-]*)(\\r?\\n)([\\s\\S]*?)(\\r?\\n)\\1(?=\\r?$)", regexp2.IgnoreCase|regexp2.Multiline)

	templateRe = regexp2.MustCompile(`^<%\*(.*?)%>(?=\r?$)`, regexp2.Singleline|regexp2.Multiline)
)

// Fence is one fenced code block found in a document.
type Fence struct {
	Delimiter string
	Tag       string // as written on the opener line
	Body      string
	Span      Span // opener through closer
	BodySpan  Span // interior only

	openEOL, closeEOL string
}

// Language returns the normalized language tag of the fence.
func (f Fence) Language() string {
	if f.Tag == "" {
		return language.Empty
	}
	return strings.ToLower(f.Tag)
}

// WithBody renders the fence with body in place of its interior, keeping
// the delimiter, tag and line endings as written.
func (f Fence) WithBody(body string) string {
	return f.Delimiter + f.Tag + f.openEOL + body + f.closeEOL + f.Delimiter
}

// scan runs re over text from the beginning and returns every match.
// Each call starts a fresh scan; no position survives between calls.
func scan(re *regexp2.Regexp, text string) []*regexp2.Match {
	var matches []*regexp2.Match
	m, err := re.FindStringMatch(text)
	for m != nil && err == nil {
		matches = append(matches, m)
		m, err = re.FindNextMatch(m)
	}
	if err != nil {
		log.ErrorErr(log.CatBlock, "scan aborted", err, "pattern", re.String())
	}
	return matches
}

func toFence(m *regexp2.Match) Fence {
	body := m.GroupByNumber(4)
	return Fence{
		Delimiter: m.GroupByNumber(1).String(),
		Tag:       m.GroupByNumber(2).String(),
		Body:      body.String(),
		Span:      Span{Start: m.Index, End: m.Index + m.Length},
		BodySpan:  Span{Start: body.Index, End: body.Index + body.Length},
		openEOL:   m.GroupByNumber(3).String(),
		closeEOL:  m.GroupByNumber(5).String(),
	}
}

// Fences returns every fenced code block in text, in document order.
func Fences(text string) []Fence {
	matches := scan(fenceRe, text)
	fences := make([]Fence, 0, len(matches))
	for _, m := range matches {
		fences = append(fences, toFence(m))
	}
	return fences
}

// Templates returns the spans of every templating block in text.
func Templates(text string) []Span {
	matches := scan(templateRe, text)
	spans := make([]Span, 0, len(matches))
	for _, m := range matches {
		spans = append(spans, Span{Start: m.Index, End: m.Index + m.Length})
	}
	return spans
}

// ReplaceFences rewrites every fence in text with the result of fn.
// Text outside fences is copied unchanged.
func ReplaceFences(text string, fn func(Fence) string) string {
	out, err := fenceRe.ReplaceFunc(text, func(m regexp2.Match) string {
		return fn(toFence(&m))
	}, -1, -1)
	if err != nil {
		log.ErrorErr(log.CatBlock, "fence rewrite aborted", err)
		return text
	}
	return out
}

// Detect reports the block enclosing span. Templating blocks take
// precedence: if one encloses span, code fences are not considered.
func Detect(text string, span Span) Context {
	for _, t := range Templates(text) {
		if t.Contains(span) {
			log.Debug(log.CatBlock, "span inside templating block", "start", span.Start, "end", span.End)
			return Context{Kind: Templating, Tag: language.Templater}
		}
	}

	for _, f := range Fences(text) {
		if f.Span.Contains(span) {
			log.Debug(log.CatBlock, "span inside fence", "tag", f.Language(), "start", span.Start, "end", span.End)
			return Context{Kind: CodeFence, Tag: f.Language()}
		}
	}

	return None
}

// InFenceBody reports whether span lies entirely inside the interior of a
// code fence, excluding the opener and closer lines.
func InFenceBody(text string, span Span) bool {
	for _, f := range Fences(text) {
		if f.BodySpan.Contains(span) {
			return true
		}
	}
	return false
}
