// Package sections provides a structural index of a Markdown document: the
// line ranges of its fenced code blocks. The selection normalizer consults it
// before falling back to a regular expression scan.
package sections

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	gmtext "github.com/yuin/goldmark/text"

	"github.com/zjrosen/advcomment/internal/cachemanager"
	"github.com/zjrosen/advcomment/internal/log"
)

// TypeCode is the section type of a fenced code block.
const TypeCode = "code"

// Section is one structural region of a document.
type Section struct {
	Type      string
	StartLine int // 0-indexed line of the opener
	EndLine   int // 0-indexed line of the closer
}

// Index returns the known sections of a document. The boolean is false when
// no index is available for text, in which case callers fall back to their
// own detection.
type Index interface {
	Sections(text string) ([]Section, bool)
}

// MarkdownIndex parses documents with goldmark and caches the result per
// document content.
type MarkdownIndex struct {
	md    goldmark.Markdown
	cache *cachemanager.ReadThroughCache[string, []Section, []byte]
	ttl   time.Duration
}

// NewMarkdownIndex creates an index backed by cache.
func NewMarkdownIndex(cache cachemanager.CacheManager[string, []Section]) *MarkdownIndex {
	idx := &MarkdownIndex{
		md:  goldmark.New(),
		ttl: cachemanager.DefaultExpiration,
	}
	idx.cache = cachemanager.NewReadThroughCache[string, []Section, []byte](cache, idx.parse, false)
	return idx
}

// NewDefaultIndex creates an index with its own in-memory cache.
func NewDefaultIndex() *MarkdownIndex {
	return NewMarkdownIndex(cachemanager.NewInMemoryCacheManager[string, []Section](
		"sections", cachemanager.DefaultExpiration, cachemanager.DefaultCleanupInterval,
	))
}

// Sections implements Index.
func (x *MarkdownIndex) Sections(text string) ([]Section, bool) {
	src := []byte(text)
	found, err := x.cache.GetWithRefresh(context.Background(), contentKey(src), src, x.ttl)
	if err != nil {
		return nil, false
	}
	return found, true
}

func contentKey(src []byte) string {
	sum := sha256.Sum256(src)
	return hex.EncodeToString(sum[:])
}

func (x *MarkdownIndex) parse(_ context.Context, src []byte) ([]Section, error) {
	doc := x.md.Parser().Parse(gmtext.NewReader(src))
	lines := strings.Split(string(src), "\n")

	var found []Section
	err := ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		fence, ok := n.(*ast.FencedCodeBlock)
		if !ok {
			return ast.WalkContinue, nil
		}
		if s, ok := codeSection(fence, src, lines); ok {
			found = append(found, s)
		}
		return ast.WalkSkipChildren, nil
	})
	if err != nil {
		return nil, err
	}

	log.Debug(log.CatCache, "indexed document", "sections", len(found))
	return found, nil
}

// codeSection locates the opener and closer lines of fence. goldmark nodes
// carry no positions, so the opener is found from the info string or the
// first body line. Unclosed fences are not reported.
func codeSection(fence *ast.FencedCodeBlock, src []byte, lines []string) (Section, bool) {
	body := fence.Lines()

	var opener int
	switch {
	case fence.Info != nil:
		opener = lineOf(src, fence.Info.Segment.Start)
	case body.Len() > 0:
		opener = lineOf(src, body.At(0).Start) - 1
	default:
		return Section{}, false
	}

	closer := opener + body.Len() + 1
	if closer >= len(lines) || !isFenceLine(lines[closer]) {
		return Section{}, false
	}

	return Section{Type: TypeCode, StartLine: opener, EndLine: closer}, true
}

func lineOf(src []byte, offset int) int {
	return bytes.Count(src[:offset], []byte{'\n'})
}

func isFenceLine(line string) bool {
	trimmed := strings.TrimSpace(line)
	return strings.HasPrefix(trimmed, "```") || strings.HasPrefix(trimmed, "~~~")
}

// Static is a fixed Index, for hosts that maintain their own section list.
type Static []Section

// Sections implements Index.
func (s Static) Sections(string) ([]Section, bool) { return s, true }
