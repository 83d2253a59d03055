// Package trim removes trailing horizontal whitespace from documents.
package trim

import (
	"github.com/dlclark/regexp2"

	"github.com/zjrosen/advcomment/internal/block"
	"github.com/zjrosen/advcomment/internal/log"
)

// trailingRe stops before a \r so CRLF line endings are kept.
var trailingRe = regexp2.MustCompile(`[ \t]+(?=\r?$)`, regexp2.Multiline)

// WholeDocument strips trailing spaces and tabs from every line of text.
func WholeDocument(text string) string {
	out, err := trailingRe.Replace(text, "", -1, -1)
	if err != nil {
		log.ErrorErr(log.CatTrim, "trim aborted", err)
		return text
	}
	return out
}

// CodeBlocksOnly strips trailing spaces and tabs inside fenced code blocks,
// leaving everything outside them and the fence lines themselves untouched.
func CodeBlocksOnly(text string) string {
	fences := 0
	out := block.ReplaceFences(text, func(f block.Fence) string {
		fences++
		return f.WithBody(WholeDocument(f.Body))
	})
	log.Debug(log.CatTrim, "trimmed code blocks", "fences", fences)
	return out
}

// Apply runs CodeBlocksOnly when codeOnly is set and WholeDocument otherwise.
func Apply(text string, codeOnly bool) string {
	if codeOnly {
		return CodeBlocksOnly(text)
	}
	return WholeDocument(text)
}
