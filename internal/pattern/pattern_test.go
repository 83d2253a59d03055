package pattern

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/zjrosen/advcomment/internal/language"
)

func mustFor(t *testing.T, family language.Family, mode language.Mode) *Pattern {
	t.Helper()
	p, ok := For(family, mode)
	require.True(t, ok, "expected pattern for %s/%s", family, mode)
	return p
}

// ============================================================================
// Catalog lookup
// ============================================================================

func TestFor_DefinedCombinations(t *testing.T) {
	tests := []struct {
		family language.Family
		mode   language.Mode
		open   string
		close  string
	}{
		{language.BraceStyle, language.Line, "//", ""},
		{language.BraceStyle, language.Block, "/*", "*/"},
		{language.HashStyle, language.Line, "#", ""},
		{language.DashStyle, language.Line, "--", ""},
		{language.HTMLStyle, language.Block, "<!--", "-->"},
		{language.BatchStyle, language.Line, "REM", ""},
	}

	for _, tt := range tests {
		p := mustFor(t, tt.family, tt.mode)
		open, close := p.Markers()
		require.Equal(t, tt.open, open)
		require.Equal(t, tt.close, close)
	}
}

func TestFor_AbsentCombinations(t *testing.T) {
	absent := []struct {
		family language.Family
		mode   language.Mode
	}{
		{language.HashStyle, language.Block},
		{language.DashStyle, language.Block},
		{language.BatchStyle, language.Block},
		{language.HTMLStyle, language.Line},
		{language.None, language.Line},
		{language.None, language.Block},
	}

	for _, tt := range absent {
		_, ok := For(tt.family, tt.mode)
		require.False(t, ok, "%s/%s should have no pattern", tt.family, tt.mode)
	}
}

func TestFallback_Markers(t *testing.T) {
	open, close := Fallback().Markers()
	require.Equal(t, "%%", open)
	require.Equal(t, "%%", close)
	require.Equal(t, BlockKind, Fallback().Kind())
}

// ============================================================================
// Line patterns
// ============================================================================

func TestLine_FormatPreservesIndentation(t *testing.T) {
	p := mustFor(t, language.BraceStyle, language.Line)

	got := p.Format("if (x) {\n    call();\n\t}")
	require.Equal(t, "// if (x) {\n    // call();\n\t// }", got)
}

func TestLine_FormatSkipsBlankLines(t *testing.T) {
	p := mustFor(t, language.HashStyle, language.Line)

	got := p.Format("a = 1\n\n   \nb = 2")
	require.Equal(t, "# a = 1\n\n   \n# b = 2", got)
}

func TestLine_StripRestoresIndentation(t *testing.T) {
	p := mustFor(t, language.DashStyle, language.Line)

	got := p.Strip("  -- select 1\n    --select 2\n-- ")
	require.Equal(t, "  select 1\n    select 2\n", got)
}

func TestLine_StripOnlyTouchesCommentedLines(t *testing.T) {
	p := mustFor(t, language.BraceStyle, language.Line)

	got := p.Strip("// a()\nb()")
	require.Equal(t, "a()\nb()", got)
}

func TestLine_DetectAnyLine(t *testing.T) {
	p := mustFor(t, language.BraceStyle, language.Line)

	require.True(t, p.Detect("x()\n  // y()"))
	require.False(t, p.Detect("x() // trailing"))
	require.False(t, p.Detect("http://example.com"))
}

func TestLine_StripDoesNotJoinLines(t *testing.T) {
	p := mustFor(t, language.HashStyle, language.Line)

	got := p.Strip("#\nfoo")
	require.Equal(t, "\nfoo", got)
}

func TestBatch_CaseInsensitiveDetection(t *testing.T) {
	p := mustFor(t, language.BatchStyle, language.Line)

	for _, in := range []string{"REM echo", "rem echo", "Rem echo", "  REM echo"} {
		require.True(t, p.Detect(in), in)
	}
	require.Equal(t, "echo", p.Strip("rem echo"))
	require.Equal(t, "  echo", p.Strip("  Rem echo"))
	require.Equal(t, "REM echo off", p.Format("echo off"))
}

func TestBatch_DoesNotMatchWordPrefix(t *testing.T) {
	p := mustFor(t, language.BatchStyle, language.Line)

	require.False(t, p.Detect("REMOVE-ITEM foo"))
	require.True(t, p.Detect("REM"))
}

// ============================================================================
// Block patterns
// ============================================================================

func TestBlock_FormatWrapsWholeText(t *testing.T) {
	p := mustFor(t, language.BraceStyle, language.Block)

	require.Equal(t, "/* a\nb */", p.Format("a\nb"))
}

func TestBlock_FormatKeepsOuterWhitespace(t *testing.T) {
	p := mustFor(t, language.HTMLStyle, language.Block)

	require.Equal(t, "  <!-- <b>x</b> -->\n", p.Format("  <b>x</b>\n"))
}

func TestBlock_StripConsumesOneSpacePerSide(t *testing.T) {
	p := mustFor(t, language.BraceStyle, language.Block)

	require.Equal(t, "foo", p.Strip("/* foo */"))
	require.Equal(t, "foo", p.Strip("/*foo*/"))
	require.Equal(t, " foo ", p.Strip("/*  foo  */"))
	require.Equal(t, "\tfoo\n", p.Strip("\t/* foo */\n"))
}

func TestBlock_DetectRequiresMarkersAtBoundaries(t *testing.T) {
	p := mustFor(t, language.BraceStyle, language.Block)

	require.True(t, p.Detect("  /* a\n b */  "))
	require.False(t, p.Detect("x /* a */"))
	require.False(t, p.Detect("/* a */ x"))
}

func TestBlock_WhitespaceOnlyUnchanged(t *testing.T) {
	for _, p := range []*Pattern{Fallback(), mustFor(t, language.HTMLStyle, language.Block)} {
		require.Equal(t, "", p.Format(""))
		require.Equal(t, "  \n", p.Format("  \n"))
	}
}

func TestFallback_Toggle(t *testing.T) {
	p := Fallback()

	out, added := p.Toggle("hello world")
	require.True(t, added)
	require.Equal(t, "%% hello world %%", out)

	out, added = p.Toggle(out)
	require.False(t, added)
	require.Equal(t, "hello world", out)
}

// ============================================================================
// Properties
// ============================================================================

// markerFree draws single-line text that contains none of the catalog markers.
func markerFree(t *rapid.T) string {
	s := rapid.StringMatching(`[a-zA-Z0-9_(){}=;.,:'"]([a-zA-Z0-9_(){}=;.,:'" \t]{0,30}[a-zA-Z0-9_(){}=;.,:'"])?`).Draw(t, "line")
	if strings.HasPrefix(strings.ToLower(s), "rem") {
		t.Skip("batch marker prefix")
	}
	return s
}

func allPatterns() []*Pattern {
	c := NewCatalog()
	out := []*Pattern{c.Fallback()}
	for _, p := range c.patterns {
		out = append(out, p)
	}
	return out
}

func TestProperty_StripFormatIdentity(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		x := markerFree(t)
		indent := rapid.StringMatching(`[ \t]{0,4}`).Draw(t, "indent")

		for _, p := range allPatterns() {
			formatted := p.Format(indent + x)
			assert.True(t, p.Detect(formatted), "%s: formatted text should be detected: %q", p.Name(), formatted)
			assert.Equal(t, indent+x, p.Strip(formatted), "%s: strip(format(x))", p.Name())
		}
	})
}

func TestProperty_MarkerFreeNotDetected(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		x := markerFree(t)
		for _, p := range allPatterns() {
			assert.False(t, p.Detect(x), "%s: %q", p.Name(), x)
		}
	})
}

func TestProperty_LineToggleRoundTripMultiline(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(1, 6).Draw(t, "lines")
		lines := make([]string, n)
		for i := range lines {
			if rapid.Bool().Draw(t, "blank") {
				lines[i] = rapid.StringMatching(`[ \t]{0,3}`).Draw(t, "ws")
				continue
			}
			lines[i] = rapid.StringMatching(`[ \t]{0,4}`).Draw(t, "indent") + markerFree(t)
		}
		text := strings.Join(lines, "\n")
		if strings.TrimSpace(text) == "" {
			t.Skip("blank selection")
		}

		for _, p := range allPatterns() {
			if p.Kind() != LineKind {
				continue
			}
			commented, added := p.Toggle(text)
			require.True(t, added)
			restored, added := p.Toggle(commented)
			require.False(t, added)
			require.Equal(t, text, restored, p.Name())
		}
	})
}
