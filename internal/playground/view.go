package playground

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/mattn/go-runewidth"

	"github.com/zjrosen/advcomment/internal/block"
	"github.com/zjrosen/advcomment/internal/editor"
	"github.com/zjrosen/advcomment/internal/flags"
	"github.com/zjrosen/advcomment/internal/log"
	"github.com/zjrosen/advcomment/internal/markdown"
	"github.com/zjrosen/advcomment/internal/preview"
)

const (
	tabWidth       = 4
	minSplitWidth  = 40
	diffContext    = 2
	scratchName    = "[scratch]"
	noChangesLabel = "no changes since last save"
)

// dims is the computed screen layout.
type dims struct {
	bodyHeight   int
	editorWidth  int
	previewWidth int
}

func (m Model) dims() dims {
	helpHeight := lipgloss.Height(m.help.View(m.keys))
	d := dims{
		bodyHeight:  max(m.height-1-helpHeight, 3),
		editorWidth: m.width,
	}
	if m.mode != PreviewOff && m.width >= minSplitWidth {
		d.editorWidth = m.width / 2
		d.previewWidth = m.width - d.editorWidth
	}
	return d
}

func (m *Model) layout() {
	d := m.dims()
	m.help.Width = m.width
	m.preview.Width = max(d.previewWidth-2, 0)
	m.preview.Height = max(d.bodyHeight-2, 0)
	m.refreshPreview()
	m.scrollToCursor()
}

func (m Model) name() string {
	if m.opts.Path == "" {
		return scratchName
	}
	return filepath.Base(m.opts.Path)
}

func (m Model) gutterWidth() int {
	if !m.opts.UI.ShowLineNumbers {
		return 0
	}
	return len(strconv.Itoa(m.buf.LineCount())) + 1
}

// scrollToCursor keeps the cursor inside the editor pane.
func (m *Model) scrollToCursor() {
	if m.width == 0 {
		return
	}
	d := m.dims()
	rows := max(d.bodyHeight-2, 1)
	cols := max(d.editorWidth-2-m.gutterWidth(), 1)

	cur := m.buf.Cursor()
	if cur.Line < m.top {
		m.top = cur.Line
	}
	if cur.Line >= m.top+rows {
		m.top = cur.Line - rows + 1
	}

	x := displayWidth([]rune(m.buf.Line(cur.Line))[:cur.Col])
	if x < m.left {
		m.left = x
	}
	if x >= m.left+cols {
		m.left = x - cols + 1
	}
}

// refreshPreview recomputes the preview pane content for the current mode.
func (m *Model) refreshPreview() {
	if m.preview.Width <= 0 {
		return
	}

	switch m.mode {
	case PreviewDiff:
		diff := preview.Unified(m.name(), m.saved, m.buf.Value(), diffContext, preview.DefaultStyles())
		if diff == "" {
			diff = statusBarStyle.Render(noChangesLabel)
		}
		m.preview.SetContent(diff)

	case PreviewRendered:
		if m.renderer == nil || m.renderer.Width() != m.preview.Width {
			r, err := markdown.New(m.preview.Width, m.opts.UI.MarkdownStyle)
			if err != nil {
				log.ErrorErr(log.CatUI, "creating markdown renderer failed", err)
				m.setStatus("preview unavailable: "+err.Error(), sevError)
				return
			}
			m.renderer = r
		}
		render := m.renderer.RenderNote
		if m.opts.Flags.Enabled(flags.FlagPreviewComments) {
			render = m.renderer.Render
		}
		out, err := render(m.buf.Value())
		if err != nil {
			m.setStatus("preview failed: "+err.Error(), sevError)
			return
		}
		m.preview.SetContent(out)
	}
}

// View implements tea.Model.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	d := m.dims()

	title := m.name()
	if m.Modified() {
		title += " [+]"
	}
	editorPane := pane{
		Content: m.renderEditor(d),
		Width:   d.editorWidth,
		Height:  d.bodyHeight,
		Title:   title,
		Info:    m.contextAtCursor(),
		Focused: true,
	}.render()

	body := editorPane
	if d.previewWidth > 0 {
		previewPane := pane{
			Content: m.preview.View(),
			Width:   d.previewWidth,
			Height:  d.bodyHeight,
			Title:   "preview: " + m.mode.String(),
			Info:    fmt.Sprintf("%3.0f%%", m.preview.ScrollPercent()*100),
		}.render()
		body = lipgloss.JoinHorizontal(lipgloss.Top, editorPane, previewPane)
	}

	return lipgloss.JoinVertical(lipgloss.Left, body, m.statusLine(), m.help.View(m.keys))
}

func (m Model) renderEditor(d dims) string {
	rows := max(d.bodyHeight-2, 1)
	cols := max(d.editorWidth-2-m.gutterWidth(), 1)
	digits := m.gutterWidth() - 1

	from, to := m.buf.Selection()
	cur := m.buf.Cursor()

	var sb strings.Builder
	for i := range rows {
		n := m.top + i
		if n >= m.buf.LineCount() {
			break
		}
		if i > 0 {
			sb.WriteString("\n")
		}
		if digits > 0 {
			sb.WriteString(gutterStyle.Render(fmt.Sprintf("%*d ", digits, n+1)))
		}
		line := m.renderLine(n, from, to, cur)
		sb.WriteString(ansi.Cut(line, m.left, m.left+cols))
	}
	return sb.String()
}

// renderLine styles line n with the selection and cursor. Tabs are expanded.
func (m Model) renderLine(n int, from, to, cur editor.Position) string {
	runes := []rune(m.buf.Line(n))
	var sb strings.Builder
	for i, r := range runes {
		cell := string(r)
		if r == '\t' {
			cell = strings.Repeat(" ", tabWidth)
		}

		p := editor.Position{Line: n, Col: i}
		switch {
		case n == cur.Line && i == cur.Col:
			sb.WriteString(cursorStyle.Render(cell))
		case !p.Before(from) && p.Before(to):
			sb.WriteString(selectionStyle.Render(cell))
		default:
			sb.WriteString(cell)
		}
	}
	if n == cur.Line && cur.Col == len(runes) {
		sb.WriteString(cursorStyle.Render(" "))
	}
	return sb.String()
}

func (m Model) contextAtCursor() string {
	cur := m.buf.Cursor()
	ctx := block.Detect(m.buf.Value(), editor.SpanOf(m.buf, cur, cur))
	return contextStyle.Render(ctx.String())
}

func (m Model) statusLine() string {
	cur := m.buf.Cursor()
	left := statusBarStyle.Render(fmt.Sprintf(" Ln %d, Col %d", cur.Line+1, cur.Col+1))

	style := statusInfoStyle
	switch m.sev {
	case sevWarn:
		style = statusWarnStyle
	case sevError:
		style = statusErrStyle
	}
	right := style.Render(m.status + " ")

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		return ansi.Truncate(left+" "+right, m.width, "…")
	}
	return left + strings.Repeat(" ", gap) + right
}

func displayWidth(runes []rune) int {
	w := 0
	for _, r := range runes {
		if r == '\t' {
			w += tabWidth
			continue
		}
		w += runewidth.RuneWidth(r)
	}
	return w
}
