// Package playground is an interactive terminal editor for trying the
// commenter on a note: it toggles comments with the same keys an editor
// plugin would bind and previews the result.
package playground

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/zjrosen/advcomment/internal/app"
	"github.com/zjrosen/advcomment/internal/config"
	"github.com/zjrosen/advcomment/internal/editor"
	"github.com/zjrosen/advcomment/internal/flags"
	"github.com/zjrosen/advcomment/internal/keys"
	"github.com/zjrosen/advcomment/internal/language"
	"github.com/zjrosen/advcomment/internal/log"
	"github.com/zjrosen/advcomment/internal/markdown"
	"github.com/zjrosen/advcomment/internal/pubsub"
)

const maxUndo = 100

// PreviewMode selects what the right-hand pane shows.
type PreviewMode int

const (
	PreviewOff      PreviewMode = iota
	PreviewDiff                 // changes since the last save
	PreviewRendered             // the note as a reader sees it
)

func (p PreviewMode) String() string {
	switch p {
	case PreviewDiff:
		return "diff"
	case PreviewRendered:
		return "rendered"
	default:
		return "off"
	}
}

type severity int

const (
	sevInfo severity = iota
	sevWarn
	sevError
)

type snapshot struct {
	text           string
	anchor, cursor editor.Position
}

// savedMsg reports the outcome of writing the buffer.
type savedMsg struct {
	text string
	err  error
}

// Options configures a playground.
type Options struct {
	Path      string // file saved to; empty for a scratch buffer
	Commenter *app.Commenter
	Broker    *pubsub.Broker[app.Change]
	UI        config.UIConfig
	Trim      config.TrimConfig
	Flags     *flags.Registry // may be nil
}

// Model is the playground's Bubble Tea model.
type Model struct {
	ctx       context.Context
	opts      Options
	buf       *editor.Buffer
	commenter *app.Commenter
	listener  *pubsub.Listener[app.Change]
	keys      keys.KeyMap
	help      help.Model
	preview   viewport.Model
	mode      PreviewMode
	renderer  *markdown.Renderer

	saved       string
	undo        []snapshot
	top, left   int
	width       int
	height      int
	status      string
	sev         severity
	confirmQuit bool
	typing      bool // the last key inserted text on the current undo step
}

// New creates a playground editing text. Changes published on
// opts.Broker, including those made by the playground's own commenter,
// appear on the status line.
func New(ctx context.Context, text string, opts Options) Model {
	if opts.Commenter == nil {
		opts.Commenter = app.New(app.WithBroker(opts.Broker))
	}

	m := Model{
		ctx:       ctx,
		opts:      opts,
		buf:       editor.NewBuffer(text),
		commenter: opts.Commenter,
		keys:      keys.Playground,
		help:      help.New(),
		preview:   viewport.New(0, 0),
		saved:     text,
	}
	if opts.Broker != nil {
		m.listener = pubsub.NewListener(ctx, opts.Broker)
	}
	if opts.UI.ShowPreview {
		m.mode = PreviewDiff
	}
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	if m.listener == nil {
		return nil
	}
	return m.listener.Listen()
}

// Buffer returns the document being edited.
func (m Model) Buffer() *editor.Buffer {
	return m.buf
}

// Modified reports whether the buffer differs from the last save.
func (m Model) Modified() bool {
	return m.buf.Value() != m.saved
}

// Status returns the current status line message.
func (m Model) Status() string {
	return m.status
}

// Preview returns the active preview mode.
func (m Model) Preview() PreviewMode {
	return m.mode
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.layout()
		return m, nil

	case pubsub.Event[app.Change]:
		m.setStatus(msg.Payload.Summary(), sevInfo)
		if msg.Payload.Command == "toggle" && !msg.Payload.Changed {
			m.sev = sevWarn
		}
		return m, m.listener.Listen()

	case savedMsg:
		if msg.err != nil {
			log.ErrorErr(log.CatUI, "save failed", msg.err, "path", m.opts.Path)
			m.setStatus("save failed: "+msg.err.Error(), sevError)
			return m, nil
		}
		m.saved = msg.text
		m.setStatus("saved "+m.opts.Path, sevInfo)
		m.refreshPreview()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if !key.Matches(msg, m.keys.Quit) {
		m.confirmQuit = false
	}
	if msg.Type != tea.KeyRunes && msg.Type != tea.KeySpace && msg.Type != tea.KeyTab {
		m.typing = false
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		if m.Modified() && !m.confirmQuit && m.opts.Path != "" {
			m.confirmQuit = true
			m.setStatus("unsaved changes, press ctrl+q again to quit", sevWarn)
			return m, nil
		}
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		m.layout()

	case key.Matches(msg, m.keys.ToggleLine):
		m.toggle(language.Line)
	case key.Matches(msg, m.keys.ToggleBlock):
		m.toggle(language.Block)
	case key.Matches(msg, m.keys.Trim):
		m.trim(false)
	case key.Matches(msg, m.keys.TrimCode):
		m.trim(true)
	case key.Matches(msg, m.keys.Undo):
		m.popUndo()

	case key.Matches(msg, m.keys.Preview):
		m.mode = (m.mode + 1) % 3
		m.layout()
	case key.Matches(msg, m.keys.PreviewUp):
		m.preview.SetYOffset(m.preview.YOffset - max(m.preview.Height/2, 1))
	case key.Matches(msg, m.keys.PreviewDown):
		m.preview.SetYOffset(m.preview.YOffset + max(m.preview.Height/2, 1))

	case key.Matches(msg, m.keys.Save):
		return m, m.save()

	case key.Matches(msg, m.keys.Up):
		m.move(-1, 0, false)
	case key.Matches(msg, m.keys.Down):
		m.move(1, 0, false)
	case key.Matches(msg, m.keys.Left):
		m.step(-1, false)
	case key.Matches(msg, m.keys.Right):
		m.step(1, false)
	case key.Matches(msg, m.keys.Home):
		m.lineEdge(false, false)
	case key.Matches(msg, m.keys.End):
		m.lineEdge(true, false)
	case key.Matches(msg, m.keys.SelectUp):
		m.move(-1, 0, true)
	case key.Matches(msg, m.keys.SelectDown):
		m.move(1, 0, true)
	case key.Matches(msg, m.keys.SelectLeft):
		m.step(-1, true)
	case key.Matches(msg, m.keys.SelectRight):
		m.step(1, true)
	case key.Matches(msg, m.keys.SelectHome):
		m.lineEdge(false, true)
	case key.Matches(msg, m.keys.SelectEnd):
		m.lineEdge(true, true)
	case key.Matches(msg, m.keys.SelectAll):
		m.buf.SetSelection(editor.Position{}, m.buf.OffsetToPos(len([]rune(m.buf.Value()))))

	case key.Matches(msg, m.keys.Newline):
		m.insert("\n")
	case key.Matches(msg, m.keys.Backspace):
		m.erase(-1)
	case key.Matches(msg, m.keys.Delete):
		m.erase(1)

	case msg.Type == tea.KeyTab:
		m.insert("\t")
	case msg.Type == tea.KeySpace:
		m.insert(" ")
	case msg.Type == tea.KeyRunes:
		m.insert(string(msg.Runes))
	}

	m.scrollToCursor()
	return m, nil
}

func (m *Model) toggle(mode language.Mode) {
	before := m.snapshot()
	res := m.commenter.Toggle(m.ctx, m.buf, mode)
	m.recordIfChanged(before)
	if m.listener == nil {
		// no broker: report directly
		m.setStatus(fmt.Sprintf("%s %s: %s", mode, res.Context, res.Action), sevInfo)
	}
	m.refreshPreview()
}

func (m *Model) trim(codeOnly bool) {
	before := m.snapshot()
	changed := m.commenter.Trim(m.ctx, m.buf, codeOnly)
	m.recordIfChanged(before)
	if m.listener == nil {
		msg := "trim: nothing to remove"
		if changed {
			msg = "trim: trailing whitespace removed"
		}
		m.setStatus(msg, sevInfo)
	}
	m.refreshPreview()
}

func (m *Model) save() tea.Cmd {
	if m.opts.Path == "" {
		m.setStatus("scratch buffer: nothing to save to", sevWarn)
		return nil
	}
	if m.opts.Trim.OnSave {
		m.trim(m.opts.Trim.CodeOnlyDefault)
	}

	path, text := m.opts.Path, m.buf.Value()
	return func() tea.Msg {
		return savedMsg{text: text, err: app.SaveFile(path, text)}
	}
}

func (m *Model) setStatus(msg string, sev severity) {
	m.status, m.sev = msg, sev
	log.Debug(log.CatUI, "status", "msg", msg)
}

func (m *Model) snapshot() snapshot {
	return snapshot{text: m.buf.Value(), anchor: m.buf.Anchor(), cursor: m.buf.Cursor()}
}

func (m *Model) pushUndo() { m.record(m.snapshot()) }

// recordIfChanged keeps s as an undo step only when the text has changed
// since it was taken.
func (m *Model) recordIfChanged(s snapshot) {
	if m.buf.Value() != s.text {
		m.record(s)
	}
}

func (m *Model) record(s snapshot) {
	m.undo = append(m.undo, s)
	if len(m.undo) > maxUndo {
		m.undo = m.undo[len(m.undo)-maxUndo:]
	}
}

func (m *Model) popUndo() {
	if len(m.undo) == 0 {
		m.setStatus("nothing to undo", sevWarn)
		return
	}
	s := m.undo[len(m.undo)-1]
	m.undo = m.undo[:len(m.undo)-1]
	m.buf.SetValue(s.text)
	m.buf.SetSelection(s.anchor, s.cursor)
	m.refreshPreview()
}

// insert replaces the selection with text. Consecutive typed characters
// share one undo step.
func (m *Model) insert(text string) {
	if !m.typing || text == "\n" || m.buf.HasSelection() {
		m.pushUndo()
	}
	m.typing = text != "\n"
	from, to := m.buf.Selection()
	m.buf.ReplaceRange(text, from, to)
	m.refreshPreview()
}

// erase deletes the selection, or one character before (dir < 0) or after
// the cursor.
func (m *Model) erase(dir int) {
	from, to := m.buf.Selection()
	if from == to {
		offset := m.buf.PosToOffset(from)
		if dir < 0 {
			if offset == 0 {
				return
			}
			from = m.buf.OffsetToPos(offset - 1)
		} else {
			if offset == len([]rune(m.buf.Value())) {
				return
			}
			to = m.buf.OffsetToPos(offset + 1)
		}
	}
	m.pushUndo()
	m.buf.ReplaceRange("", from, to)
	m.refreshPreview()
}

// move shifts the cursor by lines, keeping the anchor when extending.
func (m *Model) move(dLine, dCol int, extend bool) {
	cur := m.buf.Cursor()
	m.place(editor.Position{Line: cur.Line + dLine, Col: cur.Col + dCol}, extend)
}

// step moves one character, wrapping across line ends.
func (m *Model) step(dir int, extend bool) {
	if !extend && m.buf.HasSelection() {
		from, to := m.buf.Selection()
		if dir < 0 {
			m.buf.SetCursor(from)
		} else {
			m.buf.SetCursor(to)
		}
		return
	}
	offset := m.buf.PosToOffset(m.buf.Cursor()) + dir
	m.place(m.buf.OffsetToPos(max(offset, 0)), extend)
}

func (m *Model) lineEdge(end, extend bool) {
	cur := m.buf.Cursor()
	col := 0
	if end {
		col = m.buf.LineLen(cur.Line)
	}
	m.place(editor.Position{Line: cur.Line, Col: col}, extend)
}

func (m *Model) place(p editor.Position, extend bool) {
	p = m.buf.Clamp(p)
	if extend {
		m.buf.SetSelection(m.buf.Anchor(), p)
		return
	}
	m.buf.SetCursor(p)
}
