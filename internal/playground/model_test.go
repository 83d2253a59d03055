package playground

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
	"github.com/charmbracelet/x/exp/teatest"
	"github.com/stretchr/testify/require"

	"github.com/zjrosen/advcomment/internal/app"
	"github.com/zjrosen/advcomment/internal/config"
	"github.com/zjrosen/advcomment/internal/editor"
	"github.com/zjrosen/advcomment/internal/flags"
	"github.com/zjrosen/advcomment/internal/pubsub"
)

const note = "# Title\n\n```python\nfoo()\nbar()\n```\n"

func keyMsg(t tea.KeyType) tea.KeyMsg { return tea.KeyMsg{Type: t} }

func runes(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

func newSized(t *testing.T, text string, opts Options) Model {
	t.Helper()
	m := New(context.Background(), text, opts)
	return update(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})
}

func update(t *testing.T, m Model, msgs ...tea.Msg) Model {
	t.Helper()
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		m = next.(Model)
	}
	return m
}

func TestToggleLineInFence(t *testing.T) {
	m := newSized(t, note, Options{})
	m.Buffer().SetCursor(editor.Position{Line: 3, Col: 1})

	m = update(t, m, keyMsg(tea.KeyCtrlUnderscore))

	require.Equal(t, "# Title\n\n```python\n# foo()\nbar()\n```\n", m.Buffer().Value())
	require.Equal(t, "line fence:python: commented", m.Status())
	require.True(t, m.Modified())

	m = update(t, m, keyMsg(tea.KeyCtrlUnderscore))
	require.Equal(t, note, m.Buffer().Value())
}

func TestToggleBlockOnSelection(t *testing.T) {
	m := newSized(t, "some text here", Options{})
	m.Buffer().SetCursor(editor.Position{Line: 0, Col: 5})

	m = update(t, m,
		keyMsg(tea.KeyShiftRight), keyMsg(tea.KeyShiftRight), keyMsg(tea.KeyShiftRight), keyMsg(tea.KeyShiftRight),
		keyMsg(tea.KeyCtrlB),
	)

	require.Equal(t, "some %% text %% here", m.Buffer().Value())
	require.Equal(t, "%% text %%", m.Buffer().SelectedText())
}

func TestSelectDownExpandsInsideCode(t *testing.T) {
	m := newSized(t, note, Options{})
	m.Buffer().SetCursor(editor.Position{Line: 3, Col: 2})

	m = update(t, m, keyMsg(tea.KeyShiftDown), keyMsg(tea.KeyCtrlUnderscore))

	require.Equal(t, "# Title\n\n```python\n# foo()\n# bar()\n```\n", m.Buffer().Value())
}

func TestTypingAndUndo(t *testing.T) {
	m := newSized(t, "ab", Options{})
	m.Buffer().SetCursor(editor.Position{Line: 0, Col: 2})

	m = update(t, m, runes("c"), runes("d"), keyMsg(tea.KeySpace), keyMsg(tea.KeyEnter), runes("x"))
	require.Equal(t, "abcd \nx", m.Buffer().Value())

	m = update(t, m, keyMsg(tea.KeyCtrlZ))
	require.Equal(t, "abcd \n", m.Buffer().Value(), "typed run after newline undone as one step")

	m = update(t, m, keyMsg(tea.KeyCtrlZ), keyMsg(tea.KeyCtrlZ))
	require.Equal(t, "ab", m.Buffer().Value())

	m = update(t, m, keyMsg(tea.KeyCtrlZ))
	require.Equal(t, "nothing to undo", m.Status())
}

func TestNoopCommandsLeaveNoUndoStep(t *testing.T) {
	m := newSized(t, "```css\na {}\n```\n\nclean", Options{})
	m.Buffer().SetCursor(editor.Position{Line: 3})

	m = update(t, m, keyMsg(tea.KeyCtrlUnderscore)) // blank line
	m.Buffer().SetCursor(editor.Position{Line: 1})
	m = update(t, m, keyMsg(tea.KeyCtrlUnderscore)) // css has no line comments
	m = update(t, m, keyMsg(tea.KeyCtrlT))          // nothing to trim
	require.False(t, m.Modified())

	m = update(t, m, keyMsg(tea.KeyCtrlZ))
	require.Equal(t, "nothing to undo", m.Status())
}

func TestBackspaceAndDelete(t *testing.T) {
	m := newSized(t, "ab\ncd", Options{})
	m.Buffer().SetCursor(editor.Position{Line: 1, Col: 0})

	m = update(t, m, keyMsg(tea.KeyBackspace))
	require.Equal(t, "abcd", m.Buffer().Value())

	m = update(t, m, keyMsg(tea.KeyDelete))
	require.Equal(t, "abd", m.Buffer().Value())

	m.Buffer().SetCursor(editor.Position{Line: 0, Col: 0})
	m = update(t, m, keyMsg(tea.KeyBackspace))
	require.Equal(t, "abd", m.Buffer().Value(), "backspace at start is a no-op")
}

func TestTrimAndTrimCode(t *testing.T) {
	m := newSized(t, "text  \n```js\nlet a;  \n```", Options{})

	m = update(t, m, keyMsg(tea.KeyCtrlK))
	require.Equal(t, "text  \n```js\nlet a;\n```", m.Buffer().Value())

	m = update(t, m, keyMsg(tea.KeyCtrlT))
	require.Equal(t, "text\n```js\nlet a;\n```", m.Buffer().Value())
	require.Equal(t, "trim: trailing whitespace removed", m.Status())
}

func TestPreviewCycle(t *testing.T) {
	m := newSized(t, note, Options{})
	require.Equal(t, PreviewOff, m.Preview())

	m = update(t, m, keyMsg(tea.KeyCtrlP))
	require.Equal(t, PreviewDiff, m.Preview())
	require.Contains(t, ansi.Strip(m.View()), noChangesLabel)

	m.Buffer().SetCursor(editor.Position{Line: 3})
	m = update(t, m, keyMsg(tea.KeyCtrlUnderscore))
	view := ansi.Strip(m.View())
	require.Contains(t, view, "preview: diff")
	require.Contains(t, view, "+# foo()")
	require.Contains(t, view, "-foo()")

	m = update(t, m, keyMsg(tea.KeyCtrlP))
	require.Equal(t, PreviewRendered, m.Preview())
	require.Contains(t, ansi.Strip(m.View()), "preview: rendered")

	m = update(t, m, keyMsg(tea.KeyCtrlP))
	require.Equal(t, PreviewOff, m.Preview())
}

func TestRenderedPreviewComments(t *testing.T) {
	const commented = "visible\n\n%% secret %%\n"

	m := newSized(t, commented, Options{})
	m = update(t, m, keyMsg(tea.KeyCtrlP), keyMsg(tea.KeyCtrlP))
	require.Equal(t, PreviewRendered, m.Preview())
	require.Contains(t, ansi.Strip(m.preview.View()), "visible")
	require.NotContains(t, ansi.Strip(m.preview.View()), "secret")

	m = newSized(t, commented, Options{Flags: flags.New(map[string]bool{flags.FlagPreviewComments: true})})
	m = update(t, m, keyMsg(tea.KeyCtrlP), keyMsg(tea.KeyCtrlP))
	require.Contains(t, ansi.Strip(m.preview.View()), "secret")
}

func TestShowPreviewOption(t *testing.T) {
	m := New(context.Background(), "x", Options{UI: config.UIConfig{ShowPreview: true}})
	require.Equal(t, PreviewDiff, m.Preview())
}

func TestViewShowsLineNumbersAndContext(t *testing.T) {
	m := newSized(t, note, Options{UI: config.UIConfig{ShowLineNumbers: true}})
	m.Buffer().SetCursor(editor.Position{Line: 4, Col: 0})

	view := ansi.Strip(m.View())
	require.Contains(t, view, "[scratch]")
	require.Contains(t, view, "5 bar()")
	require.Contains(t, view, "fence:python")
	require.Contains(t, view, "Ln 5, Col 1")
}

func TestSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "note.md")
	require.NoError(t, os.WriteFile(path, []byte("keep  \n"), 0o600))

	m := newSized(t, "keep  \n", Options{
		Path: path,
		Trim: config.TrimConfig{OnSave: true},
	})
	m = update(t, m, runes("!"))
	require.True(t, m.Modified())

	next, cmd := m.Update(keyMsg(tea.KeyCtrlS))
	require.NotNil(t, cmd)
	m = update(t, next.(Model), cmd())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "!keep\n", string(data))
	require.False(t, m.Modified())
	require.Equal(t, "saved "+path, m.Status())
}

func TestSaveScratch(t *testing.T) {
	m := newSized(t, "x", Options{})
	_, cmd := m.Update(keyMsg(tea.KeyCtrlS))
	require.Nil(t, cmd)
}

func TestSaveFailure(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing-dir", "note.md")
	m := newSized(t, "x", Options{Path: path})

	next, cmd := m.Update(keyMsg(tea.KeyCtrlS))
	m = update(t, next.(Model), cmd())

	require.True(t, strings.HasPrefix(m.Status(), "save failed"))
}

func TestQuitAsksOnceWhenModified(t *testing.T) {
	m := newSized(t, "x", Options{Path: filepath.Join(t.TempDir(), "n.md")})
	m = update(t, m, runes("y"))

	next, cmd := m.Update(keyMsg(tea.KeyCtrlQ))
	require.Nil(t, cmd)
	m = next.(Model)
	require.Contains(t, m.Status(), "unsaved changes")

	_, cmd = m.Update(keyMsg(tea.KeyCtrlQ))
	require.NotNil(t, cmd)
	require.Equal(t, tea.QuitMsg{}, cmd())
}

func TestBrokerEventsDriveStatus(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	broker := pubsub.NewBroker[app.Change]()
	defer broker.Close()

	m := New(ctx, note, Options{Broker: broker})
	m = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})
	m.Buffer().SetCursor(editor.Position{Line: 3})

	listen := m.Init()
	require.NotNil(t, listen)

	m = update(t, m, keyMsg(tea.KeyCtrlUnderscore))
	m = update(t, m, listen())

	require.Equal(t, "toggle line: commented with hash/line in fence:python", m.Status())
}

func TestTeatest_EditSession(t *testing.T) {
	m := New(context.Background(), note, Options{UI: config.UIConfig{ShowLineNumbers: true}})
	tm := teatest.NewTestModel(t, m, teatest.WithInitialTermSize(100, 30))

	tm.Send(keyMsg(tea.KeyDown))
	tm.Send(keyMsg(tea.KeyDown))
	tm.Send(keyMsg(tea.KeyDown))

	teatest.WaitFor(t, tm.Output(), func(b []byte) bool {
		return bytes.Contains(b, []byte("fence:python"))
	}, teatest.WithDuration(3*time.Second), teatest.WithCheckInterval(20*time.Millisecond))

	tm.Send(keyMsg(tea.KeyCtrlUnderscore))
	tm.Send(keyMsg(tea.KeyCtrlQ))

	final := tm.FinalModel(t, teatest.WithFinalTimeout(3*time.Second)).(Model)
	require.Equal(t, "# Title\n\n```python\n# foo()\nbar()\n```\n", final.Buffer().Value())
}
