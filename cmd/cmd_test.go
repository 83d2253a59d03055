package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/x/ansi"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"

	"github.com/zjrosen/advcomment/internal/config"
	"github.com/zjrosen/advcomment/internal/editor"
)

const note = "# Title\n\n```python\nfoo()\nbar()\n```\n"

// resetFlags clears flag values left over from a previous Execute.
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

// execute runs the root command against a config file in dir and returns
// stdout and stderr.
func execute(t *testing.T, ctx context.Context, dir string, args ...string) (string, string, error) {
	t.Helper()
	resetFlags(rootCmd)

	cfgPath := filepath.Join(dir, "config.yaml")
	if _, err := os.Stat(cfgPath); os.IsNotExist(err) {
		require.NoError(t, config.WriteDefaultConfig(cfgPath))
	}

	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(append([]string{"--config", cfgPath}, args...))
	err := rootCmd.ExecuteContext(ctx)
	return stdout.String(), stderr.String(), err
}

func writeNote(t *testing.T, dir, text string) string {
	t.Helper()
	path := filepath.Join(dir, "note.md")
	require.NoError(t, os.WriteFile(path, []byte(text), 0o600))
	return path
}

func readNote(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestToggle_PrintsResult(t *testing.T) {
	dir := t.TempDir()
	path := writeNote(t, dir, note)

	out, _, err := execute(t, context.Background(), dir, "toggle", path, "--from", "4:1")
	require.NoError(t, err)
	require.Equal(t, "# Title\n\n```python\n# foo()\nbar()\n```\n", out)
	require.Equal(t, note, readNote(t, path), "file untouched without -w")
}

func TestToggle_WriteRange(t *testing.T) {
	dir := t.TempDir()
	path := writeNote(t, dir, note)

	out, _, err := execute(t, context.Background(), dir, "toggle", path, "--from", "4:2", "--to", "5:3", "-w")
	require.NoError(t, err)
	require.Empty(t, out)
	require.Equal(t, "# Title\n\n```python\n# foo()\n# bar()\n```\n", readNote(t, path))
}

func TestToggle_BlockOutsideFence(t *testing.T) {
	dir := t.TempDir()
	path := writeNote(t, dir, "some text here\n")

	out, _, err := execute(t, context.Background(), dir, "toggle", path, "--from", "1:6", "--to", "1:10", "--block")
	require.NoError(t, err)
	require.Equal(t, "some %% text %% here\n", out)
}

func TestToggle_Diff(t *testing.T) {
	dir := t.TempDir()
	path := writeNote(t, dir, note)

	out, _, err := execute(t, context.Background(), dir, "toggle", path, "--from", "4:1", "--diff")
	require.NoError(t, err)
	plain := ansi.Strip(out)
	require.Contains(t, plain, "-foo()")
	require.Contains(t, plain, "+# foo()")
}

func TestToggle_NothingToToggle(t *testing.T) {
	dir := t.TempDir()
	path := writeNote(t, dir, "```css\na { color: red; }\n```\n")

	out, errOut, err := execute(t, context.Background(), dir, "toggle", path, "--from", "2:1", "-w")
	require.NoError(t, err)
	require.Empty(t, out)
	require.Contains(t, errOut, "nothing to toggle (fence:css, line)")
}

func TestToggle_BadPosition(t *testing.T) {
	dir := t.TempDir()
	path := writeNote(t, dir, note)

	_, _, err := execute(t, context.Background(), dir, "toggle", path, "--from", "99:1")
	require.ErrorIs(t, err, editor.ErrPositionOutOfRange)
}

func TestParsePosition(t *testing.T) {
	doc := editor.NewBuffer("ab\ncd")

	p, err := parsePosition(doc, "2:3")
	require.NoError(t, err)
	require.Equal(t, editor.Position{Line: 1, Col: 2}, p)

	for _, bad := range []string{"2", "x:1", "1:y", ""} {
		_, err := parsePosition(doc, bad)
		require.Error(t, err, bad)
	}

	_, err = parsePosition(doc, "1:4")
	require.ErrorIs(t, err, editor.ErrPositionOutOfRange)
	_, err = parsePosition(doc, "0:1")
	require.ErrorIs(t, err, editor.ErrPositionOutOfRange)
}

func TestTrim(t *testing.T) {
	text := "text  \n```js\nlet a;  \n```\n"

	t.Run("prints", func(t *testing.T) {
		dir := t.TempDir()
		path := writeNote(t, dir, text)
		out, _, err := execute(t, context.Background(), dir, "trim", path)
		require.NoError(t, err)
		require.Equal(t, "text\n```js\nlet a;\n```\n", out)
	})

	t.Run("code only", func(t *testing.T) {
		dir := t.TempDir()
		path := writeNote(t, dir, text)
		out, _, err := execute(t, context.Background(), dir, "trim", path, "--code-only")
		require.NoError(t, err)
		require.Equal(t, "text  \n```js\nlet a;\n```\n", out)
	})

	t.Run("write", func(t *testing.T) {
		dir := t.TempDir()
		path := writeNote(t, dir, text)
		_, errOut, err := execute(t, context.Background(), dir, "trim", path, "-w")
		require.NoError(t, err)
		require.Contains(t, errOut, "trimmed "+path)
		require.Equal(t, "text\n```js\nlet a;\n```\n", readNote(t, path))
	})

	t.Run("configured code only default", func(t *testing.T) {
		dir := t.TempDir()
		path := writeNote(t, dir, text)
		cfgPath := filepath.Join(dir, "config.yaml")
		require.NoError(t, os.WriteFile(cfgPath, []byte("trim:\n  code_only_default: true\n"), 0o600))

		out, _, err := execute(t, context.Background(), dir, "trim", path)
		require.NoError(t, err)
		require.Equal(t, "text  \n```js\nlet a;\n```\n", out)

		out, _, err = execute(t, context.Background(), dir, "trim", path, "--code-only=false")
		require.NoError(t, err)
		require.Equal(t, "text\n```js\nlet a;\n```\n", out)
	})
}

func TestCRLFNote(t *testing.T) {
	text := "prose  \r\n```python\r\nfoo()  \r\n```\r\n"

	dir := t.TempDir()
	path := writeNote(t, dir, text)
	out, _, err := execute(t, context.Background(), dir, "trim", path, "--code-only")
	require.NoError(t, err)
	require.Equal(t, "prose  \r\n```python\r\nfoo()\r\n```\r\n", out)

	out, _, err = execute(t, context.Background(), dir, "toggle", path, "--from", "3:1")
	require.NoError(t, err)
	require.Equal(t, "prose  \r\n```python\r\n# foo()  \r\n```\r\n", out)
}

func TestLanguages(t *testing.T) {
	dir := t.TempDir()

	out, _, err := execute(t, context.Background(), dir, "languages")
	require.NoError(t, err)
	require.Regexp(t, `(?m)^python\s+hash\s+hash/line\s+-$`, out)
	require.Regexp(t, `(?m)^css\s+brace\s+-\s+brace/block$`, out)
	require.Regexp(t, `(?m)^templater\s+brace\s+brace/line\s+brace/line$`, out)
	require.NotContains(t, out, "rust")

	out, _, err = execute(t, context.Background(), dir, "languages", "set", "Rust", "brace")
	require.NoError(t, err)
	require.Contains(t, out, "rust -> brace")

	out, _, err = execute(t, context.Background(), dir, "languages")
	require.NoError(t, err)
	require.Regexp(t, `(?m)^rust\s+brace\s+brace/line\s+brace/block$`, out)

	out, _, err = execute(t, context.Background(), dir, "languages", "--json")
	require.NoError(t, err)
	require.Contains(t, out, `"tag": "rust"`)

	_, _, err = execute(t, context.Background(), dir, "languages", "set", "rust", "curly")
	require.ErrorContains(t, err, "unknown comment family")
}

func TestLanguageOverrideChangesToggle(t *testing.T) {
	dir := t.TempDir()
	path := writeNote(t, dir, "```rust\nlet a = 1;\n```\n")

	_, _, err := execute(t, context.Background(), dir, "languages", "set", "rust", "brace")
	require.NoError(t, err)

	out, _, err := execute(t, context.Background(), dir, "toggle", path, "--from", "2:1")
	require.NoError(t, err)
	require.Equal(t, "```rust\n// let a = 1;\n```\n", out)
}

func TestWatch_TrimsOnStartAndOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := writeNote(t, dir, "a  \n")
	require.NoError(t, config.WriteDefaultConfig(filepath.Join(dir, "config.yaml")))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	type result struct {
		out string
		err error
	}
	done := make(chan result, 1)
	go func() {
		out, _, err := execute(t, ctx, dir, "watch", path)
		done <- result{out, err}
	}()

	require.Eventually(t, func() bool {
		data, err := os.ReadFile(path)
		return err == nil && string(data) == "a\n"
	}, 3*time.Second, 20*time.Millisecond)

	// Give the watcher time to settle before the next write.
	time.Sleep(200 * time.Millisecond)
	require.NoError(t, os.WriteFile(path, []byte("b \t\n"), 0o600))

	require.Eventually(t, func() bool {
		data, err := os.ReadFile(path)
		return err == nil && string(data) == "b\n"
	}, 3*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case res := <-done:
		require.NoError(t, res.err)
		require.Contains(t, res.out, "trimmed "+path)
	case <-time.After(3 * time.Second):
		t.Fatal("watch did not stop")
	}
}
