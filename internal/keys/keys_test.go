package keys

import (
	"testing"

	"github.com/charmbracelet/bubbles/key"
	"github.com/stretchr/testify/require"
)

func TestCommandKeyAssignments(t *testing.T) {
	tests := []struct {
		name     string
		binding  key.Binding
		expected []string
	}{
		{name: "line comment accepts ctrl+_ from terminals", binding: Playground.ToggleLine, expected: []string{"ctrl+_", "ctrl+/"}},
		{name: "block comment", binding: Playground.ToggleBlock, expected: []string{"ctrl+b"}},
		{name: "trim", binding: Playground.Trim, expected: []string{"ctrl+t"}},
		{name: "trim code", binding: Playground.TrimCode, expected: []string{"ctrl+k"}},
		{name: "preview", binding: Playground.Preview, expected: []string{"ctrl+p"}},
		{name: "save", binding: Playground.Save, expected: []string{"ctrl+s"}},
		{name: "quit", binding: Playground.Quit, expected: []string{"ctrl+q", "ctrl+c"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, tt.binding.Keys())
		})
	}
}

func TestNoDuplicateKeys(t *testing.T) {
	seen := map[string]string{}
	for _, group := range Playground.FullHelp() {
		for _, b := range group {
			for _, k := range b.Keys() {
				prev, dup := seen[k]
				require.False(t, dup, "key %q bound to both %q and %q", k, prev, b.Help().Desc)
				seen[k] = b.Help().Desc
			}
		}
	}
}

func TestHelpTextPresent(t *testing.T) {
	for _, group := range Playground.FullHelp() {
		for _, b := range group {
			require.NotEmpty(t, b.Help().Key, "binding %v", b.Keys())
			require.NotEmpty(t, b.Help().Desc, "binding %v", b.Keys())
		}
	}
}

func TestShortHelpSubsetOfFull(t *testing.T) {
	full := map[string]bool{}
	for _, group := range Playground.FullHelp() {
		for _, b := range group {
			full[b.Help().Desc] = true
		}
	}
	for _, b := range Playground.ShortHelp() {
		require.True(t, full[b.Help().Desc], "%q missing from full help", b.Help().Desc)
	}
}
