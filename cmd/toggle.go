package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/zjrosen/advcomment/internal/app"
	"github.com/zjrosen/advcomment/internal/editor"
	"github.com/zjrosen/advcomment/internal/language"
	"github.com/zjrosen/advcomment/internal/preview"
	"github.com/zjrosen/advcomment/internal/toggle"
)

const diffContext = 3

var toggleCmd = &cobra.Command{
	Use:   "toggle FILE",
	Short: "Comment or uncomment a range of a note",
	Long: `Toggle a comment on the range --from..--to of FILE. Positions are 1-based
LINE:COL; --to is exclusive and defaults to --from, which comments the whole
line under the cursor. The result is printed unless -w is given.

Examples:
  advcomment toggle note.md --from 4:1               # comment line 4
  advcomment toggle note.md --from 4:3 --to 6:2 -w   # lines 4-6 in a fence, in place
  advcomment toggle note.md --from 2:5 --to 2:9 --block --diff`,
	Args: cobra.ExactArgs(1),
	RunE: runToggle,
}

var (
	toggleFrom  string
	toggleTo    string
	toggleBlock bool
	toggleWrite bool
	toggleDiff  bool
)

func init() {
	rootCmd.AddCommand(toggleCmd)

	toggleCmd.Flags().StringVar(&toggleFrom, "from", "", "start of the selection, LINE:COL (required)")
	toggleCmd.Flags().StringVar(&toggleTo, "to", "", "end of the selection, LINE:COL (default: --from)")
	toggleCmd.Flags().BoolVar(&toggleBlock, "block", false, "use block comments instead of line comments")
	toggleCmd.Flags().BoolVarP(&toggleWrite, "write", "w", false, "write the result back to FILE")
	toggleCmd.Flags().BoolVar(&toggleDiff, "diff", false, "print a diff instead of the result")
	_ = toggleCmd.MarkFlagRequired("from")
}

func runToggle(cmd *cobra.Command, args []string) error {
	path := args[0]
	doc, err := app.LoadFile(path)
	if err != nil {
		return err
	}

	from, err := parsePosition(doc, toggleFrom)
	if err != nil {
		return fmt.Errorf("--from: %w", err)
	}
	to := from
	if toggleTo != "" {
		if to, err = parsePosition(doc, toggleTo); err != nil {
			return fmt.Errorf("--to: %w", err)
		}
	}
	doc.SetSelection(from, to)

	commenter, err := newCommenter(nil)
	if err != nil {
		return err
	}

	mode := language.Line
	if toggleBlock {
		mode = language.Block
	}

	before := doc.Value()
	res := commenter.Toggle(cmd.Context(), doc, mode)
	if res.Action == toggle.Unchanged {
		fmt.Fprintf(cmd.ErrOrStderr(), "%s: nothing to toggle (%s, %s)\n", path, res.Context, mode)
	}

	return emit(cmd, path, before, doc.Value(), toggleWrite, toggleDiff)
}

// emit writes, diffs or prints the updated note.
func emit(cmd *cobra.Command, path, before, after string, write, diff bool) error {
	out := cmd.OutOrStdout()
	if diff {
		fmt.Fprint(out, preview.Unified(path, before, after, diffContext, preview.DefaultStyles()))
	}
	if write {
		if after == before {
			return nil
		}
		if err := app.SaveFile(path, after); err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}
		return nil
	}
	if !diff {
		fmt.Fprint(out, after)
	}
	return nil
}

// parsePosition parses a 1-based LINE:COL and checks it exists in doc.
func parsePosition(doc *editor.Buffer, s string) (editor.Position, error) {
	lineStr, colStr, ok := strings.Cut(s, ":")
	if !ok {
		return editor.Position{}, fmt.Errorf("invalid position %q: want LINE:COL", s)
	}
	line, err := strconv.Atoi(lineStr)
	if err != nil {
		return editor.Position{}, fmt.Errorf("invalid line in %q: %w", s, err)
	}
	col, err := strconv.Atoi(colStr)
	if err != nil {
		return editor.Position{}, fmt.Errorf("invalid column in %q: %w", s, err)
	}

	p := editor.Position{Line: line - 1, Col: col - 1}
	if err := doc.Validate(p); err != nil {
		return editor.Position{}, fmt.Errorf("%s: %w", s, err)
	}
	return p, nil
}
