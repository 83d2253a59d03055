package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zjrosen/advcomment/internal/app"
)

var trimCmd = &cobra.Command{
	Use:   "trim FILE",
	Short: "Remove trailing whitespace from a note",
	Long: `Remove trailing spaces and tabs from every line of FILE, or with --code-only
from the lines of fenced code blocks only. The result is printed unless -w is
given; -w leaves the file untouched when there is nothing to trim.`,
	Args: cobra.ExactArgs(1),
	RunE: runTrim,
}

var (
	trimCodeOnly bool
	trimWrite    bool
	trimDiff     bool
)

func init() {
	rootCmd.AddCommand(trimCmd)

	trimCmd.Flags().BoolVar(&trimCodeOnly, "code-only", false,
		"trim fenced code blocks only (default: trim.code_only_default)")
	trimCmd.Flags().BoolVarP(&trimWrite, "write", "w", false, "write the result back to FILE")
	trimCmd.Flags().BoolVar(&trimDiff, "diff", false, "print a diff instead of the result")
}

// codeOnly resolves a --code-only flag against the configured default.
func codeOnly(cmd *cobra.Command, flag bool) bool {
	if cmd.Flags().Changed("code-only") {
		return flag
	}
	return cfg.Trim.CodeOnlyDefault
}

func runTrim(cmd *cobra.Command, args []string) error {
	path := args[0]
	commenter, err := newCommenter(nil)
	if err != nil {
		return err
	}
	only := codeOnly(cmd, trimCodeOnly)

	if trimWrite && !trimDiff {
		changed, err := commenter.TrimFile(cmd.Context(), path, only)
		if err != nil {
			return err
		}
		if changed {
			fmt.Fprintf(cmd.ErrOrStderr(), "trimmed %s\n", path)
		}
		return nil
	}

	doc, err := app.LoadFile(path)
	if err != nil {
		return err
	}
	before := doc.Value()
	commenter.Trim(cmd.Context(), doc, only)
	return emit(cmd, path, before, doc.Value(), trimWrite, trimDiff)
}
