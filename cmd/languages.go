package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/zjrosen/advcomment/internal/config"
	"github.com/zjrosen/advcomment/internal/language"
	"github.com/zjrosen/advcomment/internal/pattern"
	"github.com/zjrosen/advcomment/internal/presentation"
)

var languagesCmd = &cobra.Command{
	Use:     "languages",
	Aliases: []string{"langs"},
	Short:   "List the fence languages and their comment patterns",
	Long: `List every fence tag with its comment family and the pattern used for line
and block comments. A dash means the mode leaves text untouched.`,
	Args: cobra.NoArgs,
	RunE: runLanguages,
}

var languagesSetCmd = &cobra.Command{
	Use:   "set TAG FAMILY",
	Short: "Bind a fence tag to a comment family in the config file",
	Long: `Bind a fence tag to a comment family and save it to the config file.
FAMILY is one of: brace, hash, dash, html, batch, none.

Example:
  advcomment languages set rust brace`,
	Args: cobra.ExactArgs(2),
	RunE: runLanguagesSet,
}

var languagesJSON bool

func init() {
	rootCmd.AddCommand(languagesCmd)
	languagesCmd.AddCommand(languagesSetCmd)

	languagesCmd.Flags().BoolVar(&languagesJSON, "json", false, "print the table as JSON")
}

func runLanguages(cmd *cobra.Command, _ []string) error {
	table, err := cfg.LanguageTable()
	if err != nil {
		return err
	}
	dtos := presentation.FromTable(table, pattern.NewCatalog())

	if languagesJSON {
		return presentation.NewFormatter(cmd.OutOrStdout()).FormatLanguages(dtos)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%-14s %-7s %-13s %s\n", "TAG", "FAMILY", "LINE", "BLOCK")
	for _, d := range dtos {
		fmt.Fprintf(out, "%-14s %-7s %-13s %s\n", d.Tag, d.Family, orDash(d.Line), orDash(d.Block))
	}
	return nil
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func runLanguagesSet(cmd *cobra.Command, args []string) error {
	tag := strings.ToLower(strings.TrimSpace(args[0]))
	family, err := language.ParseFamily(args[1])
	if err != nil {
		return err
	}

	path := configPath()
	if err := config.SaveLanguage(path, tag, family); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s -> %s (saved to %s)\n", tag, family, path)
	return nil
}
