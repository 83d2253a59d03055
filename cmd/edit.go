package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/zjrosen/advcomment/internal/app"
	"github.com/zjrosen/advcomment/internal/playground"
	"github.com/zjrosen/advcomment/internal/pubsub"
)

var editCmd = &cobra.Command{
	Use:   "edit [FILE]",
	Short: "Open a note in the interactive playground",
	Long: `Open FILE in a small terminal editor with comment toggling bound to keys:
ctrl+/ toggles line comments, ctrl+b block comments, ctrl+t trims and ctrl+p
cycles the preview pane. FILE is created on first save when it does not exist.
Without FILE the buffer is a scratch note that cannot be saved.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runEdit,
}

func init() {
	rootCmd.AddCommand(editCmd)
}

func runEdit(cmd *cobra.Command, args []string) error {
	var path, text string
	if len(args) == 1 {
		path = args[0]
		doc, err := app.LoadFile(path)
		switch {
		case err == nil:
			text = doc.Value()
		case errors.Is(err, fs.ErrNotExist):
		default:
			return err
		}
	}

	broker := pubsub.NewBroker[app.Change]()
	defer broker.Close()

	commenter, err := newCommenter(broker)
	if err != nil {
		return err
	}

	model := playground.New(cmd.Context(), text, playground.Options{
		Path:      path,
		Commenter: commenter,
		Broker:    broker,
		UI:        cfg.UI,
		Trim:      cfg.Trim,
		Flags:     features,
	})

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(cmd.Context()))
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}
