package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/zjrosen/advcomment/internal/app"
	"github.com/zjrosen/advcomment/internal/log"
	"github.com/zjrosen/advcomment/internal/pubsub"
	"github.com/zjrosen/advcomment/internal/watcher"
)

var watchCmd = &cobra.Command{
	Use:   "watch FILE...",
	Short: "Trim notes every time they are saved",
	Long: `Watch the given notes and trim trailing whitespace after every save. Files
are trimmed once at start. A trim only rewrites a file when something changed.
Stop with ctrl+c.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runWatch,
}

var watchCodeOnly bool

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().BoolVar(&watchCodeOnly, "code-only", false,
		"trim fenced code blocks only (default: trim.code_only_default)")
}

func runWatch(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	broker := pubsub.NewBroker[app.Change]()
	defer broker.Close()

	commenter, err := newCommenter(broker)
	if err != nil {
		return err
	}

	w, err := watcher.New(watcher.Config{Paths: args, DebounceDur: cfg.Watch.Debounce})
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	changes, err := w.Start()
	if err != nil {
		return fmt.Errorf("starting watcher: %w", err)
	}
	defer func() { _ = w.Stop() }()

	only := codeOnly(cmd, watchCodeOnly)
	done := report(ctx, cmd, broker)

	for _, path := range args {
		trimWatched(ctx, commenter, cmd, path, only)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "watching %d file(s), ctrl+c to stop\n", len(args))

	for {
		select {
		case <-ctx.Done():
			broker.Close()
			<-done
			return nil
		case path, ok := <-changes:
			if !ok {
				broker.Close()
				<-done
				return nil
			}
			trimWatched(ctx, commenter, cmd, path, only)
		}
	}
}

func trimWatched(ctx context.Context, commenter *app.Commenter, cmd *cobra.Command, path string, only bool) {
	if _, err := commenter.TrimFile(ctx, path, only); err != nil {
		log.ErrorErr(log.CatWatcher, "trim failed", err, "path", path)
		fmt.Fprintf(cmd.ErrOrStderr(), "error: %v\n", err)
	}
}

// report prints every file the commenter rewrites. The returned channel is
// closed once the broker closes.
func report(ctx context.Context, cmd *cobra.Command, broker *pubsub.Broker[app.Change]) <-chan struct{} {
	events := broker.Subscribe(ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for event := range events {
			if event.Type == pubsub.FileTrimmedEvent {
				fmt.Fprintf(cmd.OutOrStdout(), "%s trimmed %s\n",
					event.Timestamp.Format("15:04:05"), event.Payload.Path)
			}
		}
	}()
	return done
}
