package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/zjrosen/advcomment/internal/app"
	"github.com/zjrosen/advcomment/internal/config"
	"github.com/zjrosen/advcomment/internal/flags"
	"github.com/zjrosen/advcomment/internal/log"
	"github.com/zjrosen/advcomment/internal/paths"
	"github.com/zjrosen/advcomment/internal/pattern"
	"github.com/zjrosen/advcomment/internal/pubsub"
	"github.com/zjrosen/advcomment/internal/toggle"
	"github.com/zjrosen/advcomment/internal/tracing"
)

func init() {
	// Query the terminal background before any Bubble Tea program starts so
	// the OSC 11 reply cannot race the input loop.
	// See: https://github.com/charmbracelet/bubbletea/issues/1036
	_ = lipgloss.HasDarkBackground()
}

const (
	localConfigPath = ".advcomment/config.yaml"
	shutdownTimeout = 5 * time.Second
)

var (
	version   = "dev"
	cfgFile   string
	debugFlag bool
	cfg       config.Config
	features  *flags.Registry

	provider   *tracing.Provider
	logCleanup func()
)

var rootCmd = &cobra.Command{
	Use:   "advcomment",
	Short: "Toggle code-aware comments in markdown notes",
	Long: `advcomment comments and uncomments text in markdown notes using the comment
syntax of the enclosing code fence: # inside a python fence, // inside a js
fence, and %% %% markup comments outside any fence. It also trims trailing
whitespace, everywhere or only inside fenced code.`,
	Version:            version,
	SilenceUsage:       true,
	PersistentPreRunE:  setup,
	PersistentPostRunE: teardown,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"config file (default: ~/.config/advcomment/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&debugFlag, "debug", "d", false,
		"write debug logs (also enabled by ADVCOMMENT_DEBUG)")
}

func initConfig() {
	viper.Reset()

	defaults := config.Defaults()
	viper.SetDefault("languages", defaults.Languages)
	viper.SetDefault("trim.code_only_default", defaults.Trim.CodeOnlyDefault)
	viper.SetDefault("trim.on_save", defaults.Trim.OnSave)
	viper.SetDefault("watch.debounce", defaults.Watch.Debounce)
	viper.SetDefault("ui.show_line_numbers", defaults.UI.ShowLineNumbers)
	viper.SetDefault("ui.markdown_style", defaults.UI.MarkdownStyle)
	viper.SetDefault("ui.show_preview", defaults.UI.ShowPreview)
	viper.SetDefault("tracing.enabled", defaults.Tracing.Enabled)
	viper.SetDefault("tracing.exporter", defaults.Tracing.Exporter)
	viper.SetDefault("tracing.file_path", defaults.Tracing.FilePath)
	viper.SetDefault("tracing.otlp_endpoint", defaults.Tracing.OTLPEndpoint)
	viper.SetDefault("tracing.sample_rate", defaults.Tracing.SampleRate)
	viper.SetDefault("tracing.service_name", defaults.Tracing.ServiceName)
	viper.SetDefault("flags", defaults.Flags)

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		// Config lookup order:
		// 1. .advcomment/config.yaml (current directory or a parent)
		// 2. ~/.config/advcomment/config.yaml (user config)
		if local, ok := paths.FindLocalConfig(""); ok {
			viper.SetConfigFile(local)
		} else {
			viper.AddConfigPath(config.DefaultConfigDir())
			viper.SetConfigName("config")
			viper.SetConfigType("yaml")
		}
	}

	if err := viper.ReadInConfig(); err != nil {
		// No config file found anywhere - create the default in the user
		// config directory
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			defaultPath := filepath.Join(config.DefaultConfigDir(), "config.yaml")
			if writeErr := config.WriteDefaultConfig(defaultPath); writeErr == nil {
				viper.SetConfigFile(defaultPath)
				_ = viper.ReadInConfig()
			}
			// If write fails, just continue with defaults (no config file)
		}
	}

	cfg = config.Defaults()
	_ = viper.Unmarshal(&cfg)
	cfg.Tracing.FilePath = expandHome(cfg.Tracing.FilePath)
}

// configPath returns the file config changes are saved to.
func configPath() string {
	if used := viper.ConfigFileUsed(); used != "" {
		return used
	}
	return localConfigPath
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[2:])
}

// setup initializes logging and tracing and validates the configuration.
func setup(cmd *cobra.Command, _ []string) error {
	if os.Getenv("ADVCOMMENT_DEBUG") != "" || debugFlag {
		logPath := os.Getenv("ADVCOMMENT_LOG")
		if logPath == "" {
			logPath = "debug.log"
		}

		var err error
		if cmd.Name() == "edit" {
			logCleanup, err = log.InitWithTeaLog(logPath, "advcomment")
		} else {
			logCleanup, err = log.Init(logPath)
		}
		if err != nil {
			return fmt.Errorf("initializing logging: %w", err)
		}
		if name := os.Getenv("ADVCOMMENT_LOG_LEVEL"); name != "" {
			level, err := log.ParseLevel(name)
			if err != nil {
				return err
			}
			log.SetMinLevel(level)
		}
		log.Info(log.CatConfig, "advcomment starting", "command", cmd.Name(), "config", viper.ConfigFileUsed())
	}

	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	features = flags.New(cfg.Flags)

	var err error
	provider, err = tracing.NewProvider(cfg.Tracing)
	if err != nil {
		return fmt.Errorf("initializing tracing: %w", err)
	}
	return nil
}

func teardown(_ *cobra.Command, _ []string) error {
	var err error
	if provider != nil {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if shutdownErr := provider.Shutdown(ctx); shutdownErr != nil {
			err = fmt.Errorf("flushing traces: %w", shutdownErr)
		}
		provider = nil
	}
	if logCleanup != nil {
		logCleanup()
		logCleanup = nil
	}
	return err
}

// newCommenter builds a commenter from the loaded configuration. broker may
// be nil.
func newCommenter(broker *pubsub.Broker[app.Change]) (*app.Commenter, error) {
	table, err := cfg.LanguageTable()
	if err != nil {
		return nil, err
	}

	tp := provider
	if tp == nil {
		tp = tracing.Noop()
	}
	opts := []app.Option{
		app.WithEngine(toggle.New(table, pattern.NewCatalog())),
		app.WithTracer(tp.Tracer()),
		app.WithBroker(broker),
	}
	if features.Enabled(flags.FlagScanFences) {
		opts = append(opts, app.WithoutIndex())
	}
	return app.New(opts...), nil
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion sets the version string (called from main with ldflags)
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}
