// Package config provides configuration types, defaults and persistence for
// advcomment.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/zjrosen/advcomment/internal/language"
	"github.com/zjrosen/advcomment/internal/log"
	"github.com/zjrosen/advcomment/internal/tracing"
)

// Config holds all configuration options for advcomment.
type Config struct {
	// Languages adds or overrides fence tag bindings, tag -> family name.
	Languages map[string]string `mapstructure:"languages"`
	Trim      TrimConfig        `mapstructure:"trim"`
	Watch     WatchConfig       `mapstructure:"watch"`
	UI        UIConfig          `mapstructure:"ui"`
	Tracing   tracing.Config    `mapstructure:"tracing"`
	// Flags toggles experimental behavior, see package flags.
	Flags map[string]bool `mapstructure:"flags"`
}

// TrimConfig controls the trim commands.
type TrimConfig struct {
	CodeOnlyDefault bool `mapstructure:"code_only_default"` // trim fences only unless --code-only=false
	OnSave          bool `mapstructure:"on_save"`           // playground trims before writing
}

// WatchConfig controls watch mode.
type WatchConfig struct {
	Debounce time.Duration `mapstructure:"debounce"`
}

// UIConfig holds playground options.
type UIConfig struct {
	ShowLineNumbers bool   `mapstructure:"show_line_numbers"`
	MarkdownStyle   string `mapstructure:"markdown_style"` // "dark" (default) or "light"
	ShowPreview     bool   `mapstructure:"show_preview"`
}

// DefaultConfigDir returns ~/.config/advcomment, or "" without a home directory.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "advcomment")
}

// DefaultTracesFilePath returns ~/.config/advcomment/traces/traces.jsonl.
func DefaultTracesFilePath() string {
	dir := DefaultConfigDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "traces", "traces.jsonl")
}

// Defaults returns a Config with default values.
func Defaults() Config {
	tc := tracing.DefaultConfig()
	tc.FilePath = DefaultTracesFilePath()

	return Config{
		Languages: map[string]string{},
		Watch: WatchConfig{
			Debounce: 100 * time.Millisecond,
		},
		UI: UIConfig{
			ShowLineNumbers: true,
			MarkdownStyle:   "dark",
		},
		Tracing: tc,
		Flags:   map[string]bool{},
	}
}

// LanguageTable builds the language table with the configured overrides.
func (c Config) LanguageTable() (*language.Table, error) {
	overrides, err := parseLanguages(c.Languages)
	if err != nil {
		return nil, err
	}
	return language.NewTable(overrides), nil
}

func parseLanguages(languages map[string]string) (map[string]language.Family, error) {
	tags := make([]string, 0, len(languages))
	for tag := range languages {
		tags = append(tags, tag)
	}
	sort.Strings(tags)

	overrides := make(map[string]language.Family, len(languages))
	for _, tag := range tags {
		if strings.TrimSpace(tag) == "" {
			return nil, fmt.Errorf("languages: empty tag")
		}
		family, err := language.ParseFamily(languages[tag])
		if err != nil {
			return nil, fmt.Errorf("languages.%s: %w", tag, err)
		}
		overrides[tag] = family
	}
	return overrides, nil
}

// Validate checks the whole configuration.
func Validate(c Config) error {
	if _, err := parseLanguages(c.Languages); err != nil {
		return err
	}
	if err := ValidateUI(c.UI); err != nil {
		return err
	}
	if c.Watch.Debounce < 0 {
		return fmt.Errorf("watch.debounce must not be negative, got %s", c.Watch.Debounce)
	}
	return ValidateTracing(c.Tracing)
}

// ValidateUI checks playground options.
func ValidateUI(ui UIConfig) error {
	switch ui.MarkdownStyle {
	case "", "dark", "light":
		return nil
	default:
		return fmt.Errorf("ui.markdown_style must be \"dark\" or \"light\", got %q", ui.MarkdownStyle)
	}
}

// ValidateTracing checks tracing configuration. Path requirements apply
// only when tracing is enabled.
func ValidateTracing(tc tracing.Config) error {
	if tc.SampleRate < 0.0 || tc.SampleRate > 1.0 {
		return fmt.Errorf("tracing.sample_rate must be between 0.0 and 1.0, got %v", tc.SampleRate)
	}

	switch tc.Exporter {
	case "", tracing.ExporterNone, tracing.ExporterFile, tracing.ExporterStdout, tracing.ExporterOTLP:
	default:
		return fmt.Errorf("tracing.exporter must be \"none\", \"file\", \"stdout\", or \"otlp\", got %q", tc.Exporter)
	}

	if tc.Enabled {
		if tc.Exporter == tracing.ExporterFile && tc.FilePath == "" {
			return fmt.Errorf("tracing.file_path is required when exporter is \"file\"")
		}
		if tc.Exporter == tracing.ExporterOTLP && tc.OTLPEndpoint == "" {
			return fmt.Errorf("tracing.otlp_endpoint is required when exporter is \"otlp\"")
		}
	}

	return nil
}

// DefaultConfigTemplate returns the default config as a YAML string with comments.
func DefaultConfigTemplate() string {
	return `# advcomment configuration

# Extra or overriding fence languages: tag -> comment family.
# Families: brace (// and /* */), hash (#), dash (--), html (<!-- -->),
# batch (REM), none (never comment).
# Add one from the command line with: advcomment languages set TAG FAMILY
languages:
  # kotlin: brace
  # toml: hash

trim:
  code_only_default: false  # trim only inside fenced code blocks by default
  on_save: false            # trim trailing whitespace when saving from the editor

watch:
  debounce: 100ms           # wait this long after a write before trimming

ui:
  show_line_numbers: true
  markdown_style: dark      # "dark" (default) or "light"
  show_preview: false       # open the editor with the rendered preview visible

# Experimental behavior
# flags:
#   scan-fences: false       # find fences by scanning lines instead of parsing markdown
#   preview-comments: false  # show %% comments in the rendered preview

# Tracing of every toggle and trim
# tracing:
#   enabled: false                 # default: false
#   exporter: file                 # none, file, stdout, otlp (default: file)
#   file_path: ~/.config/advcomment/traces/traces.jsonl
#   otlp_endpoint: localhost:4317  # for the otlp exporter
#   sample_rate: 1.0               # 0.0-1.0 (default: 1.0)
`
}

// WriteDefaultConfig creates a config file at configPath holding the
// default template, creating the parent directory if needed.
func WriteDefaultConfig(configPath string) error {
	log.Debug(log.CatConfig, "Writing default config", "path", configPath)

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to create config directory", err, "dir", dir)
		return fmt.Errorf("creating config directory: %w", err)
	}

	if err := os.WriteFile(configPath, []byte(DefaultConfigTemplate()), 0o600); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to write config file", err, "path", configPath)
		return fmt.Errorf("writing config file: %w", err)
	}

	log.Info(log.CatConfig, "Created default config", "path", configPath)
	return nil
}
