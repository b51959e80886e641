// Package config holds slidedeck's configuration types, defaults and
// validation, and writes the commented default config file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/zjrosen/slidedeck/internal/log"
)

// Config is the full configuration read by viper.
type Config struct {
	Deck       DeckConfig       `mapstructure:"deck"`
	UI         UIConfig         `mapstructure:"ui"`
	LiveReload LiveReloadConfig `mapstructure:"live_reload"`
	Cache      CacheConfig      `mapstructure:"cache"`
	Tracing    TracingConfig    `mapstructure:"tracing"`
	Remote     RemoteConfig     `mapstructure:"remote"`
	Rehearsal  RehearsalConfig  `mapstructure:"rehearsal"`
	Flags      map[string]bool  `mapstructure:"flags"`
}

// DeckConfig controls navigation defaults.
type DeckConfig struct {
	Wrap   bool   `mapstructure:"wrap"`   // wrap around at either end
	Strict bool   `mapstructure:"strict"` // exit on unknown/duplicate slide errors
	Start  string `mapstructure:"start"`  // slide to open on; empty = first
}

// UIConfig holds presenter view options.
type UIConfig struct {
	MarkdownStyle string `mapstructure:"markdown_style"` // "dark" (default) or "light"
	ShowSidebar   bool   `mapstructure:"show_sidebar"`
	ShowFooter    bool   `mapstructure:"show_footer"`
	ShowNotes     bool   `mapstructure:"show_notes"`
}

// LiveReloadConfig controls re-reading the deck file when it changes.
type LiveReloadConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Debounce time.Duration `mapstructure:"debounce"`
}

// CacheConfig sizes the rendered slide cache.
type CacheConfig struct {
	Expiration time.Duration `mapstructure:"expiration"`
	Cleanup    time.Duration `mapstructure:"cleanup"`
}

// TracingConfig holds OpenTelemetry export options.
type TracingConfig struct {
	// Enabled controls whether spans are recorded at all.
	Enabled bool `mapstructure:"enabled"`

	// Exporter is one of "none", "file", "stdout", "otlp".
	Exporter string `mapstructure:"exporter"`

	// FilePath is the JSONL output for the "file" exporter.
	// Default: ~/.config/slidedeck/traces/traces.jsonl
	FilePath string `mapstructure:"file_path"`

	// OTLPEndpoint is the collector address for the "otlp" exporter.
	OTLPEndpoint string `mapstructure:"otlp_endpoint"`

	// SampleRate is the fraction of traces kept, 0.0 to 1.0.
	SampleRate float64 `mapstructure:"sample_rate"`
}

// RemoteConfig configures the MQTT remote control.
type RemoteConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	Broker      string `mapstructure:"broker"` // e.g. tcp://localhost:1883
	ClientID    string `mapstructure:"client_id"`
	TopicPrefix string `mapstructure:"topic_prefix"`
	QoS         byte   `mapstructure:"qos"`
}

// RehearsalConfig configures the per-slide timing store.
type RehearsalConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	DBPath  string `mapstructure:"db_path"`
}

// Dir returns ~/.config/slidedeck, or "" when the home dir is unknown.
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "slidedeck")
}

// DefaultTracesFilePath returns ~/.config/slidedeck/traces/traces.jsonl.
func DefaultTracesFilePath() string {
	dir := Dir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "traces", "traces.jsonl")
}

// DefaultRehearsalDBPath returns ~/.config/slidedeck/rehearsal.db.
func DefaultRehearsalDBPath() string {
	dir := Dir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "rehearsal.db")
}

// Defaults returns the configuration used when no file overrides it.
func Defaults() Config {
	return Config{
		Deck: DeckConfig{
			Wrap:   false,
			Strict: true,
		},
		UI: UIConfig{
			MarkdownStyle: "dark",
			ShowSidebar:   true,
			ShowFooter:    true,
			ShowNotes:     false,
		},
		LiveReload: LiveReloadConfig{
			Enabled:  true,
			Debounce: 200 * time.Millisecond,
		},
		Cache: CacheConfig{
			Expiration: 10 * time.Minute,
			Cleanup:    15 * time.Minute,
		},
		Tracing: TracingConfig{
			Enabled:      false,
			Exporter:     "file",
			OTLPEndpoint: "localhost:4317",
			SampleRate:   1.0,
		},
		Remote: RemoteConfig{
			Enabled:     false,
			Broker:      "tcp://localhost:1883",
			ClientID:    "slidedeck",
			TopicPrefix: "slidedeck",
			QoS:         1,
		},
		Rehearsal: RehearsalConfig{
			Enabled: false,
			DBPath:  DefaultRehearsalDBPath(),
		},
		Flags: map[string]bool{},
	}
}

// Validate checks every section.
func (c Config) Validate() error {
	if err := ValidateUI(c.UI); err != nil {
		return err
	}
	if err := ValidateLiveReload(c.LiveReload); err != nil {
		return err
	}
	if err := ValidateTracing(c.Tracing); err != nil {
		return err
	}
	if err := ValidateRemote(c.Remote); err != nil {
		return err
	}
	return ValidateRehearsal(c.Rehearsal)
}

// ValidateUI checks the ui section.
func ValidateUI(ui UIConfig) error {
	switch ui.MarkdownStyle {
	case "", "dark", "light":
		return nil
	default:
		return fmt.Errorf("ui.markdown_style must be \"dark\" or \"light\", got %q", ui.MarkdownStyle)
	}
}

// ValidateLiveReload checks the live_reload section.
func ValidateLiveReload(lr LiveReloadConfig) error {
	if lr.Debounce < 0 {
		return fmt.Errorf("live_reload.debounce must not be negative, got %s", lr.Debounce)
	}
	return nil
}

// ValidateTracing checks the tracing section. Paths and endpoints are only
// required when tracing is enabled.
func ValidateTracing(tracing TracingConfig) error {
	if tracing.SampleRate < 0.0 || tracing.SampleRate > 1.0 {
		return fmt.Errorf("tracing.sample_rate must be between 0.0 and 1.0, got %v", tracing.SampleRate)
	}

	switch tracing.Exporter {
	case "", "none", "file", "stdout", "otlp":
	default:
		return fmt.Errorf("tracing.exporter must be \"none\", \"file\", \"stdout\", or \"otlp\", got %q", tracing.Exporter)
	}

	if tracing.Enabled && tracing.Exporter == "otlp" && tracing.OTLPEndpoint == "" {
		return fmt.Errorf("tracing.otlp_endpoint is required when exporter is \"otlp\"")
	}
	return nil
}

// ValidateRemote checks the remote section.
func ValidateRemote(remote RemoteConfig) error {
	if remote.QoS > 2 {
		return fmt.Errorf("remote.qos must be 0, 1, or 2, got %d", remote.QoS)
	}
	if !remote.Enabled {
		return nil
	}
	if remote.Broker == "" {
		return fmt.Errorf("remote.broker is required when remote is enabled")
	}
	if remote.TopicPrefix == "" {
		return fmt.Errorf("remote.topic_prefix is required when remote is enabled")
	}
	return nil
}

// ValidateRehearsal checks the rehearsal section.
func ValidateRehearsal(r RehearsalConfig) error {
	if r.Enabled && r.DBPath == "" {
		return fmt.Errorf("rehearsal.db_path is required when rehearsal is enabled")
	}
	return nil
}

// DefaultConfigTemplate returns the default config file with comments.
func DefaultConfigTemplate() string {
	return `# slidedeck configuration

# Navigation
deck:
  wrap: false     # wrap from the last slide to the first and back
  strict: true    # exit on unknown or duplicate slide names instead of warning
  # start: intro  # slide to open on (default: first slide)

# Presenter view
ui:
  markdown_style: dark  # "dark" (default) or "light"
  show_sidebar: true    # slide list on the left
  show_footer: true     # position and key hints
  show_notes: false     # speaker notes pane

# Re-read the deck file when it changes on disk
live_reload:
  enabled: true
  debounce: 200ms

# Rendered slide cache
cache:
  expiration: 10m
  cleanup: 15m

# MQTT remote control
# Publish {"action":"next"} to <topic_prefix>/control to drive the deck.
# The active slide is published retained on <topic_prefix>/state.
remote:
  enabled: false
  broker: tcp://localhost:1883
  client_id: slidedeck
  topic_prefix: slidedeck
  qos: 1

# Rehearsal timing (how long each slide was shown)
# See 'slidedeck stats <deck>' for the report.
rehearsal:
  enabled: false
  # db_path: ~/.config/slidedeck/rehearsal.db

# Tracing
# tracing:
#   enabled: false
#   exporter: file                 # none, file, stdout, otlp
#   file_path: ~/.config/slidedeck/traces/traces.jsonl
#   otlp_endpoint: localhost:4317
#   sample_rate: 1.0

# Feature flags
# flags:
#   reload-diff: true   # toast line counts when the deck file changes
#   mouse: true         # clickable prev/next buttons
`
}

// WriteDefaultConfig writes DefaultConfigTemplate to configPath, creating
// the parent directory when needed.
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
