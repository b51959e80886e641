package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/zjrosen/slidedeck/internal/app"
	"github.com/zjrosen/slidedeck/internal/cachemanager"
	"github.com/zjrosen/slidedeck/internal/config"
	"github.com/zjrosen/slidedeck/internal/flags"
	"github.com/zjrosen/slidedeck/internal/log"
	"github.com/zjrosen/slidedeck/internal/presentation"
	"github.com/zjrosen/slidedeck/internal/rehearsal"
	"github.com/zjrosen/slidedeck/internal/remote"
	"github.com/zjrosen/slidedeck/internal/tracing"
)

func init() {
	// Force lipgloss/termenv to query terminal background color BEFORE
	// any Bubble Tea program starts. This prevents the terminal's OSC 11
	// response from racing with Bubble Tea's input loop and appearing as
	// garbage text in input fields.
	//
	// See: https://github.com/charmbracelet/bubbletea/issues/1036
	_ = lipgloss.HasDarkBackground()
}

const localConfigPath = ".slidedeck/config.yaml"

var (
	version   = "dev"
	cfgFile   string
	debugFlag bool
	cfg       config.Config
	cfgErr    error
)

var rootCmd = &cobra.Command{
	Use:   "slidedeck <deck.md>",
	Short: "Present markdown slide decks in the terminal",
	Long: `Present a markdown slide deck in the terminal.

Slides are separated by a line containing only "---". A slide can be named
with <!-- slide: name --> and speaker notes follow a "???" line. Optional
YAML front matter sets the title, wrap and start slide.

Examples:
  slidedeck talk.md                 # Open on the first slide
  slidedeck talk.md --start summary # Open on the slide named "summary"
  slidedeck talk.md --start 5       # Open on the fifth slide
  slidedeck talk.md --wrap          # Wrap around at either end`,
	Version:      version,
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
	RunE:         runPresent,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"config file (default: ~/.config/slidedeck/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&debugFlag, "debug", "d", false,
		"write a debug log and enable the log overlay (ctrl+x)")
	rootCmd.Flags().Bool("wrap", false,
		"wrap from the last slide to the first and back")
	rootCmd.Flags().StringP("start", "s", "",
		"slide name or 1-based number to open on")
	rootCmd.Flags().Bool("no-live-reload", false,
		"do not reload the deck when the file changes")
}

func initConfig() {
	viper.Reset()
	cfg, cfgErr = readConfig(viper.GetViper(), cfgFile)
}

// readConfig loads the config file into a Config on top of the defaults.
// Lookup order: explicit path, .slidedeck/config.yaml, then
// ~/.config/slidedeck/config.yaml. When none exists the default file is
// written to the user config dir.
func readConfig(v *viper.Viper, path string) (config.Config, error) {
	setDefaults(v, config.Defaults())
	v.SetEnvPrefix("SLIDEDECK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	switch {
	case path != "":
		v.SetConfigFile(path)
	case fileExists(localConfigPath):
		v.SetConfigFile(localConfigPath)
	default:
		v.AddConfigPath(config.Dir())
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return config.Config{}, fmt.Errorf("reading config: %w", err)
		}
		if dir := config.Dir(); dir != "" {
			defaultPath := filepath.Join(dir, "config.yaml")
			if writeErr := config.WriteDefaultConfig(defaultPath); writeErr == nil {
				v.SetConfigFile(defaultPath)
				_ = v.ReadInConfig()
			}
			// If write fails, just continue with defaults (no config file)
		}
	}

	var c config.Config
	if err := v.Unmarshal(&c); err != nil {
		return config.Config{}, fmt.Errorf("decoding config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return config.Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return c, nil
}

func setDefaults(v *viper.Viper, d config.Config) {
	v.SetDefault("deck.wrap", d.Deck.Wrap)
	v.SetDefault("deck.strict", d.Deck.Strict)
	v.SetDefault("deck.start", d.Deck.Start)
	v.SetDefault("ui.markdown_style", d.UI.MarkdownStyle)
	v.SetDefault("ui.show_sidebar", d.UI.ShowSidebar)
	v.SetDefault("ui.show_footer", d.UI.ShowFooter)
	v.SetDefault("ui.show_notes", d.UI.ShowNotes)
	v.SetDefault("live_reload.enabled", d.LiveReload.Enabled)
	v.SetDefault("live_reload.debounce", d.LiveReload.Debounce)
	v.SetDefault("cache.expiration", d.Cache.Expiration)
	v.SetDefault("cache.cleanup", d.Cache.Cleanup)
	v.SetDefault("tracing.enabled", d.Tracing.Enabled)
	v.SetDefault("tracing.exporter", d.Tracing.Exporter)
	v.SetDefault("tracing.file_path", d.Tracing.FilePath)
	v.SetDefault("tracing.otlp_endpoint", d.Tracing.OTLPEndpoint)
	v.SetDefault("tracing.sample_rate", d.Tracing.SampleRate)
	v.SetDefault("remote.enabled", d.Remote.Enabled)
	v.SetDefault("remote.broker", d.Remote.Broker)
	v.SetDefault("remote.client_id", d.Remote.ClientID)
	v.SetDefault("remote.topic_prefix", d.Remote.TopicPrefix)
	v.SetDefault("remote.qos", d.Remote.QoS)
	v.SetDefault("rehearsal.enabled", d.Rehearsal.Enabled)
	v.SetDefault("rehearsal.db_path", d.Rehearsal.DBPath)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// loadedConfig returns the config, or the error that stopped it loading.
func loadedConfig() (config.Config, error) {
	return cfg, cfgErr
}

// initLogging starts the debug log when --debug or SLIDEDECK_DEBUG is set.
func initLogging(component string) (func(), error) {
	if os.Getenv("SLIDEDECK_DEBUG") == "" && !debugFlag {
		return func() {}, nil
	}
	logPath := os.Getenv("SLIDEDECK_LOG")
	if logPath == "" {
		logPath = "debug.log"
	}
	cleanup, err := log.Init(logPath)
	if err != nil {
		return nil, fmt.Errorf("initializing logging: %w", err)
	}
	log.Info(log.CatConfig, "slidedeck starting", "component", component, "version", version, "logPath", logPath)
	return cleanup, nil
}

// loadDeck reads a deck by absolute path so rehearsal stats line up no
// matter where slidedeck was started from.
func loadDeck(path string) (*presentation.Deck, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving deck path: %w", err)
	}
	return presentation.Load(abs)
}

func runPresent(cmd *cobra.Command, args []string) (err error) {
	settings, err := loadedConfig()
	if err != nil {
		return err
	}
	cleanupLog, err := initLogging("present")
	if err != nil {
		return err
	}
	defer cleanupLog()

	d, err := loadDeck(args[0])
	if err != nil {
		return err
	}

	if noLiveReload, _ := cmd.Flags().GetBool("no-live-reload"); noLiveReload {
		settings.LiveReload.Enabled = false
	}
	var wrap *bool
	if cmd.Flags().Changed("wrap") {
		w, _ := cmd.Flags().GetBool("wrap")
		wrap = &w
	}
	start, _ := cmd.Flags().GetString("start")

	provider, err := tracing.NewProvider(tracing.FromConfig(settings.Tracing))
	if err != nil {
		return fmt.Errorf("initializing tracing: %w", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if shutdownErr := provider.Shutdown(ctx); shutdownErr != nil {
			log.ErrorErr(log.CatTrace, "Tracing shutdown failed", shutdownErr)
		}
	}()

	// Store the config file path for saving wrap and pane toggles
	configFilePath := viper.ConfigFileUsed()
	if configFilePath == "" {
		configFilePath = filepath.Join(config.Dir(), "config.yaml")
	}

	appCfg := app.Config{
		Deck:       d,
		Settings:   settings,
		ConfigPath: configFilePath,
		Debug:      debugFlag || os.Getenv("SLIDEDECK_DEBUG") != "",
		Wrap:       wrap,
		Start:      start,
		Cache: cachemanager.NewInMemoryCacheManager[string, string](
			"slides", settings.Cache.Expiration, settings.Cache.Cleanup),
		Flags:  flags.New(settings.Flags),
		Tracer: provider.Tracer(),
	}

	if settings.Remote.Enabled {
		remoteCfg := remote.FromConfig(settings.Remote)
		remoteCfg.Tracer = provider.Tracer()
		client, connectErr := remote.Connect(remoteCfg)
		if connectErr != nil {
			return connectErr
		}
		defer func() { _ = client.Close() }()
		if listenErr := client.Listen(); listenErr != nil {
			return listenErr
		}
		appCfg.Remote = client
	}

	if settings.Rehearsal.Enabled {
		store, openErr := rehearsal.Open(settings.Rehearsal.DBPath)
		if openErr != nil {
			return openErr
		}
		defer func() { _ = store.Close() }()

		ctx := context.Background()
		sessionID, startErr := store.StartSession(ctx, d.Path, time.Now())
		if startErr != nil {
			return startErr
		}
		defer func() {
			if endErr := store.EndSession(ctx, sessionID, time.Now()); endErr != nil && err == nil {
				err = endErr
			}
		}()
		appCfg.Rehearsal = store
		appCfg.SessionID = sessionID
	}

	zone.NewGlobal()
	model, err := app.New(appCfg)
	if err != nil {
		return err
	}

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	_, err = p.Run()

	// Flush the last dwell and stop the watcher before the store closes
	if closeErr := model.Close(); closeErr != nil && err == nil {
		err = closeErr
	}

	if err != nil {
		return fmt.Errorf("running program: %w", err)
	}
	return nil
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
