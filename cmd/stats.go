package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/zjrosen/slidedeck/internal/presentation"
	"github.com/zjrosen/slidedeck/internal/rehearsal"
)

var (
	statsFormat string
	statsDB     string
)

var statsCmd = &cobra.Command{
	Use:   "stats <deck.md>",
	Short: "Show how long each slide was shown in rehearsals",
	Long: `Show per-slide rehearsal timings recorded while presenting a deck.

Timings are recorded when rehearsal.enabled is set in the config file.
Slides are listed in the order they were first shown.

Examples:
  slidedeck stats talk.md
  slidedeck stats talk.md --format json
  slidedeck stats talk.md --db ./rehearsal.db`,
	Args: cobra.ExactArgs(1),
	RunE: runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)

	statsCmd.Flags().StringVarP(&statsFormat, "format", "f", "text", "Output format: text or json")
	statsCmd.Flags().StringVar(&statsDB, "db", "", "rehearsal database (overrides rehearsal.db_path)")
}

func runStats(cmd *cobra.Command, args []string) error {
	settings, err := loadedConfig()
	if err != nil {
		return err
	}
	deckPath, err := filepath.Abs(args[0])
	if err != nil {
		return fmt.Errorf("resolving deck path: %w", err)
	}
	dbPath := settings.Rehearsal.DBPath
	if statsDB != "" {
		dbPath = statsDB
	}

	var stats []presentation.SlideStatDTO
	if _, statErr := os.Stat(dbPath); statErr == nil {
		stats, err = readStats(cmd, dbPath, deckPath)
		if err != nil {
			return err
		}
	} else if !errors.Is(statErr, fs.ErrNotExist) {
		return fmt.Errorf("opening rehearsal database: %w", statErr)
	}

	formatter := presentation.NewFormatter(cmd.OutOrStdout())
	switch statsFormat {
	case "json":
		return formatter.FormatStats(stats)
	case "text":
		return formatter.FormatStatsText(stats)
	default:
		return fmt.Errorf("unknown format %q (want text or json)", statsFormat)
	}
}

func readStats(cmd *cobra.Command, dbPath, deckPath string) ([]presentation.SlideStatDTO, error) {
	store, err := rehearsal.Open(dbPath)
	if err != nil {
		return nil, err
	}
	defer func() { _ = store.Close() }()
	return store.Stats(cmd.Context(), deckPath)
}
