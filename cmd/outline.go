package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zjrosen/slidedeck/internal/presentation"
)

var outlineFormat string

var outlineCmd = &cobra.Command{
	Use:   "outline <deck.md>",
	Short: "List the slides of a deck",
	Long: `List the slides of a deck with their keys, titles and source lines.

Named slides are listed by name, unnamed slides as #1, #2, ... in file
order. These keys are what --start and 'slidedeck remote goto' accept.

Examples:
  slidedeck outline talk.md
  slidedeck outline talk.md --format json | jq '.slides[].key'`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := loadDeck(args[0])
		if err != nil {
			return err
		}

		formatter := presentation.NewFormatter(cmd.OutOrStdout())
		switch outlineFormat {
		case "json":
			return formatter.FormatOutline(presentation.FromDeck(d))
		case "text":
			return formatter.FormatOutlineText(presentation.FromDeck(d))
		default:
			return fmt.Errorf("unknown format %q (want text or json)", outlineFormat)
		}
	},
}

func init() {
	rootCmd.AddCommand(outlineCmd)

	outlineCmd.Flags().StringVarP(&outlineFormat, "format", "f", "text", "Output format: text or json")
}
