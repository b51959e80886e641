package cmd

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/zjrosen/slidedeck/internal/remote"
)

var remoteCmd = &cobra.Command{
	Use:   "remote <action> [slide]",
	Short: "Send a navigation command to a running presenter",
	Long: `Send a navigation command over MQTT to a presenter started with
remote.enabled set in its config file.

Actions: next, prev, first, last, goto. goto takes a slide name, an
unnamed slide key such as #2, or a 1-based slide number.

Examples:
  slidedeck remote next
  slidedeck remote goto summary
  slidedeck remote goto 3`,
	Args:      cobra.RangeArgs(1, 2),
	ValidArgs: remote.Actions,
	RunE:      runRemote,
}

func init() {
	rootCmd.AddCommand(remoteCmd)
}

func runRemote(cmd *cobra.Command, args []string) error {
	settings, err := loadedConfig()
	if err != nil {
		return err
	}

	command := remote.Command{Action: strings.ToLower(args[0])}
	if len(args) == 2 {
		command.Slide = args[1]
	}
	if err := command.Validate(); err != nil {
		return err
	}

	remoteCfg := remote.FromConfig(settings.Remote)
	// A second connection with the presenter's client id would knock it off
	// the broker.
	remoteCfg.ClientID = fmt.Sprintf("%s-cli-%s", remoteCfg.ClientID, uuid.NewString()[:8])

	client, err := remote.Connect(remoteCfg)
	if err != nil {
		return err
	}
	defer func() { _ = client.Close() }()

	if err := client.Send(command); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "sent %s to %s\n", command.Action, client.Topics().Control())
	return nil
}
