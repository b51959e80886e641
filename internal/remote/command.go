// Package remote lets a clicker, phone or script drive the presenter over
// MQTT and mirrors the presenter's position back on a retained topic.
package remote

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"
)

// Errors returned by the remote package.
var (
	ErrInvalidCommand   = errors.New("invalid remote command")
	ErrConnectionFailed = errors.New("mqtt connection failed")
	ErrNotConnected     = errors.New("mqtt not connected")
	ErrPublishFailed    = errors.New("mqtt publish failed")
	ErrSubscribeFailed  = errors.New("mqtt subscribe failed")
)

// Actions understood on the control topic.
const (
	ActionNext  = "next"
	ActionPrev  = "prev"
	ActionFirst = "first"
	ActionLast  = "last"
	ActionGoTo  = "goto"
)

// Actions lists every valid action.
var Actions = []string{ActionNext, ActionPrev, ActionFirst, ActionLast, ActionGoTo}

// Command is a navigation request received on <prefix>/control.
type Command struct {
	Action string `json:"action"`
	Slide  string `json:"slide,omitempty"`

	// Err is set on pubsub.Failed events for payloads that did not decode.
	Err error `json:"-"`
}

// Validate checks the action and that goto names a slide.
func (c Command) Validate() error {
	if !slices.Contains(Actions, c.Action) {
		return fmt.Errorf("%w: unknown action %q", ErrInvalidCommand, c.Action)
	}
	if c.Action == ActionGoTo && c.Slide == "" {
		return fmt.Errorf("%w: goto needs a slide", ErrInvalidCommand)
	}
	return nil
}

// DecodeCommand parses and validates a control payload.
func DecodeCommand(payload []byte) (Command, error) {
	var c Command
	if err := json.Unmarshal(payload, &c); err != nil {
		return Command{}, fmt.Errorf("%w: %w", ErrInvalidCommand, err)
	}
	return c, c.Validate()
}

// State is the presenter position published retained on <prefix>/state.
type State struct {
	Active string `json:"active"`
	Index  int    `json:"index"`
	Total  int    `json:"total"`
}

// Topics builds topic names under a prefix.
type Topics struct {
	Prefix string
}

// Control is where commands arrive.
func (t Topics) Control() string {
	return t.Prefix + "/control"
}

// State is where the presenter position is published.
func (t Topics) State() string {
	return t.Prefix + "/state"
}
