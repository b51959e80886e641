package deck

import (
	"errors"

	"github.com/google/uuid"
)

// fallbackPrefix prefixes generated identities of unnamed cards.
const fallbackPrefix = "slide-"

// Host is the deck surface a card attaches to.
type Host interface {
	RegisterSlide(id SlideID) error
	UnregisterSlide(id SlideID)
}

// Card is one slide panel. Its identity is fixed at creation: the explicit
// name when given, otherwise a generated id unique to this card instance.
type Card struct {
	id       SlideID
	named    bool
	attached Host
}

// NewCard creates a card named name. An empty name gets a generated identity.
func NewCard(name string) *Card {
	if name == "" {
		return &Card{id: SlideID(fallbackPrefix + uuid.NewString())}
	}
	return &Card{id: SlideID(name), named: true}
}

// ID returns the card's resolved identity.
func (c *Card) ID() SlideID {
	return c.id
}

// Named reports whether the identity came from an explicit name.
func (c *Card) Named() bool {
	return c.named
}

// Attached reports whether the card is currently registered with a host.
func (c *Card) Attached() bool {
	return c.attached != nil
}

// IsActive reports whether this card is the deck's active slide.
func (c *Card) IsActive(active SlideID) bool {
	return c.id == active
}

// Attach registers the card with host. An unknown initial slide is reported
// after the card is registered, so the card still counts as attached and
// Detach removes it. Any other error leaves the card unattached.
func (c *Card) Attach(host Host) error {
	err := host.RegisterSlide(c.id)
	if err != nil && !errors.Is(err, ErrUnknownSlide) {
		return err
	}
	c.attached = host
	return err
}

// Detach unregisters the card from the host it was attached to. Detaching an
// unattached card does nothing.
func (c *Card) Detach() {
	if c.attached == nil {
		return
	}
	host := c.attached
	c.attached = nil
	host.UnregisterSlide(c.id)
}

// Render returns content when the card is active and inverse otherwise.
func (c *Card) Render(active SlideID, content, inverse string) string {
	if c.IsActive(active) {
		return content
	}
	return inverse
}
