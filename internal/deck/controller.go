package deck

import (
	"context"
	"errors"
	"slices"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// Span attribute keys for deck tracing.
const (
	AttrSlideID    = "deck.slide.id"
	AttrActiveFrom = "deck.active.from"
	AttrActiveTo   = "deck.active.to"
	AttrWrap       = "deck.wrap"
	AttrSlideCount = "deck.slide.count"
)

// Change describes a transition of the active slide.
type Change struct {
	From SlideID
	To   SlideID
}

// Observer is notified whenever the resolved active slide changes.
type Observer interface {
	ActiveChanged(change Change)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(change Change)

// ActiveChanged calls f(change).
func (f ObserverFunc) ActiveChanged(change Change) { f(change) }

type observerEntry struct {
	id       int
	observer Observer
}

// SlideState is a read-only view of one registered slide.
type SlideState struct {
	ID     SlideID
	Active bool
}

// Option configures a Controller.
type Option func(*Controller)

// WithWrap sets the initial wrap policy.
func WithWrap(wrap bool) Option {
	return func(c *Controller) { c.wrap = wrap }
}

// WithInitialActive captures the caller's requested active slide. It is
// resolved once, when the deck first has slides.
func WithInitialActive(id SlideID) Option {
	return func(c *Controller) { c.requested = id }
}

// WithObserver registers an observer for active slide changes.
func WithObserver(o Observer) Option {
	return func(c *Controller) { c.Observe(o) }
}

// WithActiveRemoved sets the callback fired after the active slide was
// unregistered and the active id repaired.
func WithActiveRemoved(fn func(removed SlideID)) Option {
	return func(c *Controller) { c.onActiveRemoved = fn }
}

// WithTracer wraps registration and navigation in spans.
func WithTracer(tracer trace.Tracer) Option {
	return func(c *Controller) {
		if tracer != nil {
			c.tracer = tracer
		}
	}
}

// Controller owns a deck's registry and its active slide. It is not safe for
// concurrent use; the owning event loop serializes all calls.
type Controller struct {
	registry *Registry
	active   SlideID
	wrap     bool

	// requested is the caller's requested active id, consumed at the next
	// initial resolution or external-change checkpoint.
	requested SlideID

	observers       []observerEntry
	nextObserverID  int
	onActiveRemoved func(removed SlideID)
	tracer          trace.Tracer

	batchDepth      int
	batchStart      SlideID
	pendingInitial  bool
	pendingExternal bool
}

// NewController creates a controller with an empty registry.
func NewController(opts ...Option) *Controller {
	c := &Controller{
		registry: NewRegistry(),
		tracer:   noop.NewTracerProvider().Tracer("deck"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Observe registers o and returns a function that removes it again.
func (c *Controller) Observe(o Observer) (cancel func()) {
	if o == nil {
		return func() {}
	}
	id := c.nextObserverID
	c.nextObserverID++
	c.observers = append(c.observers, observerEntry{id: id, observer: o})
	return func() {
		c.observers = slices.DeleteFunc(c.observers, func(e observerEntry) bool { return e.id == id })
	}
}

// OnActiveRemoved replaces the active-slide-removed callback.
func (c *Controller) OnActiveRemoved(fn func(removed SlideID)) {
	c.onActiveRemoved = fn
}

// ActiveID returns the active slide, or None when the deck is empty.
func (c *Controller) ActiveID() SlideID {
	return c.active
}

// Wrap returns the wrap policy.
func (c *Controller) Wrap() bool {
	return c.wrap
}

// SetWrap changes the wrap policy.
func (c *Controller) SetWrap(wrap bool) {
	c.wrap = wrap
}

// Len returns the number of registered slides.
func (c *Controller) Len() int {
	return c.registry.Len()
}

// IndexOf returns the position of id, or -1 if it is not registered.
func (c *Controller) IndexOf(id SlideID) int {
	return c.registry.IndexOf(id)
}

// Slides lists the registered slides in order with their active flag.
func (c *Controller) Slides() []SlideState {
	ids := c.registry.IDs()
	states := make([]SlideState, len(ids))
	for i, id := range ids {
		states[i] = SlideState{ID: id, Active: id == c.active}
	}
	return states
}

// OnFirstSlide reports whether the active slide is the first one.
func (c *Controller) OnFirstSlide() bool {
	return c.registry.Len() > 0 && c.active == c.registry.First()
}

// OnLastSlide reports whether the active slide is the last one.
func (c *Controller) OnLastSlide() bool {
	return c.registry.Len() > 0 && c.active == c.registry.Last()
}

// PrevDisabled reports whether Prev would be a no-op because of the wrap policy.
func (c *Controller) PrevDisabled() bool {
	return c.OnFirstSlide() && !c.wrap
}

// NextDisabled reports whether Next would be a no-op because of the wrap policy.
func (c *Controller) NextDisabled() bool {
	return c.OnLastSlide() && !c.wrap
}

// SetActive makes id the active slide. None is accepted; any other id must
// be registered.
func (c *Controller) SetActive(id SlideID) error {
	if id != None && !c.registry.Contains(id) {
		return c.unknown(id)
	}
	c.setActive(id)
	return nil
}

// ResolveInitialActive picks the active slide once the deck first has slides.
// An absent request defaults to the first slide; an unknown one is an error.
func (c *Controller) ResolveInitialActive(requested SlideID) error {
	if requested == None {
		c.setActive(c.registry.First())
		return nil
	}
	return c.SetActive(requested)
}

// OnExternalActiveChanged applies a change of the caller's bound active id.
// Clearing the binding (None) resets to the first slide. Inside a batch the
// change is validated at the checkpoint.
func (c *Controller) OnExternalActiveChanged(requested SlideID) error {
	c.requested = requested
	c.pendingExternal = true
	return c.settleIfIdle()
}

// Prev moves to the previous slide, wrapping to the last one when allowed.
func (c *Controller) Prev() {
	span := c.startSpan("deck.prev")
	defer span.End()
	c.moveTo(c.prevTarget(), span)
}

// Next moves to the next slide, wrapping to the first one when allowed.
func (c *Controller) Next() {
	span := c.startSpan("deck.next")
	defer span.End()
	c.moveTo(c.nextTarget(), span)
}

// First moves to the first slide.
func (c *Controller) First() {
	c.setActive(c.registry.First())
}

// Last moves to the last slide.
func (c *Controller) Last() {
	c.setActive(c.registry.Last())
}

// GoTo makes id active regardless of the wrap policy.
func (c *Controller) GoTo(id SlideID) error {
	span := c.startSpan("deck.goto", attribute.String(AttrSlideID, string(id)))
	defer span.End()

	if !c.registry.Contains(id) {
		err := c.unknown(id)
		recordError(span, err)
		return err
	}
	c.moveTo(id, span)
	return nil
}

// RegisterSlide adds a slide. When it is the first slide, the initial active
// slide is resolved at the next checkpoint.
func (c *Controller) RegisterSlide(id SlideID) error {
	span := c.startSpan("deck.register", attribute.String(AttrSlideID, string(id)))
	defer span.End()

	wasEmpty := c.registry.Len() == 0
	if err := c.registry.Register(id); err != nil {
		recordError(span, err)
		return err
	}
	if wasEmpty {
		c.pendingInitial = true
	}
	span.SetAttributes(attribute.Int(AttrSlideCount, c.registry.Len()))

	err := c.settleIfIdle()
	recordError(span, err)
	return err
}

// Reorder changes the slide order without unregistering anything. The active
// slide is kept, so observers and the removal callback are not involved.
func (c *Controller) Reorder(ids []SlideID) error {
	span := c.startSpan("deck.reorder", attribute.Int(AttrSlideCount, len(ids)))
	defer span.End()

	err := c.registry.Reorder(ids)
	recordError(span, err)
	return err
}

// UnregisterSlide removes a slide. Removing the active slide first moves the
// active id to its predecessor in cyclic order; removing the only slide
// leaves the deck without an active slide. Unknown ids are ignored.
func (c *Controller) UnregisterSlide(id SlideID) {
	span := c.startSpan("deck.unregister", attribute.String(AttrSlideID, string(id)))
	defer span.End()

	if !c.registry.Contains(id) {
		return
	}
	if id != c.active {
		c.registry.Unregister(id)
		return
	}

	saved := c.wrap
	c.wrap = true
	target := c.prevTarget()
	c.wrap = saved

	c.registry.Unregister(id)
	if target == id {
		target = None
	}
	c.moveTo(target, span)

	if c.onActiveRemoved != nil {
		c.onActiveRemoved(id)
	}
}

// Batch runs fn with validation deferred to a single checkpoint when the
// outermost batch returns. Attach/detach notifications arriving in arbitrary
// order within one event-loop turn belong in one batch. Observers see at most
// one change per outermost batch, from the active id before the batch to the
// one resolved at its checkpoint.
func (c *Controller) Batch(fn func() error) error {
	if c.batchDepth == 0 {
		c.batchStart = c.active
	}
	c.batchDepth++
	err := fn()
	if c.batchDepth > 1 {
		c.batchDepth--
		return err
	}

	// The checkpoint settles inside the batch so only the net change is sent.
	err = errors.Join(err, c.Checkpoint())
	c.batchDepth--
	if c.active != c.batchStart {
		c.notify(Change{From: c.batchStart, To: c.active})
	}
	return err
}

// Checkpoint runs deferred initial resolution and external-change validation.
func (c *Controller) Checkpoint() error {
	if !c.pendingInitial && !c.pendingExternal {
		return nil
	}
	requested := c.requested
	initial := c.pendingInitial
	c.requested = None
	c.pendingInitial = false
	c.pendingExternal = false

	if initial {
		if err := c.ResolveInitialActive(requested); err != nil {
			// An unknown request still leaves a non-empty deck on its first slide.
			c.setActive(c.registry.First())
			return err
		}
		return nil
	}
	if requested == None {
		c.setActive(c.registry.First())
		return nil
	}
	return c.SetActive(requested)
}

func (c *Controller) settleIfIdle() error {
	if c.batchDepth > 0 {
		return nil
	}
	return c.Checkpoint()
}

func (c *Controller) prevTarget() SlideID {
	if c.registry.Len() == 0 || c.active == None {
		return c.active
	}
	onFirst := c.OnFirstSlide()
	switch {
	case onFirst && c.wrap:
		return c.registry.Last()
	case !onFirst:
		return c.registry.At(c.registry.IndexOf(c.active) - 1)
	default:
		return c.active
	}
}

func (c *Controller) nextTarget() SlideID {
	if c.registry.Len() == 0 || c.active == None {
		return c.active
	}
	onLast := c.OnLastSlide()
	switch {
	case onLast && c.wrap:
		return c.registry.First()
	case !onLast:
		return c.registry.At(c.registry.IndexOf(c.active) + 1)
	default:
		return c.active
	}
}

func (c *Controller) moveTo(id SlideID, span trace.Span) {
	span.SetAttributes(
		attribute.String(AttrActiveFrom, string(c.active)),
		attribute.String(AttrActiveTo, string(id)),
		attribute.Bool(AttrWrap, c.wrap),
	)
	c.setActive(id)
}

func (c *Controller) setActive(id SlideID) {
	if id == c.active {
		return
	}
	change := Change{From: c.active, To: id}
	c.active = id
	if c.batchDepth > 0 {
		return
	}
	c.notify(change)
}

func (c *Controller) notify(change Change) {
	for _, e := range slices.Clone(c.observers) {
		e.observer.ActiveChanged(change)
	}
}

func (c *Controller) unknown(id SlideID) error {
	return newUnknownSlideError(id, c.registry.IDs())
}

func (c *Controller) startSpan(name string, attrs ...attribute.KeyValue) trace.Span {
	_, span := c.tracer.Start(context.Background(), name, trace.WithAttributes(attrs...))
	return span
}

func recordError(span trace.Span, err error) {
	if err == nil {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
