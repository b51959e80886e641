package rehearsal

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/zjrosen/slidedeck/internal/deck"
	"github.com/zjrosen/slidedeck/internal/log"
	"github.com/zjrosen/slidedeck/internal/tracing"
)

// Sink receives finished dwells.
type Sink interface {
	RecordDwell(ctx context.Context, d Dwell) error
}

// Recorder turns active slide changes into dwells. It implements
// deck.Observer.
type Recorder struct {
	mu      sync.Mutex
	sink    Sink
	session int64
	clock   Clock
	tracer  trace.Tracer
	keyOf   func(deck.SlideID) string

	active deck.SlideID
	since  time.Time
}

// RecorderOption configures a Recorder.
type RecorderOption func(*Recorder)

// WithClock replaces the wall clock.
func WithClock(c Clock) RecorderOption {
	return func(r *Recorder) { r.clock = c }
}

// WithTracer records a span per dwell.
func WithTracer(t trace.Tracer) RecorderOption {
	return func(r *Recorder) {
		if t != nil {
			r.tracer = t
		}
	}
}

// WithKeyFunc maps slide ids to the stable keys stored in the database.
// Generated ids change between runs, so the presenter passes the deck key.
// An empty result falls back to the id.
func WithKeyFunc(fn func(deck.SlideID) string) RecorderOption {
	return func(r *Recorder) { r.keyOf = fn }
}

// NewRecorder records dwells for session into sink.
func NewRecorder(sink Sink, session int64, opts ...RecorderOption) *Recorder {
	r := &Recorder{
		sink:    sink,
		session: session,
		clock:   RealClock{},
		tracer:  noop.NewTracerProvider().Tracer("rehearsal"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// ActiveChanged closes the dwell on the previous slide and starts timing
// the new one.
func (r *Recorder) ActiveChanged(change deck.Change) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.clock.Now()
	if err := r.finish(now); err != nil {
		log.ErrorErr(log.CatRehearsal, "Recording dwell failed", err, "slide", r.active)
	}
	r.active = change.To
	r.since = now
}

// Flush records the dwell on the current slide, e.g. when the presenter
// quits. Timing restarts with the next change.
func (r *Recorder) Flush() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	err := r.finish(r.clock.Now())
	r.active = deck.None
	return err
}

func (r *Recorder) finish(now time.Time) error {
	if r.active == deck.None {
		return nil
	}
	d := Dwell{
		SessionID: r.session,
		Slide:     r.key(r.active),
		EnteredAt: r.since,
		Duration:  now.Sub(r.since),
	}

	ctx, span := r.tracer.Start(context.Background(), tracing.SpanRehearsalRecord,
		trace.WithAttributes(
			attribute.Int64(tracing.AttrRehearsalID, d.SessionID),
			attribute.String(deck.AttrSlideID, d.Slide),
			attribute.Int64(tracing.AttrDwellMs, d.Duration.Milliseconds()),
		))
	defer span.End()

	if err := r.sink.RecordDwell(ctx, d); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	log.Debug(log.CatRehearsal, "Dwell recorded", "slide", d.Slide, "duration", d.Duration)
	return nil
}

func (r *Recorder) key(id deck.SlideID) string {
	if r.keyOf != nil {
		if k := r.keyOf(id); k != "" {
			return k
		}
	}
	return string(id)
}
