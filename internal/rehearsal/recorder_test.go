package rehearsal_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/zjrosen/slidedeck/internal/deck"
	"github.com/zjrosen/slidedeck/internal/mocks"
	"github.com/zjrosen/slidedeck/internal/rehearsal"
)

func TestRecorder_RecordsDwellOnChange(t *testing.T) {
	t0 := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	clock := mocks.NewMockClock(t)
	clock.EXPECT().Now().Return(t0).Once()
	clock.EXPECT().Now().Return(t0.Add(12 * time.Second)).Once()
	clock.EXPECT().Now().Return(t0.Add(15 * time.Second)).Once()

	sink := mocks.NewMockSink(t)
	sink.EXPECT().RecordDwell(mock.Anything, rehearsal.Dwell{
		SessionID: 7, Slide: "intro", EnteredAt: t0, Duration: 12 * time.Second,
	}).Return(nil).Once()
	sink.EXPECT().RecordDwell(mock.Anything, rehearsal.Dwell{
		SessionID: 7, Slide: "#1", EnteredAt: t0.Add(12 * time.Second), Duration: 3 * time.Second,
	}).Return(nil).Once()

	keys := map[deck.SlideID]string{"slide-1234": "#1"}
	r := rehearsal.NewRecorder(sink, 7,
		rehearsal.WithClock(clock),
		rehearsal.WithKeyFunc(func(id deck.SlideID) string { return keys[id] }),
	)

	r.ActiveChanged(deck.Change{From: deck.None, To: "intro"})
	r.ActiveChanged(deck.Change{From: "intro", To: "slide-1234"})
	require.NoError(t, r.Flush())
}

func TestRecorder_FlushWithoutActiveIsNoop(t *testing.T) {
	clock := mocks.NewMockClock(t)
	clock.EXPECT().Now().Return(time.Now())
	sink := mocks.NewMockSink(t)

	r := rehearsal.NewRecorder(sink, 1, rehearsal.WithClock(clock))

	require.NoError(t, r.Flush())
	sink.AssertNotCalled(t, "RecordDwell", mock.Anything, mock.Anything)
}

func TestRecorder_FlushReturnsSinkError(t *testing.T) {
	clock := mocks.NewMockClock(t)
	clock.EXPECT().Now().Return(time.Now())
	sink := mocks.NewMockSink(t)
	sink.EXPECT().RecordDwell(mock.Anything, mock.Anything).Return(errors.New("disk full"))

	r := rehearsal.NewRecorder(sink, 1, rehearsal.WithClock(clock))
	r.ActiveChanged(deck.Change{To: "a"})

	require.EqualError(t, r.Flush(), "disk full")
}

func TestRecorder_WithController(t *testing.T) {
	sink := mocks.NewMockSink(t)
	var slides []string
	sink.EXPECT().RecordDwell(mock.Anything, mock.Anything).
		Run(func(_ context.Context, d rehearsal.Dwell) { slides = append(slides, d.Slide) }).
		Return(nil)

	r := rehearsal.NewRecorder(sink, 1)
	c := deck.NewController(deck.WithObserver(r))
	require.NoError(t, c.RegisterSlide("a"))
	require.NoError(t, c.RegisterSlide("b"))

	c.Next()
	c.Next()
	c.Prev()
	require.NoError(t, r.Flush())

	require.Equal(t, []string{"a", "b", "a"}, slides)
}
