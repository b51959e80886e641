package testutil

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/slidedeck/internal/rehearsal"
)

// NewTestStore opens a rehearsal store in a temp dir and closes it when the
// test ends. It returns the store and its database path.
func NewTestStore(t *testing.T) (*rehearsal.Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "rehearsal.db")
	store, err := rehearsal.Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store, path
}

// RehearsalBuilder records one rehearsal session, slide by slide.
type RehearsalBuilder struct {
	t       *testing.T
	store   *rehearsal.Store
	session int64
	at      time.Time
}

// NewRehearsal starts a session for deckPath at start.
func NewRehearsal(t *testing.T, store *rehearsal.Store, deckPath string, start time.Time) *RehearsalBuilder {
	t.Helper()
	id, err := store.StartSession(context.Background(), deckPath, start)
	require.NoError(t, err)
	return &RehearsalBuilder{t: t, store: store, session: id, at: start}
}

// WithDwell records slide as shown for d, starting where the previous dwell
// ended.
func (b *RehearsalBuilder) WithDwell(slide string, d time.Duration) *RehearsalBuilder {
	b.t.Helper()
	err := b.store.RecordDwell(context.Background(), rehearsal.Dwell{
		SessionID: b.session,
		Slide:     slide,
		EnteredAt: b.at,
		Duration:  d,
	})
	require.NoError(b.t, err)
	b.at = b.at.Add(d)
	return b
}

// End closes the session at the end of the last dwell and returns its id.
func (b *RehearsalBuilder) End() int64 {
	b.t.Helper()
	require.NoError(b.t, b.store.EndSession(context.Background(), b.session, b.at))
	return b.session
}
