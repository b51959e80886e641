package tracing

// Span names outside the deck controller.
const (
	SpanReload          = "deck.reload"
	SpanRemoteCommand   = "remote.command"
	SpanRemotePublish   = "remote.publish"
	SpanRehearsalRecord = "rehearsal.record"
)

// Span attribute keys outside the deck controller.
const (
	AttrDeckPath      = "deck.path"
	AttrSlidesAdded   = "deck.reload.added"
	AttrSlidesRemoved = "deck.reload.removed"
	AttrSlidesChanged = "deck.reload.changed"
	AttrRemoteAction  = "remote.action"
	AttrRemoteTopic   = "remote.topic"
	AttrRehearsalID   = "rehearsal.session"
	AttrDwellMs       = "rehearsal.dwell_ms"
	AttrErrorMessage  = "error.message"
)
