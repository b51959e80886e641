// Package log is the debug logger for slidedeck. Entries are plain
// "time [LEVEL] [category] message key=value" lines written to a debug file
// and mirrored on a broker so the presenter's log overlay can follow them.
// Nothing is written until Init is called (--debug or SLIDEDECK_DEBUG).
package log

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/zjrosen/slidedeck/internal/pubsub"
)

// Level is a log severity.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Category tags the subsystem an entry came from.
type Category string

const (
	CatDeck      Category = "deck"      // registry and navigation
	CatUI        Category = "ui"        // presenter view updates
	CatConfig    Category = "config"    // config load/save
	CatWatcher   Category = "watcher"   // deck file changes
	CatCache     Category = "cache"     // render cache
	CatRemote    Category = "remote"    // mqtt remote control
	CatRehearsal Category = "rehearsal" // timing store
	CatTrace     Category = "trace"     // tracing provider
)

type logger struct {
	mu       sync.Mutex
	out      io.Writer
	closer   io.Closer
	enabled  bool
	minLevel Level
	broker   *pubsub.Broker[string]
	now      func() time.Time
}

var (
	stateMu sync.RWMutex
	current *logger
)

// Init opens path for appending and starts logging to it. The returned
// function closes the file and disables logging.
func Init(path string) (func(), error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644) //nolint:gosec // G304: debug log path comes from the user
	if err != nil {
		return nil, fmt.Errorf("opening debug log: %w", err)
	}
	install(f, f)
	return Close, nil
}

// InitWriter starts logging to w. Used by tests and by callers that already
// own the destination.
func InitWriter(w io.Writer) func() {
	install(w, nil)
	return Close
}

func install(w io.Writer, c io.Closer) {
	stateMu.Lock()
	defer stateMu.Unlock()
	if current != nil {
		current.shutdown()
	}
	current = &logger{
		out:      w,
		closer:   c,
		enabled:  true,
		minLevel: LevelDebug,
		broker:   pubsub.NewBroker[string](),
		now:      time.Now,
	}
}

// Close stops logging and releases the destination.
func Close() {
	stateMu.Lock()
	defer stateMu.Unlock()
	if current == nil {
		return
	}
	current.shutdown()
	current = nil
}

func (l *logger) shutdown() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.enabled = false
	l.broker.Close()
	if l.closer != nil {
		_ = l.closer.Close()
	}
}

// SetEnabled toggles logging without closing the destination.
func SetEnabled(enabled bool) {
	if l := active(); l != nil {
		l.mu.Lock()
		l.enabled = enabled
		l.mu.Unlock()
	}
}

// SetMinLevel drops entries below level.
func SetMinLevel(level Level) {
	if l := active(); l != nil {
		l.mu.Lock()
		l.minLevel = level
		l.mu.Unlock()
	}
}

// Debug logs at debug level.
func Debug(cat Category, msg string, fields ...any) { write(LevelDebug, cat, msg, fields) }

// Info logs at info level.
func Info(cat Category, msg string, fields ...any) { write(LevelInfo, cat, msg, fields) }

// Warn logs at warn level.
func Warn(cat Category, msg string, fields ...any) { write(LevelWarn, cat, msg, fields) }

// Error logs at error level.
func Error(cat Category, msg string, fields ...any) { write(LevelError, cat, msg, fields) }

// ErrorErr logs err under the "error" key.
func ErrorErr(cat Category, msg string, err error, fields ...any) {
	value := "<nil>"
	if err != nil {
		value = err.Error()
	}
	write(LevelError, cat, msg, append(fields, "error", value))
}

func active() *logger {
	stateMu.RLock()
	defer stateMu.RUnlock()
	return current
}

func write(level Level, cat Category, msg string, fields []any) {
	l := active()
	if l == nil {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.enabled || level < l.minLevel {
		return
	}

	entry := format(l.now(), level, cat, msg, fields)
	_, _ = io.WriteString(l.out, entry)
	l.broker.Publish(pubsub.LogEntry, entry)
}

// format renders 2025-03-01T09:00:00 [WARN] [deck] message k=v k2=v2.
func format(ts time.Time, level Level, cat Category, msg string, fields []any) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s [%s] [%s] %s", ts.Format("2006-01-02T15:04:05"), level, cat, msg)
	for i := 0; i+1 < len(fields); i += 2 {
		fmt.Fprintf(&b, " %v=%v", fields[i], fields[i+1])
	}
	if len(fields)%2 != 0 {
		fmt.Fprintf(&b, " %v=<missing>", fields[len(fields)-1])
	}
	b.WriteByte('\n')
	return b.String()
}

// Listener streams log entries into a Bubble Tea program.
type Listener = pubsub.ContinuousListener[string]

// NewListener subscribes to log entries until ctx is done. It returns nil
// when logging is not initialised.
func NewListener(ctx context.Context) *Listener {
	l := active()
	if l == nil {
		return nil
	}
	return pubsub.NewContinuousListener[string](ctx, l.broker)
}
