// Package flags exposes the feature flags from the config file's flags map.
// Unknown flags read as disabled.
package flags

import (
	"maps"
	"slices"

	"github.com/zjrosen/slidedeck/internal/log"
)

const (
	// FlagReloadDiff toasts added/removed line counts after a live reload.
	FlagReloadDiff = "reload-diff"

	// FlagMouse makes the prev/next buttons clickable.
	FlagMouse = "mouse"
)

// Known lists the flags slidedeck reads.
var Known = []string{FlagReloadDiff, FlagMouse}

// Registry is a read-only view of the configured flags.
type Registry struct {
	flags map[string]bool
}

// New copies flags into a Registry. Names slidedeck does not read are logged.
func New(flags map[string]bool) *Registry {
	r := &Registry{flags: make(map[string]bool, len(flags))}
	maps.Copy(r.flags, flags)
	for name := range r.flags {
		if !slices.Contains(Known, name) {
			log.Warn(log.CatConfig, "Unknown feature flag in config", "flag", name)
		}
	}
	log.Debug(log.CatConfig, "Feature flags initialized", "count", len(r.flags))
	return r
}

// Enabled reports whether name is set to true. A nil registry has every flag off.
func (r *Registry) Enabled(name string) bool {
	if r == nil {
		return false
	}
	return r.flags[name]
}

// All returns a copy of the configured flags.
func (r *Registry) All() map[string]bool {
	if r == nil {
		return map[string]bool{}
	}
	return maps.Clone(r.flags)
}
