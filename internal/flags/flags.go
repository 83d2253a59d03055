// Package flags provides feature flag support for behavior that is still
// settling. Flags are read-only after initialization and unknown flags are off.
package flags

import (
	"maps"
	"slices"

	"github.com/zjrosen/advcomment/internal/log"
)

// Flag name constants for type-safe flag access.
const (
	// FlagScanFences makes selection expansion find code fences with a line
	// scan instead of the markdown parser.
	FlagScanFences = "scan-fences"

	// FlagPreviewComments shows %% comments in the rendered preview instead
	// of hiding them like the notes app does.
	FlagPreviewComments = "preview-comments"
)

// Known lists every flag the program reads.
var Known = []string{FlagScanFences, FlagPreviewComments}

// Registry holds feature flag state loaded from configuration.
type Registry struct {
	flags map[string]bool
}

// New creates a Registry from a config map.
// If flags is nil, an empty registry is created (all flags disabled).
func New(flags map[string]bool) *Registry {
	if flags == nil {
		flags = make(map[string]bool)
	}
	r := &Registry{flags: flags}
	for name := range flags {
		if !slices.Contains(Known, name) {
			log.Warn(log.CatConfig, "Unknown feature flag in config", "flag", name)
		}
	}
	log.Debug(log.CatConfig, "Feature flags initialized", "count", len(flags), "flags", r.All())
	return r
}

// Enabled returns true if the named flag is enabled.
// Returns false for unknown flags and on a nil registry.
func (r *Registry) Enabled(name string) bool {
	if r == nil || r.flags == nil {
		return false
	}
	return r.flags[name]
}

// All returns a copy of all flags.
func (r *Registry) All() map[string]bool {
	if r == nil || r.flags == nil {
		return make(map[string]bool)
	}
	result := make(map[string]bool, len(r.flags))
	maps.Copy(result, r.flags)
	return result
}
