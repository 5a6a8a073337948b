// Package telemetry records assembly builds and writes their reports.
package telemetry

import (
	"log/slog"
	"sync"

	"github.com/pthm-cable/torsion/suspension"
)

// Recorder is a suspension.Observer that keeps every load event in order.
// It is safe for concurrent use, so one Recorder can watch several builders.
type Recorder struct {
	mu     sync.Mutex
	events []suspension.LoadEvent
}

// ResourceLoaded records e.
func (r *Recorder) ResourceLoaded(e suspension.LoadEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

// Events returns a copy of the recorded events.
func (r *Recorder) Events() []suspension.LoadEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]suspension.LoadEvent, len(r.events))
	copy(out, r.events)
	return out
}

// CountByKind returns the number of loads per resource kind.
func (r *Recorder) CountByKind() map[string]int {
	r.mu.Lock()
	defer r.mu.Unlock()
	counts := make(map[string]int)
	for _, e := range r.events {
		counts[e.Kind]++
	}
	return counts
}

// SlogObserver logs every loaded resource at info level.
type SlogObserver struct {
	Logger *slog.Logger // nil uses slog.Default()
}

// ResourceLoaded logs e.
func (o SlogObserver) ResourceLoaded(e suspension.LoadEvent) {
	logger := o.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("loaded resource",
		"name", e.Name,
		"path", e.Path,
		"kind", e.Kind,
		"template", e.Template,
	)
}

// Tee forwards each event to every observer in order.
type Tee []suspension.Observer

// ResourceLoaded forwards e.
func (t Tee) ResourceLoaded(e suspension.LoadEvent) {
	for _, o := range t {
		o.ResourceLoaded(e)
	}
}
