// Package voice routes generator-zone contributions to per-voice parameter
// offsets. Unlike the bus, which always ships a complete snapshot, voice
// messages are per-key, so the router remembers what it sent and explicitly
// zeroes keys that stop contributing.
package voice

import (
	"fmt"
	"math"
	"sort"

	"github.com/rs/zerolog"

	"github.com/halcyonlab/starling/internal/bus"
	"github.com/halcyonlab/starling/internal/grid"
)

// AddrClear is the bulk-clear address for the whole generator zone.
const AddrClear = "/starling/voice/clear"

// Addr returns the wire address of one (slot, parameter) destination.
func Addr(k grid.VoiceKey) string {
	return fmt.Sprintf("/starling/voice/%d/%s", k.Slot, k.Param)
}

// Router aggregates generator-zone contributions per voice destination and
// keeps abandoned destinations from sticking at stale offsets.
type Router struct {
	tr   bus.Transport
	log  zerolog.Logger
	prev map[grid.VoiceKey]struct{}
}

// NewRouter wraps a transport.
func NewRouter(tr bus.Transport, log zerolog.Logger) *Router {
	return &Router{
		tr:   tr,
		log:  log.With().Str("component", "voice").Logger(),
		prev: make(map[grid.VoiceKey]struct{}),
	}
}

// Route sums contributions per (slot, parameter) key and emits one message
// per key present, in slot-then-parameter order. Keys routed on the
// previous call but absent now are unconditionally sent a zero. Calling
// Route with an empty list therefore zeroes everything previously routed.
func (r *Router) Route(contribs []grid.Contribution) {
	sums := make(map[grid.VoiceKey]float64)
	for _, c := range contribs {
		if math.IsNaN(c.Value) || math.IsInf(c.Value, 0) {
			continue
		}
		k, ok := grid.MapToVoice(c.Col)
		if !ok {
			continue
		}
		sums[k] += c.Value
	}

	for _, k := range sortedKeys(sums) {
		r.emit(k, sums[k])
	}

	stale := make([]grid.VoiceKey, 0, len(r.prev))
	for k := range r.prev {
		if _, ok := sums[k]; !ok {
			stale = append(stale, k)
		}
	}
	sort.Slice(stale, func(i, j int) bool { return stale[i].Less(stale[j]) })
	for _, k := range stale {
		r.emit(k, 0)
	}

	r.prev = make(map[grid.VoiceKey]struct{}, len(sums))
	for k := range sums {
		r.prev[k] = struct{}{}
	}
}

// Clear emits one bulk-clear message and forgets the routing memory, so
// the next Route call zeroes nothing.
func (r *Router) Clear() {
	if err := r.tr.Send(AddrClear, nil); err != nil {
		r.log.Warn().Err(err).Str("address", AddrClear).Msg("send failed")
	}
	r.prev = make(map[grid.VoiceKey]struct{})
}

func (r *Router) emit(k grid.VoiceKey, v float64) {
	if err := r.tr.Send(Addr(k), []float64{v}); err != nil {
		r.log.Warn().Err(err).Str("address", Addr(k)).Msg("send failed")
	}
}

func sortedKeys(m map[grid.VoiceKey]float64) []grid.VoiceKey {
	keys := make([]grid.VoiceKey, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].Less(keys[j]) })
	return keys
}
