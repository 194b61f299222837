package bus

import (
	"github.com/rs/zerolog"

	"github.com/halcyonlab/starling/internal/grid"
)

// Wire addresses. These are a backend contract and must not change without
// a matching change on the receiving side.
const (
	AddrEnable  = "/starling/enable"
	AddrClear   = "/starling/clear"
	AddrOffsets = "/starling/offsets"
)

// Transport delivers one named message with numeric arguments. Sends are
// fire-and-forget from the core's perspective; implementations own any
// buffering or retry policy.
type Transport interface {
	Connected() bool
	Send(address string, args []float64) error
}

// Sender enforces the enable/disable/clear wire semantics on top of a
// Transport. It is single-threaded like the rest of the core; the caller
// serializes access.
type Sender struct {
	tr      Transport
	log     zerolog.Logger
	enabled bool
	last    Snapshot
}

// NewSender wraps a transport.
func NewSender(tr Transport, log zerolog.Logger) *Sender {
	return &Sender{tr: tr, log: log.With().Str("component", "bus").Logger()}
}

// Enable is idempotent; only the first transition emits an enable=1
// message.
func (s *Sender) Enable() {
	if s.enabled {
		return
	}
	s.enabled = true
	s.emit(AddrEnable, []float64{1})
}

// Disable is idempotent; the transition from enabled emits enable=0 then
// clear, in that order, and drops the cached snapshot.
func (s *Sender) Disable() {
	if !s.enabled {
		return
	}
	s.enabled = false
	s.emit(AddrEnable, []float64{0})
	s.emit(AddrClear, nil)
	s.last = nil
}

// Enabled reports the wire state.
func (s *Sender) Enabled() bool { return s.enabled }

// Send aggregates, downselects and transmits one complete snapshot. While
// disabled it does nothing. An empty result emits exactly one clear
// message; anything else emits exactly one offsets message.
func (s *Sender) Send(contribs []grid.Contribution) {
	if !s.enabled {
		return
	}
	snap := Downselect(Aggregate(contribs))
	if len(snap) == 0 {
		s.last = nil
		s.emit(AddrClear, nil)
		return
	}
	s.last = snap
	s.emit(AddrOffsets, Encode(snap))
}

// Clear emits a clear message and drops the cached snapshot without
// touching the enabled flag.
func (s *Sender) Clear() {
	s.emit(AddrClear, nil)
	s.last = nil
}

// Last returns the most recently transmitted snapshot, for observers. Nil
// after disable or clear.
func (s *Sender) Last() Snapshot { return s.last }

// emit swallows transport errors after logging them: a failed send must
// never stop subsequent ticks.
func (s *Sender) emit(addr string, args []float64) {
	if err := s.tr.Send(addr, args); err != nil {
		s.log.Warn().Err(err).Str("address", addr).Msg("send failed")
	}
}
