// Package backend provides transport implementations for the grid bus and
// voice router. Debug logs every message; Memory records them for the TUI
// and for tests. A real network backend satisfies the same interface.
package backend

import (
	"errors"

	"github.com/rs/zerolog"
)

// ErrNotConnected is returned by Send when a transport is offline.
var ErrNotConnected = errors.New("backend: transport not connected")

// Message is one outbound datagram: an address and its float arguments.
type Message struct {
	Address string
	Args    []float64
}

// Debug is an always-connected transport that logs instead of sending.
type Debug struct {
	log zerolog.Logger
}

// NewDebug returns a transport that writes each message to the logger.
func NewDebug(log zerolog.Logger) *Debug {
	return &Debug{log: log.With().Str("component", "backend").Logger()}
}

func (d *Debug) Connected() bool { return true }

func (d *Debug) Send(address string, args []float64) error {
	d.log.Debug().Str("address", address).Floats64("args", args).Msg("send")
	return nil
}

// Memory records messages in order, bounded by a ring limit. It doubles as
// the TUI's backend and as a capture point in tests.
type Memory struct {
	connected bool
	limit     int
	msgs      []Message
}

// NewMemory returns a connected in-memory transport keeping at most limit
// messages. A limit of zero or less means unbounded.
func NewMemory(limit int) *Memory {
	return &Memory{connected: true, limit: limit}
}

func (m *Memory) Connected() bool { return m.connected }

// SetConnected flips the reported link state. While disconnected, Send
// rejects messages with ErrNotConnected.
func (m *Memory) SetConnected(up bool) { m.connected = up }

func (m *Memory) Send(address string, args []float64) error {
	if !m.connected {
		return ErrNotConnected
	}
	cp := make([]float64, len(args))
	copy(cp, args)
	m.msgs = append(m.msgs, Message{Address: address, Args: cp})
	if m.limit > 0 && len(m.msgs) > m.limit {
		m.msgs = m.msgs[len(m.msgs)-m.limit:]
	}
	return nil
}

// Messages returns a copy of the recorded messages, oldest first.
func (m *Memory) Messages() []Message {
	out := make([]Message, len(m.msgs))
	copy(out, m.msgs)
	return out
}

// Len reports how many messages are currently recorded.
func (m *Memory) Len() int { return len(m.msgs) }

// Reset drops the recorded messages without touching the link state.
func (m *Memory) Reset() { m.msgs = nil }
