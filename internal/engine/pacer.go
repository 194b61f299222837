package engine

// Pacer is the engine's tick source. The engine never spawns a goroutine
// or sleeps; whoever owns the pacer owns the scheduling and must deliver
// ticks sequentially, never overlapping, from the same goroutine that
// calls the engine's other methods.
type Pacer interface {
	// Start begins delivering ticks to fn. Starting an already started
	// pacer replaces the callback.
	Start(fn func())
	// Stop ceases tick delivery. Safe to call when not started.
	Stop()
}

// Manual is a pacer fired by hand. The headless runner fires it from a
// ticker loop, the TUI from its frame messages, and tests fire it to
// step the engine deterministically.
type Manual struct {
	fn func()
}

func NewManual() *Manual { return &Manual{} }

func (m *Manual) Start(fn func()) { m.fn = fn }
func (m *Manual) Stop()           { m.fn = nil }

// Fire delivers one tick if the pacer is started.
func (m *Manual) Fire() {
	if m.fn != nil {
		m.fn()
	}
}
