// Package viz is the live terminal view of the flock.
//
// The package implements an interactive TUI using the Bubble Tea framework:
//
//   - [Model]: the live view, pairing a braille field with a stats panel
//   - [Canvas]: Braille-based pixel canvas for high-fidelity rendering
//   - Theme cycling with built-in color schemes
//
// # Key Bindings
//
//	Space - Start/stop the engine
//	R     - Reseed the flock
//	Tab   - Select a parameter, ↑/↓ to tune it
//	1-4   - Toggle zones, F1-F8 rows
//	P     - Apply the next preset
//	T     - Cycle color themes
//	?     - Show help overlay
//
// The TUI fires the engine's pacer from its own frame messages, so every
// engine call stays on the bubbletea goroutine.
package viz
