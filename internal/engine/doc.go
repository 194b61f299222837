// Package engine orchestrates the flocking simulation and its outbound
// traffic.
//
// An [Engine] owns one [flock.Swarm], one [bus.Sender], and the live
// configuration record. Each tick it advances the swarm, splits cell
// contributions at the generator boundary, ships the mapped half to the
// bus, hands the generator half to the registered route callback, and
// publishes a [Frame] to observers:
//
//   - [Engine.Start] / [Engine.Stop] / [Engine.Toggle]: lifecycle
//   - [Engine.Tick]: one simulation step, driven by a [Pacer]
//   - [Engine.ImportPreset] / [Engine.ExportPreset]: record round-trips
//
// # Concurrency
//
// The engine is single-threaded and cooperative. It never spawns
// goroutines; the pacer's owner must call everything from one goroutine
// and never overlap ticks.
package engine
