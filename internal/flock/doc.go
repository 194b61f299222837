// Package flock implements the deterministic flocking kernel driving the
// modulation grid.
//
// A Swarm owns up to 24 agents steering by separation, alignment and
// cohesion over the unit square, plus a map of decaying cell contributions:
//
//   - [Swarm]: agent population, behavioral parameters, per-tick physics
//   - [Agent]: one entity with 2D position in [0,1)² and velocity
//   - [CellFilter]: injected predicate deciding which cells accept influence
//
// Trajectories are reproducible: Init with the same seed yields bit-identical
// agent state for any number of ticks. The kernel never returns errors;
// out-of-range inputs are clamped and ticking before Init is a no-op.
package flock
