// Package bus converts per-tick grid contributions into the capacity-bounded
// wire payload the audio backend consumes.
//
// The pipeline is three pure functions plus one stateful wrapper:
//
//   - [Aggregate]: contributions → target snapshot (non-finite values dropped)
//   - [Downselect]: deterministic top-100-by-magnitude cap
//   - [Encode]: snapshot → flattened [id, value, …] payload
//   - [Sender]: enable/disable/clear wire semantics over a [Transport]
//
// Every send carries a complete picture, never a delta, so losing or
// reordering one message cannot leave the receiver in a partial state.
package bus
