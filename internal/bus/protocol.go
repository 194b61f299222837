package bus

import (
	"math"
	"sort"

	"github.com/halcyonlab/starling/internal/grid"
)

// Snapshot maps target identifiers to aggregated offsets. Rebuilt every
// tick, never persisted.
type Snapshot map[int]float64

// Aggregate maps contributions onto bus targets and sums per target.
// Non-finite values are dropped before mapping so they can never poison a
// sum, and any sum that still overflows to a non-finite value is dropped
// afterwards. Contributions on unmapped columns vanish here.
func Aggregate(contribs []grid.Contribution) Snapshot {
	snap := make(Snapshot, len(contribs))
	for _, c := range contribs {
		if !isFinite(c.Value) {
			continue
		}
		id, ok := grid.MapToTarget(c.Row, c.Col)
		if !ok {
			continue
		}
		snap[id] += c.Value
	}
	for id, v := range snap {
		if !isFinite(v) {
			delete(snap, id)
		}
	}
	return snap
}

// Downselect enforces the payload cap: snapshots of at most 100 entries
// pass unchanged, larger ones keep exactly the 100 greatest by absolute
// value. The order is total and deterministic: primary key descending
// |value|, secondary key ascending identifier.
func Downselect(snap Snapshot) Snapshot {
	if len(snap) <= grid.MaxOffsets {
		return snap
	}
	type entry struct {
		id int
		v  float64
	}
	entries := make([]entry, 0, len(snap))
	for id, v := range snap {
		entries = append(entries, entry{id, v})
	}
	sort.Slice(entries, func(i, j int) bool {
		ai, aj := math.Abs(entries[i].v), math.Abs(entries[j].v)
		if ai != aj {
			return ai > aj
		}
		return entries[i].id < entries[j].id
	})
	out := make(Snapshot, grid.MaxOffsets)
	for _, e := range entries[:grid.MaxOffsets] {
		out[e.id] = e.v
	}
	return out
}

// Encode flattens a snapshot into [id0, value0, id1, value1, …] with
// strictly ascending identifiers. An empty snapshot encodes to an empty
// payload.
func Encode(snap Snapshot) []float64 {
	ids := make([]int, 0, len(snap))
	for id := range snap {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	out := make([]float64, 0, len(ids)*2)
	for _, id := range ids {
		out = append(out, float64(id), snap[id])
	}
	return out
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
