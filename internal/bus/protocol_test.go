package bus

import (
	"math"
	"testing"

	"github.com/halcyonlab/starling/internal/grid"
)

func TestAggregateSumsPerTarget(t *testing.T) {
	snap := Aggregate([]grid.Contribution{
		{Row: 0, Col: 80, Value: 0.5},
		{Row: 1, Col: 80, Value: 0.2},
	})
	if len(snap) != 1 {
		t.Fatalf("snapshot size = %d, want 1", len(snap))
	}
	if v := snap[grid.FirstTarget]; math.Abs(v-0.7) > 1e-12 {
		t.Fatalf("target %d = %v, want 0.7", grid.FirstTarget, v)
	}
}

func TestAggregateDropsNonFinite(t *testing.T) {
	snap := Aggregate([]grid.Contribution{
		{Row: 0, Col: 80, Value: math.NaN()},
		{Row: 1, Col: 80, Value: 0.3},
		{Row: 0, Col: 81, Value: math.Inf(1)},
		{Row: 0, Col: 82, Value: math.Inf(-1)},
	})
	if v := snap[1000]; math.Abs(v-0.3) > 1e-12 {
		t.Fatalf("NaN leaked into a partial sum: %v", v)
	}
	if _, ok := snap[1001]; ok {
		t.Fatal("+Inf contribution reached the snapshot")
	}
	if _, ok := snap[1002]; ok {
		t.Fatal("-Inf contribution reached the snapshot")
	}
}

func TestAggregateDropsNonFiniteSums(t *testing.T) {
	big := math.MaxFloat64
	snap := Aggregate([]grid.Contribution{
		{Row: 0, Col: 90, Value: big},
		{Row: 1, Col: 90, Value: big},
	})
	if _, ok := snap[1010]; ok {
		t.Fatal("overflowed sum survived aggregation")
	}
}

func TestAggregateDropsUnmappedColumns(t *testing.T) {
	snap := Aggregate([]grid.Contribution{
		{Row: 0, Col: 10, Value: 0.5},  // generator zone
		{Row: 0, Col: 160, Value: 0.5}, // spacer
		{Row: 0, Col: 207, Value: 0.5}, // spacer
		{Row: 0, Col: -1, Value: 0.5},
		{Row: 0, Col: 500, Value: 0.5},
	})
	if len(snap) != 0 {
		t.Fatalf("unmapped columns produced targets: %v", snap)
	}
}

func TestDownselectSmallSnapshotUnchanged(t *testing.T) {
	snap := Snapshot{1000: 0.1, 1001: -0.2}
	got := Downselect(snap)
	if len(got) != 2 || got[1000] != 0.1 || got[1001] != -0.2 {
		t.Fatalf("small snapshot modified: %v", got)
	}
}

func TestDownselectKeepsTop100ByMagnitude(t *testing.T) {
	snap := make(Snapshot, 150)
	for i := 0; i < 150; i++ {
		v := 0.01 * float64(i+1)
		if i%2 == 1 {
			v = -v // sign must not affect selection
		}
		snap[1000+i] = v
	}

	got := Downselect(snap)
	if len(got) != 100 {
		t.Fatalf("downselected size = %d, want exactly 100", len(got))
	}
	for id := 1050; id < 1150; id++ {
		if _, ok := got[id]; !ok {
			t.Fatalf("id %d (among the 100 largest) missing", id)
		}
	}
	for id := 1000; id < 1050; id++ {
		if _, ok := got[id]; ok {
			t.Fatalf("id %d (among the 50 smallest) kept", id)
		}
	}
}

func TestDownselectTieKeepsLowerID(t *testing.T) {
	snap := make(Snapshot, 101)
	for i := 0; i < 99; i++ {
		snap[1000+i] = 1.0
	}
	snap[1100] = -0.5
	snap[1101] = 0.5

	got := Downselect(snap)
	if len(got) != 100 {
		t.Fatalf("size = %d, want 100", len(got))
	}
	if _, ok := got[1100]; !ok {
		t.Fatal("tie must keep the lower identifier")
	}
	if _, ok := got[1101]; ok {
		t.Fatal("tie kept the higher identifier")
	}
	if got[1100] != -0.5 {
		t.Fatalf("value changed by downselection: %v", got[1100])
	}
}

func TestEncode(t *testing.T) {
	if got := Encode(Snapshot{}); len(got) != 0 {
		t.Fatalf("encode(empty) = %v, want empty", got)
	}

	got := Encode(Snapshot{1000: 0.5})
	if len(got) != 2 || got[0] != 1000 || got[1] != 0.5 {
		t.Fatalf("encode single = %v", got)
	}

	got = Encode(Snapshot{1050: 0.1, 1000: 0.2, 1030: 0.3})
	want := []float64{1000, 0.2, 1030, 0.3, 1050, 0.1}
	if len(got) != len(want) {
		t.Fatalf("encode = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("encode[%d] = %v, want %v (full: %v)", i, got[i], want[i], got)
		}
	}
}
