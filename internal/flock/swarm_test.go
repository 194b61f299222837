package flock

import (
	"math"
	"testing"

	"github.com/halcyonlab/starling/internal/grid"
)

func TestIdenticalSeedsIdenticalTrajectories(t *testing.T) {
	a, b := NewSwarm(), NewSwarm()
	for _, s := range []*Swarm{a, b} {
		s.SetAgentCount(12)
		s.SetDispersion(0.3)
		s.SetEnergy(0.7)
		s.Init(777)
	}

	for tick := 0; tick < 100; tick++ {
		a.Tick()
		b.Tick()
		av, bv := a.Agents(), b.Agents()
		if len(av) != len(bv) {
			t.Fatalf("tick %d: population diverged: %d vs %d", tick, len(av), len(bv))
		}
		for i := range av {
			if av[i] != bv[i] {
				t.Fatalf("tick %d agent %d: %+v vs %+v", tick, i, av[i], bv[i])
			}
		}
	}
}

func TestDifferentSeedsDiverge(t *testing.T) {
	a, b := NewSwarm(), NewSwarm()
	a.Init(1)
	b.Init(2)
	av, bv := a.Agents(), b.Agents()
	same := true
	for i := range av {
		if av[i] != bv[i] {
			same = false
		}
	}
	if same {
		t.Fatal("different seeds produced identical populations")
	}
}

func TestTickBeforeInitIsNoop(t *testing.T) {
	s := NewSwarm()
	s.Tick()
	if got := s.Agents(); len(got) != 0 {
		t.Fatalf("agents before init: %d", len(got))
	}
	if got := s.Contributions(); len(got) != 0 {
		t.Fatalf("contributions before init: %d", len(got))
	}
}

func TestResetIdempotent(t *testing.T) {
	s := NewSwarm()
	s.Init(5)
	for i := 0; i < 10; i++ {
		s.Tick()
	}
	s.Reset()
	s.Reset()
	if s.Initialized() {
		t.Fatal("still initialized after reset")
	}
	if len(s.Contributions()) != 0 {
		t.Fatal("contributions survived reset")
	}
	s.Tick() // must be a safe no-op
	if s.Count() != 8 {
		t.Fatalf("configured count lost on reset: %d", s.Count())
	}
}

func TestReflectLowEdge(t *testing.T) {
	a := Agent{X: -0.05, VX: -0.02, Y: 0.5}
	reflect(&a)
	if math.Abs(a.X-0.05) > 1e-12 {
		t.Fatalf("X = %v, want 0.05 (must reflect, not wrap)", a.X)
	}
	if a.VX < 0 {
		t.Fatalf("VX = %v, want non-negative", a.VX)
	}
}

func TestReflectHighEdge(t *testing.T) {
	a := Agent{X: 1.03, VX: 0.04, Y: 1.0, VY: 0.01}
	reflect(&a)
	if math.Abs(a.X-0.97) > 1e-12 {
		t.Fatalf("X = %v, want 0.97", a.X)
	}
	if a.VX > 0 {
		t.Fatalf("VX = %v, want non-positive", a.VX)
	}
	// Y = 1.0 exactly reflects to 1.0 and is absorbed by the clamp.
	if a.Y > posMax {
		t.Fatalf("Y = %v, want <= %v", a.Y, posMax)
	}
	if a.VY > 0 {
		t.Fatalf("VY = %v, want non-positive", a.VY)
	}
}

func TestTickReflectsAtBoundary(t *testing.T) {
	s := NewSwarm()
	s.SetAgentCount(1)
	s.SetEnergy(0) // no jitter, maxSpeed 0.005
	s.Init(1)
	s.agents[0] = Agent{X: 0.002, Y: 0.5, VX: -0.004, VY: 0}

	s.Tick()

	a := s.agents[0]
	if math.Abs(a.X-0.002) > 1e-12 {
		t.Fatalf("X = %v, want 0.002 after reflecting from -0.002", a.X)
	}
	if math.Abs(a.VX-0.004) > 1e-12 {
		t.Fatalf("VX = %v, want +0.004", a.VX)
	}
}

func TestFadeZeroDrainsCellWithinTwoTicks(t *testing.T) {
	s := NewSwarm()
	s.SetAgentCount(1)
	s.SetFade(0)
	s.Init(3)
	s.SetCellFilter(func(row, col int) bool { return false })

	cell := grid.Cell{Row: 2, Col: 120}
	s.cells[cell] = 1.0

	s.Tick()
	if v, ok := s.cells[cell]; !ok || math.Abs(v-0.5) > 1e-12 {
		t.Fatalf("after one tick: value %v present=%v, want 0.5", v, ok)
	}
	s.Tick()
	if _, ok := s.cells[cell]; ok {
		t.Fatal("cell survived two ticks at fade=0")
	}
}

func TestDecayRunsBeforeOccupy(t *testing.T) {
	s := NewSwarm()
	s.SetAgentCount(1)
	s.SetEnergy(0)
	s.SetFade(1) // fadeTime 2.0s, decay 0.025 per tick
	s.SetDepth(0.8)
	s.Init(3)
	// Stationary agent: velocity zero, no neighbors, no jitter.
	s.agents[0] = Agent{X: 0.5, Y: 0.5}

	occupiedCell := grid.Cell{Row: 4, Col: 120}
	bystander := grid.Cell{Row: 0, Col: 10}
	s.cells[occupiedCell] = 0.2
	s.cells[bystander] = 0.2

	s.Tick()

	if v := s.cells[occupiedCell]; math.Abs(v-0.8) > 1e-12 {
		t.Fatalf("occupied cell = %v, want full-strength reset to 0.8", v)
	}
	if v := s.cells[bystander]; math.Abs(v-0.175) > 1e-12 {
		t.Fatalf("bystander cell = %v, want 0.175", v)
	}
}

func TestCellValueSetNotSummed(t *testing.T) {
	s := NewSwarm()
	s.SetAgentCount(2)
	s.SetEnergy(0)
	s.SetDepth(0.3)
	s.Init(9)
	s.agents[0] = Agent{X: 0.5, Y: 0.5}
	s.agents[1] = Agent{X: 0.5, Y: 0.5}

	s.Tick()

	if v := s.cells[grid.Cell{Row: 4, Col: 120}]; math.Abs(v-0.3) > 1e-12 {
		t.Fatalf("cell = %v, want depth 0.3 exactly (set, not summed)", v)
	}
}

func TestFilterBlocksAndClearsOccupancy(t *testing.T) {
	s := NewSwarm()
	s.SetAgentCount(1)
	s.SetEnergy(0)
	s.SetDepth(0.6)
	s.Init(4)
	s.agents[0] = Agent{X: 0.5, Y: 0.5}

	s.Tick()
	if len(s.occupied) != 1 {
		t.Fatalf("occupied records = %d, want 1", len(s.occupied))
	}

	s.SetCellFilter(func(row, col int) bool { return false })
	s.Tick()
	if len(s.occupied) != 0 {
		t.Fatalf("occupied records = %d, want 0 after filter rejection", len(s.occupied))
	}
	if v := s.cells[grid.Cell{Row: 4, Col: 120}]; v >= 0.6 {
		t.Fatalf("cell = %v, want decayed (no re-stamp through filter)", v)
	}
}

func TestSetAgentCountClamps(t *testing.T) {
	cases := []struct {
		in   int
		want int
	}{
		{0, 1},
		{-5, 1},
		{1, 1},
		{24, 24},
		{25, 24},
		{1000, 24},
	}
	for _, tc := range cases {
		s := NewSwarm()
		s.SetAgentCount(tc.in)
		if got := s.Count(); got != tc.want {
			t.Errorf("SetAgentCount(%d): count = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestSetAgentCountResizesLivePopulation(t *testing.T) {
	s := NewSwarm()
	s.SetAgentCount(5)
	s.Init(11)
	if len(s.agents) != 5 {
		t.Fatalf("population = %d, want 5", len(s.agents))
	}

	s.SetAgentCount(9)
	if len(s.agents) != 9 {
		t.Fatalf("population after grow = %d, want 9", len(s.agents))
	}

	s.Tick() // record occupancy for all nine
	s.SetAgentCount(2)
	if len(s.agents) != 2 {
		t.Fatalf("population after shrink = %d, want 2", len(s.agents))
	}
	for i := range s.occupied {
		if i >= 2 {
			t.Fatalf("occupancy record for removed agent %d survived", i)
		}
	}
}

func TestGrowthDrawsFromSameStream(t *testing.T) {
	a := NewSwarm()
	a.SetAgentCount(4)
	a.Init(21)
	a.SetAgentCount(8)

	b := NewSwarm()
	b.SetAgentCount(4)
	b.Init(21)
	b.SetAgentCount(8)

	for i := 0; i < 20; i++ {
		a.Tick()
		b.Tick()
	}
	av, bv := a.Agents(), b.Agents()
	for i := range av {
		if av[i] != bv[i] {
			t.Fatalf("agent %d diverged after identical grow: %+v vs %+v", i, av[i], bv[i])
		}
	}
}

func TestParamsClamped(t *testing.T) {
	s := NewSwarm()
	s.SetDispersion(1.5)
	s.SetEnergy(-0.2)
	s.SetFade(2)
	s.SetDepth(-1)
	p := s.Params()
	if p["dispersion"] != 1 || p["energy"] != 0 || p["fade"] != 1 || p["depth"] != 0 {
		t.Fatalf("params not clamped: %+v", p)
	}
}

func TestBoundsHoldUnderLongRun(t *testing.T) {
	s := NewSwarm()
	s.SetAgentCount(24)
	s.SetEnergy(1)
	s.SetDispersion(0)
	s.Init(99)

	maxSpeed := 0.005 + 1*0.025
	for tick := 0; tick < 200; tick++ {
		s.Tick()
		for i, a := range s.Agents() {
			if a.X < 0 || a.X > posMax || a.Y < 0 || a.Y > posMax {
				t.Fatalf("tick %d agent %d out of bounds: %+v", tick, i, a)
			}
			if v := math.Hypot(a.VX, a.VY); v > maxSpeed+1e-12 {
				t.Fatalf("tick %d agent %d speed %v > %v", tick, i, v, maxSpeed)
			}
		}
		for _, c := range s.Contributions() {
			if c.Row < 0 || c.Row >= grid.Rows || c.Col < 0 || c.Col >= grid.Cols {
				t.Fatalf("tick %d contribution outside grid: %+v", tick, c)
			}
			if c.Value <= 0 || c.Value > 1 {
				t.Fatalf("tick %d contribution value out of range: %+v", tick, c)
			}
		}
	}
}
