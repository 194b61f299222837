package flock

import (
	"math"

	"github.com/halcyonlab/starling/internal/grid"
	"github.com/halcyonlab/starling/internal/prng"
)

const (
	MinAgents = 1
	MaxAgents = 24

	// Dt is the simulated step length. The decay math assumes the nominal
	// 20 Hz control rate even if the host paces ticks differently.
	Dt = 1.0 / 20.0

	// Positions stay strictly below 1 so floor(x*cols) never lands on an
	// out-of-range column.
	posMax = 0.9999
)

// Agent is one flocking entity.
type Agent struct {
	X, Y   float64
	VX, VY float64
}

// CellFilter reports whether a cell currently accepts agent influence. A nil
// filter allows every cell.
type CellFilter func(row, col int) bool

// Swarm is the flocking kernel. The zero value is unusable; call NewSwarm.
type Swarm struct {
	agents   []Agent
	count    int
	occupied map[int]grid.Cell
	cells    map[grid.Cell]float64

	dispersion float64
	energy     float64
	fade       float64
	depth      float64

	rng         *prng.Source
	filter      CellFilter
	initialized bool
}

// NewSwarm returns an uninitialized kernel with mid-range parameters.
func NewSwarm() *Swarm {
	return &Swarm{
		count:      8,
		dispersion: 0.5,
		energy:     0.5,
		fade:       0.5,
		depth:      0.5,
	}
}

// Init seeds the generator and creates the agent population from scratch.
// Any previous agents and cell state are discarded.
func (s *Swarm) Init(seed uint32) {
	s.rng = prng.New(seed)
	s.agents = make([]Agent, 0, s.count)
	s.occupied = make(map[int]grid.Cell)
	s.cells = make(map[grid.Cell]float64)
	for i := 0; i < s.count; i++ {
		s.agents = append(s.agents, s.spawn())
	}
	s.initialized = true
}

// Reset drops all simulation state. Idempotent; the configured count,
// parameters and filter survive for the next Init.
func (s *Swarm) Reset() {
	s.agents = nil
	s.occupied = nil
	s.cells = nil
	s.rng = nil
	s.initialized = false
}

// Initialized reports whether Init has run since the last Reset.
func (s *Swarm) Initialized() bool { return s.initialized }

func (s *Swarm) spawn() Agent {
	x := s.rng.Float()
	y := s.rng.Float()
	vx := s.rng.FloatRange(-0.01, 0.01)
	vy := s.rng.FloatRange(-0.01, 0.01)
	return Agent{X: x, Y: y, VX: vx, VY: vy}
}

// SetAgentCount resizes the population to n, clamped to [1, 24]. While
// initialized, growth appends agents drawn from the live generator and
// shrinking truncates, dropping the occupancy records of removed indices.
func (s *Swarm) SetAgentCount(n int) {
	n = clampInt(n, MinAgents, MaxAgents)
	if n == s.count {
		return
	}
	if !s.initialized {
		s.count = n
		return
	}
	if n > s.count {
		for i := s.count; i < n; i++ {
			s.agents = append(s.agents, s.spawn())
		}
	} else {
		s.agents = s.agents[:n]
		for i := range s.occupied {
			if i >= n {
				delete(s.occupied, i)
			}
		}
	}
	s.count = n
}

// SetDispersion sets how strongly agents avoid crowding, clamped to [0, 1].
func (s *Swarm) SetDispersion(v float64) { s.dispersion = clamp01(v) }

// SetEnergy sets agent speed and jitter, clamped to [0, 1].
func (s *Swarm) SetEnergy(v float64) { s.energy = clamp01(v) }

// SetFade sets how long abandoned cells linger, clamped to [0, 1].
func (s *Swarm) SetFade(v float64) { s.fade = clamp01(v) }

// SetDepth sets the magnitude written into occupied cells, clamped to [0, 1].
func (s *Swarm) SetDepth(v float64) { s.depth = clamp01(v) }

// SetCellFilter replaces the cell predicate. The filter is consulted once
// per agent per tick, so a closure over live host state behaves as a live
// read-through.
func (s *Swarm) SetCellFilter(f CellFilter) { s.filter = f }

// Count returns the configured agent count.
func (s *Swarm) Count() int { return s.count }

// Params returns the current behavioral parameters.
func (s *Swarm) Params() map[string]float64 {
	return map[string]float64{
		"dispersion": s.dispersion,
		"energy":     s.energy,
		"fade":       s.fade,
		"depth":      s.depth,
	}
}

// Agents returns a snapshot of the population.
func (s *Swarm) Agents() []Agent {
	out := make([]Agent, len(s.agents))
	copy(out, s.agents)
	return out
}

// Contributions returns every live (row, col, value) cell triple.
func (s *Swarm) Contributions() []grid.Contribution {
	out := make([]grid.Contribution, 0, len(s.cells))
	for c, v := range s.cells {
		out = append(out, grid.Contribution{Row: c.Row, Col: c.Col, Value: v})
	}
	return out
}

// Tick advances the simulation one step: physics first, then cell decay and
// occupancy. The phase order matters; a cell re-entered mid-decay must reset
// to full strength within the same tick. Ticking before Init is a no-op.
func (s *Swarm) Tick() {
	if !s.initialized {
		return
	}
	s.stepPhysics()
	s.stepCells()
}

func (s *Swarm) stepPhysics() {
	radius := 0.15 + s.dispersion*0.1
	half := radius / 2
	sepW := 1.5 * (1 - s.dispersion*0.8)
	cohW := 0.8 * (1 - s.dispersion*0.5)
	const alignW = 1.0
	maxForce := 0.001 + s.energy*0.004
	maxSpeed := 0.005 + s.energy*0.025
	jitter := s.energy * 0.002

	// Steering is computed for every agent against the pre-tick snapshot,
	// then applied in a second pass.
	acc := make([][2]float64, len(s.agents))
	for i := range s.agents {
		a := &s.agents[i]

		var sepX, sepY float64
		var sumVX, sumVY float64
		var sumX, sumY float64
		neighbors := 0

		for j := range s.agents {
			if j == i {
				continue
			}
			b := &s.agents[j]
			dx := b.X - a.X
			dy := b.Y - a.Y
			d := math.Hypot(dx, dy)
			if d <= 0 || d >= radius {
				continue
			}
			neighbors++
			sumVX += b.VX
			sumVY += b.VY
			sumX += b.X
			sumY += b.Y
			if d < half {
				push := (half - d) / d
				sepX -= dx * push
				sepY -= dy * push
			}
		}

		// Two jitter draws per agent per tick, unconditionally, so the
		// stream position never depends on neighbor geometry.
		ax := s.rng.FloatRange(-jitter, jitter)
		ay := s.rng.FloatRange(-jitter, jitter)

		if neighbors > 0 {
			inv := 1 / float64(neighbors)
			ax += sepX * sepW
			ay += sepY * sepW
			ax += (sumVX*inv - a.VX) * alignW
			ay += (sumVY*inv - a.VY) * alignW
			ax += (sumX*inv - a.X) * cohW
			ay += (sumY*inv - a.Y) * cohW
		}

		acc[i][0], acc[i][1] = clampMag(ax, ay, maxForce)
	}

	for i := range s.agents {
		a := &s.agents[i]
		a.VX += acc[i][0]
		a.VY += acc[i][1]
		a.VX, a.VY = clampMag(a.VX, a.VY, maxSpeed)
		a.X += a.VX
		a.Y += a.VY
		reflect(a)
	}
}

// reflect bounces an agent off the unit-square walls. Edges reflect rather
// than wrap: the velocity component is forced back toward the interior.
func reflect(a *Agent) {
	if a.X < 0 {
		a.X = -a.X
		a.VX = math.Abs(a.VX)
	} else if a.X >= 1 {
		a.X = 2 - a.X
		a.VX = -math.Abs(a.VX)
	}
	if a.Y < 0 {
		a.Y = -a.Y
		a.VY = math.Abs(a.VY)
	} else if a.Y >= 1 {
		a.Y = 2 - a.Y
		a.VY = -math.Abs(a.VY)
	}
	a.X = clampFloat(a.X, 0, posMax)
	a.Y = clampFloat(a.Y, 0, posMax)
}

func (s *Swarm) stepCells() {
	fadeTime := 0.1 + s.fade*1.9
	decay := Dt / fadeTime
	for c, v := range s.cells {
		v -= decay
		if v <= 0 {
			delete(s.cells, c)
		} else {
			s.cells[c] = v
		}
	}

	for i := range s.agents {
		col := clampInt(int(s.agents[i].X*grid.Cols), 0, grid.Cols-1)
		row := clampInt(int(s.agents[i].Y*grid.Rows), 0, grid.Rows-1)
		if s.filter != nil && !s.filter(row, col) {
			delete(s.occupied, i)
			continue
		}
		cell := grid.Cell{Row: row, Col: col}
		s.cells[cell] = s.depth
		s.occupied[i] = cell
	}
}

func clampMag(x, y, max float64) (float64, float64) {
	m := math.Hypot(x, y)
	if m <= max || m == 0 {
		return x, y
	}
	scale := max / m
	return x * scale, y * scale
}

func clamp01(v float64) float64 {
	return clampFloat(v, 0, 1)
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
