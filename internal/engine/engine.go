package engine

import (
	"math/rand"

	"github.com/rs/zerolog"

	"github.com/halcyonlab/starling/internal/bus"
	"github.com/halcyonlab/starling/internal/config"
	"github.com/halcyonlab/starling/internal/flock"
	"github.com/halcyonlab/starling/internal/grid"
)

// Frame is one tick's publication to observers: the agent population, the
// raw cell contributions, and the downselected snapshot the bus shipped.
type Frame struct {
	Tick   uint64
	Agents []flock.Agent
	Cells  []grid.Contribution
	Bus    bus.Snapshot
}

// Observer receives one Frame per tick while the engine runs.
type Observer interface {
	OnFrame(Frame)
}

// RouteFunc receives the generator-zone contributions of one tick. It is
// only invoked when the list is non-empty, except at stop, where it is
// invoked once with an empty list so the route can zero itself out.
type RouteFunc func([]grid.Contribution)

// Engine ties the swarm, the configuration record, and the bus together
// behind a start/stop lifecycle.
type Engine struct {
	cfg    *config.Record
	swarm  *flock.Swarm
	sender *bus.Sender
	tr     bus.Transport
	pacer  Pacer
	log    zerolog.Logger

	route      RouteFunc
	hostFilter flock.CellFilter
	observers  []Observer

	tick    uint64
	running bool
}

// New builds an engine around cfg. A nil cfg starts from defaults. The
// transport is shared with the sender and consulted for connectivity
// before every start.
func New(cfg *config.Record, tr bus.Transport, pacer Pacer, log zerolog.Logger) *Engine {
	if cfg == nil {
		cfg = config.DefaultRecord()
	}
	cfg.Clamp()
	e := &Engine{
		cfg:    cfg,
		swarm:  flock.NewSwarm(),
		sender: bus.NewSender(tr, log),
		tr:     tr,
		pacer:  pacer,
		log:    log.With().Str("component", "engine").Logger(),
	}
	e.installFilter()
	e.pushParams()
	return e
}

func (e *Engine) AddObserver(o Observer) { e.observers = append(e.observers, o) }

// SetGeneratorRoute registers the callback fed with generator-zone
// contributions each tick. Pass nil to unregister.
func (e *Engine) SetGeneratorRoute(fn RouteFunc) { e.route = fn }

// SetHostFilter composes an extra predicate under the zone/row flags. A
// cell must pass both the record's toggles and this predicate to accept
// agent influence.
func (e *Engine) SetHostFilter(f flock.CellFilter) {
	e.hostFilter = f
	e.installFilter()
}

// Config exposes the live record. Callers mutating it directly should
// prefer the engine's setters, which also reach the running swarm.
func (e *Engine) Config() *config.Record { return e.cfg }

func (e *Engine) Running() bool { return e.running }

// Start brings the engine to the running state. Already running is a
// no-op. Without a connected backend it logs the refusal and stays
// stopped.
func (e *Engine) Start() {
	if e.running {
		return
	}
	if !e.tr.Connected() {
		e.log.Warn().Msg("start refused: backend not connected")
		return
	}
	seed := e.cfg.ActiveSeed()
	e.pushParams()
	e.swarm.Init(seed)
	e.sender.Enable()
	e.pacer.Start(e.Tick)
	e.running = true
	e.cfg.Enabled = true
	e.log.Info().Uint32("seed", seed).Int("agents", e.cfg.AgentCount).Msg("started")
}

// Stop brings the engine to the stopped state. Already stopped is a
// no-op. The sender's disable sequence and an empty route call clean up
// the backend; the swarm drops its simulation state but the record keeps
// every setting.
func (e *Engine) Stop() {
	if !e.running {
		return
	}
	e.pacer.Stop()
	e.sender.Disable()
	if e.route != nil {
		e.route(nil)
	}
	e.swarm.Reset()
	e.running = false
	e.cfg.Enabled = false
	e.log.Info().Uint64("ticks", e.tick).Msg("stopped")
}

// Toggle stops a running engine and starts a stopped one.
func (e *Engine) Toggle() {
	if e.running {
		e.Stop()
	} else {
		e.Start()
	}
}

// Tick advances the simulation one step. Not running is a no-op. Driven
// by the pacer, but callable directly; never reentrant.
func (e *Engine) Tick() {
	if !e.running {
		return
	}
	e.tick++
	e.swarm.Tick()

	contribs := e.swarm.Contributions()
	gen, mapped := splitContributions(contribs)
	e.sender.Send(mapped)
	if e.route != nil && len(gen) > 0 {
		e.route(gen)
	}

	if len(e.observers) == 0 {
		return
	}
	frame := Frame{
		Tick:   e.tick,
		Agents: e.swarm.Agents(),
		Cells:  contribs,
		Bus:    e.sender.Last(),
	}
	for _, o := range e.observers {
		o.OnFrame(frame)
	}
}

// SetAgentCount mutates the record and the live swarm together.
func (e *Engine) SetAgentCount(n int) {
	e.cfg.AgentCount = n
	e.cfg.Clamp()
	e.swarm.SetAgentCount(e.cfg.AgentCount)
}

func (e *Engine) SetDispersion(v float64) {
	e.cfg.Dispersion = v
	e.cfg.Clamp()
	e.swarm.SetDispersion(e.cfg.Dispersion)
}

func (e *Engine) SetEnergy(v float64) {
	e.cfg.Energy = v
	e.cfg.Clamp()
	e.swarm.SetEnergy(e.cfg.Energy)
}

func (e *Engine) SetFade(v float64) {
	e.cfg.Fade = v
	e.cfg.Clamp()
	e.swarm.SetFade(e.cfg.Fade)
}

func (e *Engine) SetDepth(v float64) {
	e.cfg.Depth = v
	e.cfg.Clamp()
	e.swarm.SetDepth(e.cfg.Depth)
}

// SetZoneEnabled flips a zone flag on the record only. The swarm's cell
// filter reads the record live, so the change lands on the next tick
// without any push.
func (e *Engine) SetZoneEnabled(z grid.Zone, on bool) { e.cfg.SetZoneEnabled(z, on) }

// SetRowEnabled flips a row flag on the record only.
func (e *Engine) SetRowEnabled(row int, on bool) { e.cfg.SetRowEnabled(row, on) }

// Reseed draws a fresh seed from the process-wide source, stores it on
// the record, and re-initializes a running swarm in place. The swarm's
// own generator is never used for this; it only ever consumes seeds.
func (e *Engine) Reseed() {
	seed := uint32(rand.Int31())
	e.cfg.Seed = seed
	if e.running {
		e.swarm.Init(seed)
	}
	e.log.Info().Uint32("seed", seed).Msg("reseeded")
}

// ImportPreset replaces the record wholesale from a key/value map. A
// running engine stops first; it resumes when either the prior state or
// the loaded record says running.
func (e *Engine) ImportPreset(m map[string]any) {
	wasRunning := e.running
	if wasRunning {
		e.Stop()
	}
	e.cfg = config.FromMap(m)
	e.installFilter()
	e.pushParams()
	if wasRunning || e.cfg.Enabled {
		e.Start()
	}
}

// ExportPreset serializes the live record to a key/value map.
func (e *Engine) ExportPreset() map[string]any { return e.cfg.ToMap() }

// pushParams copies all five simulation parameters from the record into
// the swarm.
func (e *Engine) pushParams() {
	e.swarm.SetAgentCount(e.cfg.AgentCount)
	e.swarm.SetDispersion(e.cfg.Dispersion)
	e.swarm.SetEnergy(e.cfg.Energy)
	e.swarm.SetFade(e.cfg.Fade)
	e.swarm.SetDepth(e.cfg.Depth)
}

// installFilter hands the swarm a predicate that re-reads the engine's
// current record on every call, so zone/row toggles and preset imports
// take effect without reinstalling.
func (e *Engine) installFilter() {
	e.swarm.SetCellFilter(func(row, col int) bool {
		if !e.cfg.IsRowAllowed(row) || !e.cfg.IsColumnAllowed(col) {
			return false
		}
		if e.hostFilter != nil {
			return e.hostFilter(row, col)
		}
		return true
	})
}

// splitContributions partitions cells at the generator boundary: voice
// columns route to the generator callback, everything else to the bus.
func splitContributions(contribs []grid.Contribution) (gen, mapped []grid.Contribution) {
	for _, c := range contribs {
		if c.Col < grid.GeneratorCols {
			gen = append(gen, c)
		} else {
			mapped = append(mapped, c)
		}
	}
	return gen, mapped
}
