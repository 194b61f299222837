// Package automation plays scripted scenes against a running engine. A
// scene is an ordered list of steps; each step applies a preset or
// individual parameter changes through the live setters, so the flock keeps
// moving across transitions, then holds for a duration at the tick rate.
package automation

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/halcyonlab/starling/internal/config"
	"github.com/halcyonlab/starling/internal/engine"
	"github.com/halcyonlab/starling/internal/grid"
)

// Scene is a scripted performance sequence.
type Scene struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Steps       []Step `yaml:"steps"`
}

// Step is one segment of a scene. A preset, when named, is applied first;
// params and zone/row switches then refine it. Seconds is how long the
// segment holds before the next step.
type Step struct {
	Preset  string             `yaml:"preset"`
	Params  map[string]float64 `yaml:"params"`
	Zones   map[string]bool    `yaml:"zones"`
	Rows    map[int]bool       `yaml:"rows"`
	Reseed  bool               `yaml:"reseed"`
	Seconds float64            `yaml:"seconds"`
}

// LoadScene reads a scene from a YAML file.
func LoadScene(path string) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scene Scene
	if err := yaml.Unmarshal(data, &scene); err != nil {
		return nil, fmt.Errorf("failed to parse scene: %w", err)
	}

	return &scene, nil
}

// Runner drives an engine through scenes, owning the clock. All engine
// calls happen on the caller's goroutine.
type Runner struct {
	eng   *engine.Engine
	pacer *engine.Manual
	rate  int
	fast  bool
	log   zerolog.Logger
}

// NewRunner returns a runner ticking at rate per second. A rate below one
// falls back to twenty.
func NewRunner(eng *engine.Engine, pacer *engine.Manual, rate int, log zerolog.Logger) *Runner {
	if rate < 1 {
		rate = 20
	}
	return &Runner{
		eng:   eng,
		pacer: pacer,
		rate:  rate,
		log:   log.With().Str("component", "automation").Logger(),
	}
}

// SetFast disables wall-clock pacing; steps then tick as fast as they can.
func (r *Runner) SetFast(on bool) { r.fast = on }

// Play starts the engine if needed and walks the scene's steps in order.
// It returns on the first bad step, on context cancellation, or after the
// last step's hold, leaving the engine running.
func (r *Runner) Play(ctx context.Context, sc *Scene) error {
	if len(sc.Steps) == 0 {
		return fmt.Errorf("scene %q has no steps", sc.Name)
	}

	if !r.eng.Running() {
		r.eng.Start()
		if !r.eng.Running() {
			return fmt.Errorf("engine did not start")
		}
	}

	for i, step := range sc.Steps {
		if err := r.apply(i, step); err != nil {
			return err
		}

		r.log.Info().
			Int("step", i+1).
			Int("of", len(sc.Steps)).
			Str("preset", step.Preset).
			Float64("seconds", step.Seconds).
			Msg("scene step")

		if err := r.hold(ctx, step.Seconds); err != nil {
			return err
		}
	}

	return nil
}

func (r *Runner) apply(i int, step Step) error {
	if step.Preset != "" {
		p := config.FindPreset(step.Preset)
		if p == nil {
			return fmt.Errorf("step %d: unknown preset: %s", i+1, step.Preset)
		}
		r.eng.SetDispersion(p.Dispersion)
		r.eng.SetEnergy(p.Energy)
		r.eng.SetFade(p.Fade)
		r.eng.SetDepth(p.Depth)
		r.eng.SetAgentCount(p.AgentCount)
	}

	for name, v := range step.Params {
		switch name {
		case "dispersion":
			r.eng.SetDispersion(v)
		case "energy":
			r.eng.SetEnergy(v)
		case "fade":
			r.eng.SetFade(v)
		case "depth":
			r.eng.SetDepth(v)
		case "agents":
			r.eng.SetAgentCount(int(v))
		default:
			return fmt.Errorf("step %d: unknown parameter: %s", i+1, name)
		}
	}

	for name, on := range step.Zones {
		z, ok := zoneByName(name)
		if !ok {
			return fmt.Errorf("step %d: unknown zone: %s", i+1, name)
		}
		r.eng.SetZoneEnabled(z, on)
	}

	for row, on := range step.Rows {
		r.eng.SetRowEnabled(row, on)
	}

	if step.Reseed {
		r.eng.Reseed()
	}

	return nil
}

func (r *Runner) hold(ctx context.Context, seconds float64) error {
	ticks := int(seconds * float64(r.rate))

	if r.fast {
		for i := 0; i < ticks; i++ {
			if err := ctx.Err(); err != nil {
				return err
			}
			r.pacer.Fire()
		}
		return nil
	}

	ticker := time.NewTicker(time.Second / time.Duration(r.rate))
	defer ticker.Stop()

	for i := 0; i < ticks; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			r.pacer.Fire()
		}
	}
	return nil
}

func zoneByName(name string) (grid.Zone, bool) {
	for _, z := range grid.Zones {
		if z.String() == name {
			return z, true
		}
	}
	return grid.ZoneNone, false
}
