package config

import (
	"math/rand"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/halcyonlab/starling/internal/flock"
	"github.com/halcyonlab/starling/internal/grid"
)

const (
	DefaultDispersion = 0.5
	DefaultEnergy     = 0.5
	DefaultFade       = 0.5
	DefaultDepth      = 0.35
	DefaultAgentCount = 8
	DefaultSeed       = 1
)

// legacyFadeKey is the pre-rename name of the fade field, still accepted on
// import so old preset files keep working.
const legacyFadeKey = "decay"

// Record is the persistent configuration of the modulation layer: a plain
// serializable value. The engine owns pushing it into the kernel.
type Record struct {
	Dispersion float64 `yaml:"dispersion"`
	Energy     float64 `yaml:"energy"`
	Fade       float64 `yaml:"fade"`
	Depth      float64 `yaml:"depth"`
	AgentCount int     `yaml:"agent_count"`
	Seed       uint32  `yaml:"seed"`
	SeedLocked bool    `yaml:"seed_locked"`
	Zones      Zones   `yaml:"zones"`
	Rows       []bool  `yaml:"rows"`
	Enabled    bool    `yaml:"enabled"`
}

// Zones holds the per-zone enable flags. Each flag covers one fixed column
// span; the spans live in the grid package.
type Zones struct {
	Generator bool `yaml:"generator"`
	Channel   bool `yaml:"channel"`
	FX        bool `yaml:"fx"`
	Master    bool `yaml:"master"`
}

// DefaultRecord returns a Record with every documented default.
func DefaultRecord() *Record {
	return &Record{
		Dispersion: DefaultDispersion,
		Energy:     DefaultEnergy,
		Fade:       DefaultFade,
		Depth:      DefaultDepth,
		AgentCount: DefaultAgentCount,
		Seed:       DefaultSeed,
		SeedLocked: false,
		Zones:      Zones{Generator: true, Channel: true, FX: true, Master: true},
		Rows:       allRows(),
		Enabled:    false,
	}
}

func allRows() []bool {
	rows := make([]bool, grid.Rows)
	for i := range rows {
		rows[i] = true
	}
	return rows
}

// FromMap builds a Record from a plain key/value map. Deserialization is
// permissive and defaulting: unknown keys are ignored, missing or
// wrong-typed values fall back to their defaults, and the legacy fade key
// is read when the current one is absent. It never fails.
func FromMap(m map[string]any) *Record {
	r := DefaultRecord()
	if m == nil {
		return r
	}
	if v, ok := toFloat(m["dispersion"]); ok {
		r.Dispersion = v
	}
	if v, ok := toFloat(m["energy"]); ok {
		r.Energy = v
	}
	if v, ok := toFloat(m["fade"]); ok {
		r.Fade = v
	} else if v, ok := toFloat(m[legacyFadeKey]); ok {
		r.Fade = v
	}
	if v, ok := toFloat(m["depth"]); ok {
		r.Depth = v
	}
	if v, ok := toInt(m["agent_count"]); ok {
		r.AgentCount = v
	}
	if v, ok := toInt(m["seed"]); ok {
		r.Seed = uint32(v)
	}
	if v, ok := toBool(m["seed_locked"]); ok {
		r.SeedLocked = v
	}
	if zm, ok := m["zones"].(map[string]any); ok {
		if v, ok := toBool(zm["generator"]); ok {
			r.Zones.Generator = v
		}
		if v, ok := toBool(zm["channel"]); ok {
			r.Zones.Channel = v
		}
		if v, ok := toBool(zm["fx"]); ok {
			r.Zones.FX = v
		}
		if v, ok := toBool(zm["master"]); ok {
			r.Zones.Master = v
		}
	}
	if rows, ok := m["rows"].([]any); ok {
		for i, rv := range rows {
			if i >= len(r.Rows) {
				break
			}
			if v, ok := toBool(rv); ok {
				r.Rows[i] = v
			}
		}
	}
	if v, ok := toBool(m["enabled"]); ok {
		r.Enabled = v
	}
	r.Clamp()
	return r
}

// ToMap exports the record as a plain key/value map, the shape the host
// persistence layer stores and FromMap reads back.
func (r *Record) ToMap() map[string]any {
	rows := make([]any, len(r.Rows))
	for i, v := range r.Rows {
		rows[i] = v
	}
	return map[string]any{
		"dispersion":  r.Dispersion,
		"energy":      r.Energy,
		"fade":        r.Fade,
		"depth":       r.Depth,
		"agent_count": r.AgentCount,
		"seed":        int(r.Seed),
		"seed_locked": r.SeedLocked,
		"zones": map[string]any{
			"generator": r.Zones.Generator,
			"channel":   r.Zones.Channel,
			"fx":        r.Zones.FX,
			"master":    r.Zones.Master,
		},
		"rows":    rows,
		"enabled": r.Enabled,
	}
}

// Clamp normalizes every field into its documented range. Out-of-range
// input is silently corrected, never reported.
func (r *Record) Clamp() {
	r.Dispersion = clamp01(r.Dispersion)
	r.Energy = clamp01(r.Energy)
	r.Fade = clamp01(r.Fade)
	r.Depth = clamp01(r.Depth)
	if r.AgentCount < flock.MinAgents {
		r.AgentCount = flock.MinAgents
	}
	if r.AgentCount > flock.MaxAgents {
		r.AgentCount = flock.MaxAgents
	}
	if len(r.Rows) != grid.Rows {
		rows := allRows()
		copy(rows, r.Rows)
		r.Rows = rows
	}
}

// Clone returns an independent copy.
func (r *Record) Clone() *Record {
	c := *r
	c.Rows = make([]bool, len(r.Rows))
	copy(c.Rows, r.Rows)
	return &c
}

// ActiveSeed resolves the seed for the next kernel initialization. When the
// seed is locked the stored value is returned unchanged; otherwise a fresh
// value in [0, 0x7FFFFFFF] is drawn from the process-wide source and
// stored, so the call mutates the record.
func (r *Record) ActiveSeed() uint32 {
	if r.SeedLocked {
		return r.Seed
	}
	r.Seed = uint32(rand.Int31())
	return r.Seed
}

// IsColumnAllowed reports whether col falls inside a currently enabled zone
// span. Spacer columns belong to no zone and are never allowed.
func (r *Record) IsColumnAllowed(col int) bool {
	return r.ZoneEnabled(grid.ZoneOf(col))
}

// IsRowAllowed reports whether row is enabled. Out-of-range rows are not.
func (r *Record) IsRowAllowed(row int) bool {
	return row >= 0 && row < len(r.Rows) && r.Rows[row]
}

// ZoneEnabled reads one zone flag. ZoneNone is never enabled.
func (r *Record) ZoneEnabled(z grid.Zone) bool {
	switch z {
	case grid.ZoneGenerator:
		return r.Zones.Generator
	case grid.ZoneChannel:
		return r.Zones.Channel
	case grid.ZoneFX:
		return r.Zones.FX
	case grid.ZoneMaster:
		return r.Zones.Master
	default:
		return false
	}
}

// SetZoneEnabled writes one zone flag.
func (r *Record) SetZoneEnabled(z grid.Zone, on bool) {
	switch z {
	case grid.ZoneGenerator:
		r.Zones.Generator = on
	case grid.ZoneChannel:
		r.Zones.Channel = on
	case grid.ZoneFX:
		r.Zones.FX = on
	case grid.ZoneMaster:
		r.Zones.Master = on
	}
}

// SetRowEnabled writes one row flag. Out-of-range rows are ignored.
func (r *Record) SetRowEnabled(row int, on bool) {
	if row >= 0 && row < len(r.Rows) {
		r.Rows[row] = on
	}
}

// Load reads a YAML file into a Record through the permissive map codec.
func Load(path string) (*Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var m map[string]any
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return FromMap(m), nil
}

// Save writes the record as YAML.
func Save(path string, r *Record) error {
	data, err := yaml.Marshal(r)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func toFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int:
		return float64(x), true
	case int64:
		return float64(x), true
	case uint64:
		return float64(x), true
	default:
		return 0, false
	}
}

func toInt(v any) (int, bool) {
	switch x := v.(type) {
	case int:
		return x, true
	case int64:
		return int(x), true
	case uint64:
		return int(x), true
	case float64:
		return int(x), true
	default:
		return 0, false
	}
}

func toBool(v any) (bool, bool) {
	b, ok := v.(bool)
	return b, ok
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
