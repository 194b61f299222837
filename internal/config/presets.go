package config

import "sort"

// Presets is the built-in preset library, grouped by character. Zone and
// row flags default to fully open; presets only shape the flock.
var Presets = map[string]map[string]*Record{
	"ambient": {
		"drift": {
			Dispersion: 0.7, Energy: 0.12, Fade: 0.92, Depth: 0.3, AgentCount: 6,
			Seed: DefaultSeed, Zones: openZones(),
		},
		"haze": {
			Dispersion: 0.55, Energy: 0.2, Fade: 0.85, Depth: 0.22, AgentCount: 10,
			Seed: DefaultSeed, Zones: openZones(),
		},
		"glacial": {
			Dispersion: 0.8, Energy: 0.05, Fade: 1.0, Depth: 0.4, AgentCount: 4,
			Seed: DefaultSeed, Zones: openZones(),
		},
	},
	"rhythmic": {
		"pulse": {
			Dispersion: 0.35, Energy: 0.75, Fade: 0.15, Depth: 0.5, AgentCount: 12,
			Seed: DefaultSeed, Zones: openZones(),
		},
		"swarm": {
			Dispersion: 0.2, Energy: 0.85, Fade: 0.3, Depth: 0.45, AgentCount: 20,
			Seed: DefaultSeed, Zones: openZones(),
		},
	},
	"texture": {
		"scatter": {
			Dispersion: 0.9, Energy: 0.6, Fade: 0.4, Depth: 0.3, AgentCount: 16,
			Seed: DefaultSeed, Zones: openZones(),
		},
		"storm": {
			Dispersion: 0.15, Energy: 1.0, Fade: 0.25, Depth: 0.6, AgentCount: 24,
			Seed: DefaultSeed, Zones: openZones(),
		},
		"veil": {
			Dispersion: 0.6, Energy: 0.4, Fade: 0.7, Depth: 0.18, AgentCount: 8,
			Seed: DefaultSeed, Zones: openZones(),
		},
	},
}

func openZones() Zones {
	return Zones{Generator: true, Channel: true, FX: true, Master: true}
}

// GetPreset returns a normalized copy of a preset, or nil if the category
// or name is unknown.
func GetPreset(category, name string) *Record {
	group, ok := Presets[category]
	if !ok {
		return nil
	}
	r, ok := group[name]
	if !ok {
		return nil
	}
	c := r.Clone()
	c.Clamp()
	return c
}

// FindPreset looks a preset up by bare name across every category.
func FindPreset(name string) *Record {
	for category := range Presets {
		if r := GetPreset(category, name); r != nil {
			return r
		}
	}
	return nil
}

// ListPresets returns the preset names of one category, sorted.
func ListPresets(category string) []string {
	group, ok := Presets[category]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(group))
	for name := range group {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
