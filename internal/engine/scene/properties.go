package scene

import (
	"maps"
	"slices"
)

// Properties is a typed bag of named values attached to a node.
// Animators read their parameters from it.
type Properties struct {
	Strings map[string]string
	Ints    map[string]int
	Reals   map[string]float32
	Bools   map[string]bool
}

// Len returns the number of values across all kinds.
func (p *Properties) Len() int {
	return len(p.Strings) + len(p.Ints) + len(p.Reals) + len(p.Bools)
}

// String returns the named string, or def.
func (p *Properties) String(key, def string) string {
	if v, ok := p.Strings[key]; ok {
		return v
	}
	return def
}

// Int returns the named integer, or def.
func (p *Properties) Int(key string, def int) int {
	if v, ok := p.Ints[key]; ok {
		return v
	}
	return def
}

// Real returns the named real, or def.
func (p *Properties) Real(key string, def float32) float32 {
	if v, ok := p.Reals[key]; ok {
		return v
	}
	return def
}

// Bool returns the named flag, or def.
func (p *Properties) Bool(key string, def bool) bool {
	if v, ok := p.Bools[key]; ok {
		return v
	}
	return def
}

func (p *Properties) SetString(key, v string) {
	if p.Strings == nil {
		p.Strings = make(map[string]string)
	}
	p.Strings[key] = v
}

func (p *Properties) SetInt(key string, v int) {
	if p.Ints == nil {
		p.Ints = make(map[string]int)
	}
	p.Ints[key] = v
}

func (p *Properties) SetReal(key string, v float32) {
	if p.Reals == nil {
		p.Reals = make(map[string]float32)
	}
	p.Reals[key] = v
}

func (p *Properties) SetBool(key string, v bool) {
	if p.Bools == nil {
		p.Bools = make(map[string]bool)
	}
	p.Bools[key] = v
}

// Clone returns an independent copy.
func (p *Properties) Clone() Properties {
	return Properties{
		Strings: maps.Clone(p.Strings),
		Ints:    maps.Clone(p.Ints),
		Reals:   maps.Clone(p.Reals),
		Bools:   maps.Clone(p.Bools),
	}
}

func sortedKeys[V any](m map[string]V) []string {
	return slices.Sorted(maps.Keys(m))
}
