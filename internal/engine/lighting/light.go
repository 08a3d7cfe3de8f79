// Package lighting packs scene lights into the flat array handed to encoders.
package lighting

import (
	"github.com/Faultbox/x3d/pkg/math"
)

// MaxLights is the maximum number of lights passed to an encoder per frame.
const MaxLights = 16

// Type identifies how a light's Vector is interpreted.
type Type int

const (
	// Point lights emit from Vector (a world position) and fade out at Range.
	Point Type = iota
	// Directional lights shine along Vector (a unit direction) with no falloff.
	Directional
	// Ambient lights add Color everywhere. Vector and Range are ignored.
	Ambient
)

// String returns the token used for the type in scene files.
func (t Type) String() string {
	switch t {
	case Directional:
		return "directional"
	case Ambient:
		return "ambient"
	default:
		return "point"
	}
}

// ParseType is the inverse of Type.String. Unknown names report false.
func ParseType(s string) (Type, bool) {
	switch s {
	case "point":
		return Point, true
	case "directional":
		return Directional, true
	case "ambient":
		return Ambient, true
	}
	return Point, false
}

// Light is one entry of the packed light array.
type Light struct {
	Type   Type
	Vector math.Vec3 // World position for Point, direction for Directional
	Color  math.Vec4 // RGBA, components nominally 0-1
	Range  float32   // Falloff distance for Point lights
}

// DefaultRange is the range given to lights created without one.
const DefaultRange = 300

// Attenuation returns the linear falloff 1 - d/range clamped to [0, 1] for a
// point at distance d from a point light. Other light types do not attenuate.
func (l Light) Attenuation(d float32) float32 {
	if l.Type != Point {
		return 1
	}
	if l.Range <= 0 {
		return 0
	}
	return 1 - math.Clamp(d/l.Range, 0, 1)
}

// Buffer holds up to MaxLights lights for one frame.
type Buffer struct {
	Lights []Light
}

// NewBuffer creates an empty light buffer.
func NewBuffer() *Buffer {
	return &Buffer{
		Lights: make([]Light, 0, MaxLights),
	}
}

// Clear removes all lights from the buffer.
func (b *Buffer) Clear() {
	b.Lights = b.Lights[:0]
}

// Count returns the number of lights held.
func (b *Buffer) Count() int {
	return len(b.Lights)
}

// Add appends a light.
// Returns false if the buffer is full.
func (b *Buffer) Add(light Light) bool {
	if len(b.Lights) >= MaxLights {
		return false
	}
	if light.Type == Point && light.Range <= 0 {
		light.Range = DefaultRange
	}
	b.Lights = append(b.Lights, light)
	return true
}

// Set replaces all lights in the buffer.
// Truncates to MaxLights if necessary.
func (b *Buffer) Set(lights []Light) {
	b.Clear()
	for _, l := range lights {
		if !b.Add(l) {
			return
		}
	}
}

// Vectors returns positions or directions as a flat slice for GPU upload.
// Format: [x0, y0, z0, x1, y1, z1, ...], always MaxLights entries long.
func (b *Buffer) Vectors() []float32 {
	result := make([]float32, MaxLights*3)
	for i, light := range b.Lights {
		result[i*3+0] = light.Vector.X
		result[i*3+1] = light.Vector.Y
		result[i*3+2] = light.Vector.Z
	}
	return result
}

// Colors returns colors as a flat slice for GPU upload.
// Format: [r0, g0, b0, a0, r1, ...]
func (b *Buffer) Colors() []float32 {
	result := make([]float32, MaxLights*4)
	for i, light := range b.Lights {
		result[i*4+0] = light.Color.X
		result[i*4+1] = light.Color.Y
		result[i*4+2] = light.Color.Z
		result[i*4+3] = light.Color.W
	}
	return result
}

// Ranges returns ranges as a flat slice for GPU upload.
func (b *Buffer) Ranges() []float32 {
	result := make([]float32, MaxLights)
	for i, light := range b.Lights {
		result[i] = light.Range
	}
	return result
}

// Types returns light types as a flat slice for GPU upload.
func (b *Buffer) Types() []int32 {
	result := make([]int32, MaxLights)
	for i, light := range b.Lights {
		result[i] = int32(light.Type)
	}
	return result
}
