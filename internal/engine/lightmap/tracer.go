package lightmap

import (
	"errors"
	"fmt"

	"github.com/chewxy/math32"

	"github.com/Faultbox/x3d/internal/engine/lighting"
	"github.com/Faultbox/x3d/pkg/geom"
	"github.com/Faultbox/x3d/pkg/math"
)

// Accel is an acceleration structure built by a Tracer. Its contents are
// private to the tracer that built it.
type Accel any

// Job is one buffered bake handed to a Tracer.
type Job struct {
	Width, Height int
	Vertices      []Vertex
	Samples       []math.Vec3
	Lights        []lighting.Light
	Accel         Accel

	SampleRadius float32
	AOLength     float32
	AOStrength   float32

	// Texels receives the result, indexed by Coord[1]*Width+Coord[0].
	Texels []math.Vec4
}

// Tracer computes texel colours. Build receives world-space positions and
// triangle indices of the shadow casting geometry.
type Tracer interface {
	Build(positions []math.Vec3, indices []int) (Accel, error)
	Trace(job *Job) error
}

// ErrForeignAccel is returned when a tracer is given an Accel it did not build.
var ErrForeignAccel = errors.New("lightmap: accel built by another tracer")

// sunDistance is how far towards a directional light shadow rays are cast.
const sunDistance = 10000

// CPUTracer traces every texel on the calling goroutine with a linear scan of
// the shadow triangles.
type CPUTracer struct{}

type triangleAccel struct {
	triangles []geom.Triangle
	bounds    geom.BoundingBox
}

// Build implements Tracer. Degenerate triangles are dropped.
func (CPUTracer) Build(positions []math.Vec3, indices []int) (Accel, error) {
	if len(indices)%3 != 0 {
		return nil, fmt.Errorf("lightmap: index count %d is not a multiple of 3", len(indices))
	}
	a := &triangleAccel{bounds: geom.EmptyBoundingBox()}
	for i := 0; i < len(indices); i += 3 {
		var p [3]math.Vec3
		for j := range p {
			k := indices[i+j]
			if k < 0 || k >= len(positions) {
				return nil, fmt.Errorf("lightmap: index %d out of range", k)
			}
			p[j] = positions[k]
		}
		t := geom.NewTriangle(p[0], p[1], p[2])
		if t.Degenerate() {
			continue
		}
		a.triangles = append(a.triangles, t)
		a.bounds = a.bounds.AddPoint(p[0]).AddPoint(p[1]).AddPoint(p[2])
	}
	return a, nil
}

// occluded reports whether anything lies between origin and origin+dir*dist.
func (a *triangleAccel) occluded(origin, dir math.Vec3, dist float32) bool {
	if a == nil || len(a.triangles) == 0 {
		return false
	}
	var entry float32
	if !a.bounds.IntersectsRay(origin, dir, &entry) || entry > dist {
		return false
	}
	for _, t := range a.triangles {
		time := dist
		if t.RayIntersects(origin, dir, 0, &time) {
			return true
		}
	}
	return false
}

// Trace implements Tracer.
func (CPUTracer) Trace(job *Job) error {
	var accel *triangleAccel
	if job.Accel != nil {
		var ok bool
		if accel, ok = job.Accel.(*triangleAccel); !ok {
			return ErrForeignAccel
		}
	}
	if len(job.Texels) < job.Width*job.Height {
		return fmt.Errorf("lightmap: %d texels for %dx%d", len(job.Texels), job.Width, job.Height)
	}
	for _, v := range job.Vertices {
		x, y := v.Coord[0], v.Coord[1]
		if x < 0 || y < 0 || x >= job.Width || y >= job.Height {
			return fmt.Errorf("lightmap: texel %d,%d outside %dx%d", x, y, job.Width, job.Height)
		}
		job.Texels[y*job.Width+x] = shade(job, accel, v)
	}
	return nil
}

func shade(job *Job, accel *triangleAccel, v Vertex) math.Vec4 {
	c := v.Ambient.XYZ()
	diffuse := v.Diffuse.XYZ()
	origin := v.Position.Add(v.Normal)

	for _, l := range job.Lights {
		color := l.Color.XYZ()
		if l.Type == lighting.Ambient {
			c = c.Add(diffuse.Mul(color))
			continue
		}

		var toLight math.Vec3
		var atten float32 = 1
		target := l.Vector
		if l.Type == lighting.Directional {
			toLight = l.Vector.Neg().Normalize()
			target = v.Position.Add(toLight.Scale(sunDistance))
		} else {
			offset := l.Vector.Sub(v.Position)
			toLight = offset.Normalize()
			atten = l.Attenuation(offset.Length())
		}
		lDotN := math.Clamp(toLight.Dot(v.Normal), 0, 1)
		if atten <= 0 || lDotN <= 0 {
			continue
		}

		var s float32 = 1
		if v.ReceivesShadow {
			s = visibility(job, accel, origin, target)
		}
		c = c.Add(diffuse.Mul(color).Scale(lDotN * atten * s))
	}

	if job.AOStrength > 0 && job.AOLength > 0 && len(job.Samples) > 0 {
		c = c.Scale(1 - job.AOStrength*occlusion(job, accel, v))
	}

	if m := c.MaxComponent(); m > 1 {
		c = c.Scale(1 / m)
	}
	return math.Vec4FromVec3(c, 1)
}

// visibility returns the fraction of shadow rays from origin that reach the
// light, jittered over a sphere of SampleRadius around target.
func visibility(job *Job, accel *triangleAccel, origin, target math.Vec3) float32 {
	if len(job.Samples) == 0 {
		return ray(accel, origin, target)
	}
	var lit float32
	for _, sample := range job.Samples {
		lit += ray(accel, origin, target.Add(sample.Scale(job.SampleRadius)))
	}
	return lit / float32(len(job.Samples))
}

func ray(accel *triangleAccel, origin, target math.Vec3) float32 {
	d := target.Sub(origin)
	dist := d.Length()
	if dist < 1e-6 || !accel.occluded(origin, d.Scale(1/dist), dist) {
		return 1
	}
	return 0
}

// aoBias lifts occlusion rays off the surface they start on.
const aoBias = 1e-3

// occlusion returns the fraction of hemisphere rays around v.Normal that hit
// geometry within AOLength.
func occlusion(job *Job, accel *triangleAccel, v Vertex) float32 {
	origin := v.Position.Add(v.Normal.Scale(aoBias))
	var hits float32
	for _, sample := range job.Samples {
		dir := sample
		if dir.Dot(v.Normal) < 0 {
			dir = dir.Neg()
		}
		if accel.occluded(origin, dir, job.AOLength) {
			hits++
		}
	}
	return math32.Min(hits/float32(len(job.Samples)), 1)
}
