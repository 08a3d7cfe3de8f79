package camera

import (
	"github.com/Faultbox/x3d/pkg/tokens"
)

// WriteTokens writes the camera placement and lens.
func (c *Camera) WriteTokens(w *tokens.Writer) {
	w.Keyword("camera")
	w.Indent(1)
	w.Newline()
	w.Keyword("eye")
	w.Floats(c.Eye.X, c.Eye.Y, c.Eye.Z)
	w.Newline()
	w.Keyword("target")
	w.Floats(c.Target.X, c.Target.Y, c.Target.Z)
	w.Newline()
	w.Keyword("up")
	w.Floats(c.Up.X, c.Up.Y, c.Up.Z)
	w.Newline()
	w.Keyword("lens")
	w.Floats(c.FieldOfView, c.Near, c.Far)
	w.Indent(-1)
	w.Newline()
	w.Keyword("end")
}

// Read parses a camera written by WriteTokens into c.
func (c *Camera) Read(r *tokens.Reader) error {
	if err := r.Expect("camera"); err != nil {
		return err
	}
	for _, dst := range []struct {
		key string
		x   *float32
		y   *float32
		z   *float32
	}{
		{"eye", &c.Eye.X, &c.Eye.Y, &c.Eye.Z},
		{"target", &c.Target.X, &c.Target.Y, &c.Target.Z},
		{"up", &c.Up.X, &c.Up.Y, &c.Up.Z},
		{"lens", &c.FieldOfView, &c.Near, &c.Far},
	} {
		if err := r.Expect(dst.key); err != nil {
			return err
		}
		var v [3]float32
		if err := r.Floats(v[:]); err != nil {
			return err
		}
		*dst.x, *dst.y, *dst.z = v[0], v[1], v[2]
	}
	return r.Expect("end")
}
