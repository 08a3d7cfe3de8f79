package camera

// Controls maps pointer and keyboard input onto camera motion.
type Controls struct {
	DragSensitivity float32 // Radians per pixel
	ZoomSensitivity float32 // Fraction of the distance per wheel step
	PanSpeed        float32 // Units per second

	MinDistance float32
	MaxDistance float32
}

// DefaultControls returns the viewer's control settings.
func DefaultControls() Controls {
	return Controls{
		DragSensitivity: 0.005,
		ZoomSensitivity: 0.1,
		PanSpeed:        200,
		MinDistance:     1,
		MaxDistance:     5000,
	}
}

// HandleDrag orbits the camera by a mouse drag delta in pixels.
func (k Controls) HandleDrag(c *Camera, deltaX, deltaY float32) {
	c.Rotate(-deltaX*k.DragSensitivity, -deltaY*k.DragSensitivity)
}

// HandleZoom zooms on a wheel delta. Positive delta moves closer.
// The resulting distance is clamped to [MinDistance, MaxDistance].
func (k Controls) HandleZoom(c *Camera, delta float32) {
	d := c.Distance()
	next := d * (1 - delta*k.ZoomSensitivity)
	if next < k.MinDistance {
		next = k.MinDistance
	}
	if k.MaxDistance > 0 && next > k.MaxDistance {
		next = k.MaxDistance
	}
	c.Zoom(next - d)
}

// HandleMovement pans along the ground. forward and right are in [-1, 1].
func (k Controls) HandleMovement(c *Camera, forward, right, dt float32) {
	step := k.PanSpeed * dt
	c.Move(right*step, forward*step)
}
