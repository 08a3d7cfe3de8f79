package render

import "slices"

// Recorder is an Encoder that keeps a copy of every batch it receives.
type Recorder struct {
	Batches []Batch
}

// Draw implements Encoder.
func (r *Recorder) Draw(b *Batch) error {
	c := *b
	c.Vertices = slices.Clone(b.Vertices)
	c.Lights = slices.Clone(b.Lights)
	r.Batches = append(r.Batches, c)
	return nil
}

// Reset discards recorded batches.
func (r *Recorder) Reset() {
	r.Batches = r.Batches[:0]
}

// VertexCount returns the total number of vertices recorded.
func (r *Recorder) VertexCount() int {
	n := 0
	for _, b := range r.Batches {
		n += len(b.Vertices)
	}
	return n
}
