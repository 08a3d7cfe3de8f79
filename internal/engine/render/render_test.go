package render

import (
	"bytes"
	"errors"
	"testing"

	"github.com/Faultbox/x3d/internal/engine/lighting"
	"github.com/Faultbox/x3d/pkg/math"
	"github.com/Faultbox/x3d/pkg/tokens"
)

func TestVertexPackRoundTrip(t *testing.T) {
	v := NewVertex(1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14)
	p := v.Pack()
	for i := range p {
		if p[i] != float32(i+1) {
			t.Fatalf("packed[%d] = %v", i, p[i])
		}
	}
	if UnpackVertex(p) != v {
		t.Error("unpack did not reproduce vertex")
	}
}

func TestBasicEncodableEncode(t *testing.T) {
	e := NewBasicEncodable()
	e.PushRect(Rect{W: 1, H: 1}, Rect{X: 10, Y: 20, W: 30, H: 40}, math.White, false)
	if e.VertexCount() != 6 {
		t.Fatalf("vertex count = %d, want 6", e.VertexCount())
	}

	rec := &Recorder{}
	ctx := &Context{
		Encoder:    rec,
		Projection: math.Ortho(0, 100, 100, 0, -1, 1),
		View:       math.Identity(),
		Model:      math.Translate(1, 2, 3),
		Lights:     []lighting.Light{{Range: 5}},
	}
	if err := e.Encode(ctx); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if len(rec.Batches) != 1 {
		t.Fatalf("batches = %d", len(rec.Batches))
	}
	b := rec.Batches[0]
	if b.Model != ctx.Model || b.Projection != ctx.Projection || len(b.Lights) != 1 {
		t.Errorf("batch did not carry context state: %+v", b)
	}
	if b.Vertices[2].Position != (math.Vec3{X: 40, Y: 60}) {
		t.Errorf("bottom-right corner = %v", b.Vertices[2].Position)
	}

	// The recorder keeps copies.
	e.SetVertex(0, Vertex{})
	if rec.Batches[0].Vertices[0].Position != (math.Vec3{X: 10, Y: 20}) {
		t.Error("recorder shares vertex storage with the encodable")
	}
}

func TestBasicEncodableEmptyDrawsNothing(t *testing.T) {
	rec := &Recorder{}
	if err := NewBasicEncodable().Encode(&Context{Encoder: rec}); err != nil {
		t.Fatal(err)
	}
	if len(rec.Batches) != 0 {
		t.Errorf("expected no batches, got %d", len(rec.Batches))
	}
}

func TestContextWithoutEncoder(t *testing.T) {
	e := NewBasicEncodable()
	e.PushRect(Rect{W: 1, H: 1}, Rect{W: 1, H: 1}, math.White, false)
	if err := e.Encode(&Context{}); !errors.Is(err, ErrNoEncoder) {
		t.Errorf("expected ErrNoEncoder, got %v", err)
	}
}

func TestPushRectTextureSizeAndFlip(t *testing.T) {
	e := NewBasicEncodable()
	e.TextureSize = math.Vec2{X: 64, Y: 32}
	e.PushRect(Rect{X: 16, Y: 8, W: 16, H: 8}, Rect{W: 1, H: 1}, math.White, true)
	tl := e.VertexAt(0)
	if tl.TexCoord != (math.Vec2{X: 0.5, Y: 0.25}) {
		t.Errorf("flipped top-left uv = %v", tl.TexCoord)
	}
}

func TestPushText(t *testing.T) {
	e := NewBasicEncodable()
	layout := TextLayout{CellWidth: 8, CellHeight: 8, Columns: 16}
	e.PushText("ab\nc", layout, math.Vec2{}, math.White)
	if e.VertexCount() != 18 {
		t.Fatalf("vertex count = %d, want 18", e.VertexCount())
	}
	// "c" starts the second line.
	if p := e.VertexAt(12).Position; p != (math.Vec3{X: 0, Y: 8}) {
		t.Errorf("third glyph origin = %v", p)
	}
}

func TestKind(t *testing.T) {
	e := NewBasicEncodable()
	if e.Kind() != KindBasic {
		t.Errorf("kind = %v", e.Kind())
	}
	e.Screen = true
	if e.Kind() != KindSprite {
		t.Errorf("screen kind = %v", e.Kind())
	}
}

func TestMaterialTokens(t *testing.T) {
	m := DefaultMaterial()
	m.Texture = "stone wall.png"
	m.Texture2 = "level.png"
	m.LightingEnabled = true
	m.BlendEnabled = true
	m.AdditiveBlend = false
	m.WarpEnabled = true
	m.WarpAmplitudes = math.Vec3{X: 1, Y: 0.5, Z: 0.25}
	m.WarpFrequency = 2
	m.WarpSpeed = 3
	m.DiffuseColor = math.Vec4{X: 0.5, Y: 0.25, Z: 1, W: 1}

	var buf bytes.Buffer
	w := tokens.NewWriter(&buf)
	m.WriteTokens(w)
	if err := w.Flush(); err != nil {
		t.Fatal(err)
	}

	got, err := ReadMaterial(tokens.NewReader(&buf))
	if err != nil {
		t.Fatalf("ReadMaterial: %v", err)
	}
	if got != m {
		t.Errorf("material mismatch:\n got %+v\nwant %+v", got, m)
	}
}

func TestReadMaterialTruncated(t *testing.T) {
	_, err := ReadMaterial(tokens.NewReader(bytes.NewBufferString("material ambient 0 0")))
	if !errors.Is(err, tokens.ErrUnexpectedEOF) {
		t.Errorf("expected ErrUnexpectedEOF, got %v", err)
	}
}
