package scene

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/Faultbox/x3d/internal/engine/lighting"
	"github.com/Faultbox/x3d/internal/engine/mesh"
	"github.com/Faultbox/x3d/internal/logger"
	"github.com/Faultbox/x3d/pkg/math"
	"github.com/Faultbox/x3d/pkg/tokens"
)

const (
	fileMagic   = "x3d-scene"
	fileVersion = 1
)

// ErrUnsupportedVersion is returned for scene files from a newer format.
var ErrUnsupportedVersion = errors.New("unsupported scene file version")

// Serialize writes the scene as token text.
func (s *Scene) Serialize(out io.Writer) error {
	w := tokens.NewWriter(out)
	w.Keyword(fileMagic)
	w.Int(fileVersion)
	w.Newline()
	w.Keyword("background")
	w.Floats(s.BackgroundColor.X, s.BackgroundColor.Y, s.BackgroundColor.Z, s.BackgroundColor.W)
	w.Newline()
	lm := s.LightMap
	w.Keyword("lightmap")
	w.Int(lm.Width)
	w.Int(lm.Height)
	w.Int(lm.SampleCount)
	w.Floats(lm.SampleRadius, lm.AOStrength, lm.AOLength)
	w.Newline()
	s.Camera.WriteTokens(w)
	w.Newline()
	s.Root.WriteTokens(w)
	w.Newline()
	return w.Flush()
}

// Deserialize reads a scene written by Serialize. Animator names are resolved
// through codec; with a nil codec, or a name it does not know, the animator
// is dropped with a warning.
func Deserialize(in io.Reader, codec Codec) (*Scene, error) {
	r := tokens.NewReader(in)
	if err := r.Expect(fileMagic); err != nil {
		return nil, fmt.Errorf("read scene header: %w", err)
	}
	version, err := r.Int()
	if err != nil {
		return nil, fmt.Errorf("read scene header: %w", err)
	}
	if version > fileVersion {
		return nil, fmt.Errorf("scene version %d: %w", version, ErrUnsupportedVersion)
	}

	s := New()
	var bg [4]float32
	if err := expectFloats(r, "background", bg[:]); err != nil {
		return nil, err
	}
	s.BackgroundColor = math.Vec4{X: bg[0], Y: bg[1], Z: bg[2], W: bg[3]}

	if err := r.Expect("lightmap"); err != nil {
		return nil, err
	}
	lm := &s.LightMap
	if lm.Width, err = r.Int(); err != nil {
		return nil, err
	}
	if lm.Height, err = r.Int(); err != nil {
		return nil, err
	}
	if lm.SampleCount, err = r.Int(); err != nil {
		return nil, err
	}
	var lmf [3]float32
	if err := r.Floats(lmf[:]); err != nil {
		return nil, err
	}
	lm.SampleRadius, lm.AOStrength, lm.AOLength = lmf[0], lmf[1], lmf[2]

	if err := s.Camera.Read(r); err != nil {
		return nil, fmt.Errorf("read camera: %w", err)
	}
	root, err := ReadNode(r, codec)
	if err != nil {
		return nil, err
	}
	s.Root = root
	return s, nil
}

// Save writes the scene to path.
func (s *Scene) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("save scene: %w", err)
	}
	if err := s.Serialize(f); err != nil {
		f.Close()
		return fmt.Errorf("save scene %s: %w", path, err)
	}
	return f.Close()
}

// Load reads a scene file.
func Load(path string, codec Codec) (*Scene, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("load scene: %w", err)
	}
	defer f.Close()

	s, err := Deserialize(bufio.NewReader(f), codec)
	if err != nil {
		return nil, fmt.Errorf("load scene %s: %w", path, err)
	}
	return s, nil
}

func expectFloats(r *tokens.Reader, keyword string, dst []float32) error {
	if err := r.Expect(keyword); err != nil {
		return err
	}
	if err := r.Floats(dst); err != nil {
		return fmt.Errorf("%s: %w", keyword, err)
	}
	return nil
}

// WriteTokens writes the node and its subtree. Encodables other than meshes
// are not persisted.
func (n *Node) WriteTokens(w *tokens.Writer) {
	w.Keyword("node")
	w.String(n.Name)
	w.Indent(1)

	w.Newline()
	w.Keyword("visible")
	w.Bool(n.Visible)
	w.Keyword("position")
	w.Floats(n.position.X, n.position.Y, n.position.Z)
	w.Keyword("scale")
	w.Floats(n.scale.X, n.scale.Y, n.scale.Z)
	w.Newline()
	w.Keyword("rotation")
	w.Floats(n.rotation[:]...)
	w.Newline()
	w.Keyword("zorder")
	w.Int(n.ZOrder)
	w.Keyword("collidable")
	w.Bool(n.Collidable)
	w.Keyword("dynamic")
	w.Bool(n.Dynamic)
	w.Keyword("tag")
	w.Int(n.TriangleTag)

	w.Newline()
	w.Keyword("light")
	if n.Light == nil {
		w.Keyword("none")
	} else {
		l := n.Light
		w.Keyword(l.Type.String())
		w.Floats(l.Vector.X, l.Vector.Y, l.Vector.Z)
		w.Floats(l.Color.X, l.Color.Y, l.Color.Z, l.Color.W)
		w.Float(l.Range)
	}
	w.Keyword("lightmap")
	w.Bool(n.LightMapEnabled)
	w.Bool(n.CastsShadow)
	w.Bool(n.ReceivesShadow)

	n.writeProperties(w)

	if n.animator != nil {
		w.Newline()
		w.Keyword("animator")
		w.String(n.animator.Name())
	}
	if m := n.Mesh(); m != nil {
		w.Newline()
		m.WriteTokens(w)
	}

	w.Newline()
	w.Keyword("children")
	w.Int(len(n.children))
	for _, c := range n.children {
		w.Newline()
		c.WriteTokens(w)
	}
	w.Indent(-1)
	w.Newline()
	w.Keyword("end")
}

func (n *Node) writeProperties(w *tokens.Writer) {
	p := &n.Properties
	w.Newline()
	w.Keyword("props")
	w.Int(p.Len())
	for _, k := range sortedKeys(p.Strings) {
		w.Newline()
		w.Keyword("string")
		w.String(k)
		w.String(p.Strings[k])
	}
	for _, k := range sortedKeys(p.Ints) {
		w.Newline()
		w.Keyword("int")
		w.String(k)
		w.Int(p.Ints[k])
	}
	for _, k := range sortedKeys(p.Reals) {
		w.Newline()
		w.Keyword("real")
		w.String(k)
		w.Float(p.Reals[k])
	}
	for _, k := range sortedKeys(p.Bools) {
		w.Newline()
		w.Keyword("bool")
		w.String(k)
		w.Bool(p.Bools[k])
	}
}

// ReadNode parses a node written by WriteTokens.
func ReadNode(r *tokens.Reader, codec Codec) (*Node, error) {
	if err := r.Expect("node"); err != nil {
		return nil, err
	}
	name, err := r.String()
	if err != nil {
		return nil, err
	}
	n := NewNode(name)
	fail := func(err error) (*Node, error) {
		return nil, fmt.Errorf("node %q: %w", name, err)
	}

	if err := r.Expect("visible"); err != nil {
		return fail(err)
	}
	if n.Visible, err = r.Bool(); err != nil {
		return fail(err)
	}
	var v [3]float32
	if err := expectFloats(r, "position", v[:]); err != nil {
		return fail(err)
	}
	n.position = math.Vec3{X: v[0], Y: v[1], Z: v[2]}
	if err := expectFloats(r, "scale", v[:]); err != nil {
		return fail(err)
	}
	n.scale = math.Vec3{X: v[0], Y: v[1], Z: v[2]}
	if err := expectFloats(r, "rotation", n.rotation[:]); err != nil {
		return fail(err)
	}

	if err := r.Expect("zorder"); err != nil {
		return fail(err)
	}
	if n.ZOrder, err = r.Int(); err != nil {
		return fail(err)
	}
	if err := r.Expect("collidable"); err != nil {
		return fail(err)
	}
	if n.Collidable, err = r.Bool(); err != nil {
		return fail(err)
	}
	if err := r.Expect("dynamic"); err != nil {
		return fail(err)
	}
	if n.Dynamic, err = r.Bool(); err != nil {
		return fail(err)
	}
	if err := r.Expect("tag"); err != nil {
		return fail(err)
	}
	if n.TriangleTag, err = r.Int(); err != nil {
		return fail(err)
	}

	if err := readLight(r, n); err != nil {
		return fail(err)
	}
	if err := r.Expect("lightmap"); err != nil {
		return fail(err)
	}
	for _, dst := range []*bool{&n.LightMapEnabled, &n.CastsShadow, &n.ReceivesShadow} {
		if *dst, err = r.Bool(); err != nil {
			return fail(err)
		}
	}

	if err := readProperties(r, &n.Properties); err != nil {
		return fail(err)
	}

	next, err := peek(r)
	if err != nil {
		return fail(err)
	}
	if next == "animator" {
		_, _ = r.Next()
		animName, err := r.String()
		if err != nil {
			return fail(err)
		}
		n.setAnimatorByName(animName, codec)
		if next, err = peek(r); err != nil {
			return fail(err)
		}
	}
	if next == "mesh" {
		m, err := mesh.Read(r)
		if err != nil {
			return fail(err)
		}
		n.SetEncodable(m)
	}

	if err := r.Expect("children"); err != nil {
		return fail(err)
	}
	count, err := r.Int()
	if err != nil {
		return fail(err)
	}
	for i := 0; i < count; i++ {
		c, err := ReadNode(r, codec)
		if err != nil {
			return fail(err)
		}
		n.AddChild(c)
	}
	if err := r.Expect("end"); err != nil {
		return fail(err)
	}
	return n, nil
}

// peek looks at the next token of a node body, where end of input is an error.
func peek(r *tokens.Reader) (string, error) {
	tok, err := r.Peek()
	if errors.Is(err, io.EOF) {
		return "", tokens.ErrUnexpectedEOF
	}
	return tok, err
}

func (n *Node) setAnimatorByName(name string, codec Codec) {
	if codec == nil {
		logger.Warn("animator dropped, no codec", zap.String("node", n.Name), zap.String("animator", name))
		return
	}
	a, err := codec.NewAnimator(name)
	if err != nil {
		logger.Warn("animator dropped", zap.String("node", n.Name), zap.Error(err))
		return
	}
	n.SetAnimator(a)
}

func readLight(r *tokens.Reader, n *Node) error {
	if err := r.Expect("light"); err != nil {
		return err
	}
	kind, err := r.Keyword()
	if err != nil {
		return err
	}
	if kind == "none" {
		return nil
	}
	t, ok := lighting.ParseType(kind)
	if !ok {
		return fmt.Errorf("unknown light type %q", kind)
	}
	var f [8]float32
	if err := r.Floats(f[:]); err != nil {
		return fmt.Errorf("light: %w", err)
	}
	n.Light = &lighting.Light{
		Type:   t,
		Vector: math.Vec3{X: f[0], Y: f[1], Z: f[2]},
		Color:  math.Vec4{X: f[3], Y: f[4], Z: f[5], W: f[6]},
		Range:  f[7],
	}
	return nil
}

func readProperties(r *tokens.Reader, p *Properties) error {
	if err := r.Expect("props"); err != nil {
		return err
	}
	count, err := r.Int()
	if err != nil {
		return err
	}
	for i := 0; i < count; i++ {
		kind, err := r.Keyword()
		if err != nil {
			return err
		}
		key, err := r.String()
		if err != nil {
			return err
		}
		switch kind {
		case "string":
			v, err := r.String()
			if err != nil {
				return err
			}
			p.SetString(key, v)
		case "int":
			v, err := r.Int()
			if err != nil {
				return err
			}
			p.SetInt(key, v)
		case "real":
			v, err := r.Float()
			if err != nil {
				return err
			}
			p.SetReal(key, v)
		case "bool":
			v, err := r.Bool()
			if err != nil {
				return err
			}
			p.SetBool(key, v)
		default:
			return fmt.Errorf("property %q: unknown kind %q", key, kind)
		}
	}
	return nil
}
