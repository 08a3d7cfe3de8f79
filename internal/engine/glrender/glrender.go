// Package glrender draws render batches with OpenGL 4.1.
package glrender

import (
	"fmt"
	"image"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/x3d/internal/engine/glrender/shaders"
	"github.com/Faultbox/x3d/internal/engine/lighting"
	"github.com/Faultbox/x3d/internal/engine/render"
	"github.com/Faultbox/x3d/internal/engine/texture"
	"github.com/Faultbox/x3d/internal/logger"
	"github.com/Faultbox/x3d/pkg/math"
)

// textureKey identifies one upload; a texture used with two samplers is
// uploaded twice.
type textureKey struct {
	name    string
	sampler render.Sampler
}

// TextureSource resolves material texture names to images.
type TextureSource interface {
	LoadImage(name string) (image.Image, error)
}

// Config holds renderer configuration.
type Config struct {
	Width  int
	Height int
}

// Stats counts the work submitted since Begin.
type Stats struct {
	Batches  int
	Vertices int
}

// Renderer is a render.Encoder that draws each batch immediately through a
// single streaming vertex buffer.
type Renderer struct {
	config Config
	source TextureSource

	program  uint32
	u        uniforms
	vao      uint32
	vbo      uint32
	capacity int // Vertices the buffer can hold
	scratch  []float32

	textures map[textureKey]uint32
	failed   map[string]bool
	white    uint32

	lights *lighting.Buffer
	stats  Stats
}

var _ render.Encoder = (*Renderer)(nil)

// New creates a renderer. It must be called after the OpenGL context is
// current. source may be nil, in which case only built-in textures resolve.
func New(cfg Config, source TextureSource) (*Renderer, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}
	logger.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
	)

	r := &Renderer{
		config:   cfg,
		source:   source,
		textures: make(map[textureKey]uint32),
		failed:   make(map[string]bool),
		lights:   lighting.NewBuffer(),
	}

	var err error
	r.program, err = compileProgram(shaders.BatchVertexShader, shaders.BatchFragmentShader)
	if err != nil {
		return nil, fmt.Errorf("failed to create shader program: %w", err)
	}
	r.u = lookupUniforms(r.program)

	gl.GenVertexArrays(1, &r.vao)
	gl.BindVertexArray(r.vao)
	gl.GenBuffers(1, &r.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.vbo)
	for _, a := range vertexLayout {
		gl.VertexAttribPointer(a.location, a.size, gl.FLOAT, false, vertexStride, gl.PtrOffset(a.offset*4))
		gl.EnableVertexAttribArray(a.location)
	}
	gl.BindVertexArray(0)

	r.white = upload(texture.White(), render.NearestRepeat)

	gl.FrontFace(gl.CCW)
	gl.DepthFunc(gl.LEQUAL)
	gl.Viewport(0, 0, int32(cfg.Width), int32(cfg.Height))

	logger.Debug("renderer created", zap.Uint32("program", r.program))
	return r, nil
}

// Close releases GPU resources.
func (r *Renderer) Close() {
	logger.Debug("closing renderer")
	r.ClearTextures()
	if r.white != 0 {
		gl.DeleteTextures(1, &r.white)
	}
	if r.vbo != 0 {
		gl.DeleteBuffers(1, &r.vbo)
	}
	if r.vao != 0 {
		gl.DeleteVertexArrays(1, &r.vao)
	}
	if r.program != 0 {
		gl.DeleteProgram(r.program)
	}
}

// Resize sets the viewport to the new framebuffer size.
func (r *Renderer) Resize(width, height int) {
	r.config.Width = width
	r.config.Height = height
	gl.Viewport(0, 0, int32(width), int32(height))
	logger.Debug("renderer resized", zap.Int("width", width), zap.Int("height", height))
}

// Begin clears the framebuffer to background and resets Stats.
func (r *Renderer) Begin(background math.Vec4) {
	r.stats = Stats{}
	gl.DepthMask(true)
	gl.ClearColor(background.X, background.Y, background.Z, background.W)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

// Stats returns the work submitted since Begin.
func (r *Renderer) Stats() Stats {
	return r.stats
}

// Draw implements render.Encoder.
func (r *Renderer) Draw(b *render.Batch) error {
	if len(b.Vertices) == 0 {
		return nil
	}
	m := b.Material

	gl.UseProgram(r.program)
	r.applyState(m)
	r.setMatrices(b)
	r.setMaterial(m, b.Time)
	r.setLights(b.Lights)

	gl.ActiveTexture(gl.TEXTURE0)
	r.bindTexture(m.Texture, m.TextureSampler)
	gl.Uniform1i(r.u.texture, 0)
	gl.ActiveTexture(gl.TEXTURE1)
	useLightMap := r.bindTexture(m.Texture2, m.Texture2Sampler)
	gl.Uniform1i(r.u.texture2, 1)
	gl.Uniform1i(r.u.useTexture2, boolInt(useLightMap))

	r.stream(b.Vertices)
	gl.BindVertexArray(r.vao)
	gl.DrawArrays(primitiveMode(b.Primitive), 0, int32(len(b.Vertices)))
	gl.BindVertexArray(0)

	r.stats.Batches++
	r.stats.Vertices += len(b.Vertices)
	return nil
}

func (r *Renderer) applyState(m render.Material) {
	if m.DepthTestEnabled {
		gl.Enable(gl.DEPTH_TEST)
	} else {
		gl.Disable(gl.DEPTH_TEST)
	}
	gl.DepthMask(m.DepthWriteEnabled)

	if on, src, dst := blendState(m); on {
		gl.Enable(gl.BLEND)
		gl.BlendFunc(src, dst)
	} else {
		gl.Disable(gl.BLEND)
	}

	if on, face := cullState(m); on {
		gl.Enable(gl.CULL_FACE)
		gl.CullFace(face)
	} else {
		gl.Disable(gl.CULL_FACE)
	}
}

func (r *Renderer) setMatrices(b *render.Batch) {
	projection, view, model := b.Projection, b.View, b.Model
	normal := normalMatrix(model)
	gl.UniformMatrix4fv(r.u.projection, 1, false, projection.Ptr())
	gl.UniformMatrix4fv(r.u.view, 1, false, view.Ptr())
	gl.UniformMatrix4fv(r.u.model, 1, false, model.Ptr())
	gl.UniformMatrix3fv(r.u.normalMatrix, 1, false, &normal[0])
}

func (r *Renderer) setMaterial(m render.Material, time float32) {
	gl.Uniform4f(r.u.ambient, m.AmbientColor.X, m.AmbientColor.Y, m.AmbientColor.Z, m.AmbientColor.W)
	gl.Uniform4f(r.u.diffuse, m.DiffuseColor.X, m.DiffuseColor.Y, m.DiffuseColor.Z, m.DiffuseColor.W)
	gl.Uniform4f(r.u.color, m.Color.X, m.Color.Y, m.Color.Z, m.Color.W)
	gl.Uniform1i(r.u.lighting, boolInt(m.LightingEnabled))
	gl.Uniform1i(r.u.vertexColor, boolInt(m.VertexColorEnabled))

	gl.Uniform1f(r.u.time, time)
	gl.Uniform1i(r.u.warp, boolInt(m.WarpEnabled))
	gl.Uniform3f(r.u.warpAmplitudes, m.WarpAmplitudes.X, m.WarpAmplitudes.Y, m.WarpAmplitudes.Z)
	gl.Uniform1f(r.u.warpFrequency, m.WarpFrequency)
	gl.Uniform1f(r.u.warpSpeed, m.WarpSpeed)
}

func (r *Renderer) setLights(lights []lighting.Light) {
	r.lights.Set(lights)
	gl.Uniform1i(r.u.lightCount, int32(r.lights.Count()))
	gl.Uniform3fv(r.u.lightVector, lighting.MaxLights, &r.lights.Vectors()[0])
	gl.Uniform4fv(r.u.lightColor, lighting.MaxLights, &r.lights.Colors()[0])
	gl.Uniform1fv(r.u.lightRange, lighting.MaxLights, &r.lights.Ranges()[0])
	gl.Uniform1iv(r.u.lightType, lighting.MaxLights, &r.lights.Types()[0])
}

// stream uploads vertices, growing the buffer when they do not fit.
func (r *Renderer) stream(vertices []render.Vertex) {
	r.scratch = packVertices(r.scratch[:0], vertices)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.vbo)
	size := len(r.scratch) * 4
	if len(vertices) > r.capacity {
		r.capacity = len(vertices) * 2
		gl.BufferData(gl.ARRAY_BUFFER, r.capacity*vertexStride, nil, gl.STREAM_DRAW)
	}
	gl.BufferSubData(gl.ARRAY_BUFFER, 0, size, unsafe.Pointer(&r.scratch[0]))
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
}

// bindTexture binds the texture called name to the active unit. An empty or
// unresolvable name binds white and returns false.
func (r *Renderer) bindTexture(name string, sampler render.Sampler) bool {
	if name == "" {
		gl.BindTexture(gl.TEXTURE_2D, r.white)
		return false
	}
	key := textureKey{name, sampler}
	id, ok := r.textures[key]
	if !ok {
		id = r.loadTexture(key)
	}
	if id == 0 {
		gl.BindTexture(gl.TEXTURE_2D, r.white)
		return false
	}
	gl.BindTexture(gl.TEXTURE_2D, id)
	return true
}

func (r *Renderer) loadTexture(key textureKey) uint32 {
	name := key.name
	if r.failed[name] {
		return 0
	}
	img, ok := texture.Builtin(name)
	if !ok {
		if r.source == nil {
			r.failed[name] = true
			return 0
		}
		src, err := r.source.LoadImage(name)
		if err != nil {
			logger.Warn("texture unavailable", zap.String("name", name), zap.Error(err))
			r.failed[name] = true
			return 0
		}
		img = texture.ToRGBA(src)
	}
	if img.Rect.Empty() {
		logger.Warn("texture is empty", zap.String("name", name))
		r.failed[name] = true
		return 0
	}
	id := upload(img, key.sampler)
	r.textures[key] = id
	logger.Debug("texture uploaded",
		zap.String("name", name),
		zap.Int("width", img.Rect.Dx()),
		zap.Int("height", img.Rect.Dy()),
	)
	return id
}

// InvalidateTexture drops the uploaded copies of name so the next draw loads
// it again.
func (r *Renderer) InvalidateTexture(name string) {
	delete(r.failed, name)
	for key, id := range r.textures {
		if key.name == name {
			gl.DeleteTextures(1, &id)
			delete(r.textures, key)
		}
	}
}

// ClearTextures releases every uploaded texture.
func (r *Renderer) ClearTextures() {
	for key, id := range r.textures {
		gl.DeleteTextures(1, &id)
		delete(r.textures, key)
	}
	clear(r.failed)
}

// ReadPixels returns the back buffer as bottom-up RGBA rows.
func (r *Renderer) ReadPixels() ([]byte, int, int) {
	w, h := r.config.Width, r.config.Height
	pixels := make([]byte, w*h*4)
	if len(pixels) == 0 {
		return pixels, w, h
	}
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(0, 0, int32(w), int32(h), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pixels))
	return pixels, w, h
}

func upload(img *image.RGBA, sampler render.Sampler) uint32 {
	var id uint32
	gl.GenTextures(1, &id)
	gl.BindTexture(gl.TEXTURE_2D, id)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8,
		int32(img.Rect.Dx()), int32(img.Rect.Dy()),
		0, gl.RGBA, gl.UNSIGNED_BYTE, unsafe.Pointer(&img.Pix[0]))

	minFilter, magFilter, wrap := samplerState(sampler)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, minFilter)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, magFilter)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, wrap)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, wrap)
	if minFilter == gl.LINEAR_MIPMAP_LINEAR {
		gl.GenerateMipmap(gl.TEXTURE_2D)
	}
	return id
}

func boolInt(b bool) int32 {
	if b {
		return 1
	}
	return 0
}
