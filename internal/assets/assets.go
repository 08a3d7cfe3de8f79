// Package assets loads and caches scene assets from a base directory.
package assets

import (
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"

	"go.uber.org/zap"
	_ "golang.org/x/image/bmp"

	"github.com/Faultbox/x3d/internal/engine/debug"
	"github.com/Faultbox/x3d/internal/engine/scene"
	"github.com/Faultbox/x3d/internal/engine/texture"
	"github.com/Faultbox/x3d/internal/logger"
)

// ErrNoLoader is returned for files whose extension has no registered loader.
var ErrNoLoader = errors.New("assets: no loader for extension")

// Loader decodes one asset type. Paths are slash separated and relative to
// the manager's root.
type Loader interface {
	Load(m *Manager, name string) (any, error)
}

// LoaderFunc adapts a function to Loader.
type LoaderFunc func(m *Manager, name string) (any, error)

// Load implements Loader.
func (f LoaderFunc) Load(m *Manager, name string) (any, error) {
	return f(m, name)
}

// Manager resolves asset names against a root directory and caches what it
// loads. It is safe for concurrent use.
type Manager struct {
	root    string
	fsys    fs.FS
	loaders map[string]Loader
	cache   *Cache[any]
	mu      sync.RWMutex
}

// NewManager creates a manager rooted at dir with the OBJ, glTF, image and
// scene loaders registered. codec resolves animators in scene files and may
// be nil.
func NewManager(dir string, codec scene.Codec) *Manager {
	m := &Manager{
		root:    dir,
		fsys:    os.DirFS(dir),
		loaders: make(map[string]Loader),
		cache:   NewCache[any](),
	}
	m.Register("obj", OBJLoader{})
	m.Register("gltf", GLTFLoader{})
	m.Register("glb", GLTFLoader{})
	m.Register("png", LoaderFunc(loadImage))
	m.Register("jpg", LoaderFunc(loadImage))
	m.Register("jpeg", LoaderFunc(loadImage))
	m.Register("bmp", LoaderFunc(loadImage))
	m.Register("tga", LoaderFunc(loadTGA))
	m.Register("x3d", SceneLoader{Codec: codec})
	return m
}

// Root returns the directory assets are loaded from.
func (m *Manager) Root() string {
	return m.root
}

// FS returns the root as a file system.
func (m *Manager) FS() fs.FS {
	return m.fsys
}

// Path returns the OS path of an asset name.
func (m *Manager) Path(name string) string {
	return filepath.Join(m.root, filepath.FromSlash(name))
}

// Register sets the loader for a file extension, without the dot.
func (m *Manager) Register(ext string, l Loader) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loaders[strings.ToLower(ext)] = l
}

func (m *Manager) loader(name string) (Loader, error) {
	ext := strings.ToLower(strings.TrimPrefix(path.Ext(name), "."))
	m.mu.RLock()
	defer m.mu.RUnlock()
	l, ok := m.loaders[ext]
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrNoLoader, ext)
	}
	return l, nil
}

// Load returns the asset called name, loading it on first use.
func (m *Manager) Load(name string) (any, error) {
	if v, ok := m.cache.Get(name); ok {
		return v, nil
	}
	l, err := m.loader(name)
	if err != nil {
		return nil, err
	}
	logger.Info("loading asset", zap.String("name", name))
	v, err := l.Load(m, name)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", name, err)
	}
	m.cache.Set(name, v)
	return v, nil
}

// LoadNode loads a node asset and returns a private copy of it.
func (m *Manager) LoadNode(name string) (*scene.Node, error) {
	v, err := m.Load(name)
	if err != nil {
		return nil, err
	}
	n, ok := v.(*scene.Node)
	if !ok {
		return nil, errNotA(name, v, "node")
	}
	return n.Clone(), nil
}

// LoadImage loads an image asset.
func (m *Manager) LoadImage(name string) (image.Image, error) {
	v, err := m.Load(name)
	if err != nil {
		return nil, err
	}
	img, ok := v.(image.Image)
	if !ok {
		return nil, errNotA(name, v, "image")
	}
	return img, nil
}

// SaveImage writes img as a PNG asset and drops any cached copy.
func (m *Manager) SaveImage(name string, img image.Image) error {
	if err := debug.SavePNG(m.Path(name), img); err != nil {
		return fmt.Errorf("saving %s: %w", name, err)
	}
	m.Unload(name)
	return nil
}

// Unload drops one cached asset.
func (m *Manager) Unload(name string) {
	m.cache.Delete(name)
}

// Clear drops every cached asset.
func (m *Manager) Clear() {
	m.cache.Clear()
}

// Stats returns cache hits and misses.
func (m *Manager) Stats() (hits, misses int) {
	return m.cache.Stats()
}

func errNotA(name string, v any, kind string) error {
	return fmt.Errorf("asset %s holds %T, want %s", name, v, kind)
}

func loadImage(m *Manager, name string) (any, error) {
	f, err := m.fsys.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	return img, err
}

func loadTGA(m *Manager, name string) (any, error) {
	data, err := fs.ReadFile(m.fsys, name)
	if err != nil {
		return nil, err
	}
	img, err := texture.DecodeTGA(data)
	if err != nil {
		return nil, err
	}
	return img, nil
}

// Cache is a simple in-memory cache for loaded assets.
type Cache[V any] struct {
	data map[string]V
	mu   sync.RWMutex

	// Stats
	hits   int
	misses int
}

// NewCache creates a new cache.
func NewCache[V any]() *Cache[V] {
	return &Cache[V]{
		data: make(map[string]V),
	}
}

// Get retrieves an item from cache.
func (c *Cache[V]) Get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	v, ok := c.data[key]
	if ok {
		c.hits++
	} else {
		c.misses++
	}
	return v, ok
}

// Set stores an item in cache.
func (c *Cache[V]) Set(key string, v V) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = v
}

// Delete removes an item.
func (c *Cache[V]) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
}

// Len returns the number of cached items.
func (c *Cache[V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.data)
}

// Clear clears the cache.
func (c *Cache[V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data = make(map[string]V)
	c.hits = 0
	c.misses = 0
}

// Stats returns cache statistics.
func (c *Cache[V]) Stats() (hits, misses int) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.hits, c.misses
}
