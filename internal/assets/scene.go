package assets

import (
	"github.com/Faultbox/x3d/internal/engine/scene"
)

// SceneLoader reads serialized scenes.
type SceneLoader struct {
	Codec scene.Codec
}

// Load implements Loader. The cached scene is shared; callers that modify it
// should Unload it first.
func (l SceneLoader) Load(m *Manager, name string) (any, error) {
	f, err := m.FS().Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return scene.Deserialize(f, l.Codec)
}

// LoadScene loads a scene asset.
func (m *Manager) LoadScene(name string) (*scene.Scene, error) {
	v, err := m.Load(name)
	if err != nil {
		return nil, err
	}
	sc, ok := v.(*scene.Scene)
	if !ok {
		return nil, errNotA(name, v, "scene")
	}
	return sc, nil
}
