// Package assets turns configured model entries into scene meshes.
package assets

import (
	"fmt"
	"image"
	"path/filepath"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/Faultbox/hello3d/internal/config"
	"github.com/Faultbox/hello3d/internal/engine/gpu"
	"github.com/Faultbox/hello3d/internal/engine/model"
	"github.com/Faultbox/hello3d/internal/engine/scene"
	"github.com/Faultbox/hello3d/internal/engine/texture"
	"github.com/Faultbox/hello3d/internal/logger"
)

// Manager loads models and their textures onto a device.
type Manager struct {
	dev        gpu.Device
	program    scene.Program
	drawPoints bool
	images     *Cache
}

// NewManager creates a manager whose meshes draw with program.
func NewManager(dev gpu.Device, program scene.Program, drawPoints bool) *Manager {
	return &Manager{
		dev:        dev,
		program:    program,
		drawPoints: drawPoints,
		images:     NewCache(),
	}
}

// Images returns the decoded texture cache.
func (m *Manager) Images() *Cache {
	return m.images
}

// LoadModel loads one entry. The configured texture wins over the material's
// diffuse map; a texture that fails to load is logged and the mesh drawn
// untextured.
func (m *Manager) LoadModel(mc config.ModelConfig) (*scene.Mesh, error) {
	h, err := model.Load(m.dev, mc.Path, model.LoadOptions{
		Build: model.BuildOptions{Color: mc.VertexColor},
	})
	if err != nil {
		return nil, err
	}

	cfg := scene.DefaultConfig()
	cfg.Name = strings.TrimSuffix(filepath.Base(mc.Path), filepath.Ext(mc.Path))
	cfg.Position = mc.Position
	cfg.Scale = mc.Scale
	cfg.Axis = mc.Axis
	cfg.Angle = scene.WrapAngle(mc.Angle)
	cfg.Color = mc.Color
	cfg.Material = scene.MaterialFrom(h.Material)
	cfg.DrawPoints = m.drawPoints

	texPath := mc.Texture
	if texPath == "" && h.Material != nil {
		texPath = h.Material.TexturePath
	}
	if texPath != "" {
		if !h.Layout.TexCoord {
			logger.Warn("model has no texture coordinates, ignoring texture",
				zap.String("model", mc.Path),
				zap.String("texture", texPath),
			)
		} else if tex, err := m.Texture(texPath); err != nil {
			logger.Warn("texture unavailable", zap.String("model", mc.Path), zap.Error(err))
		} else {
			cfg.Texture = tex
		}
	}

	return scene.NewMesh(m.dev, h, m.program, cfg), nil
}

// LoadScene loads every entry into sc in order, skipping the ones that fail.
// It returns how many were added.
func (m *Manager) LoadScene(models []config.ModelConfig, sc *scene.Controller) int {
	n := 0
	for _, mc := range models {
		mesh, err := m.LoadModel(mc)
		if err != nil {
			logger.Error("failed to load model",
				zap.String("path", mc.Path),
				zap.String("kind", model.KindOf(err).String()),
				zap.Error(err),
			)
			continue
		}
		sc.Add(mesh)
		n++
	}
	return n
}

// Texture uploads the image at path, decoding it once per path. Each call
// returns a new texture owned by the caller.
func (m *Manager) Texture(path string) (uint32, error) {
	img, ok := m.images.Get(path)
	if !ok {
		var err error
		img, err = texture.Decode(path)
		if err != nil {
			return 0, fmt.Errorf("loading texture %s: %w", path, err)
		}
		m.images.Set(path, img)
	}
	return texture.Upload(m.dev, img), nil
}

// Close drops cached images.
func (m *Manager) Close() {
	m.images.Clear()
}

// Cache is an in-memory cache of decoded images.
type Cache struct {
	data map[string]*image.RGBA
	mu   sync.RWMutex

	// Stats
	hits   int
	misses int
}

// NewCache creates a new cache.
func NewCache() *Cache {
	return &Cache{
		data: make(map[string]*image.RGBA),
	}
}

// Get retrieves an item from cache.
func (c *Cache) Get(key string) (*image.RGBA, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	img, ok := c.data[key]
	if ok {
		c.hits++
	} else {
		c.misses++
	}
	return img, ok
}

// Set stores an item in cache.
func (c *Cache) Set(key string, img *image.RGBA) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = img
}

// Stats returns hit and miss counts since the last Clear.
func (c *Cache) Stats() (hits, misses int) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.hits, c.misses
}

// Len returns the number of cached images.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.data)
}

// Clear clears the cache.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data = make(map[string]*image.RGBA)
	c.hits = 0
	c.misses = 0
}
