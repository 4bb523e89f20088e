// Package hosttest provides in-memory collaborators for testing plugins
// without a GL context.
package hosttest

import (
	"voxel-overlays/internal/geom"
	"voxel-overlays/internal/host"
	"voxel-overlays/internal/mesh"

	"github.com/go-gl/mathgl/mgl32"
)

// Mesh records the layout it was built from.
type Mesh struct {
	Layout   mesh.Layout
	Released bool
	Draws    int
}

func (m *Mesh) Draw()        { m.Draws++ }
func (m *Mesh) Count() int32 { return int32(m.Layout.ElementCount()) }

// Mesher is a host.MeshGenerator that keeps meshes in memory.
type Mesher struct {
	Uploads []*Mesh
	live    map[*Mesh]bool
	// Fail, when set, is returned from the next Upload.
	Fail error
}

func NewMesher() *Mesher {
	return &Mesher{live: make(map[*Mesh]bool)}
}

func (m *Mesher) Name() string { return host.MesherName }
func (m *Mesher) Enable()      {}
func (m *Mesher) Disable()     {}
func (m *Mesher) Close() error { return nil }

func (m *Mesher) Upload(layout mesh.Layout) (mesh.Drawable, error) {
	if err := m.Fail; err != nil {
		m.Fail = nil
		return nil, err
	}
	if err := layout.Validate(); err != nil {
		return nil, err
	}
	fm := &Mesh{Layout: layout}
	m.Uploads = append(m.Uploads, fm)
	m.live[fm] = true
	return fm, nil
}

func (m *Mesher) Release(d mesh.Drawable) {
	fm, ok := d.(*Mesh)
	if !ok || !m.live[fm] {
		return
	}
	fm.Released = true
	delete(m.live, fm)
}

// Live returns the number of meshes not yet released.
func (m *Mesher) Live() int {
	return len(m.live)
}

// ShaderState serves fixed matrices.
type ShaderState struct {
	Projection mgl32.Mat4
	View       mgl32.Mat4
}

func NewShaderState() *ShaderState {
	return &ShaderState{Projection: mgl32.Ident4(), View: mgl32.Ident4()}
}

func (s *ShaderState) Name() string                 { return host.ShaderName }
func (s *ShaderState) Enable()                      {}
func (s *ShaderState) Disable()                     {}
func (s *ShaderState) Close() error                 { return nil }
func (s *ShaderState) ProjectionMatrix() mgl32.Mat4 { return s.Projection }
func (s *ShaderState) ViewMatrix() mgl32.Mat4       { return s.View }

type rebuildListener struct {
	id host.ListenerID
	fn host.Handler
}

// Atlas is a host.TextureAtlas over a fixed tile table.
type Atlas struct {
	Tiles     map[string]geom.TileUV
	Bound     int
	listeners []rebuildListener
	nextID    host.ListenerID
}

func NewAtlas(tiles map[string]geom.TileUV) *Atlas {
	if tiles == nil {
		tiles = make(map[string]geom.TileUV)
	}
	return &Atlas{Tiles: tiles}
}

func (a *Atlas) Name() string { return host.StitchName }
func (a *Atlas) Enable()      {}
func (a *Atlas) Disable()     {}
func (a *Atlas) Close() error { return nil }

func (a *Atlas) TextureUV(name string) (geom.TileUV, bool) {
	uv, ok := a.Tiles[name]
	return uv, ok
}

func (a *Atlas) OnRebuild(fn host.Handler) host.ListenerID {
	a.nextID++
	a.listeners = append(a.listeners, rebuildListener{id: a.nextID, fn: fn})
	return a.nextID
}

func (a *Atlas) RemoveRebuildListener(id host.ListenerID) bool {
	for i, l := range a.listeners {
		if l.id == id {
			a.listeners = append(a.listeners[:i:i], a.listeners[i+1:]...)
			return true
		}
	}
	return false
}

// Listeners returns the number of rebuild listeners.
func (a *Atlas) Listeners() int {
	return len(a.listeners)
}

// Rebuild runs every rebuild listener, as a stitch would.
func (a *Atlas) Rebuild() error {
	for _, l := range append([]rebuildListener(nil), a.listeners...) {
		if err := l.fn(); err != nil {
			return err
		}
	}
	return nil
}

func (a *Atlas) Bind(unit uint32) { a.Bound++ }

// NewGame returns a game with the given collaborators already registered.
// Nil collaborators are left out.
func NewGame(m *Mesher, s *ShaderState, a *Atlas) *host.Game {
	g := host.NewGame(800, 600)
	if m != nil {
		g.Plugins.Register(m)
	}
	if s != nil {
		g.Plugins.Register(s)
	}
	if a != nil {
		g.Plugins.Register(a)
	}
	return g
}
