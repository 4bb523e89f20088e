// Package mesher is the voxel-mesher collaborator: it uploads overlay
// geometry and keeps track of every mesh it handed out until the owner
// releases it.
package mesher

import (
	"log"

	"voxel-overlays/internal/graphics"
	"voxel-overlays/internal/host"
	"voxel-overlays/internal/mesh"
)

// Mesher uploads layouts and owns the live meshes.
type Mesher struct {
	live map[mesh.Drawable]struct{}

	upload  func(mesh.Layout) (mesh.Drawable, error)
	release func(mesh.Drawable)
}

// New creates a mesher backed by GL buffers.
func New() *Mesher {
	return &Mesher{
		live: make(map[mesh.Drawable]struct{}),
		upload: func(l mesh.Layout) (mesh.Drawable, error) {
			return graphics.NewMesh(l)
		},
		release: func(d mesh.Drawable) {
			if m, ok := d.(*graphics.Mesh); ok {
				m.Release()
			}
		},
	}
}

// Factory registers the mesher under host.MesherName.
func Factory() host.Factory {
	return host.Factory{
		Name: host.MesherName,
		New: func(g *host.Game, opts host.OptionDecoder) (host.Plugin, error) {
			return New(), nil
		},
	}
}

func (m *Mesher) Name() string { return host.MesherName }

// Enable is a no-op; the mesher has no listeners.
func (m *Mesher) Enable() {}

// Disable is a no-op.
func (m *Mesher) Disable() {}

// Upload validates and uploads layout. The caller owns the result until
// it passes it to Release.
func (m *Mesher) Upload(layout mesh.Layout) (mesh.Drawable, error) {
	d, err := m.upload(layout)
	if err != nil {
		return nil, err
	}
	m.live[d] = struct{}{}
	return d, nil
}

// Release frees a mesh returned by Upload. Nil and unknown meshes are ignored.
func (m *Mesher) Release(d mesh.Drawable) {
	if d == nil {
		return
	}
	if _, ok := m.live[d]; !ok {
		return
	}
	delete(m.live, d)
	m.release(d)
}

// Live returns the number of meshes uploaded and not yet released.
func (m *Mesher) Live() int {
	return len(m.live)
}

// Close releases whatever meshes the consumers did not.
func (m *Mesher) Close() error {
	if n := len(m.live); n > 0 {
		log.Printf("mesher: releasing %d leaked meshes", n)
	}
	for d := range m.live {
		m.release(d)
	}
	clear(m.live)
	return nil
}
