package host

import (
	"voxel-overlays/internal/geom"
	"voxel-overlays/internal/mesh"

	"github.com/go-gl/mathgl/mgl32"
)

// Well-known collaborator names.
const (
	MesherName = "voxel-mesher"
	ShaderName = "voxel-shader"
	StitchName = "voxel-stitch"
)

// MeshGenerator uploads CPU-side geometry and owns the resulting handles
// until they are released.
type MeshGenerator interface {
	Upload(layout mesh.Layout) (mesh.Drawable, error)
	Release(d mesh.Drawable)
}

// ShaderState exposes the camera matrices, refreshed once per frame.
type ShaderState interface {
	ProjectionMatrix() mgl32.Mat4
	ViewMatrix() mgl32.Mat4
}

// TextureAtlas resolves named textures to tiles of one stitched texture.
type TextureAtlas interface {
	TextureUV(name string) (geom.TileUV, bool)
	OnRebuild(fn Handler) ListenerID
	RemoveRebuildListener(id ListenerID) bool
	Bind(unit uint32)
}
