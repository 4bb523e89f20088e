package decal

import (
	"errors"
	"fmt"

	"voxel-overlays/internal/geom"
	"voxel-overlays/internal/mesh"
)

// DefaultOffset lifts decals off the block face to avoid z-fighting.
const DefaultOffset = 0.001

// ErrTextureNotFound is returned when a placement names a texture the atlas does not hold.
var ErrTextureNotFound = errors.New("decal texture not found")

// UVSource resolves texture names to atlas tiles.
type UVSource interface {
	TextureUV(name string) (geom.TileUV, bool)
}

// uvRotation is how many corners the tile quad is rotated per face so the
// texture's up direction follows +Y on side faces; top and bottom faces
// both end up with up along +Z.
var uvRotation = [geom.FaceCount]int{
	geom.FaceNegX: 3,
	geom.FaceNegY: 3,
	geom.FacePosZ: 3,
}

// MeshData is a flat triangle list with one UV pair per vertex.
type MeshData struct {
	Positions []float32
	UVs       []float32
}

// VertexCount returns the number of vertices.
func (m MeshData) VertexCount() int {
	return len(m.Positions) / 3
}

// Layout describes the mesh for upload: positions at location 0, UVs at 1.
func (m MeshData) Layout() mesh.Layout {
	return mesh.Layout{
		Attributes: []mesh.Attribute{
			{Location: 0, Size: 3, Data: m.Positions},
			{Location: 1, Size: 2, Data: m.UVs},
		},
		Primitive: mesh.Triangles,
	}
}

// BuildMesh expands placements into world-space triangles, in placement
// order. Each face is translated to its block and pushed offset units out
// along its normal. With a nil uvs every decal covers the whole texture;
// otherwise each placement's texture is looked up and a missing one fails
// the whole build.
func BuildMesh(placements []Placement, uvs UVSource, offset float32) (MeshData, error) {
	out := MeshData{
		Positions: make([]float32, 0, len(placements)*18),
		UVs:       make([]float32, 0, len(placements)*12),
	}
	for i, p := range placements {
		face, err := geom.FaceFromNormal(p.Normal)
		if err != nil {
			return MeshData{}, fmt.Errorf("placement %d at %v: %w", i, p.Position, err)
		}

		start := len(out.Positions)
		out.Positions = geom.AppendFaceVertices(out.Positions, face)
		for j := start; j < len(out.Positions); j++ {
			axis := (j - start) % 3
			out.Positions[j] += float32(p.Position[axis]) + float32(p.Normal[axis])*offset
		}

		tile := geom.UnitTile
		if uvs != nil {
			t, ok := uvs.TextureUV(p.Texture)
			if !ok {
				return MeshData{}, fmt.Errorf("%w: %q for placement %d at %v facing %v", ErrTextureNotFound, p.Texture, i, p.Position, p.Normal)
			}
			tile = t
		}
		out.UVs = appendFaceUVs(out.UVs, tile, face)
	}
	return out, nil
}

// appendFaceUVs covers the face's two triangles with the tile. Face
// corners wind counter-clockwise seen from outside, so the tile is walked
// the same way starting at its bottom-right corner.
func appendFaceUVs(dst []float32, tile geom.TileUV, face geom.Face) []float32 {
	quad := [4][2]float32{
		tile[geom.BottomRight],
		tile[geom.TopRight],
		tile[geom.TopLeft],
		tile[geom.BottomLeft],
	}
	r := uvRotation[face]
	for _, i := range geom.QuadIndices {
		uv := quad[(int(i)+r)%4]
		dst = append(dst, uv[0], uv[1])
	}
	return dst
}
