package decal

import (
	"errors"
	"math"
	"testing"

	"voxel-overlays/internal/geom"
)

type fakeAtlas map[string]geom.TileUV

func (a fakeAtlas) TextureUV(name string) (geom.TileUV, bool) {
	t, ok := a[name]
	return t, ok
}

// marker tile: each corner is distinguishable by its coordinates
var markerTile = geom.TileUV{
	geom.TopLeft:     {10, 10},
	geom.TopRight:    {20, 10},
	geom.BottomRight: {20, 20},
	geom.BottomLeft:  {10, 20},
}

func uvAt(uvs []float32, i int) [2]float32 {
	return [2]float32{uvs[i*2], uvs[i*2+1]}
}

func posAt(pos []float32, i int) [3]float32 {
	return [3]float32{pos[i*3], pos[i*3+1], pos[i*3+2]}
}

func TestTopFaceScenario(t *testing.T) {
	top := [3]int{0, 1, 0}
	local, _ := geom.FaceVertices(top)

	plane, err := BuildMesh([]Placement{{Position: [3]int{0, 0, 0}, Normal: top}}, nil, 0)
	if err != nil {
		t.Fatal(err)
	}
	if plane.VertexCount() != 6 {
		t.Fatalf("got %d vertices, want 6", plane.VertexCount())
	}
	for i := range local {
		if plane.Positions[i] != local[i] {
			t.Fatalf("unoffset vertex float %d = %v, want %v", i, plane.Positions[i], local[i])
		}
	}

	decal, err := BuildMesh([]Placement{{Position: [3]int{0, 0, 0}, Normal: top}}, nil, DefaultOffset)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 6; i++ {
		got, want := posAt(decal.Positions, i), posAt(local, i)
		want[1] += float32(DefaultOffset)
		if got != want {
			t.Errorf("vertex %d = %v, want %v", i, got, want)
		}
	}
}

func TestOffsetAlongNormal(t *testing.T) {
	const off = float32(DefaultOffset)
	for f := range geom.FaceCount {
		n := f.Normal()
		local, _ := geom.FaceVertices(n)
		m, err := BuildMesh([]Placement{{Normal: n}}, nil, off)
		if err != nil {
			t.Fatal(err)
		}
		for i := range local {
			want := local[i] + float32(n[i%3])*off
			if m.Positions[i] != want {
				t.Errorf("%v float %d = %v, want %v", f, i, m.Positions[i], want)
			}
		}
	}
}

func TestTranslationInvariance(t *testing.T) {
	positions := [][3]int{{0, 0, 0}, {1, 2, 3}, {-5, 64, 12}, {100, -3, -100}}
	for f := range geom.FaceCount {
		n := f.Normal()
		origin, _ := BuildMesh([]Placement{{Normal: n}}, nil, DefaultOffset)
		for _, pos := range positions {
			m, err := BuildMesh([]Placement{{Position: pos, Normal: n}}, nil, DefaultOffset)
			if err != nil {
				t.Fatal(err)
			}
			for i := range m.Positions {
				d := m.Positions[i] - float32(pos[i%3]) - origin.Positions[i]
				if math.Abs(float64(d)) > 1e-4 {
					t.Fatalf("%v at %v: float %d differs from origin by %v", f, pos, i, d)
				}
			}
			for i := range m.UVs {
				if m.UVs[i] != origin.UVs[i] {
					t.Fatalf("%v at %v: uv %d changed with translation", f, pos, i)
				}
			}
		}
	}
}

func TestRecordOrderPreserved(t *testing.T) {
	ps := []Placement{
		{Position: [3]int{0, 5, 0}, Normal: [3]int{0, 0, -1}},
		{Position: [3]int{0, 0, 0}, Normal: [3]int{1, 0, 0}},
		{Position: [3]int{0, 3, 0}, Normal: [3]int{0, 1, 0}},
	}
	all, err := BuildMesh(ps, nil, DefaultOffset)
	if err != nil {
		t.Fatal(err)
	}
	if all.VertexCount() != 18 || len(all.UVs) != 36 {
		t.Fatalf("got %d vertices and %d uv floats", all.VertexCount(), len(all.UVs))
	}
	for i, p := range ps {
		one, _ := BuildMesh([]Placement{p}, nil, DefaultOffset)
		for j := range one.Positions {
			if all.Positions[i*18+j] != one.Positions[j] {
				t.Fatalf("placement %d not at its slot in the combined mesh", i)
			}
		}
	}
}

func TestUVRotation(t *testing.T) {
	atlas := fakeAtlas{"marker": markerTile}
	quad := [4][2]float32{
		markerTile[geom.BottomRight],
		markerTile[geom.TopRight],
		markerTile[geom.TopLeft],
		markerTile[geom.BottomLeft],
	}
	flipped := map[geom.Face]bool{geom.FaceNegX: true, geom.FaceNegY: true, geom.FacePosZ: true}

	for f := range geom.FaceCount {
		m, err := BuildMesh([]Placement{{Normal: f.Normal(), Texture: "marker"}}, atlas, DefaultOffset)
		if err != nil {
			t.Fatal(err)
		}
		r := 0
		if flipped[f] {
			r = 3
		}
		want := [6][2]float32{
			quad[(0+r)%4], quad[(1+r)%4], quad[(2+r)%4],
			quad[(0+r)%4], quad[(2+r)%4], quad[(3+r)%4],
		}
		for i := range want {
			if got := uvAt(m.UVs, i); got != want[i] {
				t.Errorf("%v uv %d = %v, want %v", f, i, got, want[i])
			}
		}
	}
}

// The texture's up direction (bottom-left to top-left corner) must point
// along +Y on every side face, and along +Z on top and bottom.
func TestTexturesReadUpright(t *testing.T) {
	atlas := fakeAtlas{"marker": markerTile}
	wantUp := map[geom.Face][3]float32{
		geom.FacePosX: {0, 1, 0},
		geom.FaceNegX: {0, 1, 0},
		geom.FacePosZ: {0, 1, 0},
		geom.FaceNegZ: {0, 1, 0},
		geom.FacePosY: {0, 0, 1},
		geom.FaceNegY: {0, 0, 1},
	}
	for f := range geom.FaceCount {
		m, _ := BuildMesh([]Placement{{Normal: f.Normal(), Texture: "marker"}}, atlas, 0)
		var bl, tl [3]float32
		var haveBL, haveTL bool
		for i := 0; i < m.VertexCount(); i++ {
			switch uvAt(m.UVs, i) {
			case markerTile[geom.BottomLeft]:
				bl, haveBL = posAt(m.Positions, i), true
			case markerTile[geom.TopLeft]:
				tl, haveTL = posAt(m.Positions, i), true
			}
		}
		if !haveBL || !haveTL {
			t.Fatalf("%v: tile corners missing from face", f)
		}
		up := [3]float32{tl[0] - bl[0], tl[1] - bl[1], tl[2] - bl[2]}
		if up != wantUp[f] {
			t.Errorf("%v: texture up = %v, want %v", f, up, wantUp[f])
		}
	}
}

// Seen from outside, the tile's right direction crossed with its up
// direction must give the outward normal, or the texture reads mirrored.
func TestTexturesNotMirrored(t *testing.T) {
	atlas := fakeAtlas{"marker": markerTile}
	for f := range geom.FaceCount {
		m, _ := BuildMesh([]Placement{{Normal: f.Normal(), Texture: "marker"}}, atlas, 0)
		var bl, tl, br [3]float32
		found := 0
		for i := 0; i < m.VertexCount(); i++ {
			switch uvAt(m.UVs, i) {
			case markerTile[geom.BottomLeft]:
				bl, found = posAt(m.Positions, i), found|1
			case markerTile[geom.TopLeft]:
				tl, found = posAt(m.Positions, i), found|2
			case markerTile[geom.BottomRight]:
				br, found = posAt(m.Positions, i), found|4
			}
		}
		if found != 7 {
			t.Fatalf("%v: tile corners missing from face", f)
		}
		right := [3]float32{br[0] - bl[0], br[1] - bl[1], br[2] - bl[2]}
		up := [3]float32{tl[0] - bl[0], tl[1] - bl[1], tl[2] - bl[2]}
		got := [3]float32{
			right[1]*up[2] - right[2]*up[1],
			right[2]*up[0] - right[0]*up[2],
			right[0]*up[1] - right[1]*up[0],
		}
		n := f.Normal()
		want := [3]float32{float32(n[0]), float32(n[1]), float32(n[2])}
		if got != want {
			t.Errorf("%v: right x up = %v, want outward normal %v", f, got, want)
		}
	}
}

func TestUnitTileWithoutAtlas(t *testing.T) {
	m, _ := BuildMesh([]Placement{{Normal: [3]int{0, 0, -1}, Texture: "ignored"}}, nil, 0)
	want := []float32{1, 1, 1, 0, 0, 0, 1, 1, 0, 0, 0, 1}
	for i := range want {
		if m.UVs[i] != want[i] {
			t.Fatalf("uvs = %v, want %v", m.UVs, want)
		}
	}
}

func TestMissingTextureAbortsBuild(t *testing.T) {
	atlas := fakeAtlas{"stone": geom.UnitTile}
	ps := []Placement{
		{Position: [3]int{0, 0, 0}, Normal: [3]int{0, 1, 0}, Texture: "stone"},
		{Position: [3]int{1, 2, 3}, Normal: [3]int{0, 1, 0}, Texture: "lava"},
	}
	m, err := BuildMesh(ps, atlas, DefaultOffset)
	if !errors.Is(err, ErrTextureNotFound) {
		t.Fatalf("got %v, want ErrTextureNotFound", err)
	}
	if m.VertexCount() != 0 {
		t.Fatalf("partial mesh of %d vertices returned", m.VertexCount())
	}
}

func TestUnknownNormalAbortsBuild(t *testing.T) {
	ps := []Placement{
		{Normal: [3]int{0, 1, 0}},
		{Position: [3]int{2, 2, 2}},
	}
	_, err := BuildMesh(ps, nil, DefaultOffset)
	if !errors.Is(err, geom.ErrUnknownNormal) {
		t.Fatalf("got %v, want ErrUnknownNormal", err)
	}
}

func TestLayoutValidates(t *testing.T) {
	m, _ := BuildMesh([]Placement{
		{Normal: [3]int{0, 1, 0}},
		{Normal: [3]int{-1, 0, 0}},
	}, nil, DefaultOffset)
	if err := m.Layout().Validate(); err != nil {
		t.Fatal(err)
	}
	if m.Layout().ElementCount()%3 != 0 {
		t.Fatalf("element count %d not a multiple of 3", m.Layout().ElementCount())
	}
}

func BenchmarkBuildMesh(b *testing.B) {
	ps := make([]Placement, 0, 1024)
	for i := 0; i < 1024; i++ {
		f := geom.Face(i % int(geom.FaceCount))
		ps = append(ps, Placement{Position: [3]int{i, i / 2, -i}, Normal: f.Normal(), Texture: "marker"})
	}
	atlas := fakeAtlas{"marker": markerTile}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := BuildMesh(ps, atlas, DefaultOffset); err != nil {
			b.Fatal(err)
		}
	}
}
