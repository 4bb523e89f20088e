package geom

// Cube face corners in unit-cube local space, indexed by face.
// Each quad is wound so that (c1-c0)x(c2-c0) points along the outward
// normal; the two triangles are QuadIndices over these corners.
var faceQuads = [FaceCount][4][3]float32{
	FacePosZ: {{0, 0, 1}, {1, 0, 1}, {1, 1, 1}, {0, 1, 1}},
	FaceNegZ: {{0, 0, 0}, {0, 1, 0}, {1, 1, 0}, {1, 0, 0}},
	FacePosY: {{0, 1, 0}, {0, 1, 1}, {1, 1, 1}, {1, 1, 0}},
	FaceNegY: {{0, 0, 0}, {1, 0, 0}, {1, 0, 1}, {0, 0, 1}},
	FacePosX: {{1, 0, 0}, {1, 1, 0}, {1, 1, 1}, {1, 0, 1}},
	FaceNegX: {{0, 0, 0}, {0, 0, 1}, {0, 1, 1}, {0, 1, 0}},
}

// QuadIndices splits a four-corner quad into two triangles.
var QuadIndices = [6]uint16{
	0, 1, 2,
	0, 2, 3,
}

// BoxCorners are the eight corners of the unit cube.
var BoxCorners = [8][3]float32{
	{0, 0, 0}, {1, 0, 0}, {1, 0, 1}, {0, 0, 1},
	{0, 1, 0}, {1, 1, 0}, {1, 1, 1}, {0, 1, 1},
}

// BoxEdges holds the twelve cube edges as index pairs into BoxCorners.
var BoxEdges = [24]uint16{
	// bottom ring
	0, 1, 1, 2, 2, 3, 3, 0,
	// top ring
	4, 5, 5, 6, 6, 7, 7, 4,
	// verticals
	0, 4, 1, 5, 2, 6, 3, 7,
}

// QuadCorners returns the four local-space corners of a cube face.
func QuadCorners(f Face) [4][3]float32 {
	return faceQuads[f]
}

// FaceVertices returns the two triangles covering the face with the given
// normal as 18 floats (6 vertices x 3 coords) in [0,1]^3.
func FaceVertices(normal [3]int) ([]float32, error) {
	f, err := FaceFromNormal(normal)
	if err != nil {
		return nil, err
	}
	return AppendFaceVertices(make([]float32, 0, 18), f), nil
}

// AppendFaceVertices appends the triangulated face to dst.
func AppendFaceVertices(dst []float32, f Face) []float32 {
	q := &faceQuads[f]
	for _, i := range QuadIndices {
		dst = append(dst, q[i][0], q[i][1], q[i][2])
	}
	return dst
}

// QuadVertices returns the face corners as 12 floats, to be drawn with QuadIndices.
func QuadVertices(f Face) []float32 {
	q := &faceQuads[f]
	out := make([]float32, 0, 12)
	for _, c := range q {
		out = append(out, c[0], c[1], c[2])
	}
	return out
}

// BoxVertices returns BoxCorners flattened, to be drawn as lines with BoxEdges.
func BoxVertices() []float32 {
	out := make([]float32, 0, len(BoxCorners)*3)
	for _, c := range BoxCorners {
		out = append(out, c[0], c[1], c[2])
	}
	return out
}
