package geom

import (
	"errors"
	"fmt"
)

// ErrUnknownNormal is returned when a vector is not one of the six axis-aligned unit normals.
var ErrUnknownNormal = errors.New("unknown face normal")

// Face identifies one of the six faces of a unit cube by its outward normal.
type Face int

const (
	FacePosX Face = iota // east
	FaceNegX             // west
	FacePosY             // top
	FaceNegY             // bottom
	FacePosZ             // south
	FaceNegZ             // north
	FaceCount
)

var faceNormals = [FaceCount][3]int{
	FacePosX: {1, 0, 0},
	FaceNegX: {-1, 0, 0},
	FacePosY: {0, 1, 0},
	FaceNegY: {0, -1, 0},
	FacePosZ: {0, 0, 1},
	FaceNegZ: {0, 0, -1},
}

var faceNames = [FaceCount]string{"+x", "-x", "+y", "-y", "+z", "-z"}

// FaceFromNormal maps an integer normal to its face.
func FaceFromNormal(n [3]int) (Face, error) {
	for f := range FaceCount {
		if faceNormals[f] == n {
			return f, nil
		}
	}
	return 0, fmt.Errorf("%w: %v", ErrUnknownNormal, n)
}

// Valid reports whether f is one of the six faces.
func (f Face) Valid() bool {
	return f >= 0 && f < FaceCount
}

// Normal returns the outward unit normal of the face.
func (f Face) Normal() [3]int {
	return faceNormals[f]
}

func (f Face) String() string {
	if !f.Valid() {
		return fmt.Sprintf("Face(%d)", int(f))
	}
	return faceNames[f]
}
