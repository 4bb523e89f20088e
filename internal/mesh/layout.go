package mesh

import (
	"errors"
	"fmt"
)

// Primitive selects how vertices are assembled.
type Primitive int

const (
	Triangles Primitive = iota
	Lines
)

func (p Primitive) String() string {
	switch p {
	case Triangles:
		return "triangles"
	case Lines:
		return "lines"
	}
	return fmt.Sprintf("Primitive(%d)", int(p))
}

func (p Primitive) arity() int {
	if p == Lines {
		return 2
	}
	return 3
}

// ErrInvalidLayout is returned by Validate.
var ErrInvalidLayout = errors.New("invalid mesh layout")

// Attribute is one tightly packed float vertex attribute.
// Location is the attribute's index in the vertex shader.
type Attribute struct {
	Location uint32
	Size     int32
	Data     []float32
}

// Layout describes geometry ready for upload.
type Layout struct {
	Attributes []Attribute
	Indices    []uint16
	Primitive  Primitive
}

// Drawable is an uploaded mesh.
type Drawable interface {
	Draw()
	Count() int32
}

// VertexCount returns the number of vertices described by the first attribute.
func (l Layout) VertexCount() int {
	if len(l.Attributes) == 0 || l.Attributes[0].Size <= 0 {
		return 0
	}
	return len(l.Attributes[0].Data) / int(l.Attributes[0].Size)
}

// ElementCount is the number of vertices a draw call consumes.
func (l Layout) ElementCount() int {
	if l.Indices != nil {
		return len(l.Indices)
	}
	return l.VertexCount()
}

// Validate checks that attributes agree on vertex count, indices are in
// range and the element count fits the primitive.
func (l Layout) Validate() error {
	if len(l.Attributes) == 0 {
		return fmt.Errorf("%w: no attributes", ErrInvalidLayout)
	}
	n := l.VertexCount()
	for i, a := range l.Attributes {
		if a.Size < 1 || a.Size > 4 {
			return fmt.Errorf("%w: attribute %d has size %d", ErrInvalidLayout, i, a.Size)
		}
		if len(a.Data)%int(a.Size) != 0 {
			return fmt.Errorf("%w: attribute %d has %d floats, not a multiple of %d", ErrInvalidLayout, i, len(a.Data), a.Size)
		}
		if len(a.Data)/int(a.Size) != n {
			return fmt.Errorf("%w: attribute %d has %d vertices, want %d", ErrInvalidLayout, i, len(a.Data)/int(a.Size), n)
		}
	}
	for _, idx := range l.Indices {
		if int(idx) >= n {
			return fmt.Errorf("%w: index %d out of range (%d vertices)", ErrInvalidLayout, idx, n)
		}
	}
	if c := l.ElementCount(); c%l.Primitive.arity() != 0 {
		return fmt.Errorf("%w: %d elements do not form whole %s", ErrInvalidLayout, c, l.Primitive)
	}
	return nil
}
