package graphics

import (
	"voxel-overlays/internal/mesh"

	"github.com/go-gl/gl/v4.1-core/gl"
)

// Mesh is a VAO together with the buffers it owns.
type Mesh struct {
	vao   uint32
	vbos  []uint32
	ebo   uint32
	count int32
	mode  uint32
}

// NewMesh uploads layout into a fresh VAO. One VBO is created per
// attribute, plus an element buffer when the layout is indexed.
func NewMesh(layout mesh.Layout) (*Mesh, error) {
	if err := layout.Validate(); err != nil {
		return nil, err
	}

	m := &Mesh{
		count: int32(layout.ElementCount()),
		mode:  gl.TRIANGLES,
	}
	if layout.Primitive == mesh.Lines {
		m.mode = gl.LINES
	}

	gl.GenVertexArrays(1, &m.vao)
	gl.BindVertexArray(m.vao)

	m.vbos = make([]uint32, len(layout.Attributes))
	gl.GenBuffers(int32(len(m.vbos)), &m.vbos[0])
	for i, a := range layout.Attributes {
		gl.BindBuffer(gl.ARRAY_BUFFER, m.vbos[i])
		if len(a.Data) > 0 {
			gl.BufferData(gl.ARRAY_BUFFER, len(a.Data)*4, gl.Ptr(a.Data), gl.STATIC_DRAW)
		}
		gl.EnableVertexAttribArray(a.Location)
		gl.VertexAttribPointerWithOffset(a.Location, a.Size, gl.FLOAT, false, a.Size*4, 0)
	}

	if layout.Indices != nil {
		gl.GenBuffers(1, &m.ebo)
		gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, m.ebo)
		if len(layout.Indices) > 0 {
			gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(layout.Indices)*2, gl.Ptr(layout.Indices), gl.STATIC_DRAW)
		}
	}

	gl.BindVertexArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	return m, nil
}

// Count returns the number of vertices drawn.
func (m *Mesh) Count() int32 {
	return m.count
}

// Draw binds the VAO, issues one draw call and unbinds.
func (m *Mesh) Draw() {
	if m.vao == 0 || m.count == 0 {
		return
	}
	gl.BindVertexArray(m.vao)
	if m.ebo != 0 {
		gl.DrawElementsWithOffset(m.mode, m.count, gl.UNSIGNED_SHORT, 0)
	} else {
		gl.DrawArrays(m.mode, 0, m.count)
	}
	gl.BindVertexArray(0)
}

// Release deletes every GL object the mesh owns. It is safe to call twice.
func (m *Mesh) Release() {
	if m.vao != 0 {
		gl.DeleteVertexArrays(1, &m.vao)
		m.vao = 0
	}
	if len(m.vbos) > 0 {
		gl.DeleteBuffers(int32(len(m.vbos)), &m.vbos[0])
		m.vbos = nil
	}
	if m.ebo != 0 {
		gl.DeleteBuffers(1, &m.ebo)
		m.ebo = 0
	}
	m.count = 0
}
