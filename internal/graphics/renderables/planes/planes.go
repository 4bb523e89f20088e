// Package planes draws flat coloured quads anchored to block positions.
package planes

import (
	"fmt"

	"voxel-overlays/internal/config"
	"voxel-overlays/internal/geom"
	"voxel-overlays/internal/graphics"
	"voxel-overlays/internal/host"
	"voxel-overlays/internal/mesh"
	"voxel-overlays/internal/profiling"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
)

const Name = "voxel-planes"

const vertexShader = `#version 410 core
layout (location = 0) in vec3 aPos;

uniform mat4 proj;
uniform mat4 view;
uniform mat4 model;

void main() {
    gl_Position = proj * view * model * vec4(aPos, 1.0);
}
`

const fragmentShader = `#version 410 core
uniform vec4 color;

out vec4 fragColor;

void main() {
    fragColor = color;
}
`

// Placement anchors a plane to a block. A zero Normal means +Y.
type Placement struct {
	Position [3]int `yaml:"position"`
	Normal   [3]int `yaml:"normal,omitempty"`
}

func (p Placement) face() (geom.Face, error) {
	if p.Normal == ([3]int{}) {
		return geom.FacePosY, nil
	}
	return geom.FaceFromNormal(p.Normal)
}

type Options struct {
	Color      [4]float32  `yaml:"color"`
	Placements []Placement `yaml:"placements"`
}

func DefaultOptions() Options {
	return Options{Color: [4]float32{0, 1, 1, 1}}
}

// BuildMesh returns the indexed quad for one face of the unit cube.
func BuildMesh(f geom.Face) mesh.Layout {
	return mesh.Layout{
		Attributes: []mesh.Attribute{{Location: 0, Size: 3, Data: geom.QuadVertices(f)}},
		Indices:    geom.QuadIndices[:],
		Primitive:  mesh.Triangles,
	}
}

type instance struct {
	offset mgl32.Vec3
	face   geom.Face
}

// Planes is the voxel-planes plugin.
type Planes struct {
	shell       *host.Shell
	mesher      host.MeshGenerator
	shaderState host.ShaderState

	color      [4]float32
	placements []Placement

	shader    *graphics.Shader
	meshes    [geom.FaceCount]mesh.Drawable
	instances []instance
	model     mgl32.Mat4

	compile func() (*graphics.Shader, error)

	initID   host.ListenerID
	renderID host.ListenerID
	enabled  bool
}

func New(g *host.Game, opts Options) (*Planes, error) {
	mesher, err := host.Require[host.MeshGenerator](g.Plugins, host.MesherName, Name)
	if err != nil {
		return nil, err
	}
	shaderState, err := host.Require[host.ShaderState](g.Plugins, host.ShaderName, Name)
	if err != nil {
		return nil, err
	}
	p := &Planes{
		shell:       g.Shell,
		mesher:      mesher,
		shaderState: shaderState,
		color:       config.ClampColor(opts.Color),
		placements:  append([]Placement(nil), opts.Placements...),
		model:       mgl32.Ident4(),
		compile: func() (*graphics.Shader, error) {
			return graphics.NewShader(vertexShader, fragmentShader)
		},
	}
	p.Enable()
	return p, nil
}

func Factory() host.Factory {
	return host.Factory{
		Name:      Name,
		LoadAfter: []string{host.MesherName, host.ShaderName},
		New: func(g *host.Game, dec host.OptionDecoder) (host.Plugin, error) {
			opts := DefaultOptions()
			if err := dec.Decode(&opts); err != nil {
				return nil, err
			}
			return New(g, opts)
		},
	}
}

func (p *Planes) Name() string { return Name }

func (p *Planes) Enable() {
	if p.enabled {
		return
	}
	p.initID = p.shell.On(host.EventInit, p.init)
	p.renderID = p.shell.On(host.EventRender, p.render)
	p.enabled = true
}

func (p *Planes) Disable() {
	if !p.enabled {
		return
	}
	p.shell.RemoveListener(host.EventInit, p.initID)
	p.shell.RemoveListener(host.EventRender, p.renderID)
	p.enabled = false
}

func (p *Planes) Close() error {
	p.Disable()
	for i, m := range p.meshes {
		if m != nil {
			p.mesher.Release(m)
			p.meshes[i] = nil
		}
	}
	p.instances = nil
	if p.shader != nil {
		p.shader.Delete()
		p.shader = nil
	}
	return nil
}

// Add queues a plane. Call Update to draw it.
func (p *Planes) Add(pl Placement) {
	p.placements = append(p.placements, pl)
}

// Remove drops the first plane at pos.
func (p *Planes) Remove(pos [3]int) bool {
	for i, pl := range p.placements {
		if pl.Position == pos {
			p.placements = append(p.placements[:i], p.placements[i+1:]...)
			return true
		}
	}
	return false
}

// Placements returns a copy of the queued planes.
func (p *Planes) Placements() []Placement {
	return append([]Placement(nil), p.placements...)
}

// Update resolves every placement's face and uploads the quad of any face
// not drawn before. Nothing changes if a placement has an unknown normal.
func (p *Planes) Update() error {
	defer profiling.Track("planes.Update")()

	instances := make([]instance, 0, len(p.placements))
	for _, pl := range p.placements {
		f, err := pl.face()
		if err != nil {
			return fmt.Errorf("%s: plane at %v: %w", Name, pl.Position, err)
		}
		instances = append(instances, instance{
			offset: mgl32.Vec3{float32(pl.Position[0]), float32(pl.Position[1]), float32(pl.Position[2])},
			face:   f,
		})
	}

	for _, in := range instances {
		if p.meshes[in.face] != nil {
			continue
		}
		m, err := p.mesher.Upload(BuildMesh(in.face))
		if err != nil {
			return fmt.Errorf("%s: upload %v quad: %w", Name, in.face, err)
		}
		p.meshes[in.face] = m
	}
	p.instances = instances
	return nil
}

func (p *Planes) init() error {
	if p.shader == nil {
		shader, err := p.compile()
		if err != nil {
			return fmt.Errorf("%s: %w", Name, err)
		}
		p.shader = shader
	}
	return p.Update()
}

func (p *Planes) render() error {
	if p.shader == nil || len(p.instances) == 0 || !config.OverlayVisible() {
		return nil
	}
	defer profiling.Track("planes.render")()

	proj := p.shaderState.ProjectionMatrix()
	view := p.shaderState.ViewMatrix()

	p.shader.Use()
	p.shader.SetMatrix4("proj", &proj[0])
	p.shader.SetMatrix4("view", &view[0])
	p.shader.SetVector4("color", p.color)

	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)

	for _, in := range p.instances {
		m := p.meshes[in.face]
		if m == nil {
			continue
		}
		p.model = mgl32.Translate3D(in.offset[0], in.offset[1], in.offset[2])
		p.shader.SetMatrix4("model", &p.model[0])
		m.Draw()
	}

	gl.Disable(gl.BLEND)
	return nil
}
