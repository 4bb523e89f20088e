// Package outline draws wireframe boxes around blocks.
package outline

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

const Name = "voxel-outline"

// scale grows the box slightly past the block so its edges stay visible
const scale = 1.002

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

type Options struct {
	Color     [4]float32 `yaml:"color"`
	Positions [][3]int   `yaml:"positions"`
}

// DefaultOptions draws cyan outlines.
func DefaultOptions() Options {
	return Options{Color: [4]float32{0, 1, 1, 1}}
}

// BoxMesh returns the unit box as 12 edges.
func BoxMesh() mesh.Layout {
	return mesh.Layout{
		Attributes: []mesh.Attribute{{Location: 0, Size: 3, Data: geom.BoxVertices()}},
		Indices:    geom.BoxEdges[:],
		Primitive:  mesh.Lines,
	}
}

// Model places the unit box on the block at pos, scaled about the block centre.
func Model(pos [3]int) mgl32.Mat4 {
	return mgl32.Translate3D(float32(pos[0])+0.5, float32(pos[1])+0.5, float32(pos[2])+0.5).
		Mul4(mgl32.Scale3D(scale, scale, scale)).
		Mul4(mgl32.Translate3D(-0.5, -0.5, -0.5))
}

// Outline is the voxel-outline plugin.
type Outline struct {
	shell       *host.Shell
	mesher      host.MeshGenerator
	shaderState host.ShaderState

	color     [4]float32
	positions [][3]int
	models    []mgl32.Mat4

	shader *graphics.Shader
	box    mesh.Drawable

	compile func() (*graphics.Shader, error)

	initID   host.ListenerID
	renderID host.ListenerID
	enabled  bool
}

func New(g *host.Game, opts Options) (*Outline, error) {
	mesher, err := host.Require[host.MeshGenerator](g.Plugins, host.MesherName, Name)
	if err != nil {
		return nil, err
	}
	shaderState, err := host.Require[host.ShaderState](g.Plugins, host.ShaderName, Name)
	if err != nil {
		return nil, err
	}
	o := &Outline{
		shell:       g.Shell,
		mesher:      mesher,
		shaderState: shaderState,
		color:       config.ClampColor(opts.Color),
		compile: func() (*graphics.Shader, error) {
			return graphics.NewShader(vertexShader, fragmentShader)
		},
	}
	o.SetPositions(opts.Positions)
	o.Enable()
	return o, nil
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

func (o *Outline) Name() string { return Name }

func (o *Outline) Enable() {
	if o.enabled {
		return
	}
	o.initID = o.shell.On(host.EventInit, o.init)
	o.renderID = o.shell.On(host.EventRender, o.render)
	o.enabled = true
}

func (o *Outline) Disable() {
	if !o.enabled {
		return
	}
	o.shell.RemoveListener(host.EventInit, o.initID)
	o.shell.RemoveListener(host.EventRender, o.renderID)
	o.enabled = false
}

func (o *Outline) Close() error {
	o.Disable()
	if o.box != nil {
		o.mesher.Release(o.box)
		o.box = nil
	}
	if o.shader != nil {
		o.shader.Delete()
		o.shader = nil
	}
	return nil
}

// SetPositions replaces the outlined blocks. The shared box mesh is not rebuilt.
func (o *Outline) SetPositions(positions [][3]int) {
	o.positions = append(o.positions[:0], positions...)
	o.models = o.models[:0]
	for _, p := range o.positions {
		o.models = append(o.models, Model(p))
	}
}

// Positions returns a copy of the outlined blocks.
func (o *Outline) Positions() [][3]int {
	return append([][3]int(nil), o.positions...)
}

// Box returns the shared box mesh, or nil before init.
func (o *Outline) Box() mesh.Drawable {
	return o.box
}

// Upload builds the shared box mesh once.
func (o *Outline) Upload() error {
	if o.box != nil {
		return nil
	}
	box, err := o.mesher.Upload(BoxMesh())
	if err != nil {
		return fmt.Errorf("%s: %w", Name, err)
	}
	o.box = box
	return nil
}

func (o *Outline) init() error {
	if o.shader == nil {
		shader, err := o.compile()
		if err != nil {
			return fmt.Errorf("%s: %w", Name, err)
		}
		o.shader = shader
	}
	return o.Upload()
}

func (o *Outline) render() error {
	if o.shader == nil || o.box == nil || len(o.models) == 0 || !config.OverlayVisible() {
		return nil
	}
	defer profiling.Track("outline.render")()

	proj := o.shaderState.ProjectionMatrix()
	view := o.shaderState.ViewMatrix()

	o.shader.Use()
	o.shader.SetMatrix4("proj", &proj[0])
	o.shader.SetMatrix4("view", &view[0])
	o.shader.SetVector4("color", o.color)

	gl.LineWidth(config.GetLineWidth())
	for i := range o.models {
		o.shader.SetMatrix4("model", &o.models[i][0])
		o.box.Draw()
	}
	gl.LineWidth(1)
	return nil
}
