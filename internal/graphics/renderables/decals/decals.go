// Package decals draws flat quads over block faces, lifted slightly along
// the face normal so they never fight the block for depth.
package decals

import (
	"errors"
	"fmt"
	"log"

	"voxel-overlays/internal/config"
	"voxel-overlays/internal/decal"
	"voxel-overlays/internal/graphics"
	"voxel-overlays/internal/host"
	"voxel-overlays/internal/mesh"
	"voxel-overlays/internal/profiling"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
)

// Name is the plugin's registry name.
const Name = "voxel-decals"

const vertexShader = `#version 410 core
layout (location = 0) in vec3 aPos;
layout (location = 1) in vec2 aUV;

uniform mat4 proj;
uniform mat4 view;
uniform mat4 model;

out vec2 uv;

void main() {
    uv = aUV;
    gl_Position = proj * view * model * vec4(aPos, 1.0);
}
`

const fragmentShader = `#version 410 core
in vec2 uv;

uniform bool textured;
uniform sampler2D atlas;
uniform vec4 color;

out vec4 fragColor;

void main() {
    if (textured) {
        vec4 c = texture(atlas, uv);
        if (c.a < 0.01) discard;
        fragColor = c;
    } else {
        fragColor = color;
    }
}
`

// Options configures the plugin.
type Options struct {
	Color      [4]float32        `yaml:"color"`
	Offset     float32           `yaml:"offset"`
	Textured   bool              `yaml:"textured"`
	Placements []decal.Placement `yaml:"placements"`
}

// DefaultOptions draws untextured cyan decals.
func DefaultOptions() Options {
	return Options{
		Color:  [4]float32{0, 1, 1, 1},
		Offset: decal.DefaultOffset,
	}
}

// Decals is the voxel-decals plugin.
type Decals struct {
	shell       *host.Shell
	mesher      host.MeshGenerator
	shaderState host.ShaderState
	atlas       host.TextureAtlas

	color    [4]float32
	offset   float32
	registry *decal.Registry

	shader *graphics.Shader
	mesh   mesh.Drawable
	model  mgl32.Mat4

	compile func() (*graphics.Shader, error)

	initID    host.ListenerID
	renderID  host.ListenerID
	rebuildID host.ListenerID
	enabled   bool
}

// New resolves the plugin's collaborators and enables it. The atlas is
// only required for textured decals.
func New(g *host.Game, opts Options) (*Decals, error) {
	mesher, err := host.Require[host.MeshGenerator](g.Plugins, host.MesherName, Name)
	if err != nil {
		return nil, err
	}
	shaderState, err := host.Require[host.ShaderState](g.Plugins, host.ShaderName, Name)
	if err != nil {
		return nil, err
	}
	var atlas host.TextureAtlas
	if opts.Textured {
		if atlas, err = host.Require[host.TextureAtlas](g.Plugins, host.StitchName, Name); err != nil {
			return nil, err
		}
	}

	d := &Decals{
		shell:       g.Shell,
		mesher:      mesher,
		shaderState: shaderState,
		atlas:       atlas,
		color:       config.ClampColor(opts.Color),
		offset:      config.ClampOffset(opts.Offset),
		registry:    decal.NewRegistry(opts.Placements...),
		model:       mgl32.Ident4(),
		compile: func() (*graphics.Shader, error) {
			return graphics.NewShader(vertexShader, fragmentShader)
		},
	}
	d.Enable()
	return d, nil
}

// Factory registers the plugin, loading after its collaborators.
func Factory() host.Factory {
	return host.Factory{
		Name:      Name,
		LoadAfter: []string{host.MesherName, host.ShaderName, host.StitchName},
		New: func(g *host.Game, dec host.OptionDecoder) (host.Plugin, error) {
			opts := DefaultOptions()
			if err := dec.Decode(&opts); err != nil {
				return nil, err
			}
			return New(g, opts)
		},
	}
}

func (d *Decals) Name() string { return Name }

// Enable attaches the init, render and atlas rebuild listeners.
func (d *Decals) Enable() {
	if d.enabled {
		return
	}
	d.initID = d.shell.On(host.EventInit, d.init)
	d.renderID = d.shell.On(host.EventRender, d.render)
	if d.atlas != nil {
		d.rebuildID = d.atlas.OnRebuild(d.Update)
	}
	d.enabled = true
}

// Disable detaches every listener. The mesh and shader are kept.
func (d *Decals) Disable() {
	if !d.enabled {
		return
	}
	d.shell.RemoveListener(host.EventInit, d.initID)
	d.shell.RemoveListener(host.EventRender, d.renderID)
	if d.atlas != nil {
		d.atlas.RemoveRebuildListener(d.rebuildID)
	}
	d.enabled = false
}

// Close disables the plugin and frees its mesh and shader.
func (d *Decals) Close() error {
	d.Disable()
	if d.mesh != nil {
		d.mesher.Release(d.mesh)
		d.mesh = nil
	}
	if d.shader != nil {
		d.shader.Delete()
		d.shader = nil
	}
	return nil
}

// Add queues a decal. Call Update to rebuild the mesh.
func (d *Decals) Add(p decal.Placement) {
	d.registry.Add(p)
}

// Remove drops the first decal at pos and reports whether one was found.
func (d *Decals) Remove(pos [3]int) bool {
	return d.registry.Remove(pos)
}

// Change replaces the decal at p.Position with p.
func (d *Decals) Change(p decal.Placement) {
	d.registry.Change(p)
}

// Reset drops every decal.
func (d *Decals) Reset() {
	d.registry.Reset()
}

// Placements returns a copy of the current decals in build order.
func (d *Decals) Placements() []decal.Placement {
	return d.registry.All()
}

// Mesh returns the installed mesh, or nil before the first build.
func (d *Decals) Mesh() mesh.Drawable {
	return d.mesh
}

// Update rebuilds the mesh from every decal. On failure the previous mesh
// stays installed; on success it is released once the new one is uploaded.
func (d *Decals) Update() error {
	defer profiling.Track("decals.Update")()

	var uvs decal.UVSource
	if d.atlas != nil {
		uvs = d.atlas
	}
	data, err := decal.BuildMesh(d.registry.All(), uvs, d.offset)
	if err != nil {
		return fmt.Errorf("%s: %w", Name, err)
	}
	m, err := d.mesher.Upload(data.Layout())
	if err != nil {
		return fmt.Errorf("%s: upload: %w", Name, err)
	}
	if d.mesh != nil {
		d.mesher.Release(d.mesh)
	}
	d.mesh = m
	d.registry.MarkClean()
	return nil
}

func (d *Decals) init() error {
	if d.shader == nil {
		shader, err := d.compile()
		if err != nil {
			return fmt.Errorf("%s: %w", Name, err)
		}
		d.shader = shader
	}
	if d.mesh != nil && !d.registry.Dirty() {
		return nil
	}
	err := d.Update()
	if d.atlas != nil && errors.Is(err, decal.ErrTextureNotFound) {
		// the atlas has not stitched yet; its rebuild event builds the mesh
		log.Printf("%s: waiting for atlas: %v", Name, err)
		return nil
	}
	return err
}

func (d *Decals) render() error {
	if d.shader == nil || d.mesh == nil || !config.OverlayVisible() {
		return nil
	}
	defer profiling.Track("decals.render")()

	proj := d.shaderState.ProjectionMatrix()
	view := d.shaderState.ViewMatrix()

	d.shader.Use()
	d.shader.SetMatrix4("proj", &proj[0])
	d.shader.SetMatrix4("view", &view[0])
	d.shader.SetMatrix4("model", &d.model[0])
	d.shader.SetBool("textured", d.atlas != nil)
	if d.atlas != nil {
		d.atlas.Bind(0)
		d.shader.SetInt("atlas", 0)
	} else {
		d.shader.SetVector4("color", d.color)
	}

	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	gl.DepthMask(false)

	d.mesh.Draw()

	gl.DepthMask(true)
	gl.Disable(gl.BLEND)
	return nil
}
