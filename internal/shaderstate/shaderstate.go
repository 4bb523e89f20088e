// Package shaderstate is the voxel-shader collaborator. It owns the camera
// and refreshes the projection and view matrices at the start of every frame.
package shaderstate

import (
	"voxel-overlays/internal/graphics"
	"voxel-overlays/internal/host"

	"github.com/go-gl/mathgl/mgl32"
)

// Options configures the camera.
type Options struct {
	FOV      float32    `yaml:"fov"`
	Position [3]float32 `yaml:"position"`
	Target   [3]float32 `yaml:"target"`
}

// DefaultOptions looks at the origin from a few blocks away.
func DefaultOptions() Options {
	return Options{
		FOV:      60,
		Position: [3]float32{-4, 6, 10},
		Target:   [3]float32{0.5, 2.5, 0.5},
	}
}

// Provider holds the per-frame matrices.
type Provider struct {
	shell  *host.Shell
	camera *graphics.Camera

	projection mgl32.Mat4
	view       mgl32.Mat4

	renderID host.ListenerID
	resizeID host.ListenerID
	enabled  bool
}

// New creates a provider for the shell's framebuffer and enables it.
func New(shell *host.Shell, opts Options) *Provider {
	cam := graphics.NewCamera(shell.Width, shell.Height)
	if opts.FOV > 0 {
		cam.FOV = min(opts.FOV, 120)
	}
	cam.Position = opts.Position
	cam.LookAt(opts.Target)

	p := &Provider{shell: shell, camera: cam}
	p.refresh()
	p.Enable()
	return p
}

// Factory registers the provider under host.ShaderName.
func Factory() host.Factory {
	return host.Factory{
		Name: host.ShaderName,
		New: func(g *host.Game, dec host.OptionDecoder) (host.Plugin, error) {
			opts := DefaultOptions()
			if err := dec.Decode(&opts); err != nil {
				return nil, err
			}
			return New(g.Shell, opts), nil
		},
	}
}

func (p *Provider) Name() string { return host.ShaderName }

// Enable starts refreshing the matrices on every frame and resize.
func (p *Provider) Enable() {
	if p.enabled {
		return
	}
	p.renderID = p.shell.On(host.EventRender, func() error {
		p.refresh()
		return nil
	})
	p.resizeID = p.shell.On(host.EventResize, func() error {
		p.camera.SetViewport(p.shell.Width, p.shell.Height)
		p.refresh()
		return nil
	})
	p.enabled = true
}

// Disable stops refreshing; the last matrices stay readable.
func (p *Provider) Disable() {
	if !p.enabled {
		return
	}
	p.shell.RemoveListener(host.EventRender, p.renderID)
	p.shell.RemoveListener(host.EventResize, p.resizeID)
	p.enabled = false
}

func (p *Provider) Close() error {
	p.Disable()
	return nil
}

func (p *Provider) refresh() {
	p.projection = p.camera.GetProjectionMatrix()
	p.view = p.camera.GetViewMatrix()
}

// Camera exposes the camera for input handling.
func (p *Provider) Camera() *graphics.Camera {
	return p.camera
}

// ProjectionMatrix returns the projection computed for the current frame.
func (p *Provider) ProjectionMatrix() mgl32.Mat4 {
	return p.projection
}

// ViewMatrix returns the view computed for the current frame.
func (p *Provider) ViewMatrix() mgl32.Mat4 {
	return p.view
}
