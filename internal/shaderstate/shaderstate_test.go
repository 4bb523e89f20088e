package shaderstate

import (
	"testing"

	"voxel-overlays/internal/host"

	"github.com/go-gl/mathgl/mgl32"
)

func TestViewLooksAtTarget(t *testing.T) {
	shell := host.NewShell(800, 600)
	p := New(shell, DefaultOptions())

	target := mgl32.Vec3(DefaultOptions().Target)
	eye := p.ViewMatrix().Mul4x1(target.Vec4(1))
	// in view space the target sits straight ahead on -Z
	if mgl32.Abs(eye[0]) > 1e-3 || mgl32.Abs(eye[1]) > 1e-3 || eye[2] >= 0 {
		t.Fatalf("target in view space = %v", eye)
	}
}

func TestResizeUpdatesProjection(t *testing.T) {
	shell := host.NewShell(800, 600)
	p := New(shell, DefaultOptions())
	before := p.ProjectionMatrix()

	if err := shell.Resize(1600, 600); err != nil {
		t.Fatal(err)
	}
	after := p.ProjectionMatrix()
	if before.ApproxEqual(after) {
		t.Fatalf("projection unchanged after resize")
	}
	if got := p.Camera().AspectRatio; got != 1600.0/600.0 {
		t.Fatalf("aspect = %v", got)
	}
}

func TestDisableFreezesMatrices(t *testing.T) {
	shell := host.NewShell(800, 600)
	p := New(shell, DefaultOptions())
	p.Disable()
	if shell.ListenerCount(host.EventRender) != 0 || shell.ListenerCount(host.EventResize) != 0 {
		t.Fatalf("listeners left after Disable")
	}

	view := p.ViewMatrix()
	p.Camera().Rotate(45, 0)
	if err := shell.Emit(host.EventRender); err != nil {
		t.Fatal(err)
	}
	if !p.ViewMatrix().ApproxEqual(view) {
		t.Fatalf("view changed while disabled")
	}

	p.Enable()
	if err := shell.Emit(host.EventRender); err != nil {
		t.Fatal(err)
	}
	if p.ViewMatrix().ApproxEqual(view) {
		t.Fatalf("view not refreshed after Enable")
	}
}
