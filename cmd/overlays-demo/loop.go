package main

import (
	"fmt"
	"log"
	"time"

	"voxel-overlays/internal/config"
	"voxel-overlays/internal/decal"
	"voxel-overlays/internal/graphics"
	"voxel-overlays/internal/graphics/renderables/decals"
	"voxel-overlays/internal/host"
	"voxel-overlays/internal/input"
	"voxel-overlays/internal/shaderstate"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"
)

const (
	moveSpeed = 4.0  // blocks per second
	turnSpeed = 90.0 // degrees per second
)

// demoDecal is the block face the cycle and remove keys act on
var demoDecal = [3]int{0, 2, 0}

var decalTextures = []string{"arrow", "stripes"}

// Loop drives the window: input, one host frame, swap.
type Loop struct {
	window *glfw.Window
	game   *host.Game
	input  *input.Manager

	camera  *graphics.Camera
	decals  *decals.Decals
	cycle   int
	limiter *FPSLimiter

	frames           int
	lastFPSCheckTime time.Time
	lastTime         time.Time
}

func NewLoop(window *glfw.Window, game *host.Game, im *input.Manager, fps int) *Loop {
	l := &Loop{
		window:           window,
		game:             game,
		input:            im,
		limiter:          NewFPSLimiter(fps),
		lastFPSCheckTime: time.Now(),
		lastTime:         time.Now(),
	}
	if p, err := host.Require[*shaderstate.Provider](game.Plugins, host.ShaderName, "overlays-demo"); err == nil {
		l.camera = p.Camera()
	}
	if d, err := host.Require[*decals.Decals](game.Plugins, decals.Name, "overlays-demo"); err == nil {
		l.decals = d
	}
	return l
}

func (l *Loop) Run() {
	for !l.window.ShouldClose() {
		now := time.Now()
		dt := float32(now.Sub(l.lastTime).Seconds())
		l.lastTime = now

		l.handleInput(dt)

		gl.ClearColor(0.53, 0.81, 0.92, 1.0)
		gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
		if err := l.game.Frame(); err != nil {
			log.Printf("frame: %v", err)
		}

		l.window.SwapBuffers()
		l.input.PostUpdate()
		glfw.PollEvents()

		l.frames++
		if time.Since(l.lastFPSCheckTime) >= time.Second {
			l.window.SetTitle(fmt.Sprintf("voxel overlays | FPS: %d", l.frames))
			l.frames = 0
			l.lastFPSCheckTime = time.Now()
		}

		l.limiter.Wait()
	}
}

func (l *Loop) handleInput(dt float32) {
	im := l.input
	if im.JustPressed(input.ActionQuit) {
		l.window.SetShouldClose(true)
	}
	if im.JustPressed(input.ActionToggleOverlay) {
		log.Printf("overlays visible: %v", config.ToggleOverlay())
	}
	if l.decals != nil {
		if im.JustPressed(input.ActionCycleDecal) {
			l.cycleDecal()
		}
		if im.JustPressed(input.ActionRemoveDecal) && l.decals.Remove(demoDecal) {
			if err := l.decals.Update(); err != nil {
				log.Printf("decals: %v", err)
			}
		}
	}
	if l.camera != nil {
		l.moveCamera(dt)
	}
}

// cycleDecal swaps the texture of the decal on top of the demo block.
func (l *Loop) cycleDecal() {
	l.cycle = (l.cycle + 1) % len(decalTextures)
	l.decals.Change(decal.Placement{
		Position: demoDecal,
		Normal:   [3]int{0, 1, 0},
		Texture:  decalTextures[l.cycle],
	})
	if err := l.decals.Update(); err != nil {
		log.Printf("decals: %v", err)
	}
}

func (l *Loop) moveCamera(dt float32) {
	im, c := l.input, l.camera

	var yaw, pitch float32
	if im.IsActive(input.ActionLookLeft) {
		yaw -= turnSpeed * dt
	}
	if im.IsActive(input.ActionLookRight) {
		yaw += turnSpeed * dt
	}
	if im.IsActive(input.ActionLookUp) {
		pitch += turnSpeed * dt
	}
	if im.IsActive(input.ActionLookDown) {
		pitch -= turnSpeed * dt
	}
	c.Rotate(yaw, pitch)

	front := c.Front()
	front[1] = 0
	if front.Len() > 0 {
		front = front.Normalize()
	}
	right := front.Cross(mgl32.Vec3{0, 1, 0})
	step := moveSpeed * dt

	if im.IsActive(input.ActionMoveForward) {
		c.Position = c.Position.Add(front.Mul(step))
	}
	if im.IsActive(input.ActionMoveBackward) {
		c.Position = c.Position.Sub(front.Mul(step))
	}
	if im.IsActive(input.ActionMoveRight) {
		c.Position = c.Position.Add(right.Mul(step))
	}
	if im.IsActive(input.ActionMoveLeft) {
		c.Position = c.Position.Sub(right.Mul(step))
	}
	if im.IsActive(input.ActionMoveUp) {
		c.Position[1] += step
	}
	if im.IsActive(input.ActionMoveDown) {
		c.Position[1] -= step
	}
}
