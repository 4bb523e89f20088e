package main

import (
	"flag"
	"log"
	"runtime"

	"voxel-overlays/internal/config"
	"voxel-overlays/internal/graphics/renderables/decals"
	"voxel-overlays/internal/graphics/renderables/outline"
	"voxel-overlays/internal/graphics/renderables/planes"
	"voxel-overlays/internal/host"
	"voxel-overlays/internal/input"
	"voxel-overlays/internal/mesher"
	"voxel-overlays/internal/shaderstate"
	"voxel-overlays/internal/stitch"

	"github.com/fatih/color"
	"github.com/go-gl/glfw/v3.3/glfw"
)

var argConfigFile = flag.String("c", "", "config file path")

func init() {
	runtime.LockOSThread()
}

// factories lists every plugin the demo knows how to build.
// The config decides which of them are loaded.
func factories() []host.Factory {
	return []host.Factory{
		outline.Factory(),
		planes.Factory(),
		decals.Factory(),
		mesher.Factory(),
		shaderstate.Factory(),
		stitch.Factory(),
	}
}

func main() {
	flag.Parse()

	cfg := config.Default()
	if *argConfigFile != "" {
		var err error
		if cfg, err = config.Load(*argConfigFile); err != nil {
			panic(err)
		}
	}

	if err := glfw.Init(); err != nil {
		panic(err)
	}
	defer glfw.Terminate()

	window, err := setupWindow(cfg.Window)
	if err != nil {
		panic(err)
	}
	setupGL()

	fbWidth, fbHeight := window.GetFramebufferSize()
	game := host.NewGame(fbWidth, fbHeight)

	var enabled []host.Factory
	for _, f := range factories() {
		if cfg.Enabled(f.Name) {
			enabled = append(enabled, f)
		}
	}
	color.Blue("Loading %d plugins...", len(enabled))
	if err := game.Load(enabled, cfg.Options); err != nil {
		panic(color.New(color.FgRed).Sprintf("plugin load failed: %v", err))
	}
	defer func() {
		if err := game.Close(); err != nil {
			log.Printf("close: %v", err)
		}
	}()
	color.Green("Plugins loaded: %v", game.Plugins.Names())

	if s, err := host.Require[*stitch.Stitcher](game.Plugins, host.StitchName, "overlays-demo"); err == nil {
		for _, src := range demoTextures(16) {
			s.AddTexture(src.Name, src.Image)
		}
	}

	if err := game.Init(); err != nil {
		panic(err)
	}

	im := input.NewManager()
	loop := NewLoop(window, game, im, cfg.Window.FPS)
	setupInputHandlers(window, game, im)
	loop.Run()
}
