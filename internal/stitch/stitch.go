// Package stitch is the voxel-stitch collaborator. It stitches registered
// textures into one GL texture and tells dependents whenever the tile
// coordinates change.
package stitch

import (
	"errors"
	"fmt"
	"image"
	"log"

	"voxel-overlays/internal/atlas"
	"voxel-overlays/internal/geom"
	"voxel-overlays/internal/graphics"
	"voxel-overlays/internal/host"
	"voxel-overlays/internal/profiling"
)

// Options configures where tiles come from. With Watch set, PNGs written
// to Dir are restitched on the next frame.
type Options struct {
	Dir      string `yaml:"dir"`
	TileSize int    `yaml:"tile_size"`
	Watch    bool   `yaml:"watch"`
}

// DefaultOptions uses 16 pixel tiles and no texture directory.
func DefaultOptions() Options {
	return Options{TileSize: 16}
}

type rebuildListener struct {
	id host.ListenerID
	fn host.Handler
}

// Stitcher owns the atlas texture.
type Stitcher struct {
	shell    *host.Shell
	tileSize int

	sources []atlas.Source
	tiles   map[string]geom.TileUV
	texture uint32

	listeners []rebuildListener
	nextID    host.ListenerID

	dir      string
	watcher  *dirWatcher
	initID   host.ListenerID
	renderID host.ListenerID
	enabled  bool

	upload  func(id uint32, img *image.RGBA) uint32
	bind    func(id, unit uint32)
	destroy func(id uint32)
}

// New creates a stitcher. Sources are stitched on gl-init.
func New(shell *host.Shell, opts Options, sources []atlas.Source) *Stitcher {
	if opts.TileSize <= 0 {
		opts.TileSize = DefaultOptions().TileSize
	}
	s := &Stitcher{
		shell:    shell,
		tileSize: opts.TileSize,
		dir:      opts.Dir,
		sources:  sources,
		tiles:    make(map[string]geom.TileUV),
		upload:   graphics.UploadTexture,
		bind:     graphics.BindTexture,
		destroy:  graphics.DeleteTexture,
	}
	s.Enable()
	return s
}

// Factory registers the stitcher under host.StitchName, loading tiles
// from the configured directory if there is one.
func Factory() host.Factory {
	return host.Factory{
		Name: host.StitchName,
		New: func(g *host.Game, dec host.OptionDecoder) (host.Plugin, error) {
			opts := DefaultOptions()
			if err := dec.Decode(&opts); err != nil {
				return nil, err
			}
			var sources []atlas.Source
			if opts.Dir != "" {
				var err error
				if sources, err = atlas.LoadDir(opts.Dir); err != nil {
					return nil, err
				}
			}
			s := New(g.Shell, opts, sources)
			if opts.Watch && opts.Dir != "" {
				if err := s.Watch(); err != nil {
					return nil, err
				}
			}
			return s, nil
		},
	}
}

func (s *Stitcher) Name() string { return host.StitchName }

// Enable stitches on gl-init and checks the watched directory every frame.
func (s *Stitcher) Enable() {
	if s.enabled {
		return
	}
	s.initID = s.shell.On(host.EventInit, func() error {
		if len(s.sources) == 0 {
			return nil
		}
		return s.Rebuild()
	})
	s.renderID = s.shell.On(host.EventRender, s.reloadIfChanged)
	s.enabled = true
}

func (s *Stitcher) Disable() {
	if !s.enabled {
		return
	}
	s.shell.RemoveListener(host.EventInit, s.initID)
	s.shell.RemoveListener(host.EventRender, s.renderID)
	s.enabled = false
}

// Close stops watching and deletes the atlas texture.
func (s *Stitcher) Close() error {
	s.Disable()
	if s.watcher != nil {
		s.watcher.Close()
		s.watcher = nil
	}
	s.destroy(s.texture)
	s.texture = 0
	s.listeners = nil
	return nil
}

// AddTexture queues a tile for the next Rebuild. A tile with the same
// name replaces the queued one.
func (s *Stitcher) AddTexture(name string, img image.Image) {
	for i := range s.sources {
		if s.sources[i].Name == name {
			s.sources[i].Image = img
			return
		}
	}
	s.sources = append(s.sources, atlas.Source{Name: name, Image: img})
}

// Rebuild stitches every queued tile, replaces the texture contents and
// notifies rebuild listeners in registration order. Every listener runs
// even when an earlier one fails; their errors are joined.
func (s *Stitcher) Rebuild() error {
	defer profiling.Track("stitch.Rebuild")()

	sheet, err := atlas.Stitch(s.sources, s.tileSize)
	if err != nil {
		return fmt.Errorf("rebuild atlas: %w", err)
	}
	s.texture = s.upload(s.texture, sheet.Image)
	s.tiles = sheet.Tiles
	log.Printf("stitched %d textures into %dx%d atlas", len(sheet.Tiles), sheet.Image.Rect.Dx(), sheet.Image.Rect.Dy())

	var errs []error
	ls := append([]rebuildListener(nil), s.listeners...)
	for _, l := range ls {
		if err := l.fn(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// TextureUV returns the tile for name from the last rebuild.
func (s *Stitcher) TextureUV(name string) (geom.TileUV, bool) {
	uv, ok := s.tiles[name]
	return uv, ok
}

// OnRebuild registers fn to run after every successful rebuild.
func (s *Stitcher) OnRebuild(fn host.Handler) host.ListenerID {
	s.nextID++
	s.listeners = append(s.listeners, rebuildListener{id: s.nextID, fn: fn})
	return s.nextID
}

// RemoveRebuildListener detaches a listener registered with OnRebuild.
func (s *Stitcher) RemoveRebuildListener(id host.ListenerID) bool {
	for i, l := range s.listeners {
		if l.id == id {
			s.listeners = append(s.listeners[:i:i], s.listeners[i+1:]...)
			return true
		}
	}
	return false
}

// Bind binds the atlas texture to the given unit.
func (s *Stitcher) Bind(unit uint32) {
	s.bind(s.texture, unit)
}

// Watch starts watching the texture directory for changed PNGs.
func (s *Stitcher) Watch() error {
	if s.watcher != nil {
		return nil
	}
	if s.dir == "" {
		return fmt.Errorf("stitch: no texture dir to watch")
	}
	w, err := watchDir(s.dir)
	if err != nil {
		return err
	}
	s.watcher = w
	return nil
}

// reloadIfChanged reloads the texture directory after a change. Failures
// are logged and the current atlas stays in use.
func (s *Stitcher) reloadIfChanged() error {
	if s.watcher == nil || !s.watcher.Changed() {
		return nil
	}
	sources, err := atlas.LoadDir(s.dir)
	if err != nil {
		log.Printf("stitch: reload: %v", err)
		return nil
	}
	for _, src := range sources {
		s.AddTexture(src.Name, src.Image)
	}
	if err := s.Rebuild(); err != nil {
		log.Printf("stitch: reload: %v", err)
	}
	return nil
}
