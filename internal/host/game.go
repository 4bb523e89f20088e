package host

import (
	"errors"
	"fmt"
	"log"
	"time"

	"voxel-overlays/internal/profiling"
)

// slowFrame is the frame time above which the top per-frame timings are logged.
const slowFrame = 16 * time.Millisecond

// OptionDecoder decodes a plugin's construction options into v.
// *yaml.Node satisfies it.
type OptionDecoder interface {
	Decode(v any) error
}

type noOptions struct{}

func (noOptions) Decode(any) error { return nil }

// NoOptions leaves every option at its default.
var NoOptions OptionDecoder = noOptions{}

// Factory constructs a plugin. LoadAfter names plugins that must be
// constructed first when they are part of the same load.
type Factory struct {
	Name      string
	LoadAfter []string
	New       func(g *Game, opts OptionDecoder) (Plugin, error)
}

// Game ties the event shell to the plugin registry.
type Game struct {
	Shell   *Shell
	Plugins *Registry
}

// NewGame creates a game with an empty registry.
func NewGame(width, height int) *Game {
	return &Game{
		Shell:   NewShell(width, height),
		Plugins: NewRegistry(),
	}
}

// LoadOrder sorts factories so that every plugin follows the plugins it
// loads after. Factories without constraints keep their relative order.
// LoadAfter names that are not being loaded are ignored.
func LoadOrder(factories []Factory) ([]Factory, error) {
	byName := make(map[string]int, len(factories))
	for i, f := range factories {
		if _, ok := byName[f.Name]; ok {
			return nil, fmt.Errorf("%w: %s", ErrDuplicatePlugin, f.Name)
		}
		byName[f.Name] = i
	}

	const (
		unvisited = iota
		visiting
		done
	)
	state := make([]int, len(factories))
	out := make([]Factory, 0, len(factories))

	var visit func(i int, path []string) error
	visit = func(i int, path []string) error {
		switch state[i] {
		case done:
			return nil
		case visiting:
			return fmt.Errorf("%w: %v", ErrDependencyCycle, append(path, factories[i].Name))
		}
		state[i] = visiting
		path = append(path, factories[i].Name)
		for _, dep := range factories[i].LoadAfter {
			j, ok := byName[dep]
			if !ok {
				continue
			}
			if err := visit(j, path); err != nil {
				return err
			}
		}
		state[i] = done
		out = append(out, factories[i])
		return nil
	}

	for i := range factories {
		if err := visit(i, nil); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Load constructs and registers the given plugins in load order.
// options supplies each plugin's option decoder; nil means defaults for all.
// Construction stops at the first failure.
func (g *Game) Load(factories []Factory, options func(name string) OptionDecoder) error {
	ordered, err := LoadOrder(factories)
	if err != nil {
		return err
	}
	for _, f := range ordered {
		opts := NoOptions
		if options != nil {
			if o := options(f.Name); o != nil {
				opts = o
			}
		}
		p, err := f.New(g, opts)
		if err != nil {
			return fmt.Errorf("load %s: %w", f.Name, err)
		}
		if err := g.Plugins.Register(p); err != nil {
			return errors.Join(err, p.Close())
		}
		log.Printf("loaded plugin %s", f.Name)
	}
	return nil
}

// Init emits EventInit. Plugins compile shaders and build their first meshes here.
func (g *Game) Init() error {
	return g.Shell.Emit(EventInit)
}

// Frame emits EventRender once and logs the most expensive handlers of slow frames.
func (g *Game) Frame() error {
	profiling.ResetFrame()
	start := time.Now()
	err := g.Shell.Emit(EventRender)
	if d := time.Since(start); d > slowFrame {
		log.Printf("Slow frame: %v. Top tasks: %s", d, profiling.TopN(5))
	}
	return err
}

// Close tears down every plugin in reverse load order.
func (g *Game) Close() error {
	return g.Plugins.Close()
}
