package host

import (
	"errors"
	"strings"
	"testing"
)

type stubPlugin struct {
	name    string
	closed  *[]string
	enabled bool
	value   string
	failure error
}

func (p *stubPlugin) Name() string { return p.name }
func (p *stubPlugin) Enable()      { p.enabled = true }
func (p *stubPlugin) Disable()     { p.enabled = false }
func (p *stubPlugin) Close() error {
	p.Disable()
	if p.closed != nil {
		*p.closed = append(*p.closed, p.name)
	}
	return p.failure
}

type greeter interface{ Greet() string }

type greeterPlugin struct{ stubPlugin }

func (g *greeterPlugin) Greet() string { return "hello from " + g.name }

func TestShellEmitOrderAndRemove(t *testing.T) {
	s := NewShell(900, 600)
	var got []string
	s.On(EventRender, func() error { got = append(got, "a"); return nil })
	id := s.On(EventRender, func() error { got = append(got, "b"); return nil })
	s.On(EventRender, func() error { got = append(got, "c"); return nil })

	if err := s.Emit(EventRender); err != nil {
		t.Fatalf("Emit: %v", err)
	}
	if strings.Join(got, "") != "abc" {
		t.Fatalf("handlers ran as %v, want a b c", got)
	}

	if !s.RemoveListener(EventRender, id) {
		t.Fatalf("RemoveListener returned false for a registered id")
	}
	if s.RemoveListener(EventRender, id) {
		t.Fatalf("RemoveListener returned true twice")
	}
	if s.RemoveListener(EventInit, 1) {
		t.Fatalf("RemoveListener removed an id from the wrong event")
	}

	got = nil
	s.Emit(EventRender)
	if strings.Join(got, "") != "ac" {
		t.Fatalf("after remove handlers ran as %v, want a c", got)
	}
}

func TestShellEmitStopsOnError(t *testing.T) {
	s := NewShell(1, 1)
	boom := errors.New("boom")
	ran := false
	s.On(EventInit, func() error { return boom })
	s.On(EventInit, func() error { ran = true; return nil })

	err := s.Emit(EventInit)
	if !errors.Is(err, boom) {
		t.Fatalf("Emit error = %v, want boom", err)
	}
	if !strings.Contains(err.Error(), string(EventInit)) {
		t.Errorf("error %q does not name the event", err)
	}
	if ran {
		t.Errorf("handler after the failing one ran")
	}
}

func TestShellHandlerCanDetachItself(t *testing.T) {
	s := NewShell(1, 1)
	count := 0
	var id ListenerID
	id = s.On(EventRender, func() error {
		count++
		s.RemoveListener(EventRender, id)
		return nil
	})
	s.Emit(EventRender)
	s.Emit(EventRender)
	if count != 1 {
		t.Fatalf("handler ran %d times, want 1", count)
	}
	if s.ListenerCount(EventRender) != 0 {
		t.Fatalf("listener still registered")
	}
}

func TestShellResize(t *testing.T) {
	s := NewShell(900, 600)
	fired := 0
	s.On(EventResize, func() error { fired++; return nil })
	s.Resize(0, 100)
	if fired != 0 || s.Width != 900 {
		t.Fatalf("zero-size resize was applied")
	}
	s.Resize(1280, 720)
	if fired != 1 || s.Width != 1280 || s.Height != 720 {
		t.Fatalf("resize not applied: fired=%d size=%dx%d", fired, s.Width, s.Height)
	}
}

func TestRequire(t *testing.T) {
	r := NewRegistry()
	if err := r.Register(&greeterPlugin{stubPlugin{name: "greeter"}}); err != nil {
		t.Fatal(err)
	}
	r.Register(&stubPlugin{name: "plain"})

	g, err := Require[greeter](r, "greeter", "test")
	if err != nil {
		t.Fatalf("Require: %v", err)
	}
	if g.Greet() != "hello from greeter" {
		t.Errorf("Greet = %q", g.Greet())
	}

	_, err = Require[greeter](r, "absent", "voxel-decals")
	if !errors.Is(err, ErrMissingCollaborator) {
		t.Fatalf("got %v, want ErrMissingCollaborator", err)
	}
	if !strings.Contains(err.Error(), "voxel-decals requires absent") {
		t.Errorf("error %q does not name requester and collaborator", err)
	}

	if _, err := Require[greeter](r, "plain", "test"); !errors.Is(err, ErrMissingCollaborator) {
		t.Fatalf("wrong capability: got %v, want ErrMissingCollaborator", err)
	}
}

func TestRegistryDuplicateAndClose(t *testing.T) {
	var closed []string
	r := NewRegistry()
	for _, n := range []string{"a", "b", "c"} {
		if err := r.Register(&stubPlugin{name: n, closed: &closed}); err != nil {
			t.Fatal(err)
		}
	}
	if err := r.Register(&stubPlugin{name: "b"}); !errors.Is(err, ErrDuplicatePlugin) {
		t.Fatalf("got %v, want ErrDuplicatePlugin", err)
	}
	if err := r.Close(); err != nil {
		t.Fatal(err)
	}
	if strings.Join(closed, "") != "cba" {
		t.Fatalf("closed in order %v, want c b a", closed)
	}
	if _, ok := r.Get("a"); ok {
		t.Fatalf("plugin still registered after Close")
	}
}

func factory(name string, after ...string) Factory {
	return Factory{
		Name:      name,
		LoadAfter: after,
		New: func(g *Game, opts OptionDecoder) (Plugin, error) {
			return &stubPlugin{name: name}, nil
		},
	}
}

func names(fs []Factory) string {
	var b strings.Builder
	for _, f := range fs {
		b.WriteString(f.Name)
		b.WriteByte(' ')
	}
	return strings.TrimSpace(b.String())
}

func TestLoadOrder(t *testing.T) {
	got, err := LoadOrder([]Factory{
		factory("decals", "mesher", "shader", "stitch"),
		factory("planes", "shader"),
		factory("mesher"),
		factory("shader"),
		factory("stitch", "missing"),
	})
	if err != nil {
		t.Fatal(err)
	}
	if want := "mesher shader stitch decals planes"; names(got) != want {
		t.Fatalf("order %q, want %q", names(got), want)
	}

	_, err = LoadOrder([]Factory{factory("a", "b"), factory("b", "c"), factory("c", "a")})
	if !errors.Is(err, ErrDependencyCycle) {
		t.Fatalf("got %v, want ErrDependencyCycle", err)
	}

	_, err = LoadOrder([]Factory{factory("a"), factory("a")})
	if !errors.Is(err, ErrDuplicatePlugin) {
		t.Fatalf("got %v, want ErrDuplicatePlugin", err)
	}
}

type recordingOptions struct{ value string }

func (o recordingOptions) Decode(v any) error {
	*(v.(*string)) = o.value
	return nil
}

func TestGameLoad(t *testing.T) {
	g := NewGame(10, 10)
	withValue := Factory{
		Name: "configured",
		New: func(g *Game, opts OptionDecoder) (Plugin, error) {
			value := "default"
			if err := opts.Decode(&value); err != nil {
				return nil, err
			}
			return &stubPlugin{name: "configured", value: value}, nil
		},
	}
	needsShader := Factory{
		Name:      "needs-shader",
		LoadAfter: []string{"configured"},
		New: func(g *Game, opts OptionDecoder) (Plugin, error) {
			if _, err := Require[greeter](g.Plugins, ShaderName, "needs-shader"); err != nil {
				return nil, err
			}
			return &stubPlugin{name: "needs-shader"}, nil
		},
	}

	err := g.Load([]Factory{needsShader, withValue}, func(name string) OptionDecoder {
		if name == "configured" {
			return recordingOptions{value: "from config"}
		}
		return nil
	})
	if !errors.Is(err, ErrMissingCollaborator) {
		t.Fatalf("Load error = %v, want ErrMissingCollaborator", err)
	}
	p, ok := g.Plugins.Get("configured")
	if !ok {
		t.Fatalf("configured plugin should load before the failing one")
	}
	if v := p.(*stubPlugin).value; v != "from config" {
		t.Errorf("option value %q, want %q", v, "from config")
	}

	g2 := NewGame(10, 10)
	if err := g2.Load([]Factory{withValue}, nil); err != nil {
		t.Fatal(err)
	}
	p, _ = g2.Plugins.Get("configured")
	if v := p.(*stubPlugin).value; v != "default" {
		t.Errorf("option value %q, want default", v)
	}
}

func TestGameLoadDuplicateReportsCloseError(t *testing.T) {
	g := NewGame(10, 10)
	if err := g.Plugins.Register(&stubPlugin{name: "twice"}); err != nil {
		t.Fatal(err)
	}

	errClose := errors.New("close failed")
	var closed []string
	dup := Factory{
		Name: "twice",
		New: func(g *Game, opts OptionDecoder) (Plugin, error) {
			return &stubPlugin{name: "twice", closed: &closed, failure: errClose}, nil
		},
	}
	err := g.Load([]Factory{dup}, nil)
	if !errors.Is(err, ErrDuplicatePlugin) {
		t.Fatalf("Load error = %v, want ErrDuplicatePlugin", err)
	}
	if !errors.Is(err, errClose) {
		t.Fatalf("Load error = %v, want the close error joined", err)
	}
	if len(closed) != 1 {
		t.Fatalf("rejected plugin closed %d times, want 1", len(closed))
	}
}
