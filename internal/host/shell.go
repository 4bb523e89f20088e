package host

import "fmt"

// Event names emitted by the shell.
type Event string

const (
	// EventInit fires once, after the GL context is current.
	EventInit Event = "gl-init"
	// EventRender fires once per frame.
	EventRender Event = "gl-render"
	// EventResize fires when the framebuffer size changes.
	EventResize Event = "gl-resize"
)

// Handler reacts to a shell event.
type Handler func() error

// ListenerID identifies a registered handler so it can be removed later.
type ListenerID uint64

type listener struct {
	id ListenerID
	fn Handler
}

// Shell dispatches lifecycle events to plugin handlers.
// Handlers run in registration order on the caller's goroutine.
type Shell struct {
	listeners map[Event][]listener
	nextID    ListenerID

	Width  int
	Height int
}

// NewShell creates a shell for a framebuffer of the given size.
func NewShell(width, height int) *Shell {
	return &Shell{
		listeners: make(map[Event][]listener),
		Width:     width,
		Height:    height,
	}
}

// On registers fn for ev and returns an id for RemoveListener.
func (s *Shell) On(ev Event, fn Handler) ListenerID {
	s.nextID++
	s.listeners[ev] = append(s.listeners[ev], listener{id: s.nextID, fn: fn})
	return s.nextID
}

// RemoveListener detaches a handler. It reports whether the id was registered for ev.
func (s *Shell) RemoveListener(ev Event, id ListenerID) bool {
	ls := s.listeners[ev]
	for i, l := range ls {
		if l.id == id {
			s.listeners[ev] = append(ls[:i:i], ls[i+1:]...)
			return true
		}
	}
	return false
}

// ListenerCount returns the number of handlers registered for ev.
func (s *Shell) ListenerCount(ev Event) int {
	return len(s.listeners[ev])
}

// Emit runs every handler for ev, stopping at the first error.
func (s *Shell) Emit(ev Event) error {
	// handlers may detach themselves while running
	ls := append([]listener(nil), s.listeners[ev]...)
	for _, l := range ls {
		if err := l.fn(); err != nil {
			return fmt.Errorf("%s: %w", ev, err)
		}
	}
	return nil
}

// Resize records the new framebuffer size and emits EventResize.
func (s *Shell) Resize(width, height int) error {
	if width <= 0 || height <= 0 {
		return nil
	}
	s.Width, s.Height = width, height
	return s.Emit(EventResize)
}
