package host

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingCollaborator is returned when a plugin's required collaborator is not loaded.
	ErrMissingCollaborator = errors.New("missing collaborator")
	// ErrDuplicatePlugin is returned when two plugins register under one name.
	ErrDuplicatePlugin = errors.New("duplicate plugin")
	// ErrDependencyCycle is returned when LoadAfter declarations form a cycle.
	ErrDependencyCycle = errors.New("plugin load order cycle")
)

// Plugin is the lifecycle every registered plugin implements.
// Enable attaches the plugin's event listeners and Disable detaches them;
// Close disables the plugin and releases whatever GPU resources it owns.
type Plugin interface {
	Name() string
	Enable()
	Disable()
	Close() error
}

// Registry holds loaded plugins by name.
type Registry struct {
	byName map[string]Plugin
	order  []string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]Plugin)}
}

// Register adds p under p.Name().
func (r *Registry) Register(p Plugin) error {
	name := p.Name()
	if _, ok := r.byName[name]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicatePlugin, name)
	}
	r.byName[name] = p
	r.order = append(r.order, name)
	return nil
}

// Get looks up a plugin by name.
func (r *Registry) Get(name string) (Plugin, bool) {
	p, ok := r.byName[name]
	return p, ok
}

// Names returns plugin names in registration order.
func (r *Registry) Names() []string {
	return append([]string(nil), r.order...)
}

// Close closes every plugin in reverse registration order.
func (r *Registry) Close() error {
	var errs []error
	for i := len(r.order) - 1; i >= 0; i-- {
		name := r.order[i]
		if err := r.byName[name].Close(); err != nil {
			errs = append(errs, fmt.Errorf("close %s: %w", name, err))
		}
		delete(r.byName, name)
	}
	r.order = nil
	return errors.Join(errs...)
}

// Require resolves the plugin registered as name and asserts that it
// provides capability T. requester names the plugin asking, for the error.
func Require[T any](r *Registry, name, requester string) (T, error) {
	var zero T
	p, ok := r.Get(name)
	if !ok {
		return zero, fmt.Errorf("%w: %s requires %s", ErrMissingCollaborator, requester, name)
	}
	c, ok := p.(T)
	if !ok {
		return zero, fmt.Errorf("%w: %s requires %s, but %T does not provide it", ErrMissingCollaborator, requester, name, p)
	}
	return c, nil
}
