package decal

// Placement anchors one decal to one block face. Texture names an atlas
// tile; it is ignored when the decals are drawn untextured.
type Placement struct {
	Position [3]int `yaml:"position"`
	Normal   [3]int `yaml:"normal"`
	Texture  string `yaml:"texture,omitempty"`
}

// Registry is the ordered list of placements a decal mesh is built from.
// Lookups are linear scans; duplicate positions are allowed.
type Registry struct {
	items []Placement
	dirty bool
}

// NewRegistry creates a registry holding a copy of initial.
func NewRegistry(initial ...Placement) *Registry {
	return &Registry{items: append([]Placement(nil), initial...), dirty: true}
}

// Add appends p.
func (r *Registry) Add(p Placement) {
	r.items = append(r.items, p)
	r.dirty = true
}

// Remove deletes the first placement at pos and reports whether one was found.
func (r *Registry) Remove(pos [3]int) bool {
	for i := range r.items {
		if r.items[i].Position == pos {
			r.items = append(r.items[:i], r.items[i+1:]...)
			r.dirty = true
			return true
		}
	}
	return false
}

// Change replaces the first placement at p.Position with p, moving it to the end.
func (r *Registry) Change(p Placement) {
	r.Remove(p.Position)
	r.Add(p)
}

// Reset drops every placement.
func (r *Registry) Reset() {
	r.items = r.items[:0]
	r.dirty = true
}

// Len returns the number of placements.
func (r *Registry) Len() int {
	return len(r.items)
}

// All returns a copy of the placements in order.
func (r *Registry) All() []Placement {
	return append([]Placement(nil), r.items...)
}

// Find returns the first placement at pos.
func (r *Registry) Find(pos [3]int) (Placement, bool) {
	for _, p := range r.items {
		if p.Position == pos {
			return p, true
		}
	}
	return Placement{}, false
}

// Dirty reports whether the registry changed since the last MarkClean.
func (r *Registry) Dirty() bool {
	return r.dirty
}

// MarkClean records that a mesh was built from the current contents.
func (r *Registry) MarkClean() {
	r.dirty = false
}
