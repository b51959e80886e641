package deck

import "slices"

// SlideID identifies a slide within a deck. The zero value means "no slide".
type SlideID string

// None is the absent slide id.
const None SlideID = ""

// Registry holds the ordered, unique ids of the slides attached to a deck.
// Order is attachment order until Reorder replaces it; navigation never
// reorders it.
type Registry struct {
	order []SlideID
}

// NewRegistry creates a new empty registry
func NewRegistry() *Registry {
	return &Registry{
		order: make([]SlideID, 0),
	}
}

// Register appends id to the registry.
// Returns a *DuplicateSlideError if id is already present.
func (r *Registry) Register(id SlideID) error {
	if id == None {
		return ErrEmptySlideID
	}
	if r.Contains(id) {
		return &DuplicateSlideError{ID: id}
	}
	r.order = append(r.order, id)
	return nil
}

// Reorder replaces the order with ids, which must list every registered id
// exactly once.
func (r *Registry) Reorder(ids []SlideID) error {
	if len(ids) != len(r.order) {
		return ErrOrderMismatch
	}
	seen := make(map[SlideID]bool, len(ids))
	for _, id := range ids {
		if seen[id] || !r.Contains(id) {
			return ErrOrderMismatch
		}
		seen[id] = true
	}
	r.order = slices.Clone(ids)
	return nil
}

// Unregister removes id from the registry. Returns false when id was not
// registered; unregistering twice during teardown is not an error.
func (r *Registry) Unregister(id SlideID) bool {
	i := r.IndexOf(id)
	if i < 0 {
		return false
	}
	r.order = slices.Delete(r.order, i, i+1)
	return true
}

// IndexOf returns the position of id, or -1 if it is not registered.
func (r *Registry) IndexOf(id SlideID) int {
	return slices.Index(r.order, id)
}

// Contains reports whether id is registered.
func (r *Registry) Contains(id SlideID) bool {
	return r.IndexOf(id) >= 0
}

// At returns the id at position i, or None when i is out of range.
func (r *Registry) At(i int) SlideID {
	if i < 0 || i >= len(r.order) {
		return None
	}
	return r.order[i]
}

// First returns the first registered id, or None when empty.
func (r *Registry) First() SlideID {
	return r.At(0)
}

// Last returns the last registered id, or None when empty.
func (r *Registry) Last() SlideID {
	return r.At(len(r.order) - 1)
}

// Len returns the number of registered slides.
func (r *Registry) Len() int {
	return len(r.order)
}

// IDs returns a copy of the registered ids in order.
func (r *Registry) IDs() []SlideID {
	return slices.Clone(r.order)
}
