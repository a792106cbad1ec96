package rendercore

// Store is the scene: every shape keyed by ID. It owns the Shape values;
// children refer to other entries by ID.
//
// A Store is not safe for concurrent use.
type Store struct {
	shapes   map[ID]*Shape
	order    []ID
	revision uint64
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{shapes: make(map[ID]*Shape)}
}

// Get returns the shape with the given ID.
func (st *Store) Get(id ID) (*Shape, bool) {
	s, ok := st.shapes[id]
	return s, ok
}

// GetOrCreate returns the shape with the given ID, creating an empty one if
// it does not exist yet.
func (st *Store) GetOrCreate(id ID) *Shape {
	if s, ok := st.shapes[id]; ok {
		return s
	}
	s := NewShape(id)
	st.shapes[id] = s
	st.order = append(st.order, id)
	st.revision++
	return s
}

// Len returns the number of shapes.
func (st *Store) Len() int {
	return len(st.shapes)
}

// Each calls fn for every shape in insertion order until fn returns false.
func (st *Store) Each(fn func(*Shape) bool) {
	for _, id := range st.order {
		if !fn(st.shapes[id]) {
			return
		}
	}
}

// Revision returns a counter that changes whenever the scene changes.
func (st *Store) Revision() uint64 {
	return st.revision
}

// Touch records a mutation made through a *Shape obtained from the store.
func (st *Store) Touch() {
	st.revision++
}

// roots returns the IDs a render walk starts from: RootID alone when it
// exists, otherwise every shape not referenced as a child, in insertion
// order. A component reachable only through a cycle has no such shape; its
// first shape in insertion order becomes a root.
func (st *Store) roots() []ID {
	if _, ok := st.shapes[RootID]; ok {
		return []ID{RootID}
	}
	referenced := make(map[ID]struct{})
	for _, s := range st.shapes {
		for _, c := range s.Children {
			if c != s.ID {
				referenced[c] = struct{}{}
			}
		}
	}
	out := make([]ID, 0, len(st.order))
	for _, id := range st.order {
		if _, ok := referenced[id]; !ok {
			out = append(out, id)
		}
	}
	if len(referenced) == 0 {
		return out
	}

	reached := make(map[ID]struct{}, len(st.shapes))
	for _, id := range out {
		st.reach(id, reached)
	}
	for _, id := range st.order {
		if _, ok := reached[id]; !ok {
			out = append(out, id)
			st.reach(id, reached)
		}
	}
	return out
}

// reach adds every shape reachable from id to reached.
func (st *Store) reach(id ID, reached map[ID]struct{}) {
	stack := []ID{id}
	for len(stack) > 0 {
		id = stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if _, ok := reached[id]; ok {
			continue
		}
		s, ok := st.shapes[id]
		if !ok {
			continue
		}
		reached[id] = struct{}{}
		stack = append(stack, s.Children...)
	}
}
