package alias

// Store is the read-only view of configured aliases.
type Store interface {
	// Lookup returns the definition for name.
	Lookup(name string) (Definition, bool)

	// Names returns top-level alias names in their configured order.
	Names() []string
}

// MapStore is an ordered in-memory Store.
type MapStore struct {
	names []string
	defs  map[string]Definition
}

// NewMapStore creates an empty store.
func NewMapStore() *MapStore {
	return &MapStore{defs: make(map[string]Definition)}
}

// Add registers def under name. Re-adding a name replaces its definition
// and keeps its original position.
func (s *MapStore) Add(name string, def Definition) *MapStore {
	if _, ok := s.defs[name]; !ok {
		s.names = append(s.names, name)
	}
	s.defs[name] = def
	return s
}

// Lookup implements Store.
func (s *MapStore) Lookup(name string) (Definition, bool) {
	def, ok := s.defs[name]
	return def, ok
}

// Names implements Store.
func (s *MapStore) Names() []string {
	return append([]string(nil), s.names...)
}

// Len returns the number of aliases in the store.
func (s *MapStore) Len() int {
	return len(s.names)
}

// Merge adds every alias of other into s, letting other win on conflicts.
func (s *MapStore) Merge(other *MapStore) *MapStore {
	if other == nil {
		return s
	}
	for _, name := range other.names {
		s.Add(name, other.defs[name])
	}
	return s
}
