package alias

// Set is an ordered collection of resolved endpoints keyed by name.
// Keys are unique; the first insertion of a name wins.
type Set struct {
	names   []string
	entries map[string]Fields
}

// NewSet creates an empty set.
func NewSet() *Set {
	return &Set{entries: make(map[string]Fields)}
}

// add inserts f under name unless name is already present.
func (s *Set) add(name string, f Fields) bool {
	if _, ok := s.entries[name]; ok {
		return false
	}
	s.names = append(s.names, name)
	s.entries[name] = f
	return true
}

// Has reports whether name is in the set.
func (s *Set) Has(name string) bool {
	_, ok := s.entries[name]
	return ok
}

// Get returns the fields stored under name.
func (s *Set) Get(name string) (Fields, bool) {
	f, ok := s.entries[name]
	return f, ok
}

// Names returns the keys in insertion order.
func (s *Set) Names() []string {
	return append([]string(nil), s.names...)
}

// Entries returns the fields in insertion order.
func (s *Set) Entries() []Fields {
	out := make([]Fields, len(s.names))
	for i, n := range s.names {
		out[i] = s.entries[n]
	}
	return out
}

// Len returns the number of entries.
func (s *Set) Len() int {
	return len(s.names)
}
