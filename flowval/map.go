package flowval

// Entry is a single key / value pair in a Map.
type Entry struct {
	Key   string
	Value any
}

// Map is a mapping that preserves the order in which keys were first
// set. Setting an existing key updates its value in place.
type Map struct {
	entries []Entry
}

func NewMap() *Map {
	return &Map{}
}

// Len returns the number of entries.
func (m *Map) Len() int {
	return len(m.entries)
}

// Get returns the value for key and whether the key is present.
func (m *Map) Get(key string) (any, bool) {
	for _, e := range m.entries {
		if e.Key == key {
			return e.Value, true
		}
	}
	return nil, false
}

// Set adds a key / value pair or updates an existing key in place.
func (m *Map) Set(key string, value any) {
	for i := range m.entries {
		if m.entries[i].Key == key {
			m.entries[i].Value = value
			return
		}
	}
	m.entries = append(m.entries, Entry{Key: key, Value: value})
}

// Keys returns the keys in first-set order.
func (m *Map) Keys() []string {
	res := make([]string, len(m.entries))
	for i, e := range m.entries {
		res[i] = e.Key
	}
	return res
}

// Entries returns the key / value pairs in first-set order. The slice
// is the Map's own storage, callers must not modify it.
func (m *Map) Entries() []Entry {
	return m.entries
}
