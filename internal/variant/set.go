package variant

import "sort"

// Set holds variant keys with equivalence semantics: adding a key equivalent
// to a member is a no-op.
type Set struct {
	items map[string]Key
}

// NewSet creates a Set populated with keys
func NewSet(keys ...Key) *Set {
	s := &Set{items: make(map[string]Key, len(keys))}
	for _, k := range keys {
		s.Add(k)
	}
	return s
}

// Add inserts k and reports whether it was new
func (s *Set) Add(k Key) bool {
	if s.items == nil {
		s.items = make(map[string]Key)
	}
	id := k.ID()
	if _, ok := s.items[id]; ok {
		return false
	}
	s.items[id] = k
	return true
}

// Contains reports whether an equivalent key is a member
func (s *Set) Contains(k Key) bool {
	if s == nil {
		return false
	}
	_, ok := s.items[k.ID()]
	return ok
}

// Len returns the number of distinct variants
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.items)
}

// Keys returns the members ordered by canonical ID
func (s *Set) Keys() []Key {
	if s == nil {
		return nil
	}
	ids := make([]string, 0, len(s.items))
	for id := range s.items {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	keys := make([]Key, 0, len(ids))
	for _, id := range ids {
		keys = append(keys, s.items[id])
	}
	return keys
}
