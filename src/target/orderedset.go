package target

// OrderedSet keeps the first value added under each key and remembers
// insertion order.
type OrderedSet[K comparable, V any] struct {
	index  map[K]struct{}
	values []V
}

// NewOrderedSet returns an empty set.
func NewOrderedSet[K comparable, V any]() *OrderedSet[K, V] {
	return &OrderedSet[K, V]{index: make(map[K]struct{})}
}

// Add inserts v under key unless the key is already present.
// It reports whether v was inserted.
func (s *OrderedSet[K, V]) Add(key K, v V) bool {
	if _, ok := s.index[key]; ok {
		return false
	}
	s.index[key] = struct{}{}
	s.values = append(s.values, v)
	return true
}

// Len returns the number of distinct keys.
func (s *OrderedSet[K, V]) Len() int {
	return len(s.values)
}

// Values returns the kept values in insertion order.
func (s *OrderedSet[K, V]) Values() []V {
	return append([]V(nil), s.values...)
}
