package container

// HashTable is a small wrapper over Go's native map, grounded on
// original_source/Athena/hash_table.h's open-addressed Swiss-table
// design but implemented directly on the builtin map — Go's map already
// provides the open-addressing/SIMD-probing behavior that header hand-
// rolls, so reimplementing it would duplicate, not ground, a library
// the pack never reaches for.
type HashTable[K comparable, V any] struct {
	m map[K]V
}

// NewHashTable constructs a HashTable with capacity as a sizing hint.
func NewHashTable[K comparable, V any](capacity int) *HashTable[K, V] {
	return &HashTable[K, V]{m: make(map[K]V, capacity)}
}

// Insert stores v under k, replacing any value already stored there. It
// returns nothing; read the stored value back with Get.
func (h *HashTable[K, V]) Insert(k K, v V) {
	h.m[k] = v
}

// Get returns the value stored under k, if any.
func (h *HashTable[K, V]) Get(k K) Option[V] {
	v, ok := h.m[k]
	if !ok {
		return None[V]()
	}
	return Some(v)
}

// Delete removes k from the table.
func (h *HashTable[K, V]) Delete(k K) { delete(h.m, k) }

// Len returns the number of entries currently stored.
func (h *HashTable[K, V]) Len() int { return len(h.m) }

// Range calls f for every entry. Iteration order is unspecified, as
// with a plain Go map.
func (h *HashTable[K, V]) Range(f func(K, V) bool) {
	for k, v := range h.m {
		if !f(k, v) {
			return
		}
	}
}
