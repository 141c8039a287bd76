package testcase

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Pair is a single key/value entry of an OrderedMap.
type Pair struct {
	Key   string
	Value any
}

// OrderedMap is a string-keyed map that preserves insertion order.
// Variables, headers, params and extract blocks use it so that projection
// walks entries in the order the user added them.
type OrderedMap struct {
	pairs []Pair
	index map[string]int
}

// NewOrderedMap creates an empty OrderedMap.
func NewOrderedMap() *OrderedMap {
	return &OrderedMap{index: make(map[string]int)}
}

// Set inserts or replaces a key. Replacing keeps the original position.
// Returns the map for chaining.
func (m *OrderedMap) Set(key string, value any) *OrderedMap {
	if m.index == nil {
		m.index = make(map[string]int)
	}
	if i, ok := m.index[key]; ok {
		m.pairs[i].Value = value
		return m
	}
	m.index[key] = len(m.pairs)
	m.pairs = append(m.pairs, Pair{Key: key, Value: value})
	return m
}

// Get returns the value for key.
func (m *OrderedMap) Get(key string) (any, bool) {
	if m == nil || m.index == nil {
		return nil, false
	}
	i, ok := m.index[key]
	if !ok {
		return nil, false
	}
	return m.pairs[i].Value, true
}

// Delete removes a key, preserving the order of the remaining entries.
func (m *OrderedMap) Delete(key string) {
	if m == nil || m.index == nil {
		return
	}
	i, ok := m.index[key]
	if !ok {
		return
	}
	m.pairs = append(m.pairs[:i], m.pairs[i+1:]...)
	delete(m.index, key)
	for j := i; j < len(m.pairs); j++ {
		m.index[m.pairs[j].Key] = j
	}
}

// Len returns the number of entries. Safe on a nil map.
func (m *OrderedMap) Len() int {
	if m == nil {
		return 0
	}
	return len(m.pairs)
}

// Pairs returns the entries in insertion order. The slice is shared;
// callers must not mutate it.
func (m *OrderedMap) Pairs() []Pair {
	if m == nil {
		return nil
	}
	return m.pairs
}

// Clone returns a deep copy. Nested OrderedMap values are cloned too.
func (m *OrderedMap) Clone() *OrderedMap {
	if m == nil {
		return nil
	}
	out := NewOrderedMap()
	for _, p := range m.pairs {
		if nested, ok := p.Value.(*OrderedMap); ok {
			out.Set(p.Key, nested.Clone())
			continue
		}
		out.Set(p.Key, p.Value)
	}
	return out
}

// UnmarshalYAML decodes a YAML mapping preserving key order.
func (m *OrderedMap) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: expected a mapping", node.Line)
	}
	m.pairs = nil
	m.index = make(map[string]int)
	for i := 0; i < len(node.Content)-1; i += 2 {
		key := node.Content[i].Value
		valueNode := node.Content[i+1]
		if valueNode.Kind == yaml.MappingNode {
			nested := NewOrderedMap()
			if err := nested.UnmarshalYAML(valueNode); err != nil {
				return err
			}
			m.Set(key, nested)
			continue
		}
		var value any
		if err := valueNode.Decode(&value); err != nil {
			return err
		}
		m.Set(key, value)
	}
	return nil
}
