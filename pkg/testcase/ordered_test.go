package testcase

import (
	"testing"

	"gopkg.in/yaml.v3"
)

func TestOrderedMap_PreservesInsertionOrder(t *testing.T) {
	m := NewOrderedMap()
	m.Set("zeta", 1)
	m.Set("alpha", 2)
	m.Set("mid", 3)

	pairs := m.Pairs()
	keys := []string{"zeta", "alpha", "mid"}
	if len(pairs) != len(keys) {
		t.Fatalf("expected %d pairs, got %d", len(keys), len(pairs))
	}
	for i, k := range keys {
		if pairs[i].Key != k {
			t.Errorf("pair %d: expected key %s, got %s", i, k, pairs[i].Key)
		}
	}
}

func TestOrderedMap_SetExistingKeepsPosition(t *testing.T) {
	m := NewOrderedMap()
	m.Set("a", 1)
	m.Set("b", 2)
	m.Set("a", 10)

	pairs := m.Pairs()
	if len(pairs) != 2 {
		t.Fatalf("expected 2 pairs, got %d", len(pairs))
	}
	if pairs[0].Key != "a" || pairs[0].Value != 10 {
		t.Errorf("expected a=10 first, got %s=%v", pairs[0].Key, pairs[0].Value)
	}
}

func TestOrderedMap_Delete(t *testing.T) {
	m := NewOrderedMap()
	m.Set("a", 1)
	m.Set("b", 2)
	m.Set("c", 3)
	m.Delete("b")

	if m.Len() != 2 {
		t.Fatalf("expected 2 entries, got %d", m.Len())
	}
	if _, ok := m.Get("b"); ok {
		t.Error("b should be gone")
	}
	if v, ok := m.Get("c"); !ok || v != 3 {
		t.Errorf("expected c=3 after delete, got %v (found=%v)", v, ok)
	}
	pairs := m.Pairs()
	if pairs[0].Key != "a" || pairs[1].Key != "c" {
		t.Errorf("expected order [a c], got [%s %s]", pairs[0].Key, pairs[1].Key)
	}
}

func TestOrderedMap_NilSafe(t *testing.T) {
	var m *OrderedMap
	if m.Len() != 0 {
		t.Error("nil map should have length 0")
	}
	if _, ok := m.Get("x"); ok {
		t.Error("nil map should not contain keys")
	}
	if m.Clone() != nil {
		t.Error("clone of nil should be nil")
	}
	m.Delete("x") // must not panic
}

func TestOrderedMap_UnmarshalPreservesOrder(t *testing.T) {
	content := `
token: abc
user_id: 1
zone: east
`
	var m OrderedMap
	if err := yaml.Unmarshal([]byte(content), &m); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	pairs := m.Pairs()
	keys := []string{"token", "user_id", "zone"}
	for i, k := range keys {
		if pairs[i].Key != k {
			t.Errorf("pair %d: expected %s, got %s", i, k, pairs[i].Key)
		}
	}
}

func TestOrderedMap_UnmarshalNested(t *testing.T) {
	content := `
outer:
  inner: 1
`
	var m OrderedMap
	if err := yaml.Unmarshal([]byte(content), &m); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	v, ok := m.Get("outer")
	if !ok {
		t.Fatal("missing outer key")
	}
	nested, ok := v.(*OrderedMap)
	if !ok {
		t.Fatalf("expected nested *OrderedMap, got %T", v)
	}
	if inner, _ := nested.Get("inner"); inner != 1 {
		t.Errorf("expected inner=1, got %v", inner)
	}
}

func TestOrderedMap_CloneIsDeep(t *testing.T) {
	m := NewOrderedMap()
	nested := NewOrderedMap().Set("k", "v")
	m.Set("nested", nested)

	clone := m.Clone()
	nested.Set("k", "changed")

	got, _ := clone.Get("nested")
	if v, _ := got.(*OrderedMap).Get("k"); v != "v" {
		t.Errorf("clone should not see mutation, got %v", v)
	}
}
