// Package values holds the untyped value trees handed to helm charts,
// along with the deep merge used to layer presets, generated auth and user
// overrides on top of each other.
package values

import "fmt"

// Tree is a nested mapping of chart values as decoded from YAML.
type Tree map[string]interface{}

// AsTree returns v as a Tree if it is any of the mapping shapes a YAML
// decoder can produce.
func AsTree(v interface{}) (Tree, bool) {
	switch m := v.(type) {
	case Tree:
		return m, true
	case map[string]interface{}:
		return Tree(m), true
	case map[interface{}]interface{}:
		t := make(Tree, len(m))
		for k, val := range m {
			t[fmt.Sprint(k)] = val
		}
		return t, true
	}
	return nil, false
}

// Copy returns a deep copy of t. Nested mappings are normalised to
// map[string]interface{} so that templates and encoders see one shape.
func Copy(t Tree) Tree {
	if t == nil {
		return Tree{}
	}
	c := make(Tree, len(t))
	for k, v := range t {
		c[k] = copyValue(v)
	}
	return c
}

func copyValue(v interface{}) interface{} {
	if m, ok := AsTree(v); ok {
		return map[string]interface{}(Copy(m))
	}
	if s, ok := v.([]interface{}); ok {
		c := make([]interface{}, len(s))
		for i, item := range s {
			c[i] = copyValue(item)
		}
		return c
	}
	return v
}

// Get returns the value found by following path through nested mappings.
func (t Tree) Get(path ...string) (interface{}, bool) {
	var cur interface{} = t
	for _, p := range path {
		m, ok := AsTree(cur)
		if !ok {
			return nil, false
		}
		if cur, ok = m[p]; !ok {
			return nil, false
		}
	}
	return cur, true
}

// Has reports whether t holds a top-level key k.
func (t Tree) Has(k string) bool {
	_, ok := t[k]
	return ok
}

// FromPath builds a fresh tree holding value at path, e.g.
// FromPath("10Gi", "storage", "requestedSize").
func FromPath(value interface{}, path ...string) Tree {
	if len(path) == 0 {
		return Tree{}
	}
	var leaf interface{} = value
	for i := len(path) - 1; i > 0; i-- {
		leaf = map[string]interface{}{path[i]: leaf}
	}
	return Tree{path[0]: leaf}
}
