package values

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCopy_IsDeep(t *testing.T) {
	orig := Tree{
		"a": map[string]interface{}{"b": []interface{}{map[string]interface{}{"c": 1}}},
	}
	c := Copy(orig)
	c["a"].(map[string]interface{})["b"].([]interface{})[0].(map[string]interface{})["c"] = 2

	v, _ := orig.Get("a", "b")
	assert.Equal(t, 1, v.([]interface{})[0].(map[string]interface{})["c"])
}

func TestCopy_Nil(t *testing.T) {
	assert.Equal(t, Tree{}, Copy(nil))
}

func TestGet(t *testing.T) {
	tree := Tree{"primary": map[string]interface{}{"persistence": map[string]interface{}{"size": "8Gi"}}}

	v, ok := tree.Get("primary", "persistence", "size")
	assert.True(t, ok)
	assert.Equal(t, "8Gi", v)

	_, ok = tree.Get("primary", "missing")
	assert.False(t, ok)

	_, ok = tree.Get("primary", "persistence", "size", "deeper")
	assert.False(t, ok)
}

func TestFromPath(t *testing.T) {
	assert.Equal(t,
		Tree{"storage": map[string]interface{}{"requestedSize": "10Gi"}},
		FromPath("10Gi", "storage", "requestedSize"))
	assert.Equal(t, Tree{"a": 1}, FromPath(1, "a"))
	assert.Equal(t, Tree{}, FromPath(1))
}

func TestAsTree(t *testing.T) {
	_, ok := AsTree("scalar")
	assert.False(t, ok)

	m, ok := AsTree(map[interface{}]interface{}{1: "one"})
	assert.True(t, ok)
	assert.Equal(t, Tree{"1": "one"}, m)
}
