package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUniqueSlice(t *testing.T) {
	assert.Equal(t, []int{3, 5, 6, 2}, UniqueSlice([]int{3, 5, 6, 3, 5, 2, 2, 6}))
	assert.Equal(t, []string{"a", "b"}, UniqueSlice([]string{"a", "a", "b", "a"}))
}

func TestSortedKeys(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, SortedKeys(map[string]int{"c": 1, "a": 2, "b": 3}))
}

func TestCloneMap(t *testing.T) {
	m := map[string]int{"x": 1}
	c := CloneMap(m)
	c["x"] = 2
	assert.Equal(t, 1, m["x"])
	assert.Equal(t, 2, c["x"])
}
