package functional

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMapFilterFind(t *testing.T) {
	in := []int{1, 2, 3, 4}

	assert.Equal(t, []string{"1", "2", "3", "4"}, Map(in, strconv.Itoa))
	assert.Equal(t, []int{2, 4}, Filter(in, func(v int) bool { return v%2 == 0 }))

	got, ok := Find(in, func(v int) bool { return v > 2 })
	assert.True(t, ok)
	assert.Equal(t, 3, got)

	_, ok = Find(in, func(v int) bool { return v > 10 })
	assert.False(t, ok)
}

func TestContainsAndDuplicates(t *testing.T) {
	ids := []string{"a", "b", "c"}

	assert.True(t, Contains(ids, "b"))
	assert.False(t, Contains(ids, "z"))
	assert.False(t, HasDuplicates(ids))
	assert.True(t, HasDuplicates([]string{"a", "b", "a"}))
}
