package algo_utils

import (
	"github.com/stretchr/testify/assert"
	"testing"
)

func TestPermute(t *testing.T) {
	list := []int{34, 65, 23, 2, 5}
	permutation := []int{2, 0, 1, 4, 3}
	permutationCopy := make([]int, len(permutation))
	copy(permutationCopy, permutation)

	Permute(list, permutation)
	assert.Equal(t, []int{65, 23, 34, 5, 2}, list)
	assert.Equal(t, permutationCopy, permutation)
}

func TestMap(t *testing.T) {
	in := []int{1, 2, 3}
	out := Map(in, func(v int) int { return v * v })
	assert.Equal(t, []int{1, 4, 9}, out)
}

func TestMapRange(t *testing.T) {
	out := MapRange(2, 5, func(i int) int { return i * 10 })
	assert.Equal(t, []int{20, 30, 40}, out)
}

func TestInvertPermutation(t *testing.T) {
	perm := []int{2, 0, 1}
	inv := InvertPermutation(perm)
	assert.Equal(t, []int{1, 2, 0}, inv)
	for i, p := range perm {
		assert.Equal(t, i, inv[p])
	}
}
