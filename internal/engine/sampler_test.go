package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seq(n int) []int64 {
	ids := make([]int64, n)
	for i := range ids {
		ids[i] = int64(i + 1)
	}
	return ids
}

func TestRandomSampler_DistinctSubset(t *testing.T) {
	s := NewSeededSampler(1, 2)
	ids := seq(50)
	got := s.Sample(ids, 20)
	require.Len(t, got, 20)

	seen := make(map[int64]bool, len(got))
	for _, id := range got {
		assert.False(t, seen[id], "duplicate id %d", id)
		seen[id] = true
		assert.Contains(t, ids, id)
	}
	assert.Equal(t, seq(50), ids, "input must not be reordered")
}

func TestRandomSampler_Bounds(t *testing.T) {
	s := NewSeededSampler(3, 4)
	assert.Nil(t, s.Sample(seq(5), 0))
	assert.Nil(t, s.Sample(nil, 3))
	assert.ElementsMatch(t, seq(5), s.Sample(seq(5), 9))
}

// Every id should be picked about equally often; ids at the front of the
// snapshot get no advantage.
func TestRandomSampler_Uniform(t *testing.T) {
	const (
		population = 10
		pick       = 3
		rounds     = 60_000
	)
	s := NewSeededSampler(42, 7)
	ids := seq(population)
	hits := make(map[int64]int, population)
	for i := 0; i < rounds; i++ {
		for _, id := range s.Sample(ids, pick) {
			hits[id]++
		}
	}
	expected := float64(rounds*pick) / population
	for _, id := range ids {
		got := float64(hits[id])
		assert.InDelta(t, expected, got, expected*0.05, "id %d picked %v times", id, got)
	}
}
