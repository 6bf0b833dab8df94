package optimizer

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sysu-ecnc-dev/seating-planner/backend/internal/seating"
)

func TestCrossoversProduceBalancedOffspring(t *testing.T) {
	p := DefaultParameters()
	rng := rand.New(rand.NewSource(10))

	for _, kind := range CrossoverKinds() {
		t.Run(string(kind), func(t *testing.T) {
			crossover := crossovers[kind](p)
			for i := 0; i < 100; i++ {
				parents := make([]seating.Arrangement, crossover.Parents)
				originals := make([]seating.Arrangement, crossover.Parents)
				for j := range parents {
					parents[j] = seating.DefaultLayout.RandomArrangement(rng)
					originals[j] = parents[j].Clone()
				}

				o1, o2, err := crossover.Apply(rng, seating.DefaultLayout, parents)
				require.NoError(t, err)
				assert.NoError(t, seating.DefaultLayout.Validate(o1))
				assert.NoError(t, seating.DefaultLayout.Validate(o2))
				assert.Equal(t, originals, parents, "父本不能被修改")
			}
		})
	}
}

func TestCrossoverOfIdenticalParents(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	p := seating.DefaultLayout.RandomArrangement(rng)

	for _, fn := range []func(*rand.Rand, seating.Layout, seating.Arrangement, seating.Arrangement) (seating.Arrangement, seating.Arrangement, error){
		CycleCrossover, OnePointCrossover, UniformCrossover, GeometricCrossover,
	} {
		o1, o2, err := fn(rng, seating.DefaultLayout, p, p.Clone())
		require.NoError(t, err)
		assert.Equal(t, p, o1)
		assert.Equal(t, p, o2)
	}
}

func TestCycleIndices(t *testing.T) {
	rng := rand.New(rand.NewSource(12))
	for i := 0; i < 200; i++ {
		p1 := seating.DefaultLayout.RandomArrangement(rng)
		p2 := seating.DefaultLayout.RandomArrangement(rng)
		start := rng.Intn(len(p1))

		cycle := CycleIndices(start, p1, p2)
		require.NotEmpty(t, cycle)
		assert.Equal(t, start, cycle[0])

		seen := make(map[int]bool)
		for _, idx := range cycle {
			assert.False(t, seen[idx], "环上的下标不能重复")
			seen[idx] = true
		}

		// 修复之前，子代 1 在环上与父本 1 完全一致，子代 2 与父本 2 一致
		o1, o2 := mixByCycle(p1, p2, cycle)
		for _, idx := range cycle {
			assert.Equal(t, p1[idx], o1[idx])
			assert.Equal(t, p2[idx], o2[idx])
		}
		for idx := range p1 {
			if !seen[idx] {
				assert.Equal(t, p2[idx], o1[idx])
				assert.Equal(t, p1[idx], o2[idx])
			}
		}
	}
}

func TestCycleIndicesFollowsFirstMatch(t *testing.T) {
	p1 := seating.Arrangement{0, 1, 1, 0}
	p2 := seating.Arrangement{1, 0, 0, 1}

	// 0 -> p1 中第一个 1 的位置 1 -> p1 中第一个 0 的位置 0（已访问）
	assert.Equal(t, []int{0, 1}, CycleIndices(0, p1, p2))
	// 2 -> 0 -> 1 -> 0
	assert.Equal(t, []int{2, 0, 1}, CycleIndices(2, p1, p2))
}

func TestOnePointCut(t *testing.T) {
	p1 := seating.Arrangement{0, 0, 1, 1}
	p2 := seating.Arrangement{1, 1, 0, 0}

	tests := []struct {
		cut    int
		o1, o2 seating.Arrangement
	}{
		{1, seating.Arrangement{0, 1, 0, 0}, seating.Arrangement{1, 0, 1, 1}},
		{2, seating.Arrangement{0, 0, 0, 0}, seating.Arrangement{1, 1, 1, 1}},
		{3, seating.Arrangement{0, 0, 1, 0}, seating.Arrangement{1, 1, 0, 1}},
	}

	for _, tt := range tests {
		o1, o2 := onePointCut(p1, p2, tt.cut)
		assert.Equal(t, tt.o1, o1, "cut=%d", tt.cut)
		assert.Equal(t, tt.o2, o2, "cut=%d", tt.cut)
	}
	// 父本不被修改
	assert.Equal(t, seating.Arrangement{0, 0, 1, 1}, p1)
	assert.Equal(t, seating.Arrangement{1, 1, 0, 0}, p2)
}

func TestOnePointCrossoverIsBalanced(t *testing.T) {
	layout := seating.Layout{Guests: 4, Tables: 2}
	p1 := seating.Arrangement{0, 0, 1, 1}
	p2 := seating.Arrangement{1, 1, 0, 0}

	rng := rand.New(rand.NewSource(13))
	for i := 0; i < 50; i++ {
		o1, o2, err := OnePointCrossover(rng, layout, p1, p2)
		require.NoError(t, err)
		assert.NoError(t, layout.Validate(o1))
		assert.NoError(t, layout.Validate(o2))
	}
}

func TestCrossoverRejectsWrongLength(t *testing.T) {
	rng := rand.New(rand.NewSource(14))
	good := seating.DefaultLayout.RandomArrangement(rng)
	bad := good[:63]

	_, _, err := CycleCrossover(rng, seating.DefaultLayout, good, bad)
	assert.ErrorIs(t, err, seating.ErrInvalidArrangement)

	_, _, err = OnePointCrossover(rng, seating.DefaultLayout, bad, good)
	assert.ErrorIs(t, err, seating.ErrInvalidArrangement)

	_, _, err = MultiParentCrossover(rng, seating.DefaultLayout, []seating.Arrangement{good, good, bad})
	assert.ErrorIs(t, err, seating.ErrInvalidArrangement)
}

func TestMultiParentCrossoverNeedsThreeParents(t *testing.T) {
	rng := rand.New(rand.NewSource(15))
	p := seating.DefaultLayout.RandomArrangement(rng)

	_, _, err := MultiParentCrossover(rng, seating.DefaultLayout, []seating.Arrangement{p, p})
	assert.Error(t, err)
}

func TestGeometricCrossoverStaysBetweenParents(t *testing.T) {
	layout := seating.Layout{Guests: 4, Tables: 4}
	p1 := seating.Arrangement{0, 1, 2, 3}
	p2 := seating.Arrangement{3, 2, 1, 0}

	rng := rand.New(rand.NewSource(16))
	for i := 0; i < 50; i++ {
		o1, o2, err := GeometricCrossover(rng, layout, p1, p2)
		require.NoError(t, err)
		assert.NoError(t, layout.Validate(o1))
		assert.NoError(t, layout.Validate(o2))
	}
}
