package optimizer

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sysu-ecnc-dev/seating-planner/backend/internal/seating"
)

func diff(a, b seating.Arrangement) []int {
	var idx []int
	for i := range a {
		if a[i] != b[i] {
			idx = append(idx, i)
		}
	}
	return idx
}

func TestMutationsPreserveBalance(t *testing.T) {
	m := symmetricMatrix(t, 64, 20)
	rng := rand.New(rand.NewSource(20))

	for _, kind := range MutationKinds() {
		t.Run(string(kind), func(t *testing.T) {
			mutate := mutators[kind]
			for i := 0; i < 100; i++ {
				a := seating.DefaultLayout.RandomArrangement(rng)
				original := a.Clone()

				mutated := mutate(rng, seating.DefaultLayout, m, a)
				require.NoError(t, seating.DefaultLayout.Validate(mutated))
				assert.Equal(t, original, a, "输入不能被修改")
			}
		})
	}
}

func TestSwapMutationChangesTwoPositions(t *testing.T) {
	rng := rand.New(rand.NewSource(21))
	for i := 0; i < 100; i++ {
		a := seating.DefaultLayout.RandomArrangement(rng)
		changed := diff(a, SwapMutation(rng, seating.DefaultLayout, nil, a))
		// 两位宾客同桌时交换不产生变化
		assert.Contains(t, []int{0, 2}, len(changed))
	}
}

func TestInversionMutationWindow(t *testing.T) {
	rng := rand.New(rand.NewSource(22))
	perTable := seating.DefaultLayout.GuestsPerTable()
	for i := 0; i < 200; i++ {
		a := seating.DefaultLayout.RandomArrangement(rng)
		changed := diff(a, InversionMutation(rng, seating.DefaultLayout, nil, a))
		if len(changed) == 0 {
			continue
		}
		assert.LessOrEqual(t, changed[len(changed)-1]-changed[0]+1, perTable)
	}
}

func TestInversionMutationSingleSeatTables(t *testing.T) {
	layout := seating.Layout{Guests: 4, Tables: 4}
	rng := rand.New(rand.NewSource(23))
	a := seating.Arrangement{0, 1, 2, 3}
	assert.Equal(t, a, InversionMutation(rng, layout, nil, a))
}

func TestHeuristicMutationNeverDecreasesFitness(t *testing.T) {
	m := symmetricMatrix(t, 64, 24)
	rng := rand.New(rand.NewSource(24))

	improved := 0
	for i := 0; i < 200; i++ {
		a := seating.DefaultLayout.RandomArrangement(rng)
		before := seating.Fitness(a, m, 8)
		mutated := HeuristicMutation(rng, seating.DefaultLayout, m, a)
		after := seating.Fitness(mutated, m, 8)

		changed := diff(a, mutated)
		if len(changed) == 0 {
			assert.Equal(t, before, after)
			continue
		}
		assert.Len(t, changed, 2)
		assert.Greater(t, after, before)
		improved++
	}
	assert.Positive(t, improved)
}

func TestHeuristicMutationPicksBestSwap(t *testing.T) {
	// 宾客 0 和 1 同桌但互相讨厌，和 2 相处很好
	m, err := seating.NewMatrix([][]float64{
		{0, -10, 20, 0},
		{-10, 0, 0, 0},
		{20, 0, 0, 0},
		{0, 0, 0, 0},
	})
	require.NoError(t, err)
	layout := seating.Layout{Guests: 4, Tables: 2}
	a := seating.Arrangement{0, 0, 1, 1}

	// 不论随机选中哪位宾客，最优的交换都会把 0 和 2 安排到同一桌
	for seed := int64(0); seed < 20; seed++ {
		mutated := HeuristicMutation(rand.New(rand.NewSource(seed)), layout, m, a)
		if !mutated.Equal(a) {
			assert.Equal(t, mutated[0], mutated[2])
			assert.Greater(t, seating.Fitness(mutated, m, 2), seating.Fitness(a, m, 2))
		}
	}
}

func TestMisfitMutationSwapsTwoLeastHappy(t *testing.T) {
	m, err := seating.NewMatrix([][]float64{
		{0, -5, 0, 0},
		{-1, 0, 0, 0},
		{0, 0, 0, -3},
		{0, 0, -1, 0},
	})
	require.NoError(t, err)
	layout := seating.Layout{Guests: 4, Tables: 2}

	mutated := MisfitMutation(nil, layout, m, seating.Arrangement{0, 0, 1, 1})
	assert.Equal(t, seating.Arrangement{1, 0, 0, 1}, mutated)
}

func TestMisfitMutationWithoutMisfits(t *testing.T) {
	m, err := seating.NewMatrix([][]float64{
		{0, 1, 0, 0},
		{1, 0, 0, 0},
		{0, 0, 0, -3},
		{0, 0, 2, 0},
	})
	require.NoError(t, err)
	layout := seating.Layout{Guests: 4, Tables: 2}

	// 只有一张桌子存在幸福度为负的宾客
	a := seating.Arrangement{0, 0, 1, 1}
	assert.Equal(t, a, MisfitMutation(nil, layout, m, a))
}
