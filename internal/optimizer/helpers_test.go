package optimizer

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/sysu-ecnc-dev/seating-planner/backend/internal/seating"
)

var toyLayout = seating.Layout{Guests: 8, Tables: 2}

// symmetricMatrix 生成取值在 [-100, 100] 的对称关系矩阵，对角线为 0
func symmetricMatrix(t *testing.T, n int, seed int64) *seating.Matrix {
	t.Helper()
	rng := rand.New(rand.NewSource(seed))
	rows := make([][]float64, n)
	for i := range rows {
		rows[i] = make([]float64, n)
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			v := float64(rng.Intn(201) - 100)
			rows[i][j] = v
			rows[j][i] = v
		}
	}
	m, err := seating.NewMatrix(rows)
	require.NoError(t, err)
	return m
}

// withFitness 构造一个适应度恰好为 f 的个体（2 位宾客、1 张桌子）
func withFitness(t *testing.T, f float64) *seating.Individual {
	t.Helper()
	m, err := seating.NewMatrix([][]float64{{0, f}, {f, 0}})
	require.NoError(t, err)
	ind, err := seating.NewIndividual(seating.Layout{Guests: 2, Tables: 1}, m, seating.Arrangement{0, 0})
	require.NoError(t, err)
	return ind
}

func population(t *testing.T, fitness ...float64) []*seating.Individual {
	t.Helper()
	pop := make([]*seating.Individual, len(fitness))
	for i, f := range fitness {
		pop[i] = withFitness(t, f)
	}
	return pop
}

// unbalanced 生成桌号合法但人数可能不均衡的序列
func unbalanced(rng *rand.Rand, layout seating.Layout) seating.Arrangement {
	a := make(seating.Arrangement, layout.Guests)
	for i := range a {
		a[i] = rng.Intn(layout.Tables)
	}
	return a
}
