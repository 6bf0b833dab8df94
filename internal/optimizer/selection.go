package optimizer

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"sort"

	"github.com/sysu-ecnc-dev/seating-planner/backend/internal/seating"
)

var errEmptyPopulation = errors.New("种群为空")

// spin 返回累计权重第一次超过 r 的下标，权重 <= 0 的个体不会被选中
func spin(weights []float64, r float64) int {
	cumulative := 0.0
	last := -1
	for i, w := range weights {
		if w <= 0 {
			continue
		}
		cumulative += w
		last = i
		if r < cumulative {
			return i
		}
	}
	// 浮点误差导致 r 恰好落在末尾时，返回最后一个有权重的个体
	return last
}

func sumWeights(weights []float64) float64 {
	total := 0.0
	for _, w := range weights {
		total += w
	}
	return total
}

// 轮盘赌选择
// 最大化时权重为适应度，最小化时权重为适应度的倒数，负权重视为 0
func RouletteSelect(rng *rand.Rand, population []*seating.Individual, direction Direction) (*seating.Individual, error) {
	if len(population) == 0 {
		return nil, errEmptyPopulation
	}

	weights := make([]float64, len(population))
	for i, ind := range population {
		w := ind.Fitness()
		if direction == Minimize {
			if w == 0 {
				return nil, fmt.Errorf("%w: 个体 %d 的适应度为 0，无法取倒数", ErrDegenerateWeights, i)
			}
			w = 1 / w
		}
		weights[i] = max(w, 0)
	}

	total := sumWeights(weights)
	if total <= 0 || math.IsInf(total, 0) || math.IsNaN(total) {
		return nil, fmt.Errorf("%w: 权重之和为 %g", ErrDegenerateWeights, total)
	}

	return population[spin(weights, rng.Float64()*total)].Clone(), nil
}

// 排序选择
// 最大化时按适应度升序排列，第 k 名（从 1 开始）的权重为 k；最小化时按降序排列
func RankingSelect(rng *rand.Rand, population []*seating.Individual, direction Direction) (*seating.Individual, error) {
	if len(population) == 0 {
		return nil, errEmptyPopulation
	}

	order := make([]int, len(population))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		return direction.Better(population[order[j]].Fitness(), population[order[i]].Fitness())
	})

	weights := make([]float64, len(order))
	for rank := range weights {
		weights[rank] = float64(rank + 1)
	}

	picked := spin(weights, rng.Float64()*sumWeights(weights))
	return population[order[picked]].Clone(), nil
}

// sample 不放回地抽取 k 个下标
func sample(rng *rand.Rand, n, k int) []int {
	return rng.Perm(n)[:k]
}

// 锦标赛选择：不放回地抽取 size 个个体，返回其中最优的一个
func TournamentSelect(rng *rand.Rand, population []*seating.Individual, size int, direction Direction) (*seating.Individual, error) {
	if len(population) == 0 {
		return nil, errEmptyPopulation
	}
	if size < 1 {
		return nil, fmt.Errorf("锦标赛规模必须 >= 1 (当前为 %d)", size)
	}
	size = min(size, len(population))

	contestants := sample(rng, len(population), size)
	best := population[contestants[0]]
	for _, idx := range contestants[1:] {
		if direction.Better(population[idx].Fitness(), best.Fitness()) {
			best = population[idx]
		}
	}

	return best.Clone(), nil
}
