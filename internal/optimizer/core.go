package optimizer

import (
	"math/rand"
	"sort"

	"github.com/sysu-ecnc-dev/seating-planner/backend/internal/seating"
)

// initPopulation 随机初始化种群
func (o *Optimizer) initPopulation(rng *rand.Rand) ([]*seating.Individual, error) {
	pop := make([]*seating.Individual, o.parameters.PopulationSize)
	for i := range pop {
		ind, err := seating.NewIndividual(o.layout, o.matrix, o.layout.RandomArrangement(rng))
		if err != nil {
			return nil, err
		}
		pop[i] = ind
	}
	return pop, nil
}

// elites 返回当前种群中最优的 n 个个体的副本
func elites(pop []*seating.Individual, n int, direction Direction) []*seating.Individual {
	if n <= 0 {
		return nil
	}

	ranked := make([]*seating.Individual, len(pop))
	copy(ranked, pop)
	sort.SliceStable(ranked, func(i, j int) bool {
		return direction.Better(ranked[i].Fitness(), ranked[j].Fitness())
	})

	n = min(n, len(ranked))
	res := make([]*seating.Individual, n)
	for i := 0; i < n; i++ {
		res[i] = ranked[i].Clone()
	}
	return res
}

// best 返回种群中最优的个体，并列时取靠前的
func best(pop []*seating.Individual, direction Direction) *seating.Individual {
	if len(pop) == 0 {
		return nil
	}
	b := pop[0]
	for _, ind := range pop[1:] {
		if direction.Better(ind.Fitness(), b.Fitness()) {
			b = ind
		}
	}
	return b
}

// reproduce 用一个独立的随机源产生一对子代：选择 -> 交叉 -> 变异
func (o *Optimizer) reproduce(rng *rand.Rand, pop []*seating.Individual) ([2]*seating.Individual, error) {
	var children [2]*seating.Individual

	// 选择父本，允许重复选中同一个个体
	parents := make([]seating.Arrangement, max(o.crossover.Parents, 2))
	for i := range parents {
		p, err := o.selector(rng, pop)
		if err != nil {
			return children, err
		}
		parents[i] = p.Arrangement()
	}

	// 交叉或复制
	offspring := [2]seating.Arrangement{parents[0], parents[1]}
	if rng.Float64() < o.parameters.CrossoverRate {
		o1, o2, err := o.crossover.Apply(rng, o.layout, parents)
		if err != nil {
			return children, err
		}
		offspring = [2]seating.Arrangement{o1, o2}
	}

	// 每个子代独立判定是否变异
	for i := range offspring {
		if rng.Float64() < o.parameters.MutationRate {
			offspring[i] = o.mutator(rng, o.layout, o.matrix, offspring[i])
		}
	}

	for i, a := range offspring {
		ind, err := seating.NewIndividual(o.layout, o.matrix, a)
		if err != nil {
			return children, err
		}
		children[i] = ind
	}

	return children, nil
}
