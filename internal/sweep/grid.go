package sweep

import (
	"fmt"

	"github.com/sysu-ecnc-dev/seating-planner/backend/internal/domain"
	"github.com/sysu-ecnc-dev/seating-planner/backend/internal/optimizer"
)

// Grid 网格搜索的各个维度，空维度沿用基础参数中的取值
type Grid struct {
	Mutations      []optimizer.MutationKind
	Crossovers     []optimizer.CrossoverKind
	Selections     []optimizer.SelectionKind
	Elitism        []int
	CrossoverRates []float64
	MutationRates  []float64
}

// Combination 网格中的一个点
type Combination struct {
	Mutation      optimizer.MutationKind
	Crossover     optimizer.CrossoverKind
	Selection     optimizer.SelectionKind
	EliteCount    int
	CrossoverRate float64
	MutationRate  float64
}

func (c Combination) String() string {
	return fmt.Sprintf("%s/%s/%s/elite=%d/xo=%.2f/mut=%.2f",
		c.Mutation, c.Crossover, c.Selection, c.EliteCount, c.CrossoverRate, c.MutationRate)
}

// Parameters 以 base 为模板生成该组合对应的参数
func (c Combination) Parameters(base *optimizer.Parameters) *optimizer.Parameters {
	p := *base
	p.Mutation = c.Mutation
	p.Crossover = c.Crossover
	p.Selection = c.Selection
	p.EliteCount = c.EliteCount
	p.CrossoverRate = c.CrossoverRate
	p.MutationRate = c.MutationRate
	return &p
}

func (c Combination) Record() domain.Combination {
	return domain.Combination{
		Mutation:      string(c.Mutation),
		Crossover:     string(c.Crossover),
		Selection:     string(c.Selection),
		EliteCount:    c.EliteCount,
		CrossoverRate: c.CrossoverRate,
		MutationRate:  c.MutationRate,
	}
}

func orDefault[T any](values []T, fallback T) []T {
	if len(values) == 0 {
		return []T{fallback}
	}
	return values
}

/**
 * 生成笛卡尔积
 *
 * 遍历顺序固定为 变异 → 交叉 → 选择 → 精英数 → 交叉概率 → 变异概率，
 * 最外层是变异算子，最内层是变异概率。
 */
func (g Grid) Combinations(base *optimizer.Parameters) []Combination {
	mutations := orDefault(g.Mutations, base.Mutation)
	crossovers := orDefault(g.Crossovers, base.Crossover)
	selections := orDefault(g.Selections, base.Selection)
	elitism := orDefault(g.Elitism, base.EliteCount)
	crossoverRates := orDefault(g.CrossoverRates, base.CrossoverRate)
	mutationRates := orDefault(g.MutationRates, base.MutationRate)

	combinations := make([]Combination, 0,
		len(mutations)*len(crossovers)*len(selections)*len(elitism)*len(crossoverRates)*len(mutationRates))
	for _, m := range mutations {
		for _, x := range crossovers {
			for _, s := range selections {
				for _, e := range elitism {
					for _, xr := range crossoverRates {
						for _, mr := range mutationRates {
							combinations = append(combinations, Combination{
								Mutation:      m,
								Crossover:     x,
								Selection:     s,
								EliteCount:    e,
								CrossoverRate: xr,
								MutationRate:  mr,
							})
						}
					}
				}
			}
		}
	}
	return combinations
}

// FullGrid 覆盖所有已注册算子的网格
func FullGrid() Grid {
	return Grid{
		Mutations:  optimizer.MutationKinds(),
		Crossovers: optimizer.CrossoverKinds(),
		Selections: optimizer.SelectionKinds(),
	}
}
