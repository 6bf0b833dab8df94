package optimizer

import (
	"fmt"
	"math/rand"
	"slices"

	"github.com/sysu-ecnc-dev/seating-planner/backend/internal/seating"
)

type SelectionKind string

const (
	SelectionRoulette   SelectionKind = "roulette"
	SelectionRanking    SelectionKind = "ranking"
	SelectionTournament SelectionKind = "tournament"
)

type CrossoverKind string

const (
	CrossoverCycle       CrossoverKind = "cycle"
	CrossoverOnePoint    CrossoverKind = "one_point"
	CrossoverUniform     CrossoverKind = "uniform"
	CrossoverGeometric   CrossoverKind = "geometric"
	CrossoverMultiParent CrossoverKind = "multi_parent"
)

type MutationKind string

const (
	MutationSwap      MutationKind = "swap"
	MutationInversion MutationKind = "inversion"
	MutationHeuristic MutationKind = "heuristic"
	MutationMisfit    MutationKind = "misfit"
)

// Selector 从种群中选出一个个体（副本）
type Selector func(rng *rand.Rand, population []*seating.Individual) (*seating.Individual, error)

// Crossover 由 Parents 个父本产生两个合法子代
type Crossover struct {
	Parents int
	Apply   func(rng *rand.Rand, layout seating.Layout, parents []seating.Arrangement) (seating.Arrangement, seating.Arrangement, error)
}

// Mutator 产生一个新的合法座位安排，不修改输入
type Mutator func(rng *rand.Rand, layout seating.Layout, m *seating.Matrix, a seating.Arrangement) seating.Arrangement

var selectors = map[SelectionKind]func(p *Parameters) Selector{
	SelectionRoulette: func(p *Parameters) Selector {
		return func(rng *rand.Rand, population []*seating.Individual) (*seating.Individual, error) {
			return RouletteSelect(rng, population, p.Direction)
		}
	},
	SelectionRanking: func(p *Parameters) Selector {
		return func(rng *rand.Rand, population []*seating.Individual) (*seating.Individual, error) {
			return RankingSelect(rng, population, p.Direction)
		}
	},
	SelectionTournament: func(p *Parameters) Selector {
		return func(rng *rand.Rand, population []*seating.Individual) (*seating.Individual, error) {
			return TournamentSelect(rng, population, p.TournamentSize, p.Direction)
		}
	},
}

func pairwise(fn func(rng *rand.Rand, layout seating.Layout, p1, p2 seating.Arrangement) (seating.Arrangement, seating.Arrangement, error)) Crossover {
	return Crossover{
		Parents: 2,
		Apply: func(rng *rand.Rand, layout seating.Layout, parents []seating.Arrangement) (seating.Arrangement, seating.Arrangement, error) {
			return fn(rng, layout, parents[0], parents[1])
		},
	}
}

var crossovers = map[CrossoverKind]func(p *Parameters) Crossover{
	CrossoverCycle:     func(*Parameters) Crossover { return pairwise(CycleCrossover) },
	CrossoverOnePoint:  func(*Parameters) Crossover { return pairwise(OnePointCrossover) },
	CrossoverUniform:   func(*Parameters) Crossover { return pairwise(UniformCrossover) },
	CrossoverGeometric: func(*Parameters) Crossover { return pairwise(GeometricCrossover) },
	CrossoverMultiParent: func(p *Parameters) Crossover {
		return Crossover{Parents: p.CrossoverParents, Apply: MultiParentCrossover}
	},
}

var mutators = map[MutationKind]Mutator{
	MutationSwap:      SwapMutation,
	MutationInversion: InversionMutation,
	MutationHeuristic: HeuristicMutation,
	MutationMisfit:    MisfitMutation,
}

func ParseSelectionKind(name string) (SelectionKind, error) {
	kind := SelectionKind(name)
	if _, ok := selectors[kind]; !ok {
		return "", fmt.Errorf("%w: 选择算子 %q", ErrUnknownOperator, name)
	}
	return kind, nil
}

func ParseCrossoverKind(name string) (CrossoverKind, error) {
	kind := CrossoverKind(name)
	if _, ok := crossovers[kind]; !ok {
		return "", fmt.Errorf("%w: 交叉算子 %q", ErrUnknownOperator, name)
	}
	return kind, nil
}

func ParseMutationKind(name string) (MutationKind, error) {
	kind := MutationKind(name)
	if _, ok := mutators[kind]; !ok {
		return "", fmt.Errorf("%w: 变异算子 %q", ErrUnknownOperator, name)
	}
	return kind, nil
}

func SelectionKinds() []SelectionKind {
	return sortedKeys(selectors)
}

func CrossoverKinds() []CrossoverKind {
	return sortedKeys(crossovers)
}

func MutationKinds() []MutationKind {
	return sortedKeys(mutators)
}

func sortedKeys[K ~string, V any](m map[K]V) []K {
	keys := make([]K, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// resolve 在运行开始前把参数中的算子名称映射到实现
func resolve(p *Parameters) (Selector, Crossover, Mutator, error) {
	newSelector, ok := selectors[p.Selection]
	if !ok {
		return nil, Crossover{}, nil, fmt.Errorf("%w: 选择算子 %q", ErrUnknownOperator, p.Selection)
	}
	newCrossover, ok := crossovers[p.Crossover]
	if !ok {
		return nil, Crossover{}, nil, fmt.Errorf("%w: 交叉算子 %q", ErrUnknownOperator, p.Crossover)
	}
	mutator, ok := mutators[p.Mutation]
	if !ok {
		return nil, Crossover{}, nil, fmt.Errorf("%w: 变异算子 %q", ErrUnknownOperator, p.Mutation)
	}
	return newSelector(p), newCrossover(p), mutator, nil
}
