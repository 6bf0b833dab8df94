package optimizer

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"

	"github.com/sysu-ecnc-dev/seating-planner/backend/internal/seating"
	"golang.org/x/sync/errgroup"
)

type Optimizer struct {
	parameters *Parameters
	layout     seating.Layout
	matrix     *seating.Matrix // 只读，被所有个体和 goroutine 共享
	selector   Selector
	crossover  Crossover
	mutator    Mutator
}

// New 校验参数并解析算子，未知的算子在这里就会返回 ErrUnknownOperator
func New(parameters *Parameters, layout seating.Layout, matrix *seating.Matrix) (*Optimizer, error) {
	if parameters == nil {
		return nil, fmt.Errorf("缺少遗传算法参数")
	}
	if err := layout.Check(); err != nil {
		return nil, err
	}
	if matrix == nil {
		return nil, fmt.Errorf("缺少关系矩阵")
	}
	if matrix.Size() != layout.Guests {
		return nil, fmt.Errorf("关系矩阵大小 %d 与宾客数量 %d 不一致", matrix.Size(), layout.Guests)
	}

	selector, crossover, mutator, err := resolve(parameters)
	if err != nil {
		return nil, err
	}
	if err := parameters.Validate(); err != nil {
		return nil, err
	}

	return &Optimizer{
		parameters: parameters,
		layout:     layout,
		matrix:     matrix,
		selector:   selector,
		crossover:  crossover,
		mutator:    mutator,
	}, nil
}

// Evolve 用给定参数完成一次进化
func Evolve(ctx context.Context, layout seating.Layout, matrix *seating.Matrix, parameters *Parameters, seed int64) (*Result, error) {
	o, err := New(parameters, layout, matrix)
	if err != nil {
		return nil, err
	}
	return o.Run(ctx, seed)
}

/**
 * Run 执行分代循环
 * 每一代：保留精英 -> 选择、交叉、变异填满新种群 -> 替换旧种群 -> 记录本代最优适应度
 * 同一个 seed 总是得到相同的结果，与 Workers 的取值无关
 */
func (o *Optimizer) Run(ctx context.Context, seed int64) (*Result, error) {
	rng := rand.New(rand.NewSource(seed))
	size := o.parameters.PopulationSize

	// 生成初始种群
	pop, err := o.initPopulation(rng)
	if err != nil {
		return nil, err
	}

	trace := make([]float64, 0, o.parameters.MaxGenerations)
	var genBest *seating.Individual

	for gen := 1; gen <= o.parameters.MaxGenerations; gen++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		newPop := make([]*seating.Individual, 0, size)

		// 保留精英
		newPop = append(newPop, elites(pop, o.parameters.EliteCount, o.parameters.Direction)...)

		// 每对子代使用从主随机源派生的独立种子
		seeds := make([]int64, (size-len(newPop)+1)/2)
		for i := range seeds {
			seeds[i] = rng.Int63()
		}

		children, err := o.breed(ctx, pop, seeds)
		if err != nil {
			return nil, fmt.Errorf("第 %d 代繁殖失败: %w", gen, err)
		}

		for _, pair := range children {
			newPop = append(newPop, pair[0])
			// 种群已满时丢弃第二个子代
			if len(newPop) < size {
				newPop = append(newPop, pair[1])
			}
		}

		pop = newPop
		genBest = best(pop, o.parameters.Direction)
		trace = append(trace, genBest.Fitness())

		slog.Debug("完成一代进化", "generation", gen, "best", genBest.Fitness())
	}

	return &Result{
		Best:  genBest.Clone(),
		Trace: trace,
	}, nil
}

// breed 并行地为每个种子产生一对子代，pop 在此期间只读
func (o *Optimizer) breed(ctx context.Context, pop []*seating.Individual, seeds []int64) ([][2]*seating.Individual, error) {
	children := make([][2]*seating.Individual, len(seeds))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(max(o.parameters.Workers, 1))

	for i, seed := range seeds {
		i, seed := i, seed
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			pair, err := o.reproduce(rand.New(rand.NewSource(seed)), pop)
			if err != nil {
				return err
			}
			children[i] = pair
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return children, nil
}
