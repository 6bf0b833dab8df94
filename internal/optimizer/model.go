package optimizer

import (
	"errors"
	"fmt"

	"github.com/sysu-ecnc-dev/seating-planner/backend/internal/seating"
)

var (
	// ErrRepairInconsistency 修复时多出的座位数和缺少的座位数不相等
	ErrRepairInconsistency = errors.New("座位安排无法修复")
	// ErrDegenerateWeights 选择算子的权重全部非正，或最小化时存在适应度为 0 的个体
	ErrDegenerateWeights = errors.New("选择权重退化")
	// ErrUnknownOperator 算子名称不存在
	ErrUnknownOperator = errors.New("未知的算子")
)

// Direction 优化方向，零值为最大化
type Direction int

const (
	Maximize Direction = iota
	Minimize
)

// Better 在当前优化方向下 a 是否严格优于 b
func (d Direction) Better(a, b float64) bool {
	if d == Minimize {
		return a < b
	}
	return a > b
}

func (d Direction) String() string {
	if d == Minimize {
		return "minimize"
	}
	return "maximize"
}

// 遗传算法参数
type Parameters struct {
	PopulationSize   int           // 种群大小
	MaxGenerations   int           // 迭代次数
	CrossoverRate    float64       // 交叉概率，每对父本判定一次
	MutationRate     float64       // 变异概率，每个子代判定一次
	EliteCount       int           // 精英数量
	Selection        SelectionKind // 选择算子
	Crossover        CrossoverKind // 交叉算子
	Mutation         MutationKind  // 变异算子
	TournamentSize   int           // 锦标赛规模，仅对 tournament 有效
	CrossoverParents int           // 多父本交叉的父本数量，仅对 multi_parent 有效
	Direction        Direction     // 优化方向
	Workers          int           // 一代之内并行繁殖的 goroutine 数量，<= 1 表示串行
}

// DefaultParameters 默认的进化参数：种群 100、迭代 100 代、交叉 0.9、变异 0.1、精英 1
func DefaultParameters() *Parameters {
	return &Parameters{
		PopulationSize:   100,
		MaxGenerations:   100,
		CrossoverRate:    0.9,
		MutationRate:     0.1,
		EliteCount:       1,
		Selection:        SelectionTournament,
		Crossover:        CrossoverCycle,
		Mutation:         MutationSwap,
		TournamentSize:   5,
		CrossoverParents: 3,
		Direction:        Maximize,
		Workers:          1,
	}
}

func (p *Parameters) Validate() error {
	if p.PopulationSize < 2 {
		return fmt.Errorf("种群大小必须 >= 2 (当前为 %d)", p.PopulationSize)
	}
	if p.MaxGenerations < 1 {
		return fmt.Errorf("迭代次数必须 >= 1 (当前为 %d)", p.MaxGenerations)
	}
	if p.EliteCount < 0 || p.EliteCount >= p.PopulationSize {
		return fmt.Errorf("精英数量必须在 [0, %d) 范围内 (当前为 %d)", p.PopulationSize, p.EliteCount)
	}
	if p.CrossoverRate < 0 || p.CrossoverRate > 1 {
		return fmt.Errorf("交叉概率必须在 [0, 1] 范围内 (当前为 %g)", p.CrossoverRate)
	}
	if p.MutationRate < 0 || p.MutationRate > 1 {
		return fmt.Errorf("变异概率必须在 [0, 1] 范围内 (当前为 %g)", p.MutationRate)
	}
	if p.Selection == SelectionTournament && p.TournamentSize < 1 {
		return fmt.Errorf("锦标赛规模必须 >= 1 (当前为 %d)", p.TournamentSize)
	}
	if p.Crossover == CrossoverMultiParent && p.CrossoverParents < 3 {
		return fmt.Errorf("多父本交叉至少需要 3 个父本 (当前为 %d)", p.CrossoverParents)
	}
	if p.Direction != Maximize && p.Direction != Minimize {
		return fmt.Errorf("未知的优化方向 %d", p.Direction)
	}
	return nil
}

// Result 一次进化的结果
type Result struct {
	Best  *seating.Individual // 最后一代的最优个体
	Trace []float64           // 每一代最优个体的适应度
}
