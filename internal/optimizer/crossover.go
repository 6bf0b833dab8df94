package optimizer

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/sysu-ecnc-dev/seating-planner/backend/internal/seating"
)

func checkParents(layout seating.Layout, parents ...seating.Arrangement) error {
	for i, p := range parents {
		if len(p) != layout.Guests {
			return fmt.Errorf("%w: 父本 %d 的长度为 %d，应为 %d", seating.ErrInvalidArrangement, i, len(p), layout.Guests)
		}
	}
	return nil
}

// CycleIndices 从 start 出发沿 p1、p2 之间的置换环行走，返回环上的下标
// i 的后继为 p1 中第一个等于 p2[i] 的位置，遇到已访问的下标即停止
func CycleIndices(start int, p1, p2 seating.Arrangement) []int {
	visited := make([]bool, len(p1))
	cycle := make([]int, 0)

	index := start
	for !visited[index] {
		visited[index] = true
		cycle = append(cycle, index)

		next := -1
		for j, v := range p1 {
			if v == p2[index] {
				next = j
				break
			}
		}
		if next < 0 {
			break
		}
		index = next
	}

	return cycle
}

// mixByCycle 子代 1 在环上取 p1，其余取 p2；子代 2 相反
func mixByCycle(p1, p2 seating.Arrangement, cycle []int) (seating.Arrangement, seating.Arrangement) {
	o1 := p2.Clone()
	o2 := p1.Clone()
	for _, i := range cycle {
		o1[i] = p1[i]
		o2[i] = p2[i]
	}
	return o1, o2
}

// 环交叉
func CycleCrossover(rng *rand.Rand, layout seating.Layout, p1, p2 seating.Arrangement) (seating.Arrangement, seating.Arrangement, error) {
	if err := checkParents(layout, p1, p2); err != nil {
		return nil, nil, err
	}

	start := rng.Intn(len(p1))
	o1, o2 := mixByCycle(p1, p2, CycleIndices(start, p1, p2))

	return repairPair(rng, layout, o1, o2)
}

// 单点交叉，切点在 [1, N-1] 中
func OnePointCrossover(rng *rand.Rand, layout seating.Layout, p1, p2 seating.Arrangement) (seating.Arrangement, seating.Arrangement, error) {
	if err := checkParents(layout, p1, p2); err != nil {
		return nil, nil, err
	}
	if len(p1) < 2 {
		return p1.Clone(), p2.Clone(), nil
	}

	o1, o2 := onePointCut(p1, p2, 1+rng.Intn(len(p1)-1))
	return repairPair(rng, layout, o1, o2)
}

// onePointCut 在 cut 处交换尾部，结果尚未修复
func onePointCut(p1, p2 seating.Arrangement, cut int) (seating.Arrangement, seating.Arrangement) {
	o1 := make(seating.Arrangement, 0, len(p1))
	o1 = append(append(o1, p1[:cut]...), p2[cut:]...)
	o2 := make(seating.Arrangement, 0, len(p1))
	o2 = append(append(o2, p2[:cut]...), p1[cut:]...)
	return o1, o2
}

// 均匀交叉
func UniformCrossover(rng *rand.Rand, layout seating.Layout, p1, p2 seating.Arrangement) (seating.Arrangement, seating.Arrangement, error) {
	if err := checkParents(layout, p1, p2); err != nil {
		return nil, nil, err
	}

	o1 := make(seating.Arrangement, len(p1))
	o2 := make(seating.Arrangement, len(p1))
	for i := range p1 {
		if rng.Intn(2) == 0 {
			o1[i], o2[i] = p1[i], p2[i]
		} else {
			o1[i], o2[i] = p2[i], p1[i]
		}
	}

	return repairPair(rng, layout, o1, o2)
}

// 几何交叉：对桌号做加权平均后取整
// 桌号是类别而不是数值，这个算子只是近似的
func GeometricCrossover(rng *rand.Rand, layout seating.Layout, p1, p2 seating.Arrangement) (seating.Arrangement, seating.Arrangement, error) {
	if err := checkParents(layout, p1, p2); err != nil {
		return nil, nil, err
	}

	alpha := rng.Float64()
	o1 := make(seating.Arrangement, len(p1))
	o2 := make(seating.Arrangement, len(p1))
	for i := range p1 {
		a, b := float64(p1[i]), float64(p2[i])
		o1[i] = int(math.Round(alpha*a + (1-alpha)*b))
		o2[i] = int(math.Round((1-alpha)*a + alpha*b))
	}

	return repairPair(rng, layout, o1, o2)
}

// 多父本交叉：子代每个位置独立地从随机一个父本处继承
func MultiParentCrossover(rng *rand.Rand, layout seating.Layout, parents []seating.Arrangement) (seating.Arrangement, seating.Arrangement, error) {
	if len(parents) < 3 {
		return nil, nil, fmt.Errorf("多父本交叉至少需要 3 个父本，实际为 %d", len(parents))
	}
	if err := checkParents(layout, parents...); err != nil {
		return nil, nil, err
	}

	o1 := make(seating.Arrangement, layout.Guests)
	o2 := make(seating.Arrangement, layout.Guests)
	for i := range o1 {
		o1[i] = parents[rng.Intn(len(parents))][i]
		o2[i] = parents[rng.Intn(len(parents))][i]
	}

	return repairPair(rng, layout, o1, o2)
}
