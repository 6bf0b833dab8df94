package seating

import "fmt"

// Individual 种群中的一个个体，构造后不可变
type Individual struct {
	layout      Layout
	matrix      *Matrix
	arrangement Arrangement
	fitness     float64
}

// NewIndividual 校验 a 并立即计算适应度，a 会被复制
func NewIndividual(layout Layout, m *Matrix, a Arrangement) (*Individual, error) {
	if m.Size() != layout.Guests {
		return nil, fmt.Errorf("关系矩阵大小 %d 与宾客数量 %d 不一致", m.Size(), layout.Guests)
	}
	if err := layout.Validate(a); err != nil {
		return nil, err
	}

	arrangement := a.Clone()
	return &Individual{
		layout:      layout,
		matrix:      m,
		arrangement: arrangement,
		fitness:     Fitness(arrangement, m, layout.Tables),
	}, nil
}

func (ind *Individual) Fitness() float64 {
	return ind.fitness
}

// Arrangement 返回座位安排的副本
func (ind *Individual) Arrangement() Arrangement {
	return ind.arrangement.Clone()
}

// Tables 桌号 -> 宾客编号列表，只用于展示和记录
func (ind *Individual) Tables() [][]int {
	return ind.arrangement.Tables(ind.layout.Tables)
}

func (ind *Individual) Layout() Layout {
	return ind.layout
}

// Clone 深拷贝，关系矩阵仍然共享
func (ind *Individual) Clone() *Individual {
	return &Individual{
		layout:      ind.layout,
		matrix:      ind.matrix,
		arrangement: ind.arrangement.Clone(),
		fitness:     ind.fitness,
	}
}

func (ind *Individual) String() string {
	s := fmt.Sprintf("fitness=%g", ind.fitness)
	for table, guests := range ind.Tables() {
		s += fmt.Sprintf(" | 桌 %d: %v", table, guests)
	}
	return s
}
